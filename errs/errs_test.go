package errs

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTypedErrorsUnwrapToSentinels(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		sentinel error
	}{
		{"framing", &FramingError{Offset: 8, Length: 100, Available: 4, Reason: "length exceeds data"}, ErrFraming},
		{"missing field", &MissingFieldError{Field: "name"}, ErrMissingField},
		{"unresolved alias", &UnresolvedAliasError{Alias: "Foo"}, ErrUnresolvedAlias},
		{"alias conflict", &AliasConflictError{Alias: "Foo", Existing: "a.Foo", Requested: "b.Foo"}, ErrAliasConflict},
		{"type mismatch", &TypeMismatchError{Field: "value", Expected: "int32", Actual: "text"}, ErrTypeMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.ErrorIs(t, tt.err, tt.sentinel)

			wrapped := fmt.Errorf("reading document: %w", tt.err)
			require.ErrorIs(t, wrapped, tt.sentinel)
			require.NotEmpty(t, tt.err.Error())
		})
	}
}

func TestMissingFieldErrorAs(t *testing.T) {
	err := fmt.Errorf("outer: %w", &MissingFieldError{Field: "value"})

	var missing *MissingFieldError
	require.True(t, errors.As(err, &missing))
	require.Equal(t, "value", missing.Field)
	require.Contains(t, err.Error(), `"value"`)
}

func TestTypeMismatchErrorMessage(t *testing.T) {
	withField := &TypeMismatchError{Field: "id", Expected: "int64", Actual: "text"}
	require.Equal(t, `wire: type mismatch for field "id": expected int64, got text`, withField.Error())

	noField := &TypeMismatchError{Expected: "int64", Actual: "text"}
	require.Equal(t, "wire: type mismatch: expected int64, got text", noField.Error())
}
