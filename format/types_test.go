package format

import (
	"testing"

	"github.com/arloliu/wire/errs"
	"github.com/stretchr/testify/require"
)

func TestWireTypeString(t *testing.T) {
	require.Equal(t, "Binary", Binary.String())
	require.Equal(t, "FieldlessBinary", FieldlessBinary.String())
	require.Equal(t, "Text", Text.String())
	require.Equal(t, "JSON", JSON.String())
	require.Equal(t, "NumericBinary", NumericBinary.String())
	require.Equal(t, "Unknown", WireType(0).String())
}

func TestWireTypeTraits(t *testing.T) {
	require.True(t, Binary.IsKeyed())
	require.False(t, FieldlessBinary.IsKeyed())
	require.True(t, Text.IsKeyed())
	require.True(t, JSON.IsKeyed())
	require.True(t, NumericBinary.IsKeyed())

	require.False(t, Binary.IsTextual())
	require.True(t, Text.IsTextual())
	require.True(t, JSON.IsTextual())
	require.False(t, NumericBinary.IsTextual())
}

func TestParseWireType(t *testing.T) {
	tests := []struct {
		in   string
		want WireType
	}{
		{"binary", Binary},
		{"BIN", Binary},
		{"fieldless", FieldlessBinary},
		{"Fieldless-Binary", FieldlessBinary},
		{"text", Text},
		{" yaml ", Text},
		{"json", JSON},
		{"numeric", NumericBinary},
		{"Numeric_Binary", NumericBinary},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseWireType(tt.in)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}

	_, err := ParseWireType("xml")
	require.ErrorIs(t, err, errs.ErrUnsupportedWireType)
}

func TestTagFixedSize(t *testing.T) {
	require.Equal(t, 4, TagInt32.FixedSize())
	require.Equal(t, 8, TagInt64.FixedSize())
	require.Equal(t, 8, TagFloat64.FixedSize())
	require.Equal(t, 0, TagTrue.FixedSize())
	require.Equal(t, 0, TagNull.FixedSize())
	require.Equal(t, -1, TagText.FixedSize())
	require.Equal(t, -1, TagMarshallable.FixedSize())
}

func TestTagString(t *testing.T) {
	require.Equal(t, "text", TagText.String())
	require.Equal(t, "bool", TagFalse.String())
	require.Equal(t, "field-number", TagFieldNumber.String())
	require.Equal(t, -1, TagFieldNumber.FixedSize())
	require.Equal(t, "unknown(0x01)", Tag(0x01).String())
}
