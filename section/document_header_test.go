package section

import (
	"testing"

	"github.com/arloliu/wire/endian"
	"github.com/arloliu/wire/errs"
	"github.com/stretchr/testify/require"
)

func TestDocumentHeader_Word(t *testing.T) {
	tests := []struct {
		name   string
		header DocumentHeader
		word   uint32
	}{
		{"empty data", DocumentHeader{}, 0},
		{"data", DocumentHeader{Length: 42}, 42},
		{"meta-data", DocumentHeader{Length: 42, MetaData: true}, 0x4000_002A},
		{"not complete", DocumentHeader{Length: 7, NotComplete: true}, 0x8000_0007},
		{"max length", DocumentHeader{Length: LengthMask, MetaData: true}, 0x7FFF_FFFF},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.word, tt.header.Word())
			require.Equal(t, tt.header, ParseWord(tt.word))
		})
	}
}

func TestNewDocumentHeader(t *testing.T) {
	h := NewDocumentHeader(100, true)
	require.Equal(t, uint32(100), h.Length)
	require.True(t, h.MetaData)
	require.False(t, h.NotComplete)
	require.Equal(t, "meta-data", h.Kind())
	require.Equal(t, "data", NewDocumentHeader(0, false).Kind())
}

func TestPlaceholder(t *testing.T) {
	h := ParseWord(Placeholder(true).Word())
	require.True(t, h.NotComplete)
	require.True(t, h.MetaData)
	require.Zero(t, h.Length)
}

func TestDocumentHeader_ParseBytes(t *testing.T) {
	for _, engine := range []endian.EndianEngine{endian.GetLittleEndianEngine(), endian.GetBigEndianEngine()} {
		t.Run(endian.Name(engine), func(t *testing.T) {
			original := NewDocumentHeader(1234, true)
			data := original.Bytes(engine)
			require.Len(t, data, HeaderSize)

			var parsed DocumentHeader
			require.NoError(t, parsed.Parse(data, engine))
			require.Equal(t, original, parsed)
		})
	}

	t.Run("invalid size", func(t *testing.T) {
		var h DocumentHeader
		err := h.Parse([]byte{1, 2, 3}, endian.GetLittleEndianEngine())
		require.ErrorIs(t, err, errs.ErrInvalidHeaderSize)
	})
}
