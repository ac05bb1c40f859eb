package section

import (
	"github.com/arloliu/wire/endian"
	"github.com/arloliu/wire/errs"
)

// DocumentHeader is the decoded form of a document header word.
type DocumentHeader struct {
	// Length is the payload size in bytes, excluding the header.
	Length uint32
	// MetaData marks the document as meta-data rather than data.
	MetaData bool
	// NotComplete marks a document whose writer has not finished it.
	NotComplete bool
}

// NewDocumentHeader creates a complete header for a payload of length bytes.
func NewDocumentHeader(length int, metaData bool) DocumentHeader {
	return DocumentHeader{Length: uint32(length) & LengthMask, MetaData: metaData} //nolint:gosec
}

// Placeholder returns the header a writer reserves before the payload is known.
func Placeholder(metaData bool) DocumentHeader {
	return DocumentHeader{MetaData: metaData, NotComplete: true}
}

// Word packs the header into its 32-bit representation.
func (h DocumentHeader) Word() uint32 {
	w := h.Length & LengthMask
	if h.MetaData {
		w |= MetaDataMask
	}
	if h.NotComplete {
		w |= NotCompleteMask
	}

	return w
}

// ParseWord unpacks a 32-bit header word.
func ParseWord(w uint32) DocumentHeader {
	return DocumentHeader{
		Length:      w & LengthMask,
		MetaData:    w&MetaDataMask != 0,
		NotComplete: w&NotCompleteMask != 0,
	}
}

// Parse decodes the header from data, which must be exactly HeaderSize bytes.
func (h *DocumentHeader) Parse(data []byte, engine endian.EndianEngine) error {
	if len(data) != HeaderSize {
		return errs.ErrInvalidHeaderSize
	}
	*h = ParseWord(engine.Uint32(data))

	return nil
}

// Bytes serializes the header using engine.
func (h DocumentHeader) Bytes(engine endian.EndianEngine) []byte {
	return engine.AppendUint32(make([]byte, 0, HeaderSize), h.Word())
}

// Kind returns "meta-data" or "data".
func (h DocumentHeader) Kind() string {
	if h.MetaData {
		return "meta-data"
	}

	return "data"
}
