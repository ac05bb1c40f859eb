package section

const (
	// Bit masks of the 32-bit document header word.
	LengthMask      uint32 = 0x3FFF_FFFF // Mask for the payload length (bits 0-29)
	MetaDataMask    uint32 = 0x4000_0000 // Mask for the meta-data flag (bit 30)
	NotCompleteMask uint32 = 0x8000_0000 // Mask for the not-complete flag (bit 31)
)

const (
	HeaderSize    = 4                // document header size in bytes
	MaxLength     = int(LengthMask)  // largest payload a header can describe
	ObjectLenSize = 4                // length prefix size of nested objects and sequences
)
