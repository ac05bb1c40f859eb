// Package endian provides the byte order used by the binary wire formats.
//
// The binary codecs write fixed-width integers, floats, nested object lengths
// and document headers through an EndianEngine, so a wire can be switched to
// big-endian layout for interoperability without touching codec code:
//
//	engine := endian.GetLittleEndianEngine()
//	buf = engine.AppendUint32(buf, uint32(length))
//
// Little-endian is the default for every wire.
//
// # Thread Safety
//
// The returned EndianEngine instances are immutable and safe for concurrent use.
package endian

import "encoding/binary"

// EndianEngine combines ByteOrder and AppendByteOrder interfaces from encoding/binary
// into a single interface.
//
// The interface is satisfied by binary.LittleEndian and binary.BigEndian.
type EndianEngine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// GetLittleEndianEngine returns the little-endian engine.
func GetLittleEndianEngine() EndianEngine {
	return binary.LittleEndian
}

// GetBigEndianEngine returns the big-endian engine.
func GetBigEndianEngine() EndianEngine {
	return binary.BigEndian
}

// IsBigEndian reports whether engine writes the most significant byte first.
func IsBigEndian(engine EndianEngine) bool {
	return engine == binary.BigEndian
}

// Name returns "little" or "big" for logging and dumps.
func Name(engine EndianEngine) string {
	if IsBigEndian(engine) {
		return "big"
	}

	return "little"
}
