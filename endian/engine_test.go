package endian

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEngines(t *testing.T) {
	require := require.New(t)

	little := GetLittleEndianEngine()
	big := GetBigEndianEngine()

	require.Equal(binary.LittleEndian, little)
	require.Equal(binary.BigEndian, big)
	require.False(IsBigEndian(little))
	require.True(IsBigEndian(big))
	require.Equal("little", Name(little))
	require.Equal("big", Name(big))
}

func TestEngineAppendLayout(t *testing.T) {
	little := GetLittleEndianEngine().AppendUint32(nil, 0x01020304)
	big := GetBigEndianEngine().AppendUint32(nil, 0x01020304)

	require.Equal(t, []byte{0x04, 0x03, 0x02, 0x01}, little)
	require.Equal(t, []byte{0x01, 0x02, 0x03, 0x04}, big)
	require.Equal(t, uint32(0x01020304), GetLittleEndianEngine().Uint32(little))
	require.Equal(t, uint32(0x01020304), GetBigEndianEngine().Uint32(big))
}
