package checksum_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mtrevisan/boxon/checksum"
)

func TestCRC16IBMKnownVector(t *testing.T) {
	t.Parallel()

	c := checksum.CRC16IBM()
	// "123456789" -> CRC-16/ARC = 0xBB3D (well-known check value)
	got := c.Calculate([]byte("123456789"), 0, 9)
	require.Equal(t, uint64(0xBB3D), got)
}

func TestCRCFlipBitChangesChecksum(t *testing.T) {
	t.Parallel()

	c := checksum.CRC16IBM()
	data := []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08}
	base := c.Calculate(data, 0, len(data))

	for i := range data {
		for bit := 0; bit < 8; bit++ {
			flipped := make([]byte, len(data))
			copy(flipped, data)
			flipped[i] ^= 1 << uint(bit)
			got := c.Calculate(flipped, 0, len(flipped))
			require.NotEqual(t, base, got, "flipping byte %d bit %d did not change checksum", i, bit)
		}
	}
}

func TestRegistryBuiltins(t *testing.T) {
	t.Parallel()

	r := checksum.NewRegistry()
	_, ok := r.Lookup("CRC-16")
	require.True(t, ok)
	_, ok = r.Lookup("CRC-16/IBM")
	require.True(t, ok)
	_, ok = r.Lookup("unknown")
	require.False(t, ok)
}
