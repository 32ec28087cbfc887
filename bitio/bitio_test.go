package bitio_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mtrevisan/boxon/bitio"
)

func TestBitSetReverseBits(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in, want byte
	}{
		{0x10, 0x08},
		{0x16, 0x68},
		{0xE7, 0xE7},
	}
	for _, tc := range cases {
		got := bitio.ValueOf([]byte{tc.in}).ReverseBits(8)
		want := bitio.ValueOf([]byte{tc.want})
		require.True(t, got.Equal(want), "reverse(%#x) = %v, want %v", tc.in, got, want)
	}
}

func TestReverseBitsIsInvolution(t *testing.T) {
	t.Parallel()

	bs := bitio.ValueOf([]byte{0x5A, 0x01})
	twice := bs.ReverseBits(16).ReverseBits(16)
	require.True(t, bs.Equal(twice))
}

func TestInteger16BigEndianByteImage(t *testing.T) {
	t.Parallel()

	w := bitio.NewWriter()
	require.NoError(t, w.PutInteger(big.NewInt(0x1234), 16, bitio.BigEndian))
	require.Equal(t, []byte{0x12, 0x34}, w.Flush())

	r := bitio.NewReader([]byte{0x12, 0x34})
	v, err := r.GetInteger(16, bitio.BigEndian, false)
	require.NoError(t, err)
	require.Equal(t, int64(0x1234), v.Int64())
}

func TestInteger16LittleEndianRoundTrip(t *testing.T) {
	t.Parallel()

	w := bitio.NewWriter()
	require.NoError(t, w.PutInteger(big.NewInt(0x0010), 16, bitio.LittleEndian))
	require.Equal(t, []byte{0x10, 0x00}, w.Flush())

	r := bitio.NewReader([]byte{0x10, 0x00})
	v, err := r.GetInteger(16, bitio.LittleEndian, false)
	require.NoError(t, err)
	require.Equal(t, int64(0x0010), v.Int64())
}

func TestInteger16LittleEndianSigned(t *testing.T) {
	t.Parallel()

	w := bitio.NewWriter()
	require.NoError(t, w.PutInteger(big.NewInt(0x8010), 16, bitio.LittleEndian))
	require.Equal(t, []byte{0x10, 0x80}, w.Flush())

	r := bitio.NewReader([]byte{0x10, 0x80})
	v, err := r.GetInteger(16, bitio.LittleEndian, true)
	require.NoError(t, err)
	// 0x8010 interpreted as a 16-bit two's complement value is negative.
	want := big.NewInt(0x8010)
	want.Sub(want, big.NewInt(1<<16))
	require.Equal(t, want.Int64(), v.Int64())
}

func TestReaderBufferUnderflow(t *testing.T) {
	t.Parallel()

	r := bitio.NewReader([]byte{0x01})
	_, err := r.GetBits(16)
	require.ErrorIs(t, err, bitio.ErrBufferUnderflow)
}

func TestTextTerminated(t *testing.T) {
	t.Parallel()

	w := bitio.NewWriter()
	require.NoError(t, w.PutTextTerminated("hello", '$', bitio.ASCII))
	buf := w.Flush()
	require.Equal(t, "hello$", string(buf))

	r := bitio.NewReader(buf)
	s, err := r.GetTextUntil('$', bitio.ASCII, true)
	require.NoError(t, err)
	require.Equal(t, "hello", s)
}

func TestAlignToByte(t *testing.T) {
	t.Parallel()

	r := bitio.NewReader([]byte{0xFF, 0xAA})
	_, err := r.GetBits(3)
	require.NoError(t, err)
	r.AlignToByte()
	require.EqualValues(t, 8, r.BitOffset())
	b, err := r.GetByte()
	require.NoError(t, err)
	require.Equal(t, byte(0xAA), b)
}
