package bcs

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestULEB128(t *testing.T) {
	tests := []struct {
		value uint32
		want  []byte
	}{
		{0, []byte{0x00}},
		{1, []byte{0x01}},
		{127, []byte{0x7f}},
		{128, []byte{0x80, 0x01}},
		{300, []byte{0xac, 0x02}},
		{16384, []byte{0x80, 0x80, 0x01}},
	}

	for _, tt := range tests {
		got := NewEncoder().ULEB128(tt.value).Bytes()
		assert.Equal(t, tt.want, got, "encode %d", tt.value)

		v, err := NewDecoder(got).ULEB128()
		require.NoError(t, err)
		assert.Equal(t, tt.value, v)
	}
}

func TestFixedWidthIntegersAreLittleEndian(t *testing.T) {
	assert.Equal(t, []byte{0x34, 0x12}, U16(0x1234))
	assert.Equal(t, []byte{0x00, 0xca, 0x9a, 0x3b, 0, 0, 0, 0}, U64(1_000_000_000))
	assert.Equal(t, []byte{0x01}, Bool(true))
}

func TestDecodeU64(t *testing.T) {
	d := NewDecoder([]byte{0x40, 0x78, 0x7d, 0x01, 0, 0, 0, 0})
	v, err := d.U64()
	require.NoError(t, err)
	assert.Equal(t, uint64(25_000_000), v)
	assert.NoError(t, d.Done())
}

func TestDecodeShortInput(t *testing.T) {
	_, err := NewDecoder([]byte{1, 2, 3}).U64()
	assert.ErrorIs(t, err, ErrUnexpectedEOF)
}

func TestDecodeInvalidBool(t *testing.T) {
	_, err := NewDecoder([]byte{2}).Bool()
	assert.Error(t, err)
}

func TestStringAndVector(t *testing.T) {
	enc := NewEncoder().String("票务").VecU8([]byte{9, 8})
	d := NewDecoder(enc.Bytes())

	s, err := d.String()
	require.NoError(t, err)
	assert.Equal(t, "票务", s)

	b, err := d.VecU8()
	require.NoError(t, err)
	assert.Equal(t, []byte{9, 8}, b)
	assert.NoError(t, d.Done())
}

func TestU128(t *testing.T) {
	enc := NewEncoder()
	require.NoError(t, enc.U128(big.NewInt(258)))
	assert.Equal(t, append([]byte{0x02, 0x01}, make([]byte, 14)...), enc.Bytes())

	v, err := NewDecoder(enc.Bytes()).U128()
	require.NoError(t, err)
	assert.Equal(t, int64(258), v.Int64())

	tooBig := new(big.Int).Lsh(big.NewInt(1), 128)
	assert.ErrorIs(t, NewEncoder().U128(tooBig), ErrOverflow)
}

func TestOptionAndVec(t *testing.T) {
	enc := NewEncoder().
		Option(false, nil).
		Option(true, func(e *Encoder) { e.U8(7) }).
		Vec(2, func(i int, e *Encoder) { e.U16(uint16(i)) })

	assert.Equal(t, []byte{0, 1, 7, 2, 0, 0, 1, 0}, enc.Bytes())
}
