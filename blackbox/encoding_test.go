package blackbox

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeOne(t *testing.T, e Encoding, extra int, b []byte) []uint32 {
	t.Helper()
	r := NewReader(b)
	var out []uint32
	err := e.decodeInto(r, extra, &out)
	require.NoError(t, err)
	return out
}

func TestVariableDecode(t *testing.T) {
	assert.Equal(t, []uint32{0xFF}, decodeOne(t, EncodingVariable, 0, []byte{0xFF, 0x01}))
	assert.Equal(t, []uint32{0x3FFF}, decodeOne(t, EncodingVariable, 0, []byte{0xFF, 0x7F}))
	assert.Equal(t, []uint32{0xFFFFFFFF}, decodeOne(t, EncodingVariable, 0, []byte{0xFF, 0xFF, 0xFF, 0xFF, 0x7F}))

	r := NewReader([]byte{0x80, 0x80, 0x80, 0x80, 0x80})
	var out []uint32
	err := EncodingVariable.decodeInto(r, 0, &out)
	require.Error(t, err)
	assert.True(t, isRetry(err))
}

func TestVariableZero(t *testing.T) {
	assert.Equal(t, []uint32{0}, decodeOne(t, EncodingVariable, 0, []byte{0x00}))
	assert.Equal(t, []uint32{0}, decodeOne(t, EncodingVariable, 0, []byte{0x80, 0x00}))
}

func TestTagged16(t *testing.T) {
	assert.Equal(t, []uint32{1, 2, 3, 4},
		decodeOne(t, EncodingTagged16, 3, []byte{0xFF, 0, 1, 0, 2, 0, 3, 0, 4}))

	assert.Equal(t, []uint32{0, 1, 2, 3},
		decodeOne(t, EncodingTagged16, 3, []byte{0b1110_0100, 0x10, 0x20, 0x00, 0x30}))

	out := decodeOne(t, EncodingTagged16, 3, []byte{0x30, 181, 61})
	require.Len(t, out, 4)
	assert.Equal(t, int32(0), int32(out[0]))
	assert.Equal(t, int32(0), int32(out[1]))
	assert.Equal(t, int32(-19139), int32(out[2]))
	assert.Equal(t, int32(0), int32(out[3]))
}

func TestTagged32(t *testing.T) {
	out := decodeOne(t, EncodingTagged32, 2, []byte{0x0D})
	require.Len(t, out, 3)
	assert.Equal(t, int32(0), int32(out[0]))
	assert.Equal(t, int32(-1), int32(out[1]))
	assert.Equal(t, int32(1), int32(out[2]))

	out = decodeOne(t, EncodingTagged32, 2, []byte{0x41, 0x23})
	assert.Equal(t, []int32{1, 2, 3}, toI32Slice(out))

	out = decodeOne(t, EncodingTagged32, 2, []byte{0x81, 0x02, 0x03})
	assert.Equal(t, []int32{1, 2, 3}, toI32Slice(out))
}

func toI32Slice(vs []uint32) []int32 {
	out := make([]int32, len(vs))
	for i, v := range vs {
		out[i] = int32(v)
	}
	return out
}

func TestTaggedVariable(t *testing.T) {
	out := decodeOne(t, EncodingTaggedVariable, 1, []byte{0b0000_0011, 0x02, 0x02})
	assert.Equal(t, []int32{1, 1}, toI32Slice(out))

	r := NewReader([]byte{0b0000_0111, 0x02, 0x02, 0x02})
	var bad []uint32
	err := EncodingTaggedVariable.decodeInto(r, 1, &bad)
	require.Error(t, err)
	assert.True(t, isRetry(err))
}

func TestZigZagRoundTrip(t *testing.T) {
	for _, v := range []int32{0, 1, -1, 1000, -1000, 2147483647, -2147483648} {
		assert.Equal(t, v, zigZagDecode(zigZagEncode(v)))
	}
}

func TestSignExtend(t *testing.T) {
	assert.Equal(t, int32(-2), signExtend(0b10, 2))
	assert.Equal(t, int32(1), signExtend(0b01, 2))
}
