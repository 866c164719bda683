package securemem

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromStringRoundTrip(t *testing.T) {
	b := FromString("correct horse battery staple")
	defer b.Destroy()

	assert.Equal(t, "correct horse battery staple", b.String())
	assert.Equal(t, 28, b.Len())
}

func TestFromBytesCopies(t *testing.T) {
	src := []byte{1, 2, 3}
	b := FromBytes(src)
	defer b.Destroy()

	src[0] = 99
	assert.Equal(t, []byte{1, 2, 3}, b.Bytes())
}

func TestDestroyWipes(t *testing.T) {
	b := FromString("secret")
	data := b.Bytes()
	require.NotEmpty(t, data)

	b.Destroy()

	// The original backing array must be zeroed
	for _, v := range data {
		assert.Zero(t, v)
	}
	assert.Nil(t, b.Bytes())
	assert.Zero(t, b.Len())
	assert.False(t, b.Locked())
}

func TestDestroyIdempotent(t *testing.T) {
	b := FromString("secret")
	b.Destroy()
	assert.NotPanics(t, func() { b.Destroy() })
}

func TestZero(t *testing.T) {
	data := []byte{4, 5, 6}
	Zero(data)
	assert.Equal(t, []byte{0, 0, 0}, data)
}
