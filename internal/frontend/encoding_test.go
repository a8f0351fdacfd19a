package frontend

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecodeWire(t *testing.T) {
	assert.Equal(t, "hello", decodeWire([]byte("hello")))
	assert.Equal(t, "café", decodeWire([]byte{'c', 'a', 'f', 0xE9}))
}

func TestEncodeWire(t *testing.T) {
	assert.Equal(t, []byte("hello"), encodeWire("hello"))
	assert.Equal(t, []byte{'c', 'a', 'f', 0xE9}, encodeWire("café"))
}

func TestEncodeWireReplacesUnsupported(t *testing.T) {
	// Characters outside latin-1 must not abort the write.
	out := encodeWire("snowman ☃")
	assert.Len(t, out, len("snowman ")+1)
}
