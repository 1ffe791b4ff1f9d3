package apiclient

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFillPath(t *testing.T) {
	assert.Equal(t, "device/4/send",
		fillPath("device/{index}/send", map[string]string{"index": "4"}))
	assert.Equal(t, "ping", fillPath("ping", nil))
	assert.Equal(t, "a/1/b/2",
		fillPath("a/{x}/b/{y}", map[string]string{"x": "1", "y": "2"}))
}

func TestToPayloadBytes(t *testing.T) {
	b, ok := toPayloadBytes(nil)
	assert.False(t, ok)
	assert.Nil(t, b)

	b, ok = toPayloadBytes([]byte{1, 2})
	assert.True(t, ok)
	assert.Equal(t, []byte{1, 2}, b)

	b, ok = toPayloadBytes("hello")
	assert.True(t, ok)
	assert.Equal(t, []byte("hello"), b)

	b, ok = toPayloadBytes(map[string]int{"a": 1})
	assert.True(t, ok)
	assert.JSONEq(t, `{"a":1}`, string(b))
}
