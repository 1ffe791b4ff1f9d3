package scanclock_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/openlabtools/hidlink/scanclock"
)

func TestUnsetUntilFirstMark(t *testing.T) {
	c := scanclock.New(nil)
	_, ok := c.Last()
	assert.False(t, ok)
}

func TestMarkUsesTimeSource(t *testing.T) {
	now := 1.0
	c := scanclock.New(func() float64 { return now })

	c.Mark()
	ts, ok := c.Last()
	assert.True(t, ok)
	assert.Equal(t, 1.0, ts)

	now = 2.5
	c.Mark()
	ts, _ = c.Last()
	assert.Equal(t, 2.5, ts)
}

func TestDefaultSourceMonotonic(t *testing.T) {
	a := scanclock.Seconds()
	b := scanclock.Seconds()
	assert.GreaterOrEqual(t, b, a)
}
