package transport_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openlabtools/hidlink/transport"
)

type recordingSetReporter struct {
	typ     byte
	id      byte
	data    []byte
	timeout time.Duration
	err     error
	closed  bool
}

func (r *recordingSetReporter) SetReport(reportType byte, reportID byte, data []byte, timeout time.Duration) error {
	r.typ = reportType
	r.id = reportID
	r.data = append([]byte(nil), data...)
	r.timeout = timeout
	return r.err
}

func (r *recordingSetReporter) Close() error {
	r.closed = true
	return nil
}

func TestVendorTimedOutput(t *testing.T) {
	rec := &recordingSetReporter{}
	vt := transport.NewVendorTimed(rec)

	n, err := vt.SendOutput(5, []byte{0x05, 0xaa})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	// Output maps to the vendor's 0-based type enumeration.
	assert.Equal(t, byte(1), rec.typ)
	assert.Equal(t, byte(5), rec.id)
	assert.Equal(t, []byte{0x05, 0xaa}, rec.data)
	assert.Equal(t, transport.VendorTimeout, rec.timeout)
}

func TestVendorTimedFeature(t *testing.T) {
	rec := &recordingSetReporter{}
	vt := transport.NewVendorTimed(rec)

	_, err := vt.SendFeature(0x11, []byte{0x11, 0x10})
	require.NoError(t, err)
	assert.Equal(t, byte(2), rec.typ)
	assert.Equal(t, byte(0x11), rec.id)
}

func TestVendorTimedPropagatesError(t *testing.T) {
	rec := &recordingSetReporter{err: &transport.NativeError{Code: 19}}
	vt := transport.NewVendorTimed(rec)

	n, err := vt.SendOutput(0, []byte{0x01})
	assert.Zero(t, n)
	var native *transport.NativeError
	assert.ErrorAs(t, err, &native)
}

func TestVendorTimedNoFramingByte(t *testing.T) {
	vt := transport.NewVendorTimed(&recordingSetReporter{})
	assert.False(t, vt.NeedsIDByte())
	assert.Equal(t, "vendor", vt.Kind())
}

func TestVendorTimedCloseForwards(t *testing.T) {
	rec := &recordingSetReporter{}
	vt := transport.NewVendorTimed(rec)
	require.NoError(t, vt.Close())
	assert.True(t, rec.closed)
}
