// Package virtual provides an in-process HID device exposing the vendor
// timed set-report primitive. It backs tests and the server's
// --virtual-devices flag, where report delivery can be exercised without
// hardware attached.
package virtual

import (
	"sync"
	"time"

	"github.com/openlabtools/hidlink/hiddesc"
	"github.com/openlabtools/hidlink/transport"
)

// ReportDescriptor is the HID report descriptor the loopback device
// presents: a vendor-defined page with a 64-byte output report and an
// 8-byte feature report, no report IDs.
var ReportDescriptor = []byte{
	0x06, 0x00, 0xFF, // Usage Page (Vendor Defined 0xFF00)
	0x09, 0x01, // Usage (0x01)
	0xA1, 0x01, // Collection (Application)
	0x15, 0x00, //   Logical Minimum (0)
	0x26, 0xFF, 0x00, //   Logical Maximum (255)
	0x75, 0x08, //   Report Size (8)
	0x95, 0x40, //   Report Count (64)
	0x09, 0x02, //   Usage (0x02)
	0x91, 0x02, //   Output (Data,Var,Abs)
	0x95, 0x08, //   Report Count (8)
	0x09, 0x03, //   Usage (0x03)
	0xB1, 0x02, //   Feature (Data,Var,Abs)
	0xC0, // End Collection
}

// Device is a loopback HID device. Reports delivered to it are kept for
// inspection; an injected failure code or artificial delay can be set to
// exercise the error and timeout paths of the dispatcher.
type Device struct {
	mu sync.Mutex

	lastType byte
	lastID   byte
	lastData []byte
	count    int

	failCode int64
	delay    time.Duration
	closed   bool
}

// New creates an idle loopback device.
func New() *Device { return &Device{} }

// SetReport implements transport.SetReporter. The transfer is bounded by
// the given timeout: if the configured artificial delay exceeds it, the
// call fails with ETIMEDOUT semantics (native code -1 is not used so the
// code survives the errno lookup).
func (d *Device) SetReport(reportType byte, reportID byte, data []byte, timeout time.Duration) error {
	d.mu.Lock()
	delay := d.delay
	failCode := d.failCode
	closed := d.closed
	d.mu.Unlock()

	if closed {
		return &transport.NativeError{Code: 19, Msg: "no such device"} // ENODEV
	}

	if delay > 0 {
		t := time.NewTimer(delay)
		defer t.Stop()
		deadline := time.NewTimer(timeout)
		defer deadline.Stop()
		select {
		case <-t.C:
		case <-deadline.C:
			return &transport.NativeError{Code: 110, Msg: "transfer timed out"} // ETIMEDOUT
		}
	}

	if failCode != 0 {
		return &transport.NativeError{Code: failCode, Msg: "injected device failure"}
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.lastType = reportType
	d.lastID = reportID
	d.lastData = append([]byte(nil), data...)
	d.count++
	return nil
}

// FailWith makes subsequent transfers fail with the given native code.
// Zero restores normal operation.
func (d *Device) FailWith(code int64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.failCode = code
}

// Delay makes subsequent transfers take the given time before completing,
// subject to the caller's timeout.
func (d *Device) Delay(dur time.Duration) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.delay = dur
}

// Last returns the most recently accepted report.
func (d *Device) Last() (reportType byte, reportID byte, data []byte) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.lastType, d.lastID, append([]byte(nil), d.lastData...)
}

// Count returns the number of reports accepted so far.
func (d *Device) Count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.count
}

// Close marks the device as unplugged; further transfers fail.
func (d *Device) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	return nil
}

// Info describes the loopback device in enumeration listings. Usage and
// report lengths come from parsing ReportDescriptor, the same way native
// devices are described.
func Info(index int) transport.DeviceInfo {
	sum := hiddesc.Parse(ReportDescriptor)
	return transport.DeviceInfo{
		Path:         "virtual",
		VendorID:     0x1209, // pid.codes open-source VID
		ProductID:    uint16(0x0001 + index),
		Name:         "hidlink loopback device",
		UsagePage:    sum.UsagePage,
		Usage:        sum.Usage,
		OutputLen:    sum.OutputLen,
		FeatureLen:   sum.FeatureLen,
		ReportWithID: sum.WithID,
	}
}
