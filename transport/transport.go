// Package transport defines the device-side primitives used to deliver
// framed HID reports, and the concrete transports available per platform.
//
// A Transport is selected once when a device is opened, so the send path
// never branches on platform details: it only chooses between SendOutput
// and SendFeature based on the report type.
package transport

import (
	"errors"
	"fmt"
	"time"
)

// VendorTimeout bounds the low-level set-report primitive on the vendor
// path so a wedged device fails the call instead of hanging it forever.
const VendorTimeout = 50 * time.Millisecond

// ErrUnsupported is returned when no native HID transport exists for the
// current platform.
var ErrUnsupported = errors.New("hid transport not supported on this platform")

// Transport delivers framed report buffers to a device. Implementations
// invoke exactly one native primitive per call and return the number of
// bytes accepted by the device, or an error carrying the native failure.
//
// The report ID is passed alongside the buffer: in-band transports (hidraw)
// already see it in byte 0 and ignore the argument, while vendor primitives
// take it as a separate parameter.
type Transport interface {
	// SendOutput transmits an output report.
	SendOutput(id byte, p []byte) (int, error)
	// SendFeature transmits a feature report.
	SendFeature(id byte, p []byte) (int, error)
	// NeedsIDByte reports whether the transport requires an in-band
	// leading report-ID byte even for reports with ID zero.
	NeedsIDByte() bool
	// Kind identifies the transport variant ("hidraw", "vendor", ...).
	Kind() string
	// Close releases the underlying device handle.
	Close() error
}

// DeviceInfo describes an enumerated HID device before it is opened.
type DeviceInfo struct {
	// Path is the platform-specific device node used to open the device.
	Path string
	// BusType is the kernel bus identifier (USB, Bluetooth, ...).
	BusType uint32
	// VendorID and ProductID identify the device model.
	VendorID  uint16
	ProductID uint16
	// Name is the human-readable device name reported by the kernel.
	Name string
	// UsagePage and Usage come from the top-level collection of the
	// report descriptor.
	UsagePage uint16
	Usage     uint16
	// OutputLen and FeatureLen are the largest report payloads the
	// descriptor declares per direction, in bytes.
	OutputLen  uint16
	FeatureLen uint16
	// ReportWithID is set when the descriptor assigns report IDs.
	ReportWithID bool
}

func (i DeviceInfo) String() string {
	return fmt.Sprintf("%s %04x:%04x %q", i.Path, i.VendorID, i.ProductID, i.Name)
}

// NativeError carries the raw status code of a failed vendor set-report
// primitive so the result normalizer can map it symbolically.
type NativeError struct {
	Code int64
	Msg  string
}

func (e *NativeError) Error() string {
	if e.Msg == "" {
		return fmt.Sprintf("native error 0x%x", uint64(e.Code))
	}
	return fmt.Sprintf("%s (0x%x)", e.Msg, uint64(e.Code))
}
