package transport

import "time"

// Vendor set-report type codes, 0-based as in vendor HID interfaces
// (input=0, output=1, feature=2). One below the wire report type.
const (
	vendorReportOutput  = 1
	vendorReportFeature = 2
)

// SetReporter is the low-level timed set-report primitive exposed by vendor
// device interfaces and by in-process virtual devices. Implementations must
// return within the given timeout.
type SetReporter interface {
	SetReport(reportType byte, reportID byte, data []byte, timeout time.Duration) error
}

// VendorTimed adapts a SetReporter primitive to the Transport interface.
// Every transfer is bounded by VendorTimeout. The primitive takes the
// report type and ID as separate arguments, so no in-band framing byte is
// required for zero-ID reports.
type VendorTimed struct {
	dev SetReporter
}

// NewVendorTimed wraps a vendor set-report primitive.
func NewVendorTimed(dev SetReporter) *VendorTimed {
	return &VendorTimed{dev: dev}
}

func (v *VendorTimed) SendOutput(id byte, p []byte) (int, error) {
	return v.set(vendorReportOutput, id, p)
}

func (v *VendorTimed) SendFeature(id byte, p []byte) (int, error) {
	return v.set(vendorReportFeature, id, p)
}

func (v *VendorTimed) set(typ byte, id byte, p []byte) (int, error) {
	if err := v.dev.SetReport(typ, id, p, VendorTimeout); err != nil {
		return 0, err
	}
	return len(p), nil
}

func (v *VendorTimed) NeedsIDByte() bool { return false }

func (v *VendorTimed) Kind() string { return "vendor" }

func (v *VendorTimed) Close() error {
	if c, ok := v.dev.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}
