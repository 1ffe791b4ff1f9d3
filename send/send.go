// Package send implements the report transmission pipeline: preflight
// validation, framing, dispatch to the device transport, and normalization
// of the native outcome into a single result contract.
//
// The pipeline has two distinct failure channels, on purpose. Structural
// problems with the request (oversize or empty report, invalid type,
// unknown device index) abort the call with a Go error before any device
// access. Failures of the transmission itself never do: they come back as
// a Result with a nonzero code. Callers that want to know whether the
// device got the report must check Result.Code.
package send

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/openlabtools/hidlink/registry"
	"github.com/openlabtools/hidlink/report"
	"github.com/openlabtools/hidlink/scanclock"
)

// Sender dispatches reports to registered devices. One Send call runs the
// whole pipeline to completion; the only blocking inside it is the bounded
// vendor-primitive timeout.
type Sender struct {
	registry *registry.Registry
	clock    *scanclock.Clock
	echo     io.Writer
	logger   *slog.Logger
}

// New creates a Sender. The echo writer receives the diagnostic trace for
// echo-type reports (stdout when nil). The clock is marked whenever a
// report with the trigger ID is dispatched to a device.
func New(reg *registry.Registry, clock *scanclock.Clock, echo io.Writer, logger *slog.Logger) *Sender {
	if echo == nil {
		echo = os.Stdout
	}
	if logger == nil {
		logger = slog.Default()
	}
	if clock == nil {
		clock = scanclock.New(nil)
	}
	return &Sender{registry: reg, clock: clock, echo: echo, logger: logger}
}

// Clock returns the scan clock marked by trigger reports.
func (s *Sender) Clock() *scanclock.Clock { return s.clock }

// Send transmits one report to the device at deviceIndex.
//
// Echo-type reports are validated and framed like any other but never
// touch a device: the framed bytes are traced to the echo writer and the
// result is success. For the other types exactly one native primitive is
// invoked. Sending a report with ID 0x11 marks the scan clock after the
// transfer, whether or not the transfer succeeded; the echo path does not
// mark it.
func (s *Sender) Send(deviceIndex int, typ report.Type, id int, payload []byte) (Result, error) {
	if typ == report.TypeEcho {
		framed, err := report.Frame(typ, id, payload, false)
		if err != nil {
			return Result{}, err
		}
		s.trace(typ, id, framed)
		return Success, nil
	}

	// Validate before the device lookup so a bad report fails the same
	// way regardless of the index being valid.
	if err := report.Validate(typ, payload); err != nil {
		return Result{}, err
	}

	dev, err := s.registry.ByIndex(deviceIndex)
	if err != nil {
		return Result{}, err
	}

	framed, err := report.Frame(typ, id, payload, dev.Transport.NeedsIDByte())
	if err != nil {
		return Result{}, err
	}

	var (
		n       int
		sendErr error
	)
	switch typ {
	case report.TypeOutput:
		n, sendErr = dev.Transport.SendOutput(byte(id&0xff), framed)
	case report.TypeFeature:
		n, sendErr = dev.Transport.SendFeature(byte(id&0xff), framed)
	default:
		return Result{}, fmt.Errorf("%w: %d", report.ErrInvalidType, int(typ))
	}

	// Trigger reports arm the acquisition clock no matter how the
	// transfer went.
	if id == report.TriggerID {
		s.clock.Mark()
	}

	res := normalize(sendErr)
	if res.Failed() {
		s.logger.Debug("report transfer failed",
			"device", deviceIndex, "type", typ.String(), "id", id,
			"code", res.Code, "name", res.Name)
	} else {
		s.logger.Debug("report sent",
			"device", deviceIndex, "type", typ.String(), "id", id,
			"transport", dev.Transport.Kind(), "bytes", n)
	}
	return res, nil
}

// trace writes the human-readable echo line: the report type, ID, and each
// framed byte in decimal with a trailing space before the closing paren.
func (s *Sender) trace(typ report.Type, id int, framed []byte) {
	fmt.Fprintf(s.echo, "SetReport(reportType %d, reportID %d, report ", int(typ), id)
	for _, b := range framed {
		fmt.Fprintf(s.echo, "%d ", b)
	}
	fmt.Fprintln(s.echo, ")")
}
