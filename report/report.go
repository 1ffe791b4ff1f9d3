// Package report validates and frames HID output and feature reports
// before they are handed to a transport.
//
// Framing follows the HID convention: a nonzero report ID occupies byte 0
// of the transmitted buffer, while ID zero means "no ID framing". Transports
// that speak an in-band framing protocol (hidraw) still need a leading zero
// byte in that case; transports with a typed set-report primitive do not.
package report

import "errors"

// MaxReportSize is the largest report payload accepted for transmission.
// Feature transfers through hidraw in the wild top out well below this.
const MaxReportSize = 1024

// TriggerID is the reserved report ID that arms the acquisition scan clock
// as a side effect of transmission (see the scanclock package).
const TriggerID = 0x11

// Type enumerates the report classes that can be sent to a device.
// TypeInput exists only so it can be rejected by name: this package sends
// reports, it never reads them.
type Type int

const (
	TypeEcho    Type = 0 // diagnostic echo, no device I/O
	TypeInput   Type = 1 // invalid for sending
	TypeOutput  Type = 2
	TypeFeature Type = 3
)

// String returns the lowercase name of the report type.
func (t Type) String() string {
	switch t {
	case TypeEcho:
		return "echo"
	case TypeInput:
		return "input"
	case TypeOutput:
		return "output"
	case TypeFeature:
		return "feature"
	}
	return "invalid"
}

// Errors returned by Validate and Frame may be tested with errors.Is.
var (
	ErrReportTooBig = errors.New("report exceeds maximum allowed size")
	ErrReportEmpty  = errors.New("report is empty")
	ErrInvalidType  = errors.New("invalid report type")
)

// Validate checks a report before any device access. The first failing
// check wins: oversize, then empty, then report type. Type 1 (input) is
// rejected because this subsystem only transmits reports.
func Validate(typ Type, payload []byte) error {
	if len(payload) > MaxReportSize {
		return ErrReportTooBig
	}
	if len(payload) < 1 {
		return ErrReportEmpty
	}
	if typ != TypeEcho && typ != TypeOutput && typ != TypeFeature {
		return ErrInvalidType
	}
	return nil
}

// Frame validates the report and returns a freshly allocated buffer ready
// for transmission. The caller's payload is never modified.
//
// For a nonzero id, byte 0 of the framed buffer is overwritten with the low
// byte of id and the length equals len(payload); callers must reserve that
// leading byte themselves, exactly as with FrameInPlace. For id zero with
// needsIDByte set, the framed buffer is one byte longer with a zero byte
// prepended. Otherwise the payload is copied unchanged.
func Frame(typ Type, id int, payload []byte, needsIDByte bool) ([]byte, error) {
	if err := Validate(typ, payload); err != nil {
		return nil, err
	}

	if id != 0 {
		framed := make([]byte, len(payload))
		copy(framed, payload)
		framed[0] = byte(id & 0xff)
		return framed, nil
	}

	if needsIDByte {
		framed := make([]byte, len(payload)+1)
		copy(framed[1:], payload)
		return framed, nil
	}

	framed := make([]byte, len(payload))
	copy(framed, payload)
	return framed, nil
}

// FrameInPlace stamps the report ID over byte 0 of the caller's buffer and
// returns it. This mutates caller memory; it exists for callers that depend
// on the historical byte-0 clobbering behavior. Zero-ID reports are returned
// untouched, so the staged leading-byte injection of Frame does not apply.
func FrameInPlace(typ Type, id int, payload []byte) ([]byte, error) {
	if err := Validate(typ, payload); err != nil {
		return nil, err
	}
	if id != 0 {
		payload[0] = byte(id & 0xff)
	}
	return payload, nil
}
