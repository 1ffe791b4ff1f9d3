package send

import (
	"errors"

	"github.com/openlabtools/hidlink/transport"
)

// Result is the normalized outcome of one transmission attempt. Code zero
// is the only success signal; nonzero codes carry a symbolic name and a
// human-readable description of the native failure.
//
// Transport failures are reported through Result, not through a Go error:
// callers are expected to inspect Code. Only preflight failures (bad size,
// bad type, bad device index) surface as errors from Send.
type Result struct {
	Code        int64  `json:"code"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Success is the zero-code result shared by the echo path and every
// completed transfer.
var Success = Result{}

// Failed reports whether the result carries a nonzero code.
func (r Result) Failed() bool { return r.Code != 0 }

// codeNames covers the native codes produced by in-tree transports and the
// common unplug/stall failures seen from real devices. Codes outside the
// table still normalize, with a generic name.
var codeNames = map[int64]struct{ name, desc string }{
	1:   {"EPERM", "operation not permitted"},
	5:   {"EIO", "input/output error"},
	16:  {"EBUSY", "device or resource busy"},
	19:  {"ENODEV", "no such device"},
	32:  {"EPIPE", "broken pipe (endpoint stall)"},
	71:  {"EPROTO", "protocol error"},
	110: {"ETIMEDOUT", "transfer timed out"},
}

// normalize maps the outcome of a native transmission primitive onto the
// uniform result contract. A nil error is success regardless of the byte
// count; any error becomes a nonzero code resolved against the native code
// lookup.
func normalize(err error) Result {
	if err == nil {
		return Success
	}

	var native *transport.NativeError
	if errors.As(err, &native) {
		return lookup(native.Code, native.Msg)
	}

	if code, name, desc, ok := errnoOf(err); ok {
		return Result{Code: code, Name: name, Description: desc}
	}

	// No native code to report; hidapi-style catch-all.
	return Result{Code: -1, Name: "ERROR", Description: err.Error()}
}

func lookup(code int64, fallback string) Result {
	if code == 0 {
		return Success
	}
	if e, ok := codeNames[code]; ok {
		return Result{Code: code, Name: e.name, Description: e.desc}
	}
	if fallback == "" {
		fallback = "unrecognized native error"
	}
	return Result{Code: code, Name: "ERROR", Description: fallback}
}
