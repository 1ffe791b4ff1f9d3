// Package apitypes defines the wire structures of the hidlink control API.
package apitypes

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
)

// ApiError represents an RFC 7807 (problem+json) error response.
type ApiError struct {
	// Status is the HTTP-style status code (e.g., 400, 404, 500)
	Status int `json:"status"`
	// Title is a short, human-readable summary of the problem type
	Title string `json:"title"`
	// Detail is a human-readable explanation specific to this occurrence
	Detail string `json:"detail"`
}

func (e ApiError) Error() string {
	if e.Status == 0 && e.Title == "" {
		return "unknown error"
	}
	if e.Status == 0 {
		return fmt.Sprintf("%s: %s", e.Title, e.Detail)
	}
	return fmt.Sprintf("%d %s: %s", e.Status, e.Title, e.Detail)
}

// --

type PingResponse struct {
	Server  string `json:"server"`
	Version string `json:"version"`
}

// Device describes one registered device in listings.
type Device struct {
	Index     int    `json:"index"`
	Path      string `json:"path"`
	Vid       string `json:"vid"`
	Pid       string `json:"pid"`
	Name      string `json:"name"`
	Transport string `json:"transport"`
}

type DeviceListResponse struct {
	Devices []Device `json:"devices"`
}

type RescanResponse struct {
	Added int `json:"added"`
}

// SendRequest asks the server to transmit one report. The report type may
// be given numerically (0, 2, 3) or by name ("echo", "output", "feature");
// the report payload is hex-encoded.
type SendRequest struct {
	Type     int    `json:"type"`
	ReportID int    `json:"reportId"`
	Report   string `json:"report"`
}

// UnmarshalJSON accepts both numeric and symbolic report types.
func (r *SendRequest) UnmarshalJSON(data []byte) error {
	var raw struct {
		Type     any    `json:"type"`
		ReportID int    `json:"reportId"`
		Report   string `json:"report"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	r.ReportID = raw.ReportID
	r.Report = raw.Report

	switch v := raw.Type.(type) {
	case nil:
		return fmt.Errorf("missing report type")
	case float64:
		r.Type = int(v)
	case string:
		t, err := ParseReportType(v)
		if err != nil {
			return err
		}
		r.Type = t
	default:
		return fmt.Errorf("report type must be a number or a name")
	}
	return nil
}

// Payload decodes the hex-encoded report bytes. Whitespace and an optional
// 0x prefix are tolerated.
func (r *SendRequest) Payload() ([]byte, error) {
	s := strings.Map(func(c rune) rune {
		if c == ' ' || c == '\t' {
			return -1
		}
		return c
	}, r.Report)
	s = strings.TrimPrefix(strings.ToLower(s), "0x")
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("report must be hex encoded: %w", err)
	}
	return b, nil
}

// ParseReportType maps a symbolic report type name to its numeric value.
func ParseReportType(s string) (int, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "echo":
		return 0, nil
	case "output":
		return 2, nil
	case "feature":
		return 3, nil
	}
	return 0, fmt.Errorf("unknown report type %q", s)
}

// SendResponse mirrors the normalized transmission result: code zero means
// the device accepted the report.
type SendResponse struct {
	Code        int64  `json:"code"`
	Name        string `json:"name"`
	Description string `json:"description"`
}
