// Package testing provides shared helpers for hidlink tests.
package testing

import (
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/openlabtools/hidlink/internal/server/api"
	"github.com/openlabtools/hidlink/registry"
	"github.com/openlabtools/hidlink/transport"
)

// SentReport records one transfer accepted by a MockTransport.
type SentReport struct {
	Feature bool
	ID      byte
	Data    []byte
}

// MockTransport implements transport.Transport and records every transfer
// for inspection. Err, when set, fails transfers with that error.
type MockTransport struct {
	mu      sync.Mutex
	NeedsID bool
	Err     error
	Sent    []SentReport
	Closed  bool
}

func (m *MockTransport) SendOutput(id byte, p []byte) (int, error) {
	return m.record(false, id, p)
}

func (m *MockTransport) SendFeature(id byte, p []byte) (int, error) {
	return m.record(true, id, p)
}

func (m *MockTransport) record(feature bool, id byte, p []byte) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return 0, m.Err
	}
	m.Sent = append(m.Sent, SentReport{Feature: feature, ID: id, Data: append([]byte(nil), p...)})
	return len(p), nil
}

// Reports returns a copy of the recorded transfers.
func (m *MockTransport) Reports() []SentReport {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]SentReport(nil), m.Sent...)
}

func (m *MockTransport) NeedsIDByte() bool { return m.NeedsID }

func (m *MockTransport) Kind() string { return "mock" }

func (m *MockTransport) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Closed = true
	return nil
}

// NewRegistryWithMock returns a fresh registry with one mock device
// registered at index 0.
func NewRegistryWithMock(t *testing.T, mock *MockTransport) *registry.Registry {
	t.Helper()
	reg := registry.New()
	reg.Register(transport.DeviceInfo{Path: "mock", Name: "mock device"}, mock)
	return reg
}

// DiscardLogger returns a logger that swallows everything.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// StartAPIServer starts a control API server on a loopback port with the
// given routes registered and returns its address and a shutdown func.
func StartAPIServer(t *testing.T, cfg api.ServerConfig, register func(r *api.Router)) (string, func()) {
	t.Helper()
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:0"
	}
	srv := api.New(cfg, DiscardLogger())
	register(srv.Router())
	if err := srv.Start(); err != nil {
		t.Fatalf("start api server: %v", err)
	}
	return srv.Addr(), srv.Close
}
