// Package registry tracks open HID devices and hands them out by index.
// Indices are stable for the lifetime of a registration: removing a device
// leaves a gap rather than renumbering its neighbors, so scripted callers
// can cache indices safely.
package registry

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/openlabtools/hidlink/transport"
)

// Device is one registered HID device: its enumeration info plus the
// transport selected when it was opened. The transport choice is made once
// here, never per send call.
type Device struct {
	Index     int
	Info      transport.DeviceInfo
	Transport transport.Transport
}

// ErrNoDevice is wrapped into lookup failures for unknown indices.
var ErrNoDevice = errors.New("no device registered at index")

// Registry is a mutex-guarded device table.
type Registry struct {
	mu      sync.RWMutex
	devices map[int]*Device
	next    int
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{devices: make(map[int]*Device)}
}

// Register adds a device and returns its assigned index.
func (r *Registry) Register(info transport.DeviceInfo, t transport.Transport) *Device {
	r.mu.Lock()
	defer r.mu.Unlock()
	d := &Device{Index: r.next, Info: info, Transport: t}
	r.devices[d.Index] = d
	r.next++
	return d
}

// ByIndex returns the device registered at the given index.
func (r *Registry) ByIndex(index int) (*Device, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.devices[index]
	if !ok {
		return nil, fmt.Errorf("%w %d", ErrNoDevice, index)
	}
	return d, nil
}

// List returns all registered devices in index order.
func (r *Registry) List() []*Device {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Device, 0, len(r.devices))
	for _, d := range r.devices {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	return out
}

// Remove closes and drops the device at the given index.
func (r *Registry) Remove(index int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.devices[index]
	if !ok {
		return fmt.Errorf("%w %d", ErrNoDevice, index)
	}
	delete(r.devices, index)
	return d.Transport.Close()
}

// Close drops every device, closing the transports. The first close error
// is returned, after all devices have been dropped.
func (r *Registry) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	var first error
	for idx, d := range r.devices {
		if err := d.Transport.Close(); err != nil && first == nil {
			first = err
		}
		delete(r.devices, idx)
	}
	return first
}

// Rescan enumerates native HID devices and registers any whose path is not
// already present. Returns the number of newly registered devices. A
// platform without native transports yields zero registrations, not an
// error, so virtual-only setups keep working.
func (r *Registry) Rescan() (int, error) {
	infos, err := transport.Enumerate()
	if err != nil {
		if errors.Is(err, transport.ErrUnsupported) {
			return 0, nil
		}
		return 0, err
	}

	known := make(map[string]bool)
	for _, d := range r.List() {
		known[d.Info.Path] = true
	}

	added := 0
	for _, info := range infos {
		if known[info.Path] {
			continue
		}
		t, err := transport.Open(info.Path)
		if err != nil {
			continue
		}
		r.Register(info, t)
		added++
	}
	return added, nil
}
