//go:build !linux

package transport

// Enumerate reports that no native HID transport exists on this platform.
// Virtual devices remain available everywhere.
func Enumerate() ([]DeviceInfo, error) {
	return nil, ErrUnsupported
}

// Open always fails on platforms without a hidraw-style device node.
func Open(path string) (Transport, error) {
	return nil, ErrUnsupported
}
