//go:build linux

package send

import (
	"errors"

	"golang.org/x/sys/unix"
)

// errnoOf extracts the errno behind a failed write(2) or ioctl(2) so the
// result carries the kernel's own code and symbolic name.
func errnoOf(err error) (int64, string, string, bool) {
	var errno unix.Errno
	if !errors.As(err, &errno) {
		return 0, "", "", false
	}
	name := unix.ErrnoName(errno)
	if name == "" {
		name = "ERROR"
	}
	return int64(errno), name, errno.Error(), true
}
