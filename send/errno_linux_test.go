//go:build linux

package send

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/sys/unix"
)

func TestNormalizeErrno(t *testing.T) {
	err := os.NewSyscallError("HIDIOCSFEATURE", unix.EPIPE)
	r := normalize(err)
	assert.Equal(t, int64(unix.EPIPE), r.Code)
	assert.Equal(t, "EPIPE", r.Name)
	assert.True(t, r.Failed())
}

func TestNormalizePathErrorErrno(t *testing.T) {
	err := &os.PathError{Op: "write", Path: "/dev/hidraw0", Err: unix.ENODEV}
	r := normalize(err)
	assert.Equal(t, int64(unix.ENODEV), r.Code)
	assert.Equal(t, "ENODEV", r.Name)
}
