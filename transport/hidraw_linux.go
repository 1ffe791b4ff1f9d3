//go:build linux

package transport

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/openlabtools/hidlink/hiddesc"
)

// hidraw ioctl numbers ('H' ioctl class). The length-dependent ones get
// the transfer size or-ed into bits 16..29.
const (
	hidIocGRDescSize = 0x80044801
	hidIocGRDesc     = 0x90044802
	hidIocGRawInfo   = 0x80084803
	hidIocGRawName   = 0x80004804
	hidIocSFeature   = 0xc0004806
)

const maxDescriptorSize = 4096

type rawDescriptor struct {
	size  uint32
	value [maxDescriptorSize]byte
}

type rawDevInfo struct {
	bustype uint32
	vendor  int16
	product int16
}

// Hidraw is the generic-write transport over a /dev/hidrawN node. Output
// reports go through write(2), feature reports through the HIDIOCSFEATURE
// ioctl. The kernel expects every buffer to start with a report ID byte
// (zero when the device does not use IDs), so NeedsIDByte is always true.
type Hidraw struct {
	path string
	file *os.File
}

// Open opens a hidraw device node for sending reports.
func Open(path string) (Transport, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return &Hidraw{path: path, file: f}, nil
}

func (h *Hidraw) SendOutput(_ byte, p []byte) (int, error) {
	return h.file.Write(p)
}

func (h *Hidraw) SendFeature(_ byte, p []byte) (int, error) {
	buf := make([]byte, len(p))
	copy(buf, p)

	_, _, errno := unix.Syscall(
		unix.SYS_IOCTL,
		h.file.Fd(),
		uintptr(uint32(hidIocSFeature)|uint32(len(buf))<<16),
		uintptr(unsafe.Pointer(&buf[0])),
	)
	runtime.KeepAlive(buf)

	if errno != 0 {
		return 0, os.NewSyscallError("HIDIOCSFEATURE", errno)
	}
	return len(p), nil
}

func (h *Hidraw) NeedsIDByte() bool { return true }

func (h *Hidraw) Kind() string { return "hidraw" }

func (h *Hidraw) Path() string { return h.path }

func (h *Hidraw) Close() error { return h.file.Close() }

// Enumerate lists the hidraw device nodes present on the system, in path
// order. Nodes that cannot be opened (permissions, races with unplug) are
// skipped instead of failing the whole scan.
func Enumerate() ([]DeviceInfo, error) {
	paths, err := filepath.Glob("/dev/hidraw*")
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)

	var infos []DeviceInfo
	for _, p := range paths {
		info, err := probe(p)
		if err != nil {
			continue
		}
		infos = append(infos, info)
	}
	return infos, nil
}

func probe(path string) (DeviceInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return DeviceInfo{}, err
	}
	defer f.Close()

	info := DeviceInfo{Path: path}

	var raw rawDevInfo
	if err := ioctl(f, hidIocGRawInfo, unsafe.Pointer(&raw)); err != nil {
		return DeviceInfo{}, err
	}
	info.BusType = raw.bustype
	info.VendorID = uint16(raw.vendor)
	info.ProductID = uint16(raw.product)

	var name [256]byte
	if err := ioctl(f, uint32(hidIocGRawName)|uint32(len(name))<<16, unsafe.Pointer(&name[0])); err == nil {
		info.Name = strings.TrimRight(string(name[:]), "\x00")
	}

	var desc rawDescriptor
	if err := ioctl(f, hidIocGRDescSize, unsafe.Pointer(&desc.size)); err == nil && desc.size <= maxDescriptorSize {
		if err := ioctl(f, hidIocGRDesc, unsafe.Pointer(&desc)); err == nil {
			s := hiddesc.Parse(desc.value[:desc.size])
			info.UsagePage = s.UsagePage
			info.Usage = s.Usage
			info.OutputLen = s.OutputLen
			info.FeatureLen = s.FeatureLen
			info.ReportWithID = s.WithID
		}
	}

	return info, nil
}

func ioctl(f *os.File, req uint32, arg unsafe.Pointer) error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, f.Fd(), uintptr(req), uintptr(arg))
	if errno != 0 {
		return errno
	}
	return nil
}
