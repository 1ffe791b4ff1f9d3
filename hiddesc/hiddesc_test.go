package hiddesc_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/openlabtools/hidlink/hiddesc"
)

// Standard 3-button boot mouse descriptor: no report IDs, input only.
var bootMouse = []byte{
	0x05, 0x01, // Usage Page (Generic Desktop)
	0x09, 0x02, // Usage (Mouse)
	0xa1, 0x01, // Collection (Application)
	0x09, 0x01, //   Usage (Pointer)
	0xa1, 0x00, //   Collection (Physical)
	0x05, 0x09, //     Usage Page (Buttons)
	0x19, 0x01, //     Usage Minimum (1)
	0x29, 0x03, //     Usage Maximum (3)
	0x15, 0x00, //     Logical Minimum (0)
	0x25, 0x01, //     Logical Maximum (1)
	0x95, 0x03, //     Report Count (3)
	0x75, 0x01, //     Report Size (1)
	0x81, 0x02, //     Input (Data, Variable)
	0x95, 0x01, //     Report Count (1)
	0x75, 0x05, //     Report Size (5)
	0x81, 0x03, //     Input (Constant)
	0x05, 0x01, //     Usage Page (Generic Desktop)
	0x09, 0x30, //     Usage (X)
	0x09, 0x31, //     Usage (Y)
	0x15, 0x81, //     Logical Minimum (-127)
	0x25, 0x7f, //     Logical Maximum (127)
	0x75, 0x08, //     Report Size (8)
	0x95, 0x02, //     Report Count (2)
	0x81, 0x06, //     Input (Data, Variable, Relative)
	0xc0, //   End Collection
	0xc0, // End Collection
}

// Vendor-defined device using report IDs with output and feature reports.
var vendorDefined = []byte{
	0x06, 0x00, 0xff, // Usage Page (Vendor Defined)
	0x09, 0x01, // Usage (1)
	0xa1, 0x01, // Collection (Application)
	0x85, 0x01, //   Report ID (1)
	0x75, 0x08, //   Report Size (8)
	0x95, 0x08, //   Report Count (8)
	0x81, 0x00, //   Input
	0x85, 0x02, //   Report ID (2)
	0x95, 0x04, //   Report Count (4)
	0x91, 0x00, //   Output
	0x85, 0x03, //   Report ID (3)
	0x95, 0x02, //   Report Count (2)
	0xb1, 0x00, //   Feature
	0xc0, // End Collection
}

func TestParseBootMouse(t *testing.T) {
	s := hiddesc.Parse(bootMouse)

	assert.Equal(t, uint16(0x01), s.UsagePage)
	assert.Equal(t, uint16(0x02), s.Usage)
	assert.Equal(t, uint16(3), s.InputLen)
	assert.Equal(t, uint16(0), s.OutputLen)
	assert.Equal(t, uint16(0), s.FeatureLen)
	assert.False(t, s.WithID)
}

func TestParseVendorDefined(t *testing.T) {
	s := hiddesc.Parse(vendorDefined)

	assert.Equal(t, uint16(0xff00), s.UsagePage)
	assert.Equal(t, uint16(0x01), s.Usage)
	assert.Equal(t, uint16(8), s.InputLen)
	assert.Equal(t, uint16(4), s.OutputLen)
	assert.Equal(t, uint16(2), s.FeatureLen)
	assert.True(t, s.WithID)
}

func TestParseEmpty(t *testing.T) {
	s := hiddesc.Parse(nil)
	assert.Equal(t, hiddesc.Summary{}, s)
}

func TestParseTruncatedItemIgnored(t *testing.T) {
	// A 2-byte item prefix with only one byte of data left.
	s := hiddesc.Parse([]byte{0x05, 0x01, 0x09})
	assert.Equal(t, uint16(0x01), s.UsagePage)
}
