// Package hiddesc extracts the few report-descriptor facts the send path
// cares about: top-level usage, per-direction maximum report sizes, and
// whether the device assigns report IDs at all.
package hiddesc

// Summary holds the distilled view of one HID report descriptor.
type Summary struct {
	UsagePage  uint16
	Usage      uint16
	InputLen   uint16
	OutputLen  uint16
	FeatureLen uint16
	// WithID is set when any REPORT_ID item appears; such devices expect
	// every transfer to begin with a report ID byte.
	WithID bool
}

type sizes map[uint32]uint32

func (s sizes) maxBytes() uint16 {
	var rv uint32
	for _, bits := range s {
		if b := (bits + 7) / 8; b > rv {
			rv = b
		}
	}
	return uint16(rv)
}

func itemValue(size byte, buf []byte) uint32 {
	if int(size) > len(buf) {
		return 0
	}
	var v uint32
	for i := int(size) - 1; i >= 0; i-- {
		v = v<<8 | uint32(buf[i])
	}
	return v
}

// Parse walks a raw report descriptor. Malformed trailing items are
// ignored rather than rejected: enumeration should degrade, not fail.
func Parse(desc []byte) Summary {
	var (
		s          Summary
		depth      int
		reportID   uint32
		reportSize uint32
		reportCnt  uint32

		input   = sizes{}
		output  = sizes{}
		feature = sizes{}
	)

	for i := 0; i < len(desc); {
		prefix := desc[i]
		tag := prefix >> 4
		typ := (prefix >> 2) & 0b11
		size := prefix & 0b11
		if size == 3 {
			size = 4
		}
		i++

		switch typ {
		case 0: // main items
			switch tag {
			case 8: // INPUT
				input[reportID] += reportCnt * reportSize
			case 9: // OUTPUT
				output[reportID] += reportCnt * reportSize
			case 10: // COLLECTION
				depth++
			case 11: // FEATURE
				feature[reportID] += reportCnt * reportSize
			case 12: // END COLLECTION
				depth--
			}

		case 1: // global items
			switch tag {
			case 0: // USAGE PAGE
				if depth == 0 {
					s.UsagePage = uint16(itemValue(size, desc[i:]))
				}
			case 7: // REPORT SIZE
				reportSize = itemValue(size, desc[i:])
			case 8: // REPORT ID
				reportID = itemValue(size, desc[i:])
				s.WithID = true
			case 9: // REPORT COUNT
				reportCnt = itemValue(size, desc[i:])
			}

		case 2: // local items
			if tag == 0 && depth == 0 { // USAGE
				s.Usage = uint16(itemValue(size, desc[i:]))
			}
		}

		i += int(size)
	}

	s.InputLen = input.maxBytes()
	s.OutputLen = output.maxBytes()
	s.FeatureLen = feature.maxBytes()
	return s
}
