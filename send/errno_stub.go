//go:build !linux

package send

// errnoOf has nothing to unwrap on platforms without a native transport.
func errnoOf(err error) (int64, string, string, bool) {
	return 0, "", "", false
}
