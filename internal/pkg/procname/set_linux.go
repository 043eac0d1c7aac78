//go:build linux

package procname

import (
	"errors"
	"unsafe"

	"golang.org/x/sys/unix"
)

// Set renames the calling thread group via PR_SET_NAME.
func Set(name string) error {
	name = Clip(name)
	if name == "" {
		return errors.New("procname: empty name")
	}
	buf, err := unix.ByteSliceFromString(name)
	if err != nil {
		return err
	}
	return unix.Prctl(unix.PR_SET_NAME, uintptr(unsafe.Pointer(&buf[0])), 0, 0, 0)
}
