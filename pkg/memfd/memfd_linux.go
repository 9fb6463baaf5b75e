//go:build linux

package memfd

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// create opens an anonymous memory file. Flags are deliberately zero:
// MFD_CLOEXEC must stay unset so the descriptor survives exec.
func create(name string) (int, error) {
	return unix.MemfdCreate(name, 0)
}

func preallocate(fd int, size int64) error {
	return unix.Ftruncate(fd, size)
}

func writeAt(fd int, p []byte, off int64) error {
	for len(p) > 0 {
		n, err := unix.Pwrite(fd, p, off)
		if err != nil {
			return err
		}
		p = p[n:]
		off += int64(n)
	}
	return nil
}

func fdPath(fd int) string {
	return fmt.Sprintf("/proc/self/fd/%d", fd)
}

func closeFD(fd int) error {
	return unix.Close(fd)
}
