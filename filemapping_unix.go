//go:build unix

package linguist

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

func (m *fileMapping) tryMap(f *os.File) error {
	fi, err := f.Stat()
	if err != nil {
		return err
	}
	if !fi.Mode().IsRegular() {
		return errors.New("not a regular file")
	}

	size := fi.Size()
	if size == 0 {
		return nil
	}
	if size != int64(int(size)) {
		return fmt.Errorf("file %q is too large", fi.Name())
	}
	m.data, err = unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_PRIVATE)
	if err != nil {
		return err
	}
	m.isMapped = true
	return nil
}

func (m *fileMapping) closeMapping() error {
	data := m.data
	m.data = nil
	return unix.Munmap(data)
}
