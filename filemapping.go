package linguist

import (
	"io"
	"os"
	"runtime"
)

// fileMapping holds the contents of a catalog file, memory mapped where
// the platform allows it.
type fileMapping struct {
	data []byte

	isMapped bool
}

func (m *fileMapping) Close() error {
	runtime.SetFinalizer(m, nil)
	if !m.isMapped {
		m.data = nil
		return nil
	}
	m.isMapped = false
	return m.closeMapping()
}

func openMapping(f *os.File) (*fileMapping, error) {
	m := new(fileMapping)

	if err := m.tryMap(f); err == nil {
		runtime.SetFinalizer(m, (*fileMapping).Close)
		return m, nil
	}
	// Pipes and special files cannot be mapped: read them instead.
	if _, err := f.Seek(0, io.SeekStart); err != nil && !isPipe(f) {
		return nil, err
	}
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}
	m.data = data
	return m, nil
}

func isPipe(f *os.File) bool {
	fi, err := f.Stat()
	return err == nil && fi.Mode()&os.ModeNamedPipe != 0
}
