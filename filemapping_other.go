//go:build !unix

package linguist

import (
	"errors"
	"os"
)

func (m *fileMapping) tryMap(f *os.File) error {
	return errors.New("memory mapping not supported")
}

func (m *fileMapping) closeMapping() error {
	return nil
}
