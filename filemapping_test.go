package linguist

import (
	"bytes"
	"os"
	"testing"
)

func TestFileMapping(t *testing.T) {
	file, err := os.Open("testdata/ru_RU.ts")
	if err != nil {
		t.Fatal(err)
	}
	defer file.Close()
	fi, err := file.Stat()
	if err != nil {
		t.Fatal(err)
	}

	m, err := openMapping(file)
	if err != nil {
		t.Fatal(err)
	}
	if !m.isMapped {
		t.Fatal("file content was not mapped")
	}

	if int64(len(m.data)) != fi.Size() {
		t.Logf("mapping size mismatch: %d != %d", len(m.data), fi.Size())
		t.Fail()
	}
	if !bytes.HasPrefix(m.data, []byte("<?xml")) {
		t.Logf("unexpected data in mapping: %q", m.data[:5])
		t.Fail()
	}

	err = m.Close()
	if err != nil {
		t.Fatal(err)
	}
}

func TestFileMappingEmptyFile(t *testing.T) {
	file, err := os.CreateTemp(t.TempDir(), "empty")
	if err != nil {
		t.Fatal(err)
	}
	defer file.Close()

	m, err := openMapping(file)
	if err != nil {
		t.Fatal(err)
	}
	if len(m.data) != 0 {
		t.Fatalf("unexpected data: %q", m.data)
	}
	if err := m.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestFileMappingFallback(t *testing.T) {
	// We can't memory map a pipe, so this should result in
	// falling back to simply reading the data in to memory
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	go func() {
		w.Write([]byte("Hello world!"))
		w.Close()
	}()

	m, err := openMapping(r)
	if err != nil {
		t.Fatal(err)
	}
	if m.isMapped {
		t.Fatal("expected file content not to be mapped")
	}

	// Expect content read from pipe
	if !bytes.Equal(m.data, []byte("Hello world!")) {
		t.Logf("unexpected data: %q", m.data)
		t.Fail()
	}

	err = m.Close()
	if err != nil {
		t.Fatal(err)
	}
}
