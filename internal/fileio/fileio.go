// Package fileio reads and writes whole files for the command line tool.
// Outputs are written to a temporary sibling and renamed into place, so a
// failed write never leaves a partial file behind.
package fileio

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/dchest/uniuri"
)

var (
	// ErrNotFound indicates the input path does not exist.
	ErrNotFound = errors.New("file not found")
	// ErrUnreadable indicates the input exists but cannot be read.
	ErrUnreadable = errors.New("file unreadable")
	// ErrUnwritable indicates the output cannot be created or written.
	ErrUnwritable = errors.New("file unwritable")
)

const tempSuffixLen = 8

// ReadFile returns the whole content of path.
func ReadFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrUnreadable, path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnreadable, path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s: is a directory", ErrUnreadable, path)
	}

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnreadable, path, err)
	}
	return data, nil
}

// TempName returns the name WriteFile stages path under.
func TempName(path string) string {
	dir, base := filepath.Split(path)
	return filepath.Join(dir, "."+base+"."+uniuri.NewLen(tempSuffixLen)+".tmp")
}

// WriteFile replaces path with data.
func WriteFile(path string, data []byte) (err error) {
	tmp := TempName(path)
	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrUnwritable, path, err)
	}
	defer func() {
		if err != nil {
			f.Close()
			os.Remove(tmp)
		}
	}()

	if _, err = f.Write(data); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrUnwritable, path, err)
	}
	if err = f.Sync(); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrUnwritable, path, err)
	}
	if err = f.Close(); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrUnwritable, path, err)
	}
	if err = os.Rename(tmp, path); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrUnwritable, path, err)
	}
	return nil
}
