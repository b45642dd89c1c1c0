// Package hivefile loads a hive file into a private, immutable byte slice.
// The whole file is read before any decoding begins, so later writes to or
// truncation of the file on disk cannot affect a loaded buffer.
package hivefile

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// MaxSize bounds the files Read will load. Hive offsets are 32-bit and
// relative to the 4 KiB base block.
const MaxSize = 1<<32 + 0x1000

// Read returns the contents of the file at path. If the file shrinks while
// it is being read, the bytes read so far are returned.
func Read(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	if !info.Mode().IsRegular() {
		// pipes and devices report no useful size
		return readAll(f, path)
	}
	size := info.Size()
	if size > MaxSize || int64(int(size)) != size {
		return nil, fmt.Errorf("hivefile: %s: file too large (%d bytes)", path, size)
	}

	adviseSequential(f)
	data := make([]byte, size)
	n, err := io.ReadFull(f, data)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("hivefile: read %s: %w", path, err)
	}
	return data[:n], nil
}

func readAll(r io.Reader, path string) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxSize+1))
	if err != nil {
		return nil, fmt.Errorf("hivefile: read %s: %w", path, err)
	}
	if len(data) > MaxSize {
		return nil, fmt.Errorf("hivefile: %s: file too large", path)
	}
	return data, nil
}
