package finder

import (
	"errors"
	"fmt"
	"os"

	"github.com/edsrzf/mmap-go"
)

// mmapThreshold is the file size from which content is memory-mapped
// instead of copied onto the heap.
const mmapThreshold = 1 << 20

// readContent returns the bytes of path and a release func that must be
// called once the bytes are no longer referenced. Empty files yield nil.
func readContent(path string) ([]byte, func() error, error) {
	noop := func() error { return nil }

	info, err := os.Stat(path)
	if err != nil {
		return nil, noop, fmt.Errorf("stat: %w", err)
	}
	if info.IsDir() {
		return nil, noop, fmt.Errorf("read %s: is a directory", path)
	}
	if info.Size() == 0 {
		return nil, noop, nil
	}

	if info.Size() < mmapThreshold {
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, noop, fmt.Errorf("read: %w", err)
		}
		return content, noop, nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, noop, fmt.Errorf("open: %w", err)
	}
	mapped, err := mmap.Map(file, mmap.RDONLY, 0)
	if err != nil {
		_ = file.Close()
		return nil, noop, fmt.Errorf("mmap: %w", err)
	}

	release := func() error {
		var errs []error
		if err := mapped.Unmap(); err != nil {
			errs = append(errs, fmt.Errorf("unmap: %w", err))
		}
		if err := file.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close file: %w", err))
		}
		return errors.Join(errs...)
	}
	return mapped, release, nil
}
