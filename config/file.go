package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// FileName is the config file looked up in the working directory and its parents.
const FileName = ".linksweep.toml"

// maxParentLookup bounds how far up the tree Find searches.
const maxParentLookup = 3

// LoadFile decodes a TOML config file. Unknown keys are not an error; they
// are returned so the caller can log them.
func LoadFile(path string) (Settings, []string, error) {
	var s Settings
	md, err := toml.DecodeFile(path, &s)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Settings{}, nil, fmt.Errorf("%w: could not read config file %q: %w", ErrInvalid, path, err)
		}
		return Settings{}, nil, fmt.Errorf("%w: invalid TOML in config file %q: %w", ErrInvalid, path, err)
	}

	undecoded := md.Undecoded()
	unknown := make([]string, 0, len(undecoded))
	for _, key := range undecoded {
		unknown = append(unknown, key.String())
	}
	return s, unknown, nil
}

// Find looks for FileName in dir and up to three parent directories.
// Returns "" when none exists.
func Find(dir string) string {
	current := dir
	for range maxParentLookup + 1 {
		candidate := filepath.Join(current, FileName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate
		}
		parent := filepath.Dir(current)
		if parent == current {
			break
		}
		current = parent
	}
	return ""
}
