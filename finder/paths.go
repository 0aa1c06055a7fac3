package finder

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// ErrDirectoryNotRecursive is returned for a directory argument when
// recursive expansion is off.
var ErrDirectoryNotRecursive = errors.New("is a directory, use --recursive to process directories")

// vcsDirs are never descended into.
var vcsDirs = map[string]bool{".git": true, ".hg": true, ".svn": true}

// ExpandPaths turns file and directory arguments into the list of files to
// scan. Directories are walked only when recursive is set; hidden files are
// included. When fileTypes is non-empty only files with one of those
// extensions are kept, and "" selects files without an extension.
// A path that appears twice is scanned once.
func ExpandPaths(inputs []string, recursive bool, fileTypes []string) ([]string, error) {
	filter := newExtFilter(fileTypes)
	seen := make(map[string]bool)
	var paths []string

	add := func(path string) {
		if !filter.allows(path) || seen[path] {
			return
		}
		seen[path] = true
		paths = append(paths, path)
	}

	for _, input := range inputs {
		info, err := os.Stat(input)
		if err != nil {
			return nil, &DiscoveryError{Path: input, Err: err}
		}

		if !info.IsDir() {
			add(input)
			continue
		}
		if !recursive {
			return nil, &DiscoveryError{Path: input, Err: ErrDirectoryNotRecursive}
		}

		walkErr := filepath.WalkDir(input, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != input && vcsDirs[d.Name()] {
					return filepath.SkipDir
				}
				return nil
			}
			if isFile(path, d) {
				add(path)
			}
			return nil
		})
		if walkErr != nil {
			return nil, &DiscoveryError{Path: input, Err: fmt.Errorf("walk directory: %w", walkErr)}
		}
	}

	return paths, nil
}

// isFile reports whether a walked entry is a regular file, following
// symlinks so linked documents are scanned too.
func isFile(path string, d fs.DirEntry) bool {
	if d.Type().IsRegular() {
		return true
	}
	if d.Type()&fs.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

type extFilter map[string]bool

func newExtFilter(fileTypes []string) extFilter {
	if len(fileTypes) == 0 {
		return nil
	}
	filter := make(extFilter, len(fileTypes))
	for _, ext := range fileTypes {
		filter[strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))] = true
	}
	return filter
}

func (f extFilter) allows(path string) bool {
	if f == nil {
		return true
	}
	return f[strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))]
}
