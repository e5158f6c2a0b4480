package recipe

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Ext is the filename suffix for descriptor documents in a recipes
// directory.
const Ext = ".recipe.yaml"

// ReadError describes a failure to load a single descriptor file.
type ReadError struct {
	Filename string
	Err      error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("%s: %v", e.Filename, e.Err)
}

// DirEntry pairs a loaded descriptor with the file it came from.
type DirEntry struct {
	Filename   string
	Descriptor Descriptor
}

// DirResult contains the results of loading a recipes directory,
// including any per-file errors that occurred during the operation.
type DirResult struct {
	Entries []DirEntry
	Errors  []ReadError
}

// LoadFile reads and decodes one descriptor document.
func LoadFile(path string) (*Descriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read descriptor: %w", err)
	}

	d, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return d, nil
}

// SaveFile writes a descriptor's canonical document form to path
// (0600: owner-only read/write).
func SaveFile(path string, d *Descriptor) error {
	data, err := Encode(d)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write descriptor: %w", err)
	}
	return nil
}

// LoadDir loads every *.recipe.yaml document in dir, in filename order.
// Files that fail to decode are collected in the result's Errors slice
// rather than causing the entire operation to fail. A non-nil error
// return indicates a total failure (e.g., the directory is unreadable).
func LoadDir(dir string) (*DirResult, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read recipes directory: %w", err)
	}

	result := &DirResult{}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), Ext) {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			result.Errors = append(result.Errors, ReadError{
				Filename: entry.Name(),
				Err:      err,
			})
			continue
		}

		d, err := Decode(data)
		if err != nil {
			result.Errors = append(result.Errors, ReadError{
				Filename: entry.Name(),
				Err:      err,
			})
			continue
		}

		result.Entries = append(result.Entries, DirEntry{
			Filename:   entry.Name(),
			Descriptor: *d,
		})
	}

	return result, nil
}
