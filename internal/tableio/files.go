// Package tableio (files.go) provides the local file safety checks used
// when tables are exported: path sanitization, overwrite protection and
// turning worksheet titles into usable file names.
package tableio

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Security-related errors
var (
	ErrPathTraversal = errors.New("path traversal attack detected")
	ErrInvalidPath   = errors.New("invalid path")
	ErrFileExists    = errors.New("file already exists")
	ErrUnsafePath    = errors.New("unsafe path detected")
)

// SanitizeLocalPath cleans a local path and makes it absolute. Paths with
// null bytes or ".." elements are rejected.
func SanitizeLocalPath(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("%w: path cannot be empty", ErrInvalidPath)
	}
	if strings.Contains(path, "\x00") {
		return "", fmt.Errorf("%w: null bytes not allowed in path", ErrUnsafePath)
	}
	for _, part := range strings.FieldsFunc(path, func(r rune) bool { return r == '/' || r == filepath.Separator }) {
		if part == ".." {
			return "", fmt.Errorf("%w: path contains directory traversal elements", ErrPathTraversal)
		}
	}

	abs, err := filepath.Abs(filepath.Clean(path))
	if err != nil {
		return "", fmt.Errorf("%w: unable to resolve absolute path: %v", ErrInvalidPath, err)
	}
	return abs, nil
}

// SecureCreateFile creates path for writing, creating parent directories.
// Unless allowOverwrite is set an existing file is an ErrFileExists error.
func SecureCreateFile(path string, allowOverwrite bool) (*os.File, error) {
	sanitized, err := SanitizeLocalPath(path)
	if err != nil {
		return nil, fmt.Errorf("path validation failed: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(sanitized), 0755); err != nil {
		return nil, fmt.Errorf("creating parent directory: %w", err)
	}

	flags := os.O_CREATE | os.O_WRONLY | os.O_TRUNC
	if !allowOverwrite {
		flags |= os.O_EXCL
	}
	file, err := os.OpenFile(sanitized, flags, 0644)
	if err != nil {
		if os.IsExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrFileExists, sanitized)
		}
		return nil, fmt.Errorf("creating file: %w", err)
	}
	return file, nil
}

var reservedNames = map[string]bool{
	"CON": true, "PRN": true, "AUX": true, "NUL": true,
	"COM1": true, "COM2": true, "COM3": true, "COM4": true, "COM5": true,
	"COM6": true, "COM7": true, "COM8": true, "COM9": true,
	"LPT1": true, "LPT2": true, "LPT3": true, "LPT4": true, "LPT5": true,
	"LPT6": true, "LPT7": true, "LPT8": true, "LPT9": true,
}

// FileName turns a worksheet title into a file name with extension ext.
// Characters that are invalid on common file systems become "_".
func FileName(title, ext string) string {
	name := strings.Map(func(r rune) rune {
		if r < 0x20 || strings.ContainsRune(`<>:"/\|?*`, r) {
			return '_'
		}
		return r
	}, title)
	name = strings.TrimRight(name, ". ")

	if name == "" {
		name = "sheet"
	}
	if reservedNames[strings.ToUpper(name)] {
		name = "_" + name
	}
	if len(name) > 200 {
		name = name[:200]
	}
	return name + "." + ext
}
