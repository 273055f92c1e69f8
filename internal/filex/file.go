// Package filex contains local file-system helpers for the CLI: preparing
// the download directory and writing received files into it.
package filex

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrInvalidName is returned when a received file name cannot be used as a
// plain file name inside the download directory.
var ErrInvalidName = errors.New("invalid file name")

// EnsureDir creates dir (relative paths resolve against the working
// directory) and returns its absolute path.
func EnsureDir(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", dir, err)
	}

	if err := os.MkdirAll(abs, 0o770); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", abs, err)
	}

	return abs, nil
}

// WriteInto stores data as dir/name. Only the base element of name is used,
// so a name sent by the server cannot escape dir.
func WriteInto(dir, name string, data []byte) (string, error) {
	base := filepath.Base(filepath.Clean(name))
	if base == "." || base == ".." || base == string(filepath.Separator) {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}

	target, err := EnsureDir(dir)
	if err != nil {
		return "", err
	}

	out := filepath.Join(target, base)
	if err := os.WriteFile(out, data, 0o660); err != nil {
		return "", fmt.Errorf("write %s: %w", out, err)
	}

	return out, nil
}
