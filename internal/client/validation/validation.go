// Package validation approves local files before any network call is made.
//
// A Validator owns the session's running total of validated bytes. The total
// grows before the aggregate ceiling is checked, so by default a file that is
// rejected for exceeding the ceiling still counts toward it afterwards
// (capacity is reserved pessimistically). Options.RollbackRejected restores
// the total instead.
//
// A Validator is not safe for concurrent use; the transfer client serializes
// calls into it.
package validation

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
)

// MiB is one mebibyte.
const MiB = 1024 * 1024

const (
	// MaxFileSize is the exclusive upper bound for a single file.
	MaxFileSize int64 = 3 * MiB
	// MaxTotalSize is the exclusive upper bound for the running total.
	MaxTotalSize int64 = 10 * MiB
)

// AllowedExtensions lists accepted extensions. Matching is case-sensitive.
var AllowedExtensions = []string{".txt", ".png", ".jpeg", ".jpg", ".docx", ".pdf", ".zip", ".rar"}

var (
	ErrInvalidExtension  = errors.New("invalid extension")
	ErrInvalidFileSize   = errors.New("invalid file size")
	ErrTotalSizeExceeded = errors.New("total upload size exceeded")
)

// Error describes a rejected file. It wraps one of the sentinel errors above.
type Error struct {
	Reason error
	Path   string
	Ext    string
	Size   int64
	Limit  int64
	Total  int64
}

func (e *Error) Error() string {
	switch {
	case errors.Is(e.Reason, ErrInvalidExtension):
		return fmt.Sprintf("%v: %q", e.Reason, e.Ext)
	case errors.Is(e.Reason, ErrTotalSizeExceeded):
		return fmt.Sprintf("%v: %s MB reaches %s MB limit", e.Reason, Megabytes(e.Total), Megabytes(e.Limit))
	default:
		return fmt.Sprintf("%v: %s MB reaches %s MB limit", e.Reason, Megabytes(e.Size), Megabytes(e.Limit))
	}
}

func (e *Error) Unwrap() error { return e.Reason }

// Megabytes renders a byte count as mebibytes with two decimals.
func Megabytes(bytes int64) string {
	return fmt.Sprintf("%.2f", float64(bytes)/MiB)
}

// PendingTransfer is a file that passed validation and awaits encoding.
type PendingTransfer struct {
	Path string
	Ext  string
	Size int64
}

// Options tune a Validator.
type Options struct {
	// RollbackRejected subtracts a file's size from the running total again
	// when the aggregate ceiling rejects it.
	RollbackRejected bool
}

// Validator enforces the extension allow-list and both size ceilings.
type Validator struct {
	opts  Options
	total int64
}

// New returns a Validator with an empty running total.
func New(opts Options) *Validator {
	return &Validator{opts: opts}
}

// Validate applies the rules in order: extension, single-file size, running
// total. Only the last rule touches the running total.
func (v *Validator) Validate(path, ext string, size int64) error {
	if !slices.Contains(AllowedExtensions, ext) {
		return &Error{Reason: ErrInvalidExtension, Path: path, Ext: ext, Size: size}
	}

	if size >= MaxFileSize {
		return &Error{Reason: ErrInvalidFileSize, Path: path, Ext: ext, Size: size, Limit: MaxFileSize}
	}

	v.total += size
	if v.total >= MaxTotalSize {
		rejected := &Error{Reason: ErrTotalSizeExceeded, Path: path, Ext: ext, Size: size, Limit: MaxTotalSize, Total: v.total}
		if v.opts.RollbackRejected {
			v.total -= size
		}
		return rejected
	}

	return nil
}

// ValidateFile validates path using its extension and on-disk size. The
// extension is checked before the file is touched.
func (v *Validator) ValidateFile(path string) (PendingTransfer, error) {
	ext := filepath.Ext(path)
	if !slices.Contains(AllowedExtensions, ext) {
		return PendingTransfer{}, &Error{Reason: ErrInvalidExtension, Path: path, Ext: ext}
	}

	info, err := os.Stat(path)
	if err != nil {
		return PendingTransfer{}, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return PendingTransfer{}, fmt.Errorf("%s is a directory", path)
	}

	pt := PendingTransfer{Path: path, Ext: ext, Size: info.Size()}
	if err := v.Validate(pt.Path, pt.Ext, pt.Size); err != nil {
		return PendingTransfer{}, err
	}

	return pt, nil
}

// Total reports the running total in bytes.
func (v *Validator) Total() int64 { return v.total }

// Reset starts a new session with an empty running total.
func (v *Validator) Reset() { v.total = 0 }
