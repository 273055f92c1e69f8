// Package storage keeps the files held by the reference service.
package storage

import (
	"context"
	"errors"
)

var (
	ErrNotFound  = errors.New("file not found")
	ErrEmptyName = errors.New("file name is empty")
)

// Object is a stored file. Name is the wire name sent by the uploader,
// prefix included.
type Object struct {
	Name string
	Data []byte
}

// Info describes a stored file without its content.
type Info struct {
	Name string
	Size int64
}

// Storage assigns identifiers to uploaded files and serves them back.
// Identifiers are positive and never reused by one Storage.
type Storage interface {
	Create(ctx context.Context, name string, data []byte) (int64, error)
	Stat(ctx context.Context, id int64) (Info, error)
	Get(ctx context.Context, id int64) (Object, error)
	Delete(ctx context.Context, id int64) error
}
