// Package repository defines the data access contracts for the document
// library. Implementations live in subpackages (memory, postgres) and must
// be substitutable without touching callers.
package repository

import (
	"errors"
	"time"
)

// ErrNotFound is returned by every implementation when an id references
// nothing. Callers compare with errors.Is.
var ErrNotFound = errors.New("record not found")

// DocumentPatch holds the fields of a partial document update. Nil pointer
// fields are left untouched. Because CategoryID is itself nullable,
// SetCategory distinguishes "leave it alone" from "set it, possibly to
// nothing".
type DocumentPatch struct {
	Title        *string
	SetCategory  bool
	CategoryID   *int64
	Thumbnail    *string
	Favorite     *bool
	LastOpenedAt *time.Time
}

