// Package query derives filtered and ordered views from a snapshot of the
// document collection. Everything here is a pure function: inputs are never
// mutated and no store access happens beyond the slice passed in.
package query

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"pdfshelf/internal/model"
)

// DefaultRecentLimit bounds Recent when the caller passes no limit.
const DefaultRecentLimit = 10

// SortMode selects the ordering applied by Sort.
type SortMode string

const (
	SortLastOpened SortMode = "lastOpened"
	SortName       SortMode = "name"
	SortDateAdded  SortMode = "dateAdded"
	SortSize       SortMode = "size"
)

// Filter holds the criteria applied by Apply. All supplied criteria must
// hold for a document to remain (conjunctive). Nil/empty fields are not
// applied.
type Filter struct {
	CategoryID *int64
	Favorite   *bool
	Search     string
}

// Apply returns the documents from docs that satisfy every criterion in f.
// Search matches case-insensitively against the title only.
func Apply(docs []model.Document, f Filter) []model.Document {
	needle := strings.ToLower(f.Search)
	out := make([]model.Document, 0, len(docs))
	for _, d := range docs {
		if f.CategoryID != nil {
			if d.CategoryID == nil || *d.CategoryID != *f.CategoryID {
				continue
			}
		}
		if f.Favorite != nil && d.Favorite != *f.Favorite {
			continue
		}
		if needle != "" && !strings.Contains(strings.ToLower(d.Title), needle) {
			continue
		}
		out = append(out, d)
	}
	return out
}

// Sort returns a new slice ordered by mode. Every mode is stable: documents
// with equal keys keep their relative input order. Unknown modes return the
// input order unchanged.
func Sort(docs []model.Document, mode SortMode) []model.Document {
	out := make([]model.Document, len(docs))
	copy(out, docs)

	switch mode {
	case SortLastOpened:
		sort.SliceStable(out, func(i, j int) bool {
			return recencyLess(out[j], out[i])
		})
	case SortName:
		coll := collate.New(language.English, collate.Loose)
		sort.SliceStable(out, func(i, j int) bool {
			return coll.CompareString(out[i].Title, out[j].Title) < 0
		})
	case SortDateAdded:
		sort.SliceStable(out, func(i, j int) bool {
			a, b := out[i], out[j]
			// Documents that never got an upload stamp sort last.
			if a.UploadedAt.IsZero() {
				return false
			}
			if b.UploadedAt.IsZero() {
				return true
			}
			return a.UploadedAt.After(b.UploadedAt)
		})
	case SortSize:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Size > out[j].Size
		})
	}
	return out
}

// Recent returns up to limit documents in last-opened order, most recent
// first. A non-positive limit falls back to DefaultRecentLimit.
func Recent(docs []model.Document, limit int) []model.Document {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	out := Sort(docs, SortLastOpened)
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// recencyLess reports whether a's recency key sorts strictly before b's in
// ascending order. Documents with neither timestamp sort first ascending,
// i.e. last once the order is reversed for display.
func recencyLess(a, b model.Document) bool {
	at, bt := a.OpenedOrUploadedAt(), b.OpenedOrUploadedAt()
	if at.IsZero() {
		return !bt.IsZero()
	}
	if bt.IsZero() {
		return false
	}
	return at.Before(bt)
}
