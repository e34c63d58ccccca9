// Package pdf wraps the third-party PDF parser behind a small interface so
// the upload path can be tested without real PDF fixtures.
package pdf

import (
	"bytes"
	"fmt"

	ledongthuc "github.com/ledongthuc/pdf"
)

// PageCounter derives the number of pages from raw PDF bytes.
type PageCounter interface {
	// Count returns the page count, or an error if data is not a readable
	// PDF.
	Count(data []byte) (int, error)
}

// Parser is the PageCounter backed by ledongthuc/pdf.
type Parser struct{}

var _ PageCounter = Parser{}

// NewParser returns the production PageCounter.
func NewParser() Parser {
	return Parser{}
}

// Count parses the PDF structure and returns the page count.
func (Parser) Count(data []byte) (int, error) {
	r, err := ledongthuc.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return 0, fmt.Errorf("new pdf reader: %w", err)
	}
	return r.NumPage(), nil
}
