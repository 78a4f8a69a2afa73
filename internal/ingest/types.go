package ingest

import (
	"context"
	"strings"

	"paperarchive/internal/archiveid"
)

// Side says which face of a sheet a page captures.
type Side int

const (
	Front Side = iota
	Back
)

func (s Side) String() string {
	if s == Back {
		return "back"
	}
	return "front"
}

// Page is a single scanned page side. Data holds the page serialized on its
// own (for PDFs, a one-page document); Index is the page's position in the
// sequence it came from.
type Page struct {
	Side  Side
	Index int
	Data  []byte
}

// Document is a finished document. ID is derived from Content.
type Document struct {
	Content []byte
	ID      uint32
	Pages   int
}

// IDString renders the document id as used by the backend title field.
func (d Document) IDString() string {
	return archiveid.FormatDocumentID(d.ID)
}

// NewDocument wraps assembled content with its content-derived id.
func NewDocument(content []byte, pages int) Document {
	return Document{Content: content, ID: archiveid.DocumentID(content), Pages: pages}
}

// Decoder returns every barcode payload found on a page.
type Decoder interface {
	Decode(ctx context.Context, page Page) ([]string, error)
}

// Assembler serializes an ordered run of pages into one document.
type Assembler interface {
	Assemble(ctx context.Context, pages []Page) ([]byte, error)
}

// Classification is the set of markers found on a front page.
type Classification uint8

const (
	// Separator ends the document in progress.
	Separator Classification = 1 << iota
	// Simplex drops back pages until the next separator. It always
	// implies Separator.
	Simplex
)

// Has reports whether every flag in flag is set.
func (c Classification) Has(flag Classification) bool { return c&flag == flag }

// Empty reports whether the page carries no marker.
func (c Classification) Empty() bool { return c == 0 }

func (c Classification) String() string {
	if c.Empty() {
		return "content"
	}
	parts := make([]string, 0, 2)
	if c.Has(Separator) {
		parts = append(parts, "separator")
	}
	if c.Has(Simplex) {
		parts = append(parts, "simplex")
	}
	return strings.Join(parts, "+")
}

// Classify compares decoded payloads against the marker codes for exact
// equality. Other payloads are ignored.
func Classify(codes []string, separatorCode, simplexCode string) Classification {
	var c Classification
	for _, code := range codes {
		switch code {
		case separatorCode:
			c |= Separator
		case simplexCode:
			c |= Separator | Simplex
		}
	}
	return c
}
