// Package pdf provides PDF input validation and page counting.
package pdf

import (
	"fmt"
	"os"

	"github.com/gen2brain/go-fitz"

	"github.com/spherical/pdf-transcriber/internal/domain"
)

// Document is an opened PDF input.
type Document struct {
	Path      string
	PageCount int
}

// Open validates the path, counts the pages and reads nothing else.
// The model receives the raw PDF bytes, so no rasterization happens here.
func Open(path string) (*Document, error) {
	if err := ValidatePath(path); err != nil {
		return nil, err
	}

	doc, err := fitz.New(path)
	if err != nil {
		return nil, domain.InvalidConfiguration(fmt.Sprintf("open PDF %s", path), err)
	}
	defer doc.Close()

	pages := doc.NumPage()
	if pages < 1 {
		return nil, domain.InvalidConfiguration(fmt.Sprintf("PDF has no pages: %s", path), nil)
	}

	return &Document{
		Path:      path,
		PageCount: pages,
	}, nil
}

// Bytes returns the raw PDF contents for upload.
func (d *Document) Bytes() ([]byte, error) {
	data, err := os.ReadFile(d.Path)
	if err != nil {
		return nil, domain.InvalidConfiguration(fmt.Sprintf("read PDF %s", d.Path), err)
	}
	return data, nil
}
