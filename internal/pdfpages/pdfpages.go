package pdfpages

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"strconv"
	"sync"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	_ "golang.org/x/image/tiff"

	"paperarchive/internal/ingest"
	"paperarchive/internal/services"
)

var disableConfigDir sync.Once

func configuration() *model.Configuration {
	disableConfigDir.Do(api.DisableConfigDir)
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return conf
}

// PageCount returns the number of pages in a PDF.
func PageCount(data []byte) (int, error) {
	n, err := api.PageCount(bytes.NewReader(data), configuration())
	if err != nil {
		return 0, services.Wrap(services.ErrValidation, "pdfpages", "page count", "", err)
	}
	return n, nil
}

// Split breaks a PDF into one-page documents tagged with side, in page order.
func Split(ctx context.Context, data []byte, side ingest.Side) ([]ingest.Page, error) {
	count, err := PageCount(data)
	if err != nil {
		return nil, err
	}
	pages := make([]ingest.Page, 0, count)
	for i := 1; i <= count; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		var out bytes.Buffer
		if err := api.Trim(bytes.NewReader(data), &out, []string{strconv.Itoa(i)}, configuration()); err != nil {
			return nil, services.Wrap(services.ErrExternalTool, "pdfpages", "split", fmt.Sprintf("page %d", i), err)
		}
		pages = append(pages, ingest.Page{Side: side, Index: i - 1, Data: out.Bytes()})
	}
	return pages, nil
}

// SplitFile is Split over a file on disk.
func SplitFile(ctx context.Context, path string, side ingest.Side) ([]ingest.Page, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, "pdfpages", "read", path, err)
	}
	return Split(ctx, data, side)
}

// Merge concatenates PDFs in order into one document.
func Merge(docs [][]byte) ([]byte, error) {
	if len(docs) == 0 {
		return nil, services.Wrap(services.ErrValidation, "pdfpages", "merge", "no pages", nil)
	}
	readers := make([]io.ReadSeeker, len(docs))
	for i, doc := range docs {
		readers[i] = bytes.NewReader(doc)
	}
	var out bytes.Buffer
	if err := api.MergeRaw(readers, &out, false, configuration()); err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "pdfpages", "merge", fmt.Sprintf("%d documents", len(docs)), err)
	}
	return out.Bytes(), nil
}

// Assembler implements ingest.Assembler by merging one-page PDFs.
type Assembler struct{}

// Assemble merges the pages' PDFs in buffer order.
func (Assembler) Assemble(ctx context.Context, pages []ingest.Page) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	docs := make([][]byte, len(pages))
	for i, page := range pages {
		docs[i] = page.Data
	}
	return Merge(docs)
}

// Images decodes every raster image embedded in a PDF. Scanners emit one
// image per page; vector-only pages yield none.
func Images(data []byte) ([]image.Image, error) {
	var images []image.Image
	digest := func(img model.Image, _ bool, _ int) error {
		decoded, _, err := image.Decode(img)
		if err != nil {
			return fmt.Errorf("decode %s image on page %d: %w", img.FileType, img.PageNr, err)
		}
		images = append(images, decoded)
		return nil
	}
	if err := api.ExtractImages(bytes.NewReader(data), nil, digest, configuration()); err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "pdfpages", "extract images", "", err)
	}
	return images, nil
}
