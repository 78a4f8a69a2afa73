package barcode

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"

	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/datamatrix"
	"github.com/makiuchi-d/gozxing/multi"
	multiqr "github.com/makiuchi-d/gozxing/multi/qrcode"
	"github.com/makiuchi-d/gozxing/oned"

	"paperarchive/internal/ingest"
	"paperarchive/internal/logging"
	"paperarchive/internal/pdfpages"
)

type namedReader struct {
	name   string
	reader multi.MultipleBarcodeReader
}

// Decoder decodes barcodes from page images.
type Decoder struct {
	readers []namedReader
	hints   map[gozxing.DecodeHintType]interface{}
	logger  *slog.Logger
	images  func([]byte) ([]image.Image, error)
}

// New constructs a decoder reading QR, Data Matrix, and Code 128 symbols.
func New(logger *slog.Logger) *Decoder {
	return &Decoder{
		readers: []namedReader{
			{name: "qr", reader: multiqr.NewQRCodeMultiReader()},
			{name: "datamatrix", reader: newMaskingReader(datamatrix.NewDataMatrixReader())},
			{name: "code128", reader: newMaskingReader(oned.NewCode128Reader())},
		},
		hints: map[gozxing.DecodeHintType]interface{}{
			gozxing.DecodeHintType_TRY_HARDER: true,
		},
		logger: logging.NewComponentLogger(logger, "barcode"),
		images: pdfpages.Images,
	}
}

// Decode implements ingest.Decoder for PDF pages.
func (d *Decoder) Decode(ctx context.Context, page ingest.Page) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	images, err := d.images(page.Data)
	if err != nil {
		return nil, err
	}
	var codes []string
	for _, img := range images {
		found, err := d.DecodeImage(img)
		if err != nil {
			return nil, fmt.Errorf("%s page %d: %w", page.Side, page.Index+1, err)
		}
		codes = appendUnique(codes, found...)
	}
	return codes, nil
}

// DecodeImage returns every distinct payload the readers recognize in img,
// including several symbols of the same kind on one page.
// Readers share no state between calls, but a Decoder must not be used from
// several goroutines at once.
func (d *Decoder) DecodeImage(img image.Image) ([]string, error) {
	bitmap, err := gozxing.NewBinaryBitmapFromImage(img)
	if err != nil {
		return nil, fmt.Errorf("binarize image: %w", err)
	}
	var codes []string
	for _, r := range d.readers {
		results, err := r.reader.DecodeMultiple(bitmap, d.hints)
		if err != nil && !isMiss(err) {
			d.logger.Debug("barcode reader failed", logging.String("reader", r.name), logging.Error(err))
		}
		for _, result := range results {
			d.logger.Debug("barcode found", logging.String("reader", r.name), logging.String("payload", result.GetText()))
			codes = appendUnique(codes, result.GetText())
		}
	}
	return codes, nil
}

func isMiss(err error) bool {
	var notFound gozxing.NotFoundException
	var checksum gozxing.ChecksumException
	var format gozxing.FormatException
	return errors.As(err, &notFound) || errors.As(err, &checksum) || errors.As(err, &format)
}

func appendUnique(dst []string, values ...string) []string {
	for _, v := range values {
		seen := false
		for _, existing := range dst {
			if existing == v {
				seen = true
				break
			}
		}
		if !seen {
			dst = append(dst, v)
		}
	}
	return dst
}
