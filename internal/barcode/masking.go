package barcode

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/multi"
)

const (
	maxSymbolsPerImage = 8
	maskPadding        = 8
)

// maskingReader finds several symbols with a single-symbol reader by
// painting each hit white and decoding again until the reader misses.
type maskingReader struct {
	reader gozxing.Reader
}

func newMaskingReader(reader gozxing.Reader) multi.MultipleBarcodeReader {
	return &maskingReader{reader: reader}
}

func (m *maskingReader) DecodeMultipleWithoutHint(bitmap *gozxing.BinaryBitmap) ([]*gozxing.Result, error) {
	return m.DecodeMultiple(bitmap, nil)
}

func (m *maskingReader) DecodeMultiple(bitmap *gozxing.BinaryBitmap, hints map[gozxing.DecodeHintType]interface{}) ([]*gozxing.Result, error) {
	var results []*gozxing.Result
	var canvas *image.Gray
	current := bitmap
	for len(results) < maxSymbolsPerImage {
		result, err := m.reader.Decode(current, hints)
		m.reader.Reset()
		if err != nil {
			if isMiss(err) && len(results) > 0 {
				return results, nil
			}
			return results, err
		}
		results = append(results, result)

		if canvas == nil {
			canvas, err = grayCanvas(bitmap)
			if err != nil {
				return results, nil
			}
		}
		if !maskResult(canvas, result) {
			return results, nil
		}
		current, err = gozxing.NewBinaryBitmapFromImage(canvas)
		if err != nil {
			return results, nil
		}
	}
	return results, nil
}

// grayCanvas renders the binarized bitmap into a writable image.
func grayCanvas(bitmap *gozxing.BinaryBitmap) (*image.Gray, error) {
	matrix, err := bitmap.GetBlackMatrix()
	if err != nil {
		return nil, err
	}
	width, height := matrix.GetWidth(), matrix.GetHeight()
	canvas := image.NewGray(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if matrix.Get(x, y) {
				canvas.SetGray(x, y, color.Gray{Y: 0})
			} else {
				canvas.SetGray(x, y, color.Gray{Y: 255})
			}
		}
	}
	return canvas, nil
}

// maskResult whites out the area a result was read from. Linear symbols
// report points on a single row, so their span is grown up and down until a
// blank row is reached.
func maskResult(canvas *image.Gray, result *gozxing.Result) bool {
	points := result.GetResultPoints()
	if len(points) == 0 {
		return false
	}
	bounds := canvas.Bounds()
	minX, minY := points[0].GetX(), points[0].GetY()
	maxX, maxY := minX, minY
	for _, p := range points[1:] {
		minX, maxX = min(minX, p.GetX()), max(maxX, p.GetX())
		minY, maxY = min(minY, p.GetY()), max(maxY, p.GetY())
	}
	rect := image.Rect(int(minX)-maskPadding, int(minY)-maskPadding, int(maxX)+maskPadding+1, int(maxY)+maskPadding+1)
	rect = rect.Intersect(bounds)
	if len(points) <= 2 && !rect.Empty() {
		for rect.Min.Y > bounds.Min.Y && rowHasInk(canvas, rect.Min.X, rect.Max.X, rect.Min.Y-1) {
			rect.Min.Y--
		}
		for rect.Max.Y < bounds.Max.Y && rowHasInk(canvas, rect.Min.X, rect.Max.X, rect.Max.Y) {
			rect.Max.Y++
		}
	}
	if rect.Empty() {
		return false
	}
	draw.Draw(canvas, rect, &image.Uniform{C: color.White}, image.Point{}, draw.Src)
	return true
}

func rowHasInk(canvas *image.Gray, x0, x1, y int) bool {
	for x := x0; x < x1; x++ {
		if canvas.GrayAt(x, y).Y < 128 {
			return true
		}
	}
	return false
}
