package barcode

import "image"

// WithImageSource replaces PDF image extraction so tests can feed images directly.
func (d *Decoder) WithImageSource(fn func([]byte) ([]image.Image, error)) *Decoder {
	d.images = fn
	return d
}
