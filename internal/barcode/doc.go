// Package barcode finds separator sheet markers on scanned pages.
//
// Decoder implements ingest.Decoder: it pulls the raster images out of a
// one-page PDF and runs QR, Data Matrix, and Code 128 readers over each. A
// page with no recognizable barcode decodes to an empty list, which is the
// common case and not an error.
package barcode
