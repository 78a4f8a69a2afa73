// Package pdfpages adapts scanned PDFs to the ingest page model: it splits a
// multi-page scan into one-page PDFs, merges runs of pages back into a single
// document, and extracts the embedded page images for barcode decoding.
package pdfpages
