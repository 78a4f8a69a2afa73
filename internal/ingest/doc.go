// Package ingest splits a raw scanner session into finished documents.
//
// A session is a sequence of front-side pages and, for duplex scans, the
// back-side pages as the feeder emitted them (reverse physical order). Pages
// are paired position by position with the back sequence consumed from its
// end. Barcodes on the front side classify a page as a document separator,
// optionally also switching the next document to simplex. Marker pages are
// consumed and never appear in output.
//
// The splitter keeps two pieces of state: whether back pages are currently
// kept, and the pages buffered for the document in progress. A separator
// finalizes the buffer and restores the configured duplex mode. A simplex
// marker then drops back pages until the next separator. Whatever remains
// buffered at the end of the session is finalized too.
//
// Barcode decoding and page serialization are supplied by the caller through
// Decoder and Assembler; see internal/barcode and internal/pdfpages.
package ingest
