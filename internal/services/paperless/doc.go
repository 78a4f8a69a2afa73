// Package paperless talks to the document backend's REST API.
//
// Listing endpoints are paginated; Pager walks them lazily and rewrites the
// backend's next links to https since the backend sits behind a TLS proxy
// that reports plain http URLs. Upload posts one finished document as a
// multipart form titled with its zero-padded document id.
package paperless
