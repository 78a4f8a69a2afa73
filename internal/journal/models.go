package journal

import "time"

// Source names where a session's pages came from.
type Source string

const (
	SourceScan   Source = "scan"
	SourceIngest Source = "ingest"
)

// Session is one acquisition run: a scanner session or a file ingest.
type Session struct {
	ID            string
	Source        Source
	Duplex        bool
	StartedAt     time.Time
	FinishedAt    *time.Time
	DocumentCount int
}

// Entry is a document produced by a session.
type Entry struct {
	ID         int64
	SessionID  string
	DocumentID uint32
	Pages      int
	Bytes      int64
	Path       string
	CreatedAt  time.Time
	UploadedAt *time.Time
}

// Uploaded reports whether the document reached the backend.
func (e Entry) Uploaded() bool {
	return e.UploadedAt != nil
}
