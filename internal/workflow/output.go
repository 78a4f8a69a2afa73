package workflow

import (
	"fmt"
	"os"
	"path/filepath"

	"paperarchive/internal/fileutil"
	"paperarchive/internal/ingest"
)

// writeDocument stores doc as <dir>/<id>.pdf and returns the path. An empty
// dir disables writing.
func writeDocument(dir string, doc ingest.Document) (string, error) {
	if dir == "" {
		return "", nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}
	target := filepath.Join(dir, doc.IDString()+".pdf")
	if err := fileutil.WriteFileAtomic(target, doc.Content, 0o644); err != nil {
		return "", fmt.Errorf("write document %s: %w", doc.IDString(), err)
	}
	return target, nil
}
