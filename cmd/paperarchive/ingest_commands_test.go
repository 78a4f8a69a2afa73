package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"paperarchive/internal/services"
	"paperarchive/internal/testsupport"
)

func TestIngestRecordsJournalAndOutput(t *testing.T) {
	env := setupCLITestEnv(t)
	front := filepath.Join(env.baseDir, "front.pdf")
	testsupport.WritePDF(t, front, "one", "two")

	out, _, err := runCLI(t, []string{"--json", "ingest", front}, env.configPath)
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	results := decodeJSON[[]resultView](t, out)
	if len(results) != 1 || results[0].Pages != 2 {
		t.Fatalf("expected one two-page document, got %+v", results)
	}
	if results[0].Uploaded || results[0].Duplicate {
		t.Fatalf("unexpected flags %+v", results[0])
	}
	if _, err := os.Stat(results[0].Path); err != nil {
		t.Fatalf("expected output file: %v", err)
	}

	out, _, err = runCLI(t, []string{"--json", "journal"}, env.configPath)
	if err != nil {
		t.Fatalf("journal: %v", err)
	}
	entries := decodeJSON[[]entryView](t, out)
	if len(entries) != 1 || entries[0].DocumentID != results[0].DocumentID {
		t.Fatalf("unexpected journal %+v", entries)
	}

	out, _, err = runCLI(t, []string{"journal", "check"}, env.configPath)
	if err != nil {
		t.Fatalf("journal check: %v", err)
	}
	requireContains(t, out, "is healthy")
}

func TestIngestUploadsToBackend(t *testing.T) {
	uploads := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/documents/post_document/" {
			http.NotFound(w, r)
			return
		}
		uploads++
		_, _ = io.WriteString(w, `"task-1"`)
	}))
	defer server.Close()

	env := setupCLITestEnv(t, testsupport.WithPaperless(server.URL, "token"))
	front := filepath.Join(env.baseDir, "front.pdf")
	testsupport.WritePDF(t, front, "one")

	out, _, err := runCLI(t, []string{"--json", "ingest", "--upload", front}, env.configPath)
	if err != nil {
		t.Fatalf("ingest --upload: %v", err)
	}
	results := decodeJSON[[]resultView](t, out)
	if len(results) != 1 || !results[0].Uploaded || uploads != 1 {
		t.Fatalf("expected one uploaded document, got %+v (uploads %d)", results, uploads)
	}
}

func TestIngestMissingFileIsValidationError(t *testing.T) {
	env := setupCLITestEnv(t)
	_, _, err := runCLI(t, []string{"ingest", filepath.Join(env.baseDir, "missing.pdf")}, env.configPath)
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestScanRequiresScannerHost(t *testing.T) {
	env := setupCLITestEnv(t)
	_, _, err := runCLI(t, []string{"scan"}, env.configPath)
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestDocumentsListsSerialNumbersWithPlacement(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Token token" {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"count": 3,
			"next":  nil,
			"results": []map[string]any{
				{"id": 1, "archive_serial_number": 42},
				{"id": 2, "archive_serial_number": 4294967295},
				{"id": 3, "archive_serial_number": 7},
			},
		})
	}))
	defer server.Close()

	env := setupCLITestEnv(t, testsupport.WithPaperless(server.URL, "token"))
	out, _, err := runCLI(t, []string{"--json", "documents"}, env.configPath)
	if err != nil {
		t.Fatalf("documents: %v", err)
	}
	docs := decodeJSON[[]documentView](t, out)
	if len(docs) != 2 {
		t.Fatalf("expected out-of-range serial to be skipped, got %+v", docs)
	}
	loc := mustArchive(t).Locate(42)
	if docs[0].SerialNumber != 42 || docs[0].Folder != loc.Folder.ID.String() || docs[0].Box != loc.Box.ID.String() {
		t.Fatalf("unexpected placement %+v", docs[0])
	}

	env.cfg.Paperless.Token = "wrong"
	env.rewriteConfig(t)
	_, _, err = runCLI(t, []string{"documents"}, env.configPath)
	if !errors.Is(err, services.ErrBackend) || services.ExitCode(err) != 69 {
		t.Fatalf("expected backend error, got %v", err)
	}
}

func TestIngestDecodeWorkers(t *testing.T) {
	env := setupCLITestEnv(t)
	front := filepath.Join(env.baseDir, "front.pdf")
	testsupport.WritePDF(t, front, "one", "two", "three")

	out, _, err := runCLI(t, []string{"--json", "ingest", "--decode-workers", "3", front}, env.configPath)
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	if results := decodeJSON[[]resultView](t, out); len(results) != 1 || results[0].Pages != 3 {
		t.Fatalf("expected one three-page document, got %+v", results)
	}

	if _, _, err := runCLI(t, []string{"ingest", "--decode-workers", "0", front}, env.configPath); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestScanPrompterStaysQuietWithoutTerminal(t *testing.T) {
	var prompts bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetIn(strings.NewReader("y\nn\n"))
	cmd.SetErr(&prompts)

	p := scanPrompter(cmd)
	if !p.YesNo("Scan page?") {
		t.Fatal("expected first answer yes")
	}
	if p.YesNo("Scan page?") {
		t.Fatal("expected second answer no")
	}
	if prompts.Len() != 0 {
		t.Fatalf("expected no prompt output for piped input, got %q", prompts.String())
	}

	file, err := os.CreateTemp(t.TempDir(), "answers")
	if err != nil {
		t.Fatalf("create answers: %v", err)
	}
	defer file.Close()
	cmd.SetIn(file)
	if scanPrompter(cmd).YesNo("Scan page?") {
		t.Fatal("expected end of file to mean no")
	}
	if prompts.Len() != 0 {
		t.Fatalf("expected no prompt output for a regular file, got %q", prompts.String())
	}
}
