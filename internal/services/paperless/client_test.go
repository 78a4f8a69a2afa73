package paperless_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"

	"paperarchive/internal/ingest"
	"paperarchive/internal/services"
	"paperarchive/internal/services/paperless"
	"paperarchive/internal/testsupport"
)

const testToken = "token-123"

func asn(v int64) *int64 { return &v }

// pagedBackend serves three pages of documents and advertises next links
// with a plain http scheme.
func pagedBackend(t *testing.T) *httptest.Server {
	t.Helper()
	var server *httptest.Server
	server = httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Token "+testToken {
			t.Errorf("unexpected authorization header %q", got)
		}
		if r.URL.Path != "/api/documents/" {
			t.Errorf("unexpected path %s", r.URL.Path)
			http.NotFound(w, r)
			return
		}
		if r.URL.Query().Get("archive_serial_number__isnull") != "false" {
			t.Errorf("missing serial number filter: %s", r.URL.RawQuery)
		}
		plain := strings.Replace(server.URL, "https://", "http://", 1)
		var resp struct {
			Count   int                  `json:"count"`
			Next    *string              `json:"next"`
			Results []paperless.Document `json:"results"`
		}
		resp.Count = 4
		switch r.URL.Query().Get("page") {
		case "":
			next := plain + "/api/documents/?archive_serial_number__isnull=false&ordering=archive_serial_number&page=2"
			resp.Next = &next
			resp.Results = []paperless.Document{{ID: 1, ArchiveSerialNumber: asn(7)}, {ID: 2, ArchiveSerialNumber: asn(12)}}
		case "2":
			next := plain + "/api/documents/?archive_serial_number__isnull=false&ordering=archive_serial_number&page=3"
			resp.Next = &next
			resp.Results = []paperless.Document{{ID: 3, ArchiveSerialNumber: asn(40)}, {ID: 9}}
		case "3":
			resp.Results = []paperless.Document{{ID: 4, ArchiveSerialNumber: asn(2147483647)}}
		default:
			t.Errorf("unexpected page %q", r.URL.Query().Get("page"))
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(server.Close)
	return server
}

func TestArchiveSerialNumbersFollowsPagesOverHTTPS(t *testing.T) {
	server := pagedBackend(t)
	client := paperless.New(server.URL, testToken, server.Client(), nil)

	var got []int64
	for value, err := range client.ArchiveSerialNumbers(context.Background()) {
		if err != nil {
			t.Fatalf("ArchiveSerialNumbers: %v", err)
		}
		got = append(got, value)
	}
	want := []int64{7, 12, 40, 2147483647}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestPagerIsLazy(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		_, _ = io.WriteString(w, `{"count":1,"next":null,"results":[{"id":5,"title":"0000000005","archive_serial_number":5}]}`)
	}))
	defer server.Close()

	client := paperless.New(server.URL, testToken, server.Client(), nil)
	pager := client.Documents(url.Values{"title__icontains": {"0000"}})
	if calls != 0 {
		t.Fatalf("expected no request before Next, got %d", calls)
	}

	docs, ok, err := pager.Next(context.Background())
	if err != nil || !ok {
		t.Fatalf("Next: ok=%v err=%v", ok, err)
	}
	if len(docs) != 1 || docs[0].Title != "0000000005" {
		t.Fatalf("unexpected docs %+v", docs)
	}
	if _, ok, err := pager.Next(context.Background()); ok || err != nil {
		t.Fatalf("expected exhausted pager, got ok=%v err=%v", ok, err)
	}
	if calls != 1 {
		t.Fatalf("expected one request, got %d", calls)
	}
}

func TestNon2xxIsBackendError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail":"Invalid token."}`, http.StatusUnauthorized)
	}))
	defer server.Close()

	client := paperless.New(server.URL, "wrong", server.Client(), nil)
	_, _, err := client.Documents(nil).Next(context.Background())
	if !errors.Is(err, services.ErrBackend) {
		t.Fatalf("expected backend error, got %v", err)
	}
	var status *services.StatusError
	if !errors.As(err, &status) {
		t.Fatalf("expected status error, got %T", err)
	}
	if status.StatusCode != http.StatusUnauthorized || status.Endpoint != "/api/documents/" {
		t.Fatalf("unexpected status error %+v", status)
	}
}

func TestPagerStopsAfterFailure(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.Error(w, "upstream down", http.StatusBadGateway)
	}))
	defer server.Close()

	pager := paperless.New(server.URL, testToken, server.Client(), nil).Documents(nil)
	_, ok, first := pager.Next(context.Background())
	if first == nil || ok {
		t.Fatalf("expected failure, got ok=%v err=%v", ok, first)
	}
	for range 2 {
		if _, ok, err := pager.Next(context.Background()); err != first || ok {
			t.Fatalf("expected the first error again, got ok=%v err=%v", ok, err)
		}
	}
	if calls != 1 {
		t.Fatalf("expected a single request, got %d", calls)
	}
}

func TestMalformedPageIsBackendError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "<html>")
	}))
	defer server.Close()

	client := paperless.New(server.URL, testToken, server.Client(), nil)
	for _, err := range client.ArchiveSerialNumbers(context.Background()) {
		if !errors.Is(err, services.ErrBackend) {
			t.Fatalf("expected backend error, got %v", err)
		}
		return
	}
	t.Fatal("expected an error to be yielded")
}

func TestUploadSendsMultipartForm(t *testing.T) {
	content := testsupport.PDF("upload")
	doc := ingest.NewDocument(content, 1)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/documents/post_document/" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Token "+testToken {
			t.Errorf("unexpected authorization header %q", got)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse form: %v", err)
			return
		}
		if got := r.FormValue("title"); got != doc.IDString() {
			t.Errorf("title = %q, want %q", got, doc.IDString())
		}
		if got := r.FormValue("archive_serial_number"); got != strconv.FormatUint(uint64(doc.ID), 10) {
			t.Errorf("archive_serial_number = %q", got)
		}
		file, header, err := r.FormFile("document")
		if err != nil {
			t.Errorf("document part: %v", err)
			return
		}
		defer file.Close()
		if header.Header.Get("Content-Type") != "application/pdf" {
			t.Errorf("unexpected part content type %q", header.Header.Get("Content-Type"))
		}
		body, _ := io.ReadAll(file)
		if string(body) != string(content) {
			t.Errorf("document body mismatch")
		}
		_, _ = io.WriteString(w, `"2f1c6d2e-task"`)
	}))
	defer server.Close()

	client := paperless.New(server.URL, testToken, server.Client(), nil)
	task, err := client.Upload(context.Background(), doc)
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if task != "2f1c6d2e-task" {
		t.Fatalf("unexpected task id %q", task)
	}
}

func TestNewConfiguredRequiresEndpointAndToken(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	if _, err := paperless.NewConfigured(cfg, nil); !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
	cfg = testsupport.NewConfig(t, testsupport.WithPaperless("https://paperless.example", testToken))
	if _, err := paperless.NewConfigured(cfg, nil); err != nil {
		t.Fatalf("NewConfigured: %v", err)
	}
	cfg.Paperless.CertFile = "/nonexistent/cert.pem"
	if _, err := paperless.NewConfigured(cfg, nil); !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error for missing cert, got %v", err)
	}
}
