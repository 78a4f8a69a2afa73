package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"paperarchive/internal/config"
)

// Store manages journal persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the journal database.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}
	return OpenPath(cfg.JournalPath())
}

// OpenPath opens the journal at an explicit location. Pragmas travel in the
// DSN so every pooled connection enforces foreign keys.
func OpenPath(dbPath string) (*Store, error) {
	pragmas := []string{
		"journal_mode(WAL)",
		"foreign_keys(1)",
		"busy_timeout(5000)",
	}
	query := make([]string, 0, len(pragmas))
	for _, pragma := range pragmas {
		query = append(query, "_pragma="+pragma)
	}
	db, err := sql.Open("sqlite", dbPath+"?"+strings.Join(query, "&"))
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	store := &Store{db: db, path: dbPath}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// BeginSession records the start of an acquisition run.
func (s *Store) BeginSession(ctx context.Context, id string, source Source, duplex bool) error {
	if id == "" {
		return errors.New("session id is empty")
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sessions (id, source, duplex, started_at) VALUES (?, ?, ?, ?)`,
		id, string(source), boolToInt(duplex), formatTime(time.Now()),
	)
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

// FinishSession stamps the end of a run with the number of documents it produced.
func (s *Store) FinishSession(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE sessions
         SET finished_at = ?,
             document_count = (SELECT COUNT(1) FROM documents WHERE session_id = ?)
         WHERE id = ?`,
		formatTime(time.Now()), id, id,
	)
	if err != nil {
		return fmt.Errorf("finish session: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return fmt.Errorf("finish session: unknown session %q", id)
	}
	return nil
}

// RecordDocument appends a produced document to a session.
func (s *Store) RecordDocument(ctx context.Context, entry Entry) (*Entry, error) {
	entry.CreatedAt = time.Now().UTC()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO documents (session_id, doc_id, pages, bytes, path, created_at)
         VALUES (?, ?, ?, ?, ?, ?)`,
		entry.SessionID,
		int64(entry.DocumentID),
		entry.Pages,
		entry.Bytes,
		nullableString(entry.Path),
		formatTime(entry.CreatedAt),
	)
	if err != nil {
		return nil, fmt.Errorf("insert document: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	entry.ID = id
	return &entry, nil
}

// FindDocument returns the earliest journal entry for a document id, or nil
// when the id has never been ingested.
func (s *Store) FindDocument(ctx context.Context, docID uint32) (*Entry, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+entryColumns+` FROM documents WHERE doc_id = ? ORDER BY id LIMIT 1`,
		int64(docID),
	)
	entry, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find document: %w", err)
	}
	return entry, nil
}

// MarkUploaded records that an entry was accepted by the backend.
func (s *Store) MarkUploaded(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE documents SET uploaded_at = ? WHERE id = ?`,
		formatTime(time.Now()), id,
	)
	if err != nil {
		return fmt.Errorf("mark uploaded: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("mark uploaded: unknown entry %d", id)
	}
	return nil
}

// Recent returns the newest entries first. A limit <= 0 returns everything.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM documents ORDER BY id DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *entry)
	}
	return entries, rows.Err()
}

// Session fetches a session by id, or nil when unknown.
func (s *Store) Session(ctx context.Context, id string) (*Session, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, source, duplex, started_at, finished_at, document_count FROM sessions WHERE id = ?`, id)
	var (
		session     Session
		source      string
		duplex      int
		startedRaw  string
		finishedRaw sql.NullString
	)
	err := row.Scan(&session.ID, &source, &duplex, &startedRaw, &finishedRaw, &session.DocumentCount)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	session.Source = Source(source)
	session.Duplex = duplex != 0
	if started, err := parseTimeString(startedRaw); err == nil {
		session.StartedAt = started
	}
	if finishedRaw.Valid {
		if finished, err := parseTimeString(finishedRaw.String); err == nil {
			session.FinishedAt = &finished
		}
	}
	return &session, nil
}

// CheckHealth pings the database and runs SQLite's integrity check.
func (s *Store) CheckHealth(ctx context.Context) error {
	if _, err := os.Stat(s.path); err != nil {
		return fmt.Errorf("stat journal database: %w", err)
	}
	connCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := s.db.PingContext(connCtx); err != nil {
		return fmt.Errorf("ping journal database: %w", err)
	}
	var result string
	if err := s.db.QueryRowContext(connCtx, "PRAGMA integrity_check").Scan(&result); err != nil {
		return fmt.Errorf("integrity check: %w", err)
	}
	if result != "ok" {
		return fmt.Errorf("integrity check: %s", result)
	}
	return nil
}

const entryColumns = "id, session_id, doc_id, pages, bytes, path, created_at, uploaded_at"

func scanEntry(scanner interface{ Scan(dest ...any) error }) (*Entry, error) {
	var (
		entry       Entry
		docID       int64
		path        sql.NullString
		createdRaw  string
		uploadedRaw sql.NullString
	)
	if err := scanner.Scan(&entry.ID, &entry.SessionID, &docID, &entry.Pages, &entry.Bytes, &path, &createdRaw, &uploadedRaw); err != nil {
		return nil, err
	}
	entry.DocumentID = uint32(docID)
	entry.Path = path.String
	if created, err := parseTimeString(createdRaw); err == nil {
		entry.CreatedAt = created
	}
	if uploadedRaw.Valid {
		if uploaded, err := parseTimeString(uploadedRaw.String); err == nil {
			entry.UploadedAt = &uploaded
		}
	}
	return &entry, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	return time.Parse(time.RFC3339Nano, value)
}
