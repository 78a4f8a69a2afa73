package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"paperarchive/internal/barcode"
	"paperarchive/internal/config"
	"paperarchive/internal/ingest"
	"paperarchive/internal/journal"
	"paperarchive/internal/logging"
	"paperarchive/internal/pdfpages"
	"paperarchive/internal/placement"
	"paperarchive/internal/services"
)

// Uploader sends a finished document to the backend and returns its task id.
type Uploader interface {
	Upload(ctx context.Context, doc ingest.Document) (string, error)
}

// Result describes one produced document.
type Result struct {
	Document  ingest.Document
	Entry     journal.Entry
	Location  placement.Location
	Duplicate *journal.Entry
	Task      string
}

// Runner carries the dependencies shared by every acquisition.
type Runner struct {
	cfg        *config.Config
	store      *journal.Store
	archive    *placement.ArchiveMap
	uploader   Uploader
	logger     *slog.Logger
	newDecoder func() ingest.Decoder
	assembler  ingest.Assembler
	workers    int
}

// Option customizes a Runner.
type Option func(*Runner)

// WithUploader enables uploading every produced document.
func WithUploader(u Uploader) Option {
	return func(r *Runner) { r.uploader = u }
}

// WithDecoderFactory replaces the barcode decoder. The factory is called once
// per decoding goroutine.
func WithDecoderFactory(fn func() ingest.Decoder) Option {
	return func(r *Runner) {
		if fn != nil {
			r.newDecoder = fn
		}
	}
}

// WithWorkers decodes front-page barcodes on n goroutines before the split
// starts. With one worker, the default, pages are decoded lazily as the
// splitter reaches them. The split itself is always sequential.
func WithWorkers(n int) Option {
	return func(r *Runner) { r.workers = n }
}

// New constructs a Runner. archive is used to report where each document
// belongs.
func New(cfg *config.Config, store *journal.Store, archive *placement.ArchiveMap, logger *slog.Logger, opts ...Option) *Runner {
	logger = logging.NewComponentLogger(logger, "workflow")
	r := &Runner{
		cfg:       cfg,
		store:     store,
		archive:   archive,
		logger:    logger,
		assembler: pdfpages.Assembler{},
		workers:   1,
		newDecoder: func() ingest.Decoder {
			return barcode.New(logger)
		},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Runner) splitOptions(duplex bool) ingest.Options {
	return ingest.Options{
		Duplex:        duplex,
		SeparatorCode: r.cfg.Barcodes.Separator,
		SimplexCode:   r.cfg.Barcodes.Simplex,
	}
}

// Pages splits fronts and backs into documents and processes them under
// sessionID. The session must already be open in the journal. duplex is the
// mode the stack starts in; separator sheets may switch it.
func (r *Runner) Pages(ctx context.Context, sessionID string, fronts, backs []ingest.Page, duplex bool) ([]Result, error) {
	ctx = services.WithStage(ctx, "split")
	decoder := r.newDecoder()
	if r.workers > 1 {
		cache, err := barcode.Prefetch(ctx, fronts, r.workers, r.newDecoder)
		if err != nil {
			return nil, err
		}
		decoder = cache
	}

	docs, err := ingest.Split(ctx, fronts, backs, r.splitOptions(duplex), decoder, r.assembler, r.logger)
	if err != nil {
		return nil, err
	}
	logging.WithContext(ctx, r.logger).Info("pages split",
		logging.Int("fronts", len(fronts)),
		logging.Int("backs", len(backs)),
		logging.Int("documents", len(docs)),
	)
	return r.Documents(ctx, sessionID, docs)
}

// Documents journals, places, writes and optionally uploads docs.
func (r *Runner) Documents(ctx context.Context, sessionID string, docs []ingest.Document) ([]Result, error) {
	results := make([]Result, 0, len(docs))
	for _, doc := range docs {
		result, err := r.process(ctx, sessionID, doc)
		if err != nil {
			return results, err
		}
		results = append(results, result)
	}
	return results, nil
}

func (r *Runner) process(ctx context.Context, sessionID string, doc ingest.Document) (Result, error) {
	ctx = services.WithStage(ctx, "record")
	loc := r.archive.Locate(doc.ID)
	logger := logging.WithContext(ctx, r.logger).With(
		logging.String(logging.FieldDocumentID, doc.IDString()),
		logging.String(logging.FieldFolderID, loc.Folder.ID.String()),
		logging.String(logging.FieldBoxID, loc.Box.ID.String()),
	)
	result := Result{Document: doc, Location: loc}

	previous, err := r.store.FindDocument(ctx, doc.ID)
	if err != nil {
		return result, err
	}
	if previous != nil {
		result.Duplicate = previous
		logging.WarnWithContext(logger, "document id seen before", "duplicate_document",
			logging.String("previous_session", previous.SessionID),
			logging.String(logging.FieldErrorHint, "the same pages were probably ingested twice"),
			logging.String(logging.FieldImpact, "the document is recorded again under the same id"),
		)
	}

	path, err := writeDocument(r.cfg.Paths.OutputDir, doc)
	if err != nil {
		return result, err
	}

	entry, err := r.store.RecordDocument(ctx, journal.Entry{
		SessionID:  sessionID,
		DocumentID: doc.ID,
		Pages:      doc.Pages,
		Bytes:      int64(len(doc.Content)),
		Path:       path,
	})
	if err != nil {
		return result, err
	}
	result.Entry = *entry
	logger.Info("document recorded", logging.Int("pages", doc.Pages), logging.String("path", path))

	if r.uploader == nil {
		return result, nil
	}
	task, err := r.uploader.Upload(ctx, doc)
	if err != nil {
		return result, fmt.Errorf("upload document %s: %w", doc.IDString(), err)
	}
	if err := r.store.MarkUploaded(ctx, entry.ID); err != nil {
		return result, err
	}
	uploaded := time.Now().UTC()
	result.Entry.UploadedAt = &uploaded
	result.Task = task
	return result, nil
}
