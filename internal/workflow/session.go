package workflow

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"paperarchive/internal/ingest"
	"paperarchive/internal/journal"
	"paperarchive/internal/logging"
	"paperarchive/internal/pdfpages"
	"paperarchive/internal/services"
	"paperarchive/internal/services/escl"
)

// Acquirer yields the raw scans for one session.
type Acquirer interface {
	Acquire(ctx context.Context) (*escl.Acquisition, error)
}

// Scan acquires pages from the scanner session and processes them. The
// journal session shares the scanner session's id.
func (r *Runner) Scan(ctx context.Context, sessionID string, scanner Acquirer) (results []Result, err error) {
	ctx = services.WithRequestID(ctx, sessionID)
	acq, err := scanner.Acquire(ctx)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			logging.ErrorWithContext(logging.WithContext(ctx, r.logger), "scan acquisition failed", "scan_acquire_failed",
				logging.String(logging.FieldErrorHint, "check the scanner is idle and loaded, then scan again"),
				logging.Error(err),
			)
		}
		return nil, err
	}

	duplex := r.cfg.Scanner.Duplex && acq.Flatbed == nil
	if err := r.store.BeginSession(ctx, sessionID, journal.SourceScan, duplex); err != nil {
		return nil, err
	}
	defer func() { err = r.finish(ctx, sessionID, err) }()

	if acq.Flatbed != nil || acq.Fronts == nil {
		return r.flatbed(ctx, sessionID, acq.Flatbed)
	}
	fronts, err := pdfpages.Split(ctx, acq.Fronts, ingest.Front)
	if err != nil {
		return nil, err
	}
	var backs []ingest.Page
	if acq.Backs != nil {
		if backs, err = pdfpages.Split(ctx, acq.Backs, ingest.Back); err != nil {
			return nil, err
		}
	}
	return r.Pages(ctx, sessionID, fronts, backs, duplex)
}

// flatbed joins every confirmed page into a single document. Separator sheets
// are not interpreted.
func (r *Runner) flatbed(ctx context.Context, sessionID string, scans [][]byte) ([]Result, error) {
	if len(scans) == 0 {
		logging.WithContext(ctx, r.logger).Info("no flatbed pages scanned")
		return nil, nil
	}
	content, err := pdfpages.Merge(scans)
	if err != nil {
		return nil, err
	}
	pages, err := pdfpages.PageCount(content)
	if err != nil {
		return nil, err
	}
	return r.Documents(ctx, sessionID, []ingest.Document{ingest.NewDocument(content, pages)})
}

// IngestFiles processes previously scanned PDFs. A back file switches the
// pass to duplex; its pages are expected in reverse order as a turned-over
// stack produces them.
func (r *Runner) IngestFiles(ctx context.Context, frontPath, backPath string) (string, []Result, error) {
	sessionID := uuid.NewString()
	ctx = services.WithRequestID(ctx, sessionID)

	fronts, err := pdfpages.SplitFile(ctx, frontPath, ingest.Front)
	if err != nil {
		return sessionID, nil, err
	}
	var backs []ingest.Page
	duplex := backPath != ""
	if duplex {
		if backs, err = pdfpages.SplitFile(ctx, backPath, ingest.Back); err != nil {
			return sessionID, nil, err
		}
	}

	if err := r.store.BeginSession(ctx, sessionID, journal.SourceIngest, duplex); err != nil {
		return sessionID, nil, err
	}
	results, err := r.Pages(ctx, sessionID, fronts, backs, duplex)
	return sessionID, results, r.finish(ctx, sessionID, err)
}

func (r *Runner) finish(ctx context.Context, sessionID string, runErr error) error {
	if err := r.store.FinishSession(context.WithoutCancel(ctx), sessionID); err != nil {
		return errors.Join(runErr, err)
	}
	return runErr
}
