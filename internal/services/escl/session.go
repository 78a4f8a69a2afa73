package escl

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"paperarchive/internal/config"
	"paperarchive/internal/logging"
	"paperarchive/internal/services"
)

// Scanner is the protocol surface a Session needs.
type Scanner interface {
	Capabilities(ctx context.Context) (Capabilities, error)
	WaitFor(ctx context.Context, ready func(Status) bool) (Status, error)
	ScanPDF(ctx context.Context, source string, resolution int) ([]byte, error)
}

// Acquisition holds the raw PDFs returned by one session. ADF sessions fill
// Fronts (and Backs when duplex); flatbed sessions fill Flatbed with one PDF
// per confirmed page.
type Acquisition struct {
	Source  string
	Fronts  []byte
	Backs   []byte
	Flatbed [][]byte
}

// Session is an exclusive scanner run identified by a random id.
type Session struct {
	ID string

	scanner    Scanner
	source     string
	resolution int
	duplex     bool
	prompter   *Prompter
	logger     *slog.Logger
	lock       *flock.Flock
	lockPath   string
}

// OpenSession takes the scanner lock under the state directory. It fails
// when another process holds it.
func OpenSession(cfg *config.Config, scanner Scanner, prompter *Prompter, logger *slog.Logger) (*Session, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}
	lockPath := cfg.LockPath()
	lock := flock.New(lockPath)
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire scanner lock: %w", err)
	}
	if !ok {
		return nil, services.Wrap(services.ErrScannerProtocol, "escl", "open session",
			fmt.Sprintf("scanner is in use by another process (lock %s)", lockPath), nil)
	}

	id := uuid.NewString()
	return &Session{
		ID:         id,
		scanner:    scanner,
		source:     cfg.Scanner.Source,
		resolution: cfg.Scanner.Resolution,
		duplex:     cfg.Scanner.Duplex,
		prompter:   prompter,
		logger:     logging.NewComponentLogger(logger, "scan").With(logging.String(logging.FieldSessionID, id)),
		lock:       lock,
		lockPath:   lockPath,
	}, nil
}

// Close releases the scanner lock.
func (s *Session) Close() error {
	if s == nil || s.lock == nil {
		return nil
	}
	if err := s.lock.Unlock(); err != nil {
		return fmt.Errorf("release scanner lock %s: %w", s.lockPath, err)
	}
	return nil
}

// Context stamps ctx with the session id for log correlation.
func (s *Session) Context(ctx context.Context) context.Context {
	return services.WithRequestID(ctx, s.ID)
}

// Acquire checks the scanner supports the configured source and runs the
// matching acquisition flow.
func (s *Session) Acquire(ctx context.Context) (*Acquisition, error) {
	ctx = services.WithStage(s.Context(ctx), "acquire")
	caps, err := s.scanner.Capabilities(ctx)
	if err != nil {
		return nil, err
	}
	if !caps.SupportsSource(s.source) {
		return nil, services.ScannerStatus(capabilitiesPath, 0,
			fmt.Sprintf("scanner %q does not support source %q", caps.MakeAndModel, s.source))
	}
	if s.source == config.SourceFlatbed {
		return s.acquireFlatbed(ctx)
	}
	return s.acquireFeeder(ctx)
}

func (s *Session) feederReady(status Status) bool {
	return status.Idle() && status.AdfLoaded()
}

func (s *Session) acquireFeeder(ctx context.Context) (*Acquisition, error) {
	out := &Acquisition{Source: s.source}

	s.logger.Info("waiting for paper in the feeder")
	if _, err := s.scanner.WaitFor(ctx, s.feederReady); err != nil {
		return nil, err
	}
	fronts, err := s.scanner.ScanPDF(ctx, s.source, s.resolution)
	if err != nil {
		return nil, err
	}
	out.Fronts = fronts
	s.logger.Info("front pages scanned", logging.Int("bytes", len(fronts)))

	if !s.duplex {
		return out, nil
	}
	s.logger.Info("turn the stack over and reload it to scan back pages")
	if _, err := s.scanner.WaitFor(ctx, s.feederReady); err != nil {
		return nil, err
	}
	backs, err := s.scanner.ScanPDF(ctx, s.source, s.resolution)
	if err != nil {
		return nil, err
	}
	out.Backs = backs
	s.logger.Info("back pages scanned", logging.Int("bytes", len(backs)))
	return out, nil
}

func (s *Session) acquireFlatbed(ctx context.Context) (*Acquisition, error) {
	out := &Acquisition{Source: s.source}
	for s.prompter.YesNo("Scan page?") {
		if _, err := s.scanner.WaitFor(ctx, Status.Idle); err != nil {
			return nil, err
		}
		page, err := s.scanner.ScanPDF(ctx, s.source, s.resolution)
		if err != nil {
			return nil, err
		}
		out.Flatbed = append(out.Flatbed, page)
		s.logger.Info("flatbed page scanned", logging.Int("page", len(out.Flatbed)))
	}
	return out, nil
}
