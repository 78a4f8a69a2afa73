package ingest

import (
	"context"
	"fmt"
	"log/slog"

	"paperarchive/internal/logging"
	"paperarchive/internal/services"
)

// Options configures a splitting pass.
type Options struct {
	// Duplex is the configured mode; separators restore it.
	Duplex        bool
	SeparatorCode string
	SimplexCode   string
}

// Splitter turns paired pages into documents. A Splitter serves one pass and
// is not safe for concurrent use.
type Splitter struct {
	opts      Options
	decoder   Decoder
	assembler Assembler
	logger    *slog.Logger

	duplexActive bool
	buffer       []Page
	output       []Document
}

// NewSplitter prepares a pass with duplexActive set to opts.Duplex.
func NewSplitter(opts Options, decoder Decoder, assembler Assembler, logger *slog.Logger) *Splitter {
	return &Splitter{
		opts:         opts,
		decoder:      decoder,
		assembler:    assembler,
		logger:       logging.NewComponentLogger(logger, "splitter"),
		duplexActive: opts.Duplex,
	}
}

// Feed processes one sheet position.
func (s *Splitter) Feed(ctx context.Context, pair Pair) error {
	codes, err := s.decoder.Decode(ctx, pair.Front)
	if err != nil {
		return services.Wrap(services.ErrExternalTool, "splitter", "decode barcodes", fmt.Sprintf("front page %d", pair.Front.Index+1), err)
	}
	class := Classify(codes, s.opts.SeparatorCode, s.opts.SimplexCode)
	s.logger.Debug("page classified",
		logging.Int("page", pair.Front.Index+1),
		logging.String("classification", class.String()),
		logging.Int("barcodes", len(codes)),
	)

	if class.Empty() {
		s.buffer = append(s.buffer, pair.Front)
		if s.duplexActive && pair.Back != nil {
			s.buffer = append(s.buffer, *pair.Back)
		}
		return nil
	}

	if class.Has(Separator) {
		s.duplexActive = s.opts.Duplex
		if err := s.finalize(ctx); err != nil {
			return err
		}
	}
	if class.Has(Simplex) {
		s.duplexActive = false
	}
	return nil
}

// Finish flushes any buffered pages and returns every document produced.
func (s *Splitter) Finish(ctx context.Context) ([]Document, error) {
	if err := s.finalize(ctx); err != nil {
		return nil, err
	}
	out := s.output
	s.output = nil
	return out, nil
}

func (s *Splitter) finalize(ctx context.Context) error {
	if len(s.buffer) == 0 {
		return nil
	}
	content, err := s.assembler.Assemble(ctx, s.buffer)
	if err != nil {
		return services.Wrap(services.ErrExternalTool, "splitter", "assemble document", fmt.Sprintf("%d pages", len(s.buffer)), err)
	}
	doc := NewDocument(content, len(s.buffer))
	s.logger.Info("document finalized",
		logging.String(logging.FieldDocumentID, doc.IDString()),
		logging.Int("pages", doc.Pages),
		logging.Int("bytes", len(doc.Content)),
	)
	s.output = append(s.output, doc)
	s.buffer = nil
	return nil
}

// Split runs a whole session through a fresh Splitter. Any failure discards
// the partial output.
func Split(ctx context.Context, fronts, backs []Page, opts Options, decoder Decoder, assembler Assembler, logger *slog.Logger) ([]Document, error) {
	splitter := NewSplitter(opts, decoder, assembler, logger)
	if opts.Duplex && len(backs) > 0 && len(backs) != len(fronts) {
		logging.WarnWithContext(splitter.logger, "front and back page counts differ", "page_count_mismatch",
			logging.Int("fronts", len(fronts)),
			logging.Int("backs", len(backs)),
			logging.String(logging.FieldErrorHint, "check the feeder for double-fed or stuck sheets"),
			logging.String(logging.FieldImpact, "sheets without a matching back page are kept front-only"),
		)
	}
	for pair := range Pairs(fronts, backs, opts.Duplex) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := splitter.Feed(ctx, pair); err != nil {
			return nil, err
		}
	}
	return splitter.Finish(ctx)
}
