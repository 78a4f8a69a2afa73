package logging

import (
	"context"
	"log/slog"

	"paperarchive/internal/services"
)

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldStage is the standardized key for ingest stage names (acquire, split, upload).
	FieldStage = "stage"
	// FieldSessionID is the standardized key for scan session correlation ids.
	FieldSessionID = "session_id"
	// FieldDocumentID is the standardized key for 10-digit document ids.
	FieldDocumentID = "document_id"
	// FieldFolderID is the standardized key for folder identifiers (hex).
	FieldFolderID = "folder_id"
	// FieldBoxID is the standardized key for box identifiers (hex).
	FieldBoxID = "box_id"
	// FieldEndpoint is the standardized key for remote HTTP endpoints.
	FieldEndpoint = "endpoint"
	// FieldEventType classifies warnings and errors for filtering.
	FieldEventType = "event_type"
	// FieldErrorHint carries the suggested next step for an operator.
	FieldErrorHint = "error_hint"
	// FieldImpact is the user-facing consequence of a warning.
	FieldImpact = "impact"
)

// ContextFields extracts standardized slog attributes from the provided context.
func ContextFields(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	fields := make([]slog.Attr, 0, 2)
	if rid, ok := services.RequestIDFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldSessionID, rid))
	}
	if stage, ok := services.StageFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldStage, stage))
	}
	return fields
}

// WithContext returns a logger augmented with structured fields derived from the supplied context.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	fields := ContextFields(ctx)
	if len(fields) == 0 {
		return logger
	}
	return logger.With(attrsToArgs(fields)...)
}
