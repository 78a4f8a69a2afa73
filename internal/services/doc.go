// Package services defines shared utilities consumed by the archive commands
// and the external integrations (the eSCL scanner and the Paperless backend).
//
// Key responsibilities:
//   - Context helpers that stamp ingest stage names and scan session
//     correlation identifiers for logging.
//   - Structured error markers plus the Wrap helper, and StatusError for
//     unexpected HTTP responses, so failures classify into configuration,
//     validation, scanner protocol, and backend errors.
//   - ExitCode, which turns that classification into a process status.
//
// None of these errors are retried. They abort the current top-level
// operation and surface to the caller.
package services
