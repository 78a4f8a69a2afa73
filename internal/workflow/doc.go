// Package workflow runs one acquisition through the archive: pages are split
// into documents at separator sheets, every document is journaled and placed,
// written to the output directory when one is configured, and optionally
// uploaded to the backend.
//
// Runner is the single entry point for both the scanner and file ingest
// paths so the two produce identical journal records and output files.
package workflow
