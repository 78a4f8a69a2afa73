// Package config loads, normalizes, and validates paperarchive configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// ARCHIVE_SECRET_KEY and PAPERLESS_TOKEN. The Config type centralizes every
// knob the CLI needs: the archive universe, the scanner, the separator sheet
// barcodes, and the document backend.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and configuration errors that map
// to a stable exit code.
package config
