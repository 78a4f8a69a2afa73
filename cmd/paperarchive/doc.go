// Package main hosts the paperarchive CLI.
//
// Commands are thin: they resolve configuration, build the archive map from
// the secret, and hand off to the internal packages for placement, scanning,
// ingestion and the backend. Errors carry a kind that main maps to the exit
// status.
package main
