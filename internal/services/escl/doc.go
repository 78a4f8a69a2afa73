// Package escl drives network scanners over the eSCL (AirScan) protocol.
//
// The scanner presents a self-signed certificate, so TLS chain verification is
// replaced by an exact match against a configured certificate fingerprint.
// Client exposes the individual protocol calls; Session wraps them into the
// acquisition flows used by `paperarchive scan` and holds an exclusive lock so
// two processes never drive the same scanner at once.
package escl
