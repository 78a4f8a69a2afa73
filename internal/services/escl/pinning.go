package escl

import (
	"bytes"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/tls"
	"errors"
	"fmt"
	"net/http"
)

// ErrFingerprintMismatch is returned when the scanner's leaf certificate does
// not hash to the pinned fingerprint.
var ErrFingerprintMismatch = errors.New("scanner certificate fingerprint mismatch")

// PinnedHTTPClient returns an HTTP client that accepts exactly the server
// certificate whose SHA-256 (32 byte) or SHA-1 (20 byte) digest equals
// fingerprint. No timeout is set: scan jobs run as long as the paper takes,
// so callers bound requests with their context.
func PinnedHTTPClient(fingerprint []byte) (*http.Client, error) {
	switch len(fingerprint) {
	case sha256.Size, sha1.Size:
	default:
		return nil, fmt.Errorf("pinned fingerprint has %d bytes", len(fingerprint))
	}
	want := bytes.Clone(fingerprint)

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.TLSClientConfig = &tls.Config{
		// Chain verification is replaced by VerifyConnection.
		InsecureSkipVerify: true,
		VerifyConnection: func(state tls.ConnectionState) error {
			if len(state.PeerCertificates) == 0 {
				return ErrFingerprintMismatch
			}
			leaf := state.PeerCertificates[0].Raw
			var got []byte
			if len(want) == sha1.Size {
				sum := sha1.Sum(leaf)
				got = sum[:]
			} else {
				sum := sha256.Sum256(leaf)
				got = sum[:]
			}
			if !bytes.Equal(got, want) {
				return fmt.Errorf("%w: got %x", ErrFingerprintMismatch, got)
			}
			return nil
		},
	}
	return &http.Client{Transport: transport}, nil
}
