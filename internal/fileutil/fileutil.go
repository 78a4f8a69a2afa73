package fileutil

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// WriteFileAtomic writes data to a temporary file beside path, syncs it,
// checks the bytes on disk against data, and renames it over path. A failed
// write never leaves a partial file at path.
func WriteFileAtomic(path string, data []byte, mode os.FileMode) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+"-*")
	if err != nil {
		return fmt.Errorf("create temporary file: %w", err)
	}
	tmpPath := tmp.Name()
	fail := func(err error) error {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return err
	}

	if _, err := tmp.Write(data); err != nil {
		return fail(fmt.Errorf("write: %w", err))
	}
	if err := tmp.Sync(); err != nil {
		return fail(fmt.Errorf("sync: %w", err))
	}
	if err := tmp.Chmod(mode); err != nil {
		return fail(fmt.Errorf("chmod: %w", err))
	}
	if err := verify(tmp, data); err != nil {
		return fail(err)
	}
	if err := tmp.Close(); err != nil {
		return fail(fmt.Errorf("close: %w", err))
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("rename into place: %w", err)
	}
	return nil
}

// verify re-reads f from the start and compares size and SHA256 with want.
func verify(f *os.File, want []byte) error {
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("rewind: %w", err)
	}
	hasher := sha256.New()
	written, err := io.Copy(hasher, f)
	if err != nil {
		return fmt.Errorf("read back: %w", err)
	}
	if written != int64(len(want)) {
		return fmt.Errorf("size mismatch: wrote %d bytes, read back %d", len(want), written)
	}
	wantSum := sha256.Sum256(want)
	if !bytes.Equal(hasher.Sum(nil), wantSum[:]) {
		return fmt.Errorf("hash mismatch: file corrupted during write")
	}
	return nil
}
