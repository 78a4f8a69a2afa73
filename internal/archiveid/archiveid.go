package archiveid

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"github.com/zeebo/blake3"

	"paperarchive/internal/services"
)

// Derivation contexts. Changing any of these relocates every box and folder.
const (
	ArchiveContext = "paperless.kleen.org/v1 archive id generator"
	BoxContext     = "paperless.kleen.org/v1 box id generator"
	FolderContext  = "paperless.kleen.org/v1 folder id generator"
)

// Size is the byte width of box and folder identifiers.
const Size = 8

// DocumentIDMask clears the top bit so document ids fit a signed 32-bit field.
const DocumentIDMask = 0x7fffffff

// ID is an opaque box or folder identifier.
type ID [Size]byte

// String renders the identifier as lowercase hex.
func (id ID) String() string {
	return hex.EncodeToString(id[:])
}

// Bytes returns a copy of the raw identifier bytes.
func (id ID) Bytes() []byte {
	out := make([]byte, Size)
	copy(out, id[:])
	return out
}

// Compare orders identifiers by raw byte value.
func (id ID) Compare(other ID) int {
	for i := range id {
		switch {
		case id[i] < other[i]:
			return -1
		case id[i] > other[i]:
			return 1
		}
	}
	return 0
}

// ParseID decodes a hex identifier. Whitespace and colons are ignored.
func ParseID(text string) (ID, error) {
	cleaned := strings.ToLower(strings.TrimSpace(text))
	cleaned = strings.ReplaceAll(cleaned, ":", "")
	var id ID
	raw, err := hex.DecodeString(cleaned)
	if err != nil {
		return id, &ValidationError{Input: text, Reason: "not hexadecimal"}
	}
	if len(raw) != Size {
		return id, &ValidationError{Input: text, Reason: fmt.Sprintf("want %d bytes, got %d", Size, len(raw))}
	}
	copy(id[:], raw)
	return id, nil
}

// FromBytes copies raw into an ID, rejecting anything that is not exactly Size bytes.
func FromBytes(raw []byte) (ID, error) {
	var id ID
	if len(raw) != Size {
		return id, &ValidationError{Input: hex.EncodeToString(raw), Reason: fmt.Sprintf("want %d bytes, got %d", Size, len(raw))}
	}
	copy(id[:], raw)
	return id, nil
}

// ValidationError reports identifier text that does not decode to the
// required fixed width.
type ValidationError struct {
	Input  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid identifier %q: %s", e.Input, e.Reason)
}

func (e *ValidationError) Unwrap() error { return services.ErrValidation }

// BoxID derives the identifier of the box with the given sequence number.
func BoxID(seq int, key []byte) ID {
	return derive(BoxContext, strconv.Itoa(seq), key)
}

// FolderID derives the identifier of the folder with the given sequence number.
func FolderID(seq int, key []byte) ID {
	return derive(FolderContext, strconv.Itoa(seq), key)
}

// ArchiveID derives a general purpose archive identifier from arbitrary
// material, used for one-off labels.
func ArchiveID(material, key []byte) ID {
	return deriveBytes(ArchiveContext, material, key)
}

func derive(context, seq string, key []byte) ID {
	return deriveBytes(context, []byte(seq), key)
}

func deriveBytes(context string, data, key []byte) ID {
	var subkey [32]byte
	blake3.DeriveKey(context, key, subkey[:])

	hasher, err := blake3.NewKeyed(subkey[:])
	if err != nil {
		// NewKeyed only fails for keys that are not 32 bytes.
		panic("archiveid: keyed hasher: " + err.Error())
	}
	_, _ = hasher.Write(data)

	var id ID
	copy(id[:], hasher.Sum(nil))
	return id
}

// DocumentID computes the content address of a finished document.
func DocumentID(content []byte) uint32 {
	sum := blake3.Sum256(content)
	return binary.LittleEndian.Uint32(sum[:4]) & DocumentIDMask
}

// FormatDocumentID renders a document id as a 10-digit zero-padded decimal.
func FormatDocumentID(id uint32) string {
	return fmt.Sprintf("%010d", id)
}

// ParseDocumentID parses decimal document id text, rejecting values above
// the 31-bit range.
func ParseDocumentID(text string) (uint32, error) {
	trimmed := strings.TrimSpace(text)
	value, err := strconv.ParseUint(trimmed, 10, 32)
	if err != nil {
		return 0, &ValidationError{Input: text, Reason: "not a decimal document id"}
	}
	if value > DocumentIDMask {
		return 0, &ValidationError{Input: text, Reason: "exceeds 31 bits"}
	}
	return uint32(value), nil
}
