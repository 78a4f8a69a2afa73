package mnemonic

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"strings"

	"github.com/tyler-smith/go-bip39/wordlists"
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"paperarchive/internal/services"
)

const (
	DefaultWordSeparator  = "-"
	DefaultGroupSeparator = "--"

	chunkSize = 4
	minSpan   = uint64(1) << 32
)

// Codec encodes bytes into words using a fixed word list.
type Codec struct {
	words    []string
	index    map[string]int
	base     uint64
	wordSep  string
	groupSep string
}

// Option customizes a Codec.
type Option func(*Codec)

// WithSeparators overrides the inter-word and inter-group separators.
func WithSeparators(word, group string) Option {
	return func(c *Codec) {
		if word != "" {
			c.wordSep = word
		}
		if group != "" {
			c.groupSep = group
		}
	}
}

// New builds a codec over words. It fails when the list is too small for
// three words to cover 32 bits, or when words repeat.
func New(words []string, opts ...Option) (*Codec, error) {
	c := &Codec{
		words:    make([]string, len(words)),
		index:    make(map[string]int, len(words)),
		base:     uint64(len(words)),
		wordSep:  DefaultWordSeparator,
		groupSep: DefaultGroupSeparator,
	}
	if !coversUint32(c.base) {
		return nil, services.Wrap(services.ErrConfiguration, "mnemonic", "new codec",
			fmt.Sprintf("word list has %d words; need at least 1626 so that W^3 >= 2^32", len(words)), nil)
	}
	for i, word := range words {
		key := c.normalize(word)
		if key == "" {
			return nil, services.Wrap(services.ErrConfiguration, "mnemonic", "new codec", fmt.Sprintf("word %d is blank", i), nil)
		}
		if _, dup := c.index[key]; dup {
			return nil, services.Wrap(services.ErrConfiguration, "mnemonic", "new codec", fmt.Sprintf("word %q repeats", word), nil)
		}
		c.words[i] = word
		c.index[key] = i
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.wordSep == c.groupSep || strings.Contains(c.wordSep, c.groupSep) {
		return nil, services.Wrap(services.ErrConfiguration, "mnemonic", "new codec", "group separator must not occur inside the word separator", nil)
	}
	return c, nil
}

// Default returns a codec over the BIP-39 English list (2048 words).
func Default(opts ...Option) *Codec {
	c, err := New(wordlists.English, opts...)
	if err != nil {
		panic("mnemonic: default word list: " + err.Error())
	}
	return c
}

// ReadWordList reads one word per line, skipping blank lines and # comments.
func ReadWordList(r io.Reader) ([]string, error) {
	var words []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		words = append(words, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read word list: %w", err)
	}
	return words, nil
}

func coversUint32(base uint64) bool {
	if base >= 1<<11 {
		return true
	}
	return base*base*base >= minSpan
}

// Size returns W, the number of words in the list.
func (c *Codec) Size() int { return len(c.words) }

// Word returns the word for digit i.
func (c *Codec) Word(i int) string { return c.words[i] }

// Span returns W^3, the number of values three words can express, saturating
// at the uint64 maximum.
func (c *Codec) Span() uint64 {
	if c.base >= 1<<21 {
		return ^uint64(0)
	}
	return c.base * c.base * c.base
}

// Digits splits x into three base-W digits, most significant first.
func (c *Codec) Digits(x uint64) ([3]int, error) {
	if x >= c.Span() {
		return [3]int{}, services.Wrap(services.ErrValidation, "mnemonic", "encode", fmt.Sprintf("value %d needs more than three words", x), nil)
	}
	return [3]int{int(x / c.base / c.base), int((x / c.base) % c.base), int(x % c.base)}, nil
}

// EncodeValue returns the three words for any x below W^3.
func (c *Codec) EncodeValue(x uint64) ([3]string, error) {
	digits, err := c.Digits(x)
	if err != nil {
		return [3]string{}, err
	}
	return [3]string{c.words[digits[0]], c.words[digits[1]], c.words[digits[2]]}, nil
}

// Encode32 returns the three words for a 32-bit value.
func (c *Codec) Encode32(x uint32) [3]string {
	words, err := c.EncodeValue(uint64(x))
	if err != nil {
		// New guarantees W^3 >= 2^32.
		panic(err)
	}
	return words
}

// Words encodes src into its flat word sequence.
func (c *Codec) Words(src []byte) []string {
	out := make([]string, 0, (len(src)+chunkSize-1)/chunkSize*3)
	for start := 0; start < len(src); start += chunkSize {
		words := c.Encode32(chunkValue(src[start:min(start+chunkSize, len(src))]))
		out = append(out, words[:]...)
	}
	return out
}

// Encode renders src with the configured separators.
func (c *Codec) Encode(src []byte) string {
	words := c.Words(src)
	groups := make([]string, 0, len(words)/3)
	for i := 0; i < len(words); i += 3 {
		groups = append(groups, strings.Join(words[i:i+3], c.wordSep))
	}
	return strings.Join(groups, c.groupSep)
}

// Decode inverts Encode. size is the original byte length, which fixes the
// width of the final chunk.
func (c *Codec) Decode(text string, size int) ([]byte, error) {
	if size < 0 {
		return nil, services.Wrap(services.ErrValidation, "mnemonic", "decode",
			fmt.Sprintf("byte length %d is negative", size), nil)
	}
	wantGroups := (size + chunkSize - 1) / chunkSize
	text = strings.TrimSpace(text)
	var groups []string
	if text != "" {
		groups = strings.Split(text, c.groupSep)
	}
	if len(groups) != wantGroups {
		return nil, services.Wrap(services.ErrValidation, "mnemonic", "decode",
			fmt.Sprintf("want %d word groups for %d bytes, got %d", wantGroups, size, len(groups)), nil)
	}

	out := make([]byte, 0, size)
	for i, group := range groups {
		words := strings.Split(strings.TrimSpace(group), c.wordSep)
		if len(words) != 3 {
			return nil, services.Wrap(services.ErrValidation, "mnemonic", "decode",
				fmt.Sprintf("group %d has %d words, want 3", i+1, len(words)), nil)
		}
		var value uint64
		for _, word := range words {
			digit, ok := c.index[c.normalize(word)]
			if !ok {
				return nil, services.Wrap(services.ErrValidation, "mnemonic", "decode", fmt.Sprintf("unknown word %q", word), nil)
			}
			value = value*c.base + uint64(digit)
		}
		width := min(chunkSize, size-i*chunkSize)
		if value >= uint64(1)<<(8*width) {
			return nil, services.Wrap(services.ErrValidation, "mnemonic", "decode",
				fmt.Sprintf("group %d does not fit in %d bytes", i+1, width), nil)
		}
		var buf [8]byte
		binary.BigEndian.PutUint64(buf[:], value)
		out = append(out, buf[8-width:]...)
	}
	return out, nil
}

func (c *Codec) normalize(word string) string {
	return cases.Fold().String(norm.NFKC.String(strings.TrimSpace(word)))
}

func chunkValue(chunk []byte) uint32 {
	var value uint32
	for _, b := range chunk {
		value = value<<8 | uint32(b)
	}
	return value
}
