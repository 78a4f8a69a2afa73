package mnemonic_test

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"paperarchive/internal/mnemonic"
	"paperarchive/internal/services"
)

func syntheticWords(n int) []string {
	words := make([]string, n)
	for i := range words {
		words[i] = fmt.Sprintf("w%04d", i)
	}
	return words
}

func TestNewRejectsSmallWordList(t *testing.T) {
	if _, err := mnemonic.New(syntheticWords(1625)); !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error for 1625 words, got %v", err)
	}
	if _, err := mnemonic.New(syntheticWords(1626)); err != nil {
		t.Fatalf("expected 1626 words to be accepted: %v", err)
	}
}

func TestNewRejectsDuplicateWords(t *testing.T) {
	words := syntheticWords(2000)
	words[10] = "W0003"
	if _, err := mnemonic.New(words); !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected duplicate (case-folded) word to be rejected, got %v", err)
	}
}

func TestEncodeBoundaries(t *testing.T) {
	words := syntheticWords(1626)
	codec, err := mnemonic.New(words)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	first := words[0]
	last := words[len(words)-1]

	if got := codec.Encode32(0); got != [3]string{first, first, first} {
		t.Fatalf("Encode32(0) = %v", got)
	}
	top, err := codec.EncodeValue(codec.Span() - 1)
	if err != nil {
		t.Fatalf("EncodeValue(W^3-1): %v", err)
	}
	if top != [3]string{last, last, last} {
		t.Fatalf("EncodeValue(W^3-1) = %v", top)
	}
	if _, err := codec.EncodeValue(codec.Span()); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected W^3 to be rejected, got %v", err)
	}
}

func TestEncode32Digits(t *testing.T) {
	codec := mnemonic.Default()
	if codec.Size() != 2048 {
		t.Fatalf("expected 2048 words, got %d", codec.Size())
	}
	cases := []struct {
		value uint32
		want  [3]string
	}{
		{0, [3]string{"abandon", "abandon", "abandon"}},
		{1, [3]string{"abandon", "abandon", "ability"}},
		{2048, [3]string{"abandon", "ability", "abandon"}},
		{2048*2048 + 2, [3]string{"ability", "abandon", "able"}},
		{2047, [3]string{"abandon", "abandon", "zoo"}},
	}
	for _, tc := range cases {
		if got := codec.Encode32(tc.value); got != tc.want {
			t.Fatalf("Encode32(%d) = %v, want %v", tc.value, got, tc.want)
		}
	}
}

func TestEncodeJoinsGroups(t *testing.T) {
	codec := mnemonic.Default()
	got := codec.Encode([]byte{0, 0, 0, 1, 0, 0, 0, 0})
	want := "abandon-abandon-ability--abandon-abandon-abandon"
	if got != want {
		t.Fatalf("Encode = %q, want %q", got, want)
	}

	// A short final chunk is its own big-endian integer.
	got = codec.Encode([]byte{0, 0, 0, 0, 0x08, 0x00})
	want = "abandon-abandon-abandon--abandon-ability-abandon"
	if got != want {
		t.Fatalf("Encode short tail = %q, want %q", got, want)
	}

	custom := mnemonic.Default(mnemonic.WithSeparators(" ", " / "))
	if got := custom.Encode([]byte{0, 0, 0, 1}); got != "abandon abandon ability" {
		t.Fatalf("custom separators: %q", got)
	}
	if codec.Encode(nil) != "" {
		t.Fatal("expected empty input to encode to empty string")
	}
}

func TestDecodeInvertsEncode(t *testing.T) {
	codec := mnemonic.Default()
	inputs := [][]byte{
		{0x12, 0x04, 0x28, 0x28, 0x20, 0xd6, 0x8f, 0xdd},
		{0xff, 0xff, 0xff, 0xff},
		{0x01, 0x02, 0x03, 0x04, 0x05},
		{0xaa},
		{},
	}
	for _, input := range inputs {
		text := codec.Encode(input)
		decoded, err := codec.Decode(text, len(input))
		if err != nil {
			t.Fatalf("Decode(%q): %v", text, err)
		}
		if !bytes.Equal(decoded, input) {
			t.Fatalf("round trip mismatch: %x -> %q -> %x", input, text, decoded)
		}
		if upper, err := codec.Decode(strings.ToUpper(text), len(input)); err != nil || !bytes.Equal(upper, input) {
			t.Fatalf("expected case-insensitive decode of %q: %x %v", text, upper, err)
		}
	}
}

func TestDecodeRejectsMalformedInput(t *testing.T) {
	codec := mnemonic.Default()
	cases := []struct {
		name string
		text string
		size int
	}{
		{"wrong group count", "abandon-abandon-ability", 8},
		{"short group", "abandon-ability--abandon-abandon-abandon", 8},
		{"unknown word", "abandon-abandon-notaword", 4},
		{"overflowing tail", "zoo-zoo-zoo", 1},
		{"negative length", "", -1},
		{"negative length with words", "abandon-abandon-abandon", -4},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := codec.Decode(tc.text, tc.size); !errors.Is(err, services.ErrValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestReadWordList(t *testing.T) {
	words, err := mnemonic.ReadWordList(strings.NewReader("# header\nalpha\n\n  beta \n"))
	if err != nil {
		t.Fatalf("ReadWordList: %v", err)
	}
	if len(words) != 2 || words[0] != "alpha" || words[1] != "beta" {
		t.Fatalf("unexpected words: %v", words)
	}
}
