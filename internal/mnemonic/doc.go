// Package mnemonic renders fixed-width binary identifiers as word sequences
// that are easier to read aloud and copy by hand than hex.
//
// Input is split into 4-byte big-endian chunks and each chunk becomes three
// base-W digits, W being the word list size. The list must satisfy
// W^3 >= 2^32 so any chunk fits in three words. The encoding is not
// self-describing: decoding needs the original byte length.
package mnemonic
