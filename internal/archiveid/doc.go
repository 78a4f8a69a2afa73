// Package archiveid derives the fixed-width identifiers used by the paper
// archive.
//
// Box and folder identifiers are keyed BLAKE3 hashes of a decimal sequence
// number. The hashing key is derived from the archive secret with a context
// string unique to each identifier kind, so a box and a folder with the same
// sequence number never share a derivation key. Document identifiers are
// content addressed: two byte-identical documents always receive the same id.
//
// Nothing here is stored. Every identifier is recomputed on demand, which is
// why the derivation must stay stable across processes and releases.
package archiveid
