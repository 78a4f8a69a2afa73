package ingest

import "iter"

// Pair is one sheet position: a front page and, when back pages are in use,
// the matching back page.
type Pair struct {
	Front Page
	Back  *Page
}

// Pairs zips fronts with backs consumed from the end toward the start.
// Backs are ignored when duplex is false. A position without a matching back
// page yields a nil Back; fronts are never dropped.
func Pairs(fronts, backs []Page, duplex bool) iter.Seq[Pair] {
	return func(yield func(Pair) bool) {
		for i, front := range fronts {
			pair := Pair{Front: front}
			if duplex {
				if j := len(backs) - 1 - i; j >= 0 {
					back := backs[j]
					pair.Back = &back
				}
			}
			if !yield(pair) {
				return
			}
		}
	}
}
