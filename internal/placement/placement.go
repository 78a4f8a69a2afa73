package placement

import (
	"encoding/binary"

	"github.com/zeebo/blake3"

	"paperarchive/internal/archiveid"
)

// Weight is the rendezvous weight of candidate b for subject a: the first
// eight bytes of BLAKE3(a || b), little endian.
func Weight(a, b []byte) uint64 {
	hasher := blake3.New()
	_, _ = hasher.Write(a)
	_, _ = hasher.Write(b)
	sum := hasher.Sum(nil)
	return binary.LittleEndian.Uint64(sum[:8])
}

// lighter orders candidates by weight, then by identifier bytes.
func lighter(weight uint64, id archiveid.ID, bestWeight uint64, bestID archiveid.ID) bool {
	if weight != bestWeight {
		return weight < bestWeight
	}
	return id.Compare(bestID) < 0
}

// PlaceFolder returns the box holding folder.
func (m *ArchiveMap) PlaceFolder(folder Folder) Box {
	best := m.boxes[0]
	bestWeight := Weight(best.ID[:], folder.ID[:])
	for _, box := range m.boxes[1:] {
		w := Weight(box.ID[:], folder.ID[:])
		if lighter(w, box.ID, bestWeight, best.ID) {
			best, bestWeight = box, w
		}
	}
	return best
}

// PlaceDocument returns the folder holding the document with docID. The
// subject is the 10-digit zero-padded decimal form of the id.
func (m *ArchiveMap) PlaceDocument(docID uint32) Folder {
	subject := []byte(archiveid.FormatDocumentID(docID))
	best := m.folders[0]
	bestWeight := Weight(best.ID[:], subject)
	for _, folder := range m.folders[1:] {
		w := Weight(folder.ID[:], subject)
		if lighter(w, folder.ID, bestWeight, best.ID) {
			best, bestWeight = folder, w
		}
	}
	return best
}

// FoldersInBox returns every folder placed in box, in map order.
func (m *ArchiveMap) FoldersInBox(box Box) []Folder {
	var out []Folder
	for _, folder := range m.folders {
		if m.PlaceFolder(folder) == box {
			out = append(out, folder)
		}
	}
	return out
}

// Location is where a document lives.
type Location struct {
	DocumentID uint32
	Folder     Folder
	Box        Box
}

// Locate resolves a document id to its folder and box.
func (m *ArchiveMap) Locate(docID uint32) Location {
	folder := m.PlaceDocument(docID)
	return Location{DocumentID: docID, Folder: folder, Box: m.PlaceFolder(folder)}
}
