// Package labels produces the data printed on box and folder labels: the id
// in hex and words, the URL encoded in the label's barcode, and the hex split
// into the lines shown next to it. Layout and printing live elsewhere.
package labels

import (
	"paperarchive/internal/archiveid"
	"paperarchive/internal/mnemonic"
	"paperarchive/internal/placement"
)

// Kind distinguishes box labels from folder labels.
type Kind string

const (
	KindBox    Kind = "box"
	KindFolder Kind = "folder"
)

const (
	boxLineWidth    = 16
	folderLineWidth = 8

	// FolderSheetColumns and FolderSheetRows describe the A4 sheet folder
	// labels are laid out on.
	FolderSheetColumns = 3
	FolderSheetRows    = 13
	FolderSheetSize    = FolderSheetColumns * FolderSheetRows
)

// Position locates a folder label on a sheet. All fields are zero-based.
type Position struct {
	Sheet  int `json:"sheet"`
	Row    int `json:"row"`
	Column int `json:"column"`
}

// Label is one printable record.
type Label struct {
	Kind     Kind      `json:"kind"`
	ID       string    `json:"id"`
	Mnemonic string    `json:"mnemonic"`
	URL      string    `json:"url,omitempty"`
	Lines    []string  `json:"lines"`
	Box      string    `json:"box,omitempty"`
	Position *Position `json:"position,omitempty"`
}

// ForBox builds the label for a box. The URL is left empty when prefix is.
func ForBox(id archiveid.ID, codec *mnemonic.Codec, prefix string) Label {
	hex := id.String()
	label := Label{
		Kind:     KindBox,
		ID:       hex,
		Mnemonic: codec.Encode(id.Bytes()),
		Lines:    splitLines(hex, boxLineWidth),
	}
	if prefix != "" {
		label.URL = prefix + "/box/" + hex
	}
	return label
}

// ForFolder builds the label for a folder.
func ForFolder(id archiveid.ID, codec *mnemonic.Codec, prefix string) Label {
	hex := id.String()
	label := Label{
		Kind:     KindFolder,
		ID:       hex,
		Mnemonic: codec.Encode(id.Bytes()),
		Lines:    splitLines(hex, folderLineWidth),
	}
	if prefix != "" {
		label.URL = prefix + "/" + hex
	}
	return label
}

// Boxes returns a label for every box in m, in map order.
func Boxes(m *placement.ArchiveMap, codec *mnemonic.Codec, prefix string) []Label {
	boxes := m.Boxes()
	out := make([]Label, 0, len(boxes))
	for _, box := range boxes {
		out = append(out, ForBox(box.ID, codec, prefix))
	}
	return out
}

// Folders returns labels for the folders placed in box, or for every folder
// when box is nil. Each label records its placement box and its position on
// the folder label sheets.
func Folders(m *placement.ArchiveMap, box *placement.Box, codec *mnemonic.Codec, prefix string) []Label {
	var folders []placement.Folder
	if box != nil {
		folders = m.FoldersInBox(*box)
	} else {
		folders = m.Folders()
	}
	out := make([]Label, 0, len(folders))
	for i, folder := range folders {
		label := ForFolder(folder.ID, codec, prefix)
		label.Box = m.PlaceFolder(folder).ID.String()
		label.Position = &Position{
			Sheet:  i / FolderSheetSize,
			Row:    (i % FolderSheetSize) / FolderSheetColumns,
			Column: i % FolderSheetColumns,
		}
		out = append(out, label)
	}
	return out
}

func splitLines(text string, width int) []string {
	lines := make([]string, 0, (len(text)+width-1)/width)
	for len(text) > width {
		lines = append(lines, text[:width])
		text = text[width:]
	}
	if text != "" {
		lines = append(lines, text)
	}
	return lines
}
