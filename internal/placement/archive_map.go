package placement

import (
	"slices"

	"paperarchive/internal/archiveid"
	"paperarchive/internal/services"
)

const (
	// DefaultBoxes is the number of boxes in a new archive.
	DefaultBoxes = 3
	// DefaultFolders is the number of folders in a new archive.
	DefaultFolders = 50
)

// Box is a physical storage box.
type Box struct {
	ID archiveid.ID
}

func (b Box) String() string { return "Box(" + b.ID.String() + ")" }

// Folder is a physical folder stored inside exactly one box.
type Folder struct {
	ID archiveid.ID
}

func (f Folder) String() string { return "Folder(" + f.ID.String() + ")" }

// ArchiveMap is the derived set of boxes and folders for one secret key.
// It is never mutated after construction.
type ArchiveMap struct {
	boxes   []Box
	folders []Folder
}

// New derives boxCount boxes and folderCount folders from key. Sequence
// numbers start at 1 and each identifier is derived independently, so
// growing folderCount only appends folders.
func New(key []byte, boxCount, folderCount int) (*ArchiveMap, error) {
	if len(key) == 0 {
		return nil, services.Wrap(services.ErrConfiguration, "archive map", "new", "secret key is empty", nil)
	}
	if boxCount < 1 {
		return nil, services.Wrap(services.ErrConfiguration, "archive map", "new", "box count must be positive", nil)
	}
	if folderCount < 1 {
		return nil, services.Wrap(services.ErrConfiguration, "archive map", "new", "folder count must be positive", nil)
	}

	boxes := make([]Box, 0, boxCount)
	for seq := 1; seq <= boxCount; seq++ {
		boxes = append(boxes, Box{ID: archiveid.BoxID(seq, key)})
	}
	folders := make([]Folder, 0, folderCount)
	for seq := 1; seq <= folderCount; seq++ {
		folders = append(folders, Folder{ID: archiveid.FolderID(seq, key)})
	}
	return fromSets(boxes, folders), nil
}

func fromSets(boxes []Box, folders []Folder) *ArchiveMap {
	slices.SortFunc(boxes, func(a, b Box) int { return a.ID.Compare(b.ID) })
	slices.SortFunc(folders, func(a, b Folder) int { return a.ID.Compare(b.ID) })
	return &ArchiveMap{boxes: boxes, folders: folders}
}

// Boxes returns the boxes in identifier order.
func (m *ArchiveMap) Boxes() []Box {
	return slices.Clone(m.boxes)
}

// Folders returns the folders in identifier order.
func (m *ArchiveMap) Folders() []Folder {
	return slices.Clone(m.folders)
}

// Box looks up a box by identifier.
func (m *ArchiveMap) Box(id archiveid.ID) (Box, bool) {
	for _, box := range m.boxes {
		if box.ID == id {
			return box, true
		}
	}
	return Box{}, false
}

// Folder looks up a folder by identifier.
func (m *ArchiveMap) Folder(id archiveid.ID) (Folder, bool) {
	for _, folder := range m.folders {
		if folder.ID == id {
			return folder, true
		}
	}
	return Folder{}, false
}
