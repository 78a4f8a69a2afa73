package placement

import (
	"slices"

	"paperarchive/internal/services"
)

// WithoutBox returns a copy of the map with box removed.
// The last box cannot be removed.
func (m *ArchiveMap) WithoutBox(box Box) (*ArchiveMap, error) {
	boxes := slices.DeleteFunc(slices.Clone(m.boxes), func(b Box) bool { return b == box })
	if len(boxes) == 0 {
		return nil, services.Wrap(services.ErrConfiguration, "archive map", "remove box", "an archive needs at least one box", nil)
	}
	return fromSets(boxes, slices.Clone(m.folders)), nil
}

// WithoutFolder returns a copy of the map with folder removed. The last
// folder cannot be removed.
func (m *ArchiveMap) WithoutFolder(folder Folder) (*ArchiveMap, error) {
	folders := slices.DeleteFunc(slices.Clone(m.folders), func(f Folder) bool { return f == folder })
	if len(folders) == 0 {
		return nil, services.Wrap(services.ErrConfiguration, "archive map", "remove folder", "an archive needs at least one folder", nil)
	}
	return fromSets(slices.Clone(m.boxes), folders), nil
}
