package vtree

import (
	"context"
	"encoding/json"
	"fmt"
)

// ============================================================================
// Metadata Skeleton
// ============================================================================

// MetadataKind discriminates file records from folder records.
type MetadataKind int

const (
	// MetadataFile marks a file record: name plus declared byte count.
	MetadataFile MetadataKind = iota

	// MetadataFolder marks a folder record: name plus ordered children.
	MetadataFolder
)

func (k MetadataKind) String() string {
	if k == MetadataFolder {
		return "folder"
	}
	return "file"
}

// Metadata is the content-free, serializable projection of a subtree.
//
// It is a tagged union: Kind selects which of the remaining fields are
// meaningful. ByteCount is set for files only; Children is set for folders
// only and is never nil for a folder (an empty folder keeps an empty
// array, which the wire format preserves).
//
// Wire format (must stay bit-compatible between producer and consumer):
//
//	file:   {"name": string, "byteCount": integer}
//	folder: {"name": string, "children": [ ... ]}
//
// On the wire the two shapes are discriminated solely by the presence of
// the "children" field; the in-memory Kind discriminant is reconstructed
// from it at decode time.
type Metadata struct {
	Kind      MetadataKind
	Name      string
	ByteCount uint64
	Children  []*Metadata
}

// fileWire and folderWire are the two JSON shapes of a metadata record.
type fileWire struct {
	Name      string `json:"name"`
	ByteCount uint64 `json:"byteCount"`
}

type folderWire struct {
	Name     string      `json:"name"`
	Children []*Metadata `json:"children"`
}

// MarshalJSON encodes the record in its kind's wire shape.
func (m *Metadata) MarshalJSON() ([]byte, error) {
	if m.Kind == MetadataFolder {
		children := m.Children
		if children == nil {
			children = []*Metadata{}
		}
		return json.Marshal(folderWire{Name: m.Name, Children: children})
	}
	return json.Marshal(fileWire{Name: m.Name, ByteCount: m.ByteCount})
}

// UnmarshalJSON decodes either wire shape, discriminating on the presence
// of the "children" field.
func (m *Metadata) UnmarshalJSON(data []byte) error {
	// A pointer-typed Children distinguishes "absent" (nil) from an
	// explicitly empty array, which is what discriminates the two shapes.
	var probe struct {
		Name      string       `json:"name"`
		ByteCount uint64       `json:"byteCount"`
		Children  *[]*Metadata `json:"children"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return fmt.Errorf("metadata record: %w", err)
	}

	if probe.Children != nil {
		m.Kind = MetadataFolder
		m.Name = probe.Name
		m.ByteCount = 0
		m.Children = *probe.Children
		if m.Children == nil {
			m.Children = []*Metadata{}
		}
		return nil
	}

	m.Kind = MetadataFile
	m.Name = probe.Name
	m.ByteCount = probe.ByteCount
	m.Children = nil
	return nil
}

// ============================================================================
// Skeleton Reconstruction
// ============================================================================

// FromMetadata rebuilds an empty skeleton tree from a metadata record.
//
// Every node of the description is created (folders and content-less
// files), preserving child insertion order exactly as recorded: that order
// later governs the traversal order of FromParts, so it must match what
// the producing side serialized.
//
// The walk is breadth-first over an explicit queue, mirroring the bulk
// traversals on the live tree.
func FromMetadata(ctx context.Context, meta *Metadata) (*VirtualFolder, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if meta == nil {
		return nil, fmt.Errorf("nil record: %w", ErrInvalidMetadata)
	}
	if meta.Kind != MetadataFolder {
		return nil, fmt.Errorf("root record %q is a file: %w", meta.Name, ErrInvalidMetadata)
	}

	root := NewFolder(meta.Name)

	type pair struct {
		meta   *Metadata
		folder *VirtualFolder
	}

	queue := []pair{{meta: meta, folder: root}}
	for len(queue) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		current := queue[0]
		queue = queue[1:]

		for _, childMeta := range current.meta.Children {
			if childMeta == nil {
				return nil, fmt.Errorf("nil child record under %q: %w",
					current.meta.Name, ErrInvalidMetadata)
			}

			switch childMeta.Kind {
			case MetadataFolder:
				child := NewFolder(childMeta.Name)
				if err := current.folder.Add(child); err != nil {
					return nil, err
				}
				queue = append(queue, pair{meta: childMeta, folder: child})

			case MetadataFile:
				if err := current.folder.Add(newSkeletonFile(childMeta.Name, childMeta.ByteCount)); err != nil {
					return nil, err
				}

			default:
				return nil, fmt.Errorf("record %q has unknown kind %d: %w",
					childMeta.Name, childMeta.Kind, ErrInvalidMetadata)
			}
		}
	}
	return root, nil
}
