// Package vtree implements a virtual hierarchical file tree with a
// metadata-skeleton codec and a fixed-size-part streaming protocol.
//
// The tree is an in-memory model only: file bytes live behind the ByteSource
// contract and are never owned by the tree itself. A tree can be projected
// to a content-free metadata skeleton, its aggregate content streamed out as
// bounded-size parts, and an equivalent tree rebuilt on the far side from
// skeleton + parts + an injected file writer.
//
// Concurrency model: operations on a given tree are not safe for concurrent
// structural mutation. Callers must serialize Add/Remove against traversal
// and streaming on the same subtree. All potentially long-running operations
// take a context.Context and check it cooperatively; a cancelled context
// surfaces as the context's own error, never as a wrapped failure.
package vtree

import (
	"context"

	"github.com/google/uuid"
)

// Node is a file or folder in the virtual tree.
//
// Every node carries a process-local identifier generated once at
// construction. The ID is used for reference identity and debugging only;
// it is never part of the serialized metadata and does not survive a
// round trip through the parts protocol.
type Node interface {
	// ID returns the node's process-local identifier.
	ID() uuid.UUID

	// Name returns the display name.
	Name() string

	// SetName overwrites the display name. Uniqueness within the parent
	// folder is a caller policy and is not enforced here.
	SetName(name string)

	// Parent returns the containing folder, or nil for a detached node.
	Parent() *VirtualFolder

	// ByteCount returns the total content size in bytes: the declared
	// size for a file, the sum over all descendant files for a folder.
	ByteCount(ctx context.Context) (uint64, error)

	// Metadata returns the content-free description of this node.
	Metadata(ctx context.Context) (*Metadata, error)

	// setParent replaces the weak parent back-reference. It does not
	// touch any child list; folder Add/Remove orchestrate both sides.
	setParent(parent *VirtualFolder)
}

// nodeBase carries the identity and parent link shared by files and folders.
//
// The parent pointer is a non-owning back-reference: the only ownership edge
// in the tree is the folder's child list, and the two must always agree.
type nodeBase struct {
	id     uuid.UUID
	name   string
	parent *VirtualFolder
}

func newNodeBase(name string) nodeBase {
	return nodeBase{
		id:   uuid.New(),
		name: name,
	}
}

// ID returns the node's process-local identifier.
func (n *nodeBase) ID() uuid.UUID {
	return n.id
}

// Name returns the display name.
func (n *nodeBase) Name() string {
	return n.name
}

// SetName overwrites the display name.
func (n *nodeBase) SetName(name string) {
	n.name = name
}

// Parent returns the containing folder, or nil.
func (n *nodeBase) Parent() *VirtualFolder {
	return n.parent
}

func (n *nodeBase) setParent(parent *VirtualFolder) {
	n.parent = parent
}
