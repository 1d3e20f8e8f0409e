package vtree

import (
	"context"
	"io"
)

// Filter selects which node kinds a traversal yields.
type Filter int

const (
	// FilterAll yields both files and folders.
	FilterAll Filter = iota

	// FilterFiles yields only files.
	FilterFiles

	// FilterFolders yields only folders.
	FilterFolders
)

func (f Filter) matches(n Node) bool {
	switch f {
	case FilterFiles:
		_, ok := n.(*VirtualFile)
		return ok
	case FilterFolders:
		_, ok := n.(*VirtualFolder)
		return ok
	default:
		return true
	}
}

// VirtualFolder is a composite node owning an ordered list of children.
//
// The child list is the only ownership edge in the tree; each child's parent
// pointer is a weak back-reference kept in sync by Add and Remove. Child
// ordering is insertion order. It carries no meaning for correctness except
// that it fixes the concatenation order of the parts protocol, so a producer
// and a reconstructing consumer must build their trees in the same order.
type VirtualFolder struct {
	nodeBase

	children []Node
}

// NewFolder creates an empty folder.
func NewFolder(name string) *VirtualFolder {
	return &VirtualFolder{nodeBase: newNodeBase(name)}
}

// ============================================================================
// Structural Mutation
// ============================================================================

// Add appends child to this folder, detaching it from any previous parent.
//
// The operation validates before mutating, so a rejected add leaves both
// this folder and the child's current parent untouched:
//   - adding a folder to itself is rejected (CodeSelfParent)
//   - adding a node that is already a direct child is rejected
//     (CodeAlreadyChild)
//   - adding an ancestor folder of this folder is rejected (CodeCycle);
//     this is what prevents reparenting from ever creating a loop
//
// A child with a different current parent is implicitly removed from it
// first: reparenting moves, never duplicates.
func (f *VirtualFolder) Add(child Node) error {
	// ========================================================================
	// Step 1: Reject self-parenting
	// ========================================================================

	if cf, ok := child.(*VirtualFolder); ok && cf == f {
		return &StructuralError{Code: CodeSelfParent, Node: child.Name(), Folder: f.name}
	}

	// ========================================================================
	// Step 2: Inspect the current parent
	// ========================================================================

	if prev := child.Parent(); prev != nil {
		if prev == f {
			return &StructuralError{Code: CodeAlreadyChild, Node: child.Name(), Folder: f.name}
		}

		// A folder child must not already contain this folder, or the
		// reparent would close a cycle. Walk this folder's ancestor
		// chain comparing against the child.
		if cf, ok := child.(*VirtualFolder); ok && cf.IsAncestorOf(f) {
			return &StructuralError{Code: CodeCycle, Node: child.Name(), Folder: f.name}
		}

		prev.Remove(child)
	} else if cf, ok := child.(*VirtualFolder); ok && cf.IsAncestorOf(f) {
		// A detached folder can still sit above us if the tree was built
		// top-down through it; the ancestor walk covers that too.
		return &StructuralError{Code: CodeCycle, Node: child.Name(), Folder: f.name}
	}

	// ========================================================================
	// Step 3: Link both edges
	// ========================================================================

	child.setParent(f)
	f.children = append(f.children, child)
	return nil
}

// Remove detaches child from this folder's child list.
//
// Lookup is by reference identity, never by name or content. Returns true
// if the child was present and removed; removing a node that is not a
// child is a structural no-op returning false.
func (f *VirtualFolder) Remove(child Node) bool {
	for i, c := range f.children {
		if c == child {
			f.children = append(f.children[:i], f.children[i+1:]...)
			child.setParent(nil)
			return true
		}
	}
	return false
}

// Has reports whether child is a direct child of this folder.
func (f *VirtualFolder) Has(child Node) bool {
	return child.Parent() == f
}

// IsAncestorOf walks node's parent chain and reports whether this folder
// appears anywhere in it. A folder is considered its own ancestor: the
// result is also true when node is this folder itself.
func (f *VirtualFolder) IsAncestorOf(node Node) bool {
	for n := node; n != nil; {
		if vf, ok := n.(*VirtualFolder); ok && vf == f {
			return true
		}
		if p := n.Parent(); p != nil {
			n = p
		} else {
			n = nil
		}
	}
	return false
}

// ============================================================================
// Traversal
// ============================================================================

// ChildIterator lazily yields a folder's direct children.
//
// Each Children call returns a fresh iterator over a snapshot of the child
// list: the sequence is restartable per call, but a single iteration is not
// resumable once cancelled. Cancellation is checked per yielded item.
type ChildIterator struct {
	nodes  []Node
	filter Filter
	next   int
}

// Next returns the next matching child, or io.EOF when the sequence is
// exhausted. A cancelled context surfaces as the context's error.
func (it *ChildIterator) Next(ctx context.Context) (Node, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	for it.next < len(it.nodes) {
		n := it.nodes[it.next]
		it.next++
		if it.filter.matches(n) {
			return n, nil
		}
	}
	return nil, io.EOF
}

// Children returns a lazy sequence of this folder's direct children,
// optionally filtered to only files or only folders.
func (f *VirtualFolder) Children(ctx context.Context, filter Filter) (*ChildIterator, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	snapshot := make([]Node, len(f.children))
	copy(snapshot, f.children)
	return &ChildIterator{nodes: snapshot, filter: filter}, nil
}

// Count returns the number of file and folder descendants of this folder,
// across the whole subtree.
//
// The walk is breadth-first over an explicit queue, so arbitrarily deep
// trees do not risk stack growth. Cancellation is checked per dequeued
// folder.
func (f *VirtualFolder) Count(ctx context.Context) (files, folders int, err error) {
	queue := []*VirtualFolder{f}
	for len(queue) > 0 {
		if err := ctx.Err(); err != nil {
			return 0, 0, err
		}

		current := queue[0]
		queue = queue[1:]

		for _, child := range current.children {
			switch c := child.(type) {
			case *VirtualFile:
				files++
			case *VirtualFolder:
				folders++
				queue = append(queue, c)
			}
		}
	}
	return files, folders, nil
}

// ByteCount returns the sum of the byte counts of all descendant files.
//
// Nothing is cached: the result reflects the tree's state at call time.
func (f *VirtualFolder) ByteCount(ctx context.Context) (uint64, error) {
	var total uint64

	queue := []*VirtualFolder{f}
	for len(queue) > 0 {
		if err := ctx.Err(); err != nil {
			return 0, err
		}

		current := queue[0]
		queue = queue[1:]

		for _, child := range current.children {
			switch c := child.(type) {
			case *VirtualFile:
				total += c.byteCount
			case *VirtualFolder:
				queue = append(queue, c)
			}
		}
	}
	return total, nil
}

// Descendants collects all descendants of this folder breadth-first,
// optionally filtered to only files or only folders.
//
// For files, the resulting order is the canonical traversal order of the
// parts protocol: folders are visited breadth-first, and within a folder
// files appear in insertion order.
func (f *VirtualFolder) Descendants(ctx context.Context, filter Filter) ([]Node, error) {
	var result []Node

	queue := []*VirtualFolder{f}
	for len(queue) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		current := queue[0]
		queue = queue[1:]

		for _, child := range current.children {
			if filter.matches(child) {
				result = append(result, child)
			}
			if cf, ok := child.(*VirtualFolder); ok {
				queue = append(queue, cf)
			}
		}
	}
	return result, nil
}

// Metadata returns the content-free description of this folder's subtree.
//
// The skeleton mirrors the live tree exactly, including empty folders
// (recorded with an empty, non-nil child array) and child ordering. The
// walk is queue-driven like the other bulk traversals.
func (f *VirtualFolder) Metadata(ctx context.Context) (*Metadata, error) {
	root := &Metadata{
		Kind:     MetadataFolder,
		Name:     f.name,
		Children: []*Metadata{},
	}

	type pair struct {
		folder *VirtualFolder
		meta   *Metadata
	}

	queue := []pair{{folder: f, meta: root}}
	for len(queue) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		current := queue[0]
		queue = queue[1:]

		for _, child := range current.folder.children {
			switch c := child.(type) {
			case *VirtualFile:
				current.meta.Children = append(current.meta.Children, &Metadata{
					Kind:      MetadataFile,
					Name:      c.name,
					ByteCount: c.byteCount,
				})
			case *VirtualFolder:
				childMeta := &Metadata{
					Kind:     MetadataFolder,
					Name:     c.name,
					Children: []*Metadata{},
				}
				current.meta.Children = append(current.meta.Children, childMeta)
				queue = append(queue, pair{folder: c, meta: childMeta})
			}
		}
	}
	return root, nil
}
