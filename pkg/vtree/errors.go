package vtree

import "errors"

// ============================================================================
// Standard Tree Errors
// ============================================================================

// These errors provide a consistent way to indicate common failure conditions
// across tree and streaming operations. Callers should check for them with
// errors.Is and compose explicitly; nothing in this package panics.
//
// Cancellation is NOT represented here: operations that observe a cancelled
// context return the context's own error (context.Canceled or
// context.DeadlineExceeded) unwrapped, so callers can distinguish
// cancellation from genuine failures with errors.Is.

var (
	// ErrNoContent indicates a file has no byte source attached yet.
	//
	// This is the state of every file in a freshly reconstructed skeleton
	// before FromParts (or an explicit SetSource call) attaches real content.
	ErrNoContent = errors.New("file has no content attached")

	// ErrTooFewParts indicates the part sequence was exhausted before a
	// file's declared byte count was satisfied during reconstruction.
	//
	// This is a protocol violation: the producer and consumer disagree on
	// the tree's total byte count, usually because parts were lost in
	// transit or the metadata skeleton does not match the part stream.
	ErrTooFewParts = errors.New("part sequence exhausted before tree was satisfied")

	// ErrTooManyParts indicates unconsumed part data remained after the
	// last file of the skeleton was materialized.
	//
	// This is a protocol violation: the producer sent more bytes than the
	// metadata skeleton accounts for. The reconstructed tree is discarded
	// rather than silently accepting trailing data.
	ErrTooManyParts = errors.New("unconsumed parts remain after reconstruction")

	// ErrInvalidPartSize indicates Parts was called with a zero maximum
	// part size. Parts of unbounded size are not representable either;
	// the maximum must be a positive byte count agreed on by both sides.
	ErrInvalidPartSize = errors.New("part size must be greater than zero")

	// ErrInvalidMetadata indicates a metadata skeleton could not be used
	// for reconstruction (nil record, or a file record at the root where
	// a folder is required).
	ErrInvalidMetadata = errors.New("invalid metadata skeleton")

	// ErrHashNotSupported indicates content hashing is not implemented.
	// Hashing is a reserved extension point, not a contract of this core.
	ErrHashNotSupported = errors.New("content hashing is not supported")
)

// ============================================================================
// Structural Errors
// ============================================================================

// StructuralCode categorizes violations of the tree's structural invariants.
type StructuralCode int

const (
	// CodeSelfParent indicates an attempt to add a folder to itself.
	CodeSelfParent StructuralCode = iota

	// CodeAlreadyChild indicates the node is already a child of the folder.
	CodeAlreadyChild

	// CodeCycle indicates the add would make a folder its own ancestor.
	CodeCycle
)

func (c StructuralCode) String() string {
	switch c {
	case CodeSelfParent:
		return "self-parent"
	case CodeAlreadyChild:
		return "already-child"
	case CodeCycle:
		return "cycle"
	default:
		return "unknown"
	}
}

// StructuralError reports a rejected tree mutation.
//
// The tree is left unmodified whenever one of these is returned: add and
// remove validate before touching any parent pointer or child list, so a
// failed operation never leaves a half-applied move behind.
type StructuralError struct {
	// Code is the violated invariant.
	Code StructuralCode

	// Node is the display name of the node the operation was applied to.
	Node string

	// Folder is the display name of the folder that rejected the operation.
	Folder string
}

// Error implements the error interface.
func (e *StructuralError) Error() string {
	return "structural violation (" + e.Code.String() + "): cannot add " +
		e.Node + " to " + e.Folder
}

// IsStructural reports whether err is a StructuralError, optionally
// extracting it.
func IsStructural(err error) (*StructuralError, bool) {
	var se *StructuralError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}
