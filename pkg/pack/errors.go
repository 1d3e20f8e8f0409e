package pack

import "errors"

var (
	// ErrBadMagic indicates the stream does not start with the container
	// magic number and is not a pack at all.
	ErrBadMagic = errors.New("not a pack stream")

	// ErrUnsupportedVersion indicates the container was produced by a
	// newer, incompatible writer.
	ErrUnsupportedVersion = errors.New("unsupported pack version")

	// ErrBadHeader indicates the header decoded but carries values no
	// valid writer emits, such as a zero part size.
	ErrBadHeader = errors.New("malformed pack header")
)
