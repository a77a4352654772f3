package rope

import "errors"

// Error kinds surfaced by Rope operations. Validation always precedes
// mutation: a failed call leaves the rope bit-identical to before the call.
var (
	ErrOutOfBounds = errors.New("rope: index out of bounds")
	ErrInvalidRange = errors.New("rope: invalid range")
	ErrInvalidUTF8  = errors.New("rope: invalid utf-8 sequence")
)
