package amalgamator

import "errors"

var (
	ErrMissingInput     = errors.New("missing required input")
	ErrSearchRootNotDir = errors.New("search root is not a directory")
	ErrInvalidEncoding  = errors.New("source file is not valid UTF-8")
	ErrUnknownPolicy    = errors.New("unknown encoding policy")
)
