package tst

import "errors"

var (
	// ErrInvalidArgument reports an unusable input, such as an empty word.
	ErrInvalidArgument = errors.New("tst: invalid argument")
	// ErrPoolExhausted reports that the node pool has no free node left.
	ErrPoolExhausted = errors.New("tst: node pool exhausted")
)
