package dag

import "errors"

var (
	// ErrDuplicateNode is returned when a node ID is added twice.
	ErrDuplicateNode = errors.New("duplicate node")
	// ErrUnknownNode is returned when an edge or query names a node that
	// is not part of the graph.
	ErrUnknownNode = errors.New("unknown node")
	// ErrCycle is returned when an edge would make the graph cyclic.
	ErrCycle = errors.New("cycle detected")
)
