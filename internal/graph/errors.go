package graph

import "errors"

var (
	// ErrIllegalLinkAssociation is returned when endpoints violate a link's compatibility rule.
	ErrIllegalLinkAssociation = errors.New("illegal link association")

	// ErrUninitializedLink is returned when traversing a link with an unset endpoint.
	ErrUninitializedLink = errors.New("uninitialized link")

	// ErrNoLinkedNode is returned when a node is not an endpoint of the link.
	ErrNoLinkedNode = errors.New("node is not an endpoint of the link")

	// ErrFormat is returned when a persisted document is malformed.
	ErrFormat = errors.New("malformed graph document")

	// ErrNodeNotFound is returned when a node id does not resolve in the graph.
	ErrNodeNotFound = errors.New("node not found")
)
