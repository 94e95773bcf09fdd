package graph

// inheritAlong copies properties from the broader endpoint of an Ako or
// Instance link to the narrower one. For "A ako B" the broader node is B (the
// destination); for an Instance link it is whichever endpoint is the concept.
func (g *Graph) inheritAlong(l *Link, from, to *Node) {
	var broad, narrow *Node
	switch l.kind {
	case Ako:
		broad, narrow = to, from
	case InstanceOf:
		if from.kind == Concept {
			broad, narrow = from, to
		} else {
			broad, narrow = to, from
		}
	default:
		return
	}

	if added := inheritProperties(broad, narrow); added > 0 {
		g.logger.Debug("inherited properties", "from", broad.id, "to", narrow.id, "count", added)
	}
}

// inheritProperties adds to dst every property of src that dst lacks.
// Existing values are never overwritten.
func inheritProperties(src, dst *Node) int {
	added := 0
	for k, v := range src.props {
		if _, ok := dst.props[k]; ok {
			continue
		}
		dst.props[k] = v
		added++
	}
	return added
}
