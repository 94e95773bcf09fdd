package graph

func (g *Graph) NodeKindCounts() map[NodeKind]int {
	counts := make(map[NodeKind]int)
	if g == nil {
		return counts
	}
	for _, n := range g.nodes {
		counts[n.kind]++
	}
	return counts
}

func (g *Graph) LinkKindCounts() map[LinkKind]int {
	counts := make(map[LinkKind]int)
	if g == nil {
		return counts
	}
	for _, l := range g.links {
		counts[l.kind]++
	}
	return counts
}
