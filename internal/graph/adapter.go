package graph

// NodeView is the read-only shape of a node handed to renderers.
type NodeView struct {
	ID    string
	Label string
	Kind  NodeKind
}

// LinkView is the read-only shape of a link handed to renderers.
type LinkView struct {
	From     string
	To       string
	Name     string
	Oriented bool
	Kind     LinkKind
}

// NodeViews lists the nodes in insertion order.
func (g *Graph) NodeViews() []NodeView {
	views := make([]NodeView, 0, len(g.nodes))
	for _, n := range g.nodes {
		views = append(views, NodeView{ID: n.id, Label: n.Label(), Kind: n.kind})
	}
	return views
}

// LinkViews lists the initialized links in insertion order.
func (g *Graph) LinkViews() []LinkView {
	views := make([]LinkView, 0, len(g.links))
	for _, l := range g.links {
		if !l.Initialized() {
			continue
		}
		views = append(views, LinkView{
			From:     l.From(),
			To:       l.To(),
			Name:     l.name,
			Oriented: l.oriented,
			Kind:     l.kind,
		})
	}
	return views
}
