package render

// Cluster groups the nodes of one sub-render. Cluster 0 is the root level;
// serializers wrap every other cluster in its own subgraph box.
type Cluster struct {
	ID      int
	Level   int
	Label   string
	NodeIDs []int
}

// Graph is the rendered form of one symbolic heap. It is built fresh per
// proposition and discarded after serialization.
type Graph struct {
	Nodes    []Node
	Edges    []Edge
	Clusters []Cluster
}

// NodeCount returns the number of rendered nodes.
func (g *Graph) NodeCount() int { return len(g.Nodes) }

// EdgeCount returns the number of rendered edges.
func (g *Graph) EdgeCount() int { return len(g.Edges) }

// NodeByID returns the node owning the given coordinate id, or nil. A
// doubly-linked segment placeholder owns two ids.
func (g *Graph) NodeByID(id int) Node {
	for _, n := range g.Nodes {
		if n.At().ID == id {
			return n
		}
		if d, ok := n.(DLLSegNode); ok && d.Back.ID == id {
			return n
		}
	}
	return nil
}
