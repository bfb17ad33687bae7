package render

import "github.com/heapviz/heapviz/pkg/heap"

// prune removes placeholder-addressed nodes with no incoming edges, along
// with every edge they source. Placeholder addresses cannot be the target of
// another placeholder's content, so a single pass suffices.
func prune(g *Graph) {
	incoming := make(map[int]int)
	for _, e := range g.Edges {
		incoming[e.Dst.ID]++
	}

	removed := make(map[int]bool)
	for _, n := range g.Nodes {
		addr := NodeAddr(n)
		if addr == nil || !heap.IsPlaceholder(addr) {
			continue
		}
		ids := ownedIDs(n)
		in := 0
		for _, id := range ids {
			in += incoming[id]
		}
		if in == 0 {
			for _, id := range ids {
				removed[id] = true
			}
		}
	}
	if len(removed) == 0 {
		return
	}

	nodes := g.Nodes[:0]
	for _, n := range g.Nodes {
		if !removed[n.At().ID] {
			nodes = append(nodes, n)
		}
	}
	g.Nodes = nodes

	edges := g.Edges[:0]
	for _, e := range g.Edges {
		if !removed[e.Src.ID] {
			edges = append(edges, e)
		}
	}
	g.Edges = edges

	for i := range g.Clusters {
		ids := g.Clusters[i].NodeIDs[:0]
		for _, id := range g.Clusters[i].NodeIDs {
			if !removed[id] {
				ids = append(ids, id)
			}
		}
		g.Clusters[i].NodeIDs = ids
	}
}

func ownedIDs(n Node) []int {
	if d, ok := n.(DLLSegNode); ok {
		return []int{d.Coord.ID, d.Back.ID}
	}
	return []int{n.At().ID}
}
