package britetopo

// graph.go converts the node and edge tables of a BRITE topology into the
// data structures of a graph package, and restricts them to the largest
// connected component, which is the part of the topology the roles and the
// extension are computed over.

import (
	"golang.org/x/exp/slices"
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

// TopoGraph is an undirected view of a BRITE topology.  Parallel edges are
// collapsed and self loops dropped, so the degree of a node is its number of distinct neighbors.
type TopoGraph struct {
	g     *simple.UndirectedGraph
	nodes map[int]BriteNode
}

// buildConnGraph returns a graph.Undirected built from all the nodes and edges of the topology
func buildConnGraph(bt *BriteTopo) *simple.UndirectedGraph {
	connGraph := simple.NewUndirectedGraph()
	for _, node := range bt.Nodes {
		connGraph.AddNode(simple.Node(node.ID))
	}

	for _, edge := range bt.Edges {
		// simple graphs do not admit self loops
		if edge.Src == edge.Dst {
			continue
		}
		connGraph.SetEdge(simple.Edge{F: simple.Node(edge.Src), T: simple.Node(edge.Dst)})
	}
	return connGraph
}

// Graph returns the largest connected component of the topology.  When more than one
// component has the largest size the one holding the lowest node id is chosen.
func (bt *BriteTopo) Graph() *TopoGraph {
	connGraph := buildConnGraph(bt)

	// ConnectedComponents gives components in map iteration order, so the
	// tie-break on lowest id is what makes the choice repeatable
	var largest []graph.Node
	largestMin := -1
	for _, comp := range topo.ConnectedComponents(connGraph) {
		compMin := lowestID(comp)
		if largest == nil || len(comp) > len(largest) || (len(comp) == len(largest) && compMin < largestMin) {
			largest = comp
			largestMin = compMin
		}
	}

	tg := &TopoGraph{g: simple.NewUndirectedGraph(), nodes: make(map[int]BriteNode)}
	keep := make(map[int]bool)
	for _, n := range largest {
		keep[int(n.ID())] = true
	}

	for _, node := range bt.Nodes {
		if keep[node.ID] {
			tg.g.AddNode(simple.Node(node.ID))
			tg.nodes[node.ID] = node
		}
	}
	edges := connGraph.Edges()
	for edges.Next() {
		e := edges.Edge()
		if keep[int(e.From().ID())] && keep[int(e.To().ID())] {
			tg.g.SetEdge(simple.Edge{F: e.From(), T: e.To()})
		}
	}
	return tg
}

func lowestID(nodes []graph.Node) int {
	low := -1
	for _, n := range nodes {
		if low < 0 || int(n.ID()) < low {
			low = int(n.ID())
		}
	}
	return low
}

// Order is the number of nodes in the graph
func (tg *TopoGraph) Order() int {
	return len(tg.nodes)
}

// Size is the number of (distinct, undirected) edges in the graph
func (tg *TopoGraph) Size() int {
	return tg.g.Edges().Len()
}

// NodeIDs lists the ids of the graph's nodes in ascending order
func (tg *TopoGraph) NodeIDs() []int {
	ids := make([]int, 0, len(tg.nodes))
	for id := range tg.nodes {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Node returns the BRITE description of a node in the graph, and whether it is present
func (tg *TopoGraph) Node(id int) (BriteNode, bool) {
	node, present := tg.nodes[id]
	return node, present
}

// Degree is the number of distinct neighbors of the node
func (tg *TopoGraph) Degree(id int) int {
	if _, present := tg.nodes[id]; !present {
		return 0
	}
	return tg.g.From(int64(id)).Len()
}

// Neighbors lists, in ascending order, the nodes adjacent to the one named
func (tg *TopoGraph) Neighbors(id int) []int {
	if _, present := tg.nodes[id]; !present {
		return nil
	}
	nbrs := convertNodeSeq(graph.NodesOf(tg.g.From(int64(id))))
	slices.Sort(nbrs)
	return nbrs
}

// convertNodeSeq extracts the topology node ids from a sequence of graph nodes
func convertNodeSeq(nsQ []graph.Node) []int {
	rtn := make([]int, 0, len(nsQ))
	for _, node := range nsQ {
		rtn = append(rtn, int(node.ID()))
	}
	return rtn
}

// ASIDs lists the distinct AS ids of the graph's nodes in ascending order
func (tg *TopoGraph) ASIDs() []int {
	seen := make(map[int]bool)
	ids := []int{}
	for _, node := range tg.nodes {
		if !seen[node.AS] {
			seen[node.AS] = true
			ids = append(ids, node.AS)
		}
	}
	slices.Sort(ids)
	return ids
}
