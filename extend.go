package britetopo

// extend.go adds synthetic degree-1 nodes (the receivers and sources of a
// simulation) to a BRITE topology.  Each new node hangs off an access node drawn from
// a pool of low-degree, non-border nodes taken in equal measure from every AS.

import (
	"fmt"
	"math"
	"sort"

	"golang.org/x/exp/slices"
)

// ExtendOpts holds the constants used to fill in synthetic rows
type ExtendOpts struct {
	// coordinates of new nodes are integers drawn from [0, CoordMax]
	CoordMax int

	// capacity written on every new edge
	Capacity float64
}

// DefaultExtendOpts gives the values BRITE-derived experiments have used
func DefaultExtendOpts() ExtendOpts {
	return ExtendOpts{CoordMax: 1000, Capacity: 10.0}
}

// AccessCandidates builds the pool of nodes new degree-1 nodes may attach to.  Border nodes are
// excluded, the rest are grouped by AS and ordered by ascending degree (then id), and the first
// floor(candidates * swRatio / AS count) of each AS are taken, AS by AS in ascending order.
// Returns the pool and the per-AS share.
func AccessCandidates(tg *TopoGraph, swRatio float64) ([]int, int, error) {
	if !(swRatio > 0.0 && swRatio <= 1.0) {
		return nil, 0, fmt.Errorf("switch ratio %v outside (0,1]", swRatio)
	}

	asIDs := tg.ASIDs()
	byAS := make(map[int][]int)
	total := 0
	for _, id := range tg.NodeIDs() {
		node, _ := tg.Node(id)
		if node.IsBorder() {
			continue
		}
		byAS[node.AS] = append(byAS[node.AS], id)
		total += 1
	}
	if len(asIDs) == 0 {
		return nil, 0, &InsufficientCandidatesError{AS: -1, Candidates: 0, PerAS: 0}
	}

	perAS := int(math.Floor(float64(total) * swRatio / float64(len(asIDs))))
	if perAS == 0 {
		return nil, 0, &InsufficientCandidatesError{AS: -1, Candidates: total, PerAS: perAS}
	}

	pool := []int{}
	for _, asID := range asIDs {
		cands := byAS[asID]
		if len(cands) == 0 {
			return nil, 0, &InsufficientCandidatesError{AS: asID, Candidates: total, PerAS: perAS}
		}

		// ids are ascending already, a stable sort on degree keeps id order among equal degrees
		sort.SliceStable(cands, func(i, j int) bool { return tg.Degree(cands[i]) < tg.Degree(cands[j]) })
		pool = append(pool, cands[:min(perAS, len(cands))]...)
	}
	return pool, perAS, nil
}

// ExtendBriteTopo returns a new topology holding every line of bt, plus oneDegN synthetic nodes, each
// joined by a new edge to an access node drawn uniformly from the candidate pool.  New node and edge
// ids continue from the largest ids in the file, the new node takes the AS of its access node, and the
// header counts grow by oneDegN.  New node rows follow the last node row, new edge rows follow the last edge row.
func ExtendBriteTopo(bt *BriteTopo, oneDegN int, swRatio float64, rng U01Source, opts ExtendOpts) (*BriteTopo, error) {
	if oneDegN < 0 {
		return nil, fmt.Errorf("number of degree-1 nodes to add is negative (%d)", oneDegN)
	}
	if oneDegN == 0 {
		return parseBriteLines(bt.Name, bt.Lines())
	}

	tg := bt.Graph()
	pool, _, err := AccessCandidates(tg, swRatio)
	if err != nil {
		return nil, err
	}

	maxNodeID := bt.MaxNodeID()
	maxEdgeID := bt.MaxEdgeID()

	nodeRows := make([]string, 0, oneDegN)
	edgeRows := make([]string, 0, oneDegN)
	for idx := 0; idx < oneDegN; idx++ {
		attach, _ := tg.Node(pool[pickIndex(len(pool), rng)])

		node := BriteNode{
			ID:     maxNodeID + 1 + idx,
			X:      float64(randIntIncl(0, opts.CoordMax, rng)),
			Y:      float64(randIntIncl(0, opts.CoordMax, rng)),
			InDeg:  1,
			OutDeg: 1,
			AS:     attach.AS,
			Type:   RouterType,
		}
		nodeRows = append(nodeRows, node.Row())

		// no inter-AS synthetic links, both ends are in the access node's AS
		edge := BriteEdge{
			ID:       maxEdgeID + 1 + idx,
			Src:      node.ID,
			Dst:      attach.ID,
			Length:   rng.RandU01() * 1000,
			Delay:    0.5 + rng.RandU01()/4,
			Capacity: opts.Capacity,
			FromAS:   attach.AS,
			ToAS:     attach.AS,
			Tail:     []string{"E_RT", "U"},
		}
		edgeRows = append(edgeRows, edge.Row())
	}

	return parseBriteLines(bt.Name, bt.extendedLines(nodeRows, edgeRows))
}

// extendedLines splices new node and edge rows into a copy of the topology text and updates
// every count the text declares
func (bt *BriteTopo) extendedLines(nodeRows, edgeRows []string) []string {
	nodeN := bt.NodeN + len(nodeRows)
	edgeN := bt.EdgeN + len(edgeRows)

	lines := make([]string, 0, len(bt.lines)+len(nodeRows)+len(edgeRows))
	for idx, line := range bt.lines {
		switch idx {
		case 0:
			line = fmt.Sprintf("Topology: ( %d Nodes, %d Edges )", nodeN, edgeN)
		case bt.nodeLine:
			line = withCounts(line, nodeN)
		case bt.edgeLine:
			line = withCounts(line, edgeN)
		}
		lines = append(lines, line)

		if idx == bt.lastNodeRow {
			lines = append(lines, nodeRows...)
		}
		if idx == bt.lastEdgeRow {
			lines = append(lines, edgeRows...)
		}
	}
	return slices.Clip(lines)
}
