package britetopo

import (
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"golang.org/x/exp/slices"
)

// draws is a generator of the samples handed to seqU01
func draws() gopter.Gen {
	return gen.SliceOfN(16, gen.Float64Range(0, 0.999))
}

// TestExtendInvariants uses property-based testing over extension sizes and random streams
func TestExtendInvariants(t *testing.T) {
	bt := readSmall(t)
	maxNodeID, maxEdgeID := bt.MaxNodeID(), bt.MaxEdgeID()

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50
	properties := gopter.NewProperties(parameters)

	properties.Property("declared counts grow by the number added", prop.ForAll(
		func(oneDegN int, samples []float64) bool {
			ext, err := ExtendBriteTopo(bt, oneDegN, 0.5, newSeqU01(samples...), DefaultExtendOpts())
			if err != nil {
				return false
			}
			return ext.NodeN == bt.NodeN+oneDegN && ext.EdgeN == bt.EdgeN+oneDegN &&
				len(ext.Nodes) == ext.NodeN && len(ext.Edges) == ext.EdgeN
		},
		gen.IntRange(0, 40),
		draws(),
	))

	properties.Property("new rows take fresh ids and stay inside one AS", prop.ForAll(
		func(oneDegN int, samples []float64) bool {
			ext, err := ExtendBriteTopo(bt, oneDegN, 0.5, newSeqU01(samples...), DefaultExtendOpts())
			if err != nil {
				return false
			}
			if !slices.Equal(ext.Lines()[bt.nodeLine+1:bt.lastNodeRow+1], bt.Lines()[bt.nodeLine+1:bt.lastNodeRow+1]) {
				return false
			}
			for _, node := range ext.Nodes[bt.NodeN:] {
				if node.ID <= maxNodeID {
					return false
				}
			}
			for _, edge := range ext.Edges[bt.EdgeN:] {
				attach, present := bt.Node(edge.Dst)
				node, _ := ext.Node(edge.Src)
				if edge.ID <= maxEdgeID || !present || attach.IsBorder() {
					return false
				}
				if node.AS != attach.AS || edge.FromAS != attach.AS || edge.ToAS != attach.AS {
					return false
				}
			}
			return true
		},
		gen.IntRange(1, 40),
		draws(),
	))

	properties.TestingRun(t)
}

// TestRoleInvariants checks the receiver/source split over random ratios and streams
func TestRoleInvariants(t *testing.T) {
	tg := readSmall(t).Graph()
	oneDeg := []int{}
	for _, id := range tg.NodeIDs() {
		if tg.Degree(id) == 1 {
			oneDeg = append(oneDeg, id)
		}
	}

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50
	properties := gopter.NewProperties(parameters)

	properties.Property("receivers and sources split the degree-1 nodes", prop.ForAll(
		func(ratio float64, samples []float64) bool {
			nr, err := ClassifyRoles(tg, ratio, newSeqU01(samples...))
			if err != nil {
				return false
			}
			if len(nr.Receiver) != int(math.Round(float64(len(oneDeg))*ratio)) {
				return false
			}
			for _, id := range nr.Receiver {
				if slices.Contains(nr.Source, id) {
					return false
				}
			}
			both := append(append([]int{}, nr.Receiver...), nr.Source...)
			slices.Sort(both)
			return slices.Equal(both, oneDeg)
		},
		gen.Float64Range(0.01, 0.99),
		draws(),
	))

	properties.TestingRun(t)
}
