package britetopo

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessCandidates(t *testing.T) {
	tg := readSmall(t).Graph()

	pool, perAS, err := AccessCandidates(tg, 0.5)
	require.NoError(t, err)
	assert.Equal(t, 2, perAS)
	assert.Equal(t, []int{0, 2, 7, 8}, pool)

	// every non-border node, lowest degree first
	pool, perAS, err = AccessCandidates(tg, 1.0)
	require.NoError(t, err)
	assert.Equal(t, 4, perAS)
	assert.Equal(t, []int{0, 2, 3, 1, 7, 8, 9, 6}, pool)

	_, _, err = AccessCandidates(tg, 0.0)
	assert.Error(t, err)
	_, _, err = AccessCandidates(tg, 1.5)
	assert.Error(t, err)
}

func TestAccessCandidatesTooFew(t *testing.T) {
	tg := readSmall(t).Graph()

	// floor(8 * 0.2 / 2) is zero
	_, _, err := AccessCandidates(tg, 0.2)
	var ice *InsufficientCandidatesError
	require.True(t, errors.As(err, &ice))
	assert.Equal(t, -1, ice.AS)
	assert.Equal(t, 0, ice.PerAS)
}

func TestExtendBriteTopo(t *testing.T) {
	bt := readSmall(t)

	// per node: candidate, x, y, length, delay
	rng := newSeqU01(0.0, 0.5, 0.25, 0.1, 0.2, 0.99, 0.1, 0.2, 0.3, 0.4)
	ext, err := ExtendBriteTopo(bt, 2, 0.5, rng, DefaultExtendOpts())
	require.NoError(t, err)

	assert.Equal(t, 12, ext.NodeN)
	assert.Equal(t, 11, ext.EdgeN)
	assert.Equal(t, "Topology: ( 12 Nodes, 11 Edges )", ext.Lines()[0])

	n10, present := ext.Node(10)
	require.True(t, present)
	assert.Equal(t, BriteNode{ID: 10, X: 500, Y: 250, InDeg: 1, OutDeg: 1, AS: 0, Type: RouterType}, n10)

	n11, present := ext.Node(11)
	require.True(t, present)
	assert.Equal(t, BriteNode{ID: 11, X: 100, Y: 200, InDeg: 1, OutDeg: 1, AS: 1, Type: RouterType}, n11)

	e9 := ext.Edges[9]
	assert.Equal(t, 9, e9.ID)
	assert.Equal(t, 10, e9.Src)
	assert.Equal(t, 0, e9.Dst)
	assert.InDelta(t, 100.0, e9.Length, 1e-9)
	assert.InDelta(t, 0.55, e9.Delay, 1e-9)
	assert.Equal(t, 10.0, e9.Capacity)
	assert.Equal(t, 0, e9.FromAS)
	assert.Equal(t, 0, e9.ToAS)
	assert.Equal(t, []string{"E_RT", "U"}, e9.Tail)

	e10 := ext.Edges[10]
	assert.Equal(t, 10, e10.ID)
	assert.Equal(t, 11, e10.Src)
	assert.Equal(t, 8, e10.Dst)
	assert.InDelta(t, 300.0, e10.Length, 1e-9)
	assert.InDelta(t, 0.6, e10.Delay, 1e-9)
	assert.Equal(t, 1, e10.FromAS)
	assert.Equal(t, 1, e10.ToAS)
}

func TestExtendKeepsOriginalLines(t *testing.T) {
	bt := readSmall(t)
	orig := bt.Lines()

	ext, err := ExtendBriteTopo(bt, 2, 0.5, newSeqU01(0.3, 0.6, 0.9), DefaultExtendOpts())
	require.NoError(t, err)
	lines := ext.Lines()
	require.Len(t, lines, len(orig)+4)

	// header and section counts change, every other line is kept in place;
	// new node rows follow the last node row, new edge rows follow the last edge row
	assert.Equal(t, "Nodes: ( 12 )", lines[3])
	assert.Equal(t, orig[4:14], lines[4:14])
	assert.Equal(t, "", lines[16])
	assert.Equal(t, "Edges: ( 11 )", lines[17])
	assert.Equal(t, orig[16:25], lines[18:27])
	assert.Len(t, lines, 29)
	assert.Equal(t, orig[1], lines[1])

	// the input is not modified
	assert.Equal(t, orig, bt.Lines())
	assert.Equal(t, 10, bt.NodeN)

	// the original node and edge rows parse to the same values
	assert.Equal(t, bt.Nodes, ext.Nodes[:10])
	assert.Equal(t, bt.Edges, ext.Edges[:9])
}

func TestExtendAttachesToPool(t *testing.T) {
	bt := readSmall(t)

	ext, err := ExtendBriteTopo(bt, 40, 0.5, NewRandStream("extend-test", 0), DefaultExtendOpts())
	require.NoError(t, err)
	assert.Equal(t, 50, ext.NodeN)
	assert.Equal(t, 49, ext.EdgeN)

	for _, edge := range ext.Edges[9:] {
		assert.Contains(t, []int{0, 2, 7, 8}, edge.Dst)
		assert.Greater(t, edge.Src, 9)
		assert.Equal(t, edge.FromAS, edge.ToAS)

		node, present := ext.Node(edge.Src)
		require.True(t, present)
		attach, _ := ext.Node(edge.Dst)
		assert.Equal(t, attach.AS, node.AS)
		assert.GreaterOrEqual(t, node.X, 0.0)
		assert.LessOrEqual(t, node.X, 1000.0)
		assert.GreaterOrEqual(t, edge.Delay, 0.5)
		assert.Less(t, edge.Delay, 0.75)
	}

	// every new node has degree 1
	tg := ext.Graph()
	for id := 10; id < 50; id++ {
		assert.Equal(t, 1, tg.Degree(id))
	}
}

func TestExtendZeroAndErrors(t *testing.T) {
	bt := readSmall(t)

	same, err := ExtendBriteTopo(bt, 0, 0.5, newSeqU01(0.5), DefaultExtendOpts())
	require.NoError(t, err)
	assert.Equal(t, bt.Lines(), same.Lines())

	_, err = ExtendBriteTopo(bt, -1, 0.5, newSeqU01(0.5), DefaultExtendOpts())
	assert.Error(t, err)

	_, err = ExtendBriteTopo(bt, 3, 0.2, newSeqU01(0.5), DefaultExtendOpts())
	var ice *InsufficientCandidatesError
	assert.True(t, errors.As(err, &ice))
}
