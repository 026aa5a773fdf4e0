package britetopo

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const oldFlows = `0 1 2000000 4000000 1500000
4 5 1000000 3000000 500000
`

// the newer log repeats the old rows and adds two
const newFlows = `0 1 2000000 4000000 1500000
4 5 1000000 3000000 500000
6 5 8000000 6000000 3000000
1 0 1000000 2000000 750000
`

func flowInputs(t *testing.T) (*TopoTable, *NodeRoles, *LayoutTable) {
	t.Helper()
	bt := readSmall(t)
	nr := &NodeRoles{Receiver: []int{0, 2, 7}, Source: []int{8, 9}, Switch: []int{1, 5, 6}, Bgn: []int{4, 5}}
	lt, err := ClusterRegions(bt.Nodes, 2)
	require.NoError(t, err)
	return BuildTopoTable(bt), nr, lt
}

func TestParseFlowLog(t *testing.T) {
	fl, err := ParseFlowLog("inline", []byte(oldFlows+"\n"))
	require.NoError(t, err)
	require.Len(t, fl.Records, 2)
	assert.Equal(t, FlowRecord{Src: 4, Dst: 5, LoadSrc: 1e6, LoadDst: 3e6, LinkLoad: 5e5,
		Text: "4 5 1000000 3000000 500000"}, fl.Records[1])

	_, err = ParseFlowLog("inline", []byte("0 1 2\n"))
	assert.Error(t, err)
	_, err = ParseFlowLog("inline", []byte("0.5 1 2 3 4\n"))
	assert.Error(t, err)
}

func TestReadFlowLogMissing(t *testing.T) {
	fl, err := ReadFlowLog(filepath.Join(t.TempDir(), "absent.txt"))
	require.NoError(t, err)
	assert.Empty(t, fl.Records)
}

func TestSieveFlowLog(t *testing.T) {
	older, err := ParseFlowLog("old", []byte(oldFlows))
	require.NoError(t, err)
	newer, err := ParseFlowLog("new", []byte(newFlows))
	require.NoError(t, err)

	sieved := SieveFlowLog(older, newer)
	require.Len(t, sieved.Records, 2)
	assert.Equal(t, 6, sieved.Records[0].Src)
	assert.Equal(t, 1, sieved.Records[1].Src)

	assert.Len(t, SieveFlowLog(new(FlowLog), newer).Records, 4)
	assert.Empty(t, SieveFlowLog(newer, older).Records)
}

func TestBuildFlowGraph(t *testing.T) {
	tt, nr, lt := flowInputs(t)
	older, err := ParseFlowLog("old", []byte(oldFlows))
	require.NoError(t, err)
	newer, err := ParseFlowLog("new", []byte(newFlows))
	require.NoError(t, err)

	opts := DefaultFlowGraphOpts()
	opts.Layout = "file"
	fg, err := BuildFlowGraph(tt, nr, lt, older, SieveFlowLog(older, newer), opts)
	require.NoError(t, err)

	require.Len(t, fg.Links, 9)
	assert.Equal(t, []string{"AS:1", "AS:2"}, fg.Categories)

	// 0-1 was set by the old log, then in reverse by the new rows
	assert.Equal(t, FlowLink{Src: 0, Dst: 1, Load: 750000, Value: 0.75, Flag: NewFlow, Width: 2 + 750000.0/3000000*6}, fg.Links[0])
	assert.Equal(t, OldFlow, fg.Links[4].Flag)
	assert.Equal(t, 0.5, fg.Links[4].Value)
	assert.Equal(t, NewFlow, fg.Links[5].Flag)
	assert.Equal(t, 8.0, fg.Links[5].Width)
	assert.Equal(t, FlowLink{Src: 1, Dst: 2, Width: 1}, fg.Links[1])

	// nodes in order of first appearance in the topology table
	ids := []int{}
	for _, fn := range fg.Nodes {
		ids = append(ids, fn.ID)
	}
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, ids)

	n0, _ := fg.Node(0)
	assert.Equal(t, 2e6, n0.Load)
	assert.Equal(t, ReceiverRole, n0.Role)
	assert.Equal(t, "roundRect", n0.Symbol)
	assert.Equal(t, "RCV:0", n0.Label)
	assert.Equal(t, 0, n0.Category)
	assert.True(t, n0.Fixed)
	assert.Equal(t, 10.0, n0.X)

	// node 5 last appears as the destination of 6 -> 5
	n5, _ := fg.Node(5)
	assert.Equal(t, 6e6, n5.Load)
	assert.Equal(t, 6.0, n5.Value)
	assert.Equal(t, BgnRole, n5.Role)
	assert.Equal(t, "diamond", n5.Symbol)
	assert.Equal(t, 1, n5.Category)

	// the most loaded node is drawn at 1.8 times the normal size, then a fifth larger for its role
	n6, _ := fg.Node(6)
	assert.InDelta(t, 15*1.8*1.2, n6.SymbolSize, 1e-9)
	n3, _ := fg.Node(3)
	assert.Equal(t, RouterRole, n3.Role)
	assert.Equal(t, 15.0, n3.SymbolSize)
	assert.Equal(t, "3", n3.Label)

	assert.Equal(t, map[int]int{1: 5, 2: 5}, fg.CategoryCounts())
}

func TestBuildFlowGraphForce(t *testing.T) {
	tt, nr, lt := flowInputs(t)

	// node 9 has no layout row and is placed by the model
	lt.Rows = lt.Rows[:9]

	opts := DefaultFlowGraphOpts()
	opts.ForceUpdates = 20
	fg, err := BuildFlowGraph(tt, nr, lt, new(FlowLog), new(FlowLog), opts)
	require.NoError(t, err)
	for _, fn := range fg.Nodes {
		assert.False(t, fn.Fixed)
	}

	opts.Layout = "file"
	_, err = BuildFlowGraph(tt, nr, lt, new(FlowLog), new(FlowLog), opts)
	assert.Error(t, err)

	opts.Layout = "manual"
	_, err = BuildFlowGraph(tt, nr, lt, new(FlowLog), new(FlowLog), opts)
	assert.Error(t, err)
}

func TestFlowGraphFiles(t *testing.T) {
	tt, nr, lt := flowInputs(t)
	older, err := ParseFlowLog("old", []byte(oldFlows))
	require.NoError(t, err)

	opts := DefaultFlowGraphOpts()
	opts.Layout = "file"
	fg, err := BuildFlowGraph(tt, nr, lt, older, new(FlowLog), opts)
	require.NoError(t, err)

	dir := t.TempDir()
	out := filepath.Join(dir, "flow.json")
	require.NoError(t, fg.WriteToFile(out))
	again, err := ReadFlowGraph(out, false, nil)
	require.NoError(t, err)
	assert.Equal(t, fg, again)

	render := filepath.Join(dir, "flow.png")
	require.NoError(t, RenderFlowGraph(fg, render))
	info, err := os.Stat(render)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}
