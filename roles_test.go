package britetopo

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyRoles(t *testing.T) {
	tg := readSmall(t).Graph()

	nr, err := ClassifyRoles(tg, 0.6, newSeqU01(0.0))
	require.NoError(t, err)

	assert.Equal(t, []int{0, 2, 7}, nr.Receiver)
	assert.Equal(t, []int{8, 9}, nr.Source)
	assert.Equal(t, []int{1, 5, 6}, nr.Switch)
	assert.Equal(t, []int{4, 5}, nr.Bgn)
	assert.Equal(t, []int{3}, nr.Router)
}

func TestClassifyRolesInvariants(t *testing.T) {
	tg := readSmall(t).Graph()

	nr, err := ClassifyRoles(tg, 0.5, newSeqU01(0.7, 0.1, 0.4, 0.9))
	require.NoError(t, err)

	// round(5 * 0.5) receivers
	assert.Len(t, nr.Receiver, 3)
	assert.Len(t, nr.Source, 2)
	assert.ElementsMatch(t, []int{0, 2, 7, 8, 9}, append(append([]int{}, nr.Receiver...), nr.Source...))
	for _, id := range append(append([]int{}, nr.Receiver...), nr.Source...) {
		assert.Equal(t, 1, tg.Degree(id))
		assert.Contains(t, nr.Switch, tg.Neighbors(id)[0])
	}
	assert.IsIncreasing(t, nr.Receiver)
	assert.IsIncreasing(t, nr.Source)
}

func TestRoleOf(t *testing.T) {
	nr := &NodeRoles{Receiver: []int{0}, Source: []int{2}, Switch: []int{1, 5}, Bgn: []int{4, 5}}

	assert.Equal(t, ReceiverRole, nr.RoleOf(0))
	assert.Equal(t, SourceRole, nr.RoleOf(2))
	assert.Equal(t, SwitchRole, nr.RoleOf(1))
	assert.Equal(t, BgnRole, nr.RoleOf(4))
	assert.Equal(t, RouterRole, nr.RoleOf(3))

	// listed as switch and as bgn, the later list wins
	assert.Equal(t, BgnRole, nr.RoleOf(5))
}

func TestClassifyRolesErrors(t *testing.T) {
	tg := readSmall(t).Graph()

	_, err := ClassifyRoles(tg, 0.0, newSeqU01(0.5))
	assert.Error(t, err)
	_, err = ClassifyRoles(tg, 1.0, newSeqU01(0.5))
	assert.Error(t, err)

	ring := "Topology: ( 3 Nodes, 3 Edges )\nNodes: ( 3 )\n" +
		"0\t0\t0\t2\t2\t0\tRT_NODE\n1\t1\t0\t2\t2\t0\tRT_NODE\n2\t0\t1\t2\t2\t0\tRT_NODE\n" +
		"Edges: ( 3 )\n" +
		"0\t0\t1\t1\t1\t10\t0\t0\tE_RT\tU\n1\t1\t2\t1\t1\t10\t0\t0\tE_RT\tU\n2\t2\t0\t1\t1\t10\t0\t0\tE_RT\tU\n"
	bt, err := ReadBriteTopo("ring", []byte(ring))
	require.NoError(t, err)

	_, err = ClassifyRoles(bt.Graph(), 0.5, newSeqU01(0.5))
	var ece *EmptyCandidateError
	assert.True(t, errors.As(err, &ece))
}
