package britetopo

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestClusterRegions(t *testing.T) {
	bt := readSmall(t)

	lt, err := ClusterRegions(bt.Nodes, 2)
	require.NoError(t, err)
	require.Len(t, lt.Rows, 10)

	regions := make([]int, 0, len(lt.Rows))
	for idx, row := range lt.Rows {
		assert.Equal(t, idx, row.ID)
		regions = append(regions, row.Region)
	}
	assert.Equal(t, []int{0, 0, 0, 1, 1, 0, 0, 0, 1, 1}, regions)
	assert.Equal(t, []int{0, 1}, lt.RegionsOf(0))
	assert.Equal(t, []int{0, 1}, lt.RegionsOf(1))

	row, present := lt.Lookup(8)
	require.True(t, present)
	assert.Equal(t, LayoutRow{ID: 8, X: 900, Y: 900, AS: 1, Region: 1}, row)
	_, present = lt.Lookup(42)
	assert.False(t, present)
}

func TestClusterRegionsRepeatable(t *testing.T) {
	bt := readSmall(t)

	first, err := ClusterRegions(bt.Nodes, 3)
	require.NoError(t, err)
	second, err := ClusterRegions(bt.Nodes, 3)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	for _, asID := range []int{0, 1} {
		assert.Equal(t, []int{0, 1, 2}, first.RegionsOf(asID))
	}
}

func TestClusterRegionsOnePerNode(t *testing.T) {
	bt := readSmall(t)

	lt, err := ClusterRegions(bt.Nodes, 5)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2, 3, 4}, lt.RegionsOf(0))
	assert.Equal(t, []int{0, 1, 2, 3, 4}, lt.RegionsOf(1))
}

func TestClusterRegionsErrors(t *testing.T) {
	bt := readSmall(t)

	_, err := ClusterRegions(bt.Nodes, 6)
	var cse *ClusterSizeError
	require.True(t, errors.As(err, &cse))
	assert.Equal(t, 0, cse.AS)
	assert.Equal(t, 5, cse.Points)
	assert.Equal(t, 6, cse.K)

	_, err = ClusterRegions(bt.Nodes, 0)
	assert.Error(t, err)
}

func TestKMeansRepairsEmptyClusters(t *testing.T) {
	// three coincident points and one apart cannot give three clusters without repair
	points := mat.NewDense(4, 2, []float64{
		5, 5,
		5, 5,
		5, 5,
		50, 50,
	})

	labels := kMeans(points, 3)
	assert.ElementsMatch(t, []int{0, 1, 2}, distinct(labels))
	assert.Equal(t, 0, labels[0])
}

func distinct(vals []int) []int {
	seen := make(map[int]bool)
	rtn := []int{}
	for _, v := range vals {
		if !seen[v] {
			seen[v] = true
			rtn = append(rtn, v)
		}
	}
	return rtn
}
