package britetopo

// region.go partitions the nodes of each AS into control regions by clustering
// their coordinates.  The clustering is k-means with a deterministic start, so the same
// topology always yields the same regions.

import (
	"fmt"
	"math"

	"golang.org/x/exp/slices"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// k-means stops after this many rounds, or once no centroid moves more than kMeansTol
const (
	kMeansMaxIter = 300
	kMeansTol     = 1e-4
)

// LayoutRow is one line of the layout file: node id, coordinates, AS, and region within the AS
type LayoutRow struct {
	ID     int
	X      float64
	Y      float64
	AS     int
	Region int
}

// LayoutTable holds the rows of a layout file, grouped by AS
type LayoutTable struct {
	Rows []LayoutRow
}

// ClusterRegions clusters, independently for every AS, the coordinates of that AS's nodes into
// exactly k regions.  ASes are visited in ascending order and the nodes of each keep the order
// they have in the input.  An AS with fewer than k nodes is reported as *ClusterSizeError.
func ClusterRegions(nodes []BriteNode, k int) (*LayoutTable, error) {
	if k < 1 {
		return nil, fmt.Errorf("region count %d must be positive", k)
	}

	groups := make(map[int][]BriteNode)
	asIDs := []int{}
	for _, node := range nodes {
		if _, present := groups[node.AS]; !present {
			asIDs = append(asIDs, node.AS)
		}
		groups[node.AS] = append(groups[node.AS], node)
	}
	slices.Sort(asIDs)

	lt := new(LayoutTable)
	for _, asID := range asIDs {
		group := groups[asID]
		if len(group) < k {
			return nil, &ClusterSizeError{AS: asID, Points: len(group), K: k}
		}

		points := mat.NewDense(len(group), 2, nil)
		for idx, node := range group {
			points.Set(idx, 0, node.X)
			points.Set(idx, 1, node.Y)
		}

		labels := kMeans(points, k)
		for idx, node := range group {
			lt.Rows = append(lt.Rows, LayoutRow{ID: node.ID, X: node.X, Y: node.Y, AS: asID, Region: labels[idx]})
		}
	}
	return lt, nil
}

// kMeans clusters the rows of points into k non-empty clusters and returns the cluster of each row.
// Requires at least k rows.  Labels are numbered in order of first appearance.
func kMeans(points *mat.Dense, k int) []int {
	n, dim := points.Dims()
	centroids := initCentroids(points, k)
	labels := make([]int, n)
	prev := make([]int, n)

	for iter := 0; iter < kMeansMaxIter; iter++ {
		copy(prev, labels)

		// assignment step, ties go to the lower-numbered centroid
		for idx := 0; idx < n; idx++ {
			labels[idx] = nearest(points.RawRowView(idx), centroids)
		}
		repairEmpty(points, centroids, labels, k)

		// update step
		shift := 0.0
		sums := mat.NewDense(k, dim, nil)
		counts := make([]float64, k)
		for idx := 0; idx < n; idx++ {
			floats.Add(sums.RawRowView(labels[idx]), points.RawRowView(idx))
			counts[labels[idx]] += 1
		}
		for c := 0; c < k; c++ {
			row := sums.RawRowView(c)
			floats.Scale(1.0/counts[c], row)
			shift = math.Max(shift, floats.Distance(row, centroids.RawRowView(c), 2))
			centroids.SetRow(c, row)
		}

		if (iter > 0 && slices.Equal(prev, labels)) || shift < kMeansTol {
			break
		}
	}

	return canonicalLabels(labels)
}

// initCentroids picks k rows as the starting centroids: the row closest to the mean of all rows,
// then repeatedly the row farthest from every centroid chosen so far
func initCentroids(points *mat.Dense, k int) *mat.Dense {
	n, dim := points.Dims()
	centroids := mat.NewDense(k, dim, nil)

	mean := make([]float64, dim)
	for idx := 0; idx < n; idx++ {
		floats.Add(mean, points.RawRowView(idx))
	}
	floats.Scale(1.0/float64(n), mean)

	first := 0
	for idx := 1; idx < n; idx++ {
		if floats.Distance(points.RawRowView(idx), mean, 2) < floats.Distance(points.RawRowView(first), mean, 2) {
			first = idx
		}
	}
	centroids.SetRow(0, points.RawRowView(first))

	// closest holds the distance from each row to its nearest chosen centroid
	closest := make([]float64, n)
	for idx := 0; idx < n; idx++ {
		closest[idx] = floats.Distance(points.RawRowView(idx), centroids.RawRowView(0), 2)
	}
	for c := 1; c < k; c++ {
		far := floats.MaxIdx(closest)
		centroids.SetRow(c, points.RawRowView(far))
		for idx := 0; idx < n; idx++ {
			closest[idx] = math.Min(closest[idx], floats.Distance(points.RawRowView(idx), centroids.RawRowView(c), 2))
		}
	}
	return centroids
}

// nearest returns the index of the centroid closest to p
func nearest(p []float64, centroids *mat.Dense) int {
	k, _ := centroids.Dims()
	best := 0
	bestDist := math.Inf(1)
	for c := 0; c < k; c++ {
		d := floats.Distance(p, centroids.RawRowView(c), 2)
		if d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}

// repairEmpty gives every empty cluster one member: the row farthest from its own centroid
// among rows whose cluster has more than one member.  The empty cluster's centroid moves onto that row.
func repairEmpty(points *mat.Dense, centroids *mat.Dense, labels []int, k int) {
	counts := make([]int, k)
	for _, l := range labels {
		counts[l] += 1
	}

	for c := 0; c < k; c++ {
		if counts[c] > 0 {
			continue
		}
		far := -1
		farDist := -1.0
		for idx, l := range labels {
			if counts[l] < 2 {
				continue
			}
			d := floats.Distance(points.RawRowView(idx), centroids.RawRowView(l), 2)
			if d > farDist {
				far, farDist = idx, d
			}
		}
		counts[labels[far]] -= 1
		labels[far] = c
		counts[c] = 1
		centroids.SetRow(c, points.RawRowView(far))
	}
}

// canonicalLabels renumbers labels so that clusters are numbered by first appearance
func canonicalLabels(labels []int) []int {
	renum := make(map[int]int)
	rtn := make([]int, len(labels))
	for idx, l := range labels {
		if _, present := renum[l]; !present {
			renum[l] = len(renum)
		}
		rtn[idx] = renum[l]
	}
	return rtn
}

// RegionsOf lists, for the AS named, the distinct regions that appear in the table
func (lt *LayoutTable) RegionsOf(asID int) []int {
	regions := []int{}
	for _, row := range lt.Rows {
		if row.AS == asID && !slices.Contains(regions, row.Region) {
			regions = append(regions, row.Region)
		}
	}
	slices.Sort(regions)
	return regions
}

// Lookup returns the layout row of the node named, and whether one exists
func (lt *LayoutTable) Lookup(id int) (LayoutRow, bool) {
	for _, row := range lt.Rows {
		if row.ID == id {
			return row, true
		}
	}
	return LayoutRow{}, false
}
