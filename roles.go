package britetopo

// roles.go classifies the nodes of a topology as receivers, sources, switches,
// border gateways (bgn) and routers.

import (
	"fmt"
	"math"

	"golang.org/x/exp/slices"
)

// role codes, in the order the node type file lists them.  A router is a node with no listed role.
const (
	RouterRole = iota
	ReceiverRole
	SourceRole
	SwitchRole
	BgnRole
)

// RoleNames gives the label written for each listed role in the node type file
var RoleNames = []string{"receiver", "source", "switch", "bgn"}

// NodeRoles holds the role assignment of a topology.  Each list is sorted.
// Router is filled in by ClassifyRoles; it is not part of the node type file.
type NodeRoles struct {
	Receiver []int
	Source   []int
	Switch   []int
	Bgn      []int
	Router   []int
}

// ClassifyRoles assigns roles to the nodes of tg.  The degree-1 nodes are split at random into
// receivers (a fraction recvRatio of them, rounded) and sources.  The single neighbors of those
// nodes are the switches, nodes BRITE tags as border routers are the bgn, every other node is a router.
// A switch may also be a bgn; the two lists are not deduplicated against each other.
func ClassifyRoles(tg *TopoGraph, recvRatio float64, rng U01Source) (*NodeRoles, error) {
	if !(recvRatio > 0.0 && recvRatio < 1.0) {
		return nil, fmt.Errorf("receiver ratio %v outside (0,1)", recvRatio)
	}

	nodeIDs := tg.NodeIDs()

	oneDeg := []int{}
	for _, id := range nodeIDs {
		if tg.Degree(id) == 1 {
			oneDeg = append(oneDeg, id)
		}
	}
	if len(oneDeg) == 0 {
		return nil, &EmptyCandidateError{What: "degree-1 nodes"}
	}

	nr := new(NodeRoles)
	recvN := int(math.Round(float64(len(oneDeg)) * recvRatio))
	nr.Receiver, nr.Source = sampleIDs(oneDeg, recvN, rng)
	slices.Sort(nr.Receiver)
	slices.Sort(nr.Source)

	// a degree-1 node has exactly one neighbor, the switch it hangs off
	nr.Switch = []int{}
	for _, id := range oneDeg {
		sw := tg.Neighbors(id)[0]
		if !slices.Contains(nr.Switch, sw) {
			nr.Switch = append(nr.Switch, sw)
		}
	}
	slices.Sort(nr.Switch)

	nr.Bgn = []int{}
	for _, id := range nodeIDs {
		node, _ := tg.Node(id)
		if node.IsBorder() {
			nr.Bgn = append(nr.Bgn, id)
		}
	}

	nr.Router = []int{}
	for _, id := range nodeIDs {
		if nr.RoleOf(id) == RouterRole {
			nr.Router = append(nr.Router, id)
		}
	}

	return nr, nil
}

// lists returns the four listed roles in file order
func (nr *NodeRoles) lists() [][]int {
	return [][]int{nr.Receiver, nr.Source, nr.Switch, nr.Bgn}
}

// RoleOf gives the role code of a node.  A node listed more than once takes the role
// listed last in the file, so a switch that is also a bgn reports BgnRole.
func (nr *NodeRoles) RoleOf(id int) int {
	role := RouterRole
	for idx, list := range nr.lists() {
		if slices.Contains(list, id) {
			role = idx + 1
		}
	}
	return role
}
