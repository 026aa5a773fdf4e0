package britetopo

// brite.go reads BRITE topology files into node and edge tables, and writes them back.
// The raw text lines are retained so that an extended topology can be emitted with
// every original line (and its ordering) untouched.

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
)

// node type tags used by BRITE for router-level topologies
const (
	RouterType = "RT_NODE"
	BorderType = "RT_BORDER"
)

// BriteNode describes one row of the Nodes section of a BRITE file
type BriteNode struct {
	ID     int
	X      float64
	Y      float64
	InDeg  int
	OutDeg int
	AS     int
	Type   string
}

// IsBorder is true for nodes BRITE tagged as border routers
func (bn BriteNode) IsBorder() bool {
	return bn.Type == BorderType
}

// BriteEdge describes one row of the Edges section of a BRITE file.
// Tail holds the type tag and whatever columns follow it, verbatim.
type BriteEdge struct {
	ID       int
	Src      int
	Dst      int
	Length   float64
	Delay    float64
	Capacity float64
	FromAS   int
	ToAS     int
	Tail     []string
}

// BriteTopo is the parsed form of a BRITE file.  NodeN and EdgeN are the counts
// declared in the 'Topology:' header, which after a successful parse equal len(Nodes), len(Edges)
type BriteTopo struct {
	Name  string
	NodeN int
	EdgeN int
	Nodes []BriteNode
	Edges []BriteEdge

	// raw lines of the file, without line terminators
	lines []string

	// 0-based line indices of the section headers, and of the last row in each section
	nodeLine, edgeLine       int
	lastNodeRow, lastEdgeRow int

	nodeIdx map[int]int
}

var topoHeaderRe = regexp.MustCompile(`\d+`)
var sectionCountRe = regexp.MustCompile(`^(Nodes|Edges):\s*\(\s*\d+\s*\)`)

// ReadBriteTopo parses a BRITE topology.  If the input argument of dict (those bytes) is empty, the file
// whose name is given is read to acquire them.  Errors in the layout of the file are reported as *FormatError.
func ReadBriteTopo(filename string, dict []byte) (*BriteTopo, error) {
	var err error

	// if the dict slice of bytes is empty we get them from the file whose name is an argument
	if len(dict) == 0 {
		dict, err = os.ReadFile(filename)
		if err != nil {
			return nil, err
		}
	}

	return parseBriteLines(filename, splitLines(string(dict)))
}

// splitLines breaks text into lines, dropping line terminators and the empty string
// that follows a final newline
func splitLines(text string) []string {
	lines := strings.Split(text, "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	for idx := range lines {
		lines[idx] = strings.TrimRight(lines[idx], "\r")
	}
	return lines
}

// findSection returns the index of the first line that starts with keyword, or -1
func findSection(lines []string, keyword string) int {
	for idx, line := range lines {
		if strings.HasPrefix(line, keyword) {
			return idx
		}
	}
	return -1
}

func parseBriteLines(name string, lines []string) (*BriteTopo, error) {
	bt := &BriteTopo{Name: name, lines: lines, nodeIdx: make(map[int]int)}

	if len(lines) == 0 || !strings.HasPrefix(lines[0], "Topology") {
		return nil, &FormatError{File: name, Line: 1, Msg: "expected 'Topology: ( N Nodes, E Edges )' header"}
	}
	numbers := topoHeaderRe.FindAllString(lines[0], -1)
	if len(numbers) < 2 {
		return nil, &FormatError{File: name, Line: 1, Msg: "header does not declare node and edge counts"}
	}
	bt.NodeN, _ = strconv.Atoi(numbers[0])
	bt.EdgeN, _ = strconv.Atoi(numbers[1])

	bt.nodeLine = findSection(lines, "Nodes")
	if bt.nodeLine < 0 {
		return nil, &FormatError{File: name, Msg: "no 'Nodes' section"}
	}
	bt.edgeLine = findSection(lines, "Edges")
	if bt.edgeLine < 0 {
		return nil, &FormatError{File: name, Msg: "no 'Edges' section"}
	}
	if bt.edgeLine < bt.nodeLine {
		return nil, &FormatError{File: name, Line: bt.edgeLine + 1, Msg: "'Edges' section precedes 'Nodes' section"}
	}

	// node rows are the non-blank lines between the two section headers
	bt.lastNodeRow = bt.nodeLine
	for idx := bt.nodeLine + 1; idx < bt.edgeLine; idx++ {
		if len(strings.TrimSpace(lines[idx])) == 0 {
			continue
		}
		node, err := parseNodeRow(lines[idx])
		if err != nil {
			return nil, &FormatError{File: name, Line: idx + 1, Msg: err.Error()}
		}
		if _, present := bt.nodeIdx[node.ID]; present {
			return nil, &FormatError{File: name, Line: idx + 1, Msg: fmt.Sprintf("duplicated node id %d", node.ID)}
		}
		bt.nodeIdx[node.ID] = len(bt.Nodes)
		bt.Nodes = append(bt.Nodes, node)
		bt.lastNodeRow = idx
	}
	if len(bt.Nodes) != bt.NodeN {
		return nil, &FormatError{File: name, Line: 1,
			Msg: fmt.Sprintf("header declares %d nodes, found %d", bt.NodeN, len(bt.Nodes))}
	}

	// edge rows are the non-blank lines after the Edges header
	edgeIDs := make(map[int]bool)
	bt.lastEdgeRow = bt.edgeLine
	for idx := bt.edgeLine + 1; idx < len(lines); idx++ {
		if len(strings.TrimSpace(lines[idx])) == 0 {
			continue
		}
		edge, err := parseEdgeRow(lines[idx])
		if err != nil {
			return nil, &FormatError{File: name, Line: idx + 1, Msg: err.Error()}
		}
		if edgeIDs[edge.ID] {
			return nil, &FormatError{File: name, Line: idx + 1, Msg: fmt.Sprintf("duplicated edge id %d", edge.ID)}
		}
		_, srcOK := bt.nodeIdx[edge.Src]
		_, dstOK := bt.nodeIdx[edge.Dst]
		if !srcOK || !dstOK {
			return nil, &FormatError{File: name, Line: idx + 1,
				Msg: fmt.Sprintf("edge %d refers to undeclared node", edge.ID)}
		}
		edgeIDs[edge.ID] = true
		bt.Edges = append(bt.Edges, edge)
		bt.lastEdgeRow = idx
	}
	if len(bt.Edges) != bt.EdgeN {
		return nil, &FormatError{File: name, Line: 1,
			Msg: fmt.Sprintf("header declares %d edges, found %d", bt.EdgeN, len(bt.Edges))}
	}

	return bt, nil
}

// parseNodeRow reads 'id x y in_deg out_deg as_id type'
func parseNodeRow(line string) (BriteNode, error) {
	var node BriteNode
	fields := strings.Fields(line)
	if len(fields) < 7 {
		return node, fmt.Errorf("node row has %d columns, expected 7", len(fields))
	}

	ints := make([]int, 0, 4)
	for _, idx := range []int{0, 3, 4, 5} {
		v, err := strconv.Atoi(fields[idx])
		if err != nil {
			return node, fmt.Errorf("node row column %d: %w", idx+1, err)
		}
		ints = append(ints, v)
	}
	x, xerr := strconv.ParseFloat(fields[1], 64)
	y, yerr := strconv.ParseFloat(fields[2], 64)
	if xerr != nil || yerr != nil {
		return node, fmt.Errorf("node row has non-numeric coordinates")
	}
	if ints[0] < 0 || ints[3] < 0 {
		return node, fmt.Errorf("negative node or AS id")
	}

	node = BriteNode{ID: ints[0], X: x, Y: y, InDeg: ints[1], OutDeg: ints[2], AS: ints[3], Type: fields[6]}
	return node, nil
}

// parseEdgeRow reads 'id src dst len delay capacity from_as to_as type ...'
func parseEdgeRow(line string) (BriteEdge, error) {
	var edge BriteEdge
	fields := strings.Fields(line)
	if len(fields) < 8 {
		return edge, fmt.Errorf("edge row has %d columns, expected at least 8", len(fields))
	}

	ints := make([]int, 0, 5)
	for _, idx := range []int{0, 1, 2, 6, 7} {
		v, err := strconv.Atoi(fields[idx])
		if err != nil {
			return edge, fmt.Errorf("edge row column %d: %w", idx+1, err)
		}
		ints = append(ints, v)
	}
	floats := make([]float64, 0, 3)
	for _, idx := range []int{3, 4, 5} {
		v, err := strconv.ParseFloat(fields[idx], 64)
		if err != nil {
			return edge, fmt.Errorf("edge row column %d: %w", idx+1, err)
		}
		floats = append(floats, v)
	}

	edge = BriteEdge{ID: ints[0], Src: ints[1], Dst: ints[2],
		Length: floats[0], Delay: floats[1], Capacity: floats[2],
		FromAS: ints[3], ToAS: ints[4], Tail: append([]string{}, fields[8:]...)}
	return edge, nil
}

// formatFloat writes a float without trailing zeros, '517' rather than '517.000000'
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Row renders the node in BRITE's tab-separated node layout
func (bn BriteNode) Row() string {
	return strings.Join([]string{strconv.Itoa(bn.ID), formatFloat(bn.X), formatFloat(bn.Y),
		strconv.Itoa(bn.InDeg), strconv.Itoa(bn.OutDeg), strconv.Itoa(bn.AS), bn.Type}, "\t")
}

// Row renders the edge in BRITE's tab-separated edge layout
func (be BriteEdge) Row() string {
	cols := []string{strconv.Itoa(be.ID), strconv.Itoa(be.Src), strconv.Itoa(be.Dst),
		formatFloat(be.Length), formatFloat(be.Delay), formatFloat(be.Capacity),
		strconv.Itoa(be.FromAS), strconv.Itoa(be.ToAS)}
	cols = append(cols, be.Tail...)
	return strings.Join(cols, "\t")
}

// Node returns the node with the given id, and whether it exists
func (bt *BriteTopo) Node(id int) (BriteNode, bool) {
	idx, present := bt.nodeIdx[id]
	if !present {
		return BriteNode{}, false
	}
	return bt.Nodes[idx], true
}

// MaxNodeID is the largest node id in the file, -1 when there are no nodes
func (bt *BriteTopo) MaxNodeID() int {
	maxID := -1
	for _, node := range bt.Nodes {
		maxID = max(maxID, node.ID)
	}
	return maxID
}

// MaxEdgeID is the largest edge id in the file, -1 when there are no edges
func (bt *BriteTopo) MaxEdgeID() int {
	maxID := -1
	for _, edge := range bt.Edges {
		maxID = max(maxID, edge.ID)
	}
	return maxID
}

// Lines returns a copy of the text lines of the topology
func (bt *BriteTopo) Lines() []string {
	return append([]string{}, bt.lines...)
}

// WriteToFile stores the BRITE text to the file whose name is given
func (bt *BriteTopo) WriteToFile(filename string) error {
	return writeLines(filename, bt.lines)
}

// withCounts rewrites a section header such as 'Nodes: ( 10 )' to declare n rows.
// Headers that do not carry a count are left as they are.
func withCounts(header string, n int) string {
	m := sectionCountRe.FindStringSubmatch(header)
	if m == nil {
		return header
	}
	return fmt.Sprintf("%s: ( %d )%s", m[1], n, header[len(m[0]):])
}
