package britetopo

// flowgraph.go merges the traffic flows recorded by a simulation run with the topology,
// node type and layout files, giving every node a load and every link a value,
// ready to be drawn.

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"golang.org/x/exp/slices"
	"gonum.org/v1/gonum/graph/layout"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/spatial/r2"
)

// FlowRecord is one row of a flow log: the end points of a link, the load the run
// measured at each, and the load carried by the link
type FlowRecord struct {
	Src      int
	Dst      int
	LoadSrc  float64
	LoadDst  float64
	LinkLoad float64

	// the row as it appears in the log, used to tell old rows from new
	Text string
}

// FlowLog holds the rows of a flow log in file order
type FlowLog struct {
	Records []FlowRecord
}

// ReadFlowLog reads the flow log whose name is given.  A log that does not
// exist yet is read as empty, as the simulator only creates it once there are flows.
func ReadFlowLog(filename string) (*FlowLog, error) {
	dict, err := os.ReadFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return new(FlowLog), nil
		}
		return nil, err
	}
	return ParseFlowLog(filename, dict)
}

// ParseFlowLog parses the space-separated rows 'src dst load_src load_dst link_load'.
// Blank lines are skipped.
func ParseFlowLog(filename string, dict []byte) (*FlowLog, error) {
	fl := new(FlowLog)
	for idx, line := range splitLines(string(dict)) {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		if len(fields) != 5 {
			return nil, &FormatError{File: filename, Line: idx + 1, Msg: "expected 'src dst load_src load_dst link_load' row"}
		}

		vals := make([]float64, 0, len(fields))
		for _, field := range fields {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, &FormatError{File: filename, Line: idx + 1, Msg: err.Error()}
			}
			vals = append(vals, v)
		}
		if vals[0] != math.Trunc(vals[0]) || vals[1] != math.Trunc(vals[1]) {
			return nil, &FormatError{File: filename, Line: idx + 1, Msg: "node ids must be integers"}
		}

		fl.Records = append(fl.Records, FlowRecord{Src: int(vals[0]), Dst: int(vals[1]),
			LoadSrc: vals[2], LoadDst: vals[3], LinkLoad: vals[4], Text: line})
	}
	return fl, nil
}

// SieveFlowLog returns the rows of newer whose text does not appear anywhere in older.
// Runs append to the newer log, so what remains is what the latest run added.
func SieveFlowLog(older, newer *FlowLog) *FlowLog {
	seen := make(map[string]bool)
	for _, rec := range older.Records {
		seen[rec.Text] = true
	}

	sieved := new(FlowLog)
	for _, rec := range newer.Records {
		if !seen[rec.Text] {
			sieved.Records = append(sieved.Records, rec)
		}
	}
	return sieved
}

// link flags
const (
	NoFlow  = 0 // no flow crossed the link
	OldFlow = 1 // set by the flow log
	NewFlow = 2 // set by the rows the latest run added
)

// RoleSymbols names the glyph drawn for each role code
var RoleSymbols = []string{"circle", "roundRect", "rect", "triangle", "diamond"}

// RoleLabels gives the short label of each listed role, indexed by role code - 1
var RoleLabels = []string{"RCV", "SRC", "SW", "BGN"}

// FlowNode is a node of the flow graph
type FlowNode struct {
	ID     int    `json:"id" yaml:"id"`
	Role   int    `json:"role" yaml:"role"`
	Symbol string `json:"symbol" yaml:"symbol"`
	Label  string `json:"label" yaml:"label"`

	// Category is the 0-based index of the node's AS
	Category int `json:"category" yaml:"category"`

	// Load is as measured, Value is Load in traffic units rounded to two places
	Load  float64 `json:"load" yaml:"load"`
	Value float64 `json:"value" yaml:"value"`

	Region     int     `json:"region" yaml:"region"`
	X          float64 `json:"x" yaml:"x"`
	Y          float64 `json:"y" yaml:"y"`
	Fixed      bool    `json:"fixed" yaml:"fixed"`
	SymbolSize float64 `json:"symbolsize" yaml:"symbolsize"`
}

// FlowLink is a link of the flow graph, one per topology table row
type FlowLink struct {
	Src   int     `json:"src" yaml:"src"`
	Dst   int     `json:"dst" yaml:"dst"`
	Load  float64 `json:"load" yaml:"load"`
	Value float64 `json:"value" yaml:"value"`
	Flag  int     `json:"flag" yaml:"flag"`
	Width float64 `json:"width" yaml:"width"`
}

// FlowGraph is the merged picture of topology and flows
type FlowGraph struct {
	Title       string     `json:"title" yaml:"title"`
	Layout      string     `json:"layout" yaml:"layout"`
	TrafficUnit float64    `json:"trafficunit" yaml:"trafficunit"`
	Categories  []string   `json:"categories" yaml:"categories"`
	Nodes       []FlowNode `json:"nodes" yaml:"nodes"`
	Links       []FlowLink `json:"links" yaml:"links"`
}

// FlowGraphOpts selects how a flow graph is built
type FlowGraphOpts struct {
	Title string

	// "file" fixes every node at its layout coordinates, "force" lays the graph out
	// with a force-directed model started from those coordinates
	Layout string

	// symbol size of a node carrying no load
	NodeSize float64

	// loads are divided by TrafficUnit for display
	TrafficUnit float64

	// rounds of the force-directed model
	ForceUpdates int
}

// DefaultFlowGraphOpts gives a force layout, a 15 point node and a traffic unit of 1M
func DefaultFlowGraphOpts() FlowGraphOpts {
	return FlowGraphOpts{Title: "Simulation Flow Graph", Layout: "force", NodeSize: 15, TrafficUnit: 1e6, ForceUpdates: 100}
}

// BuildFlowGraph merges the flows, then the newer flows, into the links of the topology table.
// A link takes the load of the last flow between its end points (in either direction) and is flagged
// by which log that flow came from.  A node takes the load the last flow mentioning it recorded at its end.
func BuildFlowGraph(tt *TopoTable, nr *NodeRoles, lt *LayoutTable, flows, newFlows *FlowLog, opts FlowGraphOpts) (*FlowGraph, error) {
	if opts.Layout != "force" && opts.Layout != "file" {
		return nil, fmt.Errorf("layout '%s' is neither 'force' nor 'file'", opts.Layout)
	}
	if !(opts.TrafficUnit > 0) {
		return nil, fmt.Errorf("traffic unit %v must be positive", opts.TrafficUnit)
	}

	links := make([]FlowLink, 0, len(tt.Rows))
	for _, row := range tt.Rows {
		links = append(links, FlowLink{Src: row.Src, Dst: row.Dst})
	}
	loads := make(map[int]float64)

	for _, pass := range []struct {
		fl   *FlowLog
		flag int
	}{{flows, OldFlow}, {newFlows, NewFlow}} {
		if pass.fl == nil {
			continue
		}
		for _, rec := range pass.fl.Records {
			loads[rec.Src] = rec.LoadSrc
			loads[rec.Dst] = rec.LoadDst
			for idx := range links {
				lk := &links[idx]
				if (lk.Src == rec.Src && lk.Dst == rec.Dst) || (lk.Src == rec.Dst && lk.Dst == rec.Src) {
					lk.Load = rec.LinkLoad
					lk.Flag = pass.flag
				}
			}
		}
	}

	fg := &FlowGraph{Title: opts.Title, Layout: opts.Layout, TrafficUnit: opts.TrafficUnit}

	// nodes appear in the order the topology table first names them
	cats := []int{}
	seen := make(map[int]bool)
	maxLoad := 0.0
	for _, row := range tt.Rows {
		for _, end := range []struct{ id, as int }{{row.Src, row.FromAS}, {row.Dst, row.ToAS}} {
			if !slices.Contains(cats, end.as) {
				cats = append(cats, end.as)
			}
			if seen[end.id] {
				continue
			}
			seen[end.id] = true
			maxLoad = math.Max(maxLoad, loads[end.id])
			fg.Nodes = append(fg.Nodes, FlowNode{ID: end.id, Category: end.as - 1, Load: loads[end.id]})
		}
	}
	slices.Sort(cats)
	for _, cat := range cats {
		fg.Categories = append(fg.Categories, "AS:"+strconv.Itoa(cat))
	}

	placed := make(map[int]bool)
	for idx := range fg.Nodes {
		fn := &fg.Nodes[idx]
		fn.Role = nr.RoleOf(fn.ID)
		fn.Symbol = RoleSymbols[fn.Role]
		fn.Value = roundFloat(fn.Load/opts.TrafficUnit, 2)

		// sizes run from NodeSize to 1.8 NodeSize with load, listed roles drawn a fifth larger
		fn.SymbolSize = opts.NodeSize
		if maxLoad > 0 {
			fn.SymbolSize += fn.Load / maxLoad * opts.NodeSize * 0.8
		}
		fn.Label = strconv.Itoa(fn.ID)
		if fn.Role != RouterRole {
			fn.SymbolSize *= 1.2
			fn.Label = RoleLabels[fn.Role-1] + ":" + fn.Label
		}

		row, present := lt.Lookup(fn.ID)
		if present {
			fn.X, fn.Y, fn.Region = row.X, row.Y, row.Region
			placed[fn.ID] = true
		} else if opts.Layout == "file" {
			return nil, fmt.Errorf("node %d has no layout row", fn.ID)
		}
		fn.Fixed = opts.Layout == "file"
	}

	maxLink := 0.0
	for _, lk := range links {
		maxLink = math.Max(maxLink, lk.Load)
	}
	for idx := range links {
		lk := &links[idx]
		lk.Value = roundFloat(lk.Load/opts.TrafficUnit, 2)
		lk.Width = 1.0
		if lk.Flag != NoFlow {
			lk.Width = 2.0
			if maxLink > 0 {
				lk.Width += lk.Load / maxLink * 6
			}
		}
	}
	fg.Links = links

	if opts.Layout == "force" {
		fg.forceLayout(opts.ForceUpdates, placed)
	}
	return fg, nil
}

// roundFloat rounds val to the given number of decimal places
func roundFloat(val float64, precision uint) float64 {
	ratio := math.Pow(10, float64(precision))
	return math.Round(val*ratio) / ratio
}

// forceScale maps layout coordinates onto the unit spring length of the force model
const forceScale = 100.0

// seededLayout holds node positions for the force model.  It is
// initialized from the layout coordinates, so the model does not scatter the nodes at random.
type seededLayout map[int64]r2.Vec

func (sl seededLayout) IsInitialized() bool {
	return true
}

func (sl seededLayout) SetCoord2(id int64, pos r2.Vec) {
	sl[id] = pos
}

func (sl seededLayout) Coord2(id int64) r2.Vec {
	return sl[id]
}

// forceLayout moves the nodes of the graph according to an Eades spring model.  Nodes
// not in placed start on a circle around the centroid of those that are.
func (fg *FlowGraph) forceLayout(updates int, placed map[int]bool) {
	if updates < 1 || len(fg.Nodes) == 0 {
		return
	}

	g := simple.NewUndirectedGraph()
	for _, fn := range fg.Nodes {
		g.AddNode(simple.Node(fn.ID))
	}
	for _, lk := range fg.Links {
		if lk.Src != lk.Dst {
			g.SetEdge(simple.Edge{F: simple.Node(lk.Src), T: simple.Node(lk.Dst)})
		}
	}

	var center r2.Vec
	if len(placed) > 0 {
		for _, fn := range fg.Nodes {
			if placed[fn.ID] {
				center = r2.Add(center, r2.Vec{X: fn.X, Y: fn.Y})
			}
		}
		center = r2.Scale(1/float64(len(placed)), center)
	}

	sl := make(seededLayout)
	for idx, fn := range fg.Nodes {
		pos := r2.Vec{X: fn.X, Y: fn.Y}
		if !placed[fn.ID] {
			angle := 2 * math.Pi * float64(idx) / float64(len(fg.Nodes))
			pos = r2.Add(center, r2.Vec{X: forceScale * math.Cos(angle), Y: forceScale * math.Sin(angle)})
		}
		sl[int64(fn.ID)] = r2.Scale(1/forceScale, pos)
	}

	eades := layout.EadesR2{Repulsion: 1, Rate: 0.05, Updates: updates, Theta: 0.2}
	for eades.Update(g, sl) {
	}

	for idx := range fg.Nodes {
		pos := r2.Scale(forceScale, sl[int64(fg.Nodes[idx].ID)])
		fg.Nodes[idx].X, fg.Nodes[idx].Y = pos.X, pos.Y
	}
}

// CategoryCounts gives the number of nodes in each AS, keyed by the 1-based AS number
func (fg *FlowGraph) CategoryCounts() map[int]int {
	counts := make(map[int]int)
	for _, fn := range fg.Nodes {
		counts[fn.Category+1] += 1
	}
	return counts
}

// Node returns the flow graph node with the given id, and whether there is one
func (fg *FlowGraph) Node(id int) (FlowNode, bool) {
	for _, fn := range fg.Nodes {
		if fn.ID == id {
			return fn, true
		}
	}
	return FlowNode{}, false
}

// WriteToFile stores the FlowGraph struct to the file whose name is given.
// Serialization to json or to yaml is selected based on the extension of this name.
func (fg *FlowGraph) WriteToFile(filename string) error {
	return writeSerialized(filename, *fg)
}

// ReadFlowGraph deserializes a byte slice holding a representation of a FlowGraph struct.
// If the input argument of dict (those bytes) is empty, the file whose name is given is read.
func ReadFlowGraph(filename string, useYAML bool, dict []byte) (*FlowGraph, error) {
	fg := new(FlowGraph)
	if err := readSerialized(filename, useYAML, dict, fg); err != nil {
		return nil, err
	}
	return fg, nil
}
