package britetopo

// emit.go writes (and reads back) the three plain-text files consumed by the
// simulator: the topology table, the node type file, and the layout file.
// The column order and separators of each are fixed, readers parse them by position.

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// TopoRow is one link of the topology table.  AS numbers are 1-based, as written.
type TopoRow struct {
	Src    int
	Dst    int
	FromAS int
	ToAS   int
}

// TopoTable is the simulator's topology file: declared node and edge counts, then one row per link
type TopoTable struct {
	NodeN int
	EdgeN int
	Rows  []TopoRow
}

// BuildTopoTable takes the counts of the BRITE header and one row per BRITE edge,
// shifting the 0-based AS numbers of BRITE to 1-based
func BuildTopoTable(bt *BriteTopo) *TopoTable {
	tt := &TopoTable{NodeN: bt.NodeN, EdgeN: bt.EdgeN, Rows: make([]TopoRow, 0, len(bt.Edges))}
	for _, edge := range bt.Edges {
		tt.Rows = append(tt.Rows, TopoRow{Src: edge.Src, Dst: edge.Dst, FromAS: edge.FromAS + 1, ToAS: edge.ToAS + 1})
	}
	return tt
}

// WriteToFile stores the table as '<node_n> <edge_n>' followed by tab-separated 'src dst from_as to_as' rows
func (tt *TopoTable) WriteToFile(filename string) error {
	lines := make([]string, 0, len(tt.Rows)+1)
	lines = append(lines, fmt.Sprintf("%d %d", tt.NodeN, tt.EdgeN))
	for _, row := range tt.Rows {
		lines = append(lines, fmt.Sprintf("%d\t%d\t%d\t%d", row.Src, row.Dst, row.FromAS, row.ToAS))
	}
	return writeLines(filename, lines)
}

// ReadTopoTable deserializes a topology table.  If the input argument of dict is empty the file
// whose name is given is read.  The number of rows must match the declared edge count.
func ReadTopoTable(filename string, dict []byte) (*TopoTable, error) {
	var err error
	if len(dict) == 0 {
		dict, err = os.ReadFile(filename)
		if err != nil {
			return nil, err
		}
	}

	lines := splitLines(string(dict))
	if len(lines) == 0 {
		return nil, &FormatError{File: filename, Msg: "empty topology file"}
	}

	counts, err := atois(strings.Fields(lines[0]))
	if err != nil || len(counts) != 2 {
		return nil, &FormatError{File: filename, Line: 1, Msg: "expected '<node_n> <edge_n>' header"}
	}
	tt := &TopoTable{NodeN: counts[0], EdgeN: counts[1]}

	for idx := 1; idx < len(lines); idx++ {
		fields := strings.Fields(lines[idx])
		if len(fields) == 0 {
			continue
		}
		vals, err := atois(fields)
		if err != nil || len(vals) != 4 {
			return nil, &FormatError{File: filename, Line: idx + 1, Msg: "expected 'src dst from_as to_as' row"}
		}
		tt.Rows = append(tt.Rows, TopoRow{Src: vals[0], Dst: vals[1], FromAS: vals[2], ToAS: vals[3]})
	}
	if len(tt.Rows) != tt.EdgeN {
		return nil, &FormatError{File: filename, Line: 1,
			Msg: fmt.Sprintf("header declares %d edges, found %d", tt.EdgeN, len(tt.Rows))}
	}
	return tt, nil
}

// formatIntList renders ids the way a python list of integers prints, e.g. '[1, 2, 3]'
func formatIntList(ids []int) string {
	strs := make([]string, 0, len(ids))
	for _, id := range ids {
		strs = append(strs, strconv.Itoa(id))
	}
	return "[" + strings.Join(strs, ", ") + "]"
}

// parseIntList reads a list written by formatIntList
func parseIntList(text string) ([]int, error) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "[") || !strings.HasSuffix(text, "]") {
		return nil, fmt.Errorf("'%s' is not a bracketed list", text)
	}
	body := strings.TrimSpace(text[1 : len(text)-1])
	if len(body) == 0 {
		return []int{}, nil
	}

	parts := strings.Split(body, ",")
	for idx := range parts {
		parts[idx] = strings.TrimSpace(parts[idx])
	}
	return atois(parts)
}

func atois(strs []string) ([]int, error) {
	vals := make([]int, 0, len(strs))
	for _, s := range strs {
		v, err := strconv.Atoi(s)
		if err != nil {
			return nil, err
		}
		vals = append(vals, v)
	}
	return vals, nil
}

// WriteToFile stores the node type file: exactly four lines, receiver, source, switch, bgn
func (nr *NodeRoles) WriteToFile(filename string) error {
	lines := make([]string, 0, len(RoleNames))
	for idx, list := range nr.lists() {
		lines = append(lines, fmt.Sprintf("%s: %s", RoleNames[idx], formatIntList(list)))
	}
	return writeLines(filename, lines)
}

// ReadNodeRoles deserializes a node type file.  If the input argument of dict is empty the file
// whose name is given is read.  The Router list of the result is empty, the file does not carry it.
func ReadNodeRoles(filename string, dict []byte) (*NodeRoles, error) {
	var err error
	if len(dict) == 0 {
		dict, err = os.ReadFile(filename)
		if err != nil {
			return nil, err
		}
	}

	lines := []string{}
	for _, line := range splitLines(string(dict)) {
		if len(strings.TrimSpace(line)) > 0 {
			lines = append(lines, line)
		}
	}
	if len(lines) != len(RoleNames) {
		return nil, &FormatError{File: filename, Msg: fmt.Sprintf("expected %d lines, found %d", len(RoleNames), len(lines))}
	}

	lists := make([][]int, len(RoleNames))
	for idx, line := range lines {
		label, list, found := strings.Cut(line, ":")
		if !found || strings.TrimSpace(label) != RoleNames[idx] {
			return nil, &FormatError{File: filename, Line: idx + 1, Msg: fmt.Sprintf("expected line to start with '%s'", RoleNames[idx])}
		}
		lists[idx], err = parseIntList(list)
		if err != nil {
			return nil, &FormatError{File: filename, Line: idx + 1, Msg: err.Error()}
		}
	}

	return &NodeRoles{Receiver: lists[0], Source: lists[1], Switch: lists[2], Bgn: lists[3], Router: []int{}}, nil
}

// WriteToFile stores the layout as comma-separated 'id,x,y,as,region' rows with no header
func (lt *LayoutTable) WriteToFile(filename string) error {
	lines := make([]string, 0, len(lt.Rows))
	for _, row := range lt.Rows {
		lines = append(lines, strings.Join([]string{strconv.Itoa(row.ID), formatFloat(row.X), formatFloat(row.Y),
			strconv.Itoa(row.AS), strconv.Itoa(row.Region)}, ","))
	}
	return writeLines(filename, lines)
}

// ReadLayoutTable deserializes a layout file.  If the input argument of dict is empty the file
// whose name is given is read.  Blank lines are skipped.
func ReadLayoutTable(filename string, dict []byte) (*LayoutTable, error) {
	var err error
	if len(dict) == 0 {
		dict, err = os.ReadFile(filename)
		if err != nil {
			return nil, err
		}
	}

	lt := new(LayoutTable)
	for idx, line := range splitLines(string(dict)) {
		if len(strings.TrimSpace(line)) == 0 {
			continue
		}
		fields := strings.Split(strings.TrimSpace(line), ",")
		if len(fields) != 5 {
			return nil, &FormatError{File: filename, Line: idx + 1, Msg: "expected 'id,x,y,as,region' row"}
		}
		ints, ierr := atois([]string{fields[0], fields[3], fields[4]})
		x, xerr := strconv.ParseFloat(fields[1], 64)
		y, yerr := strconv.ParseFloat(fields[2], 64)
		if ierr != nil || xerr != nil || yerr != nil {
			return nil, &FormatError{File: filename, Line: idx + 1, Msg: "non-numeric column in layout row"}
		}
		lt.Rows = append(lt.Rows, LayoutRow{ID: ints[0], X: x, Y: y, AS: ints[1], Region: ints[2]})
	}
	return lt, nil
}

// writeLines creates (or truncates) the named file and writes each line followed by a newline
func writeLines(filename string, lines []string) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}

	w := bufio.NewWriter(f)
	for _, line := range lines {
		if _, err = w.WriteString(line + "\n"); err != nil {
			f.Close()
			return err
		}
	}
	if err = w.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
