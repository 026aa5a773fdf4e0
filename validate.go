package britetopo

// validate.go checks, after the fact, that the switches of every AS are spread over
// all of that AS's regions.  It reads the emitted files and never modifies them.

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/exp/slices"
)

// LayoutReport is the outcome of a layout check.  RegionCounts gives, for every AS holding
// a switch, the number of distinct regions its switches occupy; Offending lists (ascending)
// the ASes where that number is not K.
type LayoutReport struct {
	Valid        bool        `json:"valid" yaml:"valid"`
	K            int         `json:"k" yaml:"k"`
	RegionCounts map[int]int `json:"regioncounts" yaml:"regioncounts"`
	Offending    []int       `json:"offending" yaml:"offending"`
}

// Diagnostics describes each offending AS
func (lr *LayoutReport) Diagnostics() []string {
	msgs := make([]string, 0, len(lr.Offending))
	for _, asID := range lr.Offending {
		msgs = append(msgs, fmt.Sprintf("AS %d has %d regions, not %d", asID, lr.RegionCounts[asID], lr.K))
	}
	return msgs
}

// CheckLayoutValid reads the switch list (the third line) of the node type file and the layout file,
// and reports whether the switches of every AS that has any occupy exactly k distinct regions.
func CheckLayoutValid(layoutFile, nodeTypeFile string, k int) (*LayoutReport, error) {
	switches, err := readSwitchLine(nodeTypeFile)
	if err != nil {
		return nil, err
	}

	lt, err := ReadLayoutTable(layoutFile, nil)
	if err != nil {
		return nil, err
	}

	return ValidateLayout(lt, switches, k), nil
}

// readSwitchLine extracts the node ids listed on the 'switch' line of a node type file
func readSwitchLine(nodeTypeFile string) ([]int, error) {
	dict, err := os.ReadFile(nodeTypeFile)
	if err != nil {
		return nil, err
	}

	lines := splitLines(string(dict))
	if len(lines) < 3 || !strings.HasPrefix(lines[2], "switch") {
		return nil, &FormatError{File: nodeTypeFile, Line: 3, Msg: "third line of node type file should start with 'switch'"}
	}

	_, list, _ := strings.Cut(lines[2], ":")
	switches, err := parseIntList(list)
	if err != nil {
		return nil, &FormatError{File: nodeTypeFile, Line: 3, Msg: err.Error()}
	}
	if len(switches) == 0 {
		return nil, &EmptyCandidateError{What: "switch nodes", File: nodeTypeFile}
	}
	return switches, nil
}

// ValidateLayout performs the check of CheckLayoutValid on tables already in memory
func ValidateLayout(lt *LayoutTable, switches []int, k int) *LayoutReport {
	regionsByAS := make(map[int][]int)
	for _, row := range lt.Rows {
		if !slices.Contains(switches, row.ID) {
			continue
		}
		if !slices.Contains(regionsByAS[row.AS], row.Region) {
			regionsByAS[row.AS] = append(regionsByAS[row.AS], row.Region)
		}
	}

	lr := &LayoutReport{Valid: true, K: k, RegionCounts: make(map[int]int), Offending: []int{}}
	for asID, regions := range regionsByAS {
		lr.RegionCounts[asID] = len(regions)
		if len(regions) != k {
			lr.Offending = append(lr.Offending, asID)
		}
	}
	slices.Sort(lr.Offending)
	lr.Valid = len(lr.Offending) == 0
	return lr
}
