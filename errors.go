package britetopo

// errors.go defines the error kinds reported by the converter, and
// the helper that folds a list of errors into one

import (
	"errors"
	"fmt"
	"strings"
)

// A FormatError reports a malformed or missing section or line in an input file.
// Line is 1-based, and zero when the problem is not tied to one line.
type FormatError struct {
	File string
	Line int
	Msg  string
}

func (e *FormatError) Error() string {
	file := e.File
	if len(file) == 0 {
		file = "<input>"
	}
	if e.Line > 0 {
		return fmt.Sprintf("format error in %s line %d: %s", file, e.Line, e.Msg)
	}
	return fmt.Sprintf("format error in %s: %s", file, e.Msg)
}

// An EmptyCandidateError reports that a set required to be non-empty
// (e.g. the degree-1 nodes, or the switches named in a node type file) is empty
type EmptyCandidateError struct {
	What string
	File string
}

func (e *EmptyCandidateError) Error() string {
	if len(e.File) > 0 {
		return fmt.Sprintf("no %s found in %s", e.What, e.File)
	}
	return fmt.Sprintf("no %s found", e.What)
}

// A ClusterSizeError reports an AS with fewer nodes than the number of regions requested
type ClusterSizeError struct {
	AS     int
	Points int
	K      int
}

func (e *ClusterSizeError) Error() string {
	return fmt.Sprintf("AS %d has %d nodes, cannot form %d regions", e.AS, e.Points, e.K)
}

// An InsufficientCandidatesError reports an empty pool of attachment points
// for synthetic nodes.  AS is -1 when the per-AS pool size itself computes to zero.
type InsufficientCandidatesError struct {
	AS         int
	Candidates int
	PerAS      int
}

func (e *InsufficientCandidatesError) Error() string {
	if e.AS < 0 {
		return fmt.Sprintf("access candidate pool is empty: %d candidates give %d per AS", e.Candidates, e.PerAS)
	}
	return fmt.Sprintf("access candidate pool of AS %d is empty (%d per AS requested)", e.AS, e.PerAS)
}

// ReportErrs transforms a list of errors and transforms the non-nil ones into a single error
// with comma-separated report of all the constituent errors, and returns it.
func ReportErrs(errs []error) error {
	errMsg := make([]string, 0)
	for _, err := range errs {
		if err != nil {
			errMsg = append(errMsg, err.Error())
		}
	}
	if len(errMsg) == 0 {
		return nil
	}

	return errors.New(strings.Join(errMsg, ","))
}
