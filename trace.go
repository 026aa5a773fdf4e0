package britetopo

import (
	"time"

	"github.com/google/uuid"
	"github.com/iti/evt/vrtime"
)

// StageRecord saves what one stage of a conversion run produced
type StageRecord struct {
	Stage string `json:"stage" yaml:"stage"`

	// time since the start of the run, in seconds and in vrtime ticks
	Time  float64 `json:"time" yaml:"time"`
	Ticks int64   `json:"ticks" yaml:"ticks"`

	// sizes of what the stage produced, e.g. "nodes", "edges", "receiver"
	Counts map[string]int `json:"counts" yaml:"counts"`

	// file written or read by the stage, if any
	Detail string `json:"detail" yaml:"detail"`
}

// RunTrace is used to gather information about a conversion run, stage by stage,
// for post-run inspection
type RunTrace struct {
	// run uses trace
	InUse bool `json:"inuse" yaml:"inuse"`

	// name of run
	RunName string `json:"runname" yaml:"runname"`

	// distinguishes runs sharing a name
	RunID string `json:"runid" yaml:"runid"`

	// records in the order the stages completed
	Stages []StageRecord `json:"stages" yaml:"stages"`

	// outcome of the layout check, once made
	Layout *LayoutReport `json:"layout,omitempty" yaml:"layout,omitempty"`

	start time.Time
}

// CreateRunTrace is a constructor.  It saves the name of the run
// and a flag indicating whether the trace is active.  By testing this
// flag we can inhibit the gathering of stage records when we don't want them,
// while embedding calls to its methods everywhere we need them when we do.
func CreateRunTrace(runName string, active bool) *RunTrace {
	rt := new(RunTrace)
	rt.InUse = active
	rt.RunName = runName
	rt.RunID = uuid.New().String()
	rt.Stages = make([]StageRecord, 0)
	rt.start = time.Now()
	return rt
}

// Active tells the caller whether the run trace is actively being used
func (rt *RunTrace) Active() bool {
	return rt.InUse
}

// AddStage creates a record of a completed stage using its calling arguments, and stores it
func (rt *RunTrace) AddStage(stage string, counts map[string]int, detail string) {
	// return if we aren't using the trace
	if !rt.InUse {
		return
	}

	vrt := vrtime.SecondsToTime(time.Since(rt.start).Seconds())
	rec := StageRecord{Stage: stage, Time: vrt.Seconds(), Ticks: vrt.Ticks(), Counts: counts, Detail: detail}
	rt.Stages = append(rt.Stages, rec)
}

// SetLayout records the outcome of the layout check
func (rt *RunTrace) SetLayout(lr *LayoutReport) {
	if rt.InUse {
		rt.Layout = lr
	}
}

// Stage returns the record of the named stage, and whether there is one
func (rt *RunTrace) Stage(stage string) (StageRecord, bool) {
	for _, rec := range rt.Stages {
		if rec.Stage == stage {
			return rec, true
		}
	}
	return StageRecord{}, false
}

// WriteToFile stores the RunTrace struct to the file whose name is given.
// Serialization to json or to yaml is selected based on the extension of this name.
// Nothing is written (and false returned) when the trace is not in use.
func (rt *RunTrace) WriteToFile(filename string) (bool, error) {
	if !rt.InUse {
		return false, nil
	}
	if err := writeSerialized(filename, *rt); err != nil {
		return false, err
	}
	return true, nil
}

// ReadRunTrace deserializes a byte slice holding a representation of a RunTrace struct.
// If the input argument of dict (those bytes) is empty, the file whose name is given is read to acquire them.
func ReadRunTrace(filename string, useYAML bool, dict []byte) (*RunTrace, error) {
	rt := new(RunTrace)
	if err := readSerialized(filename, useYAML, dict, rt); err != nil {
		return nil, err
	}
	return rt, nil
}
