package britetopo

// charts.go reads the cache hit ratio reports written by simulation runs and
// draws them as line charts (ratio over time) and grouped bar charts (mean ratio per run group)

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/exp/slices"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

var seqHitRatioRe = regexp.MustCompile(`\* SEQ_HIT_RATIO: \[(.*)\]`)
var hitSampleRe = regexp.MustCompile(`\(\s*([^,()\s]+)\s*,\s*([^,()\s]+)\s*\)`)
var meanHitRatioRe = regexp.MustCompile(`MEAN: (.*)`)

// ErrNoResult reports a report that lacks the line asked for
var ErrNoResult = errors.New("no result line found")

// HitSample is the cache hit ratio observed at one time
type HitSample struct {
	Time  float64
	Ratio float64
}

// ParseSeqHitRatio extracts the samples of the '* SEQ_HIT_RATIO: [(t, r), ...]' line of a report
func ParseSeqHitRatio(doc string) ([]HitSample, error) {
	m := seqHitRatioRe.FindStringSubmatch(doc)
	if m == nil {
		return nil, fmt.Errorf("SEQ_HIT_RATIO: %w", ErrNoResult)
	}

	samples := []HitSample{}
	for _, pair := range hitSampleRe.FindAllStringSubmatch(m[1], -1) {
		t, terr := strconv.ParseFloat(pair[1], 64)
		r, rerr := strconv.ParseFloat(pair[2], 64)
		if terr != nil || rerr != nil {
			return nil, fmt.Errorf("SEQ_HIT_RATIO sample '%s' is not numeric", pair[0])
		}
		samples = append(samples, HitSample{Time: t, Ratio: r})
	}
	return samples, nil
}

// ParseMeanHitRatio extracts the value of the 'MEAN: x' line of a report
func ParseMeanHitRatio(doc string) (float64, error) {
	m := meanHitRatioRe.FindStringSubmatch(doc)
	if m == nil {
		return 0, fmt.Errorf("MEAN: %w", ErrNoResult)
	}
	return strconv.ParseFloat(strings.TrimSpace(m[1]), 64)
}

// DefaultLegend maps the method named in a report's file name to the label charts show for it
func DefaultLegend() map[string]string {
	return map[string]string{"popularity": "AC-POP", "random": "AC-RAND", "recommend": "AC-REC", "group": "AC-OPT"}
}

// ResultSeries holds what one report file holds
type ResultSeries struct {
	File   string
	Method string
	Label  string

	// nil when the report has no SEQ_HIT_RATIO line
	Samples []HitSample

	// HasMean is false when the report has no MEAN line
	Mean    float64
	HasMean bool
}

// methodOf gives the method a report file is named for, the part of '<x>_<method>.<ext>' after the first underscore
func methodOf(filename string) (string, bool) {
	base, _, _ := strings.Cut(filepath.Base(filename), ".")
	parts := strings.Split(base, "_")
	if len(parts) < 2 || len(parts[1]) == 0 {
		return "", false
	}
	return parts[1], true
}

// ReadResultDir reads every report file of a directory, in file name order.  Files whose names
// do not carry a method are skipped.  The method's label is looked up in legend, and is the
// method itself when legend does not name it.
func ReadResultDir(dir string, legend map[string]string) ([]ResultSeries, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	results := []ResultSeries{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		method, ok := methodOf(entry.Name())
		if !ok {
			continue
		}

		filename := filepath.Join(dir, entry.Name())
		dict, err := os.ReadFile(filename)
		if err != nil {
			return nil, err
		}
		doc := string(dict)

		rs := ResultSeries{File: filename, Method: method, Label: method}
		if label, present := legend[method]; present {
			rs.Label = label
		}

		rs.Samples, err = ParseSeqHitRatio(doc)
		if err != nil && !errors.Is(err, ErrNoResult) {
			return nil, fmt.Errorf("%s: %w", filename, err)
		}
		rs.Mean, err = ParseMeanHitRatio(doc)
		if err == nil {
			rs.HasMean = true
		} else if !errors.Is(err, ErrNoResult) {
			return nil, fmt.Errorf("%s: %w", filename, err)
		}
		results = append(results, rs)
	}
	return results, nil
}

// MeanTable holds the mean hit ratio of every method in every run group (a sub-directory of results)
type MeanTable struct {
	Groups  []string
	Methods []string

	// Values[group][method label]
	Values map[string]map[string]float64
}

// CollectMeanHitRatio reads every sub-directory of root as one group of reports.  Methods named
// in skip are left out.  Methods are listed in the order the first group gives them.
func CollectMeanHitRatio(root string, legend map[string]string, skip []string) (*MeanTable, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, err
	}

	mt := &MeanTable{Groups: []string{}, Methods: []string{}, Values: make(map[string]map[string]float64)}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		results, err := ReadResultDir(filepath.Join(root, entry.Name()), legend)
		if err != nil {
			return nil, err
		}

		group := entry.Name()
		mt.Groups = append(mt.Groups, group)
		mt.Values[group] = make(map[string]float64)
		for _, rs := range results {
			if slices.Contains(skip, rs.Method) || !rs.HasMean {
				continue
			}
			mt.Values[group][rs.Label] = rs.Mean
			if !slices.Contains(mt.Methods, rs.Label) {
				mt.Methods = append(mt.Methods, rs.Label)
			}
		}
	}
	if len(mt.Groups) == 0 {
		return nil, fmt.Errorf("no result groups under %s", root)
	}
	return mt, nil
}

// ChartOpts gives the text of a chart and where to save it.  The format is selected by the
// extension of Output.
type ChartOpts struct {
	Title  string
	XLabel string
	YLabel string
	Output string

	// only every Stride-th sample of a series is drawn
	Stride int
}

// PlotSeqLineChart draws the samples of every series, one line per series, labelled by the series label.
// Series of the methods named in skip, and series without samples, are not drawn.
func PlotSeqLineChart(series []ResultSeries, skip []string, opts ChartOpts) error {
	stride := max(opts.Stride, 1)

	p := plot.New()
	p.Title.Text = opts.Title
	p.X.Label.Text = opts.XLabel
	p.Y.Label.Text = opts.YLabel
	p.Add(plotter.NewGrid())

	lines := make([]interface{}, 0)
	for _, rs := range series {
		if slices.Contains(skip, rs.Method) || len(rs.Samples) == 0 {
			continue
		}
		points := make(plotter.XYs, 0, len(rs.Samples)/stride+1)
		for idx := 0; idx < len(rs.Samples); idx += stride {
			points = append(points, plotter.XY{X: rs.Samples[idx].Time, Y: rs.Samples[idx].Ratio})
		}
		lines = append(lines, rs.Label, points)
	}
	if len(lines) == 0 {
		return fmt.Errorf("no series to draw in %s", opts.Output)
	}

	if err := plotutil.AddLinePoints(p, lines...); err != nil {
		return err
	}
	return p.Save(6*vg.Inch, 4*vg.Inch, opts.Output)
}

// PlotGroupedBarChart draws, for every group, one bar per method, side by side
func PlotGroupedBarChart(mt *MeanTable, opts ChartOpts) error {
	if len(mt.Methods) == 0 {
		return fmt.Errorf("no methods to draw in %s", opts.Output)
	}

	p := plot.New()
	p.Title.Text = opts.Title
	p.X.Label.Text = opts.XLabel
	p.Y.Label.Text = opts.YLabel
	p.Add(plotter.NewGrid())

	width := vg.Points(15)
	for idx, method := range mt.Methods {
		vals := make(plotter.Values, len(mt.Groups))
		for gdx, group := range mt.Groups {
			vals[gdx] = mt.Values[group][method]
		}
		bars, err := plotter.NewBarChart(vals, width)
		if err != nil {
			return err
		}
		bars.LineStyle.Width = vg.Length(0)
		bars.Color = plotutil.Color(idx)
		bars.Offset = vg.Length(float64(idx)-float64(len(mt.Methods)-1)/2) * width
		p.Add(bars)
		p.Legend.Add(method, bars)
	}
	p.Legend.Top = true
	p.NominalX(mt.Groups...)

	return p.Save(6*vg.Inch, 4*vg.Inch, opts.Output)
}
