package main

// plotresults draws the cache hit ratio reports of simulation runs.  The input directory
// holds one sub-directory per run date, each holding one report per method, named '<x>_<method>.<ext>'.

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/iti/britetopo"
	"github.com/iti/cmdline"
)

// cmdlineParameters configures for recognition of command line variables
func cmdlineParameters() *cmdline.CmdParser {
	cp := cmdline.NewCmdParser()
	cp.AddFlag(cmdline.StringFlag, "input", true)   // directory of result groups
	cp.AddFlag(cmdline.StringFlag, "output", true)  // directory charts are written to
	cp.AddFlag(cmdline.StringFlag, "kind", false)   // 'seq' (default) or 'bar'
	cp.AddFlag(cmdline.StringFlag, "date", false)   // result group drawn by the 'seq' chart
	cp.AddFlag(cmdline.StringFlag, "stride", false) // draw every stride-th sample, default 5
	cp.AddFlag(cmdline.StringFlag, "format", false) // pdf (default), png or svg
	cp.AddFlag(cmdline.StringFlag, "logLevel", false)
	return cp
}

func main() {
	cp := cmdlineParameters()
	cp.Parse()

	logger := britetopo.NewLogger(cp.GetVar("logLevel").(string), os.Stderr)

	inputDir := cp.GetVar("input").(string)
	outputDir := cp.GetVar("output").(string)
	valid, err := britetopo.CheckDirectories([]string{inputDir, outputDir})
	if !valid {
		logger.Fatal().Err(err).Msg("directories")
	}

	format := cp.GetVar("format").(string)
	if len(format) == 0 {
		format = "pdf"
	}
	stride := 5
	if s := cp.GetVar("stride").(string); len(s) > 0 {
		if stride, err = strconv.Atoi(s); err != nil {
			logger.Fatal().Err(err).Msg("stride")
		}
	}
	legend := britetopo.DefaultLegend()

	switch kind := cp.GetVar("kind").(string); kind {
	case "", "seq":
		date := cp.GetVar("date").(string)
		series, err := britetopo.ReadResultDir(filepath.Join(inputDir, date), legend)
		if err != nil {
			logger.Fatal().Err(err).Msg("reading results")
		}
		opts := britetopo.ChartOpts{XLabel: "Time/s", YLabel: "Average cache hit ratio", Stride: stride,
			Output: filepath.Join(outputDir, "cache_hit_ratio_seq."+format)}
		if err = britetopo.PlotSeqLineChart(series, []string{"group", "optimal"}, opts); err != nil {
			logger.Fatal().Err(err).Msg("line chart")
		}
		logger.Info().Int("series", len(series)).Str("file", opts.Output).Msg("drew line chart")

	case "bar":
		mt, err := britetopo.CollectMeanHitRatio(inputDir, legend, []string{"optimal"})
		if err != nil {
			logger.Fatal().Err(err).Msg("reading results")
		}
		opts := britetopo.ChartOpts{XLabel: "Date", YLabel: "Average cache hit ratio",
			Output: filepath.Join(outputDir, "avg_cache_hit_ratio_bar."+format)}
		if err = britetopo.PlotGroupedBarChart(mt, opts); err != nil {
			logger.Fatal().Err(err).Msg("bar chart")
		}
		logger.Info().Strs("groups", mt.Groups).Strs("methods", mt.Methods).Str("file", opts.Output).Msg("drew bar chart")

	default:
		logger.Fatal().Str("kind", kind).Msg("kind is neither 'seq' nor 'bar'")
	}
}
