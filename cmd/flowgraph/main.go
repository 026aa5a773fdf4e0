package main

// flowgraph merges the flow logs of a simulation run with the topology, node type and layout
// files of its network, writes the result as json or yaml, and optionally draws it

import (
	"os"
	"strconv"

	"github.com/iti/britetopo"
	"github.com/iti/cmdline"
)

// cmdlineParameters configures for recognition of command line variables
func cmdlineParameters() *cmdline.CmdParser {
	cp := cmdline.NewCmdParser()
	cp.AddFlag(cmdline.StringFlag, "topo", true)      // topology table
	cp.AddFlag(cmdline.StringFlag, "nodeType", true)  // node type file
	cp.AddFlag(cmdline.StringFlag, "layout", true)    // layout file
	cp.AddFlag(cmdline.StringFlag, "flows", false)    // flow log
	cp.AddFlag(cmdline.StringFlag, "newFlows", false) // flow log the latest run appended to
	cp.AddFlag(cmdline.StringFlag, "mode", false)     // 'force' (default) or 'file'
	cp.AddFlag(cmdline.StringFlag, "title", false)    // title of the drawing
	cp.AddFlag(cmdline.StringFlag, "unit", false)     // traffic unit, default 1e6
	cp.AddFlag(cmdline.StringFlag, "out", true)       // flow graph written, .json or .yaml
	cp.AddFlag(cmdline.StringFlag, "render", false)   // drawing written, .png, .svg or .pdf
	cp.AddFlag(cmdline.StringFlag, "logLevel", false)
	return cp
}

func main() {
	cp := cmdlineParameters()
	cp.Parse()

	logger := britetopo.NewLogger(cp.GetVar("logLevel").(string), os.Stderr)

	topoFile := cp.GetVar("topo").(string)
	nodeTypeFile := cp.GetVar("nodeType").(string)
	layoutFile := cp.GetVar("layout").(string)
	flowFile := cp.GetVar("flows").(string)
	newFlowFile := cp.GetVar("newFlows").(string)
	outFile := cp.GetVar("out").(string)
	renderFile := cp.GetVar("render").(string)

	valid, err := britetopo.CheckReadableFiles([]string{topoFile, nodeTypeFile, layoutFile})
	if !valid {
		logger.Fatal().Err(err).Msg("input")
	}
	valid, err = britetopo.CheckOutputFiles([]string{outFile, renderFile})
	if !valid {
		logger.Fatal().Err(err).Msg("output")
	}

	opts := britetopo.DefaultFlowGraphOpts()
	if mode := cp.GetVar("mode").(string); len(mode) > 0 {
		opts.Layout = mode
	}
	if title := cp.GetVar("title").(string); len(title) > 0 {
		opts.Title = title
	}
	if unit := cp.GetVar("unit").(string); len(unit) > 0 {
		opts.TrafficUnit, err = strconv.ParseFloat(unit, 64)
		if err != nil {
			logger.Fatal().Err(err).Msg("unit")
		}
	}

	tt, err := britetopo.ReadTopoTable(topoFile, nil)
	if err != nil {
		logger.Fatal().Err(err).Msg("topology table")
	}
	nr, err := britetopo.ReadNodeRoles(nodeTypeFile, nil)
	if err != nil {
		logger.Fatal().Err(err).Msg("node types")
	}
	lt, err := britetopo.ReadLayoutTable(layoutFile, nil)
	if err != nil {
		logger.Fatal().Err(err).Msg("layout")
	}

	// absent logs read as empty
	flows := new(britetopo.FlowLog)
	newFlows := new(britetopo.FlowLog)
	if len(flowFile) > 0 {
		if flows, err = britetopo.ReadFlowLog(flowFile); err != nil {
			logger.Fatal().Err(err).Msg("flow log")
		}
	}
	if len(newFlowFile) > 0 {
		allNew, err := britetopo.ReadFlowLog(newFlowFile)
		if err != nil {
			logger.Fatal().Err(err).Msg("new flow log")
		}
		newFlows = britetopo.SieveFlowLog(flows, allNew)
	}
	logger.Info().Int("flows", len(flows.Records)).Int("newflows", len(newFlows.Records)).Msg("read flow logs")

	fg, err := britetopo.BuildFlowGraph(tt, nr, lt, flows, newFlows, opts)
	if err != nil {
		logger.Fatal().Err(err).Msg("flow graph")
	}
	if err = fg.WriteToFile(outFile); err != nil {
		logger.Fatal().Err(err).Msg("writing flow graph")
	}
	for as, n := range fg.CategoryCounts() {
		logger.Info().Int("as", as).Int("nodes", n).Msg("community")
	}

	if len(renderFile) > 0 {
		if err = britetopo.RenderFlowGraph(fg, renderFile); err != nil {
			logger.Fatal().Err(err).Msg("drawing flow graph")
		}
		logger.Info().Str("file", renderFile).Msg("drew flow graph")
	}
}
