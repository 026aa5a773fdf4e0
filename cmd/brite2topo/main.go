package main

// brite2topo converts a BRITE topology into the topology, layout and node type files
// read by the simulator, after extending it with degree-1 access nodes

import (
	"os"

	"github.com/iti/britetopo"
	"github.com/iti/cmdline"
)

// flag name -> configuration key
var flagKeys = map[string]string{
	"name":      "name",
	"brite":     "britefile",
	"extended":  "extendedfile",
	"topo":      "topofile",
	"layout":    "layoutfile",
	"nodeType":  "nodetypefile",
	"trace":     "tracefile",
	"oneDeg":    "onedegn",
	"swRatio":   "swratio",
	"recvRatio": "recvratio",
	"regions":   "regions",
	"seed":      "seed",
}

// cmdlineParameters configures for recognition of command line variables
func cmdlineParameters() *cmdline.CmdParser {
	// create an argument parser
	cp := cmdline.NewCmdParser()
	cp.AddFlag(cmdline.StringFlag, "cfg", false)      // yaml or json file holding a TopoGenCfg
	cp.AddFlag(cmdline.StringFlag, "name", false)     // name of the run
	cp.AddFlag(cmdline.StringFlag, "brite", false)    // input BRITE topology
	cp.AddFlag(cmdline.StringFlag, "extended", false) // extended BRITE topology written
	cp.AddFlag(cmdline.StringFlag, "topo", false)     // topology table written
	cp.AddFlag(cmdline.StringFlag, "layout", false)   // layout file written
	cp.AddFlag(cmdline.StringFlag, "nodeType", false) // node type file written
	cp.AddFlag(cmdline.StringFlag, "trace", false)    // run trace written, if given

	cp.AddFlag(cmdline.StringFlag, "oneDeg", false)    // number of degree-1 nodes added
	cp.AddFlag(cmdline.StringFlag, "swRatio", false)   // fraction of candidates used as access switches
	cp.AddFlag(cmdline.StringFlag, "recvRatio", false) // fraction of degree-1 nodes made receivers
	cp.AddFlag(cmdline.StringFlag, "regions", false)   // regions per AS
	cp.AddFlag(cmdline.StringFlag, "seed", false)      // offset into the random streams

	cp.AddFlag(cmdline.StringFlag, "logLevel", false) // debug, info, warn, error
	return cp
}

func main() {
	// configure command line variable recognition
	cp := cmdlineParameters()

	// parse the command line
	cp.Parse()

	logger := britetopo.NewLogger(cp.GetVar("logLevel").(string), os.Stderr)

	// defaults, then the configuration file, then the environment, then the command line
	v, err := britetopo.NewTopoGenViper(cp.GetVar("cfg").(string))
	if err != nil {
		logger.Fatal().Err(err).Msg("configuration")
	}
	for flag, key := range flagKeys {
		if value := cp.GetVar(flag).(string); len(value) > 0 {
			v.Set(key, value)
		}
	}
	cfg, err := britetopo.TopoGenCfgFromViper(v)
	if err != nil {
		logger.Fatal().Err(err).Msg("configuration")
	}

	if err = cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("configuration")
	}

	// the input has to exist, the directories of the outputs have to
	valid, err := britetopo.CheckReadableFiles([]string{cfg.BriteFile})
	if !valid {
		logger.Fatal().Err(err).Msg("input")
	}
	valid, err = britetopo.CheckOutputFiles([]string{cfg.ExtendedFile, cfg.TopoFile, cfg.LayoutFile,
		cfg.NodeTypeFile, cfg.TraceFile})
	if !valid {
		logger.Fatal().Err(err).Msg("output")
	}

	rt, err := britetopo.RunTopoGen(cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("conversion failed")
	}
	logger.Info().Str("runid", rt.RunID).Bool("traced", rt.Active()).Msg("done")
}
