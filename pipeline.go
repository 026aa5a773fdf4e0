package britetopo

// pipeline.go runs a whole conversion: extend the BRITE topology, write it out, read it back,
// and from the re-read topology emit the topology, node type and layout files, then check the layout.

import (
	"fmt"

	"github.com/rs/zerolog"
)

// names of the rng streams drawn on by a run, in the order they are created
const (
	extendStream = "extend"
	rolesStream  = "roles"
)

// RunTopoGen performs the conversion described by cfg.  Every stage is logged, and recorded in the
// returned trace when cfg names a trace file.  An error from any stage ends the run; a layout whose switches are not spread over
// every region is logged as a warning and noted in the trace, but is not an error.
func RunTopoGen(cfg *TopoGenCfg, logger zerolog.Logger) (*RunTrace, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration %s: %w", cfg.Name, err)
	}
	rt := CreateRunTrace(cfg.Name, len(cfg.TraceFile) > 0)
	logger = logger.With().Str("run", cfg.Name).Str("runid", rt.RunID).Logger()

	bt, err := ReadBriteTopo(cfg.BriteFile, nil)
	if err != nil {
		return rt, fmt.Errorf("reading topology: %w", err)
	}
	logger.Info().Int("nodes", bt.NodeN).Int("edges", bt.EdgeN).Str("file", cfg.BriteFile).Msg("read BRITE topology")
	rt.AddStage("read", map[string]int{"nodes": bt.NodeN, "edges": bt.EdgeN}, cfg.BriteFile)

	extRng := NewRandStream(extendStream, cfg.Seed)
	ext, err := ExtendBriteTopo(bt, cfg.OneDegN, cfg.SwRatio, extRng, cfg.ExtendOpts())
	if err != nil {
		return rt, fmt.Errorf("extending topology: %w", err)
	}
	if err = ext.WriteToFile(cfg.ExtendedFile); err != nil {
		return rt, fmt.Errorf("writing extended topology: %w", err)
	}
	logger.Info().Int("added", cfg.OneDegN).Int("nodes", ext.NodeN).Int("edges", ext.EdgeN).
		Str("file", cfg.ExtendedFile).Msg("extended topology")
	rt.AddStage("extend", map[string]int{"added": cfg.OneDegN, "nodes": ext.NodeN, "edges": ext.EdgeN}, cfg.ExtendedFile)

	// everything downstream is computed from the file just written
	ext, err = ReadBriteTopo(cfg.ExtendedFile, nil)
	if err != nil {
		return rt, fmt.Errorf("reloading extended topology: %w", err)
	}
	tg := ext.Graph()
	logger.Debug().Int("order", tg.Order()).Int("size", tg.Size()).Msg("largest connected component")
	rt.AddStage("reload", map[string]int{"order": tg.Order(), "size": tg.Size()}, cfg.ExtendedFile)

	tt := BuildTopoTable(ext)
	if err = tt.WriteToFile(cfg.TopoFile); err != nil {
		return rt, fmt.Errorf("writing topology table: %w", err)
	}
	logger.Info().Int("rows", len(tt.Rows)).Str("file", cfg.TopoFile).Msg("wrote topology table")
	rt.AddStage("topology", map[string]int{"rows": len(tt.Rows)}, cfg.TopoFile)

	rolesRng := NewRandStream(rolesStream, cfg.Seed)
	nr, err := ClassifyRoles(tg, cfg.RecvRatio, rolesRng)
	if err != nil {
		return rt, fmt.Errorf("classifying roles: %w", err)
	}
	if err = nr.WriteToFile(cfg.NodeTypeFile); err != nil {
		return rt, fmt.Errorf("writing node types: %w", err)
	}
	roleCounts := map[string]int{"receiver": len(nr.Receiver), "source": len(nr.Source),
		"switch": len(nr.Switch), "bgn": len(nr.Bgn), "router": len(nr.Router)}
	logger.Info().Fields(logFields(roleCounts)).Str("file", cfg.NodeTypeFile).Msg("wrote node types")
	rt.AddStage("roles", roleCounts, cfg.NodeTypeFile)

	lt, err := ClusterRegions(ext.Nodes, cfg.Regions)
	if err != nil {
		return rt, fmt.Errorf("clustering regions: %w", err)
	}
	if err = lt.WriteToFile(cfg.LayoutFile); err != nil {
		return rt, fmt.Errorf("writing layout: %w", err)
	}
	logger.Info().Int("rows", len(lt.Rows)).Int("regions", cfg.Regions).Str("file", cfg.LayoutFile).Msg("wrote layout")
	rt.AddStage("layout", map[string]int{"rows": len(lt.Rows), "regions": cfg.Regions}, cfg.LayoutFile)

	lr, err := CheckLayoutValid(cfg.LayoutFile, cfg.NodeTypeFile, cfg.Regions)
	if err != nil {
		return rt, fmt.Errorf("checking layout: %w", err)
	}
	rt.SetLayout(lr)
	if lr.Valid {
		logger.Info().Int("ases", len(lr.RegionCounts)).Msg("switches reach every region")
	} else {
		for _, msg := range lr.Diagnostics() {
			logger.Warn().Msg(msg)
		}
	}
	rt.AddStage("validate", map[string]int{"ases": len(lr.RegionCounts), "offending": len(lr.Offending)}, "")

	written, err := rt.WriteToFile(cfg.TraceFile)
	if err != nil {
		return rt, fmt.Errorf("writing run trace: %w", err)
	}
	if written {
		logger.Debug().Str("file", cfg.TraceFile).Msg("wrote run trace")
	}

	return rt, nil
}

// logFields converts stage counts to the form zerolog accepts as a field map
func logFields(counts map[string]int) map[string]any {
	fields := make(map[string]any, len(counts))
	for key, v := range counts {
		fields[key] = v
	}
	return fields
}
