package britetopo

import (
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// glyph drawn for each role code, in the order of RoleSymbols
var roleGlyphs = []draw.GlyphDrawer{
	draw.CircleGlyph{},
	draw.RingGlyph{},
	draw.SquareGlyph{},
	draw.TriangleGlyph{},
	draw.PyramidGlyph{},
}

// link colors by flag: no flow, flow log, newer flows
var linkColors = []color.Color{
	color.RGBA{R: 0xbb, G: 0xbb, B: 0xbb, A: 0xff},
	color.RGBA{R: 0x49, G: 0x50, B: 0x57, A: 0xcc},
	color.RGBA{G: 0x80, A: 0xff},
}

// RenderFlowGraph draws the flow graph and saves it to the file whose name is given,
// in the format its extension selects (png, svg, pdf, ...).  Links are drawn with the width
// the graph gives them, nodes with the glyph of their role, colored by AS.
func RenderFlowGraph(fg *FlowGraph, filename string) error {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s (link unit %g)", fg.Title, fg.TrafficUnit)
	p.HideAxes()

	pos := make(map[int]plotter.XY)
	for _, fn := range fg.Nodes {
		pos[fn.ID] = plotter.XY{X: fn.X, Y: fn.Y}
	}

	// links first, so that nodes are drawn over them
	for _, lk := range fg.Links {
		src, srcOK := pos[lk.Src]
		dst, dstOK := pos[lk.Dst]
		if !srcOK || !dstOK {
			continue
		}
		line, err := plotter.NewLine(plotter.XYs{src, dst})
		if err != nil {
			return err
		}
		line.LineStyle.Width = vg.Points(lk.Width)
		line.LineStyle.Color = linkColors[lk.Flag]
		p.Add(line)
	}

	// one scatter per AS, so that the legend names the ASes
	byCat := make(map[int][]FlowNode)
	for _, fn := range fg.Nodes {
		byCat[fn.Category] = append(byCat[fn.Category], fn)
	}
	for cat := 0; cat <= maxCategory(fg); cat++ {
		members := byCat[cat]
		if len(members) == 0 {
			continue
		}

		xys := make(plotter.XYs, len(members))
		for idx, fn := range members {
			xys[idx] = pos[fn.ID]
		}
		sc, err := plotter.NewScatter(xys)
		if err != nil {
			return err
		}

		clr := plotutil.Color(cat)
		sc.GlyphStyle.Color = clr
		sc.GlyphStyleFunc = func(idx int) draw.GlyphStyle {
			fn := members[idx]
			return draw.GlyphStyle{Color: clr, Radius: vg.Points(fn.SymbolSize / 4), Shape: roleGlyphs[fn.Role]}
		}
		p.Add(sc)
		p.Legend.Add(fmt.Sprintf("AS:%d", cat+1), sc)
	}

	return p.Save(16*vg.Inch, 9.5*vg.Inch, filename)
}

func maxCategory(fg *FlowGraph) int {
	top := -1
	for _, fn := range fg.Nodes {
		top = max(top, fn.Category)
	}
	return top
}
