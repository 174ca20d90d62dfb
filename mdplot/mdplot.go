/*
 * mdplot.go, part of gapmd.
 *
 * Copyright 2026 The gapmd developers
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

// Package mdplot produces the diagnostic figures of a fitting run as
// PNG files: parity plots of reference against predicted energies, MD
// traces of temperature or energy over time, and bar charts of
// descriptor histograms.
package mdplot

import (
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/kcl-tscm/gapmd/histo"
)

func basicPlot(title, xlabel, ylabel string) *plot.Plot {
	p := plot.New()
	p.Title.Padding = 3 * vg.Millimeter
	p.Title.Text = title
	p.X.Label.Text = xlabel
	p.Y.Label.Text = ylabel
	p.Add(plotter.NewGrid())
	return p
}

func save(p *plot.Plot, plotname string) error {
	filename := fmt.Sprintf("%s.png", plotname)
	if err := p.Save(12*vg.Centimeter, 12*vg.Centimeter, filename); err != nil {
		return fmt.Errorf("gapmd/mdplot: can't save %s: %v", filename, err)
	}
	return nil
}

// Parity draws predicted against reference per-atom energies, with the
// y=x guide line a perfect model would sit on. Both series are in eV
// per atom and must have the same length. The plot goes to
// plotname.png.
func Parity(ref, pred []float64, title, plotname string) error {
	if len(ref) == 0 || len(ref) != len(pred) {
		return fmt.Errorf("gapmd/mdplot.Parity: need two equal-length, non-empty series, got %d and %d", len(ref), len(pred))
	}
	p := basicPlot(title, "Reference energy (eV/atom)", "Predicted energy (eV/atom)")
	pts := make(plotter.XYs, len(ref))
	min, max := ref[0], ref[0]
	for i := range ref {
		pts[i].X = ref[i]
		pts[i].Y = pred[i]
		for _, v := range []float64{ref[i], pred[i]} {
			if v < min {
				min = v
			}
			if v > max {
				max = v
			}
		}
	}
	guide := plotter.XYs{{X: min, Y: min}, {X: max, Y: max}}
	line, err := plotter.NewLine(guide)
	if err != nil {
		return fmt.Errorf("gapmd/mdplot.Parity: %v", err)
	}
	line.LineStyle.Color = color.RGBA{R: 180, G: 180, B: 180, A: 255}
	line.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(3)}
	p.Add(line)
	s, err := plotter.NewScatter(pts)
	if err != nil {
		return fmt.Errorf("gapmd/mdplot.Parity: %v", err)
	}
	s.GlyphStyle.Color = color.RGBA{R: 20, G: 60, B: 180, A: 255}
	p.Add(s)
	return save(p, plotname)
}

// A Series is one labeled curve of an MD trace.
type Series struct {
	Label  string
	Values []float64 //one value per collected snapshot
}

// Traces draws one or more per-snapshot series against the MD step
// number, interval steps apart. The plot goes to plotname.png.
func Traces(series []Series, interval int, ylabel, title, plotname string) error {
	if len(series) == 0 {
		return fmt.Errorf("gapmd/mdplot.Traces: no series given")
	}
	if interval < 1 {
		interval = 1
	}
	p := basicPlot(title, "Step", ylabel)
	args := make([]interface{}, 0, 2*len(series))
	for _, s := range series {
		if len(s.Values) == 0 {
			return fmt.Errorf("gapmd/mdplot.Traces: series %q is empty", s.Label)
		}
		pts := make(plotter.XYs, len(s.Values))
		for i, v := range s.Values {
			pts[i].X = float64((i + 1) * interval)
			pts[i].Y = v
		}
		args = append(args, s.Label, pts)
	}
	if err := plotutil.AddLines(p, args...); err != nil {
		return fmt.Errorf("gapmd/mdplot.Traces: %v", err)
	}
	p.Legend.Top = true
	return save(p, plotname)
}

// Histogram draws one descriptor-value histogram as a bar chart, one
// bar per bin. The plot goes to plotname.png.
func Histogram(D *histo.Data, xlabel, title, plotname string) error {
	if D == nil {
		return fmt.Errorf("gapmd/mdplot.Histogram: nil histogram")
	}
	p := basicPlot(title, xlabel, "Weighted count")
	bars, err := plotter.NewBarChart(plotter.Values(D.Copy()), vg.Points(14))
	if err != nil {
		return fmt.Errorf("gapmd/mdplot.Histogram: %v", err)
	}
	bars.Color = color.RGBA{R: 20, G: 120, B: 80, A: 255}
	bars.LineStyle.Width = 0
	p.Add(bars)
	divs := D.CopyDividers()
	labels := make([]string, D.Bins())
	for i := range labels {
		labels[i] = fmt.Sprintf("%.2f", 0.5*(divs[i]+divs[i+1]))
	}
	p.NominalX(labels...)
	return save(p, plotname)
}
