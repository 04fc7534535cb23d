// Package report renders diagnostic views of jump analyses: one PNG per
// track with the landmark trace, the fitted parabola and the reported
// boundaries, and a single HTML page of interactive charts.
package report

import (
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/banshee-data/jump.report/internal/jump"
	"github.com/banshee-data/jump.report/internal/monitoring"
)

var (
	fitColor      = color.RGBA{R: 220, G: 50, B: 47, A: 255}
	boundaryColor = color.RGBA{R: 38, G: 139, B: 210, A: 255}
)

// PlotTrajectory writes a PNG of one track's analysis to path.
func PlotTrajectory(path string, an jump.Analysis) error {
	if len(an.Trajectories) == 0 {
		return fmt.Errorf("track %d: no trajectory to plot", an.Record.TrackID)
	}

	p := plot.New()
	p.Title.Text = plotTitle(an.Record)
	p.X.Label.Text = "Frame"
	p.Y.Label.Text = "y (px, image down)"

	ymin, ymax := math.Inf(1), math.Inf(-1)
	for i, traj := range an.Trajectories {
		pts := make(plotter.XYs, traj.Len())
		for k := range traj.Frames {
			pts[k] = plotter.XY{X: float64(traj.Frames[k]), Y: traj.Y[k]}
			ymin = math.Min(ymin, traj.Y[k])
			ymax = math.Max(ymax, traj.Y[k])
		}

		line, err := plotter.NewLine(pts)
		if err != nil {
			return err
		}
		line.Color = plotutil.Color(i)
		line.Width = vg.Points(1)

		scatter, err := plotter.NewScatter(pts)
		if err != nil {
			return err
		}
		scatter.Color = plotutil.Color(i)
		scatter.Radius = vg.Points(1.5)

		p.Add(line, scatter)
		p.Legend.Add(fmt.Sprintf("landmark %d", traj.Landmark), line)
	}

	if an.Interval != nil {
		for i, q := range an.Interval.Fits {
			fn := plotter.NewFunction(q.At)
			fn.XMin = float64(an.Interval.Launch)
			fn.XMax = float64(an.Interval.Landing)
			fn.Samples = 100
			fn.Color = fitColor
			fn.Width = vg.Points(1.5)
			p.Add(fn)
			if i == 0 {
				p.Legend.Add("fit", fn)
			}
		}
	}

	if an.Record.Jumping {
		for _, f := range []int{*an.Record.LaunchFrame, *an.Record.LandingFrame} {
			marker, err := plotter.NewLine(plotter.XYs{
				{X: float64(f), Y: ymin},
				{X: float64(f), Y: ymax},
			})
			if err != nil {
				return err
			}
			marker.Color = boundaryColor
			marker.Width = vg.Points(1)
			marker.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
			p.Add(marker)
		}
	}

	if err := p.Save(10*vg.Inch, 4*vg.Inch, path); err != nil {
		return fmt.Errorf("save plot %s: %w", path, err)
	}
	return nil
}

// PlotAll writes one PNG per analysis into dir and returns the paths written.
// Analyses without trajectories are skipped.
func PlotAll(dir string, analyses map[int]jump.Analysis) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create plot dir: %w", err)
	}

	var paths []string
	for _, id := range sortedIDs(analyses) {
		an := analyses[id]
		if len(an.Trajectories) == 0 {
			monitoring.Debugf("track %d: nothing to plot", id)
			continue
		}
		path := filepath.Join(dir, fmt.Sprintf("track_%03d.png", id))
		if err := PlotTrajectory(path, an); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func plotTitle(r jump.Record) string {
	if r.Jumping {
		return fmt.Sprintf("Track %d - jump %.1f cm (frames %d-%d)", r.TrackID, r.JumpHeightCM, *r.LaunchFrame, *r.LandingFrame)
	}
	return fmt.Sprintf("Track %d - %s", r.TrackID, r.Status)
}
