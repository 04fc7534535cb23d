package report

import (
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/banshee-data/jump.report/internal/jump"
	"github.com/banshee-data/jump.report/internal/units"
)

// HTMLOptions controls the interactive report.
type HTMLOptions struct {
	Title string
	// HeightUnits is one of units.HeightCM or units.HeightIn.
	HeightUnits string
	// AssetsHost overrides the echarts JS location, e.g. for offline use.
	AssetsHost string
}

// WriteHTML renders a summary bar chart of jump heights followed by one
// line chart per track.
func WriteHTML(w io.Writer, analyses map[int]jump.Analysis, o HTMLOptions) error {
	if o.Title == "" {
		o.Title = "Jump report"
	}
	if o.HeightUnits == "" {
		o.HeightUnits = units.HeightCM
	}

	page := components.NewPage()
	page.PageTitle = o.Title
	if o.AssetsHost != "" {
		page.SetAssetsHost(o.AssetsHost)
	}

	ids := sortedIDs(analyses)
	page.AddCharts(summaryChart(ids, analyses, o))
	for _, id := range ids {
		if len(analyses[id].Trajectories) == 0 {
			continue
		}
		page.AddCharts(trackChart(analyses[id], o))
	}

	if err := page.Render(w); err != nil {
		return fmt.Errorf("render html: %w", err)
	}
	return nil
}

// WriteHTMLFile is WriteHTML to a newly created file.
func WriteHTMLFile(path string, analyses map[int]jump.Analysis, o HTMLOptions) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteHTML(f, analyses, o); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func summaryChart(ids []int, analyses map[int]jump.Analysis, o HTMLOptions) *charts.Bar {
	x := make([]string, 0, len(ids))
	y := make([]opts.BarData, 0, len(ids))
	jumps := 0
	for _, id := range ids {
		r := analyses[id].Record
		x = append(x, "track "+strconv.Itoa(id))
		h := units.ConvertHeight(r.JumpHeightCM, o.HeightUnits)
		y = append(y, opts.BarData{Value: round2(h), Name: string(r.Status)})
		if r.Jumping {
			jumps++
		}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "100%", Height: "360px"}),
		charts.WithTitleOpts(opts.Title{
			Title:    o.Title,
			Subtitle: fmt.Sprintf("tracks=%d jumps=%d", len(ids), jumps),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithYAxisOpts(opts.YAxis{Name: "height (" + units.HeightLabel(o.HeightUnits) + ")"}),
	)
	bar.SetXAxis(x).
		AddSeries("jump height", y,
			charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Position: "top"}),
		)
	return bar
}

func trackChart(an jump.Analysis, o HTMLOptions) *charts.Line {
	r := an.Record
	frames := an.Trajectories[0].Frames

	x := make([]string, len(frames))
	for i, f := range frames {
		x[i] = strconv.Itoa(f)
	}

	subtitle := string(r.Status)
	if r.Jumping {
		subtitle = fmt.Sprintf("launch %d, landing %d, air %.3f s, height %.1f %s, v0 %.2f m/s",
			*r.LaunchFrame, *r.LandingFrame, r.AirTimeSeconds,
			units.ConvertHeight(r.JumpHeightCM, o.HeightUnits), units.HeightLabel(o.HeightUnits),
			r.LaunchVelocityMPS)
	} else if r.Reason != "" {
		subtitle += ": " + r.Reason
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "100%", Height: "420px"}),
		charts.WithTitleOpts(opts.Title{Title: fmt.Sprintf("Track %d", r.TrackID), Subtitle: subtitle}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Right: "10%"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "frame", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Name: "y (px)"}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "inside"}),
	)
	line.SetXAxis(x)

	for _, traj := range an.Trajectories {
		data := make([]opts.LineData, len(traj.Y))
		for i, v := range traj.Y {
			data[i] = opts.LineData{Value: round2(v)}
		}
		line.AddSeries(fmt.Sprintf("landmark %d", traj.Landmark), data,
			charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(false)}),
		)
	}

	if an.Interval != nil && len(an.Interval.Fits) > 0 {
		q := an.Interval.Fits[0]
		data := make([]opts.LineData, len(frames))
		for i, f := range frames {
			if f < an.Interval.Launch || f > an.Interval.Landing {
				data[i] = opts.LineData{Value: "-"}
				continue
			}
			data[i] = opts.LineData{Value: round2(q.At(float64(f)))}
		}
		line.AddSeries("fit", data,
			charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(false)}),
			charts.WithLineStyleOpts(opts.LineStyle{Type: "dashed"}),
		)
	}

	if r.Jumping {
		airborne := make([]opts.LineData, len(frames))
		for i, f := range frames {
			if r.Airborne(f) {
				airborne[i] = opts.LineData{Value: round2(an.Trajectories[0].Y[i])}
			} else {
				airborne[i] = opts.LineData{Value: "-"}
			}
		}
		line.AddSeries("airborne", airborne,
			charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(true)}),
		)
	}
	return line
}

func sortedIDs(analyses map[int]jump.Analysis) []int {
	ids := make([]int, 0, len(analyses))
	for id := range analyses {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
