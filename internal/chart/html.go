package chart

import (
	"fmt"
	"io"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/banshee-data/pulse.report/internal/pulse"
)

// WriteHTML renders an interactive line chart of one recording. Onsets and
// piggybacks are drawn as mark points on the smoothed series, labelled with
// their area or removal.
func WriteHTML(w io.Writer, name string, raw []int, res pulse.Result) error {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Pulses: " + name, Width: "1200px", Height: "600px"}),
		charts.WithTitleOpts(opts.Title{
			Title:    name,
			Subtitle: fmt.Sprintf("samples=%d pulses=%d piggybacks=%d", len(raw), len(res.Areas), len(res.Piggybacks)),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "slider", Start: 0, End: 100}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Sample", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Value", NameLocation: "middle", NameGap: 40}),
	)

	xs := make([]string, len(raw))
	for i := range raw {
		xs[i] = strconv.Itoa(i)
	}
	line.SetXAxis(xs)

	var points []opts.MarkPointNameCoordItem
	for _, a := range res.Areas {
		points = append(points, markPoint(res.Smoothed, a.Onset, fmt.Sprintf("area %d", a.Area), "pin"))
	}
	for _, onset := range res.Piggybacks {
		points = append(points, markPoint(res.Smoothed, onset, "piggyback", "arrow"))
	}

	line.AddSeries("raw", lineData(raw),
		charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(false)}),
		charts.WithItemStyleOpts(opts.ItemStyle{Color: "#b0b0b0"}),
	)
	line.AddSeries("smoothed", lineData(res.Smoothed),
		charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(false)}),
		charts.WithItemStyleOpts(opts.ItemStyle{Color: "#1f77b4"}),
		charts.WithMarkPointNameCoordItemOpts(points...),
	)

	if err := line.Render(w); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	return nil
}

func lineData(samples []int) []opts.LineData {
	data := make([]opts.LineData, len(samples))
	for i, v := range samples {
		data[i] = opts.LineData{Value: v}
	}
	return data
}

func markPoint(trace []int, index int, label, symbol string) opts.MarkPointNameCoordItem {
	y := 0
	if index >= 0 && index < len(trace) {
		y = trace[index]
	}
	return opts.MarkPointNameCoordItem{
		Name:       label,
		Coordinate: []interface{}{strconv.Itoa(index), y},
		Value:      label,
		Symbol:     symbol,
		SymbolSize: 40,
	}
}
