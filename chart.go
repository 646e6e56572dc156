package tempusmark

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

/*
ChartDumper returns a Dumper that renders the gaps between consecutive
records as an HTML line chart.

value converts a time point to a number on a linear scale (see NanoValue
and CycleValue). Point i of the series is value(r[i]) - value(r[i-1]),
labelled with the index and comment of record i. Fewer than two records
produce an empty chart.

Like every Dumper it clamps the count to the cache length and never fails;
sink errors surface through Measurer.Dump. A go-echarts rendering error is
written to the sink as an HTML comment marker.
*/

func ChartDumper[T any, M comparable](title string, value func(T) float64) Dumper[T, M] {
	return func(w io.Writer, cache []Record[T, M], n uint64) {
		count, overflow := clampCount(n, len(cache))

		labels := make([]string, 0, count)
		deltas := make([]opts.LineData, 0, count)
		for i := 1; i < count; i++ {
			labels = append(labels, fmt.Sprintf("%d %s", i, cache[i].Comment))
			deltas = append(deltas, opts.LineData{
				Value: value(cache[i].Timestamp) - value(cache[i-1].Timestamp),
			})
		}

		line := charts.NewLine()
		line.SetGlobalOptions(
			charts.WithTitleOpts(opts.Title{
				Title:    title,
				Subtitle: fmt.Sprintf("sample: %d, overflow: %d", count, overflow),
			}),
			charts.WithInitializationOpts(opts.Initialization{PageTitle: title, Width: "1200px", Height: "600px"}),
			charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
			charts.WithDataZoomOpts(opts.DataZoom{Type: "inside"}, opts.DataZoom{Type: "slider"}),
		)
		line.SetXAxis(labels).AddSeries("delta", deltas)

		renderChart(w, line)
	}
}

type chartRenderer interface {
	Render(w io.Writer) error
}

// renderChart leaves a visible marker when go-echarts itself fails, since
// a partial page would otherwise look like a complete one.
func renderChart(w io.Writer, r chartRenderer) {
	if err := r.Render(w); err != nil {
		fmt.Fprintf(w, "\n<!-- tempusmark: chart render failed: %v -->\n", err)
	}
}

// NanoValue maps a wall-clock reading to nanoseconds.
func NanoValue(n NanoSec) float64 {
	return float64(n.Nanoseconds())
}

// CycleValue maps a cycle reading to cycles.
func CycleValue(c ClockCycle) float64 {
	return float64(c)
}
