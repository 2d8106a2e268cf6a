// Package report renders offline reward summaries: an HTML line chart of
// per-episode totals per agent, and scalar distribution summaries.
package report

import (
	"fmt"
	"os"
	"sort"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"gonum.org/v1/gonum/stat"
)

// EpisodeResult is one episode's total reward per agent id.
type EpisodeResult struct {
	Label  string
	Totals map[int]float64
}

// Summary describes a reward distribution.
type Summary struct {
	Mean   float64
	Median float64
	P95    float64
}

// Summarize computes distribution statistics over totals. Zero-length input
// yields the zero Summary.
func Summarize(totals []float64) Summary {
	if len(totals) == 0 {
		return Summary{}
	}
	sorted := append([]float64(nil), totals...)
	sort.Float64s(sorted)
	return Summary{
		Mean:   stat.Mean(sorted, nil),
		Median: stat.Quantile(0.5, stat.Empirical, sorted, nil),
		P95:    stat.Quantile(0.95, stat.Empirical, sorted, nil),
	}
}

func (s Summary) String() string {
	return fmt.Sprintf("mean=%.2f median=%.2f p95=%.2f", s.Mean, s.Median, s.P95)
}

// agentIDs returns the sorted union of agent ids across episodes.
func agentIDs(episodes []EpisodeResult) []int {
	seen := map[int]bool{}
	for _, ep := range episodes {
		for id := range ep.Totals {
			seen[id] = true
		}
	}
	ids := make([]int, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// WriteChart renders a line chart of per-episode totals, one series per
// agent, to an HTML file.
func WriteChart(path string, episodes []EpisodeResult) error {
	if len(episodes) == 0 {
		return fmt.Errorf("no episodes to chart")
	}

	labels := make([]string, len(episodes))
	for i, ep := range episodes {
		labels[i] = ep.Label
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: "Reward totals",
			Width:     "1200px",
			Height:    "600px",
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Per-episode reward totals",
			Subtitle: fmt.Sprintf("episodes=%d", len(episodes)),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "episode"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "total reward"}),
	)
	line.SetXAxis(labels)

	for _, id := range agentIDs(episodes) {
		data := make([]opts.LineData, len(episodes))
		for i, ep := range episodes {
			data[i] = opts.LineData{Value: ep.Totals[id]}
		}
		line.AddSeries(fmt.Sprintf("agent %d", id), data)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create chart file: %w", err)
	}
	defer f.Close()
	if err := line.Render(f); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	return nil
}
