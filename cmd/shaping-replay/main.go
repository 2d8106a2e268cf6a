// Package main replays recorded episode fixtures through the reward engine
// and reports per-agent totals. Optionally records summaries to sqlite and
// renders an HTML chart.
package main

import (
	"flag"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/overdrive-rl/shaping/internal/config"
	"github.com/overdrive-rl/shaping/internal/replay"
	"github.com/overdrive-rl/shaping/internal/report"
	"github.com/overdrive-rl/shaping/internal/reward"
	"github.com/overdrive-rl/shaping/internal/rewarddb"
	"github.com/overdrive-rl/shaping/internal/version"
)

func main() {
	var (
		fixturePath = flag.String("fixture", "", "JSONL episode fixture to replay (required)")
		configPath  = flag.String("config", "", "optional JSON tuning overrides")
		dbPath      = flag.String("db", "", "optional sqlite file to record episode summaries")
		chartPath   = flag.String("chart", "", "optional HTML file for the reward chart")
		showVersion = flag.Bool("version", false, "print version and exit")
	)
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		return
	}
	if *fixturePath == "" {
		flag.Usage()
		log.Fatal("missing required -fixture")
	}
	if err := run(*fixturePath, *configPath, *dbPath, *chartPath); err != nil {
		log.Fatal(err)
	}
}

func run(fixturePath, configPath, dbPath, chartPath string) error {
	entries := reward.DefaultEntries()
	if configPath != "" {
		cfg, err := config.LoadTuningConfig(configPath)
		if err != nil {
			return err
		}
		if entries, err = cfg.Apply(entries); err != nil {
			return err
		}
	}

	episodes, err := replay.DecodeFile(fixturePath)
	if err != nil {
		return err
	}
	if len(episodes) == 0 {
		return fmt.Errorf("fixture %s contains no episodes", fixturePath)
	}

	var store *rewarddb.Store
	if dbPath != "" {
		if store, err = rewarddb.Open(dbPath); err != nil {
			return err
		}
		defer store.Close()
	}

	eng := reward.NewEngine(entries)
	var results []report.EpisodeResult
	var allTotals []float64

	for _, ep := range episodes {
		res, totals, err := replayEpisode(eng, ep, store)
		if err != nil {
			return err
		}
		results = append(results, res)
		allTotals = append(allTotals, totals...)
	}

	log.Printf("replayed %d episodes: %s", len(results), report.Summarize(allTotals))

	if chartPath != "" {
		if err := report.WriteChart(chartPath, results); err != nil {
			return err
		}
		log.Printf("wrote chart to %s", chartPath)
	}
	return nil
}

// replayEpisode runs one episode through a freshly reset engine and returns
// its chart row plus the flat per-agent totals.
func replayEpisode(eng *reward.Engine, ep replay.Episode, store *rewarddb.Store) (report.EpisodeResult, []float64, error) {
	first := ep.Ticks[0]
	eng.Reset(first.Agents)

	totals := make(map[int]float64, len(first.Agents))
	peaks := make(map[int]float64, len(first.Agents))
	goalScored := false

	for i, snap := range ep.Ticks {
		isFinal := i == len(ep.Ticks)-1
		rewards := eng.Step(snap, isFinal)
		for j := range snap.Agents {
			id := snap.Agents[j].ID
			totals[id] += rewards[j]
			if rewards[j] > peaks[id] {
				peaks[id] = rewards[j]
			}
		}
		if snap.GoalScored {
			goalScored = true
		}
	}

	ids := make([]int, 0, len(totals))
	for id := range totals {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	var flat []float64
	for _, id := range ids {
		flat = append(flat, totals[id])
		log.Printf("episode %d agent %d: total=%.3f peak=%.3f", ep.Index, id, totals[id], peaks[id])
	}

	if store != nil {
		sum := rewarddb.EpisodeSummary{
			ID:         uuid.NewString(),
			StartedAt:  time.Now().UTC(),
			Ticks:      len(ep.Ticks),
			Agents:     len(first.Agents),
			GoalScored: goalScored,
		}
		var rows []rewarddb.AgentTotals
		for _, a := range first.Agents {
			rows = append(rows, rewarddb.AgentTotals{
				AgentID: a.ID,
				Team:    int(a.Team),
				Total:   totals[a.ID],
				Peak:    peaks[a.ID],
				Ticks:   len(ep.Ticks),
			})
		}
		if err := store.RecordEpisode(sum, rows); err != nil {
			return report.EpisodeResult{}, nil, err
		}
	}

	return report.EpisodeResult{
		Label:  fmt.Sprintf("ep %d", ep.Index),
		Totals: totals,
	}, flat, nil
}
