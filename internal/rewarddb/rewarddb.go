// Package rewarddb stores per-episode reward summaries in sqlite. Writes
// happen after an episode finishes; the scoring path itself never touches
// the database.
package rewarddb

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

type Store struct {
	*sql.DB
}

// Open opens (creating if needed) a reward database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS episodes (
			id TEXT PRIMARY KEY,
			started_at TIMESTAMP NOT NULL,
			ticks INTEGER NOT NULL,
			agents INTEGER NOT NULL,
			goal_scored BOOLEAN NOT NULL
		);
		CREATE TABLE IF NOT EXISTS agent_rewards (
			episode_id TEXT NOT NULL,
			agent_id INTEGER NOT NULL,
			team INTEGER NOT NULL,
			total DOUBLE NOT NULL,
			peak DOUBLE NOT NULL,
			ticks INTEGER NOT NULL,
			PRIMARY KEY (episode_id, agent_id),
			FOREIGN KEY (episode_id) REFERENCES episodes(id)
		);
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize reward schema: %w", err)
	}

	return &Store{db}, nil
}

// EpisodeSummary is one stored episode.
type EpisodeSummary struct {
	ID         string
	StartedAt  time.Time
	Ticks      int
	Agents     int
	GoalScored bool
}

// AgentTotals is one agent's aggregate over an episode.
type AgentTotals struct {
	AgentID int
	Team    int
	Total   float64
	Peak    float64 // largest single-tick reward
	Ticks   int
}

// RecordEpisode writes an episode and its per-agent totals in one
// transaction.
func (s *Store) RecordEpisode(ep EpisodeSummary, agents []AgentTotals) error {
	tx, err := s.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		"INSERT INTO episodes (id, started_at, ticks, agents, goal_scored) VALUES (?, ?, ?, ?, ?)",
		ep.ID, ep.StartedAt, ep.Ticks, ep.Agents, ep.GoalScored,
	)
	if err != nil {
		return fmt.Errorf("failed to insert episode %s: %w", ep.ID, err)
	}
	for _, a := range agents {
		_, err = tx.Exec(
			"INSERT INTO agent_rewards (episode_id, agent_id, team, total, peak, ticks) VALUES (?, ?, ?, ?, ?, ?)",
			ep.ID, a.AgentID, a.Team, a.Total, a.Peak, a.Ticks,
		)
		if err != nil {
			return fmt.Errorf("failed to insert agent %d rewards: %w", a.AgentID, err)
		}
	}
	return tx.Commit()
}

// AgentRewards returns the stored totals for one episode, ordered by agent
// id.
func (s *Store) AgentRewards(episodeID string) ([]AgentTotals, error) {
	rows, err := s.Query(
		"SELECT agent_id, team, total, peak, ticks FROM agent_rewards WHERE episode_id = ? ORDER BY agent_id",
		episodeID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []AgentTotals
	for rows.Next() {
		var a AgentTotals
		if err := rows.Scan(&a.AgentID, &a.Team, &a.Total, &a.Peak, &a.Ticks); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// Episodes returns stored episode summaries, newest first.
func (s *Store) Episodes(limit int) ([]EpisodeSummary, error) {
	rows, err := s.Query(
		"SELECT id, started_at, ticks, agents, goal_scored FROM episodes ORDER BY started_at DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []EpisodeSummary
	for rows.Next() {
		var ep EpisodeSummary
		if err := rows.Scan(&ep.ID, &ep.StartedAt, &ep.Ticks, &ep.Agents, &ep.GoalScored); err != nil {
			return nil, err
		}
		out = append(out, ep)
	}
	return out, rows.Err()
}
