package rewarddb

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "rewards.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRecordAndReadEpisode(t *testing.T) {
	s := openTestStore(t)

	ep := EpisodeSummary{
		ID:         uuid.NewString(),
		StartedAt:  time.Now().UTC(),
		Ticks:      900,
		Agents:     4,
		GoalScored: true,
	}
	agents := []AgentTotals{
		{AgentID: 1, Team: 0, Total: 412.5, Peak: 350, Ticks: 900},
		{AgentID: 2, Team: 0, Total: 98.25, Peak: 40, Ticks: 900},
		{AgentID: 3, Team: 1, Total: -120, Peak: 12, Ticks: 900},
		{AgentID: 4, Team: 1, Total: -80.5, Peak: 8, Ticks: 900},
	}
	require.NoError(t, s.RecordEpisode(ep, agents))

	got, err := s.AgentRewards(ep.ID)
	require.NoError(t, err)
	require.Equal(t, agents, got)

	eps, err := s.Episodes(10)
	require.NoError(t, err)
	require.Len(t, eps, 1)
	require.Equal(t, ep.ID, eps[0].ID)
	require.True(t, eps[0].GoalScored)
	require.Equal(t, 900, eps[0].Ticks)
}

func TestDuplicateEpisodeRejected(t *testing.T) {
	s := openTestStore(t)

	ep := EpisodeSummary{ID: uuid.NewString(), StartedAt: time.Now().UTC(), Ticks: 1, Agents: 1}
	require.NoError(t, s.RecordEpisode(ep, []AgentTotals{{AgentID: 1}}))
	require.Error(t, s.RecordEpisode(ep, []AgentTotals{{AgentID: 1}}))

	// The failed transaction must not leave partial rows behind.
	got, err := s.AgentRewards(ep.ID)
	require.NoError(t, err)
	require.Len(t, got, 1)
}

func TestAgentRewardsUnknownEpisode(t *testing.T) {
	s := openTestStore(t)
	got, err := s.AgentRewards(uuid.NewString())
	require.NoError(t, err)
	require.Empty(t, got)
}
