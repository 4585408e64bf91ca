package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guildgamesh/guildgamesh-backend/types"
)

func TestLeaderboardRankingsEmptyGuildSetSkipsQuery(t *testing.T) {
	mock := newMockPool(t)
	s := NewLeaderboardStore(mock)

	// No expectations registered: an unscoped query would fail the mock.
	rankings, err := s.Rankings(context.Background(), nil, time.Time{}, 100, 0)
	require.NoError(t, err)
	assert.NotNil(t, rankings)
	assert.Empty(t, rankings)

	entries, err := s.UserContributions(context.Background(), "u2", []string{}, time.Time{}, 50, 0)
	require.NoError(t, err)
	assert.NotNil(t, entries)
	assert.Empty(t, entries)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLeaderboardRankings(t *testing.T) {
	mock := newMockPool(t)
	s := NewLeaderboardStore(mock)

	rows := mock.NewRows([]string{"user_id", "total_points", "total_actions"}).
		AddRow("u2", 155.0, 3).
		AddRow("u5", 55.0, 1)

	mock.ExpectQuery(`SELECT user_id, SUM\(final_points\)`).
		WithArgs([]string{"g1", "g2"}, time.Time{}, 100, 0).
		WillReturnRows(rows)

	rankings, err := s.Rankings(context.Background(), []string{"g1", "g2"}, time.Time{}, 100, 0)
	require.NoError(t, err)
	require.Len(t, rankings, 2)
	assert.Equal(t, "u2", rankings[0].UserID)
	assert.InDelta(t, 155.0, rankings[0].TotalPoints, 0.001)
	assert.Equal(t, 3, rankings[0].TotalActions)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLeaderboardAddEntry(t *testing.T) {
	mock := newMockPool(t)
	s := NewLeaderboardStore(mock)

	mock.ExpectQuery(`INSERT INTO leaderboard`).
		WithArgs(pgxmock.AnyArg(), "g1", "u2", "r1", string(types.ActionAdd), 500,
			50.0, 1.0, 0.10, 55.0, "Iron Ore", "Raw", string(types.StatusCritical)).
		WillReturnRows(mock.NewRows([]string{"id"}).AddRow("lb1"))

	id, err := s.AddEntry(context.Background(), &types.LeaderboardEntry{
		GuildID:            "g1",
		UserID:             "u2",
		ResourceID:         "r1",
		ActionType:         types.ActionAdd,
		QuantityChanged:    500,
		BasePoints:         50.0,
		ResourceMultiplier: 1.0,
		StatusBonus:        0.10,
		FinalPoints:        55.0,
		ResourceName:       "Iron Ore",
		ResourceCategory:   "Raw",
		ResourceStatus:     types.StatusCritical,
	})
	require.NoError(t, err)
	assert.Equal(t, "lb1", id)
	assert.NoError(t, mock.ExpectationsWereMet())
}
