package score

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hideyourcash/go-sdk/types"
)

type fakeSource struct {
	stats map[string]PoolStats
	err   error
}

func (s *fakeSource) PoolStats(
	_ context.Context, poolContract string,
) (PoolStats, error) {
	if s.err != nil {
		return PoolStats{}, s.err
	}
	return s.stats[poolContract], nil
}

func TestScore(t *testing.T) {
	tests := []struct {
		name  string
		stats PoolStats
		want  int
	}{
		{"empty pool", PoolStats{}, 0},
		{"fully drained pool", PoolStats{Deposits: 50, Withdrawals: 50}, 0},
		{"more withdrawals than deposits", PoolStats{Deposits: 3, Withdrawals: 5}, 0},
		{"single live deposit", PoolStats{Deposits: 1}, 10},
		{"nine live deposits", PoolStats{Deposits: 9}, 30},
		{"thirty six live deposits", PoolStats{Deposits: 40, Withdrawals: 4}, 60},
		{"sixty five live deposits", PoolStats{Deposits: 65}, 80},
		{"hundred live deposits", PoolStats{Deposits: 100}, 100},
		{"clamped above hundred", PoolStats{Deposits: 100000}, 100},
	}

	note := &types.Note{PoolContract: "pool.near"}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scorer := NewScorer(&fakeSource{
				stats: map[string]PoolStats{"pool.near": tt.stats},
			})
			got, err := scorer.Score(context.Background(), note)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestScoreMonotonic(t *testing.T) {
	note := &types.Note{PoolContract: "pool.near"}
	prev := -1
	for live := int64(0); live <= 200; live++ {
		scorer := NewScorer(&fakeSource{
			stats: map[string]PoolStats{"pool.near": {Deposits: live}},
		})
		got, err := scorer.Score(context.Background(), note)
		require.NoError(t, err)
		require.GreaterOrEqual(t, got, prev)
		require.LessOrEqual(t, got, 100)
		prev = got
	}
}

func TestTierFor(t *testing.T) {
	tests := []struct {
		score int
		want  Tier
	}{
		{0, TierLow},
		{29, TierLow},
		{30, TierMedium},
		{45, TierMedium},
		{60, TierMedium},
		{61, TierHigh},
		{100, TierHigh},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("score %d", tt.score), func(t *testing.T) {
			require.Equal(t, tt.want, TierFor(tt.score))
		})
	}
}

func TestScoreTierPropagatesSourceError(t *testing.T) {
	scorer := NewScorer(&fakeSource{err: fmt.Errorf("indexer down")})
	_, _, err := scorer.ScoreTier(
		context.Background(), &types.Note{PoolContract: "pool.near"},
	)
	require.Error(t, err)
}
