package score

import (
	"context"
	"math"

	"github.com/hideyourcash/go-sdk/types"
)

type Tier string

const (
	TierLow    Tier = "low"
	TierMedium Tier = "medium"
	TierHigh   Tier = "high"
)

// PoolStats is a snapshot of a pool's deposit/withdrawal population.
type PoolStats struct {
	Deposits    int64 `json:"deposits"`
	Withdrawals int64 `json:"withdrawals"`
}

// PopulationSource provides pool population snapshots, typically backed by
// an indexer.
type PopulationSource interface {
	PoolStats(ctx context.Context, poolContract string) (PoolStats, error)
}

type Scorer struct {
	source PopulationSource
}

func NewScorer(source PopulationSource) *Scorer {
	return &Scorer{source: source}
}

// Score computes the withdrawal anonymity score for a note's pool. The
// score grows monotonically with the live deposit population (deposits not
// yet withdrawn) and is clamped to [0, 100]. It is deterministic for a
// given population snapshot.
func (s *Scorer) Score(ctx context.Context, note *types.Note) (int, error) {
	stats, err := s.source.PoolStats(ctx, note.PoolContract)
	if err != nil {
		return 0, err
	}
	return scoreOf(stats), nil
}

func (s *Scorer) ScoreTier(
	ctx context.Context, note *types.Note,
) (int, Tier, error) {
	value, err := s.Score(ctx, note)
	if err != nil {
		return 0, "", err
	}
	return value, TierFor(value), nil
}

// TierFor maps a score to its tier. Both boundaries are inclusive on the
// medium side: exactly 30 and exactly 60 are medium.
func TierFor(score int) Tier {
	switch {
	case score < 30:
		return TierLow
	case score <= 60:
		return TierMedium
	default:
		return TierHigh
	}
}

func scoreOf(stats PoolStats) int {
	live := stats.Deposits - stats.Withdrawals
	if live <= 0 {
		return 0
	}
	value := int(math.Floor(10 * math.Sqrt(float64(live))))
	if value > 100 {
		return 100
	}
	return value
}
