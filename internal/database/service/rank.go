package service

import (
	"sort"

	"github.com/volunthub/reputation/internal/database/types"
	"github.com/volunthub/reputation/internal/setup/config"
)

// RankTable maps cumulative point totals to named ranks. It is built once
// from configuration and is safe for concurrent use.
type RankTable struct {
	tiers []config.RankTier
}

// NewRankTable creates a rank table from configured tiers, ordered lowest
// threshold first.
func NewRankTable(tiers []config.RankTier) *RankTable {
	sorted := make([]config.RankTier, len(tiers))
	copy(sorted, tiers)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].MinPoints < sorted[j].MinPoints
	})

	return &RankTable{tiers: sorted}
}

// RankFor returns the rank name and level for a point total: the highest tier
// whose threshold does not exceed the total.
func (t *RankTable) RankFor(totalPoints int64) (string, int) {
	current := t.tiers[0]

	for _, tier := range t.tiers {
		if totalPoints >= tier.MinPoints {
			current = tier
		} else {
			break
		}
	}

	return current.Name, current.Level
}

// ProgressFor returns rank progress details for a point total: the current
// rank, the next rank if any, remaining points, and percentage progress
// between the two thresholds. At the top tier progress is 100%.
func (t *RankTable) ProgressFor(totalPoints int64) types.RankProgress {
	currentIdx := 0

	for i, tier := range t.tiers {
		if totalPoints >= tier.MinPoints {
			currentIdx = i
		} else {
			break
		}
	}

	current := t.tiers[currentIdx]
	progress := types.RankProgress{
		CurrentRank:  current.Name,
		CurrentLevel: current.Level,
	}

	if currentIdx == len(t.tiers)-1 {
		progress.ProgressPercent = 100

		return progress
	}

	next := t.tiers[currentIdx+1]
	progress.NextRank = next.Name
	progress.PointsToNext = next.MinPoints - totalPoints

	span := next.MinPoints - current.MinPoints
	progress.ProgressPercent = float64(totalPoints-current.MinPoints) / float64(span) * 100

	return progress
}
