package types

// LeaderboardEntry is one row of the points leaderboard.
type LeaderboardEntry struct {
	UserID      uint64 `json:"userId"`
	TotalPoints int64  `json:"totalPoints"`
	Rank        string `json:"rank"`
	RankLevel   int    `json:"rankLevel"`
	Position    int    `json:"position"`
}

// Leaderboard holds the top users ordered by total points descending, ties
// broken by earliest account creation.
type Leaderboard struct {
	TopUsers   []*LeaderboardEntry `json:"topUsers"`
	TotalUsers int64               `json:"totalUsers"`
}

// RankProgress describes progress from the current rank toward the next one.
type RankProgress struct {
	CurrentRank     string  `json:"currentRank"`
	CurrentLevel    int     `json:"currentLevel"`
	NextRank        string  `json:"nextRank,omitempty"`
	PointsToNext    int64   `json:"pointsToNext"`
	ProgressPercent float64 `json:"progressPercent"`
}

// PointGains summarizes point deltas over trailing windows, computed from
// history entry timestamps.
type PointGains struct {
	Weekly  int64 `json:"weekly"`
	Monthly int64 `json:"monthly"`
}

// Dashboard aggregates everything a profile page needs for one user.
type Dashboard struct {
	Account        *ReputationAccount        `json:"account"`
	RankProgress   RankProgress              `json:"rankProgress"`
	RecentBadges   []*UserBadge              `json:"recentBadges"`
	FeaturedBadges []*UserBadge              `json:"featuredBadges"`
	RecentHistory  []*ReputationHistoryEntry `json:"recentHistory"`
	Gains          PointGains                `json:"gains"`
}
