package types

import (
	"time"

	"github.com/uptrace/bun"
	"github.com/volunthub/reputation/internal/database/types/enum"
)

// ReputationAccount holds the aggregate reputation state for one user.
// It is created lazily on the first qualifying event and only ever mutated
// through the ledger or the recalculation service.
type ReputationAccount struct {
	bun.BaseModel `bun:"table:reputation_accounts"`

	UserID      uint64 `bun:",pk"      json:"userId"`
	TotalPoints int64  `bun:",notnull" json:"totalPoints"`

	// Points buckets; their sum always equals TotalPoints.
	PostPoints     int64 `bun:",notnull" json:"postPoints"`
	VotePoints     int64 `bun:",notnull" json:"votePoints"`
	SolutionPoints int64 `bun:",notnull" json:"solutionPoints"`
	BadgePoints    int64 `bun:",notnull" json:"badgePoints"`

	// Activity counters mirrored from forum events.
	PostsCount        int64 `bun:",notnull" json:"postsCount"`
	ThreadsCount      int64 `bun:",notnull" json:"threadsCount"`
	VotesReceived     int64 `bun:",notnull" json:"votesReceived"`
	SolutionsProvided int64 `bun:",notnull" json:"solutionsProvided"`

	// Rank fields are derived from TotalPoints and never set directly.
	Rank      string `bun:",notnull" json:"rank"`
	RankLevel int    `bun:",notnull" json:"rankLevel"`

	ConsecutiveDaysActive int        `bun:",notnull"     json:"consecutiveDaysActive"`
	LastActivityDate      *time.Time `bun:",nullzero"    json:"lastActivityDate"`

	CreatedAt time.Time `bun:",notnull" json:"createdAt"`
	UpdatedAt time.Time `bun:",notnull" json:"updatedAt"`
}

// Counter returns the value of a named counter field for badge criteria.
// Boolean flags resolve to 1 when the underlying condition holds.
func (a *ReputationAccount) Counter(field enum.CounterField) int64 {
	switch field {
	case enum.FieldTotalPoints:
		return a.TotalPoints
	case enum.FieldPostsCount:
		return a.PostsCount
	case enum.FieldThreadsCount:
		return a.ThreadsCount
	case enum.FieldVotesReceived:
		return a.VotesReceived
	case enum.FieldSolutionsProvided:
		return a.SolutionsProvided
	case enum.FieldConsecutiveDays:
		return int64(a.ConsecutiveDaysActive)
	case enum.FlagFirstPost:
		return boolCounter(a.PostsCount >= 1)
	case enum.FlagFirstThread:
		return boolCounter(a.ThreadsCount >= 1)
	case enum.FlagFirstSolution:
		return boolCounter(a.SolutionsProvided >= 1)
	default:
		return 0
	}
}

func boolCounter(ok bool) int64 {
	if ok {
		return 1
	}

	return 0
}

// ReputationHistoryEntry is one immutable row of the audit trail. Entries are
// append-only; for each user they form a chain where PointsBefore of entry
// n+1 equals PointsAfter of entry n.
type ReputationHistoryEntry struct {
	bun.BaseModel `bun:"table:reputation_history"`

	ID           int64       `bun:",pk,autoincrement" json:"id"`
	UserID       uint64      `bun:",notnull"          json:"userId"`
	Action       enum.Action `bun:",notnull"          json:"action"`
	PointsChange int64       `bun:",notnull"          json:"pointsChange"`
	PointsBefore int64       `bun:",notnull"          json:"pointsBefore"`
	PointsAfter  int64       `bun:",notnull"          json:"pointsAfter"`
	CreatedAt    time.Time   `bun:",notnull"          json:"createdAt"`
}
