package types

import (
	"time"

	"github.com/uptrace/bun"
	"github.com/volunthub/reputation/internal/database/types/enum"
)

// Criterion is one declarative badge requirement. Numeric criteria require a
// counter to reach a target; boolean criteria require a named flag to hold.
type Criterion struct {
	Kind   enum.CriterionKind `json:"kind"`
	Field  enum.CounterField  `json:"field"`
	Target int64              `json:"target,omitempty"`
}

// Met evaluates the criterion against the account's current counters.
func (c Criterion) Met(account *ReputationAccount) bool {
	switch c.Kind {
	case enum.CriterionNumericAtLeast:
		return account.Counter(c.Field) >= c.Target
	case enum.CriterionBooleanFlag:
		return account.Counter(c.Field) >= 1
	default:
		return false
	}
}

// Progress returns completion toward the criterion clamped to [0, 1].
func (c Criterion) Progress(account *ReputationAccount) float64 {
	target := c.Target
	if c.Kind == enum.CriterionBooleanFlag {
		target = 1
	}

	if target <= 0 {
		return 1
	}

	progress := float64(account.Counter(c.Field)) / float64(target)
	if progress > 1 {
		return 1
	}

	return progress
}

// Badge is a shared badge definition. Criteria are stored as JSONB; a badge
// is awarded when all of its criteria are satisfied at once.
type Badge struct {
	bun.BaseModel `bun:"table:badges"`

	ID           int64            `bun:",pk,autoincrement" json:"id"`
	Slug         string           `bun:",notnull,unique"   json:"slug"`
	Name         string           `bun:",notnull"          json:"name"`
	Description  string           `bun:",notnull"          json:"description"`
	Type         enum.BadgeType   `bun:",notnull"          json:"type"`
	Rarity       enum.BadgeRarity `bun:",notnull"          json:"rarity"`
	PointsValue  int64            `bun:",notnull"          json:"pointsValue"`
	Criteria     []Criterion      `bun:"type:jsonb,notnull" json:"criteria"`
	IsActive     bool             `bun:",notnull"          json:"isActive"`
	AwardedCount int64            `bun:",notnull"          json:"awardedCount"`
	CreatedAt    time.Time        `bun:",notnull"          json:"createdAt"`
	UpdatedAt    time.Time        `bun:",notnull"          json:"updatedAt"`
}

// UserBadge records a badge held by a user. The (user, badge) pair is unique
// so a badge can never be awarded twice.
type UserBadge struct {
	bun.BaseModel `bun:"table:user_badges"`

	UserID     uint64    `bun:",pk,notnull" json:"userId"`
	BadgeID    int64     `bun:",pk,notnull" json:"badgeId"`
	EarnedAt   time.Time `bun:",notnull"    json:"earnedAt"`
	IsFeatured bool      `bun:",notnull"    json:"isFeatured"`
	IsPublic   bool      `bun:",notnull"    json:"isPublic"`

	Badge *Badge `bun:"rel:belongs-to,join:badge_id=id" json:"badge,omitempty"`
}

// CriterionProgress describes how far a user is toward one badge criterion.
type CriterionProgress struct {
	Criterion    Criterion `json:"criterion"`
	CurrentValue int64     `json:"currentValue"`
	TargetValue  int64     `json:"targetValue"`
	IsMet        bool      `json:"isMet"`
}

// BadgeProgress reports completion toward one unearned badge. The percentage
// is the average of each criterion's clamped completion ratio.
type BadgeProgress struct {
	Badge              *Badge              `json:"badge"`
	Requirements       []CriterionProgress `json:"requirements"`
	ProgressPercentage float64             `json:"progressPercentage"`
}
