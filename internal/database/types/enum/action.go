package enum

import "fmt"

// Action represents the kinds of domain events the ledger can account for.
// Values are stored verbatim in reputation history rows.
type Action string

const (
	// ActionThreadCreated is recorded when a user starts a new forum thread.
	ActionThreadCreated Action = "thread_created"
	// ActionPostCreated is recorded when a user replies in a thread.
	ActionPostCreated Action = "post_created"
	// ActionVoteReceived is recorded when one of the user's posts receives an
	// up-vote. Down-votes and self-votes are filtered by the forum layer and
	// never reach the ledger.
	ActionVoteReceived Action = "vote_received"
	// ActionSolutionMarked is recorded when one of the user's posts is marked
	// as the accepted solution of a thread.
	ActionSolutionMarked Action = "solution_marked"
	// ActionBadgeAwarded is recorded when a badge is granted; the point delta
	// equals the badge's configured value rather than a rule table default.
	ActionBadgeAwarded Action = "badge_awarded"
	// ActionDailyActivity is recorded on the first activity of a calendar day.
	ActionDailyActivity Action = "daily_activity"
	// ActionConsecutiveDays is recorded as a separate bonus entry whenever a
	// streak reaches a multiple of seven days.
	ActionConsecutiveDays Action = "consecutive_days"
)

// PointCategory identifies which points bucket of an account an action
// credits. Every action maps to exactly one bucket so that the bucket sums
// always equal the account total.
type PointCategory int

const (
	CategoryPost PointCategory = iota
	CategoryVote
	CategorySolution
	CategoryBadge
)

// actionCategories maps each action to its points bucket. Daily activity and
// streak bonuses are engagement awards and share the badge bucket; they are
// not reconstructable from forum source counts.
var actionCategories = map[Action]PointCategory{
	ActionThreadCreated:   CategoryPost,
	ActionPostCreated:     CategoryPost,
	ActionVoteReceived:    CategoryVote,
	ActionSolutionMarked:  CategorySolution,
	ActionBadgeAwarded:    CategoryBadge,
	ActionDailyActivity:   CategoryBadge,
	ActionConsecutiveDays: CategoryBadge,
}

// Valid reports whether the action is a recognized kind.
func (a Action) Valid() bool {
	_, ok := actionCategories[a]
	return ok
}

// Category returns the points bucket the action credits.
func (a Action) Category() PointCategory {
	return actionCategories[a]
}

// String implements fmt.Stringer.
func (a Action) String() string {
	return string(a)
}

// ParseAction converts a raw string into an Action, failing on unknown kinds.
func ParseAction(s string) (Action, error) {
	a := Action(s)
	if !a.Valid() {
		return "", fmt.Errorf("unknown action kind %q", s)
	}

	return a, nil
}
