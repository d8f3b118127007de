package enum

// BadgeType groups badges by how they are earned.
type BadgeType string

const (
	// BadgeTypeMilestone marks one-off firsts and point thresholds.
	BadgeTypeMilestone BadgeType = "milestone"
	// BadgeTypeActivity marks sustained participation such as streaks.
	BadgeTypeActivity BadgeType = "activity"
	// BadgeTypeAchievement marks recognition earned from other users.
	BadgeTypeAchievement BadgeType = "achievement"
)

// BadgeRarity indicates how hard a badge is to earn.
type BadgeRarity string

const (
	BadgeRarityCommon   BadgeRarity = "common"
	BadgeRarityUncommon BadgeRarity = "uncommon"
	BadgeRarityRare     BadgeRarity = "rare"
	BadgeRarityEpic     BadgeRarity = "epic"
)

// CriterionKind discriminates badge criterion variants.
type CriterionKind string

const (
	// CriterionNumericAtLeast requires a counter field to reach a target value.
	CriterionNumericAtLeast CriterionKind = "numeric_at_least"
	// CriterionBooleanFlag requires a named condition to currently hold.
	CriterionBooleanFlag CriterionKind = "boolean_flag"
)

// CounterField names a reputation account counter a badge criterion can read.
type CounterField string

const (
	FieldTotalPoints       CounterField = "total_points"
	FieldPostsCount        CounterField = "posts_count"
	FieldThreadsCount      CounterField = "threads_count"
	FieldVotesReceived     CounterField = "votes_received"
	FieldSolutionsProvided CounterField = "solutions_provided"
	FieldConsecutiveDays   CounterField = "consecutive_days_active"

	// Boolean flags resolved against the counters above.
	FlagFirstPost     CounterField = "first_post"
	FlagFirstThread   CounterField = "first_thread"
	FlagFirstSolution CounterField = "first_solution"
)
