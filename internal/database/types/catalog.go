package types

import "github.com/volunthub/reputation/internal/database/types/enum"

// DefaultBadges returns the standard badge catalogue installed by the seeder.
// Seeding is idempotent by slug; rerunning it updates definitions without
// touching awarded counts or held badges.
func DefaultBadges() []*Badge {
	return []*Badge{
		{
			Slug:        "first-post",
			Name:        "First Post",
			Description: "Wrote a first reply in the forums",
			Type:        enum.BadgeTypeMilestone,
			Rarity:      enum.BadgeRarityCommon,
			PointsValue: 5,
			Criteria: []Criterion{
				{Kind: enum.CriterionBooleanFlag, Field: enum.FlagFirstPost},
			},
			IsActive: true,
		},
		{
			Slug:        "first-thread",
			Name:        "Conversation Starter",
			Description: "Opened a first discussion thread",
			Type:        enum.BadgeTypeMilestone,
			Rarity:      enum.BadgeRarityCommon,
			PointsValue: 5,
			Criteria: []Criterion{
				{Kind: enum.CriterionBooleanFlag, Field: enum.FlagFirstThread},
			},
			IsActive: true,
		},
		{
			Slug:        "first-solution",
			Name:        "Problem Solver",
			Description: "Had a post accepted as a solution",
			Type:        enum.BadgeTypeMilestone,
			Rarity:      enum.BadgeRarityUncommon,
			PointsValue: 10,
			Criteria: []Criterion{
				{Kind: enum.CriterionBooleanFlag, Field: enum.FlagFirstSolution},
			},
			IsActive: true,
		},
		{
			Slug:        "conversationalist",
			Name:        "Conversationalist",
			Description: "Wrote 25 forum posts",
			Type:        enum.BadgeTypeActivity,
			Rarity:      enum.BadgeRarityUncommon,
			PointsValue: 10,
			Criteria: []Criterion{
				{Kind: enum.CriterionNumericAtLeast, Field: enum.FieldPostsCount, Target: 25},
			},
			IsActive: true,
		},
		{
			Slug:        "prolific-poster",
			Name:        "Prolific Poster",
			Description: "Wrote 100 forum posts",
			Type:        enum.BadgeTypeActivity,
			Rarity:      enum.BadgeRarityRare,
			PointsValue: 25,
			Criteria: []Criterion{
				{Kind: enum.CriterionNumericAtLeast, Field: enum.FieldPostsCount, Target: 100},
			},
			IsActive: true,
		},
		{
			Slug:        "well-liked",
			Name:        "Well Liked",
			Description: "Received 10 up-votes from other members",
			Type:        enum.BadgeTypeAchievement,
			Rarity:      enum.BadgeRarityUncommon,
			PointsValue: 15,
			Criteria: []Criterion{
				{Kind: enum.CriterionNumericAtLeast, Field: enum.FieldVotesReceived, Target: 10},
			},
			IsActive: true,
		},
		{
			Slug:        "community-favorite",
			Name:        "Community Favorite",
			Description: "Received 50 up-votes from other members",
			Type:        enum.BadgeTypeAchievement,
			Rarity:      enum.BadgeRarityRare,
			PointsValue: 30,
			Criteria: []Criterion{
				{Kind: enum.CriterionNumericAtLeast, Field: enum.FieldVotesReceived, Target: 50},
			},
			IsActive: true,
		},
		{
			Slug:        "expert-helper",
			Name:        "Expert Helper",
			Description: "Provided 25 accepted solutions",
			Type:        enum.BadgeTypeAchievement,
			Rarity:      enum.BadgeRarityEpic,
			PointsValue: 50,
			Criteria: []Criterion{
				{Kind: enum.CriterionNumericAtLeast, Field: enum.FieldSolutionsProvided, Target: 25},
			},
			IsActive: true,
		},
		{
			Slug:        "dedicated",
			Name:        "Dedicated",
			Description: "Active for 7 days in a row",
			Type:        enum.BadgeTypeActivity,
			Rarity:      enum.BadgeRarityUncommon,
			PointsValue: 15,
			Criteria: []Criterion{
				{Kind: enum.CriterionNumericAtLeast, Field: enum.FieldConsecutiveDays, Target: 7},
			},
			IsActive: true,
		},
		{
			Slug:        "unstoppable",
			Name:        "Unstoppable",
			Description: "Active for 30 days in a row",
			Type:        enum.BadgeTypeActivity,
			Rarity:      enum.BadgeRarityEpic,
			PointsValue: 40,
			Criteria: []Criterion{
				{Kind: enum.CriterionNumericAtLeast, Field: enum.FieldConsecutiveDays, Target: 30},
			},
			IsActive: true,
		},
		{
			Slug:        "point-collector",
			Name:        "Point Collector",
			Description: "Accumulated 1000 reputation points",
			Type:        enum.BadgeTypeMilestone,
			Rarity:      enum.BadgeRarityRare,
			PointsValue: 25,
			Criteria: []Criterion{
				{Kind: enum.CriterionNumericAtLeast, Field: enum.FieldTotalPoints, Target: 1000},
			},
			IsActive: true,
		},
	}
}
