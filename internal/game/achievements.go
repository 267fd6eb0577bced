package game

import (
	"time"

	"lifesim-server/internal/character"
)

type Achievement struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`

	earned func(st GameState, ch *character.Character, levelCount int) bool
}

type AchievementView struct {
	Achievement
	EarnedAt *time.Time `json:"earned_at,omitempty"`
}

var achievements = []Achievement{
	{
		ID:          "first_choice",
		Name:        "First Steps",
		Description: "Make your first life choice.",
		earned: func(_ GameState, ch *character.Character, _ int) bool {
			return ch != nil && len(ch.History) > 0
		},
	},
	{
		ID:          "first_level_complete",
		Name:        "Chapter Closed",
		Description: "Complete any level.",
		earned: func(st GameState, _ *character.Character, _ int) bool {
			return len(st.CompletedLevels) > 0
		},
	},
	{
		ID:          "all_levels_complete",
		Name:        "A Life Well Lived",
		Description: "Complete every level.",
		earned: func(st GameState, _ *character.Character, levelCount int) bool {
			return len(st.CompletedLevels) >= levelCount
		},
	},
	{
		ID:          "millionaire",
		Name:        "Millionaire",
		Description: "Reach a wealth of 1,000,000.",
		earned: func(_ GameState, ch *character.Character, _ int) bool {
			return ch != nil && ch.Stats.Wealth >= 1_000_000
		},
	},
	{
		ID:          "centenarian",
		Name:        "Centenarian",
		Description: "Live to be 100.",
		earned: func(_ GameState, ch *character.Character, _ int) bool {
			return ch != nil && ch.Age >= 100
		},
	},
	{
		ID:          "polymath",
		Name:        "Polymath",
		Description: "Raise every skill to 80.",
		earned: func(_ GameState, ch *character.Character, _ int) bool {
			return ch != nil && ch.Skills.Min() >= 80
		},
	},
	{
		ID:          "beloved",
		Name:        "Beloved",
		Description: "Raise every relationship to 90.",
		earned: func(_ GameState, ch *character.Character, _ int) bool {
			return ch != nil && ch.Relationships.Min() >= 90
		},
	},
}

func Achievements() []Achievement {
	out := make([]Achievement, len(achievements))
	copy(out, achievements)
	return out
}

// AwardAchievements records every newly earned achievement and returns their
// ids. Achievements are never revoked.
func (l *Ledger) AwardAchievements(st *GameState, ch *character.Character, now time.Time) []string {
	if st.Achievements == nil {
		st.Achievements = map[string]time.Time{}
	}

	var awarded []string
	for _, a := range achievements {
		if st.HasAchievement(a.ID) {
			continue
		}
		if a.earned(*st, ch, l.levels.Len()) {
			st.Achievements[a.ID] = now
			awarded = append(awarded, a.ID)
		}
	}
	return awarded
}
