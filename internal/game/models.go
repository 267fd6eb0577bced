package game

import (
	"maps"
	"slices"
	"time"

	"lifesim-server/internal/character"
)

type LevelStatus string

const (
	LevelStatusLocked            LevelStatus = "locked"
	LevelStatusInsufficientFunds LevelStatus = "insufficient_funds"
	LevelStatusPlayable          LevelStatus = "playable"
	LevelStatusCompleted         LevelStatus = "completed"
)

// Level is a static catalog entry. Unlock and completion state live in GameState.
type Level struct {
	ID               string  `json:"id"`
	Name             string  `json:"name"`
	Description      string  `json:"description"`
	DurationYears    int     `json:"duration_years"`
	RequiredCrystals int     `json:"required_crystals"`
	DeathChance      float64 `json:"death_chance"`
	CompletionBonus  int     `json:"completion_bonus"`
}

type LevelView struct {
	Level
	Status LevelStatus `json:"status"`
}

type Settings struct {
	Language             string `json:"language"`
	SoundEnabled         bool   `json:"sound_enabled"`
	MusicEnabled         bool   `json:"music_enabled"`
	NotificationsEnabled bool   `json:"notifications_enabled"`
}

func DefaultSettings() Settings {
	return Settings{
		Language:             "en",
		SoundEnabled:         true,
		MusicEnabled:         true,
		NotificationsEnabled: true,
	}
}

// GameState is everything the account owns besides the character. It is
// persisted and reloaded as a whole.
type GameState struct {
	CurrentLevel    string               `json:"current_level,omitempty"`
	LevelStartAge   int                  `json:"level_start_age"`
	LevelStartedAt  *time.Time           `json:"level_started_at,omitempty"`
	PendingEvent    string               `json:"pending_event,omitempty"`
	Crystals        int                  `json:"crystals"`
	UnlockedLevels  []string             `json:"unlocked_levels"`
	CompletedLevels []string             `json:"completed_levels"`
	Achievements    map[string]time.Time `json:"achievements"`
	LastDailyReward *time.Time           `json:"last_daily_reward,omitempty"`
	PlayTimeSeconds int64                `json:"play_time_seconds"`
	GamesPlayed     int                  `json:"games_played"`
	Settings        Settings             `json:"settings"`
}

func NewGameState(entryLevel string, startingCrystals int) GameState {
	return GameState{
		Crystals:        startingCrystals,
		UnlockedLevels:  []string{entryLevel},
		CompletedLevels: []string{},
		Achievements:    map[string]time.Time{},
		Settings:        DefaultSettings(),
	}
}

func (s GameState) InProgress() bool {
	return s.CurrentLevel != ""
}

func (s GameState) IsUnlocked(levelID string) bool {
	return slices.Contains(s.UnlockedLevels, levelID)
}

func (s GameState) IsCompleted(levelID string) bool {
	return slices.Contains(s.CompletedLevels, levelID)
}

func (s GameState) HasAchievement(id string) bool {
	_, ok := s.Achievements[id]
	return ok
}

func (s *GameState) unlock(levelID string) bool {
	if s.IsUnlocked(levelID) {
		return false
	}
	s.UnlockedLevels = append(s.UnlockedLevels, levelID)
	return true
}

func (s *GameState) complete(levelID string) {
	if !s.IsCompleted(levelID) {
		s.CompletedLevels = append(s.CompletedLevels, levelID)
	}
}

// clone returns a copy that shares no slices or maps with s.
func (s GameState) clone() GameState {
	out := s
	out.UnlockedLevels = slices.Clone(s.UnlockedLevels)
	out.CompletedLevels = slices.Clone(s.CompletedLevels)
	out.Achievements = maps.Clone(s.Achievements)
	if s.LevelStartedAt != nil {
		t := *s.LevelStartedAt
		out.LevelStartedAt = &t
	}
	if s.LastDailyReward != nil {
		t := *s.LastDailyReward
		out.LastDailyReward = &t
	}
	return out
}

// Outcome is the result of ending a level.
type Outcome struct {
	LevelID       string  `json:"level_id"`
	Success       bool    `json:"success"`
	Reward        int     `json:"reward"`
	UnlockedLevel string  `json:"unlocked_level,omitempty"`
	FinalAge      int     `json:"final_age"`
	FinalWealth   float64 `json:"final_wealth"`
}

// Snapshot is a read-only copy of a player's session.
type Snapshot struct {
	Character *character.Character `json:"character"`
	State     GameState            `json:"state"`
}

type ChoiceResult struct {
	Character    character.Character `json:"character"`
	EventID      string              `json:"event_id"`
	Option       string              `json:"option"`
	Died         bool                `json:"died"`
	Outcome      *Outcome            `json:"outcome,omitempty"`
	Achievements []string            `json:"achievements,omitempty"`
	State        GameState           `json:"state"`
}

type RewindResult struct {
	Character character.Character `json:"character"`
	Steps     int                 `json:"steps"`
	Cost      int                 `json:"cost"`
	Crystals  int                 `json:"crystals"`
}

type DailyReward struct {
	Granted     int       `json:"granted"`
	Crystals    int       `json:"crystals"`
	NextClaimAt time.Time `json:"next_claim_at"`
}
