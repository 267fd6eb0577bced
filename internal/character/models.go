// Package character holds the character stat model and the progression
// engine that turns a chosen option into the next character state.
// It has no infrastructure dependencies.
package character

import (
	"time"
)

const (
	StatMin = 0
	StatMax = 100

	DefaultDeathCause  = "Poor health"
	OldAgeDeathCause   = "Old age"
	AccidentDeathCause = "Unexpected accident"
	AgingDecayStartAge = 60
	AgingHealthDecay   = 0.5
)

type Gender string

const (
	GenderMale      Gender = "male"
	GenderFemale    Gender = "female"
	GenderNonBinary Gender = "nonbinary"
	GenderOther     Gender = "other"
)

func (g Gender) IsValid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderNonBinary, GenderOther:
		return true
	default:
		return false
	}
}

// Stats are the vitals shown on the main screen. Health, happiness and
// energy live in [0,100]; wealth is only floored at 0.
type Stats struct {
	Health    float64 `json:"health"`
	Happiness float64 `json:"happiness"`
	Wealth    float64 `json:"wealth"`
	Energy    float64 `json:"energy"`
}

type Skills struct {
	Intelligence float64 `json:"intelligence"`
	Creativity   float64 `json:"creativity"`
	Social       float64 `json:"social"`
	Physical     float64 `json:"physical"`
	Business     float64 `json:"business"`
	Technical    float64 `json:"technical"`
}

type Relationships struct {
	Family     float64 `json:"family"`
	Friends    float64 `json:"friends"`
	Romantic   float64 `json:"romantic"`
	Colleagues float64 `json:"colleagues"`
}

// Identity is what the player enters on the creation screen.
type Identity struct {
	Name      string `json:"name"`
	BirthYear int    `json:"birth_year"`
	BirthCity string `json:"birth_city"`
	Gender    Gender `json:"gender"`
}

// Effects is the payload attached to an event option. Zero deltas are no-ops.
type Effects struct {
	Health        float64       `json:"health,omitempty"`
	Happiness     float64       `json:"happiness,omitempty"`
	Wealth        float64       `json:"wealth,omitempty"`
	Energy        float64       `json:"energy,omitempty"`
	Skills        Skills        `json:"skills"`
	Relationships Relationships `json:"relationships"`
	DeathChance   float64       `json:"death_chance,omitempty"`
	DeathCause    string        `json:"death_cause,omitempty"`
}

// HistoryEntry records one applied choice. Entries are never mutated after
// they are appended.
type HistoryEntry struct {
	ID        string    `json:"id"`
	EventID   string    `json:"event_id"`
	Option    string    `json:"option"`
	Effects   Effects   `json:"effects"`
	Years     int       `json:"years"`
	Age       int       `json:"age"`
	Timestamp time.Time `json:"timestamp"`
}

type Character struct {
	ID string `json:"id"`
	Identity
	Age           int            `json:"age"`
	Stats         Stats          `json:"stats"`
	Skills        Skills         `json:"skills"`
	Relationships Relationships  `json:"relationships"`
	IsAlive       bool           `json:"is_alive"`
	DeathCause    string         `json:"death_cause,omitempty"`
	History       []HistoryEntry `json:"history"`
	CreatedAt     time.Time      `json:"created_at"`
}

// Choice is an event option resolved against a character.
type Choice struct {
	EventID string
	Option  string
	Effects Effects
	Years   int

	// ChanceCause names a death-chance death when Effects.DeathCause is empty.
	ChanceCause string
}

// New returns a freshly born character.
func New(id string, identity Identity, now time.Time) Character {
	return Character{
		ID:       id,
		Identity: identity,
		Age:      0,
		Stats: Stats{
			Health:    100,
			Happiness: 70,
			Wealth:    0,
			Energy:    100,
		},
		Skills: Skills{
			Intelligence: 10,
			Creativity:   10,
			Social:       10,
			Physical:     10,
			Business:     10,
			Technical:    10,
		},
		Relationships: Relationships{
			Family:     70,
			Friends:    30,
			Romantic:   0,
			Colleagues: 0,
		},
		IsAlive:   true,
		History:   []HistoryEntry{},
		CreatedAt: now,
	}
}

// CurrentYear is the in-game calendar year.
func (c Character) CurrentYear() int {
	return c.BirthYear + c.Age
}

// HasSeen reports whether eventID appears in the character's history.
func (c Character) HasSeen(eventID string) bool {
	for _, h := range c.History {
		if h.EventID == eventID {
			return true
		}
	}
	return false
}

func (s Skills) Min() float64 {
	return min(s.Intelligence, s.Creativity, s.Social, s.Physical, s.Business, s.Technical)
}

func (r Relationships) Min() float64 {
	return min(r.Family, r.Friends, r.Romantic, r.Colleagues)
}
