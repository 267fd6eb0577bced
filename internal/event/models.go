// Package event holds the narrative event catalog: situations with up to
// four labelled options, each carrying the effects a choice applies.
package event

import (
	"lifesim-server/internal/character"
)

const MaxOptions = 4

// Labels lists the option labels in the order options must appear.
var Labels = []string{"A", "B", "C", "D"}

type Option struct {
	Label   string            `json:"label"`
	Text    string            `json:"text"`
	Effects character.Effects `json:"effects"`
	// Years overrides the default number of years a choice takes.
	Years *int `json:"years,omitempty"`
}

// YearsOr returns the option's own year count, or fallback when unset.
func (o Option) YearsOr(fallback int) int {
	if o.Years != nil {
		return *o.Years
	}
	return fallback
}

type Event struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	MinAge      int      `json:"min_age"`
	// MaxAge 0 leaves the age window open-ended.
	MaxAge      int      `json:"max_age,omitempty"`
	Levels      []string `json:"levels,omitempty"`
	Options     []Option `json:"options"`
}

func (e Event) Option(label string) (Option, bool) {
	for _, o := range e.Options {
		if o.Label == label {
			return o, true
		}
	}
	return Option{}, false
}

// Eligible reports whether the event can be offered at age during levelID.
// An event without a level filter is available in every level.
func (e Event) Eligible(age int, levelID string) bool {
	if age < e.MinAge || (e.MaxAge != 0 && age > e.MaxAge) {
		return false
	}
	if len(e.Levels) == 0 {
		return true
	}
	for _, l := range e.Levels {
		if l == levelID {
			return true
		}
	}
	return false
}
