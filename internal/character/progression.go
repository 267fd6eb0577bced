package character

import (
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
)

// Roller draws uniform numbers in [0,1) for death-chance checks.
// *rand.Rand satisfies it.
type Roller interface {
	Float64() float64
}

// sharedRoller uses the package-level source, which is safe for concurrent use.
type sharedRoller struct{}

func (sharedRoller) Float64() float64 { return rand.Float64() }

// Engine applies choices to characters. The zero value is not usable; use NewEngine.
type Engine struct {
	Roller             Roller
	DeathChanceEnabled bool
	Now                func() time.Time
	NewID              func() string
}

func NewEngine(roller Roller, deathChanceEnabled bool) *Engine {
	if roller == nil {
		roller = sharedRoller{}
	}

	return &Engine{
		Roller:             roller,
		DeathChanceEnabled: deathChanceEnabled,
		Now:                time.Now,
		NewID:              uuid.NewString,
	}
}

// Clamp bounds a stat to [0,100].
func Clamp(v float64) float64 {
	return max(StatMin, min(StatMax, v))
}

// ClampFloor bounds a stat below at 0.
func ClampFloor(v float64) float64 {
	return max(StatMin, v)
}

func (s Stats) Apply(e Effects) Stats {
	return Stats{
		Health:    Clamp(s.Health + e.Health),
		Happiness: Clamp(s.Happiness + e.Happiness),
		Wealth:    ClampFloor(s.Wealth + e.Wealth),
		Energy:    Clamp(s.Energy + e.Energy),
	}
}

func (s Skills) Apply(d Skills) Skills {
	return Skills{
		Intelligence: Clamp(s.Intelligence + d.Intelligence),
		Creativity:   Clamp(s.Creativity + d.Creativity),
		Social:       Clamp(s.Social + d.Social),
		Physical:     Clamp(s.Physical + d.Physical),
		Business:     Clamp(s.Business + d.Business),
		Technical:    Clamp(s.Technical + d.Technical),
	}
}

func (r Relationships) Apply(d Relationships) Relationships {
	return Relationships{
		Family:     Clamp(r.Family + d.Family),
		Friends:    Clamp(r.Friends + d.Friends),
		Romantic:   Clamp(r.Romantic + d.Romantic),
		Colleagues: Clamp(r.Colleagues + d.Colleagues),
	}
}

// applyDeltas updates every stat group without evaluating death.
func applyDeltas(c *Character, e Effects) {
	c.Stats = c.Stats.Apply(e)
	c.Skills = c.Skills.Apply(e.Skills)
	c.Relationships = c.Relationships.Apply(e.Relationships)
}

// Choose resolves a choice and returns the next character state along with
// whether the character died on this step. The input character is not modified.
//
// Health-based death is checked first. The death-chance roll only happens
// when the character survived it, so a single choice records one cause.
func (e *Engine) Choose(c Character, choice Choice) (Character, bool) {
	if !c.IsAlive {
		return c, false
	}

	next := c
	next.History = make([]HistoryEntry, len(c.History), len(c.History)+1)
	copy(next.History, c.History)
	next.History = append(next.History, HistoryEntry{
		ID:        e.NewID(),
		EventID:   choice.EventID,
		Option:    choice.Option,
		Effects:   choice.Effects,
		Years:     choice.Years,
		Age:       c.Age,
		Timestamp: e.Now(),
	})

	applyDeltas(&next, choice.Effects)

	switch {
	case next.Stats.Health <= 0:
		next.kill(choice.Effects.DeathCause, DefaultDeathCause)
	case e.DeathChanceEnabled && choice.Effects.DeathChance > 0:
		if e.Roller.Float64() < choice.Effects.DeathChance {
			fallback := choice.ChanceCause
			if fallback == "" {
				fallback = DefaultDeathCause
			}
			next.kill(choice.Effects.DeathCause, fallback)
		}
	}

	if next.IsAlive && choice.Years > 0 {
		next = Age(next, choice.Years)
	}

	return next, !next.IsAlive
}

// Age advances the character by years. Every year lived past 60 costs
// 0.5 health.
func Age(c Character, years int) Character {
	for range years {
		c.Age++
		if c.Age > AgingDecayStartAge {
			c.Stats.Health = Clamp(c.Stats.Health - AgingHealthDecay)
		}
	}

	if c.IsAlive && c.Stats.Health <= 0 {
		c.kill("", OldAgeDeathCause)
	}
	return c
}

func (c *Character) kill(cause, fallback string) {
	if cause == "" {
		cause = fallback
	}
	c.IsAlive = false
	c.DeathCause = cause
}
