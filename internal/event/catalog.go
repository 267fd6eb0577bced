package event

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"lifesim-server/internal/character"
)

//go:embed data/events.json
var defaultCatalogJSON []byte

// Picker chooses an index in [0,n). *rand.Rand satisfies it.
type Picker interface {
	IntN(n int) int
}

type Catalog struct {
	events []Event
	byID   map[string]int
}

// DefaultCatalog parses the catalog compiled into the binary.
func DefaultCatalog() (*Catalog, error) {
	return ParseCatalog(defaultCatalogJSON)
}

// ParseCatalog decodes and validates a JSON array of events.
func ParseCatalog(data []byte) (*Catalog, error) {
	var events []Event
	if err := json.Unmarshal(data, &events); err != nil {
		return nil, fmt.Errorf("failed to decode event catalog: %w", err)
	}
	return NewCatalog(events)
}

func NewCatalog(events []Event) (*Catalog, error) {
	c := &Catalog{
		events: make([]Event, 0, len(events)),
		byID:   make(map[string]int, len(events)),
	}

	for _, e := range events {
		if err := validateEvent(e); err != nil {
			return nil, err
		}
		if _, dup := c.byID[e.ID]; dup {
			return nil, fmt.Errorf("duplicate event id %q", e.ID)
		}
		c.byID[e.ID] = len(c.events)
		c.events = append(c.events, e)
	}

	return c, nil
}

func validateEvent(e Event) error {
	if e.ID == "" {
		return fmt.Errorf("event without id")
	}
	if e.MaxAge != 0 && e.MaxAge < e.MinAge {
		return fmt.Errorf("event %q: max_age %d below min_age %d", e.ID, e.MaxAge, e.MinAge)
	}
	if len(e.Options) == 0 || len(e.Options) > MaxOptions {
		return fmt.Errorf("event %q: must have between 1 and %d options, has %d", e.ID, MaxOptions, len(e.Options))
	}

	for i, o := range e.Options {
		if o.Label != Labels[i] {
			return fmt.Errorf("event %q: option %d labelled %q, want %q", e.ID, i, o.Label, Labels[i])
		}
		if p := o.Effects.DeathChance; p < 0 || p > 1 {
			return fmt.Errorf("event %q option %s: death_chance %v outside [0,1]", e.ID, o.Label, p)
		}
		if o.Years != nil && *o.Years < 0 {
			return fmt.Errorf("event %q option %s: negative years", e.ID, o.Label)
		}
	}
	return nil
}

func (c *Catalog) Len() int {
	return len(c.events)
}

func (c *Catalog) Get(id string) (Event, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Event{}, false
	}
	return c.events[i], true
}

// Eligible returns the events that can be offered at age during levelID, in
// catalog order.
func (c *Catalog) Eligible(age int, levelID string) []Event {
	var out []Event
	for _, e := range c.events {
		if e.Eligible(age, levelID) {
			out = append(out, e)
		}
	}
	return out
}

// Next picks the next event for ch. Events the character has not seen yet
// are preferred; seen ones are offered again only when nothing new is left.
func (c *Catalog) Next(ch character.Character, levelID string, picker Picker) (Event, bool) {
	eligible := c.Eligible(ch.Age, levelID)
	if len(eligible) == 0 {
		return Event{}, false
	}

	var unseen []Event
	for _, e := range eligible {
		if !ch.HasSeen(e.ID) {
			unseen = append(unseen, e)
		}
	}

	pool := eligible
	if len(unseen) > 0 {
		pool = unseen
	}
	return pool[picker.IntN(len(pool))], true
}
