package game

import "fmt"

// LevelCatalog keeps levels in their fixed play order. The first level is the
// entry level and is always unlocked.
type LevelCatalog struct {
	levels []Level
	byID   map[string]int
}

func DefaultLevels() *LevelCatalog {
	c, err := NewLevelCatalog([]Level{
		{
			ID:               "level_1",
			Name:             "Childhood",
			Description:      "From the cradle to your eighteenth birthday.",
			DurationYears:    18,
			RequiredCrystals: 0,
			DeathChance:      0.005,
			CompletionBonus:  50,
		},
		{
			ID:               "level_2",
			Name:             "Young Adult",
			Description:      "Studies, first jobs and first heartbreaks.",
			DurationYears:    12,
			RequiredCrystals: 100,
			DeathChance:      0.01,
			CompletionBonus:  75,
		},
		{
			ID:               "level_3",
			Name:             "Adulthood",
			Description:      "Career, family and the mortgage.",
			DurationYears:    20,
			RequiredCrystals: 250,
			DeathChance:      0.015,
			CompletionBonus:  100,
		},
		{
			ID:               "level_4",
			Name:             "Midlife",
			Description:      "Keep your health while the world keeps changing.",
			DurationYears:    20,
			RequiredCrystals: 500,
			DeathChance:      0.02,
			CompletionBonus:  150,
		},
		{
			ID:               "level_5",
			Name:             "Golden Years",
			Description:      "Grandchildren, memoirs and a long well-earned rest.",
			DurationYears:    30,
			RequiredCrystals: 1000,
			DeathChance:      0.04,
			CompletionBonus:  250,
		},
	})
	if err != nil {
		panic(err)
	}
	return c
}

func NewLevelCatalog(levels []Level) (*LevelCatalog, error) {
	if len(levels) == 0 {
		return nil, fmt.Errorf("level catalog is empty")
	}

	c := &LevelCatalog{
		levels: make([]Level, 0, len(levels)),
		byID:   make(map[string]int, len(levels)),
	}
	for _, l := range levels {
		if l.ID == "" {
			return nil, fmt.Errorf("level without id")
		}
		if _, dup := c.byID[l.ID]; dup {
			return nil, fmt.Errorf("duplicate level id %q", l.ID)
		}
		if l.DurationYears <= 0 {
			return nil, fmt.Errorf("level %q: duration must be positive", l.ID)
		}
		if l.DeathChance < 0 || l.DeathChance > 1 {
			return nil, fmt.Errorf("level %q: death chance %v outside [0,1]", l.ID, l.DeathChance)
		}
		c.byID[l.ID] = len(c.levels)
		c.levels = append(c.levels, l)
	}
	return c, nil
}

func (c *LevelCatalog) Entry() Level {
	return c.levels[0]
}

func (c *LevelCatalog) Get(id string) (Level, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Level{}, false
	}
	return c.levels[i], true
}

// Next returns the level that follows id in play order.
func (c *LevelCatalog) Next(id string) (Level, bool) {
	i, ok := c.byID[id]
	if !ok || i+1 >= len(c.levels) {
		return Level{}, false
	}
	return c.levels[i+1], true
}

func (c *LevelCatalog) All() []Level {
	out := make([]Level, len(c.levels))
	copy(out, c.levels)
	return out
}

func (c *LevelCatalog) Len() int {
	return len(c.levels)
}
