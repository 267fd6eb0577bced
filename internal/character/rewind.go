package character

// Rewind drops the last steps history entries and rebuilds the character by
// replaying the remaining ones from a fresh baseline. Identity is preserved.
// Out-of-range step counts return the character unchanged.
//
// Replay clamps after every entry and ages each entry's recorded years, the
// same as forward progression. Death is never evaluated during replay: the
// rewound character is always alive.
func (e *Engine) Rewind(c Character, steps int) Character {
	if steps <= 0 || steps > len(c.History) {
		return c
	}

	kept := c.History[:len(c.History)-steps]

	rebuilt := New(c.ID, c.Identity, c.CreatedAt)
	for _, entry := range kept {
		applyDeltas(&rebuilt, entry.Effects)
		rebuilt.Age = entry.Age
		rebuilt = Age(rebuilt, entry.Years)
	}

	rebuilt.History = make([]HistoryEntry, len(kept))
	copy(rebuilt.History, kept)

	if rebuilt.Stats.Health <= 0 {
		rebuilt.Stats.Health = 1
	}
	rebuilt.IsAlive = true
	rebuilt.DeathCause = ""

	return rebuilt
}
