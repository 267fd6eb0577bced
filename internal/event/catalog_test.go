package event

import (
	"strings"
	"testing"
	"time"

	"lifesim-server/internal/character"
)

type firstPicker struct{}

func (firstPicker) IntN(int) int { return 0 }

func TestDefaultCatalogIsValid(t *testing.T) {
	c, err := DefaultCatalog()
	if err != nil {
		t.Fatalf("DefaultCatalog() error: %v", err)
	}
	if c.Len() == 0 {
		t.Fatal("default catalog is empty")
	}

	// Every age a character can reach must have something to do.
	for _, level := range []string{"level_1", "level_2", "level_3", "level_4", "level_5"} {
		for age := 0; age <= 200; age++ {
			if len(c.Eligible(age, level)) == 0 {
				t.Fatalf("no eligible event at age %d in %s", age, level)
			}
		}
	}
}

func TestParseCatalogRejectsInvalidEvents(t *testing.T) {
	tests := []struct {
		name    string
		json    string
		wantErr string
	}{
		{"not json", `{`, "decode"},
		{"missing id", `[{"options":[{"label":"A"}]}]`, "without id"},
		{"no options", `[{"id":"x","max_age":1,"options":[]}]`, "between 1 and 4"},
		{"five options", `[{"id":"x","max_age":1,"options":[{"label":"A"},{"label":"B"},{"label":"C"},{"label":"D"},{"label":"E"}]}]`, "between 1 and 4"},
		{"out of order labels", `[{"id":"x","max_age":1,"options":[{"label":"B"}]}]`, "want \"A\""},
		{"bad death chance", `[{"id":"x","max_age":1,"options":[{"label":"A","effects":{"death_chance":1.5}}]}]`, "death_chance"},
		{"inverted ages", `[{"id":"x","min_age":10,"max_age":5,"options":[{"label":"A"}]}]`, "max_age"},
		{"duplicate", `[{"id":"x","max_age":1,"options":[{"label":"A"}]},{"id":"x","max_age":1,"options":[{"label":"A"}]}]`, "duplicate"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCatalog([]byte(tt.json))
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestEventOptionLookup(t *testing.T) {
	years := 4
	e := Event{ID: "uni", Options: []Option{{Label: "A", Years: &years}, {Label: "B"}}}

	a, ok := e.Option("A")
	if !ok || a.YearsOr(1) != 4 {
		t.Errorf("option A = %+v, %v", a, ok)
	}
	b, ok := e.Option("B")
	if !ok || b.YearsOr(1) != 1 {
		t.Errorf("option B should fall back to default years")
	}
	if _, ok := e.Option("D"); ok {
		t.Error("option D should not exist")
	}
}

func TestEligibleHonoursAgeAndLevel(t *testing.T) {
	c, err := NewCatalog([]Event{
		{ID: "teen", MinAge: 13, MaxAge: 19, Options: []Option{{Label: "A"}}},
		{ID: "career", MinAge: 20, MaxAge: 60, Levels: []string{"level_3"}, Options: []Option{{Label: "A"}}},
	})
	if err != nil {
		t.Fatal(err)
	}

	if got := c.Eligible(15, "level_1"); len(got) != 1 || got[0].ID != "teen" {
		t.Errorf("Eligible(15, level_1) = %+v", got)
	}
	if got := c.Eligible(30, "level_2"); len(got) != 0 {
		t.Errorf("career should be filtered out of level_2, got %+v", got)
	}
	if got := c.Eligible(30, "level_3"); len(got) != 1 {
		t.Errorf("Eligible(30, level_3) = %+v", got)
	}
}

func TestNextPrefersUnseenEvents(t *testing.T) {
	c, err := NewCatalog([]Event{
		{ID: "seen", MaxAge: 100, Options: []Option{{Label: "A"}}},
		{ID: "fresh", MaxAge: 100, Options: []Option{{Label: "A"}}},
	})
	if err != nil {
		t.Fatal(err)
	}

	ch := character.New("c", character.Identity{Name: "Kim"}, time.Now())
	ch.History = []character.HistoryEntry{{EventID: "seen"}}

	got, ok := c.Next(ch, "level_1", firstPicker{})
	if !ok || got.ID != "fresh" {
		t.Fatalf("Next() = %q, %v; want fresh", got.ID, ok)
	}

	ch.History = append(ch.History, character.HistoryEntry{EventID: "fresh"})
	got, ok = c.Next(ch, "level_1", firstPicker{})
	if !ok || got.ID != "seen" {
		t.Fatalf("Next() with everything seen = %q, %v; want first eligible", got.ID, ok)
	}
}

func TestOpenEndedAgeWindow(t *testing.T) {
	c, err := NewCatalog([]Event{
		{ID: "any_age", MinAge: 10, Options: []Option{{Label: "A"}}},
	})
	if err != nil {
		t.Fatal(err)
	}

	ch := character.New("c", character.Identity{Name: "Kim"}, time.Now())
	for _, age := range []int{10, 150, 151, 1000} {
		ch.Age = age
		if got, ok := c.Next(ch, "level_5", firstPicker{}); !ok || got.ID != "any_age" {
			t.Errorf("age %d: Next() = %q, %v", age, got.ID, ok)
		}
	}

	ch.Age = 9
	if _, ok := c.Next(ch, "level_5", firstPicker{}); ok {
		t.Error("min_age still applies to an open-ended event")
	}
}

func TestNextWithNothingEligible(t *testing.T) {
	c, err := NewCatalog([]Event{{ID: "kid", MaxAge: 5, Options: []Option{{Label: "A"}}}})
	if err != nil {
		t.Fatal(err)
	}

	ch := character.New("c", character.Identity{Name: "Kim"}, time.Now())
	ch.Age = 40

	if _, ok := c.Next(ch, "level_3", firstPicker{}); ok {
		t.Error("expected no event")
	}
}
