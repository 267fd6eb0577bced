package game

import (
	"math"
	"reflect"
	"testing"
	"time"

	"lifesim-server/internal/character"
	"lifesim-server/internal/shared/errors"
)

var ledgerNow = time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

func newTestLedger() *Ledger {
	return NewLedger(DefaultLevels(), 50, 24*time.Hour)
}

func TestStartLevelInsufficientFundsLeavesStateUnchanged(t *testing.T) {
	l := newTestLedger()
	st := NewGameState("level_1", 50)
	st.unlock("level_2")
	before := st.clone()

	err := l.StartLevel(&st, "level_2", 18, ledgerNow)

	if errors.GetType(err) != errors.ErrorTypeInsufficientFunds {
		t.Fatalf("error type = %q (%v), want insufficient_funds", errors.GetType(err), err)
	}
	if !reflect.DeepEqual(st, before) {
		t.Errorf("state changed on failure:\n got  %+v\n want %+v", st, before)
	}
}

func TestStartLevelLocked(t *testing.T) {
	l := newTestLedger()
	st := NewGameState("level_1", 5000)

	err := l.StartLevel(&st, "level_3", 30, ledgerNow)
	if errors.GetType(err) != errors.ErrorTypeLocked {
		t.Fatalf("error type = %q, want locked", errors.GetType(err))
	}
	if st.InProgress() {
		t.Error("locked level should not start")
	}
}

func TestStartLevelEntryAlwaysUnlocked(t *testing.T) {
	l := newTestLedger()
	st := GameState{} // not even the entry level recorded

	if err := l.StartLevel(&st, "level_1", 0, ledgerNow); err != nil {
		t.Fatalf("StartLevel(level_1) error: %v", err)
	}
	if st.CurrentLevel != "level_1" || st.LevelStartedAt == nil || !st.LevelStartedAt.Equal(ledgerNow) {
		t.Errorf("state after start = %+v", st)
	}
}

func TestStartLevelDoesNotDeductCrystals(t *testing.T) {
	l := newTestLedger()
	st := NewGameState("level_1", 150)
	st.unlock("level_2")

	if err := l.StartLevel(&st, "level_2", 18, ledgerNow); err != nil {
		t.Fatalf("StartLevel error: %v", err)
	}
	if st.Crystals != 150 {
		t.Errorf("crystals = %d, want 150", st.Crystals)
	}
}

func TestStartLevelErrors(t *testing.T) {
	l := newTestLedger()

	st := NewGameState("level_1", 0)
	if err := l.StartLevel(&st, "level_99", 0, ledgerNow); errors.GetType(err) != errors.ErrorTypeNotFound {
		t.Errorf("unknown level: %v", err)
	}

	st.CurrentLevel = "level_1"
	if err := l.StartLevel(&st, "level_1", 0, ledgerNow); errors.GetType(err) != errors.ErrorTypeConflict {
		t.Errorf("level in progress: %v", err)
	}
}

func TestReward(t *testing.T) {
	lvl := Level{ID: "x", CompletionBonus: 50}

	tests := []struct {
		name   string
		age    int
		wealth float64
		want   int
	}{
		{"nothing extra", 9, 999, 50},
		{"decades", 18, 0, 60},
		{"wealth", 0, 2500, 60},
		{"both", 47, 10_999.99, 50 + 40 + 50},
		{"negative wealth ignored", 20, -500, 70},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Reward(lvl, tt.age, tt.wealth); got != tt.want {
				t.Errorf("Reward(%d, %v) = %d, want %d", tt.age, tt.wealth, got, tt.want)
			}
		})
	}
}

func TestEndGameSuccessCreditsAndUnlocksNext(t *testing.T) {
	l := newTestLedger()
	st := NewGameState("level_1", 0)
	if err := l.StartLevel(&st, "level_1", 0, ledgerNow); err != nil {
		t.Fatal(err)
	}

	out, err := l.EndGame(&st, true, 18, 3000, ledgerNow.Add(90*time.Second))
	if err != nil {
		t.Fatalf("EndGame error: %v", err)
	}

	wantReward := 50 + 10 + 15
	if out.Reward != wantReward || st.Crystals != wantReward {
		t.Errorf("reward = %d, crystals = %d, want %d", out.Reward, st.Crystals, wantReward)
	}
	if out.UnlockedLevel != "level_2" || !st.IsUnlocked("level_2") {
		t.Errorf("level_2 not unlocked: %+v", out)
	}
	if !st.IsCompleted("level_1") {
		t.Error("level_1 not marked completed")
	}
	if st.InProgress() || st.GamesPlayed != 1 || st.PlayTimeSeconds != 90 {
		t.Errorf("session bookkeeping = %+v", st)
	}

}

func TestStartLevelRejectsCompletedLevel(t *testing.T) {
	l := newTestLedger()
	st := NewGameState("level_1", 0)

	if err := l.StartLevel(&st, "level_1", 0, ledgerNow); err != nil {
		t.Fatal(err)
	}
	if _, err := l.EndGame(&st, true, 18, 0, ledgerNow); err != nil {
		t.Fatal(err)
	}
	before := st.clone()

	for range 3 {
		err := l.StartLevel(&st, "level_1", 18, ledgerNow)
		if errors.GetType(err) != errors.ErrorTypeConflict {
			t.Fatalf("error = %v, want conflict", err)
		}
	}
	if !reflect.DeepEqual(st, before) {
		t.Errorf("state changed on rejected replay:\n got  %+v\n want %+v", st, before)
	}
	if st.Crystals != 60 {
		t.Errorf("crystals = %d, want a single payout of 60", st.Crystals)
	}
	if got := l.Status(st, l.Levels().Entry()); got != LevelStatusCompleted {
		t.Errorf("status = %q, want completed", got)
	}
}

func TestRewardSaturates(t *testing.T) {
	lvl, _ := DefaultLevels().Get("level_1")

	tests := []struct {
		name   string
		wealth float64
	}{
		{"huge wealth", 1e25},
		{"infinite wealth", math.Inf(1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Reward(lvl, 18, tt.wealth); got != MaxReward {
				t.Errorf("Reward = %d, want %d", got, MaxReward)
			}
		})
	}
}

func TestEndGameFailureYieldsNothing(t *testing.T) {
	l := newTestLedger()
	st := NewGameState("level_1", 20)
	if err := l.StartLevel(&st, "level_1", 0, ledgerNow); err != nil {
		t.Fatal(err)
	}

	out, err := l.EndGame(&st, false, 95, 5_000_000, ledgerNow)
	if err != nil {
		t.Fatalf("EndGame error: %v", err)
	}
	if out.Reward != 0 || out.UnlockedLevel != "" {
		t.Errorf("failure outcome = %+v", out)
	}
	if st.Crystals != 20 || st.IsUnlocked("level_2") || st.IsCompleted("level_1") {
		t.Errorf("failure changed ledger: %+v", st)
	}
	if st.InProgress() {
		t.Error("level should be closed after failure")
	}
}

func TestEndGameWithoutLevel(t *testing.T) {
	l := newTestLedger()
	st := NewGameState("level_1", 0)

	if _, err := l.EndGame(&st, true, 10, 0, ledgerNow); errors.GetType(err) != errors.ErrorTypeValidation {
		t.Fatalf("error = %v, want validation", err)
	}
}

func TestLastLevelUnlocksNothing(t *testing.T) {
	l := newTestLedger()
	st := NewGameState("level_1", 1000)
	for _, id := range []string{"level_2", "level_3", "level_4", "level_5"} {
		st.unlock(id)
	}
	if err := l.StartLevel(&st, "level_5", 60, ledgerNow); err != nil {
		t.Fatal(err)
	}

	out, err := l.EndGame(&st, true, 90, 0, ledgerNow)
	if err != nil {
		t.Fatal(err)
	}
	if out.UnlockedLevel != "" {
		t.Errorf("unlocked %q after the last level", out.UnlockedLevel)
	}
}

func TestClaimDailyRewardTwiceWithinAnHour(t *testing.T) {
	l := newTestLedger()
	st := NewGameState("level_1", 0)

	first, err := l.ClaimDailyReward(&st, ledgerNow)
	if err != nil {
		t.Fatalf("first claim error: %v", err)
	}
	if first.Granted != 50 || st.Crystals != 50 {
		t.Fatalf("first claim = %+v, crystals %d", first, st.Crystals)
	}

	_, err = l.ClaimDailyReward(&st, ledgerNow.Add(time.Hour))
	if errors.GetType(err) != errors.ErrorTypeTooSoon {
		t.Fatalf("second claim error = %v, want too_soon", err)
	}
	remaining, ok := errors.RetryAfter(err)
	if !ok || remaining <= 0 || remaining != 23*time.Hour {
		t.Errorf("remaining = %v (%v), want 23h", remaining, ok)
	}
	if st.Crystals != 50 {
		t.Errorf("crystals = %d, balance should increase only once", st.Crystals)
	}
	if !st.LastDailyReward.Equal(ledgerNow) {
		t.Errorf("claim time moved to %v", st.LastDailyReward)
	}
}

func TestClaimDailyRewardAfterCooldown(t *testing.T) {
	l := newTestLedger()
	st := NewGameState("level_1", 0)

	if _, err := l.ClaimDailyReward(&st, ledgerNow); err != nil {
		t.Fatal(err)
	}
	got, err := l.ClaimDailyReward(&st, ledgerNow.Add(24*time.Hour))
	if err != nil {
		t.Fatalf("claim after cooldown error: %v", err)
	}
	if got.Crystals != 100 || !got.NextClaimAt.Equal(ledgerNow.Add(48*time.Hour)) {
		t.Errorf("claim = %+v", got)
	}
}

func TestSpend(t *testing.T) {
	l := newTestLedger()
	st := NewGameState("level_1", 30)

	if err := l.Spend(&st, 40); errors.GetType(err) != errors.ErrorTypeInsufficientFunds {
		t.Errorf("overspend error = %v", err)
	}
	if st.Crystals != 30 {
		t.Errorf("crystals after failed spend = %d", st.Crystals)
	}
	if err := l.Spend(&st, -1); errors.GetType(err) != errors.ErrorTypeValidation {
		t.Errorf("negative spend error = %v", err)
	}
	if err := l.Spend(&st, 30); err != nil || st.Crystals != 0 {
		t.Errorf("exact spend: err %v, crystals %d", err, st.Crystals)
	}
}

func TestLevelStatus(t *testing.T) {
	l := newTestLedger()
	st := NewGameState("level_1", 120)
	st.unlock("level_2")
	st.unlock("level_3")
	st.complete("level_1")

	want := map[string]LevelStatus{
		"level_1": LevelStatusCompleted,
		"level_2": LevelStatusPlayable,
		"level_3": LevelStatusInsufficientFunds,
		"level_4": LevelStatusLocked,
		"level_5": LevelStatusLocked,
	}
	for _, v := range l.View(st) {
		if v.Status != want[v.ID] {
			t.Errorf("%s status = %q, want %q", v.ID, v.Status, want[v.ID])
		}
	}
}

func TestAwardAchievements(t *testing.T) {
	l := newTestLedger()
	st := NewGameState("level_1", 0)
	ch := character.New("c", character.Identity{Name: "Ada"}, ledgerNow)

	if got := l.AwardAchievements(&st, &ch, ledgerNow); len(got) != 0 {
		t.Fatalf("fresh character earned %v", got)
	}

	ch.History = append(ch.History, character.HistoryEntry{EventID: "first_steps"})
	ch.Stats.Wealth = 1_000_000
	ch.Age = 100
	got := l.AwardAchievements(&st, &ch, ledgerNow)
	want := []string{"first_choice", "millionaire", "centenarian"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("awarded %v, want %v", got, want)
	}

	// Already earned achievements are not awarded twice and never revoked.
	ch.Stats.Wealth = 0
	if again := l.AwardAchievements(&st, &ch, ledgerNow.Add(time.Hour)); len(again) != 0 {
		t.Errorf("re-awarded %v", again)
	}
	if !st.HasAchievement("millionaire") || !st.Achievements["millionaire"].Equal(ledgerNow) {
		t.Error("millionaire achievement lost or re-stamped")
	}
}

func TestAwardAllLevelsComplete(t *testing.T) {
	l := newTestLedger()
	st := NewGameState("level_1", 0)
	for _, lvl := range l.Levels().All() {
		st.complete(lvl.ID)
	}

	got := l.AwardAchievements(&st, nil, ledgerNow)
	want := []string{"first_level_complete", "all_levels_complete"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("awarded %v, want %v", got, want)
	}
}
