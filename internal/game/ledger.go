package game

import (
	"math"
	"time"

	"lifesim-server/internal/shared/errors"
)

// Ledger owns level gating and the crystal balance. Every method either
// succeeds and updates the state or fails and leaves it untouched.
type Ledger struct {
	levels        *LevelCatalog
	dailyAmount   int
	dailyCooldown time.Duration
}

func NewLedger(levels *LevelCatalog, dailyAmount int, dailyCooldown time.Duration) *Ledger {
	return &Ledger{
		levels:        levels,
		dailyAmount:   dailyAmount,
		dailyCooldown: dailyCooldown,
	}
}

func (l *Ledger) Levels() *LevelCatalog {
	return l.levels
}

// Status reports how the player stands with a level.
func (l *Ledger) Status(st GameState, lvl Level) LevelStatus {
	switch {
	case st.IsCompleted(lvl.ID):
		return LevelStatusCompleted
	case !l.isUnlocked(st, lvl.ID):
		return LevelStatusLocked
	case st.Crystals < lvl.RequiredCrystals:
		return LevelStatusInsufficientFunds
	default:
		return LevelStatusPlayable
	}
}

func (l *Ledger) View(st GameState) []LevelView {
	all := l.levels.All()
	views := make([]LevelView, 0, len(all))
	for _, lvl := range all {
		views = append(views, LevelView{Level: lvl, Status: l.Status(st, lvl)})
	}
	return views
}

func (l *Ledger) isUnlocked(st GameState, levelID string) bool {
	return levelID == l.levels.Entry().ID || st.IsUnlocked(levelID)
}

// StartLevel begins levelID at the character's current age. The crystal
// requirement is a gate; nothing is deducted. A completed level stays
// completed and cannot be played again.
func (l *Ledger) StartLevel(st *GameState, levelID string, age int, now time.Time) error {
	lvl, ok := l.levels.Get(levelID)
	if !ok {
		return errors.NotFoundf("level %q not found", levelID)
	}
	if st.InProgress() {
		return errors.Conflictf("level %q is already in progress", st.CurrentLevel)
	}
	if st.IsCompleted(levelID) {
		return errors.Conflictf("level %q already completed", levelID)
	}
	if !l.isUnlocked(*st, levelID) {
		return errors.Lockedf("level %q is locked", levelID)
	}
	if st.Crystals < lvl.RequiredCrystals {
		return errors.InsufficientFundsf("level %q requires %d crystals, you have %d",
			levelID, lvl.RequiredCrystals, st.Crystals)
	}

	started := now
	st.CurrentLevel = levelID
	st.LevelStartAge = age
	st.LevelStartedAt = &started
	st.PendingEvent = ""
	return nil
}

// EndGame closes the level in progress. Success credits the reward, marks the
// level completed and unlocks the next one; failure yields nothing.
func (l *Ledger) EndGame(st *GameState, success bool, finalAge int, finalWealth float64, now time.Time) (Outcome, error) {
	if !st.InProgress() {
		return Outcome{}, errors.Validation("no level in progress")
	}
	lvl, ok := l.levels.Get(st.CurrentLevel)
	if !ok {
		return Outcome{}, errors.NotFoundf("level %q not found", st.CurrentLevel)
	}

	out := Outcome{
		LevelID:     lvl.ID,
		Success:     success,
		FinalAge:    finalAge,
		FinalWealth: finalWealth,
	}

	if success {
		out.Reward = Reward(lvl, finalAge, finalWealth)
		st.Crystals += out.Reward
		st.complete(lvl.ID)
		if next, ok := l.levels.Next(lvl.ID); ok && st.unlock(next.ID) {
			out.UnlockedLevel = next.ID
		}
	}

	if st.LevelStartedAt != nil {
		if played := now.Sub(*st.LevelStartedAt); played > 0 {
			st.PlayTimeSeconds += int64(played / time.Second)
		}
	}
	st.GamesPlayed++
	st.CurrentLevel = ""
	st.LevelStartAge = 0
	st.LevelStartedAt = nil
	st.PendingEvent = ""

	return out, nil
}

// MaxReward caps a single payout.
const MaxReward = math.MaxInt32

// Reward is the crystal payout for completing lvl:
// the completion bonus, plus 10 per full decade of age, plus 5 per full 1000 of wealth.
// The sum saturates at MaxReward.
func Reward(lvl Level, finalAge int, finalWealth float64) int {
	reward := float64(lvl.CompletionBonus)
	if finalAge > 0 {
		reward += float64(finalAge / 10 * 10)
	}
	if finalWealth > 0 {
		reward += math.Floor(finalWealth/1000) * 5
	}
	if reward > MaxReward || math.IsNaN(reward) {
		return MaxReward
	}
	return int(reward)
}

// ClaimDailyReward credits the daily amount once per cooldown window.
func (l *Ledger) ClaimDailyReward(st *GameState, now time.Time) (DailyReward, error) {
	if st.LastDailyReward != nil {
		next := st.LastDailyReward.Add(l.dailyCooldown)
		if now.Before(next) {
			remaining := next.Sub(now)
			return DailyReward{}, errors.TooSoon("daily reward already claimed", remaining)
		}
	}

	claimed := now
	st.LastDailyReward = &claimed
	st.Crystals += l.dailyAmount

	return DailyReward{
		Granted:     l.dailyAmount,
		Crystals:    st.Crystals,
		NextClaimAt: now.Add(l.dailyCooldown),
	}, nil
}

// Spend deducts amount crystals, refusing to go negative.
func (l *Ledger) Spend(st *GameState, amount int) error {
	if amount < 0 {
		return errors.Validationf("cannot spend a negative amount (%d)", amount)
	}
	if st.Crystals < amount {
		return errors.InsufficientFundsf("this costs %d crystals, you have %d", amount, st.Crystals)
	}
	st.Crystals -= amount
	return nil
}
