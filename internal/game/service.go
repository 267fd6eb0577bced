package game

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"strings"
	"sync"

	"lifesim-server/internal/character"
	"lifesim-server/internal/event"
	"lifesim-server/internal/shared/errors"
	"lifesim-server/internal/storage"

	lru "github.com/hashicorp/golang-lru/v2"
)

const lockStripes = 64

type Options struct {
	YearsPerChoice    int
	RewindCostPerStep int
	StartingCrystals  int
	SessionCacheSize  int
}

type sharedPicker struct{}

func (sharedPicker) IntN(n int) int { return rand.IntN(n) }

// Service runs a player's game: character creation, the event loop, rewinds
// and the level ledger. Sessions are held in an LRU cache and written
// through to the store after every change.
type Service struct {
	store    storage.Store
	engine   *character.Engine
	events   *event.Catalog
	levels   *LevelCatalog
	ledger   *Ledger
	picker   event.Picker
	cfg      Options
	sessions *lru.Cache[int, *Session]
	locks    [lockStripes]sync.Mutex
	logger   *slog.Logger
}

func NewService(
	store storage.Store,
	engine *character.Engine,
	events *event.Catalog,
	ledger *Ledger,
	cfg Options,
	logger *slog.Logger,
) (*Service, error) {
	if cfg.SessionCacheSize <= 0 {
		cfg.SessionCacheSize = 1024
	}
	if cfg.YearsPerChoice < 0 {
		cfg.YearsPerChoice = 0
	}

	sessions, err := lru.New[int, *Session](cfg.SessionCacheSize)
	if err != nil {
		return nil, err
	}

	return &Service{
		store:    store,
		engine:   engine,
		events:   events,
		levels:   ledger.Levels(),
		ledger:   ledger,
		picker:   sharedPicker{},
		cfg:      cfg,
		sessions: sessions,
		logger:   logger.With("component", "game_service"),
	}, nil
}

func (svc *Service) lockFor(playerID int) *sync.Mutex {
	return &svc.locks[uint(playerID)%lockStripes]
}

// session returns the cached session, loading it on a miss. The caller must
// hold the player's lock.
func (svc *Service) session(ctx context.Context, playerID int) (*Session, error) {
	if sess, ok := svc.sessions.Get(playerID); ok {
		return sess, nil
	}
	sess, err := svc.loadSession(ctx, playerID)
	if err != nil {
		return nil, err
	}
	svc.sessions.Add(playerID, sess)
	return sess, nil
}

// update runs fn under the player's lock and persists the session when fn
// succeeds. fn must not modify the session before it can no longer fail.
func (svc *Service) update(ctx context.Context, playerID int, fn func(*Session) error) error {
	mu := svc.lockFor(playerID)
	mu.Lock()
	defer mu.Unlock()

	sess, err := svc.session(ctx, playerID)
	if err != nil {
		return err
	}
	if err := fn(sess); err != nil {
		return err
	}
	svc.persist(ctx, sess)
	return nil
}

func (svc *Service) view(ctx context.Context, playerID int, fn func(*Session) error) error {
	mu := svc.lockFor(playerID)
	mu.Lock()
	defer mu.Unlock()

	sess, err := svc.session(ctx, playerID)
	if err != nil {
		return err
	}
	return fn(sess)
}

func requireCharacter(sess *Session) (*character.Character, error) {
	if sess.Character == nil {
		return nil, errors.NotFoundf("no character created yet")
	}
	return sess.Character, nil
}

func requireLiving(sess *Session) (*character.Character, error) {
	ch, err := requireCharacter(sess)
	if err != nil {
		return nil, err
	}
	if !ch.IsAlive {
		return nil, errors.Validationf("%s has died (%s); rewind or start a new life", ch.Name, ch.DeathCause)
	}
	return ch, nil
}

// CreateCharacter starts a new life, replacing any previous character.
func (svc *Service) CreateCharacter(ctx context.Context, playerID int, identity character.Identity) (character.Character, error) {
	logger := svc.logger.With("operation", "create_character", "player_id", playerID)

	identity = character.SanitizeIdentity(identity)
	now := svc.engine.Now()
	if err := character.ValidateIdentity(identity, now.Year()); err != nil {
		return character.Character{}, err
	}

	var created character.Character
	err := svc.update(ctx, playerID, func(sess *Session) error {
		if sess.State.InProgress() {
			return errors.Conflictf("level %q is in progress; abandon it before starting a new life", sess.State.CurrentLevel)
		}
		created = character.New(svc.engine.NewID(), identity, now)
		sess.Character = &created
		sess.State.PendingEvent = ""
		return nil
	})
	if err != nil {
		return character.Character{}, err
	}

	logger.Info("Character created", "character_id", created.ID, "birth_year", created.BirthYear)
	return created, nil
}

func (svc *Service) GetSession(ctx context.Context, playerID int) (Snapshot, error) {
	var snap Snapshot
	err := svc.view(ctx, playerID, func(sess *Session) error {
		snap = sess.snapshot()
		return nil
	})
	return snap, err
}

func (svc *Service) GetCharacter(ctx context.Context, playerID int) (character.Character, error) {
	var ch character.Character
	err := svc.view(ctx, playerID, func(sess *Session) error {
		c, err := requireCharacter(sess)
		if err != nil {
			return err
		}
		ch = *c
		return nil
	})
	return ch, err
}

// NextEvent returns the event awaiting a choice, drawing a new one when none
// is pending. The drawn event stays pending until it is answered.
func (svc *Service) NextEvent(ctx context.Context, playerID int) (event.Event, error) {
	var ev event.Event
	err := svc.update(ctx, playerID, func(sess *Session) error {
		ch, err := requireLiving(sess)
		if err != nil {
			return err
		}
		if !sess.State.InProgress() {
			return errors.Validation("start a level before playing events")
		}

		if pending, ok := svc.events.Get(sess.State.PendingEvent); ok {
			ev = pending
			return nil
		}

		next, ok := svc.events.Next(*ch, sess.State.CurrentLevel, svc.picker)
		if !ok {
			return errors.NotFoundf("no event available at age %d", ch.Age)
		}
		ev = next
		sess.State.PendingEvent = next.ID
		return nil
	})
	return ev, err
}

// Choose answers the pending event. The level's base risk is folded into the
// option's death chance. The level ends on death, or successfully once the
// character has lived through its duration.
func (svc *Service) Choose(ctx context.Context, playerID int, eventID, label string) (ChoiceResult, error) {
	logger := svc.logger.With("operation", "choose", "player_id", playerID, "event_id", eventID)
	label = strings.ToUpper(strings.TrimSpace(label))

	var result ChoiceResult
	err := svc.update(ctx, playerID, func(sess *Session) error {
		ch, err := requireLiving(sess)
		if err != nil {
			return err
		}
		st := &sess.State
		if !st.InProgress() {
			return errors.Validation("start a level before playing events")
		}
		if st.PendingEvent == "" {
			return errors.Validation("no event is waiting for a choice")
		}
		if st.PendingEvent != eventID {
			return errors.Validationf("event %q is not the current event", eventID)
		}
		ev, ok := svc.events.Get(eventID)
		if !ok {
			return errors.NotFoundf("event %q not found", eventID)
		}
		opt, ok := ev.Option(label)
		if !ok {
			return errors.Validationf("event %q has no option %q", eventID, label)
		}
		lvl, ok := svc.levels.Get(st.CurrentLevel)
		if !ok {
			return errors.NotFoundf("level %q not found", st.CurrentLevel)
		}

		choice := character.Choice{
			EventID: ev.ID,
			Option:  opt.Label,
			Effects: withLevelRisk(opt.Effects, lvl.DeathChance),
			Years:   opt.YearsOr(svc.cfg.YearsPerChoice),
		}
		if opt.Effects.DeathChance == 0 {
			choice.ChanceCause = character.AccidentDeathCause
		}

		next, died := svc.engine.Choose(*ch, choice)
		sess.Character = &next
		st.PendingEvent = ""

		now := svc.engine.Now()
		result = ChoiceResult{
			Character: next,
			EventID:   ev.ID,
			Option:    opt.Label,
			Died:      died,
		}

		if died || next.Age-st.LevelStartAge >= lvl.DurationYears {
			out, err := svc.ledger.EndGame(st, !died, next.Age, next.Stats.Wealth, now)
			if err != nil {
				return err
			}
			result.Outcome = &out
			logger.Info("Level ended",
				"level_id", out.LevelID,
				"success", out.Success,
				"reward", out.Reward,
				"death_cause", next.DeathCause)
		}

		result.Achievements = svc.ledger.AwardAchievements(st, &next, now)
		result.State = st.clone()
		return nil
	})
	if err != nil {
		return ChoiceResult{}, err
	}

	logger.Debug("Choice applied", "option", result.Option, "age", result.Character.Age, "died", result.Died)
	return result, nil
}

// withLevelRisk combines an option's death chance with a level's base risk as
// independent events.
func withLevelRisk(e character.Effects, levelRisk float64) character.Effects {
	if levelRisk <= 0 {
		return e
	}
	e.DeathChance = 1 - (1-e.DeathChance)*(1-levelRisk)
	return e
}

// Rewind undoes the last steps choices for a crystal fee of steps times the
// per-step cost. A rewind that would do nothing is free.
func (svc *Service) Rewind(ctx context.Context, playerID int, steps int) (RewindResult, error) {
	logger := svc.logger.With("operation", "rewind", "player_id", playerID, "steps", steps)

	if steps < 0 {
		return RewindResult{}, errors.Validationf("steps must not be negative, got %d", steps)
	}

	var result RewindResult
	err := svc.update(ctx, playerID, func(sess *Session) error {
		ch, err := requireCharacter(sess)
		if err != nil {
			return err
		}
		st := &sess.State

		if steps == 0 || steps > len(ch.History) {
			result = RewindResult{Character: *ch, Crystals: st.Crystals}
			return nil
		}

		cost := steps * svc.cfg.RewindCostPerStep
		if err := svc.ledger.Spend(st, cost); err != nil {
			return err
		}

		next := svc.engine.Rewind(*ch, steps)
		sess.Character = &next
		st.PendingEvent = ""
		if st.InProgress() && next.Age < st.LevelStartAge {
			st.LevelStartAge = next.Age
		}

		result = RewindResult{
			Character: next,
			Steps:     steps,
			Cost:      cost,
			Crystals:  st.Crystals,
		}
		return nil
	})
	if err != nil {
		return RewindResult{}, err
	}

	if result.Steps > 0 {
		logger.Info("Character rewound", "cost", result.Cost, "age", result.Character.Age)
	}
	return result, nil
}

func (svc *Service) Levels(ctx context.Context, playerID int) ([]LevelView, error) {
	var views []LevelView
	err := svc.view(ctx, playerID, func(sess *Session) error {
		views = svc.ledger.View(sess.State)
		return nil
	})
	return views, err
}

// StartLevel begins a level with the current character. A dead character
// cannot start a level.
func (svc *Service) StartLevel(ctx context.Context, playerID int, levelID string) (GameState, error) {
	logger := svc.logger.With("operation", "start_level", "player_id", playerID, "level_id", levelID)

	var st GameState
	err := svc.update(ctx, playerID, func(sess *Session) error {
		ch, err := requireLiving(sess)
		if err != nil {
			return err
		}
		if err := svc.ledger.StartLevel(&sess.State, levelID, ch.Age, svc.engine.Now()); err != nil {
			return err
		}
		st = sess.State.clone()
		return nil
	})
	if err != nil {
		return GameState{}, err
	}

	logger.Info("Level started", "start_age", st.LevelStartAge)
	return st, nil
}

// AbandonLevel ends the level in progress as a failure.
func (svc *Service) AbandonLevel(ctx context.Context, playerID int) (Outcome, error) {
	var out Outcome
	err := svc.update(ctx, playerID, func(sess *Session) error {
		var age int
		var wealth float64
		if sess.Character != nil {
			age, wealth = sess.Character.Age, sess.Character.Stats.Wealth
		}
		o, err := svc.ledger.EndGame(&sess.State, false, age, wealth, svc.engine.Now())
		if err != nil {
			return err
		}
		out = o
		return nil
	})
	if err != nil {
		return Outcome{}, err
	}

	svc.logger.Info("Level abandoned", "player_id", playerID, "level_id", out.LevelID)
	return out, nil
}

func (svc *Service) ClaimDailyReward(ctx context.Context, playerID int) (DailyReward, error) {
	var reward DailyReward
	err := svc.update(ctx, playerID, func(sess *Session) error {
		r, err := svc.ledger.ClaimDailyReward(&sess.State, svc.engine.Now())
		if err != nil {
			return err
		}
		reward = r
		return nil
	})
	if err != nil {
		return DailyReward{}, err
	}

	svc.logger.Info("Daily reward claimed", "player_id", playerID, "granted", reward.Granted, "crystals", reward.Crystals)
	return reward, nil
}

func (svc *Service) UpdateSettings(ctx context.Context, playerID int, settings Settings) (Settings, error) {
	settings.Language = strings.ToLower(strings.TrimSpace(settings.Language))
	if err := ValidateSettings(settings); err != nil {
		return Settings{}, err
	}

	err := svc.update(ctx, playerID, func(sess *Session) error {
		sess.State.Settings = settings
		return nil
	})
	if err != nil {
		return Settings{}, err
	}
	return settings, nil
}

func (svc *Service) Achievements(ctx context.Context, playerID int) ([]AchievementView, error) {
	var views []AchievementView
	err := svc.view(ctx, playerID, func(sess *Session) error {
		views = make([]AchievementView, 0, len(achievements))
		for _, a := range achievements {
			v := AchievementView{Achievement: a}
			if at, ok := sess.State.Achievements[a.ID]; ok {
				v.EarnedAt = &at
			}
			views = append(views, v)
		}
		return nil
	})
	return views, err
}
