package game

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"lifesim-server/internal/character"
	apperrors "lifesim-server/internal/shared/errors"
	"lifesim-server/internal/storage"
)

// Session is the in-memory authority for one player. It is only touched
// while the player's lock is held.
type Session struct {
	PlayerID  int
	Character *character.Character
	State     GameState
}

func characterKey(playerID int) string {
	return fmt.Sprintf("player:%d:character", playerID)
}

func stateKey(playerID int) string {
	return fmt.Sprintf("player:%d:state", playerID)
}

func (s *Session) snapshot() Snapshot {
	snap := Snapshot{State: s.State.clone()}
	if s.Character != nil {
		c := *s.Character
		snap.Character = &c
	}
	return snap
}

// loadSession reads both save blobs. Missing, corrupt or unparsable data
// yields defaults; any other store failure is returned so defaults never
// overwrite a save that could not be read.
func (svc *Service) loadSession(ctx context.Context, playerID int) (*Session, error) {
	logger := svc.logger.With("operation", "load_session", "player_id", playerID)

	sess := &Session{
		PlayerID: playerID,
		State:    NewGameState(svc.levels.Entry().ID, svc.cfg.StartingCrystals),
	}

	data, err := svc.loadBlob(ctx, logger, characterKey(playerID))
	if err != nil {
		return nil, err
	}
	if data != nil {
		var ch character.Character
		if err := json.Unmarshal(data, &ch); err != nil {
			logger.Warn("Discarding unparsable character", "error", err)
		} else {
			sess.Character = &ch
		}
	}

	data, err = svc.loadBlob(ctx, logger, stateKey(playerID))
	if err != nil {
		return nil, err
	}
	if data != nil {
		var st GameState
		if err := json.Unmarshal(data, &st); err != nil {
			logger.Warn("Discarding unparsable game state", "error", err)
		} else {
			sess.State = svc.normalize(st)
		}
	}

	logger.Debug("Session loaded", "has_character", sess.Character != nil)
	return sess, nil
}

func (svc *Service) loadBlob(ctx context.Context, logger *slog.Logger, key string) ([]byte, error) {
	data, err := svc.store.Load(ctx, key)
	if errors.Is(err, storage.ErrCorrupt) {
		logger.Warn("Discarding corrupt save data", "key", key, "error", err)
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.WrapExternal("failed to load saved game", err)
	}
	return data, nil
}

// normalize repairs state saved by older builds or edited by hand.
func (svc *Service) normalize(st GameState) GameState {
	st.unlock(svc.levels.Entry().ID)
	if st.CompletedLevels == nil {
		st.CompletedLevels = []string{}
	}
	if st.Achievements == nil {
		st.Achievements = map[string]time.Time{}
	}
	if st.Settings.Language == "" {
		st.Settings = DefaultSettings()
	}
	if st.Crystals < 0 {
		st.Crystals = 0
	}
	if st.CurrentLevel != "" {
		if _, ok := svc.levels.Get(st.CurrentLevel); !ok {
			st.CurrentLevel = ""
			st.LevelStartedAt = nil
			st.PendingEvent = ""
		}
	}
	return st
}

// persist writes the session through to the store. Failures are logged and
// the in-memory session stays authoritative.
func (svc *Service) persist(ctx context.Context, sess *Session) {
	logger := svc.logger.With("operation", "persist_session", "player_id", sess.PlayerID)

	if sess.Character != nil {
		svc.saveBlob(ctx, logger, characterKey(sess.PlayerID), sess.Character)
	}
	svc.saveBlob(ctx, logger, stateKey(sess.PlayerID), sess.State)
}

func (svc *Service) saveBlob(ctx context.Context, logger *slog.Logger, key string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		logger.Error("Failed to encode save data", "key", key, "error", err)
		return
	}
	if err := svc.store.Save(ctx, key, data); err != nil {
		logger.Error("Failed to persist save data, keeping in-memory state", "key", key, "error", err)
	}
}
