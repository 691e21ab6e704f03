package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/peterkuimelis/cuttle/internal/game"
)

// Session status values. The game's own status says who won; the session
// status says whether the API still accepts actions.
const (
	StatusActive = "active"
	StatusEnded  = "ended"
)

var (
	ErrNotFound        = errors.New("session not found")
	ErrVersionConflict = errors.New("state version mismatch")
	ErrNoActions       = errors.New("no legal actions available")
	ErrInvalidAction   = errors.New("invalid action id")
)

// Update is what watchers receive after a session changes.
type Update struct {
	StateVersion int
	Status       string
	Deleted      bool
}

// Session wraps one game with the bookkeeping the API needs. The embedded
// mutex serializes submits; handlers hold it while rendering the live state
// so a concurrent submit cannot tear a view.
type Session struct {
	sync.Mutex

	ID           string
	Game         *game.Game
	UseAI        bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
	StateVersion int
	Status       string

	ai       game.Chooser
	watchers map[int]chan Update
	watchSeq int
	now      func() time.Time
}

// LegalActions returns the current legal set, or nil once the session has
// ended. Callers hold the session lock.
func (s *Session) LegalActions() []game.Action {
	if s.Status == StatusEnded {
		return nil
	}
	return s.Game.State.LegalActions()
}

// Result reports everything one submit changed: the chosen action plus any
// opponent actions applied on its heels, in order.
type Result struct {
	Session *Session
	Applied []game.Action
}

// submit validates and applies one player action, then lets the automatic
// opponent play until control returns to player 0 or the game ends.
func (s *Session) submit(ctx context.Context, stateVersion, actionID int) (*Result, error) {
	s.Lock()
	defer s.Unlock()

	if stateVersion != s.StateVersion {
		return nil, fmt.Errorf("%w: got %d, current %d", ErrVersionConflict, stateVersion, s.StateVersion)
	}
	actions := s.LegalActions()
	if len(actions) == 0 {
		return nil, ErrNoActions
	}
	if actionID < 0 || actionID >= len(actions) {
		return nil, fmt.Errorf("%w: %d not in [0, %d)", ErrInvalidAction, actionID, len(actions))
	}

	chosen := actions[actionID]
	if err := s.applyLocked(chosen); err != nil {
		return nil, err
	}
	applied := []game.Action{chosen}

	if s.Status != StatusEnded {
		more, err := s.runOpponentLocked(ctx)
		if err != nil {
			return nil, err
		}
		applied = append(applied, more...)
	}

	s.notifyLocked(Update{StateVersion: s.StateVersion, Status: s.Status})
	return &Result{Session: s, Applied: applied}, nil
}

// applyLocked applies one action the way the driver loop does and bumps the
// version. Caller holds the lock and has checked the action is legal.
func (s *Session) applyLocked(a game.Action) error {
	out, err := s.Game.Apply(a)
	if err != nil {
		return err
	}
	if out.ShouldStop {
		s.Status = StatusEnded
	} else {
		s.Game.State.Advance(out.TurnFinished)
	}
	s.StateVersion++
	s.UpdatedAt = s.now()
	return nil
}

// runOpponentLocked plays the automatic opponent while it holds the
// decision: its own turns, counter windows, and forced discards. A chooser
// failure or an off-list pick falls back to the first legal action.
func (s *Session) runOpponentLocked(ctx context.Context) ([]game.Action, error) {
	if !s.UseAI || s.ai == nil {
		return nil, nil
	}

	var applied []game.Action
	for s.Status == StatusActive && s.Game.State.CurrentActionPlayer == 1 {
		actions := s.Game.State.LegalActions()
		if len(actions) == 0 {
			s.Status = StatusEnded
			break
		}

		chosen, err := s.ai.ChooseAction(ctx, s.Game.State, actions)
		if err != nil || !inActionSet(chosen, actions) {
			chosen = actions[0]
		}
		if err := s.applyLocked(chosen); err != nil {
			return applied, err
		}
		applied = append(applied, chosen)
	}
	return applied, nil
}

func inActionSet(a game.Action, set []game.Action) bool {
	for _, b := range set {
		if a.Equal(b) {
			return true
		}
	}
	return false
}

// notifyLocked pushes an update to every watcher without blocking; a slow
// watcher just misses a ping and catches up on the next one.
func (s *Session) notifyLocked(u Update) {
	for _, ch := range s.watchers {
		select {
		case ch <- u:
		default:
		}
	}
}

// addWatcher registers a channel and returns its removal handle.
func (s *Session) addWatcher() (ch chan Update, id int) {
	s.Lock()
	defer s.Unlock()
	s.watchSeq++
	id = s.watchSeq
	ch = make(chan Update, 8)
	if s.watchers == nil {
		s.watchers = make(map[int]chan Update)
	}
	s.watchers[id] = ch
	return ch, id
}

// removeWatcher unregisters and closes a watcher channel. Safe to call
// after the session was deleted.
func (s *Session) removeWatcher(id int) {
	s.Lock()
	defer s.Unlock()
	if ch, ok := s.watchers[id]; ok {
		delete(s.watchers, id)
		close(ch)
	}
}

// closeWatchersLocked tells every watcher the session is gone.
func (s *Session) closeWatchersLocked() {
	for id, ch := range s.watchers {
		select {
		case ch <- Update{Status: s.Status, Deleted: true}:
		default:
		}
		delete(s.watchers, id)
		close(ch)
	}
}
