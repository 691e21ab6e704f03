package session

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/peterkuimelis/cuttle/internal/game"
)

// StoreOptions injects the store's collaborators. The zero value uses the
// wall clock, random uuids, and a clock-seeded random opponent.
type StoreOptions struct {
	Now   func() time.Time
	NewID func() string
	AI    func() game.Chooser // built once per session that wants an opponent
}

// Store is a thread-safe in-memory registry of game sessions.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*Session

	now   func() time.Time
	newID func() string
	newAI func() game.Chooser
}

func NewStore(opts StoreOptions) *Store {
	st := &Store{
		sessions: make(map[string]*Session),
		now:      opts.Now,
		newID:    opts.NewID,
		newAI:    opts.AI,
	}
	if st.now == nil {
		st.now = time.Now
	}
	if st.newID == nil {
		st.newID = func() string {
			return strings.ReplaceAll(uuid.NewString(), "-", "")
		}
	}
	if st.newAI == nil {
		st.newAI = func() game.Chooser {
			return game.NewRandomChooser(0)
		}
	}
	return st
}

// CreateOptions configures a new session.
type CreateOptions struct {
	UseAI bool
	Seed  int64
}

// Create deals a new game and registers it under a fresh session id.
func (st *Store) Create(opts CreateOptions) (*Session, error) {
	g, err := game.NewGame(game.Options{Seed: opts.Seed, Now: st.now})
	if err != nil {
		return nil, err
	}

	st.mu.Lock()
	defer st.mu.Unlock()

	now := st.now()
	s := &Session{
		ID:        st.newID(),
		Game:      g,
		UseAI:     opts.UseAI,
		CreatedAt: now,
		UpdatedAt: now,
		Status:    StatusActive,
		watchers:  make(map[int]chan Update),
		now:       st.now,
	}
	if opts.UseAI {
		s.ai = st.newAI()
	}
	st.sessions[s.ID] = s
	return s, nil
}

// Get returns the session or ErrNotFound.
func (st *Store) Get(id string) (*Session, error) {
	st.mu.Lock()
	defer st.mu.Unlock()
	s, ok := st.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return s, nil
}

// Delete removes the session and tells its watchers.
func (st *Store) Delete(id string) error {
	st.mu.Lock()
	s, ok := st.sessions[id]
	if ok {
		delete(st.sessions, id)
	}
	st.mu.Unlock()
	if !ok {
		return ErrNotFound
	}

	s.Lock()
	s.closeWatchersLocked()
	s.Unlock()
	return nil
}

// Len returns the number of live sessions.
func (st *Store) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}

// Submit applies the actionID-th legal action to the session, provided the
// caller's state version is current. See Session.submit for the follow-up
// opponent play.
func (st *Store) Submit(ctx context.Context, id string, stateVersion, actionID int) (*Result, error) {
	s, err := st.Get(id)
	if err != nil {
		return nil, err
	}
	return s.submit(ctx, stateVersion, actionID)
}

// Watch subscribes to a session's updates. The returned cancel func must be
// called when the watcher is done; the channel closes when the watcher is
// cancelled or the session is deleted.
func (st *Store) Watch(id string) (<-chan Update, func(), error) {
	s, err := st.Get(id)
	if err != nil {
		return nil, nil, err
	}
	ch, watchID := s.addWatcher()
	cancel := func() { s.removeWatcher(watchID) }
	return ch, cancel, nil
}
