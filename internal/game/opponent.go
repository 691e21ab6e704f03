package game

import (
	"context"
	"errors"
	"math/rand"
	"time"
)

// Chooser picks one of the legal actions for a seat. Implementations range
// from scripted test players to the random opponent used for solo games;
// remote players submit actions through the session layer instead.
type Chooser interface {
	// ChooseAction presents the legal actions and waits for a pick.
	ChooseAction(ctx context.Context, state *State, actions []Action) (Action, error)
}

// RandomChooser picks uniformly among the legal actions.
type RandomChooser struct {
	rng *rand.Rand
}

// NewRandomChooser seeds a random opponent; seed 0 draws one from the clock.
func NewRandomChooser(seed int64) *RandomChooser {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &RandomChooser{rng: rand.New(rand.NewSource(seed))}
}

func (r *RandomChooser) ChooseAction(_ context.Context, _ *State, actions []Action) (Action, error) {
	if len(actions) == 0 {
		return Action{}, errors.New("no actions to choose from")
	}
	return actions[r.rng.Intn(len(actions))], nil
}

// FirstChooser always picks the first legal action. It is the fallback when
// a smarter chooser fails and a deterministic opponent for tests.
type FirstChooser struct{}

func (FirstChooser) ChooseAction(_ context.Context, _ *State, actions []Action) (Action, error) {
	if len(actions) == 0 {
		return Action{}, errors.New("no actions to choose from")
	}
	return actions[0], nil
}
