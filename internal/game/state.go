package game

// Terminal status markers for State.Status.
const (
	StatusActive = ""
	StatusWin    = "win"
)

// State is the authoritative model of a match in progress. Containers hold
// cards by reference: every card lives in exactly one of them, or as an
// attachment of exactly one field card.
type State struct {
	Hands   [2][]*Card
	Fields  [2][]*Card
	Deck    []*Card // top of deck is the last element (draws pop from the end)
	Discard []*Card

	Turn                int // whose root turn it is
	CurrentActionPlayer int // who must act next; differs from Turn mid-chain
	OverallTurn         int // bumped each time Turn wraps back to player 0

	Phase  Phase
	Status string
}

// NewState assembles a state from dealt hands and a draw pile. Player 0
// acts first.
func NewState(hands [2][]*Card, deck []*Card) *State {
	return &State{
		Hands: hands,
		Deck:  deck,
	}
}

// Opponent returns the index of the other player.
func (s *State) Opponent(player int) int {
	return 1 - player
}

// NextTurn hands the root turn to the other player: the action player is
// reset, any open phase is cleared, and the overall turn counter bumps when
// play wraps back to player 0.
func (s *State) NextTurn() {
	s.Turn = 1 - s.Turn
	s.CurrentActionPlayer = s.Turn
	if s.Turn == 0 {
		s.OverallTurn++
	}
	s.Phase.Reset()
}

// NextPlayer toggles only the action player. Used inside a counter chain,
// where the root turn stands still while the players alternate.
func (s *State) NextPlayer() {
	s.CurrentActionPlayer = 1 - s.CurrentActionPlayer
}

// Advance performs the standard between-actions transition a driver runs
// after Apply: the next root turn when the last one finished, the other
// chain participant while a counter chain is open, and no movement while a
// Three or Four resolution keeps the action pinned to one player.
func (s *State) Advance(turnFinished bool) {
	if turnFinished {
		s.NextTurn()
		return
	}
	if s.Phase.Kind == PhaseResolvingOneOff {
		s.NextPlayer()
	}
}

// GameOver reports whether a terminal status has been set.
func (s *State) GameOver() bool {
	return s.Status == StatusWin
}

// IsStalemate reports whether the deck is exhausted with no winner. The
// engine leaves acting on it to the driver.
func (s *State) IsStalemate() bool {
	return len(s.Deck) == 0 && s.Winner() == NoPlayer
}

// --- Container helpers ---

// HandContains reports whether the card is in the given player's hand.
func (s *State) HandContains(player int, c *Card) bool {
	return indexOfCard(s.Hands[player], c) >= 0
}

// FieldContains reports whether the card sits directly on the given
// player's field.
func (s *State) FieldContains(player int, c *Card) bool {
	return indexOfCard(s.Fields[player], c) >= 0
}

// DiscardContains reports whether the card is in the discard pile.
func (s *State) DiscardContains(c *Card) bool {
	return indexOfCard(s.Discard, c) >= 0
}

// RemoveFromHand removes the card from the player's hand, reporting whether
// it was there.
func (s *State) RemoveFromHand(player int, c *Card) bool {
	var ok bool
	s.Hands[player], ok = removeCard(s.Hands[player], c)
	return ok
}

// RemoveFromField removes the card from the player's field, reporting
// whether it was there.
func (s *State) RemoveFromField(player int, c *Card) bool {
	var ok bool
	s.Fields[player], ok = removeCard(s.Fields[player], c)
	return ok
}

// RemoveFromDiscard removes the card from the discard pile, reporting
// whether it was there.
func (s *State) RemoveFromDiscard(c *Card) bool {
	var ok bool
	s.Discard, ok = removeCard(s.Discard, c)
	return ok
}

// ToDiscard moves a card and its attachments to the discard pile, clearing
// player info on each. The attachment list is emptied so the pile holds
// every card directly; the host lands first, its attachments after it in
// stack order.
func (s *State) ToDiscard(c *Card) {
	attached := c.Attachments
	c.Attachments = nil
	c.ClearPlayerInfo()
	s.Discard = append(s.Discard, c)
	for _, a := range attached {
		a.ClearPlayerInfo()
		s.Discard = append(s.Discard, a)
	}
}

// FindCard locates a card anywhere in the state by id, attachments included.
// Returns nil if the id is unknown.
func (s *State) FindCard(id string) *Card {
	lists := [][]*Card{s.Hands[0], s.Hands[1], s.Fields[0], s.Fields[1], s.Deck, s.Discard}
	for _, list := range lists {
		for _, c := range list {
			if c.ID == id {
				return c
			}
			for _, a := range c.Attachments {
				if a.ID == id {
					return a
				}
			}
		}
	}
	return nil
}

// queenOnField reports whether the player has a Queen anywhere on their
// physical field. Queens shield their owner's cards from Jacks and Twos.
func (s *State) queenOnField(player int) bool {
	for _, c := range s.Fields[player] {
		if c.Rank == RankQueen {
			return true
		}
	}
	return false
}

func indexOfCard(list []*Card, c *Card) int {
	for i, x := range list {
		if x.ID == c.ID {
			return i
		}
	}
	return -1
}

func removeCard(list []*Card, c *Card) ([]*Card, bool) {
	i := indexOfCard(list, c)
	if i < 0 {
		return list, false
	}
	return append(list[:i], list[i+1:]...), true
}
