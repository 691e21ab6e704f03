package game

// King counts map to the score a player must reach.
var kingTargets = [...]int{21, 14, 10, 5, 0}

// PlayerPointCards returns the point cards currently scoring for the player:
// unstolen points on their own field plus stolen points sitting on the
// opponent's field.
func (s *State) PlayerPointCards(player int) []*Card {
	var cards []*Card
	for _, c := range s.Fields[player] {
		if c.Purpose == PurposePoints && !c.IsStolen() {
			cards = append(cards, c)
		}
	}
	for _, c := range s.Fields[s.Opponent(player)] {
		if c.Purpose == PurposePoints && c.IsStolen() {
			cards = append(cards, c)
		}
	}
	return cards
}

// controlsPoint reports whether the point card currently scores for the
// player, wherever it physically sits.
func (s *State) controlsPoint(player int, target *Card) bool {
	for _, c := range s.PlayerPointCards(player) {
		if c.ID == target.ID {
			return true
		}
	}
	return false
}

// PlayerScore is the sum of point values over the player's scoring cards.
func (s *State) PlayerScore(player int) int {
	total := 0
	for _, c := range s.PlayerPointCards(player) {
		total += c.PointValue()
	}
	return total
}

// PlayerField returns the cards the player effectively controls: their own
// non-point cards, their own unstolen points, and points they have stolen
// off the opponent's field. Jack targeting reads this, so stacked Jacks
// alternate which side a card shows up on.
func (s *State) PlayerField(player int) []*Card {
	var field []*Card
	for _, c := range s.Fields[player] {
		if c.Purpose != PurposePoints {
			field = append(field, c)
		}
	}
	for _, c := range s.Fields[player] {
		if c.Purpose == PurposePoints && !c.IsStolen() {
			field = append(field, c)
		}
	}
	for _, c := range s.Fields[s.Opponent(player)] {
		if c.Purpose == PurposePoints && c.IsStolen() {
			field = append(field, c)
		}
	}
	return field
}

// PlayerTarget returns the score the player must reach, lowered by each King
// on their physical field: 21, 14, 10, 5, then 0 from the fourth King on.
func (s *State) PlayerTarget(player int) int {
	kings := 0
	for _, c := range s.Fields[player] {
		if c.Rank == RankKing {
			kings++
		}
	}
	if kings >= len(kingTargets) {
		kings = len(kingTargets) - 1
	}
	return kingTargets[kings]
}

// IsWinner reports whether the player's score has reached their target.
func (s *State) IsWinner(player int) bool {
	return s.PlayerScore(player) >= s.PlayerTarget(player)
}

// Winner returns the first player whose score meets their target, or
// NoPlayer. Simultaneous wins resolve to player 0 here; the resolver's
// outcome favors the acting player instead.
func (s *State) Winner() int {
	for p := 0; p < 2; p++ {
		if s.IsWinner(p) {
			return p
		}
	}
	return NoPlayer
}

// winnerFavoring checks the acting player first, so a single action that
// lifts both players over target crowns the actor.
func (s *State) winnerFavoring(actor int) int {
	if s.IsWinner(actor) {
		return actor
	}
	if s.IsWinner(1 - actor) {
		return 1 - actor
	}
	return NoPlayer
}
