package game

// LegalActions returns every action the current action player may take,
// deterministically ordered. The set depends on the phase: an open counter
// chain narrows it to Counter/Resolve, a Three or Four resolution to the
// corresponding follow-ups, and the base phase enumerates draws and plays.
func (s *State) LegalActions() []Action {
	switch s.Phase.Kind {
	case PhaseResolvingOneOff:
		return s.counterPhaseActions()
	case PhaseResolvingThree:
		return s.threePhaseActions()
	case PhaseResolvingFour:
		return s.fourPhaseActions()
	default:
		return s.basePhaseActions()
	}
}

// counterPhaseActions offers the action player their Twos (unless the other
// side has a Queen) and, always, resolving the pending one-off.
func (s *State) counterPhaseActions() []Action {
	var actions []Action
	q := s.CurrentActionPlayer
	if !s.queenOnField(s.Opponent(q)) {
		for _, c := range s.Hands[q] {
			if c.Rank == RankTwo {
				actions = append(actions, Action{Type: ActionCounter, PlayedBy: q, Card: c, Target: s.Phase.OneOff})
			}
		}
	}
	actions = append(actions, Action{Type: ActionResolve, PlayedBy: q, Target: s.Phase.OneOff})
	return actions
}

// threePhaseActions offers every discard pile card except the three that
// opened the phase, which is already in the pile while the player picks.
func (s *State) threePhaseActions() []Action {
	var actions []Action
	for _, c := range s.Discard {
		if s.Phase.OneOff != nil && c.ID == s.Phase.OneOff.ID {
			continue
		}
		actions = append(actions, Action{Type: ActionTakeFromDiscard, PlayedBy: s.Turn, Card: c, Source: SourceDiscard})
	}
	return actions
}

func (s *State) fourPhaseActions() []Action {
	var actions []Action
	p := s.Phase.FourPlayer
	for _, c := range s.Hands[p] {
		actions = append(actions, Action{Type: ActionDiscardFromHand, PlayedBy: p, Card: c})
	}
	return actions
}

func (s *State) basePhaseActions() []Action {
	var actions []Action
	p := s.Turn
	opp := s.Opponent(p)
	hand := s.Hands[p]

	if len(s.Deck) > 0 && len(hand) < HandLimit {
		actions = append(actions, Action{Type: ActionDraw, PlayedBy: p, Source: SourceDeck})
	}

	for _, c := range hand {
		if c.IsPointCard() {
			actions = append(actions, Action{Type: ActionPoints, PlayedBy: p, Card: c})
		}
	}

	// TODO: eights played as glasses face cards
	for _, c := range hand {
		if c.Rank == RankKing || c.Rank == RankQueen {
			actions = append(actions, Action{Type: ActionFaceCard, PlayedBy: p, Card: c})
		}
	}

	// Jacks target point cards the opponent controls, wherever they
	// physically sit. A Queen on the opponent's field blocks all of them.
	if !s.queenOnField(opp) {
		for _, c := range hand {
			if c.Rank != RankJack {
				continue
			}
			for _, t := range s.PlayerField(opp) {
				if t.Purpose == PurposePoints {
					actions = append(actions, Action{Type: ActionJack, PlayedBy: p, Card: c, Target: t})
				}
			}
		}
	}

	for _, c := range hand {
		if c.IsOneOff() {
			actions = append(actions, Action{Type: ActionOneOff, PlayedBy: p, Card: c})
		}
	}

	// Scuttles hit point cards physically on the opponent's field that the
	// opponent still controls.
	for _, t := range s.Fields[opp] {
		if t.Purpose != PurposePoints || t.IsStolen() {
			continue
		}
		for _, c := range hand {
			if c.CanScuttle(t) {
				actions = append(actions, Action{Type: ActionScuttle, PlayedBy: p, Card: c, Target: t})
			}
		}
	}

	return actions
}
