package game

import (
	"fmt"

	"github.com/lox/blackjack/internal/deck"
)

// HitResult is returned by Hit
type HitResult struct {
	Card   deck.Card
	Busted bool
}

// DealerResult summarises the dealer's turn
type DealerResult struct {
	HoleCard  deck.Card
	Drawn     []deck.Card
	Value     int
	Busted    bool
	Blackjack bool
}

// DealRound starts a round: clears every hand, deals two cards to each seat
// and the dealer in table order, checks naturals and hands the turn to the
// first seat that can act.
func (g *Game) DealRound() error {
	if g.Status != StatusWaiting {
		return ErrNotWaiting
	}
	seated := g.Seated()
	if len(seated) == 0 {
		return ErrNoPlayers
	}
	dealer := g.Dealer()

	for _, p := range g.players {
		p.resetForRound()
	}
	g.revealed = []deck.Card{}
	g.CurrentPosition = NoPosition
	g.publish(newRoundStartEvent(g.clock.Now(), g.ID, seated))

	for _, p := range seated {
		g.dealTo(p, true)
	}
	g.dealTo(dealer, true) // up card
	for _, p := range seated {
		g.dealTo(p, true)
	}
	g.dealTo(dealer, false) // hole card

	g.checkNaturals(seated, dealer)

	g.Status = StatusDealing
	g.advance()
	return nil
}

// Hit deals one card to the player at position. A bust ends their turn.
func (g *Game) Hit(position int) (HitResult, error) {
	p, err := g.actingPlayer(position)
	if err != nil {
		return HitResult{}, err
	}

	card := g.dealTo(p, true)
	busted := p.Busted()
	if busted {
		p.Status = PlayerBusted
	}
	g.publish(newPlayerActionEvent(g.clock.Now(), p, ActionHit, &card))

	if busted {
		g.advance()
	}
	return HitResult{Card: card, Busted: busted}, nil
}

// Stand ends the turn of the player at position.
func (g *Game) Stand(position int) error {
	p, err := g.actingPlayer(position)
	if err != nil {
		return err
	}
	p.Status = PlayerStood
	g.publish(newPlayerActionEvent(g.clock.Now(), p, ActionStand, nil))
	g.advance()
	return nil
}

// PlayDealerTurn reveals the hole card, draws to the house rule (hit below
// 17 and on soft 17), settles every seat and finishes the round.
func (g *Game) PlayDealerTurn() (DealerResult, error) {
	if g.Status != StatusDealerTurn {
		return DealerResult{}, ErrNotDealerTurn
	}
	dealer := g.Dealer()

	result := DealerResult{Drawn: []deck.Card{}}
	if hole, ok := dealer.HoleCard(); ok {
		g.reveal(hole)
		result.HoleCard = hole
		g.publish(newCardDealtEvent(g.clock.Now(), dealer, hole, true))
	}

	for dealerShouldHit(dealer) {
		result.Drawn = append(result.Drawn, g.dealTo(dealer, true))
	}

	// a natural is reported in the result; the dealer's status only
	// records whether the hand stood or busted
	if dealer.Busted() {
		dealer.Status = PlayerBusted
	} else {
		dealer.Status = PlayerStood
	}
	result.Value = dealer.Value()
	result.Busted = dealer.Busted()
	result.Blackjack = dealer.Blackjack()

	g.settle(dealer)
	g.Status = StatusFinished
	g.publish(newRoundEndEvent(g.clock.Now(), g))
	return result, nil
}

// NewRound returns a finished game to waiting, reshuffling the shoe when it
// has run below the threshold. The revealed cards are cleared on a reshuffle
// and again by the next DealRound.
func (g *Game) NewRound() (reshuffled bool, err error) {
	if g.Status != StatusFinished {
		return false, ErrNotFinished
	}
	if g.shoe.NeedsReshuffle() {
		g.shoe.Reshuffle()
		g.revealed = []deck.Card{}
		reshuffled = true
		g.publish(newShoeReshuffledEvent(g.clock.Now(), g.shoe.Remaining()))
	}
	g.Status = StatusWaiting
	return reshuffled, nil
}

func (g *Game) actingPlayer(position int) (*Player, error) {
	if g.Status != StatusPlaying {
		return nil, ErrNotPlaying
	}
	p := g.PlayerAt(position)
	if p == nil {
		return nil, fmt.Errorf("position %d: %w", position, ErrUnknownPlayer)
	}
	if g.CurrentPosition != position || !p.CanAct() {
		return nil, fmt.Errorf("%s: %w", p.Name, ErrNotYourTurn)
	}
	return p, nil
}

func (g *Game) dealTo(p *Player, reveal bool) deck.Card {
	card := g.shoe.Deal()
	p.Hand.Add(card)
	if reveal {
		g.reveal(card)
	}
	g.publish(newCardDealtEvent(g.clock.Now(), p, card, reveal))
	return card
}

// checkNaturals marks seated blackjacks. The dealer only peeks, and is only
// marked, when the up card is an ace or worth ten.
func (g *Game) checkNaturals(seated []*Player, dealer *Player) {
	for _, p := range seated {
		if p.Blackjack() {
			p.Status = PlayerBlackjack
		} else {
			p.Status = PlayerPlaying
		}
	}

	up, ok := dealer.UpCard()
	if ok && (up.IsAce() || up.IsTen()) && dealer.Blackjack() {
		dealer.Status = PlayerBlackjack
	}
}

// advance moves the turn forward to the next seat that can act. The scan
// never wraps back to lower positions; when nobody is left it is the
// dealer's turn.
func (g *Game) advance() {
	for _, p := range g.Seated() {
		if p.Position <= g.CurrentPosition {
			continue
		}
		if p.CanAct() {
			g.CurrentPosition = p.Position
			g.Status = StatusPlaying
			return
		}
	}
	g.Status = StatusDealerTurn
}

func dealerShouldHit(dealer *Player) bool {
	value := dealer.Value()
	if value < 17 {
		return true
	}
	return value == 17 && dealer.Soft()
}

func (g *Game) settle(dealer *Player) {
	dealerValue := dealer.Value()
	if dealer.Busted() {
		dealerValue = 0
	}
	dealerBlackjack := dealer.Blackjack()

	for _, p := range g.Seated() {
		p.Result = settlePlayer(p, dealerValue, dealerBlackjack)
	}
}

// settlePlayer decides one seat's result. A dealerValue of 0 means the
// dealer busted.
func settlePlayer(p *Player, dealerValue int, dealerBlackjack bool) PlayerResult {
	if p.Busted() {
		return ResultLose
	}
	playerBlackjack := p.Blackjack()

	switch {
	case playerBlackjack && dealerBlackjack:
		return ResultPush
	case playerBlackjack:
		return ResultBlackjackWin
	case dealerBlackjack:
		return ResultLose
	case dealerValue == 0:
		return ResultWin
	}

	value := p.Value()
	switch {
	case value > dealerValue:
		return ResultWin
	case value < dealerValue:
		return ResultLose
	default:
		return ResultPush
	}
}
