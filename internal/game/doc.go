// Package game implements the blackjack table engine.
//
// The main type is Game, which owns the shoe, the seated players (up to six,
// plus the dealer at position -1) and the cards revealed this round. A round
// moves through waiting, dealing, playing, dealer_turn and finished:
//
//	g := game.NewTable(randutil.New(42), "Alice")
//	_, _ = g.AddComputerPlayer(game.SkillHigh)
//	_ = g.DealRound()
//	for g.Status == game.StatusPlaying {
//	    _ = g.Stand(g.CurrentPosition)
//	}
//	_, _ = g.PlayDealerTurn()
//	_, _ = g.NewRound()
//
// # Deterministic Testing
//
// Every shuffle goes through the *rand.Rand handed to New, so a fixed seed
// replays a game exactly. WithShoe stacks the shoe instead; cards are dealt
// from the end of the slice:
//
//	g := game.New(rng, game.WithShoe(cards), game.WithDeckCount(1))
//
// # Persistence
//
// A game is not safe for concurrent use. Callers that share games across
// requests keep a Snapshot per game and use Apply, which rebuilds the game,
// runs one Command and returns the new snapshot, serialising access per game
// ID themselves (see internal/store).
package game
