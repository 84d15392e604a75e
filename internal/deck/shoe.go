package deck

import (
	rand "math/rand/v2"
)

const (
	// DefaultDeckCount is the number of 52-card decks in a standard shoe
	DefaultDeckCount = 6

	// ReshuffleThreshold is the fraction of the shoe below which it is rebuilt
	ReshuffleThreshold = 0.25

	cardsPerDeck = 52
)

// Shoe is a multi-deck pool of cards. Cards are dealt from the end of the
// slice, so the last element is the next card out.
type Shoe struct {
	deckCount int
	cards     []Card
	rng       *rand.Rand
}

// NewShoe creates a full, shuffled shoe of deckCount decks.
func NewShoe(rng *rand.Rand, deckCount int) *Shoe {
	if rng == nil {
		panic("rng is required for shoe creation")
	}
	if deckCount <= 0 {
		deckCount = DefaultDeckCount
	}
	s := &Shoe{deckCount: deckCount, rng: rng}
	s.Reshuffle()
	return s
}

// RestoreShoe rebuilds a shoe from previously serialized cards without
// shuffling. The rng is used for later reshuffles.
func RestoreShoe(rng *rand.Rand, deckCount int, cards []Card) *Shoe {
	if rng == nil {
		panic("rng is required for shoe creation")
	}
	if deckCount <= 0 {
		deckCount = DefaultDeckCount
	}
	c := make([]Card, len(cards))
	copy(c, cards)
	return &Shoe{deckCount: deckCount, cards: c, rng: rng}
}

// Deal removes and returns the next card, reshuffling first if the shoe has
// dropped below the threshold.
func (s *Shoe) Deal() Card {
	if s.NeedsReshuffle() || len(s.cards) == 0 {
		s.Reshuffle()
	}
	card := s.cards[len(s.cards)-1]
	s.cards = s.cards[:len(s.cards)-1]
	return card
}

// DealN deals n cards
func (s *Shoe) DealN(n int) []Card {
	cards := make([]Card, n)
	for i := range n {
		cards[i] = s.Deal()
	}
	return cards
}

// Remaining returns the number of cards left in the shoe
func (s *Shoe) Remaining() int {
	return len(s.cards)
}

// Total returns the size of a full shoe
func (s *Shoe) Total() int {
	return s.deckCount * cardsPerDeck
}

// DeckCount returns the number of decks the shoe is built from
func (s *Shoe) DeckCount() int {
	return s.deckCount
}

// DecksRemaining returns the unrounded number of decks left
func (s *Shoe) DecksRemaining() float64 {
	return float64(len(s.cards)) / cardsPerDeck
}

// NeedsReshuffle reports whether fewer than a quarter of the shoe remains
func (s *Shoe) NeedsReshuffle() bool {
	return float64(len(s.cards)) < float64(s.Total())*ReshuffleThreshold
}

// Reshuffle rebuilds every deck and shuffles the whole shoe (Fisher-Yates)
func (s *Shoe) Reshuffle() {
	s.cards = s.cards[:0]
	for range s.deckCount {
		for _, suit := range Suits {
			for _, rank := range Ranks {
				s.cards = append(s.cards, Card{Rank: rank, Suit: suit})
			}
		}
	}
	s.rng.Shuffle(len(s.cards), func(i, j int) {
		s.cards[i], s.cards[j] = s.cards[j], s.cards[i]
	})
}

// Cards returns a copy of the remaining cards in stack order (last is next)
func (s *Shoe) Cards() []Card {
	c := make([]Card, len(s.cards))
	copy(c, s.cards)
	return c
}
