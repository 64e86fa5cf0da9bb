// Package shoe implements the multi-deck card source the table draws from.
package shoe

import (
	"errors"
	"math"
	"math/rand"

	"blackjackd/internal/cards"
)

var ErrEmpty = errors.New("shoe: empty")

// Shoe is an ordered sequence of cards; Draw removes from one end. It is not
// safe for concurrent use — callers serialize draws under their own lock
// during the Act phase (spec §5).
type Shoe struct {
	cards []cards.Card
	decks int
}

// New builds and shuffles a shoe holding decks copies of a standard 52-card set.
func New(decks int, rng *rand.Rand) *Shoe {
	s := &Shoe{decks: decks}
	s.Reshuffle(decks, rng)
	return s
}

// Reshuffle rebuilds the shoe with decks copies of the 52-card set, uniformly
// permuted via Fisher-Yates.
func (s *Shoe) Reshuffle(decks int, rng *rand.Rand) {
	s.decks = decks
	fresh := make([]cards.Card, 0, decks*52)
	for d := 0; d < decks; d++ {
		for _, suit := range allSuits {
			for _, rank := range allRanks {
				fresh = append(fresh, cards.Card{Rank: rank, Suit: suit})
			}
		}
	}
	for i := len(fresh) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		fresh[i], fresh[j] = fresh[j], fresh[i]
	}
	s.cards = fresh
}

// NewFromCards builds a shoe holding exactly the given cards in draw order
// (the last element is drawn first), bypassing the shuffle. Tests use this
// to pin a round to a known deal.
func NewFromCards(decks int, deal []cards.Card) *Shoe {
	cp := make([]cards.Card, len(deal))
	copy(cp, deal)
	return &Shoe{decks: decks, cards: cp}
}

// Draw pops one card from the shoe.
func (s *Shoe) Draw() (cards.Card, error) {
	if len(s.cards) == 0 {
		return cards.Card{}, ErrEmpty
	}
	n := len(s.cards) - 1
	c := s.cards[n]
	s.cards = s.cards[:n]
	return c, nil
}

func (s *Shoe) Len() int   { return len(s.cards) }
func (s *Shoe) Decks() int { return s.decks }

// MaybeReshuffle applies the reshuffle policy from spec §3/§4.2: reshuffle
// when cards_left < decks*52*shoeMinPercent/100, or when cards_left is
// below players*11. On reshuffle the deck count is recomputed as
// max(minimumDecks, round(players/8)). Returns whether a reshuffle occurred.
func (s *Shoe) MaybeReshuffle(players, minimumDecks, shoeMinPercent int, rng *rand.Rand) bool {
	threshold := s.decks * 52 * shoeMinPercent / 100
	if s.Len() < threshold || s.Len() < players*11 {
		ideal := int(math.Round(float64(players) / 8))
		if ideal < minimumDecks {
			ideal = minimumDecks
		}
		s.Reshuffle(ideal, rng)
		return true
	}
	return false
}

var allRanks = [...]cards.Rank{cards.RankTwo, cards.RankThree, cards.RankFour, cards.RankFive,
	cards.RankSix, cards.RankSeven, cards.RankEight, cards.RankNine, cards.RankTen,
	cards.RankJack, cards.RankQueen, cards.RankKing, cards.RankAce}

var allSuits = [...]cards.Suit{cards.SuitClubs, cards.SuitDiamonds, cards.SuitHearts, cards.SuitSpades}
