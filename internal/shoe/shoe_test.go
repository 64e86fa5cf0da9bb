package shoe

import (
	"math/rand"
	"testing"

	"blackjackd/internal/cards"
)

func TestNewShoeComposition(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	s := New(2, rng)
	if got, want := s.Len(), 2*52; got != want {
		t.Fatalf("Len() = %d, want %d", got, want)
	}

	counts := map[cards.Card]int{}
	for s.Len() > 0 {
		c, err := s.Draw()
		if err != nil {
			t.Fatalf("Draw(): %v", err)
		}
		counts[c]++
	}
	for _, suit := range allSuits {
		for _, rank := range allRanks {
			c := cards.Card{Rank: rank, Suit: suit}
			if counts[c] != 2 {
				t.Errorf("card %s appeared %d times, want 2", c, counts[c])
			}
		}
	}
}

func TestDrawEmptyShoe(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	s := New(1, rng)
	for i := 0; i < 52; i++ {
		if _, err := s.Draw(); err != nil {
			t.Fatalf("Draw() %d: %v", i, err)
		}
	}
	if _, err := s.Draw(); err != ErrEmpty {
		t.Fatalf("Draw() on empty shoe = %v, want ErrEmpty", err)
	}
}

func TestMaybeReshuffleTrigger(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	s := New(6, rng)

	// Draining far below the 20% floor must trigger a reshuffle.
	for s.Len() > 50 {
		_, _ = s.Draw()
	}
	if !s.MaybeReshuffle(4, 6, 20, rng) {
		t.Fatal("expected a reshuffle once the shoe is nearly empty")
	}
	if s.Len() == 0 {
		t.Fatal("reshuffle should have rebuilt the shoe")
	}
}

func TestMaybeReshuffleNotNeeded(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	s := New(6, rng)
	if s.MaybeReshuffle(4, 6, 20, rng) {
		t.Fatal("a freshly shuffled shoe should not need reshuffling")
	}
}

func TestMaybeReshuffleScalesWithPlayers(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	s := New(6, rng)
	// 6 decks * 52 * 20% = 62.4 -> threshold 62; drain to just above that,
	// but below what 40 players * 11 cards would need.
	for s.Len() > 100 {
		_, _ = s.Draw()
	}
	if !s.MaybeReshuffle(40, 6, 20, rng) {
		t.Fatal("expected reshuffle driven by the players*11 floor")
	}
	if got := s.Decks(); got < 6 {
		t.Fatalf("Decks() = %d, want at least MINIMUM_DECKS", got)
	}
}
