// Package table implements the round coordinator (spec §4.4): the
// authoritative shoe, the four-phase round lifecycle, dealer play and
// settlement, and the monitor broadcast.
package table

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"blackjackd/internal/cards"
	"blackjackd/internal/session"
	"blackjackd/internal/shoe"
	"blackjackd/pkg/types"
)

// Table owns the shoe, the player/monitor registry, and the house's running
// totals. The shoe and house counters are mutated from the coordinator
// goroutine between phases and, during Act, from per-player task goroutines
// under houseMu/shoeMu (spec §5).
type Table struct {
	Registry *Registry
	Config   *types.Config
	Log      zerolog.Logger

	rng *rand.Rand

	shoeMu sync.Mutex
	shoe   *shoe.Shoe

	houseMu       sync.Mutex
	houseNet      int64 // net won by the house since boot
	houseTurnover int64 // total wagered since boot

	// viewMu guards the structural, monitor-visible parts of session and
	// dealer state (hand lists) against concurrent rendering from another
	// player's task during Act (spec §5): writers take the exclusive lock
	// only around the mutation itself, readers hold it for the duration of
	// a render.
	viewMu sync.RWMutex

	HandNumber uint64
	dealer     *cards.Hand
	revealed   bool
}

func New(cfg *types.Config, logger zerolog.Logger, seed int64) *Table {
	rng := rand.New(rand.NewSource(seed))
	return &Table{
		Registry: NewRegistry(),
		Config:   cfg,
		Log:      logger,
		rng:      rng,
		shoe:     shoe.New(cfg.MinimumDecks(), rng),
	}
}

func (t *Table) drawLocked() cards.Card {
	t.shoeMu.Lock()
	defer t.shoeMu.Unlock()
	c, err := t.shoe.Draw()
	if err != nil {
		// Reshuffle uses the current deck count as a last resort; the shoe
		// should never actually run dry given MaybeReshuffle's headroom.
		t.shoe.Reshuffle(t.shoe.Decks(), t.rng)
		c, _ = t.shoe.Draw()
	}
	return c
}

func (t *Table) creditHouse(amount int64) {
	t.houseMu.Lock()
	t.houseNet += amount
	t.houseMu.Unlock()
}

func (t *Table) addTurnover(amount int64) {
	t.houseMu.Lock()
	t.houseTurnover += amount
	t.houseMu.Unlock()
}

func (t *Table) HouseNet() int64 {
	t.houseMu.Lock()
	defer t.houseMu.Unlock()
	return t.houseNet
}

func (t *Table) HouseTurnover() int64 {
	t.houseMu.Lock()
	defer t.houseMu.Unlock()
	return t.houseTurnover
}

func (t *Table) ShoeLen() int   { return t.shoe.Len() }
func (t *Table) ShoeDecks() int { return t.shoe.Decks() }

// RunRound drives one full Ready -> Insurance -> Act -> Resolve cycle
// across every currently seated player (spec §4.4).
func (t *Table) RunRound(ctx context.Context) {
	players := t.Registry.Players()
	if len(players) == 0 {
		return
	}

	t.phaseReady(ctx, players)

	if t.shoe.MaybeReshuffle(len(players), t.Config.MinimumDecks(), t.Config.ShoeMinPercent(), t.rng) {
		t.Log.Info().Int("decks", t.shoe.Decks()).Msg("shoe reshuffled")
	}

	t.dealOpeningHands(players)

	dealerBlackjack := false
	if t.dealer.Cards[0].IsAce() {
		t.phaseInsurance(ctx, players)
		if t.dealer.Value() == 21 {
			dealerBlackjack = true
			t.revealed = true
			t.dealer.Status = cards.StatusClosed
			for _, p := range players {
				if p.Playing {
					for _, h := range p.Hands {
						h.Status = cards.StatusClosed
					}
				}
			}
		}
	}

	if !dealerBlackjack {
		t.phaseAct(ctx, players)
		t.playDealer()
	}

	t.settle(players)
	t.broadcastMonitors()
	t.Registry.ReapDisconnected()

	t.HandNumber++
	time.Sleep(t.Config.GameWaitTime())
}

func (t *Table) dealOpeningHands(players []*session.Session) {
	for _, p := range players {
		if !p.Playing {
			continue
		}
		p.Hands = []*cards.Hand{cards.NewHand(t.drawLocked(), t.drawLocked())}
	}
	t.dealer = cards.NewHand(t.drawLocked(), t.drawLocked())
	t.revealed = false
}

func (t *Table) playDealer() {
	t.revealed = true
	for t.dealer.Value() < 17 {
		t.dealer.Draw(t.drawLocked())
	}
	t.dealer.Status = cards.StatusClosed
}
