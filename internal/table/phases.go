package table

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"blackjackd/internal/cards"
	"blackjackd/internal/protocol"
	"blackjackd/internal/session"
)

// notify is passed to every Session.Interact call as its state-change hook
// (spec §4.6): any prompt, even one that doesn't change game state, flips
// the session's 'a'/'p' flag and so re-renders the monitor snapshot.
func (t *Table) notify() { t.broadcastMonitors() }

// phaseReady runs Phase R (spec §4.4) across every seated session in
// parallel, bounded by the worker pool.
func (t *Table) phaseReady(ctx context.Context, players []*session.Session) {
	for _, p := range players {
		p.ResetForRound()
	}
	dispatch(ctx, players, t.readyOne)
}

func (t *Table) readyOne(p *session.Session) {
	deadline := time.Now().Add(t.Config.CommandTimeout())
	for {
		if time.Now().After(deadline) {
			p.Playing = false
			p.Stats.SitOuts++
			return
		}
		prompt := fmt.Sprintf("%s %d %d %d", protocol.VerbReady, p.Bankroll, t.ShoeDecks(), t.ShoeLen())
		_, noun, err := p.Interact(deadline, prompt, []string{protocol.VerbBet}, protocol.VerbBet, nil, t.notify)
		if err != nil {
			return
		}
		if noun == "" {
			p.Playing = false
			p.Stats.SitOuts++
			return
		}
		amt, perr := strconv.ParseInt(noun, 10, 64)
		if perr != nil || amt < 0 || amt%2 != 0 {
			if sendErr := p.SendLine(protocol.VerbInvalid + " BET must be a positive even integer"); sendErr != nil {
				return
			}
			continue
		}
		if amt == 0 {
			p.Playing = false
			p.Stats.SitOuts++
			return
		}
		if amt > p.Bankroll {
			if sendErr := p.SendLine(protocol.VerbInvalid + " You do not have that much currency."); sendErr != nil {
				return
			}
			continue
		}
		p.CurBet = amt
		p.Bankroll -= amt
		p.Stats.LifetimeWagered += amt
		p.Playing = true
		t.creditHouse(amt)
		t.addTurnover(amt)
		return
	}
}

// phaseInsurance runs Phase I (spec §4.4), fired only when the dealer shows
// an Ace; RunRound only calls this when that's already established.
func (t *Table) phaseInsurance(ctx context.Context, players []*session.Session) {
	playing := make([]*session.Session, 0, len(players))
	for _, p := range players {
		if p.Playing {
			playing = append(playing, p)
		}
	}
	dispatch(ctx, playing, t.insuranceOne)
}

// insuranceOne mirrors the reference Insurance() method exactly: the offer
// is only made at all if the player can afford the half-bet side wager, and
// the monitor snapshot is re-rendered once afterward regardless.
func (t *Table) insuranceOne(p *session.Session) {
	amt := p.CurBet / 2
	if p.Bankroll > amt {
		deadline := time.Now().Add(t.Config.CommandTimeout())
		prompt := protocol.VerbInsurance + " " + t.renderTableView(p)
		verb, _, err := p.Interact(deadline, prompt, []string{protocol.VerbYes, protocol.VerbNo}, protocol.VerbNo, nil, t.notify)
		if err != nil {
			return
		}
		if verb == protocol.VerbYes {
			p.Bankroll -= amt
			p.InsuranceBet = amt
			p.Insured = true
		}
	}
	t.broadcastMonitors()
}

// phaseAct runs Phase A (spec §4.4): each playing session drives its
// currently-unfinished hand, looping over successive hands split produces,
// until every hand is closed or the session disconnects.
func (t *Table) phaseAct(ctx context.Context, players []*session.Session) {
	playing := make([]*session.Session, 0, len(players))
	for _, p := range players {
		if p.Playing {
			playing = append(playing, p)
		}
	}
	dispatch(ctx, playing, t.actOne)
}

func (t *Table) actOne(p *session.Session) {
	for {
		if p.Disconnected() {
			return
		}
		h := p.ActiveHand()
		if h == nil {
			return
		}
		if h.Value() >= 21 {
			h.Status = cards.StatusClosed
			continue
		}

		allowed := []string{protocol.VerbHit, protocol.VerbStand}
		disallowed := map[string]string{}

		canDouble := len(h.Cards) == 2 && h.Value() >= 9 && h.Value() <= 11 && p.Bankroll >= p.CurBet
		if canDouble {
			allowed = append(allowed, protocol.VerbDouble)
		} else {
			disallowed[protocol.VerbDouble] = doubleBlockedReason(h, p)
		}

		canSplit := len(h.Cards) == 2 && h.Cards[0].Value() == h.Cards[1].Value() &&
			p.Bankroll >= p.CurBet && len(p.Hands) < 4
		if canSplit {
			allowed = append(allowed, protocol.VerbSplit)
		} else {
			disallowed[protocol.VerbSplit] = splitBlockedReason(h, p)
		}

		deadline := time.Now().Add(t.Config.CommandTimeout())
		prompt := protocol.VerbAct + " " + t.renderTableView(p)
		verb, _, err := p.Interact(deadline, prompt, allowed, protocol.VerbStand, disallowed, t.notify)
		if err != nil {
			return
		}

		switch verb {
		case protocol.VerbHit:
			t.viewMu.Lock()
			h.Draw(t.drawLocked())
			t.viewMu.Unlock()
		case protocol.VerbStand:
			h.Status = cards.StatusClosed
		case protocol.VerbDouble:
			t.viewMu.Lock()
			h.Draw(t.drawLocked())
			t.viewMu.Unlock()
			h.Status = cards.StatusDoubled
			p.Bankroll -= p.CurBet
			t.creditHouse(p.CurBet)
			t.addTurnover(p.CurBet)
		case protocol.VerbSplit:
			t.viewMu.Lock()
			h.Draw(t.drawLocked())
			h.Draw(t.drawLocked())
			a, b := h.Split()
			newHands := make([]*cards.Hand, 0, len(p.Hands)+1)
			newHands = append(newHands, a, b)
			for _, other := range p.Hands {
				if other != h {
					newHands = append(newHands, other)
				}
			}
			p.Hands = newHands
			t.viewMu.Unlock()
			p.Bankroll -= p.CurBet
			t.creditHouse(p.CurBet)
			t.addTurnover(p.CurBet)
		}
	}
}

func doubleBlockedReason(h *cards.Hand, p *session.Session) string {
	switch {
	case len(h.Cards) != 2:
		return "DOUBLE is only available on your first two cards."
	case h.Value() < 9 || h.Value() > 11:
		return "DOUBLE requires a two-card total of 9 to 11."
	default:
		return "DOUBLE requires a bankroll at least your current bet."
	}
}

func splitBlockedReason(h *cards.Hand, p *session.Session) string {
	switch {
	case len(h.Cards) != 2:
		return "SPLIT is only available on your first two cards."
	case h.Cards[0].Value() != h.Cards[1].Value():
		return "SPLIT requires a matching pair."
	case len(p.Hands) >= 4:
		return "SPLIT is unavailable: maximum hands reached."
	default:
		return "SPLIT requires a bankroll at least your current bet."
	}
}
