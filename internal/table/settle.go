package table

import (
	"math"
	"strconv"

	"blackjackd/internal/cards"
	"blackjackd/internal/protocol"
	"blackjackd/internal/session"
)

// settle runs Phase D's resolution step (spec §4.4) across every seated
// session, including sit-outs so their view still updates. Insurance is
// settled as an independent side bet before the ordinary hand comparison,
// per the reference source's insurance-vs-push ambiguity resolved in favor
// of a net-even round when the player loses the main hand on a dealer
// natural (spec §9's open question, pinned down by the seed scenario that
// expects a net of zero).
func (t *Table) settle(players []*session.Session) {
	dealerValue := t.dealer.Value()
	dealerBust := t.dealer.Busted()
	dealerNatural := t.dealer.Natural()

	for _, p := range players {
		if p.Insured {
			t.creditHouse(p.InsuranceBet)
		}
		if p.Disconnected() {
			continue
		}

		if p.Insured && dealerNatural {
			p.Bankroll += 3 * p.InsuranceBet
			t.creditHouse(-3 * p.InsuranceBet)
		}

		if p.Playing {
			unsplit := len(p.Hands) == 1
			for _, h := range p.Hands {
				bet := p.CurBet
				switch {
				case h.Busted():
					p.Stats.Losses++
				case dealerBust || h.Value() > dealerValue:
					credit := bet
					switch {
					case h.Status == cards.StatusDoubled:
						credit += 3 * bet
					case unsplit && h.Natural():
						credit += int64(math.Round(1.5 * float64(bet)))
					default:
						credit += bet
					}
					p.Bankroll += credit
					t.creditHouse(-credit)
					p.Stats.Wins++
				case h.Value() == dealerValue:
					p.Bankroll += bet
					t.creditHouse(-bet)
					p.Stats.Pushes++
				default:
					p.Stats.Losses++
				}
			}
		}

		delta := p.Bankroll - p.StartBankroll
		view := t.renderTableView(p)
		_ = p.SendLine(protocol.VerbDone + " " + view + ":" + strconv.FormatInt(delta, 10))
	}
}
