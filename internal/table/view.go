package table

import (
	"fmt"
	"strconv"
	"strings"

	"blackjackd/internal/session"
)

// renderTableView builds the player-oriented snapshot sent with every
// prompt (spec §6): the viewer's own hands, the dealer hand (masked until
// reveal), then every other seated player's hands in stable order.
func (t *Table) renderTableView(viewer *session.Session) string {
	t.viewMu.RLock()
	defer t.viewMu.RUnlock()

	players := t.Registry.Players()
	parts := make([]string, 0, 2+len(players))
	parts = append(parts, handListOrSitout(viewer))
	parts = append(parts, t.dealerHandString())
	for _, p := range players {
		if p == viewer {
			continue
		}
		parts = append(parts, handListOrSitout(p))
	}
	return strings.Join(parts, " ")
}

func handListOrSitout(p *session.Session) string {
	if !p.Playing {
		return "----"
	}
	strs := make([]string, 0, len(p.Hands))
	for _, h := range p.Hands {
		strs = append(strs, h.String())
	}
	return strings.Join(strs, "/")
}

func (t *Table) dealerHandString() string {
	if t.dealer == nil {
		return "--"
	}
	if !t.revealed {
		return t.dealer.Cards[0].String() + t.dealer.Cards[1].String() + "--"
	}
	return t.dealer.String()
}

// broadcastMonitors renders the observer snapshot and sends it to every
// connected monitor (spec §4.6). A monitor whose write fails is marked
// disconnected by Session.SendLine and reaped with players at round end.
func (t *Table) broadcastMonitors() {
	monitors := t.Registry.Monitors()
	if len(monitors) == 0 {
		return
	}
	line := t.renderMonitorView()
	for _, m := range monitors {
		_ = m.SendLine(line)
	}
}

func (t *Table) renderMonitorView() string {
	t.viewMu.RLock()
	defer t.viewMu.RUnlock()

	players := t.Registry.Players()
	header := fmt.Sprintf("%d,%d,%d,%d,%d", t.HandNumber, t.ShoeDecks(), t.ShoeLen(), t.HouseNet(), t.HouseTurnover())

	parts := make([]string, 0, 2+len(players))
	parts = append(parts, header)
	parts = append(parts, t.dealerMonitorHand())
	for _, p := range players {
		parts = append(parts, playerMonitorView(p))
	}
	return strings.Join(parts, " ")
}

func (t *Table) dealerMonitorHand() string {
	if t.dealer == nil {
		return "--"
	}
	if !t.revealed {
		return t.dealer.Cards[0].String() + t.dealer.Cards[1].String() + "??"
	}
	return t.dealer.String()
}

func playerMonitorView(p *session.Session) string {
	return fmt.Sprintf("%s:%d:%d,%d,%d,%d,%d,%d,%s:%c:%s",
		p.Name, p.Bankroll,
		p.Stats.Wins, p.Stats.Losses, p.Stats.Pushes, p.Stats.SitOuts, p.Stats.LifetimeWagered,
		p.Stats.Interactions, strconv.FormatFloat(p.Stats.InteractionsSeconds, 'f', 3, 64),
		p.PhaseChar(), handListOrSitout(p))
}
