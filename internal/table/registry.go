package table

import "blackjackd/internal/session"

// Registry partitions live sessions into active players and monitors,
// keyed by opaque token (spec §3). order preserves insertion order so a
// round's phases iterate a stable sequence (spec §4.4's "Settlement
// determinism" note) even though money math itself doesn't depend on it.
type Registry struct {
	players  map[string]*session.Session
	monitors map[string]*session.Session
	order    []string

	// OnReap, if set, is called once for each player session dropped by
	// ReapDisconnected, before it is removed from the map. server.New
	// wires this to the persistence collaborator so a disconnected
	// player's token survives for a later LOGIN (spec §6's save hook).
	OnReap func(*session.Session)
}

func NewRegistry() *Registry {
	return &Registry{
		players:  make(map[string]*session.Session),
		monitors: make(map[string]*session.Session),
	}
}

func (r *Registry) AddPlayer(s *session.Session) {
	r.players[s.Token] = s
	r.order = append(r.order, s.Token)
}

func (r *Registry) AddMonitor(s *session.Session) {
	r.monitors[s.Token] = s
}

func (r *Registry) Player(token string) (*session.Session, bool) {
	s, ok := r.players[token]
	return s, ok
}

// Players returns the active players in stable insertion order.
func (r *Registry) Players() []*session.Session {
	out := make([]*session.Session, 0, len(r.order))
	for _, tok := range r.order {
		if s, ok := r.players[tok]; ok {
			out = append(out, s)
		}
	}
	return out
}

func (r *Registry) Monitors() []*session.Session {
	out := make([]*session.Session, 0, len(r.monitors))
	for _, s := range r.monitors {
		out = append(out, s)
	}
	return out
}

func (r *Registry) Len() int { return len(r.players) }

// ReapDisconnected drops any player or monitor whose transport has failed.
func (r *Registry) ReapDisconnected() {
	kept := r.order[:0]
	for _, tok := range r.order {
		s, ok := r.players[tok]
		if !ok {
			continue
		}
		if s.Disconnected() {
			if r.OnReap != nil {
				r.OnReap(s)
			}
			delete(r.players, tok)
			continue
		}
		kept = append(kept, tok)
	}
	r.order = kept

	for tok, s := range r.monitors {
		if s.Disconnected() {
			delete(r.monitors, tok)
		}
	}
}
