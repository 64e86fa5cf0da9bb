// Package session implements the per-connection player/monitor state: the
// "Player Session" component of spec §3/§4.3.
package session

import (
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"blackjackd/internal/cards"
	"blackjackd/internal/netx"
	"blackjackd/internal/protocol"
)

// Stats holds the lifetime counters spec §3 assigns to a session.
type Stats struct {
	Wins                int64
	Losses              int64
	Pushes              int64
	SitOuts             int64
	LifetimeWagered     int64
	Interactions        int64
	InteractionsSeconds float64
}

// Session is one connected client: identity, bankroll, and per-round state.
// A Session is owned exclusively by one goroutine for the duration of a
// phase (spec §5); the mutex only guards fields the acceptor/registry and
// the round coordinator may touch from different goroutines between phases
// (notably Disconnected, which a failed write can set at any time).
type Session struct {
	Token string
	Name  string
	Addr  string
	Conn  *netx.Conn

	Monitor bool

	Bankroll      int64
	StartBankroll int64
	CurBet        int64
	InsuranceBet  int64 // amount staked on the independent insurance side bet
	Hands         []*cards.Hand
	Playing       bool
	Insured       bool
	Active        bool // awaiting a response right now (monitor 'a' flag)
	TimedOut      bool // timed out on its most recent prompt (monitor 't' flag)

	Stats Stats

	Log zerolog.Logger

	// ShowComms, when set, is consulted on every line sent or received so
	// the admin SET COMMS verb (spec §6/§9) can turn full client/server
	// traffic dumping on or off at runtime without reconnecting anyone.
	ShowComms func() bool

	mu           sync.Mutex
	disconnected bool
}

func New(token, name, addr string, conn *netx.Conn, startBankroll int64, logger zerolog.Logger) *Session {
	return &Session{
		Token:         token,
		Name:          name,
		Addr:          addr,
		Conn:          conn,
		Bankroll:      startBankroll,
		StartBankroll: startBankroll,
		Log:           logger.With().Str("token", token).Str("name", name).Logger(),
	}
}

func (s *Session) Disconnected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.disconnected
}

func (s *Session) MarkDisconnected() {
	s.mu.Lock()
	s.disconnected = true
	s.mu.Unlock()
}

// SendLine writes a line to the client, marking the session disconnected on
// any transport failure.
func (s *Session) SendLine(text string) error {
	if s.ShowComms != nil && s.ShowComms() {
		s.Log.Info().Str("dir", "send").Str("line", text).Msg("comm")
	}
	if err := s.Conn.SendLine(text); err != nil {
		s.MarkDisconnected()
		return err
	}
	return nil
}

// PhaseChar renders the single-character phase flag the monitor view uses:
// 't' (timed out), 'a' (awaiting), or 'p' (pending).
func (s *Session) PhaseChar() byte {
	switch {
	case s.TimedOut:
		return 't'
	case s.Active:
		return 'a'
	default:
		return 'p'
	}
}

// ResetForRound clears the per-round fields at the start of Phase R.
func (s *Session) ResetForRound() {
	s.Insured = false
	s.CurBet = 0
	s.InsuranceBet = 0
	s.Playing = false
	s.Hands = nil
	s.TimedOut = false
	s.StartBankroll = s.Bankroll
}

// ActiveHand returns the first open (non-closed) hand, or nil if all hands
// are closed. This is always "the active hand" per spec §4.4.
func (s *Session) ActiveHand() *cards.Hand {
	for _, h := range s.Hands {
		if !h.Closed() {
			return h
		}
	}
	return nil
}

// Interact drives one request/response exchange with the client, enforcing
// the protocol state machine rules applied uniformly by spec §4.3: send
// prompt once, then loop on the same absolute deadline re-prompting with
// INVALID on protocol violations, substituting timeoutVerb if the deadline
// passes, and returning the transport error if the socket drops.
func (s *Session) Interact(deadline time.Time, prompt string, allowed []string, timeoutVerb string, disallowed map[string]string, notify func()) (verb, noun string, err error) {
	s.TimedOut = false
	s.Active = true
	if notify != nil {
		notify()
	}
	s.Stats.Interactions++
	start := time.Now()
	defer func() {
		s.Stats.InteractionsSeconds += time.Since(start).Seconds()
		s.Active = false
	}()

	if err := s.SendLine(prompt); err != nil {
		return "", "", err
	}

	for {
		line, rerr := s.Conn.ReadLineDeadline(deadline)
		if rerr == netx.ErrTimeout || time.Now().After(deadline) {
			_ = s.SendLine("TIMEOUT")
			s.TimedOut = true
			return timeoutVerb, "", nil
		}
		if rerr == netx.ErrClosed {
			s.MarkDisconnected()
			return "", "", netx.ErrClosed
		}

		if s.ShowComms != nil && s.ShowComms() {
			s.Log.Info().Str("dir", "recv").Str("line", line).Msg("comm")
		}

		v, n := protocol.ParseLine(line)
		if v == "" {
			if err := s.SendLine("INVALID Bad command format"); err != nil {
				return "", "", err
			}
			continue
		}
		if protocol.Contains(allowed, v) {
			return v, n, nil
		}
		if reason, ok := disallowed[v]; ok {
			if err := s.SendLine("INVALID " + reason); err != nil {
				return "", "", err
			}
		} else {
			if err := s.SendLine("INVALID Bad command '" + v + "' - valid commands: " + strings.Join(allowed, " ")); err != nil {
				return "", "", err
			}
		}
	}
}
