// Package server wires the acceptor and the round coordinator into the
// alternating accept/round loop described in spec §2 and implemented by the
// reference server's single-threaded selector tick.
package server

import (
	"context"
	"fmt"
	"net"

	"github.com/rs/zerolog"

	"blackjackd/internal/acceptor"
	"blackjackd/internal/persistence"
	"blackjackd/internal/protocol"
	"blackjackd/internal/session"
	"blackjackd/internal/table"
	"blackjackd/pkg/types"
)

type Server struct {
	Table    *table.Table
	Acceptor *acceptor.Acceptor
	Log      zerolog.Logger
}

// New binds addr and constructs the table and acceptor around it.
func New(addr string, cfg *types.Config, store persistence.Store, logger zerolog.Logger, seed int64) (*Server, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("server: bind %s: %w", addr, err)
	}
	tcpLn, ok := ln.(*net.TCPListener)
	if !ok {
		_ = ln.Close()
		return nil, fmt.Errorf("server: listener for %s is not TCP", addr)
	}

	t := table.New(cfg, logger, seed)
	t.Registry.OnReap = func(s *session.Session) {
		_ = store.SaveState("sessions", s.Token, persistence.EncodePlayer(s))
	}
	a := acceptor.New(tcpLn, t, store, logger)

	return &Server{Table: t, Acceptor: a, Log: logger}, nil
}

// Run drives the accept/round loop until ctx is cancelled: each tick waits
// up to the configured GAME_WAIT_TIME for one pending connection, then, if
// any player is seated, runs exactly one round (spec §2, §9's exit codes).
// On cancellation every connected session is notified before the listener
// closes, mirroring the reference server's KeyboardInterrupt handler.
func (s *Server) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			s.shutdown()
			return
		default:
		}
		s.Acceptor.AcceptOnce(s.Table.Config.GameWaitTime())
		if s.Table.Registry.Len() > 0 {
			s.Table.RunRound(ctx)
		}
	}
}

func (s *Server) shutdown() {
	for _, p := range s.Table.Registry.Players() {
		_ = p.SendLine(protocol.VerbBye + " Server is shutting down.")
	}
	for _, m := range s.Table.Registry.Monitors() {
		_ = m.SendLine(protocol.VerbBye + " Server is shutting down.")
	}
	_ = s.Acceptor.Close()
	s.Log.Info().Msg("server shut down cleanly")
}
