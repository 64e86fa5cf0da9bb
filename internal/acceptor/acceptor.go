// Package acceptor implements the non-blocking connection accept loop and
// the HELLO handshake (spec §4.5): REGISTER, LOGIN, MONITOR, and the SET
// administrative verb, each handled synchronously before a session is
// installed into the table's registry.
package acceptor

import (
	"net"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"blackjackd/internal/netx"
	"blackjackd/internal/persistence"
	"blackjackd/internal/protocol"
	"blackjackd/internal/session"
	"blackjackd/internal/table"
)

// handshakeTimeout bounds the HELLO exchange itself; it is a separate,
// fixed deadline from the per-phase COMMAND_TIMEOUT since no Config exists
// for an as-yet-unregistered connection.
const handshakeTimeout = 5 * time.Second

// adminPassword is the fixed credential the reference server checks for the
// SET verb (spec §6); it gates process-wide tuning, not game rules.
const adminPassword = "spork"

type Acceptor struct {
	ln      *net.TCPListener
	Table   *table.Table
	Store   persistence.Store
	Log     zerolog.Logger
}

func New(ln *net.TCPListener, t *table.Table, store persistence.Store, logger zerolog.Logger) *Acceptor {
	return &Acceptor{ln: ln, Table: t, Store: store, Log: logger}
}

// AcceptOnce waits up to d for a single pending connection; if one arrives
// it runs the handshake synchronously before returning. This mirrors the
// reference implementation's select-then-accept tick (spec §2): the server
// loop alternates between one such call and one round.
func (a *Acceptor) AcceptOnce(d time.Duration) {
	if err := a.ln.SetDeadline(time.Now().Add(d)); err != nil {
		return
	}
	nc, err := a.ln.Accept()
	if err != nil {
		return
	}
	a.handshake(nc)
}

func (a *Acceptor) Close() error {
	return a.ln.Close()
}

func (a *Acceptor) handshake(nc net.Conn) {
	conn := netx.NewConn(nc)
	addr := conn.RemoteAddr()

	pre := session.New("", "", addr, conn, 0, a.Log)
	pre.ShowComms = a.Table.Config.ShowComms
	allowed := []string{protocol.VerbRegister, protocol.VerbLogin, protocol.VerbMonitor, protocol.VerbSet}
	deadline := time.Now().Add(handshakeTimeout)
	verb, noun, err := pre.Interact(deadline, protocol.HelloBanner, allowed, "", nil, nil)
	if err != nil || verb == "" {
		_ = conn.Close()
		return
	}

	switch verb {
	case protocol.VerbRegister:
		a.register(conn, addr, noun)
	case protocol.VerbLogin:
		a.login(conn, addr, noun)
	case protocol.VerbMonitor:
		a.addMonitor(conn, addr, noun)
	case protocol.VerbSet:
		a.adminSet(conn, noun)
	}
}

func (a *Acceptor) register(conn *netx.Conn, addr, name string) {
	if name == protocol.PlayernameSentinel {
		_ = conn.SendLine(protocol.VerbInvalid + " Please use a real name, not the example name.")
		_ = conn.Close()
		return
	}

	token := uuid.NewString()
	name = strings.ReplaceAll(name, " ", "_")
	s := session.New(token, name, addr, conn, a.Table.Config.StartCurrency(), a.Log)
	s.ShowComms = a.Table.Config.ShowComms
	if err := s.SendLine(protocol.VerbToken + " " + token); err != nil {
		return
	}
	a.Table.Registry.AddPlayer(s)
	a.Log.Info().Str("token", token).Str("name", name).Str("addr", addr).Msg("player registered")
}

func (a *Acceptor) login(conn *netx.Conn, addr, token string) {
	data, ok := a.Store.Load("sessions", token)
	if !ok {
		_ = conn.SendLine(protocol.VerbInvalid + " Unknown token.")
		_ = conn.Close()
		return
	}
	rec, err := persistence.DecodePlayer(data)
	if err != nil {
		_ = conn.Close()
		return
	}

	s := session.New(token, rec.Name, addr, conn, rec.Bankroll, a.Log)
	s.Stats = rec.Stats
	s.ShowComms = a.Table.Config.ShowComms
	if err := s.SendLine(protocol.VerbOK); err != nil {
		return
	}
	a.Table.Registry.AddPlayer(s)
	a.Log.Info().Str("token", token).Str("name", rec.Name).Msg("player restored via LOGIN")
}

func (a *Acceptor) addMonitor(conn *netx.Conn, addr, label string) {
	if label == "" {
		label = addr
	}
	token := uuid.NewString()
	s := session.New(token, "Monitor "+label, addr, conn, 0, a.Log)
	s.Monitor = true
	s.ShowComms = a.Table.Config.ShowComms
	a.Table.Registry.AddMonitor(s)
	a.Log.Info().Str("label", label).Msg("monitor attached")
}

func (a *Acceptor) adminSet(conn *netx.Conn, args string) {
	fields := strings.Fields(args)
	if len(fields) != 3 || fields[0] != adminPassword {
		_ = conn.SendLine(protocol.VerbBye + " Invalid client.")
		_ = conn.Close()
		a.Log.Warn().Msg("rejected SET with invalid password")
		return
	}
	if err := a.Table.Config.Apply(fields[1], fields[2]); err != nil {
		_ = conn.SendLine(protocol.VerbInvalid + " " + err.Error())
	} else {
		_ = conn.SendLine(protocol.VerbOK)
		a.Log.Info().Str("param", fields[1]).Str("value", fields[2]).Str("addr", conn.RemoteAddr()).Msg("admin SET applied")
	}
	_ = conn.Close()
}
