// Package protocol defines the wire verbs and line parsing for the
// blackjack table's line-oriented text protocol (spec §6).
package protocol

// Server -> client verbs.
const (
	VerbHello     = "HELLO"
	VerbToken     = "TOKEN"
	VerbOK        = "OK"
	VerbReady     = "READY"
	VerbInsurance = "INSURANCE"
	VerbAct       = "ACT"
	VerbTimeout   = "TIMEOUT"
	VerbDone      = "DONE"
	VerbInvalid   = "INVALID"
	VerbBye       = "BYE"
)

// Client -> server verbs.
const (
	VerbRegister = "REGISTER"
	VerbLogin    = "LOGIN"
	VerbMonitor  = "MONITOR"
	VerbSet      = "SET"
	VerbBet      = "BET"
	VerbYes      = "YES"
	VerbNo       = "NO"
	VerbHit      = "HIT"
	VerbStand    = "STAND"
	VerbDouble   = "DOUBLE"
	VerbSplit    = "SPLIT"
)

// HelloBanner is sent verbatim to every newly accepted connection.
const HelloBanner = "HELLO BlackjackServer v1.00"

// PlayernameSentinel is the literal example name REGISTER must reject.
const PlayernameSentinel = "Playername"
