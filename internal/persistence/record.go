package persistence

import (
	"encoding/json"

	"blackjackd/internal/session"
)

// PlayerRecord is the blob shape saved for a player token: just enough to
// restore a session on LOGIN (name, bankroll, lifetime stats). JSON is used
// here because this is an internal save-file format with no externally observed
// schema — the standard library's encoding/json is the idiomatic choice for
// that, and nothing in the reference stack targets opaque blob persistence.
type PlayerRecord struct {
	Name     string         `json:"name"`
	Bankroll int64          `json:"bankroll"`
	Stats    session.Stats  `json:"stats"`
}

// EncodePlayer serializes a session's persisted fields for SaveState.
func EncodePlayer(s *session.Session) []byte {
	rec := PlayerRecord{Name: s.Name, Bankroll: s.Bankroll, Stats: s.Stats}
	data, _ := json.Marshal(rec)
	return data
}

// DecodePlayer reverses EncodePlayer.
func DecodePlayer(data []byte) (PlayerRecord, error) {
	var rec PlayerRecord
	err := json.Unmarshal(data, &rec)
	return rec, err
}
