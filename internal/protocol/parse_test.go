package protocol

import "testing"

func TestParseLine(t *testing.T) {
	cases := []struct {
		in       string
		wantVerb string
		wantNoun string
	}{
		{"BET 100\r\n", "BET", "100"},
		{"bet 100", "BET", "100"},
		{"STAND", "STAND", ""},
		{"  HIT  \n", "HIT", ""},
		{"", "", ""},
		{"   \t  ", "", ""},
		{"REGISTER Alice Smith", "REGISTER", "Alice Smith"},
	}
	for _, tc := range cases {
		verb, noun := ParseLine(tc.in)
		if verb != tc.wantVerb || noun != tc.wantNoun {
			t.Errorf("ParseLine(%q) = (%q, %q), want (%q, %q)", tc.in, verb, noun, tc.wantVerb, tc.wantNoun)
		}
	}
}

func TestContains(t *testing.T) {
	allowed := []string{"HIT", "STAND"}
	if !Contains(allowed, "HIT") {
		t.Error("expected HIT to be allowed")
	}
	if Contains(allowed, "DOUBLE") {
		t.Error("DOUBLE should not be allowed")
	}
}
