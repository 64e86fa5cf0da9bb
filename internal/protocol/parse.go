package protocol

import "strings"

// ParseLine splits a client line into its VERB and NOUN per spec §4.1: the
// first whitespace-delimited token is the verb, upper-cased; the remainder
// is the noun, with its leading spaces/tabs removed and otherwise preserved
// verbatim. An empty or whitespace-only line yields an empty verb.
func ParseLine(line string) (verb, noun string) {
	line = strings.TrimRight(line, "\r\n")
	trimmed := strings.TrimLeft(line, " \t")
	if trimmed == "" {
		return "", ""
	}
	sp := strings.IndexAny(trimmed, " \t")
	if sp < 0 {
		return strings.ToUpper(trimmed), ""
	}
	verb = strings.ToUpper(trimmed[:sp])
	noun = strings.TrimLeft(trimmed[sp+1:], " \t")
	return verb, noun
}

// Contains reports whether verb appears in the allowed list (case-sensitive;
// callers always compare against already-upper-cased verbs).
func Contains(allowed []string, verb string) bool {
	for _, a := range allowed {
		if a == verb {
			return true
		}
	}
	return false
}
