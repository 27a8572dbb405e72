package conversation

import (
	"regexp"
	"strings"
)

// Intent is how a message reads as an answer to "shall I plan this?".
type Intent int

const (
	IntentNone Intent = iota
	IntentAffirm
	IntentDeny
)

func (i Intent) String() string {
	switch i {
	case IntentAffirm:
		return "affirm"
	case IntentDeny:
		return "deny"
	default:
		return "none"
	}
}

var (
	affirmWords   = map[string]bool{"yes": true, "yeah": true, "yep": true, "sure": true, "ok": true, "okay": true, "proceed": true, "confirm": true, "book": true, "please": true}
	affirmPhrases = [][2]string{{"go", "ahead"}, {"sounds", "good"}}
	negationWords = map[string]bool{"no": true, "nope": true, "don't": true, "dont": true, "not": true, "cancel": true}
	tokenRe       = regexp.MustCompile(`[a-z']+`)
)

// Classify reads a confirmation answer. Any negation outweighs any
// affirmative, so "don't confirm" and "yes, but not yet" never confirm.
func Classify(message string) Intent {
	text := strings.ToLower(strings.ReplaceAll(message, "’", "'"))
	tokens := tokenRe.FindAllString(text, -1)

	affirm, negate := false, false
	for i, tok := range tokens {
		if negationWords[tok] {
			negate = true
			continue
		}
		if affirmWords[tok] {
			affirm = true
			continue
		}
		if i+1 < len(tokens) {
			for _, p := range affirmPhrases {
				if tok == p[0] && tokens[i+1] == p[1] {
					affirm = true
				}
			}
		}
	}

	switch {
	case negate:
		return IntentDeny
	case affirm:
		return IntentAffirm
	default:
		return IntentNone
	}
}
