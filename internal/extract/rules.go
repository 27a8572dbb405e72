package extract

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/trip-assistant/internal/model"
)

// utterance is the input every rule sees.
type utterance struct {
	text    string
	today   model.Date
	profile model.TripProfile
	// asked is the field the previous reply asked for, when hasAsked.
	asked    model.Field
	hasAsked bool
}

// Rule is one independent matcher. A rule returns only what it recognises;
// results are combined in order, the first rule to set a field winning.
type Rule struct {
	Name  string
	Match func(u utterance) evidence
}

// DefaultRules is the ordered rule set used by RuleExtractor.
var DefaultRules = []Rule{
	{Name: "dates", Match: matchDates},
	{Name: "duration", Match: matchDuration},
	{Name: "reference", Match: matchReference},
	{Name: "origin", Match: matchOrigin},
	{Name: "destination", Match: matchDestination},
	{Name: "travelers", Match: matchTravelers},
	{Name: "budget", Match: matchBudget},
	{Name: "preferences", Match: matchPreferences},
	{Name: "short_answer", Match: matchShortAnswer},
}

// RuleExtractor is the deterministic extractor. It never fails: a message
// it cannot read yields an empty Partial.
type RuleExtractor struct {
	rules    []Rule
	resolver resolver
}

// NewRuleExtractor creates a RuleExtractor using DefaultRules.
func NewRuleExtractor(opts ...Option) *RuleExtractor {
	return &RuleExtractor{rules: DefaultRules, resolver: newResolver(opts)}
}

// Extract implements Engine.
func (x *RuleExtractor) Extract(ctx context.Context, message string, profile model.TripProfile) (p model.Partial, err error) {
	defer func() {
		if r := recover(); r != nil {
			zap.L().Error("extract: rule panic", zap.Any("panic", r))
			p = model.Partial{}
		}
	}()

	u := utterance{text: message, today: x.resolver.today(), profile: profile}
	u.asked, u.hasAsked = askedField(ctx)
	var ev evidence
	for _, r := range x.rules {
		ev.fill(r.Match(u))
	}
	return x.resolver.resolve(ev, profile), nil
}

func matchDates(u utterance) evidence {
	start, end := assignDates(scanDates(u.text, u.today))
	return evidence{start: start, end: end}
}

func matchDuration(u utterance) evidence {
	return evidence{span: scanSpan(u.text)}
}

func matchReference(u utterance) evidence {
	return evidence{reference: scanReference(u.text)}
}

var (
	originTriggerRe = regexp.MustCompile(`(?i)\b(?:from|out\s+of|departing(?:\s+from)?|leaving\s+from|live\s+in|living\s+in|based\s+in|i'?m\s+in|i\s+am\s+in|home\s+is)\s+`)
	destTriggerRe   = regexp.MustCompile(`(?i)\b(to|visit|visiting|in|explore|exploring|toward|towards)\s+`)
)

// notDestinationBefore lists words that make a following "in" about
// something other than where the trip goes.
var notDestinationBefore = set("live", "living", "based", "am", "i'm", "im", "interested",
	"currently", "involved", "included", "participate", "believe", "home")

func matchOrigin(u utterance) evidence {
	for _, idx := range originTriggerRe.FindAllStringIndex(u.text, -1) {
		if c := readPlace(u.text, idx[1]); acceptPlace(c) {
			return evidence{origin: placeName(c)}
		}
	}
	return evidence{}
}

func matchDestination(u utterance) evidence {
	origin := matchOrigin(u).origin
	for _, idx := range destTriggerRe.FindAllStringSubmatchIndex(u.text, -1) {
		trigger := strings.ToLower(u.text[idx[2]:idx[3]])
		if trigger == "in" && notDestinationBefore[previousWord(u.text, idx[0])] {
			continue
		}
		c := readPlace(u.text, idx[1])
		if !acceptPlace(c) || strings.EqualFold(placeName(c), origin) {
			continue
		}
		return evidence{destination: placeName(c)}
	}
	return evidence{}
}

const travelersCount = `(\d{1,2}|one|two|three|four|five|six|seven|eight|nine|ten|eleven|twelve)`

var travelerRules = []struct {
	re    *regexp.Regexp
	extra int
}{
	{regexp.MustCompile(`(?i)\bwith\s+` + travelersCount + `\s+(?:other|more)\b`), 1},
	{regexp.MustCompile(`(?i)\bwith\s+(?:my\s+)?` + travelersCount + `\s+(?:friends|people|colleagues|coworkers|kids|children|others|adults|travell?ers|buddies|family\s+members)\b`), 1},
	{regexp.MustCompile(`(?i)\b` + travelersCount + `\s+of\s+us\b`), 0},
	{regexp.MustCompile(`(?i)\b(?:total\s+of|group\s+of|party\s+of|family\s+of)\s+` + travelersCount + `\b`), 0},
	{regexp.MustCompile(`(?i)\b(?:we\s+are|we're|there\s+are|there\s+will\s+be|there'll\s+be)\s+(?:a\s+(?:group|family|party)\s+of\s+)?` + travelersCount + `\b`), 0},
	{regexp.MustCompile(`(?i)\b` + travelersCount + `\s+(?:people|persons|travell?ers|adults|guests|pax|passengers)\b`), 0},
}

var (
	coupleRe = regexp.MustCompile(`(?i)\b(?:my\s+(?:wife|husband|partner|girlfriend|boyfriend|spouse|fianc[eé]e?|friend|mom|mother|dad|father|brother|sister)\s+and\s+(?:i|me)|(?:me|i)\s+and\s+my\s+(?:wife|husband|partner|girlfriend|boyfriend|spouse|fianc[eé]e?|friend|mom|mother|dad|father|brother|sister)|honeymoon|couple'?s\s+(?:trip|getaway))\b`)
	soloRe   = regexp.MustCompile(`(?i)\b(?:solo|by\s+myself|just\s+me|only\s+me|alone)\b`)
)

func matchTravelers(u utterance) evidence {
	for _, r := range travelerRules {
		g := r.re.FindStringSubmatch(u.text)
		if g == nil {
			continue
		}
		if n, ok := parseCount(g[1]); ok {
			return evidence{travelers: n + r.extra}
		}
	}
	switch {
	case coupleRe.MatchString(u.text):
		return evidence{travelers: 2}
	case soloRe.MatchString(u.text):
		return evidence{travelers: 1}
	}
	return evidence{}
}

// minBudget filters out day numbers caught after the word "budget".
const minBudget = 50

const amountPat = `(\d[\d,]*(?:\.\d+)?)\s*(k)?\b`

var budgetRes = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bbudget\D{0,25}?\$?\s*` + amountPat + `(?:\s*(?:-|–|to|and)\s*\$?\s*` + amountPat + `)?`),
	regexp.MustCompile(`(?i)\$\s*` + amountPat + `(?:\s*(?:-|–|to|and)\s*\$?\s*` + amountPat + `)?`),
	regexp.MustCompile(`(?i)\b` + amountPat + `(?:\s*(?:-|–|to)\s*` + amountPat + `)?\s*(?:dollars|usd|bucks)\b`),
	regexp.MustCompile(`(?i)\bspend\D{0,15}?` + amountPat),
}

func matchBudget(u utterance) evidence {
	for _, re := range budgetRes {
		g := re.FindStringSubmatch(u.text)
		if g == nil {
			continue
		}
		low, ok := parseAmount(g[1], g[2])
		if !ok || low < minBudget {
			continue
		}
		if len(g) > 4 && g[3] != "" {
			if high, ok := parseAmount(g[3], g[4]); ok {
				low = (low + high) / 2
			}
		}
		return evidence{budget: &low}
	}
	return evidence{}
}

func parseAmount(num, suffix string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.ReplaceAll(num, ",", ""), 64)
	if err != nil || v < 0 {
		return 0, false
	}
	if suffix != "" {
		v *= 1000
	}
	return v, true
}

var preferenceRe = regexp.MustCompile(`(?i)\b(?:interested\s+in|activities\s+like|activities\s+such\s+as|things\s+like|prefer|(?:i|we)\s+(?:love|enjoy|like)|(?:i'?m|we'?re)\s+into|fans?\s+of|want\s+to\s+do)\s+([^.?!\n]+)`)

const maxPreferenceLen = 200

func matchPreferences(u utterance) evidence {
	g := preferenceRe.FindStringSubmatch(u.text)
	if g == nil {
		return evidence{}
	}
	pref := strings.TrimSpace(g[1])
	if strings.HasPrefix(strings.ToLower(pref), "to ") {
		return evidence{}
	}
	if i := strings.Index(strings.ToLower(pref), " but "); i > 0 {
		pref = pref[:i]
	}
	if len(pref) > maxPreferenceLen {
		pref = pref[:maxPreferenceLen]
	}
	return evidence{preferences: strings.TrimRight(pref, " ,;")}
}

var (
	bareNumberRe = regexp.MustCompile(`(?i)^\$?\s*` + amountPat + `$`)
	barePlaceRe  = regexp.MustCompile(`^[\p{L}][\p{L} .'-]{0,40}$`)
)

// matchShortAnswer reads a reply that is only a number or only a place name.
// A number fills the first numeric slot the profile still lacks; a place
// name is taken only as the answer to a question about that place.
func matchShortAnswer(u utterance) evidence {
	text := strings.TrimSpace(strings.TrimRight(strings.TrimSpace(u.text), ".!?"))
	if g := bareNumberRe.FindStringSubmatch(text); g != nil {
		v, ok := parseAmount(g[1], g[2])
		if !ok {
			return evidence{}
		}
		switch {
		case v >= 1 && v <= 20 && v == float64(int(v)) && u.profile.Travelers == 0:
			return evidence{travelers: int(v)}
		case v >= minBudget && u.profile.Budget == nil:
			return evidence{budget: &v}
		}
		return evidence{}
	}

	if !barePlaceRe.MatchString(text) || len(strings.Fields(text)) > 4 || !acceptPlace(text) {
		return evidence{}
	}
	for _, w := range strings.Fields(strings.ToLower(text)) {
		if stopWords[w] || isMonth(w) || weekdays[w] {
			return evidence{}
		}
	}
	if !u.hasAsked || u.profile.Has(u.asked) {
		return evidence{}
	}
	switch u.asked {
	case model.FieldDestination:
		return evidence{destination: placeName(text)}
	case model.FieldOrigin:
		return evidence{origin: placeName(text)}
	}
	return evidence{}
}
