package extract

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var months = map[string]time.Month{
	"jan": time.January, "january": time.January,
	"feb": time.February, "february": time.February,
	"mar": time.March, "march": time.March,
	"apr": time.April, "april": time.April,
	"may": time.May,
	"jun": time.June, "june": time.June,
	"jul": time.July, "july": time.July,
	"aug": time.August, "august": time.August,
	"sep": time.September, "sept": time.September, "september": time.September,
	"oct": time.October, "october": time.October,
	"nov": time.November, "november": time.November,
	"dec": time.December, "december": time.December,
}

var weekdays = set("monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday",
	"mon", "tue", "tues", "wed", "thu", "thur", "thurs", "fri", "sat", "sun", "weekend", "weekday")

var numberWords = map[string]int{
	"a": 1, "an": 1, "one": 1, "single": 1,
	"two": 2, "couple": 2, "a couple": 2, "couple of": 2, "a couple of": 2, "pair": 2,
	"three": 3, "four": 4, "five": 5, "six": 6, "seven": 7, "eight": 8, "nine": 9, "ten": 10,
	"eleven": 11, "twelve": 12, "thirteen": 13, "fourteen": 14, "fifteen": 15,
	"sixteen": 16, "seventeen": 17, "eighteen": 18, "nineteen": 19, "twenty": 20,
}

// countPat matches a small count written as digits or words.
const countPat = `(\d{1,3}|a\s+couple(?:\s+of)?|couple(?:\s+of)?|an?|one|two|three|four|five|six|seven|eight|nine|ten|eleven|twelve|thirteen|fourteen|fifteen|sixteen|seventeen|eighteen|nineteen|twenty)`

// parseCount turns a countPat capture into an int.
func parseCount(s string) (int, bool) {
	s = strings.Join(strings.Fields(strings.ToLower(s)), " ")
	if n, err := strconv.Atoi(s); err == nil {
		return n, n > 0
	}
	n, ok := numberWords[s]
	return n, ok
}

// stopWords end a place name.
var stopWords = set(
	"from", "to", "on", "in", "for", "with", "and", "or", "starting", "start", "next", "this",
	"between", "until", "till", "through", "by", "around", "during", "over", "at", "departing",
	"leaving", "returning", "via", "but", "so", "because", "we", "i", "i'm", "me", "my", "our",
	"it", "is", "are", "was", "will", "please", "too", "soon", "later", "then", "after", "before",
	"sometime", "some", "summer", "winter", "spring", "fall", "autumn", "early", "mid", "late",
	"tomorrow", "today", "tonight", "week", "month", "year", "days", "nights", "weeks", "of",
	"budget", "people", "us", "travelers", "travellers", "adults", "friends", "family", "if",
	"when", "where", "that", "which", "who", "as", "trip", "vacation", "holiday", "again",
)

// badLeads cannot start a place name.
var badLeads = set(
	"go", "going", "visit", "visiting", "travel", "traveling", "travelling", "fly", "flying", "be",
	"see", "do", "plan", "planning", "book", "booking", "get", "have", "spend", "stay", "take",
	"leave", "return", "come", "head", "make", "know", "find", "want", "like", "love", "explore",
	"check", "try", "help", "bring", "use", "add", "change", "update", "confirm", "proceed", "eat",
	"relax", "enjoy", "hike", "ski", "swim", "shop", "you", "your", "a", "an", "somewhere",
	"anywhere", "there", "here", "those", "these", "all", "any", "about", "maybe", "also", "just",
	"only", "work", "home", "scratch", "total", "advance", "mind", "fact", "general", "case",
	"order", "person", "addition", "particular", "time", "interested", "need", "not", "cancel",
	"yes", "no", "ok", "okay", "sure", "the", "sounds", "looks", "that's", "thats", "let's", "lets",
	"what", "how", "why", "can", "could", "would", "should", "hmm", "um", "actually", "never",
	"nevermind", "awesome", "nice", "wow", "thank", "thanks", "bye", "goodbye", "show", "tell",
	"hello", "hi", "hey", "greetings",
	"give", "more", "less", "cheaper", "different", "another", "other", "something", "anything",
	"nothing", "everything", "yeah", "yep", "yup", "nope", "nah", "please", "perfect", "cool",
	"fine",
)

// genericPlaces follow "the" in phrases that name a kind of place, not a
// destination.
var genericPlaces = set("beach", "beaches", "mountains", "mountain", "city", "countryside", "coast",
	"museum", "museums", "airport", "hotel", "park", "parks", "sea", "lake", "island", "islands",
	"desert", "north", "south", "east", "west", "same", "other", "best", "most", "rest", "whole",
	"end", "start", "trip", "plan", "itinerary", "flight", "flights")

// replies are short answers that are not places.
var replies = set(
	"yes", "yeah", "yep", "yup", "no", "nope", "nah", "ok", "okay", "sure", "thanks", "thank you",
	"hi", "hello", "hey", "maybe", "please", "confirm", "proceed", "cancel", "great", "cool",
	"perfect", "sounds good", "go ahead", "done", "nothing", "none", "no preference", "anything",
	"not sure", "correct", "right", "exactly", "book it", "let's go", "lets go", "good", "fine",
	"whatever", "i don't know", "idk", "stop", "reset", "help", "absolutely", "confirmed",
	"alright", "all right", "definitely", "certainly", "of course", "got it", "agreed", "awesome",
	"good morning", "good afternoon", "good evening", "hello there", "hi there", "hey there",
)

func set(words ...string) map[string]bool {
	m := make(map[string]bool, len(words))
	for _, w := range words {
		m[w] = true
	}
	return m
}

var placeWordRe = regexp.MustCompile(`^[ \t]*([\p{L}][\p{L}'.-]*)`)

var abbreviations = set("st", "mt", "ft")

// readPlace reads up to four words of a place name starting at text[from:].
func readPlace(text string, from int) string {
	rest := text[from:]
	var words []string
	for len(words) < 4 {
		m := placeWordRe.FindStringSubmatchIndex(rest)
		if m == nil {
			break
		}
		w := rest[m[2]:m[3]]
		rest = rest[m[1]:]

		bare := strings.TrimRight(w, ".'-")
		lw := strings.ToLower(bare)
		if stopWords[lw] || weekdays[lw] || isMonth(lw) {
			break
		}
		if strings.HasSuffix(w, ".") && !abbreviations[lw] {
			words = append(words, bare)
			break
		}
		words = append(words, strings.TrimRight(w, "'-"))
	}
	return strings.Join(words, " ")
}

// acceptPlace rejects candidates that are clearly not place names.
func acceptPlace(candidate string) bool {
	if candidate == "" {
		return false
	}
	fields := strings.Fields(strings.ToLower(candidate))
	if fields[0] == "the" {
		if len(fields) == 1 || genericPlaces[fields[1]] {
			return false
		}
	} else if badLeads[fields[0]] {
		return false
	}
	return !replies[strings.ToLower(candidate)]
}

func isMonth(w string) bool {
	_, ok := months[w]
	return ok
}

// placeName normalises a captured place. All-lowercase input is title-cased;
// anything the user capitalised is kept as written.
func placeName(s string) string {
	s = strings.TrimSpace(s)
	if s == strings.ToLower(s) {
		return cases.Title(language.English).String(s)
	}
	return s
}

// previousWord returns the lowercased word ending right before text[at:].
func previousWord(text string, at int) string {
	fields := strings.Fields(strings.ToLower(text[:at]))
	if len(fields) == 0 {
		return ""
	}
	return strings.Trim(fields[len(fields)-1], ",.;:!?")
}
