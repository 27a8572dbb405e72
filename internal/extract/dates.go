package extract

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/sells-group/trip-assistant/internal/model"
)

const (
	monthPat = `(jan(?:uary)?|feb(?:ruary)?|mar(?:ch)?|apr(?:il)?|may|june?|july?|aug(?:ust)?|sep(?:t(?:ember)?)?|oct(?:ober)?|nov(?:ember)?|dec(?:ember)?)`
	dayPat   = `(\d{1,2})(?:st|nd|rd|th)?`
	yearPat  = `(?:,?\s*(\d{4}))?`
	rangeSep = `\s*(?:-|–|to|until|till|through|thru)\s*`
)

var (
	isoRe     = regexp.MustCompile(`\b(\d{4})-(\d{1,2})-(\d{1,2})\b`)
	mdRangeRe = regexp.MustCompile(`(?i)\b` + monthPat + `\.?\s+` + dayPat + rangeSep + `(?:the\s+)?(?:` + monthPat + `\.?\s+)?` + dayPat + `\b` + yearPat)
	dmRangeRe = regexp.MustCompile(`(?i)\b` + dayPat + rangeSep + `(?:the\s+)?` + dayPat + `\s+(?:of\s+)?` + monthPat + `\b` + yearPat)
	mdRe      = regexp.MustCompile(`(?i)\b` + monthPat + `\.?\s+(?:the\s+)?` + dayPat + `\b` + yearPat)
	dmRe      = regexp.MustCompile(`(?i)\b` + dayPat + `\s+(?:of\s+)?` + monthPat + `\b` + yearPat)
	usRe      = regexp.MustCompile(`\b(\d{1,2})/(\d{1,2})(?:/(\d{2,4}))?\b`)

	dayAfterRe = regexp.MustCompile(`(?i)\b(?:the\s+)?day\s+after\s+tomorrow\b`)
	tomorrowRe = regexp.MustCompile(`(?i)\btomorrow\b`)

	endCueRe = regexp.MustCompile(`(?i)\b(?:until|till|through|thru|to|ending|end(?:ing)?\s+on|return(?:ing)?(?:\s+on)?|(?:fly|flying|come|coming|get|getting)\s+back(?:\s+on)?|back\s+on)\s*(?:the\s+)?$`)

	durationRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\bfor\s+(?:about\s+|around\s+|roughly\s+|approximately\s+)?` + countPat + `\s+(day|night|week)s?\b`),
		regexp.MustCompile(`(?i)\b` + countPat + `[\s-](day|night|week)s?\s+(?:trip|stay|vacation|holiday|getaway|visit|tour|break)\b`),
		regexp.MustCompile(`(?i)\bspend(?:ing)?\s+` + countPat + `\s+(day|night|week)s?\b`),
		regexp.MustCompile(`(?i)\b` + countPat + `\s+(day|night|week)s?\s+(?:in|at)\b`),
	}

	referenceRes = []struct {
		re  *regexp.Regexp
		ref model.DateReference
	}{
		{regexp.MustCompile(`(?i)\bnext\s+week\b`), model.RefNextWeek},
		{regexp.MustCompile(`(?i)\bnext\s+month\b`), model.RefNextMonth},
		{regexp.MustCompile(`(?i)\bthis\s+(?:coming\s+)?weekend\b`), model.RefThisWeekend},
	}
)

// dateMention is one date or date range found in the text.
type dateMention struct {
	start, end int
	from       model.Date
	to         *model.Date
	endCue     bool
}

type dateScanner struct {
	re    *regexp.Regexp
	parse func(g []string, today model.Date) (model.Date, *model.Date, bool)
}

var dateScanners = []dateScanner{
	{isoRe, func(g []string, _ model.Date) (model.Date, *model.Date, bool) {
		d, ok := makeDate(atoi(g[1]), time.Month(atoi(g[2])), atoi(g[3]))
		return d, nil, ok
	}},
	{mdRangeRe, func(g []string, today model.Date) (model.Date, *model.Date, bool) {
		m1 := months[strings.ToLower(g[1])]
		m2 := m1
		if g[3] != "" {
			m2 = months[strings.ToLower(g[3])]
		}
		return resolveRange(m1, atoi(g[2]), m2, atoi(g[4]), atoi(g[5]), today)
	}},
	{dmRangeRe, func(g []string, today model.Date) (model.Date, *model.Date, bool) {
		m := months[strings.ToLower(g[3])]
		return resolveRange(m, atoi(g[1]), m, atoi(g[2]), atoi(g[4]), today)
	}},
	{mdRe, func(g []string, today model.Date) (model.Date, *model.Date, bool) {
		d, ok := resolveDay(months[strings.ToLower(g[1])], atoi(g[2]), atoi(g[3]), today)
		return d, nil, ok
	}},
	{dmRe, func(g []string, today model.Date) (model.Date, *model.Date, bool) {
		d, ok := resolveDay(months[strings.ToLower(g[2])], atoi(g[1]), atoi(g[3]), today)
		return d, nil, ok
	}},
	{usRe, func(g []string, today model.Date) (model.Date, *model.Date, bool) {
		year := atoi(g[3])
		if year > 0 && year < 100 {
			year += 2000
		}
		d, ok := resolveDay(time.Month(atoi(g[1])), atoi(g[2]), year, today)
		return d, nil, ok
	}},
	{dayAfterRe, func(_ []string, today model.Date) (model.Date, *model.Date, bool) {
		return today.AddDays(2), nil, true
	}},
	{tomorrowRe, func(_ []string, today model.Date) (model.Date, *model.Date, bool) {
		return today.AddDays(1), nil, true
	}},
}

// scanDates finds every date mention in text, earlier scanners winning
// over later ones for overlapping text.
func scanDates(text string, today model.Date) []dateMention {
	var out []dateMention
	taken := func(start, end int) bool {
		for _, m := range out {
			if start < m.end && end > m.start {
				return true
			}
		}
		return false
	}
	for _, s := range dateScanners {
		for _, idx := range s.re.FindAllStringSubmatchIndex(text, -1) {
			if taken(idx[0], idx[1]) {
				continue
			}
			groups := make([]string, len(idx)/2)
			for i := range groups {
				if idx[2*i] >= 0 {
					groups[i] = text[idx[2*i]:idx[2*i+1]]
				}
			}
			from, to, ok := s.parse(groups, today)
			if !ok {
				continue
			}
			out = append(out, dateMention{
				start:  idx[0],
				end:    idx[1],
				from:   from,
				to:     to,
				endCue: endCueRe.MatchString(text[:idx[0]]),
			})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].start < out[j].start })
	return out
}

// assignDates turns mentions into start and end dates. A range fills both;
// a single date after an end cue ("until", "returning") is the end date,
// otherwise the first single date is the start and the next one the end.
func assignDates(mentions []dateMention) (start, end *model.Date) {
	for _, m := range mentions {
		from := m.from
		if m.to != nil {
			if start == nil && end == nil {
				start, end = &from, m.to
			}
			continue
		}
		switch {
		case m.endCue && end == nil:
			end = &from
		case start == nil && !m.endCue:
			start = &from
		case end == nil:
			end = &from
		}
	}
	return start, end
}

// resolveDay builds a date. A yearless date is the next occurrence of that
// day on or after today.
func resolveDay(month time.Month, day, year int, today model.Date) (model.Date, bool) {
	if year > 0 {
		return makeDate(year, month, day)
	}
	for y := today.Year; y <= today.Year+4; y++ {
		if d, ok := makeDate(y, month, day); ok && !d.Before(today) {
			return d, true
		}
	}
	return model.Date{}, false
}

func resolveRange(m1 time.Month, d1 int, m2 time.Month, d2, year int, today model.Date) (model.Date, *model.Date, bool) {
	var from model.Date
	var ok bool
	if year > 0 && m2 < m1 {
		from, ok = makeDate(year-1, m1, d1)
	} else {
		from, ok = resolveDay(m1, d1, year, today)
	}
	if !ok {
		return model.Date{}, nil, false
	}
	toYear := from.Year
	if m2 < m1 {
		toYear++
	}
	to, ok := makeDate(toYear, m2, d2)
	if !ok {
		return model.Date{}, nil, false
	}
	return from, &to, true
}

func makeDate(year int, month time.Month, day int) (model.Date, bool) {
	if month < time.January || month > time.December || day < 1 || day > 31 {
		return model.Date{}, false
	}
	d := model.Date{Year: year, Month: month, Day: day}
	if model.DateOf(d.Time()) != d {
		return model.Date{}, false
	}
	return d, true
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

// scanSpan returns the day offset from start to end implied by a duration
// phrase: "5 days" spans 4, "5 nights" spans 5, "a week" spans 6.
func scanSpan(text string) int {
	for _, re := range durationRes {
		g := re.FindStringSubmatch(text)
		if g == nil {
			continue
		}
		n, ok := parseCount(g[1])
		if !ok || n > 365 {
			continue
		}
		switch strings.ToLower(g[2]) {
		case "night":
			return n
		case "week":
			return 7*n - 1
		default:
			if n <= 1 {
				return 1
			}
			return n - 1
		}
	}
	return 0
}

// scanReference finds a vague date phrase.
func scanReference(text string) model.DateReference {
	for _, r := range referenceRes {
		if r.re.MatchString(text) {
			return r.ref
		}
	}
	return model.RefNone
}

// referenceRange maps a vague phrase to concrete dates relative to today:
// next week is next Monday through Sunday, next month is its first through
// last day, this weekend is the coming Saturday and Sunday.
func referenceRange(ref model.DateReference, today model.Date) (model.Date, model.Date, bool) {
	wd := int(today.Time().Weekday())
	switch ref {
	case model.RefNextWeek:
		delta := (8 - wd) % 7
		if delta == 0 {
			delta = 7
		}
		start := today.AddDays(delta)
		return start, start.AddDays(6), true
	case model.RefNextMonth:
		first := model.DateOf(time.Date(today.Year, today.Month+1, 1, 0, 0, 0, 0, time.UTC))
		last := model.DateOf(time.Date(first.Year, first.Month+1, 0, 0, 0, 0, 0, time.UTC))
		return first, last, true
	case model.RefThisWeekend:
		sat := today.AddDays((6 - wd + 7) % 7)
		return sat, sat.AddDays(1), true
	default:
		return model.Date{}, model.Date{}, false
	}
}
