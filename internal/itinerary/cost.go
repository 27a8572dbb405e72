package itinerary

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/sells-group/trip-assistant/internal/model"
)

var (
	budgetHeadingRe = regexp.MustCompile(`(?i)^\s*(?:#{1,6}|\*\*).*\b(budget|cost)`)
	headingRe       = regexp.MustCompile(`^\s*#{1,6}\s`)
	currencyRe      = regexp.MustCompile(`(?i)[$€£]|\b(?:usd|eur|gbp)\b`)
	amountRe        = regexp.MustCompile(`(\d[\d,]*(?:\.\d+)?)\s*(k\b)?`)
	bulletRe        = regexp.MustCompile(`^\s*(?:[-*•]|\d+\.)\s*\**([^:*]+?)\**\s*:\s*(.+)$`)
	totalRe         = regexp.MustCompile(`(?i)^(?:grand\s+|estimated\s+)?total\b`)
	tableRuleRe     = regexp.MustCompile(`^[\s|:\-]+$`)
	markupRe        = strings.NewReplacer("**", "", "__", "", "`", "")
)

var categoryDescriptions = map[string]string{
	"flights":        "Round-trip airfare",
	"flight":         "Round-trip airfare",
	"airfare":        "Round-trip airfare",
	"accommodation":  "Hotel stay",
	"accommodations": "Hotel stay",
	"hotel":          "Hotel stay",
	"hotels":         "Hotel stay",
	"lodging":        "Hotel stay",
	"food":           "Meals and dining",
	"meals":          "Meals and dining",
	"dining":         "Meals and dining",
	"activities":     "Tours, tickets and attractions",
	"attractions":    "Tours, tickets and attractions",
	"transportation": "Local transport",
	"transport":      "Local transport",
	"miscellaneous":  "Souvenirs, tips and other expenses",
	"misc":           "Souvenirs, tips and other expenses",
	"other":          "Souvenirs, tips and other expenses",

	"local transportation": "Local transport",
}

// ParseCostBreakdown reads the budget section of an itinerary. It prefers a
// markdown table and falls back to "- Item: $amount" bullets. An explicit
// total line wins over the sum of items. It reports false when no cost
// lines were found.
func ParseCostBreakdown(text, currency string) (*model.CostBreakdown, bool) {
	lines := budgetSection(text)
	cb := &model.CostBreakdown{Currency: detectCurrency(text, currency)}

	total, found := parseTable(lines, cb)
	if len(cb.Items) == 0 {
		total, found = parseBullets(lines, cb)
	}
	if len(cb.Items) == 0 && !found {
		return nil, false
	}
	if found {
		cb.Total = total
	} else {
		cb.Total = cb.ItemsTotal()
	}
	return cb, true
}

// budgetSection returns the lines under the first budget or cost heading,
// or every line when there is no such heading.
func budgetSection(text string) []string {
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		if !budgetHeadingRe.MatchString(l) {
			continue
		}
		end := len(lines)
		for j := i + 1; j < len(lines); j++ {
			if headingRe.MatchString(lines[j]) {
				end = j
				break
			}
		}
		return lines[i+1 : end]
	}
	return lines
}

func parseTable(lines []string, cb *model.CostBreakdown) (total float64, found bool) {
	for _, l := range lines {
		l = strings.TrimSpace(l)
		if !strings.HasPrefix(l, "|") || tableRuleRe.MatchString(l) {
			continue
		}
		cells := strings.Split(strings.Trim(l, "|"), "|")
		for i := range cells {
			cells[i] = strings.TrimSpace(markupRe.Replace(cells[i]))
		}
		if len(cells) < 2 {
			continue
		}
		amount, ok := parseAmount(cells[1])
		if !ok {
			continue
		}
		if totalRe.MatchString(cells[0]) {
			total, found = amount, true
			continue
		}
		desc := ""
		if len(cells) > 2 {
			desc = cells[2]
		}
		cb.Items = append(cb.Items, item(cells[0], amount, desc))
	}
	return total, found
}

func parseBullets(lines []string, cb *model.CostBreakdown) (total float64, found bool) {
	for _, l := range lines {
		m := bulletRe.FindStringSubmatch(markupRe.Replace(l))
		if m == nil {
			continue
		}
		amount, ok := parseAmount(m[2])
		if !ok {
			continue
		}
		category := strings.TrimSpace(m[1])
		if totalRe.MatchString(category) {
			total, found = amount, true
			continue
		}
		cb.Items = append(cb.Items, item(category, amount, ""))
	}
	return total, found
}

func item(category string, amount float64, desc string) model.CostItem {
	if desc == "" {
		desc = describe(category)
	}
	return model.CostItem{Category: category, Amount: amount, Description: desc}
}

func describe(category string) string {
	if d, ok := categoryDescriptions[strings.ToLower(strings.TrimSpace(category))]; ok {
		return d
	}
	return "Estimated cost"
}

// parseAmount reads the first amount in s, averaging "low - high" ranges.
// s must carry a currency marker.
func parseAmount(s string) (float64, bool) {
	if !currencyRe.MatchString(s) {
		return 0, false
	}
	matches := amountRe.FindAllStringSubmatch(s, 2)
	if len(matches) == 0 {
		return 0, false
	}
	var vals []float64
	for _, m := range matches {
		v, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64)
		if err != nil {
			continue
		}
		if m[2] != "" {
			v *= 1000
		}
		vals = append(vals, v)
	}
	switch {
	case len(vals) == 0:
		return 0, false
	case len(vals) == 2 && isRange(s):
		return (vals[0] + vals[1]) / 2, true
	default:
		return vals[0], true
	}
}

func isRange(s string) bool {
	return strings.ContainsAny(s, "-–") || strings.Contains(strings.ToLower(s), " to ")
}

func detectCurrency(text, fallback string) string {
	switch {
	case strings.Contains(text, "€"):
		return "EUR"
	case strings.Contains(text, "£"):
		return "GBP"
	case fallback != "":
		return fallback
	default:
		return "USD"
	}
}
