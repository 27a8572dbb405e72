package dialog

import (
	"context"
	"fmt"
	"strings"

	"github.com/sells-group/trip-assistant/internal/model"
)

// Template renders replies without a language model.
type Template struct{}

// Respond lists known details, then the missing ones, then asks the next
// question.
func (Template) Respond(_ context.Context, _ *model.Session, _ string, brief Brief) (string, error) {
	var sb strings.Builder
	for _, n := range brief.Notes {
		sb.WriteString(n)
		sb.WriteString("\n")
	}
	if len(brief.Notes) > 0 {
		sb.WriteString("\n")
	}

	known := brief.Profile.Known()
	if len(known) > 0 {
		sb.WriteString("Here's what I have so far:\n")
		for _, f := range known {
			fmt.Fprintf(&sb, "✓ %s: %s\n", capitalize(f.Label()), displayValue(brief.Profile, f))
		}
		sb.WriteString("\n")
	} else {
		sb.WriteString("Let's plan your trip!\n\n")
	}

	if len(brief.Missing) > 0 {
		sb.WriteString("To plan your trip I still need:\n")
		for _, f := range brief.Missing {
			fmt.Fprintf(&sb, "⚠️ %s\n", capitalize(f.Label()))
		}
	}
	if len(brief.Optional) > 0 {
		sb.WriteString("Optional:\n")
		for _, f := range brief.Optional {
			fmt.Fprintf(&sb, "○ %s\n", capitalize(f.Label()))
		}
	}
	if q := brief.Question(); q != "" {
		sb.WriteString("\n")
		sb.WriteString(q)
	}
	return strings.TrimSpace(sb.String()), nil
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
