package conversation

import (
	"fmt"
	"strings"

	"github.com/sells-group/trip-assistant/internal/model"
)

// User-facing failure texts. They never carry error details.
const (
	msgTryAgain       = "Sorry, something went wrong on my side. Please try again."
	msgTryLater       = "Sorry, I can't reach your trip details right now. Please try again later."
	msgPlanFailed     = "Sorry, I couldn't finish your itinerary this time. Send any message and I'll try again."
	msgFollowUpFailed = "Sorry, I couldn't answer that just now. Your itinerary is unchanged, so please try again."
	msgEmpty          = "I didn't catch that. Where would you like to go?"
	msgChangeWhat     = "No problem. What would you like to change?"
)

// summary renders the confirmation request for a complete profile.
func summary(p model.TripProfile, ref model.DateReference) string {
	var sb strings.Builder
	sb.WriteString("Here's your trip:\n")
	fmt.Fprintf(&sb, "• From: %s\n", p.Origin)
	fmt.Fprintf(&sb, "• To: %s\n", p.Destination)
	fmt.Fprintf(&sb, "• Dates: %s to %s (%d nights)\n", p.StartDate.Pretty(), p.EndDate.Pretty(), p.Nights())
	fmt.Fprintf(&sb, "• Travelers: %d\n", p.Travelers)
	if p.Budget != nil {
		fmt.Fprintf(&sb, "• Budget: %s total\n", model.FormatMoney(*p.Budget))
	}
	if p.Preferences != "" {
		fmt.Fprintf(&sb, "• Interests: %s\n", p.Preferences)
	}

	if p.NeedsDateConfirmation() {
		sb.WriteString("\n")
		if phrase := ref.Phrase(); phrase != "" {
			fmt.Fprintf(&sb, "I took %q to mean %s to %s. ", phrase, p.StartDate.Pretty(), p.EndDate.Pretty())
		} else {
			sb.WriteString("These dates are my best reading of what you said. ")
		}
		sb.WriteString("Tell me the exact dates if that's not right.\n")
	}

	missing := p.MissingOptional()
	if len(missing) > 0 {
		fmt.Fprintf(&sb, "\nYou can also tell me your %s.\n", strings.Join(model.Labels(missing), " and "))
	}
	sb.WriteString("\nShall I start planning? Reply \"yes\" to confirm or tell me what to change.")
	return sb.String()
}

// issueNotes turns rejected dates into corrections for the user.
func issueNotes(issues []model.DateIssue, horizonDays int) []string {
	var notes []string
	orderReported := false
	for _, is := range issues {
		switch is.Reason {
		case model.RejectPast:
			notes = append(notes, fmt.Sprintf("The %s %s is in the past. Please choose a future date.", is.Field.Label(), is.Date.Pretty()))
		case model.RejectBeyondHorizon:
			notes = append(notes, fmt.Sprintf("The %s %s is too far ahead. I can only plan trips up to %d days out.", is.Field.Label(), is.Date.Pretty(), horizonDays))
		case model.RejectEndNotAfter:
			if !orderReported {
				notes = append(notes, "The end date has to be after the start date. Could you check your dates?")
				orderReported = true
			}
		}
	}
	return notes
}
