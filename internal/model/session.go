package model

// State is the conversation phase of a session, derived from its data.
type State string

const (
	StateCollecting           State = "COLLECTING"
	StateAwaitingConfirmation State = "AWAITING_CONFIRMATION"
	StateConfirmedPlanning    State = "CONFIRMED_PLANNING"
	StatePostItinerary        State = "POST_ITINERARY"
)

// Message roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// Message is one entry of the conversation history.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Session is everything persisted for one conversation. All parts share a
// rolling expiry managed by the store.
type Session struct {
	ID            string         `json:"id"`
	Profile       TripProfile    `json:"profile"`
	Confirmed     bool           `json:"confirmed"`
	Itinerary     string         `json:"itinerary,omitempty"`
	CostBreakdown *CostBreakdown `json:"cost_breakdown,omitempty"`
	History       []Message      `json:"history,omitempty"`
	// ThreadID is the handle of an external stateful conversation, when the
	// dialog runs on one.
	ThreadID string `json:"thread_id,omitempty"`
}

// NewSession returns the empty default session for id.
func NewSession(id string) *Session {
	return &Session{ID: id}
}

// State derives the conversation phase. An itinerary always wins; a
// confirmed flag without itinerary means planning has to (re)run.
func (s *Session) State() State {
	switch {
	case s.Itinerary != "":
		return StatePostItinerary
	case s.Confirmed && s.Profile.Complete():
		return StateConfirmedPlanning
	case s.Profile.Complete():
		return StateAwaitingConfirmation
	default:
		return StateCollecting
	}
}

// Confirm flips the confirmed flag. It refuses while required fields are
// missing and reports whether the flag is now set.
func (s *Session) Confirm() bool {
	if !s.Profile.Complete() {
		return false
	}
	s.Confirmed = true
	s.Profile.PromoteDates()
	return true
}

// Append records a message in the history.
func (s *Session) Append(role, content string) {
	s.History = append(s.History, Message{Role: role, Content: content})
}

// TrimHistory keeps at most the last n messages. n <= 0 keeps everything.
func (s *Session) TrimHistory(n int) {
	if n > 0 && len(s.History) > n {
		s.History = append([]Message(nil), s.History[len(s.History)-n:]...)
	}
}

// Recent returns at most the last n messages.
func (s *Session) Recent(n int) []Message {
	if n <= 0 || len(s.History) <= n {
		return s.History
	}
	return s.History[len(s.History)-n:]
}

// Clone returns a deep copy so callers can mutate freely.
func (s *Session) Clone() *Session {
	out := *s
	out.Profile = s.Profile.Clone()
	if s.CostBreakdown != nil {
		cb := *s.CostBreakdown
		cb.Items = append([]CostItem(nil), s.CostBreakdown.Items...)
		out.CostBreakdown = &cb
	}
	out.History = append([]Message(nil), s.History...)
	return &out
}
