// Package engagement implements the conversation intelligence pipeline:
// scam detection, intelligence extraction, and persona reply generation.
package engagement

// Sender roles as they appear on the wire. The scam originator sends as
// "scammer"; the engaging persona's own prior turns arrive as "user".
const (
	SenderScammer = "scammer"
	SenderPersona = "user"
)

// Turn is one message exchanged in a conversation.
type Turn struct {
	Sender    string `json:"sender"`
	Text      string `json:"text"`
	Timestamp string `json:"timestamp"`
}

// Metadata steers the responder's tone. Values are never validated against
// an enum; absent fields fall back to fixed defaults.
type Metadata struct {
	Channel  string `json:"channel"`
	Language string `json:"language"`
	Locale   string `json:"locale"`
}

const (
	defaultChannel  = "SMS"
	defaultLanguage = "English"
	defaultLocale   = "IN"
)

func (m Metadata) withDefaults() Metadata {
	if m.Channel == "" {
		m.Channel = defaultChannel
	}
	if m.Language == "" {
		m.Language = defaultLanguage
	}
	if m.Locale == "" {
		m.Locale = defaultLocale
	}
	return m
}

// IntelligenceRecord is the reconciled extraction result. The five list
// fields are always non-nil and deduplicated; AgentNotes is always non-empty.
type IntelligenceRecord struct {
	BankAccounts       []string `json:"bankAccounts"`
	UpiIDs             []string `json:"upiIds"`
	PhishingLinks      []string `json:"phishingLinks"`
	PhoneNumbers       []string `json:"phoneNumbers"`
	SuspiciousKeywords []string `json:"suspiciousKeywords"`
	AgentNotes         string   `json:"agentNotes"`
}

// NewIntelligenceRecord returns a record with all list fields initialized so
// serialization always yields arrays, never null.
func NewIntelligenceRecord() IntelligenceRecord {
	return IntelligenceRecord{
		BankAccounts:       []string{},
		UpiIDs:             []string{},
		PhishingLinks:      []string{},
		PhoneNumbers:       []string{},
		SuspiciousKeywords: []string{},
	}
}

// complete fills in whatever an upstream pass left absent so the record
// always satisfies the full shape.
func (r *IntelligenceRecord) complete() {
	if r.BankAccounts == nil {
		r.BankAccounts = []string{}
	}
	if r.UpiIDs == nil {
		r.UpiIDs = []string{}
	}
	if r.PhishingLinks == nil {
		r.PhishingLinks = []string{}
	}
	if r.PhoneNumbers == nil {
		r.PhoneNumbers = []string{}
	}
	if r.SuspiciousKeywords == nil {
		r.SuspiciousKeywords = []string{}
	}
	if r.AgentNotes == "" {
		r.AgentNotes = defaultAgentNotes
	}
}

// Fixed fallback strings. Every provider failure resolves to one of these so
// the counterparty always sees an in-character reply.
const (
	defaultSessionID  = "unknown_session"
	defaultAgentNotes = "Scammer is engaging."
	timeoutAgentNotes = "Processing timed out"

	fallbackReply = "I'm sorry, I don't understand. What do I need to do exactly?"
	nonScamReply  = "Okay, thank you for letting me know."
)

// Result is the outcome of one pipeline run.
type Result struct {
	SessionID     string
	ScamDetected  bool
	Reply         string
	Intelligence  IntelligenceRecord
	TotalMessages int
}
