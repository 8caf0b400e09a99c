// Package report delivers extracted scam intelligence to the external
// reporting endpoint. Delivery is best-effort: bounded timeout, no retry,
// never visible to the conversation path.
package report

// Intelligence is the structured extraction result carried by a callback.
type Intelligence struct {
	BankAccounts       []string `json:"bankAccounts"`
	UpiIDs             []string `json:"upiIds"`
	PhishingLinks      []string `json:"phishingLinks"`
	PhoneNumbers       []string `json:"phoneNumbers"`
	SuspiciousKeywords []string `json:"suspiciousKeywords"`
}

// Payload is the reporting callback body. AgentNotes is a top-level field,
// not part of extractedIntelligence.
type Payload struct {
	SessionID              string       `json:"sessionId"`
	ScamDetected           bool         `json:"scamDetected"`
	TotalMessagesExchanged int          `json:"totalMessagesExchanged"`
	ExtractedIntelligence  Intelligence `json:"extractedIntelligence"`
	AgentNotes             string       `json:"agentNotes"`
}
