package engagement

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractorPatternPassOnly(t *testing.T) {
	// Provider is down: the deterministic pass stands alone.
	e := NewExtractor(failingLLM("network down"), nil, nil)

	history := []Turn{
		{Sender: SenderScammer, Text: "Pay to jobhero@paytm or your account is suspended"},
		{Sender: SenderPersona, Text: "Which account?"},
	}
	record := e.Extract(context.Background(), "Click http://scam-bank.com or call +91 9988776655 now. Acct 123456789012", history)

	assert.Contains(t, record.UpiIDs, "jobhero@paytm")
	assert.Contains(t, record.PhishingLinks, "http://scam-bank.com")
	// The country-code group is part of the match, so "+91 9988776655"
	// yields "91 9988776655" rather than the bare subscriber number.
	assert.Contains(t, record.PhoneNumbers, "91 9988776655")
	assert.Contains(t, record.BankAccounts, "123456789012")
	assert.Empty(t, record.SuspiciousKeywords)
	assert.Equal(t, defaultAgentNotes, record.AgentNotes)
}

func TestExtractorLooseDigitPatternsOverlap(t *testing.T) {
	// A bare 10-digit run matches both the account and phone shapes. That is
	// accepted behavior: recall over precision, duplicates unioned away.
	e := NewExtractor(failingLLM("down"), nil, nil)

	record := e.Extract(context.Background(), "call 9988776655", nil)

	assert.Contains(t, record.BankAccounts, "9988776655")
	assert.Contains(t, record.PhoneNumbers, "9988776655")
}

func TestExtractorMergesModelResults(t *testing.T) {
	modelJSON := `{
		"bankAccounts": ["999888777666"],
		"upiIds": ["jobhero@paytm", "fraud@ybl"],
		"phishingLinks": [],
		"phoneNumbers": [],
		"suspiciousKeywords": ["act now", "last warning"],
		"agentNotes": "Urgency pressure; requests UPI transfer."
	}`
	e := NewExtractor(staticLLM(modelJSON), nil, nil)

	record := e.Extract(context.Background(), "send money to jobhero@paytm immediately", nil)

	// jobhero@paytm came from both passes and must appear once.
	assert.Equal(t, []string{"jobhero@paytm", "fraud@ybl"}, record.UpiIDs)
	assert.Equal(t, []string{"999888777666"}, record.BankAccounts)
	assert.Equal(t, []string{"act now", "last warning"}, record.SuspiciousKeywords)
	assert.Equal(t, "Urgency pressure; requests UPI transfer.", record.AgentNotes)
}

func TestExtractorUnwrapsFencedJSON(t *testing.T) {
	fenced := "```json\n{\"suspiciousKeywords\": [\"urgent\"], \"agentNotes\": \"Fear tactics.\"}\n```"
	e := NewExtractor(staticLLM(fenced), nil, nil)

	record := e.Extract(context.Background(), "urgent: pay now", nil)

	assert.Equal(t, []string{"urgent"}, record.SuspiciousKeywords)
	assert.Equal(t, "Fear tactics.", record.AgentNotes)
}

func TestExtractorLocatesEmbeddedJSONObject(t *testing.T) {
	chatty := `Sure! Here is the analysis you asked for:
{"suspiciousKeywords": ["blocked"], "agentNotes": "Account-block scare."}
Let me know if you need anything else.`
	e := NewExtractor(staticLLM(chatty), nil, nil)

	record := e.Extract(context.Background(), "your account is blocked", nil)

	assert.Equal(t, []string{"blocked"}, record.SuspiciousKeywords)
	assert.Equal(t, "Account-block scare.", record.AgentNotes)
}

func TestExtractorDiscardsUnparseableModelOutput(t *testing.T) {
	tests := []struct {
		name   string
		output string
	}{
		{"prose only", "The scammer appears to want money."},
		{"broken json", `{"upiIds": [`},
		{"empty output", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewExtractor(staticLLM(tt.output), nil, nil)
			record := e.Extract(context.Background(), "pay jobhero@paytm", nil)

			assert.Equal(t, []string{"jobhero@paytm"}, record.UpiIDs)
			assert.Equal(t, defaultAgentNotes, record.AgentNotes)
		})
	}
}

func TestExtractorCoercesMalformedFields(t *testing.T) {
	// Wrong-typed fields are dropped individually; the rest of the object
	// survives.
	modelJSON := `{
		"bankAccounts": "not-a-list",
		"upiIds": ["ok@upi", 42, null],
		"suspiciousKeywords": ["fee"],
		"agentNotes": ""
	}`
	e := NewExtractor(staticLLM(modelJSON), nil, nil)

	record := e.Extract(context.Background(), "pay the fee", nil)

	assert.Empty(t, record.BankAccounts)
	assert.Equal(t, []string{"ok@upi"}, record.UpiIDs)
	assert.Equal(t, []string{"fee"}, record.SuspiciousKeywords)
	// Blank model notes fall back to the default.
	assert.Equal(t, defaultAgentNotes, record.AgentNotes)
}

func TestExtractorAllFieldsAlwaysPresent(t *testing.T) {
	e := NewExtractor(failingLLM("down"), nil, nil)

	record := e.Extract(context.Background(), "", nil)

	require.NotNil(t, record.BankAccounts)
	require.NotNil(t, record.UpiIDs)
	require.NotNil(t, record.PhishingLinks)
	require.NotNil(t, record.PhoneNumbers)
	require.NotNil(t, record.SuspiciousKeywords)
	assert.NotEmpty(t, record.AgentNotes)
}

func TestExtractorDeterministicPathIsIdempotent(t *testing.T) {
	e := NewExtractor(failingLLM("down"), nil, nil)
	history := []Turn{{Sender: SenderScammer, Text: "transfer to 123456789 via jobhero@paytm http://scam-bank.com"}}

	first := e.Extract(context.Background(), "call +91 9988776655", history)
	second := e.Extract(context.Background(), "call +91 9988776655", history)

	assert.Equal(t, first, second)
}

func TestTranscriptBlobOrdering(t *testing.T) {
	history := []Turn{
		{Text: "first"},
		{Text: "second"},
	}
	assert.Equal(t, "first second third", transcriptBlob("third", history))
}
