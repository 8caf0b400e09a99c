package engagement

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/wardenlabs/scambait/internal/llm"
	"github.com/wardenlabs/scambait/internal/observability/metrics"
	"github.com/wardenlabs/scambait/pkg/logging"
)

// Deterministic entity patterns. The bank and phone shapes are intentionally
// loose (any bare 9-18 digit run matches as an account number); recall is
// preferred over precision and duplicates are unioned away in the merge.
var (
	bankAccountRE = regexp.MustCompile(`\b\d{9,18}\b`)
	upiIDRE       = regexp.MustCompile(`[a-zA-Z0-9.\-_]{2,256}@[a-zA-Z]{2,64}`)
	phishingURLRE = regexp.MustCompile(`https?://(?:[-\w.]|%[\da-fA-F]{2})+`)
	phoneRE       = regexp.MustCompile(`\b(?:\+?\d{1,3}[- ]?)?\(?\d{3}\)?[- ]?\d{3}[- ]?\d{4}\b`)
)

const extractionPromptTemplate = `Analyze this conversation transcript for scam intelligence:
%q

Your tasks:
1. Identify intent: is the scammer trying to create urgency, ask for sensitive data, or offering something too good to be true?
2. Generic extraction: extract any names of banks, financial apps (like UPI, WhatsApp, YONO), or specific types of sensitive data requested (OTP, CVV, PIN, passwords).
3. Dynamic keyword logic: identify any specific words or phrases that convey pressure, fear, or excitement as 'suspiciousKeywords'.

Return ONLY a raw JSON object with these exact keys:
bankAccounts (list),
upiIds (list),
phishingLinks (list),
phoneNumbers (list),
suspiciousKeywords (list),
agentNotes (string summary: include the intent identified and any financial entities/apps found).

DO NOT include any explanation or markdown formatting.`

// Extractor scans a full transcript for structured scam intelligence. A
// deterministic regex pass provides the baseline; a model pass adds entities
// patterns cannot express. Both are merged into one normalized record.
type Extractor struct {
	client  llm.Client
	metrics *metrics.PipelineMetrics
	logger  *logging.Logger
}

func NewExtractor(client llm.Client, m *metrics.PipelineMetrics, logger *logging.Logger) *Extractor {
	if logger == nil {
		logger = logging.Default()
	}
	return &Extractor{
		client:  client,
		metrics: m,
		logger:  logger.WithComponent("extractor"),
	}
}

// Extract never fails: if the model pass errors or returns unparseable
// output, the deterministic results stand alone with default agent notes.
func (e *Extractor) Extract(ctx context.Context, message string, history []Turn) IntelligenceRecord {
	blob := transcriptBlob(message, history)
	record := patternPass(blob)

	model, err := e.modelPass(ctx, blob)
	if err != nil {
		e.logger.Warn("model extraction failed, keeping pattern results", "error", err.Error())
		e.metrics.ObserveProviderFailure("extractor")
		record.complete()
		return record
	}

	record.BankAccounts = unionStrings(record.BankAccounts, model.BankAccounts)
	record.UpiIDs = unionStrings(record.UpiIDs, model.UpiIDs)
	record.PhishingLinks = unionStrings(record.PhishingLinks, model.PhishingLinks)
	record.PhoneNumbers = unionStrings(record.PhoneNumbers, model.PhoneNumbers)
	record.SuspiciousKeywords = unionStrings(record.SuspiciousKeywords, model.SuspiciousKeywords)
	record.AgentNotes = strings.TrimSpace(model.AgentNotes)
	record.complete()
	return record
}

// transcriptBlob space-joins all turn texts plus the new message, order
// preserved.
func transcriptBlob(message string, history []Turn) string {
	parts := make([]string, 0, len(history)+1)
	for _, t := range history {
		parts = append(parts, t.Text)
	}
	parts = append(parts, message)
	return strings.Join(parts, " ")
}

func patternPass(blob string) IntelligenceRecord {
	record := NewIntelligenceRecord()
	record.BankAccounts = unionStrings(record.BankAccounts, bankAccountRE.FindAllString(blob, -1))
	record.UpiIDs = unionStrings(record.UpiIDs, upiIDRE.FindAllString(blob, -1))
	record.PhishingLinks = unionStrings(record.PhishingLinks, phishingURLRE.FindAllString(blob, -1))
	record.PhoneNumbers = unionStrings(record.PhoneNumbers, phoneRE.FindAllString(blob, -1))
	return record
}

func (e *Extractor) modelPass(ctx context.Context, blob string) (IntelligenceRecord, error) {
	resp, err := e.client.Complete(ctx, llm.Request{
		Temperature: 0,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: fmt.Sprintf(extractionPromptTemplate, blob)},
		},
	})
	if err != nil {
		return IntelligenceRecord{}, err
	}
	return parseIntelligenceJSON(resp.Text)
}

// parseIntelligenceJSON normalizes the model's free-form output into a
// partial record. The output is treated as an untyped document: fence
// markers are stripped, the outermost {...} span is isolated, and each field
// is coerced individually so one malformed key never discards the rest.
func parseIntelligenceJSON(raw string) (IntelligenceRecord, error) {
	content := stripCodeFences(strings.TrimSpace(raw))

	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start < 0 || end <= start {
		return IntelligenceRecord{}, fmt.Errorf("engagement: no JSON object in model output %q", truncate(content, 80))
	}
	content = content[start : end+1]

	var doc map[string]any
	if err := json.Unmarshal([]byte(content), &doc); err != nil {
		return IntelligenceRecord{}, fmt.Errorf("engagement: decode model output: %w", err)
	}

	record := IntelligenceRecord{
		BankAccounts:       coerceStringList(doc["bankAccounts"]),
		UpiIDs:             coerceStringList(doc["upiIds"]),
		PhishingLinks:      coerceStringList(doc["phishingLinks"]),
		PhoneNumbers:       coerceStringList(doc["phoneNumbers"]),
		SuspiciousKeywords: coerceStringList(doc["suspiciousKeywords"]),
	}
	if notes, ok := doc["agentNotes"].(string); ok {
		record.AgentNotes = notes
	}
	return record, nil
}

// stripCodeFences removes a surrounding markdown code fence, with or without
// a language tag, from model output.
func stripCodeFences(content string) string {
	if !strings.HasPrefix(content, "```") {
		return content
	}
	content = strings.TrimPrefix(content, "```")
	if idx := strings.Index(content, "\n"); idx >= 0 {
		first := strings.TrimSpace(content[:idx])
		// Drop a language tag such as "json" on the opening fence line.
		if first == "" || !strings.ContainsAny(first, " \t{") {
			content = content[idx+1:]
		}
	}
	content = strings.TrimSuffix(strings.TrimSpace(content), "```")
	return strings.TrimSpace(content)
}

// coerceStringList accepts the JSON array the prompt asks for, skipping
// non-string elements; anything else yields nil.
func coerceStringList(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// unionStrings appends vals to dst, dropping case-sensitive exact duplicates
// while preserving first-seen order.
func unionStrings(dst []string, vals []string) []string {
	seen := make(map[string]bool, len(dst)+len(vals))
	for _, s := range dst {
		seen[s] = true
	}
	for _, s := range vals {
		if seen[s] {
			continue
		}
		seen[s] = true
		dst = append(dst, s)
	}
	return dst
}
