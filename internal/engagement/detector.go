package engagement

import (
	"context"
	"fmt"
	"strings"

	"github.com/wardenlabs/scambait/internal/llm"
	"github.com/wardenlabs/scambait/internal/observability/metrics"
	"github.com/wardenlabs/scambait/pkg/logging"
)

const detectorSystemPrompt = "You are a scam detection expert."

const detectionPromptTemplate = `Analyze the following message for scam intent.
Context: UPI fraud, bank fraud, phishing, fake offers.
Message: %q
Respond with ONLY 'true' or 'false'.`

// scamKeywords backs the deterministic fallback path. A case-insensitive
// substring match on any of them marks the message as a scam.
var scamKeywords = []string{"verify", "blocked", "suspended", "upi", "win", "gift", "account"}

// Detector classifies an inbound message as scam / not-scam. The model path
// is primary; any provider failure or ambiguous output falls back to keyword
// matching, so Detect never fails.
type Detector struct {
	client  llm.Client
	metrics *metrics.PipelineMetrics
	logger  *logging.Logger
}

func NewDetector(client llm.Client, m *metrics.PipelineMetrics, logger *logging.Logger) *Detector {
	if logger == nil {
		logger = logging.Default()
	}
	return &Detector{
		client:  client,
		metrics: m,
		logger:  logger.WithComponent("detector"),
	}
}

// Detect returns true when the message looks like a scam attempt.
func (d *Detector) Detect(ctx context.Context, message string, history []Turn) bool {
	verdict, err := d.classify(ctx, message)
	if err == nil {
		d.metrics.ObserveDetection("model", verdict)
		return verdict
	}

	d.logger.Warn("model classification failed, falling back to keyword matching", "error", err.Error())
	d.metrics.ObserveProviderFailure("detector")

	verdict = matchesScamKeyword(message)
	d.metrics.ObserveDetection("keyword", verdict)
	return verdict
}

func (d *Detector) classify(ctx context.Context, message string) (bool, error) {
	resp, err := d.client.Complete(ctx, llm.Request{
		Temperature: 0,
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: detectorSystemPrompt},
			{Role: llm.RoleUser, Content: fmt.Sprintf(detectionPromptTemplate, message)},
		},
	})
	if err != nil {
		return false, err
	}

	switch strings.ToLower(strings.TrimSpace(resp.Text)) {
	case "true":
		return true, nil
	case "false":
		return false, nil
	default:
		return false, fmt.Errorf("engagement: ambiguous classifier output %q", truncate(resp.Text, 40))
	}
}

func matchesScamKeyword(message string) bool {
	lower := strings.ToLower(message)
	for _, k := range scamKeywords {
		if strings.Contains(lower, k) {
			return true
		}
	}
	return false
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
