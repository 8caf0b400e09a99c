package engagement

import (
	"context"
	"fmt"

	"github.com/wardenlabs/scambait/internal/llm"
	"github.com/wardenlabs/scambait/internal/observability/metrics"
	"github.com/wardenlabs/scambait/pkg/logging"
)

const personaPromptTemplate = `You are a human target of a potential scammer.
Your goal is to be a believable human persona who is slightly confused, worried, but cooperative.
DO NOT reveal you are an AI or that you suspect a scam.
Engage the scammer to keep them talking.
Ask questions that might lead them to reveal bank details, UPI IDs, or links.
Channel: %s
Language: %s
Locale: %s

IMPORTANT:
1. Provide ONLY your next single message in the conversation.
2. DO NOT write a script or dialogue for both sides.
3. DO NOT include labels like 'You:' or 'Agent:'.
4. Keep it short and realistic for the channel (e.g. 1-2 sentences for SMS).`

// Responder generates the next in-character persona utterance. Provider
// failures resolve to a fixed clarifying reply that stays in character, so
// the engagement illusion never breaks.
type Responder struct {
	client  llm.Client
	metrics *metrics.PipelineMetrics
	logger  *logging.Logger
}

func NewResponder(client llm.Client, m *metrics.PipelineMetrics, logger *logging.Logger) *Responder {
	if logger == nil {
		logger = logging.Default()
	}
	return &Responder{
		client:  client,
		metrics: m,
		logger:  logger.WithComponent("responder"),
	}
}

// Respond returns exactly one next utterance for the conversation. History
// is replayed with roles inverted relative to sender: the persona's prior
// turns become the model's own outputs and the scammer's turns the user input.
func (r *Responder) Respond(ctx context.Context, message string, history []Turn, meta Metadata) string {
	meta = meta.withDefaults()

	messages := make([]llm.Message, 0, len(history)+2)
	messages = append(messages, llm.Message{
		Role:    llm.RoleSystem,
		Content: fmt.Sprintf(personaPromptTemplate, meta.Channel, meta.Language, meta.Locale),
	})
	for _, turn := range history {
		role := llm.RoleUser
		if turn.Sender == SenderPersona {
			role = llm.RoleAssistant
		}
		messages = append(messages, llm.Message{Role: role, Content: turn.Text})
	}
	messages = append(messages, llm.Message{Role: llm.RoleUser, Content: message})

	resp, err := r.client.Complete(ctx, llm.Request{Messages: messages})
	if err != nil {
		r.logger.Warn("reply generation failed, returning generic reply", "error", err.Error())
		r.metrics.ObserveProviderFailure("responder")
		return fallbackReply
	}

	reply := cleanReply(resp.Text)
	if reply == "" {
		r.logger.Warn("generated reply was empty after cleanup, returning generic reply")
		return fallbackReply
	}
	return reply
}
