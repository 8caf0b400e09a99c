package engagement

import (
	"regexp"
	"strings"
)

// The model is told to emit a single unlabeled utterance, but smaller models
// still produce "You: ..." scripts or break character. The guard enforces the
// contract before the reply leaves the service.
var (
	leadingLabelRE = regexp.MustCompile(`(?i)^\s*(you|me|agent|assistant|victim|user|reply|response)\s*[:\-]\s*`)
	scriptLabelRE  = regexp.MustCompile(`(?im)^\s*(you|me|agent|assistant|victim|user|scammer)\s*:`)
	aiSentenceRE   = regexp.MustCompile(`(?i)[^.!?]*\bi('m| am) (a|an) (AI|artificial intelligence|language model|LLM|chatbot|chat bot|bot)\b[^.!?]*[.!?]?\s*`)
)

// cleanReply strips speaker-label prefixes, truncates scripted multi-party
// dialogue to the first utterance, and removes AI self-disclosure sentences.
// Returns an empty string when nothing usable remains.
func cleanReply(reply string) string {
	s := strings.TrimSpace(reply)
	s = strings.Trim(s, `"`)
	s = leadingLabelRE.ReplaceAllString(s, "")

	// A speaker label after the opening line means the model wrote a script
	// for both sides; keep only the first utterance.
	if loc := scriptLabelRE.FindStringIndex(s); loc != nil && loc[0] > 0 {
		s = s[:loc[0]]
	}

	s = aiSentenceRE.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}
