package engagement

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wardenlabs/scambait/internal/llm"
)

// fakeLLM scripts provider behavior per request. Shared by the pipeline
// tests in this package.
type fakeLLM struct {
	fn func(req llm.Request) (llm.Response, error)
}

func (f *fakeLLM) Complete(_ context.Context, req llm.Request) (llm.Response, error) {
	return f.fn(req)
}

func staticLLM(text string) *fakeLLM {
	return &fakeLLM{fn: func(llm.Request) (llm.Response, error) {
		return llm.Response{Text: text}, nil
	}}
}

func failingLLM(msg string) *fakeLLM {
	return &fakeLLM{fn: func(llm.Request) (llm.Response, error) {
		return llm.Response{}, errors.New(msg)
	}}
}

func TestDetectorModelVerdict(t *testing.T) {
	tests := []struct {
		name   string
		output string
		want   bool
	}{
		{"plain true", "true", true},
		{"plain false", "false", false},
		{"uppercase with whitespace", "  TRUE\n", true},
		{"mixed case false", "False", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDetector(staticLLM(tt.output), nil, nil)
			got := d.Detect(context.Background(), "congratulations on your lottery", nil)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDetectorKeywordFallbackOnProviderFailure(t *testing.T) {
	d := NewDetector(failingLLM("quota exceeded"), nil, nil)

	tests := []struct {
		name    string
		message string
		want    bool
	}{
		{"blocked keyword", "Your account is blocked", true},
		{"upi keyword case-insensitive", "Send your UPI pin now", true},
		{"gift keyword embedded", "You won a GIFT card!!", true},
		{"no keywords", "see you at lunch tomorrow", false},
		{"empty message", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := d.Detect(context.Background(), tt.message, nil)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDetectorAmbiguousOutputFallsBack(t *testing.T) {
	// "probably true" is not a strict boolean literal, so the keyword path
	// decides.
	d := NewDetector(staticLLM("probably true"), nil, nil)

	assert.True(t, d.Detect(context.Background(), "please verify your card", nil))
	assert.False(t, d.Detect(context.Background(), "hello old friend", nil))
}

func TestDetectorNeverPanicsWithoutMetrics(t *testing.T) {
	d := NewDetector(failingLLM("network down"), nil, nil)
	// Smoke check: nil metrics and nil history are fine.
	_ = d.Detect(context.Background(), "win big today", nil)
}
