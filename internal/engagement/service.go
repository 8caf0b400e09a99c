package engagement

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/wardenlabs/scambait/internal/observability/metrics"
	"github.com/wardenlabs/scambait/internal/report"
	"github.com/wardenlabs/scambait/pkg/logging"
)

var tracer = otel.Tracer("scambait/engagement")

const defaultPipelineTimeout = 8 * time.Second

// Reporter accepts a callback payload for asynchronous delivery. Dispatch
// must never block.
type Reporter interface {
	Dispatch(payload report.Payload)
}

// Service runs the three-stage pipeline for one inbound message. It is
// stateless: all conversation context arrives in the call and is discarded
// after the result is returned.
type Service struct {
	detector  *Detector
	extractor *Extractor
	responder *Responder
	reporter  Reporter
	metrics   *metrics.PipelineMetrics
	logger    *logging.Logger
	timeout   time.Duration
}

// ServiceOption configures the service.
type ServiceOption func(*Service)

// WithPipelineTimeout bounds the combined extract+respond invocation.
func WithPipelineTimeout(timeout time.Duration) ServiceOption {
	return func(s *Service) {
		if timeout > 0 {
			s.timeout = timeout
		}
	}
}

// WithReporter wires the callback dispatcher. Without one, intelligence is
// extracted but never relayed.
func WithReporter(r Reporter) ServiceOption {
	return func(s *Service) {
		s.reporter = r
	}
}

func NewService(detector *Detector, extractor *Extractor, responder *Responder, m *metrics.PipelineMetrics, logger *logging.Logger, opts ...ServiceOption) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	s := &Service{
		detector:  detector,
		extractor: extractor,
		responder: responder,
		metrics:   m,
		logger:    logger.WithComponent("engagement"),
		timeout:   defaultPipelineTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Engage processes one inbound message against its history. The detector
// runs first and can short-circuit; on a scam verdict the extractor and
// responder run concurrently under a shared deadline. The caller always gets
// a well-formed result.
func (s *Service) Engage(ctx context.Context, sessionID string, message Turn, history []Turn, meta Metadata) Result {
	start := time.Now()
	if sessionID == "" {
		sessionID = defaultSessionID
	}

	ctx, span := tracer.Start(ctx, "engagement.engage", trace.WithSpanKind(trace.SpanKindServer))
	defer span.End()
	span.SetAttributes(
		attribute.String("scambait.session_id", sessionID),
		attribute.String("scambait.channel", meta.withDefaults().Channel),
		attribute.Int("scambait.history_len", len(history)),
	)
	defer func() {
		s.metrics.ObservePipelineLatency(time.Since(start).Seconds())
	}()

	totalMessages := len(history) + 1

	if !s.detector.Detect(ctx, message.Text, history) {
		s.logger.Info("no scam detected", "session_id", sessionID)
		s.metrics.ObserveInbound("clean")
		clean := NewIntelligenceRecord()
		clean.AgentNotes = "No scam detected."
		return Result{
			SessionID:     sessionID,
			ScamDetected:  false,
			Reply:         nonScamReply,
			Intelligence:  clean,
			TotalMessages: totalMessages,
		}
	}
	span.SetAttributes(attribute.Bool("scambait.scam_detected", true))

	reply, intel, timedOut := s.extractAndRespond(ctx, message, history, meta)
	if timedOut {
		s.metrics.ObserveInbound("timeout")
	} else {
		s.metrics.ObserveInbound("scam")
	}

	result := Result{
		SessionID:     sessionID,
		ScamDetected:  true,
		Reply:         reply,
		Intelligence:  intel,
		TotalMessages: totalMessages,
	}

	// The callback is decoupled from the reply path: enqueue and move on.
	if s.reporter != nil {
		s.reporter.Dispatch(report.Payload{
			SessionID:              sessionID,
			ScamDetected:           true,
			TotalMessagesExchanged: totalMessages,
			ExtractedIntelligence: report.Intelligence{
				BankAccounts:       intel.BankAccounts,
				UpiIDs:             intel.UpiIDs,
				PhishingLinks:      intel.PhishingLinks,
				PhoneNumbers:       intel.PhoneNumbers,
				SuspiciousKeywords: intel.SuspiciousKeywords,
			},
			AgentNotes: intel.AgentNotes,
		})
	}

	return result
}

// extractAndRespond runs both provider-backed stages concurrently. They are
// independent reads over the same immutable transcript. If the shared budget
// expires both results are replaced with safe defaults; the underlying
// provider calls are abandoned, not cancelled mid-flight.
func (s *Service) extractAndRespond(ctx context.Context, message Turn, history []Turn, meta Metadata) (string, IntelligenceRecord, bool) {
	pctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	intelCh := make(chan IntelligenceRecord, 1)
	replyCh := make(chan string, 1)

	g, gctx := errgroup.WithContext(pctx)
	g.Go(func() error {
		intelCh <- s.extractor.Extract(gctx, message.Text, history)
		return nil
	})
	g.Go(func() error {
		replyCh <- s.responder.Respond(gctx, message.Text, history, meta)
		return nil
	})

	done := make(chan struct{})
	go func() {
		_ = g.Wait()
		close(done)
	}()

	select {
	case <-done:
		return <-replyCh, <-intelCh, false
	case <-pctx.Done():
		s.logger.Warn("pipeline deadline exceeded, substituting defaults", "timeout", s.timeout.String())
		record := NewIntelligenceRecord()
		record.AgentNotes = timeoutAgentNotes
		return fallbackReply, record, true
	}
}
