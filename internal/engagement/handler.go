package engagement

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/wardenlabs/scambait/pkg/logging"
)

// Wire types decode with flexString so a numeric timestamp or sessionId does
// not reject the whole request; malformed fields degrade to defaults.
type wireTurn struct {
	Sender    flexString `json:"sender"`
	Text      flexString `json:"text"`
	Timestamp flexString `json:"timestamp"`
}

type wireMetadata struct {
	Channel  flexString `json:"channel"`
	Language flexString `json:"language"`
	Locale   flexString `json:"locale"`
}

type wireRequest struct {
	SessionID           flexString    `json:"sessionId"`
	Message             wireTurn      `json:"message"`
	ConversationHistory []wireTurn    `json:"conversationHistory"`
	Metadata            *wireMetadata `json:"metadata"`
}

// EngageResponse is the wire response. The body is success-shaped with HTTP
// 200 even when internal processing fails, to avoid breaking the remote
// counterparty's conversation flow.
type EngageResponse struct {
	Status string `json:"status"`
	Reply  string `json:"reply"`
}

// Handler wires HTTP requests to the engagement service.
type Handler struct {
	service *Service
	logger  *logging.Logger
}

// NewHandler creates an engagement handler.
func NewHandler(service *Service, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		service: service,
		logger:  logger.WithComponent("engagement-handler"),
	}
}

// HandleMessage handles POST /message.
func (h *Handler) HandleMessage(w http.ResponseWriter, r *http.Request) {
	// Internal faults must never surface as protocol errors once the
	// request has passed authentication.
	defer func() {
		if rec := recover(); rec != nil {
			h.logger.Error("panic while processing message", "panic", rec)
			h.writeJSON(w, EngageResponse{Status: "success", Reply: fallbackReply})
		}
	}()

	req := decodeRequest(r.Body, h.logger)

	meta := Metadata{}
	if req.Metadata != nil {
		meta = Metadata{
			Channel:  string(req.Metadata.Channel),
			Language: string(req.Metadata.Language),
			Locale:   string(req.Metadata.Locale),
		}
	}

	history := make([]Turn, 0, len(req.ConversationHistory))
	for _, t := range req.ConversationHistory {
		history = append(history, t.toTurn())
	}

	result := h.service.Engage(r.Context(), string(req.SessionID), req.Message.toTurn(), history, meta)

	h.writeJSON(w, EngageResponse{Status: "success", Reply: result.Reply})
}

// decodeRequest tolerates malformed bodies: whatever cannot be decoded is
// replaced by zero values so processing still yields a well-formed reply.
func decodeRequest(body io.Reader, logger *logging.Logger) wireRequest {
	var req wireRequest
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		logger.Warn("failed to decode request body, using defaults", "error", err.Error())
	}
	return req
}

func (t wireTurn) toTurn() Turn {
	return Turn{
		Sender:    string(t.Sender),
		Text:      string(t.Text),
		Timestamp: string(t.Timestamp),
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, payload EngageResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", "error", err.Error())
	}
}
