package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"billbook/internal/assistant"
	"billbook/internal/chat"
	"billbook/internal/core"
)

// transcriptEntry is one chat message decorated with the display hints the
// client renders: a relative time label and whether a divider precedes it.
type transcriptEntry struct {
	Sender      chat.Sender `json:"sender"`
	Content     string      `json:"content"`
	Timestamp   time.Time   `json:"timestamp"`
	TimeLabel   string      `json:"time_label"`
	ShowDivider bool        `json:"show_divider"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.listChat(w, r)
	case http.MethodPost:
		s.postChat(w, r)
	case http.MethodDelete:
		s.clearChat(w, r)
	default:
		methodNotAllowed(w, "GET, POST, DELETE")
	}
}

func (s *Server) listChat(w http.ResponseWriter, r *http.Request) {
	now := s.now()
	messages := s.transcript.Load()

	entries := make([]transcriptEntry, 0, len(messages))
	var last time.Time
	for _, m := range messages {
		entries = append(entries, transcriptEntry{
			Sender:      m.Sender,
			Content:     m.Content,
			Timestamp:   m.Timestamp,
			TimeLabel:   chat.FormatRelativeTime(m.Timestamp, now),
			ShowDivider: chat.ShouldShowTimeDivider(last, m.Timestamp),
		})
		last = m.Timestamp
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) postChat(w http.ResponseWriter, r *http.Request) {
	if s.assist == nil {
		writeError(w, http.StatusServiceUnavailable, "assistant not configured")
		return
	}
	if !s.chatLimiter.Allow(r.RemoteAddr) {
		w.Header().Set("Retry-After", "60")
		writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
		return
	}

	var payload struct {
		Message string `json:"message"`
	}
	if err := readJSON(w, r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(payload.Message) == "" {
		writeError(w, http.StatusBadRequest, "message cannot be empty")
		return
	}

	reply := s.assist.HandleMessage(r.Context(), payload.Message)

	// The assistant may have created a bill.
	s.invalidateStats()

	writeJSON(w, http.StatusOK, struct {
		Reply string `json:"reply"`
	}{reply})
}

func (s *Server) clearChat(w http.ResponseWriter, r *http.Request) {
	if err := s.transcript.Clear(); err != nil {
		slog.ErrorContext(r.Context(), "Failed to clear transcript", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleChatExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="chat-export.json"`)
	if err := s.transcript.Export(w); err != nil {
		slog.ErrorContext(r.Context(), "Failed to export transcript", "error", err)
	}
}

// handleChatEdit resolves a conversational edit: the reference names a bill
// by title and amount, the patch carries the new field values.
func (s *Server) handleChatEdit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, "POST")
		return
	}
	if s.assist == nil {
		writeError(w, http.StatusServiceUnavailable, "assistant not configured")
		return
	}

	var payload struct {
		Reference assistant.BillCandidate `json:"reference"`
		Patch     patchPayload            `json:"patch"`
	}
	if err := readJSON(w, r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := s.assist.ApplyEdit(r.Context(), payload.Reference, payload.Patch.toPatch())
	if errors.Is(err, core.ErrInvalidAmount) {
		writeError(w, http.StatusUnprocessableEntity, "invalid reference amount")
		return
	}
	if err != nil {
		slog.ErrorContext(r.Context(), "Chat edit failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	s.invalidateStats()

	writeJSON(w, http.StatusOK, struct {
		Found    bool       `json:"found"`
		Original *core.Bill `json:"original,omitempty"`
		Updated  *core.Bill `json:"updated,omitempty"`
	}{
		Found:    result.Found,
		Original: billOrNil(result.Found, result.Original),
		Updated:  billOrNil(result.Found, result.Updated),
	})
}

func billOrNil(found bool, b core.Bill) *core.Bill {
	if !found {
		return nil
	}
	return &b
}
