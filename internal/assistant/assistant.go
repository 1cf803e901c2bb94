// Package assistant implements the chat entry point for creating and
// editing bills through natural-language messages. It forwards the
// conversation to a chat-completion API, scans the reply for a bill-shaped
// JSON fragment and applies complete fragments to the bill service.
package assistant

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"billbook/internal/chat"
	"billbook/internal/core"
	"billbook/internal/services"
	"billbook/internal/store"
)

// System notes injected into replies so the model knows the application
// already acted and must not emit another JSON fragment.
const (
	noteCreated = "[system: bill created]"
	noteUpdated = "[system: bill updated]"
	noteNoMatch = "[system: no matching bill found]"

	// apology is what the user sees when the completion call fails; the
	// real error goes to the log, not to the transcript.
	apology = "Sorry, something went wrong. Please try again in a moment."
)

// Assistant glues the transcript store, the completion API and the bill
// service together for one chat turn.
type Assistant struct {
	completer  Completer
	bills      *services.BillService
	transcript *chat.MessageStore
	now        func() time.Time
}

func New(completer Completer, bills *services.BillService, transcript *chat.MessageStore) *Assistant {
	return &Assistant{
		completer:  completer,
		bills:      bills,
		transcript: transcript,
		now:        time.Now,
	}
}

// HandleMessage runs one chat turn: persist the user message, ask the model,
// apply any complete bill fragment in the reply, persist and return the
// reply. Failures never surface as errors to the chat user; they become the
// generic apology.
func (a *Assistant) HandleMessage(ctx context.Context, userMessage string) string {
	now := a.now()
	history := a.transcript.Recent(contextWindow)

	if err := a.transcript.Save(chat.SenderUser, userMessage, now); err != nil {
		slog.ErrorContext(ctx, "Failed to persist user message", "error", err)
	}

	reply, err := a.completer.Complete(ctx, buildMessages(history, userMessage, now))
	if err != nil {
		slog.ErrorContext(ctx, "Chat completion failed", "error", err)
		reply = apology
	} else if !strings.Contains(userMessage, "[system:") {
		reply = a.applyCandidate(ctx, reply)
	}

	if err := a.transcript.Save(chat.SenderAI, reply, a.now()); err != nil {
		slog.ErrorContext(ctx, "Failed to persist assistant reply", "error", err)
	}
	return reply
}

// applyCandidate stores a complete bill fragment found in the reply and
// marks the reply so the model sees the application acted. Incomplete or
// invalid fragments are ignored: the chat path rejects, it never coerces.
func (a *Assistant) applyCandidate(ctx context.Context, reply string) string {
	candidate, ok := ExtractCandidate(reply)
	if !ok {
		return reply
	}
	bill, err := candidate.Validate()
	if err != nil {
		slog.WarnContext(ctx, "Ignoring invalid bill fragment in reply", "error", err)
		return reply
	}

	created, err := a.bills.Create(ctx, store.Input{
		Title:    bill.Title,
		Amount:   bill.Amount.String(),
		Category: bill.Category,
		Type:     string(bill.Type),
		Date:     bill.Date.String(),
	})
	if err != nil {
		slog.ErrorContext(ctx, "Failed to store chat-extracted bill", "error", err, "title", bill.Title)
		return reply
	}

	slog.InfoContext(ctx, "Bill created from chat fragment",
		"id", created.ID,
		"title", created.Title,
		"amount", created.Amount.String())

	if strings.Contains(reply, noteUpdated) {
		return strings.ReplaceAll(reply, noteUpdated, noteCreated)
	}
	if !strings.Contains(reply, noteCreated) {
		return noteCreated + " " + reply
	}
	return reply
}

// EditResult reports what ApplyEdit did, for building the confirmation
// messages the transcript shows.
type EditResult struct {
	Found    bool
	Original core.Bill
	Updated  core.Bill
}

// ApplyEdit is the chat-edit flow: locate the bill a natural-language edit
// refers to by title and amount, then merge the patch over it. The lookup
// is documented best-effort matching: with duplicate title/amount pairs the
// most recent bill wins, silently.
func (a *Assistant) ApplyEdit(ctx context.Context, ref BillCandidate, patch store.Patch) (EditResult, error) {
	amount, err := ref.ParsedAmount()
	if err != nil {
		return EditResult{}, core.ErrInvalidAmount
	}

	original, err := a.bills.FindByTitleAndAmount(ctx, ref.Title, amount)
	if errors.Is(err, store.ErrNotFound) {
		a.saveSystemNote(ctx, noteNoMatch)
		return EditResult{Found: false}, nil
	}
	if err != nil {
		return EditResult{}, err
	}

	updated, err := a.bills.Update(ctx, original.ID, patch)
	if err != nil {
		return EditResult{}, err
	}

	a.saveSystemNote(ctx, noteUpdated)
	return EditResult{Found: true, Original: original, Updated: updated}, nil
}

func (a *Assistant) saveSystemNote(ctx context.Context, note string) {
	if err := a.transcript.Save(chat.SenderAI, note, a.now()); err != nil {
		slog.ErrorContext(ctx, "Failed to persist system note", "error", err, "note", note)
	}
}
