// Package chat stores the assistant conversation transcript and the small
// amount of display logic attached to it (time dividers, relative labels).
package chat

import (
	"errors"
	"time"
)

const (
	SenderUser Sender = "user"
	SenderAI   Sender = "ai"
)

type (
	Sender string

	// Message is one transcript entry. Content may embed a bill-shaped
	// JSON fragment produced by the assistant.
	Message struct {
		Sender    Sender    `json:"sender"`
		Content   string    `json:"content"`
		Timestamp time.Time `json:"timestamp"`
	}
)

var ErrInvalidSender = errors.New("invalid sender")

func (s Sender) Valid() bool {
	return s == SenderUser || s == SenderAI
}
