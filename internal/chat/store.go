package chat

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// MaxMessages caps the retained transcript; the oldest entries are evicted
// once the cap is exceeded.
const MaxMessages = 100

// MessageStore persists the chat transcript as a single JSON blob, the same
// whole-list-per-write scheme the bill store uses.
type MessageStore struct {
	mu       sync.Mutex
	path     string
	messages []Message
}

// NewMessageStore loads the transcript at path. Missing or corrupt blobs
// start an empty transcript; neither is fatal.
func NewMessageStore(path string) (*MessageStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	s := &MessageStore{path: path}

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return nil, fmt.Errorf("read chat store: %w", err)
	default:
		if err := json.Unmarshal(data, &s.messages); err != nil {
			slog.Warn("Chat store blob is corrupt, starting empty", "path", path, "error", err)
			s.messages = nil
		}
	}

	return s, nil
}

// Save appends a message, evicting the oldest entries beyond MaxMessages,
// and persists the transcript.
func (s *MessageStore) Save(sender Sender, content string, timestamp time.Time) error {
	if !sender.Valid() {
		return ErrInvalidSender
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.messages = append(s.messages, Message{
		Sender:    sender,
		Content:   content,
		Timestamp: timestamp,
	})
	if n := len(s.messages); n > MaxMessages {
		s.messages = append(s.messages[:0:0], s.messages[n-MaxMessages:]...)
	}

	return s.persist()
}

// Load returns the full transcript, oldest first.
func (s *MessageStore) Load() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Message(nil), s.messages...)
}

// Recent returns at most n of the newest messages, oldest first. Used to
// build the assistant's conversation context window.
func (s *MessageStore) Recent(n int) []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n <= 0 || len(s.messages) == 0 {
		return nil
	}
	if n > len(s.messages) {
		n = len(s.messages)
	}
	return append([]Message(nil), s.messages[len(s.messages)-n:]...)
}

// Clear removes the whole transcript.
func (s *MessageStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = nil
	return s.persist()
}

// Export writes the transcript as indented JSON, the download format.
func (s *MessageStore) Export(w io.Writer) error {
	s.mu.Lock()
	msgs := append([]Message(nil), s.messages...)
	s.mu.Unlock()

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(msgs)
}

func (s *MessageStore) persist() error {
	data, err := json.Marshal(s.messages)
	if err != nil {
		return fmt.Errorf("marshal chat store: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".chat-*.json")
	if err != nil {
		return fmt.Errorf("create temp blob: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write blob: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close blob: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace blob: %w", err)
	}
	return nil
}
