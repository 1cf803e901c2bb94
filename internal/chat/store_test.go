package chat

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *MessageStore {
	t.Helper()
	s, err := NewMessageStore(filepath.Join(t.TempDir(), "chat.json"))
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestSaveAndLoad(t *testing.T) {
	s := newTestStore(t)
	ts := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	if err := s.Save(SenderUser, "hello", ts); err != nil {
		t.Fatal(err)
	}
	if err := s.Save(SenderAI, "hi there", ts.Add(time.Minute)); err != nil {
		t.Fatal(err)
	}

	msgs := s.Load()
	if len(msgs) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(msgs))
	}
	if msgs[0].Sender != SenderUser || msgs[0].Content != "hello" {
		t.Fatalf("first message: %+v", msgs[0])
	}
	if msgs[1].Sender != SenderAI {
		t.Fatalf("second message: %+v", msgs[1])
	}
}

func TestSaveRejectsUnknownSender(t *testing.T) {
	s := newTestStore(t)
	if err := s.Save("robot", "x", time.Now()); err != ErrInvalidSender {
		t.Fatalf("expected ErrInvalidSender, got %v", err)
	}
}

func TestEvictionAtCap(t *testing.T) {
	s := newTestStore(t)
	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < MaxMessages+10; i++ {
		if err := s.Save(SenderUser, fmt.Sprintf("msg-%d", i), base.Add(time.Duration(i)*time.Second)); err != nil {
			t.Fatal(err)
		}
	}

	msgs := s.Load()
	if len(msgs) != MaxMessages {
		t.Fatalf("expected cap of %d, got %d", MaxMessages, len(msgs))
	}
	if msgs[0].Content != "msg-10" {
		t.Fatalf("expected oldest evicted, first is %s", msgs[0].Content)
	}
	if msgs[len(msgs)-1].Content != fmt.Sprintf("msg-%d", MaxMessages+9) {
		t.Fatalf("last message: %s", msgs[len(msgs)-1].Content)
	}
}

func TestRecent(t *testing.T) {
	s := newTestStore(t)
	base := time.Now()
	for i := 0; i < 5; i++ {
		s.Save(SenderUser, fmt.Sprintf("m%d", i), base)
	}

	got := s.Recent(3)
	if len(got) != 3 || got[0].Content != "m2" || got[2].Content != "m4" {
		t.Fatalf("recent: %+v", got)
	}
	if got := s.Recent(10); len(got) != 5 {
		t.Fatalf("recent over size: %d", len(got))
	}
	if got := s.Recent(0); got != nil {
		t.Fatalf("recent zero: %+v", got)
	}
}

func TestClearAndReload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "chat.json")

	s, err := NewMessageStore(path)
	if err != nil {
		t.Fatal(err)
	}
	s.Save(SenderUser, "hello", time.Now())
	if err := s.Clear(); err != nil {
		t.Fatal(err)
	}

	reloaded, err := NewMessageStore(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(reloaded.Load()) != 0 {
		t.Fatal("expected empty transcript after clear")
	}
}

func TestCorruptBlobStartsEmpty(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "chat.json")
	if err := os.WriteFile(path, []byte("]["), 0644); err != nil {
		t.Fatal(err)
	}

	s, err := NewMessageStore(path)
	if err != nil {
		t.Fatalf("corrupt blob must not be fatal: %v", err)
	}
	if len(s.Load()) != 0 {
		t.Fatal("expected empty transcript")
	}
}

func TestExport(t *testing.T) {
	s := newTestStore(t)
	s.Save(SenderUser, "hello", time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC))

	var buf bytes.Buffer
	if err := s.Export(&buf); err != nil {
		t.Fatal(err)
	}
	var out []Message
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("export is not valid JSON: %v", err)
	}
	if len(out) != 1 || out[0].Content != "hello" {
		t.Fatalf("export: %+v", out)
	}
}
