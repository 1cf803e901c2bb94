package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"billbook/internal/core"

	"github.com/shopspring/decimal"
)

// FileStore keeps the whole bill list in memory and rewrites it as a single
// JSON blob on every mutation. This is the canonical backend: the list is the
// unit of persistence, there is no append log and no partial-write recovery.
type FileStore struct {
	mu     sync.Mutex
	path   string
	bills  []core.Bill
	lastID string
}

// NewFileStore loads the blob at path, treating a missing or corrupt file as
// an empty list.
func NewFileStore(path string) (*FileStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	s := &FileStore{path: path}

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// First run.
	case err != nil:
		return nil, fmt.Errorf("read bill store: %w", err)
	default:
		if err := json.Unmarshal(data, &s.bills); err != nil {
			slog.Warn("Bill store blob is corrupt, starting empty", "path", path, "error", err)
			s.bills = nil
		}
	}

	// Ids are decimal timestamp strings, so a longer id is a bigger one.
	for _, b := range s.bills {
		if len(b.ID) > len(s.lastID) || (len(b.ID) == len(s.lastID) && b.ID > s.lastID) {
			s.lastID = b.ID
		}
	}

	return s, nil
}

func (s *FileStore) Add(ctx context.Context, in Input) (core.Bill, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	bill := normalize(in)
	bill.ID = nextID(s.lastID)
	s.lastID = bill.ID

	s.bills = append(s.bills, bill)
	if err := s.persist(); err != nil {
		s.bills = s.bills[:len(s.bills)-1]
		return core.Bill{}, err
	}

	slog.InfoContext(ctx, "Bill added",
		"id", bill.ID,
		"title", bill.Title,
		"amount", bill.Amount.String(),
		"type", string(bill.Type))

	return bill, nil
}

func (s *FileStore) Update(ctx context.Context, id string, p Patch) (core.Bill, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i, b := range s.bills {
		if b.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		slog.WarnContext(ctx, "Update for unknown bill id", "id", id)
		return core.Bill{}, ErrNotFound
	}

	prev := s.bills[idx]
	s.bills[idx] = merge(prev, p)
	if err := s.persist(); err != nil {
		s.bills[idx] = prev
		return core.Bill{}, err
	}

	slog.InfoContext(ctx, "Bill updated", "id", id)
	return s.bills[idx], nil
}

func (s *FileStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.bills[:0:0]
	for _, b := range s.bills {
		if b.ID != id {
			kept = append(kept, b)
		}
	}
	if len(kept) == len(s.bills) {
		slog.WarnContext(ctx, "Delete for unknown bill id", "id", id)
		return ErrNotFound
	}

	prev := s.bills
	s.bills = kept
	if err := s.persist(); err != nil {
		s.bills = prev
		return err
	}

	slog.InfoContext(ctx, "Bill deleted", "id", id)
	return nil
}

func (s *FileStore) Get(_ context.Context, id string) (core.Bill, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, b := range s.bills {
		if b.ID == id {
			return b, nil
		}
	}
	return core.Bill{}, ErrNotFound
}

func (s *FileStore) List(_ context.Context) ([]core.Bill, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := append([]core.Bill(nil), s.bills...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date)
	})
	return out, nil
}

func (s *FileStore) FindByTitleAndAmount(_ context.Context, title string, amount decimal.Decimal) (core.Bill, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if found, ok := bestMatch(s.bills, title, amount); ok {
		return found, nil
	}
	return core.Bill{}, ErrNotFound
}

func (s *FileStore) Close() error {
	return nil
}

// persist rewrites the whole blob atomically: write to a temp file in the
// same directory, then rename over the target.
func (s *FileStore) persist() error {
	data, err := json.Marshal(s.bills)
	if err != nil {
		return fmt.Errorf("marshal bill store: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".bills-*.json")
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
