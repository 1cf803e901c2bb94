package memory

import (
	"context"
	"fmt"
	"sync"

	"billbook/internal/core"
	ports "billbook/internal/export"
)

// Writer keeps exported rows in memory. Used in tests and when no
// spreadsheet is configured.
type Writer struct {
	mu   sync.Mutex
	rows map[string]core.Bill
}

var _ ports.BillWriter = (*Writer)(nil)

func New() *Writer {
	return &Writer{rows: make(map[string]core.Bill)}
}

// Append stores the bill and returns a synthetic row reference.
func (w *Writer) Append(_ context.Context, b core.Bill) (string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.rows[b.ID] = b
	return fmt.Sprintf("mem:%s", b.ID), nil
}

func (w *Writer) UpdateRow(_ context.Context, b core.Bill) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.rows[b.ID] = b
	return nil
}

func (w *Writer) ClearRow(_ context.Context, id string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.rows, id)
	return nil
}

// Get returns the stored row for id, if present.
func (w *Writer) Get(id string) (core.Bill, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	b, ok := w.rows[id]
	return b, ok
}

// Len returns the number of stored rows.
func (w *Writer) Len() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.rows)
}
