package store

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"billbook/internal/core"

	"github.com/shopspring/decimal"
)

func TestSQLiteStoreCRUD(t *testing.T) {
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "bills.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	ctx := context.Background()

	bill, err := s.Add(ctx, Input{Title: "Lunch", Amount: "35.5", Category: "Food", Type: "expense", Date: "2024-05-01"})
	if err != nil {
		t.Fatal(err)
	}

	got, err := s.Get(ctx, bill.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Title != "Lunch" || !got.Amount.Equal(decimal.RequireFromString("35.5")) ||
		got.Type != core.Expense || !got.Date.Equal(core.NewDate(2024, 5, 1)) {
		t.Fatalf("get mismatch: %+v", got)
	}

	title := "Dinner"
	updated, err := s.Update(ctx, bill.ID, Patch{Title: &title})
	if err != nil {
		t.Fatal(err)
	}
	if updated.Title != "Dinner" || !updated.Amount.Equal(got.Amount) {
		t.Fatalf("update mismatch: %+v", updated)
	}

	if _, err := s.Update(ctx, "missing", Patch{Title: &title}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := s.Delete(ctx, bill.ID); err != nil {
		t.Fatal(err)
	}
	if err := s.Delete(ctx, bill.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSQLiteConcurrentAddsKeepIDsUnique(t *testing.T) {
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "bills.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	ctx := context.Background()

	const n = 20
	ids := make(chan string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			bill, err := s.Add(ctx, Input{Title: "Coffee", Amount: "3", Category: "Food", Type: "expense", Date: "2024-05-01"})
			if err != nil {
				t.Errorf("Add: %v", err)
				return
			}
			ids <- bill.ID
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[string]bool)
	for id := range ids {
		if seen[id] {
			t.Fatalf("duplicate id %s", id)
		}
		seen[id] = true
	}
	if len(seen) != n {
		t.Fatalf("got %d unique ids, want %d", len(seen), n)
	}

	bills, err := s.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(bills) != n {
		t.Fatalf("stored %d bills, want %d", len(bills), n)
	}
}

func TestSQLiteConcurrentUpdatesKeepEveryPatch(t *testing.T) {
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "bills.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	ctx := context.Background()

	bill, err := s.Add(ctx, Input{Title: "Rent", Amount: "900", Category: "Housing", Type: "expense", Date: "2024-05-01"})
	if err != nil {
		t.Fatal(err)
	}

	title := "May rent"
	amount := "950"
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		if _, err := s.Update(ctx, bill.ID, Patch{Title: &title}); err != nil {
			t.Errorf("title update: %v", err)
		}
	}()
	go func() {
		defer wg.Done()
		if _, err := s.Update(ctx, bill.ID, Patch{Amount: &amount}); err != nil {
			t.Errorf("amount update: %v", err)
		}
	}()
	wg.Wait()

	got, err := s.Get(ctx, bill.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Title != "May rent" || !got.Amount.Equal(decimal.RequireFromString("950")) {
		t.Fatalf("lost a patch: %+v", got)
	}
}

func TestSQLiteFindByTitleAndAmount(t *testing.T) {
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "bills.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	ctx := context.Background()

	s.Add(ctx, Input{Title: "Lunch", Amount: "35.5", Category: "Food", Type: "expense", Date: "2024-05-01"})
	later, _ := s.Add(ctx, Input{Title: "Lunch", Amount: "35.5", Category: "Food", Type: "expense", Date: "2024-05-03"})

	found, err := s.FindByTitleAndAmount(ctx, "Lunch", decimal.RequireFromString("35.5"))
	if err != nil {
		t.Fatal(err)
	}
	if found.ID != later.ID {
		t.Fatalf("expected most recent match, got %s", found.ID)
	}
}
