package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"billbook/internal/core"

	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store over a local SQLite database. Amounts are
// stored as decimal strings so nothing is lost to binary floats.
// mu serializes mutations: id allocation must not race, and Update is a
// read-merge-write over the current row.
type SQLiteStore struct {
	mu     sync.Mutex
	db     *sql.DB
	lastID string
}

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	s := &SQLiteStore{db: db}

	// Seed the id watermark so fresh ids stay monotonic across restarts.
	var last sql.NullString
	err = db.QueryRow(`SELECT id FROM bills ORDER BY length(id) DESC, id DESC LIMIT 1`).Scan(&last)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		db.Close()
		return nil, fmt.Errorf("read id watermark: %w", err)
	}
	if last.Valid {
		s.lastID = last.String
	}

	return s, nil
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *SQLiteStore) Add(ctx context.Context, in Input) (core.Bill, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	bill := normalize(in)
	bill.ID = nextID(s.lastID)
	s.lastID = bill.ID

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO bills (id, title, amount, category, type, date) VALUES (?, ?, ?, ?, ?, ?)`,
		bill.ID, bill.Title, bill.Amount.String(), bill.Category, string(bill.Type), bill.Date.String())
	if err != nil {
		return core.Bill{}, fmt.Errorf("insert bill: %w", err)
	}

	slog.InfoContext(ctx, "Bill added",
		"id", bill.ID,
		"title", bill.Title,
		"amount", bill.Amount.String(),
		"type", string(bill.Type))

	return bill, nil
}

func (s *SQLiteStore) Update(ctx context.Context, id string, p Patch) (core.Bill, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			slog.WarnContext(ctx, "Update for unknown bill id", "id", id)
		}
		return core.Bill{}, err
	}

	bill := merge(existing, p)
	_, err = s.db.ExecContext(ctx,
		`UPDATE bills SET title = ?, amount = ?, category = ?, type = ?, date = ? WHERE id = ?`,
		bill.Title, bill.Amount.String(), bill.Category, string(bill.Type), bill.Date.String(), id)
	if err != nil {
		return core.Bill{}, fmt.Errorf("update bill: %w", err)
	}

	slog.InfoContext(ctx, "Bill updated", "id", id)
	return bill, nil
}

func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM bills WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete bill: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete bill: %w", err)
	}
	if n == 0 {
		slog.WarnContext(ctx, "Delete for unknown bill id", "id", id)
		return ErrNotFound
	}

	slog.InfoContext(ctx, "Bill deleted", "id", id)
	return nil
}

func (s *SQLiteStore) Get(ctx context.Context, id string) (core.Bill, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, title, amount, category, type, date FROM bills WHERE id = ?`, id)
	bill, err := scanBill(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Bill{}, ErrNotFound
	}
	if err != nil {
		return core.Bill{}, fmt.Errorf("get bill: %w", err)
	}
	return bill, nil
}

func (s *SQLiteStore) List(ctx context.Context) ([]core.Bill, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, amount, category, type, date FROM bills ORDER BY date DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list bills: %w", err)
	}
	defer rows.Close()

	var bills []core.Bill
	for rows.Next() {
		bill, err := scanBill(rows)
		if err != nil {
			return nil, fmt.Errorf("scan bill: %w", err)
		}
		bills = append(bills, bill)
	}
	return bills, rows.Err()
}

func (s *SQLiteStore) FindByTitleAndAmount(ctx context.Context, title string, amount decimal.Decimal) (core.Bill, error) {
	// The epsilon comparison happens in Go; amounts live in the database as
	// decimal strings.
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, amount, category, type, date FROM bills WHERE title = ?`, title)
	if err != nil {
		return core.Bill{}, fmt.Errorf("find bills by title: %w", err)
	}
	defer rows.Close()

	var candidates []core.Bill
	for rows.Next() {
		bill, err := scanBill(rows)
		if err != nil {
			return core.Bill{}, fmt.Errorf("scan bill: %w", err)
		}
		candidates = append(candidates, bill)
	}
	if err := rows.Err(); err != nil {
		return core.Bill{}, err
	}

	if found, ok := bestMatch(candidates, title, amount); ok {
		return found, nil
	}
	return core.Bill{}, ErrNotFound
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBill(row rowScanner) (core.Bill, error) {
	var (
		b                 core.Bill
		amount, typ, date string
	)
	if err := row.Scan(&b.ID, &b.Title, &amount, &b.Category, &typ, &date); err != nil {
		return core.Bill{}, err
	}
	parsed, err := decimal.NewFromString(amount)
	if err != nil {
		return core.Bill{}, fmt.Errorf("stored amount %q: %w", amount, err)
	}
	b.Amount = parsed
	b.Type = core.BillType(typ)
	b.Date = core.ParseDate(date)
	return b, nil
}

var _ Store = (*SQLiteStore)(nil)
var _ Store = (*FileStore)(nil)
