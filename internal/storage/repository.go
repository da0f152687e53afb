package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"caisse/internal/core"
	"caisse/internal/ledger"

	_ "modernc.org/sqlite"
)

// SQLiteRepository is the durable transaction store. It backs the
// optional sqlite ledger backend and the worker's archive; both go
// through the same ledger.Store operations.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
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

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

const insertColumns = `id, tx_date, nom, nature, detail, projet_intervention,
	imp_prev, corps_de_metiers, monnaie, debit, credit, created_at`

// Add implements ledger.Store. Inserting an id that already exists
// replaces the row, which makes the worker's archive idempotent under
// message redelivery.
func (r *SQLiteRepository) Add(ctx context.Context, tx core.Transaction) error {
	if err := tx.Validate(); err != nil {
		return err
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO transactions (`+insertColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		tx.ID, tx.Date.String(), tx.Nom, tx.Nature, tx.Detail, tx.ProjetIntervention,
		string(tx.ImpPrev), tx.CorpsDeMetiers, tx.Monnaie, tx.Debit, tx.Credit,
		tx.CreatedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}

	slog.InfoContext(ctx, "Transaction saved to SQLite",
		"id", tx.ID,
		"nom", tx.Nom,
		"nature", tx.Nature)
	return nil
}

// Update implements ledger.Store; the stored id and created_at survive
// the replacement.
func (r *SQLiteRepository) Update(ctx context.Context, id string, tx core.Transaction) error {
	if err := tx.Validate(); err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE transactions SET
			tx_date = ?, nom = ?, nature = ?, detail = ?, projet_intervention = ?,
			imp_prev = ?, corps_de_metiers = ?, monnaie = ?, debit = ?, credit = ?
		 WHERE id = ?`,
		tx.Date.String(), tx.Nom, tx.Nature, tx.Detail, tx.ProjetIntervention,
		string(tx.ImpPrev), tx.CorpsDeMetiers, tx.Monnaie, tx.Debit, tx.Credit, id)
	if err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ledger.ErrNotFound
	}
	return nil
}

// Remove implements ledger.Store.
func (r *SQLiteRepository) Remove(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ledger.ErrNotFound
	}
	return nil
}

// All implements ledger.Store, newest first.
func (r *SQLiteRepository) All(ctx context.Context) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+insertColumns+` FROM transactions ORDER BY created_at DESC, rowid DESC`)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return out, nil
}

// Count returns the number of archived transactions.
func (r *SQLiteRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM transactions`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count transactions: %w", err)
	}
	return n, nil
}

func scanTransaction(rows *sql.Rows) (core.Transaction, error) {
	var (
		tx         core.Transaction
		dateStr    string
		impPrev    string
		createdStr string
	)
	err := rows.Scan(&tx.ID, &dateStr, &tx.Nom, &tx.Nature, &tx.Detail,
		&tx.ProjetIntervention, &impPrev, &tx.CorpsDeMetiers,
		&tx.Monnaie, &tx.Debit, &tx.Credit, &createdStr)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("scan transaction: %w", err)
	}

	if tx.Date, err = core.ParseDate(dateStr); err != nil {
		return core.Transaction{}, fmt.Errorf("parse stored date %q: %w", dateStr, err)
	}
	tx.ImpPrev = core.ParseImpPrev(impPrev)
	if tx.CreatedAt, err = time.Parse(time.RFC3339Nano, createdStr); err != nil {
		return core.Transaction{}, fmt.Errorf("parse stored created_at %q: %w", createdStr, err)
	}
	return tx, nil
}
