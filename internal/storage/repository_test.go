package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"caisse/internal/core"
	"caisse/internal/ledger"
)

func newRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "caisse.db"))
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func buildTx(t *testing.T, nom string) core.Transaction {
	t.Helper()
	tx, err := core.NewTransaction(core.FormInput{
		Date:               "2025-09-01",
		Nom:                nom,
		Nature:             "Achat",
		Detail:             "ciment",
		ProjetIntervention: "CFAO",
		ImpPrev:            "Imprévu",
		CorpsDeMetiers:     "GENIE CIVIL",
		Monnaie:            "25.5",
		Debit:              "2000",
	})
	if err != nil {
		t.Fatalf("build transaction: %v", err)
	}
	return tx
}

func TestRepositoryAddAndAll(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)

	tx := buildTx(t, "Bob")
	if err := repo.Add(ctx, tx); err != nil {
		t.Fatalf("add: %v", err)
	}

	all, err := repo.All(ctx)
	if err != nil {
		t.Fatalf("all: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("expected 1 transaction, got %d", len(all))
	}
	got := all[0]
	if got.ID != tx.ID || got.Nom != "Bob" || got.Detail != "ciment" ||
		got.ImpPrev != core.Imprevu || got.Monnaie != 25.5 || got.Debit != 2000 {
		t.Fatalf("round trip mangled record: %+v", got)
	}
	if got.Date.String() != "2025-09-01" {
		t.Fatalf("unexpected date: %s", got.Date)
	}
}

func TestRepositoryAddIsIdempotentPerID(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)

	tx := buildTx(t, "Bob")
	if err := repo.Add(ctx, tx); err != nil {
		t.Fatalf("add: %v", err)
	}
	// Redelivered message: same id, possibly updated fields.
	tx.Nature = "Achat sable"
	if err := repo.Add(ctx, tx); err != nil {
		t.Fatalf("re-add: %v", err)
	}

	n, err := repo.Count(ctx)
	if err != nil || n != 1 {
		t.Fatalf("expected count 1, got %d err=%v", n, err)
	}
	all, _ := repo.All(ctx)
	if all[0].Nature != "Achat sable" {
		t.Fatalf("replacement not applied: %+v", all[0])
	}
}

func TestRepositoryUpdateAndRemoveNotFound(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)

	if err := repo.Update(ctx, "tx_missing", buildTx(t, "Bob")); !errors.Is(err, ledger.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on update, got %v", err)
	}
	if err := repo.Remove(ctx, "tx_missing"); !errors.Is(err, ledger.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on remove, got %v", err)
	}
}

func TestRepositoryUpdateReplaces(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)

	tx := buildTx(t, "Bob")
	if err := repo.Add(ctx, tx); err != nil {
		t.Fatalf("add: %v", err)
	}
	repl := buildTx(t, "Robert")
	if err := repo.Update(ctx, tx.ID, repl); err != nil {
		t.Fatalf("update: %v", err)
	}

	all, _ := repo.All(ctx)
	if len(all) != 1 || all[0].Nom != "Robert" {
		t.Fatalf("update not applied: %+v", all)
	}
	if all[0].ID != tx.ID {
		t.Fatalf("id must survive update")
	}
}

func TestRepositoryOrderNewestFirst(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)

	first := buildTx(t, "Bob")
	second := buildTx(t, "Alice")
	if err := repo.Add(ctx, first); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := repo.Add(ctx, second); err != nil {
		t.Fatalf("add: %v", err)
	}

	all, _ := repo.All(ctx)
	if len(all) != 2 || all[0].ID != second.ID {
		t.Fatalf("expected newest first, got %+v", all)
	}
}
