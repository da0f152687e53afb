package ledger

import (
	"context"
	"errors"
	"testing"

	"caisse/internal/core"
)

func mustTx(t *testing.T, nom, debit string) core.Transaction {
	t.Helper()
	tx, err := core.NewTransaction(core.FormInput{
		Date:   "2025-09-01",
		Nom:    nom,
		Nature: "Achat",
		Debit:  debit,
	})
	if err != nil {
		t.Fatalf("build transaction: %v", err)
	}
	return tx
}

func TestMemoryStoreAddPrepends(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	first := mustTx(t, "Bob", "100")
	second := mustTx(t, "Alice", "200")
	if err := s.Add(ctx, first); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := s.Add(ctx, second); err != nil {
		t.Fatalf("add: %v", err)
	}

	all, err := s.All(ctx)
	if err != nil {
		t.Fatalf("all: %v", err)
	}
	if len(all) != 2 || all[0].ID != second.ID || all[1].ID != first.ID {
		t.Fatalf("expected newest first, got %+v", all)
	}
}

func TestMemoryStoreAddRejectsInvalid(t *testing.T) {
	s := NewMemoryStore()
	err := s.Add(context.Background(), core.Transaction{Nom: "Bob", Nature: "X"})
	if !errors.Is(err, core.ErrNoAmountProvided) {
		t.Fatalf("expected validation error, got %v", err)
	}
	all, _ := s.All(context.Background())
	if len(all) != 0 {
		t.Fatalf("store must be unchanged on failed add")
	}
}

func TestMemoryStoreUpdateReplacesRecord(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	tx := mustTx(t, "Bob", "100")
	if err := s.Add(ctx, tx); err != nil {
		t.Fatalf("add: %v", err)
	}

	repl := mustTx(t, "Robert", "300")
	if err := s.Update(ctx, tx.ID, repl); err != nil {
		t.Fatalf("update: %v", err)
	}

	all, _ := s.All(ctx)
	if len(all) != 1 {
		t.Fatalf("expected 1 record, got %d", len(all))
	}
	got := all[0]
	if got.Nom != "Robert" || got.Debit != 300 {
		t.Fatalf("record not replaced: %+v", got)
	}
	if got.ID != tx.ID {
		t.Fatalf("id must be immutable, got %s", got.ID)
	}
	if !got.CreatedAt.Equal(tx.CreatedAt) {
		t.Fatalf("createdAt must be immutable")
	}
}

func TestMemoryStoreUpdateNotFound(t *testing.T) {
	s := NewMemoryStore()
	err := s.Update(context.Background(), "tx_missing", mustTx(t, "Bob", "1"))
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryStoreRemove(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	tx := mustTx(t, "Bob", "100")
	if err := s.Add(ctx, tx); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := s.Remove(ctx, tx.ID); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := s.Remove(ctx, tx.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second remove, got %v", err)
	}
	all, _ := s.All(ctx)
	if len(all) != 0 {
		t.Fatalf("expected empty store, got %d", len(all))
	}
}

func TestMemoryStoreAllReturnsSnapshot(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	if err := s.Add(ctx, mustTx(t, "Bob", "100")); err != nil {
		t.Fatalf("add: %v", err)
	}
	all, _ := s.All(ctx)
	all[0].Nom = "tampered"
	again, _ := s.All(ctx)
	if again[0].Nom != "Bob" {
		t.Fatalf("All must return a copy, store was mutated")
	}
}
