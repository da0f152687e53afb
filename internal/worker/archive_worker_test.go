package worker

import (
	"context"
	"errors"
	"testing"

	"caisse/internal/amqp"
	"caisse/internal/core"
	"caisse/internal/ledger"
)

type fakeArchive struct {
	added   []core.Transaction
	removed []string
	addErr  error
	remErr  error
}

func (f *fakeArchive) Add(_ context.Context, tx core.Transaction) error {
	if f.addErr != nil {
		return f.addErr
	}
	f.added = append(f.added, tx)
	return nil
}

func (f *fakeArchive) Remove(_ context.Context, id string) error {
	if f.remErr != nil {
		return f.remErr
	}
	f.removed = append(f.removed, id)
	return nil
}

func (f *fakeArchive) Count(_ context.Context) (int64, error) {
	return int64(len(f.added)), nil
}

func buildTx(t *testing.T) core.Transaction {
	t.Helper()
	tx, err := core.NewTransaction(core.FormInput{
		Date:   "2025-09-01",
		Nom:    "Bob",
		Nature: "Achat",
		Debit:  "2000",
	})
	if err != nil {
		t.Fatalf("build transaction: %v", err)
	}
	return tx
}

func TestHandleRecordedArchives(t *testing.T) {
	archive := &fakeArchive{}
	w := NewArchiveWorker(archive)

	tx := buildTx(t)
	if err := w.Handle(context.Background(), amqp.NewRecordedMessage(tx)); err != nil {
		t.Fatalf("handle recorded: %v", err)
	}
	if len(archive.added) != 1 || archive.added[0].ID != tx.ID {
		t.Fatalf("transaction not archived: %+v", archive.added)
	}
}

func TestHandleRecordedPropagatesError(t *testing.T) {
	wantErr := errors.New("disk full")
	w := NewArchiveWorker(&fakeArchive{addErr: wantErr})

	err := w.Handle(context.Background(), amqp.NewRecordedMessage(buildTx(t)))
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected wrapped archive error, got %v", err)
	}
}

func TestHandleDeletedRemoves(t *testing.T) {
	archive := &fakeArchive{}
	w := NewArchiveWorker(archive)

	if err := w.Handle(context.Background(), amqp.NewDeletedMessage("tx_1")); err != nil {
		t.Fatalf("handle deleted: %v", err)
	}
	if len(archive.removed) != 1 || archive.removed[0] != "tx_1" {
		t.Fatalf("removal not applied: %+v", archive.removed)
	}
}

func TestHandleDeletedUnknownIDIsDropped(t *testing.T) {
	w := NewArchiveWorker(&fakeArchive{remErr: ledger.ErrNotFound})

	// Must not bubble up: returning an error would requeue the message
	// forever.
	if err := w.Handle(context.Background(), amqp.NewDeletedMessage("tx_ghost")); err != nil {
		t.Fatalf("expected nil for unknown id, got %v", err)
	}
}

func TestHandleUnknownType(t *testing.T) {
	w := NewArchiveWorker(&fakeArchive{})

	err := w.Handle(context.Background(), &amqp.ArchiveMessage{Type: "transaction.exploded"})
	if !errors.Is(err, amqp.ErrUnknownMessageType) {
		t.Fatalf("expected ErrUnknownMessageType, got %v", err)
	}
}
