// Package worker mirrors ledger mutations into the SQLite archive. The
// web process stays memory-resident; the worker gives deployments a
// durable trail without putting disk I/O on the request path.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"caisse/internal/amqp"
	"caisse/internal/core"
	"caisse/internal/ledger"
)

// Archive is the subset of the repository the worker needs.
type Archive interface {
	Add(ctx context.Context, tx core.Transaction) error
	Remove(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}

// ArchiveWorker applies archive messages to durable storage.
type ArchiveWorker struct {
	archive Archive
}

func NewArchiveWorker(archive Archive) *ArchiveWorker {
	return &ArchiveWorker{archive: archive}
}

// Handle applies one message. Recorded messages upsert; deleted
// messages remove. A delete for an id the archive never saw is logged
// and dropped rather than requeued, the mutation it mirrors already
// happened in the ledger.
func (w *ArchiveWorker) Handle(ctx context.Context, msg *amqp.ArchiveMessage) error {
	switch msg.Type {
	case amqp.TypeRecorded:
		if err := w.archive.Add(ctx, *msg.Transaction); err != nil {
			return fmt.Errorf("archive transaction %s: %w", msg.Transaction.ID, err)
		}
		slog.InfoContext(ctx, "Archived transaction",
			"id", msg.Transaction.ID,
			"nom", msg.Transaction.Nom)
		return nil

	case amqp.TypeDeleted:
		err := w.archive.Remove(ctx, msg.ID)
		if errors.Is(err, ledger.ErrNotFound) {
			slog.WarnContext(ctx, "Delete for unknown transaction, dropping",
				"id", msg.ID)
			return nil
		}
		if err != nil {
			return fmt.Errorf("remove archived transaction %s: %w", msg.ID, err)
		}
		slog.InfoContext(ctx, "Removed archived transaction", "id", msg.ID)
		return nil

	default:
		return fmt.Errorf("%w: %s", amqp.ErrUnknownMessageType, msg.Type)
	}
}

// LogStats logs the archive size, used by the periodic sweep in
// cmd/caisse-worker.
func (w *ArchiveWorker) LogStats(ctx context.Context) {
	n, err := w.archive.Count(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to read archive size", "error", err)
		return
	}
	slog.InfoContext(ctx, "Archive status", "transactions", n)
}
