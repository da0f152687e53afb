package http

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"caisse/internal/export"
	"caisse/internal/ledger"
)

// handleExport downloads the ledger as a spreadsheet. The export always
// serializes the full store, even while a search narrows the table view;
// sort parameters only affect row order.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	if resp := RequireGET(r); resp != nil {
		resp.Write(w)
		return
	}

	state := ledger.SortState{
		Key: ledger.ParseField(r.URL.Query().Get("sort")),
		Dir: ledger.ParseDirection(r.URL.Query().Get("dir")),
	}

	txs, err := s.store.All(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to list transactions for export", "error", err)
		InternalServerError("Erreur lors de l'export").Write(w)
		return
	}
	view := ledger.Sort(txs, state)

	var buf bytes.Buffer
	if err := export.WriteXLSX(&buf, view); err != nil {
		if errors.Is(err, export.ErrEmptyDataset) {
			slog.WarnContext(r.Context(), "Export requested with no transactions")
			UnprocessableEntityError("Aucune transaction à exporter").
				TriggerErrorNotification("Aucune transaction à exporter").
				Write(w)
			return
		}
		slog.ErrorContext(r.Context(), "Failed to build export file", "error", err, "count", len(view))
		InternalServerError("Erreur lors de l'export").Write(w)
		return
	}

	filename := export.Filename(time.Now())
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		slog.ErrorContext(r.Context(), "Failed to stream export file", "error", err, "filename", filename)
		return
	}

	slog.InfoContext(r.Context(), "Export downloaded",
		"filename", filename,
		"transactions", len(view))
}
