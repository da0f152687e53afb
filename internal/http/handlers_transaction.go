package http

import (
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"

	"caisse/internal/core"
	"caisse/internal/ledger"
)

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	if resp := RequirePOST(r); resp != nil {
		resp.Write(w)
		return
	}
	if resp := ParseFormOrFail(r); resp != nil {
		slog.ErrorContext(r.Context(), "Parse form error", "method", r.Method, "url", r.URL.Path)
		resp.Write(w)
		return
	}

	tx, err := core.NewTransaction(formInput(r.Form))
	if err != nil {
		writeValidationError(w, r, err)
		return
	}

	if err := s.store.Add(r.Context(), tx); err != nil {
		slog.ErrorContext(r.Context(), "Failed to save transaction",
			"error", err,
			"nom", tx.Nom,
			"nature", tx.Nature)
		InternalServerError("Erreur lors de l'enregistrement").Write(w)
		return
	}

	s.publishRecorded(r, tx)

	slog.InfoContext(r.Context(), "Transaction created",
		"id", tx.ID,
		"nom", tx.Nom,
		"nature", tx.Nature,
		"debit", tx.Debit,
		"credit", tx.Credit)

	msg := fmt.Sprintf("Transaction enregistrée : %s — %s",
		template.HTMLEscapeString(tx.Nom),
		template.HTMLEscapeString(tx.Nature))
	NewHTMXResponse().
		TriggerTransactionRecorded(tx.ID).
		TriggerFormReset().
		TriggerLedgerRefresh().
		TriggerSuccessNotification(msg).
		Write(w)
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	if resp := RequirePOST(r); resp != nil {
		resp.Write(w)
		return
	}
	if resp := ParseFormOrFail(r); resp != nil {
		resp.Write(w)
		return
	}

	id := sanitizeInput(r.Form.Get("id"))
	if id == "" {
		BadRequestError("Identifiant de transaction manquant").Write(w)
		return
	}

	tx, err := core.NewTransaction(formInput(r.Form))
	if err != nil {
		writeValidationError(w, r, err)
		return
	}

	if err := s.store.Update(r.Context(), id, tx); err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			slog.WarnContext(r.Context(), "Update for unknown transaction", "id", id)
			NotFoundError("Transaction introuvable").Write(w)
			return
		}
		slog.ErrorContext(r.Context(), "Failed to update transaction", "error", err, "id", id)
		InternalServerError("Erreur lors de la modification").Write(w)
		return
	}

	// The store keeps the original id and created_at; mirror the stored
	// record, not the throwaway one NewTransaction built, or the archive
	// drifts from the ledger on every edit.
	tx.ID = id
	if all, err := s.store.All(r.Context()); err == nil {
		for _, cur := range all {
			if cur.ID == id {
				tx = cur
				break
			}
		}
	}
	s.publishRecorded(r, tx)

	slog.InfoContext(r.Context(), "Transaction updated", "id", id, "nom", tx.Nom)

	NewHTMXResponse().
		TriggerTransactionRecorded(id).
		TriggerLedgerRefresh().
		TriggerSuccessNotification("Transaction modifiée").
		Write(w)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	if resp := RequireDeleteOrPOST(r); resp != nil {
		resp.Write(w)
		return
	}
	if resp := ParseFormOrFail(r); resp != nil {
		resp.Write(w)
		return
	}

	id := sanitizeInput(r.Form.Get("id"))
	if id == "" {
		BadRequestError("Identifiant de transaction manquant").Write(w)
		return
	}

	if err := s.store.Remove(r.Context(), id); err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			slog.WarnContext(r.Context(), "Delete for unknown transaction", "id", id)
			NotFoundError("Transaction introuvable").Write(w)
			return
		}
		slog.ErrorContext(r.Context(), "Failed to delete transaction", "error", err, "id", id)
		InternalServerError("Erreur lors de la suppression").Write(w)
		return
	}

	if s.events != nil {
		if err := s.events.PublishDeleted(r.Context(), id); err != nil {
			slog.ErrorContext(r.Context(), "Failed to publish delete event", "error", err, "id", id)
		}
	}

	slog.InfoContext(r.Context(), "Transaction deleted", "id", id)

	NewHTMXResponse().
		TriggerTransactionDeleted(id).
		TriggerLedgerRefresh().
		TriggerSuccessNotification("Transaction supprimée").
		Write(w)
}

// publishRecorded mirrors the mutation to the archive. Publish failures
// never fail the originating request.
func (s *Server) publishRecorded(r *http.Request, tx core.Transaction) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishRecorded(r.Context(), tx); err != nil {
		slog.ErrorContext(r.Context(), "Failed to publish record event", "error", err, "id", tx.ID)
	}
}

func writeValidationError(w http.ResponseWriter, r *http.Request, err error) {
	slog.WarnContext(r.Context(), "Transaction rejected", "error", err)
	switch {
	case errors.Is(err, core.ErrMissingRequiredField):
		UnprocessableEntityError("Nom et nature sont obligatoires").Write(w)
	case errors.Is(err, core.ErrNoAmountProvided):
		UnprocessableEntityError("Au moins un montant est requis").Write(w)
	case errors.Is(err, core.ErrNegativeAmount):
		UnprocessableEntityError("Les montants ne peuvent pas être négatifs").Write(w)
	case errors.Is(err, core.ErrInvalidDate):
		UnprocessableEntityError("Date invalide").Write(w)
	default:
		UnprocessableEntityError("Données invalides : " + err.Error()).Write(w)
	}
}

// tableColumns drives the sortable headers of the ledger table, in
// display order.
var tableColumns = []struct {
	Key   ledger.Field
	Label string
}{
	{ledger.FieldDate, "DATE"},
	{ledger.FieldNom, "NOMS"},
	{ledger.FieldNature, "NATURE"},
	{ledger.FieldDetail, "DETAIL"},
	{ledger.FieldProjetIntervention, "PROJET-INTERVENTION"},
	{ledger.FieldImpPrev, "IMP-PREV"},
	{ledger.FieldCorpsDeMetiers, "CORPS DE METIERS"},
	{ledger.FieldMonnaie, "MONNAIE"},
	{ledger.FieldDebit, "DEBIT"},
	{ledger.FieldCredit, "CREDIT"},
}

type tableColumn struct {
	Key     string
	Label   string
	NextDir string
	Active  bool
	Arrow   string
}

type tableRow struct {
	ID                 string
	Date               string
	Nom                string
	Nature             string
	Detail             string
	ProjetIntervention string
	ImpPrev            string
	CorpsDeMetiers     string
	Monnaie            string
	Debit              string
	Credit             string
}

type tableData struct {
	Search  string
	Sort    string
	Dir     string
	Columns []tableColumn
	Rows    []tableRow
	Count   int
	Totals  struct {
		Debit   string
		Credit  string
		Monnaie string
		Balance string
	}
}

// handleTransactionsTable renders the filtered, sorted ledger partial.
func (s *Server) handleTransactionsTable(w http.ResponseWriter, r *http.Request) {
	if resp := RequireGET(r); resp != nil {
		resp.Write(w)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	search := sanitizeInput(r.URL.Query().Get("search"))
	state := ledger.SortState{
		Key: ledger.ParseField(r.URL.Query().Get("sort")),
		Dir: ledger.ParseDirection(r.URL.Query().Get("dir")),
	}

	txs, err := s.store.All(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to list transactions", "error", err)
		_, _ = w.Write([]byte(`<div class="error">Erreur chargement des transactions</div>`))
		return
	}

	view := ledger.Sort(ledger.Filter(txs, search), state)
	totals := core.Aggregate(view)

	data := tableData{
		Search: search,
		Sort:   string(state.Key),
		Dir:    string(state.Dir),
		Count:  len(view),
	}
	data.Totals.Debit = core.FormatAmount(totals.Debit)
	data.Totals.Credit = core.FormatAmount(totals.Credit)
	data.Totals.Monnaie = core.FormatAmount(totals.Monnaie)
	data.Totals.Balance = core.FormatAmount(totals.Balance)

	for _, c := range tableColumns {
		next := state.Toggle(c.Key)
		col := tableColumn{
			Key:     string(c.Key),
			Label:   c.Label,
			NextDir: string(next.Dir),
			Active:  state.Key == c.Key,
		}
		if col.Active {
			if state.Dir == ledger.Asc {
				col.Arrow = "▲"
			} else {
				col.Arrow = "▼"
			}
		}
		data.Columns = append(data.Columns, col)
	}

	for _, tx := range view {
		data.Rows = append(data.Rows, tableRow{
			ID:                 tx.ID,
			Date:               tx.Date.String(),
			Nom:                tx.Nom,
			Nature:             tx.Nature,
			Detail:             tx.Detail,
			ProjetIntervention: tx.ProjetIntervention,
			ImpPrev:            string(tx.ImpPrev),
			CorpsDeMetiers:     tx.CorpsDeMetiers,
			Monnaie:            core.FormatAmount(tx.Monnaie),
			Debit:              core.FormatAmount(tx.Debit),
			Credit:             core.FormatAmount(tx.Credit),
		})
	}

	if s.templates == nil {
		_, _ = w.Write([]byte(`<div class="placeholder">Solde : ` + template.HTMLEscapeString(data.Totals.Balance) + `</div>`))
		return
	}
	if err := s.templates.ExecuteTemplate(w, "transactions_table.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Table template execution failed", "error", err, "template", "transactions_table.html")
		_, _ = w.Write([]byte(`<div class="error">Erreur d'affichage du tableau</div>`))
	}
}
