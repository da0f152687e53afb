// Package export serializes the transaction collection into the xlsx
// artifact downloaded from the table view. Column order and the trailing
// totals row are a compatibility contract for downstream consumers of
// exported files.
package export

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"caisse/internal/core"
)

// ErrEmptyDataset is returned when there is nothing to export; no
// artifact is produced in that case.
var ErrEmptyDataset = errors.New("no transactions to export")

// SheetName is the single sheet every export carries.
const SheetName = "Transactions"

var headers = []string{
	"DATE",
	"NOMS",
	"NATURE",
	"DETAIL",
	"PROJET/INTERVENTION",
	"IMP/PREV",
	"CORPS DE METIERS",
	"MONNAIE",
	"DEBIT",
	"CREDIT",
}

var columnWidths = []float64{12, 15, 20, 30, 25, 10, 20, 12, 15, 15}

// Filename returns the download name for an export taken at the given
// moment: transactions_YYYY-MM-DD.xlsx.
func Filename(at time.Time) string {
	return "transactions_" + at.Format("2006-01-02") + ".xlsx"
}

// WriteXLSX serializes the transactions plus a trailing totals row into
// w. The totals row carries only the three amount sums; all text columns
// stay blank.
func WriteXLSX(w io.Writer, txs []core.Transaction) error {
	if len(txs) == 0 {
		return ErrEmptyDataset
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(SheetName, cell, h); err != nil {
			return fmt.Errorf("write header %s: %w", h, err)
		}
	}

	for r, tx := range txs {
		row := []interface{}{
			tx.Date.String(),
			tx.Nom,
			tx.Nature,
			tx.Detail,
			tx.ProjetIntervention,
			string(tx.ImpPrev),
			tx.CorpsDeMetiers,
			tx.Monnaie,
			tx.Debit,
			tx.Credit,
		}
		for c, v := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			if err := f.SetCellValue(SheetName, cell, v); err != nil {
				return fmt.Errorf("write row %d: %w", r+1, err)
			}
		}
	}

	totals := core.Aggregate(txs)
	totalsRow := len(txs) + 2
	for c, v := range map[int]float64{8: totals.Monnaie, 9: totals.Debit, 10: totals.Credit} {
		cell, _ := excelize.CoordinatesToCellName(c, totalsRow)
		if err := f.SetCellValue(SheetName, cell, v); err != nil {
			return fmt.Errorf("write totals row: %w", err)
		}
	}

	for i, width := range columnWidths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(SheetName, col, col, width); err != nil {
			return fmt.Errorf("set column width: %w", err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
