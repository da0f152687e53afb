package ledger

import (
	"sort"
	"strings"

	"caisse/internal/core"
)

// Field names a sortable transaction column.
type Field string

const (
	FieldDate               Field = "date"
	FieldNom                Field = "nom"
	FieldNature             Field = "nature"
	FieldDetail             Field = "detail"
	FieldProjetIntervention Field = "projetIntervention"
	FieldImpPrev            Field = "impPrev"
	FieldCorpsDeMetiers     Field = "corpsDeMetiers"
	FieldMonnaie            Field = "monnaie"
	FieldDebit              Field = "debit"
	FieldCredit             Field = "credit"
	FieldCreatedAt          Field = "createdAt"
)

type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// SortState is the active sort key and direction of a table view.
type SortState struct {
	Key Field
	Dir Direction
}

// DefaultSort is the main ledger view default: newest first.
func DefaultSort() SortState {
	return SortState{Key: FieldDate, Dir: Desc}
}

// Toggle returns the state after clicking a column header: the active
// key flips direction, a new key resets to ascending.
func (s SortState) Toggle(key Field) SortState {
	if key == s.Key {
		if s.Dir == Asc {
			return SortState{Key: key, Dir: Desc}
		}
		return SortState{Key: key, Dir: Asc}
	}
	return SortState{Key: key, Dir: Asc}
}

// ParseField validates a sort key parameter, falling back to date.
func ParseField(s string) Field {
	switch f := Field(s); f {
	case FieldDate, FieldNom, FieldNature, FieldDetail, FieldProjetIntervention,
		FieldImpPrev, FieldCorpsDeMetiers, FieldMonnaie, FieldDebit, FieldCredit,
		FieldCreatedAt:
		return f
	default:
		return FieldDate
	}
}

// ParseDirection validates a direction parameter, falling back to descending.
func ParseDirection(s string) Direction {
	if Direction(s) == Asc {
		return Asc
	}
	return Desc
}

// Filter keeps transactions where any field value, converted to text,
// contains the term as a case-insensitive substring. An empty term keeps
// everything.
func Filter(txs []core.Transaction, term string) []core.Transaction {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return txs
	}
	out := make([]core.Transaction, 0, len(txs))
	for _, tx := range txs {
		if matches(tx, term) {
			out = append(out, tx)
		}
	}
	return out
}

func matches(tx core.Transaction, term string) bool {
	for _, v := range fieldStrings(tx) {
		if strings.Contains(strings.ToLower(v), term) {
			return true
		}
	}
	return false
}

func fieldStrings(tx core.Transaction) []string {
	return []string{
		tx.ID,
		tx.Date.String(),
		tx.Nom,
		tx.Nature,
		tx.Detail,
		tx.ProjetIntervention,
		string(tx.ImpPrev),
		tx.CorpsDeMetiers,
		core.FormatAmount(tx.Monnaie),
		core.FormatAmount(tx.Debit),
		core.FormatAmount(tx.Credit),
		tx.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

// Sort orders a copy of txs by the chosen field: chronological for
// dates, numeric for amounts, lexicographic for text. The sort is stable
// so equal keys keep their relative order.
func Sort(txs []core.Transaction, state SortState) []core.Transaction {
	out := make([]core.Transaction, len(txs))
	copy(out, txs)
	less := lessFunc(state.Key)
	sort.SliceStable(out, func(i, j int) bool {
		if state.Dir == Desc {
			return less(out[j], out[i])
		}
		return less(out[i], out[j])
	})
	return out
}

func lessFunc(key Field) func(a, b core.Transaction) bool {
	switch key {
	case FieldDate:
		return func(a, b core.Transaction) bool { return a.Date.Before(b.Date.Time) }
	case FieldCreatedAt:
		return func(a, b core.Transaction) bool { return a.CreatedAt.Before(b.CreatedAt) }
	case FieldMonnaie:
		return func(a, b core.Transaction) bool { return a.Monnaie < b.Monnaie }
	case FieldDebit:
		return func(a, b core.Transaction) bool { return a.Debit < b.Debit }
	case FieldCredit:
		return func(a, b core.Transaction) bool { return a.Credit < b.Credit }
	case FieldNom:
		return func(a, b core.Transaction) bool { return a.Nom < b.Nom }
	case FieldNature:
		return func(a, b core.Transaction) bool { return a.Nature < b.Nature }
	case FieldDetail:
		return func(a, b core.Transaction) bool { return a.Detail < b.Detail }
	case FieldProjetIntervention:
		return func(a, b core.Transaction) bool { return a.ProjetIntervention < b.ProjetIntervention }
	case FieldImpPrev:
		return func(a, b core.Transaction) bool { return a.ImpPrev < b.ImpPrev }
	case FieldCorpsDeMetiers:
		return func(a, b core.Transaction) bool { return a.CorpsDeMetiers < b.CorpsDeMetiers }
	default:
		return func(a, b core.Transaction) bool { return a.Date.Before(b.Date.Time) }
	}
}
