package core

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	Prevu   ImpPrev = "Prévu"
	Imprevu ImpPrev = "Imprévu"
)

type (
	// ImpPrev flags whether a transaction was planned.
	ImpPrev string

	// Date is a calendar date without a time component.
	Date struct {
		time.Time
	}

	// Transaction is a single ledger entry. Monnaie, Debit and Credit are
	// three independent amount columns, not a double-entry pair.
	Transaction struct {
		ID                 string    `json:"id"`
		Date               Date      `json:"date"`
		Nom                string    `json:"nom"`
		Nature             string    `json:"nature"`
		Detail             string    `json:"detail"`
		ProjetIntervention string    `json:"projet_intervention"`
		ImpPrev            ImpPrev   `json:"imp_prev"`
		CorpsDeMetiers     string    `json:"corps_de_metiers"`
		Monnaie            float64   `json:"monnaie"`
		Debit              float64   `json:"debit"`
		Credit             float64   `json:"credit"`
		CreatedAt          time.Time `json:"created_at"`
	}

	// FormInput is the raw, string-typed form submission. Amounts are
	// decimal strings, the date is an ISO string.
	FormInput struct {
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
)

var (
	ErrMissingRequiredField = errors.New("nom and nature are required")
	ErrNoAmountProvided     = errors.New("at least one of debit or credit must be provided")
	ErrNegativeAmount       = errors.New("amounts cannot be negative")
	ErrInvalidDate          = errors.New("invalid date")
)

const dateLayout = "2006-01-02"

// ParseDate parses an ISO yyyy-mm-dd string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

// NewDate creates a Date from year, month, day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// Today returns the current calendar date.
func Today() Date {
	now := time.Now()
	return NewDate(now.Year(), int(now.Month()), now.Day())
}

// String renders the date in ISO form, the representation used on the
// form, in search and in exports.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(dateLayout)
}

// ParseAmount converts a decimal string to a non-negative amount.
// Unparsable input coerces to zero rather than erroring; negative input
// is rejected.
func ParseAmount(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	// Accept a decimal comma as typed on French keyboards. When a dot is
	// already present the commas are thousands grouping, not a decimal
	// separator.
	if strings.Contains(s, ".") {
		s = strings.ReplaceAll(s, ",", "")
	} else {
		s = strings.ReplaceAll(s, ",", ".")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, nil
	}
	if v < 0 {
		return 0, ErrNegativeAmount
	}
	return v, nil
}

// ParseImpPrev maps a selector value to the enum, defaulting to Prévu.
func ParseImpPrev(s string) ImpPrev {
	if ImpPrev(strings.TrimSpace(s)) == Imprevu {
		return Imprevu
	}
	return Prevu
}

// NewTransaction validates raw form input and builds a Transaction with a
// fresh unique ID and CreatedAt set to now. An empty date defaults to
// today, matching the form's prefilled value.
func NewTransaction(in FormInput) (Transaction, error) {
	tx := Transaction{
		ID:                 "tx_" + uuid.NewString(),
		Nom:                strings.TrimSpace(in.Nom),
		Nature:             strings.TrimSpace(in.Nature),
		Detail:             strings.TrimSpace(in.Detail),
		ProjetIntervention: strings.TrimSpace(in.ProjetIntervention),
		ImpPrev:            ParseImpPrev(in.ImpPrev),
		CorpsDeMetiers:     strings.TrimSpace(in.CorpsDeMetiers),
		CreatedAt:          time.Now(),
	}

	if strings.TrimSpace(in.Date) == "" {
		tx.Date = Today()
	} else {
		d, err := ParseDate(in.Date)
		if err != nil {
			return Transaction{}, err
		}
		tx.Date = d
	}

	var err error
	if tx.Monnaie, err = ParseAmount(in.Monnaie); err != nil {
		return Transaction{}, err
	}
	if tx.Debit, err = ParseAmount(in.Debit); err != nil {
		return Transaction{}, err
	}
	if tx.Credit, err = ParseAmount(in.Credit); err != nil {
		return Transaction{}, err
	}

	if err := tx.Validate(); err != nil {
		return Transaction{}, err
	}
	return tx, nil
}

// Validate checks the acceptance invariants: nom and nature non-empty
// after trimming, non-negative amounts, and at least one of debit or
// credit strictly positive. Monnaie alone is not enough.
func (t Transaction) Validate() error {
	if strings.TrimSpace(t.Nom) == "" || strings.TrimSpace(t.Nature) == "" {
		return ErrMissingRequiredField
	}
	if t.Monnaie < 0 || t.Debit < 0 || t.Credit < 0 {
		return ErrNegativeAmount
	}
	if t.Debit == 0 && t.Credit == 0 {
		return ErrNoAmountProvided
	}
	return nil
}

// FormatAmount renders an amount the way it participates in search and
// exports: shortest exact decimal form.
func FormatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
