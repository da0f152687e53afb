package core

import (
	"errors"
	"testing"
)

func validInput() FormInput {
	return FormInput{
		Date:    "2025-09-01",
		Nom:     "Bob",
		Nature:  "Achat",
		Debit:   "2000",
		Credit:  "0",
		Monnaie: "0",
	}
}

func TestNewTransactionTrimsAndDefaults(t *testing.T) {
	in := validInput()
	in.Nom = "  Bob "
	in.Nature = " Achat\t"
	in.Detail = " ciment "
	in.ProjetIntervention = " CFAO "
	in.ImpPrev = ""

	tx, err := NewTransaction(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tx.Nom != "Bob" || tx.Nature != "Achat" || tx.Detail != "ciment" || tx.ProjetIntervention != "CFAO" {
		t.Fatalf("fields not trimmed: %+v", tx)
	}
	if tx.ImpPrev != Prevu {
		t.Fatalf("expected default Prévu, got %q", tx.ImpPrev)
	}
	if tx.ID == "" || tx.CreatedAt.IsZero() {
		t.Fatalf("id or createdAt not set: %+v", tx)
	}
	if tx.Date.String() != "2025-09-01" {
		t.Fatalf("unexpected date: %s", tx.Date)
	}
	if tx.Debit != 2000 {
		t.Fatalf("unexpected debit: %v", tx.Debit)
	}
}

func TestNewTransactionIDsAreUnique(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 1000; i++ {
		tx, err := NewTransaction(validInput())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if seen[tx.ID] {
			t.Fatalf("duplicate id after %d transactions: %s", i, tx.ID)
		}
		seen[tx.ID] = true
	}
}

func TestNewTransactionValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*FormInput)
		wantErr error
	}{
		{"empty nom", func(in *FormInput) { in.Nom = "" }, ErrMissingRequiredField},
		{"whitespace nom", func(in *FormInput) { in.Nom = "   " }, ErrMissingRequiredField},
		{"empty nature", func(in *FormInput) { in.Nature = "" }, ErrMissingRequiredField},
		{"both amounts zero", func(in *FormInput) { in.Debit = "0"; in.Credit = "0" }, ErrNoAmountProvided},
		{"both amounts empty", func(in *FormInput) { in.Debit = ""; in.Credit = "" }, ErrNoAmountProvided},
		{"unparsable amounts coerce to zero", func(in *FormInput) { in.Debit = "abc"; in.Credit = "xyz" }, ErrNoAmountProvided},
		{"monnaie alone is not enough", func(in *FormInput) { in.Debit = "0"; in.Credit = "0"; in.Monnaie = "500" }, ErrNoAmountProvided},
		{"negative debit", func(in *FormInput) { in.Debit = "-10" }, ErrNegativeAmount},
		{"bad date", func(in *FormInput) { in.Date = "01/09/2025" }, ErrInvalidDate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.mutate(&in)
			if _, err := NewTransaction(in); !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestNewTransactionEmptyDateDefaultsToToday(t *testing.T) {
	in := validInput()
	in.Date = ""
	tx, err := NewTransaction(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tx.Date.String() != Today().String() {
		t.Fatalf("expected today, got %s", tx.Date)
	}
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"", 0},
		{"  ", 0},
		{"2000", 2000},
		{"12.34", 12.34},
		{"12,34", 12.34},
		{"1,234.56", 1234.56},
		{"1,234,567.8", 1234567.8},
		{"abc", 0},
	}
	for _, tt := range tests {
		got, err := ParseAmount(tt.in)
		if err != nil || got != tt.want {
			t.Fatalf("ParseAmount(%q) = %v, %v; want %v", tt.in, got, err, tt.want)
		}
	}
	if _, err := ParseAmount("-5"); !errors.Is(err, ErrNegativeAmount) {
		t.Fatalf("expected ErrNegativeAmount, got %v", err)
	}
}

func TestParseImpPrev(t *testing.T) {
	if ParseImpPrev("Imprévu") != Imprevu {
		t.Fatalf("expected Imprévu")
	}
	for _, s := range []string{"", "Prévu", "anything"} {
		if ParseImpPrev(s) != Prevu {
			t.Fatalf("ParseImpPrev(%q) should default to Prévu", s)
		}
	}
}
