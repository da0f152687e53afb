package ledger

import (
	"testing"

	"caisse/internal/core"
)

func sample() []core.Transaction {
	return []core.Transaction{
		{ID: "1", Date: core.NewDate(2025, 9, 3), Nom: "Bob", Nature: "Achat ciment", Debit: 2000},
		{ID: "2", Date: core.NewDate(2025, 9, 1), Nom: "Alice", Nature: "Vente", Credit: 5000},
		{ID: "3", Date: core.NewDate(2025, 9, 2), Nom: "KONE", Nature: "Transport", Debit: 150, Monnaie: 25},
	}
}

func TestFilterEmptyTermIsIdentity(t *testing.T) {
	txs := sample()
	got := Filter(txs, "")
	if len(got) != len(txs) {
		t.Fatalf("empty term must keep all, got %d", len(got))
	}
	got = Filter(txs, "   ")
	if len(got) != len(txs) {
		t.Fatalf("whitespace term must keep all, got %d", len(got))
	}
}

func TestFilterCaseInsensitiveSubstring(t *testing.T) {
	got := Filter(sample(), "bob")
	if len(got) != 1 || got[0].Nom != "Bob" {
		t.Fatalf("expected Bob match, got %+v", got)
	}
	got = Filter(sample(), "kone")
	if len(got) != 1 || got[0].ID != "3" {
		t.Fatalf("expected KONE match, got %+v", got)
	}
}

func TestFilterMatchesNumericAndDateFields(t *testing.T) {
	got := Filter(sample(), "5000")
	if len(got) != 1 || got[0].ID != "2" {
		t.Fatalf("expected credit match, got %+v", got)
	}
	got = Filter(sample(), "2025-09-02")
	if len(got) != 1 || got[0].ID != "3" {
		t.Fatalf("expected date match, got %+v", got)
	}
}

func TestFilterIsIdempotent(t *testing.T) {
	once := Filter(sample(), "a")
	twice := Filter(once, "a")
	if len(once) != len(twice) {
		t.Fatalf("filter not idempotent: %d vs %d", len(once), len(twice))
	}
	for i := range once {
		if once[i].ID != twice[i].ID {
			t.Fatalf("filter not idempotent at %d", i)
		}
	}
}

func TestSortByDate(t *testing.T) {
	got := Sort(sample(), SortState{Key: FieldDate, Dir: Desc})
	if got[0].ID != "1" || got[1].ID != "3" || got[2].ID != "2" {
		t.Fatalf("unexpected desc order: %s %s %s", got[0].ID, got[1].ID, got[2].ID)
	}
	got = Sort(sample(), SortState{Key: FieldDate, Dir: Asc})
	if got[0].ID != "2" || got[2].ID != "1" {
		t.Fatalf("unexpected asc order")
	}
}

func TestSortNumericNotLexicographic(t *testing.T) {
	txs := []core.Transaction{
		{ID: "a", Debit: 9},
		{ID: "b", Debit: 100},
	}
	got := Sort(txs, SortState{Key: FieldDebit, Dir: Asc})
	if got[0].ID != "a" || got[1].ID != "b" {
		t.Fatalf("amounts must sort numerically: %+v", got)
	}
}

func TestSortPreservesLength(t *testing.T) {
	txs := sample()
	got := Sort(txs, SortState{Key: FieldNom, Dir: Asc})
	if len(got) != len(txs) {
		t.Fatalf("sort changed length: %d", len(got))
	}
}

func TestSortIsStableOnEqualKeys(t *testing.T) {
	txs := []core.Transaction{
		{ID: "x", Nom: "Bob"},
		{ID: "y", Nom: "Bob"},
		{ID: "z", Nom: "Bob"},
	}
	got := Sort(txs, SortState{Key: FieldNom, Dir: Asc})
	if got[0].ID != "x" || got[1].ID != "y" || got[2].ID != "z" {
		t.Fatalf("equal keys must keep relative order: %+v", got)
	}
}

func TestSortDoesNotMutateInput(t *testing.T) {
	txs := sample()
	Sort(txs, SortState{Key: FieldNom, Dir: Asc})
	if txs[0].ID != "1" {
		t.Fatalf("input slice was reordered")
	}
}

func TestSortStateToggle(t *testing.T) {
	s := DefaultSort()
	if s.Key != FieldDate || s.Dir != Desc {
		t.Fatalf("unexpected default: %+v", s)
	}

	// Same key flips direction.
	s = s.Toggle(FieldDate)
	if s.Dir != Asc {
		t.Fatalf("expected asc after toggle, got %s", s.Dir)
	}
	s = s.Toggle(FieldDate)
	if s.Dir != Desc {
		t.Fatalf("expected desc after second toggle, got %s", s.Dir)
	}

	// New key resets to ascending.
	s = s.Toggle(FieldNom)
	if s.Key != FieldNom || s.Dir != Asc {
		t.Fatalf("new key must reset to asc, got %+v", s)
	}
}

func TestParseFieldFallback(t *testing.T) {
	if ParseField("nom") != FieldNom {
		t.Fatalf("expected nom")
	}
	if ParseField("nonsense") != FieldDate {
		t.Fatalf("unknown field must fall back to date")
	}
	if ParseDirection("asc") != Asc || ParseDirection("weird") != Desc {
		t.Fatalf("direction parsing broken")
	}
}
