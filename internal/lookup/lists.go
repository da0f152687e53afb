// Package lookup manages the three suggestion lists offered by the
// transaction form (names, projects, trade categories). The lists are
// autocomplete input only: the form still accepts arbitrary free text
// for nom and projet, and removing an entry never touches recorded
// transactions.
package lookup

import (
	"bufio"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Kind identifies one of the managed lists.
type Kind string

const (
	Noms    Kind = "nom"
	Projets Kind = "projet"
	Metiers Kind = "metier"
)

var (
	ErrUnknownKind = errors.New("unknown list kind")
	ErrEmptyValue  = errors.New("value cannot be empty")
	ErrOutOfRange  = errors.New("index out of range")
)

var defaultMetiers = []string{
	"GENIE CIVIL", "PLOMBERIE", "ELECTRICITE", "PEINTURE", "MENUSERIE",
	"CARREULAGE", "FROID/CLIMATISATION", "CAISSE", "CONTABILITE",
	"INFORMATIQUE", "MENUISERIE METALLIQUE", "CHAUFFAGE", "AUTRE",
}

// Lists holds the three ordered suggestion lists.
type Lists struct {
	mu      sync.Mutex
	noms    []string
	projets []string
	metiers []string
}

func New(noms, projets, metiers []string) *Lists {
	return &Lists{
		noms:    dedupe(noms),
		projets: dedupe(projets),
		metiers: dedupe(metiers),
	}
}

// NewFromFiles seeds the lists from base/seed_*.txt files, falling back
// to built-in defaults when a file is missing or empty.
func NewFromFiles(base string) *Lists {
	noms := readLines(filepath.Join(base, "seed_noms.txt"))
	projets := readLines(filepath.Join(base, "seed_projets.txt"))
	metiers := readLines(filepath.Join(base, "seed_metiers.txt"))
	if len(metiers) == 0 {
		metiers = defaultMetiers
	}
	return New(noms, projets, metiers)
}

// Get returns a copy of the named list.
func (l *Lists) Get(kind Kind) ([]string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	items, err := l.list(kind)
	if err != nil {
		return nil, err
	}
	return append([]string(nil), *items...), nil
}

// Add appends a trimmed value to the named list.
func (l *Lists) Add(kind Kind, value string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		return ErrEmptyValue
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	items, err := l.list(kind)
	if err != nil {
		return err
	}
	*items = append(*items, value)
	return nil
}

// UpdateAt replaces the entry at index i.
func (l *Lists) UpdateAt(kind Kind, i int, value string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		return ErrEmptyValue
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	items, err := l.list(kind)
	if err != nil {
		return err
	}
	if i < 0 || i >= len(*items) {
		return ErrOutOfRange
	}
	(*items)[i] = value
	return nil
}

// RemoveAt deletes the entry at index i.
func (l *Lists) RemoveAt(kind Kind, i int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	items, err := l.list(kind)
	if err != nil {
		return err
	}
	if i < 0 || i >= len(*items) {
		return ErrOutOfRange
	}
	*items = append((*items)[:i], (*items)[i+1:]...)
	return nil
}

func (l *Lists) list(kind Kind) (*[]string, error) {
	switch kind {
	case Noms:
		return &l.noms, nil
	case Projets:
		return &l.projets, nil
	case Metiers:
		return &l.metiers, nil
	default:
		return nil, ErrUnknownKind
	}
}

func readLines(path string) []string {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()
	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	return dedupe(out)
}

func dedupe(in []string) []string {
	seen := map[string]struct{}{}
	out := make([]string, 0, len(in))
	for _, v := range in {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
