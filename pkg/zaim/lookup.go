package zaim

import (
	"errors"
	"fmt"
	"sort"
)

var (
	ErrUnknownName = errors.New("zaim: unknown name")
	ErrUnknownID   = errors.New("zaim: unknown id")
)

// Lookup maps display names to ids and back. Names are assumed unique per
// table; on duplicates the last entry wins.
type Lookup struct {
	genreName     map[int64]string
	genreID       map[string]int64
	genreCategory map[int64]int64
	categoryName  map[int64]string
	categoryID    map[string]int64
	accountName   map[int64]string
	accountID     map[string]int64
}

func NewLookup(genres []Genre, categories []Category, accounts []Account) *Lookup {
	l := &Lookup{
		genreName:     make(map[int64]string, len(genres)),
		genreID:       make(map[string]int64, len(genres)),
		genreCategory: make(map[int64]int64, len(genres)),
		categoryName:  make(map[int64]string, len(categories)),
		categoryID:    make(map[string]int64, len(categories)),
		accountName:   make(map[int64]string, len(accounts)),
		accountID:     make(map[string]int64, len(accounts)),
	}
	for _, g := range genres {
		l.genreName[g.ID] = g.Name
		l.genreID[g.Name] = g.ID
		l.genreCategory[g.ID] = g.CategoryID
	}
	for _, c := range categories {
		l.categoryName[c.ID] = c.Name
		l.categoryID[c.Name] = c.ID
	}
	for _, a := range accounts {
		l.accountName[a.ID] = a.Name
		l.accountID[a.Name] = a.ID
	}
	return l
}

func find[K comparable, V any](m map[K]V, key K, sentinel error, table string) (V, error) {
	v, ok := m[key]
	if !ok {
		var zero V
		return zero, fmt.Errorf("%w: %s %v", sentinel, table, key)
	}
	return v, nil
}

func (l *Lookup) GenreID(name string) (int64, error) {
	return find(l.genreID, name, ErrUnknownName, "genre")
}

func (l *Lookup) GenreName(id int64) (string, error) {
	return find(l.genreName, id, ErrUnknownID, "genre")
}

// GenreCategory returns the parent category id of a genre.
func (l *Lookup) GenreCategory(genreID int64) (int64, error) {
	return find(l.genreCategory, genreID, ErrUnknownID, "genre")
}

func (l *Lookup) CategoryID(name string) (int64, error) {
	return find(l.categoryID, name, ErrUnknownName, "category")
}

func (l *Lookup) CategoryName(id int64) (string, error) {
	return find(l.categoryName, id, ErrUnknownID, "category")
}

func (l *Lookup) AccountID(name string) (int64, error) {
	return find(l.accountID, name, ErrUnknownName, "account")
}

func (l *Lookup) AccountName(id int64) (string, error) {
	return find(l.accountName, id, ErrUnknownID, "account")
}

// optionalAccountID resolves name unless it is empty.
func (l *Lookup) optionalAccountID(name string) (int64, error) {
	if name == "" {
		return 0, nil
	}
	return l.AccountID(name)
}

func (l *Lookup) GenreNames() []string { return sortedKeys(l.genreID) }
func (l *Lookup) CategoryNames() []string { return sortedKeys(l.categoryID) }
func (l *Lookup) AccountNames() []string { return sortedKeys(l.accountID) }

func sortedKeys(m map[string]int64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
