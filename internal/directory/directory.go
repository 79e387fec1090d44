// Package directory is the backing data source that resolves a user id or
// name to raw profile fields. The demo ships a small fixed table; a real
// deployment would put a directory service or database behind the same
// Lookup contract.
package directory

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/davern/profilerelay/internal/profile"
)

// ErrNotFound reports that no record matches the query. Callers are expected
// to absorb it; it never escapes a pipeline run.
var ErrNotFound = errors.New("directory: no matching record")

// Table is an in-memory directory of user records keyed by user id.
type Table struct {
	records []profile.Profile
	byID    map[string]int
}

// New builds a table from the given records. Duplicate user ids are rejected.
func New(records []profile.Profile) (*Table, error) {
	t := &Table{
		records: make([]profile.Profile, len(records)),
		byID:    make(map[string]int, len(records)),
	}
	copy(t.records, records)
	for i, rec := range t.records {
		if rec.UserID == "" {
			return nil, fmt.Errorf("directory: record %d has no user id", i)
		}
		if _, exists := t.byID[rec.UserID]; exists {
			return nil, fmt.Errorf("directory: duplicate user id %s", rec.UserID)
		}
		t.byID[rec.UserID] = i
	}
	return t, nil
}

// Len returns the number of records in the table.
func (t *Table) Len() int {
	return len(t.records)
}

// IDs returns every user id in the table, sorted.
func (t *Table) IDs() []string {
	ids := make([]string, 0, len(t.byID))
	for id := range t.byID {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// LookupID resolves by exact, case-sensitive user id only.
func (t *Table) LookupID(id string) (profile.Profile, error) {
	if i, ok := t.byID[id]; ok {
		return t.records[i], nil
	}
	return profile.Profile{}, ErrNotFound
}

// Lookup resolves a query to a single record. The match rule is
// deterministic and applied in order:
//
//  1. case-sensitive exact user id match
//  2. case-insensitive exact full-name match
//  3. fuzzy name match, accepted only when exactly one record matches
//
// Anything else, including an ambiguous fuzzy result, is ErrNotFound.
func (t *Table) Lookup(query string) (profile.Profile, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return profile.Profile{}, ErrNotFound
	}
	if i, ok := t.byID[q]; ok {
		return t.records[i], nil
	}
	for _, rec := range t.records {
		if strings.EqualFold(rec.Name, q) {
			return rec, nil
		}
	}
	names := make([]string, len(t.records))
	for i, rec := range t.records {
		names[i] = rec.Name
	}
	matches := fuzzy.Find(q, names)
	if len(matches) != 1 {
		return profile.Profile{}, ErrNotFound
	}
	return t.records[matches[0].Index], nil
}
