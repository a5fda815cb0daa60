// Package crosswalk maps controlled-vocabulary values between metadata
// schemas: resource types, relation types and contributor roles.
//
// Every table is hand-curated for one source and target vocabulary pair and
// declares a fallback, so Translate never fails. The tables are loaded once
// from the embedded data directory and are read-only afterwards, which makes
// them safe for concurrent use.
package crosswalk

import (
	"log/slog"
	"slices"
	"sort"
)

// Table maps values of the From vocabulary onto the To vocabulary.
type Table struct {
	// Name is the table identifier (e.g., "crossref_commonmeta")
	Name string `yaml:"-"`

	From string `yaml:"from"`
	To   string `yaml:"to"`

	// Fallback is returned for keys without an entry. An empty fallback
	// means the caller drops the value.
	Fallback string `yaml:"fallback"`

	Entries map[string]string `yaml:"entries"`

	// Unmapped lists From members that resolve to Fallback on purpose.
	Unmapped []string `yaml:"unmapped,omitempty"`
}

// Lookup returns the mapped value and whether key had an entry.
func (t *Table) Lookup(key string) (string, bool) {
	v, ok := t.Entries[key]
	return v, ok
}

// Translate returns the mapped value or the table fallback. Misses are
// logged at debug level.
func (t *Table) Translate(key string) string {
	if v, ok := t.Entries[key]; ok {
		return v
	}
	if key != "" && !slices.Contains(t.Unmapped, key) {
		slog.Debug("crosswalk miss", "table", t.Name, "key", key, "fallback", t.Fallback)
	}
	return t.Fallback
}

// Set is a consistent collection of vocabularies and tables.
type Set struct {
	vocabularies map[string][]string
	tables       map[string]*Table
}

// Table returns a table by name.
func (s *Set) Table(name string) (*Table, bool) {
	t, ok := s.tables[name]
	return t, ok
}

// Tables returns the table names in sorted order.
func (s *Set) Tables() []string {
	names := make([]string, 0, len(s.tables))
	for name := range s.tables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Vocabulary returns the members of a vocabulary.
func (s *Set) Vocabulary(name string) []string {
	return slices.Clone(s.vocabularies[name])
}

// InVocabulary reports whether value is a member of vocabulary.
func (s *Set) InVocabulary(vocabulary, value string) bool {
	return slices.Contains(s.vocabularies[vocabulary], value)
}

// Translate maps key through the named table. An unknown table name is a
// programming error; it is logged and yields "".
func (s *Set) Translate(table, key string) string {
	t, ok := s.tables[table]
	if !ok {
		slog.Error("unknown crosswalk table", "table", table)
		return ""
	}
	return t.Translate(key)
}

// Lookup maps key through the named table and reports whether it had an
// entry.
func (s *Set) Lookup(table, key string) (string, bool) {
	t, ok := s.tables[table]
	if !ok {
		return "", false
	}
	return t.Lookup(key)
}

// Translate maps key through a table of the embedded set.
func Translate(table, key string) string {
	return Default().Translate(table, key)
}

// Lookup maps key through a table of the embedded set and reports a hit.
func Lookup(table, key string) (string, bool) {
	return Default().Lookup(table, key)
}

// InVocabulary reports membership in a vocabulary of the embedded set.
func InVocabulary(vocabulary, value string) bool {
	return Default().InVocabulary(vocabulary, value)
}
