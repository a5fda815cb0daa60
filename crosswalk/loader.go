package crosswalk

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed data/*.yaml
var embeddedData embed.FS

var (
	defaultOnce sync.Once
	defaultSet  *Set
)

// Default returns the embedded table set. The data ships with the package,
// so a load failure is a build defect and panics.
func Default() *Set {
	defaultOnce.Do(func() {
		s, err := LoadFS(embeddedData, "data")
		if err != nil {
			panic(fmt.Sprintf("crosswalk: loading embedded tables: %v", err))
		}
		defaultSet = s
	})
	return defaultSet
}

type document struct {
	Vocabularies map[string][]string `yaml:"vocabularies"`
	Tables       map[string]*Table   `yaml:"tables"`
}

// LoadFS loads every .yaml file in dir. A vocabulary or table defined in
// more than one file is an error, as is a duplicate key within a file.
func LoadFS(fsys fs.FS, dir string) (*Set, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("reading crosswalk directory: %w", err)
	}
	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	files := make(map[string][]byte, len(names))
	for _, name := range names {
		data, err := fs.ReadFile(fsys, path.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", name, err)
		}
		files[name] = data
	}
	return Parse(names, files)
}

// Parse builds a Set from named YAML documents, processed in the order of
// names, and checks it for consistency.
func Parse(names []string, files map[string][]byte) (*Set, error) {
	s := &Set{
		vocabularies: map[string][]string{},
		tables:       map[string]*Table{},
	}
	vocabOrigin := map[string]string{}
	tableOrigin := map[string]string{}

	for _, name := range names {
		var doc document
		if err := yaml.Unmarshal(files[name], &doc); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", name, err)
		}
		for vname, members := range doc.Vocabularies {
			if prev, ok := vocabOrigin[vname]; ok {
				return nil, fmt.Errorf("vocabulary %q defined in both %s and %s", vname, prev, name)
			}
			vocabOrigin[vname] = name
			s.vocabularies[vname] = members
		}
		for tname, t := range doc.Tables {
			if prev, ok := tableOrigin[tname]; ok {
				return nil, fmt.Errorf("table %q defined in both %s and %s", tname, prev, name)
			}
			tableOrigin[tname] = name
			if t == nil {
				return nil, fmt.Errorf("table %q in %s is empty", tname, name)
			}
			t.Name = tname
			s.tables[tname] = t
		}
	}

	for vname, members := range s.vocabularies {
		seen := map[string]bool{}
		for _, m := range members {
			if seen[m] {
				return nil, fmt.Errorf("vocabulary %q lists %q twice", vname, m)
			}
			seen[m] = true
		}
	}
	for _, tname := range s.Tables() {
		if err := s.check(s.tables[tname]); err != nil {
			return nil, fmt.Errorf("table %q: %w", tname, err)
		}
	}
	return s, nil
}

func (s *Set) check(t *Table) error {
	if _, ok := s.vocabularies[t.From]; !ok {
		return fmt.Errorf("unknown source vocabulary %q", t.From)
	}
	if _, ok := s.vocabularies[t.To]; !ok {
		return fmt.Errorf("unknown target vocabulary %q", t.To)
	}
	if t.Fallback != "" && !s.InVocabulary(t.To, t.Fallback) {
		return fmt.Errorf("fallback %q is not in %s", t.Fallback, t.To)
	}
	for k, v := range t.Entries {
		if !s.InVocabulary(t.From, k) {
			return fmt.Errorf("key %q is not in %s", k, t.From)
		}
		if !s.InVocabulary(t.To, v) {
			return fmt.Errorf("value %q for key %q is not in %s", v, k, t.To)
		}
	}
	for _, u := range t.Unmapped {
		if _, ok := t.Entries[u]; ok {
			return fmt.Errorf("key %q is both mapped and unmapped", u)
		}
		if !s.InVocabulary(t.From, u) {
			return fmt.Errorf("unmapped key %q is not in %s", u, t.From)
		}
	}
	return nil
}

// Missing returns the members of the source vocabulary that a table
// neither maps nor lists as unmapped.
func (s *Set) Missing(table string) []string {
	t, ok := s.tables[table]
	if !ok {
		return nil
	}
	var missing []string
	for _, m := range s.vocabularies[t.From] {
		if _, ok := t.Entries[m]; ok {
			continue
		}
		if !slices.Contains(t.Unmapped, m) {
			missing = append(missing, m)
		}
	}
	return missing
}
