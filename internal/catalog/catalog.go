// Package catalog holds the registry of oncology indications the system knows about,
// whether or not they are already in the graph. It is parsed once and never mutated.
package catalog

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed indications.yaml
var defaultIndications []byte

type Entry struct {
	Name               string   `yaml:"name" json:"name"`
	Aliases            []string `yaml:"aliases" json:"aliases"`
	ClassificationCode string   `yaml:"classification_code" json:"classification_code"`
}

// Names returns the canonical name followed by every alias.
func (e Entry) Names() []string {
	return append([]string{e.Name}, e.Aliases...)
}

type Catalog struct {
	entries []Entry
	byName  map[string]int
}

// Default parses the embedded registry.
func Default() (*Catalog, error) {
	return Parse(defaultIndications)
}

func Parse(raw []byte) (*Catalog, error) {
	var doc struct {
		Indications []Entry `yaml:"indications"`
	}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("catalog: parse: %w", err)
	}
	return New(doc.Indications)
}

// New builds a catalog from entries. A name or alias may belong to one entry only.
func New(entries []Entry) (*Catalog, error) {
	c := &Catalog{
		entries: make([]Entry, 0, len(entries)),
		byName:  make(map[string]int, len(entries)*3),
	}
	for _, e := range entries {
		e.Name = strings.TrimSpace(e.Name)
		if e.Name == "" {
			return nil, fmt.Errorf("catalog: entry with empty name")
		}
		aliases := make([]string, 0, len(e.Aliases))
		for _, a := range e.Aliases {
			if a = strings.TrimSpace(a); a != "" {
				aliases = append(aliases, a)
			}
		}
		e.Aliases = aliases

		idx := len(c.entries)
		for _, n := range e.Names() {
			key := strings.ToLower(n)
			if prev, dup := c.byName[key]; dup && prev != idx {
				return nil, fmt.Errorf("catalog: %q listed under both %q and %q", n, c.entries[prev].Name, e.Name)
			}
			c.byName[key] = idx
		}
		c.entries = append(c.entries, e)
	}
	return c, nil
}

// Entries returns a copy of every entry in registry order.
func (c *Catalog) Entries() []Entry {
	out := make([]Entry, len(c.entries))
	for i, e := range c.entries {
		e.Aliases = append([]string(nil), e.Aliases...)
		out[i] = e
	}
	return out
}

// Lookup finds an entry by canonical name or alias, ignoring case and surrounding space.
func (c *Catalog) Lookup(name string) (Entry, bool) {
	idx, ok := c.byName[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Entry{}, false
	}
	e := c.entries[idx]
	e.Aliases = append([]string(nil), e.Aliases...)
	return e, true
}

func (c *Catalog) Len() int { return len(c.entries) }
