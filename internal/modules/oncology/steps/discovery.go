package steps

import (
	"context"
	"strings"

	"github.com/yungbote/oncograph-backend/internal/catalog"
	"github.com/yungbote/oncograph-backend/internal/data/graph"
)

const (
	defaultDiscoveryLimit = 20
	maxDiscoveryLimit     = 100
)

type DiscoveryDeps struct {
	Store   graph.Store
	Catalog *catalog.Catalog
}

type DiscoveryInput struct {
	Query string
	Limit int
}

// FindUndiscovered lists catalog entries not yet in the graph under any name or
// alias, keeping catalog order. An entry matches the query when its name or any
// alias contains it, ignoring case; an empty query matches everything.
func FindUndiscovered(ctx context.Context, deps DiscoveryDeps, in DiscoveryInput) ([]catalog.Entry, error) {
	limit := clampLimit(in.Limit, defaultDiscoveryLimit, maxDiscoveryLimit)
	query := strings.ToLower(strings.TrimSpace(in.Query))

	existing := map[string]struct{}{}
	err := deps.Store.Read(ctx, func(ctx context.Context, r graph.Reader) error {
		names, err := r.IndicationNames(ctx)
		if err != nil {
			return err
		}
		for _, n := range names {
			existing[strings.ToLower(strings.TrimSpace(n))] = struct{}{}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	out := []catalog.Entry{}
	for _, e := range deps.Catalog.Entries() {
		if len(out) == limit {
			break
		}
		if !matchesQuery(e, query) || known(e, existing) {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func matchesQuery(e catalog.Entry, query string) bool {
	if query == "" {
		return true
	}
	for _, n := range e.Names() {
		if strings.Contains(strings.ToLower(n), query) {
			return true
		}
	}
	return false
}

func known(e catalog.Entry, existing map[string]struct{}) bool {
	for _, n := range e.Names() {
		if _, ok := existing[strings.ToLower(n)]; ok {
			return true
		}
	}
	return false
}

// FilterCatalog returns catalog entries whose name or alias contains query,
// regardless of what the graph already holds.
func FilterCatalog(c *catalog.Catalog, query string) []catalog.Entry {
	query = strings.ToLower(strings.TrimSpace(query))
	out := []catalog.Entry{}
	for _, e := range c.Entries() {
		if matchesQuery(e, query) {
			out = append(out, e)
		}
	}
	return out
}
