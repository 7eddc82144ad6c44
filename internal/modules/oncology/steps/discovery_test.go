package steps

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/oncograph-backend/internal/catalog"
	"github.com/yungbote/oncograph-backend/internal/data/graph"
	"github.com/yungbote/oncograph-backend/internal/domain/oncology"
)

func entryNames(entries []catalog.Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Name
	}
	return out
}

func TestFindUndiscovered_ExcludesEntriesKnownUnderAnyAlias(t *testing.T) {
	cat, err := catalog.New([]catalog.Entry{
		{Name: "Breast Cancer", Aliases: []string{"Breast Carcinoma", "Mammary Carcinoma"}},
		{Name: "Renal Cell Carcinoma", Aliases: []string{"RCC"}},
		{Name: "Melanoma"},
	})
	require.NoError(t, err)

	s := graph.NewMemoryStore()
	seed(t, s, func(ctx context.Context, w graph.Writer) error {
		return w.UpsertIndication(ctx, oncology.Indication{ID: "bc", Name: "Mammary Neoplasm", Aliases: []string{"BREAST CARCINOMA"}})
	})
	deps := DiscoveryDeps{Store: s, Catalog: cat}

	got, err := FindUndiscovered(context.Background(), deps, DiscoveryInput{Query: "carcinoma"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Renal Cell Carcinoma"}, entryNames(got))

	all, err := FindUndiscovered(context.Background(), deps, DiscoveryInput{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Renal Cell Carcinoma", "Melanoma"}, entryNames(all))

	none, err := FindUndiscovered(context.Background(), deps, DiscoveryInput{Query: "sarcoma"})
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestFindUndiscovered_LungQueryWithLimit(t *testing.T) {
	cat, err := catalog.Default()
	require.NoError(t, err)

	s := graph.NewMemoryStore()
	seed(t, s, func(ctx context.Context, w graph.Writer) error {
		return w.UpsertIndication(ctx, oncology.Indication{ID: "x", Name: "nsclc"})
	})
	deps := DiscoveryDeps{Store: s, Catalog: cat}

	got, err := FindUndiscovered(context.Background(), deps, DiscoveryInput{Query: "lung", Limit: 10})
	require.NoError(t, err)
	assert.LessOrEqual(t, len(got), 10)
	require.NotEmpty(t, got)
	for _, e := range got {
		assert.NotEqual(t, "Non-Small Cell Lung Cancer", e.Name)
		var matched bool
		for _, n := range e.Names() {
			matched = matched || strings.Contains(strings.ToLower(n), "lung")
		}
		assert.True(t, matched, e.Name)
	}
	assert.Contains(t, entryNames(got), "Small Cell Lung Cancer")

	one, err := FindUndiscovered(context.Background(), deps, DiscoveryInput{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, one, 1)

	capped, err := FindUndiscovered(context.Background(), deps, DiscoveryInput{Limit: 1000})
	require.NoError(t, err)
	assert.Equal(t, cat.Len()-1, len(capped))
}
