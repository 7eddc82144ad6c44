package steps

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/oncograph-backend/internal/data/graph"
	"github.com/yungbote/oncograph-backend/internal/domain/oncology"
)

func seedRankingFixture(t *testing.T) *graph.MemoryStore {
	t.Helper()
	s := graph.NewMemoryStore()
	seed(t, s, func(ctx context.Context, w graph.Writer) error {
		inds := []struct {
			id, name  string
			prev, inc float64
		}{
			{"zeta", "Zeta Cancer", 500, 50},
			{"alpha", "Alpha Cancer", 500, 80},
			{"mid", "Mid Cancer", 300, 90},
			{"empty", "Empty Cancer", 0, 0},
		}
		for _, ind := range inds {
			if err := w.UpsertIndication(ctx, oncology.Indication{ID: ind.id, Name: ind.name}); err != nil {
				return err
			}
			if ind.prev == 0 {
				continue
			}
			if err := w.CreateEpidemiologyMetric(ctx, metric(ind.id, oncology.RegionUSA, oncology.MetricPrevalence, ind.prev)); err != nil {
				return err
			}
			if err := w.CreateEpidemiologyMetric(ctx, metric(ind.id, oncology.RegionUSA, oncology.MetricIncidence, ind.inc)); err != nil {
				return err
			}
		}
		if err := addMutation(ctx, w, "kras", "KRAS G12C", "KRAS"); err != nil {
			return err
		}
		if err := addMutation(ctx, w, "braf", "BRAF V600E", "BRAF"); err != nil {
			return err
		}
		if err := addMutation(ctx, w, "tp53", "TP53 Mutation", "TP53"); err != nil {
			return err
		}
		for _, p := range []oncology.MutationPrevalence{
			prevalence("kras", "zeta", 10),
			prevalence("kras", "mid", 10),
			prevalence("braf", "alpha", 16),
		} {
			if err := w.CreateMutationPrevalence(ctx, p); err != nil {
				return err
			}
		}
		// tp53 is reached only by association; kras is both associated and prevalent in zeta.
		if err := w.LinkMutationIndication(ctx, "tp53", "empty"); err != nil {
			return err
		}
		if err := w.LinkMutationIndication(ctx, "kras", "zeta"); err != nil {
			return err
		}
		for i, a := range []oncology.Actionability{
			{MutationID: "braf", IndicationID: "mid", Level: "1"},
			{MutationID: "braf", IndicationID: "alpha", Level: "1"},
			{MutationID: "kras", IndicationID: "mid", Level: "2"},
		} {
			a.ID = fmt.Sprintf("act-%d", i)
			if err := w.UpsertActionability(ctx, a); err != nil {
				return err
			}
		}
		return nil
	})
	return s
}

func indicationIDs(rows []IndicationRow) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Indication.ID
	}
	return out
}

func TestListTopIndications(t *testing.T) {
	deps := ReadDeps{Store: seedRankingFixture(t)}
	ctx := context.Background()

	out, err := ListTopIndications(ctx, deps, ListIndicationsInput{})
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "zeta", "mid", "empty"}, indicationIDs(out.Items))
	for i, row := range out.Items {
		assert.Equal(t, i+1, row.Rank)
	}
	assert.Equal(t, []string{"USA", "EU", "APAC"}, out.Regions)

	asc, err := ListTopIndications(ctx, deps, ListIndicationsInput{SortOrder: "asc"})
	require.NoError(t, err)
	assert.Equal(t, []string{"empty", "mid", "alpha", "zeta"}, indicationIDs(asc.Items))

	byIncidence, err := ListTopIndications(ctx, deps, ListIndicationsInput{SortBy: "incidence", Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, []string{"mid", "alpha"}, indicationIDs(byIncidence.Items))

	actionable, err := ListTopIndications(ctx, deps, ListIndicationsInput{SortBy: "actionability"})
	require.NoError(t, err)
	require.Equal(t, "mid", actionable.Items[0].Indication.ID)
	assert.Equal(t, 2, actionable.Items[0].ActionableMutationCount)

	alpha, err := ListTopIndications(ctx, deps, ListIndicationsInput{SortBy: "alphabetical"})
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "empty", "mid", "zeta"}, indicationIDs(alpha.Items))

	eu, err := ListTopIndications(ctx, deps, ListIndicationsInput{Regions: []string{"EU"}})
	require.NoError(t, err)
	for _, row := range eu.Items {
		assert.Equal(t, Totals{}, row.Totals)
	}

	_, err = ListTopIndications(ctx, deps, ListIndicationsInput{SortBy: "nonsense"})
	assert.True(t, oncology.IsCode(err, oncology.CodeValidation))
}

func TestListAllMutations(t *testing.T) {
	deps := ReadDeps{Store: seedRankingFixture(t)}
	ctx := context.Background()

	out, err := ListAllMutations(ctx, deps, ListMutationsInput{})
	require.NoError(t, err)
	require.Len(t, out.Items, 3)

	// kras: 500*10% + 300*10% = 80, braf: 500*16% = 80, tp53: 0. Equal values order by name.
	assert.Equal(t, "braf", out.Items[0].Mutation.ID)
	assert.Equal(t, "kras", out.Items[1].Mutation.ID)
	assert.Equal(t, "tp53", out.Items[2].Mutation.ID)
	assert.Equal(t, int64(80), out.Items[0].Estimate.EstimatedPatients)
	assert.Equal(t, int64(80), out.Items[1].Estimate.EstimatedPatients)
	assert.Equal(t, 2, out.Items[1].IndicationCount)
	assert.Equal(t, 1, out.Items[0].IndicationCount)
	assert.Equal(t, 3, out.Items[2].Rank)
	assert.Equal(t, 1, out.Items[2].IndicationCount, "association-only indications count toward reach")

	byAct, err := ListAllMutations(ctx, deps, ListMutationsInput{SortBy: "actionability", Limit: 1})
	require.NoError(t, err)
	require.Len(t, byAct.Items, 1)
	assert.Equal(t, "braf", byAct.Items[0].Mutation.ID)
	assert.Equal(t, 2, byAct.Items[0].ActionabilityCount)

	byInc, err := ListAllMutations(ctx, deps, ListMutationsInput{SortBy: "incidence"})
	require.NoError(t, err)
	// kras: 5 + 9 = 14 new cases, braf: 80*16% = 12.8 -> 13.
	assert.Equal(t, []int64{14, 13, 0}, []int64{
		byInc.Items[0].Estimate.EstimatedNewCases,
		byInc.Items[1].Estimate.EstimatedNewCases,
		byInc.Items[2].Estimate.EstimatedNewCases,
	})
}
