package steps

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/oncograph-backend/internal/data/graph"
	"github.com/yungbote/oncograph-backend/internal/domain/oncology"
)

func TestAggregateIndicationTotals_SumsSelectedRegions(t *testing.T) {
	s := graph.NewMemoryStore()
	values := map[string][2]float64{
		oncology.RegionUSA:  {1000, 100},
		oncology.RegionEU:   {2000, 200},
		oncology.RegionAPAC: {4000, 400},
		"LATAM":             {8000, 800},
	}
	seed(t, s, func(ctx context.Context, w graph.Writer) error {
		if err := w.UpsertIndication(ctx, oncology.Indication{ID: "crc", Name: "Colorectal Cancer"}); err != nil {
			return err
		}
		for region, v := range values {
			if err := w.CreateEpidemiologyMetric(ctx, metric("crc", region, oncology.MetricPrevalence, v[0])); err != nil {
				return err
			}
			if err := w.CreateEpidemiologyMetric(ctx, metric("crc", region, oncology.MetricIncidence, v[1])); err != nil {
				return err
			}
		}
		return w.CreateEpidemiologyMetric(ctx, metric("crc", oncology.RegionUSA, oncology.MetricFiveYearSurvival, 65))
	})
	deps := ReadDeps{Store: s}

	subsets := [][]string{
		{},
		{"USA"},
		{"EU", "APAC"},
		{"USA", "EU", "APAC", "LATAM"},
		{"Mars"},
		{"usa"},
	}
	for _, regions := range subsets {
		var wantPrev, wantInc float64
		for _, r := range regions {
			wantPrev += values[r][0]
			wantInc += values[r][1]
		}
		got, err := AggregateIndicationTotals(context.Background(), deps, IndicationTotalsInput{IndicationID: "crc", Regions: regions})
		require.NoError(t, err)
		assert.Equal(t, Totals{TotalPrevalence: int64(wantPrev), TotalIncidence: int64(wantInc)}, got, "regions=%v", regions)
	}

	def, err := AggregateIndicationTotals(context.Background(), deps, IndicationTotalsInput{IndicationID: "crc"})
	require.NoError(t, err)
	assert.Equal(t, Totals{TotalPrevalence: 7000, TotalIncidence: 700}, def)
}

func TestAggregateIndicationTotals_MissingVersusSparse(t *testing.T) {
	s := graph.NewMemoryStore()
	seed(t, s, func(ctx context.Context, w graph.Writer) error {
		return w.UpsertIndication(ctx, oncology.Indication{ID: "sparse", Name: "Sparse"})
	})
	deps := ReadDeps{Store: s}

	got, err := AggregateIndicationTotals(context.Background(), deps, IndicationTotalsInput{IndicationID: "sparse"})
	require.NoError(t, err)
	assert.Equal(t, Totals{}, got)

	_, err = AggregateIndicationTotals(context.Background(), deps, IndicationTotalsInput{IndicationID: "nope"})
	assert.True(t, oncology.IsCode(err, oncology.CodeNotFound))

	_, err = AggregateIndicationTotals(context.Background(), deps, IndicationTotalsInput{IndicationID: "  "})
	assert.True(t, oncology.IsCode(err, oncology.CodeValidation))
}

func TestEstimateMutationPatients(t *testing.T) {
	s := graph.NewMemoryStore()
	seed(t, s, func(ctx context.Context, w graph.Writer) error {
		for _, id := range []string{"a", "b"} {
			if err := w.UpsertIndication(ctx, oncology.Indication{ID: id, Name: "Indication " + id}); err != nil {
				return err
			}
		}
		for _, m := range []oncology.EpidemiologyMetric{
			metric("a", oncology.RegionUSA, oncology.MetricPrevalence, 333),
			metric("a", oncology.RegionUSA, oncology.MetricIncidence, 7),
			metric("b", oncology.RegionUSA, oncology.MetricPrevalence, 100.4),
			metric("b", oncology.RegionEU, oncology.MetricPrevalence, 100.4),
		} {
			if err := w.CreateEpidemiologyMetric(ctx, m); err != nil {
				return err
			}
		}
		if err := addMutation(ctx, w, "m1", "GENE1 X", "GENE1"); err != nil {
			return err
		}
		if err := addMutation(ctx, w, "m2", "GENE2 Y", "GENE2"); err != nil {
			return err
		}
		if err := w.CreateMutationPrevalence(ctx, prevalence("m1", "a", 12.5)); err != nil {
			return err
		}
		return w.CreateMutationPrevalence(ctx, prevalence("m1", "b", 50))
	})
	deps := ReadDeps{Store: s}
	ctx := context.Background()

	got, err := EstimateMutationPatients(ctx, deps, MutationEstimateInput{MutationID: "m1", IndicationID: "a"})
	require.NoError(t, err)
	assert.Equal(t, Estimate{EstimatedPrevalencePatients: 42, EstimatedIncidencePatients: 1, HasPrevalenceData: true}, got)

	// 200.8 * 50% = 100.4; rounding the total first would give 101.
	got, err = EstimateMutationPatients(ctx, deps, MutationEstimateInput{MutationID: "m1", IndicationID: "b"})
	require.NoError(t, err)
	assert.Equal(t, int64(100), got.EstimatedPrevalencePatients)

	got, err = EstimateMutationPatients(ctx, deps, MutationEstimateInput{MutationID: "m2", IndicationID: "a"})
	require.NoError(t, err)
	assert.Equal(t, Estimate{}, got)
	assert.False(t, got.HasPrevalenceData)

	got, err = EstimateMutationPatients(ctx, deps, MutationEstimateInput{MutationID: "m1", IndicationID: "a", Regions: []string{}})
	require.NoError(t, err)
	assert.Equal(t, Estimate{HasPrevalenceData: true}, got)

	_, err = EstimateMutationPatients(ctx, deps, MutationEstimateInput{MutationID: "missing", IndicationID: "a"})
	assert.True(t, oncology.IsCode(err, oncology.CodeNotFound))
	_, err = EstimateMutationPatients(ctx, deps, MutationEstimateInput{MutationID: "m1", IndicationID: "missing"})
	assert.True(t, oncology.IsCode(err, oncology.CodeNotFound))
}

func TestAggregateAcrossIndications_EndToEnd(t *testing.T) {
	s := seedIndX(t)
	deps := ReadDeps{Store: s}
	ctx := context.Background()

	usa, err := AggregateAcrossIndications(ctx, deps, CrossIndicationInput{MutationID: "mut-1", Regions: []string{"USA"}})
	require.NoError(t, err)
	assert.Equal(t, CrossIndicationEstimate{EstimatedPatients: 50, EstimatedNewCases: 5}, usa)

	eu, err := AggregateAcrossIndications(ctx, deps, CrossIndicationInput{MutationID: "mut-1", Regions: []string{"EU"}})
	require.NoError(t, err)
	assert.Equal(t, CrossIndicationEstimate{}, eu)

	dossier, err := ComposeMutationDossier(ctx, deps, DossierInput{ID: "mut-1", Regions: []string{"USA"}})
	require.NoError(t, err)
	require.Len(t, dossier.Indications, 1)
	assert.Equal(t, "ind-x", dossier.Indications[0].Indication.ID)
	require.NotNil(t, dossier.Indications[0].Percentage)
	assert.Equal(t, 50.0, *dossier.Indications[0].Percentage)
	assert.Equal(t, Totals{TotalPrevalence: 100, TotalIncidence: 10}, dossier.Indications[0].Totals)

	_, err = AggregateAcrossIndications(ctx, deps, CrossIndicationInput{MutationID: "mut-404"})
	assert.True(t, oncology.IsCode(err, oncology.CodeNotFound))
}

func TestAggregateAcrossIndications_SumsPairsAndRoundsOnce(t *testing.T) {
	s := seedIndX(t)
	seed(t, s, func(ctx context.Context, w graph.Writer) error {
		if err := w.UpsertIndication(ctx, oncology.Indication{ID: "ind-y", Name: "Indication Y"}); err != nil {
			return err
		}
		if err := w.CreateEpidemiologyMetric(ctx, metric("ind-y", oncology.RegionUSA, oncology.MetricPrevalence, 101)); err != nil {
			return err
		}
		return w.CreateMutationPrevalence(ctx, prevalence("mut-1", "ind-y", 0.5))
	})

	got, err := AggregateAcrossIndications(context.Background(), ReadDeps{Store: s}, CrossIndicationInput{MutationID: "mut-1"})
	require.NoError(t, err)
	// 100*0.5 + 101*0.005 = 50.505
	assert.Equal(t, int64(51), got.EstimatedPatients)
	assert.Equal(t, int64(5), got.EstimatedNewCases)
}

func TestAggregateAcrossIndications_CountsEveryPrevalenceRecord(t *testing.T) {
	cases := []struct {
		name     string
		extra    float64
		patients int64
		newCases int64
	}{
		{name: "repeated import", extra: 50, patients: 100, newCases: 10},
		{name: "distinct figures", extra: 10, patients: 60, newCases: 6},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := seedIndX(t)
			seed(t, s, func(ctx context.Context, w graph.Writer) error {
				return w.CreateMutationPrevalence(ctx, prevalence("mut-1", "ind-x", tc.extra))
			})

			got, err := AggregateAcrossIndications(context.Background(), ReadDeps{Store: s},
				CrossIndicationInput{MutationID: "mut-1", Regions: []string{oncology.RegionUSA}})
			require.NoError(t, err)
			assert.Equal(t, CrossIndicationEstimate{EstimatedPatients: tc.patients, EstimatedNewCases: tc.newCases}, got)
		})
	}
}

func TestEstimateMutationPatients_ResolvesOnePercentagePerIndication(t *testing.T) {
	s := seedIndX(t)
	seed(t, s, func(ctx context.Context, w graph.Writer) error {
		return w.CreateMutationPrevalence(ctx, prevalence("mut-1", "ind-x", 10))
	})

	got, err := EstimateMutationPatients(context.Background(), ReadDeps{Store: s},
		MutationEstimateInput{MutationID: "mut-1", IndicationID: "ind-x", Regions: []string{oncology.RegionUSA}})
	require.NoError(t, err)
	// same-year records average to 30%
	assert.Equal(t, int64(30), got.EstimatedPrevalencePatients)
	assert.Equal(t, int64(3), got.EstimatedIncidencePatients)
}

func TestPercentagesByIndication_LatestYearWins(t *testing.T) {
	records := []oncology.MutationPrevalence{
		{IndicationID: "a", Percentage: 10, Year: 2020},
		{IndicationID: "a", Percentage: 20, Year: 2024},
		{IndicationID: "a", Percentage: 30, Year: 2024},
		{IndicationID: "b", Percentage: 5},
	}
	got := percentagesByIndication(records)
	assert.Equal(t, map[string]float64{"a": 25, "b": 5}, got)
}
