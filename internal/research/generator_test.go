package research

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/oncograph-backend/internal/catalog"
	"github.com/yungbote/oncograph-backend/internal/domain/oncology"
)

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func metricValue(t *testing.T, metrics []oncology.EpidemiologyMetric, region string, typ oncology.MetricType) (float64, bool) {
	t.Helper()
	for _, m := range metrics {
		if m.Region == region && m.Type == typ {
			return m.Value, true
		}
	}
	return 0, false
}

func TestDefault_ParsesEmbeddedTables(t *testing.T) {
	g, err := Default()
	require.NoError(t, err)
	assert.True(t, g.Curated("non-small cell lung cancer"))
	assert.False(t, g.Curated("Neuroblastoma"))
}

func TestCuratedTablesMatchCatalogNames(t *testing.T) {
	g, err := Default()
	require.NoError(t, err)
	c, err := catalog.Default()
	require.NoError(t, err)

	for name := range g.tables.Indications {
		_, ok := c.Lookup(name)
		assert.True(t, ok, "curated table %q has no catalog entry", name)
	}
}

func TestGenerate_CuratedIndication(t *testing.T) {
	g, err := Default()
	require.NoError(t, err)
	g.newID = sequentialIDs()

	entry := catalog.Entry{Name: "Non-Small Cell Lung Cancer", Aliases: []string{"NSCLC"}, ClassificationCode: "C34.90"}
	b := g.Generate(entry)

	assert.Equal(t, "non_small_cell_lung_cancer", b.Indication.ID)
	assert.Equal(t, []string{"NSCLC"}, b.Indication.Aliases)
	assert.Equal(t, SourceResearchImport, b.Indication.Source)

	require.Len(t, b.Mutations, 5)
	assert.Equal(t, "egfr_l858r", b.Mutations[0].ID)
	assert.Equal(t, "EGFR", b.Mutations[0].GeneSymbol)
	// EGFR appears twice among the mutations but is listed once.
	assert.Len(t, b.Genes, 4)

	require.Len(t, b.MutationPrevalence, len(b.Mutations))
	for i, p := range b.MutationPrevalence {
		assert.Equal(t, oncology.RegionGlobal, p.Region)
		assert.Equal(t, b.Mutations[i].ID, p.MutationID)
		assert.Equal(t, b.Indication.ID, p.IndicationID)
		assert.Equal(t, 2024, p.Year)
	}
	assert.Equal(t, 7.0, b.MutationPrevalence[0].Percentage)

	require.NotEmpty(t, b.Therapies)
	assert.Equal(t, "osimertinib", b.Therapies[0].ID)
	require.NotNil(t, b.Therapies[0].AnnualCost)

	require.NotEmpty(t, b.Actionability)
	assert.Equal(t, ActionabilityID("egfr_l858r", b.Indication.ID), b.Actionability[0].ID)
	assert.Equal(t, b.Indication.ID, b.Actionability[0].IndicationID)
	assert.NotEmpty(t, b.Diagnostics)
}

func TestGenerate_RegionalDerivation(t *testing.T) {
	g, err := Default()
	require.NoError(t, err)

	b := g.Generate(catalog.Entry{Name: "Non-Small Cell Lung Cancer"})

	v, ok := metricValue(t, b.Epidemiology, oncology.RegionUSA, oncology.MetricPrevalence)
	require.True(t, ok)
	assert.Equal(t, 541000.0, v)

	// EU has direct values in the table.
	v, _ = metricValue(t, b.Epidemiology, oncology.RegionEU, oncology.MetricPrevalence)
	assert.Equal(t, 680000.0, v)

	// APAC is derived from USA.
	v, _ = metricValue(t, b.Epidemiology, oncology.RegionAPAC, oncology.MetricPrevalence)
	assert.Equal(t, 1082000.0, v)
	v, _ = metricValue(t, b.Epidemiology, oncology.RegionAPAC, oncology.MetricIncidence)
	assert.Equal(t, 360000.0, v)

	_, ok = metricValue(t, b.Epidemiology, oncology.RegionUSA, oncology.MetricFiveYearSurvival)
	assert.True(t, ok)
	_, ok = metricValue(t, b.Epidemiology, oncology.RegionEU, oncology.MetricFiveYearSurvival)
	assert.False(t, ok)

	for _, m := range b.Epidemiology {
		assert.Equal(t, b.Indication.ID, m.IndicationID)
		assert.NotEmpty(t, m.ID)
		assert.NotEmpty(t, m.Unit)
	}
}

func TestGenerate_UncuratedFallsBackToGenericDrivers(t *testing.T) {
	g, err := Default()
	require.NoError(t, err)

	b := g.Generate(catalog.Entry{Name: "Neuroblastoma", ClassificationCode: "C74.90"})

	assert.Equal(t, "neuroblastoma", b.Indication.ID)
	assert.Empty(t, b.Therapies)
	assert.Empty(t, b.Actionability)

	var genes []string
	for _, m := range b.Mutations {
		genes = append(genes, m.GeneSymbol)
	}
	assert.Equal(t, []string{"TP53", "KRAS", "PIK3CA"}, genes)

	v, ok := metricValue(t, b.Epidemiology, oncology.RegionUSA, oncology.MetricPrevalence)
	require.True(t, ok)
	assert.Equal(t, 50000.0, v)
	v, _ = metricValue(t, b.Epidemiology, oncology.RegionEU, oncology.MetricPrevalence)
	assert.Equal(t, 60000.0, v)
	v, _ = metricValue(t, b.Epidemiology, oncology.RegionEU, oncology.MetricIncidence)
	assert.Equal(t, 11000.0, v)
	v, _ = metricValue(t, b.Epidemiology, oncology.RegionAPAC, oncology.MetricIncidence)
	assert.Equal(t, 18000.0, v)
}

func TestGenerate_FreshIDsForAppendOnlyRecords(t *testing.T) {
	g, err := Default()
	require.NoError(t, err)

	entry := catalog.Entry{Name: "Melanoma"}
	a, b := g.Generate(entry), g.Generate(entry)

	assert.Equal(t, a.Indication, b.Indication)
	assert.Equal(t, a.Mutations, b.Mutations)
	assert.NotEqual(t, a.Epidemiology[0].ID, b.Epidemiology[0].ID)
	assert.NotEqual(t, a.MutationPrevalence[0].ID, b.MutationPrevalence[0].ID)
}

func TestNew_RejectsInvalidTables(t *testing.T) {
	base := `
data_year: 2024
generic:
  epidemiology:
    usa: {prevalence: 10, incidence: 1}
`
	cases := map[string]string{
		"percentage out of range": base + `
indications:
  X:
    mutations:
      - {name: A, gene: G, percentage: 120}
`,
		"unknown actionability mutation": base + `
indications:
  X:
    mutations:
      - {name: A, gene: G, percentage: 12}
    actionability:
      - {mutation: B, level: "1"}
`,
		"generic therapies": `
data_year: 2024
generic:
  epidemiology:
    usa: {prevalence: 10, incidence: 1}
  therapies:
    - {name: Something}
`,
		"missing generic epidemiology": `
data_year: 2024
generic: {}
`,
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := New([]byte(raw))
			require.Error(t, err)
		})
	}
}
