package graph

import (
	"testing"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/oncograph-backend/internal/domain/oncology"
)

func nodeRecord(keys []string, values []any) *neo4j.Record {
	return &neo4j.Record{Keys: keys, Values: values}
}

func TestMetricsFrom_DecodesIntegerAndFloatValues(t *testing.T) {
	records := []*neo4j.Record{
		nodeRecord([]string{"e", "indication_id", "region"}, []any{
			neo4j.Node{Props: map[string]any{"id": "m1", "type": "PREVALENCE", "value": int64(100), "year": int64(2024)}},
			"ind-x", "USA",
		}),
		nodeRecord([]string{"e", "indication_id", "region"}, []any{
			neo4j.Node{Props: map[string]any{"id": "m2", "type": "INCIDENCE", "value": 10.5}},
			"ind-x", nil,
		}),
	}

	metrics, err := metricsFrom(records)
	require.NoError(t, err)
	require.Len(t, metrics, 2)
	assert.Equal(t, oncology.EpidemiologyMetric{
		ID: "m1", IndicationID: "ind-x", Region: "USA", Type: oncology.MetricPrevalence, Value: 100, Year: 2024,
	}, metrics[0])
	assert.Equal(t, 10.5, metrics[1].Value)
	assert.Equal(t, "", metrics[1].Region)
}

func TestMetricsFrom_RejectsMalformedNodes(t *testing.T) {
	cases := map[string]map[string]any{
		"missing id":     {"type": "PREVALENCE", "value": 1.0},
		"unknown type":   {"id": "m", "type": "MORTALITY", "value": 1.0},
		"missing value":  {"id": "m", "type": "PREVALENCE"},
		"string value":   {"id": "m", "type": "PREVALENCE", "value": "12"},
		"non-string id":  {"id": int64(4), "type": "PREVALENCE", "value": 1.0},
	}
	for name, p := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := metricsFrom([]*neo4j.Record{
				nodeRecord([]string{"e", "indication_id", "region"}, []any{neo4j.Node{Props: p}, "ind", "USA"}),
			})
			require.Error(t, err)
		})
	}
}

func TestPrevalencesFrom_EnforcesPercentageRange(t *testing.T) {
	rec := nodeRecord([]string{"p", "mutation_id", "indication_id", "region"}, []any{
		neo4j.Node{Props: map[string]any{"id": "p1", "percentage": 140.0}},
		"mut", "ind", "GLOBAL",
	})
	_, err := prevalencesFrom([]*neo4j.Record{rec})
	require.Error(t, err)
	assert.True(t, oncology.IsCode(err, oncology.CodeInvariantViolation))

	ok := nodeRecord([]string{"p", "mutation_id", "indication_id", "region"}, []any{
		neo4j.Node{Props: map[string]any{"id": "p2", "percentage": int64(50)}},
		"mut", "ind", nil,
	})
	got, err := prevalencesFrom([]*neo4j.Record{ok})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 50.0, got[0].Percentage)
	assert.Equal(t, oncology.RegionGlobal, got[0].Region)
}

func TestMutationsFrom_PrefersLinkedGeneSymbol(t *testing.T) {
	rec := nodeRecord([]string{"m", "gene_symbol"}, []any{
		neo4j.Node{Props: map[string]any{"id": "egfr_l858r", "name": "EGFR L858R", "gene_symbol": "egfr"}},
		"EGFR",
	})
	got, err := mutationsFrom([]*neo4j.Record{rec})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "EGFR", got[0].GeneSymbol)
}

func TestTherapiesFrom_OptionalCost(t *testing.T) {
	records := []*neo4j.Record{
		nodeRecord([]string{"t"}, []any{neo4j.Node{Props: map[string]any{
			"id": "osimertinib", "name": "Osimertinib", "synonyms": []any{"Tagrisso", "AZD9291"}, "annual_cost": int64(180000),
		}}}),
		nodeRecord([]string{"t"}, []any{neo4j.Node{Props: map[string]any{"name": "Erlotinib"}}}),
	}
	got, err := therapiesFrom(records)
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.NotNil(t, got[0].AnnualCost)
	assert.Equal(t, 180000.0, *got[0].AnnualCost)
	assert.Equal(t, []string{"Tagrisso", "AZD9291"}, got[0].Synonyms)
	assert.Nil(t, got[1].AnnualCost)
}

func TestNodeProps_NullAndWrongType(t *testing.T) {
	_, ok, err := nodeProps(nodeRecord([]string{"g"}, []any{nil}), "g")
	require.NoError(t, err)
	assert.False(t, ok)

	_, _, err = nodeProps(nodeRecord([]string{"g"}, []any{"EGFR"}), "g")
	require.Error(t, err)

	_, _, err = nodeProps(nodeRecord([]string{"g"}, []any{nil}), "missing")
	require.Error(t, err)
}
