package steps

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/oncograph-backend/internal/data/graph"
	"github.com/yungbote/oncograph-backend/internal/domain/oncology"
)

func seed(t *testing.T, s graph.Store, fn func(ctx context.Context, w graph.Writer) error) {
	t.Helper()
	require.NoError(t, s.Write(context.Background(), fn))
}

func metric(indicationID, region string, typ oncology.MetricType, v float64) oncology.EpidemiologyMetric {
	return oncology.EpidemiologyMetric{
		ID:           uuid.NewString(),
		IndicationID: indicationID,
		Region:       region,
		Type:         typ,
		Value:        v,
	}
}

func prevalence(mutationID, indicationID string, pct float64) oncology.MutationPrevalence {
	return oncology.MutationPrevalence{
		ID:           uuid.NewString(),
		MutationID:   mutationID,
		IndicationID: indicationID,
		Region:       oncology.RegionGlobal,
		Percentage:   pct,
	}
}

func addMutation(ctx context.Context, w graph.Writer, id, name, gene string) error {
	if err := w.EnsureGene(ctx, oncology.Gene{Symbol: gene}); err != nil {
		return err
	}
	if err := w.UpsertMutation(ctx, oncology.Mutation{ID: id, Name: name, GeneSymbol: gene}); err != nil {
		return err
	}
	return w.LinkMutationGene(ctx, id, gene)
}

// seedIndX loads one indication with USA prevalence 100 and incidence 10, and one
// mutation recorded at 50% within it.
func seedIndX(t *testing.T) *graph.MemoryStore {
	t.Helper()
	s := graph.NewMemoryStore()
	seed(t, s, func(ctx context.Context, w graph.Writer) error {
		if err := w.UpsertIndication(ctx, oncology.Indication{ID: "ind-x", Name: "Indication X"}); err != nil {
			return err
		}
		if err := w.CreateEpidemiologyMetric(ctx, metric("ind-x", oncology.RegionUSA, oncology.MetricPrevalence, 100)); err != nil {
			return err
		}
		if err := w.CreateEpidemiologyMetric(ctx, metric("ind-x", oncology.RegionUSA, oncology.MetricIncidence, 10)); err != nil {
			return err
		}
		if err := addMutation(ctx, w, "mut-1", "GENE1 V1A", "GENE1"); err != nil {
			return err
		}
		return w.CreateMutationPrevalence(ctx, prevalence("mut-1", "ind-x", 50))
	})
	return s
}
