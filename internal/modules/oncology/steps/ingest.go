package steps

import (
	"context"
	"fmt"
	"strings"

	"github.com/yungbote/oncograph-backend/internal/data/graph"
	"github.com/yungbote/oncograph-backend/internal/domain/oncology"
	"github.com/yungbote/oncograph-backend/internal/platform/logger"
)

type IngestDeps struct {
	Log   *logger.Logger
	Store graph.Store
}

type ImportCounts struct {
	Mutations            int `json:"mutations"`
	Therapies            int `json:"therapies"`
	Diagnostics          int `json:"diagnostics"`
	EpidemiologyEntries  int `json:"epidemiology_entries"`
	PrevalenceEntries    int `json:"prevalence_entries"`
	ActionabilityEntries int `json:"actionability_entries"`
}

// ImportBundle merges b into the graph in a single write transaction. Entities are
// upserted by key; epidemiology and prevalence records are appended, so importing
// the same bundle twice duplicates them. Nothing is committed if any step fails.
func ImportBundle(ctx context.Context, deps IngestDeps, b oncology.Bundle) (ImportCounts, error) {
	const op = "oncology.import_bundle"
	if err := validateBundle(b); err != nil {
		return ImportCounts{}, oncology.Wrap(oncology.CodeValidation, op, err)
	}
	indID := b.Indication.ID

	var counts ImportCounts
	err := deps.Store.Write(ctx, func(ctx context.Context, w graph.Writer) error {
		counts = ImportCounts{}
		if err := w.UpsertIndication(ctx, b.Indication); err != nil {
			return err
		}

		genes := make(map[string]oncology.Gene, len(b.Genes))
		for _, g := range b.Genes {
			genes[g.Symbol] = g
		}
		for _, m := range b.Mutations {
			gene, ok := genes[m.GeneSymbol]
			if !ok {
				gene = oncology.Gene{Symbol: m.GeneSymbol}
			}
			if err := w.EnsureGene(ctx, gene); err != nil {
				return err
			}
			if err := w.UpsertMutation(ctx, m); err != nil {
				return err
			}
			if err := w.LinkMutationGene(ctx, m.ID, m.GeneSymbol); err != nil {
				return err
			}
			if err := w.LinkMutationIndication(ctx, m.ID, indID); err != nil {
				return err
			}
			counts.Mutations++
		}

		for _, t := range b.Therapies {
			t.ID = oncology.Slug(t.Name)
			t.Synthetic = false
			if err := w.UpsertTherapy(ctx, t); err != nil {
				return err
			}
			if err := w.LinkIndicationTherapy(ctx, indID, t.ID); err != nil {
				return err
			}
			counts.Therapies++
		}

		for _, d := range b.Diagnostics {
			if d.ID == "" {
				d.ID = oncology.Slug(d.Name)
			}
			if err := w.UpsertDiagnostic(ctx, d); err != nil {
				return err
			}
			if err := w.LinkIndicationDiagnostic(ctx, indID, d.ID); err != nil {
				return err
			}
			counts.Diagnostics++
		}

		for _, m := range b.Epidemiology {
			m.IndicationID = indID
			if err := w.CreateEpidemiologyMetric(ctx, m); err != nil {
				return err
			}
			counts.EpidemiologyEntries++
		}

		for _, p := range b.MutationPrevalence {
			p.IndicationID = indID
			if p.Region == "" {
				p.Region = oncology.RegionGlobal
			}
			if err := w.CreateMutationPrevalence(ctx, p); err != nil {
				return err
			}
			counts.PrevalenceEntries++
		}

		for _, a := range b.Actionability {
			if err := w.UpsertActionability(ctx, a); err != nil {
				return err
			}
			counts.ActionabilityEntries++
		}
		return nil
	})
	if err != nil {
		if deps.Log != nil {
			deps.Log.Warn("bundle import rolled back", "indication_id", indID, "error", err)
		}
		return ImportCounts{}, err
	}
	if deps.Log != nil {
		deps.Log.Info("bundle imported",
			"indication_id", indID,
			"mutations", counts.Mutations,
			"therapies", counts.Therapies,
			"epidemiology_entries", counts.EpidemiologyEntries,
			"prevalence_entries", counts.PrevalenceEntries,
			"actionability_entries", counts.ActionabilityEntries,
		)
	}
	return counts, nil
}

// validateBundle rejects bundles that would break graph invariants before any
// write is attempted.
func validateBundle(b oncology.Bundle) error {
	ind := b.Indication
	if strings.TrimSpace(ind.ID) == "" || strings.TrimSpace(ind.Name) == "" {
		return fmt.Errorf("indication id and name are required")
	}
	mutations := make(map[string]struct{}, len(b.Mutations))
	for _, m := range b.Mutations {
		if m.ID == "" || m.GeneSymbol == "" {
			return fmt.Errorf("mutation %q needs an id and a gene symbol", m.Name)
		}
		mutations[m.ID] = struct{}{}
	}
	for _, t := range b.Therapies {
		if oncology.Slug(t.Name) == "" {
			return fmt.Errorf("therapy %q has no usable name", t.Name)
		}
	}
	for _, m := range b.Epidemiology {
		if m.ID == "" {
			return fmt.Errorf("epidemiology entry without id")
		}
		if !m.Type.Valid() {
			return fmt.Errorf("unknown metric type %q", m.Type)
		}
		if m.Region == "" {
			return fmt.Errorf("epidemiology entry %s has no region", m.ID)
		}
		if m.IndicationID != "" && m.IndicationID != ind.ID {
			return fmt.Errorf("epidemiology entry %s belongs to %s", m.ID, m.IndicationID)
		}
	}
	for _, p := range b.MutationPrevalence {
		if p.ID == "" {
			return fmt.Errorf("prevalence entry without id")
		}
		if !oncology.ValidPercentage(p.Percentage) {
			return fmt.Errorf("prevalence %s: percentage %.2f outside [0,100]", p.ID, p.Percentage)
		}
		if p.IndicationID != "" && p.IndicationID != ind.ID {
			return fmt.Errorf("prevalence entry %s belongs to %s", p.ID, p.IndicationID)
		}
		if _, ok := mutations[p.MutationID]; !ok {
			return fmt.Errorf("prevalence entry %s references mutation %s outside the bundle", p.ID, p.MutationID)
		}
	}
	for _, a := range b.Actionability {
		if a.ID == "" {
			return fmt.Errorf("actionability entry without id")
		}
		if _, ok := mutations[a.MutationID]; !ok {
			return fmt.Errorf("actionability %s references mutation %s outside the bundle", a.ID, a.MutationID)
		}
	}
	return nil
}
