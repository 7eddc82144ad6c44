package steps

import (
	"context"
	"strings"

	"github.com/yungbote/oncograph-backend/internal/data/graph"
	"github.com/yungbote/oncograph-backend/internal/domain/oncology"
)

// Paths through which a mutation can be reached from an indication.
const (
	ViaAssociation   = "association"
	ViaActionability = "actionability"
	ViaPrevalence    = "prevalence"
)

type EpidemiologySummary struct {
	Regions []string                      `json:"regions"`
	Metrics []oncology.EpidemiologyMetric `json:"metrics"`
	Totals  Totals                        `json:"totals"`
}

type IndicationMutation struct {
	Rank       int               `json:"rank"`
	Mutation   oncology.Mutation `json:"mutation"`
	GeneSymbol string            `json:"gene_symbol"`
	Percentage *float64          `json:"percentage,omitempty"`
	Estimate   Estimate          `json:"estimate"`
	Via        []string          `json:"via"`
}

func (m IndicationMutation) RankID() string   { return m.Mutation.ID }
func (m IndicationMutation) RankName() string { return m.Mutation.Name }
func (m IndicationMutation) RankValue(k SortKey) float64 {
	if k == SortIncidence {
		return float64(m.Estimate.EstimatedIncidencePatients)
	}
	return float64(m.Estimate.EstimatedPrevalencePatients)
}

type IndicationDossier struct {
	Indication   oncology.Indication           `json:"indication"`
	Therapies    []oncology.Therapy            `json:"therapies"`
	Diagnostics  []oncology.DiagnosticModality `json:"diagnostics"`
	Epidemiology EpidemiologySummary           `json:"epidemiology"`
	Mutations    []IndicationMutation          `json:"mutations"`
}

type DossierInput struct {
	ID      string
	Regions []string
}

// ComposeIndicationDossier assembles everything known about one indication. A
// missing indication is a NotFound error; a sparse one yields empty sections.
func ComposeIndicationDossier(ctx context.Context, deps ReadDeps, in DossierInput) (*IndicationDossier, error) {
	const op = "oncology.indication_dossier"
	id, err := requireID(op, "indication", in.ID)
	if err != nil {
		return nil, err
	}
	f := NewRegionFilter(in.Regions)

	var out *IndicationDossier
	err = deps.Store.Read(ctx, func(ctx context.Context, r graph.Reader) error {
		ind, err := r.GetIndication(ctx, id)
		if err != nil {
			return err
		}
		if ind == nil {
			return oncology.NotFound(op, "indication", id)
		}
		d := &IndicationDossier{Indication: *ind}

		if d.Therapies, err = r.IndicationTherapies(ctx, id); err != nil {
			return err
		}
		if d.Diagnostics, err = r.IndicationDiagnostics(ctx, id); err != nil {
			return err
		}
		metrics, err := r.IndicationMetrics(ctx, id)
		if err != nil {
			return err
		}
		totals := sumMetrics(metrics, f)
		d.Epidemiology = EpidemiologySummary{
			Regions: f.Names(),
			Metrics: f.metrics(metrics),
			Totals:  totals.rounded(),
		}

		prevalences, err := r.IndicationPrevalences(ctx, id)
		if err != nil {
			return err
		}
		byMutation := map[string][]oncology.MutationPrevalence{}
		for _, p := range prevalences {
			byMutation[p.MutationID] = append(byMutation[p.MutationID], p)
		}

		index := map[string]int{}
		add := func(via string, muts []oncology.Mutation) {
			for _, m := range muts {
				if i, ok := index[m.ID]; ok {
					d.Mutations[i].Via = appendUnique(d.Mutations[i].Via, via)
					continue
				}
				index[m.ID] = len(d.Mutations)
				d.Mutations = append(d.Mutations, IndicationMutation{
					Mutation:   m,
					GeneSymbol: m.GeneSymbol,
					Via:        []string{via},
				})
			}
		}
		paths := []struct {
			via  string
			load func(context.Context, string) ([]oncology.Mutation, error)
		}{
			{ViaAssociation, r.AssociatedMutations},
			{ViaActionability, r.ActionableMutations},
			{ViaPrevalence, r.PrevalentMutations},
		}
		for _, p := range paths {
			muts, err := p.load(ctx, id)
			if err != nil {
				return err
			}
			add(p.via, muts)
		}

		for i := range d.Mutations {
			m := &d.Mutations[i]
			pct, ok := percentagesByIndication(byMutation[m.Mutation.ID])[id]
			if ok {
				v := pct
				m.Percentage = &v
			}
			m.Estimate = estimateFor(totals, pct, ok)
		}
		SortRows(d.Mutations, SortPolicy{Key: SortPrevalence, Order: SortDesc})
		for i := range d.Mutations {
			d.Mutations[i].Rank = i + 1
		}

		d.Therapies = nonNil(d.Therapies)
		d.Diagnostics = nonNil(d.Diagnostics)
		d.Mutations = nonNil(d.Mutations)
		out = d
		return nil
	})
	if err != nil {
		return nil, err
	}
	if deps.Log != nil {
		deps.Log.Debug("indication dossier composed",
			"indication_id", id,
			"mutations", len(out.Mutations),
			"therapies", len(out.Therapies),
		)
	}
	return out, nil
}

type MutationIndication struct {
	Indication oncology.Indication `json:"indication"`
	Percentage *float64            `json:"percentage,omitempty"`
	Totals     Totals              `json:"totals"`
}

type MutationDossier struct {
	Mutation      oncology.Mutation             `json:"mutation"`
	Gene          *oncology.Gene                `json:"gene,omitempty"`
	Indications   []MutationIndication          `json:"indications"`
	Epidemiology  []oncology.EpidemiologyMetric `json:"epidemiology"`
	Regions       []string                      `json:"regions"`
	Actionability []oncology.Actionability      `json:"actionability"`
	Diagnostics   []oncology.DiagnosticModality `json:"diagnostics"`
	Therapies     []oncology.Therapy            `json:"therapies"`
}

// ComposeMutationDossier assembles everything known about one mutation. It carries
// per-indication totals but no patient estimate of its own.
func ComposeMutationDossier(ctx context.Context, deps ReadDeps, in DossierInput) (*MutationDossier, error) {
	const op = "oncology.mutation_dossier"
	id, err := requireID(op, "mutation", in.ID)
	if err != nil {
		return nil, err
	}
	f := NewRegionFilter(in.Regions)

	var out *MutationDossier
	err = deps.Store.Read(ctx, func(ctx context.Context, r graph.Reader) error {
		m, err := r.GetMutation(ctx, id)
		if err != nil {
			return err
		}
		if m == nil {
			return oncology.NotFound(op, "mutation", id)
		}
		d := &MutationDossier{Mutation: *m, Regions: f.Names()}

		if d.Gene, err = r.MutationGene(ctx, id); err != nil {
			return err
		}

		associated, err := r.MutationIndications(ctx, id)
		if err != nil {
			return err
		}
		prevalences, err := r.MutationPrevalences(ctx, id)
		if err != nil {
			return err
		}
		pcts := percentagesByIndication(prevalences)

		indications := append([]oncology.Indication{}, associated...)
		seen := map[string]struct{}{}
		for _, ind := range associated {
			seen[ind.ID] = struct{}{}
		}
		for _, p := range prevalences {
			if _, ok := seen[p.IndicationID]; ok {
				continue
			}
			seen[p.IndicationID] = struct{}{}
			ind, err := r.GetIndication(ctx, p.IndicationID)
			if err != nil {
				return err
			}
			if ind != nil {
				indications = append(indications, *ind)
			}
		}

		diagSeen := map[string]struct{}{}
		for _, ind := range indications {
			metrics, err := r.IndicationMetrics(ctx, ind.ID)
			if err != nil {
				return err
			}
			mi := MutationIndication{Indication: ind, Totals: sumMetrics(metrics, f).rounded()}
			if p, ok := pcts[ind.ID]; ok {
				v := p
				mi.Percentage = &v
			}
			d.Indications = append(d.Indications, mi)
			d.Epidemiology = append(d.Epidemiology, f.metrics(metrics)...)

			diags, err := r.IndicationDiagnostics(ctx, ind.ID)
			if err != nil {
				return err
			}
			for _, dm := range diags {
				if _, dup := diagSeen[dm.ID]; dup {
					continue
				}
				diagSeen[dm.ID] = struct{}{}
				d.Diagnostics = append(d.Diagnostics, dm)
			}
		}

		if d.Actionability, err = r.MutationActionability(ctx, id); err != nil {
			return err
		}
		if d.Therapies, err = resolveTherapies(ctx, r, d.Actionability); err != nil {
			return err
		}

		d.Indications = nonNil(d.Indications)
		d.Epidemiology = nonNil(d.Epidemiology)
		d.Actionability = nonNil(d.Actionability)
		d.Diagnostics = nonNil(d.Diagnostics)
		d.Therapies = nonNil(d.Therapies)
		out = d
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// resolveTherapies maps every drug named on the actionability records to a therapy
// by canonical name or synonym. Drugs without a curated therapy come back as
// name-only synthetic records.
func resolveTherapies(ctx context.Context, r graph.Reader, records []oncology.Actionability) ([]oncology.Therapy, error) {
	var drugs []string
	seenDrug := map[string]struct{}{}
	for _, a := range records {
		for _, d := range a.Drugs {
			d = strings.TrimSpace(d)
			key := strings.ToLower(d)
			if d == "" {
				continue
			}
			if _, ok := seenDrug[key]; ok {
				continue
			}
			seenDrug[key] = struct{}{}
			drugs = append(drugs, d)
		}
	}
	if len(drugs) == 0 {
		return nil, nil
	}

	known, err := r.TherapiesByNames(ctx, drugs)
	if err != nil {
		return nil, err
	}
	byName := map[string]oncology.Therapy{}
	for _, t := range known {
		byName[strings.ToLower(t.Name)] = t
		for _, s := range t.Synonyms {
			if _, taken := byName[strings.ToLower(s)]; !taken {
				byName[strings.ToLower(s)] = t
			}
		}
	}

	out := make([]oncology.Therapy, 0, len(drugs))
	seenTherapy := map[string]struct{}{}
	for _, d := range drugs {
		t, ok := byName[strings.ToLower(d)]
		if !ok {
			out = append(out, oncology.Therapy{Name: d, Synthetic: true})
			continue
		}
		if _, dup := seenTherapy[t.ID]; dup {
			continue
		}
		seenTherapy[t.ID] = struct{}{}
		out = append(out, t)
	}
	return out, nil
}

func appendUnique(in []string, v string) []string {
	for _, s := range in {
		if s == v {
			return in
		}
	}
	return append(in, v)
}

// nonNil keeps empty sections serialized as [] rather than null.
func nonNil[T any](in []T) []T {
	if in == nil {
		return []T{}
	}
	return in
}
