// Package research turns a catalog entry into a bundle of candidate graph records,
// drawing on curated per-indication tables and falling back to generic placeholders.
package research

import (
	_ "embed"
	"math"
	"strings"

	"github.com/google/uuid"

	"github.com/yungbote/oncograph-backend/internal/catalog"
	"github.com/yungbote/oncograph-backend/internal/domain/oncology"
)

// SourceResearchImport tags every record produced by the generator.
const SourceResearchImport = "research_import"

//go:embed curated.yaml
var defaultTables []byte

// Regional multipliers applied to USA figures when a region has no direct value.
var regionalFactors = map[oncology.MetricType]map[string]float64{
	oncology.MetricPrevalence: {oncology.RegionEU: 1.2, oncology.RegionAPAC: 2.0},
	oncology.MetricIncidence:  {oncology.RegionEU: 1.1, oncology.RegionAPAC: 1.8},
}

var metricUnits = map[oncology.MetricType]string{
	oncology.MetricPrevalence:          "patients",
	oncology.MetricIncidence:           "cases_per_year",
	oncology.MetricFiveYearSurvival:    "percent",
	oncology.MetricMedianSurvivalYears: "years",
}

type Generator struct {
	tables *tables
	newID  func() string
}

// Default builds a generator over the embedded curated tables.
func Default() (*Generator, error) {
	return New(defaultTables)
}

func New(raw []byte) (*Generator, error) {
	t, err := parseTables(raw)
	if err != nil {
		return nil, err
	}
	return &Generator{tables: t, newID: uuid.NewString}, nil
}

// Curated reports whether name has its own curated table.
func (g *Generator) Curated(name string) bool {
	_, ok := g.tables.Indications[strings.ToLower(strings.TrimSpace(name))]
	return ok
}

// Generate produces the bundle for entry. Uncurated indications get the generic
// driver mutations and epidemiology defaults but never any therapies.
func (g *Generator) Generate(entry catalog.Entry) oncology.Bundle {
	row, curated := g.tables.Indications[strings.ToLower(strings.TrimSpace(entry.Name))]
	if !curated {
		row = curatedIndication{
			Mutations:   g.tables.Generic.Mutations,
			Diagnostics: g.tables.Generic.Diagnostics,
		}
	}
	epi := row.Epidemiology
	if epi == nil {
		epi = g.tables.Generic.Epidemiology
	}
	if len(row.Mutations) == 0 {
		row.Mutations = g.tables.Generic.Mutations
	}
	year := g.tables.DataYear
	if row.DataYear > 0 {
		year = row.DataYear
	}

	ind := oncology.Indication{
		ID:                 oncology.Slug(entry.Name),
		Name:               entry.Name,
		Aliases:            append([]string{}, entry.Aliases...),
		ClassificationCode: entry.ClassificationCode,
		Source:             SourceResearchImport,
	}
	b := oncology.Bundle{Indication: ind}

	seenGenes := map[string]struct{}{}
	mutationIDs := make(map[string]string, len(row.Mutations))
	for _, m := range row.Mutations {
		symbol := strings.ToUpper(strings.TrimSpace(m.Gene))
		if _, ok := seenGenes[symbol]; !ok {
			seenGenes[symbol] = struct{}{}
			b.Genes = append(b.Genes, oncology.Gene{Symbol: symbol, Name: m.GeneName})
		}
		mut := oncology.Mutation{
			ID:           oncology.Slug(m.Name),
			Name:         m.Name,
			GeneSymbol:   symbol,
			Alteration:   m.Alteration,
			Oncogenicity: m.Oncogenicity,
			Source:       SourceResearchImport,
		}
		mutationIDs[strings.ToLower(m.Name)] = mut.ID
		b.Mutations = append(b.Mutations, mut)
		b.MutationPrevalence = append(b.MutationPrevalence, oncology.MutationPrevalence{
			ID:           g.newID(),
			MutationID:   mut.ID,
			IndicationID: ind.ID,
			Region:       oncology.RegionGlobal,
			Percentage:   m.Percentage,
			Year:         year,
			Source:       SourceResearchImport,
		})
	}

	for _, t := range row.Therapies {
		var cost *float64
		if t.AnnualCost != nil {
			c := *t.AnnualCost
			cost = &c
		}
		b.Therapies = append(b.Therapies, oncology.Therapy{
			ID:          oncology.Slug(t.Name),
			Name:        t.Name,
			Synonyms:    append([]string{}, t.Synonyms...),
			Mechanism:   t.Mechanism,
			Status:      t.Status,
			AnnualCost:  cost,
			TargetGenes: append([]string{}, t.TargetGenes...),
		})
	}

	for _, d := range row.Diagnostics {
		b.Diagnostics = append(b.Diagnostics, oncology.DiagnosticModality{
			ID:           oncology.Slug(d.Name),
			Name:         d.Name,
			ModalityType: d.ModalityType,
			Invasiveness: d.Invasiveness,
		})
	}

	for _, a := range row.Actionability {
		mutID := mutationIDs[strings.ToLower(a.Mutation)]
		b.Actionability = append(b.Actionability, oncology.Actionability{
			ID:           ActionabilityID(mutID, ind.ID),
			MutationID:   mutID,
			IndicationID: ind.ID,
			Level:        a.Level,
			Evidence:     a.Evidence,
			Drugs:        append([]string{}, a.Drugs...),
			FDAApproved:  a.FDAApproved,
		})
	}

	b.Epidemiology = g.epidemiology(ind.ID, *epi, year)
	return b
}

// ActionabilityID is the upsert key for the actionability record of one
// mutation within one indication.
func ActionabilityID(mutationID, indicationID string) string {
	return oncology.Slug(mutationID + " in " + indicationID)
}

func (g *Generator) epidemiology(indicationID string, t epidemiologyTable, year int) []oncology.EpidemiologyMetric {
	var out []oncology.EpidemiologyMetric
	add := func(region string, typ oncology.MetricType, v float64) {
		out = append(out, oncology.EpidemiologyMetric{
			ID:           g.newID(),
			IndicationID: indicationID,
			Region:       region,
			Type:         typ,
			Value:        v,
			Unit:         metricUnits[typ],
			Year:         year,
			Source:       SourceResearchImport,
		})
	}

	usa := t.USA
	for _, typ := range []oncology.MetricType{
		oncology.MetricPrevalence,
		oncology.MetricIncidence,
		oncology.MetricFiveYearSurvival,
		oncology.MetricMedianSurvivalYears,
	} {
		if v := usa.value(typ); v != nil {
			add(oncology.RegionUSA, typ, *v)
		}
	}

	for _, r := range []struct {
		name   string
		direct *metricSet
	}{
		{oncology.RegionEU, t.EU},
		{oncology.RegionAPAC, t.APAC},
	} {
		for _, typ := range []oncology.MetricType{oncology.MetricPrevalence, oncology.MetricIncidence} {
			if r.direct != nil {
				if v := r.direct.value(typ); v != nil {
					add(r.name, typ, *v)
					continue
				}
			}
			if base := usa.value(typ); base != nil {
				add(r.name, typ, math.Round(*base*regionalFactors[typ][r.name]))
			}
		}
		// Survival is never extrapolated across regions.
		if r.direct != nil {
			for _, typ := range []oncology.MetricType{oncology.MetricFiveYearSurvival, oncology.MetricMedianSurvivalYears} {
				if v := r.direct.value(typ); v != nil {
					add(r.name, typ, *v)
				}
			}
		}
	}
	return out
}

func (s metricSet) value(t oncology.MetricType) *float64 {
	switch t {
	case oncology.MetricPrevalence:
		return s.Prevalence
	case oncology.MetricIncidence:
		return s.Incidence
	case oncology.MetricFiveYearSurvival:
		return s.FiveYearSurvival
	case oncology.MetricMedianSurvivalYears:
		return s.MedianSurvivalYears
	}
	return nil
}
