package steps

import (
	"context"
	"math"
	"sort"
	"strings"

	"github.com/yungbote/oncograph-backend/internal/data/graph"
	"github.com/yungbote/oncograph-backend/internal/domain/oncology"
	"github.com/yungbote/oncograph-backend/internal/platform/logger"
)

type ReadDeps struct {
	Log   *logger.Logger
	Store graph.Store
}

// Totals are whole-patient counts summed across the selected regions.
type Totals struct {
	TotalPrevalence int64 `json:"total_prevalence"`
	TotalIncidence  int64 `json:"total_incidence"`
}

type Estimate struct {
	EstimatedPrevalencePatients int64 `json:"estimated_prevalence_patients"`
	EstimatedIncidencePatients  int64 `json:"estimated_incidence_patients"`
	// HasPrevalenceData is false when no percentage is recorded for the pair; the
	// estimates are then 0 even though the true value is unknown.
	HasPrevalenceData bool `json:"has_prevalence_data"`
}

type CrossIndicationEstimate struct {
	EstimatedPatients int64 `json:"estimated_patients"`
	EstimatedNewCases int64 `json:"estimated_new_cases"`
}

// rawTotals keep full precision; rounding happens once, when a value leaves the engine.
type rawTotals struct {
	prevalence float64
	incidence  float64
}

func roundCount(v float64) int64 { return int64(math.Round(v)) }

func (t rawTotals) rounded() Totals {
	return Totals{TotalPrevalence: roundCount(t.prevalence), TotalIncidence: roundCount(t.incidence)}
}

func sumMetrics(metrics []oncology.EpidemiologyMetric, f RegionFilter) rawTotals {
	var t rawTotals
	for _, m := range metrics {
		if !f.Contains(m.Region) {
			continue
		}
		switch m.Type {
		case oncology.MetricPrevalence:
			t.prevalence += m.Value
		case oncology.MetricIncidence:
			t.incidence += m.Value
		}
	}
	return t
}

// totalsByIndication sums a flat metric listing per indication id.
func totalsByIndication(metrics []oncology.EpidemiologyMetric, f RegionFilter) map[string]rawTotals {
	out := map[string]rawTotals{}
	for _, m := range metrics {
		if !f.Contains(m.Region) {
			continue
		}
		t := out[m.IndicationID]
		switch m.Type {
		case oncology.MetricPrevalence:
			t.prevalence += m.Value
		case oncology.MetricIncidence:
			t.incidence += m.Value
		default:
			continue
		}
		out[m.IndicationID] = t
	}
	return out
}

// percentagesByIndication resolves the single percentage applied to one
// (mutation, indication) pair, as in EstimateMutationPatients and dossier rows.
// The latest year wins; records from the same year are averaged.
func percentagesByIndication(records []oncology.MutationPrevalence) map[string]float64 {
	type acc struct {
		year  int
		sum   float64
		count int
	}
	byInd := map[string]*acc{}
	for _, p := range records {
		a, ok := byInd[p.IndicationID]
		switch {
		case !ok || p.Year > a.year:
			byInd[p.IndicationID] = &acc{year: p.Year, sum: p.Percentage, count: 1}
		case p.Year == a.year:
			a.sum += p.Percentage
			a.count++
		}
	}
	out := make(map[string]float64, len(byInd))
	for id, a := range byInd {
		out[id] = a.sum / float64(a.count)
	}
	return out
}

func estimateFor(t rawTotals, pct float64, ok bool) Estimate {
	if !ok {
		return Estimate{}
	}
	return Estimate{
		EstimatedPrevalencePatients: roundCount(t.prevalence * pct / 100),
		EstimatedIncidencePatients:  roundCount(t.incidence * pct / 100),
		HasPrevalenceData:           true,
	}
}

// acrossIndications sums totals·p/100 over every (indication, percentage) record.
// Duplicate records from repeated imports are each counted. The sum is returned
// unrounded.
func acrossIndications(records []oncology.MutationPrevalence, totals func(indicationID string) rawTotals) rawTotals {
	sorted := append([]oncology.MutationPrevalence(nil), records...)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.IndicationID != b.IndicationID {
			return a.IndicationID < b.IndicationID
		}
		if a.Year != b.Year {
			return a.Year < b.Year
		}
		if a.Percentage != b.Percentage {
			return a.Percentage < b.Percentage
		}
		return a.ID < b.ID
	})

	var out rawTotals
	for _, p := range sorted {
		t := totals(p.IndicationID)
		out.prevalence += t.prevalence * p.Percentage / 100
		out.incidence += t.incidence * p.Percentage / 100
	}
	return out
}

func indicationTotals(ctx context.Context, r graph.Reader, indicationID string, f RegionFilter) (rawTotals, error) {
	metrics, err := r.IndicationMetrics(ctx, indicationID)
	if err != nil {
		return rawTotals{}, err
	}
	return sumMetrics(metrics, f), nil
}

func requireID(op, kind, id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", oncology.Validation(op, kind+" id is required")
	}
	return id, nil
}

type IndicationTotalsInput struct {
	IndicationID string
	Regions      []string
}

func AggregateIndicationTotals(ctx context.Context, deps ReadDeps, in IndicationTotalsInput) (Totals, error) {
	const op = "oncology.aggregate_indication_totals"
	id, err := requireID(op, "indication", in.IndicationID)
	if err != nil {
		return Totals{}, err
	}
	f := NewRegionFilter(in.Regions)

	var out Totals
	err = deps.Store.Read(ctx, func(ctx context.Context, r graph.Reader) error {
		ind, err := r.GetIndication(ctx, id)
		if err != nil {
			return err
		}
		if ind == nil {
			return oncology.NotFound(op, "indication", id)
		}
		t, err := indicationTotals(ctx, r, id, f)
		if err != nil {
			return err
		}
		out = t.rounded()
		return nil
	})
	return out, err
}

type MutationEstimateInput struct {
	MutationID   string
	IndicationID string
	Regions      []string
}

// EstimateMutationPatients projects the indication totals onto the share of its
// patients carrying the mutation.
func EstimateMutationPatients(ctx context.Context, deps ReadDeps, in MutationEstimateInput) (Estimate, error) {
	const op = "oncology.estimate_mutation_patients"
	mutID, err := requireID(op, "mutation", in.MutationID)
	if err != nil {
		return Estimate{}, err
	}
	indID, err := requireID(op, "indication", in.IndicationID)
	if err != nil {
		return Estimate{}, err
	}
	f := NewRegionFilter(in.Regions)

	var out Estimate
	err = deps.Store.Read(ctx, func(ctx context.Context, r graph.Reader) error {
		m, err := r.GetMutation(ctx, mutID)
		if err != nil {
			return err
		}
		if m == nil {
			return oncology.NotFound(op, "mutation", mutID)
		}
		ind, err := r.GetIndication(ctx, indID)
		if err != nil {
			return err
		}
		if ind == nil {
			return oncology.NotFound(op, "indication", indID)
		}
		records, err := r.MutationPrevalences(ctx, mutID)
		if err != nil {
			return err
		}
		pct, ok := percentagesByIndication(records)[indID]
		if !ok {
			out = Estimate{}
			return nil
		}
		t, err := indicationTotals(ctx, r, indID, f)
		if err != nil {
			return err
		}
		out = estimateFor(t, pct, true)
		return nil
	})
	return out, err
}

type CrossIndicationInput struct {
	MutationID string
	Regions    []string
}

func AggregateAcrossIndications(ctx context.Context, deps ReadDeps, in CrossIndicationInput) (CrossIndicationEstimate, error) {
	const op = "oncology.aggregate_across_indications"
	mutID, err := requireID(op, "mutation", in.MutationID)
	if err != nil {
		return CrossIndicationEstimate{}, err
	}
	f := NewRegionFilter(in.Regions)

	var out CrossIndicationEstimate
	err = deps.Store.Read(ctx, func(ctx context.Context, r graph.Reader) error {
		m, err := r.GetMutation(ctx, mutID)
		if err != nil {
			return err
		}
		if m == nil {
			return oncology.NotFound(op, "mutation", mutID)
		}
		records, err := r.MutationPrevalences(ctx, mutID)
		if err != nil {
			return err
		}
		totals := map[string]rawTotals{}
		for _, p := range records {
			if _, ok := totals[p.IndicationID]; ok {
				continue
			}
			t, err := indicationTotals(ctx, r, p.IndicationID, f)
			if err != nil {
				return err
			}
			totals[p.IndicationID] = t
		}
		sum := acrossIndications(records, func(id string) rawTotals { return totals[id] })
		out = CrossIndicationEstimate{
			EstimatedPatients: roundCount(sum.prevalence),
			EstimatedNewCases: roundCount(sum.incidence),
		}
		return nil
	})
	return out, err
}
