package steps

import (
	"context"

	"github.com/yungbote/oncograph-backend/internal/data/graph"
	"github.com/yungbote/oncograph-backend/internal/domain/oncology"
)

const (
	defaultIndicationLimit = 20
	defaultMutationLimit   = 50
	maxListLimit           = 500
)

type IndicationRow struct {
	Rank                    int                 `json:"rank"`
	Indication              oncology.Indication `json:"indication"`
	Totals                  Totals              `json:"totals"`
	ActionableMutationCount int                 `json:"actionable_mutation_count"`
}

func (r IndicationRow) RankID() string   { return r.Indication.ID }
func (r IndicationRow) RankName() string { return r.Indication.Name }
func (r IndicationRow) RankValue(k SortKey) float64 {
	switch k {
	case SortIncidence:
		return float64(r.Totals.TotalIncidence)
	case SortActionability:
		return float64(r.ActionableMutationCount)
	default:
		return float64(r.Totals.TotalPrevalence)
	}
}

type ListIndicationsInput struct {
	Limit     int
	Regions   []string
	SortBy    string
	SortOrder string
}

type ListIndicationsOutput struct {
	Regions []string        `json:"regions"`
	Sort    SortPolicy      `json:"-"`
	Items   []IndicationRow `json:"items"`
}

// ListTopIndications ranks every indication by the requested key within the region filter.
func ListTopIndications(ctx context.Context, deps ReadDeps, in ListIndicationsInput) (ListIndicationsOutput, error) {
	policy, err := ParseSortPolicy(in.SortBy, in.SortOrder)
	if err != nil {
		return ListIndicationsOutput{}, err
	}
	f := NewRegionFilter(in.Regions)
	limit := clampLimit(in.Limit, defaultIndicationLimit, maxListLimit)

	var rows []IndicationRow
	err = deps.Store.Read(ctx, func(ctx context.Context, r graph.Reader) error {
		indications, err := r.ListIndications(ctx)
		if err != nil {
			return err
		}
		metrics, err := r.ListMetrics(ctx)
		if err != nil {
			return err
		}
		actionability, err := r.ListActionability(ctx)
		if err != nil {
			return err
		}

		totals := totalsByIndication(metrics, f)
		actionable := map[string]map[string]struct{}{}
		for _, a := range actionability {
			if a.IndicationID == "" {
				continue
			}
			if actionable[a.IndicationID] == nil {
				actionable[a.IndicationID] = map[string]struct{}{}
			}
			actionable[a.IndicationID][a.MutationID] = struct{}{}
		}

		rows = make([]IndicationRow, 0, len(indications))
		for _, ind := range indications {
			rows = append(rows, IndicationRow{
				Indication:              ind,
				Totals:                  totals[ind.ID].rounded(),
				ActionableMutationCount: len(actionable[ind.ID]),
			})
		}
		return nil
	})
	if err != nil {
		return ListIndicationsOutput{}, err
	}

	SortRows(rows, policy)
	if len(rows) > limit {
		rows = rows[:limit]
	}
	for i := range rows {
		rows[i].Rank = i + 1
	}
	return ListIndicationsOutput{Regions: f.Names(), Sort: policy, Items: rows}, nil
}

type MutationRow struct {
	Rank     int               `json:"rank"`
	Mutation oncology.Mutation `json:"mutation"`
	// IndicationCount covers indications reached by association or by prevalence data.
	IndicationCount    int                     `json:"indication_count"`
	ActionabilityCount int                     `json:"actionability_count"`
	Estimate           CrossIndicationEstimate `json:"estimate"`
}

func (r MutationRow) RankID() string   { return r.Mutation.ID }
func (r MutationRow) RankName() string { return r.Mutation.Name }
func (r MutationRow) RankValue(k SortKey) float64 {
	switch k {
	case SortIncidence:
		return float64(r.Estimate.EstimatedNewCases)
	case SortActionability:
		return float64(r.ActionabilityCount)
	default:
		return float64(r.Estimate.EstimatedPatients)
	}
}

type ListMutationsInput struct {
	Limit     int
	SortBy    string
	SortOrder string
	Regions   []string
}

type ListMutationsOutput struct {
	Regions []string      `json:"regions"`
	Sort    SortPolicy    `json:"-"`
	Items   []MutationRow `json:"items"`
}

// ListAllMutations ranks every mutation by its cross-indication estimate, indication
// reach, or actionability count.
func ListAllMutations(ctx context.Context, deps ReadDeps, in ListMutationsInput) (ListMutationsOutput, error) {
	policy, err := ParseSortPolicy(in.SortBy, in.SortOrder)
	if err != nil {
		return ListMutationsOutput{}, err
	}
	f := NewRegionFilter(in.Regions)
	limit := clampLimit(in.Limit, defaultMutationLimit, maxListLimit)

	var rows []MutationRow
	err = deps.Store.Read(ctx, func(ctx context.Context, r graph.Reader) error {
		mutations, err := r.ListMutations(ctx)
		if err != nil {
			return err
		}
		metrics, err := r.ListMetrics(ctx)
		if err != nil {
			return err
		}
		prevalences, err := r.ListMutationPrevalences(ctx)
		if err != nil {
			return err
		}
		actionability, err := r.ListActionability(ctx)
		if err != nil {
			return err
		}
		associations, err := r.ListAssociations(ctx)
		if err != nil {
			return err
		}

		totals := totalsByIndication(metrics, f)
		byMutation := map[string][]oncology.MutationPrevalence{}
		reach := map[string]map[string]struct{}{}
		addReach := func(mutID, indID string) {
			if reach[mutID] == nil {
				reach[mutID] = map[string]struct{}{}
			}
			reach[mutID][indID] = struct{}{}
		}
		for _, p := range prevalences {
			byMutation[p.MutationID] = append(byMutation[p.MutationID], p)
			addReach(p.MutationID, p.IndicationID)
		}
		for _, a := range associations {
			addReach(a.MutationID, a.IndicationID)
		}
		actionCount := map[string]int{}
		for _, a := range actionability {
			actionCount[a.MutationID]++
		}

		rows = make([]MutationRow, 0, len(mutations))
		for _, m := range mutations {
			sum := acrossIndications(byMutation[m.ID], func(id string) rawTotals { return totals[id] })
			rows = append(rows, MutationRow{
				Mutation:           m,
				IndicationCount:    len(reach[m.ID]),
				ActionabilityCount: actionCount[m.ID],
				Estimate: CrossIndicationEstimate{
					EstimatedPatients: roundCount(sum.prevalence),
					EstimatedNewCases: roundCount(sum.incidence),
				},
			})
		}
		return nil
	})
	if err != nil {
		return ListMutationsOutput{}, err
	}

	SortRows(rows, policy)
	if len(rows) > limit {
		rows = rows[:limit]
	}
	for i := range rows {
		rows[i].Rank = i + 1
	}
	return ListMutationsOutput{Regions: f.Names(), Sort: policy, Items: rows}, nil
}
