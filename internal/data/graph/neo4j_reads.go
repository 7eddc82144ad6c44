package graph

import (
	"context"
	"strings"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/yungbote/oncograph-backend/internal/domain/oncology"
)

type neo4jReader struct {
	tx runner
}

var _ Reader = (*neo4jReader)(nil)

func (r *neo4jReader) GetIndication(ctx context.Context, id string) (*oncology.Indication, error) {
	records, err := collect(ctx, r.tx, `
MATCH (i:Indication {id: $id})
RETURN i
LIMIT 1
`, map[string]any{"id": id})
	if err != nil || len(records) == 0 {
		return nil, err
	}
	inds, err := indicationsFrom(records, "i")
	if err != nil || len(inds) == 0 {
		return nil, err
	}
	return &inds[0], nil
}

func (r *neo4jReader) ListIndications(ctx context.Context) ([]oncology.Indication, error) {
	records, err := collect(ctx, r.tx, `
MATCH (i:Indication)
RETURN i
ORDER BY i.name
`, nil)
	if err != nil {
		return nil, err
	}
	return indicationsFrom(records, "i")
}

func (r *neo4jReader) IndicationNames(ctx context.Context) ([]string, error) {
	records, err := collect(ctx, r.tx, `
MATCH (i:Indication)
RETURN i.name AS name, coalesce(i.aliases, []) AS aliases
`, nil)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(records))
	for _, rec := range records {
		p := props{}
		if v, ok := rec.Get("name"); ok {
			p["name"] = v
		}
		if v, ok := rec.Get("aliases"); ok {
			p["aliases"] = v
		}
		if n := p.str("name"); strings.TrimSpace(n) != "" {
			names = append(names, n)
		}
		names = append(names, p.strings("aliases")...)
	}
	return names, nil
}

const metricReturn = `
OPTIONAL MATCH (e)-[:MEASURED_IN]->(r:Region)
RETURN e, i.id AS indication_id, r.name AS region
`

func (r *neo4jReader) IndicationMetrics(ctx context.Context, indicationID string) ([]oncology.EpidemiologyMetric, error) {
	records, err := collect(ctx, r.tx, `
MATCH (i:Indication {id: $id})-[:HAS_METRIC]->(e:EpidemiologyMetric)`+metricReturn,
		map[string]any{"id": indicationID})
	if err != nil {
		return nil, err
	}
	return metricsFrom(records)
}

func (r *neo4jReader) ListMetrics(ctx context.Context) ([]oncology.EpidemiologyMetric, error) {
	records, err := collect(ctx, r.tx, `
MATCH (i:Indication)-[:HAS_METRIC]->(e:EpidemiologyMetric)`+metricReturn, nil)
	if err != nil {
		return nil, err
	}
	return metricsFrom(records)
}

func (r *neo4jReader) IndicationTherapies(ctx context.Context, indicationID string) ([]oncology.Therapy, error) {
	records, err := collect(ctx, r.tx, `
MATCH (:Indication {id: $id})-[:TREATED_BY]->(t:Therapy)
RETURN DISTINCT t
ORDER BY t.name
`, map[string]any{"id": indicationID})
	if err != nil {
		return nil, err
	}
	return therapiesFrom(records)
}

func (r *neo4jReader) IndicationDiagnostics(ctx context.Context, indicationID string) ([]oncology.DiagnosticModality, error) {
	records, err := collect(ctx, r.tx, `
MATCH (:Indication {id: $id})-[:DIAGNOSED_BY]->(d:DiagnosticModality)
RETURN DISTINCT d
ORDER BY d.name
`, map[string]any{"id": indicationID})
	if err != nil {
		return nil, err
	}
	out := make([]oncology.DiagnosticModality, 0, len(records))
	for _, rec := range records {
		p, ok, err := nodeProps(rec, "d")
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		d, err := decodeDiagnostic(p)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

const prevalenceReturn = `
OPTIONAL MATCH (p)-[:MEASURED_IN]->(r:Region)
RETURN p, m.id AS mutation_id, i.id AS indication_id, r.name AS region
`

func (r *neo4jReader) IndicationPrevalences(ctx context.Context, indicationID string) ([]oncology.MutationPrevalence, error) {
	records, err := collect(ctx, r.tx, `
MATCH (m:Mutation)-[:HAS_PREVALENCE]->(p:MutationPrevalence)-[:PREVALENCE_IN]->(i:Indication {id: $id})`+prevalenceReturn,
		map[string]any{"id": indicationID})
	if err != nil {
		return nil, err
	}
	return prevalencesFrom(records)
}

const mutationReturn = `
OPTIONAL MATCH (m)-[:MEMBER_OF]->(g:Gene)
RETURN DISTINCT m, g.symbol AS gene_symbol
ORDER BY m.name
`

func (r *neo4jReader) AssociatedMutations(ctx context.Context, indicationID string) ([]oncology.Mutation, error) {
	records, err := collect(ctx, r.tx, `
MATCH (m:Mutation)-[:ASSOCIATED_WITH]->(:Indication {id: $id})`+mutationReturn,
		map[string]any{"id": indicationID})
	if err != nil {
		return nil, err
	}
	return mutationsFrom(records)
}

func (r *neo4jReader) ActionableMutations(ctx context.Context, indicationID string) ([]oncology.Mutation, error) {
	records, err := collect(ctx, r.tx, `
MATCH (m:Mutation)-[:HAS_ACTIONABILITY]->(:Actionability)-[:ACTIONABLE_IN]->(:Indication {id: $id})`+mutationReturn,
		map[string]any{"id": indicationID})
	if err != nil {
		return nil, err
	}
	return mutationsFrom(records)
}

func (r *neo4jReader) PrevalentMutations(ctx context.Context, indicationID string) ([]oncology.Mutation, error) {
	records, err := collect(ctx, r.tx, `
MATCH (m:Mutation)-[:HAS_PREVALENCE]->(:MutationPrevalence)-[:PREVALENCE_IN]->(:Indication {id: $id})`+mutationReturn,
		map[string]any{"id": indicationID})
	if err != nil {
		return nil, err
	}
	return mutationsFrom(records)
}

func (r *neo4jReader) GetMutation(ctx context.Context, id string) (*oncology.Mutation, error) {
	records, err := collect(ctx, r.tx, `
MATCH (m:Mutation {id: $id})
OPTIONAL MATCH (m)-[:MEMBER_OF]->(g:Gene)
RETURN m, g.symbol AS gene_symbol
LIMIT 1
`, map[string]any{"id": id})
	if err != nil || len(records) == 0 {
		return nil, err
	}
	muts, err := mutationsFrom(records)
	if err != nil || len(muts) == 0 {
		return nil, err
	}
	return &muts[0], nil
}

func (r *neo4jReader) ListMutations(ctx context.Context) ([]oncology.Mutation, error) {
	records, err := collect(ctx, r.tx, `
MATCH (m:Mutation)`+mutationReturn, nil)
	if err != nil {
		return nil, err
	}
	return mutationsFrom(records)
}

func (r *neo4jReader) MutationGene(ctx context.Context, mutationID string) (*oncology.Gene, error) {
	records, err := collect(ctx, r.tx, `
MATCH (:Mutation {id: $id})-[:MEMBER_OF]->(g:Gene)
RETURN g
LIMIT 1
`, map[string]any{"id": mutationID})
	if err != nil || len(records) == 0 {
		return nil, err
	}
	p, ok, err := nodeProps(records[0], "g")
	if err != nil || !ok {
		return nil, err
	}
	g, err := decodeGene(p)
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *neo4jReader) MutationIndications(ctx context.Context, mutationID string) ([]oncology.Indication, error) {
	records, err := collect(ctx, r.tx, `
MATCH (:Mutation {id: $id})-[:ASSOCIATED_WITH]->(i:Indication)
RETURN DISTINCT i
ORDER BY i.name
`, map[string]any{"id": mutationID})
	if err != nil {
		return nil, err
	}
	return indicationsFrom(records, "i")
}

func (r *neo4jReader) ListAssociations(ctx context.Context) ([]Association, error) {
	records, err := collect(ctx, r.tx, `
MATCH (m:Mutation)-[:ASSOCIATED_WITH]->(i:Indication)
RETURN DISTINCT m.id AS mutation_id, i.id AS indication_id
ORDER BY mutation_id, indication_id
`, nil)
	if err != nil {
		return nil, err
	}
	out := make([]Association, 0, len(records))
	for _, rec := range records {
		mutID, indID := recordString(rec, "mutation_id"), recordString(rec, "indication_id")
		if mutID == "" || indID == "" {
			continue
		}
		out = append(out, Association{MutationID: mutID, IndicationID: indID})
	}
	return out, nil
}

func (r *neo4jReader) MutationPrevalences(ctx context.Context, mutationID string) ([]oncology.MutationPrevalence, error) {
	records, err := collect(ctx, r.tx, `
MATCH (m:Mutation {id: $id})-[:HAS_PREVALENCE]->(p:MutationPrevalence)-[:PREVALENCE_IN]->(i:Indication)`+prevalenceReturn,
		map[string]any{"id": mutationID})
	if err != nil {
		return nil, err
	}
	return prevalencesFrom(records)
}

func (r *neo4jReader) ListMutationPrevalences(ctx context.Context) ([]oncology.MutationPrevalence, error) {
	records, err := collect(ctx, r.tx, `
MATCH (m:Mutation)-[:HAS_PREVALENCE]->(p:MutationPrevalence)-[:PREVALENCE_IN]->(i:Indication)`+prevalenceReturn, nil)
	if err != nil {
		return nil, err
	}
	return prevalencesFrom(records)
}

const actionabilityReturn = `
OPTIONAL MATCH (a)-[:ACTIONABLE_IN]->(i:Indication)
RETURN a, m.id AS mutation_id, i.id AS indication_id
ORDER BY a.level, a.id
`

func (r *neo4jReader) MutationActionability(ctx context.Context, mutationID string) ([]oncology.Actionability, error) {
	records, err := collect(ctx, r.tx, `
MATCH (m:Mutation {id: $id})-[:HAS_ACTIONABILITY]->(a:Actionability)`+actionabilityReturn,
		map[string]any{"id": mutationID})
	if err != nil {
		return nil, err
	}
	return actionabilityFrom(records)
}

func (r *neo4jReader) ListActionability(ctx context.Context) ([]oncology.Actionability, error) {
	records, err := collect(ctx, r.tx, `
MATCH (m:Mutation)-[:HAS_ACTIONABILITY]->(a:Actionability)`+actionabilityReturn, nil)
	if err != nil {
		return nil, err
	}
	return actionabilityFrom(records)
}

func (r *neo4jReader) TherapiesByNames(ctx context.Context, names []string) ([]oncology.Therapy, error) {
	lowered := make([]string, 0, len(names))
	for _, n := range names {
		if n = strings.ToLower(strings.TrimSpace(n)); n != "" {
			lowered = append(lowered, n)
		}
	}
	if len(lowered) == 0 {
		return nil, nil
	}
	records, err := collect(ctx, r.tx, `
MATCH (t:Therapy)
WHERE toLower(t.name) IN $names
   OR any(s IN coalesce(t.synonyms, []) WHERE toLower(s) IN $names)
RETURN DISTINCT t
ORDER BY t.name
`, map[string]any{"names": lowered})
	if err != nil {
		return nil, err
	}
	return therapiesFrom(records)
}

func indicationsFrom(records []*neo4j.Record, key string) ([]oncology.Indication, error) {
	out := make([]oncology.Indication, 0, len(records))
	for _, rec := range records {
		p, ok, err := nodeProps(rec, key)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		ind, err := decodeIndication(p)
		if err != nil {
			return nil, err
		}
		out = append(out, ind)
	}
	return out, nil
}

func mutationsFrom(records []*neo4j.Record) ([]oncology.Mutation, error) {
	out := make([]oncology.Mutation, 0, len(records))
	for _, rec := range records {
		p, ok, err := nodeProps(rec, "m")
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		m, err := decodeMutation(p)
		if err != nil {
			return nil, err
		}
		if sym := recordString(rec, "gene_symbol"); sym != "" {
			m.GeneSymbol = sym
		}
		out = append(out, m)
	}
	return out, nil
}

func metricsFrom(records []*neo4j.Record) ([]oncology.EpidemiologyMetric, error) {
	out := make([]oncology.EpidemiologyMetric, 0, len(records))
	for _, rec := range records {
		p, ok, err := nodeProps(rec, "e")
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		m, err := decodeMetric(p, recordString(rec, "indication_id"), recordString(rec, "region"))
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

func prevalencesFrom(records []*neo4j.Record) ([]oncology.MutationPrevalence, error) {
	out := make([]oncology.MutationPrevalence, 0, len(records))
	for _, rec := range records {
		p, ok, err := nodeProps(rec, "p")
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		mp, err := decodePrevalence(p, recordString(rec, "mutation_id"), recordString(rec, "indication_id"), recordString(rec, "region"))
		if err != nil {
			return nil, err
		}
		out = append(out, mp)
	}
	return out, nil
}

func therapiesFrom(records []*neo4j.Record) ([]oncology.Therapy, error) {
	out := make([]oncology.Therapy, 0, len(records))
	for _, rec := range records {
		p, ok, err := nodeProps(rec, "t")
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		t, err := decodeTherapy(p)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

func actionabilityFrom(records []*neo4j.Record) ([]oncology.Actionability, error) {
	out := make([]oncology.Actionability, 0, len(records))
	for _, rec := range records {
		p, ok, err := nodeProps(rec, "a")
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		a, err := decodeActionability(p, recordString(rec, "mutation_id"), recordString(rec, "indication_id"))
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}
