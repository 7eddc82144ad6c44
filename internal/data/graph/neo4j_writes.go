package graph

import (
	"context"

	"github.com/yungbote/oncograph-backend/internal/domain/oncology"
)

type neo4jWriter struct {
	tx runner
}

var _ Writer = (*neo4jWriter)(nil)

func (w *neo4jWriter) UpsertIndication(ctx context.Context, ind oncology.Indication) error {
	return exec(ctx, w.tx, "graph.upsert_indication", "indication "+ind.ID, `
MERGE (i:Indication {id: $id})
SET i.name = $name,
    i.aliases = $aliases,
    i.classification_code = $classification_code,
    i.source = $source
RETURN i.id AS id
`, map[string]any{
		"id":                  ind.ID,
		"name":                ind.Name,
		"aliases":             nonNilStrings(ind.Aliases),
		"classification_code": ind.ClassificationCode,
		"source":              ind.Source,
	})
}

func (w *neo4jWriter) EnsureGene(ctx context.Context, gene oncology.Gene) error {
	return exec(ctx, w.tx, "graph.ensure_gene", "gene "+gene.Symbol, `
MERGE (g:Gene {symbol: $symbol})
ON CREATE SET g.name = $name
RETURN g.symbol AS symbol
`, map[string]any{"symbol": gene.Symbol, "name": gene.Name})
}

func (w *neo4jWriter) UpsertMutation(ctx context.Context, m oncology.Mutation) error {
	return exec(ctx, w.tx, "graph.upsert_mutation", "mutation "+m.ID, `
MERGE (m:Mutation {id: $id})
SET m.name = $name,
    m.gene_symbol = $gene_symbol,
    m.alteration = $alteration,
    m.oncogenicity = $oncogenicity,
    m.source = $source
RETURN m.id AS id
`, map[string]any{
		"id":           m.ID,
		"name":         m.Name,
		"gene_symbol":  m.GeneSymbol,
		"alteration":   m.Alteration,
		"oncogenicity": m.Oncogenicity,
		"source":       m.Source,
	})
}

// linkMutationGeneCypher keeps exactly one MEMBER_OF edge per mutation.
const linkMutationGeneCypher = `
MATCH (m:Mutation {id: $mutation_id})
MATCH (g:Gene {symbol: $symbol})
OPTIONAL MATCH (m)-[old:MEMBER_OF]->(other:Gene)
WHERE other <> g
DELETE old
WITH DISTINCT m, g
MERGE (m)-[:MEMBER_OF]->(g)
RETURN m.id AS id
`

func (w *neo4jWriter) LinkMutationGene(ctx context.Context, mutationID, symbol string) error {
	return exec(ctx, w.tx, "graph.link_mutation_gene", "mutation "+mutationID+" / gene "+symbol,
		linkMutationGeneCypher, map[string]any{"mutation_id": mutationID, "symbol": symbol})
}

func (w *neo4jWriter) LinkMutationIndication(ctx context.Context, mutationID, indicationID string) error {
	return exec(ctx, w.tx, "graph.link_mutation_indication", "mutation "+mutationID+" / indication "+indicationID, `
MATCH (m:Mutation {id: $mutation_id})
MATCH (i:Indication {id: $indication_id})
MERGE (m)-[:ASSOCIATED_WITH]->(i)
RETURN m.id AS id
`, map[string]any{"mutation_id": mutationID, "indication_id": indicationID})
}

func (w *neo4jWriter) UpsertTherapy(ctx context.Context, t oncology.Therapy) error {
	var cost any
	if t.AnnualCost != nil {
		cost = *t.AnnualCost
	}
	return exec(ctx, w.tx, "graph.upsert_therapy", "therapy "+t.ID, `
MERGE (t:Therapy {id: $id})
SET t.name = $name,
    t.synonyms = $synonyms,
    t.mechanism = $mechanism,
    t.status = $status,
    t.annual_cost = $annual_cost,
    t.target_genes = $target_genes
RETURN t.id AS id
`, map[string]any{
		"id":           t.ID,
		"name":         t.Name,
		"synonyms":     nonNilStrings(t.Synonyms),
		"mechanism":    t.Mechanism,
		"status":       t.Status,
		"annual_cost":  cost,
		"target_genes": nonNilStrings(t.TargetGenes),
	})
}

func (w *neo4jWriter) LinkIndicationTherapy(ctx context.Context, indicationID, therapyID string) error {
	return exec(ctx, w.tx, "graph.link_indication_therapy", "indication "+indicationID+" / therapy "+therapyID, `
MATCH (i:Indication {id: $indication_id})
MATCH (t:Therapy {id: $therapy_id})
MERGE (i)-[:TREATED_BY]->(t)
RETURN i.id AS id
`, map[string]any{"indication_id": indicationID, "therapy_id": therapyID})
}

func (w *neo4jWriter) UpsertDiagnostic(ctx context.Context, d oncology.DiagnosticModality) error {
	return exec(ctx, w.tx, "graph.upsert_diagnostic", "diagnostic "+d.ID, `
MERGE (d:DiagnosticModality {id: $id})
SET d.name = $name,
    d.modality_type = $modality_type,
    d.invasiveness = $invasiveness
RETURN d.id AS id
`, map[string]any{
		"id":            d.ID,
		"name":          d.Name,
		"modality_type": d.ModalityType,
		"invasiveness":  d.Invasiveness,
	})
}

func (w *neo4jWriter) LinkIndicationDiagnostic(ctx context.Context, indicationID, diagnosticID string) error {
	return exec(ctx, w.tx, "graph.link_indication_diagnostic", "indication "+indicationID+" / diagnostic "+diagnosticID, `
MATCH (i:Indication {id: $indication_id})
MATCH (d:DiagnosticModality {id: $diagnostic_id})
MERGE (i)-[:DIAGNOSED_BY]->(d)
RETURN i.id AS id
`, map[string]any{"indication_id": indicationID, "diagnostic_id": diagnosticID})
}

func (w *neo4jWriter) CreateEpidemiologyMetric(ctx context.Context, m oncology.EpidemiologyMetric) error {
	return exec(ctx, w.tx, "graph.create_metric", "indication "+m.IndicationID, `
MATCH (i:Indication {id: $indication_id})
MERGE (r:Region {name: $region})
CREATE (e:EpidemiologyMetric {
  id: $id,
  type: $type,
  value: $value,
  unit: $unit,
  year: $year,
  source: $source
})
CREATE (i)-[:HAS_METRIC]->(e)
CREATE (e)-[:MEASURED_IN]->(r)
RETURN e.id AS id
`, map[string]any{
		"indication_id": m.IndicationID,
		"region":        m.Region,
		"id":            m.ID,
		"type":          string(m.Type),
		"value":         m.Value,
		"unit":          m.Unit,
		"year":          int64(m.Year),
		"source":        m.Source,
	})
}

func (w *neo4jWriter) CreateMutationPrevalence(ctx context.Context, p oncology.MutationPrevalence) error {
	region := p.Region
	if region == "" {
		region = oncology.RegionGlobal
	}
	return exec(ctx, w.tx, "graph.create_mutation_prevalence", "mutation "+p.MutationID+" / indication "+p.IndicationID, `
MATCH (m:Mutation {id: $mutation_id})
MATCH (i:Indication {id: $indication_id})
MERGE (r:Region {name: $region})
CREATE (p:MutationPrevalence {
  id: $id,
  percentage: $percentage,
  year: $year,
  source: $source
})
CREATE (m)-[:HAS_PREVALENCE]->(p)
CREATE (p)-[:PREVALENCE_IN]->(i)
CREATE (p)-[:MEASURED_IN]->(r)
RETURN p.id AS id
`, map[string]any{
		"mutation_id":   p.MutationID,
		"indication_id": p.IndicationID,
		"region":        region,
		"id":            p.ID,
		"percentage":    p.Percentage,
		"year":          int64(p.Year),
		"source":        p.Source,
	})
}

func (w *neo4jWriter) UpsertActionability(ctx context.Context, a oncology.Actionability) error {
	return exec(ctx, w.tx, "graph.upsert_actionability", "mutation "+a.MutationID, `
MATCH (m:Mutation {id: $mutation_id})
MERGE (a:Actionability {id: $id})
SET a.level = $level,
    a.evidence = $evidence,
    a.drugs = $drugs,
    a.fda_approved = $fda_approved
MERGE (m)-[:HAS_ACTIONABILITY]->(a)
WITH a
OPTIONAL MATCH (i:Indication {id: $indication_id})
FOREACH (_ IN CASE WHEN i IS NULL THEN [] ELSE [1] END | MERGE (a)-[:ACTIONABLE_IN]->(i))
RETURN a.id AS id
`, map[string]any{
		"mutation_id":   a.MutationID,
		"indication_id": a.IndicationID,
		"id":            a.ID,
		"level":         a.Level,
		"evidence":      a.Evidence,
		"drugs":         nonNilStrings(a.Drugs),
		"fda_approved":  a.FDAApproved,
	})
}

func nonNilStrings(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}
