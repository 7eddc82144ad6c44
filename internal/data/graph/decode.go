package graph

import (
	"fmt"
	"math"
	"strings"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/yungbote/oncograph-backend/internal/domain/oncology"
)

// props is a node's property bag as returned by the driver. It never escapes this
// package: every read decodes into a typed oncology record or fails.
type props map[string]any

func (p props) str(key string) string {
	if v, ok := p[key].(string); ok {
		return v
	}
	return ""
}

func (p props) requireString(key string) (string, error) {
	raw, ok := p[key]
	if !ok || raw == nil {
		return "", fmt.Errorf("missing property %q", key)
	}
	s, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("property %q: want string, got %T", key, raw)
	}
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("property %q is empty", key)
	}
	return s, nil
}

// number accepts both integer and float storage since bulk loads write either.
func (p props) number(key string) (float64, bool, error) {
	raw, ok := p[key]
	if !ok || raw == nil {
		return 0, false, nil
	}
	switch v := raw.(type) {
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, false, fmt.Errorf("property %q is not finite", key)
		}
		return v, true, nil
	case int64:
		return float64(v), true, nil
	case int:
		return float64(v), true, nil
	default:
		return 0, false, fmt.Errorf("property %q: want number, got %T", key, raw)
	}
}

func (p props) requireNumber(key string) (float64, error) {
	v, ok, err := p.number(key)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, fmt.Errorf("missing property %q", key)
	}
	return v, nil
}

func (p props) integer(key string) int {
	switch v := p[key].(type) {
	case int64:
		return int(v)
	case int:
		return v
	case float64:
		return int(v)
	}
	return 0
}

func (p props) boolean(key string) bool {
	v, _ := p[key].(bool)
	return v
}

func (p props) strings(key string) []string {
	switch v := p[key].(type) {
	case []string:
		return append([]string(nil), v...)
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

func nodeProps(rec *neo4j.Record, key string) (props, bool, error) {
	raw, ok := rec.Get(key)
	if !ok {
		return nil, false, fmt.Errorf("record has no column %q", key)
	}
	if raw == nil {
		return nil, false, nil
	}
	node, ok := raw.(neo4j.Node)
	if !ok {
		return nil, false, fmt.Errorf("column %q: want node, got %T", key, raw)
	}
	return props(node.Props), true, nil
}

func recordString(rec *neo4j.Record, key string) string {
	raw, _ := rec.Get(key)
	s, _ := raw.(string)
	return s
}

func decodeIndication(p props) (oncology.Indication, error) {
	id, err := p.requireString("id")
	if err != nil {
		return oncology.Indication{}, fmt.Errorf("decode indication: %w", err)
	}
	name, err := p.requireString("name")
	if err != nil {
		return oncology.Indication{}, fmt.Errorf("decode indication %s: %w", id, err)
	}
	return oncology.Indication{
		ID:                 id,
		Name:               name,
		Aliases:            p.strings("aliases"),
		ClassificationCode: p.str("classification_code"),
		Source:             p.str("source"),
	}, nil
}

func decodeGene(p props) (oncology.Gene, error) {
	symbol, err := p.requireString("symbol")
	if err != nil {
		return oncology.Gene{}, fmt.Errorf("decode gene: %w", err)
	}
	return oncology.Gene{Symbol: symbol, Name: p.str("name")}, nil
}

func decodeMutation(p props) (oncology.Mutation, error) {
	id, err := p.requireString("id")
	if err != nil {
		return oncology.Mutation{}, fmt.Errorf("decode mutation: %w", err)
	}
	name, err := p.requireString("name")
	if err != nil {
		return oncology.Mutation{}, fmt.Errorf("decode mutation %s: %w", id, err)
	}
	return oncology.Mutation{
		ID:           id,
		Name:         name,
		GeneSymbol:   p.str("gene_symbol"),
		Alteration:   p.str("alteration"),
		Oncogenicity: p.str("oncogenicity"),
		Source:       p.str("source"),
	}, nil
}

func decodeMetric(p props, indicationID, region string) (oncology.EpidemiologyMetric, error) {
	id, err := p.requireString("id")
	if err != nil {
		return oncology.EpidemiologyMetric{}, fmt.Errorf("decode metric: %w", err)
	}
	typ := oncology.MetricType(p.str("type"))
	if !typ.Valid() {
		return oncology.EpidemiologyMetric{}, fmt.Errorf("decode metric %s: unknown type %q", id, typ)
	}
	value, err := p.requireNumber("value")
	if err != nil {
		return oncology.EpidemiologyMetric{}, fmt.Errorf("decode metric %s: %w", id, err)
	}
	return oncology.EpidemiologyMetric{
		ID:           id,
		IndicationID: indicationID,
		Region:       region,
		Type:         typ,
		Value:        value,
		Unit:         p.str("unit"),
		Year:         p.integer("year"),
		Source:       p.str("source"),
	}, nil
}

func decodePrevalence(p props, mutationID, indicationID, region string) (oncology.MutationPrevalence, error) {
	id, err := p.requireString("id")
	if err != nil {
		return oncology.MutationPrevalence{}, fmt.Errorf("decode mutation prevalence: %w", err)
	}
	pct, err := p.requireNumber("percentage")
	if err != nil {
		return oncology.MutationPrevalence{}, fmt.Errorf("decode mutation prevalence %s: %w", id, err)
	}
	if !oncology.ValidPercentage(pct) {
		return oncology.MutationPrevalence{}, oncology.NewError(oncology.CodeInvariantViolation, "decode mutation prevalence",
			fmt.Sprintf("%s: percentage %v outside [0,100]", id, pct), nil)
	}
	if region == "" {
		region = oncology.RegionGlobal
	}
	return oncology.MutationPrevalence{
		ID:           id,
		MutationID:   mutationID,
		IndicationID: indicationID,
		Region:       region,
		Percentage:   pct,
		Year:         p.integer("year"),
		Source:       p.str("source"),
	}, nil
}

func decodeTherapy(p props) (oncology.Therapy, error) {
	name, err := p.requireString("name")
	if err != nil {
		return oncology.Therapy{}, fmt.Errorf("decode therapy: %w", err)
	}
	t := oncology.Therapy{
		ID:          p.str("id"),
		Name:        name,
		Synonyms:    p.strings("synonyms"),
		Mechanism:   p.str("mechanism"),
		Status:      p.str("status"),
		TargetGenes: p.strings("target_genes"),
	}
	cost, ok, err := p.number("annual_cost")
	if err != nil {
		return oncology.Therapy{}, fmt.Errorf("decode therapy %s: %w", name, err)
	}
	if ok {
		t.AnnualCost = &cost
	}
	return t, nil
}

func decodeDiagnostic(p props) (oncology.DiagnosticModality, error) {
	id, err := p.requireString("id")
	if err != nil {
		return oncology.DiagnosticModality{}, fmt.Errorf("decode diagnostic: %w", err)
	}
	return oncology.DiagnosticModality{
		ID:           id,
		Name:         p.str("name"),
		ModalityType: p.str("modality_type"),
		Invasiveness: p.str("invasiveness"),
	}, nil
}

func decodeActionability(p props, mutationID, indicationID string) (oncology.Actionability, error) {
	id, err := p.requireString("id")
	if err != nil {
		return oncology.Actionability{}, fmt.Errorf("decode actionability: %w", err)
	}
	return oncology.Actionability{
		ID:           id,
		MutationID:   mutationID,
		IndicationID: indicationID,
		Level:        p.str("level"),
		Evidence:     p.str("evidence"),
		Drugs:        p.strings("drugs"),
		FDAApproved:  p.boolean("fda_approved"),
	}, nil
}
