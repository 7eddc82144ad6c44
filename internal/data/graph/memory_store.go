package graph

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/yungbote/oncograph-backend/internal/domain/oncology"
)

type edge struct {
	from string
	to   string
}

type memState struct {
	indications   map[string]oncology.Indication
	genes         map[string]oncology.Gene
	mutations     map[string]oncology.Mutation
	therapies     map[string]oncology.Therapy
	diagnostics   map[string]oncology.DiagnosticModality
	actionability map[string]oncology.Actionability
	regions       map[string]struct{}
	metrics       []oncology.EpidemiologyMetric
	prevalences   []oncology.MutationPrevalence

	memberOf    map[string]string // mutation id -> gene symbol
	associated  map[edge]struct{} // mutation -> indication
	treatedBy   map[edge]struct{} // indication -> therapy
	diagnosedBy map[edge]struct{} // indication -> diagnostic
}

func newMemState() *memState {
	return &memState{
		indications:   map[string]oncology.Indication{},
		genes:         map[string]oncology.Gene{},
		mutations:     map[string]oncology.Mutation{},
		therapies:     map[string]oncology.Therapy{},
		diagnostics:   map[string]oncology.DiagnosticModality{},
		actionability: map[string]oncology.Actionability{},
		regions:       map[string]struct{}{},
		memberOf:      map[string]string{},
		associated:    map[edge]struct{}{},
		treatedBy:     map[edge]struct{}{},
		diagnosedBy:   map[edge]struct{}{},
	}
}

func (s *memState) clone() *memState {
	out := newMemState()
	for k, v := range s.indications {
		out.indications[k] = v
	}
	for k, v := range s.genes {
		out.genes[k] = v
	}
	for k, v := range s.mutations {
		out.mutations[k] = v
	}
	for k, v := range s.therapies {
		out.therapies[k] = v
	}
	for k, v := range s.diagnostics {
		out.diagnostics[k] = v
	}
	for k, v := range s.actionability {
		out.actionability[k] = v
	}
	for k := range s.regions {
		out.regions[k] = struct{}{}
	}
	out.metrics = append([]oncology.EpidemiologyMetric(nil), s.metrics...)
	out.prevalences = append([]oncology.MutationPrevalence(nil), s.prevalences...)
	for k, v := range s.memberOf {
		out.memberOf[k] = v
	}
	for k := range s.associated {
		out.associated[k] = struct{}{}
	}
	for k := range s.treatedBy {
		out.treatedBy[k] = struct{}{}
	}
	for k := range s.diagnosedBy {
		out.diagnosedBy[k] = struct{}{}
	}
	return out
}

// MemoryStore is an in-process Store used for local development and tests. Reads
// share a snapshot under a read lock; writes run against a private copy that
// replaces the live state only when the write function succeeds.
type MemoryStore struct {
	mu    sync.RWMutex
	state *memState
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{state: newMemState()}
}

var _ Store = (*MemoryStore)(nil)

func (s *MemoryStore) Read(ctx context.Context, fn func(ctx context.Context, r Reader) error) error {
	if err := ctx.Err(); err != nil {
		return MapError("graph.read", err)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return MapError("graph.read", fn(ctx, &memReader{s: s.state}))
}

func (s *MemoryStore) Write(ctx context.Context, fn func(ctx context.Context, w Writer) error) error {
	if err := ctx.Err(); err != nil {
		return MapError("graph.write", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	draft := s.state.clone()
	if err := fn(ctx, &memWriter{s: draft}); err != nil {
		return MapError("graph.write", err)
	}
	s.state = draft
	return nil
}

func (s *MemoryStore) Close(context.Context) error { return nil }

// NodeCounts reports how many nodes of each label the store holds.
type NodeCounts struct {
	Indications   int
	Genes         int
	Mutations     int
	Therapies     int
	Diagnostics   int
	Regions       int
	Metrics       int
	Prevalences   int
	Actionability int
}

func (s *MemoryStore) Counts() NodeCounts {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return NodeCounts{
		Indications:   len(s.state.indications),
		Genes:         len(s.state.genes),
		Mutations:     len(s.state.mutations),
		Therapies:     len(s.state.therapies),
		Diagnostics:   len(s.state.diagnostics),
		Regions:       len(s.state.regions),
		Metrics:       len(s.state.metrics),
		Prevalences:   len(s.state.prevalences),
		Actionability: len(s.state.actionability),
	}
}

type memReader struct {
	s *memState
}

var _ Reader = (*memReader)(nil)

func (r *memReader) GetIndication(_ context.Context, id string) (*oncology.Indication, error) {
	ind, ok := r.s.indications[id]
	if !ok {
		return nil, nil
	}
	return &ind, nil
}

func (r *memReader) ListIndications(context.Context) ([]oncology.Indication, error) {
	out := make([]oncology.Indication, 0, len(r.s.indications))
	for _, ind := range r.s.indications {
		out = append(out, ind)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *memReader) IndicationNames(context.Context) ([]string, error) {
	var out []string
	for _, ind := range r.s.indications {
		out = append(out, ind.Name)
		out = append(out, ind.Aliases...)
	}
	return out, nil
}

func (r *memReader) IndicationMetrics(_ context.Context, indicationID string) ([]oncology.EpidemiologyMetric, error) {
	var out []oncology.EpidemiologyMetric
	for _, m := range r.s.metrics {
		if m.IndicationID == indicationID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *memReader) ListMetrics(context.Context) ([]oncology.EpidemiologyMetric, error) {
	return append([]oncology.EpidemiologyMetric(nil), r.s.metrics...), nil
}

func (r *memReader) IndicationTherapies(_ context.Context, indicationID string) ([]oncology.Therapy, error) {
	var out []oncology.Therapy
	for e := range r.s.treatedBy {
		if e.from != indicationID {
			continue
		}
		if t, ok := r.s.therapies[e.to]; ok {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *memReader) IndicationDiagnostics(_ context.Context, indicationID string) ([]oncology.DiagnosticModality, error) {
	var out []oncology.DiagnosticModality
	for e := range r.s.diagnosedBy {
		if e.from != indicationID {
			continue
		}
		if d, ok := r.s.diagnostics[e.to]; ok {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *memReader) IndicationPrevalences(_ context.Context, indicationID string) ([]oncology.MutationPrevalence, error) {
	var out []oncology.MutationPrevalence
	for _, p := range r.s.prevalences {
		if p.IndicationID == indicationID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *memReader) mutationsByID(ids map[string]struct{}) []oncology.Mutation {
	out := make([]oncology.Mutation, 0, len(ids))
	for id := range ids {
		if m, ok := r.s.mutations[id]; ok {
			out = append(out, r.withGene(m))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (r *memReader) withGene(m oncology.Mutation) oncology.Mutation {
	if sym, ok := r.s.memberOf[m.ID]; ok && sym != "" {
		m.GeneSymbol = sym
	}
	return m
}

func (r *memReader) AssociatedMutations(_ context.Context, indicationID string) ([]oncology.Mutation, error) {
	ids := map[string]struct{}{}
	for e := range r.s.associated {
		if e.to == indicationID {
			ids[e.from] = struct{}{}
		}
	}
	return r.mutationsByID(ids), nil
}

func (r *memReader) ActionableMutations(_ context.Context, indicationID string) ([]oncology.Mutation, error) {
	ids := map[string]struct{}{}
	for _, a := range r.s.actionability {
		if a.IndicationID == indicationID {
			ids[a.MutationID] = struct{}{}
		}
	}
	return r.mutationsByID(ids), nil
}

func (r *memReader) PrevalentMutations(_ context.Context, indicationID string) ([]oncology.Mutation, error) {
	ids := map[string]struct{}{}
	for _, p := range r.s.prevalences {
		if p.IndicationID == indicationID {
			ids[p.MutationID] = struct{}{}
		}
	}
	return r.mutationsByID(ids), nil
}

func (r *memReader) GetMutation(_ context.Context, id string) (*oncology.Mutation, error) {
	m, ok := r.s.mutations[id]
	if !ok {
		return nil, nil
	}
	m = r.withGene(m)
	return &m, nil
}

func (r *memReader) ListMutations(context.Context) ([]oncology.Mutation, error) {
	ids := make(map[string]struct{}, len(r.s.mutations))
	for id := range r.s.mutations {
		ids[id] = struct{}{}
	}
	return r.mutationsByID(ids), nil
}

func (r *memReader) MutationGene(_ context.Context, mutationID string) (*oncology.Gene, error) {
	sym, ok := r.s.memberOf[mutationID]
	if !ok {
		return nil, nil
	}
	g, ok := r.s.genes[sym]
	if !ok {
		return nil, nil
	}
	return &g, nil
}

func (r *memReader) MutationIndications(_ context.Context, mutationID string) ([]oncology.Indication, error) {
	var out []oncology.Indication
	for e := range r.s.associated {
		if e.from != mutationID {
			continue
		}
		if ind, ok := r.s.indications[e.to]; ok {
			out = append(out, ind)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *memReader) ListAssociations(context.Context) ([]Association, error) {
	out := make([]Association, 0, len(r.s.associated))
	for e := range r.s.associated {
		out = append(out, Association{MutationID: e.from, IndicationID: e.to})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].MutationID != out[j].MutationID {
			return out[i].MutationID < out[j].MutationID
		}
		return out[i].IndicationID < out[j].IndicationID
	})
	return out, nil
}

func (r *memReader) MutationPrevalences(_ context.Context, mutationID string) ([]oncology.MutationPrevalence, error) {
	var out []oncology.MutationPrevalence
	for _, p := range r.s.prevalences {
		if p.MutationID == mutationID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *memReader) ListMutationPrevalences(context.Context) ([]oncology.MutationPrevalence, error) {
	return append([]oncology.MutationPrevalence(nil), r.s.prevalences...), nil
}

func (r *memReader) MutationActionability(_ context.Context, mutationID string) ([]oncology.Actionability, error) {
	var out []oncology.Actionability
	for _, a := range r.s.actionability {
		if a.MutationID == mutationID {
			out = append(out, a)
		}
	}
	sortActionability(out)
	return out, nil
}

func (r *memReader) ListActionability(context.Context) ([]oncology.Actionability, error) {
	out := make([]oncology.Actionability, 0, len(r.s.actionability))
	for _, a := range r.s.actionability {
		out = append(out, a)
	}
	sortActionability(out)
	return out, nil
}

func sortActionability(in []oncology.Actionability) {
	sort.Slice(in, func(i, j int) bool {
		if in[i].Level != in[j].Level {
			return in[i].Level < in[j].Level
		}
		return in[i].ID < in[j].ID
	})
}

func (r *memReader) TherapiesByNames(_ context.Context, names []string) ([]oncology.Therapy, error) {
	want := map[string]struct{}{}
	for _, n := range names {
		if n = strings.ToLower(strings.TrimSpace(n)); n != "" {
			want[n] = struct{}{}
		}
	}
	var out []oncology.Therapy
	for _, t := range r.s.therapies {
		if therapyMatches(t, want) {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func therapyMatches(t oncology.Therapy, want map[string]struct{}) bool {
	if _, ok := want[strings.ToLower(t.Name)]; ok {
		return true
	}
	for _, syn := range t.Synonyms {
		if _, ok := want[strings.ToLower(syn)]; ok {
			return true
		}
	}
	return false
}

type memWriter struct {
	s *memState
}

var _ Writer = (*memWriter)(nil)

func missing(op, ref string) error {
	return oncology.NewError(oncology.CodeInvariantViolation, op, "referenced node missing: "+ref, nil)
}

func (w *memWriter) UpsertIndication(_ context.Context, ind oncology.Indication) error {
	ind.Aliases = append([]string(nil), ind.Aliases...)
	w.s.indications[ind.ID] = ind
	return nil
}

func (w *memWriter) EnsureGene(_ context.Context, gene oncology.Gene) error {
	if _, ok := w.s.genes[gene.Symbol]; ok {
		return nil
	}
	w.s.genes[gene.Symbol] = gene
	return nil
}

func (w *memWriter) UpsertMutation(_ context.Context, m oncology.Mutation) error {
	w.s.mutations[m.ID] = m
	return nil
}

func (w *memWriter) LinkMutationGene(_ context.Context, mutationID, symbol string) error {
	if _, ok := w.s.mutations[mutationID]; !ok {
		return missing("graph.link_mutation_gene", "mutation "+mutationID)
	}
	if _, ok := w.s.genes[symbol]; !ok {
		return missing("graph.link_mutation_gene", "gene "+symbol)
	}
	w.s.memberOf[mutationID] = symbol
	return nil
}

func (w *memWriter) LinkMutationIndication(_ context.Context, mutationID, indicationID string) error {
	if _, ok := w.s.mutations[mutationID]; !ok {
		return missing("graph.link_mutation_indication", "mutation "+mutationID)
	}
	if _, ok := w.s.indications[indicationID]; !ok {
		return missing("graph.link_mutation_indication", "indication "+indicationID)
	}
	w.s.associated[edge{from: mutationID, to: indicationID}] = struct{}{}
	return nil
}

func (w *memWriter) UpsertTherapy(_ context.Context, t oncology.Therapy) error {
	t.Synonyms = append([]string(nil), t.Synonyms...)
	t.TargetGenes = append([]string(nil), t.TargetGenes...)
	w.s.therapies[t.ID] = t
	return nil
}

func (w *memWriter) LinkIndicationTherapy(_ context.Context, indicationID, therapyID string) error {
	if _, ok := w.s.indications[indicationID]; !ok {
		return missing("graph.link_indication_therapy", "indication "+indicationID)
	}
	if _, ok := w.s.therapies[therapyID]; !ok {
		return missing("graph.link_indication_therapy", "therapy "+therapyID)
	}
	w.s.treatedBy[edge{from: indicationID, to: therapyID}] = struct{}{}
	return nil
}

func (w *memWriter) UpsertDiagnostic(_ context.Context, d oncology.DiagnosticModality) error {
	w.s.diagnostics[d.ID] = d
	return nil
}

func (w *memWriter) LinkIndicationDiagnostic(_ context.Context, indicationID, diagnosticID string) error {
	if _, ok := w.s.indications[indicationID]; !ok {
		return missing("graph.link_indication_diagnostic", "indication "+indicationID)
	}
	if _, ok := w.s.diagnostics[diagnosticID]; !ok {
		return missing("graph.link_indication_diagnostic", "diagnostic "+diagnosticID)
	}
	w.s.diagnosedBy[edge{from: indicationID, to: diagnosticID}] = struct{}{}
	return nil
}

func (w *memWriter) CreateEpidemiologyMetric(_ context.Context, m oncology.EpidemiologyMetric) error {
	if _, ok := w.s.indications[m.IndicationID]; !ok {
		return missing("graph.create_metric", "indication "+m.IndicationID)
	}
	w.s.regions[m.Region] = struct{}{}
	w.s.metrics = append(w.s.metrics, m)
	return nil
}

func (w *memWriter) CreateMutationPrevalence(_ context.Context, p oncology.MutationPrevalence) error {
	if _, ok := w.s.mutations[p.MutationID]; !ok {
		return missing("graph.create_mutation_prevalence", "mutation "+p.MutationID)
	}
	if _, ok := w.s.indications[p.IndicationID]; !ok {
		return missing("graph.create_mutation_prevalence", "indication "+p.IndicationID)
	}
	if p.Region == "" {
		p.Region = oncology.RegionGlobal
	}
	w.s.regions[p.Region] = struct{}{}
	w.s.prevalences = append(w.s.prevalences, p)
	return nil
}

func (w *memWriter) UpsertActionability(_ context.Context, a oncology.Actionability) error {
	if _, ok := w.s.mutations[a.MutationID]; !ok {
		return missing("graph.upsert_actionability", "mutation "+a.MutationID)
	}
	if _, ok := w.s.indications[a.IndicationID]; !ok {
		a.IndicationID = ""
	}
	a.Drugs = append([]string(nil), a.Drugs...)
	w.s.actionability[a.ID] = a
	return nil
}
