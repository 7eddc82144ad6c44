package graph

import (
	"context"

	"github.com/yungbote/oncograph-backend/internal/domain/oncology"
)

type Association struct {
	MutationID   string
	IndicationID string
}

// Reader exposes one traversal per relationship type. Every method tolerates zero
// matches: absent relationships yield an empty slice or a nil pointer, never an error.
type Reader interface {
	GetIndication(ctx context.Context, id string) (*oncology.Indication, error)
	ListIndications(ctx context.Context) ([]oncology.Indication, error)
	// IndicationNames returns every indication name and alias currently in the graph.
	IndicationNames(ctx context.Context) ([]string, error)

	IndicationMetrics(ctx context.Context, indicationID string) ([]oncology.EpidemiologyMetric, error)
	ListMetrics(ctx context.Context) ([]oncology.EpidemiologyMetric, error)
	IndicationTherapies(ctx context.Context, indicationID string) ([]oncology.Therapy, error)
	IndicationDiagnostics(ctx context.Context, indicationID string) ([]oncology.DiagnosticModality, error)
	IndicationPrevalences(ctx context.Context, indicationID string) ([]oncology.MutationPrevalence, error)

	// AssociatedMutations follows Mutation-[:ASSOCIATED_WITH]->Indication.
	AssociatedMutations(ctx context.Context, indicationID string) ([]oncology.Mutation, error)
	// ActionableMutations follows Mutation-[:HAS_ACTIONABILITY]->Actionability-[:ACTIONABLE_IN]->Indication.
	ActionableMutations(ctx context.Context, indicationID string) ([]oncology.Mutation, error)
	// PrevalentMutations follows Mutation-[:HAS_PREVALENCE]->MutationPrevalence-[:PREVALENCE_IN]->Indication.
	PrevalentMutations(ctx context.Context, indicationID string) ([]oncology.Mutation, error)

	GetMutation(ctx context.Context, id string) (*oncology.Mutation, error)
	ListMutations(ctx context.Context) ([]oncology.Mutation, error)
	MutationGene(ctx context.Context, mutationID string) (*oncology.Gene, error)
	MutationIndications(ctx context.Context, mutationID string) ([]oncology.Indication, error)
	// ListAssociations returns every Mutation-[:ASSOCIATED_WITH]->Indication edge.
	ListAssociations(ctx context.Context) ([]Association, error)
	MutationPrevalences(ctx context.Context, mutationID string) ([]oncology.MutationPrevalence, error)
	ListMutationPrevalences(ctx context.Context) ([]oncology.MutationPrevalence, error)
	MutationActionability(ctx context.Context, mutationID string) ([]oncology.Actionability, error)
	ListActionability(ctx context.Context) ([]oncology.Actionability, error)

	// TherapiesByNames matches names case-insensitively against therapy names and synonyms.
	TherapiesByNames(ctx context.Context, names []string) ([]oncology.Therapy, error)
}

// Writer is the upsert / append surface used by ingestion. Link methods fail when
// either endpoint is missing so a half-linked entity is never committed.
type Writer interface {
	UpsertIndication(ctx context.Context, ind oncology.Indication) error
	// EnsureGene creates the gene on first sight; an existing gene keeps its name.
	EnsureGene(ctx context.Context, gene oncology.Gene) error
	UpsertMutation(ctx context.Context, m oncology.Mutation) error
	LinkMutationGene(ctx context.Context, mutationID, symbol string) error
	LinkMutationIndication(ctx context.Context, mutationID, indicationID string) error
	UpsertTherapy(ctx context.Context, t oncology.Therapy) error
	LinkIndicationTherapy(ctx context.Context, indicationID, therapyID string) error
	UpsertDiagnostic(ctx context.Context, d oncology.DiagnosticModality) error
	LinkIndicationDiagnostic(ctx context.Context, indicationID, diagnosticID string) error
	// CreateEpidemiologyMetric always appends a new metric node; the region node is created lazily.
	CreateEpidemiologyMetric(ctx context.Context, m oncology.EpidemiologyMetric) error
	// CreateMutationPrevalence always appends a new prevalence node; the region node is created lazily.
	CreateMutationPrevalence(ctx context.Context, p oncology.MutationPrevalence) error
	UpsertActionability(ctx context.Context, a oncology.Actionability) error
}

// Store scopes every operation to one transaction. The transaction is committed when
// fn returns nil and rolled back otherwise; it is released on every exit path.
type Store interface {
	Read(ctx context.Context, fn func(ctx context.Context, r Reader) error) error
	Write(ctx context.Context, fn func(ctx context.Context, w Writer) error) error
	Close(ctx context.Context) error
}
