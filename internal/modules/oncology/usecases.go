package oncology

import (
	"context"

	"github.com/yungbote/oncograph-backend/internal/catalog"
	"github.com/yungbote/oncograph-backend/internal/data/graph"
	"github.com/yungbote/oncograph-backend/internal/modules/oncology/steps"
	"github.com/yungbote/oncograph-backend/internal/platform/logger"
)

type UsecasesDeps struct {
	Log   *logger.Logger
	Store graph.Store

	// Catalog is the registry of indications that may be discovered and imported.
	Catalog   *catalog.Catalog
	Generator steps.BundleGenerator
}

type Usecases struct {
	deps UsecasesDeps
}

func New(deps UsecasesDeps) Usecases { return Usecases{deps: deps} }

func (u Usecases) WithLog(log *logger.Logger) Usecases {
	u.deps.Log = log
	return u
}

type (
	Totals                  = steps.Totals
	Estimate                = steps.Estimate
	CrossIndicationEstimate = steps.CrossIndicationEstimate

	ListIndicationsInput  = steps.ListIndicationsInput
	ListIndicationsOutput = steps.ListIndicationsOutput
	ListMutationsInput    = steps.ListMutationsInput
	ListMutationsOutput   = steps.ListMutationsOutput

	IndicationDossier = steps.IndicationDossier
	MutationDossier   = steps.MutationDossier

	AddIndicationResult = steps.AddIndicationResult
	ImportCounts        = steps.ImportCounts
)

func (u Usecases) readDeps() steps.ReadDeps {
	return steps.ReadDeps{Log: u.deps.Log, Store: u.deps.Store}
}

func (u Usecases) ListTopIndications(ctx context.Context, in ListIndicationsInput) (ListIndicationsOutput, error) {
	return steps.ListTopIndications(ctx, u.readDeps(), in)
}

func (u Usecases) ListAllMutations(ctx context.Context, in ListMutationsInput) (ListMutationsOutput, error) {
	return steps.ListAllMutations(ctx, u.readDeps(), in)
}

func (u Usecases) GetIndicationDossier(ctx context.Context, id string, regions []string) (*IndicationDossier, error) {
	return steps.ComposeIndicationDossier(ctx, u.readDeps(), steps.DossierInput{ID: id, Regions: regions})
}

func (u Usecases) GetMutationDossier(ctx context.Context, id string, regions []string) (*MutationDossier, error) {
	return steps.ComposeMutationDossier(ctx, u.readDeps(), steps.DossierInput{ID: id, Regions: regions})
}

func (u Usecases) AggregateIndicationTotals(ctx context.Context, indicationID string, regions []string) (Totals, error) {
	return steps.AggregateIndicationTotals(ctx, u.readDeps(), steps.IndicationTotalsInput{
		IndicationID: indicationID,
		Regions:      regions,
	})
}

func (u Usecases) EstimateMutationPatients(ctx context.Context, mutationID, indicationID string, regions []string) (Estimate, error) {
	return steps.EstimateMutationPatients(ctx, u.readDeps(), steps.MutationEstimateInput{
		MutationID:   mutationID,
		IndicationID: indicationID,
		Regions:      regions,
	})
}

func (u Usecases) AggregateAcrossIndications(ctx context.Context, mutationID string, regions []string) (CrossIndicationEstimate, error) {
	return steps.AggregateAcrossIndications(ctx, u.readDeps(), steps.CrossIndicationInput{
		MutationID: mutationID,
		Regions:    regions,
	})
}

func (u Usecases) FindUndiscoveredIndications(ctx context.Context, query string, limit int) ([]catalog.Entry, error) {
	return steps.FindUndiscovered(ctx, steps.DiscoveryDeps{
		Store:   u.deps.Store,
		Catalog: u.deps.Catalog,
	}, steps.DiscoveryInput{Query: query, Limit: limit})
}

func (u Usecases) AddIndication(ctx context.Context, name string) (AddIndicationResult, error) {
	return steps.AddIndication(ctx, steps.AddIndicationDeps{
		Log:       u.deps.Log,
		Store:     u.deps.Store,
		Catalog:   u.deps.Catalog,
		Generator: u.deps.Generator,
	}, steps.AddIndicationInput{Name: name})
}

// CatalogEntries lists the catalog, optionally narrowed by a case-insensitive substring.
func (u Usecases) CatalogEntries(query string) []catalog.Entry {
	return steps.FilterCatalog(u.deps.Catalog, query)
}
