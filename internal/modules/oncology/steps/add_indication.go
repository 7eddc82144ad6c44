package steps

import (
	"context"
	"strings"

	"github.com/yungbote/oncograph-backend/internal/catalog"
	"github.com/yungbote/oncograph-backend/internal/data/graph"
	"github.com/yungbote/oncograph-backend/internal/domain/oncology"
	"github.com/yungbote/oncograph-backend/internal/platform/logger"
)

// BundleGenerator produces candidate graph records for a catalog entry.
type BundleGenerator interface {
	Generate(entry catalog.Entry) oncology.Bundle
}

type AddIndicationDeps struct {
	Log       *logger.Logger
	Store     graph.Store
	Catalog   *catalog.Catalog
	Generator BundleGenerator
}

type AddIndicationInput struct {
	Name string
}

type AddIndicationResult struct {
	Success        bool         `json:"success"`
	IndicationName string       `json:"indication_name"`
	IndicationID   string       `json:"indication_id"`
	Counts         ImportCounts `json:"counts"`
}

// AddIndication generates research data for a catalog indication and imports it.
// Names outside the catalog are rejected before anything is generated.
func AddIndication(ctx context.Context, deps AddIndicationDeps, in AddIndicationInput) (AddIndicationResult, error) {
	const op = "oncology.add_indication"
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return AddIndicationResult{}, oncology.Validation(op, "name is required")
	}
	entry, ok := deps.Catalog.Lookup(name)
	if !ok {
		return AddIndicationResult{}, oncology.NewError(oncology.CodeUnknownCatalogEntry, op, "no catalog entry named "+name, nil)
	}

	bundle := deps.Generator.Generate(entry)
	counts, err := ImportBundle(ctx, IngestDeps{Log: deps.Log, Store: deps.Store}, bundle)
	if err != nil {
		return AddIndicationResult{}, err
	}
	return AddIndicationResult{
		Success:        true,
		IndicationName: entry.Name,
		IndicationID:   bundle.Indication.ID,
		Counts:         counts,
	}, nil
}
