package graph

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/yungbote/oncograph-backend/internal/domain/oncology"
	"github.com/yungbote/oncograph-backend/internal/platform/logger"
	"github.com/yungbote/oncograph-backend/internal/platform/neo4jdb"
)

// runner is satisfied by both explicit and managed neo4j transactions.
type runner interface {
	Run(ctx context.Context, cypher string, params map[string]any) (neo4j.ResultWithContext, error)
}

// Neo4jStore runs each operation in its own session and explicit transaction.
// Explicit transactions keep the driver's managed retry loop out of the picture.
type Neo4jStore struct {
	client *neo4jdb.Client
	log    *logger.Logger
	tracer trace.Tracer
}

func NewNeo4jStore(client *neo4jdb.Client, log *logger.Logger) (*Neo4jStore, error) {
	if client == nil || client.Driver == nil {
		return nil, fmt.Errorf("neo4j store: client required")
	}
	if log == nil {
		return nil, fmt.Errorf("neo4j store: logger required")
	}
	return &Neo4jStore{
		client: client,
		log:    log.With("component", "Neo4jStore"),
		tracer: otel.Tracer("github.com/yungbote/oncograph-backend/internal/data/graph"),
	}, nil
}

var schemaStatements = []string{
	`CREATE CONSTRAINT indication_id_unique IF NOT EXISTS FOR (i:Indication) REQUIRE i.id IS UNIQUE`,
	`CREATE CONSTRAINT gene_symbol_unique IF NOT EXISTS FOR (g:Gene) REQUIRE g.symbol IS UNIQUE`,
	`CREATE CONSTRAINT mutation_id_unique IF NOT EXISTS FOR (m:Mutation) REQUIRE m.id IS UNIQUE`,
	`CREATE CONSTRAINT therapy_id_unique IF NOT EXISTS FOR (t:Therapy) REQUIRE t.id IS UNIQUE`,
	`CREATE CONSTRAINT region_name_unique IF NOT EXISTS FOR (r:Region) REQUIRE r.name IS UNIQUE`,
	`CREATE CONSTRAINT diagnostic_id_unique IF NOT EXISTS FOR (d:DiagnosticModality) REQUIRE d.id IS UNIQUE`,
	`CREATE CONSTRAINT actionability_id_unique IF NOT EXISTS FOR (a:Actionability) REQUIRE a.id IS UNIQUE`,
	`CREATE INDEX epidemiology_metric_type_idx IF NOT EXISTS FOR (e:EpidemiologyMetric) ON (e.type)`,
	`CREATE INDEX indication_name_idx IF NOT EXISTS FOR (i:Indication) ON (i.name)`,
}

// EnsureSchema creates key constraints. Best-effort: restricted users may not be
// allowed to manage schema, so failures are logged and skipped.
func (s *Neo4jStore) EnsureSchema(ctx context.Context) {
	session := s.client.Driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeWrite,
		DatabaseName: s.client.Database,
	})
	defer session.Close(ctx)

	for _, stmt := range schemaStatements {
		res, err := session.Run(ctx, stmt, nil)
		if err != nil {
			s.log.Warn("neo4j schema init failed (continuing)", "error", err)
			continue
		}
		_, _ = res.Consume(ctx)
	}
}

func (s *Neo4jStore) Read(ctx context.Context, fn func(ctx context.Context, r Reader) error) error {
	return s.inTx(ctx, "graph.read", neo4j.AccessModeRead, func(ctx context.Context, tx runner) error {
		return fn(ctx, &neo4jReader{tx: tx})
	})
}

func (s *Neo4jStore) Write(ctx context.Context, fn func(ctx context.Context, w Writer) error) error {
	return s.inTx(ctx, "graph.write", neo4j.AccessModeWrite, func(ctx context.Context, tx runner) error {
		return fn(ctx, &neo4jWriter{tx: tx})
	})
}

func (s *Neo4jStore) Close(ctx context.Context) error {
	return s.client.Close(ctx)
}

func (s *Neo4jStore) inTx(ctx context.Context, op string, mode neo4j.AccessMode, fn func(ctx context.Context, tx runner) error) (err error) {
	ctx, span := s.tracer.Start(ctx, op, trace.WithAttributes(
		attribute.String("db.system", "neo4j"),
		attribute.String("db.name", s.client.Database),
	))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, string(oncology.CodeOf(err)))
		}
		span.End()
	}()

	session := s.client.Driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   mode,
		DatabaseName: s.client.Database,
	})
	defer session.Close(ctx)

	tx, err := session.BeginTransaction(ctx)
	if err != nil {
		return MapError(op, err)
	}
	// Close rolls back unless Commit already succeeded.
	defer func() { _ = tx.Close(ctx) }()

	if err := fn(ctx, tx); err != nil {
		return MapError(op, err)
	}
	if err := tx.Commit(ctx); err != nil {
		s.log.Warn("neo4j commit failed", "op", op, "error", err)
		return MapError(op, err)
	}
	return nil
}

func collect(ctx context.Context, tx runner, cypher string, params map[string]any) ([]*neo4j.Record, error) {
	res, err := tx.Run(ctx, cypher, params)
	if err != nil {
		return nil, err
	}
	return res.Collect(ctx)
}

// exec runs a write that must touch at least one matched row, otherwise an
// endpoint was missing and the write silently did nothing.
func exec(ctx context.Context, tx runner, op, ref string, cypher string, params map[string]any) error {
	records, err := collect(ctx, tx, cypher, params)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return oncology.NewError(oncology.CodeInvariantViolation, op, "referenced node missing: "+ref, nil)
	}
	return nil
}
