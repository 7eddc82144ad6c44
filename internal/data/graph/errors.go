package graph

import (
	"context"
	"errors"
	"strings"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/yungbote/oncograph-backend/internal/domain/oncology"
)

// MapError classifies store failures into oncology error codes. Coded errors pass through.
func MapError(op string, err error) error {
	if err == nil {
		return nil
	}
	var coded *oncology.Error
	if errors.As(err, &coded) {
		return err
	}
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return oncology.Wrap(oncology.CodeStoreUnavailable, op, err)
	case neo4j.IsConnectivityError(err), neo4j.IsTransactionExecutionLimit(err):
		return oncology.Wrap(oncology.CodeStoreUnavailable, op, err)
	}

	var nerr *neo4j.Neo4jError
	if errors.As(err, &nerr) {
		code := strings.TrimSpace(nerr.Code)
		switch {
		case strings.HasPrefix(code, "Neo.TransientError."):
			return oncology.Wrap(oncology.CodeStoreUnavailable, op, err)
		case code == "Neo.ClientError.Schema.ConstraintValidationFailed":
			return oncology.Wrap(oncology.CodeInvariantViolation, op, err)
		case strings.HasPrefix(code, "Neo.ClientError.Security."):
			return oncology.Wrap(oncology.CodeStoreUnavailable, op, err)
		}
	}
	if neo4j.IsRetryable(err) {
		return oncology.Wrap(oncology.CodeStoreUnavailable, op, err)
	}
	return oncology.Wrap(oncology.CodeInternal, op, err)
}
