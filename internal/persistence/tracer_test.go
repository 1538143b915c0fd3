package persistence

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/spec-kit/grievance-service/internal/config"
	"github.com/spec-kit/grievance-service/internal/observability"
)

func TestStatementKind(t *testing.T) {
	assert.Equal(t, "select", statementKind("\n\tSELECT id FROM grievances"))
	assert.Equal(t, "insert", statementKind("insert into comments"))
	assert.Equal(t, "other", statementKind("CREATE TABLE x"))
	assert.Equal(t, "unknown", statementKind("   "))
}

func TestQueryTracer_CountsErrorsButNotNoRows(t *testing.T) {
	tracer := &QueryTracer{}
	errs := observability.DBErrorsTotal.WithLabelValues("update")
	before := testutil.ToFloat64(errs)

	ctx := tracer.TraceQueryStart(context.Background(), nil, pgx.TraceQueryStartData{SQL: "UPDATE grievances SET status = $1"})
	tracer.TraceQueryEnd(ctx, nil, pgx.TraceQueryEndData{Err: pgx.ErrNoRows})
	assert.Equal(t, before, testutil.ToFloat64(errs))

	ctx = tracer.TraceQueryStart(context.Background(), nil, pgx.TraceQueryStartData{SQL: "UPDATE grievances SET status = $1"})
	tracer.TraceQueryEnd(ctx, nil, pgx.TraceQueryEndData{Err: errors.New("deadlock detected")})
	assert.Equal(t, before+1, testutil.ToFloat64(errs))
}

func TestNewPostgres_RequiresDSN(t *testing.T) {
	_, err := NewPostgres(context.Background(), config.PostgresConfig{}, nil)
	assert.ErrorIs(t, err, ErrNoDSN)
}
