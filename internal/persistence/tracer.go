package persistence

import (
	"context"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/grievance-service/internal/observability"
)

// QueryTracer records query latency and failures per statement kind.
type QueryTracer struct{}

var _ pgx.QueryTracer = (*QueryTracer)(nil)

type traceKey struct{}

type traceStart struct {
	at    time.Time
	query string
}

// TraceQueryStart stamps the context with the start time.
func (t *QueryTracer) TraceQueryStart(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryStartData) context.Context {
	return context.WithValue(ctx, traceKey{}, traceStart{at: time.Now(), query: statementKind(data.SQL)})
}

// TraceQueryEnd observes the duration and counts errors.
func (t *QueryTracer) TraceQueryEnd(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryEndData) {
	start, ok := ctx.Value(traceKey{}).(traceStart)
	if !ok {
		return
	}
	observability.DBQueryDuration.WithLabelValues(start.query).Observe(time.Since(start.at).Seconds())
	if data.Err != nil && data.Err != pgx.ErrNoRows {
		observability.DBErrorsTotal.WithLabelValues(start.query).Inc()
	}
}

// statementKind returns the leading keyword so labels stay low-cardinality.
func statementKind(sql string) string {
	fields := strings.Fields(sql)
	if len(fields) == 0 {
		return "unknown"
	}
	switch kind := strings.ToUpper(fields[0]); kind {
	case "SELECT", "INSERT", "UPDATE", "DELETE", "WITH":
		return strings.ToLower(kind)
	default:
		return "other"
	}
}
