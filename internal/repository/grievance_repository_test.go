package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/grievance-service/internal/domain"
)

type errRow struct{ err error }

func (r errRow) Scan(...any) error { return r.err }

type call struct {
	sql  string
	args []any
}

// recordingDB answers every QueryRow with rowErr and remembers what was sent.
type recordingDB struct {
	rowErr error
	calls  []call
}

func (d *recordingDB) QueryRow(_ context.Context, sql string, args ...any) pgx.Row {
	d.calls = append(d.calls, call{sql: sql, args: args})
	return errRow{err: d.rowErr}
}

func (d *recordingDB) Query(_ context.Context, sql string, args ...any) (pgx.Rows, error) {
	d.calls = append(d.calls, call{sql: sql, args: args})
	return nil, d.rowErr
}

func TestBuildListQuery_NoFilter(t *testing.T) {
	query, args := buildListQuery(GrievanceFilter{})

	assert.Contains(t, query, "WHERE 1=1 ORDER BY created_at DESC")
	assert.NotContains(t, query, "LIMIT")
	assert.Empty(t, args)
}

func TestBuildListQuery_PlaceholdersFollowArgOrder(t *testing.T) {
	user := "u-1"
	assignee := "emp-1"
	query, args := buildListQuery(GrievanceFilter{
		UserID:     &user,
		AssignedTo: &assignee,
		IDs:        []string{"a", "b"},
		Statuses:   []domain.Status{domain.StatusPending, domain.StatusInProgress},
		Priorities: []domain.Priority{domain.PriorityHigh},
		Categories: []domain.Category{domain.CategoryIT, domain.CategoryFinance},
		Limit:      20,
		Offset:     40,
	})

	assert.Contains(t, query, "user_id=$1 AND assigned_to=$2 AND id::text = ANY($3)")
	assert.Contains(t, query, "status IN ($4,$5)")
	assert.Contains(t, query, "priority IN ($6)")
	assert.Contains(t, query, "category IN ($7,$8)")
	assert.Contains(t, query, "LIMIT 20 OFFSET 40")
	require.Len(t, args, 8)
	assert.Equal(t, []any{
		"u-1", "emp-1", []string{"a", "b"},
		string(domain.StatusPending), string(domain.StatusInProgress),
		string(domain.PriorityHigh),
		string(domain.CategoryIT), string(domain.CategoryFinance),
	}, args)
}

func TestBuildListQuery_NegativeOffsetClamped(t *testing.T) {
	query, _ := buildListQuery(GrievanceFilter{Limit: 5, Offset: -3})
	assert.Contains(t, query, "LIMIT 5 OFFSET 0")
}

func TestGrievanceCreate_TicketCollisionMapsToSentinel(t *testing.T) {
	db := &recordingDB{rowErr: &pgconn.PgError{Code: "23505", ConstraintName: "grievances_ticket_id_key"}}
	repo := &grievanceRepository{db: db}

	err := repo.Create(context.Background(), &domain.Grievance{TicketID: "GRV-2024-ABCDEF"})

	assert.ErrorIs(t, err, ErrDuplicateTicketID)
	require.Len(t, db.calls, 1)
	assert.Equal(t, "GRV-2024-ABCDEF", db.calls[0].args[0])
}

func TestGrievanceCreate_OtherUniqueViolationPassesThrough(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23505", ConstraintName: "grievances_pkey"}
	repo := &grievanceRepository{db: &recordingDB{rowErr: pgErr}}

	err := repo.Create(context.Background(), &domain.Grievance{TicketID: "GRV-2024-ABCDEF"})

	assert.NotErrorIs(t, err, ErrDuplicateTicketID)
	assert.ErrorAs(t, err, &pgErr)
}

func TestGrievanceUpdates_WriteOneColumn(t *testing.T) {
	db := &recordingDB{rowErr: pgx.ErrNoRows}
	repo := &grievanceRepository{db: db}
	assignee := "emp-1"

	_, err := repo.UpdateStatus(context.Background(), "g1", domain.StatusResolved)
	assert.ErrorIs(t, err, pgx.ErrNoRows)
	_, err = repo.UpdateAssignee(context.Background(), "g1", &assignee)
	assert.ErrorIs(t, err, pgx.ErrNoRows)

	require.Len(t, db.calls, 2)
	assert.Contains(t, db.calls[0].sql, "SET status=$1, updated_at=NOW() WHERE id=$2")
	assert.NotContains(t, db.calls[0].sql, "assigned_to=")
	assert.Equal(t, []any{domain.StatusResolved, "g1"}, db.calls[0].args)

	assert.Contains(t, db.calls[1].sql, "SET assigned_to=$1, updated_at=NOW() WHERE id=$2")
	assert.NotContains(t, db.calls[1].sql, "status=")
	assert.Equal(t, []any{&assignee, "g1"}, db.calls[1].args)
}

func TestMalformedIDReadsAsMissing(t *testing.T) {
	malformed := &pgconn.PgError{Code: "22P02", Message: `invalid input syntax for type uuid: "abc"`}
	ctx := context.Background()

	grievances := &grievanceRepository{db: &recordingDB{rowErr: malformed}}
	_, err := grievances.GetByID(ctx, "abc")
	assert.ErrorIs(t, err, pgx.ErrNoRows)
	_, err = grievances.UpdateStatus(ctx, "abc", domain.StatusClosed)
	assert.ErrorIs(t, err, pgx.ErrNoRows)
	_, err = grievances.UpdateAssignee(ctx, "abc", nil)
	assert.ErrorIs(t, err, pgx.ErrNoRows)

	profiles := &profileRepository{db: &recordingDB{rowErr: malformed}}
	_, err = profiles.GetByID(ctx, "abc")
	assert.ErrorIs(t, err, pgx.ErrNoRows)
}

func TestLookupError_KeepsOtherErrors(t *testing.T) {
	boom := errors.New("connection reset")
	assert.Equal(t, boom, lookupError(boom))

	fk := &pgconn.PgError{Code: "23503"}
	assert.Equal(t, error(fk), lookupError(fk))
	assert.Nil(t, lookupError(nil))
}

func TestProfileCreate_DuplicateEmail(t *testing.T) {
	repo := &profileRepository{db: &recordingDB{rowErr: &pgconn.PgError{Code: "23505", ConstraintName: "profiles_email_key"}}}

	err := repo.Create(context.Background(), &domain.Profile{Email: "a@example.com"})

	assert.ErrorIs(t, err, ErrDuplicateEmail)
}
