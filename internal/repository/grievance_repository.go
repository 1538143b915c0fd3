package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/grievance-service/internal/domain"
)

// ticketIDConstraint is the name Postgres gives the UNIQUE on grievances.ticket_id.
const ticketIDConstraint = "grievances_ticket_id_key"

// ErrDuplicateTicketID is returned by Create when the ticket id is already taken.
var ErrDuplicateTicketID = errors.New("ticket id already exists")

// GrievanceFilter captures listing parameters.
type GrievanceFilter struct {
	UserID     *string
	AssignedTo *string
	IDs        []string
	Statuses   []domain.Status
	Priorities []domain.Priority
	Categories []domain.Category
	Limit      int
	Offset     int
}

// GrievanceRepository encapsulates grievance persistence.
type GrievanceRepository interface {
	Create(ctx context.Context, grievance *domain.Grievance) error
	UpdateStatus(ctx context.Context, id string, status domain.Status) (*domain.Grievance, error)
	UpdateAssignee(ctx context.Context, id string, assignee *string) (*domain.Grievance, error)
	GetByID(ctx context.Context, id string) (*domain.Grievance, error)
	GetByTicketID(ctx context.Context, ticketID string) (*domain.Grievance, error)
	List(ctx context.Context, filter GrievanceFilter) ([]domain.Grievance, error)
}

type grievanceRepository struct {
	db querier
}

// NewGrievanceRepository instantiates repository.
func NewGrievanceRepository(pool *pgxpool.Pool) GrievanceRepository {
	return &grievanceRepository{db: pool}
}

const grievanceColumns = `id, ticket_id, user_id, category, title, description, sentiment, priority,
               status, assigned_to, file_url, created_at, updated_at`

func (r *grievanceRepository) Create(ctx context.Context, grievance *domain.Grievance) error {
	const query = `
        INSERT INTO grievances (ticket_id, user_id, category, title, description, sentiment, priority, status, assigned_to, file_url)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
        RETURNING id, created_at, updated_at`
	err := r.db.QueryRow(ctx, query,
		grievance.TicketID,
		grievance.UserID,
		grievance.Category,
		grievance.Title,
		grievance.Description,
		grievance.Sentiment,
		grievance.Priority,
		grievance.Status,
		grievance.AssignedTo,
		grievance.FileURL,
	).Scan(&grievance.ID, &grievance.CreatedAt, &grievance.UpdatedAt)
	if isUniqueViolation(err, ticketIDConstraint) {
		return ErrDuplicateTicketID
	}
	return err
}

// UpdateStatus writes only the status column and returns the row as stored,
// so a concurrent assignment is never overwritten.
func (r *grievanceRepository) UpdateStatus(ctx context.Context, id string, status domain.Status) (*domain.Grievance, error) {
	query := `UPDATE grievances SET status=$1, updated_at=NOW() WHERE id=$2 RETURNING ` + grievanceColumns
	return r.fetchSingle(ctx, query, status, id)
}

// UpdateAssignee writes only the assigned_to column. A nil assignee clears it.
func (r *grievanceRepository) UpdateAssignee(ctx context.Context, id string, assignee *string) (*domain.Grievance, error) {
	query := `UPDATE grievances SET assigned_to=$1, updated_at=NOW() WHERE id=$2 RETURNING ` + grievanceColumns
	return r.fetchSingle(ctx, query, assignee, id)
}

func (r *grievanceRepository) GetByID(ctx context.Context, id string) (*domain.Grievance, error) {
	query := `SELECT ` + grievanceColumns + ` FROM grievances WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *grievanceRepository) GetByTicketID(ctx context.Context, ticketID string) (*domain.Grievance, error) {
	query := `SELECT ` + grievanceColumns + ` FROM grievances WHERE ticket_id=$1`
	return r.fetchSingle(ctx, query, ticketID)
}

func (r *grievanceRepository) fetchSingle(ctx context.Context, query string, args ...any) (*domain.Grievance, error) {
	grievance, err := scanGrievance(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, lookupError(err)
	}
	return grievance, nil
}

func (r *grievanceRepository) List(ctx context.Context, filter GrievanceFilter) ([]domain.Grievance, error) {
	query, args := buildListQuery(filter)
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Grievance
	for rows.Next() {
		grievance, err := scanGrievance(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *grievance)
	}
	return result, rows.Err()
}

// buildListQuery renders the filter into SQL with positional placeholders
// numbered in the order args are appended.
func buildListQuery(filter GrievanceFilter) (string, []any) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.UserID != nil {
		args = append(args, *filter.UserID)
		clauses = append(clauses, fmt.Sprintf("user_id=$%d", len(args)))
	}
	if filter.AssignedTo != nil {
		args = append(args, *filter.AssignedTo)
		clauses = append(clauses, fmt.Sprintf("assigned_to=$%d", len(args)))
	}
	if len(filter.IDs) > 0 {
		args = append(args, filter.IDs)
		clauses = append(clauses, fmt.Sprintf("id::text = ANY($%d)", len(args)))
	}
	if len(filter.Statuses) > 0 {
		clauses = append(clauses, inClause("status", toAny(filter.Statuses), &args))
	}
	if len(filter.Priorities) > 0 {
		clauses = append(clauses, inClause("priority", toAny(filter.Priorities), &args))
	}
	if len(filter.Categories) > 0 {
		clauses = append(clauses, inClause("category", toAny(filter.Categories), &args))
	}

	query := fmt.Sprintf(`SELECT %s FROM grievances WHERE %s ORDER BY created_at DESC`,
		grievanceColumns, strings.Join(clauses, " AND "))
	if filter.Limit > 0 {
		offset := filter.Offset
		if offset < 0 {
			offset = 0
		}
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", filter.Limit, offset)
	}
	return query, args
}

func scanGrievance(row pgx.Row) (*domain.Grievance, error) {
	var g domain.Grievance
	if err := row.Scan(
		&g.ID,
		&g.TicketID,
		&g.UserID,
		&g.Category,
		&g.Title,
		&g.Description,
		&g.Sentiment,
		&g.Priority,
		&g.Status,
		&g.AssignedTo,
		&g.FileURL,
		&g.CreatedAt,
		&g.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &g, nil
}

func inClause(column string, values []any, args *[]any) string {
	placeholders := make([]string, len(values))
	for i, v := range values {
		*args = append(*args, v)
		placeholders[i] = fmt.Sprintf("$%d", len(*args))
	}
	return fmt.Sprintf("%s IN (%s)", column, strings.Join(placeholders, ","))
}

func toAny[T ~string](values []T) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}
