package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/grievance-service/internal/domain"
)

// StaffRepository reads and writes role assignments and the staff roster.
type StaffRepository interface {
	GetRole(ctx context.Context, userID string) (domain.Role, error)
	SetRole(ctx context.Context, assignment domain.RoleAssignment) error
	ListRoster(ctx context.Context) ([]domain.StaffMember, error)
}

type staffRepository struct {
	pool *pgxpool.Pool
}

// NewStaffRepository instantiates the repository.
func NewStaffRepository(pool *pgxpool.Pool) StaffRepository {
	return &staffRepository{pool: pool}
}

// GetRole returns pgx.ErrNoRows when the user has no role row.
func (r *staffRepository) GetRole(ctx context.Context, userID string) (domain.Role, error) {
	const query = `SELECT role FROM user_roles WHERE user_id=$1`
	var role domain.Role
	if err := r.pool.QueryRow(ctx, query, userID).Scan(&role); err != nil {
		return "", lookupError(err)
	}
	return role, nil
}

func (r *staffRepository) SetRole(ctx context.Context, assignment domain.RoleAssignment) error {
	const query = `
        INSERT INTO user_roles (user_id, role)
        VALUES ($1, $2)
        ON CONFLICT (user_id) DO UPDATE SET role = EXCLUDED.role`
	_, err := r.pool.Exec(ctx, query, assignment.UserID, assignment.Role)
	return err
}

// ListRoster returns every employee and admin with their profile details.
func (r *staffRepository) ListRoster(ctx context.Context) ([]domain.StaffMember, error) {
	const query = `
        SELECT p.id, p.email, p.name, ur.role
        FROM user_roles ur
        JOIN profiles p ON p.id = ur.user_id
        WHERE ur.role IN ('employee', 'admin')
        ORDER BY p.email ASC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.StaffMember
	for rows.Next() {
		var member domain.StaffMember
		if err := rows.Scan(
			&member.ID,
			&member.Email,
			&member.Name,
			&member.Role,
		); err != nil {
			return nil, err
		}
		result = append(result, member)
	}
	return result, rows.Err()
}
