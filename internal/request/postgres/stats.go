package postgres

import (
	"context"

	"github.com/frahmantamala/nexus/internal/request"
	"github.com/jmoiron/sqlx"
)

// StatsRepository reads dashboard aggregates with plain SQL.
type StatsRepository struct {
	db *sqlx.DB
}

func NewStatsRepository(db *sqlx.DB) request.StatsReader {
	return &StatsRepository{db: db}
}

const activeCountQuery = `SELECT COUNT(*) AS total, COALESCE(SUM(CASE WHEN is_active THEN 1 ELSE 0 END), 0) AS active FROM `

func (r *StatsRepository) CountDepartments(ctx context.Context) (request.ActiveCount, error) {
	var c request.ActiveCount
	err := r.db.GetContext(ctx, &c, activeCountQuery+"departments")
	return c, err
}

func (r *StatsRepository) CountServices(ctx context.Context) (request.ActiveCount, error) {
	var c request.ActiveCount
	err := r.db.GetContext(ctx, &c, activeCountQuery+"services")
	return c, err
}

func (r *StatsRepository) CountUsers(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM users`)
	return n, err
}

// CountRequests counts by status; departmentID 0 counts every department.
func (r *StatsRepository) CountRequests(ctx context.Context, departmentID int64) (request.StatusCounts, error) {
	query := `SELECT COUNT(*) AS total,
		COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS pending,
		COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS accepted,
		COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS rejected
		FROM requests`
	args := []interface{}{request.StatusPending, request.StatusAccepted, request.StatusRejected}
	if departmentID > 0 {
		query += ` WHERE department_id = ?`
		args = append(args, departmentID)
	}

	var c request.StatusCounts
	err := r.db.GetContext(ctx, &c, r.db.Rebind(query), args...)
	return c, err
}

func (r *StatsRepository) CountRequestsByDepartment(ctx context.Context) ([]request.DepartmentCount, error) {
	var rows []request.DepartmentCount
	err := r.db.SelectContext(ctx, &rows, `SELECT d.id AS department_id, d.name AS name, COUNT(r.id) AS count
		FROM departments d
		LEFT JOIN requests r ON r.department_id = d.id
		GROUP BY d.id, d.name
		ORDER BY count DESC, d.name ASC`)
	return rows, err
}
