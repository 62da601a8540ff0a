package request

import "context"

type ActiveCount struct {
	Total  int64 `json:"total" db:"total"`
	Active int64 `json:"active" db:"active"`
}

type StatusCounts struct {
	Total    int64 `json:"total" db:"total"`
	Pending  int64 `json:"pending" db:"pending"`
	Accepted int64 `json:"accepted" db:"accepted"`
	Rejected int64 `json:"rejected" db:"rejected"`
}

type DepartmentCount struct {
	DepartmentID int64  `json:"departmentId" db:"department_id"`
	Name         string `json:"name" db:"name"`
	Count        int64  `json:"count" db:"count"`
}

type UserCount struct {
	Total int64 `json:"total"`
}

type AdminStats struct {
	Departments          ActiveCount       `json:"departments"`
	Services             ActiveCount       `json:"services"`
	Users                UserCount         `json:"users"`
	Requests             StatusCounts      `json:"requests"`
	RequestsByDepartment []DepartmentCount `json:"requestsByDepartment"`
	RecentRequests       []*Request        `json:"recentRequests"`
}

// StatsReader is the aggregate read model behind the dashboards.
type StatsReader interface {
	CountDepartments(ctx context.Context) (ActiveCount, error)
	CountServices(ctx context.Context) (ActiveCount, error)
	CountUsers(ctx context.Context) (int64, error)
	CountRequests(ctx context.Context, departmentID int64) (StatusCounts, error)
	CountRequestsByDepartment(ctx context.Context) ([]DepartmentCount, error)
}
