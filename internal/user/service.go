package user

import (
	"fmt"
	"log/slog"

	"github.com/frahmantamala/nexus/internal/access"
	userDatamodel "github.com/frahmantamala/nexus/internal/core/datamodel/user"
	"golang.org/x/crypto/bcrypt"
)

type Repository interface {
	List(role string) ([]*userDatamodel.User, error)
	GetByID(id int64) (*userDatamodel.User, error)
	GetByEmail(email string) (*userDatamodel.User, error)
	Create(u *userDatamodel.User) error
	Update(u *userDatamodel.User) error
}

type DepartmentChecker interface {
	DepartmentExists(id int64) (bool, error)
}

type Service struct {
	repo        Repository
	departments DepartmentChecker
	bcryptCost  int
	logger      *slog.Logger
}

func NewService(repo Repository, departments DepartmentChecker, bcryptCost int, logger *slog.Logger) *Service {
	if bcryptCost < bcrypt.MinCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{
		repo:        repo,
		departments: departments,
		bcryptCost:  bcryptCost,
		logger:      logger,
	}
}

// List returns all users, optionally filtered by role, newest first.
func (s *Service) List(role string) ([]*User, error) {
	if role != "" {
		parsed, err := access.ParseRole(role)
		if err != nil {
			return nil, ErrInvalidRoleFilter
		}
		role = string(parsed)
	}
	rows, err := s.repo.List(role)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	users := make([]*User, 0, len(rows))
	for _, row := range rows {
		users = append(users, FromDataModel(row))
	}
	return users, nil
}

func (s *Service) GetByID(id int64) (*User, error) {
	row, err := s.repo.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}
	if row == nil {
		return nil, ErrUserNotFound
	}
	return FromDataModel(row), nil
}

// Create adds an account on behalf of an admin.
func (s *Service) Create(dto CreateUserDTO) (*User, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	role := access.Role(dto.Role)

	existing, err := s.repo.GetByEmail(NormalizeEmail(dto.Email))
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	if role == access.RoleOfficer {
		ok, err := s.departments.DepartmentExists(*dto.DepartmentID)
		if err != nil {
			return nil, fmt.Errorf("failed to check department: %w", err)
		}
		if !ok {
			return nil, ErrDepartmentNotFound
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(dto.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	u := NewUser(dto.Name, dto.Email, string(hash), role, dto.DepartmentID)
	row := ToDataModel(u)
	if err := s.repo.Create(row); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("user created", "user_id", row.ID, "role", role)
	return FromDataModel(row), nil
}

// Toggle flips the active flag. Admins cannot disable themselves.
func (s *Service) Toggle(actorID, id int64) (*User, error) {
	if actorID == id {
		return nil, ErrCannotToggleSelf
	}
	u, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	u.Toggle()
	if err := s.repo.Update(ToDataModel(u)); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	s.logger.Info("user toggled", "user_id", id, "is_active", u.IsActive, "by", actorID)
	return u, nil
}
