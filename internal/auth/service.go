package auth

import (
	"fmt"
	"log/slog"

	"github.com/frahmantamala/nexus/internal"
	"github.com/frahmantamala/nexus/internal/access"
	userDatamodel "github.com/frahmantamala/nexus/internal/core/datamodel/user"
	"github.com/frahmantamala/nexus/internal/user"
	"golang.org/x/crypto/bcrypt"
)

type UserRepository interface {
	GetCredentialsByEmail(email string) (*userDatamodel.User, error)
	GetActiveUser(id int64) (*userDatamodel.User, error)
	CreateUser(u *userDatamodel.User) error
}

// Service is the main auth service with dependencies
type Service struct {
	userRepo       UserRepository
	tokenGenerator TokenGenerator
	bcryptCost     int
	logger         *slog.Logger
}

// NewService creates a new auth service
func NewService(userRepo UserRepository, tokenGen TokenGenerator, bcryptCost int, logger *slog.Logger) *Service {
	if bcryptCost < bcrypt.MinCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{
		userRepo:       userRepo,
		tokenGenerator: tokenGen,
		bcryptCost:     bcryptCost,
		logger:         logger,
	}
}

// Register creates a citizen account and signs the caller in.
func (s *Service) Register(dto RegisterDTO) (*Result, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.userRepo.GetCredentialsByEmail(user.NormalizeEmail(dto.Email))
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if existing != nil {
		return nil, user.ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(dto.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	u := user.NewUser(dto.Name, dto.Email, string(hash), access.RoleCitizen, nil)
	row := user.ToDataModel(u)
	if err := s.userRepo.CreateUser(row); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("citizen registered", "user_id", row.ID)
	return s.issue(user.FromDataModel(row))
}

// Login validates credentials and returns a token
func (s *Service) Login(dto LoginDTO) (*Result, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	row, err := s.userRepo.GetCredentialsByEmail(user.NormalizeEmail(dto.Email))
	if err != nil {
		return nil, fmt.Errorf("failed to load credentials: %w", err)
	}
	if row == nil {
		return nil, internal.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(row.PasswordHash), []byte(dto.Password)); err != nil {
		return nil, internal.ErrInvalidCredentials
	}

	if !row.IsActive {
		return nil, internal.ErrUserInactive
	}

	return s.issue(user.FromDataModel(row))
}

func (s *Service) issue(u *user.User) (*Result, error) {
	token, err := s.tokenGenerator.GenerateAccessToken(u)
	if err != nil {
		return nil, internal.NewInternalError("failed to issue token", err)
	}
	return &Result{User: u, Token: token}, nil
}

// Authenticate turns a bearer token into the principal for the request.
// The user is reloaded so disabled accounts lose access immediately.
func (s *Service) Authenticate(tokenString string) (*internal.Principal, error) {
	if tokenString == "" {
		return nil, internal.ErrTokenMissing
	}
	claims, err := s.tokenGenerator.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}

	row, err := s.userRepo.GetActiveUser(claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if row == nil {
		return nil, internal.ErrUserInactive
	}

	return &internal.Principal{
		ID:           row.ID,
		Name:         row.Name,
		Email:        row.Email,
		Role:         access.Role(row.Role),
		DepartmentID: row.DepartmentID,
	}, nil
}

func (s *Service) Me(id int64) (*user.User, error) {
	row, err := s.userRepo.GetActiveUser(id)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if row == nil {
		return nil, user.ErrUserNotFound
	}
	return user.FromDataModel(row), nil
}
