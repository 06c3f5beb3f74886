package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yukikurage/farm-management-api/internal/constants"
	"github.com/yukikurage/farm-management-api/internal/models"
	"github.com/yukikurage/farm-management-api/internal/repository"
	"github.com/yukikurage/farm-management-api/internal/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrUsernameTaken          = errors.New("username already exists")
	ErrInvalidCredentials     = errors.New("invalid username or password")
	ErrPasswordTooShort       = errors.New("password too short")
	ErrUserNotFound           = errors.New("user not found")
	ErrFailedToHashPassword   = errors.New("failed to hash password")
	ErrFailedToCreateUser     = errors.New("failed to create user")
	ErrFailedToCreateCompany  = errors.New("failed to create company")
	ErrFailedToAddMember      = errors.New("failed to add user to company")
	ErrInvalidAccountType     = errors.New("account type must be admin or worker")
	ErrInvitationCodeRequired = errors.New("invitation code is required")
	ErrInvalidInvitationCode  = errors.New("invalid invitation code")
)

// Account types accepted at registration.
const (
	AccountTypeAdmin  = "admin"
	AccountTypeWorker = "worker"
)

// AuthService handles authentication related business logic.
type AuthService struct {
	userRepo       repository.UserRepository
	invitationRepo repository.InvitationRepository
	now            func() time.Time
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repository.UserRepository, invitationRepo repository.InvitationRepository) *AuthService {
	return &AuthService{
		userRepo:       userRepo,
		invitationRepo: invitationRepo,
		now:            time.Now,
	}
}

// RegisterInput represents the information needed to create an account.
// Admin accounts found a new company, worker accounts join one through an
// invitation code.
type RegisterInput struct {
	Username           string
	Password           string
	Email              string
	Name               string
	AccountType        string
	CompanyName        string
	CompanyDescription string
	CompanyAddress     string
	InvitationCode     string
}

// Register creates a new user and their first membership.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*models.User, error) {
	username := strings.TrimSpace(input.Username)
	if username == "" {
		return nil, fmt.Errorf("username is required")
	}
	if len(input.Password) < constants.MinPasswordLength {
		return nil, ErrPasswordTooShort
	}
	accountType := strings.ToLower(strings.TrimSpace(input.AccountType))
	if accountType == "" {
		accountType = AccountTypeAdmin
	}
	if accountType != AccountTypeAdmin && accountType != AccountTypeWorker {
		return nil, ErrInvalidAccountType
	}

	// Resolve the invitation before hashing so bad codes fail fast.
	var code *models.InvitationCode
	if accountType == AccountTypeWorker {
		var err error
		if code, err = s.redeemableCode(ctx, input.InvitationCode); err != nil {
			return nil, err
		}
	} else if strings.TrimSpace(input.CompanyName) == "" {
		return nil, ErrInvalidCompanyName
	}

	if _, err := s.userRepo.FindByUsername(ctx, username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, ErrFailedToHashPassword
	}

	user := &models.User{
		Username:     username,
		Email:        strings.TrimSpace(input.Email),
		Name:         strings.TrimSpace(input.Name),
		PasswordHash: string(hashedPassword),
	}

	if code != nil {
		if _, err := s.userRepo.RegisterWithInvitation(ctx, user, code, s.now()); err != nil {
			return nil, s.registrationError(err)
		}
		return user, nil
	}

	user.Role = models.RoleAdmin
	company := &models.Company{
		Name:        strings.TrimSpace(input.CompanyName),
		Description: input.CompanyDescription,
		Address:     input.CompanyAddress,
	}
	member := &models.CompanyMember{
		Role:        models.RoleAdmin,
		Permissions: models.RoleAdmin.DefaultPermissions(),
		JoinedAt:    s.now(),
	}
	if err := s.userRepo.RegisterWithCompany(ctx, user, company, member); err != nil {
		return nil, s.registrationError(err)
	}
	return user, nil
}

func (s *AuthService) redeemableCode(ctx context.Context, raw string) (*models.InvitationCode, error) {
	codeStr := utils.NormalizeInviteCode(raw)
	if codeStr == "" {
		return nil, ErrInvitationCodeRequired
	}
	code, err := s.invitationRepo.FindByCode(ctx, codeStr)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidInvitationCode
		}
		return nil, fmt.Errorf("failed to find invitation code: %w", err)
	}
	if err := code.Redeemable(s.now()); err != nil {
		return nil, err
	}
	return code, nil
}

func (s *AuthService) registrationError(err error) error {
	switch {
	case errors.Is(err, models.ErrInvitationExhausted),
		errors.Is(err, models.ErrInvitationExpired),
		errors.Is(err, models.ErrInvitationDeactivated):
		return err
	case errors.Is(err, repository.ErrCreateUser):
		return ErrFailedToCreateUser
	case errors.Is(err, repository.ErrCreateCompany):
		return ErrFailedToCreateCompany
	case errors.Is(err, repository.ErrCreateCompanyMember):
		return ErrFailedToAddMember
	default:
		return fmt.Errorf("failed to complete registration: %w", err)
	}
}

// LoginInput holds the credentials for authentication.
type LoginInput struct {
	Username string
	Password string
}

// Login verifies credentials, records the login time and returns the user.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*models.User, error) {
	user, err := s.userRepo.FindByUsername(ctx, strings.TrimSpace(input.Username))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	now := s.now()
	if err := s.userRepo.UpdateLastLogin(ctx, user.ID, now); err != nil {
		return nil, fmt.Errorf("failed to record login: %w", err)
	}
	user.LastLogin = &now

	return user, nil
}

// GetUser retrieves a user by ID.
func (s *AuthService) GetUser(ctx context.Context, id uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return user, nil
}
