package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/teafarmpro/teafarm-backend/pkg/auth"
	"github.com/teafarmpro/teafarm-backend/pkg/auth/session"
	"github.com/teafarmpro/teafarm-backend/pkg/config"
	"github.com/teafarmpro/teafarm-backend/pkg/db"
	"github.com/teafarmpro/teafarm-backend/pkg/db/models"
	"github.com/teafarmpro/teafarm-backend/pkg/enums"
	pkgerrors "github.com/teafarmpro/teafarm-backend/pkg/errors"
	"github.com/teafarmpro/teafarm-backend/pkg/security"
)

const (
	uniqueFarmerEmail   = "idx_farmers_email"
	uniqueFarmerPhone   = "idx_farmers_phone"
	uniqueEmployeePhone = "idx_employees_farmer_phone"
	uniqueEmployeeEmail = "idx_employees_email"
)

// invalidCredentials is the single error returned for every login failure
// so callers cannot probe which identities exist.
func invalidCredentials() error {
	return pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
}

type sessionManager interface {
	Generate(ctx context.Context, accessID string) (string, error)
	Rotate(ctx context.Context, oldAccessID, provided string) (string, string, error)
	Revoke(ctx context.Context, accessID string) error
}

type jobTypeCatalog interface {
	FindByID(ctx context.Context, farmerID, id uuid.UUID) (*models.Labour, error)
}

// Service covers farmer/employee registration, login, session lifecycle,
// and employee management.
type Service interface {
	RegisterFarmer(ctx context.Context, input RegisterFarmerInput) (*models.Farmer, error)
	Login(ctx context.Context, email, password string) (*TokenPair, error)
	Refresh(ctx context.Context, accessToken, refreshToken string) (*TokenPair, error)
	Logout(ctx context.Context, accessID string) error
	ChangePassword(ctx context.Context, principal auth.Principal, oldPassword, newPassword string) error

	RegisterEmployee(ctx context.Context, farmerID uuid.UUID, input RegisterEmployeeInput) (*models.Employee, error)
	GetEmployee(ctx context.Context, farmerID, employeeID uuid.UUID) (*models.Employee, error)
	ListEmployees(ctx context.Context, farmerID uuid.UUID) ([]models.Employee, error)
	UpdateEmployee(ctx context.Context, farmerID, employeeID uuid.UUID, input UpdateEmployeeInput) (*models.Employee, error)
	DeleteEmployee(ctx context.Context, farmerID, employeeID uuid.UUID) error
}

type service struct {
	repo      Repository
	sessions  sessionManager
	jobTypes  jobTypeCatalog
	jwtCfg    config.JWTConfig
	passwords config.PasswordConfig
	now       func() time.Time
}

// RegisterFarmerInput holds the fields accepted at farmer sign-up.
type RegisterFarmerInput struct {
	Name         string
	Phone        string
	Email        string
	Password     string
	FarmName     *string
	Location     *string
	TotalAcreage *float64
}

// RegisterEmployeeInput holds the fields accepted when a farmer adds a worker.
type RegisterEmployeeInput struct {
	Name      string
	Phone     string
	Email     *string
	Password  string
	JobTypeID uuid.UUID
}

// UpdateEmployeeInput carries partial updates; nil fields are left untouched.
type UpdateEmployeeInput struct {
	Name      *string
	Phone     *string
	Email     *string
	JobTypeID *uuid.UUID
	IsActive  *bool
}

// TokenPair is the result of a successful login or refresh.
type TokenPair struct {
	AccessToken  string         `json:"access_token"`
	RefreshToken string         `json:"refresh_token"`
	ExpiresIn    int            `json:"expires_in"`
	Principal    auth.Principal `json:"-"`
}

// NewService builds the identity service.
func NewService(repo Repository, sessions sessionManager, jobTypes jobTypeCatalog, jwtCfg config.JWTConfig, passwords config.PasswordConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("identity repository required")
	}
	if sessions == nil {
		return nil, fmt.Errorf("session manager required")
	}
	if jobTypes == nil {
		return nil, fmt.Errorf("job type catalog required")
	}
	return &service{
		repo:      repo,
		sessions:  sessions,
		jobTypes:  jobTypes,
		jwtCfg:    jwtCfg,
		passwords: passwords,
		now:       time.Now,
	}, nil
}

func (s *service) RegisterFarmer(ctx context.Context, input RegisterFarmerInput) (*models.Farmer, error) {
	name := strings.TrimSpace(input.Name)
	email := strings.ToLower(strings.TrimSpace(input.Email))
	phone := strings.TrimSpace(input.Phone)
	if name == "" || email == "" || phone == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name, phone, and email are required")
	}
	if input.Password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "password required")
	}

	if _, err := s.repo.FindFarmerByEmail(ctx, email); err == nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
	} else if !db.IsNotFound(err) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check farmer email")
	}
	if _, err := s.repo.FindFarmerByPhone(ctx, phone); err == nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "phone already registered")
	} else if !db.IsNotFound(err) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check farmer phone")
	}

	hash, err := security.HashPassword(input.Password, s.passwords)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	farmer := &models.Farmer{
		Name:         name,
		Phone:        phone,
		Email:        email,
		FarmName:     input.FarmName,
		Location:     input.Location,
		TotalAcreage: input.TotalAcreage,
		PasswordHash: hash,
	}
	created, err := s.repo.CreateFarmer(ctx, farmer)
	if err != nil {
		if db.IsUniqueViolation(err, uniqueFarmerEmail) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
		}
		if db.IsUniqueViolation(err, uniqueFarmerPhone) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "phone already registered")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create farmer")
	}
	return created, nil
}

func (s *service) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, invalidCredentials()
	}

	principal, hash, err := s.resolveLoginIdentity(ctx, email)
	if err != nil {
		return nil, err
	}

	ok, err := security.VerifyPassword(password, hash)
	if err != nil || !ok {
		return nil, invalidCredentials()
	}

	pair, err := s.issueTokens(ctx, principal)
	if err != nil {
		return nil, err
	}

	s.recordLogin(ctx, principal)
	return pair, nil
}

func (s *service) resolveLoginIdentity(ctx context.Context, email string) (auth.Principal, string, error) {
	farmer, err := s.repo.FindFarmerByEmail(ctx, email)
	if err == nil {
		principal := auth.Principal{
			Kind:     enums.PrincipalKindFarmer,
			ID:       farmer.ID,
			FarmerID: farmer.ID,
		}
		return principal, farmer.PasswordHash, nil
	}
	if !db.IsNotFound(err) {
		return auth.Principal{}, "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load farmer")
	}

	employee, err := s.repo.FindEmployeeByEmail(ctx, email)
	if err != nil {
		if db.IsNotFound(err) {
			return auth.Principal{}, "", invalidCredentials()
		}
		return auth.Principal{}, "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load employee")
	}
	if !employee.IsActive {
		return auth.Principal{}, "", invalidCredentials()
	}
	principal := auth.Principal{
		Kind:     enums.PrincipalKindEmployee,
		ID:       employee.ID,
		FarmerID: employee.FarmerID,
	}
	return principal, employee.PasswordHash, nil
}

func (s *service) issueTokens(ctx context.Context, principal auth.Principal) (*TokenPair, error) {
	accessID := session.NewAccessID()
	accessToken, err := auth.MintAccessToken(s.jwtCfg, s.now(), auth.AccessTokenPayload{
		Principal: principal,
		JTI:       accessID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint access token")
	}

	refreshToken, err := s.sessions.Generate(ctx, accessID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create session")
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    s.jwtCfg.ExpirationMinutes * 60,
		Principal:    principal,
	}, nil
}

func (s *service) recordLogin(ctx context.Context, principal auth.Principal) {
	updates := map[string]any{"last_login_at": s.now().UTC()}
	// Best effort; a failed timestamp write must not fail the login.
	if principal.IsFarmer() {
		_ = s.repo.UpdateFarmer(ctx, principal.ID, updates)
		return
	}
	_ = s.repo.UpdateEmployee(ctx, principal.FarmerID, principal.ID, updates)
}

func (s *service) Refresh(ctx context.Context, accessToken, refreshToken string) (*TokenPair, error) {
	if accessToken == "" || refreshToken == "" {
		return nil, invalidCredentials()
	}

	claims, err := auth.ParseAccessTokenAllowExpired(s.jwtCfg, accessToken)
	if err != nil {
		return nil, invalidCredentials()
	}
	principal, err := claims.ToPrincipal()
	if err != nil {
		return nil, invalidCredentials()
	}

	newAccessID, newRefreshToken, err := s.sessions.Rotate(ctx, claims.ID, refreshToken)
	if err != nil {
		if errors.Is(err, session.ErrInvalidRefreshToken) {
			return nil, invalidCredentials()
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rotate session")
	}

	newAccessToken, err := auth.MintAccessToken(s.jwtCfg, s.now(), auth.AccessTokenPayload{
		Principal: principal,
		JTI:       newAccessID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint access token")
	}

	return &TokenPair{
		AccessToken:  newAccessToken,
		RefreshToken: newRefreshToken,
		ExpiresIn:    s.jwtCfg.ExpirationMinutes * 60,
		Principal:    principal,
	}, nil
}

func (s *service) Logout(ctx context.Context, accessID string) error {
	if strings.TrimSpace(accessID) == "" {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	if err := s.sessions.Revoke(ctx, accessID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "revoke session")
	}
	return nil
}

func (s *service) ChangePassword(ctx context.Context, principal auth.Principal, oldPassword, newPassword string) error {
	if principal.ID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	if newPassword == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "new password required")
	}

	var currentHash string
	if principal.IsFarmer() {
		farmer, err := s.repo.FindFarmerByID(ctx, principal.ID)
		if err != nil {
			if db.IsNotFound(err) {
				return invalidCredentials()
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load farmer")
		}
		currentHash = farmer.PasswordHash
	} else {
		employee, err := s.repo.FindEmployeeByID(ctx, principal.FarmerID, principal.ID)
		if err != nil {
			if db.IsNotFound(err) {
				return invalidCredentials()
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load employee")
		}
		currentHash = employee.PasswordHash
	}

	ok, err := security.VerifyPassword(oldPassword, currentHash)
	if err != nil || !ok {
		return invalidCredentials()
	}

	newHash, err := security.HashPassword(newPassword, s.passwords)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	updates := map[string]any{"password_hash": newHash}
	if principal.IsFarmer() {
		err = s.repo.UpdateFarmer(ctx, principal.ID, updates)
	} else {
		err = s.repo.UpdateEmployee(ctx, principal.FarmerID, principal.ID, updates)
	}
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store password")
	}
	return nil
}
