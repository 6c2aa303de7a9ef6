package identity

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/afyajamii/afya/internal/errs"
	"github.com/afyajamii/afya/internal/platform/auth"
)

const (
	minUsernameLen = 3
	maxUsernameLen = 50
	minPasswordLen = 8
)

// Service validates and executes account operations.
type Service struct {
	repo   Repository
	hasher *auth.Hasher
	issuer *auth.Issuer
	logger zerolog.Logger
}

func NewService(repo Repository, hasher *auth.Hasher, issuer *auth.Issuer, logger zerolog.Logger) *Service {
	return &Service{
		repo:   repo,
		hasher: hasher,
		issuer: issuer,
		logger: logger.With().Str("component", "identity").Logger(),
	}
}

// RegisterInput carries a signup request.
type RegisterInput struct {
	Username    string      `json:"username"`
	Email       string      `json:"email"`
	FullName    string      `json:"full_name"`
	AccountType AccountType `json:"account_type"`
	Password    string      `json:"password"`
}

func (in RegisterInput) validate() error {
	username := strings.TrimSpace(in.Username)
	if len(username) < minUsernameLen || len(username) > maxUsernameLen {
		return fmt.Errorf("%w: username must be %d-%d characters", errs.ErrValidation, minUsernameLen, maxUsernameLen)
	}
	if _, err := mail.ParseAddress(in.Email); err != nil {
		return fmt.Errorf("%w: invalid email address", errs.ErrValidation)
	}
	if strings.TrimSpace(in.FullName) == "" {
		return fmt.Errorf("%w: full name is required", errs.ErrValidation)
	}
	if !in.AccountType.Valid() {
		return fmt.Errorf("%w: account type must be pregnant, postnatal or general", errs.ErrValidation)
	}
	if len(in.Password) < minPasswordLen {
		return fmt.Errorf("%w: password must be at least %d characters", errs.ErrValidation, minPasswordLen)
	}
	return nil
}

// Register creates a new account. Username and email comparisons are
// case-sensitive; uniqueness is enforced by the store.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*User, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	hashed, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	u := &User{
		Username:       strings.TrimSpace(in.Username),
		Email:          in.Email,
		FullName:       strings.TrimSpace(in.FullName),
		AccountType:    in.AccountType,
		HashedPassword: hashed,
		Active:         true,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}

	s.logger.Info().Str("username", u.Username).Msg("new user created")
	return u, nil
}

// Authenticate checks credentials and issues an access token. Unknown
// usernames and wrong passwords are indistinguishable to the caller, and
// both paths burn a hash comparison to keep latency uniform.
func (s *Service) Authenticate(ctx context.Context, username, password string) (string, int64, error) {
	u, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			s.hasher.VerifyDummy(password)
			return "", 0, errs.ErrInvalidCredentials
		}
		return "", 0, err
	}

	if !s.hasher.Verify(u.HashedPassword, password) {
		return "", 0, errs.ErrInvalidCredentials
	}
	if !u.Active {
		return "", 0, errs.ErrAccountInactive
	}

	token, expiresIn, err := s.issuer.Issue(u.ID, u.Username)
	if err != nil {
		return "", 0, fmt.Errorf("authenticate: %w", err)
	}

	s.logger.Info().Str("username", u.Username).Msg("user logged in")
	return token, expiresIn, nil
}

// CurrentUser resolves the authenticated account and rejects deactivated
// ones. Authenticated routes that need the account record go through here
// so a deactivation takes effect before the token expires.
func (s *Service) CurrentUser(ctx context.Context, id uuid.UUID) (*User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !u.Active {
		return nil, errs.ErrAccountInactive
	}
	return u, nil
}
