package auth

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	domainstaff "roamvan/internal/domain/staff"
)

var (
	ErrInvalidCredentials = errors.New("auth: invalid credentials")
	ErrPasswordTooShort   = errors.New("auth: password must be at least 8 characters")
	ErrAccountBlocked     = errors.New("auth: account blocked")
	ErrTokenRequired      = errors.New("auth: token required")
)

type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

type TokenGenerator interface {
	NewToken() (string, error)
}

// Service issues and resolves staff sessions. There is no public
// registration; accounts are provisioned by an admin or a seed fixture.
type Service struct {
	Accounts   domainstaff.Repository
	Sessions   domainstaff.SessionStore
	Passwords  PasswordHasher
	Tokens     TokenGenerator
	SessionTTL time.Duration
	Logger     *slog.Logger
	Now        func() time.Time
}

type LoginParams struct {
	Email    string
	Password string
}

type AuthResult struct {
	Account *domainstaff.Account
	Token   string
}

type ResolveResult struct {
	Account *domainstaff.Account
	Session domainstaff.Session
}

type ProvisionParams struct {
	Email    string
	Name     string
	Password string
	Role     domainstaff.Role
}

// Provision creates a staff account with a hashed password.
func (s *Service) Provision(ctx context.Context, params ProvisionParams) (*domainstaff.Account, error) {
	if err := s.ensureDependencies(); err != nil {
		return nil, err
	}
	if err := s.validatePassword(params.Password); err != nil {
		return nil, err
	}
	hash, err := s.Passwords.Hash(params.Password)
	if err != nil {
		return nil, err
	}
	account, err := domainstaff.NewAccount(domainstaff.CreateParams{
		ID:           domainstaff.ID(uuid.NewString()),
		Email:        params.Email,
		Name:         params.Name,
		PasswordHash: hash,
		Role:         params.Role,
		CreatedAt:    s.now(),
	})
	if err != nil {
		return nil, err
	}
	if err := s.Accounts.Save(ctx, account); err != nil {
		return nil, err
	}
	if s.Logger != nil {
		s.Logger.Info("staff account provisioned", "account_id", account.ID, "role", account.Role)
	}
	return account, nil
}

func (s *Service) Login(ctx context.Context, params LoginParams) (*AuthResult, error) {
	if err := s.ensureDependencies(); err != nil {
		return nil, err
	}
	email := strings.TrimSpace(strings.ToLower(params.Email))
	if email == "" {
		return nil, ErrInvalidCredentials
	}
	account, err := s.Accounts.ByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domainstaff.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if account.Blocked {
		return nil, ErrAccountBlocked
	}
	if err := s.Passwords.Compare(account.PasswordHash, params.Password); err != nil {
		return nil, ErrInvalidCredentials
	}
	token, err := s.issueSession(ctx, account)
	if err != nil {
		return nil, err
	}
	if s.Logger != nil {
		s.Logger.Info("staff authenticated", "account_id", account.ID)
	}
	return &AuthResult{Account: account, Token: token}, nil
}

func (s *Service) Logout(ctx context.Context, token string) error {
	if err := s.ensureDependencies(); err != nil {
		return err
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return nil
	}
	return s.Sessions.Delete(ctx, token)
}

func (s *Service) ResolveToken(ctx context.Context, token string) (*ResolveResult, error) {
	if err := s.ensureDependencies(); err != nil {
		return nil, err
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrTokenRequired
	}
	session, err := s.Sessions.Get(ctx, token)
	if err != nil {
		return nil, err
	}
	if session.Expired(s.now()) {
		_ = s.Sessions.Delete(ctx, token)
		return nil, domainstaff.ErrSessionExpired
	}
	account, err := s.Accounts.ByID(ctx, session.AccountID)
	if err != nil {
		_ = s.Sessions.Delete(ctx, token)
		if errors.Is(err, domainstaff.ErrNotFound) {
			return nil, domainstaff.ErrSessionNotFound
		}
		return nil, err
	}
	if account.Blocked {
		_ = s.Sessions.Delete(ctx, token)
		return nil, ErrAccountBlocked
	}
	return &ResolveResult{Account: account, Session: session}, nil
}

func (s *Service) issueSession(ctx context.Context, account *domainstaff.Account) (string, error) {
	token, err := s.Tokens.NewToken()
	if err != nil {
		return "", err
	}
	now := s.now()
	session := domainstaff.Session{
		Token:     token,
		AccountID: account.ID,
		Role:      account.Role,
		IssuedAt:  now,
		ExpiresAt: now.Add(s.sessionTTL()),
	}
	if err := s.Sessions.Put(ctx, session); err != nil {
		return "", err
	}
	return token, nil
}

func (s *Service) sessionTTL() time.Duration {
	if s.SessionTTL > 0 {
		return s.SessionTTL
	}
	return 24 * time.Hour
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func (s *Service) validatePassword(password string) error {
	if utf8.RuneCountInString(password) < 8 {
		return ErrPasswordTooShort
	}
	return nil
}

func (s *Service) ensureDependencies() error {
	switch {
	case s.Accounts == nil:
		return errors.New("auth: account repository required")
	case s.Sessions == nil:
		return errors.New("auth: session store required")
	case s.Passwords == nil:
		return errors.New("auth: password hasher required")
	case s.Tokens == nil:
		return errors.New("auth: token generator required")
	default:
		return nil
	}
}
