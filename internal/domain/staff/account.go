package staff

import (
	"context"
	"errors"
	"strings"
	"time"
)

var (
	ErrIDRequired          = errors.New("staff: id is required")
	ErrEmailRequired       = errors.New("staff: email is required")
	ErrPasswordHashMissing = errors.New("staff: password hash is required")
	ErrNameRequired        = errors.New("staff: name is required")
	ErrInvalidRole         = errors.New("staff: invalid role")
	ErrEmailAlreadyUsed    = errors.New("staff: email already used")
	ErrNotFound            = errors.New("staff: account not found")
)

type ID string

type Role string

const (
	RoleAgent Role = "agent"
	RoleAdmin Role = "admin"
)

// Account is an internal staff login used for the back-office calendar and
// fleet management. Guests never have accounts; public booking endpoints are
// unauthenticated.
type Account struct {
	ID           ID
	Email        string
	Name         string
	PasswordHash string
	Role         Role
	Blocked      bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Repository interface {
	ByID(ctx context.Context, id ID) (*Account, error)
	ByEmail(ctx context.Context, email string) (*Account, error)
	Save(ctx context.Context, account *Account) error
}

type CreateParams struct {
	ID           ID
	Email        string
	Name         string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
}

func NewAccount(params CreateParams) (*Account, error) {
	id := strings.TrimSpace(string(params.ID))
	if id == "" {
		return nil, ErrIDRequired
	}
	email := strings.ToLower(strings.TrimSpace(params.Email))
	if email == "" {
		return nil, ErrEmailRequired
	}
	if strings.TrimSpace(params.PasswordHash) == "" {
		return nil, ErrPasswordHashMissing
	}
	name := strings.TrimSpace(params.Name)
	if name == "" {
		return nil, ErrNameRequired
	}
	role := params.Role
	if role == "" {
		role = RoleAgent
	}
	switch role {
	case RoleAgent, RoleAdmin:
	default:
		return nil, ErrInvalidRole
	}
	now := params.CreatedAt
	if now.IsZero() {
		now = time.Now()
	}
	now = now.UTC()
	return &Account{
		ID:           ID(id),
		Email:        email,
		Name:         name,
		PasswordHash: params.PasswordHash,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

func (a *Account) SetPasswordHash(hash string, now time.Time) error {
	if strings.TrimSpace(hash) == "" {
		return ErrPasswordHashMissing
	}
	a.PasswordHash = hash
	a.touch(now)
	return nil
}

func (a *Account) Block(now time.Time) {
	a.Blocked = true
	a.touch(now)
}

func (a *Account) touch(now time.Time) {
	if now.IsZero() {
		now = time.Now()
	}
	a.UpdatedAt = now.UTC()
}
