package memory

import (
	"context"
	"sync"

	domainstaff "roamvan/internal/domain/staff"
)

// StaffRepository stores staff accounts in memory.
type StaffRepository struct {
	mu      sync.RWMutex
	byID    map[domainstaff.ID]*domainstaff.Account
	byEmail map[string]domainstaff.ID
}

func NewStaffRepository() *StaffRepository {
	return &StaffRepository{
		byID:    make(map[domainstaff.ID]*domainstaff.Account),
		byEmail: make(map[string]domainstaff.ID),
	}
}

func (r *StaffRepository) ByID(ctx context.Context, id domainstaff.ID) (*domainstaff.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	account, ok := r.byID[id]
	if !ok {
		return nil, domainstaff.ErrNotFound
	}
	return account, nil
}

func (r *StaffRepository) ByEmail(ctx context.Context, email string) (*domainstaff.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byEmail[email]
	if !ok {
		return nil, domainstaff.ErrNotFound
	}
	return r.byID[id], nil
}

func (r *StaffRepository) Save(ctx context.Context, account *domainstaff.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.byEmail[account.Email]; ok && existing != account.ID {
		return domainstaff.ErrEmailAlreadyUsed
	}
	r.byID[account.ID] = account
	r.byEmail[account.Email] = account.ID
	return nil
}

// SessionStore keeps staff sessions in memory, keyed by token.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]domainstaff.Session
}

func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[string]domainstaff.Session)}
}

func (s *SessionStore) Put(ctx context.Context, session domainstaff.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.Token] = session
	return nil
}

func (s *SessionStore) Get(ctx context.Context, token string) (domainstaff.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[token]
	if !ok {
		return domainstaff.Session{}, domainstaff.ErrSessionNotFound
	}
	return session, nil
}

func (s *SessionStore) Delete(ctx context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
	return nil
}

var _ domainstaff.Repository = (*StaffRepository)(nil)
var _ domainstaff.SessionStore = (*SessionStore)(nil)
