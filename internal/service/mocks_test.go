package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/forgo/marketplace/internal/database"
	"github.com/forgo/marketplace/internal/model"
)

// In-memory repository implementations shared by the service tests

type mockUserRepo struct {
	mu       sync.Mutex
	users    map[string]*model.User
	services *mockServiceRepo
	seq      int
	err      error
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func copyUser(u *model.User) *model.User {
	c := *u
	return &c
}

func (m *mockUserRepo) Create(ctx context.Context, user *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	for _, u := range m.users {
		if u.UserID == user.UserID {
			return fmt.Errorf("%w: user_id already exists", database.ErrDuplicate)
		}
	}
	m.seq++
	now := time.Now().UTC()
	user.ID = fmt.Sprintf("user:%d", m.seq)
	user.CreatedAt, user.UpdatedAt, user.LastLoginAt = now, now, now
	m.users[user.ID] = copyUser(user)
	return nil
}

func (m *mockUserRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	if u, ok := m.users[id]; ok {
		return copyUser(u), nil
	}
	return nil, nil
}

func (m *mockUserRepo) GetByUserID(ctx context.Context, userID string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.UserID == userID {
			return copyUser(u), nil
		}
	}
	return nil, m.err
}

func (m *mockUserRepo) List(ctx context.Context) ([]*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	out := make([]*model.User, 0, len(m.users))
	for _, u := range m.users {
		out = append(out, copyUser(u))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *mockUserRepo) Update(ctx context.Context, id string, patch model.UserPatch) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	u, ok := m.users[id]
	if !ok || !applyUserPatch(u, patch) {
		return nil, nil
	}
	return copyUser(u), nil
}

func (m *mockUserRepo) TouchLogin(ctx context.Context, id, name, avatarURL string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, nil
	}
	u.Name, u.AvatarURL, u.LastLoginAt = name, avatarURL, time.Now().UTC()
	return copyUser(u), nil
}

func (m *mockUserRepo) DeleteCascade(ctx context.Context, id string) (*model.CascadeResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	res := &model.CascadeResult{}
	if _, ok := m.users[id]; !ok {
		return res, nil
	}
	delete(m.users, id)
	res.Users = 1
	if m.services != nil {
		res.Services = m.services.deleteByCustomer(id)
	}
	return res, nil
}

func (m *mockUserRepo) DeleteAllCascade(ctx context.Context) (*model.CascadeResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	res := &model.CascadeResult{Users: len(m.users)}
	for id := range m.users {
		if m.services != nil {
			res.Services += m.services.deleteByCustomer(id)
		}
	}
	m.users = make(map[string]*model.User)
	return res, nil
}

type mockServiceRepo struct {
	mu       sync.Mutex
	services map[string]*model.Service
	users    *mockUserRepo
	seq      int
	err      error
	filtered []model.ServiceFilter
}

func newMockServiceRepo(users *mockUserRepo) *mockServiceRepo {
	m := &mockServiceRepo{services: make(map[string]*model.Service), users: users}
	if users != nil {
		users.services = m
	}
	return m
}

func copyService(s *model.Service) *model.Service {
	c := *s
	c.Tags = append([]model.Tag(nil), s.Tags...)
	return &c
}

func (m *mockServiceRepo) Create(ctx context.Context, svc *model.Service) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.seq++
	now := time.Now().UTC()
	svc.ID = fmt.Sprintf("service:%d", m.seq)
	svc.CreatedAt, svc.UpdatedAt = now, now
	m.services[svc.ID] = copyService(svc)
	return nil
}

func (m *mockServiceRepo) GetByID(ctx context.Context, id string) (*model.Service, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	if s, ok := m.services[id]; ok {
		return copyService(s), nil
	}
	return nil, nil
}

func (m *mockServiceRepo) List(ctx context.Context) ([]*model.Service, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	out := make([]*model.Service, 0, len(m.services))
	for _, s := range m.services {
		out = append(out, copyService(s))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *mockServiceRepo) Filter(ctx context.Context, f model.ServiceFilter) ([]*model.Service, error) {
	m.mu.Lock()
	m.filtered = append(m.filtered, f)
	m.mu.Unlock()
	return []*model.Service{}, m.err
}

func (m *mockServiceRepo) Update(ctx context.Context, id string, patch model.ServicePatch) (*model.Service, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	svc, ok := m.services[id]
	if !ok {
		return nil, nil
	}
	applyServicePatch(svc, patch)
	return copyService(svc), nil
}

func (m *mockServiceRepo) Delete(ctx context.Context, id string) (*model.Service, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	s, ok := m.services[id]
	if !ok {
		return nil, nil
	}
	delete(m.services, id)
	return s, nil
}

func (m *mockServiceRepo) DeleteOrphans(ctx context.Context) ([]*model.Service, error) {
	live := map[string]bool{}
	if m.users != nil {
		m.users.mu.Lock()
		for id := range m.users.users {
			live[id] = true
		}
		m.users.mu.Unlock()
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	var swept []*model.Service
	for id, s := range m.services {
		if !live[s.CustomerID] {
			swept = append(swept, s)
			delete(m.services, id)
		}
	}
	return swept, nil
}

// deleteByCustomer is called with the user repo lock held
func (m *mockServiceRepo) deleteByCustomer(customerID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for id, s := range m.services {
		if s.CustomerID == customerID {
			delete(m.services, id)
			n++
		}
	}
	return n
}

// applyUserPatch mirrors the repository UPDATE: only present fields change
// and a RequireRole mismatch matches no record.
func applyUserPatch(u *model.User, p model.UserPatch) bool {
	if c := p.Persona; c != nil && c.RequireRole != "" && u.Role() != c.RequireRole {
		return false
	}
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.AvatarURL != nil {
		u.AvatarURL = *p.AvatarURL
	}
	if p.TelNumber != nil {
		u.TelNumber = *p.TelNumber
	}
	if p.Address != nil {
		u.Address = *p.Address
	}
	if c := p.Persona; c != nil {
		switch {
		case c.Role != model.RoleProvider:
			u.Persona = model.Customer{}
		case c.Profile != nil:
			u.Persona = model.Provider{Profile: *c.Profile}
		default:
			if _, ok := u.Persona.(model.Provider); !ok {
				u.Persona = model.Provider{Profile: model.ProviderProfile{Skills: []model.Tag{}}}
			}
		}
	}
	u.UpdatedAt = time.Now().UTC()
	return true
}

func applyServicePatch(s *model.Service, p model.ServicePatch) {
	if p.Title != nil {
		s.Title = *p.Title
	}
	if p.Description != nil {
		s.Description = *p.Description
	}
	if p.Budget != nil {
		s.Budget = *p.Budget
	}
	if p.TelNumber != nil {
		s.TelNumber = *p.TelNumber
	}
	if p.Location != nil {
		s.Location = *p.Location
	}
	if p.Tags != nil {
		s.Tags = append([]model.Tag{}, p.Tags...)
	}
	if p.Date != nil {
		s.Date = *p.Date
	}
	s.UpdatedAt = time.Now().UTC()
}

type mockSessionStore struct {
	mu       sync.Mutex
	sessions map[string]*model.Session
	err      error
}

func newMockSessionStore() *mockSessionStore {
	return &mockSessionStore{sessions: make(map[string]*model.Session)}
}

func (m *mockSessionStore) Create(ctx context.Context, s *model.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	s.ID = "session:" + s.TokenHash[:8]
	s.CreatedAt = time.Now().UTC()
	c := *s
	m.sessions[s.TokenHash] = &c
	return nil
}

func (m *mockSessionStore) Get(ctx context.Context, tokenHash string) (*model.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[tokenHash]; ok {
		c := *s
		return &c, nil
	}
	return nil, m.err
}

func (m *mockSessionStore) Delete(ctx context.Context, tokenHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, tokenHash)
	return m.err
}

func (m *mockSessionStore) DeleteExpired(ctx context.Context, now time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for h, s := range m.sessions {
		if s.IsExpired(now) {
			delete(m.sessions, h)
			n++
		}
	}
	return n, m.err
}
