package handler

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/forgo/marketplace/internal/model"
)

// In-memory stores behind the real services used by the handler tests

type memStore struct {
	mu       sync.Mutex
	users    map[string]*model.User
	services map[string]*model.Service
	sessions map[string]*model.Session
	seq      int
	err      error
}

func newMemStore() *memStore {
	return &memStore{
		users:    make(map[string]*model.User),
		services: make(map[string]*model.Service),
		sessions: make(map[string]*model.Session),
	}
}

func (m *memStore) nextID(table string) string {
	m.seq++
	return fmt.Sprintf("%s:%d", table, m.seq)
}

type memUsers struct{ *memStore }

func (m memUsers) Create(ctx context.Context, user *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	now := time.Now().UTC()
	user.ID = m.nextID("user")
	user.CreatedAt, user.UpdatedAt, user.LastLoginAt = now, now, now
	c := *user
	m.users[user.ID] = &c
	return nil
}

func (m memUsers) GetByID(ctx context.Context, id string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	if u, ok := m.users[id]; ok {
		c := *u
		return &c, nil
	}
	return nil, nil
}

func (m memUsers) GetByUserID(ctx context.Context, userID string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.UserID == userID {
			c := *u
			return &c, nil
		}
	}
	return nil, m.err
}

func (m memUsers) List(ctx context.Context) ([]*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	out := []*model.User{}
	for _, u := range m.users {
		c := *u
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (m memUsers) Update(ctx context.Context, id string, patch model.UserPatch) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	u, ok := m.users[id]
	if !ok || !applyUserPatch(u, patch) {
		return nil, nil
	}
	c := *u
	return &c, nil
}

func (m memUsers) TouchLogin(ctx context.Context, id, name, avatarURL string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, nil
	}
	u.Name, u.AvatarURL, u.LastLoginAt = name, avatarURL, time.Now().UTC()
	c := *u
	return &c, nil
}

func (m memUsers) DeleteCascade(ctx context.Context, id string) (*model.CascadeResult, error) {
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
	for sid, s := range m.services {
		if s.CustomerID == id {
			delete(m.services, sid)
			res.Services++
		}
	}
	for h, s := range m.sessions {
		if s.UserID == id {
			delete(m.sessions, h)
			res.Sessions++
		}
	}
	return res, nil
}

func (m memUsers) DeleteAllCascade(ctx context.Context) (*model.CascadeResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	res := &model.CascadeResult{Users: len(m.users), Services: len(m.services), Sessions: len(m.sessions)}
	m.users = make(map[string]*model.User)
	m.services = make(map[string]*model.Service)
	m.sessions = make(map[string]*model.Session)
	return res, nil
}

type memServices struct{ *memStore }

func (m memServices) Create(ctx context.Context, svc *model.Service) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	now := time.Now().UTC()
	svc.ID = m.nextID("service")
	svc.CreatedAt, svc.UpdatedAt = now, now
	c := *svc
	m.services[svc.ID] = &c
	return nil
}

func (m memServices) GetByID(ctx context.Context, id string) (*model.Service, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	if s, ok := m.services[id]; ok {
		c := *s
		return &c, nil
	}
	return nil, nil
}

func (m memServices) List(ctx context.Context) ([]*model.Service, error) {
	return m.Filter(ctx, model.ServiceFilter{})
}

// Filter applies the title and budget criteria; enough for routing tests
func (m memServices) Filter(ctx context.Context, f model.ServiceFilter) ([]*model.Service, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	var out []*model.Service
	for _, s := range m.services {
		if f.MinBudget != nil && s.Budget < *f.MinBudget {
			continue
		}
		if f.MaxBudget != nil && s.Budget > *f.MaxBudget {
			continue
		}
		if f.Title != "" && s.Title != f.Title {
			continue
		}
		c := *s
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m memServices) Update(ctx context.Context, id string, patch model.ServicePatch) (*model.Service, error) {
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
	c := *svc
	c.Tags = append([]model.Tag(nil), svc.Tags...)
	return &c, nil
}

func (m memServices) Delete(ctx context.Context, id string) (*model.Service, error) {
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

func (m memServices) DeleteOrphans(ctx context.Context) ([]*model.Service, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var swept []*model.Service
	for id, s := range m.services {
		if _, ok := m.users[s.CustomerID]; !ok {
			swept = append(swept, s)
			delete(m.services, id)
		}
	}
	return swept, nil
}

type memSessions struct{ *memStore }

func (m memSessions) Create(ctx context.Context, s *model.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s.ID = m.nextID("session")
	s.CreatedAt = time.Now().UTC()
	c := *s
	m.sessions[s.TokenHash] = &c
	return nil
}

func (m memSessions) Get(ctx context.Context, tokenHash string) (*model.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[tokenHash]; ok {
		c := *s
		return &c, nil
	}
	return nil, nil
}

func (m memSessions) Delete(ctx context.Context, tokenHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, tokenHash)
	return nil
}

func (m memSessions) DeleteExpired(ctx context.Context, now time.Time) (int, error) {
	return 0, nil
}

type stubPinger struct{ err error }

func (p stubPinger) Ping(ctx context.Context) error { return p.err }

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
