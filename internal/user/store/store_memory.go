package store

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	"schemeteller/internal/user"
	id "schemeteller/pkg/domain"
	"schemeteller/pkg/platform/sentinel"
)

// InMemory is a mutex-guarded map store for tests and local development.
type InMemory struct {
	mu      sync.RWMutex
	users   map[id.UserID]*user.User
	byEmail map[string]id.UserID
}

func NewInMemory() *InMemory {
	return &InMemory{
		users:   make(map[id.UserID]*user.User),
		byEmail: make(map[string]id.UserID),
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *InMemory) Create(_ context.Context, u *user.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := normalizeEmail(u.Email)
	if _, exists := s.byEmail[key]; exists {
		return sentinel.ErrConflict
	}
	if _, exists := s.users[u.ID]; exists {
		return sentinel.ErrConflict
	}

	stored := cloneUser(u)
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now()
	}
	stored.UpdatedAt = stored.CreatedAt
	s.users[u.ID] = stored
	s.byEmail[key] = u.ID
	return nil
}

func (s *InMemory) FindByID(_ context.Context, userID id.UserID) (*user.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[userID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return cloneUser(u), nil
}

func (s *InMemory) FindByEmail(_ context.Context, email string) (*user.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	userID, ok := s.byEmail[normalizeEmail(email)]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return cloneUser(s.users[userID]), nil
}

func (s *InMemory) Update(_ context.Context, u *user.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.users[u.ID]
	if !ok {
		return sentinel.ErrNotFound
	}

	key := normalizeEmail(u.Email)
	if owner, taken := s.byEmail[key]; taken && owner != u.ID {
		return sentinel.ErrConflict
	}
	delete(s.byEmail, normalizeEmail(current.Email))
	s.byEmail[key] = u.ID

	stored := cloneUser(u)
	stored.CreatedAt = current.CreatedAt
	stored.EligibilitySnapshot = current.EligibilitySnapshot
	stored.UpdatedAt = time.Now()
	s.users[u.ID] = stored
	return nil
}

func (s *InMemory) SaveEligibility(_ context.Context, userID id.UserID, snapshot json.RawMessage, bracket *id.IncomeBracket) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[userID]
	if !ok {
		return sentinel.ErrNotFound
	}
	u.EligibilitySnapshot = append(json.RawMessage(nil), snapshot...)
	if bracket != nil {
		b := *bracket
		u.IncomeBracket = &b
	} else {
		u.IncomeBracket = nil
	}
	u.UpdatedAt = time.Now()
	return nil
}

func (s *InMemory) List(_ context.Context, search string, page, limit int) ([]*user.User, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	needle := strings.ToLower(search)
	all := make([]*user.User, 0, len(s.users))
	for _, u := range s.users {
		if needle != "" &&
			!strings.Contains(strings.ToLower(u.Name), needle) &&
			!strings.Contains(strings.ToLower(u.Email), needle) {
			continue
		}
		all = append(all, u)
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})

	total := len(all)
	start, end := pageBounds(total, page, limit)
	out := make([]*user.User, 0, end-start)
	for _, u := range all[start:end] {
		out = append(out, cloneUser(u))
	}
	return out, total, nil
}

func (s *InMemory) Delete(_ context.Context, userID id.UserID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[userID]
	if !ok {
		return sentinel.ErrNotFound
	}
	delete(s.byEmail, normalizeEmail(u.Email))
	delete(s.users, userID)
	return nil
}

func (s *InMemory) Counts(_ context.Context) (int, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	onboarded := 0
	for _, u := range s.users {
		if u.OnboardingCompleted {
			onboarded++
		}
	}
	return len(s.users), onboarded, nil
}

func pageBounds(total, page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}
	return start, end
}

func cloneUser(u *user.User) *user.User {
	copied := *u
	copied.Profile = cloneProfile(u.Profile)
	if u.IncomeBracket != nil {
		b := *u.IncomeBracket
		copied.IncomeBracket = &b
	}
	if u.EligibilitySnapshot != nil {
		copied.EligibilitySnapshot = append(json.RawMessage(nil), u.EligibilitySnapshot...)
	}
	return &copied
}

func cloneProfile(p user.Profile) user.Profile {
	copied := p
	if p.DateOfBirth != nil {
		v := *p.DateOfBirth
		copied.DateOfBirth = &v
	}
	if p.Gender != nil {
		v := *p.Gender
		copied.Gender = &v
	}
	if p.Category != nil {
		v := *p.Category
		copied.Category = &v
	}
	if p.Region != nil {
		v := *p.Region
		copied.Region = &v
	}
	if p.District != nil {
		v := *p.District
		copied.District = &v
	}
	if p.IsRural != nil {
		v := *p.IsRural
		copied.IsRural = &v
	}
	if p.AnnualIncome != nil {
		v := *p.AnnualIncome
		copied.AnnualIncome = &v
	}
	if p.Occupation != nil {
		v := *p.Occupation
		copied.Occupation = &v
	}
	return copied
}
