package store

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	"schemeteller/internal/scheme"
	id "schemeteller/pkg/domain"
	"schemeteller/pkg/platform/sentinel"
)

// InMemory is a mutex-guarded map store for tests and local development.
type InMemory struct {
	mu      sync.RWMutex
	schemes map[id.SchemeID]*scheme.Scheme
}

func NewInMemory() *InMemory {
	return &InMemory{schemes: make(map[id.SchemeID]*scheme.Scheme)}
}

func (s *InMemory) Create(_ context.Context, sch *scheme.Scheme) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.schemes[sch.ID]; exists {
		return sentinel.ErrConflict
	}
	stored := cloneScheme(sch)
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now()
	}
	stored.UpdatedAt = stored.CreatedAt
	s.schemes[sch.ID] = stored
	return nil
}

func (s *InMemory) FindByID(_ context.Context, schemeID id.SchemeID) (*scheme.Scheme, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sch, ok := s.schemes[schemeID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return cloneScheme(sch), nil
}

func (s *InMemory) Update(_ context.Context, sch *scheme.Scheme) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.schemes[sch.ID]
	if !ok {
		return sentinel.ErrNotFound
	}
	stored := cloneScheme(sch)
	stored.CreatedAt = current.CreatedAt
	stored.UpdatedAt = time.Now()
	s.schemes[sch.ID] = stored
	return nil
}

func (s *InMemory) Delete(_ context.Context, schemeID id.SchemeID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.schemes[schemeID]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.schemes, schemeID)
	return nil
}

func (s *InMemory) List(_ context.Context, filter scheme.ListFilter) (*scheme.Page, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]*scheme.Scheme, 0, len(s.schemes))
	for _, sch := range s.schemes {
		if matchesFilter(sch, filter) {
			matched = append(matched, sch)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := len(matched)
	start, end := pageBounds(total, filter.Page, filter.Limit)
	out := make([]*scheme.Scheme, 0, end-start)
	for _, sch := range matched[start:end] {
		out = append(out, cloneScheme(sch))
	}
	return &scheme.Page{Schemes: out, Total: total}, nil
}

func (s *InMemory) ListApproved(ctx context.Context) ([]*scheme.Scheme, error) {
	page, err := s.List(ctx, scheme.ListFilter{Status: id.SchemeStatusApproved, Limit: len(s.schemes) + 1})
	if err != nil {
		return nil, err
	}
	return page.Schemes, nil
}

func (s *InMemory) CountsByStatus(_ context.Context) (map[id.SchemeStatus]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[id.SchemeStatus]int)
	for _, sch := range s.schemes {
		counts[sch.Status]++
	}
	return counts, nil
}

func (s *InMemory) DistinctMinistries(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]struct{})
	for _, sch := range s.schemes {
		if sch.Ministry != "" {
			seen[sch.Ministry] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for ministry := range seen {
		out = append(out, ministry)
	}
	sort.Strings(out)
	return out, nil
}

func matchesFilter(sch *scheme.Scheme, filter scheme.ListFilter) bool {
	if filter.Status != "" && sch.Status != filter.Status {
		return false
	}
	if filter.Level != "" && sch.Level != filter.Level {
		return false
	}
	if filter.Ministry != "" && !strings.EqualFold(sch.Ministry, filter.Ministry) {
		return false
	}
	if filter.Search != "" {
		needle := strings.ToLower(filter.Search)
		if !strings.Contains(strings.ToLower(sch.Name), needle) &&
			!strings.Contains(strings.ToLower(sch.Description), needle) &&
			!strings.Contains(strings.ToLower(sch.Ministry), needle) {
			return false
		}
	}
	return true
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

func cloneScheme(sch *scheme.Scheme) *scheme.Scheme {
	copied := *sch
	if sch.EligibilityRules != nil {
		copied.EligibilityRules = append(json.RawMessage(nil), sch.EligibilityRules...)
	}
	if sch.ApplicableRegions != nil {
		copied.ApplicableRegions = append([]id.Region(nil), sch.ApplicableRegions...)
	}
	return &copied
}
