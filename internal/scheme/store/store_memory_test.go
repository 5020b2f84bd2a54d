package store

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schemeteller/internal/scheme"
	id "schemeteller/pkg/domain"
	"schemeteller/pkg/platform/sentinel"
)

func seedScheme(name, ministry string, status id.SchemeStatus) *scheme.Scheme {
	return &scheme.Scheme{
		ID:       id.NewSchemeID(),
		Name:     name,
		Ministry: ministry,
		Level:    id.SchemeLevelCentral,
		Status:   status,
	}
}

func TestInMemoryStore(t *testing.T) {
	ctx := context.Background()

	t.Run("create then find round trips", func(t *testing.T) {
		s := NewInMemory()
		sch := seedScheme("PM-KISAN", "Agriculture", id.SchemeStatusApproved)
		sch.EligibilityRules = json.RawMessage(`{"occupations": ["FARMER"]}`)
		sch.ApplicableRegions = []id.Region{id.RegionKerala}
		require.NoError(t, s.Create(ctx, sch))

		got, err := s.FindByID(ctx, sch.ID)
		require.NoError(t, err)
		assert.Equal(t, "PM-KISAN", got.Name)
		assert.JSONEq(t, `{"occupations": ["FARMER"]}`, string(got.EligibilityRules))
		assert.Equal(t, []id.Region{id.RegionKerala}, got.ApplicableRegions)
		assert.False(t, got.CreatedAt.IsZero())
	})

	t.Run("missing scheme is not found", func(t *testing.T) {
		s := NewInMemory()
		_, err := s.FindByID(ctx, id.NewSchemeID())
		assert.ErrorIs(t, err, sentinel.ErrNotFound)
		assert.ErrorIs(t, s.Delete(ctx, id.NewSchemeID()), sentinel.ErrNotFound)
		assert.ErrorIs(t, s.Update(ctx, seedScheme("x", "", id.SchemeStatusDraft)), sentinel.ErrNotFound)
	})

	t.Run("update preserves creation time", func(t *testing.T) {
		s := NewInMemory()
		sch := seedScheme("PM-KISAN", "Agriculture", id.SchemeStatusDraft)
		require.NoError(t, s.Create(ctx, sch))
		created, err := s.FindByID(ctx, sch.ID)
		require.NoError(t, err)

		sch.Status = id.SchemeStatusApproved
		require.NoError(t, s.Update(ctx, sch))

		got, err := s.FindByID(ctx, sch.ID)
		require.NoError(t, err)
		assert.Equal(t, id.SchemeStatusApproved, got.Status)
		assert.Equal(t, created.CreatedAt, got.CreatedAt)
	})

	t.Run("reads return copies", func(t *testing.T) {
		s := NewInMemory()
		sch := seedScheme("PM-KISAN", "Agriculture", id.SchemeStatusApproved)
		sch.EligibilityRules = json.RawMessage(`{}`)
		require.NoError(t, s.Create(ctx, sch))

		got, err := s.FindByID(ctx, sch.ID)
		require.NoError(t, err)
		got.Name = "mutated"
		got.EligibilityRules[0] = 'x'

		again, err := s.FindByID(ctx, sch.ID)
		require.NoError(t, err)
		assert.Equal(t, "PM-KISAN", again.Name)
		assert.JSONEq(t, `{}`, string(again.EligibilityRules))
	})

	t.Run("list approved excludes other statuses", func(t *testing.T) {
		s := NewInMemory()
		approved := seedScheme("live", "A", id.SchemeStatusApproved)
		require.NoError(t, s.Create(ctx, approved))
		require.NoError(t, s.Create(ctx, seedScheme("draft", "A", id.SchemeStatusDraft)))
		require.NoError(t, s.Create(ctx, seedScheme("gone", "A", id.SchemeStatusArchived)))

		got, err := s.ListApproved(ctx)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, approved.ID, got[0].ID)
	})

	t.Run("list filters compose", func(t *testing.T) {
		s := NewInMemory()
		require.NoError(t, s.Create(ctx, seedScheme("Crop Insurance", "Agriculture", id.SchemeStatusApproved)))
		require.NoError(t, s.Create(ctx, seedScheme("Scholarship", "Education", id.SchemeStatusApproved)))
		draft := seedScheme("Seed Support", "Agriculture", id.SchemeStatusDraft)
		require.NoError(t, s.Create(ctx, draft))

		page, err := s.List(ctx, scheme.ListFilter{Ministry: "agriculture"})
		require.NoError(t, err)
		assert.Equal(t, 2, page.Total)

		page, err = s.List(ctx, scheme.ListFilter{Ministry: "Agriculture", Status: id.SchemeStatusApproved})
		require.NoError(t, err)
		require.Equal(t, 1, page.Total)
		assert.Equal(t, "Crop Insurance", page.Schemes[0].Name)

		page, err = s.List(ctx, scheme.ListFilter{Search: "insurance"})
		require.NoError(t, err)
		require.Equal(t, 1, page.Total)
		assert.Equal(t, "Crop Insurance", page.Schemes[0].Name)
	})

	t.Run("list pages newest first", func(t *testing.T) {
		s := NewInMemory()
		base := time.Now()
		for i := 0; i < 5; i++ {
			sch := seedScheme(string(rune('a'+i)), "M", id.SchemeStatusApproved)
			sch.CreatedAt = base.Add(time.Duration(i) * time.Minute)
			require.NoError(t, s.Create(ctx, sch))
		}

		page, err := s.List(ctx, scheme.ListFilter{Page: 1, Limit: 2})
		require.NoError(t, err)
		assert.Equal(t, 5, page.Total)
		require.Len(t, page.Schemes, 2)
		assert.Equal(t, "e", page.Schemes[0].Name)

		page, err = s.List(ctx, scheme.ListFilter{Page: 3, Limit: 2})
		require.NoError(t, err)
		require.Len(t, page.Schemes, 1)
		assert.Equal(t, "a", page.Schemes[0].Name)
	})

	t.Run("counts and ministries", func(t *testing.T) {
		s := NewInMemory()
		require.NoError(t, s.Create(ctx, seedScheme("a", "Agriculture", id.SchemeStatusApproved)))
		require.NoError(t, s.Create(ctx, seedScheme("b", "Agriculture", id.SchemeStatusApproved)))
		require.NoError(t, s.Create(ctx, seedScheme("c", "Education", id.SchemeStatusDraft)))

		counts, err := s.CountsByStatus(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, counts[id.SchemeStatusApproved])
		assert.Equal(t, 1, counts[id.SchemeStatusDraft])

		ministries, err := s.DistinctMinistries(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"Agriculture", "Education"}, ministries)
	})
}
