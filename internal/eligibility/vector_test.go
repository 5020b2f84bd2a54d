package eligibility

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schemeteller/internal/user"
	id "schemeteller/pkg/domain"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestAgeAt(t *testing.T) {
	tests := []struct {
		name string
		dob  time.Time
		now  time.Time
		want int
	}{
		{"day before 24th birthday", date(2000, time.June, 15), date(2024, time.June, 14), 23},
		{"on 24th birthday", date(2000, time.June, 15), date(2024, time.June, 15), 24},
		{"day after 24th birthday", date(2000, time.June, 15), date(2024, time.June, 16), 24},
		{"born today", date(2024, time.June, 15), date(2024, time.June, 15), 0},
		{"earlier month same year distance", date(2000, time.January, 31), date(2024, time.December, 1), 24},
		{"feb 29 birth, feb 28 of non-leap year", date(2000, time.February, 29), date(2023, time.February, 28), 22},
		{"feb 29 birth, mar 1 of non-leap year", date(2000, time.February, 29), date(2023, time.March, 1), 23},
		{"feb 29 birth, feb 29 of leap year", date(2000, time.February, 29), date(2024, time.February, 29), 24},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AgeAt(tt.dob, tt.now))
		})
	}
}

func TestBuildVector(t *testing.T) {
	now := date(2024, time.June, 1)

	t.Run("empty profile yields all-null vector with false flags", func(t *testing.T) {
		v := BuildVector(user.Profile{}, now)

		assert.Nil(t, v.Age)
		assert.Nil(t, v.Gender)
		assert.Nil(t, v.Category)
		assert.Nil(t, v.Region)
		assert.Nil(t, v.AnnualIncome)
		assert.Nil(t, v.IncomeBracket)
		assert.Nil(t, v.Occupation)
		assert.Nil(t, v.IsRural)
		assert.False(t, v.IsBPL)
		assert.False(t, v.IsDisabled)
		assert.False(t, v.IsMinority)
	})

	t.Run("age is derived exactly when dob is set", func(t *testing.T) {
		dob := date(2002, time.January, 1)
		v := BuildVector(user.Profile{DateOfBirth: &dob}, now)

		require.NotNil(t, v.Age)
		assert.Equal(t, 22, *v.Age)
	})

	t.Run("income bracket is a pure function of income", func(t *testing.T) {
		v := BuildVector(user.Profile{AnnualIncome: f(200000)}, now)

		require.NotNil(t, v.IncomeBracket)
		assert.Equal(t, id.Bracket1LTo2_5L, *v.IncomeBracket)
		require.NotNil(t, v.AnnualIncome)
		assert.Equal(t, 200000.0, *v.AnnualIncome)
	})

	t.Run("categoricals and flags pass through untransformed", func(t *testing.T) {
		gender := id.GenderFemale
		category := id.CategoryOBC
		region := id.RegionKerala
		occupation := id.OccupationFarmer
		rural := true

		v := BuildVector(user.Profile{
			Gender:     &gender,
			Category:   &category,
			Region:     &region,
			Occupation: &occupation,
			IsRural:    &rural,
			IsBPL:      true,
			IsMinority: true,
		}, now)

		assert.Equal(t, &gender, v.Gender)
		assert.Equal(t, &category, v.Category)
		assert.Equal(t, &region, v.Region)
		assert.Equal(t, &occupation, v.Occupation)
		require.NotNil(t, v.IsRural)
		assert.True(t, *v.IsRural)
		assert.True(t, v.IsBPL)
		assert.False(t, v.IsDisabled)
		assert.True(t, v.IsMinority)
	})

	t.Run("same inputs always produce the same vector", func(t *testing.T) {
		dob := date(1990, time.March, 10)
		p := user.Profile{DateOfBirth: &dob, AnnualIncome: f(750000)}

		first := BuildVector(p, now)
		second := BuildVector(p, now)
		assert.Equal(t, first, second)
	})
}
