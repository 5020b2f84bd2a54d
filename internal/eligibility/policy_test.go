package eligibility

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "schemeteller/pkg/domain-errors"
)

func TestParsePolicy(t *testing.T) {
	t.Run("nil, empty and null documents are unconstrained", func(t *testing.T) {
		for _, raw := range []json.RawMessage{nil, json.RawMessage(``), json.RawMessage(`null`), json.RawMessage(` null `)} {
			p, err := ParsePolicy(raw)
			require.NoError(t, err)
			assert.True(t, p.IsUnconstrained())
		}
	})

	t.Run("empty object is unconstrained", func(t *testing.T) {
		p, err := ParsePolicy(json.RawMessage(`{}`))
		require.NoError(t, err)
		assert.True(t, p.IsUnconstrained())
	})

	t.Run("well formed policy round trips", func(t *testing.T) {
		p, err := ParsePolicy(json.RawMessage(`{
			"minAge": 18,
			"maxAge": 40,
			"genders": ["FEMALE"],
			"categories": ["SC", "ST"],
			"maxIncome": 250000,
			"occupations": ["FARMER"],
			"bplOnly": true,
			"ruralOnly": true
		}`))
		require.NoError(t, err)

		require.NotNil(t, p.MinAge)
		assert.Equal(t, 18, *p.MinAge)
		require.NotNil(t, p.MaxAge)
		assert.Equal(t, 40, *p.MaxAge)
		assert.Len(t, p.Genders, 1)
		assert.Len(t, p.Categories, 2)
		require.NotNil(t, p.MaxIncome)
		assert.Equal(t, 250000.0, *p.MaxIncome)
		assert.True(t, p.BPLOnly)
		assert.True(t, p.RuralOnly)
		assert.False(t, p.UrbanOnly)
		assert.False(t, p.IsUnconstrained())
	})

	t.Run("unknown field is rejected", func(t *testing.T) {
		_, err := ParsePolicy(json.RawMessage(`{"minimumAge": 18}`))
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})

	t.Run("wrong type is rejected", func(t *testing.T) {
		_, err := ParsePolicy(json.RawMessage(`{"minAge": "eighteen"}`))
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})

	t.Run("negative bounds are rejected", func(t *testing.T) {
		for _, raw := range []string{`{"minAge": -1}`, `{"maxAge": -5}`, `{"maxIncome": -100}`} {
			_, err := ParsePolicy(json.RawMessage(raw))
			assert.Error(t, err, raw)
		}
	})

	t.Run("unrecognised enum member is rejected", func(t *testing.T) {
		for _, raw := range []string{
			`{"genders": ["UNKNOWN"]}`,
			`{"categories": ["FORWARD"]}`,
			`{"occupations": ["ASTRONAUT"]}`,
		} {
			_, err := ParsePolicy(json.RawMessage(raw))
			require.Error(t, err, raw)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation), raw)
		}
	})

	t.Run("truncated document is rejected", func(t *testing.T) {
		_, err := ParsePolicy(json.RawMessage(`{"minAge": 18`))
		assert.Error(t, err)
	})
}
