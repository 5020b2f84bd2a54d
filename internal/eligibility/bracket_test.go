package eligibility

import (
	"testing"

	"github.com/stretchr/testify/assert"

	id "schemeteller/pkg/domain"
)

func TestDeriveIncomeBracket(t *testing.T) {
	tests := []struct {
		name   string
		income *float64
		want   *id.IncomeBracket
	}{
		{"nil income yields nil bracket", nil, nil},
		{"zero income", f(0), bracket(id.BracketBelow1L)},
		{"exactly 1L is inclusive", f(100000), bracket(id.BracketBelow1L)},
		{"just above 1L", f(100001), bracket(id.Bracket1LTo2_5L)},
		{"exactly 2.5L", f(250000), bracket(id.Bracket1LTo2_5L)},
		{"exactly 5L", f(500000), bracket(id.Bracket2_5LTo5L)},
		{"exactly 8L", f(800000), bracket(id.Bracket5LTo8L)},
		{"exactly 10L is inclusive", f(1000000), bracket(id.Bracket8LTo10L)},
		{"just above 10L", f(1000001), bracket(id.BracketAbove10L)},
		{"fractional income near a breakpoint", f(100000.50), bracket(id.Bracket1LTo2_5L)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DeriveIncomeBracket(tt.income)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			if assert.NotNil(t, got) {
				assert.Equal(t, *tt.want, *got)
			}
		})
	}
}

func f(v float64) *float64 { return &v }

func bracket(b id.IncomeBracket) *id.IncomeBracket { return &b }
