package eligibility

import (
	id "schemeteller/pkg/domain"
)

// Income bracket breakpoints, inclusive upper bounds in rupees per year.
const (
	bracketCeil1L   = 100_000
	bracketCeil2_5L = 250_000
	bracketCeil5L   = 500_000
	bracketCeil8L   = 800_000
	bracketCeil10L  = 1_000_000
)

// DeriveIncomeBracket maps annual income onto one of six ordered brackets.
// nil income yields nil: the bracket is unknown, not "lowest". Exposed
// standalone because profile edits re-derive the bracket even when a full
// vector rebuild is deferred.
func DeriveIncomeBracket(annualIncome *float64) *id.IncomeBracket {
	if annualIncome == nil {
		return nil
	}
	var b id.IncomeBracket
	switch income := *annualIncome; {
	case income <= bracketCeil1L:
		b = id.BracketBelow1L
	case income <= bracketCeil2_5L:
		b = id.Bracket1LTo2_5L
	case income <= bracketCeil5L:
		b = id.Bracket2_5LTo5L
	case income <= bracketCeil8L:
		b = id.Bracket5LTo8L
	case income <= bracketCeil10L:
		b = id.Bracket8LTo10L
	default:
		b = id.BracketAbove10L
	}
	return &b
}
