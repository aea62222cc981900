package filter_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"mortgage_deals/internal/domain/entity"
	"mortgage_deals/internal/domain/filter"
	"mortgage_deals/internal/domain/value"
)

func ptr[T any](v T) *T {
	return &v
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func baseDeal() entity.Deal {
	return entity.Deal{
		LenderName:     "Nationwide",
		ProductName:    "2 Year Fixed",
		InterestRate:   dec("4.19"),
		DealType:       value.DealTypeFixed,
		TermYears:      2,
		MaxLTV:         dec("75"),
		ArrangementFee: dec("999"),
		LenderType:     entity.DefaultLenderType,
	}
}

func TestSetMatch(t *testing.T) {
	rq := require.New(t)

	testCases := []struct {
		name    string
		filters filter.Set
		mutate  func(*entity.Deal)
		match   bool
	}{
		{name: "Empty set", filters: filter.Set{}, match: true},
		{name: "Rate at limit", filters: filter.Set{MaxRate: ptr(dec("4.19"))}, match: true},
		{name: "Rate above limit", filters: filter.Set{MaxRate: ptr(dec("4.18"))}, match: false},
		{name: "LTV below minimum", filters: filter.Set{MinLTV: ptr(dec("80"))}, match: false},
		{name: "LTV at minimum", filters: filter.Set{MinLTV: ptr(dec("75"))}, match: true},
		{name: "Other deal type", filters: filter.Set{DealType: ptr(value.DealTypeTracker)}, match: false},
		{name: "Lender type", filters: filter.Set{LenderType: ptr("Building Society")}, match: false},
		{name: "Term", filters: filter.Set{TermYears: ptr(5)}, match: false},
		{name: "Free valuation required", filters: filter.Set{FreeValuation: true}, match: false},
		{
			name:    "Free valuation present",
			filters: filter.Set{FreeValuation: true},
			mutate:  func(d *entity.Deal) { d.FreeValuation = true },
			match:   true,
		},
		{name: "Free legal required", filters: filter.Set{FreeLegalWork: true}, match: false},
		{name: "Fee cap", filters: filter.Set{MaxArrangementFee: ptr(dec("500"))}, match: false},
		{name: "Cashback required", filters: filter.Set{HasCashback: true}, match: false},
		{
			name:    "Cashback present",
			filters: filter.Set{HasCashback: true},
			mutate:  func(d *entity.Deal) { d.Cashback = dec("250") },
			match:   true,
		},
		{
			name:    "Conjunction fails on one predicate",
			filters: filter.Set{MaxRate: ptr(dec("5")), DealType: ptr(value.DealTypeVariable)},
			match:   false,
		},
		{
			name:    "Conjunction passes",
			filters: filter.Set{MaxRate: ptr(dec("5")), DealType: ptr(value.DealTypeFixed), TermYears: ptr(2)},
			match:   true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(*testing.T) {
			deal := baseDeal()
			if tc.mutate != nil {
				tc.mutate(&deal)
			}

			rq.Equal(tc.match, tc.filters.Composite().Match(deal))
		})
	}
}

func TestCompositeClause(t *testing.T) {
	rq := require.New(t)

	bind, args := filter.PostgresBinder()

	set := filter.Set{
		MaxRate:     ptr(dec("4.3")),
		DealType:    ptr(value.DealTypeFixed),
		HasCashback: true,
	}

	clause := set.Composite().Clause(bind)

	rq.Equal("(interest_rate <= $1) AND (deal_type = $2) AND (cashback > 0)", clause)
	rq.Len(*args, 2)
	rq.True(dec("4.3").Equal((*args)[0].(decimal.Decimal)))
	rq.Equal("Fixed", (*args)[1])
}

func TestEmptyClause(t *testing.T) {
	rq := require.New(t)

	bind, args := filter.PostgresBinder()

	rq.Equal("TRUE", filter.Set{}.Composite().Clause(bind))
	rq.Empty(*args)
	rq.Empty(filter.Set{}.Predicates())
}
