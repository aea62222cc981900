// Package filter holds the typed deal predicates shared by the repository
// query and the in-memory fallback path.
package filter

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"mortgage_deals/internal/domain/entity"
	"mortgage_deals/internal/domain/value"
)

// Bind registers an argument and returns its placeholder.
type Bind func(arg any) string

type Predicate struct {
	Name   string
	Match  func(entity.Deal) bool
	Clause func(bind Bind) string
}

// Set is the caller-facing filter; nil / false fields impose no constraint.
type Set struct {
	MaxRate           *decimal.Decimal
	MinLTV            *decimal.Decimal
	DealType          *value.DealType
	LenderType        *string
	TermYears         *int
	FreeValuation     bool
	FreeLegalWork     bool
	MaxArrangementFee *decimal.Decimal
	HasCashback       bool
}

func (s Set) Predicates() []Predicate {
	var preds []Predicate

	if s.MaxRate != nil {
		limit := *s.MaxRate
		preds = append(preds, Predicate{
			Name:   "maxRate",
			Match:  func(d entity.Deal) bool { return d.InterestRate.LessThanOrEqual(limit) },
			Clause: func(bind Bind) string { return "interest_rate <= " + bind(limit) },
		})
	}

	if s.MinLTV != nil {
		limit := *s.MinLTV
		preds = append(preds, Predicate{
			Name:   "minLtv",
			Match:  func(d entity.Deal) bool { return d.MaxLTV.GreaterThanOrEqual(limit) },
			Clause: func(bind Bind) string { return "max_ltv >= " + bind(limit) },
		})
	}

	if s.DealType != nil {
		want := *s.DealType
		preds = append(preds, Predicate{
			Name:   "dealType",
			Match:  func(d entity.Deal) bool { return d.DealType == want },
			Clause: func(bind Bind) string { return "deal_type = " + bind(want.String()) },
		})
	}

	if s.LenderType != nil {
		want := *s.LenderType
		preds = append(preds, Predicate{
			Name:   "lenderType",
			Match:  func(d entity.Deal) bool { return d.LenderType == want },
			Clause: func(bind Bind) string { return "lender_type = " + bind(want) },
		})
	}

	if s.TermYears != nil {
		want := *s.TermYears
		preds = append(preds, Predicate{
			Name:   "termYears",
			Match:  func(d entity.Deal) bool { return d.TermYears == want },
			Clause: func(bind Bind) string { return "term_years = " + bind(want) },
		})
	}

	if s.FreeValuation {
		preds = append(preds, Predicate{
			Name:   "freeValuation",
			Match:  func(d entity.Deal) bool { return d.FreeValuation },
			Clause: func(Bind) string { return "free_valuation" },
		})
	}

	if s.FreeLegalWork {
		preds = append(preds, Predicate{
			Name:   "freeLegal",
			Match:  func(d entity.Deal) bool { return d.FreeLegalWork },
			Clause: func(Bind) string { return "free_legal_work" },
		})
	}

	if s.MaxArrangementFee != nil {
		limit := *s.MaxArrangementFee
		preds = append(preds, Predicate{
			Name:   "maxFee",
			Match:  func(d entity.Deal) bool { return d.ArrangementFee.LessThanOrEqual(limit) },
			Clause: func(bind Bind) string { return "arrangement_fee <= " + bind(limit) },
		})
	}

	if s.HasCashback {
		preds = append(preds, Predicate{
			Name:   "hasCashback",
			Match:  func(d entity.Deal) bool { return d.Cashback.IsPositive() },
			Clause: func(Bind) string { return "cashback > 0" },
		})
	}

	return preds
}

// All folds predicates into one AND-composed predicate. An empty list
// matches everything.
func All(preds ...Predicate) Predicate {
	names := make([]string, 0, len(preds))
	for _, p := range preds {
		names = append(names, p.Name)
	}

	return Predicate{
		Name: strings.Join(names, "&"),
		Match: func(d entity.Deal) bool {
			for _, p := range preds {
				if !p.Match(d) {
					return false
				}
			}
			return true
		},
		Clause: func(bind Bind) string {
			if len(preds) == 0 {
				return "TRUE"
			}

			clauses := make([]string, 0, len(preds))
			for _, p := range preds {
				clauses = append(clauses, "("+p.Clause(bind)+")")
			}
			return strings.Join(clauses, " AND ")
		},
	}
}

// Composite is shorthand for All(s.Predicates()...).
func (s Set) Composite() Predicate {
	return All(s.Predicates()...)
}

// PostgresBinder returns a Bind producing $1, $2, ... and the collected args.
func PostgresBinder() (Bind, *[]any) {
	args := make([]any, 0)

	return func(arg any) string {
		args = append(args, arg)
		return fmt.Sprintf("$%d", len(args))
	}, &args
}
