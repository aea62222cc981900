// Package finance derives repayment and cost metrics for a deal.
package finance

import (
	"math"

	"github.com/shopspring/decimal"

	"mortgage_deals/internal/domain/entity"
)

var (
	half    = decimal.NewFromFloat(0.5) //nolint:gochecknoglobals
	twelve  = decimal.NewFromInt(12)    //nolint:gochecknoglobals
	horizon = [2]int64{2, 5}            //nolint:gochecknoglobals
)

// Params are the caller-level financial inputs. Principal and Years are
// usually deployment defaults; Baseline is the caller's current payment.
type Params struct {
	Principal decimal.Decimal
	Years     int
	Baseline  *decimal.Decimal
}

// MonthlyPayment is the standard amortizing payment, unrounded.
// Zero rate degrades to straight-line repayment; a non-positive term yields 0.
func MonthlyPayment(principal, annualRatePct decimal.Decimal, years int) float64 {
	n := float64(years * 12)
	if n <= 0 {
		return 0
	}

	p := principal.InexactFloat64()
	monthlyRate := annualRatePct.InexactFloat64() / 100 / 12

	if monthlyRate <= 0 {
		return p / n
	}

	growth := math.Pow(1+monthlyRate, n)

	return p * monthlyRate * growth / (growth - 1)
}

// Calculate never fails: degenerate inputs produce zeros or nil fields.
// A payment that overflows float64 yields zero payment and cost figures with
// no savings or break-even.
func Calculate(deal entity.Deal, params Params) entity.DerivedMetrics {
	netFees := deal.NetFees()

	raw := MonthlyPayment(params.Principal, deal.InterestRate, params.Years)
	if math.IsNaN(raw) || math.IsInf(raw, 0) {
		return entity.DerivedMetrics{NetFees: RoundCents(netFees)}
	}

	payment := decimal.NewFromFloat(raw)

	metrics := entity.DerivedMetrics{
		MonthlyPayment:  RoundCents(payment),
		NetFees:         RoundCents(netFees),
		TotalCost2Years: RoundCents(totalCost(payment, netFees, horizon[0])),
		TotalCost5Years: RoundCents(totalCost(payment, netFees, horizon[1])),
	}

	if params.Baseline == nil {
		return metrics
	}

	savings := RoundCents(params.Baseline.Sub(metrics.MonthlyPayment))
	metrics.MonthlySavings = &savings

	if savings.IsPositive() && netFees.IsPositive() {
		months := int(netFees.Div(savings).Ceil().IntPart())
		metrics.BreakEvenMonths = &months
	}

	return metrics
}

// Enrich attaches metrics to every deal, keeping order.
func Enrich(deals []entity.Deal, params Params) []entity.EnrichedDeal {
	out := make([]entity.EnrichedDeal, 0, len(deals))

	for _, d := range deals {
		out = append(out, entity.EnrichedDeal{Deal: d, Metrics: Calculate(d, params)})
	}

	return out
}

// RoundCents rounds half up (towards +Inf) at the second decimal place.
func RoundCents(d decimal.Decimal) decimal.Decimal {
	return d.Shift(2).Add(half).Floor().Shift(-2)
}

func totalCost(payment, netFees decimal.Decimal, years int64) decimal.Decimal {
	return payment.Mul(twelve).Mul(decimal.NewFromInt(years)).Add(netFees)
}
