package finance_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"mortgage_deals/internal/domain/entity"
	"mortgage_deals/internal/domain/service/finance"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func ptr[T any](v T) *T {
	return &v
}

func TestCalculateMonthlyPayment(t *testing.T) {
	rq := require.New(t)

	testCases := []struct {
		name      string
		rate      string
		principal string
		years     int
		payment   string
	}{
		{
			name:      "Amortized 15 years",
			rate:      "4.19",
			principal: "85819.31",
			years:     15,
			payment:   "643.00",
		},
		{
			name:      "Amortized 25 years",
			rate:      "4.5",
			principal: "200000",
			years:     25,
			payment:   "1111.66",
		},
		{
			name:      "Zero rate is straight line",
			rate:      "0",
			principal: "200000",
			years:     25,
			payment:   "666.67",
		},
		{
			name:      "Zero term",
			rate:      "4.5",
			principal: "200000",
			years:     0,
			payment:   "0.00",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(*testing.T) {
			deal := entity.Deal{InterestRate: dec(tc.rate)}

			metrics := finance.Calculate(deal, finance.Params{
				Principal: dec(tc.principal),
				Years:     tc.years,
			})

			rq.Equal(tc.payment, metrics.MonthlyPayment.StringFixed(2))
			rq.Nil(metrics.MonthlySavings)
			rq.Nil(metrics.BreakEvenMonths)
		})
	}
}

func TestCalculateIsReproducible(t *testing.T) {
	rq := require.New(t)

	deal := entity.Deal{InterestRate: dec("4.19"), ArrangementFee: dec("999")}
	params := finance.Params{Principal: dec("85819.31"), Years: 15}

	first := finance.Calculate(deal, params)
	second := finance.Calculate(deal, params)

	rq.Equal(first, second)
}

func TestCalculateTotalCost(t *testing.T) {
	rq := require.New(t)

	deal := entity.Deal{
		InterestRate:   dec("4.5"),
		ArrangementFee: dec("999"),
		ValuationFee:   dec("250"),
		LegalFees:      dec("0"),
		Cashback:       dec("250"),
	}

	metrics := finance.Calculate(deal, finance.Params{Principal: dec("200000"), Years: 25})

	rq.Equal("999.00", metrics.NetFees.StringFixed(2))
	rq.Equal("27678.96", metrics.TotalCost2Years.StringFixed(2))
	rq.Equal("67698.90", metrics.TotalCost5Years.StringFixed(2))
	rq.True(metrics.TotalCost5Years.GreaterThanOrEqual(metrics.TotalCost2Years))
}

func TestCalculateNegativeNetFees(t *testing.T) {
	rq := require.New(t)

	deal := entity.Deal{InterestRate: dec("3"), Cashback: dec("500")}

	metrics := finance.Calculate(deal, finance.Params{
		Principal: dec("100000"),
		Years:     25,
		Baseline:  ptr(dec("1000")),
	})

	rq.Equal("-500.00", metrics.NetFees.StringFixed(2))
	rq.NotNil(metrics.MonthlySavings)
	rq.True(metrics.MonthlySavings.IsPositive())
	rq.Nil(metrics.BreakEvenMonths)
}

func TestCalculateBreakEven(t *testing.T) {
	rq := require.New(t)

	// 15600 over 24 months at 0% is exactly 650 a month.
	params := func(baseline string) finance.Params {
		return finance.Params{Principal: dec("15600"), Years: 2, Baseline: ptr(dec(baseline))}
	}

	testCases := []struct {
		name      string
		fees      string
		baseline  string
		savings   string
		breakEven *int
	}{
		{
			name:      "Saves money with fees",
			fees:      "999",
			baseline:  "700",
			savings:   "50.00",
			breakEven: ptr(20),
		},
		{
			name:     "No saving",
			fees:     "999",
			baseline: "650",
			savings:  "0.00",
		},
		{
			name:     "Costs more",
			fees:     "999",
			baseline: "600",
			savings:  "-50.00",
		},
		{
			name:     "No fees to recoup",
			fees:     "0",
			baseline: "700",
			savings:  "50.00",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(*testing.T) {
			deal := entity.Deal{InterestRate: decimal.Zero, ArrangementFee: dec(tc.fees)}

			metrics := finance.Calculate(deal, params(tc.baseline))

			rq.Equal("650.00", metrics.MonthlyPayment.StringFixed(2))
			rq.NotNil(metrics.MonthlySavings)
			rq.Equal(tc.savings, metrics.MonthlySavings.StringFixed(2))
			rq.Equal(tc.breakEven, metrics.BreakEvenMonths)
		})
	}
}

func TestRoundCents(t *testing.T) {
	rq := require.New(t)

	testCases := []struct {
		in  string
		out string
	}{
		{in: "1.005", out: "1.01"},
		{in: "1.004", out: "1.00"},
		{in: "-1.005", out: "-1.00"},
		{in: "2.675", out: "2.68"},
	}

	for _, tc := range testCases {
		t.Run(tc.in, func(*testing.T) {
			rq.Equal(tc.out, finance.RoundCents(dec(tc.in)).StringFixed(2))
		})
	}
}

func TestEnrichKeepsOrder(t *testing.T) {
	rq := require.New(t)

	deals := []entity.Deal{
		{LenderName: "B", InterestRate: dec("5")},
		{LenderName: "A", InterestRate: dec("4")},
	}

	enriched := finance.Enrich(deals, finance.Params{Principal: dec("100000"), Years: 20})

	rq.Len(enriched, 2)
	rq.Equal("B", enriched[0].LenderName)
	rq.Equal("A", enriched[1].LenderName)
	rq.True(enriched[0].Metrics.MonthlyPayment.GreaterThan(enriched[1].Metrics.MonthlyPayment))
}

func TestCalculateNonFinitePayment(t *testing.T) {
	testCases := []struct {
		name   string
		rate   string
		params finance.Params
	}{
		{
			name:   "Term overflows the growth factor",
			rate:   "4.19",
			params: finance.Params{Principal: dec("200000"), Years: 1000000, Baseline: ptr(dec("900"))},
		},
		{
			name:   "Principal beyond float64",
			rate:   "4.19",
			params: finance.Params{Principal: dec("1e400"), Years: 25, Baseline: ptr(dec("900"))},
		},
		{
			name:   "Absurd scraped rate",
			rate:   "20000",
			params: finance.Params{Principal: dec("200000"), Years: 25, Baseline: ptr(dec("900"))},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rq := require.New(t)

			deal := entity.Deal{InterestRate: dec(tc.rate), ArrangementFee: dec("999")}

			var metrics entity.DerivedMetrics

			rq.NotPanics(func() { metrics = finance.Calculate(deal, tc.params) })

			rq.True(metrics.MonthlyPayment.IsZero())
			rq.True(metrics.TotalCost2Years.IsZero())
			rq.True(metrics.TotalCost5Years.IsZero())
			rq.Equal("999.00", metrics.NetFees.StringFixed(2))
			rq.Nil(metrics.MonthlySavings)
			rq.Nil(metrics.BreakEvenMonths)
		})
	}
}
