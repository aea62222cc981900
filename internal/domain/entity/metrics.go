package entity

import "github.com/shopspring/decimal"

// DerivedMetrics is computed per read request and never persisted.
type DerivedMetrics struct {
	MonthlyPayment  decimal.Decimal
	NetFees         decimal.Decimal
	TotalCost2Years decimal.Decimal
	TotalCost5Years decimal.Decimal
	MonthlySavings  *decimal.Decimal
	BreakEvenMonths *int
}

type EnrichedDeal struct {
	Deal
	Metrics DerivedMetrics
}
