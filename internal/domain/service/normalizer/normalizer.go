// Package normalizer converts adapter candidates into canonical deals.
package normalizer

import (
	"time"

	"github.com/shopspring/decimal"

	"mortgage_deals/internal/domain/entity"
	"mortgage_deals/internal/domain/value"
)

type Normalizer struct {
	now func() time.Time
}

func New() *Normalizer {
	return &Normalizer{now: time.Now}
}

// WithClock overrides the ingestion timestamp source.
func (n *Normalizer) WithClock(now func() time.Time) *Normalizer {
	n.now = now
	return n
}

// Normalize applies defaults and coercion. ok is false when the candidate
// lacks a lender, a product or a positive interest rate.
func (n *Normalizer) Normalize(c value.Candidate, source string) (entity.Deal, bool) {
	lender, ok := c.String(value.KeyLenderName)
	if !ok {
		return entity.Deal{}, false
	}

	product, ok := c.String(value.KeyProductName)
	if !ok {
		return entity.Deal{}, false
	}

	rate, ok := c.Decimal(value.KeyInterestRate)
	if !ok || !rate.IsPositive() {
		return entity.Deal{}, false
	}

	deal := entity.Deal{
		LenderName:     lender,
		ProductName:    product,
		InterestRate:   rate,
		DealType:       value.DealTypeFixed,
		TermYears:      entity.DefaultTermYears,
		MaxLTV:         entity.DefaultMaxLTV,
		ArrangementFee: nonNegative(c, value.KeyArrangementFee),
		ValuationFee:   nonNegative(c, value.KeyValuationFee),
		LegalFees:      nonNegative(c, value.KeyLegalFees),
		Cashback:       nonNegative(c, value.KeyCashback),
		LenderType:     entity.DefaultLenderType,
		Source:         source,
		LastScraped:    n.now().UTC(),
	}

	if s, ok := c.String(value.KeyDealType); ok {
		if t, known := value.ParseDealType(s); known {
			deal.DealType = t
		}
	}

	if c.Has(value.KeyTermYears) {
		// term stays positive: unparseable or zero keeps the default
		if years, _ := c.Int(value.KeyTermYears); years > 0 {
			deal.TermYears = years
		}
	}

	if c.Has(value.KeyMaxLTV) {
		ltv, _ := c.Decimal(value.KeyMaxLTV)
		deal.MaxLTV = ltv
	}

	deal.FreeValuation, _ = c.Bool(value.KeyFreeValuation)
	deal.FreeLegalWork, _ = c.Bool(value.KeyFreeLegalWork)

	if allowance, ok := c.Decimal(value.KeyOverpaymentAllowance); ok {
		deal.OverpaymentAllowance = &allowance
	}

	if erc, ok := c.String(value.KeyERCDescription); ok {
		deal.ERCDescription = &erc
	}

	if lenderType, ok := c.String(value.KeyLenderType); ok {
		deal.LenderType = lenderType
	}

	return deal, true
}

// NormalizeAll drops invalid candidates and keeps input order.
func (n *Normalizer) NormalizeAll(candidates []value.Candidate, source string) []entity.Deal {
	deals := make([]entity.Deal, 0, len(candidates))

	for _, c := range candidates {
		if deal, ok := n.Normalize(c, source); ok {
			deals = append(deals, deal)
		}
	}

	return deals
}

func nonNegative(c value.Candidate, key string) decimal.Decimal {
	d, ok := c.Decimal(key)
	if !ok || d.IsNegative() {
		return decimal.Zero
	}
	return d
}
