package entity

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"mortgage_deals/internal/domain/value"
)

const (
	DefaultTermYears  = 2
	DefaultLenderType = "UK Mainstream"
)

var DefaultMaxLTV = decimal.NewFromInt(75) //nolint:gochecknoglobals

// Deal is one mortgage product offer. LenderName, ProductName and
// InterestRate together identify it.
type Deal struct {
	LenderName           string
	ProductName          string
	InterestRate         decimal.Decimal
	DealType             value.DealType
	TermYears            int
	MaxLTV               decimal.Decimal
	ArrangementFee       decimal.Decimal
	ValuationFee         decimal.Decimal
	LegalFees            decimal.Decimal
	Cashback             decimal.Decimal
	FreeValuation        bool
	FreeLegalWork        bool
	OverpaymentAllowance *decimal.Decimal
	ERCDescription       *string
	LenderType           string
	Source               string
	LastScraped          time.Time
}

// Key renders the identity triple, used in logs and persistence errors.
func (d Deal) Key() string {
	return fmt.Sprintf("%s/%s@%s", d.LenderName, d.ProductName, d.InterestRate.String())
}

// NetFees is arrangement + valuation + legal minus cashback. May be negative.
func (d Deal) NetFees() decimal.Decimal {
	return d.ArrangementFee.Add(d.ValuationFee).Add(d.LegalFees).Sub(d.Cashback)
}
