package value

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Candidate attribute keys as produced by source adapters.
const (
	KeyLenderName           = "lenderName"
	KeyProductName          = "productName"
	KeyInterestRate         = "interestRate"
	KeyDealType             = "dealType"
	KeyTermYears            = "termYears"
	KeyMaxLTV               = "maxLTV"
	KeyArrangementFee       = "arrangementFee"
	KeyValuationFee         = "valuationFee"
	KeyLegalFees            = "legalFees"
	KeyCashback             = "cashback"
	KeyFreeValuation        = "freeValuation"
	KeyFreeLegalWork        = "freeLegalWork"
	KeyOverpaymentAllowance = "overpaymentAllowance"
	KeyERCDescription       = "ercDescription"
	KeyLenderType           = "lenderType"
)

// Candidate is a loosely typed, partially populated deal record. Only the
// normalizer turns it into an entity.Deal.
type Candidate map[string]any

//nolint:gochecknoglobals
var numberNoise = strings.NewReplacer("£", "", "%", "", ",", "", "GBP", "", "gbp", "", " ", "", "\u00a0", "")

func (c Candidate) Has(key string) bool {
	v, ok := c[key]
	if !ok || v == nil {
		return false
	}
	if s, isStr := v.(string); isStr {
		return strings.TrimSpace(s) != ""
	}
	return true
}

func (c Candidate) String(key string) (string, bool) {
	if !c.Has(key) {
		return "", false
	}

	switch v := c[key].(type) {
	case string:
		return strings.TrimSpace(v), true
	case fmt.Stringer:
		return v.String(), true
	default:
		return fmt.Sprint(v), true
	}
}

// Decimal coerces numbers and numeric strings such as "4.19%", "£1,499".
func (c Candidate) Decimal(key string) (decimal.Decimal, bool) {
	if !c.Has(key) {
		return decimal.Zero, false
	}

	switch v := c[key].(type) {
	case decimal.Decimal:
		return v, true
	case float64:
		return decimal.NewFromFloat(v), true
	case float32:
		return decimal.NewFromFloat32(v), true
	case int:
		return decimal.NewFromInt(int64(v)), true
	case int64:
		return decimal.NewFromInt(v), true
	case json.Number:
		d, err := decimal.NewFromString(v.String())
		return d, err == nil
	case string:
		d, err := decimal.NewFromString(numberNoise.Replace(strings.TrimSpace(v)))
		return d, err == nil
	}

	return decimal.Zero, false
}

func (c Candidate) Int(key string) (int, bool) {
	d, ok := c.Decimal(key)
	if !ok {
		return 0, false
	}
	return int(d.IntPart()), true
}

func (c Candidate) Bool(key string) (bool, bool) {
	if !c.Has(key) {
		return false, false
	}

	switch v := c[key].(type) {
	case bool:
		return v, true
	case float64:
		return v != 0, true
	case int:
		return v != 0, true
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "yes", "y", "included", "free":
			return true, true
		case "no", "n", "none":
			return false, true
		}
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		return b, err == nil
	}

	return false, false
}
