package entity_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"mortgage_deals/internal/domain/entity"
)

func TestDealKey(t *testing.T) {
	testCases := []struct {
		name string
		rate string
		key  string
	}{
		{name: "Two decimals", rate: "4.19", key: "Nationwide/2 Year Fixed@4.19"},
		{name: "Trailing zero", rate: "4.10", key: "Nationwide/2 Year Fixed@4.1"},
		{name: "Four decimals", rate: "4.1925", key: "Nationwide/2 Year Fixed@4.1925"},
		{name: "Three decimals", rate: "4.193", key: "Nationwide/2 Year Fixed@4.193"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			d := entity.Deal{
				LenderName:   "Nationwide",
				ProductName:  "2 Year Fixed",
				InterestRate: decimal.RequireFromString(tc.rate),
			}

			require.Equal(t, tc.key, d.Key())
		})
	}
}
