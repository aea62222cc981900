package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

type Stats struct {
	TotalDeals        int
	AverageRate       decimal.Decimal
	LowestRate        decimal.Decimal
	LastSuccessfulRun *time.Time
	CountsBySource    map[string]int
}
