// Package rest holds the JSON wire types of the public HTTP API.
package rest

import (
	"time"

	"github.com/shopspring/decimal"
)

// Deal is a deal enriched with metrics for the caller's parameters.
type Deal struct {
	LenderName           string           `json:"lenderName"`
	ProductName          string           `json:"productName"`
	InterestRate         decimal.Decimal  `json:"interestRate"`
	DealType             string           `json:"dealType"`
	TermYears            int              `json:"termYears"`
	MaxLTV               decimal.Decimal  `json:"maxLtv"`
	ArrangementFee       decimal.Decimal  `json:"arrangementFee"`
	ValuationFee         decimal.Decimal  `json:"valuationFee"`
	LegalFees            decimal.Decimal  `json:"legalFees"`
	Cashback             decimal.Decimal  `json:"cashback"`
	FreeValuation        bool             `json:"freeValuation"`
	FreeLegalWork        bool             `json:"freeLegalWork"`
	OverpaymentAllowance *decimal.Decimal `json:"overpaymentAllowance,omitempty"`
	ERCDescription       *string          `json:"ercDescription,omitempty"`
	LenderType           string           `json:"lenderType"`
	Source               string           `json:"source"`
	LastScraped          time.Time        `json:"lastScraped"`
	Metrics              Metrics          `json:"metrics"`
}

type Metrics struct {
	MonthlyPayment  decimal.Decimal  `json:"monthlyPayment"`
	NetFees         decimal.Decimal  `json:"netFees"`
	TotalCost2Years decimal.Decimal  `json:"totalCost2Years"`
	TotalCost5Years decimal.Decimal  `json:"totalCost5Years"`
	MonthlySavings  *decimal.Decimal `json:"monthlySavings"`
	BreakEvenMonths *int             `json:"breakEvenMonths"`
}

type DealsResponse struct {
	Deals []Deal `json:"deals"`
	// Source is the fallback tier that answered: database, live or static.
	Source string `json:"source"`
}

// DealSearchRequest is the JSON form of the GET /v1/deals query string.
type DealSearchRequest struct {
	MaxRate       *float64 `json:"maxRate" validate:"omitempty,gt=0"`
	MinLTV        *float64 `json:"minLtv" validate:"omitempty,gte=0,lte=100"`
	DealType      *string  `json:"dealType" validate:"omitempty,oneof=Fixed Tracker Variable fixed tracker variable"`
	LenderType    *string  `json:"lenderType" validate:"omitempty,min=1"`
	TermYears     *int     `json:"termYears" validate:"omitempty,gt=0"`
	FreeValuation bool     `json:"freeValuation"`
	FreeLegal     bool     `json:"freeLegal"`
	MaxFee        *float64 `json:"maxFee" validate:"omitempty,gte=0"`
	HasCashback   bool     `json:"hasCashback"`
	Limit         int      `json:"limit"`
	Baseline      *float64 `json:"baseline" validate:"omitempty,gt=0"`
	Principal     *float64 `json:"principal" validate:"omitempty,gt=0,lte=100000000"`
	Years         *int     `json:"years" validate:"omitempty,gt=0,lte=50"`
}

type IngestionResult struct {
	Source string `json:"source"`
	Count  int    `json:"count"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type IngestionRun struct {
	ID           int64     `json:"id"`
	PassID       string    `json:"passId"`
	Source       string    `json:"source"`
	Status       string    `json:"status"`
	DealsScraped int       `json:"dealsScraped"`
	ErrorMessage *string   `json:"errorMessage,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

type Stats struct {
	TotalDeals        int             `json:"totalDeals"`
	AverageRate       decimal.Decimal `json:"averageRate"`
	LowestRate        decimal.Decimal `json:"lowestRate"`
	LastSuccessfulRun *time.Time      `json:"lastSuccessfulRun"`
	CountsBySource    map[string]int  `json:"countsBySource"`
}

// Error is the body of every non-2xx response.
type Error struct {
	Code      ErrorCode `json:"code"`
	Message   string    `json:"message"`
	SupportID string    `json:"supportId"`
}

type ErrorCode string
