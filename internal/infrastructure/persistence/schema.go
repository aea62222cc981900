package persistence

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"

	"mortgage_deals/internal/domain/entity"
	"mortgage_deals/internal/domain/value"
)

// dealSchema maps a row of the deals table.
type dealSchema struct {
	ID                   int64               `db:"id"`
	LenderName           string              `db:"lender_name"`
	ProductName          string              `db:"product_name"`
	InterestRate         decimal.Decimal     `db:"interest_rate"`
	DealType             string              `db:"deal_type"`
	TermYears            int                 `db:"term_years"`
	MaxLTV               decimal.Decimal     `db:"max_ltv"`
	ArrangementFee       decimal.Decimal     `db:"arrangement_fee"`
	ValuationFee         decimal.Decimal     `db:"valuation_fee"`
	LegalFees            decimal.Decimal     `db:"legal_fees"`
	Cashback             decimal.Decimal     `db:"cashback"`
	FreeValuation        bool                `db:"free_valuation"`
	FreeLegalWork        bool                `db:"free_legal_work"`
	OverpaymentAllowance decimal.NullDecimal `db:"overpayment_allowance"`
	ERCDescription       sql.NullString      `db:"erc_description"`
	LenderType           string              `db:"lender_type"`
	Source               string              `db:"source"`
	LastScraped          time.Time           `db:"last_scraped"`
}

func fromDeal(d entity.Deal) dealSchema {
	s := dealSchema{
		LenderName:     d.LenderName,
		ProductName:    d.ProductName,
		InterestRate:   d.InterestRate,
		DealType:       d.DealType.String(),
		TermYears:      d.TermYears,
		MaxLTV:         d.MaxLTV,
		ArrangementFee: d.ArrangementFee,
		ValuationFee:   d.ValuationFee,
		LegalFees:      d.LegalFees,
		Cashback:       d.Cashback,
		FreeValuation:  d.FreeValuation,
		FreeLegalWork:  d.FreeLegalWork,
		LenderType:     d.LenderType,
		Source:         d.Source,
		LastScraped:    d.LastScraped,
	}

	if d.OverpaymentAllowance != nil {
		s.OverpaymentAllowance = decimal.NewNullDecimal(*d.OverpaymentAllowance)
	}

	if d.ERCDescription != nil {
		s.ERCDescription = sql.NullString{String: *d.ERCDescription, Valid: true}
	}

	if s.LastScraped.IsZero() {
		s.LastScraped = time.Now().UTC()
	}

	return s
}

func (s *dealSchema) toDomain() entity.Deal {
	dealType, ok := value.ParseDealType(s.DealType)
	if !ok {
		dealType = value.DealTypeFixed
	}

	d := entity.Deal{
		LenderName:     s.LenderName,
		ProductName:    s.ProductName,
		InterestRate:   s.InterestRate,
		DealType:       dealType,
		TermYears:      s.TermYears,
		MaxLTV:         s.MaxLTV,
		ArrangementFee: s.ArrangementFee,
		ValuationFee:   s.ValuationFee,
		LegalFees:      s.LegalFees,
		Cashback:       s.Cashback,
		FreeValuation:  s.FreeValuation,
		FreeLegalWork:  s.FreeLegalWork,
		LenderType:     s.LenderType,
		Source:         s.Source,
		LastScraped:    s.LastScraped,
	}

	if s.OverpaymentAllowance.Valid {
		allowance := s.OverpaymentAllowance.Decimal
		d.OverpaymentAllowance = &allowance
	}

	if s.ERCDescription.Valid {
		erc := s.ERCDescription.String
		d.ERCDescription = &erc
	}

	return d
}

// runSchema maps a row of the ingestion_runs table.
type runSchema struct {
	ID           int64          `db:"id"`
	PassID       string         `db:"pass_id"`
	Source       string         `db:"source"`
	Status       string         `db:"status"`
	DealsScraped int            `db:"deals_scraped"`
	ErrorMessage sql.NullString `db:"error_message"`
	CreatedAt    time.Time      `db:"created_at"`
}

func fromRun(r entity.IngestionRun) runSchema {
	s := runSchema{
		PassID:       r.PassID,
		Source:       r.Source,
		Status:       string(r.Status),
		DealsScraped: r.DealsScraped,
		CreatedAt:    r.CreatedAt,
	}

	if r.ErrorMessage != nil {
		s.ErrorMessage = sql.NullString{String: *r.ErrorMessage, Valid: true}
	}

	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}

	return s
}

func (s *runSchema) toDomain() entity.IngestionRun {
	r := entity.IngestionRun{
		ID:           s.ID,
		PassID:       s.PassID,
		Source:       s.Source,
		Status:       entity.RunStatus(s.Status),
		DealsScraped: s.DealsScraped,
		CreatedAt:    s.CreatedAt,
	}

	if s.ErrorMessage.Valid {
		msg := s.ErrorMessage.String
		r.ErrorMessage = &msg
	}

	return r
}
