package server

import (
	"github.com/samber/lo"

	"mortgage_deals/internal/domain/entity"
	"mortgage_deals/pkg/rest"
)

func newRESTDeal(d entity.EnrichedDeal) rest.Deal {
	return rest.Deal{
		LenderName:           d.LenderName,
		ProductName:          d.ProductName,
		InterestRate:         d.InterestRate,
		DealType:             d.DealType.String(),
		TermYears:            d.TermYears,
		MaxLTV:               d.MaxLTV,
		ArrangementFee:       d.ArrangementFee,
		ValuationFee:         d.ValuationFee,
		LegalFees:            d.LegalFees,
		Cashback:             d.Cashback,
		FreeValuation:        d.FreeValuation,
		FreeLegalWork:        d.FreeLegalWork,
		OverpaymentAllowance: d.OverpaymentAllowance,
		ERCDescription:       d.ERCDescription,
		LenderType:           d.LenderType,
		Source:               d.Source,
		LastScraped:          d.LastScraped,
		Metrics: rest.Metrics{
			MonthlyPayment:  d.Metrics.MonthlyPayment,
			NetFees:         d.Metrics.NetFees,
			TotalCost2Years: d.Metrics.TotalCost2Years,
			TotalCost5Years: d.Metrics.TotalCost5Years,
			MonthlySavings:  d.Metrics.MonthlySavings,
			BreakEvenMonths: d.Metrics.BreakEvenMonths,
		},
	}
}

func newRESTDeals(deals []entity.EnrichedDeal) []rest.Deal {
	return lo.Map(deals, func(d entity.EnrichedDeal, _ int) rest.Deal { return newRESTDeal(d) })
}

func newRESTIngestionResults(results []entity.SourceResult) []rest.IngestionResult {
	return lo.Map(results, func(r entity.SourceResult, _ int) rest.IngestionResult {
		return rest.IngestionResult{
			Source: r.Source,
			Count:  r.Count,
			Status: string(r.Status),
			Error:  r.Error,
		}
	})
}

func newRESTIngestionRuns(runs []entity.IngestionRun) []rest.IngestionRun {
	return lo.Map(runs, func(r entity.IngestionRun, _ int) rest.IngestionRun {
		return rest.IngestionRun{
			ID:           r.ID,
			PassID:       r.PassID,
			Source:       r.Source,
			Status:       string(r.Status),
			DealsScraped: r.DealsScraped,
			ErrorMessage: r.ErrorMessage,
			CreatedAt:    r.CreatedAt,
		}
	})
}

func newRESTStats(s entity.Stats) rest.Stats {
	counts := s.CountsBySource
	if counts == nil {
		counts = map[string]int{}
	}

	return rest.Stats{
		TotalDeals:        s.TotalDeals,
		AverageRate:       s.AverageRate,
		LowestRate:        s.LowestRate,
		LastSuccessfulRun: s.LastSuccessfulRun,
		CountsBySource:    counts,
	}
}
