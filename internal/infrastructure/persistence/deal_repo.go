package persistence

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"mortgage_deals/internal/domain"
	"mortgage_deals/internal/domain/entity"
	"mortgage_deals/internal/domain/filter"
	"mortgage_deals/pkg/errcodes"
)

const dealColumns = `
	id, lender_name, product_name, interest_rate, deal_type, term_years, max_ltv,
	arrangement_fee, valuation_fee, legal_fees, cashback, free_valuation, free_legal_work,
	overpayment_allowance, erc_description, lender_type, source, last_scraped`

type DealRepository struct {
	db *sqlx.DB
}

func NewDealRepository(db *sqlx.DB) *DealRepository {
	return &DealRepository{db: db}
}

// UpsertDeal inserts the deal or, when (lender, product, rate) already
// exists, refreshes its fee and last_scraped. Conflicts are resolved by
// Postgres, so concurrent passes need no application locking.
func (r *DealRepository) UpsertDeal(ctx context.Context, deal entity.Deal) error {
	query := `
		INSERT INTO deals (
			lender_name, product_name, interest_rate, deal_type, term_years, max_ltv,
			arrangement_fee, valuation_fee, legal_fees, cashback, free_valuation,
			free_legal_work, overpayment_allowance, erc_description, lender_type,
			source, last_scraped
		) VALUES (
			:lender_name, :product_name, :interest_rate, :deal_type, :term_years, :max_ltv,
			:arrangement_fee, :valuation_fee, :legal_fees, :cashback, :free_valuation,
			:free_legal_work, :overpayment_allowance, :erc_description, :lender_type,
			:source, :last_scraped
		)
		ON CONFLICT (lender_name, product_name, interest_rate) DO UPDATE SET
			arrangement_fee = EXCLUDED.arrangement_fee,
			last_scraped    = EXCLUDED.last_scraped`

	if _, err := r.db.NamedExecContext(ctx, query, fromDeal(deal)); err != nil {
		return domain.NewPersistenceError(deal.Key(), err)
	}

	return nil
}

// QueryDeals returns deals matching every filter, cheapest rate first.
func (r *DealRepository) QueryDeals(ctx context.Context, filters filter.Set, limit int) ([]entity.Deal, error) {
	bind, args := filter.PostgresBinder()

	where := filters.Composite().Clause(bind)
	query := fmt.Sprintf(
		`SELECT %s FROM deals WHERE %s ORDER BY interest_rate ASC, id ASC LIMIT %s`,
		dealColumns, where, bind(limit),
	)

	var schemas []dealSchema
	if err := r.db.SelectContext(ctx, &schemas, query, *args...); err != nil {
		return nil, domain.NewQueryError(err)
	}

	deals := make([]entity.Deal, 0, len(schemas))
	for i := range schemas {
		deals = append(deals, schemas[i].toDomain())
	}

	return deals, nil
}

type statsRow struct {
	TotalDeals  int             `db:"total_deals"`
	AverageRate decimal.Decimal `db:"average_rate"`
	LowestRate  decimal.Decimal `db:"lowest_rate"`
	LastSuccess sql.NullTime    `db:"last_success"`
}

type sourceCountRow struct {
	Source string `db:"source"`
	Count  int    `db:"count"`
}

// GetStats reads both aggregates inside one read-only transaction so the
// counts agree with each other.
func (r *DealRepository) GetStats(ctx context.Context) (entity.Stats, error) {
	stats := entity.Stats{CountsBySource: make(map[string]int)}

	err := withTx(ctx, r.db, &sql.TxOptions{ReadOnly: true}, func(tx *sqlx.Tx) error {
		var row statsRow

		query := `
			SELECT
				COUNT(*)                                  AS total_deals,
				COALESCE(ROUND(AVG(interest_rate), 2), 0) AS average_rate,
				COALESCE(MIN(interest_rate), 0)           AS lowest_rate,
				(SELECT MAX(created_at) FROM ingestion_runs WHERE status = 'success') AS last_success
			FROM deals`

		if err := tx.GetContext(ctx, &row, query); err != nil {
			return domain.WrapError(err, errcodes.DealQueryFailed, "failed to aggregate deals")
		}

		var counts []sourceCountRow
		if err := tx.SelectContext(ctx, &counts,
			`SELECT source, COUNT(*) AS count FROM deals GROUP BY source ORDER BY source`,
		); err != nil {
			return domain.WrapError(err, errcodes.DealQueryFailed, "failed to count deals by source")
		}

		stats.TotalDeals = row.TotalDeals
		stats.AverageRate = row.AverageRate
		stats.LowestRate = row.LowestRate

		if row.LastSuccess.Valid {
			at := row.LastSuccess.Time
			stats.LastSuccessfulRun = &at
		}

		for _, c := range counts {
			stats.CountsBySource[c.Source] = c.Count
		}

		return nil
	})
	if err != nil {
		return entity.Stats{}, err
	}

	return stats, nil
}
