package config

import "github.com/shopspring/decimal"

type Finance struct {
	// Principal and TermYears are used when a query does not supply them.
	Principal decimal.Decimal `env:"FINANCE_PRINCIPAL" envDefault:"200000"`
	TermYears int             `env:"FINANCE_TERM_YEARS" envDefault:"25"`
}
