package server

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"git.appkode.ru/pub/go/failure"
	"github.com/shopspring/decimal"

	"mortgage_deals/internal/domain/filter"
	"mortgage_deals/internal/domain/service/search"
	"mortgage_deals/internal/domain/value"
	"mortgage_deals/pkg/errcodes"
	"mortgage_deals/pkg/rest"
)

// Bounds shared with the validate tags of rest.DealSearchRequest.
const maxYears = 50

var maxPrincipal = decimal.NewFromInt(100_000_000) //nolint:gochecknoglobals

func invalidFilter(name, raw string) error {
	return failure.NewInvalidArgumentError(
		fmt.Sprintf("invalid filter %s=%q", name, raw),
		failure.WithCode(errcodes.InvalidFilter),
		failure.WithDescription(fmt.Sprintf("Filter %q has an invalid value", name)),
	)
}

func invalidFinance(name, raw string) error {
	return failure.NewInvalidArgumentError(
		fmt.Sprintf("invalid parameter %s=%q", name, raw),
		failure.WithCode(errcodes.InvalidFinanceParams),
		failure.WithDescription(fmt.Sprintf("Parameter %q must be a positive number within range", name)),
	)
}

// queryParser reads typed values from a query string, keeping the first error.
type queryParser struct {
	values url.Values
	err    error
}

func (p *queryParser) raw(name string) (string, bool) {
	raw := strings.TrimSpace(p.values.Get(name))
	return raw, raw != ""
}

func (p *queryParser) decimal(name string, fail func(string, string) error) *decimal.Decimal {
	raw, ok := p.raw(name)
	if !ok || p.err != nil {
		return nil
	}

	d, err := decimal.NewFromString(raw)
	if err != nil || d.IsNegative() {
		p.err = fail(name, raw)
		return nil
	}

	return &d
}

func (p *queryParser) positiveInt(name string, fail func(string, string) error) *int {
	raw, ok := p.raw(name)
	if !ok || p.err != nil {
		return nil
	}

	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		p.err = fail(name, raw)
		return nil
	}

	return &n
}

func (p *queryParser) flag(name string) bool {
	raw, ok := p.raw(name)
	if !ok || p.err != nil {
		return false
	}

	b, err := strconv.ParseBool(raw)
	if err != nil {
		p.err = invalidFilter(name, raw)
		return false
	}

	return b
}

func (p *queryParser) dealType(name string) *value.DealType {
	raw, ok := p.raw(name)
	if !ok || p.err != nil {
		return nil
	}

	t, known := value.ParseDealType(raw)
	if !known {
		p.err = invalidFilter(name, raw)
		return nil
	}

	return &t
}

// limit never fails: anything unusable becomes the default.
func (p *queryParser) limit(name string) int {
	raw, _ := p.raw(name)
	n, _ := strconv.Atoi(raw)
	return search.NormalizeLimit(n)
}

func parseDealQuery(values url.Values) (search.Query, error) {
	p := &queryParser{values: values}

	q := search.Query{
		Filters: filter.Set{
			MaxRate:           p.decimal("maxRate", invalidFilter),
			MinLTV:            p.decimal("minLtv", invalidFilter),
			DealType:          p.dealType("dealType"),
			TermYears:         p.positiveInt("termYears", invalidFilter),
			FreeValuation:     p.flag("freeValuation"),
			FreeLegalWork:     p.flag("freeLegal"),
			MaxArrangementFee: p.decimal("maxFee", invalidFilter),
			HasCashback:       p.flag("hasCashback"),
		},
		Limit:     p.limit("limit"),
		Baseline:  p.decimal("baseline", invalidFinance),
		Principal: p.decimal("principal", invalidFinance),
		Years:     p.positiveInt("years", invalidFinance),
	}

	if raw, ok := p.raw("lenderType"); ok {
		q.Filters.LenderType = &raw
	}

	if p.err != nil {
		return search.Query{}, p.err
	}

	if q.Principal != nil && (!q.Principal.IsPositive() || q.Principal.GreaterThan(maxPrincipal)) {
		return search.Query{}, invalidFinance("principal", q.Principal.String())
	}

	if q.Years != nil && *q.Years > maxYears {
		return search.Query{}, invalidFinance("years", strconv.Itoa(*q.Years))
	}

	return q, nil
}

func newDomainQuery(r rest.DealSearchRequest) search.Query {
	q := search.Query{
		Filters: filter.Set{
			MaxRate:           fromFloat(r.MaxRate),
			MinLTV:            fromFloat(r.MinLTV),
			LenderType:        r.LenderType,
			TermYears:         r.TermYears,
			FreeValuation:     r.FreeValuation,
			FreeLegalWork:     r.FreeLegal,
			MaxArrangementFee: fromFloat(r.MaxFee),
			HasCashback:       r.HasCashback,
		},
		Limit:     search.NormalizeLimit(r.Limit),
		Baseline:  fromFloat(r.Baseline),
		Principal: fromFloat(r.Principal),
		Years:     r.Years,
	}

	if r.DealType != nil {
		// validated against the enum by req.Read
		if t, ok := value.ParseDealType(*r.DealType); ok {
			q.Filters.DealType = &t
		}
	}

	return q
}

func fromFloat(f *float64) *decimal.Decimal {
	if f == nil {
		return nil
	}

	d := decimal.NewFromFloat(*f)

	return &d
}
