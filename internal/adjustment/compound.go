// Package adjustment composes monthly index percentages into compound
// monetary correction factors.
package adjustment

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ErrInvalidDateRange is returned for unparsable or inverted date ranges
var ErrInvalidDateRange = errors.New("invalid index date range")

var hundred = decimal.NewFromInt(100)

var dateLayouts = []string{"2006-01-02", "2006-01", time.RFC3339}

// MonthlyRate is one month of an index series
type MonthlyRate struct {
	Month      time.Time       `json:"month"`
	Percentage decimal.Decimal `json:"percentage"`
}

// Result is a compound adjustment with the series it was computed from
type Result struct {
	Factor        decimal.Decimal `json:"factor"`
	Percentage    decimal.Decimal `json:"percentage"`
	MonthsApplied int             `json:"months_applied"`
	Series        []MonthlyRate   `json:"series"`
}

// MonthStart normalizes a date to the first day of its month (UTC)
func MonthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// ParseMonth parses YYYY-MM-DD, YYYY-MM or RFC3339 and normalizes to month start
func ParseMonth(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return MonthStart(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: data inválida %q", ErrInvalidDateRange, value)
}

// ParseRange parses and validates both ends of a range
func ParseRange(start, end string) (time.Time, time.Time, error) {
	from, err := ParseMonth(start)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	to, err := ParseMonth(end)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if from.After(to) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: início %s posterior ao fim %s",
			ErrInvalidDateRange, from.Format("2006-01"), to.Format("2006-01"))
	}
	return from, to, nil
}

// Compound multiplies (1 + p/100) over the series. An empty series yields a
// factor of 1.
func Compound(series []MonthlyRate) Result {
	factor := decimal.NewFromInt(1)
	for _, m := range series {
		factor = factor.Mul(decimal.NewFromInt(1).Add(m.Percentage.Div(hundred)))
	}

	if series == nil {
		series = []MonthlyRate{}
	}

	return Result{
		Factor:        factor,
		Percentage:    factor.Sub(decimal.NewFromInt(1)).Mul(hundred),
		MonthsApplied: len(series),
		Series:        series,
	}
}

// Apply corrects an amount by the factor, rounded to cents
func (r Result) Apply(amount decimal.Decimal) decimal.Decimal {
	return amount.Mul(r.Factor).Round(2)
}
