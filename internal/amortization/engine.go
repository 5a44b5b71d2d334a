// Package amortization recomputes the derived figures of a payment plan's
// installments: outstanding balance, reserve fund and refund of the surplus.
//
// The computation is always a full pass over the ordered schedule. It never
// patches forward from a changed installment, so the result depends only on
// the inputs and not on the order in which the ledger was edited.
package amortization

import (
	"errors"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

var (
	ErrNegativeCeiling   = errors.New("reserve ceiling must not be negative")
	ErrDuplicatePeriod   = errors.New("duplicate installment number")
	ErrNegativePrincipal = errors.New("principal must not be negative")
)

// Policy toggles the behaviors the business has not settled on.
type Policy struct {
	// FloorReserveAtZero keeps the running reserve from going negative when
	// collections fall short of the PMT.
	FloorReserveAtZero bool
}

// DefaultPolicy is the policy used when nothing is configured.
var DefaultPolicy = Policy{FloorReserveAtZero: true}

// Period is one installment as seen by the engine.
type Period struct {
	Number    int
	PMT       decimal.NullDecimal
	Collected decimal.Decimal
}

// Figures are the recomputed values of one installment.
type Figures struct {
	Number      int
	Collected   decimal.Decimal
	Balance     decimal.Decimal
	ReserveFund decimal.Decimal
	Refund      decimal.Decimal
}

// Input is a complete snapshot of a plan.
type Input struct {
	Principal decimal.Decimal
	Ceiling   decimal.Decimal
	Periods   []Period
	Policy    Policy
}

// Result holds the figures of every computed installment, in order, and the
// numbers of the installments skipped for lack of a PMT.
type Result struct {
	Figures []Figures
	Skipped []int
}

// Recalculate runs the amortization pass over every period in ascending
// installment number.
func Recalculate(in Input) (Result, error) {
	if in.Ceiling.IsNegative() {
		return Result{}, ErrNegativeCeiling
	}
	if in.Principal.IsNegative() {
		return Result{}, ErrNegativePrincipal
	}

	periods := make([]Period, len(in.Periods))
	copy(periods, in.Periods)
	sort.SliceStable(periods, func(i, j int) bool { return periods[i].Number < periods[j].Number })
	for i := 1; i < len(periods); i++ {
		if periods[i].Number == periods[i-1].Number {
			return Result{}, fmt.Errorf("%w: %d", ErrDuplicatePeriod, periods[i].Number)
		}
	}

	res := Result{Figures: make([]Figures, 0, len(periods))}
	balance := in.Principal
	reserve := decimal.Zero
	first := true

	for _, p := range periods {
		// Without a PMT the period is left as stored; the running totals
		// carry over untouched to the next one.
		if !p.PMT.Valid {
			res.Skipped = append(res.Skipped, p.Number)
			continue
		}
		pmt := p.PMT.Decimal

		balance = decimal.Max(decimal.Zero, balance.Sub(pmt))

		// The first period never opens the fund with a deficit.
		reserve = reserve.Add(p.Collected.Sub(pmt))
		if reserve.IsNegative() && (first || in.Policy.FloorReserveAtZero) {
			reserve = decimal.Zero
		}
		first = false

		refund := decimal.Zero
		if reserve.GreaterThan(in.Ceiling) {
			refund = reserve.Sub(in.Ceiling)
			reserve = in.Ceiling
		}

		res.Figures = append(res.Figures, Figures{
			Number:      p.Number,
			Collected:   p.Collected,
			Balance:     balance,
			ReserveFund: reserve,
			Refund:      refund,
		})
	}

	return res, nil
}
