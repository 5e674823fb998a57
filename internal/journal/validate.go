package journal

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/ledger/internal/accounts"
)

// ValidationError describes a single invariant violation.
type ValidationError struct {
	Invariant   int
	EntryID     string
	Description string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("invariant %d [%s]: %s", e.Invariant, e.EntryID, e.Description)
}

// Resolver resolves an account name to its definition. *accounts.Index
// satisfies it.
type Resolver interface {
	Lookup(name string) (accounts.Definition, error)
}

var hundred = decimal.NewFromInt(100)

// ValidateLegs enforces 5 invariants on a journal script:
//
//  1. each entry balances (sum of debits == sum of credits)
//  2. each leg carries exactly one of debit or credit
//  3. each account name resolves
//  4. amounts are positive
//  5. amounts have at most two decimal places
func ValidateLegs(legs []Leg, resolver Resolver) []ValidationError {
	var errs []ValidationError

	// Invariant 1: Entries balance.
	for _, e := range groupEntries(legs) {
		totalDebit := decimal.Zero
		totalCredit := decimal.Zero
		for _, leg := range e.legs {
			totalDebit = totalDebit.Add(leg.Debit)
			totalCredit = totalCredit.Add(leg.Credit)
		}
		if !totalDebit.Equal(totalCredit) {
			errs = append(errs, ValidationError{
				Invariant:   1,
				EntryID:     e.id,
				Description: fmt.Sprintf("debits (%s) != credits (%s)", totalDebit.StringFixed(2), totalCredit.StringFixed(2)),
			})
		}
	}

	for _, leg := range legs {
		// Invariant 2: Exactly one of debit/credit per row.
		hasDebit := !leg.Debit.IsZero()
		hasCredit := !leg.Credit.IsZero()
		if hasDebit == hasCredit {
			errs = append(errs, ValidationError{
				Invariant:   2,
				EntryID:     leg.EntryID,
				Description: "leg must have exactly one of debit or credit",
			})
		}

		// Invariant 3: Account resolves.
		if _, err := resolver.Lookup(leg.Account); err != nil {
			errs = append(errs, ValidationError{
				Invariant:   3,
				EntryID:     leg.EntryID,
				Description: fmt.Sprintf("unknown account %q", leg.Account),
			})
		}

		for _, a := range []struct {
			side   string
			amount decimal.Decimal
		}{{"debit", leg.Debit}, {"credit", leg.Credit}} {
			if a.amount.IsZero() {
				continue
			}
			// Invariant 4: Positive amounts.
			if a.amount.IsNegative() {
				errs = append(errs, ValidationError{
					Invariant:   4,
					EntryID:     leg.EntryID,
					Description: fmt.Sprintf("%s %s is negative", a.side, a.amount),
				})
			}
			// Invariant 5: Exact decimals, no more than 2 decimal places.
			if scaled := a.amount.Mul(hundred); !scaled.Equal(scaled.Truncate(0)) {
				errs = append(errs, ValidationError{
					Invariant:   5,
					EntryID:     leg.EntryID,
					Description: fmt.Sprintf("%s %s has more than 2 decimal places", a.side, a.amount),
				})
			}
		}
	}

	return errs
}

type entry struct {
	id   string
	legs []Leg
}

// groupEntries groups legs by EntryID in first-seen order.
func groupEntries(legs []Leg) []entry {
	index := make(map[string]int)
	var entries []entry
	for _, leg := range legs {
		i, seen := index[leg.EntryID]
		if !seen {
			i = len(entries)
			index[leg.EntryID] = i
			entries = append(entries, entry{id: leg.EntryID})
		}
		entries[i].legs = append(entries[i].legs, leg)
	}
	return entries
}
