package accounts

import (
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/cleared-dev/ledger/internal/model"
)

// Posting is one side of a balanced batch.
type Posting struct {
	Definition Definition
	Change     model.ValueChange
	Amount     decimal.Decimal
}

// DebitOf returns a debit posting.
func DebitOf(def Definition, amount decimal.Decimal) Posting {
	return Posting{Definition: def, Change: model.Debit, Amount: amount}
}

// CreditOf returns a credit posting.
func CreditOf(def Definition, amount decimal.Decimal) Posting {
	return Posting{Definition: def, Change: model.Credit, Amount: amount}
}

// Post applies postings as one unit. Every definition must resolve, every
// amount must be positive and total debits must equal total credits; if any
// check fails no balance changes.
func (x *Index) Post(postings ...Posting) error {
	x.mu.Lock()
	defer x.mu.Unlock()

	if err := x.checkBatch(postings); err != nil {
		x.log.Warn("posting batch rejected", zap.Int("postings", len(postings)), zap.Error(err))
		return err
	}
	for i, p := range postings {
		if _, err := x.apply(p.Definition, p.Change, p.Amount); err != nil {
			// checkBatch resolved the same accounts under the same lock.
			panic(fmt.Sprintf("accounts: posting %d failed after validation: %v", i, err))
		}
	}
	return nil
}

func (x *Index) checkBatch(postings []Posting) error {
	if len(postings) == 0 {
		return fmt.Errorf("empty batch: %w", ErrUnbalanced)
	}
	debits, credits := decimal.Zero, decimal.Zero
	for i, p := range postings {
		if _, _, err := x.account(p.Definition); err != nil {
			return fmt.Errorf("posting %d: %w", i, err)
		}
		if !p.Amount.IsPositive() {
			return fmt.Errorf("posting %d: amount %s: %w", i, p.Amount, ErrInvalidAmount)
		}
		switch p.Change {
		case model.Debit:
			debits = debits.Add(p.Amount)
		case model.Credit:
			credits = credits.Add(p.Amount)
		default:
			return fmt.Errorf("posting %d: unknown change %d: %w", i, int(p.Change), ErrInvalidAmount)
		}
	}
	if !debits.Equal(credits) {
		return fmt.Errorf("debits %s != credits %s: %w", debits.StringFixed(2), credits.StringFixed(2), ErrUnbalanced)
	}
	return nil
}

// Transfer debits one definition and credits another by the same amount.
func (x *Index) Transfer(debit, credit Definition, amount decimal.Decimal) error {
	return x.Post(DebitOf(debit, amount), CreditOf(credit, amount))
}
