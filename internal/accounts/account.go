package accounts

import (
	"github.com/shopspring/decimal"

	"github.com/cleared-dev/ledger/internal/id"
)

// Account is the balance paired with one definition. Values handed out by an
// Index are snapshots; only the Index mutates its own accounts.
type Account struct {
	definitionID id.ID
	balance      decimal.Decimal
}

func newAccount(def Definition) *Account {
	return &Account{definitionID: def.ID(), balance: decimal.Zero}
}

// DefinitionID returns the ID of the owning definition.
func (a Account) DefinitionID() id.ID {
	return a.definitionID
}

// Balance returns the signed balance.
func (a Account) Balance() decimal.Decimal {
	return a.balance
}

// Definition resolves the owning definition through idx.
func (a Account) Definition(idx *Index) (Definition, error) {
	return idx.Definition(a.definitionID)
}

func (a *Account) increaseBalance(amount decimal.Decimal) decimal.Decimal {
	a.balance = a.balance.Add(amount)
	return a.balance
}

func (a *Account) decreaseBalance(amount decimal.Decimal) decimal.Decimal {
	a.balance = a.balance.Sub(amount)
	return a.balance
}
