package accounts

import (
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/cleared-dev/ledger/internal/id"
	"github.com/cleared-dev/ledger/internal/model"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func balanceOf(t *testing.T, x *Index, def Definition) decimal.Decimal {
	t.Helper()
	acct, err := x.Account(def)
	require.NoError(t, err)
	return acct.Balance()
}

func assertBalance(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, dec(want).Equal(got), "want %s, got %s", want, got)
}

func TestNewStandard(t *testing.T) {
	x := NewStandard(model.USD)

	assert.Equal(t, model.USD, x.Currency())
	accts := x.Accounts()
	require.Len(t, accts, len(StandardAccounts))
	for _, a := range accts {
		assert.True(t, a.Balance().IsZero())
	}

	eb := x.EquationBalance()
	assert.True(t, eb.Assets().IsZero())
	assert.True(t, eb.Liabilities().IsZero())
	assert.True(t, eb.Equity().IsZero())
	assert.True(t, eb.Balanced())
}

func TestAccountsOrder(t *testing.T) {
	x := NewStandard(model.USD)
	var eqs []model.Equation
	for _, a := range x.Accounts() {
		def, err := a.Definition(x)
		require.NoError(t, err)
		eqs = append(eqs, def.EquationVariable())
	}
	// Assets, then liabilities, then equity.
	for i := 1; i < len(eqs); i++ {
		assert.LessOrEqual(t, eqs[i-1], eqs[i])
	}
}

func TestPostingDirection(t *testing.T) {
	tests := []struct {
		def    StandardAccount
		change model.ValueChange
		want   string
	}{
		{Cash, model.Debit, "10"},
		{Cash, model.Credit, "-10"},
		{AccountsPayable, model.Credit, "10"},
		{AccountsPayable, model.Debit, "-10"},
		{CommonStock, model.Credit, "10"},
		{CommonStock, model.Debit, "-10"},
	}
	for _, tt := range tests {
		x := NewStandard(model.USD)
		var got decimal.Decimal
		var err error
		if tt.change == model.Debit {
			got, err = x.Debit(tt.def, dec("10"))
		} else {
			got, err = x.Credit(tt.def, dec("10"))
		}
		require.NoError(t, err)
		assertBalance(t, tt.want, got)
		assertBalance(t, tt.want, balanceOf(t, x, tt.def))
	}
}

func TestTransactionA(t *testing.T) {
	x := NewStandard(model.USD)

	_, err := x.Debit(Cash, dec("25000"))
	require.NoError(t, err)
	_, err = x.Credit(CommonStock, dec("25000"))
	require.NoError(t, err)

	eb := x.EquationBalance()
	assertBalance(t, "25000", eb.Assets())
	assertBalance(t, "0", eb.Liabilities())
	assertBalance(t, "25000", eb.Equity())
	assert.True(t, eb.Balanced())
}

func TestCustomAccount(t *testing.T) {
	x := NewStandard(model.USD)

	office, err := x.CreateCustomAccount("Office Supplies", Supplies)
	require.NoError(t, err)

	assert.Equal(t, "Office Supplies", office.Name())
	assert.Equal(t, model.Assets, office.EquationVariable())
	assert.False(t, office.IsStandard())
	parentID, ok := office.ParentID()
	require.True(t, ok)
	assert.Equal(t, Supplies.ID(), parentID)

	assert.Equal(t, id.ClassCustomAccountDefinition, office.ID().Class)
	assert.Equal(t, id.SerialID(1), office.ID().Serial)
	assert.True(t, office.ID().Valid())

	_, err = x.Credit(CommonStock, dec("100"))
	require.NoError(t, err)
	_, err = x.Debit(Cash, dec("100"))
	require.NoError(t, err)

	bal, err := x.DebitFor("Office Supplies", dec("10"))
	require.NoError(t, err)
	assertBalance(t, "10", bal)

	bal, err = x.Credit(Cash, dec("10"))
	require.NoError(t, err)
	assertBalance(t, "90", bal)

	acct, err := x.AccountFor("Office Supplies")
	require.NoError(t, err)
	assertBalance(t, "10", acct.Balance())
	assertBalance(t, "100", balanceOf(t, x, CommonStock))

	// Supplies rolls up its child, so the identity still holds.
	eb := x.EquationBalance()
	assertBalance(t, "100", eb.Assets())
	assertBalance(t, "100", eb.Equity())
	assert.True(t, eb.Balanced())

	roll, err := x.RollupBalance(Supplies)
	require.NoError(t, err)
	assertBalance(t, "10", roll)
	assertBalance(t, "0", balanceOf(t, x, Supplies))
}

func TestCustomAccountInheritsEquation(t *testing.T) {
	x := NewStandard(model.USD)

	bank, err := x.CreateCustomAccount("Bank Loan", AccountsPayable)
	require.NoError(t, err)
	assert.Equal(t, model.Liabilities, bank.EquationVariable())

	// A custom parent works too, and the grandchild inherits through it.
	tranche, err := x.CreateCustomAccount("Bank Loan Tranche A", bank)
	require.NoError(t, err)
	assert.Equal(t, model.Liabilities, tranche.EquationVariable())

	chain, err := x.Ancestors(tranche)
	require.NoError(t, err)
	require.Len(t, chain, 2)
	assert.Equal(t, bank.ID(), chain[0].ID())
	assert.Equal(t, AccountsPayable.ID(), chain[1].ID())
}

func TestCustomSerialsUnique(t *testing.T) {
	x := NewStandard(model.USD)
	names := []string{"Checking", "Savings", "Petty Cash", "Brokerage"}

	seen := make(map[id.SerialID]bool)
	var prev id.SerialID
	for _, name := range names {
		def, err := x.CreateCustomAccount(name, Cash)
		require.NoError(t, err)
		serial := def.ID().Serial
		assert.False(t, seen[serial], "serial %d reused", serial)
		assert.Greater(t, serial, prev)
		seen[serial] = true
		prev = serial
	}
	assert.Len(t, x.Accounts(), len(StandardAccounts)+len(names))
}

func TestWithSegment(t *testing.T) {
	x := NewStandard(model.EUR, WithSegment(7))
	def, err := x.CreateCustomAccount("Till", Cash)
	require.NoError(t, err)
	assert.Equal(t, id.SegmentID(7), def.ID().Segment)

	// Standard IDs ignore the segment.
	assert.Equal(t, id.SegmentID(0), Cash.ID().Segment)
}

func TestCreateCustomAccountErrors(t *testing.T) {
	x := NewStandard(model.USD)

	_, err := x.CreateCustomAccount("  ", Cash)
	assert.ErrorIs(t, err, id.ErrFieldNotSet)

	_, err = x.CreateCustomAccount("Orphan", nil)
	assert.ErrorIs(t, err, id.ErrFieldNotSet)

	_, err = x.CreateCustomAccount("Checking", Cash)
	require.NoError(t, err)
	_, err = x.CreateCustomAccount("Checking", Supplies)
	assert.ErrorIs(t, err, ErrDuplicateName)

	// Standard keys and display names are taken too, in any case.
	for _, name := range []string{"Cash", "common stock", "CommonStock", " Fees Earned "} {
		_, err = x.CreateCustomAccount(name, Supplies)
		assert.ErrorIs(t, err, ErrDuplicateName, name)
	}
	def, err := x.Lookup("Cash")
	require.NoError(t, err)
	assert.True(t, def.IsStandard())

	// A parent from another index does not resolve here.
	other := NewStandard(model.USD)
	foreign, err := other.CreateCustomAccount("Elsewhere", Cash)
	require.NoError(t, err)
	_, err = other.CreateCustomAccount("Elsewhere 2", Cash)
	require.NoError(t, err)
	stranger, err := other.CreateCustomAccount("Stranger", foreign)
	require.NoError(t, err)
	_, err = x.CreateCustomAccount("Child", stranger)
	assert.ErrorIs(t, err, ErrDefinitionNotFound)
}

func TestSerialExhausted(t *testing.T) {
	x := NewStandard(model.USD)
	x.nextSerial = id.MaxSerial
	_, err := x.CreateCustomAccount("Last", Cash)
	require.NoError(t, err)
	_, err = x.CreateCustomAccount("One Too Many", Cash)
	assert.ErrorIs(t, err, id.ErrFieldOverflow)
}

func TestUnknownNames(t *testing.T) {
	x := NewStandard(model.USD)

	_, err := x.DebitFor("Nope", dec("1"))
	assert.ErrorIs(t, err, ErrDefinitionNotFound)
	var nf *NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, `"Nope"`, nf.Key)

	_, err = x.CreditFor("Nope", dec("1"))
	assert.ErrorIs(t, err, ErrDefinitionNotFound)

	_, err = x.AccountFor("Nope")
	assert.ErrorIs(t, err, ErrDefinitionNotFound)

	// Name lookup on the posting path is custom-only.
	_, err = x.DebitFor("Cash", dec("1"))
	assert.ErrorIs(t, err, ErrDefinitionNotFound)

	for _, a := range x.Accounts() {
		assert.True(t, a.Balance().IsZero())
	}
}

func TestFindDefinition(t *testing.T) {
	x := NewStandard(model.USD)

	_, ok := x.FindDefinition("Cash")
	assert.False(t, ok, "standard definitions are not searched")

	office, err := x.CreateCustomAccount("Office Supplies", Supplies)
	require.NoError(t, err)

	def, ok := x.FindDefinition("Office Supplies")
	require.True(t, ok)
	assert.Equal(t, office.ID(), def.ID())
}

func TestLookup(t *testing.T) {
	x := NewStandard(model.USD)
	office, err := x.CreateCustomAccount("Office Supplies", Supplies)
	require.NoError(t, err)

	def, err := x.Lookup("Office Supplies")
	require.NoError(t, err)
	assert.Equal(t, office.ID(), def.ID())

	def, err = x.Lookup("Common Stock")
	require.NoError(t, err)
	assert.Equal(t, CommonStock.ID(), def.ID())

	def, err = x.Lookup("accountspayable")
	require.NoError(t, err)
	assert.Equal(t, AccountsPayable.ID(), def.ID())

	_, err = x.Lookup("Nope")
	assert.ErrorIs(t, err, ErrDefinitionNotFound)
}

func TestDefinition(t *testing.T) {
	x := NewStandard(model.USD)

	def, err := x.Definition(Wages.ID())
	require.NoError(t, err)
	assert.Equal(t, "Wages", def.Name())

	_, err = x.Definition(id.ID{Class: id.ClassCustomAccountDefinition, Serial: 99})
	assert.ErrorIs(t, err, ErrDefinitionNotFound)

	_, err = x.Definition(id.ID{Class: id.ClassUnknown, Serial: 1})
	assert.ErrorIs(t, err, ErrDefinitionNotFound)
}

func TestParent(t *testing.T) {
	x := NewStandard(model.USD)

	p, ok, err := x.Parent(Rent)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, Expense.ID(), p.ID())

	_, ok, err = x.Parent(Cash)
	require.NoError(t, err)
	assert.False(t, ok)

	chain, err := x.Ancestors(Cash)
	require.NoError(t, err)
	assert.Empty(t, chain)
}

func TestAncestorsCycle(t *testing.T) {
	x := NewStandard(model.USD)
	a, err := x.CreateCustomAccount("A", Cash)
	require.NoError(t, err)
	b, err := x.CreateCustomAccount("B", a)
	require.NoError(t, err)

	// Corrupt the tree directly; the public API cannot do this.
	a.parent = b.ID()

	_, err = x.Ancestors(b)
	assert.ErrorIs(t, err, ErrCycle)
}

func TestChildrenAndDescendants(t *testing.T) {
	x := NewStandard(model.USD)

	expense, err := x.Account(Expense)
	require.NoError(t, err)

	children, err := x.AccountChildren(expense)
	require.NoError(t, err)
	var got []id.ID
	for _, c := range children {
		got = append(got, c.DefinitionID())
	}
	assert.Equal(t, []id.ID{Wages.ID(), Rent.ID(), Utilities.ID(), SuppliesExpenses.ID(), MiscExpenses.ID()}, got)

	travel, err := x.CreateCustomAccount("Travel", MiscExpenses)
	require.NoError(t, err)
	air, err := x.CreateCustomAccount("Airfare", travel)
	require.NoError(t, err)

	desc, err := x.AccountDescendants(expense)
	require.NoError(t, err)
	got = got[:0]
	for _, d := range desc {
		got = append(got, d.DefinitionID())
	}
	// Depth first: each child is followed by its own subtree.
	assert.Equal(t, []id.ID{
		Wages.ID(), Rent.ID(), Utilities.ID(), SuppliesExpenses.ID(),
		MiscExpenses.ID(), travel.ID(), air.ID(),
	}, got)

	cash, err := x.Account(Cash)
	require.NoError(t, err)
	leaves, err := x.AccountChildren(cash)
	require.NoError(t, err)
	assert.Empty(t, leaves)
}

func TestAccountSnapshot(t *testing.T) {
	x := NewStandard(model.USD)
	before, err := x.Account(Cash)
	require.NoError(t, err)

	_, err = x.Debit(Cash, dec("5"))
	require.NoError(t, err)

	assert.True(t, before.Balance().IsZero(), "snapshot must not change")
	assertBalance(t, "5", balanceOf(t, x, Cash))
}

func TestChapterOne(t *testing.T) {
	x := NewStandard(model.USD)

	type step struct {
		name                          string
		post                          func() error
		assets, liabilities, equity string
	}
	pair := func(debit, credit Definition, amount string) func() error {
		return func() error { return x.Transfer(debit, credit, dec(amount)) }
	}
	steps := []step{
		{"Transaction A", pair(Cash, CommonStock, "25000"), "25000", "0", "25000"},
		{"Transaction B", pair(RealEstate, Cash, "20000"), "25000", "0", "25000"},
		{"Transaction C", pair(Supplies, AccountsPayable, "1350"), "26350", "1350", "25000"},
		{"Transaction D", pair(Cash, FeesEarned, "7500"), "33850", "1350", "32500"},
		{"Transaction E", func() error {
			return x.Post(
				DebitOf(Wages, dec("2125")),
				DebitOf(Rent, dec("800")),
				DebitOf(Utilities, dec("450")),
				DebitOf(MiscExpenses, dec("275")),
				CreditOf(Cash, dec("3650")),
			)
		}, "30200", "1350", "28850"},
		{"Transaction F", pair(AccountsPayable, Cash, "950"), "29250", "400", "28850"},
		{"Transaction G", pair(SuppliesExpenses, Supplies, "800"), "28450", "400", "28050"},
		{"Transaction H", pair(Dividends, Cash, "2000"), "26450", "400", "26050"},
	}

	for _, s := range steps {
		require.NoError(t, s.post(), s.name)
		eb := x.EquationBalance()
		assertBalance(t, s.assets, eb.Assets())
		assertBalance(t, s.liabilities, eb.Liabilities())
		assertBalance(t, s.equity, eb.Equity())
		assert.True(t, eb.Balanced(), s.name)
	}

	assertBalance(t, "5900", balanceOf(t, x, Cash))
	assertBalance(t, "550", balanceOf(t, x, Supplies))
	assertBalance(t, "-2000", balanceOf(t, x, Dividends))

	expenses, err := x.RollupBalance(Expense)
	require.NoError(t, err)
	assertBalance(t, "-4450", expenses)

	revenue, err := x.RollupBalance(Revenue)
	require.NoError(t, err)
	assertBalance(t, "7500", revenue)
}

func TestConcurrentPosting(t *testing.T) {
	x := NewStandard(model.USD)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, x.Transfer(Cash, CommonStock, dec("1")))
			_ = x.EquationBalance()
		}()
	}
	wg.Wait()

	assertBalance(t, "50", balanceOf(t, x, Cash))
	assert.True(t, x.EquationBalance().Balanced())
}

func TestLogging(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	x := NewStandard(model.USD, WithLogger(zap.New(core)))

	_, err := x.CreateCustomAccount("Office Supplies", Supplies)
	require.NoError(t, err)
	_, err = x.Debit(Cash, dec("1"))
	require.NoError(t, err)
	err = x.Post(DebitOf(Cash, dec("1")))
	require.Error(t, err)

	assert.Equal(t, 1, logs.FilterMessage("custom account created").Len())
	assert.Equal(t, 1, logs.FilterMessage("posted").Len())
	rejected := logs.FilterMessage("posting batch rejected").All()
	require.Len(t, rejected, 1)
	assert.Equal(t, zap.WarnLevel, rejected[0].Level)
}

func TestNilDefinitions(t *testing.T) {
	x := NewStandard(model.USD)
	var typedNil *CustomDefinition

	for _, def := range []Definition{nil, typedNil, (*StandardDefinition)(nil)} {
		_, _, err := x.Parent(def)
		assert.ErrorIs(t, err, id.ErrFieldNotSet)

		_, err = x.Ancestors(def)
		assert.ErrorIs(t, err, id.ErrFieldNotSet)

		_, err = x.Debit(def, dec("1"))
		assert.ErrorIs(t, err, id.ErrFieldNotSet)

		_, err = x.Account(def)
		assert.ErrorIs(t, err, id.ErrFieldNotSet)

		_, err = x.RollupBalance(def)
		assert.ErrorIs(t, err, id.ErrFieldNotSet)

		_, err = x.CreateCustomAccount("Child", def)
		assert.ErrorIs(t, err, id.ErrFieldNotSet)

		err = x.Post(DebitOf(def, dec("1")), CreditOf(Cash, dec("1")))
		assert.ErrorIs(t, err, id.ErrFieldNotSet)
	}
}

func TestCustomNamesTrimmed(t *testing.T) {
	x := NewStandard(model.USD)
	office, err := x.CreateCustomAccount(" Office ", Supplies)
	require.NoError(t, err)
	assert.Equal(t, "Office", office.Name())

	for _, name := range []string{"Office", " Office ", "Office\t"} {
		def, ok := x.FindDefinition(name)
		require.True(t, ok, "%q", name)
		assert.Equal(t, office.ID(), def.ID())
	}

	_, err = x.DebitFor(" Office ", dec("3"))
	require.NoError(t, err)
	_, err = x.CreditFor("Office ", dec("1"))
	require.NoError(t, err)
	acct, err := x.AccountFor(" Office")
	require.NoError(t, err)
	assertBalance(t, "2", acct.Balance())

	_, err = x.CreateCustomAccount("Office  ", Cash)
	assert.ErrorIs(t, err, ErrDuplicateName)
}
