package accounts

import (
	"fmt"
	"strings"

	"github.com/cleared-dev/ledger/internal/id"
	"github.com/cleared-dev/ledger/internal/model"
)

// Identity of the built-in catalogue inside standard definition IDs.
const (
	SystemAuthority  id.AuthorityID = 1
	CatalogueVersion id.DomainID    = 1
)

// StandardAccount enumerates the built-in definitions.
type StandardAccount int

const (
	// Assets
	Cash StandardAccount = iota + 1
	RealEstate
	Supplies
	// Liabilities
	AccountsPayable
	// Equity
	CommonStock
	Revenue
	Dividends
	Expense
	// Equity: Expense
	Wages
	Rent
	Utilities
	SuppliesExpenses
	MiscExpenses
	// Equity: Revenue
	FeesEarned
)

// StandardAccounts lists the catalogue in declaration order.
var StandardAccounts = []StandardAccount{
	Cash, RealEstate, Supplies,
	AccountsPayable,
	CommonStock, Revenue, Dividends, Expense,
	Wages, Rent, Utilities, SuppliesExpenses, MiscExpenses,
	FeesEarned,
}

type standardEntry struct {
	account  StandardAccount
	serial   id.SerialID // shipped serials must never be reassigned
	key      string
	name     string
	equation model.Equation
	parent   StandardAccount // 0 = root
}

// Parents are listed before their children.
var standardEntries = []standardEntry{
	{account: Cash, serial: 1, key: "Cash", name: "Cash", equation: model.Assets},
	{account: RealEstate, serial: 2, key: "RealEstate", name: "Real Estate", equation: model.Assets},
	{account: Supplies, serial: 3, key: "Supplies", name: "Supplies", equation: model.Assets},
	{account: AccountsPayable, serial: 4, key: "AccountsPayable", name: "Accounts Payable", equation: model.Liabilities},
	{account: CommonStock, serial: 5, key: "CommonStock", name: "Common Stock", equation: model.Equity},
	{account: Dividends, serial: 6, key: "Dividends", name: "Dividends", equation: model.Equity},
	{account: Revenue, serial: 7, key: "Revenue", name: "Revenue", equation: model.Equity},
	{account: Expense, serial: 8, key: "Expense", name: "Expense", equation: model.Equity},
	{account: Wages, serial: 9, key: "Wages", name: "Wages", parent: Expense},
	{account: Rent, serial: 10, key: "Rent", name: "Rent", parent: Expense},
	{account: Utilities, serial: 11, key: "Utilities", name: "Utilities", parent: Expense},
	{account: SuppliesExpenses, serial: 12, key: "SuppliesExpenses", name: "Supplies Expenses", parent: Expense},
	{account: MiscExpenses, serial: 13, key: "MiscExpenses", name: "Miscellaneous Expenses", parent: Expense},
	{account: FeesEarned, serial: 14, key: "FeesEarned", name: "Fees Earned", parent: Revenue},
}

var standardCatalogue = buildCatalogue()

func buildCatalogue() map[StandardAccount]*StandardDefinition {
	catalogue := make(map[StandardAccount]*StandardDefinition, len(standardEntries))
	for _, e := range standardEntries {
		def := &StandardDefinition{
			id: id.ID{
				Class:     id.ClassStandardAccountDefinition,
				Authority: SystemAuthority,
				Domain:    CatalogueVersion,
				Serial:    e.serial,
			},
			key:      e.key,
			name:     e.name,
			equation: e.equation,
		}
		if e.parent != 0 {
			parent, ok := catalogue[e.parent]
			if !ok {
				panic(fmt.Sprintf("accounts: %s listed before its parent", e.key))
			}
			def.parent = parent.id
			def.equation = parent.equation
		}
		catalogue[e.account] = def
	}
	return catalogue
}

// Definition returns the catalogue entry for s.
func (s StandardAccount) Definition() *StandardDefinition {
	def, ok := standardCatalogue[s]
	if !ok {
		panic(fmt.Sprintf("accounts: unknown standard account %d", int(s)))
	}
	return def
}

func (s StandardAccount) ID() id.ID                        { return s.Definition().ID() }
func (s StandardAccount) Name() string                     { return s.Definition().Name() }
func (s StandardAccount) EquationVariable() model.Equation { return s.Definition().EquationVariable() }
func (s StandardAccount) ParentID() (id.ID, bool)          { return s.Definition().ParentID() }
func (s StandardAccount) IsStandard() bool                 { return true }

func (s StandardAccount) String() string {
	if def, ok := standardCatalogue[s]; ok {
		return def.key
	}
	return fmt.Sprintf("StandardAccount(%d)", int(s))
}

// standardByID scans the catalogue for a matching ID.
func standardByID(defID id.ID) (*StandardDefinition, bool) {
	for _, s := range StandardAccounts {
		if def := standardCatalogue[s]; def.id == defID {
			return def, true
		}
	}
	return nil, false
}

// ParseStandard finds a standard account by key ("CommonStock") or display
// name ("Common Stock"), ignoring case.
func ParseStandard(name string) (StandardAccount, bool) {
	name = strings.TrimSpace(name)
	for _, s := range StandardAccounts {
		def := standardCatalogue[s]
		if strings.EqualFold(def.key, name) || strings.EqualFold(def.name, name) {
			return s, true
		}
	}
	return 0, false
}
