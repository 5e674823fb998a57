package accounts

import (
	"fmt"
	"strings"
	"sync"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/cleared-dev/ledger/internal/id"
	"github.com/cleared-dev/ledger/internal/model"
	"github.com/cleared-dev/ledger/internal/statement"
)

// Index is the chart of accounts. It owns every Account and every custom
// Definition, and is the only place balances change. It is safe for
// concurrent use; mutations are serialized.
type Index struct {
	mu sync.RWMutex

	currency   model.Currency
	segment    id.SegmentID
	nextSerial id.SerialID

	custom      map[id.SerialID]*CustomDefinition
	customOrder []id.SerialID

	// Accounts partitioned by equation variable.
	assets      []*Account
	liabilities []*Account
	equity      []*Account

	log *zap.Logger
}

// Option configures an Index.
type Option func(*Index)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(x *Index) {
		if l != nil {
			x.log = l
		}
	}
}

// WithSegment sets the identifier segment used for custom definitions.
func WithSegment(s id.SegmentID) Option {
	return func(x *Index) { x.segment = s }
}

// NewStandard returns an Index seeded with one zero-balance account per
// standard definition.
func NewStandard(currency model.Currency, opts ...Option) *Index {
	x := &Index{
		currency:   currency,
		nextSerial: 1,
		custom:     make(map[id.SerialID]*CustomDefinition),
		log:        zap.NewNop(),
	}
	for _, opt := range opts {
		opt(x)
	}
	for _, s := range StandardAccounts {
		def := s.Definition()
		p := x.partition(def.EquationVariable())
		*p = append(*p, newAccount(def))
	}
	x.log.Debug("chart of accounts created",
		zap.String("currency", currency.Ticker),
		zap.Int("standard_accounts", len(StandardAccounts)))
	return x
}

// Currency returns the chart's currency.
func (x *Index) Currency() model.Currency {
	return x.currency
}

// Definition resolves an ID to its definition.
func (x *Index) Definition(defID id.ID) (Definition, error) {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return x.definition(defID)
}

func (x *Index) definition(defID id.ID) (Definition, error) {
	switch defID.Class {
	case id.ClassCustomAccountDefinition:
		if def, ok := x.custom[defID.Serial]; ok && def.id == defID {
			return def, nil
		}
	case id.ClassStandardAccountDefinition:
		if def, ok := standardByID(defID); ok {
			return def, nil
		}
	}
	return nil, definitionNotFound(defID)
}

// FindDefinition finds a custom definition by exact name. Standard
// definitions are not searched; use Lookup or ParseStandard for those.
func (x *Index) FindDefinition(name string) (Definition, bool) {
	x.mu.RLock()
	defer x.mu.RUnlock()
	def, ok := x.findCustom(name)
	if !ok {
		return nil, false
	}
	return def, true
}

// findCustom matches the trimmed name, as CreateCustomAccount stores it.
func (x *Index) findCustom(name string) (*CustomDefinition, bool) {
	name = strings.TrimSpace(name)
	for _, serial := range x.customOrder {
		if def := x.custom[serial]; def.name == name {
			return def, true
		}
	}
	return nil, false
}

// Lookup resolves a name against custom definitions first, then against the
// standard catalogue by key or display name.
func (x *Index) Lookup(name string) (Definition, error) {
	if def, ok := x.FindDefinition(name); ok {
		return def, nil
	}
	if s, ok := ParseStandard(name); ok {
		return s.Definition(), nil
	}
	return nil, definitionNameNotFound(name)
}

// CreateCustomAccount registers a custom definition under parent and creates
// its zero-balance account. The new definition inherits parent's equation
// variable.
func (x *Index) CreateCustomAccount(name string, parent Definition) (*CustomDefinition, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, &id.FieldNotSetError{Type: "CustomDefinition", Field: "name"}
	}
	if isNil(parent) {
		return nil, &id.FieldNotSetError{Type: "CustomDefinition", Field: "parent"}
	}
	if s, ok := ParseStandard(name); ok {
		return nil, fmt.Errorf("creating %q: shadows standard %s: %w", name, s, ErrDuplicateName)
	}

	x.mu.Lock()
	defer x.mu.Unlock()

	resolved, err := x.definition(parent.ID())
	if err != nil {
		return nil, fmt.Errorf("creating %q: parent: %w", name, err)
	}
	if _, dup := x.findCustom(name); dup {
		return nil, fmt.Errorf("creating %q: %w", name, ErrDuplicateName)
	}
	if x.nextSerial > id.MaxSerial {
		return nil, fmt.Errorf("creating %q: serial: %w", name, id.ErrFieldOverflow)
	}

	def := &CustomDefinition{
		id: id.ID{
			Class:   id.ClassCustomAccountDefinition,
			Segment: x.segment,
			Serial:  x.takeSerial(),
		},
		name:     name,
		equation: resolved.EquationVariable(),
		parent:   resolved.ID(),
	}
	x.custom[def.id.Serial] = def
	x.customOrder = append(x.customOrder, def.id.Serial)

	p := x.partition(def.equation)
	*p = append(*p, newAccount(def))

	x.log.Debug("custom account created",
		zap.String("name", name),
		zap.Stringer("id", def.id),
		zap.String("parent", resolved.Name()),
		zap.Stringer("equation", def.equation))
	return def, nil
}

func (x *Index) takeSerial() id.SerialID {
	serial := x.nextSerial
	x.nextSerial++
	return serial
}

// Account returns a snapshot of the account paired with def.
func (x *Index) Account(def Definition) (Account, error) {
	x.mu.RLock()
	defer x.mu.RUnlock()
	acct, _, err := x.account(def)
	if err != nil {
		return Account{}, err
	}
	return *acct, nil
}

// AccountFor returns the account of the custom definition called name.
func (x *Index) AccountFor(name string) (Account, error) {
	x.mu.RLock()
	defer x.mu.RUnlock()
	def, ok := x.findCustom(name)
	if !ok {
		return Account{}, definitionNameNotFound(name)
	}
	acct, _, err := x.account(def)
	if err != nil {
		return Account{}, err
	}
	return *acct, nil
}

// account resolves def through the index and scans the matching partition.
func (x *Index) account(def Definition) (*Account, Definition, error) {
	if isNil(def) {
		return nil, nil, &id.FieldNotSetError{Type: "Posting", Field: "definition"}
	}
	resolved, err := x.definition(def.ID())
	if err != nil {
		return nil, nil, err
	}
	defID := resolved.ID()
	for _, acct := range *x.partition(resolved.EquationVariable()) {
		if acct.definitionID == defID {
			return acct, resolved, nil
		}
	}
	return nil, nil, accountNotFound(defID)
}

// Debit posts a debit of amount to def and returns the new balance.
func (x *Index) Debit(def Definition, amount decimal.Decimal) (decimal.Decimal, error) {
	return x.postOne(def, model.Debit, amount)
}

// Credit posts a credit of amount to def and returns the new balance.
func (x *Index) Credit(def Definition, amount decimal.Decimal) (decimal.Decimal, error) {
	return x.postOne(def, model.Credit, amount)
}

// DebitFor is Debit addressed by custom definition name.
func (x *Index) DebitFor(name string, amount decimal.Decimal) (decimal.Decimal, error) {
	return x.postOneFor(name, model.Debit, amount)
}

// CreditFor is Credit addressed by custom definition name.
func (x *Index) CreditFor(name string, amount decimal.Decimal) (decimal.Decimal, error) {
	return x.postOneFor(name, model.Credit, amount)
}

func (x *Index) postOneFor(name string, change model.ValueChange, amount decimal.Decimal) (decimal.Decimal, error) {
	x.mu.Lock()
	defer x.mu.Unlock()
	def, ok := x.findCustom(name)
	if !ok {
		return decimal.Zero, definitionNameNotFound(name)
	}
	return x.apply(def, change, amount)
}

func (x *Index) postOne(def Definition, change model.ValueChange, amount decimal.Decimal) (decimal.Decimal, error) {
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.apply(def, change, amount)
}

// apply is the posting rule. The account is resolved before anything changes.
func (x *Index) apply(def Definition, change model.ValueChange, amount decimal.Decimal) (decimal.Decimal, error) {
	acct, resolved, err := x.account(def)
	if err != nil {
		return decimal.Zero, err
	}

	var balance decimal.Decimal
	if resolved.EquationVariable().Increases(change) {
		balance = acct.increaseBalance(amount)
	} else {
		balance = acct.decreaseBalance(amount)
	}

	x.log.Debug("posted",
		zap.String("account", resolved.Name()),
		zap.Stringer("change", change),
		zap.String("amount", amount.StringFixed(2)),
		zap.String("balance", balance.StringFixed(2)))
	return balance, nil
}

// Parent resolves def's parent. The bool is false for root definitions.
func (x *Index) Parent(def Definition) (Definition, bool, error) {
	if isNil(def) {
		return nil, false, &id.FieldNotSetError{Type: "Definition", Field: "definition"}
	}
	x.mu.RLock()
	defer x.mu.RUnlock()
	return x.parent(def)
}

func (x *Index) parent(def Definition) (Definition, bool, error) {
	parentID, ok := def.ParentID()
	if !ok {
		return nil, false, nil
	}
	p, err := x.definition(parentID)
	if err != nil {
		return nil, false, err
	}
	return p, true, nil
}

// Ancestors returns def's parent chain, nearest first.
func (x *Index) Ancestors(def Definition) ([]Definition, error) {
	if isNil(def) {
		return nil, &id.FieldNotSetError{Type: "Definition", Field: "definition"}
	}
	x.mu.RLock()
	defer x.mu.RUnlock()

	seen := map[id.ID]bool{def.ID(): true}
	var chain []Definition
	for cur := def; ; {
		p, ok, err := x.parent(cur)
		if err != nil {
			return nil, err
		}
		if !ok {
			return chain, nil
		}
		if seen[p.ID()] {
			return nil, fmt.Errorf("walking parents of %s: %w at %s", def.ID(), ErrCycle, p.ID())
		}
		seen[p.ID()] = true
		chain = append(chain, p)
		cur = p
	}
}

// AccountChildren returns the accounts whose definitions are direct children
// of acct's definition.
func (x *Index) AccountChildren(acct Account) ([]Account, error) {
	x.mu.RLock()
	defer x.mu.RUnlock()
	children, err := x.children(acct.definitionID)
	if err != nil {
		return nil, err
	}
	return snapshot(children), nil
}

func (x *Index) children(parentID id.ID) ([]*Account, error) {
	parent, err := x.definition(parentID)
	if err != nil {
		return nil, err
	}
	var out []*Account
	for _, a := range *x.partition(parent.EquationVariable()) {
		def, err := x.definition(a.definitionID)
		if err != nil {
			return nil, err
		}
		if hasParent(def, parentID) {
			out = append(out, a)
		}
	}
	return out, nil
}

// AccountDescendants returns every account below acct, depth first.
func (x *Index) AccountDescendants(acct Account) ([]Account, error) {
	x.mu.RLock()
	defer x.mu.RUnlock()
	desc, err := x.descendants(acct.definitionID)
	if err != nil {
		return nil, err
	}
	return snapshot(desc), nil
}

// descendants terminates because every parent ID predates its children.
func (x *Index) descendants(parentID id.ID) ([]*Account, error) {
	children, err := x.children(parentID)
	if err != nil {
		return nil, err
	}
	var out []*Account
	for _, c := range children {
		out = append(out, c)
		below, err := x.descendants(c.definitionID)
		if err != nil {
			return nil, err
		}
		out = append(out, below...)
	}
	return out, nil
}

// RollupBalance returns def's balance plus the balances of all its descendants.
func (x *Index) RollupBalance(def Definition) (decimal.Decimal, error) {
	x.mu.RLock()
	defer x.mu.RUnlock()
	acct, _, err := x.account(def)
	if err != nil {
		return decimal.Zero, err
	}
	return x.rollup(acct)
}

func (x *Index) rollup(acct *Account) (decimal.Decimal, error) {
	total := acct.balance
	desc, err := x.descendants(acct.definitionID)
	if err != nil {
		return decimal.Zero, err
	}
	for _, d := range desc {
		total = total.Add(d.balance)
	}
	return total, nil
}

// EquationBalance sums the root accounts of each partition. Child balances are
// included through their root's rollup, so each sub-account is counted once.
func (x *Index) EquationBalance() statement.EquationBalance {
	x.mu.RLock()
	defer x.mu.RUnlock()

	var totals [3]decimal.Decimal
	for i, eq := range model.Equations {
		totals[i] = decimal.Zero
		for _, acct := range *x.partition(eq) {
			def, err := x.definition(acct.definitionID)
			if err != nil {
				panic(fmt.Sprintf("accounts: orphaned account %s: %v", acct.definitionID, err))
			}
			if !isRoot(def) {
				continue
			}
			sum, err := x.rollup(acct)
			if err != nil {
				panic(fmt.Sprintf("accounts: rolling up %s: %v", def.Name(), err))
			}
			totals[i] = totals[i].Add(sum)
		}
	}
	return statement.NewEquationBalance(totals[0], totals[1], totals[2])
}

// Accounts returns snapshots of every account: assets, liabilities, then
// equity, each in creation order.
func (x *Index) Accounts() []Account {
	x.mu.RLock()
	defer x.mu.RUnlock()
	var out []Account
	for _, eq := range model.Equations {
		out = append(out, snapshot(*x.partition(eq))...)
	}
	return out
}

func (x *Index) partition(eq model.Equation) *[]*Account {
	switch eq {
	case model.Assets:
		return &x.assets
	case model.Liabilities:
		return &x.liabilities
	case model.Equity:
		return &x.equity
	}
	panic(fmt.Sprintf("accounts: no partition for %s", eq))
}

func snapshot(accts []*Account) []Account {
	out := make([]Account, len(accts))
	for i, a := range accts {
		out[i] = *a
	}
	return out
}
