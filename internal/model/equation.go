package model

import "fmt"

// Equation is a variable of the accounting equation: Assets = Liabilities + Equity.
type Equation int

const (
	Assets Equation = iota
	Liabilities
	Equity
)

// Equations lists every equation variable in statement order.
var Equations = []Equation{Assets, Liabilities, Equity}

// EquationSide is the side of the equation a variable sits on.
type EquationSide int

const (
	DebitSide EquationSide = iota
	CreditSide
)

// ValueChange is the direction of a single posting.
type ValueChange int

const (
	Debit ValueChange = iota
	Credit
)

// Side returns the equation side of e. Posting direction is decided here and
// nowhere else.
func (e Equation) Side() EquationSide {
	switch e {
	case Assets:
		return DebitSide
	case Liabilities, Equity:
		return CreditSide
	}
	panic(fmt.Sprintf("model: unknown equation variable %d", int(e)))
}

// Increases reports whether a posting of kind v raises the balance of an
// account on equation variable e.
func (e Equation) Increases(v ValueChange) bool {
	switch e.Side() {
	case DebitSide:
		return v == Debit
	default:
		return v == Credit
	}
}

func (e Equation) String() string {
	switch e {
	case Assets:
		return "assets"
	case Liabilities:
		return "liabilities"
	case Equity:
		return "equity"
	}
	return fmt.Sprintf("equation(%d)", int(e))
}

// ParseEquation parses the String form of an equation variable.
func ParseEquation(s string) (Equation, error) {
	for _, e := range Equations {
		if e.String() == s {
			return e, nil
		}
	}
	return 0, fmt.Errorf("unknown equation variable %q", s)
}

func (s EquationSide) String() string {
	if s == DebitSide {
		return "debit"
	}
	return "credit"
}

func (v ValueChange) String() string {
	if v == Debit {
		return "debit"
	}
	return "credit"
}
