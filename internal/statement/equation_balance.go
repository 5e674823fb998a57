// Package statement holds derived, read-only views over a chart of accounts.
package statement

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

const tableWidth = 45

// EquationBalance is a snapshot of Assets = Liabilities + Equity.
type EquationBalance struct {
	assets      decimal.Decimal
	liabilities decimal.Decimal
	equity      decimal.Decimal
}

// NewEquationBalance builds a snapshot from the three equation totals.
func NewEquationBalance(assets, liabilities, equity decimal.Decimal) EquationBalance {
	return EquationBalance{assets: assets, liabilities: liabilities, equity: equity}
}

func (b EquationBalance) Assets() decimal.Decimal      { return b.assets }
func (b EquationBalance) Liabilities() decimal.Decimal { return b.liabilities }
func (b EquationBalance) Equity() decimal.Decimal      { return b.equity }

// DebitSide is the left side of the equation.
func (b EquationBalance) DebitSide() decimal.Decimal {
	return b.assets
}

// CreditSide is the right side of the equation.
func (b EquationBalance) CreditSide() decimal.Decimal {
	return b.liabilities.Add(b.equity)
}

// Balanced reports whether the accounting identity holds.
func (b EquationBalance) Balanced() bool {
	return b.DebitSide().Equal(b.CreditSide())
}

// Render writes the equation as a text table. An empty title draws a plain
// top border.
func (b EquationBalance) Render(w io.Writer, title string) error {
	if title != "" {
		title = "[ " + title + " ]"
	}
	lines := []string{
		"",
		"+" + center(title, tableWidth, '=') + "+",
		fmt.Sprintf("| %s = %s + %s |", center("assets", 12, ' '), center("liabilities", 13, ' '), center("equity", 12, ' ')),
		fmt.Sprintf("|-%s-|-%s-|-%s-|", strings.Repeat("-", 12), strings.Repeat("-", 13), strings.Repeat("-", 12)),
		fmt.Sprintf("| %s | %s | %s |", center(FormatAmount(b.assets), 12, ' '), center(FormatAmount(b.liabilities), 13, ' '), center(FormatAmount(b.equity), 12, ' ')),
		"|" + strings.Repeat("-", tableWidth) + "|",
		fmt.Sprintf("| %s | %s |", center(FormatAmount(b.DebitSide()), 12, ' '), center(FormatAmount(b.CreditSide()), 28, ' ')),
		"+" + strings.Repeat("=", tableWidth) + "+",
		"",
	}
	_, err := io.WriteString(w, strings.Join(lines, "\n")+"\n")
	return err
}

// FormatAmount renders d with thousands separators and two decimals,
// e.g. "25,000.00" or "-1,350.50".
func FormatAmount(d decimal.Decimal) string {
	d = d.Round(2)
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}
	whole := d.Truncate(0)
	cents := d.Sub(whole).Shift(2).IntPart()
	return fmt.Sprintf("%s%s.%02d", sign, humanize.BigComma(whole.BigInt()), cents)
}

// center pads s on both sides with fill to width; extra padding goes right.
func center(s string, width int, fill rune) string {
	n := width - len([]rune(s))
	if n <= 0 {
		return s
	}
	left := n / 2
	return strings.Repeat(string(fill), left) + s + strings.Repeat(string(fill), n-left)
}
