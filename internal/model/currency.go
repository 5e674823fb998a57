package model

import (
	"fmt"
	"strings"
)

// Currency describes the unit a chart of accounts is kept in.
type Currency struct {
	Ticker string
	Symbol string
	Name   string
	Common bool // true for entries of the built-in catalogue
}

// Common currencies.
var (
	USD = Currency{Ticker: "USD", Symbol: "$", Name: "US Dollar", Common: true}
	EUR = Currency{Ticker: "EUR", Symbol: "€", Name: "Euro", Common: true}
	GBP = Currency{Ticker: "GBP", Symbol: "£", Name: "Pound Sterling", Common: true}
	JPY = Currency{Ticker: "JPY", Symbol: "¥", Name: "Japanese Yen", Common: true}
	CAD = Currency{Ticker: "CAD", Symbol: "CA$", Name: "Canadian Dollar", Common: true}
)

var commonCurrencies = []Currency{USD, EUR, GBP, JPY, CAD}

// NewCurrency returns a custom currency.
func NewCurrency(ticker, symbol, name string) Currency {
	return Currency{Ticker: strings.ToUpper(ticker), Symbol: symbol, Name: name}
}

// CommonCurrency looks up a built-in currency by ticker (case-insensitive).
func CommonCurrency(ticker string) (Currency, error) {
	for _, c := range commonCurrencies {
		if strings.EqualFold(c.Ticker, ticker) {
			return c, nil
		}
	}
	return Currency{}, fmt.Errorf("unknown currency %q", ticker)
}

func (c Currency) String() string {
	return c.Ticker
}
