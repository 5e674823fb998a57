package journal

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
)

// Header is the CSV header for a journal script.
const Header = "entry_id,account,debit,credit,description"

const (
	numFields  = 5
	colEntryID = 0
	colAccount = 1
	colDebit   = 2
	colCredit  = 3
	colDesc    = 4
)

// Leg is a single row of a journal script (one side of an entry).
type Leg struct {
	EntryID     string          // rows sharing an EntryID form one entry
	Account     string          // custom name, standard key or standard display name
	Debit       decimal.Decimal // zero if credit side
	Credit      decimal.Decimal // zero if debit side
	Description string
}

// ReadLegs reads all legs from a journal script reader.
func ReadLegs(r io.Reader) ([]Leg, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields
	cr.Comment = '#'

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading journal CSV: %w", err)
	}

	if len(records) == 0 {
		return nil, nil
	}

	// Skip header row.
	var legs []Leg
	for i, rec := range records[1:] {
		leg, err := UnmarshalLeg(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		legs = append(legs, leg)
	}
	return legs, nil
}

// WriteLegs writes legs to w, header first.
func WriteLegs(w io.Writer, legs []Leg) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, leg := range legs {
		if err := cw.Write(MarshalLeg(leg)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// MarshalLeg converts a Leg to a CSV row.
func MarshalLeg(leg Leg) []string {
	row := make([]string, numFields)
	row[colEntryID] = leg.EntryID
	row[colAccount] = leg.Account

	if !leg.Debit.IsZero() {
		row[colDebit] = leg.Debit.StringFixed(2)
	}
	if !leg.Credit.IsZero() {
		row[colCredit] = leg.Credit.StringFixed(2)
	}

	row[colDesc] = leg.Description
	return row
}

// UnmarshalLeg converts a CSV row to a Leg. Empty amount cells are zero.
func UnmarshalLeg(record []string) (Leg, error) {
	if len(record) != numFields {
		return Leg{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	debit, err := parseAmount("debit", record[colDebit])
	if err != nil {
		return Leg{}, err
	}
	credit, err := parseAmount("credit", record[colCredit])
	if err != nil {
		return Leg{}, err
	}

	return Leg{
		EntryID:     strings.TrimSpace(record[colEntryID]),
		Account:     strings.TrimSpace(record[colAccount]),
		Debit:       debit,
		Credit:      credit,
		Description: record[colDesc],
	}, nil
}

func parseAmount(field, s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parsing %s %q: %w", field, s, err)
	}
	return d, nil
}
