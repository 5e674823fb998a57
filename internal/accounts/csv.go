package accounts

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/ledger/internal/id"
	"github.com/cleared-dev/ledger/internal/model"
)

const (
	numFields   = 7
	colUID      = 0
	colSerial   = 1
	colName     = 2
	colEquation = 3
	colParent   = 4
	colStandard = 5
	colBalance  = 6
)

// ChartHeader is the CSV header written by WriteChart.
var ChartHeader = []string{"uid", "serial", "name", "equation", "parent", "standard", "balance"}

// ChartRow is one account of an exported chart.
type ChartRow struct {
	UID      id.UID
	Serial   id.SerialID
	Name     string
	Equation model.Equation
	Parent   string // parent definition name, empty for roots
	Standard bool
	Balance  decimal.Decimal
}

// Chart returns one row per account, in Accounts order.
func (x *Index) Chart() ([]ChartRow, error) {
	x.mu.RLock()
	defer x.mu.RUnlock()

	var rows []ChartRow
	for _, eq := range model.Equations {
		for _, acct := range *x.partition(eq) {
			row, err := x.chartRow(acct)
			if err != nil {
				return nil, err
			}
			rows = append(rows, row)
		}
	}
	return rows, nil
}

func (x *Index) chartRow(acct *Account) (ChartRow, error) {
	def, err := x.definition(acct.definitionID)
	if err != nil {
		return ChartRow{}, err
	}
	uid, err := def.ID().Pack()
	if err != nil {
		return ChartRow{}, fmt.Errorf("packing %s: %w", def.Name(), err)
	}
	row := ChartRow{
		UID:      uid,
		Serial:   def.ID().Serial,
		Name:     def.Name(),
		Equation: def.EquationVariable(),
		Standard: def.IsStandard(),
		Balance:  acct.balance,
	}
	parent, ok, err := x.parent(def)
	if err != nil {
		return ChartRow{}, err
	}
	if ok {
		row.Parent = parent.Name()
	}
	return row, nil
}

// ReadChart reads a chart CSV written by WriteChart.
func ReadChart(r io.Reader) ([]ChartRow, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading chart CSV: %w", err)
	}

	if len(records) == 0 {
		return nil, nil
	}

	var rows []ChartRow
	for i, rec := range records[1:] {
		row, err := UnmarshalChartRow(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// WriteChart writes rows as CSV, header first.
func WriteChart(w io.Writer, rows []ChartRow) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(ChartHeader); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, row := range rows {
		if err := cw.Write(MarshalChartRow(row)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// MarshalChartRow converts a ChartRow to a CSV record.
func MarshalChartRow(row ChartRow) []string {
	rec := make([]string, numFields)
	rec[colUID] = row.UID.String()
	rec[colSerial] = strconv.FormatUint(uint64(row.Serial), 10)
	rec[colName] = row.Name
	rec[colEquation] = row.Equation.String()
	rec[colParent] = row.Parent
	rec[colStandard] = strconv.FormatBool(row.Standard)
	rec[colBalance] = row.Balance.StringFixed(2)
	return rec
}

// UnmarshalChartRow converts a CSV record to a ChartRow.
func UnmarshalChartRow(record []string) (ChartRow, error) {
	if len(record) != numFields {
		return ChartRow{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	uid, err := id.ParseUID(record[colUID])
	if err != nil {
		return ChartRow{}, err
	}

	serial, err := strconv.ParseUint(record[colSerial], 10, 32)
	if err != nil {
		return ChartRow{}, fmt.Errorf("parsing serial %q: %w", record[colSerial], err)
	}

	eq, err := model.ParseEquation(record[colEquation])
	if err != nil {
		return ChartRow{}, err
	}

	standard, err := strconv.ParseBool(record[colStandard])
	if err != nil {
		return ChartRow{}, fmt.Errorf("parsing standard %q: %w", record[colStandard], err)
	}

	balance, err := decimal.NewFromString(record[colBalance])
	if err != nil {
		return ChartRow{}, fmt.Errorf("parsing balance %q: %w", record[colBalance], err)
	}

	return ChartRow{
		UID:      uid,
		Serial:   id.SerialID(serial),
		Name:     record[colName],
		Equation: eq,
		Parent:   record[colParent],
		Standard: standard,
		Balance:  balance,
	}, nil
}
