package source

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// RawExport is the JSON backup document as written by paycycle and by the
// legacy web app. Fields are loosely typed and coerced during parsing.
type RawExport struct {
	Expenses        []RawExpense      `json:"expenses"`
	DefaultSalary   *Number           `json:"defaultSalary,omitempty"`
	Salary          *Number           `json:"salary,omitempty"`  // legacy alias of defaultSalary
	Salario         *Number           `json:"salario,omitempty"` // legacy alias of defaultSalary
	MonthlySalaries map[string]Number `json:"monthlySalaries,omitempty"`
	SalaryHistory   []RawHistoryEntry `json:"salaryHistory,omitempty"`
	ExtraIncome     []RawIncome       `json:"extraIncome,omitempty"`
	Payday          *Number           `json:"payday,omitempty"`
	ExportDate      string            `json:"exportDate,omitempty"`
}

// RawExpense is a single exported expense.
type RawExpense struct {
	ID          FlexString `json:"id,omitempty"`
	Description string     `json:"description"`
	Amount      *Number    `json:"amount"`
	Date        string     `json:"date"`
	Category    string     `json:"category,omitempty"`
	CreatedAt   string     `json:"createdAt,omitempty"`
}

// RawHistoryEntry is a single exported salary change.
type RawHistoryEntry struct {
	ID            FlexString `json:"id,omitempty"`
	Date          string     `json:"date"`
	PreviousValue Number     `json:"previousValue"`
	NewValue      Number     `json:"newValue"`
	Amount        *Number    `json:"amount,omitempty"` // very old exports carry only the new amount
	Month         Number     `json:"month"`
	Year          Number     `json:"year"`
	Type          string     `json:"type"`
	Reason        string     `json:"reason,omitempty"`
	PercentChange Number     `json:"percentChange"`
}

// RawIncome is a single exported extra income entry.
type RawIncome struct {
	ID          FlexString `json:"id,omitempty"`
	Amount      Number     `json:"amount"`
	Description string     `json:"description,omitempty"`
	Date        string     `json:"date"`
}

// Number is a leniently decoded JSON number. It accepts numbers, numeric
// strings with comma thousands separators, and null. Anything unparseable decodes
// to zero with Valid false instead of failing the whole document.
type Number struct {
	Value decimal.Decimal
	Valid bool
}

// NewNumber wraps d as a valid Number.
func NewNumber(d decimal.Decimal) Number {
	return Number{Value: d, Valid: true}
}

// UnmarshalJSON implements json.Unmarshaler.
func (n *Number) UnmarshalJSON(b []byte) error {
	*n = Number{}
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil
	}

	s := string(b)
	if b[0] == '"' {
		if err := json.Unmarshal(b, &s); err != nil {
			return nil //nolint:nilerr // malformed strings coerce to zero
		}
	}
	s, ok := stripThousands(strings.TrimSpace(s))
	if !ok || s == "" {
		return nil
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil //nolint:nilerr // non-numeric values coerce to zero
	}
	n.Value = d
	n.Valid = true
	return nil
}

// thousandsGrouped matches 1,234 and 1,234,567.89 but not a decimal comma
// such as 12,50 or 3.500,00.
var thousandsGrouped = regexp.MustCompile(`^[+-]?\d{1,3}(,\d{3})+(\.\d+)?$`)

func stripThousands(s string) (string, bool) {
	if !strings.Contains(s, ",") {
		return s, true
	}
	if !thousandsGrouped.MatchString(s) {
		return "", false
	}
	return strings.ReplaceAll(s, ",", ""), true
}

// MarshalJSON writes the value as a bare JSON number.
func (n Number) MarshalJSON() ([]byte, error) {
	return []byte(n.Value.String()), nil
}

// Int returns the integer part, or 0 when invalid.
func (n Number) Int() int {
	if !n.Valid {
		return 0
	}
	return int(n.Value.IntPart())
}

// FlexString decodes a JSON string or number into a string. Legacy IDs were
// millisecond timestamps and sometimes exported as numbers.
type FlexString string

// UnmarshalJSON implements json.Unmarshaler.
func (f *FlexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*f = FlexString(strings.TrimSpace(s))
		return nil
	}
	*f = FlexString(string(b))
	return nil
}

// DiscoveredFile is a JSON export found during directory scanning.
type DiscoveredFile struct {
	Path string
	Name string
	Size int64
}

func decimalInt(v int) decimal.Decimal {
	return decimal.NewFromInt(int64(v))
}

func decimalFloat(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(4)
}
