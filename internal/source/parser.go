// Package source reads and writes paycycle JSON backup files, including the
// legacy web app format.
package source

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/theirongolddev/paycycle/internal/config"
	"github.com/theirongolddev/paycycle/internal/model"

	"github.com/shopspring/decimal"
)

// ErrInvalidExport is returned for documents that are not a paycycle backup.
var ErrInvalidExport = errors.New("source: invalid export document")

// Export is a parsed backup, coerced into domain types.
type Export struct {
	Expenses   []model.Expense
	BaseSalary *decimal.Decimal // nil when the document carries no salary
	Payday     int              // 0 when absent or out of range
	Overrides  map[string]decimal.Decimal
	History    []model.SalaryHistoryEntry
	Incomes    []model.ExtraIncome
	ExportDate time.Time
}

// ParseResult holds the output of parsing a single export file.
type ParseResult struct {
	File    DiscoveredFile
	Export  Export
	Skipped int // records dropped for missing or malformed required fields
	Err     error
}

// legacyChangeTypes maps change labels written by the legacy app.
var legacyChangeTypes = map[string]model.ChangeType{
	"aumento": model.ChangeIncrease,
	"redução": model.ChangeDecrease,
	"reducao": model.ChangeDecrease,
	"ajuste":  model.ChangeAdjustment,
}

// ParseFile reads and parses one export file.
func ParseFile(df DiscoveredFile) ParseResult {
	f, err := os.Open(df.Path)
	if err != nil {
		return ParseResult{File: df, Err: err}
	}
	defer func() { _ = f.Close() }()

	exp, skipped, err := Parse(f)
	return ParseResult{File: df, Export: exp, Skipped: skipped, Err: err}
}

// Parse decodes a backup document. Amounts are coerced leniently: non-numeric
// values become zero and negatives are floored at zero. Expenses without a
// description, amount or valid date are skipped and counted.
func Parse(r io.Reader) (Export, int, error) {
	var raw RawExport
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return Export{}, 0, fmt.Errorf("%w: %w", ErrInvalidExport, err)
	}
	if raw.Expenses == nil {
		return Export{}, 0, fmt.Errorf("%w: missing expenses array", ErrInvalidExport)
	}

	var (
		out     Export
		skipped int
	)

	for _, re := range raw.Expenses {
		e, ok := convertExpense(re)
		if !ok {
			skipped++
			continue
		}
		out.Expenses = append(out.Expenses, e)
	}

	for _, salary := range []*Number{raw.DefaultSalary, raw.Salario, raw.Salary} {
		if salary != nil && salary.Valid {
			v := nonNegative(salary.Value)
			out.BaseSalary = &v
			break
		}
	}

	if raw.Payday != nil {
		if p := raw.Payday.Int(); p >= 1 && p <= 31 {
			out.Payday = p
		}
	}

	for key, n := range raw.MonthlySalaries {
		year, month, ok := model.ParseMonthKey(strings.TrimSpace(key))
		if !ok || !n.Valid {
			skipped++
			continue
		}
		if out.Overrides == nil {
			out.Overrides = make(map[string]decimal.Decimal)
		}
		out.Overrides[model.MonthKey(year, month)] = nonNegative(n.Value)
	}

	for _, rh := range raw.SalaryHistory {
		h, ok := convertHistory(rh)
		if !ok {
			skipped++
			continue
		}
		out.History = append(out.History, h)
	}

	for _, ri := range raw.ExtraIncome {
		date, ok := normalizeDate(ri.Date)
		if !ok || !ri.Amount.Valid {
			skipped++
			continue
		}
		out.Incomes = append(out.Incomes, model.ExtraIncome{
			ID:          string(ri.ID),
			Amount:      nonNegative(ri.Amount.Value),
			Description: strings.TrimSpace(ri.Description),
			Date:        date,
		})
	}

	out.ExportDate = parseTimestamp(raw.ExportDate)
	return out, skipped, nil
}

func convertExpense(re RawExpense) (model.Expense, bool) {
	desc := strings.TrimSpace(re.Description)
	if desc == "" || re.Amount == nil {
		return model.Expense{}, false
	}
	date, ok := normalizeDate(re.Date)
	if !ok {
		return model.Expense{}, false
	}
	return model.Expense{
		ID:          string(re.ID),
		Description: desc,
		Amount:      nonNegative(re.Amount.Value),
		Date:        date,
		Category:    config.NormalizeCategory(re.Category),
		CreatedAt:   parseTimestamp(re.CreatedAt),
	}, true
}

func convertHistory(rh RawHistoryEntry) (model.SalaryHistoryEntry, bool) {
	at := parseTimestamp(rh.Date)
	if at.IsZero() {
		return model.SalaryHistoryEntry{}, false
	}

	next := rh.NewValue
	if !next.Valid && rh.Amount != nil {
		next = *rh.Amount
	}
	if !next.Valid {
		return model.SalaryHistoryEntry{}, false
	}

	h := model.SalaryHistoryEntry{
		ID:            string(rh.ID),
		Date:          at,
		PreviousValue: rh.PreviousValue.Value,
		NewValue:      next.Value,
		Month:         rh.Month.Int(),
		Year:          rh.Year.Int(),
		Reason:        strings.TrimSpace(rh.Reason),
		PercentChange: rh.PercentChange.Value.InexactFloat64(),
	}
	if h.Month < 1 || h.Month > 12 {
		h.Month = int(at.Month())
	}
	if h.Year == 0 {
		h.Year = at.Year()
	}
	h.Type = changeType(rh.Type, h.PreviousValue, h.NewValue)
	return h, true
}

func changeType(raw string, prev, next decimal.Decimal) model.ChangeType {
	key := strings.ToLower(strings.TrimSpace(raw))
	switch model.ChangeType(raw) {
	case model.ChangeIncrease, model.ChangeDecrease, model.ChangeAdjustment, model.ChangePaydayUpdate:
		return model.ChangeType(raw)
	}
	if t, ok := legacyChangeTypes[key]; ok {
		return t
	}
	switch next.Cmp(prev) {
	case 1:
		return model.ChangeIncrease
	case -1:
		return model.ChangeDecrease
	default:
		return model.ChangeAdjustment
	}
}

// normalizeDate accepts YYYY-MM-DD or an ISO-8601 timestamp and returns the
// civil date as written, without timezone conversion.
func normalizeDate(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if len(s) < len(model.DateLayout) {
		return "", false
	}
	d := s[:len(model.DateLayout)]
	if _, err := time.Parse(model.DateLayout, d); err != nil {
		return "", false
	}
	return d, true
}

func parseTimestamp(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t
	}
	if t, err := time.Parse(model.DateLayout, s); err == nil {
		return t
	}
	return time.Time{}
}

func nonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
