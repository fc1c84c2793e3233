package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/theirongolddev/paycycle/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// StoreTestSuite runs each test against a fresh database file.
type StoreTestSuite struct {
	suite.Suite
	store *Store
	ctx   context.Context
}

func (suite *StoreTestSuite) SetupTest() {
	st, err := Open(filepath.Join(suite.T().TempDir(), "paycycle.db"))
	require.NoError(suite.T(), err, "failed to open test database")
	suite.store = st
	suite.ctx = context.Background()
}

func (suite *StoreTestSuite) TearDownTest() {
	if suite.store != nil {
		_ = suite.store.Close()
	}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func (suite *StoreTestSuite) TestMigrationsApplied() {
	v, dirty, err := SchemaVersion(suite.store.Path())
	require.NoError(suite.T(), err)
	assert.False(suite.T(), dirty)
	assert.Equal(suite.T(), uint(2), v)
}

func (suite *StoreTestSuite) TestAddAndListExpenses() {
	_, err := suite.store.AddExpense(suite.ctx, model.Expense{
		Description: "Rent", Amount: dec("1200"), Date: "2024-06-01", Category: model.CategoryHousing,
	})
	require.NoError(suite.T(), err)
	lunch, err := suite.store.AddExpense(suite.ctx, model.Expense{
		Description: "Lunch", Amount: dec("12.50"), Date: "2024-06-03",
	})
	require.NoError(suite.T(), err)
	assert.NotEmpty(suite.T(), lunch.ID)
	assert.Equal(suite.T(), model.CategoryOther, lunch.Category, "empty category falls back to Other")

	list, err := suite.store.ListExpenses(suite.ctx)
	require.NoError(suite.T(), err)
	require.Len(suite.T(), list, 2)
	assert.Equal(suite.T(), "Lunch", list[0].Description, "newest date first")
	assert.True(suite.T(), list[0].Amount.Equal(dec("12.5")))
}

func (suite *StoreTestSuite) TestUnknownCategoryStoredAsOther() {
	e, err := suite.store.AddExpense(suite.ctx, model.Expense{
		Description: "Stickers", Amount: dec("3"), Date: "2024-06-04", Category: "Crypto",
	})
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), model.CategoryOther, e.Category)

	got, err := suite.store.GetExpense(suite.ctx, e.ID)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), model.CategoryOther, got.Category)
}

func (suite *StoreTestSuite) TestAddExpenseRejectsInvalid() {
	_, err := suite.store.AddExpense(suite.ctx, model.Expense{Description: "Bad", Amount: dec("1"), Date: "06/03/2024"})
	assert.ErrorIs(suite.T(), err, model.ErrInvalidExpense)
	assert.ErrorIs(suite.T(), err, model.ErrInvalidDate)

	_, err = suite.store.AddExpense(suite.ctx, model.Expense{Description: "Neg", Amount: dec("-1"), Date: "2024-06-03"})
	assert.ErrorIs(suite.T(), err, model.ErrInvalidAmount)
}

func (suite *StoreTestSuite) TestUpdateAndDeleteExpense() {
	e, err := suite.store.AddExpense(suite.ctx, model.Expense{Description: "Bus", Amount: dec("3"), Date: "2024-06-03"})
	require.NoError(suite.T(), err)

	e.Amount = dec("4.25")
	e.Category = model.CategoryTransport
	require.NoError(suite.T(), suite.store.UpdateExpense(suite.ctx, e))

	got, err := suite.store.GetExpense(suite.ctx, e.ID)
	require.NoError(suite.T(), err)
	assert.True(suite.T(), got.Amount.Equal(dec("4.25")))
	assert.Equal(suite.T(), model.CategoryTransport, got.Category)

	require.NoError(suite.T(), suite.store.DeleteExpense(suite.ctx, e.ID))
	_, err = suite.store.GetExpense(suite.ctx, e.ID)
	assert.ErrorIs(suite.T(), err, ErrNotFound)
	assert.ErrorIs(suite.T(), suite.store.DeleteExpense(suite.ctx, e.ID), ErrNotFound)
}

func (suite *StoreTestSuite) TestSalaryConfigDefaults() {
	cfg, err := suite.store.SalaryConfig(suite.ctx)
	require.NoError(suite.T(), err)
	assert.True(suite.T(), cfg.BaseSalary.IsZero())
	assert.Equal(suite.T(), model.DefaultPayday, cfg.Payday)
	assert.Empty(suite.T(), cfg.MonthlyOverrides)

	has, err := suite.store.HasSalaryConfig(suite.ctx)
	require.NoError(suite.T(), err)
	assert.False(suite.T(), has)
}

func (suite *StoreTestSuite) TestSalaryConfigRoundTrip() {
	require.NoError(suite.T(), suite.store.SetBaseSalary(suite.ctx, dec("1000")))
	require.NoError(suite.T(), suite.store.SetPayday(suite.ctx, 31))
	require.NoError(suite.T(), suite.store.SetOverrides(suite.ctx, map[string]decimal.Decimal{
		model.MonthKey(2024, 6): dec("1500"),
	}))

	cfg, err := suite.store.SalaryConfig(suite.ctx)
	require.NoError(suite.T(), err)
	assert.True(suite.T(), cfg.BaseSalary.Equal(dec("1000")))
	assert.Equal(suite.T(), 31, cfg.Payday, "setting payday must not reset base salary")
	assert.True(suite.T(), cfg.MonthlyOverrides["2024-6"].Equal(dec("1500")))

	require.NoError(suite.T(), suite.store.DeleteOverride(suite.ctx, 2024, 6))
	cfg, err = suite.store.SalaryConfig(suite.ctx)
	require.NoError(suite.T(), err)
	assert.Empty(suite.T(), cfg.MonthlyOverrides)

	assert.Error(suite.T(), suite.store.SetPayday(suite.ctx, 32))
	assert.Error(suite.T(), suite.store.SetOverrides(suite.ctx, map[string]decimal.Decimal{"2024-13": dec("1")}))
}

func (suite *StoreTestSuite) TestConfirmAdvanceCreatesDeduction() {
	a, err := suite.store.RequestAdvance(suite.ctx, model.SalaryAdvance{Amount: dec("300"), ExpectedDate: "2024-06-15"})
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), model.AdvancePending, a.Status)

	d, err := suite.store.ConfirmAdvance(suite.ctx, a.ID, "2024-06-14")
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), a.ID, d.SourceAdvanceID)
	assert.True(suite.T(), d.Amount.Equal(dec("300")))

	_, err = suite.store.ConfirmAdvance(suite.ctx, a.ID, "2024-06-14")
	assert.ErrorIs(suite.T(), err, ErrAlreadyReceived)

	deductions, err := suite.store.ListDeductions(suite.ctx)
	require.NoError(suite.T(), err)
	require.Len(suite.T(), deductions, 1)
	assert.Equal(suite.T(), "2024-06-14", deductions[0].Date)

	advances, err := suite.store.ListAdvances(suite.ctx)
	require.NoError(suite.T(), err)
	require.Len(suite.T(), advances, 1)
	assert.Equal(suite.T(), model.AdvanceReceived, advances[0].Status)

	require.NoError(suite.T(), suite.store.DeleteAdvance(suite.ctx, a.ID))
	deductions, err = suite.store.ListDeductions(suite.ctx)
	require.NoError(suite.T(), err)
	assert.Empty(suite.T(), deductions, "deleting an advance removes its deduction")
}

func (suite *StoreTestSuite) TestUpdateAdvanceOnlyWhilePending() {
	a, err := suite.store.RequestAdvance(suite.ctx, model.SalaryAdvance{Amount: dec("300"), ExpectedDate: "2024-06-15"})
	require.NoError(suite.T(), err)

	a.Amount = dec("450")
	a.ExpectedDate = "2024-06-20"
	require.NoError(suite.T(), suite.store.UpdateAdvance(suite.ctx, a))

	advances, err := suite.store.ListAdvances(suite.ctx)
	require.NoError(suite.T(), err)
	require.Len(suite.T(), advances, 1)
	assert.True(suite.T(), advances[0].Amount.Equal(dec("450")))
	assert.Equal(suite.T(), "2024-06-20", advances[0].ExpectedDate)

	bad := a
	bad.Amount = dec("0")
	assert.ErrorIs(suite.T(), suite.store.UpdateAdvance(suite.ctx, bad), model.ErrInvalidAmount)
	bad = a
	bad.ExpectedDate = "20/06/2024"
	assert.ErrorIs(suite.T(), suite.store.UpdateAdvance(suite.ctx, bad), model.ErrInvalidDate)

	_, err = suite.store.ConfirmAdvance(suite.ctx, a.ID, "2024-06-19")
	require.NoError(suite.T(), err)
	a.Amount = dec("1")
	assert.ErrorIs(suite.T(), suite.store.UpdateAdvance(suite.ctx, a), ErrNotFound, "received advances are frozen")
}

func (suite *StoreTestSuite) TestReadSeesOneState() {
	a, err := suite.store.RequestAdvance(suite.ctx, model.SalaryAdvance{Amount: dec("300"), ExpectedDate: "2024-06-15"})
	require.NoError(suite.T(), err)

	err = suite.store.Read(suite.ctx, func(v View) error {
		advances, err := v.ListAdvances(suite.ctx)
		require.NoError(suite.T(), err)
		require.Len(suite.T(), advances, 1)
		assert.Equal(suite.T(), model.AdvancePending, advances[0].Status)

		_, err = suite.store.ConfirmAdvance(suite.ctx, a.ID, "2024-06-14")
		require.NoError(suite.T(), err)

		deductions, err := v.ListDeductions(suite.ctx)
		require.NoError(suite.T(), err)
		assert.Empty(suite.T(), deductions, "deduction committed after the read began must not be visible")
		return nil
	})
	require.NoError(suite.T(), err)

	deductions, err := suite.store.ListDeductions(suite.ctx)
	require.NoError(suite.T(), err)
	assert.Len(suite.T(), deductions, 1)
}

func (suite *StoreTestSuite) TestConfirmUnknownAdvance() {
	_, err := suite.store.ConfirmAdvance(suite.ctx, "missing", "2024-06-14")
	assert.ErrorIs(suite.T(), err, ErrNotFound)
}

func (suite *StoreTestSuite) TestHistoryNewestFirst() {
	first := model.SalaryHistoryEntry{Date: mustTime(suite.T(), "2024-01-10T09:00:00Z"), PreviousValue: dec("0"),
		NewValue: dec("1000"), Month: 1, Year: 2024, Type: model.ChangeIncrease, Reason: "start"}
	second := model.SalaryHistoryEntry{Date: mustTime(suite.T(), "2024-05-10T09:00:00Z"), PreviousValue: dec("1000"),
		NewValue: dec("1100"), Month: 5, Year: 2024, Type: model.ChangeIncrease, Reason: "raise", PercentChange: 10}
	_, err := suite.store.AddHistory(suite.ctx, first)
	require.NoError(suite.T(), err)
	_, err = suite.store.AddHistory(suite.ctx, second)
	require.NoError(suite.T(), err)

	h, err := suite.store.History(suite.ctx)
	require.NoError(suite.T(), err)
	require.Len(suite.T(), h, 2)
	assert.Equal(suite.T(), "raise", h[0].Reason)
	assert.InDelta(suite.T(), 10.0, h[0].PercentChange, 1e-9)
}

func (suite *StoreTestSuite) TestApplySalaryChangeCommitsTogether() {
	require.NoError(suite.T(), suite.store.SetPayday(suite.ctx, 10))

	base := dec("2500")
	err := suite.store.ApplySalaryChange(suite.ctx, SalaryChange{
		Base:      &base,
		Overrides: map[string]decimal.Decimal{model.MonthKey(2024, 7): base},
		History: []model.SalaryHistoryEntry{{Date: mustTime(suite.T(), "2024-06-20T09:00:00Z"),
			PreviousValue: dec("0"), NewValue: base, Month: 7, Year: 2024, Type: model.ChangeIncrease}},
	})
	require.NoError(suite.T(), err)

	cfg, err := suite.store.SalaryConfig(suite.ctx)
	require.NoError(suite.T(), err)
	assert.True(suite.T(), cfg.BaseSalary.Equal(base))
	assert.Equal(suite.T(), 10, cfg.Payday, "nil payday leaves the stored payday alone")
	assert.True(suite.T(), cfg.MonthlyOverrides["2024-7"].Equal(base))

	h, err := suite.store.History(suite.ctx)
	require.NoError(suite.T(), err)
	require.Len(suite.T(), h, 1)
	assert.NotEmpty(suite.T(), h[0].ID)
}

func (suite *StoreTestSuite) TestApplySalaryChangeRollsBack() {
	require.NoError(suite.T(), suite.store.SetBaseSalary(suite.ctx, dec("1000")))

	base := dec("4000")
	err := suite.store.ApplySalaryChange(suite.ctx, SalaryChange{
		Base:      &base,
		Overrides: map[string]decimal.Decimal{"2024-13": base},
		History:   []model.SalaryHistoryEntry{{Date: time.Now(), NewValue: base, Month: 1, Year: 2024, Type: model.ChangeIncrease}},
	})
	require.Error(suite.T(), err)

	cfg, err := suite.store.SalaryConfig(suite.ctx)
	require.NoError(suite.T(), err)
	assert.True(suite.T(), cfg.BaseSalary.Equal(dec("1000")), "base salary must not change when a later write fails")
	assert.Empty(suite.T(), cfg.MonthlyOverrides)

	h, err := suite.store.History(suite.ctx)
	require.NoError(suite.T(), err)
	assert.Empty(suite.T(), h)
}

func (suite *StoreTestSuite) TestIncomeAndGoals() {
	_, err := suite.store.AddIncome(suite.ctx, model.ExtraIncome{Amount: dec("250"), Description: "Freelance", Date: "2024-06-20"})
	require.NoError(suite.T(), err)
	_, err = suite.store.AddIncome(suite.ctx, model.ExtraIncome{Amount: dec("1"), Date: "bad"})
	assert.ErrorIs(suite.T(), err, model.ErrInvalidDate)

	incomes, err := suite.store.ListIncome(suite.ctx)
	require.NoError(suite.T(), err)
	require.Len(suite.T(), incomes, 1)

	g, err := suite.store.AddGoal(suite.ctx, model.FinancialGoal{Title: "Trip", TargetAmount: dec("2000"), Deadline: "2024-12-01"})
	require.NoError(suite.T(), err)
	g.CurrentAmount = dec("500")
	require.NoError(suite.T(), suite.store.UpdateGoal(suite.ctx, g))

	goals, err := suite.store.ListGoals(suite.ctx)
	require.NoError(suite.T(), err)
	require.Len(suite.T(), goals, 1)
	assert.True(suite.T(), goals[0].CurrentAmount.Equal(dec("500")))

	_, err = suite.store.AddGoal(suite.ctx, model.FinancialGoal{Title: "  "})
	assert.ErrorIs(suite.T(), err, ErrEmptyTitle)
}

func (suite *StoreTestSuite) TestImportMergesAndSkipsInvalid() {
	base := dec("3000")
	st, err := suite.store.Import(suite.ctx, ImportBatch{
		Expenses: []model.Expense{
			{ID: "a", Description: "Groceries", Amount: dec("80"), Date: "2024-06-02", Category: model.CategoryFood},
			{ID: "b", Description: "", Amount: dec("10"), Date: "2024-06-02"},
		},
		BaseSalary: &base,
		Overrides:  map[string]decimal.Decimal{"2024-7": dec("3200")},
	})
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), 1, st.Expenses)
	assert.Equal(suite.T(), 1, st.Skipped)
	assert.Equal(suite.T(), 1, st.Overrides)

	cfg, err := suite.store.SalaryConfig(suite.ctx)
	require.NoError(suite.T(), err)
	assert.True(suite.T(), cfg.BaseSalary.Equal(base))
	assert.Equal(suite.T(), model.DefaultPayday, cfg.Payday, "payday untouched when not imported")

	// Re-importing the same ID replaces the row.
	_, err = suite.store.Import(suite.ctx, ImportBatch{Expenses: []model.Expense{
		{ID: "a", Description: "Groceries", Amount: dec("95"), Date: "2024-06-02", Category: model.CategoryFood},
	}})
	require.NoError(suite.T(), err)
	list, err := suite.store.ListExpenses(suite.ctx)
	require.NoError(suite.T(), err)
	require.Len(suite.T(), list, 1)
	assert.True(suite.T(), list[0].Amount.Equal(dec("95")))
}

func TestStoreTestSuite(t *testing.T) {
	suite.Run(t, new(StoreTestSuite))
}

func mustTime(t *testing.T, s string) time.Time {
	t.Helper()
	v, err := time.Parse(time.RFC3339, s)
	if err != nil {
		t.Fatalf("parse %q: %v", s, err)
	}
	return v
}
