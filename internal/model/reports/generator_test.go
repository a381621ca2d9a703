package reports_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"max.ks1230/finance-manager/internal/entity/transaction"
	"max.ks1230/finance-manager/internal/model/budgets"
	"max.ks1230/finance-manager/internal/model/customerr"
	"max.ks1230/finance-manager/internal/model/ledger"
	"max.ks1230/finance-manager/internal/model/reports"
	"max.ks1230/finance-manager/internal/model/storage"
)

type dbConfig struct {
	path string
}

func (c dbConfig) Path() string {
	return c.path
}

func newFixture(t *testing.T) (*reports.Generator, *ledger.Service, *storage.Storage, int64) {
	t.Helper()
	s, err := storage.NewSQLiteStorage(dbConfig{path: filepath.Join(t.TempDir(), "finance.db")})
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = s.Close()
	})
	u, err := s.CreateUser(context.Background(), "alice", "digest")
	require.NoError(t, err)
	ledgerService := ledger.NewService(s, budgets.NewService(s))
	return reports.NewGenerator(ledgerService), ledgerService, s, u.ID
}

func Test_OnGenerate_ShouldBalanceIncomeExpensesAndSavings(t *testing.T) {
	ctx := context.Background()
	generator, ledgerService, _, userID := newFixture(t)

	_, _, err := ledgerService.Add(ctx, userID, transaction.Income, 1000, "salary", "")
	require.NoError(t, err)
	_, _, err = ledgerService.Add(ctx, userID, transaction.Expense, 150, "food", "")
	require.NoError(t, err)
	_, _, err = ledgerService.Add(ctx, userID, transaction.Expense, 50, "food", "")
	require.NoError(t, err)
	_, _, err = ledgerService.Add(ctx, userID, transaction.Expense, 300, "rent", "")
	require.NoError(t, err)

	report, err := generator.Generate(ctx, userID, reports.PeriodMonthly)
	require.NoError(t, err)

	assert.Equal(t, 1000.0, report.TotalIncome)
	assert.Equal(t, 500.0, report.TotalExpenses)
	assert.Equal(t, report.TotalIncome-report.TotalExpenses, report.Savings)

	var sum float64
	for _, amount := range report.CategoryExpenses {
		sum += amount
	}
	assert.Equal(t, report.TotalExpenses, sum)
	assert.Equal(t, 200.0, report.CategoryExpenses["food"])
	assert.Equal(t, 300.0, report.CategoryExpenses["rent"])
}

func Test_OnGenerate_ShouldSortCategoriesBySpentDescending(t *testing.T) {
	ctx := context.Background()
	generator, ledgerService, _, userID := newFixture(t)

	_, _, err := ledgerService.Add(ctx, userID, transaction.Expense, 10, "coffee", "")
	require.NoError(t, err)
	_, _, err = ledgerService.Add(ctx, userID, transaction.Expense, 700, "rent", "")
	require.NoError(t, err)
	_, _, err = ledgerService.Add(ctx, userID, transaction.Expense, 90, "food", "")
	require.NoError(t, err)

	report, err := generator.Generate(ctx, userID, reports.PeriodYearly)
	require.NoError(t, err)

	totals := report.CategoriesByAmount()
	require.Len(t, totals, 3)
	assert.Equal(t, "rent", totals[0].Category)
	assert.Equal(t, "food", totals[1].Category)
	assert.Equal(t, "coffee", totals[2].Category)
}

func Test_OnGenerate_ShouldCountRecordsAddedToday(t *testing.T) {
	ctx := context.Background()
	generator, ledgerService, _, userID := newFixture(t)

	_, _, err := ledgerService.Add(ctx, userID, transaction.Expense, 25, "food", "")
	require.NoError(t, err)

	report, err := generator.Generate(ctx, userID, reports.PeriodMonthly)
	require.NoError(t, err)
	assert.Equal(t, 25.0, report.TotalExpenses)
}

func Test_OnGenerate_ShouldSkipRecordsBeforeWindow(t *testing.T) {
	ctx := context.Background()
	generator, _, store, userID := newFixture(t)

	// Stamped long before any monthly or yearly window can reach.
	_, err := store.SaveTransaction(ctx, transaction.Record{
		UserID:   userID,
		Kind:     transaction.Expense,
		Amount:   999,
		Category: "old",
		Date:     "1999-01-15 12:00:00",
	})
	require.NoError(t, err)

	report, err := generator.Generate(ctx, userID, reports.PeriodYearly)
	require.NoError(t, err)
	assert.Equal(t, 0.0, report.TotalExpenses)
	assert.Empty(t, report.CategoryExpenses)
}

func Test_OnGenerate_ShouldRejectUnknownPeriod(t *testing.T) {
	ctx := context.Background()
	generator, _, _, userID := newFixture(t)

	_, err := generator.Generate(ctx, userID, "weekly")
	assert.ErrorIs(t, err, customerr.ErrInvalidPeriod)
}
