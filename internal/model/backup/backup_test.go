package backup_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"max.ks1230/finance-manager/internal/entity/budget"
	"max.ks1230/finance-manager/internal/entity/transaction"
	"max.ks1230/finance-manager/internal/model/backup"
	"max.ks1230/finance-manager/internal/model/budgets"
	"max.ks1230/finance-manager/internal/model/customerr"
	"max.ks1230/finance-manager/internal/model/ledger"
	"max.ks1230/finance-manager/internal/model/storage"
)

type dbConfig struct {
	path string
}

func (c dbConfig) Path() string {
	return c.path
}

type fixture struct {
	service *backup.Service
	ledger  *ledger.Service
	budgets *budgets.Service
	storage *storage.Storage
	userID  int64
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	s, err := storage.NewSQLiteStorage(dbConfig{path: filepath.Join(t.TempDir(), "finance.db")})
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = s.Close()
	})
	u, err := s.CreateUser(context.Background(), "alice", "digest")
	require.NoError(t, err)

	budgetService := budgets.NewService(s)
	ledgerService := ledger.NewService(s, budgetService)
	return fixture{
		service: backup.NewService(ledgerService, budgetService, s),
		ledger:  ledgerService,
		budgets: budgetService,
		storage: s,
		userID:  u.ID,
	}
}

func stripIDs(txs []transaction.Record) []transaction.Record {
	res := make([]transaction.Record, 0, len(txs))
	for _, tx := range txs {
		tx.ID = 0
		res = append(res, tx)
	}
	return res
}

func Test_OnSnapshot_ShouldCaptureTransactionsAndCurrentBudgets(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, _, err := f.ledger.Add(ctx, f.userID, transaction.Income, 1000, "salary", "")
	require.NoError(t, err)
	_, _, err = f.ledger.Add(ctx, f.userID, transaction.Expense, 60, "food", "lunch")
	require.NoError(t, err)
	_, err = f.budgets.Set(ctx, f.userID, "food", 100)
	require.NoError(t, err)

	doc, err := f.service.Snapshot(ctx, f.userID)
	require.NoError(t, err)
	assert.Equal(t, f.userID, doc.UserID)
	assert.NotEmpty(t, doc.BackupDate)
	assert.Len(t, doc.Transactions, 2)
	require.Len(t, doc.Budgets, 1)
	assert.Equal(t, "food", doc.Budgets[0].Category)
}

func Test_OnBackupRestore_ShouldRoundTripUserData(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	path := filepath.Join(t.TempDir(), "backup.json")

	_, _, err := f.ledger.Add(ctx, f.userID, transaction.Income, 1000, "salary", "pay")
	require.NoError(t, err)
	_, _, err = f.ledger.Add(ctx, f.userID, transaction.Expense, 60, "food", "lunch")
	require.NoError(t, err)
	_, err = f.budgets.Set(ctx, f.userID, "food", 100)
	require.NoError(t, err)

	before, err := f.ledger.List(ctx, f.userID, transaction.Filter{})
	require.NoError(t, err)

	require.NoError(t, f.service.Backup(ctx, f.userID, path))

	// Mutate after the backup so restore has something to wipe.
	_, _, err = f.ledger.Add(ctx, f.userID, transaction.Expense, 999, "noise", "")
	require.NoError(t, err)

	require.NoError(t, f.service.Restore(ctx, f.userID, path))

	after, err := f.ledger.List(ctx, f.userID, transaction.Filter{})
	require.NoError(t, err)
	// Restore renumbers ids, so compare everything else.
	assert.ElementsMatch(t, stripIDs(before), stripIDs(after))

	buds, err := f.budgets.List(ctx, f.userID)
	require.NoError(t, err)
	require.Len(t, buds, 1)
	assert.Equal(t, 100.0, buds[0].Amount)
}

func Test_OnBackup_ShouldWriteExactFieldNames(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	path := filepath.Join(t.TempDir(), "backup.json")

	_, _, err := f.ledger.Add(ctx, f.userID, transaction.Expense, 60, "food", "lunch")
	require.NoError(t, err)
	_, err = f.budgets.Set(ctx, f.userID, "food", 100)
	require.NoError(t, err)

	require.NoError(t, f.service.Backup(ctx, f.userID, path))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &doc))
	assert.Contains(t, doc, "user_id")
	assert.Contains(t, doc, "backup_date")
	assert.Contains(t, doc, "transactions")
	assert.Contains(t, doc, "budgets")

	var txs []map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(doc["transactions"], &txs))
	require.Len(t, txs, 1)
	for _, field := range []string{"id", "type", "amount", "category", "description", "date"} {
		assert.Contains(t, txs[0], field)
	}

	var buds []map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(doc["budgets"], &buds))
	require.Len(t, buds, 1)
	assert.Contains(t, buds[0], "category")
	assert.Contains(t, buds[0], "amount")
}

func Test_OnApply_ShouldRejectForeignDocument(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	doc := backup.Document{UserID: f.userID + 1}
	err := f.service.Apply(ctx, f.userID, doc)
	assert.ErrorIs(t, err, customerr.ErrOwnershipMismatch)
}

func Test_OnApply_ShouldRestampBudgetsToCurrentMonth(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	doc := backup.Document{
		UserID:     f.userID,
		BackupDate: "2020-01-01 00:00:00",
		Budgets: []budget.Record{
			{Category: "food", Amount: 100},
		},
	}
	require.NoError(t, f.service.Apply(ctx, f.userID, doc))

	n := time.Now()
	buds, err := f.storage.Budgets(ctx, f.userID, int(n.Month()), n.Year())
	require.NoError(t, err)
	require.Len(t, buds, 1)
	assert.Equal(t, 100.0, buds[0].Amount)
}
