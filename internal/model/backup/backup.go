package backup

import (
	"context"
	"encoding/json"
	"os"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"max.ks1230/finance-manager/internal/entity/budget"
	"max.ks1230/finance-manager/internal/entity/transaction"
	"max.ks1230/finance-manager/internal/logger"
	"max.ks1230/finance-manager/internal/model/customerr"
)

// Document is the backup file layout. Field names are part of the format,
// restore requires them exactly.
type Document struct {
	UserID       int64                `json:"user_id"`
	BackupDate   string               `json:"backup_date"`
	Transactions []transaction.Record `json:"transactions"`
	Budgets      []budget.Record      `json:"budgets"`
}

type transactionLister interface {
	List(ctx context.Context, userID int64, filter transaction.Filter) ([]transaction.Record, error)
}

type budgetLister interface {
	List(ctx context.Context, userID int64) ([]budget.Record, error)
}

type replaceStorage interface {
	ReplaceUserData(ctx context.Context, userID int64, txs []transaction.Record, buds []budget.Record) error
}

type Service struct {
	ledger  transactionLister
	budgets budgetLister
	storage replaceStorage
}

func NewService(ledger transactionLister, budgets budgetLister, storage replaceStorage) *Service {
	return &Service{ledger: ledger, budgets: budgets, storage: storage}
}

// Snapshot captures every transaction of the user plus the current month's
// budgets. It never mutates anything.
func (s *Service) Snapshot(ctx context.Context, userID int64) (Document, error) {
	txs, err := s.ledger.List(ctx, userID, transaction.Filter{})
	if err != nil {
		return Document{}, errors.Wrap(err, "snapshot")
	}
	buds, err := s.budgets.List(ctx, userID)
	if err != nil {
		return Document{}, errors.Wrap(err, "snapshot")
	}

	return Document{
		UserID:       userID,
		BackupDate:   time.Now().Format(transaction.DateLayout),
		Transactions: txs,
		Budgets:      buds,
	}, nil
}

// Apply destructively replaces the user's transactions and budgets with the
// document's contents. Restored budgets are re-stamped to the current
// month and year; the file format carries no month or year for them.
func (s *Service) Apply(ctx context.Context, userID int64, doc Document) error {
	if doc.UserID != userID {
		return customerr.ErrOwnershipMismatch
	}

	n := time.Now()
	buds := make([]budget.Record, 0, len(doc.Budgets))
	for _, rec := range doc.Budgets {
		rec.UserID = userID
		rec.Month = int(n.Month())
		rec.Year = n.Year()
		buds = append(buds, rec)
	}
	txs := make([]transaction.Record, 0, len(doc.Transactions))
	for _, rec := range doc.Transactions {
		rec.UserID = userID
		txs = append(txs, rec)
	}

	err := s.storage.ReplaceUserData(ctx, userID, txs, buds)
	return errors.Wrap(err, "restore")
}

func (s *Service) Backup(ctx context.Context, userID int64, path string) error {
	doc, err := s.Snapshot(ctx, userID)
	if err != nil {
		return err
	}

	raw, err := json.MarshalIndent(doc, "", "    ")
	if err != nil {
		return errors.Wrap(err, "backup")
	}
	if err = os.WriteFile(path, raw, 0o600); err != nil {
		return errors.Wrap(err, "backup")
	}

	logger.Info("Backup created", zap.Int64("userID", userID), zap.String("path", path))
	return nil
}

func (s *Service) Restore(ctx context.Context, userID int64, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(err, "restore")
	}

	var doc Document
	if err = json.Unmarshal(raw, &doc); err != nil {
		return errors.Wrap(err, "restore")
	}

	if err = s.Apply(ctx, userID, doc); err != nil {
		return err
	}

	logger.Info("Backup restored", zap.Int64("userID", userID), zap.String("path", path))
	return nil
}
