package ledger

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"max.ks1230/finance-manager/internal/entity/transaction"
	"max.ks1230/finance-manager/internal/logger"
	"max.ks1230/finance-manager/internal/model/budgets"
	"max.ks1230/finance-manager/internal/model/customerr"
)

type transactionStorage interface {
	SaveTransaction(ctx context.Context, rec transaction.Record) (transaction.Record, error)
	UpdateTransaction(ctx context.Context, userID, id int64, patch transaction.Patch) error
	DeleteTransaction(ctx context.Context, userID, id int64) error
	Transactions(ctx context.Context, userID int64, filter transaction.Filter) ([]transaction.Record, error)
}

type budgetChecker interface {
	CheckExceeded(ctx context.Context, userID int64, category string) (*budgets.Warning, error)
}

type Service struct {
	storage transactionStorage
	checker budgetChecker
}

func NewService(storage transactionStorage, checker budgetChecker) *Service {
	return &Service{storage: storage, checker: checker}
}

// Add validates, stamps the current time and persists the record. Expense
// records then get the advisory budget check; its warning rides along with
// the result and a check failure never undoes the insert.
func (s *Service) Add(ctx context.Context, userID int64, kind string, amount float64, category, description string) (transaction.Record, *budgets.Warning, error) {
	if !transaction.ValidKind(kind) {
		return transaction.Record{}, nil, customerr.ErrInvalidKind
	}
	if amount <= 0 {
		return transaction.Record{}, nil, customerr.ErrInvalidAmount
	}

	rec := transaction.Record{
		UserID:      userID,
		Kind:        kind,
		Amount:      amount,
		Category:    category,
		Description: description,
		Date:        time.Now().Format(transaction.DateLayout),
	}
	rec, err := s.storage.SaveTransaction(ctx, rec)
	if err != nil {
		return transaction.Record{}, nil, errors.Wrap(err, "add transaction")
	}

	// The check is a no-op for income since only expense totals count
	// against a ceiling.
	if kind != transaction.Expense {
		return rec, nil, nil
	}
	warning, err := s.checker.CheckExceeded(ctx, userID, category)
	if err != nil {
		logger.Error("budget check failed", zap.Int64("userID", userID), zap.Error(err))
		return rec, nil, nil
	}
	if warning != nil {
		logger.Warn("budget exceeded", zap.Int64("userID", userID),
			zap.String("category", category),
			zap.Float64("budget", warning.Budget), zap.Float64("spent", warning.Spent))
	}
	return rec, warning, nil
}

func (s *Service) Update(ctx context.Context, userID, id int64, patch transaction.Patch) error {
	if patch.IsEmpty() {
		return customerr.ErrNoOpUpdate
	}
	if patch.Amount != nil && *patch.Amount <= 0 {
		return customerr.ErrInvalidAmount
	}

	err := s.storage.UpdateTransaction(ctx, userID, id, patch)
	if err != nil {
		if errors.Is(err, customerr.ErrNotFound) {
			return err
		}
		return errors.Wrap(err, "update transaction")
	}
	return nil
}

func (s *Service) Delete(ctx context.Context, userID, id int64) error {
	err := s.storage.DeleteTransaction(ctx, userID, id)
	if err != nil {
		if errors.Is(err, customerr.ErrNotFound) {
			return err
		}
		return errors.Wrap(err, "delete transaction")
	}
	return nil
}

func (s *Service) List(ctx context.Context, userID int64, filter transaction.Filter) ([]transaction.Record, error) {
	if filter.Kind != "" && !transaction.ValidKind(filter.Kind) {
		return nil, customerr.ErrInvalidKind
	}
	txs, err := s.storage.Transactions(ctx, userID, filter)
	if err != nil {
		return nil, errors.Wrap(err, "list transactions")
	}
	return txs, nil
}
