package budgets

import (
	"context"
	"database/sql"
	"time"

	"github.com/jinzhu/now"
	"github.com/pkg/errors"
	"max.ks1230/finance-manager/internal/entity/budget"
	"max.ks1230/finance-manager/internal/entity/transaction"
	"max.ks1230/finance-manager/internal/model/customerr"
)

type budgetStorage interface {
	UpsertBudget(ctx context.Context, rec budget.Record) (budget.Record, error)
	Budgets(ctx context.Context, userID int64, month, year int) ([]budget.Record, error)
	Budget(ctx context.Context, userID int64, category string, month, year int) (budget.Record, error)
	SumExpenses(ctx context.Context, userID int64, category, startDate, endDate string) (float64, error)
}

type Service struct {
	storage budgetStorage
}

func NewService(storage budgetStorage) *Service {
	return &Service{storage: storage}
}

// Warning is the advisory payload of an exceeded budget. It never blocks
// the transaction that triggered the check.
type Warning struct {
	Category string
	Budget   float64
	Spent    float64
}

// Set upserts the ceiling for (user, category) in the current month. There
// is no way to budget a past or future month through this operation.
func (s *Service) Set(ctx context.Context, userID int64, category string, amount float64) (budget.Record, error) {
	if amount <= 0 {
		return budget.Record{}, customerr.ErrInvalidAmount
	}

	n := time.Now()
	rec := budget.Record{
		UserID:   userID,
		Category: category,
		Amount:   amount,
		Month:    int(n.Month()),
		Year:     n.Year(),
	}
	rec, err := s.storage.UpsertBudget(ctx, rec)
	if err != nil {
		return budget.Record{}, errors.Wrap(err, "set budget")
	}
	return rec, nil
}

func (s *Service) List(ctx context.Context, userID int64) ([]budget.Record, error) {
	n := time.Now()
	buds, err := s.storage.Budgets(ctx, userID, int(n.Month()), n.Year())
	if err != nil {
		return nil, errors.Wrap(err, "list budgets")
	}
	return buds, nil
}

// CheckExceeded compares the month-to-date expense total for the category
// against this month's ceiling. A nil warning means no budget is set or
// the ceiling holds.
func (s *Service) CheckExceeded(ctx context.Context, userID int64, category string) (*Warning, error) {
	n := time.Now()
	rec, err := s.storage.Budget(ctx, userID, category, int(n.Month()), n.Year())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "check budget")
	}

	start := now.BeginningOfMonth().Format(transaction.DayLayout)
	end := now.EndOfDay().Format(transaction.DateLayout)
	spent, err := s.storage.SumExpenses(ctx, userID, category, start, end)
	if err != nil {
		return nil, errors.Wrap(err, "check budget")
	}

	if spent > rec.Amount {
		return &Warning{Category: category, Budget: rec.Amount, Spent: spent}, nil
	}
	return nil, nil
}
