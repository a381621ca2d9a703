package storage

import (
	"context"
	"database/sql"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"max.ks1230/finance-manager/internal/entity/budget"
	"max.ks1230/finance-manager/internal/entity/transaction"
	"max.ks1230/finance-manager/internal/entity/user"
	"max.ks1230/finance-manager/internal/logger"
	"max.ks1230/finance-manager/internal/model/customerr"
)

// Storage runs all queries through one long-lived database handle. The
// sqlite and postgres constructors differ only in driver and placeholder
// format.
type Storage struct {
	db      *sql.DB
	builder sq.StatementBuilderType
}

func (s *Storage) Close() error {
	return s.db.Close()
}

func (s *Storage) CreateUser(ctx context.Context, username, passwordDigest string) (user.Record, error) {
	query := s.builder.Insert("users").
		Columns("username", "password_digest").
		Values(username, passwordDigest).
		Suffix("RETURNING id")

	rec := user.Record{Username: username, PasswordDigest: passwordDigest}
	err := query.RunWith(s.db).QueryRowContext(ctx).Scan(&rec.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return user.Record{}, customerr.ErrDuplicateUser
		}
		return user.Record{}, errors.Wrap(err, "create user")
	}
	return rec, nil
}

func (s *Storage) UserByName(ctx context.Context, username string) (user.Record, error) {
	query := s.builder.Select("id", "username", "password_digest").
		From("users").
		Where(sq.Eq{"username": username})

	var rec user.Record
	err := query.RunWith(s.db).QueryRowContext(ctx).
		Scan(&rec.ID, &rec.Username, &rec.PasswordDigest)
	if err != nil {
		return user.Record{}, errors.Wrap(err, "get user")
	}
	return rec, nil
}

func (s *Storage) SaveTransaction(ctx context.Context, rec transaction.Record) (transaction.Record, error) {
	query := s.builder.Insert("transactions").
		Columns("user_id", "type", "amount", "category", "description", "date").
		Values(rec.UserID, rec.Kind, rec.Amount, rec.Category, rec.Description, rec.Date).
		Suffix("RETURNING id")

	err := query.RunWith(s.db).QueryRowContext(ctx).Scan(&rec.ID)
	if err != nil {
		return transaction.Record{}, errors.Wrap(err, "save transaction")
	}
	return rec, nil
}

func (s *Storage) UpdateTransaction(ctx context.Context, userID, id int64, patch transaction.Patch) error {
	query := s.builder.Update("transactions").
		Where(sq.Eq{"id": id, "user_id": userID})

	if patch.Amount != nil {
		query = query.Set("amount", *patch.Amount)
	}
	if patch.Category != nil {
		query = query.Set("category", *patch.Category)
	}
	if patch.Description != nil {
		query = query.Set("description", *patch.Description)
	}

	res, err := query.RunWith(s.db).ExecContext(ctx)
	if err != nil {
		return errors.Wrap(err, "update transaction")
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "update transaction")
	}
	if affected == 0 {
		return customerr.ErrNotFound
	}
	return nil
}

func (s *Storage) DeleteTransaction(ctx context.Context, userID, id int64) error {
	query := s.builder.Delete("transactions").
		Where(sq.Eq{"id": id, "user_id": userID})

	res, err := query.RunWith(s.db).ExecContext(ctx)
	if err != nil {
		return errors.Wrap(err, "delete transaction")
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "delete transaction")
	}
	if affected == 0 {
		return customerr.ErrNotFound
	}
	return nil
}

func (s *Storage) Transactions(ctx context.Context, userID int64, filter transaction.Filter) ([]transaction.Record, error) {
	query := s.builder.Select("id", "type", "amount", "category", "description", "date").
		From("transactions").
		Where(sq.Eq{"user_id": userID})

	if filter.StartDate != "" {
		query = query.Where(sq.GtOrEq{"date": filter.StartDate})
	}
	if filter.EndDate != "" {
		query = query.Where(sq.LtOrEq{"date": filter.EndDate})
	}
	if filter.Category != "" {
		query = query.Where(sq.Eq{"category": filter.Category})
	}
	if filter.Kind != "" {
		query = query.Where(sq.Eq{"type": filter.Kind})
	}
	query = query.OrderBy("date DESC", "id DESC")

	rows, err := query.RunWith(s.db).QueryContext(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "get transactions")
	}
	defer func() {
		rowErr := rows.Close()
		if rowErr != nil {
			logger.Error("error closing rows", zap.Error(rowErr))
		}
	}()

	txs := make([]transaction.Record, 0)
	for rows.Next() {
		rec := transaction.Record{UserID: userID}
		var descr sql.NullString
		err = rows.Scan(&rec.ID, &rec.Kind, &rec.Amount, &rec.Category, &descr, &rec.Date)
		if err != nil {
			return nil, errors.Wrap(err, "get transactions")
		}
		rec.Description = descr.String
		txs = append(txs, rec)
	}
	if err = rows.Err(); err != nil {
		return nil, errors.Wrap(err, "get transactions")
	}

	return txs, nil
}

func (s *Storage) SumExpenses(ctx context.Context, userID int64, category, startDate, endDate string) (float64, error) {
	query := s.builder.Select("COALESCE(SUM(amount), 0)").
		From("transactions").
		Where(sq.Eq{"user_id": userID, "category": category, "type": transaction.Expense}).
		Where(sq.GtOrEq{"date": startDate}).
		Where(sq.LtOrEq{"date": endDate})

	var total float64
	err := query.RunWith(s.db).QueryRowContext(ctx).Scan(&total)
	if err != nil {
		return 0, errors.Wrap(err, "sum expenses")
	}
	return total, nil
}

func (s *Storage) UpsertBudget(ctx context.Context, rec budget.Record) (budget.Record, error) {
	query := s.builder.Insert("budgets").
		Columns("user_id", "category", "amount", "month", "year").
		Values(rec.UserID, rec.Category, rec.Amount, rec.Month, rec.Year).
		Suffix("ON CONFLICT (user_id, category, month, year) DO UPDATE SET amount = excluded.amount RETURNING id")

	err := query.RunWith(s.db).QueryRowContext(ctx).Scan(&rec.ID)
	if err != nil {
		return budget.Record{}, errors.Wrap(err, "upsert budget")
	}
	return rec, nil
}

func (s *Storage) Budgets(ctx context.Context, userID int64, month, year int) ([]budget.Record, error) {
	query := s.builder.Select("id", "category", "amount").
		From("budgets").
		Where(sq.Eq{"user_id": userID, "month": month, "year": year}).
		OrderBy("category")

	rows, err := query.RunWith(s.db).QueryContext(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "get budgets")
	}
	defer func() {
		rowErr := rows.Close()
		if rowErr != nil {
			logger.Error("error closing rows", zap.Error(rowErr))
		}
	}()

	buds := make([]budget.Record, 0)
	for rows.Next() {
		rec := budget.Record{UserID: userID, Month: month, Year: year}
		err = rows.Scan(&rec.ID, &rec.Category, &rec.Amount)
		if err != nil {
			return nil, errors.Wrap(err, "get budgets")
		}
		buds = append(buds, rec)
	}
	if err = rows.Err(); err != nil {
		return nil, errors.Wrap(err, "get budgets")
	}

	return buds, nil
}

func (s *Storage) Budget(ctx context.Context, userID int64, category string, month, year int) (budget.Record, error) {
	query := s.builder.Select("id", "amount").
		From("budgets").
		Where(sq.Eq{"user_id": userID, "category": category, "month": month, "year": year})

	rec := budget.Record{UserID: userID, Category: category, Month: month, Year: year}
	err := query.RunWith(s.db).QueryRowContext(ctx).Scan(&rec.ID, &rec.Amount)
	if err != nil {
		return budget.Record{}, errors.Wrap(err, "get budget")
	}
	return rec, nil
}

// ReplaceUserData wipes the user's transactions and budgets and inserts the
// given ones instead, all in one database transaction.
func (s *Storage) ReplaceUserData(ctx context.Context, userID int64, txs []transaction.Record, buds []budget.Record) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "replace user data")
	}
	defer func() {
		txErr := tx.Rollback()
		if txErr != nil && !errors.Is(txErr, sql.ErrTxDone) {
			logger.Error("error when transaction rollback", zap.Error(txErr))
		}
	}()

	_, err = s.builder.Delete("transactions").
		Where(sq.Eq{"user_id": userID}).
		RunWith(tx).ExecContext(ctx)
	if err != nil {
		return errors.Wrap(err, "replace user data")
	}
	_, err = s.builder.Delete("budgets").
		Where(sq.Eq{"user_id": userID}).
		RunWith(tx).ExecContext(ctx)
	if err != nil {
		return errors.Wrap(err, "replace user data")
	}

	for _, rec := range txs {
		_, err = s.builder.Insert("transactions").
			Columns("user_id", "type", "amount", "category", "description", "date").
			Values(userID, rec.Kind, rec.Amount, rec.Category, rec.Description, rec.Date).
			RunWith(tx).ExecContext(ctx)
		if err != nil {
			return errors.Wrap(err, "replace user data")
		}
	}
	for _, rec := range buds {
		_, err = s.builder.Insert("budgets").
			Columns("user_id", "category", "amount", "month", "year").
			Values(userID, rec.Category, rec.Amount, rec.Month, rec.Year).
			RunWith(tx).ExecContext(ctx)
		if err != nil {
			return errors.Wrap(err, "replace user data")
		}
	}

	return errors.Wrap(tx.Commit(), "replace user data")
}

func isUniqueViolation(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint") ||
		strings.Contains(msg, "duplicate key")
}
