package menu

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"max.ks1230/finance-manager/internal/entity/transaction"
)

const filterText = `
Filter options:
1. All transactions
2. By date range
3. By category
4. By type (income/expense)`

const (
	registeredMessage         = "Registration successful!"
	transactionAddedMessage   = "Transaction added successfully!"
	transactionUpdatedMessage = "Transaction updated successfully!"
	transactionDeletedMessage = "Transaction deleted successfully!"
	restoredMessage           = "Data restored successfully!"
	noTransactionsMessage     = "No transactions found."
	noBudgetsMessage          = "No budgets set for this month."
	backupMissingMessage      = "Backup file not found."
	invalidNumberMessage      = "Invalid amount. Please enter a number."
	invalidIDMessage          = "Invalid transaction ID."
	blankFieldsHint           = "Leave field blank to keep current value:"
)

const backupNameLayout = "finance_backup_20060102_150405.json"

func (s *Service) handleRegister(ctx context.Context) (string, error) {
	username, err := s.console.ReadLine("Enter username: ")
	if err != nil {
		return "", err
	}
	password, err := s.console.ReadPassword("Enter password: ")
	if err != nil {
		return "", err
	}

	_, err = s.auth.Register(ctx, username, password)
	if err != nil {
		return "", err
	}
	return registeredMessage, nil
}

func (s *Service) handleLogin(ctx context.Context) (string, error) {
	username, err := s.console.ReadLine("Enter username: ")
	if err != nil {
		return "", err
	}
	password, err := s.console.ReadPassword("Enter password: ")
	if err != nil {
		return "", err
	}

	rec, err := s.auth.Login(ctx, username, password)
	if err != nil {
		return "", err
	}
	s.currentUser = &rec
	return fmt.Sprintf("Welcome, %s!", rec.Username), nil
}

func (s *Service) handleAddIncome(ctx context.Context) (string, error) {
	return s.handleAdd(ctx, transaction.Income, "Enter income amount: ")
}

func (s *Service) handleAddExpense(ctx context.Context) (string, error) {
	return s.handleAdd(ctx, transaction.Expense, "Enter expense amount: ")
}

func (s *Service) handleAdd(ctx context.Context, kind, amountPrompt string) (string, error) {
	amountStr, err := s.console.ReadLine(amountPrompt)
	if err != nil {
		return "", err
	}
	amount, err := strconv.ParseFloat(amountStr, 64)
	if err != nil {
		return invalidNumberMessage, nil
	}
	category, err := s.console.ReadLine("Enter category: ")
	if err != nil {
		return "", err
	}
	description, err := s.console.ReadLine("Enter description (optional): ")
	if err != nil {
		return "", err
	}

	_, warning, err := s.ledger.Add(ctx, s.currentUser.ID, kind, amount, category, description)
	if err != nil {
		return "", err
	}

	if warning == nil {
		return transactionAddedMessage, nil
	}
	return fmt.Sprintf("%s\nWarning: You have exceeded your budget for %s!\nBudget: $%.2f, Spent: $%.2f",
		transactionAddedMessage, warning.Category, warning.Budget, warning.Spent), nil
}

func (s *Service) handleViewTransactions(ctx context.Context) (string, error) {
	s.console.Print(filterText)
	choice, err := s.console.ReadLine("Enter your choice (1-4): ")
	if err != nil {
		return "", err
	}

	var filter transaction.Filter
	switch choice {
	case "2":
		if filter.StartDate, err = s.console.ReadLine("Enter start date (YYYY-MM-DD): "); err != nil {
			return "", err
		}
		if filter.EndDate, err = s.console.ReadLine("Enter end date (YYYY-MM-DD): "); err != nil {
			return "", err
		}
	case "3":
		if filter.Category, err = s.console.ReadLine("Enter category: "); err != nil {
			return "", err
		}
	case "4":
		kind, err := s.console.ReadLine("Enter type (income/expense): ")
		if err != nil {
			return "", err
		}
		filter.Kind = strings.ToLower(kind)
	}

	txs, err := s.ledger.List(ctx, s.currentUser.ID, filter)
	if err != nil {
		return "", err
	}
	if len(txs) == 0 {
		return noTransactionsMessage, nil
	}
	return formatTransactions(txs), nil
}

func formatTransactions(txs []transaction.Record) string {
	sep := strings.Repeat("-", 80)
	lines := make([]string, 0, len(txs)+4)
	lines = append(lines, "\nTransactions:", sep)

	var totalIncome, totalExpense float64
	for _, tx := range txs {
		lines = append(lines, fmt.Sprintf("ID: %d | %s | %s | $%.2f | %s | %s",
			tx.ID, tx.Date, strings.ToUpper(tx.Kind), tx.Amount, tx.Category, tx.Description))
		if tx.Kind == transaction.Income {
			totalIncome += tx.Amount
		} else {
			totalExpense += tx.Amount
		}
	}

	lines = append(lines, sep)
	lines = append(lines, fmt.Sprintf("Total Income: $%.2f | Total Expense: $%.2f | Net: $%.2f",
		totalIncome, totalExpense, totalIncome-totalExpense))
	return strings.Join(lines, "\n")
}

func (s *Service) handleUpdateTransaction(ctx context.Context) (string, error) {
	idStr, err := s.console.ReadLine("Enter transaction ID to update: ")
	if err != nil {
		return "", err
	}
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		return invalidIDMessage, nil
	}

	s.console.Print(blankFieldsHint)
	var patch transaction.Patch
	amountStr, err := s.console.ReadLine("Enter new amount: ")
	if err != nil {
		return "", err
	}
	if amountStr != "" {
		amount, err := strconv.ParseFloat(amountStr, 64)
		if err != nil {
			return invalidNumberMessage, nil
		}
		patch.Amount = &amount
	}
	category, err := s.console.ReadLine("Enter new category: ")
	if err != nil {
		return "", err
	}
	if category != "" {
		patch.Category = &category
	}
	description, err := s.console.ReadLine("Enter new description: ")
	if err != nil {
		return "", err
	}
	if description != "" {
		patch.Description = &description
	}

	if err = s.ledger.Update(ctx, s.currentUser.ID, id, patch); err != nil {
		return "", err
	}
	return transactionUpdatedMessage, nil
}

func (s *Service) handleDeleteTransaction(ctx context.Context) (string, error) {
	idStr, err := s.console.ReadLine("Enter transaction ID to delete: ")
	if err != nil {
		return "", err
	}
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		return invalidIDMessage, nil
	}

	if err = s.ledger.Delete(ctx, s.currentUser.ID, id); err != nil {
		return "", err
	}
	return transactionDeletedMessage, nil
}

func (s *Service) handleReport(ctx context.Context) (string, error) {
	period, err := s.console.ReadLine("Enter period (monthly/yearly): ")
	if err != nil {
		return "", err
	}

	report, err := s.reports.Generate(ctx, s.currentUser.ID, strings.ToLower(period))
	if err != nil {
		return "", err
	}

	lines := []string{
		fmt.Sprintf("\n--- Financial Report (%s) ---", report.Period),
		fmt.Sprintf("Period: %s to %s", report.StartDate, report.EndDate),
		fmt.Sprintf("Total Income: $%.2f", report.TotalIncome),
		fmt.Sprintf("Total Expenses: $%.2f", report.TotalExpenses),
		fmt.Sprintf("Savings: $%.2f", report.Savings),
	}
	if len(report.CategoryExpenses) > 0 {
		lines = append(lines, "", "Expenses by Category:")
		for _, total := range report.CategoriesByAmount() {
			lines = append(lines, fmt.Sprintf("  %s: $%.2f", total.Category, total.Amount))
		}
	}
	return strings.Join(lines, "\n"), nil
}

func (s *Service) handleSetBudget(ctx context.Context) (string, error) {
	category, err := s.console.ReadLine("Enter category: ")
	if err != nil {
		return "", err
	}
	amountStr, err := s.console.ReadLine("Enter budget amount: ")
	if err != nil {
		return "", err
	}
	amount, err := strconv.ParseFloat(amountStr, 64)
	if err != nil {
		return invalidNumberMessage, nil
	}

	rec, err := s.budgets.Set(ctx, s.currentUser.ID, category, amount)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Budget for %s set to $%.2f for %s.",
		rec.Category, rec.Amount, time.Now().Format("January 2006")), nil
}

func (s *Service) handleViewBudgets(ctx context.Context) (string, error) {
	buds, err := s.budgets.List(ctx, s.currentUser.ID)
	if err != nil {
		return "", err
	}
	if len(buds) == 0 {
		return noBudgetsMessage, nil
	}

	sep := strings.Repeat("-", 40)
	lines := make([]string, 0, len(buds)+3)
	lines = append(lines, "\nCurrent Budgets:", sep)
	for _, b := range buds {
		lines = append(lines, fmt.Sprintf("%s: $%.2f", b.Category, b.Amount))
	}
	lines = append(lines, sep)
	return strings.Join(lines, "\n"), nil
}

func (s *Service) handleBackup(ctx context.Context) (string, error) {
	path, err := s.console.ReadLine("Enter backup filename: ")
	if err != nil {
		return "", err
	}
	if path == "" {
		path = time.Now().Format(backupNameLayout)
	}

	if err = s.backups.Backup(ctx, s.currentUser.ID, path); err != nil {
		return "", err
	}
	return fmt.Sprintf("Backup created successfully: %s", path), nil
}

func (s *Service) handleRestore(ctx context.Context) (string, error) {
	path, err := s.console.ReadLine("Enter backup filename: ")
	if err != nil {
		return "", err
	}
	if _, err = os.Stat(path); err != nil {
		return backupMissingMessage, nil
	}

	if err = s.backups.Restore(ctx, s.currentUser.ID, path); err != nil {
		return "", err
	}
	return restoredMessage, nil
}
