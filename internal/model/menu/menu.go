package menu

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"max.ks1230/finance-manager/internal/entity/budget"
	"max.ks1230/finance-manager/internal/entity/transaction"
	"max.ks1230/finance-manager/internal/entity/user"
	"max.ks1230/finance-manager/internal/logger"
	"max.ks1230/finance-manager/internal/model/budgets"
	"max.ks1230/finance-manager/internal/model/customerr"
	"max.ks1230/finance-manager/internal/model/reports"
)

const menuText = `
=== Personal Finance Manager ===
1. Register
2. Login
3. Add Income
4. Add Expense
5. View Transactions
6. Update Transaction
7. Delete Transaction
8. Generate Report
9. Set Budget
10. View Budgets
11. Backup Data
12. Restore Data
13. Exit
================================`

const (
	choicePrompt = "Enter your choice (1-13): "
	exitChoice   = "13"

	goodbyeMessage       = "Thank you for using Personal Finance Manager!"
	invalidChoiceMessage = "Invalid choice. Please try again."

	notLoggedInMessage        = "Please log in first."
	emptyFieldsMessage        = "Username and password cannot be empty."
	duplicateUserMessage      = "Username already exists. Please choose a different one."
	invalidCredentialsMessage = "Invalid username or password."
	invalidAmountMessage      = "Amount must be positive."
	invalidKindMessage        = "Type must be 'income' or 'expense'."
	notFoundMessage           = "Transaction not found or you don't have permission to modify it."
	noUpdatesMessage          = "No updates provided."
	invalidPeriodMessage      = "Invalid period. Use 'monthly' or 'yearly'."
	ownershipMessage          = "Backup file does not belong to the current user."
	storageFailureMessage     = "Sorry, something went wrong. Try again later."
)

type console interface {
	ReadLine(prompt string) (string, error)
	ReadPassword(prompt string) (string, error)
	Print(text string)
}

type authService interface {
	Register(ctx context.Context, username, password string) (user.Record, error)
	Login(ctx context.Context, username, password string) (user.Record, error)
}

type ledgerService interface {
	Add(ctx context.Context, userID int64, kind string, amount float64, category, description string) (transaction.Record, *budgets.Warning, error)
	Update(ctx context.Context, userID, id int64, patch transaction.Patch) error
	Delete(ctx context.Context, userID, id int64) error
	List(ctx context.Context, userID int64, filter transaction.Filter) ([]transaction.Record, error)
}

type budgetService interface {
	Set(ctx context.Context, userID int64, category string, amount float64) (budget.Record, error)
	List(ctx context.Context, userID int64) ([]budget.Record, error)
}

type reportGenerator interface {
	Generate(ctx context.Context, userID int64, period string) (reports.Report, error)
}

type backupService interface {
	Backup(ctx context.Context, userID int64, path string) error
	Restore(ctx context.Context, userID int64, path string) error
}

type handler func(ctx context.Context) (string, error)

type handlerMap map[string]handler

// Service drives the menu loop. It holds the one live session: currentUser
// is nil until a login succeeds and is replaced by the next login.
type Service struct {
	console     console
	auth        authService
	ledger      ledgerService
	budgets     budgetService
	reports     reportGenerator
	backups     backupService
	handlersMap handlerMap
	currentUser *user.Record
}

func NewService(console console, auth authService, ledger ledgerService, budgets budgetService, reports reportGenerator, backups backupService) *Service {
	s := &Service{
		console: console,
		auth:    auth,
		ledger:  ledger,
		budgets: budgets,
		reports: reports,
		backups: backups,
	}
	s.handlersMap = newMap(s)
	return s
}

// Run renders the menu and dispatches choices until exit is selected or
// the input ends.
func (s *Service) Run(ctx context.Context) error {
	for {
		s.console.Print(menuText)
		choice, err := s.console.ReadLine(choicePrompt)
		if err != nil {
			return errors.Wrap(err, "run menu")
		}
		if choice == exitChoice {
			s.console.Print(goodbyeMessage)
			return nil
		}
		s.console.Print(s.handle(ctx, choice))
	}
}

func (s *Service) handle(ctx context.Context, choice string) string {
	handler, ok := s.handlersMap[choice]
	if !ok {
		return invalidChoiceMessage
	}
	resp, err := handler(ctx)
	if err != nil {
		return errText(err)
	}
	return resp
}

func newMap(s *Service) handlerMap {
	m := make(handlerMap)
	m["1"] = s.handleRegister
	m["2"] = s.handleLogin
	m["3"] = s.requireLogin(s.handleAddIncome)
	m["4"] = s.requireLogin(s.handleAddExpense)
	m["5"] = s.requireLogin(s.handleViewTransactions)
	m["6"] = s.requireLogin(s.handleUpdateTransaction)
	m["7"] = s.requireLogin(s.handleDeleteTransaction)
	m["8"] = s.requireLogin(s.handleReport)
	m["9"] = s.requireLogin(s.handleSetBudget)
	m["10"] = s.requireLogin(s.handleViewBudgets)
	m["11"] = s.requireLogin(s.handleBackup)
	m["12"] = s.requireLogin(s.handleRestore)
	return m
}

func (s *Service) requireLogin(h handler) handler {
	return func(ctx context.Context) (string, error) {
		if s.currentUser == nil {
			return "", customerr.ErrNotAuthenticated
		}
		return h(ctx)
	}
}

func errText(err error) string {
	switch {
	case errors.Is(err, customerr.ErrNotAuthenticated):
		return notLoggedInMessage
	case errors.Is(err, customerr.ErrInvalidInput):
		return emptyFieldsMessage
	case errors.Is(err, customerr.ErrDuplicateUser):
		return duplicateUserMessage
	case errors.Is(err, customerr.ErrInvalidCredentials):
		return invalidCredentialsMessage
	case errors.Is(err, customerr.ErrInvalidAmount):
		return invalidAmountMessage
	case errors.Is(err, customerr.ErrInvalidKind):
		return invalidKindMessage
	case errors.Is(err, customerr.ErrNotFound):
		return notFoundMessage
	case errors.Is(err, customerr.ErrNoOpUpdate):
		return noUpdatesMessage
	case errors.Is(err, customerr.ErrInvalidPeriod):
		return invalidPeriodMessage
	case errors.Is(err, customerr.ErrOwnershipMismatch):
		return ownershipMessage
	default:
		logger.Error("operation failed", zap.Error(err))
		return storageFailureMessage
	}
}
