package reports

import (
	"context"
	"sort"

	"github.com/jinzhu/now"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"max.ks1230/finance-manager/internal/entity/transaction"
	"max.ks1230/finance-manager/internal/logger"
	"max.ks1230/finance-manager/internal/model/customerr"
)

const (
	PeriodMonthly = "monthly"
	PeriodYearly  = "yearly"
)

type transactionLister interface {
	List(ctx context.Context, userID int64, filter transaction.Filter) ([]transaction.Record, error)
}

type Generator struct {
	ledger transactionLister
}

func NewGenerator(ledger transactionLister) *Generator {
	return &Generator{ledger: ledger}
}

type Report struct {
	Period           string
	StartDate        string
	EndDate          string
	TotalIncome      float64
	TotalExpenses    float64
	Savings          float64
	CategoryExpenses map[string]float64
}

type CategoryTotal struct {
	Category string
	Amount   float64
}

// CategoriesByAmount returns the expense breakdown sorted by spent amount
// descending.
func (r Report) CategoriesByAmount() []CategoryTotal {
	totals := make([]CategoryTotal, 0, len(r.CategoryExpenses))
	for cat, am := range r.CategoryExpenses {
		totals = append(totals, CategoryTotal{Category: cat, Amount: am})
	}
	sort.Slice(totals, func(i, j int) bool {
		return totals[i].Amount > totals[j].Amount
	})
	return totals
}

// Generate aggregates the user's records over the current month-to-date or
// year-to-date window. The listing bound runs through the end of today so
// records added today count.
func (g *Generator) Generate(ctx context.Context, userID int64, period string) (Report, error) {
	logger.Info("Generate report", zap.Int64("userID", userID), zap.String("period", period))

	var start string
	switch period {
	case PeriodMonthly:
		start = now.BeginningOfMonth().Format(transaction.DayLayout)
	case PeriodYearly:
		start = now.BeginningOfYear().Format(transaction.DayLayout)
	default:
		return Report{}, customerr.ErrInvalidPeriod
	}
	end := now.EndOfDay()

	txs, err := g.ledger.List(ctx, userID, transaction.Filter{
		StartDate: start,
		EndDate:   end.Format(transaction.DateLayout),
	})
	if err != nil {
		return Report{}, errors.Wrap(err, "generate report")
	}

	report := Report{
		Period:           period,
		StartDate:        start,
		EndDate:          end.Format(transaction.DayLayout),
		CategoryExpenses: make(map[string]float64),
	}
	for _, tx := range txs {
		if tx.Kind == transaction.Income {
			report.TotalIncome += tx.Amount
		} else {
			report.TotalExpenses += tx.Amount
			report.CategoryExpenses[tx.Category] += tx.Amount
		}
	}
	report.Savings = report.TotalIncome - report.TotalExpenses

	return report, nil
}
