package services

import (
	"context"
	"fintrack/models"
	"math"
	"time"

	"golang.org/x/sync/errgroup"
)

const (
	dashboardTopCategories = 5
	dashboardRecent        = 10

	// maxBalanceDays bounds how many daily points a balance report fills in
	maxBalanceDays = 3 * 366
)

// ReportService computes aggregates over a user's transactions
type ReportService struct {
	repo ReportRepository
	now  func() time.Time
}

func NewReportService(repo ReportRepository) *ReportService {
	return &ReportService{repo: repo, now: time.Now}
}

// Summary totals income and expense within r
func (rs *ReportService) Summary(ctx context.Context, userID string, r models.DateRange) (*models.Summary, error) {
	income, expense, count, err := rs.repo.SumByKind(ctx, userID, r.From, r.To)
	if err != nil {
		return nil, err
	}
	return &models.Summary{
		Range:   r,
		Income:  income,
		Expense: expense,
		Net:     int64(income) - int64(expense),
		Count:   count,
	}, nil
}

// ByCategory totals one kind per category, largest first, with each
// category's share of the whole in percent.
func (rs *ReportService) ByCategory(ctx context.Context, userID string, kind models.Kind, r models.DateRange, lang string) ([]models.CategoryTotal, error) {
	totals, err := rs.repo.SumByCategory(ctx, userID, kind, r.From, r.To)
	if err != nil {
		return nil, err
	}

	var sum int64
	for _, t := range totals {
		sum += int64(t.Total)
	}
	for i := range totals {
		cat := models.Category{Name: totals[i].Name, Names: totals[i].Names}
		totals[i].Name = cat.DisplayName(lang)
		if sum > 0 {
			totals[i].Share = math.Round(float64(totals[i].Total)/float64(sum)*10000) / 100
		}
	}
	return totals, nil
}

// Balance returns the running balance for every day of r, starting from the
// balance accumulated before r. Without both bounds only days with
// transactions are listed.
func (rs *ReportService) Balance(ctx context.Context, userID string, r models.DateRange) (*models.Balance, error) {
	var opening int64
	if r.From != "" {
		var err error
		opening, err = rs.repo.BalanceBefore(ctx, userID, r.From)
		if err != nil {
			return nil, err
		}
	}

	days, err := rs.repo.DailyTotals(ctx, userID, r.From, r.To)
	if err != nil {
		return nil, err
	}

	if r.From != "" && r.To != "" {
		days, err = fillDays(days, r.From, r.To)
		if err != nil {
			return nil, err
		}
	}

	balance := &models.Balance{
		Range:   r,
		Opening: opening,
		Points:  make([]models.BalancePoint, 0, len(days)),
	}
	running := opening
	for _, d := range days {
		running += int64(d.Income) - int64(d.Expense)
		balance.Points = append(balance.Points, models.BalancePoint{
			Date:    d.Date,
			Income:  d.Income,
			Expense: d.Expense,
			Balance: running,
		})
	}
	balance.Closing = running
	return balance, nil
}

// fillDays inserts zero totals for days without transactions
func fillDays(days []models.DayTotal, from, to string) ([]models.DayTotal, error) {
	start, err := time.Parse(models.DateLayout, from)
	if err != nil {
		return nil, ErrInvalidDateRange
	}
	end, err := time.Parse(models.DateLayout, to)
	if err != nil {
		return nil, ErrInvalidDateRange
	}
	if end.Sub(start) > maxBalanceDays*24*time.Hour {
		return nil, ErrInvalidDateRange
	}

	byDate := make(map[string]models.DayTotal, len(days))
	for _, d := range days {
		byDate[d.Date] = d
	}

	filled := make([]models.DayTotal, 0, int(end.Sub(start).Hours()/24)+1)
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		key := day.Format(models.DateLayout)
		d, ok := byDate[key]
		if !ok {
			d = models.DayTotal{Date: key}
		}
		filled = append(filled, d)
	}
	return filled, nil
}

// Monthly returns twelve buckets for year, empty months included
func (rs *ReportService) Monthly(ctx context.Context, userID string, year int) ([]models.MonthTotal, error) {
	totals, err := rs.repo.MonthlyTotals(ctx, userID, year)
	if err != nil {
		return nil, err
	}

	months := make([]models.MonthTotal, 12)
	for i := range months {
		months[i].Month = i + 1
	}
	for _, m := range totals {
		if m.Month >= 1 && m.Month <= 12 {
			months[m.Month-1] = m
		}
	}
	return months, nil
}

// Dashboard gathers the summary, top expense categories and latest
// transactions for r concurrently.
func (rs *ReportService) Dashboard(ctx context.Context, userID string, r models.DateRange, lang string) (*models.Dashboard, error) {
	var dashboard models.Dashboard
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		summary, err := rs.Summary(gctx, userID, r)
		if err != nil {
			return err
		}
		dashboard.Summary = *summary
		return nil
	})

	g.Go(func() error {
		totals, err := rs.ByCategory(gctx, userID, models.KindExpense, r, lang)
		if err != nil {
			return err
		}
		if len(totals) > dashboardTopCategories {
			totals = totals[:dashboardTopCategories]
		}
		dashboard.TopCategories = totals
		return nil
	})

	g.Go(func() error {
		recent, err := rs.repo.ListTransactions(gctx, userID, models.TransactionFilter{
			From:  r.From,
			To:    r.To,
			Limit: dashboardRecent,
		})
		if err != nil {
			return err
		}
		dashboard.Recent = recent
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &dashboard, nil
}

// Resolve turns request parameters into a date range relative to today
func (rs *ReportService) Resolve(preset, from, to string) (models.DateRange, error) {
	return ResolveRange(preset, from, to, rs.now())
}
