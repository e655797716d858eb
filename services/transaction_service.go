package services

import (
	"context"
	"errors"
	"fintrack/database"
	"fintrack/live"
	"fintrack/models"
	"strings"
	"time"

	"github.com/google/uuid"
)

// TransactionService handles business logic for transactions
type TransactionService struct {
	repo      TransactionRepository
	publisher Publisher
}

// NewTransactionService creates a new transaction service. publisher may be nil.
func NewTransactionService(repo TransactionRepository, publisher Publisher) *TransactionService {
	if publisher == nil {
		publisher = noopPublisher{}
	}
	return &TransactionService{repo: repo, publisher: publisher}
}

// Create records a transaction. When req.Kind is empty the category's kind is
// used.
func (ts *TransactionService) Create(ctx context.Context, userID string, req models.CreateTransactionRequest) (*models.Transaction, error) {
	t := &models.Transaction{
		ID:        uuid.New().String(),
		UserID:    userID,
		CreatedAt: time.Now(),
	}
	if err := ts.apply(ctx, userID, t, req); err != nil {
		return nil, err
	}

	if err := ts.repo.CreateTransaction(ctx, t); err != nil {
		if errors.Is(err, database.ErrForeignKey) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}

	ts.publisher.Publish(live.TransactionsTopic(userID))
	return t, nil
}

func (ts *TransactionService) Get(ctx context.Context, userID, transactionID string) (*models.Transaction, error) {
	t, err := ts.repo.GetTransaction(ctx, userID, transactionID)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, ErrTransactionNotFound
	}
	return t, nil
}

// Update replaces the editable fields of a transaction
func (ts *TransactionService) Update(ctx context.Context, userID, transactionID string, req models.UpdateTransactionRequest) (*models.Transaction, error) {
	t, err := ts.Get(ctx, userID, transactionID)
	if err != nil {
		return nil, err
	}
	if err := ts.apply(ctx, userID, t, req); err != nil {
		return nil, err
	}

	if err := ts.repo.UpdateTransaction(ctx, t); err != nil {
		switch {
		case errors.Is(err, database.ErrForeignKey):
			return nil, ErrCategoryNotFound
		case errors.Is(err, database.ErrNotFound):
			return nil, ErrTransactionNotFound
		}
		return nil, err
	}

	ts.publisher.Publish(live.TransactionsTopic(userID))
	return t, nil
}

func (ts *TransactionService) Delete(ctx context.Context, userID, transactionID string) error {
	if err := ts.repo.DeleteTransaction(ctx, userID, transactionID); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return ErrTransactionNotFound
		}
		return err
	}
	ts.publisher.Publish(live.TransactionsTopic(userID))
	return nil
}

// List returns transactions matching filter, newest first
func (ts *TransactionService) List(ctx context.Context, userID string, filter models.TransactionFilter) ([]models.Transaction, error) {
	if filter.From != "" && filter.To != "" && filter.From > filter.To {
		return nil, ErrInvalidDateRange
	}
	filter.Search = strings.TrimSpace(filter.Search)
	return ts.repo.ListTransactions(ctx, userID, filter)
}

// History groups matching transactions by day, newest day first, with the
// day's income and expense totals.
func (ts *TransactionService) History(ctx context.Context, userID string, filter models.TransactionFilter) ([]models.DayGroup, error) {
	transactions, err := ts.List(ctx, userID, filter)
	if err != nil {
		return nil, err
	}
	return GroupByDay(transactions), nil
}

// GroupByDay expects transactions sorted newest first
func GroupByDay(transactions []models.Transaction) []models.DayGroup {
	groups := make([]models.DayGroup, 0)
	for _, t := range transactions {
		if len(groups) == 0 || groups[len(groups)-1].Date != t.Date {
			groups = append(groups, models.DayGroup{Date: t.Date, Transactions: []models.Transaction{}})
		}
		g := &groups[len(groups)-1]
		g.Transactions = append(g.Transactions, t)
		if t.Kind == models.KindIncome {
			g.Income += t.Amount
		} else {
			g.Expense += t.Amount
		}
	}
	return groups
}

// apply validates req against the user's category and copies it onto t
func (ts *TransactionService) apply(ctx context.Context, userID string, t *models.Transaction, req models.CreateTransactionRequest) error {
	amount, err := models.ParseAmount(req.Amount)
	if err != nil {
		return ErrInvalidAmount
	}

	cat, err := ts.repo.GetCategoryByID(ctx, userID, req.CategoryID)
	if err != nil {
		return err
	}
	if cat == nil {
		return ErrCategoryNotFound
	}

	kind := req.Kind
	if kind == "" {
		kind = cat.Kind
	}
	if kind != cat.Kind {
		return ErrCategoryKindMismatch
	}

	t.CategoryID = cat.ID
	t.Amount = amount
	t.Kind = kind
	t.Date = req.Date
	t.Note = strings.TrimSpace(req.Note)
	return nil
}
