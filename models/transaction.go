package models

import "time"

// DateLayout is the calendar-day format used for transaction dates.
const DateLayout = "2006-01-02"

type Transaction struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	CategoryID string    `json:"category_id"`
	Amount     Amount    `json:"amount"`
	Kind       Kind      `json:"kind"`
	Date       string    `json:"date"`
	Note       string    `json:"note"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Signed returns the amount as a balance delta: negative for expenses.
func (t *Transaction) Signed() int64 {
	if t.Kind == KindExpense {
		return -int64(t.Amount)
	}
	return int64(t.Amount)
}

// TransactionFilter narrows ListTransactions. Zero values mean "no filter".
type TransactionFilter struct {
	From       string
	To         string
	CategoryID string
	Kind       Kind
	Search     string
	Limit      int
	Offset     int
}

// DayGroup is one day of transaction history.
type DayGroup struct {
	Date         string        `json:"date"`
	Income       Amount        `json:"income"`
	Expense      Amount        `json:"expense"`
	Transactions []Transaction `json:"transactions"`
}

type CreateTransactionRequest struct {
	CategoryID string `json:"category_id" validate:"required,uuid"`
	Amount     string `json:"amount" validate:"required,max=20"`
	Kind       Kind   `json:"kind" validate:"omitempty,kind"`
	Date       string `json:"date" validate:"required,dateformat"`
	Note       string `json:"note" validate:"max=500"`
}

type UpdateTransactionRequest = CreateTransactionRequest
