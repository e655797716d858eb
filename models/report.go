package models

// DateRange is an inclusive range of calendar days (YYYY-MM-DD). Empty bounds
// are open.
type DateRange struct {
	From string `json:"from"`
	To   string `json:"to"`
}

type Summary struct {
	Range   DateRange `json:"range"`
	Income  Amount    `json:"income"`
	Expense Amount    `json:"expense"`
	Net     int64     `json:"net"`
	Count   int       `json:"count"`
}

type CategoryTotal struct {
	CategoryID string            `json:"category_id"`
	Name       string            `json:"name"`
	Names      map[string]string `json:"-"`
	Icon       string            `json:"icon"`
	Kind       Kind              `json:"kind"`
	Total      Amount            `json:"total"`
	Count      int               `json:"count"`
	Share      float64           `json:"share"`
}

// DayTotal is the raw per-day aggregate read from storage.
type DayTotal struct {
	Date    string
	Income  Amount
	Expense Amount
}

type BalancePoint struct {
	Date    string `json:"date"`
	Income  Amount `json:"income"`
	Expense Amount `json:"expense"`
	Balance int64  `json:"balance"`
}

type Balance struct {
	Range   DateRange      `json:"range"`
	Opening int64          `json:"opening"`
	Closing int64          `json:"closing"`
	Points  []BalancePoint `json:"points"`
}

type MonthTotal struct {
	Month   int    `json:"month"`
	Income  Amount `json:"income"`
	Expense Amount `json:"expense"`
	Net     int64  `json:"net"`
}

type Dashboard struct {
	Summary       Summary         `json:"summary"`
	TopCategories []CategoryTotal `json:"top_categories"`
	Recent        []Transaction   `json:"recent"`
}
