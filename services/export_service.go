package services

import (
	"context"
	"fintrack/models"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

const exportSheet = "Transactions"

// ExportRepository provides the data an export needs
type ExportRepository interface {
	GetCategories(ctx context.Context, userID string, kind models.Kind, includeInactive bool) ([]models.Category, error)
	ListTransactions(ctx context.Context, userID string, filter models.TransactionFilter) ([]models.Transaction, error)
}

// ExportService writes a user's transactions as a spreadsheet
type ExportService struct {
	repo ExportRepository
}

func NewExportService(repo ExportRepository) *ExportService {
	return &ExportService{repo: repo}
}

// ExportOptions controls the labels and number format of an export
type ExportOptions struct {
	Language string
	Currency string
}

// WriteXLSX writes transactions matching filter to w as an XLSX workbook,
// newest first, with a totals row at the bottom.
func (es *ExportService) WriteXLSX(ctx context.Context, w io.Writer, userID string, filter models.TransactionFilter, opts ExportOptions) error {
	categories, err := es.repo.GetCategories(ctx, userID, "", true)
	if err != nil {
		return err
	}
	labels := make(map[string]string, len(categories))
	for _, c := range categories {
		labels[c.ID] = c.DisplayName(opts.Language)
	}

	transactions, err := es.repo.ListTransactions(ctx, userID, filter)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(exportSheet)
	if err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("remove default sheet: %w", err)
	}

	headers := []any{"Date", "Type", "Category", "Amount", "Note"}
	if err := f.SetSheetRow(exportSheet, "A1", &headers); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(exportSheet, "A1", "E1", headerStyle); err != nil {
		return err
	}

	customFormat := currencyFormat(opts.Currency)
	amountStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &customFormat})
	if err != nil {
		return err
	}

	var net int64
	for idx, t := range transactions {
		row := []any{t.Date, string(t.Kind), labels[t.CategoryID], models.Amount(t.Signed()).Float(), t.Note}
		if err := f.SetSheetRow(exportSheet, fmt.Sprintf("A%d", idx+2), &row); err != nil {
			return fmt.Errorf("write row %d: %w", idx+2, err)
		}
		net += t.Signed()
	}

	totalRow := len(transactions) + 2
	total := []any{"Net", models.Amount(net).Float()}
	if err := f.SetSheetRow(exportSheet, fmt.Sprintf("C%d", totalRow), &total); err != nil {
		return fmt.Errorf("write totals: %w", err)
	}
	if err := f.SetCellStyle(exportSheet, fmt.Sprintf("C%d", totalRow), fmt.Sprintf("C%d", totalRow), headerStyle); err != nil {
		return err
	}
	if err := f.SetCellStyle(exportSheet, "D2", fmt.Sprintf("D%d", totalRow), amountStyle); err != nil {
		return err
	}

	widths := []struct {
		col   string
		width float64
	}{{"A", 12}, {"B", 10}, {"C", 20}, {"D", 14}, {"E", 40}}
	for _, cw := range widths {
		if err := f.SetColWidth(exportSheet, cw.col, cw.col, cw.width); err != nil {
			return err
		}
	}

	return f.Write(w)
}

// currencyFormat returns an Excel number format showing the currency code
func currencyFormat(currency string) string {
	code := strings.ToUpper(strings.TrimSpace(currency))
	if !models.IsCurrency(code) {
		code = models.DefaultCurrency
	}
	return `#,##0.00 "` + code + `";-#,##0.00 "` + code + `"`
}
