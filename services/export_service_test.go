package services

import (
	"bytes"
	"context"
	"errors"
	"fintrack/models"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestExportService_WriteXLSX(t *testing.T) {
	ctx := context.Background()
	filter := models.TransactionFilter{From: "2024-03-01", To: "2024-03-31"}

	repo := new(MockRepository)
	repo.On("GetCategories", ctx, "user-1", models.Kind(""), true).Return([]models.Category{
		{ID: "cat-food", Name: "Food", Names: map[string]string{"en": "Food", "es": "Comida"}},
		{ID: "cat-salary", Name: "Salary", Names: map[string]string{"en": "Salary"}},
	}, nil)
	repo.On("ListTransactions", ctx, "user-1", filter).Return([]models.Transaction{
		{CategoryID: "cat-salary", Kind: models.KindIncome, Amount: 250000, Date: "2024-03-28", Note: "March"},
		{CategoryID: "cat-food", Kind: models.KindExpense, Amount: 1250, Date: "2024-03-02", Note: "lunch"},
	}, nil)

	var buf bytes.Buffer
	err := NewExportService(repo).WriteXLSX(ctx, &buf, "user-1", filter, ExportOptions{Language: "es", Currency: "eur"})
	require.NoError(t, err)

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{exportSheet}, f.GetSheetList())

	cell := func(name string) string {
		v, err := f.GetCellValue(exportSheet, name, excelize.Options{RawCellValue: true})
		require.NoError(t, err)
		return v
	}
	number := func(name string) float64 {
		v, err := strconv.ParseFloat(cell(name), 64)
		require.NoError(t, err)
		return v
	}

	assert.Equal(t, "Date", cell("A1"))
	assert.Equal(t, "2024-03-28", cell("A2"))
	assert.Equal(t, "income", cell("B2"))
	assert.Equal(t, "Salary", cell("C2"))
	assert.Equal(t, 2500.0, number("D2"))
	assert.Equal(t, "Comida", cell("C3"))
	assert.Equal(t, -12.5, number("D3"))
	assert.Equal(t, "lunch", cell("E3"))

	assert.Equal(t, "Net", cell("C4"))
	assert.Equal(t, 2487.5, number("D4"))
}

func TestExportService_RepositoryError(t *testing.T) {
	ctx := context.Background()

	repo := new(MockRepository)
	repo.On("GetCategories", ctx, "user-1", models.Kind(""), true).Return([]models.Category{}, nil)
	repo.On("ListTransactions", ctx, "user-1", mock.Anything).Return(nil, errors.New("db closed"))

	var buf bytes.Buffer
	err := NewExportService(repo).WriteXLSX(ctx, &buf, "user-1", models.TransactionFilter{}, ExportOptions{})

	assert.EqualError(t, err, "db closed")
	assert.Zero(t, buf.Len())
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestExportService_WriteError(t *testing.T) {
	ctx := context.Background()

	repo := new(MockRepository)
	repo.On("GetCategories", ctx, "user-1", models.Kind(""), true).Return([]models.Category{}, nil)
	repo.On("ListTransactions", ctx, "user-1", mock.Anything).Return([]models.Transaction{
		{CategoryID: "cat-food", Kind: models.KindExpense, Amount: 100, Date: "2024-03-02"},
	}, nil)

	err := NewExportService(repo).WriteXLSX(ctx, failingWriter{}, "user-1", models.TransactionFilter{}, ExportOptions{})

	assert.ErrorContains(t, err, "disk full")
}

func TestCurrencyFormat(t *testing.T) {
	assert.Equal(t, `#,##0.00 "EUR";-#,##0.00 "EUR"`, currencyFormat(" eur "))
	assert.Equal(t, `#,##0.00 "USD";-#,##0.00 "USD"`, currencyFormat("euros"))
}
