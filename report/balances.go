package report

import (
	"context"
	"regexp"
	"time"

	"github.com/presupuesto/budget_backend/config"
	"github.com/presupuesto/budget_backend/models"
	"github.com/presupuesto/budget_backend/utils"
	"github.com/shopspring/decimal"
)

type AccountBalanceRow struct {
	ID             int             `json:"id"`
	UserId         int             `json:"user_id"`
	InstitutionId  int             `json:"institution_id"`
	Name           string          `json:"name"`
	Currency       string          `json:"currency"`
	IsActive       bool            `json:"is_active"`
	AllowOverdraft bool            `json:"allow_overdraft"`
	Institution    *string         `json:"institution"`
	Type           *string         `json:"type"`
	Balance        decimal.Decimal `json:"balance"`
}

type EnvelopeBalanceRow struct {
	EnvelopeId   int             `json:"envelopeId"`
	CategoryId   int             `json:"categoryId"`
	CategoryName string          `json:"categoryName"`
	Balance      decimal.Decimal `json:"balance"`
}

type NegativeEnvelopeRow struct {
	EnvelopeId   int             `json:"envelopeId"`
	AccountId    int             `json:"accountId"`
	AccountName  string          `json:"accountName"`
	CategoryId   int             `json:"categoryId"`
	CategoryName string          `json:"categoryName"`
	Balance      decimal.Decimal `json:"balance"`
}

type CategoryTotalRow struct {
	CategoryId   int             `json:"categoryId"`
	CategoryName string          `json:"categoryName"`
	Total        decimal.Decimal `json:"total"`
}

// AccountBalances returns every account with its derived balance.
func (r *Reporter) AccountBalances(ctx context.Context) ([]*AccountBalanceRow, error) {
	var rows []*AccountBalanceRow
	err := r.db.WithContext(ctx).Model(&models.Account{}).
		Select("accounts.id, accounts.user_id, accounts.institution_id, accounts.name, accounts.currency, accounts.is_active, accounts.allow_overdraft, " +
			"institutions.name AS institution, institutions.type AS type, " +
			"COALESCE(SUM(transaction_lines.amount), 0) AS balance").
		Joins("LEFT JOIN institutions ON accounts.institution_id = institutions.id").
		Joins("LEFT JOIN transaction_lines ON accounts.id = transaction_lines.account_id").
		Group("accounts.id, accounts.user_id, accounts.institution_id, accounts.name, accounts.currency, accounts.is_active, accounts.allow_overdraft, institutions.name, institutions.type").
		Order("accounts.name").
		Scan(&rows).Error
	if err != nil {
		config.LogError(r.logger, "balances.go", "AccountBalances", "querying account balances", nil, err)
		return nil, utils.InternalError(err)
	}
	return rows, nil
}

// EnvelopeBalances returns the derived balance of every active envelope
// bound to the account.
func (r *Reporter) EnvelopeBalances(ctx context.Context, accountId int) ([]*EnvelopeBalanceRow, error) {
	var rows []*EnvelopeBalanceRow
	err := r.db.WithContext(ctx).Model(&models.Envelope{}).
		Select("envelopes.id AS envelope_id, envelopes.category_id, categories.name AS category_name, "+
			"COALESCE(SUM(transaction_lines.amount), 0) AS balance").
		Joins("JOIN categories ON envelopes.category_id = categories.id").
		Joins("LEFT JOIN transaction_lines ON envelopes.id = transaction_lines.envelope_id").
		Where("envelopes.account_id = ? AND envelopes.is_active = ?", accountId, true).
		Group("envelopes.id, envelopes.category_id, categories.name").
		Order("categories.name").
		Scan(&rows).Error
	if err != nil {
		config.LogError(r.logger, "balances.go", "EnvelopeBalances", "querying envelope balances", accountId, err)
		return nil, utils.InternalError(err)
	}
	return rows, nil
}

// NegativeEnvelopes surfaces active envelopes whose derived balance has
// gone below zero, most negative first.
func (r *Reporter) NegativeEnvelopes(ctx context.Context) ([]*NegativeEnvelopeRow, error) {
	var rows []*NegativeEnvelopeRow
	err := r.db.WithContext(ctx).Model(&models.Envelope{}).
		Select("envelopes.id AS envelope_id, envelopes.account_id, accounts.name AS account_name, "+
			"envelopes.category_id, categories.name AS category_name, "+
			"COALESCE(SUM(transaction_lines.amount), 0) AS balance").
		Joins("JOIN accounts ON envelopes.account_id = accounts.id").
		Joins("JOIN categories ON envelopes.category_id = categories.id").
		Joins("LEFT JOIN transaction_lines ON envelopes.id = transaction_lines.envelope_id").
		Where("envelopes.is_active = ?", true).
		Group("envelopes.id, envelopes.account_id, accounts.name, envelopes.category_id, categories.name").
		Having("COALESCE(SUM(transaction_lines.amount), 0) < 0").
		Order("balance ASC").
		Scan(&rows).Error
	if err != nil {
		config.LogError(r.logger, "balances.go", "NegativeEnvelopes", "querying negative envelopes", nil, err)
		return nil, utils.InternalError(err)
	}
	return rows, nil
}

var monthPattern = regexp.MustCompile(`^\d{4}-\d{2}$`)

// MonthlyExpenses totals, per category, the negative EXPENSE/TRANSFER
// lines of one calendar month (YYYY-MM).
func (r *Reporter) MonthlyExpenses(ctx context.Context, month string) ([]*CategoryTotalRow, error) {
	if !monthPattern.MatchString(month) {
		return nil, utils.ValidationError("month must be in YYYY-MM format")
	}
	start, err := time.Parse("2006-01", month)
	if err != nil {
		return nil, utils.ValidationError("month must be in YYYY-MM format")
	}
	end := start.AddDate(0, 1, 0)

	var rows []*CategoryTotalRow
	err = r.db.WithContext(ctx).Model(&models.TransactionLine{}).
		Select("categories.id AS category_id, categories.name AS category_name, "+
			"COALESCE(SUM(transaction_lines.amount), 0) AS total").
		Joins("JOIN transactions ON transaction_lines.transaction_id = transactions.id").
		Joins("JOIN envelopes ON transaction_lines.envelope_id = envelopes.id").
		Joins("JOIN categories ON envelopes.category_id = categories.id").
		Where("transactions.date >= ? AND transactions.date < ?", start, end).
		Where("transactions.type IN ?", []models.TransactionType{models.TransactionTypeExpense, models.TransactionTypeTransfer}).
		Where("transaction_lines.amount < 0").
		Group("categories.id, categories.name").
		Order("total ASC").
		Scan(&rows).Error
	if err != nil {
		config.LogError(r.logger, "balances.go", "MonthlyExpenses", "querying monthly expenses", month, err)
		return nil, utils.InternalError(err)
	}
	return rows, nil
}

// CategoryTotals sums all lines of active envelopes per category.
func (r *Reporter) CategoryTotals(ctx context.Context) ([]*CategoryTotalRow, error) {
	var rows []*CategoryTotalRow
	err := r.db.WithContext(ctx).Model(&models.TransactionLine{}).
		Select("categories.id AS category_id, categories.name AS category_name, "+
			"COALESCE(SUM(transaction_lines.amount), 0) AS total").
		Joins("JOIN envelopes ON transaction_lines.envelope_id = envelopes.id").
		Joins("JOIN categories ON envelopes.category_id = categories.id").
		Where("envelopes.is_active = ?", true).
		Group("categories.id, categories.name").
		Order("total ASC").
		Scan(&rows).Error
	if err != nil {
		config.LogError(r.logger, "balances.go", "CategoryTotals", "querying category totals", nil, err)
		return nil, utils.InternalError(err)
	}
	return rows, nil
}
