package ledger

import (
	"context"
	"time"

	"github.com/presupuesto/budget_backend/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// AccountBalance folds every transaction line posted against the account
// into a single decimal sum, optionally restricted to lines whose parent
// transaction date is on or before asOf. Balances are never stored; this
// routine is the one summation path shared by reconciliation creation,
// re-evaluation, summaries and the inconsistency report.
func AccountBalance(ctx context.Context, db *gorm.DB, accountId int, asOf *time.Time) (decimal.Decimal, error) {
	q := db.WithContext(ctx).Model(&models.TransactionLine{}).
		Joins("JOIN transactions ON transactions.id = transaction_lines.transaction_id").
		Where("transaction_lines.account_id = ?", accountId)
	if asOf != nil {
		q = q.Where("transactions.date <= ?", *asOf)
	}

	var balance decimal.Decimal
	err := q.Select("COALESCE(SUM(transaction_lines.amount), 0)").Scan(&balance).Error
	if err != nil {
		return decimal.Zero, err
	}
	return balance, nil
}

// EnvelopeBalance sums every transaction line referencing the envelope;
// zero when none exist.
func EnvelopeBalance(ctx context.Context, db *gorm.DB, envelopeId int) (decimal.Decimal, error) {
	var balance decimal.Decimal
	err := db.WithContext(ctx).Model(&models.TransactionLine{}).
		Where("envelope_id = ?", envelopeId).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&balance).Error
	if err != nil {
		return decimal.Zero, err
	}
	return balance, nil
}
