package report

import (
	"context"
	"errors"
	"time"

	"github.com/presupuesto/budget_backend/config"
	"github.com/presupuesto/budget_backend/ledger"
	"github.com/presupuesto/budget_backend/models"
	"github.com/presupuesto/budget_backend/utils"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Reporter exposes diagnostic read projections over the ledger and the
// reconciliation history. No method has side effects.
type Reporter struct {
	db     *gorm.DB
	logger *logrus.Logger
}

func NewReporter(db *gorm.DB, logger *logrus.Logger) *Reporter {
	return &Reporter{db: db, logger: logger}
}

type Inconsistency struct {
	AccountId          int             `json:"accountId"`
	AccountName        string          `json:"accountName"`
	ReconciliationDate time.Time       `json:"reconciliationDate"`
	RealBalance        decimal.Decimal `json:"realBalance"`
	CalculatedBalance  decimal.Decimal `json:"calculatedBalance"`
	Difference         decimal.Decimal `json:"difference"`
}

// FindInconsistencies cross-checks, per account, the most recent
// reconciliation's asserted real balance against a freshly recomputed
// ledger balance as of that reconciliation's date. Accounts without any
// reconciliation are skipped; only material drift (|difference| above
// tolerance) is reported. A reconciliation dated later than now is not
// an error.
func (r *Reporter) FindInconsistencies(ctx context.Context, accountId *int) ([]*Inconsistency, error) {
	dbCtx := r.db.WithContext(ctx)
	var accounts []*models.Account
	if accountId != nil {
		dbCtx = dbCtx.Where("id = ?", *accountId)
	}
	if err := dbCtx.Find(&accounts).Error; err != nil {
		config.LogError(r.logger, "reporter.go", "FindInconsistencies", "querying accounts", accountId, err)
		return nil, utils.InternalError(err)
	}

	inconsistencies := make([]*Inconsistency, 0)
	for _, account := range accounts {
		var latest models.Reconciliation
		err := r.db.WithContext(ctx).
			Where("account_id = ?", account.ID).
			Order("date DESC, created_at DESC").
			First(&latest).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			continue
		}
		if err != nil {
			config.LogError(r.logger, "reporter.go", "FindInconsistencies", "fetching latest reconciliation", account.ID, err)
			return nil, utils.InternalError(err)
		}

		calculated, err := ledger.AccountBalance(ctx, r.db, account.ID, &latest.Date)
		if err != nil {
			config.LogError(r.logger, "reporter.go", "FindInconsistencies", "recomputing balance", account.ID, err)
			return nil, utils.InternalError(err)
		}
		difference := latest.RealBalance.Sub(calculated)
		if difference.Abs().Cmp(models.Epsilon) <= 0 {
			continue
		}
		inconsistencies = append(inconsistencies, &Inconsistency{
			AccountId:          account.ID,
			AccountName:        account.Name,
			ReconciliationDate: latest.Date,
			RealBalance:        latest.RealBalance,
			CalculatedBalance:  calculated,
			Difference:         difference,
		})
	}
	return inconsistencies, nil
}
