package reconcile

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bsm/redislock"
	"github.com/presupuesto/budget_backend/config"
	"github.com/presupuesto/budget_backend/ledger"
	"github.com/presupuesto/budget_backend/models"
	"github.com/presupuesto/budget_backend/utils"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

// Engine owns the reconciliation lifecycle: records are created OPEN (or
// immediately BALANCED), close exactly once, and never revert.
type Engine struct {
	db     *gorm.DB
	logger *logrus.Logger
	locker *redislock.Client
}

// NewEngine builds the engine. locker may be nil: the redis lock is a
// best-effort cross-instance optimization, the database advisory lock
// inside Create is the reliable serialization layer.
func NewEngine(db *gorm.DB, logger *logrus.Logger, locker *redislock.Client) *Engine {
	return &Engine{db: db, logger: logger, locker: locker}
}

// Create asserts an account's real balance as of a calendar day. At most
// one active reconciliation may exist per account; the check and the
// insert run in one serialized transaction so a concurrent loser
// observes CONFLICT instead of creating a second active record.
func (e *Engine) Create(ctx context.Context, input *models.NewReconciliation) (*models.Reconciliation, error) {
	date, err := utils.ParseDateString(input.Date)
	if err != nil {
		return nil, utils.ValidationError("invalid reconciliation date %q", input.Date)
	}

	var account models.Account
	err = e.db.WithContext(ctx).First(&account, input.AccountId).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.NotFoundError("account not found")
	}
	if err != nil {
		return nil, utils.InternalError(err)
	}
	if !account.IsActive {
		return nil, utils.InactiveResourceError("account is inactive")
	}

	if e.locker != nil {
		lock, lockErr := e.locker.Obtain(ctx, fmt.Sprintf("reconcile:account:%d", input.AccountId), 30*time.Second, nil)
		if lockErr == redislock.ErrNotObtained {
			return nil, utils.ConflictError("another reconciliation is being created for account %d", input.AccountId)
		}
		if lockErr != nil {
			// Redis trouble must not block reconciliation; the advisory lock
			// below still serializes the check.
			config.LogError(e.logger, "engine.go", "Create", "obtaining redis lock", input.AccountId, lockErr)
		} else {
			defer func() { _ = lock.Release(ctx) }()
		}
	}

	var record models.Reconciliation
	err = e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := acquireAccountLock(tx, input.AccountId); err != nil {
			return err
		}
		defer releaseAccountLock(tx, input.AccountId)

		var activeCount int64
		if err := tx.Model(&models.Reconciliation{}).
			Where("account_id = ? AND is_active = ?", input.AccountId, true).
			Count(&activeCount).Error; err != nil {
			return err
		}
		if activeCount > 0 {
			return utils.ConflictError("active reconciliation already exists for account")
		}

		// Balance read and status decision happen inside the same
		// transaction as the insert: no intervening write can slip between
		// computing the difference and persisting the status.
		calculated, err := ledger.AccountBalance(ctx, tx, input.AccountId, &date)
		if err != nil {
			return err
		}
		difference := input.RealBalance.Sub(calculated)

		record = models.Reconciliation{
			AccountId:         input.AccountId,
			Date:              date,
			RealBalance:       input.RealBalance,
			CalculatedBalance: calculated,
			Difference:        difference,
			Status:            models.ReconciliationStatusOpen,
			IsActive:          true,
			Note:              input.Note,
		}
		if difference.Abs().Cmp(models.Epsilon) <= 0 {
			now := time.Now().UTC()
			record.Status = models.ReconciliationStatusBalanced
			record.IsActive = false
			record.ClosedAt = &now
		}
		return tx.Create(&record).Error
	})
	if err != nil {
		if appErr, ok := utils.AsAppError(err); ok {
			return nil, appErr
		}
		config.LogError(e.logger, "engine.go", "Create", "creating reconciliation", input, err)
		return nil, utils.InternalError(err)
	}
	return &record, nil
}

// ReevaluateOpenReconciliation re-checks the account's open
// reconciliation after new ledger activity and closes it when the
// recomputed difference is within tolerance. Closure is a conditional
// update applied only while the record is still OPEN, so concurrent
// evaluators no-op instead of double-closing. No-op when the account has
// no open reconciliation.
func (e *Engine) ReevaluateOpenReconciliation(ctx context.Context, accountId int) error {
	return e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var record models.Reconciliation
		err := tx.Where("account_id = ? AND is_active = ?", accountId, true).First(&record).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		calculated, err := ledger.AccountBalance(ctx, tx, accountId, &record.Date)
		if err != nil {
			return err
		}
		difference := record.RealBalance.Sub(calculated)
		if difference.Abs().Cmp(models.Epsilon) > 0 {
			return nil
		}

		res := tx.Model(&models.Reconciliation{}).
			Where("id = ? AND status = ? AND is_active = ?", record.ID, models.ReconciliationStatusOpen, true).
			Updates(map[string]interface{}{
				"status":    models.ReconciliationStatusBalanced,
				"is_active": false,
				"closed_at": time.Now().UTC(),
			})
		// RowsAffected == 0 means another evaluator already closed it.
		return res.Error
	})
}

// GetActive returns the account's current OPEN reconciliation. A missing
// account and a missing active record are reported separately.
func (e *Engine) GetActive(ctx context.Context, accountId int) (*models.Reconciliation, error) {
	var account models.Account
	err := e.db.WithContext(ctx).First(&account, accountId).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.NotFoundError("account not found")
	}
	if err != nil {
		return nil, utils.InternalError(err)
	}

	var record models.Reconciliation
	err = e.db.WithContext(ctx).
		Where("account_id = ? AND is_active = ?", accountId, true).
		First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.NotFoundError("active reconciliation not found")
	}
	if err != nil {
		return nil, utils.InternalError(err)
	}
	return &record, nil
}

func (e *Engine) Get(ctx context.Context, id int) (*models.Reconciliation, error) {
	var record models.Reconciliation
	err := e.db.WithContext(ctx).First(&record, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.NotFoundError("reconciliation not found")
	}
	if err != nil {
		return nil, utils.InternalError(err)
	}
	return &record, nil
}

func (e *Engine) List(ctx context.Context, filter *models.ReconciliationFilter) ([]*models.Reconciliation, error) {
	limit := filter.Limit
	if limit < 1 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	dbCtx := e.db.WithContext(ctx).Model(&models.Reconciliation{})
	if filter.AccountId != nil {
		dbCtx = dbCtx.Where("account_id = ?", *filter.AccountId)
	}
	if filter.Status != nil {
		if !filter.Status.Valid() {
			return nil, utils.ValidationError("invalid reconciliation status %q", *filter.Status)
		}
		dbCtx = dbCtx.Where("status = ?", *filter.Status)
	}

	var results []*models.Reconciliation
	err := dbCtx.Order("date DESC, created_at DESC").Limit(limit).Offset(offset).Find(&results).Error
	if err != nil {
		config.LogError(e.logger, "engine.go", "List", "querying reconciliations", filter, err)
		return nil, utils.InternalError(err)
	}
	return results, nil
}

// UpdateNote is the only permitted post-creation mutation. Every other
// field is immutable and deletion does not exist.
func (e *Engine) UpdateNote(ctx context.Context, id int, note *string) (*models.Reconciliation, error) {
	record, err := e.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := e.db.WithContext(ctx).Model(record).Update("note", note).Error; err != nil {
		config.LogError(e.logger, "engine.go", "UpdateNote", "updating note", id, err)
		return nil, utils.InternalError(err)
	}
	record.Note = note
	return record, nil
}

// Summary returns the stored record plus a freshly recomputed view of
// the same assertion against today's ledger, without mutating stored
// status: a BALANCED-looking past record may no longer balance.
func (e *Engine) Summary(ctx context.Context, id int) (*models.ReconciliationSummary, error) {
	record, err := e.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	calculated, err := ledger.AccountBalance(ctx, e.db, record.AccountId, &record.Date)
	if err != nil {
		config.LogError(e.logger, "engine.go", "Summary", "recomputing balance", id, err)
		return nil, utils.InternalError(err)
	}
	difference := record.RealBalance.Sub(calculated)
	statusCurrent := models.ReconciliationStatusOpen
	if difference.Abs().Cmp(models.Epsilon) <= 0 {
		statusCurrent = models.ReconciliationStatusBalanced
	}

	return &models.ReconciliationSummary{
		Reconciliation:    *record,
		CalculatedCurrent: calculated,
		DifferenceCurrent: difference,
		StatusCurrent:     statusCurrent,
	}, nil
}
