package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/presupuesto/budget_backend/config"
	"github.com/presupuesto/budget_backend/models"
	"github.com/presupuesto/budget_backend/utils"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Reevaluator is notified after a committed transaction so any open
// reconciliation on a touched account can be re-checked. Satisfied by
// the reconcile engine.
type Reevaluator interface {
	ReevaluateOpenReconciliation(ctx context.Context, accountId int) error
}

type Ledger struct {
	db         *gorm.DB
	logger     *logrus.Logger
	reconciler Reevaluator
}

func New(db *gorm.DB, logger *logrus.Logger) *Ledger {
	return &Ledger{db: db, logger: logger}
}

// SetReconciler wires the post-commit hook. Set once during startup;
// re-evaluation failures never roll back a committed transaction.
func (l *Ledger) SetReconciler(r Reevaluator) {
	l.reconciler = r
}

// CreateTransaction validates and atomically admits one transaction with
// all of its lines. Validation happens before any mutation and the first
// failing line aborts the whole operation; the header and the full line
// set commit in a single storage transaction, so no reader can observe a
// partial write.
func (l *Ledger) CreateTransaction(ctx context.Context, input *models.NewTransaction) (*models.Transaction, error) {
	date, err := utils.ParseDateString(input.Date)
	if err != nil {
		return nil, utils.ValidationError("invalid transaction date %q", input.Date)
	}
	if !input.Type.Valid() {
		return nil, utils.ValidationError("invalid transaction type %q", input.Type)
	}
	if len(input.Lines) == 0 {
		return nil, utils.ValidationError("transaction must have at least one line")
	}

	if input.Type == models.TransactionTypeTransfer {
		if len(input.Lines) != 2 {
			return nil, utils.ValidationError("TRANSFER transactions must have exactly 2 lines")
		}
		sum := input.Lines[0].Amount.Add(input.Lines[1].Amount)
		if sum.Abs().Cmp(models.Epsilon) >= 0 {
			return nil, utils.ValidationError("TRANSFER transaction lines must sum to zero")
		}
	}

	for _, line := range input.Lines {
		if err := l.validateLine(ctx, line); err != nil {
			return nil, err
		}
	}

	transaction := models.Transaction{
		UserId:      input.UserId,
		Date:        date,
		Description: input.Description,
		Type:        input.Type,
		Lines:       make([]models.TransactionLine, 0, len(input.Lines)),
	}
	accountIds := make([]int, 0, len(input.Lines))
	for _, line := range input.Lines {
		transaction.Lines = append(transaction.Lines, models.TransactionLine{
			AccountId:  line.AccountId,
			EnvelopeId: line.EnvelopeId,
			Amount:     line.Amount,
		})
		accountIds = append(accountIds, line.AccountId)
	}

	// db action: header + all lines in one commit
	err = l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&transaction).Error
	})
	if err != nil {
		config.LogError(l.logger, "ledger.go", "CreateTransaction", "persisting transaction", input, err)
		return nil, utils.InternalError(err)
	}

	// Post-commit hook: best-effort per touched account. A failure here is
	// logged and must never convert the committed create into an error.
	if l.reconciler != nil {
		for _, accountId := range utils.UniqueSlice(accountIds) {
			if err := l.reconciler.ReevaluateOpenReconciliation(ctx, accountId); err != nil {
				config.LogError(l.logger, "ledger.go", "CreateTransaction", "reevaluating open reconciliation", accountId, err)
			}
		}
	}

	return &transaction, nil
}

// validateLine runs the per-line admission checks in their contractual
// order: envelope existence, envelope active, envelope/account binding,
// account existence, account active, category existence, category
// active, institution active.
func (l *Ledger) validateLine(ctx context.Context, line models.NewTransactionLine) error {
	var envelope models.Envelope
	err := l.db.WithContext(ctx).First(&envelope, line.EnvelopeId).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return utils.NotFoundError("envelope %d not found", line.EnvelopeId).
			WithDetail(map[string]interface{}{"field": "lines", "envelopeId": line.EnvelopeId})
	}
	if err != nil {
		return utils.InternalError(err)
	}
	if !envelope.IsActive {
		return utils.InactiveResourceError("envelope %d is inactive", line.EnvelopeId).
			WithDetail(map[string]interface{}{"field": "lines", "envelopeId": line.EnvelopeId})
	}
	if envelope.AccountId != line.AccountId {
		return utils.ValidationError("envelope %d does not belong to account %d", line.EnvelopeId, line.AccountId).
			WithDetail(map[string]interface{}{"field": "lines", "envelopeId": line.EnvelopeId, "accountId": line.AccountId})
	}

	var account models.Account
	err = l.db.WithContext(ctx).First(&account, line.AccountId).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return utils.NotFoundError("account %d not found", line.AccountId).
			WithDetail(map[string]interface{}{"field": "lines", "accountId": line.AccountId})
	}
	if err != nil {
		return utils.InternalError(err)
	}
	if !account.IsActive {
		return utils.InactiveResourceError("account %d is inactive", line.AccountId).
			WithDetail(map[string]interface{}{"field": "lines", "accountId": line.AccountId})
	}

	var category models.Category
	err = l.db.WithContext(ctx).First(&category, envelope.CategoryId).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return utils.NotFoundError("category %d not found", envelope.CategoryId)
	}
	if err != nil {
		return utils.InternalError(err)
	}
	if !category.IsActive {
		return utils.InactiveResourceError("category %d is inactive", envelope.CategoryId)
	}

	var institution models.Institution
	err = l.db.WithContext(ctx).First(&institution, account.InstitutionId).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return utils.InternalError(err)
	}
	if errors.Is(err, gorm.ErrRecordNotFound) || !institution.IsActive {
		return utils.InactiveResourceError("institution %d is inactive", account.InstitutionId)
	}
	return nil
}

// ComputeAccountBalance sums all lines posted against the account,
// optionally as of a calendar day. Pure read, idempotent.
func (l *Ledger) ComputeAccountBalance(ctx context.Context, accountId int, asOf *time.Time) (decimal.Decimal, error) {
	return AccountBalance(ctx, l.db, accountId, asOf)
}

// ComputeEnvelopeBalance sums all lines referencing the envelope.
func (l *Ledger) ComputeEnvelopeBalance(ctx context.Context, envelopeId int) (decimal.Decimal, error) {
	return EnvelopeBalance(ctx, l.db, envelopeId)
}
