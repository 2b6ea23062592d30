package registry

import (
	"context"
	"errors"

	"github.com/presupuesto/budget_backend/config"
	"github.com/presupuesto/budget_backend/ledger"
	"github.com/presupuesto/budget_backend/models"
	"github.com/presupuesto/budget_backend/utils"
	"gorm.io/gorm"
)

// CreateEnvelope binds an account to a category. The pair is unique for
// the account's lifetime: a previously deactivated envelope blocks
// re-creation because its historical lines still reference it.
func (r *Registry) CreateEnvelope(ctx context.Context, input *models.NewEnvelope) (*models.Envelope, error) {
	account, err := fetch[models.Account](ctx, r.db, input.AccountId)
	if errors.Is(err, utils.ErrorRecordNotFound) {
		return nil, utils.NotFoundError("account not found")
	}
	if err != nil {
		return nil, utils.InternalError(err)
	}
	if !account.IsActive {
		return nil, utils.InactiveResourceError("account is inactive")
	}

	category, err := fetch[models.Category](ctx, r.db, input.CategoryId)
	if errors.Is(err, utils.ErrorRecordNotFound) {
		return nil, utils.NotFoundError("category not found")
	}
	if err != nil {
		return nil, utils.InternalError(err)
	}
	if !category.IsActive {
		return nil, utils.InactiveResourceError("category is inactive")
	}

	var existing models.Envelope
	err = r.db.WithContext(ctx).
		Where("account_id = ? AND category_id = ?", input.AccountId, input.CategoryId).
		First(&existing).Error
	if err == nil {
		if existing.IsActive {
			return nil, utils.ConflictError("envelope already exists")
		}
		return nil, utils.ConflictError("envelope was previously deactivated")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.InternalError(err)
	}

	envelope := models.Envelope{
		AccountId:  input.AccountId,
		CategoryId: input.CategoryId,
		IsActive:   true,
	}
	if err := r.db.WithContext(ctx).Create(&envelope).Error; err != nil {
		config.LogError(r.logger, "envelope.go", "CreateEnvelope", "creating envelope", input, err)
		return nil, utils.InternalError(err)
	}
	return &envelope, nil
}

// DeactivateEnvelope refuses unless the envelope's derived balance is
// exactly zero.
func (r *Registry) DeactivateEnvelope(ctx context.Context, id int) error {
	envelope, err := fetch[models.Envelope](ctx, r.db, id)
	if errors.Is(err, utils.ErrorRecordNotFound) {
		return utils.NotFoundError("envelope not found")
	}
	if err != nil {
		return utils.InternalError(err)
	}

	balance, err := ledger.EnvelopeBalance(ctx, r.db, id)
	if err != nil {
		config.LogError(r.logger, "envelope.go", "DeactivateEnvelope", "computing envelope balance", id, err)
		return utils.InternalError(err)
	}
	if !balance.IsZero() {
		return utils.ConflictError("envelope has a non-zero balance")
	}

	if err := r.db.WithContext(ctx).Model(envelope).Update("is_active", false).Error; err != nil {
		config.LogError(r.logger, "envelope.go", "DeactivateEnvelope", "deactivating envelope", id, err)
		return utils.InternalError(err)
	}
	return nil
}

func (r *Registry) GetEnvelope(ctx context.Context, id int) (*models.Envelope, error) {
	envelope, err := fetch[models.Envelope](ctx, r.db, id)
	if errors.Is(err, utils.ErrorRecordNotFound) {
		return nil, utils.NotFoundError("envelope not found")
	}
	if err != nil {
		return nil, utils.InternalError(err)
	}
	return envelope, nil
}

func (r *Registry) EnvelopeIsActive(ctx context.Context, id int) (bool, error) {
	envelope, err := r.GetEnvelope(ctx, id)
	if err != nil {
		return false, err
	}
	return envelope.IsActive, nil
}

func (r *Registry) EnvelopeBelongsToAccount(ctx context.Context, id int, accountId int) (bool, error) {
	envelope, err := r.GetEnvelope(ctx, id)
	if err != nil {
		return false, err
	}
	return envelope.AccountId == accountId, nil
}

func (r *Registry) ListEnvelopes(ctx context.Context, accountId int) ([]*models.Envelope, error) {
	var envelopes []*models.Envelope
	err := r.db.WithContext(ctx).
		Where("account_id = ? AND is_active = ?", accountId, true).
		Find(&envelopes).Error
	if err != nil {
		config.LogError(r.logger, "envelope.go", "ListEnvelopes", "querying envelopes", accountId, err)
		return nil, utils.InternalError(err)
	}
	return envelopes, nil
}
