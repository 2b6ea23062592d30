package registry

import (
	"context"
	"errors"

	"github.com/presupuesto/budget_backend/config"
	"github.com/presupuesto/budget_backend/models"
	"github.com/presupuesto/budget_backend/utils"
)

func (r *Registry) CreateAccount(ctx context.Context, input *models.NewAccount) (*models.Account, error) {
	institution, err := fetch[models.Institution](ctx, r.db, input.InstitutionId)
	if errors.Is(err, utils.ErrorRecordNotFound) {
		return nil, utils.NotFoundError("institution not found")
	}
	if err != nil {
		return nil, utils.InternalError(err)
	}
	if !institution.IsActive {
		return nil, utils.InactiveResourceError("institution is inactive")
	}

	account := models.Account{
		UserId:         input.UserId,
		InstitutionId:  input.InstitutionId,
		Name:           input.Name,
		Currency:       input.Currency,
		IsActive:       true,
		AllowOverdraft: input.AllowOverdraft,
	}
	if err := r.db.WithContext(ctx).Create(&account).Error; err != nil {
		config.LogError(r.logger, "account.go", "CreateAccount", "creating account", input, err)
		return nil, utils.InternalError(err)
	}
	return &account, nil
}

func (r *Registry) UpdateAccount(ctx context.Context, id int, input *models.UpdateAccount) (*models.Account, error) {
	account, err := fetch[models.Account](ctx, r.db, id)
	if errors.Is(err, utils.ErrorRecordNotFound) {
		return nil, utils.NotFoundError("account not found")
	}
	if err != nil {
		return nil, utils.InternalError(err)
	}

	// Only the name is mutable; institution, currency and overdraft flag
	// are fixed at creation.
	if input.Name != nil {
		if err := r.db.WithContext(ctx).Model(account).Update("name", *input.Name).Error; err != nil {
			config.LogError(r.logger, "account.go", "UpdateAccount", "updating account", id, err)
			return nil, utils.InternalError(err)
		}
	}
	return account, nil
}

func (r *Registry) DeactivateAccount(ctx context.Context, id int) error {
	account, err := fetch[models.Account](ctx, r.db, id)
	if errors.Is(err, utils.ErrorRecordNotFound) {
		return utils.NotFoundError("account not found")
	}
	if err != nil {
		return utils.InternalError(err)
	}
	if err := r.db.WithContext(ctx).Model(account).Update("is_active", false).Error; err != nil {
		config.LogError(r.logger, "account.go", "DeactivateAccount", "deactivating account", id, err)
		return utils.InternalError(err)
	}
	return nil
}

func (r *Registry) GetAccount(ctx context.Context, id int) (*models.Account, error) {
	account, err := fetch[models.Account](ctx, r.db, id)
	if errors.Is(err, utils.ErrorRecordNotFound) {
		return nil, utils.NotFoundError("account not found")
	}
	if err != nil {
		return nil, utils.InternalError(err)
	}
	return account, nil
}

func (r *Registry) ListActiveAccounts(ctx context.Context) ([]*models.Account, error) {
	var accounts []*models.Account
	err := r.db.WithContext(ctx).Where("is_active = ?", true).Order("name").Find(&accounts).Error
	if err != nil {
		config.LogError(r.logger, "account.go", "ListActiveAccounts", "querying accounts", nil, err)
		return nil, utils.InternalError(err)
	}
	return accounts, nil
}
