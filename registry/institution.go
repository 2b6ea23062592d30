package registry

import (
	"context"
	"errors"

	"github.com/presupuesto/budget_backend/config"
	"github.com/presupuesto/budget_backend/models"
	"github.com/presupuesto/budget_backend/utils"
)

func (r *Registry) CreateInstitution(ctx context.Context, input *models.NewInstitution) (*models.Institution, error) {
	institution := models.Institution{
		UserId:   input.UserId,
		Name:     input.Name,
		Type:     input.Type,
		IsActive: true,
	}
	if err := r.db.WithContext(ctx).Create(&institution).Error; err != nil {
		config.LogError(r.logger, "institution.go", "CreateInstitution", "creating institution", input, err)
		return nil, utils.InternalError(err)
	}
	return &institution, nil
}

func (r *Registry) UpdateInstitution(ctx context.Context, id int, input *models.UpdateInstitution) (*models.Institution, error) {
	institution, err := fetch[models.Institution](ctx, r.db, id)
	if errors.Is(err, utils.ErrorRecordNotFound) {
		return nil, utils.NotFoundError("institution not found")
	}
	if err != nil {
		return nil, utils.InternalError(err)
	}

	updates := map[string]interface{}{}
	if input.Name != nil {
		updates["name"] = *input.Name
	}
	if input.Type != nil {
		updates["type"] = *input.Type
	}
	if len(updates) == 0 {
		return institution, nil
	}
	if err := r.db.WithContext(ctx).Model(institution).Updates(updates).Error; err != nil {
		config.LogError(r.logger, "institution.go", "UpdateInstitution", "updating institution", id, err)
		return nil, utils.InternalError(err)
	}
	return institution, nil
}

func (r *Registry) DeactivateInstitution(ctx context.Context, id int) error {
	institution, err := fetch[models.Institution](ctx, r.db, id)
	if errors.Is(err, utils.ErrorRecordNotFound) {
		return utils.NotFoundError("institution not found")
	}
	if err != nil {
		return utils.InternalError(err)
	}
	if err := r.db.WithContext(ctx).Model(institution).Update("is_active", false).Error; err != nil {
		config.LogError(r.logger, "institution.go", "DeactivateInstitution", "deactivating institution", id, err)
		return utils.InternalError(err)
	}
	return nil
}

func (r *Registry) GetInstitution(ctx context.Context, id int) (*models.Institution, error) {
	institution, err := fetch[models.Institution](ctx, r.db, id)
	if errors.Is(err, utils.ErrorRecordNotFound) {
		return nil, utils.NotFoundError("institution not found")
	}
	if err != nil {
		return nil, utils.InternalError(err)
	}
	return institution, nil
}

func (r *Registry) ListInstitutions(ctx context.Context) ([]*models.Institution, error) {
	var institutions []*models.Institution
	if err := r.db.WithContext(ctx).Order("name").Find(&institutions).Error; err != nil {
		config.LogError(r.logger, "institution.go", "ListInstitutions", "querying institutions", nil, err)
		return nil, utils.InternalError(err)
	}
	return institutions, nil
}
