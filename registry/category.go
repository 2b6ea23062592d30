package registry

import (
	"context"
	"errors"

	"github.com/presupuesto/budget_backend/config"
	"github.com/presupuesto/budget_backend/models"
	"github.com/presupuesto/budget_backend/utils"
)

func (r *Registry) validateParentCategory(ctx context.Context, parentId *int) error {
	if parentId == nil {
		return nil
	}
	parent, err := fetch[models.Category](ctx, r.db, *parentId)
	if errors.Is(err, utils.ErrorRecordNotFound) {
		return utils.NotFoundError("parent category not found")
	}
	if err != nil {
		return utils.InternalError(err)
	}
	if !parent.IsActive {
		return utils.InactiveResourceError("parent category is inactive")
	}
	return nil
}

func (r *Registry) CreateCategory(ctx context.Context, input *models.NewCategory) (*models.Category, error) {
	if err := r.validateParentCategory(ctx, input.ParentId); err != nil {
		return nil, err
	}

	category := models.Category{
		UserId:   input.UserId,
		Name:     input.Name,
		ParentId: input.ParentId,
		IsActive: true,
	}
	if err := r.db.WithContext(ctx).Create(&category).Error; err != nil {
		config.LogError(r.logger, "category.go", "CreateCategory", "creating category", input, err)
		return nil, utils.InternalError(err)
	}
	return &category, nil
}

func (r *Registry) UpdateCategory(ctx context.Context, id int, input *models.UpdateCategory) (*models.Category, error) {
	if err := r.validateParentCategory(ctx, input.ParentId); err != nil {
		return nil, err
	}

	category, err := fetch[models.Category](ctx, r.db, id)
	if errors.Is(err, utils.ErrorRecordNotFound) {
		return nil, utils.NotFoundError("category not found")
	}
	if err != nil {
		return nil, utils.InternalError(err)
	}

	updates := map[string]interface{}{}
	if input.Name != nil {
		updates["name"] = *input.Name
	}
	if input.ParentId != nil {
		updates["parent_id"] = *input.ParentId
	}
	if len(updates) == 0 {
		return category, nil
	}
	if err := r.db.WithContext(ctx).Model(category).Updates(updates).Error; err != nil {
		config.LogError(r.logger, "category.go", "UpdateCategory", "updating category", id, err)
		return nil, utils.InternalError(err)
	}
	return category, nil
}

// DeactivateCategory refuses while the category still has active
// subcategories.
func (r *Registry) DeactivateCategory(ctx context.Context, id int) error {
	category, err := fetch[models.Category](ctx, r.db, id)
	if errors.Is(err, utils.ErrorRecordNotFound) {
		return utils.NotFoundError("category not found")
	}
	if err != nil {
		return utils.InternalError(err)
	}

	var activeChildren int64
	err = r.db.WithContext(ctx).Model(&models.Category{}).
		Where("parent_id = ? AND is_active = ?", id, true).
		Count(&activeChildren).Error
	if err != nil {
		return utils.InternalError(err)
	}
	if activeChildren > 0 {
		return utils.ConflictError("category has active subcategories")
	}

	if err := r.db.WithContext(ctx).Model(category).Update("is_active", false).Error; err != nil {
		config.LogError(r.logger, "category.go", "DeactivateCategory", "deactivating category", id, err)
		return utils.InternalError(err)
	}
	return nil
}

func (r *Registry) GetCategory(ctx context.Context, id int) (*models.Category, error) {
	category, err := fetch[models.Category](ctx, r.db, id)
	if errors.Is(err, utils.ErrorRecordNotFound) {
		return nil, utils.NotFoundError("category not found")
	}
	if err != nil {
		return nil, utils.InternalError(err)
	}
	return category, nil
}

func (r *Registry) ListActiveCategories(ctx context.Context) ([]*models.Category, error) {
	var categories []*models.Category
	err := r.db.WithContext(ctx).Where("is_active = ?", true).Order("name").Find(&categories).Error
	if err != nil {
		config.LogError(r.logger, "category.go", "ListActiveCategories", "querying categories", nil, err)
		return nil, utils.InternalError(err)
	}
	return categories, nil
}
