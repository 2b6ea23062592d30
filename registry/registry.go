// Package registry manages the reference entities the ledger validates
// against: institutions, accounts, categories and envelopes. Entities
// are deactivated, never deleted, so historical ledger lines keep
// resolving.
package registry

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/presupuesto/budget_backend/utils"
)

type Registry struct {
	db     *gorm.DB
	logger *logrus.Logger
}

func New(db *gorm.DB, logger *logrus.Logger) *Registry {
	return &Registry{db: db, logger: logger}
}

// fetch loads a record by id, mapping gorm's not-found to the shared
// sentinel so callers can attach the right NOT_FOUND message.
func fetch[T any](ctx context.Context, db *gorm.DB, id int) (*T, error) {
	var result T
	err := db.WithContext(ctx).First(&result, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrorRecordNotFound
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}
