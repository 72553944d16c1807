package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/LavaJover/voltz-checkout-service/internal/domain"
	"github.com/LavaJover/voltz-checkout-service/internal/infrastructure/postgres/mappers"
	"github.com/LavaJover/voltz-checkout-service/internal/infrastructure/postgres/models"
)

type DefaultStoreRepository struct {
	db *gorm.DB
}

func NewDefaultStoreRepository(db *gorm.DB) *DefaultStoreRepository {
	return &DefaultStoreRepository{db: db}
}

func (r *DefaultStoreRepository) ListByOwner(ctx context.Context, ownerID string) ([]*domain.Store, error) {
	var storeModels []*models.StoreModel

	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&storeModels).Error
	if err != nil {
		return nil, err
	}

	stores := make([]*domain.Store, len(storeModels))
	for i, model := range storeModels {
		stores[i] = mappers.ToDomainStore(model)
	}
	return stores, nil
}

func (r *DefaultStoreRepository) GetByID(ctx context.Context, id string) (*domain.Store, error) {
	var model models.StoreModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("store %s: %w", id, domain.ErrNotFound)
		}
		return nil, err
	}
	return mappers.ToDomainStore(&model), nil
}

func (r *DefaultStoreRepository) Create(ctx context.Context, store *domain.Store) error {
	return r.db.WithContext(ctx).Create(mappers.ToGORMStore(store)).Error
}

func (r *DefaultStoreRepository) Update(ctx context.Context, store *domain.Store) error {
	settings, err := json.Marshal(store.Settings)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}

	// settings.steps keeps the stored value; UpdateStep owns it.
	res := r.db.WithContext(ctx).
		Model(&models.StoreModel{}).
		Where("id = ?", store.ID).
		Updates(map[string]any{
			"name":                  store.Name,
			"description":           store.Description,
			"domain":                store.Domain,
			"logo_url":              store.LogoURL,
			"status":                string(store.Status),
			"plan_type":             string(store.PlanType),
			"cycle_limit":           store.CycleLimit,
			"current_cycle_revenue": store.CurrentCycleRevenue,
			"total_revenue":         store.TotalRevenue,
			"settings": gorm.Expr(
				"jsonb_set(?::jsonb, '{steps}', COALESCE(settings->'steps', ?::jsonb))",
				string(settings), `{}`),
			"updated_at": store.UpdatedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("store %s: %w", store.ID, domain.ErrNotFound)
	}
	return nil
}

func (r *DefaultStoreRepository) UpdateStep(ctx context.Context, id string, step domain.StepID, done bool, at time.Time) (string, error) {
	var ownerID string
	res := r.db.WithContext(ctx).Raw(
		`UPDATE stores
		    SET settings = jsonb_set(settings, ARRAY['steps', ?::text], to_jsonb(?::boolean), true),
		        updated_at = ?
		  WHERE id = ?
		RETURNING owner_id`,
		string(step), done, at, id,
	).Scan(&ownerID)
	if res.Error != nil {
		return "", res.Error
	}
	if res.RowsAffected == 0 {
		return "", fmt.Errorf("store %s: %w", id, domain.ErrNotFound)
	}
	return ownerID, nil
}

func (r *DefaultStoreRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&models.StoreModel{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("store %s: %w", id, domain.ErrNotFound)
	}
	return nil
}
