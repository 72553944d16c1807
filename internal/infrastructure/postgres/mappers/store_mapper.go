package mappers

import (
	"github.com/LavaJover/voltz-checkout-service/internal/domain"
	"github.com/LavaJover/voltz-checkout-service/internal/infrastructure/postgres/models"
)

func ToGORMStore(store *domain.Store) *models.StoreModel {
	return &models.StoreModel{
		ID:                  store.ID,
		OwnerID:             store.OwnerID,
		Name:                store.Name,
		Description:         store.Description,
		Domain:              store.Domain,
		LogoURL:             store.LogoURL,
		Status:              string(store.Status),
		PlanType:            string(store.PlanType),
		CycleLimit:          store.CycleLimit,
		CurrentCycleRevenue: store.CurrentCycleRevenue,
		TotalRevenue:        store.TotalRevenue,
		Settings:            store.Settings,
		CreatedAt:           store.CreatedAt,
		UpdatedAt:           store.UpdatedAt,
	}
}

func ToDomainStore(model *models.StoreModel) *domain.Store {
	return &domain.Store{
		ID:                  model.ID,
		OwnerID:             model.OwnerID,
		Name:                model.Name,
		Description:         model.Description,
		Domain:              model.Domain,
		LogoURL:             model.LogoURL,
		Status:              domain.StoreStatus(model.Status),
		PlanType:            domain.PlanType(model.PlanType),
		CycleLimit:          model.CycleLimit,
		CurrentCycleRevenue: model.CurrentCycleRevenue,
		TotalRevenue:        model.TotalRevenue,
		Settings:            model.Settings,
		CreatedAt:           model.CreatedAt,
		UpdatedAt:           model.UpdatedAt,
	}
}
