package mappers

import (
	"testing"
	"time"

	"github.com/LavaJover/voltz-checkout-service/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestStoreMapperKeepsSettings(t *testing.T) {
	now := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)
	store := &domain.Store{
		ID:       "s-1",
		OwnerID:  "o-1",
		Name:     "Loja",
		Status:   domain.StoreStatusActive,
		PlanType: domain.PlanPro,
		Settings: domain.StoreSettings{
			IsDemo:         true,
			Steps:          domain.StepCompletion{Billing: true},
			Dashboard:      domain.DefaultDashboardSettings(),
			LastAccessedAt: &now,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	model := ToGORMStore(store)
	assert.Equal(t, "active", model.Status)
	assert.Equal(t, "pro", model.PlanType)

	back := ToDomainStore(model)
	assert.Equal(t, store, back)
}
