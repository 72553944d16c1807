package models

import (
	"time"

	"github.com/LavaJover/voltz-checkout-service/internal/domain"
)

type StoreModel struct {
	ID                  string               `gorm:"primaryKey;type:uuid"`
	OwnerID             string               `gorm:"type:uuid;not null;index:idx_stores_owner_created,priority:1"`
	Name                string               `gorm:"not null"`
	Description         string
	Domain              string
	LogoURL             string               `gorm:"column:logo_url"`
	Status              string               `gorm:"not null;default:'active'"`
	PlanType            string               `gorm:"not null;default:'free'"`
	CycleLimit          float64              `gorm:"not null;default:0"`
	CurrentCycleRevenue float64              `gorm:"not null;default:0"`
	TotalRevenue        float64              `gorm:"not null;default:0"`
	Settings            domain.StoreSettings `gorm:"serializer:json;type:jsonb;not null"`
	CreatedAt           time.Time            `gorm:"index:idx_stores_owner_created,priority:2,sort:desc"`
	UpdatedAt           time.Time
}

func (StoreModel) TableName() string {
	return "stores"
}
