package domain

import (
	"context"
	"time"
)

type StoreStatus string

const (
	StoreStatusActive   StoreStatus = "active"
	StoreStatusInactive StoreStatus = "inactive"
	StoreStatusBlocked  StoreStatus = "blocked"
)

func (s StoreStatus) IsValid() bool {
	switch s {
	case StoreStatusActive, StoreStatusInactive, StoreStatusBlocked:
		return true
	}
	return false
}

type PlanType string

const (
	PlanFree       PlanType = "free"
	PlanStarter    PlanType = "starter"
	PlanPro        PlanType = "pro"
	PlanEnterprise PlanType = "enterprise"
)

func (p PlanType) IsValid() bool {
	switch p {
	case PlanFree, PlanStarter, PlanPro, PlanEnterprise:
		return true
	}
	return false
}

// StepCompletion mirrors activation progress on the store record.
type StepCompletion struct {
	Billing  bool `json:"billing"`
	Domain   bool `json:"domain"`
	Gateway  bool `json:"gateway"`
	Shipping bool `json:"shipping"`
}

func (c *StepCompletion) Set(id StepID, done bool) {
	switch id {
	case StepBilling:
		c.Billing = done
	case StepDomain:
		c.Domain = done
	case StepGateway:
		c.Gateway = done
	case StepShipping:
		c.Shipping = done
	}
}

func (c StepCompletion) Get(id StepID) bool {
	switch id {
	case StepBilling:
		return c.Billing
	case StepDomain:
		return c.Domain
	case StepGateway:
		return c.Gateway
	case StepShipping:
		return c.Shipping
	}
	return false
}

func (c StepCompletion) All() bool {
	return c.Billing && c.Domain && c.Gateway && c.Shipping
}

// DashboardSettings holds KPI visibility toggles.
type DashboardSettings struct {
	ShowRevenue        bool `json:"show_revenue"`
	ShowOrders         bool `json:"show_orders"`
	ShowConversion     bool `json:"show_conversion"`
	ShowAverageTicket  bool `json:"show_average_ticket"`
	ShowAbandonedCarts bool `json:"show_abandoned_carts"`
}

func DefaultDashboardSettings() DashboardSettings {
	return DashboardSettings{
		ShowRevenue:        true,
		ShowOrders:         true,
		ShowConversion:     true,
		ShowAverageTicket:  true,
		ShowAbandonedCarts: false,
	}
}

type StoreSettings struct {
	IsDemo         bool              `json:"is_demo"`
	Steps          StepCompletion    `json:"steps"`
	Dashboard      DashboardSettings `json:"dashboard"`
	LastAccessedAt *time.Time        `json:"last_accessed_at,omitempty"`
}

type Store struct {
	ID                  string
	OwnerID             string
	Name                string
	Description         string
	Domain              string
	LogoURL             string
	Status              StoreStatus
	PlanType            PlanType
	CycleLimit          float64
	CurrentCycleRevenue float64
	TotalRevenue        float64
	Settings            StoreSettings
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

func (s *Store) IsDemo() bool {
	return s.Settings.IsDemo
}

// StorePatch is a partial update; nil fields are left untouched.
type StorePatch struct {
	Name        *string
	Description *string
	Domain      *string
	LogoURL     *string
	Status      *StoreStatus
	PlanType    *PlanType
	CycleLimit  *float64
	Settings    *StoreSettings
}

func (p *StorePatch) Apply(store *Store) {
	if p.Name != nil {
		store.Name = *p.Name
	}
	if p.Description != nil {
		store.Description = *p.Description
	}
	if p.Domain != nil {
		store.Domain = *p.Domain
	}
	if p.LogoURL != nil {
		store.LogoURL = *p.LogoURL
	}
	if p.Status != nil {
		store.Status = *p.Status
	}
	if p.PlanType != nil {
		store.PlanType = *p.PlanType
	}
	if p.CycleLimit != nil {
		store.CycleLimit = *p.CycleLimit
	}
	if p.Settings != nil {
		store.Settings = *p.Settings
	}
}

// StoreRepository persists stores. Update writes every column except
// settings.steps, which only UpdateStep changes.
type StoreRepository interface {
	ListByOwner(ctx context.Context, ownerID string) ([]*Store, error)
	GetByID(ctx context.Context, id string) (*Store, error)
	Create(ctx context.Context, store *Store) error
	Update(ctx context.Context, store *Store) error
	// UpdateStep sets one entry of settings.steps in place and returns the
	// store's owner.
	UpdateStep(ctx context.Context, id string, step StepID, done bool, at time.Time) (string, error)
	Delete(ctx context.Context, id string) error
}

type StoreEventType string

const (
	StoreCreated   StoreEventType = "store.created"
	StoreUpdated   StoreEventType = "store.updated"
	StoreDeleted   StoreEventType = "store.deleted"
	StoreSelected  StoreEventType = "store.selected"
	StoresReloaded StoreEventType = "store.reloaded"
)

type StoreEvent struct {
	Type    StoreEventType
	OwnerID string
	StoreID string
	At      time.Time
}
