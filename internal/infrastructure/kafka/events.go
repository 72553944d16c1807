package publisher

import (
	"time"

	"github.com/LavaJover/voltz-checkout-service/internal/domain"
)

type StoreEvent struct {
	Type     string    `json:"type"`
	OwnerID  string    `json:"owner_id"`
	StoreID  string    `json:"store_id"`
	Origin   string    `json:"origin"`
	Occurred time.Time `json:"occurred_at"`
}

func NewStoreEvent(e domain.StoreEvent, origin string) StoreEvent {
	return StoreEvent{
		Type:     string(e.Type),
		OwnerID:  e.OwnerID,
		StoreID:  e.StoreID,
		Origin:   origin,
		Occurred: e.At,
	}
}

type StepEvent struct {
	StoreID  string    `json:"store_id"`
	StepID   string    `json:"step_id"`
	Status   string    `json:"status"`
	Occurred time.Time `json:"occurred_at"`
}

func NewStepEvent(e domain.StepEvent) StepEvent {
	return StepEvent{
		StoreID:  e.StoreID,
		StepID:   string(e.StepID),
		Status:   string(e.Status),
		Occurred: e.At,
	}
}
