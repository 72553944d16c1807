package domain

import "time"

type StepID string

const (
	StepBilling  StepID = "billing"
	StepDomain   StepID = "domain"
	StepGateway  StepID = "gateway"
	StepShipping StepID = "shipping"
)

func (id StepID) IsValid() bool {
	switch id {
	case StepBilling, StepDomain, StepGateway, StepShipping:
		return true
	}
	return false
}

type StepStatus string

const (
	StepPending    StepStatus = "pending"
	StepInProgress StepStatus = "in_progress"
	StepCompleted  StepStatus = "completed"
)

func (s StepStatus) IsValid() bool {
	switch s {
	case StepPending, StepInProgress, StepCompleted:
		return true
	}
	return false
}

type ActivationStep struct {
	ID     StepID     `json:"id"`
	Title  string     `json:"title"`
	Status StepStatus `json:"status"`
	Order  int        `json:"order"`
}

// DefaultActivationSteps returns a fresh all-pending checklist.
func DefaultActivationSteps() []ActivationStep {
	return []ActivationStep{
		{ID: StepBilling, Title: "Faturamento", Status: StepPending, Order: 1},
		{ID: StepDomain, Title: "Domínio", Status: StepPending, Order: 2},
		{ID: StepGateway, Title: "Gateway", Status: StepPending, Order: 3},
		{ID: StepShipping, Title: "Frete", Status: StepPending, Order: 4},
	}
}

type StepEvent struct {
	StoreID string
	StepID  StepID
	Status  StepStatus
	At      time.Time
}
