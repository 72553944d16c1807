package storedto

import "github.com/LavaJover/voltz-checkout-service/internal/domain"

type CreateStoreInput struct {
	Name string `json:"name" binding:"required"`
}

// UpdateStoreInput carries a partial update. Absent JSON fields stay nil and
// leave the stored value untouched.
type UpdateStoreInput struct {
	Name        *string                   `json:"name"`
	Description *string                   `json:"description"`
	Domain      *string                   `json:"domain"`
	LogoURL     *string                   `json:"logo_url"`
	Status      *string                   `json:"status"`
	PlanType    *string                   `json:"plan_type"`
	CycleLimit  *float64                  `json:"cycle_limit"`
	Dashboard   *domain.DashboardSettings `json:"dashboard"`
}

type SelectStoreInput struct {
	ID string `json:"id" binding:"required"`
}

type StoreOutput struct {
	ID                  string                   `json:"id"`
	Name                string                   `json:"name"`
	Description         string                   `json:"description"`
	Domain              string                   `json:"domain"`
	LogoURL             string                   `json:"logo_url"`
	Status              string                   `json:"status"`
	PlanType            string                   `json:"plan_type"`
	CycleLimit          float64                  `json:"cycle_limit"`
	CurrentCycleRevenue float64                  `json:"current_cycle_revenue"`
	TotalRevenue        float64                  `json:"total_revenue"`
	IsDemo              bool                     `json:"is_demo"`
	Steps               domain.StepCompletion    `json:"steps"`
	Dashboard           domain.DashboardSettings `json:"dashboard"`
	CreatedAt           string                   `json:"created_at"`
	UpdatedAt           string                   `json:"updated_at"`
}
