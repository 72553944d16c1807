package storedto

import (
	"time"

	"github.com/LavaJover/voltz-checkout-service/internal/domain"
)

// ToPatch builds a StorePatch. Dashboard toggles are merged into the
// store's current settings because settings are written as one document.
func (in UpdateStoreInput) ToPatch(current domain.StoreSettings) domain.StorePatch {
	patch := domain.StorePatch{
		Name:        in.Name,
		Description: in.Description,
		Domain:      in.Domain,
		LogoURL:     in.LogoURL,
		CycleLimit:  in.CycleLimit,
	}
	if in.Status != nil {
		status := domain.StoreStatus(*in.Status)
		patch.Status = &status
	}
	if in.PlanType != nil {
		plan := domain.PlanType(*in.PlanType)
		patch.PlanType = &plan
	}
	if in.Dashboard != nil {
		settings := current
		settings.Dashboard = *in.Dashboard
		patch.Settings = &settings
	}
	return patch
}

func ToStoreOutput(s *domain.Store) StoreOutput {
	return StoreOutput{
		ID:                  s.ID,
		Name:                s.Name,
		Description:         s.Description,
		Domain:              s.Domain,
		LogoURL:             s.LogoURL,
		Status:              string(s.Status),
		PlanType:            string(s.PlanType),
		CycleLimit:          s.CycleLimit,
		CurrentCycleRevenue: s.CurrentCycleRevenue,
		TotalRevenue:        s.TotalRevenue,
		IsDemo:              s.IsDemo(),
		Steps:               s.Settings.Steps,
		Dashboard:           s.Settings.Dashboard,
		CreatedAt:           s.CreatedAt.Format(time.RFC3339),
		UpdatedAt:           s.UpdatedAt.Format(time.RFC3339),
	}
}

func ToStoreOutputs(stores []*domain.Store) []StoreOutput {
	out := make([]StoreOutput, 0, len(stores))
	for _, s := range stores {
		out = append(out, ToStoreOutput(s))
	}
	return out
}
