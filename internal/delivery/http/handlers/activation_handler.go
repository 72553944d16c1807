package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/LavaJover/voltz-checkout-service/internal/delivery/http/dto/checkout/request"
	"github.com/LavaJover/voltz-checkout-service/internal/delivery/http/dto/checkout/response"
	"github.com/LavaJover/voltz-checkout-service/internal/domain"
	"github.com/LavaJover/voltz-checkout-service/internal/usecase"
)

type ActivationHandler struct {
	stores     *usecase.StoreContexts
	activation *usecase.ActivationService
}

func NewActivationHandler(stores *usecase.StoreContexts, activation *usecase.ActivationService) *ActivationHandler {
	return &ActivationHandler{stores: stores, activation: activation}
}

// tracker resolves the tracker of a store the caller owns. It writes the
// error response itself.
func (h *ActivationHandler) tracker(c *gin.Context) (*usecase.ActivationTracker, bool) {
	store, err := h.stores.For(ownerID(c)).Find(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return nil, false
	}
	return h.activation.Tracker(c.Request.Context(), store.ID), true
}

func activationResponse(t *usecase.ActivationTracker) response.ActivationResponse {
	return response.ActivationResponse{
		StoreID:      t.StoreID(),
		Steps:        t.Steps(),
		AllCompleted: t.IsAllCompleted(),
	}
}

// GET /api/v1/stores/:id/activation
func (h *ActivationHandler) Get(c *gin.Context) {
	t, ok := h.tracker(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, response.Success(activationResponse(t)))
}

// PUT /api/v1/stores/:id/activation/:step
func (h *ActivationHandler) UpdateStep(c *gin.Context) {
	var req request.UpdateStepRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	t, ok := h.tracker(c)
	if !ok {
		return
	}

	err := t.UpdateStatus(c.Request.Context(), domain.StepID(c.Param("step")), domain.StepStatus(req.Status))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(activationResponse(t)))
}

// POST /api/v1/stores/:id/activation/reset
func (h *ActivationHandler) Reset(c *gin.Context) {
	t, ok := h.tracker(c)
	if !ok {
		return
	}
	if err := t.Reset(c.Request.Context()); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(activationResponse(t)))
}

// POST /api/v1/stores/:id/activation/check
func (h *ActivationHandler) CheckAccess(c *gin.Context) {
	var req request.CheckAccessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	t, ok := h.tracker(c)
	if !ok {
		return
	}
	allowed := t.CheckAccess(c.Request.Context(), req.Action)
	c.JSON(http.StatusOK, response.Success(response.AccessResponse{Allowed: allowed}))
}
