package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/LavaJover/voltz-checkout-service/internal/delivery/http/dto/checkout/response"
	"github.com/LavaJover/voltz-checkout-service/internal/domain"
	"github.com/LavaJover/voltz-checkout-service/internal/usecase"
	storedto "github.com/LavaJover/voltz-checkout-service/internal/usecase/dto/store"
)

type StoreHandler struct {
	stores *usecase.StoreContexts
}

func NewStoreHandler(stores *usecase.StoreContexts) *StoreHandler {
	return &StoreHandler{stores: stores}
}

func listResponse(sc *usecase.StoreContext, stale bool) response.StoreListResponse {
	resp := response.StoreListResponse{
		Stores: storedto.ToStoreOutputs(sc.Stores()),
		Stale:  stale,
	}
	if current := sc.Current(); current != nil {
		resp.CurrentID = current.ID
	}
	return resp
}

// List reloads the owner's stores. A failed reload still answers with the
// last known list, flagged as stale.
// GET /api/v1/stores
func (h *StoreHandler) List(c *gin.Context) {
	sc := h.stores.For(ownerID(c))
	if _, err := sc.EnsureDemo(c.Request.Context()); err != nil && !errors.Is(err, domain.ErrFetch) {
		writeError(c, err)
		return
	}

	_, err := sc.List(c.Request.Context())
	if err != nil {
		if len(sc.Stores()) == 0 {
			writeError(c, err)
			return
		}
		_ = c.Error(err)
		c.JSON(http.StatusOK, response.Success(listResponse(sc, true)))
		return
	}
	c.JSON(http.StatusOK, response.Success(listResponse(sc, false)))
}

// POST /api/v1/stores
func (h *StoreHandler) Create(c *gin.Context) {
	var req storedto.CreateStoreInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	store, err := h.stores.For(ownerID(c)).Create(c.Request.Context(), req.Name)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(storedto.ToStoreOutput(store)))
}

// PATCH /api/v1/stores/:id
func (h *StoreHandler) Update(c *gin.Context) {
	var req storedto.UpdateStoreInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	sc := h.stores.For(ownerID(c))
	existing, err := sc.Find(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	store, err := sc.Update(c.Request.Context(), existing.ID, req.ToPatch(existing.Settings))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(storedto.ToStoreOutput(store)))
}

// DELETE /api/v1/stores/:id
func (h *StoreHandler) Delete(c *gin.Context) {
	sc := h.stores.For(ownerID(c))
	if err := sc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(listResponse(sc, false)))
}

// GET /api/v1/stores/current
func (h *StoreHandler) Current(c *gin.Context) {
	sc := h.stores.For(ownerID(c))
	if len(sc.Stores()) == 0 {
		if _, err := sc.List(c.Request.Context()); err != nil {
			writeError(c, err)
			return
		}
	}

	current := sc.Current()
	if current == nil {
		c.JSON(http.StatusNotFound, response.Error(response.ErrCodeNotFound, "no store selected"))
		return
	}
	c.JSON(http.StatusOK, response.Success(storedto.ToStoreOutput(current)))
}

// PUT /api/v1/stores/current
func (h *StoreHandler) SetCurrent(c *gin.Context) {
	var req storedto.SelectStoreInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	store, err := h.stores.For(ownerID(c)).SetCurrent(c.Request.Context(), req.ID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(storedto.ToStoreOutput(store)))
}
