package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/LavaJover/voltz-checkout-service/internal/delivery/http/dto/checkout/response"
	"github.com/LavaJover/voltz-checkout-service/internal/domain"
)

func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest, response.ErrCodeValidation
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, response.ErrCodeNotFound
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict, response.ErrCodeConflict
	case errors.Is(err, domain.ErrFetch):
		return http.StatusBadGateway, response.ErrCodeUpstream
	case errors.Is(err, domain.ErrRateUnavailable):
		return http.StatusUnprocessableEntity, response.ErrCodeRateUnavailable
	default:
		return http.StatusInternalServerError, response.ErrCodeInternal
	}
}

func writeError(c *gin.Context, err error) {
	status, code := statusFor(err)
	_ = c.Error(err)
	c.JSON(status, response.Error(code, err.Error()))
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, response.Error(response.ErrCodeBadRequest, err.Error()))
}
