package handlers

import (
	"errors"
	"net/http"

	"github.com/HovVathana/shoppink-backend/internal/service"
	"github.com/HovVathana/shoppink-backend/internal/transport/http/dto"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// respondError переводит сентинел-ошибки сервисного слоя в HTTP-ответы.
func respondError(c *gin.Context, log *zap.Logger, err error) {
	switch {
	case errors.Is(err, service.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, dto.NewUnauthorizedError(err.Error()))
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, dto.NewForbiddenError(err.Error()))

	case errors.Is(err, service.ErrProductNotFound),
		errors.Is(err, service.ErrGroupNotFound),
		errors.Is(err, service.ErrOptionNotFound),
		errors.Is(err, service.ErrVariantNotFound),
		errors.Is(err, service.ErrOrderNotFound),
		errors.Is(err, service.ErrDriverNotFound):
		c.JSON(http.StatusNotFound, dto.NewNotFoundError(err.Error()))

	case errors.Is(err, service.ErrDuplicateVariant),
		errors.Is(err, service.ErrVariantReferenced),
		errors.Is(err, service.ErrProductReferenced),
		errors.Is(err, service.ErrOrderCodeExhausted):
		c.JSON(http.StatusConflict, dto.NewConflictError(err.Error()))

	case errors.Is(err, service.ErrInsufficientStock):
		c.JSON(http.StatusUnprocessableEntity, dto.NewInsufficientStockError(err.Error()))

	case errors.Is(err, service.ErrNameRequired),
		errors.Is(err, service.ErrParentNotEligible),
		errors.Is(err, service.ErrGroupCycle),
		errors.Is(err, service.ErrParentOtherProduct),
		errors.Is(err, service.ErrPriceValueRequired),
		errors.Is(err, service.ErrInvalidState),
		errors.Is(err, service.ErrQuantityInvalid),
		errors.Is(err, service.ErrStockNegative),
		errors.Is(err, service.ErrEmptyItems),
		errors.Is(err, service.ErrInactiveProduct),
		errors.Is(err, service.ErrInactiveDriver):
		c.JSON(http.StatusBadRequest, dto.NewValidationError(err.Error(), nil))

	default:
		log.Error("Необработанная ошибка сервисного слоя", zap.Error(err))
		c.JSON(http.StatusInternalServerError, dto.NewInternalError(""))
	}
}
