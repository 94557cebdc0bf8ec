package handlers

import (
	"net/http"

	"github.com/HovVathana/shoppink-backend/internal/service"
	"github.com/HovVathana/shoppink-backend/internal/transport/http/dto"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type StockHandler struct {
	stock service.StockService
	log   *zap.Logger
}

func NewStockHandler(stock service.StockService, log *zap.Logger) *StockHandler {
	return &StockHandler{stock: stock, log: log}
}

// Tree godoc
// @Summary Иерархическое дерево остатков товара
// @Description Остатки листьев агрегируются вверх по дереву групп; total_stock = сумма корневых узлов
// @Tags stock
// @Security BearerAuth
// @Produce json
// @Param productId path string true "ID товара"
// @Success 200 {object} service.ProductStockTree
// @Failure 404 {object} dto.NotFoundErrorResponse "Товар не найден"
// @Router /api/v1/products/{productId}/stock/tree [get]
func (h *StockHandler) Tree(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("productId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewValidationError("invalid product id", nil))
		return
	}
	tree, err := h.stock.GetHierarchicalStock(c.Request.Context(), productID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, tree)
}

// Summary godoc
// @Summary Сводка остатков товара
// @Description Общий остаток, количество вариантов, списки low-stock и out-of-stock
// @Tags stock
// @Security BearerAuth
// @Produce json
// @Param productId path string true "ID товара"
// @Success 200 {object} service.StockSummary
// @Failure 404 {object} dto.NotFoundErrorResponse "Товар не найден"
// @Router /api/v1/products/{productId}/stock/summary [get]
func (h *StockHandler) Summary(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("productId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewValidationError("invalid product id", nil))
		return
	}
	sum, err := h.stock.GetStockSummary(c.Request.Context(), productID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, sum)
}
