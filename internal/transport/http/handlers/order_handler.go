package handlers

import (
	"net/http"

	"github.com/HovVathana/shoppink-backend/internal/models"
	"github.com/HovVathana/shoppink-backend/internal/service"
	"github.com/HovVathana/shoppink-backend/internal/transport/http/dto"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type OrderHandler struct {
	orders service.OrderService
	log    *zap.Logger
}

func NewOrderHandler(orders service.OrderService, log *zap.Logger) *OrderHandler {
	return &OrderHandler{orders: orders, log: log}
}

// Create godoc
// @Summary Создать заказ
// @Description Цены фиксируются на момент создания; выбранные опции резолвятся в вариант и сохраняются в строке заказа
// @Tags orders
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param order body dto.CreateOrderRequest true "Данные заказа"
// @Success 201 {object} dto.OrderResponse
// @Failure 400 {object} dto.ValidationErrorResponse "Неверные данные"
// @Failure 403 {object} dto.ForbiddenErrorResponse "Источник ADMIN требует роль ADMIN"
// @Failure 409 {object} dto.ConflictErrorResponse "Исчерпаны попытки генерации кода"
// @Router /api/v1/orders [post]
func (h *OrderHandler) Create(c *gin.Context) {
	var req dto.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewValidationError("invalid request body", nil))
		return
	}

	in := service.CreateOrderInput{Source: models.OrderSource(req.Source)}
	for _, it := range req.Items {
		in.Items = append(in.Items, service.CreateOrderItem{
			ProductID:         it.ProductID,
			Quantity:          it.Quantity,
			SelectedOptionIDs: it.SelectedOptionIDs,
		})
	}

	ord, err := h.orders.CreateOrder(c.Request.Context(), in)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToOrderResponse(ord))
}

// Get godoc
// @Summary Получить заказ по коду
// @Tags orders
// @Security BearerAuth
// @Produce json
// @Param code path string true "Код заказа (ORD-...)"
// @Success 200 {object} dto.OrderResponse
// @Failure 403 {object} dto.ForbiddenErrorResponse "Чужой заказ"
// @Failure 404 {object} dto.NotFoundErrorResponse "Заказ не найден"
// @Router /api/v1/orders/{code} [get]
func (h *OrderHandler) Get(c *gin.Context) {
	ord, err := h.orders.GetOrder(c.Request.Context(), c.Param("code"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToOrderResponse(ord))
}

// List godoc
// @Summary Список заказов
// @Description Админ видит все, водитель — назначенные ему, покупатель — свои
// @Tags orders
// @Security BearerAuth
// @Produce json
// @Param state query string false "Фильтр по состоянию"
// @Param source query string false "Фильтр по источнику"
// @Param limit query int false "Лимит (по умолчанию 20)"
// @Param offset query int false "Смещение"
// @Success 200 {object} dto.OrderListResponse
// @Router /api/v1/orders [get]
func (h *OrderHandler) List(c *gin.Context) {
	f := service.OrderListFilter{
		Limit:  atoiQuery(c, "limit"),
		Offset: atoiQuery(c, "offset"),
	}
	if v := c.Query("state"); v != "" {
		st := models.OrderState(v)
		if !st.Valid() {
			c.JSON(http.StatusBadRequest, dto.NewValidationError("unknown order state", nil))
			return
		}
		f.State = &st
	}
	if v := c.Query("source"); v != "" {
		src := models.OrderSource(v)
		f.Source = &src
	}

	items, total, err := h.orders.ListOrders(c.Request.Context(), f)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	resp := dto.OrderListResponse{Total: total, Items: make([]dto.OrderResponse, 0, len(items))}
	for i := range items {
		resp.Items = append(resp.Items, dto.ToOrderResponse(&items[i]))
	}
	c.JSON(http.StatusOK, resp)
}

// Transition godoc
// @Summary Перевести заказ в новое состояние
// @Description Вход в DELIVERING списывает остатки, вход в RETURNED возвращает; состояние и остатки меняются в одной транзакции
// @Tags orders
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param code path string true "Код заказа"
// @Param transition body dto.TransitionRequest true "Целевое состояние"
// @Success 200 {object} dto.OrderResponse
// @Failure 404 {object} dto.NotFoundErrorResponse "Заказ не найден"
// @Failure 422 {object} dto.UnprocessableErrorResponse "Недостаточно остатков"
// @Router /api/v1/orders/{code}/transition [post]
func (h *OrderHandler) Transition(c *gin.Context) {
	var req dto.TransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewValidationError("invalid request body", nil))
		return
	}
	ord, err := h.orders.ApplyStockTransition(c.Request.Context(), c.Param("code"), models.OrderState(req.State))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToOrderResponse(ord))
}

// AssignDriver godoc
// @Summary Назначить водителя на заказ
// @Description Назначение переводит заказ в DELIVERING; переназначение не трогает остатки повторно
// @Tags orders
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param code path string true "Код заказа"
// @Param assign body dto.AssignDriverRequest true "Водитель"
// @Success 200 {object} dto.OrderResponse
// @Failure 400 {object} dto.ValidationErrorResponse "Водитель неактивен"
// @Failure 404 {object} dto.NotFoundErrorResponse "Заказ или водитель не найдены"
// @Failure 422 {object} dto.UnprocessableErrorResponse "Недостаточно остатков"
// @Router /api/v1/orders/{code}/assign-driver [post]
func (h *OrderHandler) AssignDriver(c *gin.Context) {
	var req dto.AssignDriverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewValidationError("invalid request body", nil))
		return
	}
	ord, err := h.orders.AssignDriver(c.Request.Context(), c.Param("code"), req.DriverID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToOrderResponse(ord))
}

// ValidateStock godoc
// @Summary Проверить достаточность остатков по заказу
// @Description Dry-run списания: одна сводка по всем строкам без изменения данных
// @Tags orders
// @Security BearerAuth
// @Produce json
// @Param code path string true "Код заказа"
// @Success 200 {object} service.StockValidation
// @Failure 404 {object} dto.NotFoundErrorResponse "Заказ не найден"
// @Router /api/v1/orders/{code}/stock-validation [get]
func (h *OrderHandler) ValidateStock(c *gin.Context) {
	res, err := h.orders.ValidateStockForOrder(c.Request.Context(), c.Param("code"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
