package handlers

import (
	"net/http"

	"github.com/HovVathana/shoppink-backend/internal/service"
	"github.com/HovVathana/shoppink-backend/internal/transport/http/dto"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type VariantHandler struct {
	variants service.VariantService
	log      *zap.Logger
}

func NewVariantHandler(variants service.VariantService, log *zap.Logger) *VariantHandler {
	return &VariantHandler{variants: variants, log: log}
}

// Generate godoc
// @Summary Сгенерировать варианты из дерева опций
// @Description Идемпотентно: существующие комбинации пропускаются либо обновляются (имя/цена/путь), остатки не трогаются
// @Tags variants
// @Security BearerAuth
// @Produce json
// @Param productId path string true "ID товара"
// @Success 200 {object} service.GenerateResult
// @Failure 404 {object} dto.NotFoundErrorResponse "Товар не найден"
// @Router /api/v1/products/{productId}/variants/generate [post]
func (h *VariantHandler) Generate(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("productId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewValidationError("invalid product id", nil))
		return
	}
	res, err := h.variants.GenerateVariants(c.Request.Context(), productID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// Resolve godoc
// @Summary Разрешить вариант по выбранным опциям
// @Description Сначала точное совпадение комбинации, затем наибольшее подмножество; 404 — остаток ведётся на уровне товара
// @Tags variants
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param productId path string true "ID товара"
// @Param selection body dto.ResolveVariantRequest true "Выбранные опции"
// @Success 200 {object} dto.VariantResponse
// @Failure 404 {object} dto.NotFoundErrorResponse "Вариант не найден"
// @Router /api/v1/products/{productId}/variants/resolve [post]
func (h *VariantHandler) Resolve(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("productId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewValidationError("invalid product id", nil))
		return
	}
	var req dto.ResolveVariantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewValidationError("invalid request body", nil))
		return
	}
	v, err := h.variants.ResolveVariant(c.Request.Context(), productID, req.SelectedOptionIDs)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	if v == nil {
		c.JSON(http.StatusNotFound, dto.NewNotFoundError("no variant matches the selection"))
		return
	}
	c.JSON(http.StatusOK, dto.ToVariantResponse(v))
}

// Create godoc
// @Summary Создать вариант вручную
// @Tags variants
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param productId path string true "ID товара"
// @Param variant body dto.CreateVariantRequest true "Данные варианта"
// @Success 201 {object} dto.VariantResponse
// @Failure 409 {object} dto.ConflictErrorResponse "Комбинация уже существует"
// @Router /api/v1/products/{productId}/variants [post]
func (h *VariantHandler) Create(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("productId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewValidationError("invalid product id", nil))
		return
	}
	var req dto.CreateVariantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewValidationError("invalid request body", nil))
		return
	}

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	v, err := h.variants.CreateVariant(c.Request.Context(), productID, service.VariantInput{
		Name:                 req.Name,
		OptionIDs:            req.OptionIDs,
		Stock:                req.Stock,
		PriceAdjustmentCents: req.PriceAdjustmentCents,
		IsActive:             active,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToVariantResponse(v))
}

// List godoc
// @Summary Список вариантов товара
// @Tags variants
// @Security BearerAuth
// @Produce json
// @Param productId path string true "ID товара"
// @Success 200 {array} dto.VariantResponse
// @Failure 404 {object} dto.NotFoundErrorResponse "Товар не найден"
// @Router /api/v1/products/{productId}/variants [get]
func (h *VariantHandler) List(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("productId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewValidationError("invalid product id", nil))
		return
	}
	list, err := h.variants.ListVariants(c.Request.Context(), productID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	resp := make([]dto.VariantResponse, 0, len(list))
	for i := range list {
		resp = append(resp, dto.ToVariantResponse(&list[i]))
	}
	c.JSON(http.StatusOK, resp)
}

// UpdateStock godoc
// @Summary Установить остаток варианта
// @Tags variants
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "ID варианта"
// @Param stock body dto.UpdateVariantStockRequest true "Новый остаток"
// @Success 200 {object} dto.VariantResponse
// @Failure 400 {object} dto.ValidationErrorResponse "Остаток отрицательный"
// @Failure 404 {object} dto.NotFoundErrorResponse "Вариант не найден"
// @Router /api/v1/variants/{id}/stock [put]
func (h *VariantHandler) UpdateStock(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewValidationError("invalid variant id", nil))
		return
	}
	var req dto.UpdateVariantStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewValidationError("invalid request body", nil))
		return
	}
	v, err := h.variants.UpdateVariantStock(c.Request.Context(), id, req.Stock)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToVariantResponse(v))
}
