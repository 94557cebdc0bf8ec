package handlers

import (
	"net/http"

	"github.com/HovVathana/shoppink-backend/internal/models"
	"github.com/HovVathana/shoppink-backend/internal/service"
	"github.com/HovVathana/shoppink-backend/internal/transport/http/dto"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CatalogHandler обслуживает дерево групп опций и сами опции.
type CatalogHandler struct {
	catalog service.CatalogService
	log     *zap.Logger
}

func NewCatalogHandler(catalog service.CatalogService, log *zap.Logger) *CatalogHandler {
	return &CatalogHandler{catalog: catalog, log: log}
}

// CreateGroup godoc
// @Summary Создать группу опций
// @Description Уровень группы выводится из родителя; parent_group_id должен указывать на группу с is_parent=true того же товара
// @Tags option-groups
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param productId path string true "ID товара"
// @Param group body dto.CreateGroupRequest true "Данные группы"
// @Success 201 {object} dto.GroupResponse
// @Failure 400 {object} dto.ValidationErrorResponse "Цикл, чужой родитель или родитель не is_parent"
// @Failure 404 {object} dto.NotFoundErrorResponse "Товар не найден"
// @Router /api/v1/products/{productId}/option-groups [post]
func (h *CatalogHandler) CreateGroup(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("productId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewValidationError("invalid product id", nil))
		return
	}
	var req dto.CreateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewValidationError("invalid request body", nil))
		return
	}

	g, err := h.catalog.CreateGroup(c.Request.Context(), productID, service.GroupInput{
		Name:          req.Name,
		SelectionType: models.SelectionType(req.SelectionType),
		ParentGroupID: req.ParentGroupID,
		IsParent:      req.IsParent,
		SortOrder:     req.SortOrder,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToGroupResponse(g))
}

// UpdateGroup godoc
// @Summary Обновить группу опций
// @Tags option-groups
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param groupId path string true "ID группы"
// @Param group body dto.UpdateGroupRequest true "Изменяемые поля"
// @Success 200 {object} dto.GroupResponse
// @Failure 400 {object} dto.ValidationErrorResponse "Цикл или неверный родитель"
// @Failure 404 {object} dto.NotFoundErrorResponse "Группа не найдена"
// @Router /api/v1/option-groups/{groupId} [patch]
func (h *CatalogHandler) UpdateGroup(c *gin.Context) {
	id, err := uuid.Parse(c.Param("groupId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewValidationError("invalid group id", nil))
		return
	}
	var req dto.UpdateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewValidationError("invalid request body", nil))
		return
	}

	patch := service.GroupPatch{
		Name:          req.Name,
		ParentGroupID: req.ParentGroupID,
		IsParent:      req.IsParent,
		SortOrder:     req.SortOrder,
	}
	if req.SelectionType != nil {
		st := models.SelectionType(*req.SelectionType)
		patch.SelectionType = &st
	}

	g, err := h.catalog.UpdateGroup(c.Request.Context(), id, patch)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToGroupResponse(g))
}

// ListGroups godoc
// @Summary Группы опций товара с опциями
// @Tags option-groups
// @Security BearerAuth
// @Produce json
// @Param productId path string true "ID товара"
// @Success 200 {array} dto.GroupResponse
// @Failure 404 {object} dto.NotFoundErrorResponse "Товар не найден"
// @Router /api/v1/products/{productId}/option-groups [get]
func (h *CatalogHandler) ListGroups(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("productId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewValidationError("invalid product id", nil))
		return
	}
	groups, err := h.catalog.ListGroups(c.Request.Context(), productID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	resp := make([]dto.GroupResponse, 0, len(groups))
	for i := range groups {
		resp = append(resp, dto.ToGroupResponse(&groups[i]))
	}
	c.JSON(http.StatusOK, resp)
}

// DeleteGroup godoc
// @Summary Каскадно удалить группу опций
// @Description Удаляет группу, все дочерние группы, их опции и затронутые варианты одной транзакцией
// @Tags option-groups
// @Security BearerAuth
// @Produce json
// @Param groupId path string true "ID группы"
// @Success 200 {object} service.GroupCascadeResult
// @Failure 404 {object} dto.NotFoundErrorResponse "Группа не найдена"
// @Failure 409 {object} dto.ConflictErrorResponse "Затронутые варианты упомянуты в заказах"
// @Router /api/v1/option-groups/{groupId} [delete]
func (h *CatalogHandler) DeleteGroup(c *gin.Context) {
	id, err := uuid.Parse(c.Param("groupId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewValidationError("invalid group id", nil))
		return
	}
	res, err := h.catalog.DeleteGroup(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// CreateOption godoc
// @Summary Создать опцию в группе
// @Tags options
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param groupId path string true "ID группы"
// @Param option body dto.CreateOptionRequest true "Данные опции"
// @Success 201 {object} dto.OptionResponse
// @Failure 400 {object} dto.ValidationErrorResponse "Для BASE/FIXED/PERCENTAGE нужен price_value"
// @Failure 404 {object} dto.NotFoundErrorResponse "Группа не найдена"
// @Router /api/v1/option-groups/{groupId}/options [post]
func (h *CatalogHandler) CreateOption(c *gin.Context) {
	groupID, err := uuid.Parse(c.Param("groupId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewValidationError("invalid group id", nil))
		return
	}
	var req dto.CreateOptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewValidationError("invalid request body", nil))
		return
	}

	available := true
	if req.IsAvailable != nil {
		available = *req.IsAvailable
	}

	o, err := h.catalog.CreateOption(c.Request.Context(), groupID, service.OptionInput{
		Name:        req.Name,
		PriceType:   models.PriceType(req.PriceType),
		PriceValue:  req.PriceValue,
		IsDefault:   req.IsDefault,
		IsAvailable: available,
		Stock:       req.Stock,
		SortOrder:   req.SortOrder,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToOptionResponse(o))
}

// UpdateOption godoc
// @Summary Обновить опцию
// @Tags options
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "ID опции"
// @Param option body dto.UpdateOptionRequest true "Изменяемые поля"
// @Success 200 {object} dto.OptionResponse
// @Failure 404 {object} dto.NotFoundErrorResponse "Опция не найдена"
// @Router /api/v1/options/{id} [patch]
func (h *CatalogHandler) UpdateOption(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewValidationError("invalid option id", nil))
		return
	}
	var req dto.UpdateOptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewValidationError("invalid request body", nil))
		return
	}

	patch := service.OptionPatch{
		Name:        req.Name,
		PriceValue:  req.PriceValue,
		IsDefault:   req.IsDefault,
		IsAvailable: req.IsAvailable,
		Stock:       req.Stock,
		SortOrder:   req.SortOrder,
	}
	if req.PriceType != nil {
		pt := models.PriceType(*req.PriceType)
		patch.PriceType = &pt
	}

	o, err := h.catalog.UpdateOption(c.Request.Context(), id, patch)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToOptionResponse(o))
}

// DeleteOption godoc
// @Summary Удалить опцию
// @Description Вместе с опцией удаляются варианты, содержащие её в комбинации
// @Tags options
// @Security BearerAuth
// @Produce json
// @Param id path string true "ID опции"
// @Success 200 {object} service.OptionCascadeResult
// @Failure 404 {object} dto.NotFoundErrorResponse "Опция не найдена"
// @Failure 409 {object} dto.ConflictErrorResponse "Затронутые варианты упомянуты в заказах"
// @Router /api/v1/options/{id} [delete]
func (h *CatalogHandler) DeleteOption(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewValidationError("invalid option id", nil))
		return
	}
	res, err := h.catalog.DeleteOption(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
