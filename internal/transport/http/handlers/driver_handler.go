package handlers

import (
	"net/http"

	"github.com/HovVathana/shoppink-backend/internal/service"
	"github.com/HovVathana/shoppink-backend/internal/transport/http/dto"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type DriverHandler struct {
	drivers service.DriverService
	log     *zap.Logger
}

func NewDriverHandler(drivers service.DriverService, log *zap.Logger) *DriverHandler {
	return &DriverHandler{drivers: drivers, log: log}
}

// Create godoc
// @Summary Добавить водителя
// @Tags drivers
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param driver body dto.CreateDriverRequest true "Данные водителя"
// @Success 201 {object} dto.DriverResponse
// @Failure 403 {object} dto.ForbiddenErrorResponse "Нужна роль ADMIN"
// @Router /api/v1/drivers [post]
func (h *DriverHandler) Create(c *gin.Context) {
	var req dto.CreateDriverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewValidationError("invalid request body", nil))
		return
	}
	d, err := h.drivers.CreateDriver(c.Request.Context(), service.DriverInput{
		Name:     req.Name,
		Phone:    req.Phone,
		IsActive: req.IsActive,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToDriverResponse(d))
}

// Update godoc
// @Summary Обновить водителя
// @Tags drivers
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "ID водителя"
// @Param driver body dto.UpdateDriverRequest true "Изменяемые поля"
// @Success 200 {object} dto.DriverResponse
// @Failure 404 {object} dto.NotFoundErrorResponse "Водитель не найден"
// @Router /api/v1/drivers/{id} [patch]
func (h *DriverHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewValidationError("invalid driver id", nil))
		return
	}
	var req dto.UpdateDriverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewValidationError("invalid request body", nil))
		return
	}
	d, err := h.drivers.UpdateDriver(c.Request.Context(), id, service.DriverPatch{
		Name:     req.Name,
		Phone:    req.Phone,
		IsActive: req.IsActive,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToDriverResponse(d))
}

// Get godoc
// @Summary Получить водителя
// @Tags drivers
// @Security BearerAuth
// @Produce json
// @Param id path string true "ID водителя"
// @Success 200 {object} dto.DriverResponse
// @Failure 404 {object} dto.NotFoundErrorResponse "Водитель не найден"
// @Router /api/v1/drivers/{id} [get]
func (h *DriverHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewValidationError("invalid driver id", nil))
		return
	}
	d, err := h.drivers.GetDriver(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToDriverResponse(d))
}

// List godoc
// @Summary Список водителей
// @Tags drivers
// @Security BearerAuth
// @Produce json
// @Param only_active query bool false "Только активные"
// @Success 200 {array} dto.DriverResponse
// @Router /api/v1/drivers [get]
func (h *DriverHandler) List(c *gin.Context) {
	var onlyActive *bool
	if v, ok := c.GetQuery("only_active"); ok {
		b := v == "true" || v == "1"
		onlyActive = &b
	}
	list, err := h.drivers.ListDrivers(c.Request.Context(), onlyActive)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	resp := make([]dto.DriverResponse, 0, len(list))
	for i := range list {
		resp = append(resp, dto.ToDriverResponse(&list[i]))
	}
	c.JSON(http.StatusOK, resp)
}
