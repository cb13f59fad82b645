package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	propertyapp "github.com/rentals/backend/internal/application/property"
	"github.com/rentals/backend/internal/domain/shared"
)

// UnitHandler handles unit-related API endpoints
type UnitHandler struct {
	BaseHandler
	unitService *propertyapp.UnitService
}

// NewUnitHandler creates a new UnitHandler
func NewUnitHandler(unitService *propertyapp.UnitService) *UnitHandler {
	return &UnitHandler{
		unitService: unitService,
	}
}

// ListUnitsQuery represents the query parameters for listing units
type ListUnitsQuery struct {
	Search   string `form:"search"`
	Status   string `form:"status" binding:"omitempty,oneof=available occupied maintenance"`
	Type     string `form:"type" binding:"omitempty,oneof=apartment office shop"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size" binding:"omitempty,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// Create godoc
// @ID           createUnit
// @Summary      Register a new unit
// @Description  Register a new rental unit; new units start as available
// @Tags         units
// @Accept       json
// @Produce      json
// @Param        request body property.CreateUnitRequest true "Unit creation request"
// @Success      201 {object} APIResponse[property.UnitResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      409 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Router       /units [post]
func (h *UnitHandler) Create(c *gin.Context) {
	var req propertyapp.CreateUnitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	unit, err := h.unitService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, unit)
}

// GetByID godoc
// @ID           getUnitById
// @Summary      Get unit by ID
// @Description  Retrieve a unit by its ID
// @Tags         units
// @Produce      json
// @Param        id path string true "Unit ID" format(uuid)
// @Success      200 {object} APIResponse[property.UnitResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Router       /units/{id} [get]
func (h *UnitHandler) GetByID(c *gin.Context) {
	unitID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid unit ID format")
		return
	}

	unit, err := h.unitService.GetByID(c.Request.Context(), unitID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, unit)
}

// GetByNumber godoc
// @ID           getUnitByNumber
// @Summary      Get unit by number
// @Description  Retrieve a unit by its unique number
// @Tags         units
// @Produce      json
// @Param        number path string true "Unit number"
// @Success      200 {object} APIResponse[property.UnitResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Router       /units/number/{number} [get]
func (h *UnitHandler) GetByNumber(c *gin.Context) {
	number := c.Param("number")
	if number == "" {
		h.BadRequest(c, "Unit number is required")
		return
	}

	unit, err := h.unitService.GetByNumber(c.Request.Context(), number)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, unit)
}

// List godoc
// @ID           listUnits
// @Summary      List units
// @Description  Retrieve a paginated list of units with optional filtering
// @Tags         units
// @Produce      json
// @Param        search query string false "Search term (number, description)"
// @Param        status query string false "Unit status" Enums(available, occupied, maintenance)
// @Param        type query string false "Unit type" Enums(apartment, office, shop)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Param        order_by query string false "Order by field" default(number)
// @Param        order_dir query string false "Order direction" Enums(asc, desc) default(asc)
// @Success      200 {object} APIResponse[[]property.UnitResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Router       /units [get]
func (h *UnitHandler) List(c *gin.Context) {
	var query ListUnitsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	filter := shared.DefaultFilter()
	filter.Search = query.Search
	if query.Page > 0 {
		filter.Page = query.Page
	}
	if query.PageSize > 0 {
		filter.PageSize = query.PageSize
	}
	filter.OrderBy = query.OrderBy
	filter.OrderDir = query.OrderDir
	if query.Status != "" {
		filter.Filters["status"] = query.Status
	}
	if query.Type != "" {
		filter.Filters["type"] = query.Type
	}

	result, err := h.unitService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// Update godoc
// @ID           updateUnit
// @Summary      Update a unit
// @Description  Update an existing unit's details; status is derived and cannot be set directly
// @Tags         units
// @Accept       json
// @Produce      json
// @Param        id path string true "Unit ID" format(uuid)
// @Param        request body property.UpdateUnitRequest true "Unit update request"
// @Success      200 {object} APIResponse[property.UnitResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      409 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Router       /units/{id} [put]
func (h *UnitHandler) Update(c *gin.Context) {
	unitID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid unit ID format")
		return
	}

	var req propertyapp.UpdateUnitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	unit, err := h.unitService.Update(c.Request.Context(), unitID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, unit)
}

// SetMaintenance godoc
// @ID           setUnitMaintenance
// @Summary      Put a unit under maintenance
// @Description  Flag a unit as under maintenance; occupancy still wins over the flag
// @Tags         units
// @Produce      json
// @Param        id path string true "Unit ID" format(uuid)
// @Success      200 {object} APIResponse[property.UnitResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      422 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Router       /units/{id}/maintenance [post]
func (h *UnitHandler) SetMaintenance(c *gin.Context) {
	unitID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid unit ID format")
		return
	}

	unit, err := h.unitService.SetMaintenance(c.Request.Context(), unitID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, unit)
}

// ClearMaintenance godoc
// @ID           clearUnitMaintenance
// @Summary      Clear a unit's maintenance flag
// @Description  Clear the maintenance flag and recompute the unit's status
// @Tags         units
// @Produce      json
// @Param        id path string true "Unit ID" format(uuid)
// @Success      200 {object} APIResponse[property.UnitResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Router       /units/{id}/maintenance [delete]
func (h *UnitHandler) ClearMaintenance(c *gin.Context) {
	unitID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid unit ID format")
		return
	}

	unit, err := h.unitService.ClearMaintenance(c.Request.Context(), unitID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, unit)
}

// Delete godoc
// @ID           deleteUnit
// @Summary      Delete a unit
// @Description  Delete a unit that has no contracts
// @Tags         units
// @Produce      json
// @Param        id path string true "Unit ID" format(uuid)
// @Success      204
// @Failure      400 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      409 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Router       /units/{id} [delete]
func (h *UnitHandler) Delete(c *gin.Context) {
	unitID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid unit ID format")
		return
	}

	if err := h.unitService.Delete(c.Request.Context(), unitID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}
