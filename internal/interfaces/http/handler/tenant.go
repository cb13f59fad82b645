package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	tenancyapp "github.com/rentals/backend/internal/application/tenancy"
	"github.com/rentals/backend/internal/domain/shared"
)

// TenantHandler handles tenant-related API endpoints
type TenantHandler struct {
	BaseHandler
	tenantService *tenancyapp.TenantService
}

// NewTenantHandler creates a new TenantHandler
func NewTenantHandler(tenantService *tenancyapp.TenantService) *TenantHandler {
	return &TenantHandler{
		tenantService: tenantService,
	}
}

// ListTenantsQuery represents the query parameters for listing tenants
type ListTenantsQuery struct {
	Search   string `form:"search"`
	Type     string `form:"type" binding:"omitempty,oneof=individual company"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size" binding:"omitempty,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// Create godoc
// @ID           createTenant
// @Summary      Register a new tenant
// @Description  Register an individual or company tenant; company fields are required for companies
// @Tags         tenants
// @Accept       json
// @Produce      json
// @Param        request body tenancy.CreateTenantRequest true "Tenant creation request"
// @Success      201 {object} APIResponse[tenancy.TenantResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      409 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Router       /tenants [post]
func (h *TenantHandler) Create(c *gin.Context) {
	var req tenancyapp.CreateTenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	tenant, err := h.tenantService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, tenant)
}

// GetByID godoc
// @ID           getTenantById
// @Summary      Get tenant by ID
// @Description  Retrieve a tenant by its ID
// @Tags         tenants
// @Produce      json
// @Param        id path string true "Tenant ID" format(uuid)
// @Success      200 {object} APIResponse[tenancy.TenantResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Router       /tenants/{id} [get]
func (h *TenantHandler) GetByID(c *gin.Context) {
	tenantID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID format")
		return
	}

	tenant, err := h.tenantService.GetByID(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, tenant)
}

// List godoc
// @ID           listTenants
// @Summary      List tenants
// @Description  Retrieve a paginated list of tenants with optional filtering
// @Tags         tenants
// @Produce      json
// @Param        search query string false "Search term (username, email, phone, company name)"
// @Param        type query string false "Tenant type" Enums(individual, company)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Param        order_by query string false "Order by field" default(username)
// @Param        order_dir query string false "Order direction" Enums(asc, desc) default(asc)
// @Success      200 {object} APIResponse[[]tenancy.TenantResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Router       /tenants [get]
func (h *TenantHandler) List(c *gin.Context) {
	var query ListTenantsQuery
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
	if query.Type != "" {
		filter.Filters["type"] = query.Type
	}

	result, err := h.tenantService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// Update godoc
// @ID           updateTenant
// @Summary      Update a tenant
// @Description  Update an existing tenant's details
// @Tags         tenants
// @Accept       json
// @Produce      json
// @Param        id path string true "Tenant ID" format(uuid)
// @Param        request body tenancy.UpdateTenantRequest true "Tenant update request"
// @Success      200 {object} APIResponse[tenancy.TenantResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      409 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Router       /tenants/{id} [put]
func (h *TenantHandler) Update(c *gin.Context) {
	tenantID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID format")
		return
	}

	var req tenancyapp.UpdateTenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	tenant, err := h.tenantService.Update(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, tenant)
}

// Delete godoc
// @ID           deleteTenant
// @Summary      Delete a tenant
// @Description  Delete a tenant that has no contracts
// @Tags         tenants
// @Produce      json
// @Param        id path string true "Tenant ID" format(uuid)
// @Success      204
// @Failure      400 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      409 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Router       /tenants/{id} [delete]
func (h *TenantHandler) Delete(c *gin.Context) {
	tenantID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID format")
		return
	}

	if err := h.tenantService.Delete(c.Request.Context(), tenantID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}
