package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	exportapp "github.com/rentals/backend/internal/application/export"
	leasingapp "github.com/rentals/backend/internal/application/leasing"
	"github.com/rentals/backend/internal/domain/shared"
)

// ContractHandler handles contract-related API endpoints
type ContractHandler struct {
	BaseHandler
	contractService *leasingapp.ContractService
	exportService   *exportapp.ContractExportService
	// notificationWindowDays is the default expiry window when the
	// request does not carry one
	notificationWindowDays int
}

// NewContractHandler creates a new ContractHandler
func NewContractHandler(
	contractService *leasingapp.ContractService,
	exportService *exportapp.ContractExportService,
	notificationWindowDays int,
) *ContractHandler {
	return &ContractHandler{
		contractService:        contractService,
		exportService:          exportService,
		notificationWindowDays: notificationWindowDays,
	}
}

// ListContractsQuery represents the query parameters for listing contracts
type ListContractsQuery struct {
	Search      string `form:"search"`
	UnitID      string `form:"unit_id" binding:"omitempty,uuid"`
	TenantID    string `form:"tenant_id" binding:"omitempty,uuid"`
	IsCancelled *bool  `form:"is_cancelled"`
	Page        int    `form:"page"`
	PageSize    int    `form:"page_size" binding:"omitempty,max=100"`
	OrderBy     string `form:"order_by"`
	OrderDir    string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ExportContractsQuery represents the query parameters for exporting contracts
type ExportContractsQuery struct {
	Format      string `form:"format" binding:"required,oneof=csv xlsx"`
	UnitID      string `form:"unit_id" binding:"omitempty,uuid"`
	TenantID    string `form:"tenant_id" binding:"omitempty,uuid"`
	IsCancelled *bool  `form:"is_cancelled"`
}

// NotifyExpiringQuery represents the query parameters for the expiry
// notification run
type NotifyExpiringQuery struct {
	WindowDays int `form:"window_days" binding:"omitempty,gt=0"`
}

// contractFilter builds a repository filter from list query parameters
func contractFilter(unitID, tenantID string, isCancelled *bool) shared.Filter {
	filter := shared.DefaultFilter()
	filter.OrderBy = ""
	if unitID != "" {
		filter.Filters["unit_id"] = unitID
	}
	if tenantID != "" {
		filter.Filters["tenant_id"] = tenantID
	}
	if isCancelled != nil {
		filter.Filters["is_cancelled"] = *isCancelled
	}
	return filter
}

// Create godoc
// @ID           createContract
// @Summary      Create a new contract
// @Description  Create a contract for a unit and tenant; overlapping active contracts on the same unit are rejected
// @Tags         contracts
// @Accept       json
// @Produce      json
// @Param        request body leasing.CreateContractRequest true "Contract creation request"
// @Success      201 {object} APIResponse[leasing.ContractResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      409 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Router       /contracts [post]
func (h *ContractHandler) Create(c *gin.Context) {
	var req leasingapp.CreateContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	contract, err := h.contractService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, contract)
}

// GetByID godoc
// @ID           getContractById
// @Summary      Get contract by ID
// @Description  Retrieve a contract by its ID
// @Tags         contracts
// @Produce      json
// @Param        id path string true "Contract ID" format(uuid)
// @Success      200 {object} APIResponse[leasing.ContractResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Router       /contracts/{id} [get]
func (h *ContractHandler) GetByID(c *gin.Context) {
	contractID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid contract ID format")
		return
	}

	contract, err := h.contractService.GetByID(c.Request.Context(), contractID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, contract)
}

// List godoc
// @ID           listContracts
// @Summary      List contracts
// @Description  Retrieve a paginated list of contracts with optional filtering
// @Tags         contracts
// @Produce      json
// @Param        search query string false "Search by unit number, tenant or agreement note"
// @Param        unit_id query string false "Unit ID" format(uuid)
// @Param        tenant_id query string false "Tenant ID" format(uuid)
// @Param        is_cancelled query bool false "Cancellation flag"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Param        order_by query string false "Order by field" default(start_date)
// @Param        order_dir query string false "Order direction" Enums(asc, desc) default(desc)
// @Success      200 {object} APIResponse[[]leasing.ContractResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Router       /contracts [get]
func (h *ContractHandler) List(c *gin.Context) {
	var query ListContractsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	filter := contractFilter(query.UnitID, query.TenantID, query.IsCancelled)
	filter.Search = query.Search
	if query.Page > 0 {
		filter.Page = query.Page
	}
	if query.PageSize > 0 {
		filter.PageSize = query.PageSize
	}
	filter.OrderBy = query.OrderBy
	filter.OrderDir = query.OrderDir

	result, err := h.contractService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// Update godoc
// @ID           updateContract
// @Summary      Update a contract
// @Description  Update contract dates, rent, or note; the overlap check excludes the contract itself
// @Tags         contracts
// @Accept       json
// @Produce      json
// @Param        id path string true "Contract ID" format(uuid)
// @Param        request body leasing.UpdateContractRequest true "Contract update request"
// @Success      200 {object} APIResponse[leasing.ContractResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      409 {object} dto.ErrorResponse
// @Failure      422 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Router       /contracts/{id} [put]
func (h *ContractHandler) Update(c *gin.Context) {
	contractID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid contract ID format")
		return
	}

	var req leasingapp.UpdateContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	contract, err := h.contractService.Update(c.Request.Context(), contractID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, contract)
}

// Cancel godoc
// @ID           cancelContract
// @Summary      Cancel a contract
// @Description  Cancel a contract and recompute the unit's status from its remaining contracts
// @Tags         contracts
// @Produce      json
// @Param        id path string true "Contract ID" format(uuid)
// @Success      200 {object} APIResponse[leasing.ContractResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      422 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Router       /contracts/{id}/cancel [post]
func (h *ContractHandler) Cancel(c *gin.Context) {
	contractID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid contract ID format")
		return
	}

	contract, err := h.contractService.Cancel(c.Request.Context(), contractID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, contract)
}

// SetUtilityReadings godoc
// @ID           setContractUtilityReadings
// @Summary      Record utility meter readings
// @Description  Record electricity and water readings; dues are current minus previous
// @Tags         contracts
// @Accept       json
// @Produce      json
// @Param        id path string true "Contract ID" format(uuid)
// @Param        request body leasing.UtilityReadingsRequest true "Meter readings"
// @Success      200 {object} APIResponse[leasing.ContractResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      422 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Router       /contracts/{id}/utility-readings [put]
func (h *ContractHandler) SetUtilityReadings(c *gin.Context) {
	contractID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid contract ID format")
		return
	}

	var req leasingapp.UtilityReadingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	contract, err := h.contractService.SetUtilityReadings(c.Request.Context(), contractID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, contract)
}

// NotifyExpiring godoc
// @ID           notifyExpiringContracts
// @Summary      Send expiry notifications
// @Description  Flag active contracts ending within the window as notified
// @Tags         contracts
// @Produce      json
// @Param        window_days query int false "Expiry window in days" default(30)
// @Success      200 {object} APIResponse[leasing.NotificationResult]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Router       /contracts/notify-expiring [post]
func (h *ContractHandler) NotifyExpiring(c *gin.Context) {
	var query NotifyExpiringQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	windowDays := query.WindowDays
	if windowDays <= 0 {
		windowDays = h.notificationWindowDays
	}

	result, err := h.contractService.SendExpiryNotifications(c.Request.Context(), windowDays)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// Export godoc
// @ID           exportContracts
// @Summary      Export contracts
// @Description  Download the contract listing as a CSV or Excel file
// @Tags         contracts
// @Produce      text/csv
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        format query string true "File format" Enums(csv, xlsx)
// @Param        unit_id query string false "Unit ID" format(uuid)
// @Param        tenant_id query string false "Tenant ID" format(uuid)
// @Param        is_cancelled query bool false "Cancellation flag"
// @Success      200 {file} file
// @Failure      400 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Router       /contracts/export [get]
func (h *ContractHandler) Export(c *gin.Context) {
	var query ExportContractsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	filter := contractFilter(query.UnitID, query.TenantID, query.IsCancelled)
	// Exports cover the full filtered set, not a page
	filter.Page = 0
	filter.PageSize = 0

	file, err := h.exportService.Export(c.Request.Context(), filter, exportapp.Format(query.Format))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Filename))
	c.Data(http.StatusOK, file.ContentType, file.Data)
}

// ListByTenant godoc
// @ID           listTenantContracts
// @Summary      List a tenant's contracts
// @Description  Retrieve all contracts held by a tenant
// @Tags         contracts
// @Produce      json
// @Param        id path string true "Tenant ID" format(uuid)
// @Success      200 {object} APIResponse[[]leasing.ContractResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Router       /tenants/{id}/contracts [get]
func (h *ContractHandler) ListByTenant(c *gin.Context) {
	tenantID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID format")
		return
	}

	filter := shared.DefaultFilter()
	filter.OrderBy = ""
	filter.Page = 0
	filter.PageSize = 0

	contracts, err := h.contractService.ListByTenant(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, contracts)
}
