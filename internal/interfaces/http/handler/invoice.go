package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	billingapp "github.com/rentals/backend/internal/application/billing"
	"github.com/rentals/backend/internal/domain/shared"
)

// InvoiceHandler handles invoice and payment API endpoints
type InvoiceHandler struct {
	BaseHandler
	invoiceService *billingapp.InvoiceService
}

// NewInvoiceHandler creates a new InvoiceHandler
func NewInvoiceHandler(invoiceService *billingapp.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{
		invoiceService: invoiceService,
	}
}

// ListInvoicesQuery represents the query parameters for listing invoices
type ListInvoicesQuery struct {
	ContractID string `form:"contract_id" binding:"omitempty,uuid"`
	Status     string `form:"status" binding:"omitempty,oneof=pending paid overdue"`
	Page       int    `form:"page"`
	PageSize   int    `form:"page_size" binding:"omitempty,max=100"`
	OrderBy    string `form:"order_by"`
	OrderDir   string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// GetByID godoc
// @ID           getInvoiceById
// @Summary      Get invoice by ID
// @Description  Retrieve an invoice with its payments and remaining balance
// @Tags         invoices
// @Produce      json
// @Param        id path string true "Invoice ID" format(uuid)
// @Success      200 {object} APIResponse[billing.InvoiceResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Router       /invoices/{id} [get]
func (h *InvoiceHandler) GetByID(c *gin.Context) {
	invoiceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid invoice ID format")
		return
	}

	invoice, err := h.invoiceService.GetByID(c.Request.Context(), invoiceID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, invoice)
}

// List godoc
// @ID           listInvoices
// @Summary      List invoices
// @Description  Retrieve a paginated list of invoices with optional filtering
// @Tags         invoices
// @Produce      json
// @Param        contract_id query string false "Contract ID" format(uuid)
// @Param        status query string false "Invoice status" Enums(pending, paid, overdue)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Param        order_by query string false "Order by field" default(invoice_date)
// @Param        order_dir query string false "Order direction" Enums(asc, desc) default(asc)
// @Success      200 {object} APIResponse[[]billing.InvoiceResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Router       /invoices [get]
func (h *InvoiceHandler) List(c *gin.Context) {
	var query ListInvoicesQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	filter := shared.DefaultFilter()
	filter.OrderBy = query.OrderBy
	filter.OrderDir = query.OrderDir
	if query.Page > 0 {
		filter.Page = query.Page
	}
	if query.PageSize > 0 {
		filter.PageSize = query.PageSize
	}
	if query.ContractID != "" {
		filter.Filters["contract_id"] = query.ContractID
	}
	if query.Status != "" {
		filter.Filters["status"] = query.Status
	}

	result, err := h.invoiceService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// ListPaymentsQuery represents the query parameters for listing payments
type ListPaymentsQuery struct {
	InvoiceID string `form:"invoice_id" binding:"omitempty,uuid"`
	Method    string `form:"method" binding:"omitempty,oneof=cash credit_card bank_transfer cheque"`
	Page      int    `form:"page"`
	PageSize  int    `form:"page_size" binding:"omitempty,max=100"`
}

// ListPayments godoc
// @ID           listPayments
// @Summary      List payments
// @Description  Retrieve a paginated list of payments across all invoices, newest first
// @Tags         payments
// @Produce      json
// @Param        invoice_id query string false "Invoice ID" format(uuid)
// @Param        method query string false "Payment method" Enums(cash, credit_card, bank_transfer, cheque)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Success      200 {object} APIResponse[[]billing.PaymentResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Router       /payments [get]
func (h *InvoiceHandler) ListPayments(c *gin.Context) {
	var query ListPaymentsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	filter := shared.DefaultFilter()
	filter.OrderBy = ""
	if query.Page > 0 {
		filter.Page = query.Page
	}
	if query.PageSize > 0 {
		filter.PageSize = query.PageSize
	}
	if query.InvoiceID != "" {
		filter.Filters["invoice_id"] = query.InvoiceID
	}
	if query.Method != "" {
		filter.Filters["method"] = query.Method
	}

	result, err := h.invoiceService.ListPayments(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// ListByContract godoc
// @ID           listContractInvoices
// @Summary      List a contract's invoices
// @Description  Retrieve all invoices of a contract ordered by invoice date
// @Tags         invoices
// @Produce      json
// @Param        id path string true "Contract ID" format(uuid)
// @Success      200 {object} APIResponse[[]billing.InvoiceResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Router       /contracts/{id}/invoices [get]
func (h *InvoiceHandler) ListByContract(c *gin.Context) {
	contractID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid contract ID format")
		return
	}

	invoices, err := h.invoiceService.ListByContract(c.Request.Context(), contractID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, invoices)
}

// GenerateForContract godoc
// @ID           generateContractInvoices
// @Summary      Generate missing invoices for a contract
// @Description  Create one invoice per billing period of the contract term that does not have one yet
// @Tags         invoices
// @Produce      json
// @Param        id path string true "Contract ID" format(uuid)
// @Success      200 {object} APIResponse[billing.GenerationResult]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      422 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Router       /contracts/{id}/invoices/generate [post]
func (h *InvoiceHandler) GenerateForContract(c *gin.Context) {
	contractID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid contract ID format")
		return
	}

	result, err := h.invoiceService.GenerateForContract(c.Request.Context(), contractID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// RecordPayment godoc
// @ID           recordInvoicePayment
// @Summary      Record a payment against an invoice
// @Description  Apply a partial or full payment; overpaying the remaining balance is rejected
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        id path string true "Invoice ID" format(uuid)
// @Param        request body billing.RecordPaymentRequest true "Payment details"
// @Success      200 {object} APIResponse[billing.InvoiceResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      422 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Router       /invoices/{id}/payments [post]
func (h *InvoiceHandler) RecordPayment(c *gin.Context) {
	invoiceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid invoice ID format")
		return
	}

	var req billingapp.RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	invoice, err := h.invoiceService.RecordPayment(c.Request.Context(), invoiceID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, invoice)
}

// PayFull godoc
// @ID           payInvoiceInFull
// @Summary      Settle an invoice in full
// @Description  Record a single payment for the invoice's remaining balance
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        id path string true "Invoice ID" format(uuid)
// @Param        request body billing.PayFullRequest true "Payment details"
// @Success      200 {object} APIResponse[billing.InvoiceResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      422 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Router       /invoices/{id}/pay-full [post]
func (h *InvoiceHandler) PayFull(c *gin.Context) {
	invoiceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid invoice ID format")
		return
	}

	var req billingapp.PayFullRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	invoice, err := h.invoiceService.PayFull(c.Request.Context(), invoiceID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, invoice)
}

// RefreshOverdue godoc
// @ID           refreshOverdueInvoices
// @Summary      Refresh overdue invoice statuses
// @Description  Mark unpaid invoices past their due date as overdue
// @Tags         invoices
// @Produce      json
// @Success      200 {object} APIResponse[CountData]
// @Failure      500 {object} dto.ErrorResponse
// @Router       /invoices/refresh-overdue [post]
func (h *InvoiceHandler) RefreshOverdue(c *gin.Context) {
	count, err := h.invoiceService.RefreshOverdue(c.Request.Context())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, CountData{Count: int64(count)})
}
