package handlers

import (
	"SonoCare/models"
	"SonoCare/services"
	"SonoCare/utils"
	"errors"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

type BillingHandler struct {
	service         *services.BillingService
	reminderService *services.ReminderService
}

func NewBillingHandler(service *services.BillingService, reminderService *services.ReminderService) *BillingHandler {
	return &BillingHandler{service: service, reminderService: reminderService}
}

type createBillRequest struct {
	Bill  models.Bill       `json:"bill"`
	Items []models.BillItem `json:"items"`
}

func (h *BillingHandler) CreateBill(c *gin.Context) {
	var req createBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}
	if err := h.service.CreateBill(c, &req.Bill, req.Items); err != nil {
		c.JSON(billErrorStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(201, req.Bill)
}

func (h *BillingHandler) GetBillByNumber(c *gin.Context) {
	billNumber := c.Param("bill_number")
	bill, err := h.service.GetByNumber(c, billNumber)
	if err != nil {
		c.JSON(billErrorStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(200, bill)
}

func (h *BillingHandler) GetAllBills(c *gin.Context) {
	bills, err := h.service.GetAll(c)
	if err != nil {
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}
	c.JSON(200, bills)
}

func (h *BillingHandler) GetPatientBills(c *gin.Context) {
	patientID := c.Param("patient_id")
	bills, err := h.service.GetByPatient(c, patientID)
	if err != nil {
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}
	c.JSON(200, bills)
}

func (h *BillingHandler) AddBillItem(c *gin.Context) {
	billNumber := c.Param("bill_number")
	var item models.BillItem
	if err := c.ShouldBindJSON(&item); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}
	if err := h.service.AddItem(c, billNumber, &item); err != nil {
		c.JSON(billErrorStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(201, item)
}

func (h *BillingHandler) RecordPayment(c *gin.Context) {
	billNumber := c.Param("bill_number")
	var payment models.Payment
	if err := c.ShouldBindJSON(&payment); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}
	bill, err := h.service.RecordPayment(c, billNumber, &payment)
	if err != nil {
		c.JSON(billErrorStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(201, gin.H{
		"bill":    bill,
		"payment": payment,
		"change":  payment.Change,
	})
}

func (h *BillingHandler) CancelBill(c *gin.Context) {
	billNumber := c.Param("bill_number")
	if err := h.service.CancelBill(c, billNumber); err != nil {
		c.JSON(billErrorStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(200, gin.H{"message": "Bill cancelled"})
}

func (h *BillingHandler) GetBillBalance(c *gin.Context) {
	billNumber := c.Param("bill_number")
	balance, err := h.service.Balance(c, billNumber)
	if err != nil {
		c.JSON(billErrorStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(200, gin.H{"bill_number": billNumber, "balance": balance})
}

func (h *BillingHandler) SendReminder(c *gin.Context) {
	billNumber := c.Param("bill_number")
	sent, err := h.reminderService.SendReminder(c, billNumber)
	if err != nil {
		c.JSON(billErrorStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(200, gin.H{"sent": sent})
}

func (h *BillingHandler) SendDueReminders(c *gin.Context) {
	sent, err := h.reminderService.SendDueReminders(c)
	if err != nil {
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}
	c.JSON(200, gin.H{"sent": sent})
}

// billErrorStatus maps billing errors to HTTP statuses. Conflicts with
// ledger rules come back as 409, unknown bills and patients as 404.
func billErrorStatus(err error) int {
	switch {
	case errors.Is(err, models.ErrBillNotFound),
		errors.Is(err, models.ErrPatientNotFound):
		return 404
	case errors.Is(err, models.ErrBillCancelled),
		errors.Is(err, models.ErrBillNotCancellable),
		errors.Is(err, models.ErrBillHasPayments),
		errors.Is(err, models.ErrExamAlreadyBilled):
		return 409
	case errors.Is(err, models.ErrPatientNotActive):
		return 409
	case errors.Is(err, utils.ErrAmountNotPositive),
		errors.Is(err, utils.ErrAmountNegative),
		errors.Is(err, utils.ErrUnknownMethod),
		errors.Is(err, utils.ErrReferenceRequired),
		errors.Is(err, utils.ErrNoBillItems),
		isValidationError(err):
		return 400
	default:
		return 500
	}
}

// isValidationError reports whether err is an ozzo field-error map.
// ozzo wraps rule failures in validation.Errors, which carries no
// Unwrap, so matching the sentinels above never sees through it.
func isValidationError(err error) bool {
	var ve validation.Errors
	return errors.As(err, &ve)
}
