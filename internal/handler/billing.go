package handler

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"clinic-backoffice/config"
	"clinic-backoffice/internal/billing"
	"clinic-backoffice/internal/models"
	"clinic-backoffice/pkg/database"

	"github.com/gin-gonic/gin"
)

type BillingHandler struct {
	Reconciler *billing.Reconciler
}

// Helper to generate transaction number: TXN-YYYYMMDD-SEQ
func generateTransactionNo() string {
	prefix := config.AppConfig.Defaults.TransactionPrefix
	dateStr := time.Now().Format("20060102")

	var lastTxn models.BillingTransaction
	database.DB.Order("id desc").First(&lastTxn)

	newID := lastTxn.ID + 1 // Simple increment strategy for now
	return fmt.Sprintf("%s-%s-%05d", prefix, dateStr, newID)
}

type TransactionItemRequest struct {
	ItemType   string  `json:"item_type" binding:"required"`
	Name       string  `json:"name" binding:"required"`
	Quantity   int     `json:"quantity" binding:"required"`
	UnitPrice  float64 `json:"unit_price" binding:"required"`
	TotalPrice float64 `json:"total_price" binding:"required"`
	LabTestID  *uint   `json:"lab_test_id"`
}

type CreateTransactionRequest struct {
	PatientID     uint                     `json:"patient_id" binding:"required"`
	DoctorID      *uint                    `json:"doctor_id"`
	AppointmentID *uint                    `json:"appointment_id"`
	Amount        float64                  `json:"amount" binding:"required"`
	PaymentMethod string                   `json:"payment_method" binding:"required"`
	SeniorCitizen bool                     `json:"senior_citizen"`
	Items         []TransactionItemRequest `json:"items"`
}

// CreateTransaction records a payment, manually entered or tied to an
// appointment. Line items are optional; reconciliation afterwards fills in or
// repairs whatever the cashier did not itemize.
func (h *BillingHandler) CreateTransaction(c *gin.Context) {
	var req CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := c.GetUint("userID")
	txnNo := generateTransactionNo()

	tx := database.DB.Begin()

	txn := models.BillingTransaction{
		TransactionNo:   txnNo,
		TransactionDate: time.Now(),
		PatientID:       req.PatientID,
		DoctorID:        req.DoctorID,
		AppointmentID:   req.AppointmentID,
		UserID:          userID,
		Amount:          req.Amount,
		PaymentMethod:   req.PaymentMethod,
		Status:          models.TxnStatusPending,
		SeniorCitizen:   req.SeniorCitizen,
	}

	if err := tx.Create(&txn).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create transaction"})
		return
	}

	for _, itemReq := range req.Items {
		item := models.BillingTransactionItem{
			TransactionID: txn.ID,
			ItemType:      itemReq.ItemType,
			Name:          itemReq.Name,
			Quantity:      itemReq.Quantity,
			UnitPrice:     itemReq.UnitPrice,
			TotalPrice:    itemReq.TotalPrice,
			LabTestID:     itemReq.LabTestID,
		}
		if err := tx.Create(&item).Error; err != nil {
			tx.Rollback()
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add transaction item"})
			return
		}
	}

	if req.AppointmentID != nil {
		if err := tx.Model(&models.Appointment{}).Where("id = ?", *req.AppointmentID).
			Update("billing_status", models.BillingStatusInTransaction).Error; err != nil {
			tx.Rollback()
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to claim appointment for billing"})
			return
		}
	}

	tx.Commit()

	reconciled, err := h.Reconciler.Reconcile(txn.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Transaction created but reconciliation failed"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":        "Transaction created successfully",
		"transaction_no": txnNo,
		"transaction":    reconciled,
	})
}

// claimedAppointment returns the first appointment some billing flow already
// owns. IN_TRANSACTION counts: a pending transaction holds the appointment
// until it is paid or deleted, and billing it twice would double-charge.
func claimedAppointment(appointments []models.Appointment) *models.Appointment {
	for i := range appointments {
		if appointments[i].BillingStatus != models.BillingStatusUnbilled {
			return &appointments[i]
		}
	}
	return nil
}

type FromAppointmentsRequest struct {
	PatientID      uint   `json:"patient_id" binding:"required"`
	AppointmentIDs []uint `json:"appointment_ids" binding:"required"`
	PaymentMethod  string `json:"payment_method" binding:"required"`
	SeniorCitizen  bool   `json:"senior_citizen"`
}

// CreateFromAppointments bills a batch of appointments as one transaction:
// the amount is the sum of the appointment prices, links are created up
// front, and the appointments are claimed so no other flow picks them up.
func (h *BillingHandler) CreateFromAppointments(c *gin.Context) {
	var req FromAppointmentsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(req.AppointmentIDs) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "At least one appointment is required"})
		return
	}

	userID := c.GetUint("userID")
	txnNo := generateTransactionNo()

	tx := database.DB.Begin()

	var appointments []models.Appointment
	if err := tx.Where("id IN ? AND patient_id = ?", req.AppointmentIDs, req.PatientID).
		Find(&appointments).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load appointments"})
		return
	}
	if len(appointments) != len(req.AppointmentIDs) {
		tx.Rollback()
		c.JSON(http.StatusBadRequest, gin.H{"error": "One or more appointments not found for this patient"})
		return
	}

	if claimed := claimedAppointment(appointments); claimed != nil {
		tx.Rollback()
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Appointment %d is already billed or in another transaction", claimed.ID)})
		return
	}

	var amount float64
	var doctorID *uint
	for _, appt := range appointments {
		amount += appt.Price
		if doctorID == nil && appt.DoctorID != nil {
			doctorID = appt.DoctorID
		}
	}

	txn := models.BillingTransaction{
		TransactionNo:   txnNo,
		TransactionDate: time.Now(),
		PatientID:       req.PatientID,
		DoctorID:        doctorID,
		UserID:          userID,
		Amount:          amount,
		PaymentMethod:   req.PaymentMethod,
		Status:          models.TxnStatusPending,
		SeniorCitizen:   req.SeniorCitizen,
	}
	if err := tx.Create(&txn).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create transaction"})
		return
	}

	for _, appt := range appointments {
		link := models.AppointmentBillingLink{
			AppointmentID: appt.ID,
			TransactionID: txn.ID,
			TypeCode:      appt.TypeCode,
			Price:         appt.Price,
			Status:        models.LinkStatusPending,
		}
		if err := tx.Create(&link).Error; err != nil {
			tx.Rollback()
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to link appointment"})
			return
		}
		if err := tx.Model(&models.Appointment{}).Where("id = ?", appt.ID).
			Update("billing_status", models.BillingStatusInTransaction).Error; err != nil {
			tx.Rollback()
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to claim appointment for billing"})
			return
		}
	}

	tx.Commit()

	reconciled, err := h.Reconciler.Reconcile(txn.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Transaction created but reconciliation failed"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":        "Transaction created successfully",
		"transaction_no": txnNo,
		"transaction":    reconciled,
	})
}

func (h *BillingHandler) ListTransactions(c *gin.Context) {
	page := 1
	limit := 10

	if c.Query("page") != "" {
		fmt.Sscanf(c.Query("page"), "%d", &page)
	}
	if c.Query("limit") != "" {
		fmt.Sscanf(c.Query("limit"), "%d", &limit)
	}

	offset := (page - 1) * limit

	var txns []models.BillingTransaction
	var total int64

	query := database.DB.Model(&models.BillingTransaction{})
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	query.Count(&total)

	if err := query.Preload("Patient").Preload("Doctor").Preload("User").Preload("Items").
		Order("transaction_date desc, id desc").Limit(limit).Offset(offset).Find(&txns).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch transactions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":  txns,
		"total": total,
		"page":  page,
		"limit": limit,
	})
}

// ShowTransaction reconciles before returning, so the item set the cashier
// sees always accounts for the recorded amount.
func (h *BillingHandler) ShowTransaction(c *gin.Context) {
	var id uint
	if _, err := fmt.Sscanf(c.Param("id"), "%d", &id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid transaction id"})
		return
	}

	txn, err := h.Reconciler.Reconcile(id)
	if err != nil {
		if errors.Is(err, billing.ErrTransactionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Transaction not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reconcile transaction"})
		return
	}

	c.JSON(http.StatusOK, txn)
}

type UpdateStatusRequest struct {
	Status      string `json:"status" binding:"required"`
	HMOProvider string `json:"hmo_provider"`
}

// UpdateStatus moves a transaction through its lifecycle. Marking it paid
// accrues the doctor's payment and, for HMO-paid transactions, files a claim.
func (h *BillingHandler) UpdateStatus(c *gin.Context) {
	id := c.Param("id")
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	switch req.Status {
	case models.TxnStatusPaid, models.TxnStatusCancelled, models.TxnStatusRefunded:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
		return
	}

	var txn models.BillingTransaction
	if err := database.DB.Preload("Patient.HMOProvider").First(&txn, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Transaction not found"})
		return
	}

	if err := database.DB.Model(&txn).Update("status", req.Status).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update status"})
		return
	}

	if req.Status == models.TxnStatusPaid {
		if err := syncDoctorPayment(&txn); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Status updated but doctor payment sync failed"})
			return
		}
		if txn.PaymentMethod == models.PaymentHMO {
			if err := fileHMOClaim(&txn, req.HMOProvider); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Status updated but HMO claim filing failed"})
				return
			}
		}
		database.DB.Model(&models.AppointmentBillingLink{}).Where("transaction_id = ?", txn.ID).
			Update("status", models.LinkStatusBilled)
	}

	c.JSON(http.StatusOK, gin.H{"message": "Transaction status updated"})
}

// DeleteTransaction removes a transaction that never settled. Paid and
// refunded transactions are permanent records.
func (h *BillingHandler) DeleteTransaction(c *gin.Context) {
	id := c.Param("id")

	var txn models.BillingTransaction
	if err := database.DB.First(&txn, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Transaction not found"})
		return
	}

	if txn.Status != models.TxnStatusPending && txn.Status != models.TxnStatusCancelled {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Only pending or cancelled transactions can be deleted"})
		return
	}

	tx := database.DB.Begin()
	if err := tx.Where("transaction_id = ?", txn.ID).Delete(&models.BillingTransactionItem{}).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete transaction items"})
		return
	}
	if err := tx.Where("transaction_id = ?", txn.ID).Delete(&models.AppointmentBillingLink{}).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete appointment links"})
		return
	}
	if err := tx.Delete(&txn).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete transaction"})
		return
	}
	tx.Commit()

	c.JSON(http.StatusOK, gin.H{"message": "Transaction deleted"})
}

func (h *BillingHandler) GetNextTransactionNo(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"next_transaction_no": generateTransactionNo()})
}
