package handler

import (
	"fmt"
	"net/http"
	"time"

	"clinic-backoffice/internal/models"
	"clinic-backoffice/pkg/database"

	"github.com/gin-gonic/gin"
)

type ReportsHandler struct{}

// parseDateRange validates a YYYY-MM-DD range and widens the end bound to
// cover its whole day.
func parseDateRange(startStr, endStr string) (time.Time, time.Time, error) {
	start, err := time.Parse("2006-01-02", startStr)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid start_date %q, expected YYYY-MM-DD", startStr)
	}
	end, err := time.Parse("2006-01-02", endStr)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid end_date %q, expected YYYY-MM-DD", endStr)
	}
	end = end.Add(23*time.Hour + 59*time.Minute + 59*time.Second)
	return start, end, nil
}

// GetDailySummary aggregates transactions over a date range.
func (h *ReportsHandler) GetDailySummary(c *gin.Context) {
	startDateStr := c.Query("start_date")
	endDateStr := c.Query("end_date")

	var txns []models.BillingTransaction
	query := database.DB.Preload("Items").Preload("Patient").Preload("User")

	if startDateStr != "" && endDateStr != "" {
		startDate, endDate, err := parseDateRange(startDateStr, endDateStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		query = query.Where("transaction_date BETWEEN ? AND ?", startDate, endDate)
	}

	if err := query.Find(&txns).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch transactions"})
		return
	}

	var totalRevenue float64
	var totalDiscount float64
	var paidCount int
	var pendingCount int
	byMethod := map[string]float64{}

	for _, txn := range txns {
		switch txn.Status {
		case models.TxnStatusPaid:
			totalRevenue += txn.Amount
			totalDiscount += txn.SeniorDiscountAmount
			byMethod[txn.PaymentMethod] += txn.Amount
			paidCount++
		case models.TxnStatusPending:
			pendingCount++
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"summary": gin.H{
			"total_revenue":      totalRevenue,
			"total_discount":     totalDiscount,
			"paid_count":         paidCount,
			"pending_count":      pendingCount,
			"by_payment_method":  byMethod,
			"total_transactions": len(txns),
		},
		"transactions": txns,
	})
}

// GetDoctorPayments reports accrued doctor shares, grouped per doctor.
func (h *ReportsHandler) GetDoctorPayments(c *gin.Context) {
	status := c.Query("status")

	query := database.DB.Preload("Doctor")
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var payments []models.DoctorPayment
	if err := query.Order("created_at desc").Find(&payments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch doctor payments"})
		return
	}

	type DoctorTotal struct {
		DoctorID   uint    `json:"doctor_id"`
		DoctorName string  `json:"doctor_name"`
		Total      float64 `json:"total"`
		Count      int     `json:"count"`
	}
	totals := map[uint]*DoctorTotal{}
	for _, p := range payments {
		t, ok := totals[p.DoctorID]
		if !ok {
			t = &DoctorTotal{DoctorID: p.DoctorID, DoctorName: p.Doctor.Name}
			totals[p.DoctorID] = t
		}
		t.Total += p.Amount
		t.Count++
	}

	var perDoctor []DoctorTotal
	for _, t := range totals {
		perDoctor = append(perDoctor, *t)
	}

	c.JSON(http.StatusOK, gin.H{
		"per_doctor": perDoctor,
		"payments":   payments,
	})
}

// ReleaseDoctorPayment marks an accrued share as paid out to the doctor.
func (h *ReportsHandler) ReleaseDoctorPayment(c *gin.Context) {
	id := c.Param("id")

	if err := database.DB.Model(&models.DoctorPayment{}).Where("id = ?", id).
		Update("status", models.DoctorPaymentReleased).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to release payment"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Doctor payment released"})
}

// GetHMOClaims reports filed claims, grouped per provider.
func (h *ReportsHandler) GetHMOClaims(c *gin.Context) {
	status := c.Query("status")

	query := database.DB.Preload("Provider").Preload("Transaction.Patient")
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var claims []models.HMOClaim
	if err := query.Order("created_at desc").Find(&claims).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch HMO claims"})
		return
	}

	type ProviderTotal struct {
		ProviderID   uint    `json:"provider_id"`
		ProviderName string  `json:"provider_name"`
		Total        float64 `json:"total"`
		Count        int     `json:"count"`
	}
	totals := map[uint]*ProviderTotal{}
	for _, claim := range claims {
		t, ok := totals[claim.ProviderID]
		if !ok {
			t = &ProviderTotal{ProviderID: claim.ProviderID, ProviderName: claim.Provider.Name}
			totals[claim.ProviderID] = t
		}
		t.Total += claim.Amount
		t.Count++
	}

	var perProvider []ProviderTotal
	for _, t := range totals {
		perProvider = append(perProvider, *t)
	}

	c.JSON(http.StatusOK, gin.H{
		"per_provider": perProvider,
		"claims":       claims,
	})
}

// GetDashboardStats is the back-office landing view: today's money,
// appointment load, and stock alerts.
func (h *ReportsHandler) GetDashboardStats(c *gin.Context) {
	var todayRevenue float64
	var todayTransactions int64
	var todayAppointments int64
	var unbilledAppointments int64
	var lowStockCount int64
	var pendingDoctorPayments float64

	today := time.Now().Format("2006-01-02")

	database.DB.Model(&models.BillingTransaction{}).
		Where("DATE(transaction_date) = ? AND status = ?", today, models.TxnStatusPaid).
		Select("COALESCE(SUM(amount), 0)").Scan(&todayRevenue)

	database.DB.Model(&models.BillingTransaction{}).
		Where("DATE(transaction_date) = ?", today).Count(&todayTransactions)

	database.DB.Model(&models.Appointment{}).
		Where("DATE(appointment_date) = ?", today).Count(&todayAppointments)

	database.DB.Model(&models.Appointment{}).
		Where("billing_status = ?", models.BillingStatusUnbilled).Count(&unbilledAppointments)

	database.DB.Model(&models.Medicine{}).
		Where("current_stock <= low_stock_threshold AND is_active = ?", true).Count(&lowStockCount)

	database.DB.Model(&models.DoctorPayment{}).
		Where("status = ?", models.DoctorPaymentPending).
		Select("COALESCE(SUM(amount), 0)").Scan(&pendingDoctorPayments)

	// Last 7 days revenue chart
	type ChartData struct {
		Labels []string  `json:"labels"`
		Data   []float64 `json:"data"`
	}
	revenueChart := ChartData{Labels: []string{}, Data: []float64{}}
	for i := 6; i >= 0; i-- {
		date := time.Now().AddDate(0, 0, -i)
		dateStr := date.Format("2006-01-02")
		var dailySum float64
		database.DB.Model(&models.BillingTransaction{}).
			Where("DATE(transaction_date) = ? AND status = ?", dateStr, models.TxnStatusPaid).
			Select("COALESCE(SUM(amount), 0)").Scan(&dailySum)
		revenueChart.Labels = append(revenueChart.Labels, date.Format("Jan 02"))
		revenueChart.Data = append(revenueChart.Data, dailySum)
	}

	c.JSON(http.StatusOK, gin.H{
		"metrics": gin.H{
			"todayRevenue":          todayRevenue,
			"todayTransactions":     todayTransactions,
			"todayAppointments":     todayAppointments,
			"unbilledAppointments":  unbilledAppointments,
			"lowStock":              lowStockCount,
			"pendingDoctorPayments": pendingDoctorPayments,
		},
		"charts": gin.H{
			"revenue": revenueChart,
		},
	})
}
