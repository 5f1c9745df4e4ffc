package handler

import (
	"net/http"
	"time"

	"clinic-backoffice/internal/models"
	"clinic-backoffice/pkg/database"

	"github.com/gin-gonic/gin"
)

type ClinicHandler struct{}

type CreatePatientRequest struct {
	FirstName     string  `json:"first_name" binding:"required"`
	LastName      string  `json:"last_name" binding:"required"`
	Mobile        string  `json:"mobile"`
	Address       string  `json:"address"`
	BirthDate     *string `json:"birth_date"`
	SeniorCitizen bool    `json:"senior_citizen"`
	HMOProviderID *uint   `json:"hmo_provider_id"`
}

func (h *ClinicHandler) CreatePatient(c *gin.Context) {
	var req CreatePatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	patient := models.Patient{
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		Mobile:        req.Mobile,
		Address:       req.Address,
		SeniorCitizen: req.SeniorCitizen,
		HMOProviderID: req.HMOProviderID,
	}
	if req.BirthDate != nil {
		if bd, err := time.Parse("2006-01-02", *req.BirthDate); err == nil {
			patient.BirthDate = &bd
		}
	}

	if err := database.DB.Create(&patient).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create patient"})
		return
	}

	c.JSON(http.StatusCreated, patient)
}

func (h *ClinicHandler) SearchPatients(c *gin.Context) {
	query := c.Query("q")
	patients := []models.Patient{} // Initialize as empty slice
	if query == "" {
		database.DB.Limit(20).Find(&patients)
	} else {
		like := "%" + query + "%"
		database.DB.Where("first_name LIKE ? OR last_name LIKE ? OR mobile LIKE ?", like, like, like).Find(&patients)
	}
	c.JSON(http.StatusOK, patients)
}

type CreateAppointmentRequest struct {
	PatientID uint    `json:"patient_id" binding:"required"`
	DoctorID  *uint   `json:"doctor_id"`
	TypeCode  string  `json:"type_code" binding:"required"`
	Date      string  `json:"date" binding:"required"` // YYYY-MM-DD HH:MM
	Price     float64 `json:"price" binding:"required"`
	LabTests  []struct {
		LabTestID uint    `json:"lab_test_id" binding:"required"`
		UnitPrice float64 `json:"unit_price"`
	} `json:"lab_tests"`
}

func (h *ClinicHandler) CreateAppointment(c *gin.Context) {
	var req CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	date, err := time.Parse("2006-01-02 15:04", req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date, expected YYYY-MM-DD HH:MM"})
		return
	}

	tx := database.DB.Begin()

	appt := models.Appointment{
		PatientID:       req.PatientID,
		DoctorID:        req.DoctorID,
		TypeCode:        req.TypeCode,
		AppointmentDate: date,
		Price:           req.Price,
		BillingStatus:   models.BillingStatusUnbilled,
	}
	if err := tx.Create(&appt).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create appointment"})
		return
	}

	var labAmount float64
	for _, lt := range req.LabTests {
		var catalog models.LabTest
		if err := tx.First(&catalog, lt.LabTestID).Error; err != nil {
			tx.Rollback()
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown lab test"})
			return
		}
		price := lt.UnitPrice
		if price <= 0 {
			price = catalog.DefaultPrice
		}
		entry := models.AppointmentLabTest{
			AppointmentID: appt.ID,
			LabTestID:     lt.LabTestID,
			UnitPrice:     price,
		}
		if err := tx.Create(&entry).Error; err != nil {
			tx.Rollback()
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add lab test"})
			return
		}
		labAmount += price
	}

	if labAmount > 0 {
		if err := tx.Model(&appt).Update("lab_amount", labAmount).Error; err != nil {
			tx.Rollback()
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record lab amount"})
			return
		}
	}

	tx.Commit()

	c.JSON(http.StatusCreated, appt)
}

func (h *ClinicHandler) ListAppointments(c *gin.Context) {
	query := database.DB.Preload("Patient").Preload("Doctor").Preload("LabTests.LabTest").
		Order("appointment_date desc")

	if status := c.Query("billing_status"); status != "" {
		query = query.Where("billing_status = ?", status)
	}
	if dateStr := c.Query("date"); dateStr != "" {
		query = query.Where("DATE(appointment_date) = ?", dateStr)
	}
	if patientID := c.Query("patient_id"); patientID != "" {
		query = query.Where("patient_id = ?", patientID)
	}

	var appointments []models.Appointment
	if err := query.Limit(100).Find(&appointments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch appointments"})
		return
	}
	c.JSON(http.StatusOK, appointments)
}

type CreateDoctorRequest struct {
	Name      string `json:"name" binding:"required"`
	Specialty string `json:"specialty"`
}

func (h *ClinicHandler) CreateDoctor(c *gin.Context) {
	var req CreateDoctorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	doctor := models.Doctor{Name: req.Name, Specialty: req.Specialty, IsActive: true}
	if err := database.DB.Create(&doctor).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create doctor"})
		return
	}
	c.JSON(http.StatusCreated, doctor)
}

func (h *ClinicHandler) ListDoctors(c *gin.Context) {
	var doctors []models.Doctor
	if err := database.DB.Where("is_active = ?", true).Find(&doctors).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch doctors"})
		return
	}
	c.JSON(http.StatusOK, doctors)
}

func (h *ClinicHandler) ListLabTests(c *gin.Context) {
	var tests []models.LabTest
	if err := database.DB.Where("is_active = ?", true).Find(&tests).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch lab tests"})
		return
	}
	c.JSON(http.StatusOK, tests)
}
