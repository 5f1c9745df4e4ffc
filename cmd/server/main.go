package main

import (
	"time"

	"clinic-backoffice/config"
	"clinic-backoffice/internal/billing"
	"clinic-backoffice/internal/handler"
	"clinic-backoffice/internal/middleware"
	"clinic-backoffice/internal/models"
	"clinic-backoffice/pkg/database"
	"clinic-backoffice/pkg/logger"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	// 1. Load Configuration
	config.LoadConfig()

	log := logger.New(config.AppConfig.Server.LogLevel)

	// 2. Connect to Database
	database.Connect()

	// 3. Auto-Migrate Models
	log.Info("Running migrations...")

	err := database.DB.AutoMigrate(
		&models.Role{},
		&models.User{},
		&models.LoginHistory{},
		&models.HMOProvider{},
		&models.Patient{},
		&models.Doctor{},
		&models.LabTest{},
		&models.Appointment{},
		&models.AppointmentLabTest{},
		&models.BillingTransaction{},
		&models.BillingTransactionItem{},
		&models.AppointmentBillingLink{},
		&models.DoctorPayment{},
		&models.HMOClaim{},
		&models.MedicineCategory{},
		&models.Medicine{},
		&models.StockEntry{},
	)
	if err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
	log.Info("Migrations completed successfully.")

	// 3a. Seed Data
	database.SeedRolesAndAdmin()
	database.SeedLabCatalog()
	database.SeedHMOProviders()

	// 3b. Build the pricing policy from config plus the seeded lab catalog
	policy := billing.DefaultPolicy()
	policy.ManualConsultationPrice = config.AppConfig.Pricing.ManualConsultationPrice
	policy.SeniorDiscountRate = config.AppConfig.Pricing.SeniorDiscountPercent / 100
	policy.Tolerance = config.AppConfig.Pricing.Tolerance

	if catalog := database.LoadInferableLabCatalog(); len(catalog) > 0 {
		policy.LabCatalog = nil
		for _, t := range catalog {
			policy.LabCatalog = append(policy.LabCatalog, billing.LabCatalogEntry{
				LabTestID: t.ID,
				Code:      t.Code,
				Name:      t.Name,
				Price:     t.DefaultPrice,
			})
		}
	}

	reconciler := billing.NewReconciler(database.DB, policy, log)

	// 4. Initialize Router
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowAllOrigins:  true,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// 5. Setup Routes
	authHandler := &handler.AuthHandler{}
	authRoutes := r.Group("/api/v1/auth")
	{
		authRoutes.POST("/login", authHandler.Login)
	}

	userRoutes := r.Group("/api/v1/user")
	userRoutes.Use(middleware.AuthMiddleware())
	{
		userRoutes.PUT("/password", authHandler.ChangePassword)
	}

	adminHandler := &handler.AdminHandler{}
	adminRoutes := r.Group("/api/v1/admin")
	adminRoutes.Use(middleware.AuthMiddleware("admin"))
	{
		adminRoutes.POST("/employees", adminHandler.CreateEmployee)
		adminRoutes.GET("/employees", adminHandler.ListEmployees)
		adminRoutes.PUT("/employees/:id", adminHandler.UpdateEmployee)
		adminRoutes.PUT("/employees/:id/status", adminHandler.UpdateEmployeeStatus)
		adminRoutes.PUT("/employees/:id/password", adminHandler.ResetEmployeePassword)
		adminRoutes.GET("/login-history", adminHandler.GetLoginHistory)
	}

	clinicHandler := &handler.ClinicHandler{}
	clinicRoutes := r.Group("/api/v1/clinic")
	clinicRoutes.Use(middleware.AuthMiddleware("cashier", "manager", "admin"))
	{
		clinicRoutes.POST("/patients", clinicHandler.CreatePatient)
		clinicRoutes.GET("/patients", clinicHandler.SearchPatients)
		clinicRoutes.POST("/appointments", clinicHandler.CreateAppointment)
		clinicRoutes.GET("/appointments", clinicHandler.ListAppointments)
		clinicRoutes.POST("/doctors", clinicHandler.CreateDoctor)
		clinicRoutes.GET("/doctors", clinicHandler.ListDoctors)
		clinicRoutes.GET("/lab-tests", clinicHandler.ListLabTests)
	}

	billingHandler := &handler.BillingHandler{Reconciler: reconciler}
	billingRoutes := r.Group("/api/v1/billing")
	billingRoutes.Use(middleware.AuthMiddleware("cashier", "manager", "admin"))
	{
		billingRoutes.POST("/transactions", billingHandler.CreateTransaction)
		billingRoutes.POST("/transactions/from-appointments", billingHandler.CreateFromAppointments)
		billingRoutes.GET("/transactions", billingHandler.ListTransactions)
		billingRoutes.GET("/transactions/:id", billingHandler.ShowTransaction)
		billingRoutes.PUT("/transactions/:id/status", billingHandler.UpdateStatus)
		billingRoutes.DELETE("/transactions/:id", billingHandler.DeleteTransaction)
		billingRoutes.GET("/next-transaction-no", billingHandler.GetNextTransactionNo)
	}

	inventoryHandler := &handler.InventoryHandler{}
	r.GET("/api/v1/inventory/medicines", middleware.AuthMiddleware(), inventoryHandler.ListMedicines)
	r.GET("/api/v1/inventory/categories", middleware.AuthMiddleware(), inventoryHandler.ListCategories)

	invRoutes := r.Group("/api/v1/inventory")
	invRoutes.Use(middleware.AuthMiddleware("admin", "manager", "inventory"))
	{
		invRoutes.POST("/medicines", inventoryHandler.CreateMedicine)
		invRoutes.POST("/stock", inventoryHandler.AddStock)
		invRoutes.GET("/alerts", inventoryHandler.GetLowStockAlerts)
		invRoutes.POST("/categories", inventoryHandler.CreateCategory)
	}

	reportsHandler := &handler.ReportsHandler{}
	reportRoutes := r.Group("/api/v1/reports")
	reportRoutes.Use(middleware.AuthMiddleware("manager", "admin"))
	{
		reportRoutes.GET("/daily-summary", reportsHandler.GetDailySummary)
		reportRoutes.GET("/doctor-payments", reportsHandler.GetDoctorPayments)
		reportRoutes.PUT("/doctor-payments/:id/release", reportsHandler.ReleaseDoctorPayment)
		reportRoutes.GET("/hmo-claims", reportsHandler.GetHMOClaims)
		reportRoutes.GET("/dashboard", reportsHandler.GetDashboardStats)
	}

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	// 6. Start Server
	port := config.AppConfig.Server.Port
	log.Infof("Server starting on port %s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Failed to run server: %v", err)
	}
}
