package database

import (
	"log"

	"clinic-backoffice/config"
	"clinic-backoffice/internal/models"
	"clinic-backoffice/internal/utils"

	"gorm.io/gorm"
)

func SeedRolesAndAdmin() {
	roles := []string{"admin", "manager", "cashier", "inventory"}
	for _, r := range roles {
		var role models.Role
		if err := DB.FirstOrCreate(&role, models.Role{Name: r}).Error; err != nil {
			log.Printf("Failed to seed role %s: %v", r, err)
		}
	}

	var adminRole models.Role
	DB.Where("name = ?", "admin").First(&adminRole)

	var adminUser models.User
	if err := DB.Where("employee_id = ?", config.AppConfig.Defaults.AdminEmployeeID).First(&adminUser).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			hashedPassword, _ := utils.HashPassword(config.AppConfig.Defaults.AdminPassword)
			admin := models.User{
				EmployeeID:   config.AppConfig.Defaults.AdminEmployeeID,
				Username:     "System Admin",
				PasswordHash: hashedPassword,
				RoleID:       adminRole.ID,
				IsActive:     true,
			}
			if err := DB.Create(&admin).Error; err != nil {
				log.Printf("Failed to seed admin user: %v", err)
			} else {
				log.Println("Admin user seeded successfully.")
			}
		}
	}
}

// SeedLabCatalog loads the lab test price list. The first three rows are the
// inference set the reconciler walks when back-filling lab charges.
func SeedLabCatalog() {
	tests := []models.LabTest{
		{Code: "CBC", Name: "Complete Blood Count", DefaultPrice: 245.00, Inferable: true, InferencePriority: 1},
		{Code: "UA", Name: "Urinalysis", DefaultPrice: 140.00, Inferable: true, InferencePriority: 2},
		{Code: "FA", Name: "Fecalysis", DefaultPrice: 90.00, Inferable: true, InferencePriority: 3},
		{Code: "FBS", Name: "Fasting Blood Sugar", DefaultPrice: 180.00},
		{Code: "LIPID", Name: "Lipid Profile", DefaultPrice: 650.00},
		{Code: "XRAY", Name: "Chest X-Ray", DefaultPrice: 400.00},
	}
	for _, t := range tests {
		var existing models.LabTest
		if err := DB.Where("code = ?", t.Code).First(&existing).Error; err == gorm.ErrRecordNotFound {
			t.IsActive = true
			if err := DB.Create(&t).Error; err != nil {
				log.Printf("Failed to seed lab test %s: %v", t.Code, err)
			}
		}
	}
}

func SeedHMOProviders() {
	providers := []string{"Maxicare", "Medicard", "Intellicare", "PhilCare"}
	for _, name := range providers {
		var provider models.HMOProvider
		if err := DB.FirstOrCreate(&provider, models.HMOProvider{Name: name}).Error; err != nil {
			log.Printf("Failed to seed HMO provider %s: %v", name, err)
		}
	}
}

// LoadInferableLabCatalog reads the inference set in priority order for the
// reconciler's pricing policy.
func LoadInferableLabCatalog() []models.LabTest {
	var tests []models.LabTest
	if err := DB.Where("inferable = ? AND is_active = ?", true, true).
		Order("inference_priority asc").Find(&tests).Error; err != nil {
		log.Printf("Failed to load lab inference catalog: %v", err)
	}
	return tests
}
