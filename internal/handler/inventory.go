package handler

import (
	"net/http"

	"clinic-backoffice/internal/models"
	"clinic-backoffice/pkg/database"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type InventoryHandler struct{}

func (h *InventoryHandler) ListMedicines(c *gin.Context) {
	var medicines []models.Medicine
	if err := database.DB.Preload("Category").Where("is_active = ?", true).Find(&medicines).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch medicines"})
		return
	}
	c.JSON(http.StatusOK, medicines)
}

type CreateMedicineRequest struct {
	Name              string  `json:"name" binding:"required"`
	CategoryID        *uint   `json:"category_id"`
	Description       string  `json:"description"`
	UnitPrice         float64 `json:"unit_price" binding:"required"`
	LowStockThreshold int     `json:"low_stock_threshold"`
	OpeningStock      int     `json:"opening_stock"`
}

func (h *InventoryHandler) CreateMedicine(c *gin.Context) {
	var req CreateMedicineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := c.GetUint("userID")

	tx := database.DB.Begin()

	medicine := models.Medicine{
		Name:              req.Name,
		CategoryID:        req.CategoryID,
		Description:       req.Description,
		UnitPrice:         req.UnitPrice,
		LowStockThreshold: req.LowStockThreshold,
		CurrentStock:      req.OpeningStock,
		IsActive:          true,
	}

	if err := tx.Create(&medicine).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create medicine"})
		return
	}

	if req.OpeningStock > 0 {
		entry := models.StockEntry{
			MedicineID:    medicine.ID,
			QuantityAdded: req.OpeningStock,
			AddedBy:       userID,
		}
		if err := tx.Create(&entry).Error; err != nil {
			tx.Rollback()
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to log opening stock"})
			return
		}
	}

	tx.Commit()

	c.JSON(http.StatusCreated, medicine)
}

type AddStockRequest struct {
	MedicineID int `json:"medicine_id" binding:"required"`
	Quantity   int `json:"quantity" binding:"required"`
}

func (h *InventoryHandler) AddStock(c *gin.Context) {
	var req AddStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := c.GetUint("userID")

	tx := database.DB.Begin()

	if err := tx.Model(&models.Medicine{}).Where("id = ?", req.MedicineID).
		Update("current_stock", gorm.Expr("current_stock + ?", req.Quantity)).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update stock"})
		return
	}

	entry := models.StockEntry{
		MedicineID:    uint(req.MedicineID),
		QuantityAdded: req.Quantity,
		AddedBy:       userID,
	}

	if err := tx.Create(&entry).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to log stock entry"})
		return
	}

	tx.Commit()
	c.JSON(http.StatusOK, gin.H{"message": "Stock added successfully"})
}

func (h *InventoryHandler) GetLowStockAlerts(c *gin.Context) {
	var medicines []models.Medicine
	if err := database.DB.Preload("Category").
		Where("current_stock <= low_stock_threshold AND is_active = ?", true).
		Find(&medicines).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch alerts"})
		return
	}
	c.JSON(http.StatusOK, medicines)
}

type CreateCategoryRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

func (h *InventoryHandler) CreateCategory(c *gin.Context) {
	var req CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	category := models.MedicineCategory{
		Name:        req.Name,
		Description: req.Description,
	}

	if err := database.DB.Create(&category).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create category"})
		return
	}

	c.JSON(http.StatusCreated, category)
}

func (h *InventoryHandler) ListCategories(c *gin.Context) {
	var categories []models.MedicineCategory
	if err := database.DB.Find(&categories).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch categories"})
		return
	}
	c.JSON(http.StatusOK, categories)
}
