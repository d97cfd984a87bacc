package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/auditionai/audition-studio/models"
	"github.com/auditionai/audition-studio/utils"
)

// PackageController manages the credit package catalog. Payment processing is
// handled by an external relay, so only listing and admin CRUD live here.
type PackageController struct {
	db *gorm.DB
}

// NewPackageController creates a new controller instance.
func NewPackageController(db *gorm.DB) *PackageController {
	return &PackageController{db: db}
}

// ListActive returns purchasable packages, cheapest first.
func (p *PackageController) ListActive(ctx *gin.Context) {
	var packages []models.CreditPackage
	if err := p.db.Where("is_active = ?", true).Order("price_cents ASC").Find(&packages).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50100, "failed to load packages")
		return
	}
	utils.Success(ctx, packages)
}

// Create adds a package (admin).
func (p *PackageController) Create(ctx *gin.Context) {
	var req struct {
		Name       string `json:"name" binding:"required"`
		Diamonds   int    `json:"diamonds" binding:"required,min=1"`
		Bonus      int    `json:"bonus" binding:"min=0"`
		PriceCents int    `json:"price_cents" binding:"required,min=1"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40090, "invalid request payload")
		return
	}

	pkg := models.CreditPackage{
		Name:       req.Name,
		Diamonds:   req.Diamonds,
		Bonus:      req.Bonus,
		PriceCents: req.PriceCents,
		IsActive:   true,
	}
	if err := p.db.Create(&pkg).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50101, "failed to create package")
		return
	}
	utils.Success(ctx, pkg)
}

// Delete removes a package (admin).
func (p *PackageController) Delete(ctx *gin.Context) {
	id := ctx.Param("id")
	res := p.db.Delete(&models.CreditPackage{}, "id = ?", id)
	if res.Error != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50102, "failed to delete package")
		return
	}
	if res.RowsAffected == 0 {
		utils.Error(ctx, http.StatusNotFound, 40490, "package not found")
		return
	}
	utils.Success(ctx, gin.H{"message": "deleted"})
}
