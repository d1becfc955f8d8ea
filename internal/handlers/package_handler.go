package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/gym-manager/internal/audit"
	"github.com/BruksfildServices01/gym-manager/internal/domain/access"
	"github.com/BruksfildServices01/gym-manager/internal/httperr"
	"github.com/BruksfildServices01/gym-manager/internal/httpresp"
	"github.com/BruksfildServices01/gym-manager/internal/middleware"
	"github.com/BruksfildServices01/gym-manager/internal/models"
)

var ErrPackageInUse = httperr.BusinessError{
	Code:    "package_in_use",
	Message: "The package has member subscriptions and cannot be deleted.",
	Status:  http.StatusConflict,
}

type PackageHandler struct {
	db    *gorm.DB
	audit *audit.Dispatcher
	stats StatsInvalidator
}

func NewPackageHandler(db *gorm.DB, audit *audit.Dispatcher, stats StatsInvalidator) *PackageHandler {
	return &PackageHandler{db: db, audit: audit, stats: orNoopInvalidator(stats)}
}

// --------- Requests ---------

type CreatePackageRequest struct {
	Name         string  `json:"name" binding:"required,max=100"`
	Description  string  `json:"description" binding:"max=255"`
	Price        float64 `json:"price" binding:"gte=0"`
	DurationDays int     `json:"duration_days" binding:"omitempty,min=1"`
	PTSessions   int     `json:"pt_sessions" binding:"gte=0"`
	PackageType  string  `json:"package_type" binding:"omitempty,oneof=basic pt vip"`
	IsActive     *bool   `json:"is_active"`
}

type UpdatePackageRequest struct {
	Name         *string  `json:"name" binding:"omitempty,max=100"`
	Description  *string  `json:"description" binding:"omitempty,max=255"`
	Price        *float64 `json:"price" binding:"omitempty,gte=0"`
	DurationDays *int     `json:"duration_days" binding:"omitempty,min=1"`
	PTSessions   *int     `json:"pt_sessions" binding:"omitempty,gte=0"`
	PackageType  *string  `json:"package_type" binding:"omitempty,oneof=basic pt vip"`
	IsActive     *bool    `json:"is_active"`
}

// --------- Handlers ---------

func (h *PackageHandler) List(c *gin.Context) {
	packageType := strings.ToLower(strings.TrimSpace(c.Query("package_type")))
	activeStr := strings.TrimSpace(c.Query("is_active"))
	query := strings.ToLower(strings.TrimSpace(c.Query("query")))

	q := h.db.WithContext(c.Request.Context())

	if packageType != "" {
		q = q.Where("package_type = ?", packageType)
	}

	switch activeStr {
	case "true":
		q = q.Where("is_active = ?", true)
	case "false":
		q = q.Where("is_active = ?", false)
	}

	if query != "" {
		like := "%" + query + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}

	var packages []models.Package
	if err := q.Order("id ASC").Find(&packages).Error; err != nil {
		httperr.Respond(c, err, "failed_to_list_packages")
		return
	}

	httpresp.List(c, packages)
}

func (h *PackageHandler) Get(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	var pkg models.Package
	if err := h.db.WithContext(c.Request.Context()).First(&pkg, id).Error; err != nil {
		httperr.Respond(c, err, "failed_to_get_package")
		return
	}
	httpresp.OK(c, pkg)
}

func (h *PackageHandler) Create(c *gin.Context) {
	actor := middleware.Actor(c)
	if err := access.RequireAdmin(actor); err != nil {
		httperr.Respond(c, err, "")
		return
	}

	var req CreatePackageRequest
	if !bindJSON(c, &req) {
		return
	}

	pkg := models.Package{
		Name:         strings.TrimSpace(req.Name),
		Description:  req.Description,
		Price:        req.Price,
		DurationDays: req.DurationDays,
		PTSessions:   req.PTSessions,
		PackageType:  req.PackageType,
		IsActive:     true,
		CreatedByID:  &actor.UserID,
	}
	if pkg.DurationDays == 0 {
		pkg.DurationDays = 30
	}
	if pkg.PackageType == "" {
		pkg.PackageType = models.PackageTypeBasic
	}

	db := h.db.WithContext(c.Request.Context())
	if err := db.Create(&pkg).Error; err != nil {
		httperr.Respond(c, err, "failed_to_create_package")
		return
	}

	// is_active has a column default, so false must be written explicitly.
	if req.IsActive != nil && !*req.IsActive {
		if err := db.Model(&pkg).Update("is_active", false).Error; err != nil {
			httperr.Respond(c, err, "failed_to_create_package")
			return
		}
		pkg.IsActive = false
	}

	writeAudit(h.audit, actor, "package_created", "package", pkg.ID, gin.H{"name": pkg.Name, "price": pkg.Price})

	httpresp.Created(c, pkg)
}

func (h *PackageHandler) Update(c *gin.Context) {
	actor := middleware.Actor(c)
	if err := access.RequireAdmin(actor); err != nil {
		httperr.Respond(c, err, "")
		return
	}

	id, ok := idParam(c)
	if !ok {
		return
	}

	var req UpdatePackageRequest
	if !bindJSON(c, &req) {
		return
	}

	db := h.db.WithContext(c.Request.Context())

	var pkg models.Package
	if err := db.First(&pkg, id).Error; err != nil {
		httperr.Respond(c, err, "failed_to_get_package")
		return
	}

	if req.Name != nil {
		pkg.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		pkg.Description = *req.Description
	}
	if req.Price != nil {
		pkg.Price = *req.Price
	}
	if req.DurationDays != nil {
		pkg.DurationDays = *req.DurationDays
	}
	if req.PTSessions != nil {
		pkg.PTSessions = *req.PTSessions
	}
	if req.PackageType != nil {
		pkg.PackageType = *req.PackageType
	}
	if req.IsActive != nil {
		pkg.IsActive = *req.IsActive
	}

	if err := db.Save(&pkg).Error; err != nil {
		httperr.Respond(c, err, "failed_to_update_package")
		return
	}

	writeAudit(h.audit, actor, "package_updated", "package", pkg.ID, req)
	h.stats.Invalidate(c.Request.Context())

	httpresp.OK(c, pkg)
}

func (h *PackageHandler) Delete(c *gin.Context) {
	actor := middleware.Actor(c)
	if err := access.RequireAdmin(actor); err != nil {
		httperr.Respond(c, err, "")
		return
	}

	id, ok := idParam(c)
	if !ok {
		return
	}

	db := h.db.WithContext(c.Request.Context())

	var pkg models.Package
	if err := db.First(&pkg, id).Error; err != nil {
		httperr.Respond(c, err, "failed_to_get_package")
		return
	}

	var inUse int64
	if err := db.Model(&models.MemberPackage{}).Where("package_id = ?", pkg.ID).Count(&inUse).Error; err != nil {
		httperr.Respond(c, err, "failed_to_delete_package")
		return
	}
	if inUse > 0 {
		httperr.Respond(c, ErrPackageInUse, "")
		return
	}

	if err := db.Delete(&pkg).Error; err != nil {
		httperr.Respond(c, err, "failed_to_delete_package")
		return
	}

	writeAudit(h.audit, actor, "package_deleted", "package", pkg.ID, nil)

	c.Status(http.StatusNoContent)
}
