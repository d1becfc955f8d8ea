package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/gym-manager/internal/audit"
	"github.com/BruksfildServices01/gym-manager/internal/domain/access"
	"github.com/BruksfildServices01/gym-manager/internal/httperr"
	"github.com/BruksfildServices01/gym-manager/internal/httpresp"
	"github.com/BruksfildServices01/gym-manager/internal/middleware"
	"github.com/BruksfildServices01/gym-manager/internal/models"
	"github.com/BruksfildServices01/gym-manager/internal/payments"
	"github.com/BruksfildServices01/gym-manager/internal/timezone"
)

var ErrPaymentNotPending = httperr.ErrRule("payment_not_pending", "Only pending payments can be paid online.")

// ======================================================
// HANDLER
// ======================================================

type PaymentHandler struct {
	db       *gorm.DB
	gateway  payments.Gateway
	audit    *audit.Dispatcher
	notifier Notifier
}

func NewPaymentHandler(
	db *gorm.DB,
	gateway payments.Gateway,
	audit *audit.Dispatcher,
	notifier Notifier,
) *PaymentHandler {
	if gateway == nil {
		gateway = payments.Disabled{}
	}
	return &PaymentHandler{
		db:       db,
		gateway:  gateway,
		audit:    audit,
		notifier: orNoopNotifier(notifier),
	}
}

// ======================================================
// REQUESTS
// ======================================================

// CreatePaymentRequest fields other than member_package_id and method are
// honoured for admins only.
type CreatePaymentRequest struct {
	MemberPackageID uint     `json:"member_package_id" binding:"required"`
	Amount          *float64 `json:"amount" binding:"omitempty,gte=0"`
	Method          string   `json:"method" binding:"omitempty,oneof=cash card transfer online"`
	Status          string   `json:"status" binding:"omitempty,oneof=pending completed failed refunded"`
	PaymentDate     string   `json:"payment_date"`
	TransactionRef  string   `json:"transaction_ref" binding:"max=100"`
}

type UpdatePaymentRequest struct {
	Amount         *float64 `json:"amount" binding:"omitempty,gte=0"`
	Method         *string  `json:"method" binding:"omitempty,oneof=cash card transfer online"`
	Status         *string  `json:"status" binding:"omitempty,oneof=pending completed failed refunded"`
	PaymentDate    *string  `json:"payment_date"`
	TransactionRef *string  `json:"transaction_ref" binding:"omitempty,max=100"`
}

func (h *PaymentHandler) scoped(c *gin.Context) *gorm.DB {
	q := h.db.WithContext(c.Request.Context()).Model(&models.Payment{})
	return access.ScopePayments(q, middleware.Actor(c))
}

// ======================================================
// READ
// ======================================================

func (h *PaymentHandler) List(c *gin.Context) {
	q := h.scoped(c)
	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}
	if method := c.Query("method"); method != "" {
		q = q.Where("method = ?", method)
	}

	var items []models.Payment
	if err := q.
		Preload("MemberPackage.Package").
		Order("payment_date DESC, id DESC").
		Find(&items).Error; err != nil {
		httperr.Respond(c, err, "failed_to_list_payments")
		return
	}
	httpresp.List(c, items)
}

func (h *PaymentHandler) Get(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	var p models.Payment
	if err := h.scoped(c).Preload("MemberPackage.Package").First(&p, id).Error; err != nil {
		httperr.Respond(c, err, "failed_to_get_payment")
		return
	}
	httpresp.OK(c, p)
}

// ======================================================
// CREATE
// ======================================================

func (h *PaymentHandler) Create(c *gin.Context) {
	actor := middleware.Actor(c)
	ctx := c.Request.Context()

	var req CreatePaymentRequest
	if !bindJSON(c, &req) {
		return
	}

	db := h.db.WithContext(ctx)

	var mp models.MemberPackage
	q := access.ScopeOwner(db.Model(&models.MemberPackage{}), actor, "user_id")
	if err := q.Preload("Package").First(&mp, req.MemberPackageID).Error; err != nil {
		httperr.Respond(c, err, "failed_to_get_member_package")
		return
	}

	p := models.Payment{
		MemberPackageID: mp.ID,
		Amount:          mp.Package.Price,
		Method:          models.PaymentMethodCash,
		PaymentDate:     timezone.Now(),
		Status:          models.PaymentPending,
	}
	if req.Method != "" {
		p.Method = req.Method
	}

	if actor.IsAdmin {
		if req.Amount != nil {
			p.Amount = *req.Amount
		}
		if req.Status != "" {
			p.Status = req.Status
		}
		if req.PaymentDate != "" {
			t, err := parseTimestamp(req.PaymentDate)
			if err != nil {
				invalidTime(c, "payment_date")
				return
			}
			p.PaymentDate = t
		}
		p.TransactionRef = req.TransactionRef
	}

	if err := db.Omit("MemberPackage").Create(&p).Error; err != nil {
		httperr.Respond(c, err, "failed_to_create_payment")
		return
	}
	p.MemberPackage = mp

	writeAudit(h.audit, actor, "payment_created", "payment", p.ID, gin.H{
		"amount": p.Amount,
		"method": p.Method,
		"status": p.Status,
	})
	if p.Status == models.PaymentCompleted {
		h.notifyCompleted(c, &p)
	}

	httpresp.Created(c, p)
}

// ======================================================
// UPDATE / DELETE (ADMIN)
// ======================================================

func (h *PaymentHandler) Update(c *gin.Context) {
	actor := middleware.Actor(c)
	if err := access.RequireAdmin(actor); err != nil {
		httperr.Respond(c, err, "")
		return
	}

	id, ok := idParam(c)
	if !ok {
		return
	}

	var req UpdatePaymentRequest
	if !bindJSON(c, &req) {
		return
	}

	db := h.db.WithContext(c.Request.Context())

	var p models.Payment
	if err := db.Preload("MemberPackage.Package").First(&p, id).Error; err != nil {
		httperr.Respond(c, err, "failed_to_get_payment")
		return
	}
	previous := p.Status

	if req.Amount != nil {
		p.Amount = *req.Amount
	}
	if req.Method != nil {
		p.Method = *req.Method
	}
	if req.Status != nil {
		p.Status = *req.Status
	}
	if req.TransactionRef != nil {
		p.TransactionRef = *req.TransactionRef
	}
	if req.PaymentDate != nil {
		t, err := parseTimestamp(*req.PaymentDate)
		if err != nil {
			invalidTime(c, "payment_date")
			return
		}
		p.PaymentDate = t
	}

	if err := db.Omit("MemberPackage").Save(&p).Error; err != nil {
		httperr.Respond(c, err, "failed_to_update_payment")
		return
	}

	writeAudit(h.audit, actor, "payment_updated", "payment", p.ID, req)
	if previous != models.PaymentCompleted && p.Status == models.PaymentCompleted {
		h.notifyCompleted(c, &p)
	}

	httpresp.OK(c, p)
}

func (h *PaymentHandler) Delete(c *gin.Context) {
	actor := middleware.Actor(c)
	if err := access.RequireAdmin(actor); err != nil {
		httperr.Respond(c, err, "")
		return
	}

	id, ok := idParam(c)
	if !ok {
		return
	}

	res := h.db.WithContext(c.Request.Context()).Delete(&models.Payment{}, id)
	if res.Error != nil {
		httperr.Respond(c, res.Error, "failed_to_delete_payment")
		return
	}
	if res.RowsAffected == 0 {
		httperr.Respond(c, gorm.ErrRecordNotFound, "")
		return
	}

	writeAudit(h.audit, actor, "payment_deleted", "payment", id, nil)

	c.Status(http.StatusNoContent)
}

// ======================================================
// CHECKOUT
// ======================================================

// Checkout opens a hosted online payment for a pending payment.
func (h *PaymentHandler) Checkout(c *gin.Context) {
	actor := middleware.Actor(c)
	ctx := c.Request.Context()

	id, ok := idParam(c)
	if !ok {
		return
	}

	var p models.Payment
	if err := h.scoped(c).Preload("MemberPackage.Package").First(&p, id).Error; err != nil {
		httperr.Respond(c, err, "failed_to_get_payment")
		return
	}

	if p.Status != models.PaymentPending {
		httperr.Respond(c, ErrPaymentNotPending, "")
		return
	}

	checkout, err := h.gateway.CreateCheckout(ctx, payments.CheckoutRequest{
		PaymentID: p.ID,
		Title:     p.MemberPackage.Package.Name,
		Amount:    p.Amount,
	})
	if err != nil {
		httperr.Respond(c, err, "checkout_failed")
		return
	}

	p.Method = models.PaymentMethodOnline
	p.TransactionRef = checkout.Reference
	p.CheckoutURL = checkout.URL

	if err := h.db.WithContext(ctx).Model(&p).Updates(map[string]any{
		"method":          p.Method,
		"transaction_ref": p.TransactionRef,
		"checkout_url":    p.CheckoutURL,
	}).Error; err != nil {
		httperr.Respond(c, err, "checkout_failed")
		return
	}

	writeAudit(h.audit, actor, "payment_checkout_created", "payment", p.ID, gin.H{"reference": checkout.Reference})

	httpresp.OK(c, p)
}

func (h *PaymentHandler) notifyCompleted(c *gin.Context, p *models.Payment) {
	h.notifier.NotifyQuietly(c.Request.Context(), p.MemberPackage.UserID, models.NotificationPayment,
		"Payment received",
		fmt.Sprintf("We received your payment of %.2f for %s.", p.Amount, p.MemberPackage.Package.Name),
	)
}
