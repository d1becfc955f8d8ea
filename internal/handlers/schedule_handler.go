package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/gym-manager/internal/domain/access"
	domain "github.com/BruksfildServices01/gym-manager/internal/domain/schedule"
	"github.com/BruksfildServices01/gym-manager/internal/httperr"
	"github.com/BruksfildServices01/gym-manager/internal/httpresp"
	"github.com/BruksfildServices01/gym-manager/internal/middleware"
	"github.com/BruksfildServices01/gym-manager/internal/models"
	"github.com/BruksfildServices01/gym-manager/internal/timezone"
	ucSchedule "github.com/BruksfildServices01/gym-manager/internal/usecase/schedule"
)

// ======================================================
// HANDLER
// ======================================================

type ScheduleHandler struct {
	db   *gorm.DB
	repo domain.Repository

	createUC     *ucSchedule.CreateSchedule
	updateUC     *ucSchedule.UpdateSchedule
	transitionUC *ucSchedule.TransitionSchedule
	deleteUC     *ucSchedule.DeleteSchedule
	listMonthUC  *ucSchedule.ListSchedulesByMonth
	availUC      *ucSchedule.GetTrainerAvailability
}

func NewScheduleHandler(
	db *gorm.DB,
	repo domain.Repository,
	createUC *ucSchedule.CreateSchedule,
	updateUC *ucSchedule.UpdateSchedule,
	transitionUC *ucSchedule.TransitionSchedule,
	deleteUC *ucSchedule.DeleteSchedule,
	listMonthUC *ucSchedule.ListSchedulesByMonth,
	availUC *ucSchedule.GetTrainerAvailability,
) *ScheduleHandler {
	return &ScheduleHandler{
		db:           db,
		repo:         repo,
		createUC:     createUC,
		updateUC:     updateUC,
		transitionUC: transitionUC,
		deleteUC:     deleteUC,
		listMonthUC:  listMonthUC,
		availUC:      availUC,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateScheduleRequest struct {
	UserID          uint   `json:"user_id"`
	PTID            *uint  `json:"pt_id"`
	MemberPackageID *uint  `json:"member_package_id"`
	StartTime       string `json:"start_time" binding:"required"`
	EndTime         string `json:"end_time" binding:"required"`
	Note            string `json:"note" binding:"max=255"`
}

type UpdateScheduleRequest struct {
	UserID          *uint   `json:"user_id"`
	PTID            *uint   `json:"pt_id"`
	MemberPackageID *uint   `json:"member_package_id"`
	StartTime       *string `json:"start_time"`
	EndTime         *string `json:"end_time"`
	Status          *string `json:"status"`
	Note            *string `json:"note" binding:"omitempty,max=255"`
}

// ======================================================
// LIST
// ======================================================

func (h *ScheduleHandler) List(c *gin.Context) {
	actor := middleware.Actor(c)

	q := h.db.WithContext(c.Request.Context()).Model(&models.Schedule{})
	q = access.Scope(q, actor, "user_id", "pt_id")

	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}
	if dateStr := c.Query("date"); dateStr != "" {
		day, err := parseDateInGym(dateStr)
		if err != nil {
			invalidTime(c, "date")
			return
		}
		q = q.Where("start_time >= ? AND start_time < ?", day, day.AddDate(0, 0, 1))
	}

	var schedules []models.Schedule
	if err := q.
		Preload("User").
		Preload("PT").
		Order("start_time DESC").
		Find(&schedules).Error; err != nil {
		httperr.Respond(c, err, "failed_to_list_schedules")
		return
	}

	httpresp.List(c, schedules)
}

// ListByMonth returns the caller's schedules for ?year=&month= (defaults to now).
func (h *ScheduleHandler) ListByMonth(c *gin.Context) {
	now := timezone.Now()

	year, err := strconv.Atoi(c.DefaultQuery("year", strconv.Itoa(now.Year())))
	if err != nil || year < 1970 {
		httperr.BadRequest(c, "invalid_year", "Invalid year.")
		return
	}

	month, err := strconv.Atoi(c.DefaultQuery("month", strconv.Itoa(int(now.Month()))))
	if err != nil || month < 1 || month > 12 {
		httperr.BadRequest(c, "invalid_month", "Invalid month.")
		return
	}

	items, err := h.listMonthUC.Execute(c.Request.Context(), middleware.Actor(c), year, month)
	if err != nil {
		httperr.Respond(c, err, "failed_to_list_schedules")
		return
	}

	httpresp.List(c, items)
}

// TrainerAvailability lists free slots of trainer :id on ?date= (default today).
func (h *ScheduleHandler) TrainerAvailability(c *gin.Context) {
	trainerID, ok := idParam(c)
	if !ok {
		return
	}

	day := timezone.StartOfDay(timezone.Now())
	if dateStr := c.Query("date"); dateStr != "" {
		d, err := parseDateInGym(dateStr)
		if err != nil {
			invalidTime(c, "date")
			return
		}
		day = d
	}

	minutes, err := strconv.Atoi(c.DefaultQuery("slot_minutes", "60"))
	if err != nil || minutes < 15 || minutes > 240 {
		httperr.BadRequest(c, "invalid_slot_minutes", "slot_minutes must be between 15 and 240.")
		return
	}

	slots, err := h.availUC.Execute(c.Request.Context(), trainerID, day, time.Duration(minutes)*time.Minute)
	if err != nil {
		httperr.Respond(c, err, "failed_to_get_availability")
		return
	}

	httpresp.List(c, slots)
}

func (h *ScheduleHandler) Get(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	s, err := h.repo.GetScheduleForActor(c.Request.Context(), id, middleware.Actor(c))
	if err != nil {
		httperr.Respond(c, err, "failed_to_get_schedule")
		return
	}

	httpresp.OK(c, s)
}

// ======================================================
// CREATE
// ======================================================

func (h *ScheduleHandler) Create(c *gin.Context) {
	var req CreateScheduleRequest
	if !bindJSON(c, &req) {
		return
	}

	start, err := parseTimestamp(req.StartTime)
	if err != nil {
		invalidTime(c, "start_time")
		return
	}
	end, err := parseTimestamp(req.EndTime)
	if err != nil {
		invalidTime(c, "end_time")
		return
	}

	s, err := h.createUC.Execute(c.Request.Context(), ucSchedule.CreateScheduleInput{
		Actor:           middleware.Actor(c),
		UserID:          req.UserID,
		PTID:            req.PTID,
		MemberPackageID: req.MemberPackageID,
		StartTime:       start,
		EndTime:         end,
		Note:            req.Note,
	})
	if err != nil {
		httperr.Respond(c, err, "failed_to_create_schedule")
		return
	}

	httpresp.Created(c, s)
}

// ======================================================
// UPDATE (PUT / PATCH)
// ======================================================

func (h *ScheduleHandler) Update(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	var req UpdateScheduleRequest
	if !bindJSON(c, &req) {
		return
	}

	in := ucSchedule.UpdateScheduleInput{
		Actor:           middleware.Actor(c),
		ID:              id,
		UserID:          req.UserID,
		PTID:            req.PTID,
		MemberPackageID: req.MemberPackageID,
		Status:          req.Status,
		Note:            req.Note,
	}

	if req.StartTime != nil {
		t, err := parseTimestamp(*req.StartTime)
		if err != nil {
			invalidTime(c, "start_time")
			return
		}
		in.StartTime = &t
	}
	if req.EndTime != nil {
		t, err := parseTimestamp(*req.EndTime)
		if err != nil {
			invalidTime(c, "end_time")
			return
		}
		in.EndTime = &t
	}

	s, err := h.updateUC.Execute(c.Request.Context(), in)
	if err != nil {
		httperr.Respond(c, err, "failed_to_update_schedule")
		return
	}

	httpresp.OK(c, s)
}

// ======================================================
// STATUS SHORTCUTS
// ======================================================

// Transition returns the handler for one of approve, reject, complete or cancel.
func (h *ScheduleHandler) Transition(action domain.Action) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c)
		if !ok {
			return
		}

		s, err := h.transitionUC.Execute(c.Request.Context(), middleware.Actor(c), id, action)
		if err != nil {
			httperr.Respond(c, err, "failed_to_"+string(action)+"_schedule")
			return
		}

		httpresp.OK(c, s)
	}
}

// ======================================================
// DELETE
// ======================================================

func (h *ScheduleHandler) Delete(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	if err := h.deleteUC.Execute(c.Request.Context(), middleware.Actor(c), id); err != nil {
		httperr.Respond(c, err, "failed_to_delete_schedule")
		return
	}

	c.Status(http.StatusNoContent)
}
