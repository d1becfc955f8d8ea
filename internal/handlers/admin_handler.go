package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/gym-manager/internal/admin"
	"github.com/BruksfildServices01/gym-manager/internal/httperr"
	"github.com/BruksfildServices01/gym-manager/internal/httpresp"
	"github.com/BruksfildServices01/gym-manager/internal/middleware"
	ucStats "github.com/BruksfildServices01/gym-manager/internal/usecase/stats"
)

// query parameters that are never treated as list filters
var reservedListParams = map[string]bool{
	"q": true, "search": true, "page": true, "limit": true,
	"year": true, "month": true, "day": true, "ordering": true,
}

// ======================================================
// HANDLER
// ======================================================

type AdminHandler struct {
	db       *gorm.DB
	gymStats *ucStats.GetGymStats
}

func NewAdminHandler(db *gorm.DB, gymStats *ucStats.GetGymStats) *AdminHandler {
	return &AdminHandler{db: db, gymStats: gymStats}
}

// Resources describes every admin changelist.
func (h *AdminHandler) Resources(c *gin.Context) {
	httpresp.List(c, admin.All())
}

// ListResource serves one changelist with search, filters, date drill-down and paging.
func (h *AdminHandler) ListResource(c *gin.Context) {
	page, limit, offset := httpresp.Pagination(c, defaultPageSize, maxPageSize)

	search := c.Query("q")
	if search == "" {
		search = c.Query("search")
	}

	filters := map[string]string{}
	for key, values := range c.Request.URL.Query() {
		if reservedListParams[key] || len(values) == 0 {
			continue
		}
		filters[key] = values[0]
	}

	year, _ := strconv.Atoi(c.Query("year"))
	month, _ := strconv.Atoi(c.Query("month"))
	day, _ := strconv.Atoi(c.Query("day"))

	res, err := admin.List(c.Request.Context(), h.db, middleware.Actor(c), c.Param("name"), admin.ListParams{
		Search:   search,
		Filters:  filters,
		Year:     year,
		Month:    month,
		Day:      day,
		Ordering: c.Query("ordering"),
		Limit:    limit,
		Offset:   offset,
	})
	if err != nil {
		httperr.Respond(c, err, "admin_list_failed")
		return
	}

	c.JSON(200, gin.H{
		"page":  page,
		"limit": limit,
		"total": res.Total,
		"data":  res.Data,
	})
}

// GymStats returns the dashboard figures; ?refresh=true skips the cache.
func (h *AdminHandler) GymStats(c *gin.Context) {
	fresh, _ := strconv.ParseBool(c.DefaultQuery("refresh", "false"))

	s, err := h.gymStats.Execute(c.Request.Context(), fresh)
	if err != nil {
		httperr.Respond(c, err, "gym_stats_failed")
		return
	}

	httpresp.OK(c, s)
}
