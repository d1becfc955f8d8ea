package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/gym-manager/internal/httperr"
)

const (
	defaultPageSize = 50
	maxPageSize     = 200
)

// idParam reads the :id path parameter and writes a 400 when it is not a positive integer.
func idParam(c *gin.Context) (uint, bool) {
	return uintParam(c, "id")
}

func uintParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		httperr.BadRequest(c, "invalid_id", "Invalid identifier.")
		return 0, false
	}
	return uint(id), true
}

func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return false
	}
	return true
}

func invalidTime(c *gin.Context, field string) {
	httperr.BadRequest(c, "invalid_"+field, "Invalid date or time for "+field+".")
}
