package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/cityops-io/cityops-ce/internal/service"
)

// listNotifications returns inbox entries filtered by the query string
// @Summary List notifications
// @Tags notifications
// @Param search query string false "Free text over title and message"
// @Param type query string false "alert, warning, info, system or all"
// @Param priority query string false "low, medium, high or all"
// @Param read query string false "true, false or all"
// @Param department query string false "Department name, case-insensitive"
// @Router /api/v1/notifications [get]
func (r *Router) listNotifications(c *gin.Context) {
	svc := r.services.Notifications
	criteria := criteriaFromQuery(c, svc.Spec())

	notifications, err := svc.List(c.Request.Context(), criteria)
	if err != nil {
		r.handleError(c, err, "Notifications not found")
		return
	}
	r.logFilter(c, service.EntityNotifications, criteria, len(notifications))
	respondList(c, notificationRows(notifications, r.now()), len(notifications))
}

func (r *Router) getNotificationSummary(c *gin.Context) {
	summary, err := r.services.Notifications.Summary(c.Request.Context())
	if err != nil {
		r.handleError(c, err, "Notifications not found")
		return
	}
	respondData(c, summary)
}

func (r *Router) listTemplates(c *gin.Context) {
	templates, err := r.services.Notifications.Templates(c.Request.Context())
	if err != nil {
		r.handleError(c, err, "Templates not found")
		return
	}
	respondList(c, templates, len(templates))
}

// previewTemplate renders a template for one report
// @Summary Preview notification template
// @Tags notifications
// @Param id path int true "Template ID"
// @Param report_id query string false "Report to fill placeholders from"
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/notifications/templates/{id}/preview [get]
func (r *Router) previewTemplate(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid template ID")
		return
	}

	preview, err := r.services.Notifications.Preview(c.Request.Context(), id, c.Query("report_id"))
	if err != nil {
		r.handleError(c, err, "Template or report not found")
		return
	}
	respondData(c, preview)
}
