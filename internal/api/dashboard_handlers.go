package api

import (
	"github.com/gin-gonic/gin"

	"github.com/cityops-io/cityops-ce/internal/service"
)

// dashboardView replaces the overview's recent reports with decorated rows.
type dashboardView struct {
	*service.Overview
	RecentReports []reportRow `json:"recent_reports"`
}

func (r *Router) getDashboard(c *gin.Context) {
	overview, err := r.services.Dashboard.Overview(c.Request.Context())
	if err != nil {
		r.handleError(c, err, "Dashboard data not found")
		return
	}
	respondData(c, dashboardView{
		Overview:      overview,
		RecentReports: reportRows(overview.RecentReports, r.now()),
	})
}

// getMapConfig tells the map page how to render. The access token itself is
// never sent; clients only learn whether one is configured.
// @Summary Map configuration
// @Tags map
// @Router /api/v1/map/config [get]
func (r *Router) getMapConfig(c *gin.Context) {
	m := r.cfg.Map
	respondData(c, gin.H{
		"token_required": !m.TokenConfigured(),
		"style":          m.Style,
		"center":         m.Center,
		"zoom":           m.Zoom,
	})
}

// listMarkers returns map pins for reports matching the report filters.
// @Summary Map markers
// @Tags map
// @Router /api/v1/map/markers [get]
func (r *Router) listMarkers(c *gin.Context) {
	svc := r.services.Reports
	criteria := criteriaFromQuery(c, svc.Spec())

	markers, err := svc.Markers(c.Request.Context(), criteria)
	if err != nil {
		r.handleError(c, err, "Reports not found")
		return
	}
	r.logFilter(c, service.EntityReports, criteria, len(markers))
	respondList(c, markers, len(markers))
}

// getAnalytics aggregates the reports matching the report filters.
// ?department= also narrows the department table.
// @Summary Analytics overview
// @Tags analytics
// @Router /api/v1/analytics [get]
func (r *Router) getAnalytics(c *gin.Context) {
	criteria := criteriaFromQuery(c, r.services.Reports.Spec())

	analytics, err := r.services.Analytics.Overview(c.Request.Context(), criteria)
	if err != nil {
		r.handleError(c, err, "Analytics data not found")
		return
	}
	r.logFilter(c, service.EntityReports, criteria, analytics.TotalReports)
	respondData(c, analytics)
}
