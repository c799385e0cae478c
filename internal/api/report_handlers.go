package api

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cityops-io/cityops-ce/internal/export"
	"github.com/cityops-io/cityops-ce/internal/models"
	"github.com/cityops-io/cityops-ce/internal/service"
)

// listReports returns reports filtered by the query string
// @Summary List reports
// @Description Filter reports by free text and status, category, priority, department
// @Tags reports
// @Produce json
// @Param search query string false "Free text over id, category, location, description"
// @Param status query string false "pending, assigned, in-progress, resolved or all"
// @Param category query string false "Category substring"
// @Param priority query string false "low, medium, high or all"
// @Param department query string false "Department name, case-insensitive"
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/reports [get]
func (r *Router) listReports(c *gin.Context) {
	svc := r.services.Reports
	criteria := criteriaFromQuery(c, svc.Spec())

	reports, err := svc.List(c.Request.Context(), criteria)
	if err != nil {
		r.handleError(c, err, "Reports not found")
		return
	}
	r.logFilter(c, service.EntityReports, criteria, len(reports))
	respondList(c, reportRows(reports, r.now()), len(reports))
}

// getReport returns one report
// @Summary Get report
// @Tags reports
// @Produce json
// @Param id path string true "Report ID, e.g. R-2024-001"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/reports/{id} [get]
func (r *Router) getReport(c *gin.Context) {
	report, err := r.services.Reports.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		r.handleError(c, err, fmt.Sprintf("Report %s not found", c.Param("id")))
		return
	}
	respondData(c, reportRows([]models.Report{*report}, r.now())[0])
}

// @Summary Report counts by status, priority and category
// @Tags reports
// @Router /api/v1/reports/summary [get]
func (r *Router) getReportSummary(c *gin.Context) {
	summary, err := r.services.Reports.Summary(c.Request.Context())
	if err != nil {
		r.handleError(c, err, "Reports not found")
		return
	}
	respondData(c, summary)
}

// exportReports downloads the filtered reports
// @Summary Export reports
// @Tags reports
// @Param format query string false "csv, xlsx or json"
// @Router /api/v1/reports/export [get]
func (r *Router) exportReports(c *gin.Context) {
	format, err := export.ParseFormat(c.DefaultQuery("format", r.cfg.Export.DefaultFormat))
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	svc := r.services.Reports
	criteria := criteriaFromQuery(c, svc.Spec())
	reports, err := svc.List(c.Request.Context(), criteria)
	if err != nil {
		r.handleError(c, err, "Reports not found")
		return
	}

	var buf bytes.Buffer
	if err := r.exporter.Reports(&buf, format, reports); err != nil {
		r.handleError(c, err, "Reports not found")
		return
	}

	filename := export.Filename("reports", format, r.now())
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", filename))
	c.Data(http.StatusOK, format.ContentType(), buf.Bytes())
}
