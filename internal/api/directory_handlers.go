package api

import (
	"github.com/gin-gonic/gin"

	"github.com/cityops-io/cityops-ce/internal/service"
)

// listUsers returns staff accounts filtered by the query string
// @Summary List users
// @Tags users
// @Param search query string false "Free text over name, email, department"
// @Param role query string false "admin, department_head, supervisor, field_worker or all"
// @Param status query string false "active, inactive or all"
// @Param department query string false "Department name, case-insensitive"
// @Router /api/v1/users [get]
func (r *Router) listUsers(c *gin.Context) {
	svc := r.services.Users
	criteria := criteriaFromQuery(c, svc.Spec())

	users, err := svc.List(c.Request.Context(), criteria)
	if err != nil {
		r.handleError(c, err, "Users not found")
		return
	}
	r.logFilter(c, service.EntityUsers, criteria, len(users))
	respondList(c, userRows(users, r.now()), len(users))
}

func (r *Router) getUserSummary(c *gin.Context) {
	summary, err := r.services.Users.Summary(c.Request.Context())
	if err != nil {
		r.handleError(c, err, "Users not found")
		return
	}
	respondData(c, summary)
}

// listDepartments returns departments filtered by the query string
// @Summary List departments
// @Tags departments
// @Param search query string false "Free text over name and head"
// @Param name query string false "Department name, case-insensitive"
// @Param category query string false "Matches any handled category by substring"
// @Router /api/v1/departments [get]
func (r *Router) listDepartments(c *gin.Context) {
	svc := r.services.Departments
	criteria := criteriaFromQuery(c, svc.Spec())

	departments, err := svc.List(c.Request.Context(), criteria)
	if err != nil {
		r.handleError(c, err, "Departments not found")
		return
	}
	r.logFilter(c, service.EntityDepartments, criteria, len(departments))
	respondList(c, departments, len(departments))
}

func (r *Router) getDepartmentSummary(c *gin.Context) {
	summary, err := r.services.Departments.Summary(c.Request.Context())
	if err != nil {
		r.handleError(c, err, "Departments not found")
		return
	}
	respondData(c, summary)
}
