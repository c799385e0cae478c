package api

import (
	"github.com/gin-gonic/gin"

	"github.com/cityops-io/cityops-ce/internal/filter"
	"github.com/cityops-io/cityops-ce/internal/middleware"
)

// criteriaFromQuery reads ?search= and one parameter per selector of spec.
// Parameters that are not selectors are ignored.
func criteriaFromQuery[T any](c *gin.Context, spec filter.Spec[T]) filter.Criteria {
	criteria := filter.Criteria{
		Query:   c.Query("search"),
		Filters: make(map[string]string),
	}
	for _, name := range spec.SelectorNames() {
		if v, ok := c.GetQuery(name); ok {
			criteria.Filters[name] = v
		}
	}
	return criteria
}

func (r *Router) logFilter(c *gin.Context, entity string, criteria filter.Criteria, results int) {
	if !r.debug {
		return
	}
	r.logger.Printf("%s filter search=%q filters=%v results=%d request=%s",
		entity, criteria.Query, criteria.Filters, results, middleware.GetRequestID(c))
}
