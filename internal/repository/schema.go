package repository

import (
	"fmt"
	"sync"

	"github.com/xeipuuv/gojsonschema"

	"github.com/cityops-io/cityops-ce/internal/models"
)

var (
	seedSchema     *gojsonschema.Schema
	seedSchemaErr  error
	seedSchemaOnce sync.Once
)

func enumOf[T ~string](values []T) []interface{} {
	out := make([]interface{}, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}

func nonEmpty() map[string]interface{} {
	return map[string]interface{}{"type": "string", "minLength": 1}
}

func timestamp() map[string]interface{} {
	return map[string]interface{}{"type": "string", "format": "date-time"}
}

func collection(required []string, properties map[string]interface{}) map[string]interface{} {
	return map[string]interface{}{
		"type": "array",
		"items": map[string]interface{}{
			"type":       "object",
			"required":   required,
			"properties": properties,
		},
	}
}

// seedSchemaDocument is the JSON schema every seed document must satisfy.
func seedSchemaDocument() map[string]interface{} {
	priority := map[string]interface{}{"enum": enumOf(models.AllPriorities())}

	return map[string]interface{}{
		"$schema": "http://json-schema.org/draft-07/schema#",
		"title":   "Dashboard Seed Data",
		"type":    "object",
		"properties": map[string]interface{}{
			"reports": collection(
				[]string{"id", "category", "location", "status", "priority", "department", "created_at", "updated_at"},
				map[string]interface{}{
					"id":          map[string]interface{}{"type": "string", "pattern": "^R-[0-9]{4}-[0-9]{3}$"},
					"category":    nonEmpty(),
					"location":    nonEmpty(),
					"status":      map[string]interface{}{"enum": enumOf(models.AllReportStatuses())},
					"priority":    priority,
					"reporter":    map[string]interface{}{"type": "string"},
					"assigned_to": map[string]interface{}{"type": "string"},
					"department":  nonEmpty(),
					"created_at":  timestamp(),
					"updated_at":  timestamp(),
					"description": map[string]interface{}{"type": "string"},
					"coordinates": map[string]interface{}{
						"type":     "object",
						"required": []string{"lat", "lng"},
						"properties": map[string]interface{}{
							"lat": map[string]interface{}{"type": "number", "minimum": -90, "maximum": 90},
							"lng": map[string]interface{}{"type": "number", "minimum": -180, "maximum": 180},
						},
					},
				},
			),
			"users": collection(
				[]string{"id", "name", "email", "role", "status"},
				map[string]interface{}{
					"id":               map[string]interface{}{"type": "integer"},
					"name":             nonEmpty(),
					"email":            nonEmpty(),
					"role":             map[string]interface{}{"enum": enumOf(models.AllUserRoles())},
					"status":           map[string]interface{}{"enum": enumOf(models.AllUserStatuses())},
					"last_login":       timestamp(),
					"reports_assigned": map[string]interface{}{"type": "integer", "minimum": 0},
					"reports_resolved": map[string]interface{}{"type": "integer", "minimum": 0},
				},
			),
			"departments": collection(
				[]string{"id", "name"},
				map[string]interface{}{
					"id":         map[string]interface{}{"type": "integer"},
					"name":       nonEmpty(),
					"staff":      map[string]interface{}{"type": "integer", "minimum": 0},
					"categories": map[string]interface{}{"type": "array", "items": nonEmpty()},
					"performance": map[string]interface{}{
						"type": "object",
						"properties": map[string]interface{}{
							"sla_compliance": map[string]interface{}{"type": "number", "minimum": 0, "maximum": 100},
							"satisfaction":   map[string]interface{}{"type": "number", "minimum": 0, "maximum": 5},
						},
					},
				},
			),
			"notifications": collection(
				[]string{"id", "title", "type", "timestamp", "priority"},
				map[string]interface{}{
					"id":        map[string]interface{}{"type": "integer"},
					"title":     nonEmpty(),
					"type":      map[string]interface{}{"enum": enumOf(models.AllNotificationTypes())},
					"timestamp": timestamp(),
					"read":      map[string]interface{}{"type": "boolean"},
					"priority":  priority,
				},
			),
			"templates": collection(
				[]string{"id", "name", "subject", "body"},
				map[string]interface{}{
					"id":       map[string]interface{}{"type": "integer"},
					"name":     nonEmpty(),
					"subject":  nonEmpty(),
					"body":     nonEmpty(),
					"channels": map[string]interface{}{"type": "array", "items": map[string]interface{}{"enum": []interface{}{"email", "sms", "push"}}},
				},
			),
		},
	}
}

func compiledSeedSchema() (*gojsonschema.Schema, error) {
	seedSchemaOnce.Do(func() {
		seedSchema, seedSchemaErr = gojsonschema.NewSchema(gojsonschema.NewGoLoader(seedSchemaDocument()))
		if seedSchemaErr != nil {
			seedSchemaErr = fmt.Errorf("failed to compile seed schema: %w", seedSchemaErr)
		}
	})
	return seedSchema, seedSchemaErr
}

// validateDocument checks a decoded YAML document against the seed schema.
func validateDocument(doc map[string]interface{}) error {
	if doc == nil {
		return &ValidationError{Problems: []string{"(root): document is empty"}}
	}
	schema, err := compiledSeedSchema()
	if err != nil {
		return err
	}

	result, err := schema.Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return fmt.Errorf("validation error: %w", err)
	}
	if result.Valid() {
		return nil
	}

	problems := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		problems = append(problems, fmt.Sprintf("%s: %s", e.Field(), e.Description()))
	}
	return &ValidationError{Problems: problems}
}
