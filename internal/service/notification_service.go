package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/cityops-io/cityops-ce/internal/filter"
	"github.com/cityops-io/cityops-ce/internal/models"
	"github.com/cityops-io/cityops-ce/internal/repository"
	"github.com/cityops-io/cityops-ce/internal/utils"
)

var placeholderPattern = regexp.MustCompile(`\{[A-Z_]+\}`)

type NotificationSummary struct {
	Total        int                             `json:"total"`
	Unread       int                             `json:"unread"`
	Read         int                             `json:"read"`
	HighPriority int                             `json:"high_priority"`
	ByType       map[models.NotificationType]int `json:"by_type"`
}

// TemplatePreview is a template rendered against one report.
type TemplatePreview struct {
	TemplateID int      `json:"template_id"`
	ReportID   string   `json:"report_id,omitempty"`
	Subject    string   `json:"subject"`
	BodyHTML   string   `json:"body_html"`
	BodyText   string   `json:"body_text"` // sms channel
	Channels   []string `json:"channels"`
	Unresolved []string `json:"unresolved"`
}

// NotificationService handles the notification inbox and message templates
type NotificationService struct {
	source    repository.RecordSource
	spec      filter.Spec[models.Notification]
	sanitizer *utils.HTMLSanitizer
}

func NewNotificationService(source repository.RecordSource, modes map[string]filter.MatchMode) (*NotificationService, error) {
	spec, err := NotificationFilterSpec().WithModes(modes)
	if err != nil {
		return nil, fmt.Errorf("notifications: %w", err)
	}
	return &NotificationService{
		source:    source,
		spec:      spec,
		sanitizer: utils.NewHTMLSanitizer(),
	}, nil
}

func (s *NotificationService) Spec() filter.Spec[models.Notification] {
	return s.spec
}

func (s *NotificationService) List(ctx context.Context, c filter.Criteria) ([]models.Notification, error) {
	notifications, err := s.source.Notifications(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load notifications: %w", err)
	}
	start := time.Now()
	out := filter.Apply(notifications, s.spec, c)
	observeFilter(EntityNotifications, start, len(out))
	return out, nil
}

func (s *NotificationService) Summary(ctx context.Context) (*NotificationSummary, error) {
	notifications, err := s.source.Notifications(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load notifications: %w", err)
	}
	return summarizeNotifications(notifications), nil
}

func summarizeNotifications(notifications []models.Notification) *NotificationSummary {
	summary := &NotificationSummary{
		Total:        len(notifications),
		Unread:       filter.Count(notifications, func(n models.Notification) bool { return !n.Read }),
		HighPriority: filter.Count(notifications, func(n models.Notification) bool { return n.Priority == models.PriorityHigh }),
		ByType:       make(map[models.NotificationType]int),
	}
	summary.Read = summary.Total - summary.Unread
	for _, t := range models.AllNotificationTypes() {
		summary.ByType[t] = filter.Count(notifications, func(n models.Notification) bool { return n.Type == t })
	}
	return summary
}

func (s *NotificationService) Templates(ctx context.Context) ([]models.NotificationTemplate, error) {
	templates, err := s.source.Templates(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load templates: %w", err)
	}
	return templates, nil
}

// Preview fills a template from the given report and renders its markdown
// body to sanitized HTML. An empty reportID leaves every placeholder in place.
func (s *NotificationService) Preview(ctx context.Context, templateID int, reportID string) (*TemplatePreview, error) {
	tmpl, err := s.source.TemplateByID(ctx, templateID)
	if err != nil {
		return nil, err
	}

	values := map[string]string{}
	if reportID != "" {
		report, err := s.source.ReportByID(ctx, reportID)
		if err != nil {
			return nil, err
		}
		values = reportVariables(report)
	}

	subject := substituteVariables(tmpl.Subject, values)
	body := substituteVariables(tmpl.Body, values)

	html := s.sanitizer.Sanitize(utils.MarkdownToHTML(body))
	return &TemplatePreview{
		TemplateID: tmpl.ID,
		ReportID:   reportID,
		Subject:    subject,
		BodyHTML:   html,
		BodyText:   strings.TrimSpace(utils.StripHTML(html)),
		Channels:   tmpl.Channels,
		Unresolved: unresolvedVariables(tmpl.Subject+"\n"+tmpl.Body, values),
	}, nil
}

func reportVariables(r *models.Report) map[string]string {
	updatedBy := r.AssignedTo
	if updatedBy == "" {
		updatedBy = "System"
	}
	return map[string]string{
		"{REPORT_ID}":  r.ID,
		"{CATEGORY}":   r.Category,
		"{LOCATION}":   r.Location,
		"{PRIORITY}":   r.Priority.Label(),
		"{STATUS}":     r.Status.Label(),
		"{DEPARTMENT}": r.Department,
		"{UPDATED_BY}": updatedBy,
	}
}

func substituteVariables(text string, values map[string]string) string {
	if len(values) == 0 {
		return text
	}
	pairs := make([]string, 0, len(values)*2)
	for k, v := range values {
		pairs = append(pairs, k, v)
	}
	return strings.NewReplacer(pairs...).Replace(text)
}

// unresolvedVariables lists the distinct template placeholders that have no
// value, in order of first appearance. Substituted text is never scanned.
func unresolvedVariables(template string, values map[string]string) []string {
	seen := make(map[string]bool)
	out := []string{}
	for _, v := range placeholderPattern.FindAllString(template, -1) {
		if _, ok := values[v]; ok {
			continue
		}
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}
