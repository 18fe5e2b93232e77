package repairs

import (
	"context"
	"regexp"
	"strings"

	"github.com/krow6750/gearshare-backend/internal/records"
	"github.com/krow6750/gearshare-backend/pkg/airtable"
	"github.com/krow6750/gearshare-backend/pkg/config"
)

// Template column headers in the spreadsheet source.
const (
	fieldTemplateName    = "Name"
	fieldTemplateSubject = "Subject"
	fieldTemplateBody    = "Body"
)

// Template is a canned customer-notification message with {{Placeholder}}
// tokens.
type Template struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// TemplateService reads notification templates from the spreadsheet source
// and fills their placeholders from ticket data.
type TemplateService struct {
	store TicketStore
	table string
}

func NewTemplateService(store TicketStore, cfg config.AirtableConfig) *TemplateService {
	return &TemplateService{
		store: store,
		table: cfg.TemplatesTable,
	}
}

// List returns all templates.
func (s *TemplateService) List(ctx context.Context) ([]Template, error) {
	rows, err := s.store.ListRecords(ctx, s.table)
	if err != nil {
		return nil, err
	}
	templates := make([]Template, 0, len(rows))
	for _, row := range rows {
		templates = append(templates, templateFromRecord(row))
	}
	return templates, nil
}

// RenderForTicket fills a template's subject and body from a ticket.
func (s *TemplateService) RenderForTicket(ctx context.Context, templateID string, ticket records.RepairTicket) (Template, error) {
	row, err := s.store.GetRecord(ctx, s.table, templateID)
	if err != nil {
		return Template{}, err
	}
	tmpl := templateFromRecord(row)
	vars := ticketVars(ticket)
	tmpl.Subject = Render(tmpl.Subject, vars)
	tmpl.Body = Render(tmpl.Body, vars)
	return tmpl, nil
}

var placeholderPattern = regexp.MustCompile(`\{\{\s*([A-Za-z ]+?)\s*\}\}`)

// Render substitutes {{Placeholder}} tokens from vars. Tokens without a
// value stay in the text untouched so a half-filled template is visible
// rather than silently blanked.
func Render(text string, vars map[string]string) string {
	return placeholderPattern.ReplaceAllStringFunc(text, func(token string) string {
		name := strings.TrimSpace(strings.Trim(token, "{}"))
		if value, ok := vars[name]; ok {
			return value
		}
		return token
	})
}

func templateFromRecord(row airtable.Record) Template {
	stringField := func(key string) string {
		if value, ok := row.Fields[key].(string); ok {
			return value
		}
		return ""
	}
	return Template{
		ID:      row.ID,
		Name:    stringField(fieldTemplateName),
		Subject: stringField(fieldTemplateSubject),
		Body:    stringField(fieldTemplateBody),
	}
}

func ticketVars(ticket records.RepairTicket) map[string]string {
	vars := map[string]string{
		"Customer Name": ticket.CustomerName,
		"Item":          ticket.ItemSummary,
		"Status":        ticket.Status,
		"Amount Paid":   ticket.AmountPaid.StringFixed(2),
	}
	if ticket.SubmittedOn != nil {
		vars["Submitted On"] = ticket.SubmittedOn.Format("2006-01-02")
	}
	return vars
}
