package export

import (
	"bytes"
	"html/template"
	"strings"
	"time"
)

var reportTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"lower": strings.ToLower,
	"statusClass": func(s string) string {
		return strings.ReplaceAll(strings.ToLower(s), " ", "-")
	},
	"formatDate": func(t time.Time, layout string) string {
		return t.Format(layout)
	},
}).Parse(reportTemplateHTML))

// TemplateData holds data for report template rendering
type TemplateData struct {
	ChapterCode string
	ChapterName string
	Tag         string
	GeneratedAt time.Time
	Source      string
	Elements    []TemplateElement
	Summary     TemplateSummary
}

// TemplateElement holds one element row for the report
type TemplateElement struct {
	Code          string
	Title         string
	Category      string
	Priority      string
	Status        string
	Assignee      string
	EvidencesList string
	Notes         string
}

// TemplateSummary holds the status roll-up for the report header
type TemplateSummary struct {
	Total      int
	Completed  int
	InProgress int
	Blocked    int
	NotStarted int
}

// RenderReportHTML renders the chapter report template
func RenderReportHTML(data TemplateData) (string, error) {
	var buf bytes.Buffer
	if err := reportTemplate.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

const reportTemplateHTML = `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <title>{{.ChapterCode}} Compliance Report</title>
  <style>
    body { font-family: Arial, sans-serif; line-height: 1.5; max-width: 960px; margin: 2rem auto; }
    h1 { border-bottom: 2px solid #333; padding-bottom: 0.5rem; }
    .meta { color: #666; font-size: 0.9em; margin-bottom: 1.5rem; }
    .summary { background: #f5f5f5; padding: 1rem; margin-bottom: 1.5rem; }
    table { border-collapse: collapse; width: 100%; }
    th, td { border: 1px solid #ccc; padding: 0.4rem 0.6rem; text-align: left; vertical-align: top; font-size: 0.85em; }
    th { background: #eee; }
    .status-completed { color: #1a7f37; }
    .status-blocked { color: #b42318; }
    .core { font-weight: bold; }
  </style>
</head>
<body>
  <h1>{{.ChapterCode}} &mdash; {{.ChapterName}}</h1>
  <div class="meta">{{.Tag}} | Data source: {{.Source}} | Generated {{formatDate .GeneratedAt "Jan 2, 2006 15:04"}}</div>
  <div class="summary">
    {{.Summary.Total}} objective elements:
    {{.Summary.Completed}} completed,
    {{.Summary.InProgress}} in progress,
    {{.Summary.Blocked}} blocked,
    {{.Summary.NotStarted}} not started.
  </div>
  <table>
    <tr><th>Code</th><th>Objective Element</th><th>Category</th><th>Priority</th><th>Status</th><th>Assignee</th><th>Evidences</th><th>Notes</th></tr>
    {{range .Elements}}
    <tr{{if eq .Category "Core"}} class="core"{{end}}>
      <td>{{.Code}}</td>
      <td>{{.Title}}</td>
      <td>{{.Category}}</td>
      <td>{{.Priority}}</td>
      <td class="status-{{statusClass .Status}}">{{.Status}}</td>
      <td>{{.Assignee}}</td>
      <td>{{.EvidencesList}}</td>
      <td>{{.Notes}}</td>
    </tr>
    {{end}}
  </table>
</body>
</html>`
