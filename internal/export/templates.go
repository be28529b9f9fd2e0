package export

import (
	"bytes"
	"html/template"
	"time"

	"talentdesk/api/internal/store"
)

var pipelineTemplate = template.Must(template.New("pipeline").Funcs(template.FuncMap{
	"formatDate": func(t time.Time) string { return t.Format("Jan 2, 2006") },
}).Parse(pipelineHTML))

type pipelineData struct {
	Request     store.JobRequest
	Candidates  []store.Candidate
	Submissions []store.Submission
	GeneratedAt time.Time
}

func renderPipelineHTML(req store.JobRequest, candidates []store.Candidate, submissions []store.Submission) (string, error) {
	var buf bytes.Buffer
	err := pipelineTemplate.Execute(&buf, pipelineData{
		Request:     req,
		Candidates:  candidates,
		Submissions: submissions,
		GeneratedAt: time.Now(),
	})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}

const pipelineHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<style>
  body { font-family: -apple-system, Helvetica, Arial, sans-serif; color: #1a1a2e; margin: 0; }
  h1 { font-size: 22px; margin-bottom: 2px; }
  h2 { font-size: 15px; margin-top: 24px; border-bottom: 1px solid #ddd; padding-bottom: 4px; }
  .meta { color: #666; font-size: 12px; margin-bottom: 16px; }
  table { width: 100%; border-collapse: collapse; font-size: 12px; }
  th { text-align: left; background: #f4f4f8; padding: 6px 8px; }
  td { padding: 6px 8px; border-bottom: 1px solid #eee; }
  .empty { color: #999; font-style: italic; font-size: 12px; }
</style>
</head>
<body>
<h1>{{.Request.Title}}</h1>
<div class="meta">
  {{.Request.Client}} &middot; {{.Request.Location}} &middot; {{.Request.Type}}
  &middot; Status: {{.Request.Status}} &middot; Generated {{formatDate .GeneratedAt}}
</div>

<h2>Candidates ({{len .Candidates}})</h2>
{{if .Candidates}}
<table>
  <tr><th>Name</th><th>Role</th><th>Source</th><th>Match</th><th>Status</th></tr>
  {{range .Candidates}}
  <tr><td>{{.Name}}</td><td>{{.Role}}</td><td>{{.Source}}</td><td>{{.MatchScore}}</td><td>{{.Status}}</td></tr>
  {{end}}
</table>
{{else}}<p class="empty">No candidates in the pipeline yet.</p>{{end}}

<h2>Submissions ({{len .Submissions}})</h2>
{{if .Submissions}}
<table>
  <tr><th>Candidate</th><th>Partner</th><th>Match</th><th>Stage</th><th>Submitted</th></tr>
  {{range .Submissions}}
  <tr><td>{{.CandidateName}}</td><td>{{.Partner}}</td><td>{{.MatchScore}}</td><td>{{.Stage}}</td><td>{{formatDate .CreatedAt}}</td></tr>
  {{end}}
</table>
{{else}}<p class="empty">No submissions yet.</p>{{end}}
</body>
</html>`
