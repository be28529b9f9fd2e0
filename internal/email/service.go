// Package email sends recruitment notifications via SMTP.
package email

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"
	"strings"
)

// Config holds SMTP configuration
type Config struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
	FromName string
}

// Service provides email sending
type Service struct {
	config Config
	server string
	auth   smtp.Auth
}

// NewService creates a new email service
func NewService(config Config) *Service {
	auth := smtp.PlainAuth("", config.Username, config.Password, config.Host)

	return &Service{
		config: config,
		server: config.Host + ":" + config.Port,
		auth:   auth,
	}
}

// IsConfigured returns true if email is configured
func (s *Service) IsConfigured() bool {
	return s.config.Host != "" && s.config.Port != "" && s.config.From != ""
}

// SendEmail sends a plain text email
func (s *Service) SendEmail(to []string, subject, body string) error {
	if !s.IsConfigured() {
		return fmt.Errorf("email not configured")
	}

	from := s.config.From
	if s.config.FromName != "" {
		from = fmt.Sprintf("%s <%s>", s.config.FromName, s.config.From)
	}

	msg := []byte(fmt.Sprintf(
		"To: %s\r\n"+
			"From: %s\r\n"+
			"Subject: %s\r\n"+
			"Content-Type: text/plain; charset=UTF-8\r\n"+
			"\r\n"+
			"%s",
		strings.Join(to, ", "),
		from,
		subject,
		body,
	))

	return smtp.SendMail(s.server, s.auth, s.config.From, to, msg)
}

// SendHTMLEmail sends an HTML email
func (s *Service) SendHTMLEmail(to []string, subject, htmlBody string) error {
	if !s.IsConfigured() {
		return fmt.Errorf("email not configured")
	}

	from := s.config.From
	if s.config.FromName != "" {
		from = fmt.Sprintf("%s <%s>", s.config.FromName, s.config.From)
	}

	boundary := "boundary-talentdesk"

	var msg bytes.Buffer
	fmt.Fprintf(&msg, "To: %s\r\n", strings.Join(to, ", "))
	fmt.Fprintf(&msg, "From: %s\r\n", from)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	fmt.Fprintf(&msg, "MIME-Version: 1.0\r\n")
	fmt.Fprintf(&msg, "Content-Type: multipart/alternative; boundary=\"%s\"\r\n", boundary)
	fmt.Fprintf(&msg, "\r\n")

	fmt.Fprintf(&msg, "--%s\r\n", boundary)
	fmt.Fprintf(&msg, "Content-Type: text/plain; charset=UTF-8\r\n")
	fmt.Fprintf(&msg, "\r\n")
	fmt.Fprintf(&msg, "Please view this email in an HTML-capable email client.\r\n")
	fmt.Fprintf(&msg, "\r\n")

	fmt.Fprintf(&msg, "--%s\r\n", boundary)
	fmt.Fprintf(&msg, "Content-Type: text/html; charset=UTF-8\r\n")
	fmt.Fprintf(&msg, "\r\n")
	fmt.Fprintf(&msg, "%s\r\n", htmlBody)
	fmt.Fprintf(&msg, "\r\n")
	fmt.Fprintf(&msg, "--%s--\r\n", boundary)

	return smtp.SendMail(s.server, s.auth, s.config.From, to, msg.Bytes())
}

// SubmissionNoticeData holds data for the submission notification template
type SubmissionNoticeData struct {
	AppName       string
	CandidateName string
	RequestTitle  string
	Partner       string
	MatchScore    int
}

// InterviewInviteData holds data for the interview invite template
type InterviewInviteData struct {
	AppName       string
	CandidateName string
	RequestTitle  string
	Company       string
	When          string
}

// SendSubmissionNotice notifies recruiters that a partner submitted a
// candidate for a request.
func (s *Service) SendSubmissionNotice(to []string, candidateName, requestTitle, partner string, matchScore int) error {
	data := SubmissionNoticeData{
		AppName:       "TalentDesk",
		CandidateName: candidateName,
		RequestTitle:  requestTitle,
		Partner:       partner,
		MatchScore:    matchScore,
	}

	subject := fmt.Sprintf("New submission: %s for %s", candidateName, requestTitle)
	html, err := renderTemplate(submissionNoticeTemplate, data)
	if err != nil {
		return fmt.Errorf("render submission notice: %w", err)
	}

	return s.SendHTMLEmail(to, subject, html)
}

// SendInterviewInvite emails a candidate an interview invitation.
func (s *Service) SendInterviewInvite(to, candidateName, requestTitle, company, when string) error {
	data := InterviewInviteData{
		AppName:       "TalentDesk",
		CandidateName: candidateName,
		RequestTitle:  requestTitle,
		Company:       company,
		When:          when,
	}

	subject := fmt.Sprintf("Interview invitation: %s at %s", requestTitle, company)
	html, err := renderTemplate(interviewInviteTemplate, data)
	if err != nil {
		return fmt.Errorf("render interview invite: %w", err)
	}

	return s.SendHTMLEmail([]string{to}, subject, html)
}

func renderTemplate(tmpl string, data interface{}) (string, error) {
	t := template.Must(template.New("email").Parse(tmpl))
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

const submissionNoticeTemplate = `<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>New submission</title>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { border-bottom: 2px solid #0066cc; padding-bottom: 10px; margin-bottom: 20px; }
        .score { display: inline-block; padding: 4px 10px; background: #e8f2ff; border-radius: 4px; font-weight: bold; }
        .footer { margin-top: 30px; padding-top: 20px; border-top: 1px solid #eee; font-size: 12px; color: #666; }
    </style>
</head>
<body>
    <div class="header">
        <h1>{{.AppName}}</h1>
    </div>

    <h2>New candidate submission</h2>

    <p><strong>{{.CandidateName}}</strong> was submitted for <strong>{{.RequestTitle}}</strong>{{if .Partner}} by {{.Partner}}{{end}}.</p>

    <p>Match score: <span class="score">{{.MatchScore}}</span></p>

    <p>Open the recruiter dashboard to review the submission.</p>

    <div class="footer">
        <p>You are receiving this because you follow this request in {{.AppName}}.</p>
    </div>
</body>
</html>`

const interviewInviteTemplate = `<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Interview invitation</title>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { border-bottom: 2px solid #0066cc; padding-bottom: 10px; margin-bottom: 20px; }
        .detail { background: #f4f7fb; padding: 12px; border-radius: 4px; margin: 20px 0; }
        .footer { margin-top: 30px; padding-top: 20px; border-top: 1px solid #eee; font-size: 12px; color: #666; }
    </style>
</head>
<body>
    <div class="header">
        <h1>{{.AppName}}</h1>
    </div>

    <h2>Hi {{.CandidateName}},</h2>

    <p>You have been invited to interview for <strong>{{.RequestTitle}}</strong> at <strong>{{.Company}}</strong>.</p>

    <div class="detail">
        <strong>Proposed time:</strong> {{.When}}
    </div>

    <p>Please reply to this email to confirm or propose another time.</p>

    <div class="footer">
        <p>Sent on behalf of {{.Company}} via {{.AppName}}.</p>
    </div>
</body>
</html>`
