package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
	"time"

	"talentdesk/api/internal/store"
)

// Service provides snapshot exports.
type Service struct{}

func NewService() *Service {
	return &Service{}
}

// CandidatesCSV renders the candidate slice as a CSV download.
func (s *Service) CandidatesCSV(candidates []store.Candidate) (*Result, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{"ID", "Name", "Email", "Phone", "Role", "Source", "Rating", "Match Score", "Status", "Request", "Skills", "Created"}
	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	for _, c := range candidates {
		row := []string{
			c.ID, c.Name, c.Email, c.Phone, c.Role, c.Source,
			strconv.Itoa(c.Rating), strconv.Itoa(c.MatchScore),
			c.Status, c.RequestID, strings.Join(c.Skills, "; "),
			c.CreatedAt.Format(time.RFC3339),
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}

	return &Result{
		Data:     buf.Bytes(),
		Filename: "candidates-" + time.Now().Format("2006-01-02") + ".csv",
		MimeType: "text/csv",
	}, nil
}

// RequestsCSV renders the request slice as a CSV download.
func (s *Service) RequestsCSV(requests []store.JobRequest) (*Result, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{"ID", "Title", "Client", "Location", "Type", "Salary Min", "Salary Max", "Status", "Priority", "Skills", "Created"}
	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	for _, r := range requests {
		row := []string{
			r.ID, r.Title, r.Client, r.Location, r.Type,
			strconv.Itoa(r.SalaryMin), strconv.Itoa(r.SalaryMax),
			r.Status, r.Priority, strings.Join(r.Skills, "; "),
			r.CreatedAt.Format(time.RFC3339),
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}

	return &Result{
		Data:     buf.Bytes(),
		Filename: "requests-" + time.Now().Format("2006-01-02") + ".csv",
		MimeType: "text/csv",
	}, nil
}

// PipelineReport renders one request's pipeline (its candidates and
// submissions) as a PDF via headless Chrome.
func (s *Service) PipelineReport(ctx context.Context, req store.JobRequest, candidates []store.Candidate, submissions []store.Submission) (*Result, error) {
	var related []store.Candidate
	for _, c := range candidates {
		if c.RequestID == req.ID {
			related = append(related, c)
		}
	}
	var subs []store.Submission
	for _, sub := range submissions {
		if sub.RequestID == req.ID {
			subs = append(subs, sub)
		}
	}

	html, err := renderPipelineHTML(req, related, subs)
	if err != nil {
		return nil, fmt.Errorf("render pipeline report: %w", err)
	}
	return exportPDF(ctx, html, "pipeline-"+req.Title)
}
