package export

import (
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"talentdesk/api/internal/store"
)

func TestCandidatesCSV(t *testing.T) {
	svc := NewService()
	created := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

	result, err := svc.CandidatesCSV([]store.Candidate{
		{ID: "c1", Name: "Ada Lovelace", Email: "ada@x.com", Role: "Engineer", Source: "Manual Entry", Rating: 4, MatchScore: 92, Status: "New", RequestID: "r1", Skills: []string{"go", "sql"}, CreatedAt: created},
	})
	if err != nil {
		t.Fatalf("CandidatesCSV failed: %v", err)
	}
	if result.MimeType != "text/csv" {
		t.Errorf("mime = %q", result.MimeType)
	}
	if !strings.HasPrefix(result.Filename, "candidates-") || !strings.HasSuffix(result.Filename, ".csv") {
		t.Errorf("filename = %q", result.Filename)
	}

	rows, err := csv.NewReader(strings.NewReader(string(result.Data))).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid csv: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("row count = %d, want header + 1", len(rows))
	}
	if rows[1][1] != "Ada Lovelace" || rows[1][7] != "92" {
		t.Errorf("row = %v", rows[1])
	}
	if rows[1][10] != "go; sql" {
		t.Errorf("skills cell = %q", rows[1][10])
	}
}

func TestRequestsCSVEmpty(t *testing.T) {
	svc := NewService()
	result, err := svc.RequestsCSV(nil)
	if err != nil {
		t.Fatalf("RequestsCSV failed: %v", err)
	}
	rows, err := csv.NewReader(strings.NewReader(string(result.Data))).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid csv: %v", err)
	}
	if len(rows) != 1 {
		t.Errorf("empty export should contain only the header, got %d rows", len(rows))
	}
}

func TestRenderPipelineHTML(t *testing.T) {
	html, err := renderPipelineHTML(
		store.JobRequest{ID: "r1", Title: "Backend Engineer", Client: "Acme", Location: "Berlin", Type: "Full-time", Status: "Open"},
		[]store.Candidate{{Name: "Ada", Role: "Engineer", Source: "Manual Entry", MatchScore: 92, Status: "New"}},
		nil,
	)
	if err != nil {
		t.Fatalf("renderPipelineHTML failed: %v", err)
	}
	for _, want := range []string{"Backend Engineer", "Acme", "Ada", "Candidates (1)", "No submissions yet"} {
		if !strings.Contains(html, want) {
			t.Errorf("report missing %q", want)
		}
	}
}

func TestSanitizeFilename(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"Backend Engineer", "Backend-Engineer"},
		{"a/b\\c: d", "abc-d"},
		{"", "report"},
		{strings.Repeat("x", 80), strings.Repeat("x", 50)},
	}
	for _, tc := range cases {
		if got := sanitizeFilename(tc.in); got != tc.want {
			t.Errorf("sanitizeFilename(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestPercentEncodeForDataURL(t *testing.T) {
	if got := percentEncodeForDataURL("a b&c"); got != "a%20b%26c" {
		t.Errorf("encoded = %q", got)
	}
}
