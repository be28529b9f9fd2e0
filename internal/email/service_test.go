package email

import (
	"strings"
	"testing"
)

func TestServiceIsConfigured(t *testing.T) {
	tests := []struct {
		name   string
		config Config
		want   bool
	}{
		{
			name: "fully configured",
			config: Config{
				Host: "smtp.example.com",
				Port: "587",
				From: "noreply@talentdesk.io",
			},
			want: true,
		},
		{
			name:   "empty config",
			config: Config{},
			want:   false,
		},
		{
			name: "missing host",
			config: Config{
				Port: "587",
				From: "noreply@talentdesk.io",
			},
			want: false,
		},
		{
			name: "missing from",
			config: Config{
				Host: "smtp.example.com",
				Port: "587",
			},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewService(tt.config)
			if got := s.IsConfigured(); got != tt.want {
				t.Errorf("IsConfigured() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSendEmailUnconfigured(t *testing.T) {
	s := NewService(Config{})
	if err := s.SendEmail([]string{"a@b.c"}, "hi", "body"); err == nil {
		t.Error("expected error for unconfigured service")
	}
	if err := s.SendHTMLEmail([]string{"a@b.c"}, "hi", "<p>body</p>"); err == nil {
		t.Error("expected error for unconfigured service")
	}
}

func TestRenderSubmissionNoticeTemplate(t *testing.T) {
	data := SubmissionNoticeData{
		AppName:       "TalentDesk",
		CandidateName: "Ada Lovelace",
		RequestTitle:  "Staff Engineer",
		Partner:       "Acme Staffing",
		MatchScore:    92,
	}

	html, err := renderTemplate(submissionNoticeTemplate, data)
	if err != nil {
		t.Fatalf("renderTemplate() error = %v", err)
	}

	for _, want := range []string{"Ada Lovelace", "Staff Engineer", "Acme Staffing", "92", "TalentDesk"} {
		if !strings.Contains(html, want) {
			t.Errorf("rendered template missing %q", want)
		}
	}
}

func TestRenderSubmissionNoticeOmitsEmptyPartner(t *testing.T) {
	data := SubmissionNoticeData{
		AppName:       "TalentDesk",
		CandidateName: "Ada Lovelace",
		RequestTitle:  "Staff Engineer",
		MatchScore:    85,
	}

	html, err := renderTemplate(submissionNoticeTemplate, data)
	if err != nil {
		t.Fatalf("renderTemplate() error = %v", err)
	}

	if strings.Contains(html, " by ") {
		t.Error("rendered template should omit partner attribution when empty")
	}
}

func TestRenderInterviewInviteTemplate(t *testing.T) {
	data := InterviewInviteData{
		AppName:       "TalentDesk",
		CandidateName: "Grace Hopper",
		RequestTitle:  "Compiler Engineer",
		Company:       "Initech",
		When:          "Tuesday 10:00 UTC",
	}

	html, err := renderTemplate(interviewInviteTemplate, data)
	if err != nil {
		t.Fatalf("renderTemplate() error = %v", err)
	}

	for _, want := range []string{"Grace Hopper", "Compiler Engineer", "Initech", "Tuesday 10:00 UTC"} {
		if !strings.Contains(html, want) {
			t.Errorf("rendered template missing %q", want)
		}
	}
}
