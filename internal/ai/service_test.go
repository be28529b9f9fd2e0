package ai

import (
	"context"
	"errors"
	"strings"
	"testing"

	"talentdesk/api/internal/store"
)

type fakeGenerator struct {
	reply      string
	err        error
	lastModel  string
	lastPrompt string
	calls      int
}

func (f *fakeGenerator) Generate(_ context.Context, model, prompt string) (string, error) {
	f.calls++
	f.lastModel = model
	f.lastPrompt = prompt
	return f.reply, f.err
}

type fakeTracker struct {
	counts map[string]int
}

func (f *fakeTracker) TrackUsage(_ context.Context, category string) {
	if f.counts == nil {
		f.counts = map[string]int{}
	}
	f.counts[category]++
}

func TestParseResume(t *testing.T) {
	gen := &fakeGenerator{reply: "```json\n" + `{"name":"Ada Lovelace","email":"ada@x.com","role":"Engineer","skills":["go"],"experience":"5 years","summary":"Strong backend profile."}` + "\n```"}
	tracker := &fakeTracker{}
	svc := NewService(gen, tracker)

	profile, err := svc.ParseResume(context.Background(), "resume text here")
	if err != nil {
		t.Fatalf("ParseResume failed: %v", err)
	}
	if profile.Name != "Ada Lovelace" || profile.Role != "Engineer" {
		t.Errorf("profile = %+v", profile)
	}
	if gen.lastModel != ModelFlash {
		t.Errorf("model = %q, want %q", gen.lastModel, ModelFlash)
	}
	if !strings.Contains(gen.lastPrompt, "resume text here") {
		t.Error("resume text missing from prompt")
	}
	if tracker.counts[CategoryFlash] != 1 {
		t.Errorf("flash usage = %d, want 1", tracker.counts[CategoryFlash])
	}
}

func TestParseResumeUndecodableReplyFallsBack(t *testing.T) {
	gen := &fakeGenerator{reply: "Sorry, I can't help with that."}
	svc := NewService(gen, &fakeTracker{})

	profile, err := svc.ParseResume(context.Background(), "text")
	if err != nil {
		t.Fatalf("decode failure must not surface as an error: %v", err)
	}
	if profile.Role != "Unspecified" {
		t.Errorf("fallback role = %q, want Unspecified", profile.Role)
	}
	if profile.Summary != "Sorry, I can't help with that." {
		t.Errorf("fallback should keep the raw reply, got %q", profile.Summary)
	}
}

func TestScreenCandidate(t *testing.T) {
	gen := &fakeGenerator{reply: `{"match_score":91,"strengths":["go"],"gaps":[],"recommendation":"Advance","summary":"Great fit."}`}
	tracker := &fakeTracker{}
	svc := NewService(gen, tracker)

	result, err := svc.ScreenCandidate(context.Background(),
		store.Candidate{Name: "Ada", Skills: []string{"go"}},
		store.JobRequest{Title: "Backend Engineer", Skills: []string{"go", "sql"}},
	)
	if err != nil {
		t.Fatalf("ScreenCandidate failed: %v", err)
	}
	if result.MatchScore != 91 || result.Recommendation != "Advance" {
		t.Errorf("screening = %+v", result)
	}
	if gen.lastModel != ModelPro {
		t.Errorf("model = %q, want %q", gen.lastModel, ModelPro)
	}
	if tracker.counts[CategoryPro] != 1 {
		t.Errorf("pro usage = %d, want 1", tracker.counts[CategoryPro])
	}
}

func TestGenerateErrorSurfaces(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("quota exceeded")}
	tracker := &fakeTracker{}
	svc := NewService(gen, tracker)

	if _, err := svc.ScreenCandidate(context.Background(), store.Candidate{}, store.JobRequest{}); err == nil {
		t.Error("transport error should surface to the caller")
	}
	// The call is still counted.
	if tracker.counts[CategoryPro] != 1 {
		t.Errorf("failed call not tracked: %v", tracker.counts)
	}
}

func TestNotConfigured(t *testing.T) {
	svc := NewService(nil, &fakeTracker{})
	if _, err := svc.Assist(context.Background(), nil, "hi"); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("expected ErrNotConfigured, got %v", err)
	}
}

func TestInterviewQuestions(t *testing.T) {
	gen := &fakeGenerator{reply: `[{"question":"Describe a production incident you led.","focus":"experience"}]`}
	svc := NewService(gen, &fakeTracker{})

	questions, err := svc.InterviewQuestions(context.Background(), store.JobRequest{Title: "SRE"})
	if err != nil {
		t.Fatalf("InterviewQuestions failed: %v", err)
	}
	if len(questions) != 1 || questions[0].Focus != "experience" {
		t.Errorf("questions = %+v", questions)
	}
}

func TestAssistCarriesHistory(t *testing.T) {
	gen := &fakeGenerator{reply: "  Of course.  "}
	svc := NewService(gen, &fakeTracker{})

	reply, err := svc.Assist(context.Background(), []store.Message{{Author: "u1", Body: "earlier question"}}, "follow-up")
	if err != nil {
		t.Fatalf("Assist failed: %v", err)
	}
	if reply != "Of course." {
		t.Errorf("reply = %q", reply)
	}
	if !strings.Contains(gen.lastPrompt, "earlier question") {
		t.Error("history missing from prompt")
	}
}

func TestStripFences(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"```json\n{\"a\":1}\n```", `{"a":1}`},
		{"```\n{\"a\":1}\n```", `{"a":1}`},
		{`{"a":1}`, `{"a":1}`},
	}
	for _, tc := range cases {
		if got := stripFences(tc.in); got != tc.want {
			t.Errorf("stripFences(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
