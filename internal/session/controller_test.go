package session

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	"talentdesk/api/internal/keystore"
	"talentdesk/api/internal/store"
)

func setupController(t *testing.T, debounce time.Duration) (*Controller, *keystore.Store) {
	t.Helper()
	s := miniredis.RunT(t)
	kv, err := keystore.NewRedisKV("redis://" + s.Addr())
	if err != nil {
		t.Fatalf("failed to create redis kv: %v", err)
	}
	t.Cleanup(func() { kv.Close() })
	ks := keystore.New(kv, "talentdesk_v1_")
	return New(context.Background(), ks, debounce), ks
}

func TestHydrationFallbacks(t *testing.T) {
	c, _ := setupController(t, 0)

	if c.User() != nil {
		t.Error("fresh session should have no user")
	}
	if c.View() != "landing" {
		t.Errorf("view = %q, want landing", c.View())
	}
	if c.Theme() != "dark" {
		t.Errorf("theme = %q, want dark", c.Theme())
	}
	if len(c.Requests()) != 0 || len(c.Candidates()) != 0 || len(c.Submissions()) != 0 {
		t.Error("collections should hydrate empty")
	}
	if len(c.Users()) == 0 {
		t.Error("account list should hydrate with the seed accounts")
	}
}

func TestLoginRoutesByRole(t *testing.T) {
	ctx := context.Background()
	c, ks := setupController(t, 0)

	c.Login(ctx, &store.User{ID: "u1", Name: "Dana", Role: "admin", Email: "d@x.com"})
	if c.View() != "dashboard" {
		t.Errorf("admin landing view = %q, want dashboard", c.View())
	}
	if got := c.User(); got == nil || got.ID != "u1" {
		t.Fatalf("user not set after login: %+v", got)
	}

	// Identity persists across a restart.
	reloaded := New(ctx, ks, 0)
	if got := reloaded.User(); got == nil || got.ID != "u1" {
		t.Errorf("user did not survive rehydration: %+v", got)
	}

	// Login appends an activity entry.
	if acts := c.Activities(); len(acts) != 1 || acts[0].Kind != "auth" {
		t.Errorf("expected one auth activity, got %+v", acts)
	}
}

func TestLoginNilUserIsNoOp(t *testing.T) {
	ctx := context.Background()
	c, _ := setupController(t, 0)

	c.Login(ctx, nil)
	if c.User() != nil || len(c.Activities()) != 0 {
		t.Error("nil login must not mutate state")
	}
}

func TestLogoutPersistsImmediately(t *testing.T) {
	ctx := context.Background()
	c, ks := setupController(t, time.Hour)

	c.Login(ctx, &store.User{ID: "u1", Role: "recruiter"})
	c.Logout(ctx)

	if c.User() != nil {
		t.Error("user still set after logout")
	}
	if c.Saving() {
		t.Error("logout must clear the saving indicator, not wait out the debounce")
	}

	// A reload must not resurrect the session.
	reloaded := New(ctx, ks, 0)
	if reloaded.User() != nil {
		t.Error("stale session resurrected after logout")
	}
	if reloaded.View() != "landing" {
		t.Errorf("view after logout reload = %q, want landing", reloaded.View())
	}
}

func TestSavingDebounceCoalesces(t *testing.T) {
	ctx := context.Background()
	c, _ := setupController(t, 80*time.Millisecond)

	c.SetTheme(ctx, "light")
	if !c.Saving() {
		t.Fatal("saving flag should set on write")
	}

	// A second write inside the window resets the timer rather than
	// queuing a second clear.
	time.Sleep(50 * time.Millisecond)
	c.SetTheme(ctx, "dark")

	time.Sleep(50 * time.Millisecond)
	// 100ms after the first write, 50ms after the last: still saving.
	if !c.Saving() {
		t.Error("flag cleared relative to the first write, not the last")
	}

	time.Sleep(60 * time.Millisecond)
	if c.Saving() {
		t.Error("flag should clear once the debounce elapses after the last write")
	}
}

func TestActivityLogBound(t *testing.T) {
	ctx := context.Background()
	c, ks := setupController(t, 0)

	for i := 0; i < 60; i++ {
		c.LogActivity(ctx, fmt.Sprintf("entry %d", i), "", "test")
	}

	acts := c.Activities()
	if len(acts) != 50 {
		t.Fatalf("activity log has %d entries, want 50", len(acts))
	}
	// Newest first: the last appended entry leads, the 50 retained are the
	// most recent 50 of the 60.
	if acts[0].Title != "entry 59" {
		t.Errorf("newest entry = %q, want entry 59", acts[0].Title)
	}
	if acts[49].Title != "entry 10" {
		t.Errorf("oldest retained = %q, want entry 10", acts[49].Title)
	}

	// The persisted slice is bounded too.
	persisted := keystore.Load(ctx, ks, "activities", []store.Activity{})
	if len(persisted) != 50 {
		t.Errorf("persisted activity log has %d entries, want 50", len(persisted))
	}
}

func TestAddCandidateDualWrite(t *testing.T) {
	ctx := context.Background()
	c, _ := setupController(t, 0)

	cand := c.AddCandidate(ctx, store.Candidate{
		Name:      "Ada Lovelace",
		Email:     "ada@x.com",
		RequestID: "req-1",
	})

	if cand.Role != "Unspecified" || cand.Source != "Manual Entry" || cand.Rating != 0 {
		t.Errorf("optional fields not defaulted: %+v", cand)
	}
	if got := c.Candidates(); len(got) != 1 {
		t.Fatalf("candidate count = %d, want 1", len(got))
	}

	subs := c.Submissions()
	if len(subs) != 1 {
		t.Fatalf("submission count = %d, want 1", len(subs))
	}
	if subs[0].CandidateName != "Ada Lovelace" || subs[0].CandidateEmail != "ada@x.com" {
		t.Errorf("derived submission does not mirror the candidate: %+v", subs[0])
	}
	if subs[0].RequestID != "req-1" {
		t.Errorf("derived submission request = %q, want req-1", subs[0].RequestID)
	}
}

func TestAddCandidateWithoutRequestAddsNoSubmission(t *testing.T) {
	ctx := context.Background()
	c, _ := setupController(t, 0)

	c.AddCandidate(ctx, store.Candidate{Name: "Solo", Email: "solo@x.com"})
	if len(c.Candidates()) != 1 {
		t.Fatalf("candidate count = %d, want 1", len(c.Candidates()))
	}
	if len(c.Submissions()) != 0 {
		t.Errorf("submission count = %d, want 0", len(c.Submissions()))
	}
}

func TestRecordSubmissionDefaultsScore(t *testing.T) {
	ctx := context.Background()
	c, _ := setupController(t, 0)

	sub, cand := c.RecordSubmission(ctx,
		store.Submission{RequestID: "req-9", Partner: "Acme Staffing"},
		store.Candidate{Name: "Grace Hopper", Email: "grace@x.com"},
	)

	if sub.MatchScore != 85 {
		t.Errorf("match score = %d, want default 85", sub.MatchScore)
	}
	if cand.Source != "Partner Submission" {
		t.Errorf("candidate source = %q, want Partner Submission", cand.Source)
	}
	if sub.CandidateName != "Grace Hopper" {
		t.Errorf("submission candidate name = %q", sub.CandidateName)
	}
	if len(c.Submissions()) != 1 || len(c.Candidates()) != 1 {
		t.Error("dual insert did not produce exactly one of each record")
	}
}

func TestUpdateSubmissionStage(t *testing.T) {
	ctx := context.Background()
	c, _ := setupController(t, 0)

	sub, _ := c.RecordSubmission(ctx,
		store.Submission{RequestID: "req-9"},
		store.Candidate{Name: "Grace Hopper", Email: "grace@x.com"},
	)

	stage := "Interview"
	updated, ok := c.UpdateSubmission(ctx, sub.ID, SubmissionPatch{Stage: &stage})
	if !ok {
		t.Fatal("submission not found")
	}
	if updated.Stage != "Interview" {
		t.Errorf("stage = %q, want Interview", updated.Stage)
	}
	if updated.Status != "Submitted" {
		t.Errorf("status = %q, a stage-only patch must leave status alone", updated.Status)
	}

	// stage changes land in the activity log
	found := false
	for _, act := range c.Activities() {
		if act.Title == "Submission advanced" {
			found = true
		}
	}
	if !found {
		t.Error("expected a Submission advanced activity entry")
	}

	if _, ok := c.UpdateSubmission(ctx, "missing", SubmissionPatch{Stage: &stage}); ok {
		t.Error("unknown id should report not found")
	}
}

func TestRequestLifecycle(t *testing.T) {
	ctx := context.Background()
	c, _ := setupController(t, 0)

	first := c.AddRequest(ctx, store.JobRequest{Title: "Backend Engineer", Client: "Acme"})
	second := c.AddRequest(ctx, store.JobRequest{Title: "Data Analyst", Client: "Beta"})

	reqs := c.Requests()
	if len(reqs) != 2 || reqs[0].ID != second.ID {
		t.Fatalf("insert-at-front violated: %+v", reqs)
	}

	status := "Filled"
	c.UpdateRequest(ctx, first.ID, RequestPatch{Status: &status})
	reqs = c.Requests()
	if reqs[1].Status != "Filled" {
		t.Errorf("update did not merge: %+v", reqs[1])
	}
	if reqs[1].Title != "Backend Engineer" {
		t.Errorf("update clobbered unrelated field: %+v", reqs[1])
	}

	c.DeleteRequest(ctx, second.ID)
	reqs = c.Requests()
	if len(reqs) != 1 || reqs[0].ID != first.ID {
		t.Fatalf("delete removed the wrong request: %+v", reqs)
	}
}

func TestDeleteRequestLeavesSelection(t *testing.T) {
	ctx := context.Background()
	c, _ := setupController(t, 0)

	req := c.AddRequest(ctx, store.JobRequest{Title: "SRE", Client: "Gamma"})
	c.SelectRequest(ctx, req.ID)
	c.DeleteRequest(ctx, req.ID)

	// The delete itself must not reset navigation; that is the caller's job.
	if c.SelectedRequestID() != req.ID {
		t.Errorf("selected request id changed on delete: %q", c.SelectedRequestID())
	}
}

func TestConversations(t *testing.T) {
	ctx := context.Background()
	c, _ := setupController(t, 0)

	conv := c.StartConversation(ctx, "u1")
	c.AppendMessage(ctx, conv.ID, store.Message{Author: "u1", Body: "hello"})
	c.AppendMessage(ctx, "missing", store.Message{Author: "u1", Body: "dropped"})

	convs := c.Conversations()
	if len(convs) != 1 {
		t.Fatalf("conversation count = %d, want 1", len(convs))
	}
	if len(convs[0].Messages) != 1 || convs[0].Messages[0].Body != "hello" {
		t.Errorf("messages = %+v", convs[0].Messages)
	}
}
