// Package app wires the session controller, auth, AI, search, export and
// email services behind one application facade and exposes them over HTTP.
package app

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"talentdesk/api/internal/ai"
	"talentdesk/api/internal/auth"
	"talentdesk/api/internal/email"
	"talentdesk/api/internal/export"
	"talentdesk/api/internal/keystore"
	"talentdesk/api/internal/rbac"
	"talentdesk/api/internal/resume"
	"talentdesk/api/internal/search"
	"talentdesk/api/internal/session"
	"talentdesk/api/internal/store"
)

// Service is the application facade. The session controller owns all state;
// the surrounding services are optional collaborators that degrade when not
// configured.
type Service struct {
	ctrl    *session.Controller
	ks      *keystore.Store
	ai      *ai.Service
	search  *search.Service
	export  *export.Service
	email   *email.Service
	objects *resume.ObjectStore
}

func NewService(ctrl *session.Controller, ks *keystore.Store, aiSvc *ai.Service, searchSvc *search.Service, exportSvc *export.Service, emailSvc *email.Service, objects *resume.ObjectStore) *Service {
	return &Service{
		ctrl:    ctrl,
		ks:      ks,
		ai:      aiSvc,
		search:  searchSvc,
		export:  exportSvc,
		email:   emailSvc,
		objects: objects,
	}
}

// Bootstrap rebuilds the search indexes from the hydrated state slices. It
// runs once at startup, after the controller has hydrated.
func (s *Service) Bootstrap(ctx context.Context) {
	if s.search == nil {
		return
	}
	candidates := s.ctrl.Candidates()
	requests := s.ctrl.Requests()
	candRecords := make([]search.CandidateRecord, 0, len(candidates))
	for _, c := range candidates {
		candRecords = append(candRecords, candidateRecord(c))
	}
	reqRecords := make([]search.RequestRecord, 0, len(requests))
	for _, r := range requests {
		reqRecords = append(reqRecords, requestRecord(r))
	}
	s.search.ReindexAll(candRecords, reqRecords)
	log.Printf("bootstrap: indexed %d candidates, %d requests", len(candRecords), len(reqRecords))
}

func (s *Service) Ping(ctx context.Context) error {
	return s.ks.Ping(ctx)
}

func (s *Service) SMTPConfigured() bool {
	return s.email != nil && s.email.IsConfigured()
}

// Session state

// SessionState is the snapshot returned by GET /api/session.
type SessionState struct {
	Authenticated     bool        `json:"authenticated"`
	User              *store.User `json:"user"`
	View              string      `json:"view"`
	Theme             string      `json:"theme"`
	SelectedRequestID string      `json:"selectedRequestId,omitempty"`
	Saving            bool        `json:"saving"`
	LastSync          string      `json:"lastSync"`
}

func (s *Service) SessionState(ctx context.Context) SessionState {
	user := s.ctrl.User()
	if user != nil {
		scrubbed := *user
		scrubbed.Password = ""
		user = &scrubbed
	}
	return SessionState{
		Authenticated:     user != nil,
		User:              user,
		View:              s.ctrl.View(),
		Theme:             s.ctrl.Theme(),
		SelectedRequestID: s.ctrl.SelectedRequestID(),
		Saving:            s.ctrl.Saving(),
		LastSync:          s.ks.LastSync(ctx),
	}
}

// CurrentUser returns the logged-in user, or nil.
func (s *Service) CurrentUser() *store.User {
	return s.ctrl.User()
}

func (s *Service) Can(role string, action rbac.Action) bool {
	return rbac.Can(rbac.Normalize(role), action)
}

// Auth

// Login authenticates against the stored accounts and activates the session.
func (s *Service) Login(ctx context.Context, emailAddr, password, role string) (store.User, error) {
	user, err := auth.Authenticate(s.ctrl.Users(), emailAddr, password, role)
	if err != nil {
		return store.User{}, err
	}
	s.ctrl.Login(ctx, &user)
	user.Password = ""
	return user, nil
}

func (s *Service) Logout(ctx context.Context) {
	s.ctrl.Logout(ctx)
}

// CreateUser registers an account with a hashed password.
func (s *Service) CreateUser(ctx context.Context, user store.User) (store.User, error) {
	if strings.TrimSpace(user.Email) == "" {
		return store.User{}, domainError(http.StatusUnprocessableEntity, "VALIDATION_ERROR", "email is required", nil)
	}
	for _, existing := range s.ctrl.Users() {
		if strings.EqualFold(existing.Email, user.Email) {
			return store.User{}, domainError(http.StatusConflict, "EMAIL_EXISTS", "Email already registered", nil)
		}
	}
	if user.Password != "" {
		hashed, err := auth.HashPassword(user.Password)
		if err != nil {
			return store.User{}, fmt.Errorf("hash password: %w", err)
		}
		user.Password = hashed
	}
	created := s.ctrl.AddUser(ctx, user)
	created.Password = ""
	return created, nil
}

func (s *Service) Users() []store.User {
	users := s.ctrl.Users()
	out := make([]store.User, len(users))
	for i, u := range users {
		u.Password = ""
		out[i] = u
	}
	return out
}

// Requests

func (s *Service) Requests() []store.JobRequest {
	return s.ctrl.Requests()
}

func (s *Service) CreateRequest(ctx context.Context, req store.JobRequest) store.JobRequest {
	created := s.ctrl.AddRequest(ctx, req)
	if s.search != nil {
		s.search.IndexRequest(requestRecord(created))
	}
	return created
}

func (s *Service) UpdateRequest(ctx context.Context, id string, patch session.RequestPatch) (store.JobRequest, error) {
	req, ok := s.findRequest(id)
	if !ok {
		return store.JobRequest{}, domainError(http.StatusNotFound, "NOT_FOUND", "Request not found", nil)
	}
	s.ctrl.UpdateRequest(ctx, id, patch)
	req, _ = s.findRequest(id)
	if s.search != nil {
		s.search.IndexRequest(requestRecord(req))
	}
	return req, nil
}

func (s *Service) DeleteRequest(ctx context.Context, id string) error {
	if _, ok := s.findRequest(id); !ok {
		return domainError(http.StatusNotFound, "NOT_FOUND", "Request not found", nil)
	}
	s.ctrl.DeleteRequest(ctx, id)
	if s.search != nil {
		s.search.DeleteRequest(id)
	}
	return nil
}

func (s *Service) findRequest(id string) (store.JobRequest, bool) {
	for _, req := range s.ctrl.Requests() {
		if req.ID == id {
			return req, true
		}
	}
	return store.JobRequest{}, false
}

func (s *Service) findCandidate(id string) (store.Candidate, bool) {
	for _, cand := range s.ctrl.Candidates() {
		if cand.ID == id {
			return cand, true
		}
	}
	return store.Candidate{}, false
}

// Candidates

func (s *Service) Candidates() []store.Candidate {
	return s.ctrl.Candidates()
}

func (s *Service) AddCandidate(ctx context.Context, cand store.Candidate) store.Candidate {
	created := s.ctrl.AddCandidate(ctx, cand)
	if s.search != nil {
		s.search.IndexCandidate(candidateRecord(created))
	}
	return created
}

// IntakeResume extracts text from an uploaded resume, asks the AI layer for
// a structured profile, archives the original file when object storage is
// configured, and registers the candidate. A model that is unreachable or
// unparseable degrades to a minimal profile rather than failing the upload.
func (s *Service) IntakeResume(ctx context.Context, filename, mime string, data []byte, requestID string) (store.Candidate, error) {
	text, err := resume.ExtractText(mime, data)
	if err != nil {
		return store.Candidate{}, domainError(http.StatusUnprocessableEntity, "UNSUPPORTED_FILE", err.Error(), nil)
	}

	profile := ai.ResumeProfile{Role: "Unspecified", Summary: snippet(text, 500)}
	if s.ai != nil {
		parsed, err := s.ai.ParseResume(ctx, text)
		if err != nil {
			log.Printf("resume intake: parse failed, using fallback profile: %v", err)
		} else {
			profile = parsed
		}
	}

	cand := store.Candidate{
		Name:          profile.Name,
		Email:         profile.Email,
		Phone:         profile.Phone,
		Role:          profile.Role,
		Skills:        profile.Skills,
		Experience:    profile.Experience,
		ResumeSummary: profile.Summary,
		RequestID:     requestID,
		Source:        "Resume Upload",
	}
	if cand.Name == "" {
		cand.Name = strings.TrimSuffix(filename, pathExt(filename))
	}

	if s.objects != nil {
		key, err := s.objects.Put(ctx, filename, mime, data)
		if err != nil {
			log.Printf("resume intake: archive failed: %v", err)
		} else {
			cand.ResumeKey = key
		}
	}

	return s.AddCandidate(ctx, cand), nil
}

// FetchResume downloads a candidate's archived resume file from object
// storage.
func (s *Service) FetchResume(ctx context.Context, candidateID string) ([]byte, string, error) {
	cand, ok := s.findCandidate(candidateID)
	if !ok {
		return nil, "", domainError(http.StatusNotFound, "NOT_FOUND", "Candidate not found", nil)
	}
	if cand.ResumeKey == "" {
		return nil, "", domainError(http.StatusNotFound, "NOT_FOUND", "No resume on file for this candidate", nil)
	}
	if s.objects == nil {
		return nil, "", domainError(http.StatusServiceUnavailable, "ARCHIVE_UNAVAILABLE", "Resume archive not configured", nil)
	}
	data, err := s.objects.Fetch(ctx, cand.ResumeKey)
	if err != nil {
		return nil, "", fmt.Errorf("fetch resume %s: %w", cand.ResumeKey, err)
	}
	return data, resume.DetectMime(cand.ResumeKey, ""), nil
}

// Submissions

func (s *Service) Submissions() []store.Submission {
	return s.ctrl.Submissions()
}

// RecordSubmission stores the submission and its candidate and notifies
// recruiters by email when SMTP is configured.
func (s *Service) RecordSubmission(ctx context.Context, sub store.Submission, cand store.Candidate) (store.Submission, store.Candidate) {
	created, candidate := s.ctrl.RecordSubmission(ctx, sub, cand)
	if s.search != nil {
		s.search.IndexCandidate(candidateRecord(candidate))
	}
	if s.SMTPConfigured() {
		title := created.RequestID
		if req, ok := s.findRequest(created.RequestID); ok {
			title = req.Title
		}
		recipients := s.recruiterEmails()
		if len(recipients) > 0 {
			go func() {
				if err := s.email.SendSubmissionNotice(recipients, created.CandidateName, title, created.Partner, created.MatchScore); err != nil {
					log.Printf("submission notice: %v", err)
				}
			}()
		}
	}
	return created, candidate
}

// StageInterview is the pipeline stage that triggers a candidate invite.
const StageInterview = "Interview"

// UpdateSubmission merges status/stage changes into a submission. Moving a
// submission into the interview stage emails the candidate an invitation
// when SMTP is configured.
func (s *Service) UpdateSubmission(ctx context.Context, id string, patch session.SubmissionPatch) (store.Submission, error) {
	before, ok := s.findSubmission(id)
	if !ok {
		return store.Submission{}, domainError(http.StatusNotFound, "NOT_FOUND", "Submission not found", nil)
	}

	updated, _ := s.ctrl.UpdateSubmission(ctx, id, patch)

	enteredInterview := updated.Stage == StageInterview && before.Stage != StageInterview
	if enteredInterview && s.SMTPConfigured() && updated.CandidateEmail != "" {
		title := updated.RequestID
		company := ""
		if req, ok := s.findRequest(updated.RequestID); ok {
			title = req.Title
			company = req.Client
		}
		go func() {
			if err := s.email.SendInterviewInvite(updated.CandidateEmail, updated.CandidateName, title, company, "to be scheduled"); err != nil {
				log.Printf("interview invite: %v", err)
			}
		}()
	}
	return updated, nil
}

func (s *Service) findSubmission(id string) (store.Submission, bool) {
	for _, sub := range s.ctrl.Submissions() {
		if sub.ID == id {
			return sub, true
		}
	}
	return store.Submission{}, false
}

func (s *Service) recruiterEmails() []string {
	var out []string
	for _, user := range s.Users() {
		role := rbac.Normalize(user.Role)
		if role == rbac.RoleRecruiter || role == rbac.RoleAdmin {
			out = append(out, user.Email)
		}
	}
	return out
}

// Activities and comments

func (s *Service) Activities() []store.Activity {
	return s.ctrl.Activities()
}

func (s *Service) LogActivity(ctx context.Context, title, description, kind string) {
	s.ctrl.LogActivity(ctx, title, description, kind)
}

func (s *Service) Comments(requestID string) []store.Comment {
	all := s.ctrl.Comments()
	if requestID == "" {
		return all
	}
	out := make([]store.Comment, 0, len(all))
	for _, c := range all {
		if c.RequestID == requestID {
			out = append(out, c)
		}
	}
	return out
}

func (s *Service) AddComment(ctx context.Context, comment store.Comment) (store.Comment, error) {
	if _, ok := s.findRequest(comment.RequestID); !ok {
		return store.Comment{}, domainError(http.StatusNotFound, "NOT_FOUND", "Request not found", nil)
	}
	return s.ctrl.AddComment(ctx, comment), nil
}

// Conversations

func (s *Service) Conversations() []store.Conversation {
	return s.ctrl.Conversations()
}

func (s *Service) StartConversation(ctx context.Context, participant string) store.Conversation {
	return s.ctrl.StartConversation(ctx, participant)
}

// PostMessage appends the user's message to a conversation and, when the AI
// layer is configured, an assistant reply.
func (s *Service) PostMessage(ctx context.Context, conversationID, author, body string) (store.Conversation, error) {
	conv, ok := s.findConversation(conversationID)
	if !ok {
		return store.Conversation{}, domainError(http.StatusNotFound, "NOT_FOUND", "Conversation not found", nil)
	}

	s.ctrl.AppendMessage(ctx, conversationID, store.Message{Author: author, Body: body, SentAt: time.Now().UTC()})

	if s.ai != nil {
		reply, err := s.ai.Assist(ctx, conv.Messages, body)
		if err != nil {
			log.Printf("assistant reply: %v", err)
		} else {
			s.ctrl.AppendMessage(ctx, conversationID, store.Message{Author: "assistant", Body: reply, SentAt: time.Now().UTC()})
		}
	}

	conv, _ = s.findConversation(conversationID)
	return conv, nil
}

func (s *Service) findConversation(id string) (store.Conversation, bool) {
	for _, conv := range s.ctrl.Conversations() {
		if conv.ID == id {
			return conv, true
		}
	}
	return store.Conversation{}, false
}

// Session preferences

func (s *Service) SetView(ctx context.Context, view string) {
	s.ctrl.SetView(ctx, view)
}

func (s *Service) SetTheme(ctx context.Context, theme string) {
	s.ctrl.SetTheme(ctx, theme)
}

func (s *Service) SelectRequest(ctx context.Context, id string) {
	s.ctrl.SelectRequest(ctx, id)
}

// Search

func (s *Service) Search(q search.Query) search.Response {
	if s.search == nil {
		return search.Response{Results: []search.Result{}, Query: q.Text}
	}
	return s.search.Search(q)
}

// AI operations

func (s *Service) ScreenCandidate(ctx context.Context, candidateID, requestID string) (ai.Screening, error) {
	if s.ai == nil {
		return ai.Screening{}, ai.ErrNotConfigured
	}
	cand, ok := s.findCandidate(candidateID)
	if !ok {
		return ai.Screening{}, domainError(http.StatusNotFound, "NOT_FOUND", "Candidate not found", nil)
	}
	req, ok := s.findRequest(requestID)
	if !ok {
		return ai.Screening{}, domainError(http.StatusNotFound, "NOT_FOUND", "Request not found", nil)
	}
	result, err := s.ai.ScreenCandidate(ctx, cand, req)
	if err != nil {
		return ai.Screening{}, err
	}
	s.ctrl.LogActivity(ctx, "AI screening", fmt.Sprintf("%s screened for %s", cand.Name, req.Title), "ai")
	return result, nil
}

func (s *Service) MarketAnalysis(ctx context.Context, requestID string) (ai.MarketReport, error) {
	if s.ai == nil {
		return ai.MarketReport{}, ai.ErrNotConfigured
	}
	req, ok := s.findRequest(requestID)
	if !ok {
		return ai.MarketReport{}, domainError(http.StatusNotFound, "NOT_FOUND", "Request not found", nil)
	}
	return s.ai.MarketAnalysis(ctx, req)
}

func (s *Service) InterviewQuestions(ctx context.Context, requestID string) ([]ai.InterviewQuestion, error) {
	if s.ai == nil {
		return nil, ai.ErrNotConfigured
	}
	req, ok := s.findRequest(requestID)
	if !ok {
		return nil, domainError(http.StatusNotFound, "NOT_FOUND", "Request not found", nil)
	}
	return s.ai.InterviewQuestions(ctx, req)
}

// Exports

func (s *Service) ExportCandidatesCSV() (*export.Result, error) {
	return s.export.CandidatesCSV(s.ctrl.Candidates())
}

func (s *Service) ExportRequestsCSV() (*export.Result, error) {
	return s.export.RequestsCSV(s.ctrl.Requests())
}

func (s *Service) ExportPipelineReport(ctx context.Context, requestID string) (*export.Result, error) {
	req, ok := s.findRequest(requestID)
	if !ok {
		return nil, domainError(http.StatusNotFound, "NOT_FOUND", "Request not found", nil)
	}
	return s.export.PipelineReport(ctx, req, s.ctrl.Candidates(), s.ctrl.Submissions())
}

// Usage and storage

func (s *Service) Usage(ctx context.Context) map[string]int {
	return s.ks.Usage(ctx)
}

// ClearAll wipes every key in the store namespace. The in-memory slices keep
// their values until the next restart; callers are expected to reload.
func (s *Service) ClearAll(ctx context.Context) error {
	return s.ks.ClearAll(ctx)
}

// record mapping

func candidateRecord(c store.Candidate) search.CandidateRecord {
	return search.CandidateRecord{
		ID:     c.ID,
		Name:   c.Name,
		Email:  c.Email,
		Role:   c.Role,
		Skills: c.Skills,
		Status: c.Status,
	}
}

func requestRecord(r store.JobRequest) search.RequestRecord {
	return search.RequestRecord{
		ID:       r.ID,
		Title:    r.Title,
		Client:   r.Client,
		Location: r.Location,
		Skills:   r.Skills,
		Status:   r.Status,
	}
}

// snippet truncates to at most max bytes without splitting a UTF-8 rune.
func snippet(text string, max int) string {
	trimmed := strings.TrimSpace(text)
	if len(trimmed) <= max {
		return trimmed
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(trimmed[cut]) {
		cut--
	}
	return trimmed[:cut]
}

func pathExt(filename string) string {
	idx := strings.LastIndex(filename, ".")
	if idx < 0 {
		return ""
	}
	return filename[idx:]
}
