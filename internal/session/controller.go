// Package session keeps the application state slices in sync with the keyed
// store. Every named slice is hydrated once at startup with a documented
// fallback and written through on every mutation. Mutations cannot fail
// toward the caller: missing fields are defaulted and persistence failures
// are absorbed at the keystore boundary.
package session

import (
	"context"
	"sync"
	"time"

	"talentdesk/api/internal/keystore"
	"talentdesk/api/internal/rbac"
	"talentdesk/api/internal/store"
	"talentdesk/api/internal/util"
)

const (
	keySessionUser      = "session_user"
	keySessionView      = "session_view"
	keySessionRequestID = "session_request_id"
	keyTheme            = "theme"
	keyRequests         = "requests"
	keyCandidates       = "candidates"
	keySubmissions      = "submissions"
	keyActivities       = "activities"
	keyConversations    = "conversations"
	keyComments         = "comments"
	keyAllUsers         = "all_users"
)

const (
	defaultView   = "landing"
	defaultTheme  = "dark"
	maxActivities = 50
)

// DefaultSaveDebounce is how long the saving indicator stays set after the
// last write in a burst.
const DefaultSaveDebounce = 800 * time.Millisecond

// Controller owns the in-memory state slices and their write-through to the
// keyed store. All mutations are serialized by a single mutex; the only
// timer involved drives the user-facing saving flag, never the writes
// themselves.
type Controller struct {
	store    *keystore.Store
	debounce time.Duration

	mu                sync.Mutex
	user              *store.User
	view              string
	theme             string
	selectedRequestID string
	requests          []store.JobRequest
	candidates        []store.Candidate
	submissions       []store.Submission
	activities        []store.Activity
	conversations     []store.Conversation
	comments          []store.Comment
	users             []store.User

	saveMu    sync.Mutex
	saving    bool
	saveGen   uint64
	saveTimer *time.Timer
}

// New constructs a controller and hydrates every slice from the store.
// debounce <= 0 selects DefaultSaveDebounce.
func New(ctx context.Context, ks *keystore.Store, debounce time.Duration) *Controller {
	if debounce <= 0 {
		debounce = DefaultSaveDebounce
	}
	c := &Controller{store: ks, debounce: debounce}
	c.hydrate(ctx)
	return c
}

func (c *Controller) hydrate(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.user = keystore.Load[*store.User](ctx, c.store, keySessionUser, nil)
	c.view = keystore.Load(ctx, c.store, keySessionView, defaultView)
	c.theme = keystore.Load(ctx, c.store, keyTheme, defaultTheme)
	c.selectedRequestID = keystore.Load(ctx, c.store, keySessionRequestID, "")
	c.requests = keystore.Load(ctx, c.store, keyRequests, []store.JobRequest{})
	c.candidates = keystore.Load(ctx, c.store, keyCandidates, []store.Candidate{})
	c.submissions = keystore.Load(ctx, c.store, keySubmissions, []store.Submission{})
	c.activities = keystore.Load(ctx, c.store, keyActivities, []store.Activity{})
	c.conversations = keystore.Load(ctx, c.store, keyConversations, []store.Conversation{})
	c.comments = keystore.Load(ctx, c.store, keyComments, []store.Comment{})
	c.users = keystore.Load(ctx, c.store, keyAllUsers, store.SeedUsers())
}

// persist writes one slice through to the store and arms the saving flag.
// The write itself happens immediately; only the flag is debounced.
func (c *Controller) persist(ctx context.Context, key string, value any) {
	c.store.Save(ctx, key, value)
	c.markSaving()
}

func (c *Controller) markSaving() {
	c.saveMu.Lock()
	defer c.saveMu.Unlock()

	c.saving = true
	c.saveGen++
	gen := c.saveGen
	if c.saveTimer != nil {
		c.saveTimer.Stop()
	}
	c.saveTimer = time.AfterFunc(c.debounce, func() {
		c.saveMu.Lock()
		defer c.saveMu.Unlock()
		// A newer write re-armed the flag; leave it to that write's timer.
		if c.saveGen == gen {
			c.saving = false
		}
	})
}

func (c *Controller) clearSaving() {
	c.saveMu.Lock()
	defer c.saveMu.Unlock()
	c.saving = false
	c.saveGen++
	if c.saveTimer != nil {
		c.saveTimer.Stop()
	}
}

// Saving reports whether the transient saving indicator is set.
func (c *Controller) Saving() bool {
	c.saveMu.Lock()
	defer c.saveMu.Unlock()
	return c.saving
}

// Login sets the authenticated identity and routes the session to the role's
// landing view. A nil user is a no-op; credential checks live with the
// caller, not here.
func (c *Controller) Login(ctx context.Context, user *store.User) {
	if user == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	copied := *user
	c.user = &copied
	c.view = rbac.LandingView(rbac.Normalize(user.Role))
	c.persist(ctx, keySessionUser, c.user)
	c.persist(ctx, keySessionView, c.view)
	c.logActivity(ctx, "User login", user.Name+" signed in", "auth")
}

// Logout clears identity and view and persists immediately, bypassing the
// saving-flag debounce, so a reload cannot resurrect a stale session.
func (c *Controller) Logout(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.user = nil
	c.view = defaultView
	c.store.Save(ctx, keySessionUser, nil)
	c.store.Save(ctx, keySessionView, c.view)
	c.clearSaving()
}

// AddRequest inserts a request at the front of the collection, defaulting
// identity and status.
func (c *Controller) AddRequest(ctx context.Context, req store.JobRequest) store.JobRequest {
	c.mu.Lock()
	defer c.mu.Unlock()

	if req.ID == "" {
		req.ID = util.NumericID()
	}
	if req.Status == "" {
		req.Status = "Open"
	}
	if req.Priority == "" {
		req.Priority = "Medium"
	}
	if req.Skills == nil {
		req.Skills = []string{}
	}
	if req.CreatedAt.IsZero() {
		req.CreatedAt = time.Now()
	}

	c.requests = append([]store.JobRequest{req}, c.requests...)
	c.persist(ctx, keyRequests, c.requests)
	c.logActivity(ctx, "Request created", req.Title+" for "+req.Client, "request")
	return req
}

// RequestPatch holds the fields UpdateRequest may merge; nil fields are
// left unchanged.
type RequestPatch struct {
	Title       *string
	Location    *string
	Type        *string
	SalaryMin   *int
	SalaryMax   *int
	Skills      *[]string
	Status      *string
	Priority    *string
	Description *string
}

// UpdateRequest merges patch into the request with the given id. Unknown
// ids are ignored, matching the rest of the mutation surface.
func (c *Controller) UpdateRequest(ctx context.Context, id string, patch RequestPatch) {
	c.mu.Lock()
	defer c.mu.Unlock()

	updated := false
	for i := range c.requests {
		if c.requests[i].ID != id {
			continue
		}
		req := &c.requests[i]
		if patch.Title != nil {
			req.Title = *patch.Title
		}
		if patch.Location != nil {
			req.Location = *patch.Location
		}
		if patch.Type != nil {
			req.Type = *patch.Type
		}
		if patch.SalaryMin != nil {
			req.SalaryMin = *patch.SalaryMin
		}
		if patch.SalaryMax != nil {
			req.SalaryMax = *patch.SalaryMax
		}
		if patch.Skills != nil {
			req.Skills = *patch.Skills
		}
		if patch.Status != nil {
			req.Status = *patch.Status
		}
		if patch.Priority != nil {
			req.Priority = *patch.Priority
		}
		if patch.Description != nil {
			req.Description = *patch.Description
		}
		updated = true
		break
	}
	if !updated {
		return
	}
	c.persist(ctx, keyRequests, c.requests)
	c.logActivity(ctx, "Request updated", "Request "+id+" updated", "request")
}

// DeleteRequest removes the request with the given id. The selected-request
// slice is deliberately left alone; resetting navigation after a delete is
// the caller's responsibility.
func (c *Controller) DeleteRequest(ctx context.Context, id string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	filtered := c.requests[:0:0]
	for _, req := range c.requests {
		if req.ID != id {
			filtered = append(filtered, req)
		}
	}
	if len(filtered) == len(c.requests) {
		return
	}
	c.requests = filtered
	c.persist(ctx, keyRequests, c.requests)
}

// AddCandidate completes the record by defaulting every optional field,
// inserts it at the front, and, when the candidate carries a request
// reference, synthesizes a matching submission. The candidate and the
// derived submission are two independent writes, not a transaction.
func (c *Controller) AddCandidate(ctx context.Context, cand store.Candidate) store.Candidate {
	c.mu.Lock()
	defer c.mu.Unlock()

	cand = defaultCandidate(cand)
	c.candidates = append([]store.Candidate{cand}, c.candidates...)
	c.persist(ctx, keyCandidates, c.candidates)
	c.logActivity(ctx, "Candidate added", cand.Name+" ("+cand.Role+")", "candidate")

	if cand.RequestID != "" {
		sub := store.Submission{
			ID:             util.NewID("sub"),
			RequestID:      cand.RequestID,
			CandidateName:  cand.Name,
			CandidateEmail: cand.Email,
			MatchScore:     cand.MatchScore,
			Status:         "Submitted",
			Stage:          "Screening",
			CreatedAt:      time.Now(),
		}
		c.submissions = append([]store.Submission{sub}, c.submissions...)
		c.persist(ctx, keySubmissions, c.submissions)
	}
	return cand
}

// RecordSubmission is the partner-side dual insert: always creates both a
// submission and a candidate built from the submitted data. A zero match
// score defaults to 85.
func (c *Controller) RecordSubmission(ctx context.Context, sub store.Submission, cand store.Candidate) (store.Submission, store.Candidate) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if sub.ID == "" {
		sub.ID = util.NewID("sub")
	}
	if sub.MatchScore == 0 {
		sub.MatchScore = 85
	}
	if sub.Status == "" {
		sub.Status = "Submitted"
	}
	if sub.Stage == "" {
		sub.Stage = "Screening"
	}
	if sub.CreatedAt.IsZero() {
		sub.CreatedAt = time.Now()
	}
	if sub.CandidateName == "" {
		sub.CandidateName = cand.Name
	}
	if sub.CandidateEmail == "" {
		sub.CandidateEmail = cand.Email
	}

	cand.Name = sub.CandidateName
	cand.Email = sub.CandidateEmail
	cand.RequestID = sub.RequestID
	if cand.MatchScore == 0 {
		cand.MatchScore = sub.MatchScore
	}
	if cand.Source == "" {
		cand.Source = "Partner Submission"
	}
	cand = defaultCandidate(cand)

	c.submissions = append([]store.Submission{sub}, c.submissions...)
	c.persist(ctx, keySubmissions, c.submissions)
	c.candidates = append([]store.Candidate{cand}, c.candidates...)
	c.persist(ctx, keyCandidates, c.candidates)
	c.logActivity(ctx, "Submission received", sub.CandidateName+" submitted for request "+sub.RequestID, "submission")
	return sub, cand
}

// SubmissionPatch holds the fields UpdateSubmission may merge; nil fields
// are left unchanged.
type SubmissionPatch struct {
	Status *string
	Stage  *string
}

// UpdateSubmission merges patch into the submission with the given id and
// reports whether it was found.
func (c *Controller) UpdateSubmission(ctx context.Context, id string, patch SubmissionPatch) (store.Submission, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.submissions {
		if c.submissions[i].ID != id {
			continue
		}
		sub := &c.submissions[i]
		if patch.Status != nil {
			sub.Status = *patch.Status
		}
		if patch.Stage != nil && *patch.Stage != sub.Stage {
			sub.Stage = *patch.Stage
			c.logActivity(ctx, "Submission advanced", sub.CandidateName+" moved to "+sub.Stage, "submission")
		}
		c.persist(ctx, keySubmissions, c.submissions)
		return *sub, true
	}
	return store.Submission{}, false
}

func defaultCandidate(cand store.Candidate) store.Candidate {
	if cand.ID == "" {
		cand.ID = util.NewID("cand")
	}
	if cand.Role == "" {
		cand.Role = "Unspecified"
	}
	if cand.Source == "" {
		cand.Source = "Manual Entry"
	}
	if cand.Status == "" {
		cand.Status = "New"
	}
	if cand.Skills == nil {
		cand.Skills = []string{}
	}
	if cand.CreatedAt.IsZero() {
		cand.CreatedAt = time.Now()
	}
	return cand
}

// LogActivity prepends an entry to the rolling audit log, keeping the 50
// most recent.
func (c *Controller) LogActivity(ctx context.Context, title, description, kind string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.logActivity(ctx, title, description, kind)
}

// logActivity assumes c.mu is held.
func (c *Controller) logActivity(ctx context.Context, title, description, kind string) {
	entry := store.Activity{
		ID:          util.NewID("act"),
		Title:       title,
		Description: description,
		Kind:        kind,
		CreatedAt:   time.Now(),
	}
	c.activities = append([]store.Activity{entry}, c.activities...)
	if len(c.activities) > maxActivities {
		c.activities = c.activities[:maxActivities]
	}
	c.persist(ctx, keyActivities, c.activities)
}

// SetView persists the current view identifier.
func (c *Controller) SetView(ctx context.Context, view string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.view = view
	c.persist(ctx, keySessionView, view)
}

// SetTheme persists the UI theme.
func (c *Controller) SetTheme(ctx context.Context, theme string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.theme = theme
	c.persist(ctx, keyTheme, theme)
}

// SelectRequest persists the currently selected request id. An empty id
// clears the selection.
func (c *Controller) SelectRequest(ctx context.Context, id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selectedRequestID = id
	c.persist(ctx, keySessionRequestID, id)
}

// AddComment attaches a note to a request.
func (c *Controller) AddComment(ctx context.Context, comment store.Comment) store.Comment {
	c.mu.Lock()
	defer c.mu.Unlock()

	if comment.ID == "" {
		comment.ID = util.NewID("cmt")
	}
	if comment.CreatedAt.IsZero() {
		comment.CreatedAt = time.Now()
	}
	c.comments = append([]store.Comment{comment}, c.comments...)
	c.persist(ctx, keyComments, c.comments)
	return comment
}

// StartConversation opens a new assistant thread for a participant.
func (c *Controller) StartConversation(ctx context.Context, participant string) store.Conversation {
	c.mu.Lock()
	defer c.mu.Unlock()

	conv := store.Conversation{
		ID:          util.NewID("conv"),
		Participant: participant,
		Messages:    []store.Message{},
		CreatedAt:   time.Now(),
	}
	c.conversations = append([]store.Conversation{conv}, c.conversations...)
	c.persist(ctx, keyConversations, c.conversations)
	return conv
}

// AppendMessage adds a turn to an existing conversation. Unknown ids are
// ignored.
func (c *Controller) AppendMessage(ctx context.Context, conversationID string, msg store.Message) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.conversations {
		if c.conversations[i].ID != conversationID {
			continue
		}
		if msg.SentAt.IsZero() {
			msg.SentAt = time.Now()
		}
		c.conversations[i].Messages = append(c.conversations[i].Messages, msg)
		c.persist(ctx, keyConversations, c.conversations)
		return
	}
}

// AddUser appends an account record and persists the account list.
func (c *Controller) AddUser(ctx context.Context, user store.User) store.User {
	c.mu.Lock()
	defer c.mu.Unlock()

	if user.ID == "" {
		user.ID = util.NewID("usr")
	}
	if user.Status == "" {
		user.Status = store.StatusActive
	}
	c.users = append(c.users, user)
	c.persist(ctx, keyAllUsers, c.users)
	c.logActivity(ctx, "Account created", user.Email+" ("+user.Role+")", "admin")
	return user
}

// User returns a copy of the authenticated identity, or nil.
func (c *Controller) User() *store.User {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.user == nil {
		return nil
	}
	copied := *c.user
	return &copied
}

func (c *Controller) View() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.view
}

func (c *Controller) Theme() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.theme
}

func (c *Controller) SelectedRequestID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selectedRequestID
}

func (c *Controller) Requests() []store.JobRequest {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]store.JobRequest(nil), c.requests...)
}

func (c *Controller) Candidates() []store.Candidate {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]store.Candidate(nil), c.candidates...)
}

func (c *Controller) Submissions() []store.Submission {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]store.Submission(nil), c.submissions...)
}

func (c *Controller) Activities() []store.Activity {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]store.Activity(nil), c.activities...)
}

func (c *Controller) Conversations() []store.Conversation {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]store.Conversation(nil), c.conversations...)
}

func (c *Controller) Comments() []store.Comment {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]store.Comment(nil), c.comments...)
}

func (c *Controller) Users() []store.User {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]store.User(nil), c.users...)
}
