// Package store defines the domain records shared across the service.
// Records are plain structs with no relational integrity beyond convention:
// request references on candidates and submissions are never validated
// against an existing request.
package store

import "time"

// User is an account record. Password may be a bcrypt hash or, for seeded
// legacy accounts, the plain value; internal/auth handles both.
type User struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
	Status   string `json:"status"`
	Company  string `json:"company,omitempty"`
}

const (
	StatusActive = "active"
	StatusLocked = "locked"
)

// JobRequest is an open position a client wants filled.
type JobRequest struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Client      string    `json:"client"`
	Location    string    `json:"location"`
	Type        string    `json:"type"`
	SalaryMin   int       `json:"salaryMin"`
	SalaryMax   int       `json:"salaryMax"`
	Skills      []string  `json:"skills"`
	Status      string    `json:"status"`
	Priority    string    `json:"priority"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Candidate is a person in the talent pool, optionally tied to a request.
type Candidate struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Phone         string    `json:"phone,omitempty"`
	Role          string    `json:"role"`
	Source        string    `json:"source"`
	Rating        int       `json:"rating"`
	MatchScore    int       `json:"matchScore"`
	Status        string    `json:"status"`
	RequestID     string    `json:"requestId,omitempty"`
	Skills        []string  `json:"skills"`
	Experience    string    `json:"experience,omitempty"`
	ResumeSummary string    `json:"resumeSummary,omitempty"`
	ResumeKey     string    `json:"resumeKey,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

// Submission records a candidate put forward for a request, typically by a
// partner agency.
type Submission struct {
	ID             string    `json:"id"`
	RequestID      string    `json:"requestId"`
	CandidateName  string    `json:"candidateName"`
	CandidateEmail string    `json:"candidateEmail"`
	Partner        string    `json:"partner,omitempty"`
	MatchScore     int       `json:"matchScore"`
	Status         string    `json:"status"`
	Stage          string    `json:"stage"`
	CreatedAt      time.Time `json:"createdAt"`
}

// Activity is one entry in the rolling audit log.
type Activity struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Kind        string    `json:"kind"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Message is a single turn in a conversation.
type Message struct {
	Author string    `json:"author"`
	Body   string    `json:"body"`
	SentAt time.Time `json:"sentAt"`
}

// Conversation is an assistant chat thread owned by one participant.
type Conversation struct {
	ID          string    `json:"id"`
	Participant string    `json:"participant"`
	Messages    []Message `json:"messages"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Comment is a note attached to a request.
type Comment struct {
	ID        string    `json:"id"`
	RequestID string    `json:"requestId"`
	Author    string    `json:"author"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"createdAt"`
}

// SeedUsers is the built-in account list used when no accounts have been
// persisted yet. Passwords are plain values on purpose: these are demo
// accounts, and the login check treats non-bcrypt stored passwords as legacy.
func SeedUsers() []User {
	return []User{
		{ID: "usr_admin", Name: "Dana Whitfield", Email: "admin@talentdesk.io", Password: "admin123", Role: "admin", Status: StatusActive, Company: "TalentDesk"},
		{ID: "usr_recruiter", Name: "Marcus Obi", Email: "recruiter@talentdesk.io", Password: "recruit123", Role: "recruiter", Status: StatusActive, Company: "TalentDesk"},
		{ID: "usr_client", Name: "Priya Shah", Email: "client@acme.example", Password: "client123", Role: "client", Status: StatusActive, Company: "Acme Corp"},
	}
}
