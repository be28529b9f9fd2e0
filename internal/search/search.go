package search

// ResultType identifies the kind of entity in a search result.
type ResultType string

const (
	ResultCandidate ResultType = "candidate"
	ResultRequest   ResultType = "request"
)

// Result is a single search hit returned to the caller.
type Result struct {
	Type    ResultType `json:"type"`
	ID      string     `json:"id"`
	Title   string     `json:"title"`
	Snippet string     `json:"snippet"`
	Status  string     `json:"status,omitempty"`
}

// Query describes a search request.
type Query struct {
	Text       string
	FilterType ResultType // empty = all types
	Limit      int
}

// Response is the envelope returned by the search endpoint.
type Response struct {
	Results []Result `json:"results"`
	Total   int      `json:"total"`
	Query   string   `json:"query"`
}

// Searcher can execute a full-text search.
type Searcher interface {
	Search(q Query) ([]Result, int, error)
	Healthy() bool
}

// CandidateRecord is the data indexed for a candidate.
type CandidateRecord struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Email  string   `json:"email"`
	Role   string   `json:"role"`
	Skills []string `json:"skills"`
	Status string   `json:"status"`
}

// RequestRecord is the data indexed for a job request.
type RequestRecord struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Client   string   `json:"client"`
	Location string   `json:"location"`
	Skills   []string `json:"skills"`
	Status   string   `json:"status"`
}
