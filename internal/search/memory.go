package search

import (
	"sort"
	"strings"
	"sync"
)

// Memory is the fallback searcher: a mutex-guarded snapshot of candidate
// and request records matched by case-insensitive substring. It doubles as
// the always-available index the facade keeps current.
type Memory struct {
	mu         sync.RWMutex
	candidates map[string]CandidateRecord
	requests   map[string]RequestRecord
}

func NewMemory() *Memory {
	return &Memory{
		candidates: make(map[string]CandidateRecord),
		requests:   make(map[string]RequestRecord),
	}
}

// Healthy always reports true; the in-memory index cannot go away.
func (m *Memory) Healthy() bool { return true }

func (m *Memory) IndexCandidate(c CandidateRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.candidates[c.ID] = c
}

func (m *Memory) IndexRequest(r RequestRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests[r.ID] = r
}

func (m *Memory) DeleteRequest(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.requests, id)
}

// Search matches the query text against every indexed field.
func (m *Memory) Search(q Query) ([]Result, int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	limit := q.Limit
	if limit <= 0 {
		limit = 20
	}
	needle := strings.ToLower(strings.TrimSpace(q.Text))

	var results []Result
	if q.FilterType == "" || q.FilterType == ResultCandidate {
		for _, c := range m.candidates {
			if matches(needle, c.Name, c.Email, c.Role, strings.Join(c.Skills, " ")) {
				results = append(results, Result{
					Type:    ResultCandidate,
					ID:      c.ID,
					Title:   c.Name,
					Snippet: firstNonBlank(c.Role, c.Email),
					Status:  c.Status,
				})
			}
		}
	}
	if q.FilterType == "" || q.FilterType == ResultRequest {
		for _, r := range m.requests {
			if matches(needle, r.Title, r.Client, r.Location, strings.Join(r.Skills, " ")) {
				results = append(results, Result{
					Type:    ResultRequest,
					ID:      r.ID,
					Title:   r.Title,
					Snippet: firstNonBlank(r.Client, r.Location),
					Status:  r.Status,
				})
			}
		}
	}

	// Map iteration order is random; keep output stable for callers.
	sort.Slice(results, func(i, j int) bool {
		if results[i].Type != results[j].Type {
			return results[i].Type < results[j].Type
		}
		return results[i].ID < results[j].ID
	})

	total := len(results)
	if len(results) > limit {
		results = results[:limit]
	}
	return results, total, nil
}

func matches(needle string, fields ...string) bool {
	if needle == "" {
		return true
	}
	for _, field := range fields {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}
