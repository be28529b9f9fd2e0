package search

import "log"

// Service is the facade that tries Meilisearch first and falls back to the
// in-memory index. The memory index is always kept current so the fallback
// has data the moment Meilisearch disappears.
type Service struct {
	meili  *Meili
	memory *Memory
}

// NewService creates a search service. meili may be nil if Meilisearch is
// not configured.
func NewService(meili *Meili, memory *Memory) *Service {
	if memory == nil {
		memory = NewMemory()
	}
	return &Service{meili: meili, memory: memory}
}

// Search tries Meilisearch if healthy, otherwise the in-memory index.
func (s *Service) Search(q Query) Response {
	if s.meili != nil && s.meili.Healthy() {
		results, total, err := s.meili.Search(q)
		if err == nil {
			return Response{Results: nonNil(results), Total: total, Query: q.Text}
		}
		log.Printf("search: meilisearch error, falling back to memory: %v", err)
	}

	results, total, err := s.memory.Search(q)
	if err != nil {
		log.Printf("search: memory search error: %v", err)
		return Response{Results: []Result{}, Total: 0, Query: q.Text}
	}
	return Response{Results: nonNil(results), Total: total, Query: q.Text}
}

// IndexCandidate updates both indexes; the Meilisearch push is
// fire-and-forget.
func (s *Service) IndexCandidate(c CandidateRecord) {
	s.memory.IndexCandidate(c)
	if s.meili == nil || !s.meili.Healthy() {
		return
	}
	go func() {
		if err := s.meili.IndexCandidate(c); err != nil {
			log.Printf("search: index candidate %s: %v", c.ID, err)
		}
	}()
}

// IndexRequest updates both indexes; the Meilisearch push is
// fire-and-forget.
func (s *Service) IndexRequest(r RequestRecord) {
	s.memory.IndexRequest(r)
	if s.meili == nil || !s.meili.Healthy() {
		return
	}
	go func() {
		if err := s.meili.IndexRequest(r); err != nil {
			log.Printf("search: index request %s: %v", r.ID, err)
		}
	}()
}

// DeleteRequest removes a request from both indexes (fire-and-forget).
func (s *Service) DeleteRequest(id string) {
	s.memory.DeleteRequest(id)
	if s.meili == nil || !s.meili.Healthy() {
		return
	}
	go func() {
		if err := s.meili.DeleteRequest(id); err != nil {
			log.Printf("search: delete request %s: %v", id, err)
		}
	}()
}

// ReindexAll pushes full snapshots into both indexes. Called at bootstrap.
func (s *Service) ReindexAll(candidates []CandidateRecord, requests []RequestRecord) {
	for _, c := range candidates {
		s.memory.IndexCandidate(c)
	}
	for _, r := range requests {
		s.memory.IndexRequest(r)
	}

	if s.meili == nil || !s.meili.Healthy() {
		return
	}
	if err := s.meili.IndexCandidates(candidates); err != nil {
		log.Printf("search: reindex candidates: %v", err)
	}
	if err := s.meili.IndexRequests(requests); err != nil {
		log.Printf("search: reindex requests: %v", err)
	}
}

func nonNil(r []Result) []Result {
	if r == nil {
		return []Result{}
	}
	return r
}
