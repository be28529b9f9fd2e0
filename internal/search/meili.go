package search

import (
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"sync/atomic"
	"time"

	meili "github.com/meilisearch/meilisearch-go"
)

const (
	idxCandidates = "talentdesk_candidates"
	idxRequests   = "talentdesk_requests"
)

// Meili implements Searcher via Meilisearch.
type Meili struct {
	client  meili.ServiceManager
	healthy atomic.Bool
	done    chan struct{}
}

// NewMeili creates a Meilisearch client and configures indexes. The client
// starts unhealthy if the initial connection fails; a background loop keeps
// probing so a late-starting Meilisearch is picked up.
func NewMeili(url, apiKey string) *Meili {
	client := meili.New(url, meili.WithAPIKey(apiKey))

	m := &Meili{
		client: client,
		done:   make(chan struct{}),
	}

	if _, err := client.Health(); err != nil {
		log.Printf("search: meilisearch unavailable at %s: %v", url, err)
		m.healthy.Store(false)
	} else {
		m.healthy.Store(true)
		m.configureIndexes()
	}

	go m.healthLoop()
	return m
}

func (m *Meili) configureIndexes() {
	indexes := []struct {
		uid        string
		filterable []string
		searchable []string
	}{
		{
			uid:        idxCandidates,
			filterable: []string{"status", "role"},
			searchable: []string{"name", "email", "role", "skills"},
		},
		{
			uid:        idxRequests,
			filterable: []string{"status"},
			searchable: []string{"title", "client", "location", "skills"},
		},
	}

	for _, idx := range indexes {
		if _, err := m.client.CreateIndex(&meili.IndexConfig{
			Uid:        idx.uid,
			PrimaryKey: "id",
		}); err != nil {
			log.Printf("search: create index %s (may already exist): %v", idx.uid, err)
		}

		index := m.client.Index(idx.uid)
		filterableInterface := make([]interface{}, len(idx.filterable))
		for i, v := range idx.filterable {
			filterableInterface[i] = v
		}
		if _, err := index.UpdateFilterableAttributes(&filterableInterface); err != nil {
			log.Printf("search: update filterable attrs for %s: %v", idx.uid, err)
		}
		if _, err := index.UpdateSearchableAttributes(&idx.searchable); err != nil {
			log.Printf("search: update searchable attrs for %s: %v", idx.uid, err)
		}
	}
}

func (m *Meili) healthLoop() {
	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-m.done:
			return
		case <-ticker.C:
			_, err := m.client.Health()
			wasHealthy := m.healthy.Load()
			m.healthy.Store(err == nil)
			if err == nil && !wasHealthy {
				log.Println("search: meilisearch recovered, reconfiguring indexes")
				m.configureIndexes()
			}
		}
	}
}

// Close stops the background health monitor.
func (m *Meili) Close() {
	close(m.done)
}

// Healthy reports whether Meilisearch is reachable.
func (m *Meili) Healthy() bool {
	return m.healthy.Load()
}

// Search queries both indexes (or a filtered subset) and merges results.
func (m *Meili) Search(q Query) ([]Result, int, error) {
	if !m.healthy.Load() {
		return nil, 0, fmt.Errorf("meilisearch unhealthy")
	}

	limit := int64(q.Limit)
	if limit <= 0 {
		limit = 20
	}

	var queries []*meili.SearchRequest
	targetIndexes := []struct {
		uid  string
		rtyp ResultType
	}{
		{idxCandidates, ResultCandidate},
		{idxRequests, ResultRequest},
	}

	for _, ti := range targetIndexes {
		if q.FilterType != "" && q.FilterType != ti.rtyp {
			continue
		}
		queries = append(queries, &meili.SearchRequest{
			IndexUID: ti.uid,
			Query:    q.Text,
			Limit:    limit,
		})
	}

	if len(queries) == 0 {
		return nil, 0, nil
	}

	resp, err := m.client.MultiSearch(&meili.MultiSearchRequest{
		Queries: queries,
	})
	if err != nil {
		m.healthy.Store(false)
		return nil, 0, fmt.Errorf("meilisearch multi-search: %w", err)
	}

	var results []Result
	total := 0
	for _, sr := range resp.Results {
		total += int(sr.EstimatedTotalHits)
		rtyp := indexToResultType(sr.IndexUID)
		for _, hit := range sr.Hits {
			results = append(results, hitToResult(hit, rtyp))
		}
	}

	return results, total, nil
}

func indexToResultType(uid string) ResultType {
	switch uid {
	case idxCandidates:
		return ResultCandidate
	case idxRequests:
		return ResultRequest
	default:
		return ""
	}
}

func hitToResult(hit meili.Hit, rtyp ResultType) Result {
	r := Result{Type: rtyp}
	r.ID = decodeString(hit, "id")
	r.Status = decodeString(hit, "status")

	switch rtyp {
	case ResultCandidate:
		r.Title = decodeString(hit, "name")
		r.Snippet = firstNonBlank(decodeString(hit, "role"), decodeString(hit, "email"))
	case ResultRequest:
		r.Title = decodeString(hit, "title")
		r.Snippet = firstNonBlank(decodeString(hit, "client"), decodeString(hit, "location"))
	}
	return r
}

func decodeString(hit meili.Hit, key string) string {
	raw, ok := hit[key]
	if !ok {
		return ""
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return ""
}

func firstNonBlank(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return value
		}
	}
	return ""
}

// IndexCandidate adds or updates a candidate in the search index.
func (m *Meili) IndexCandidate(c CandidateRecord) error {
	_, err := m.client.Index(idxCandidates).AddDocuments([]CandidateRecord{c}, nil)
	return err
}

// IndexRequest adds or updates a request in the search index.
func (m *Meili) IndexRequest(r RequestRecord) error {
	_, err := m.client.Index(idxRequests).AddDocuments([]RequestRecord{r}, nil)
	return err
}

// DeleteRequest removes a request from the search index.
func (m *Meili) DeleteRequest(id string) error {
	_, err := m.client.Index(idxRequests).DeleteDocument(id, nil)
	return err
}

// IndexCandidates bulk-indexes candidates.
func (m *Meili) IndexCandidates(candidates []CandidateRecord) error {
	if len(candidates) == 0 {
		return nil
	}
	_, err := m.client.Index(idxCandidates).AddDocuments(candidates, nil)
	return err
}

// IndexRequests bulk-indexes requests.
func (m *Meili) IndexRequests(requests []RequestRecord) error {
	if len(requests) == 0 {
		return nil
	}
	_, err := m.client.Index(idxRequests).AddDocuments(requests, nil)
	return err
}
