package search

import "testing"

func seedMemory() *Memory {
	m := NewMemory()
	m.IndexCandidate(CandidateRecord{ID: "c1", Name: "Ada Lovelace", Email: "ada@x.com", Role: "Backend Engineer", Skills: []string{"go", "postgres"}, Status: "New"})
	m.IndexCandidate(CandidateRecord{ID: "c2", Name: "Grace Hopper", Email: "grace@x.com", Role: "Compiler Engineer", Skills: []string{"cobol"}, Status: "Screening"})
	m.IndexRequest(RequestRecord{ID: "r1", Title: "Backend Engineer", Client: "Acme", Location: "Berlin", Skills: []string{"go"}, Status: "Open"})
	return m
}

func TestMemorySearchMatchesAcrossTypes(t *testing.T) {
	m := seedMemory()

	results, total, err := m.Search(Query{Text: "backend"})
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if total != 2 {
		t.Fatalf("total = %d, want 2 (one candidate, one request)", total)
	}
	if results[0].Type != ResultCandidate || results[1].Type != ResultRequest {
		t.Errorf("unexpected result ordering: %+v", results)
	}
}

func TestMemorySearchFilterType(t *testing.T) {
	m := seedMemory()

	results, _, err := m.Search(Query{Text: "engineer", FilterType: ResultCandidate})
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	for _, r := range results {
		if r.Type != ResultCandidate {
			t.Errorf("filter leaked type %s", r.Type)
		}
	}
	if len(results) != 2 {
		t.Errorf("candidate matches = %d, want 2", len(results))
	}
}

func TestMemorySearchSkills(t *testing.T) {
	m := seedMemory()

	results, _, err := m.Search(Query{Text: "cobol"})
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(results) != 1 || results[0].ID != "c2" {
		t.Errorf("skill match = %+v", results)
	}
}

func TestMemorySearchNonPositiveLimit(t *testing.T) {
	m := seedMemory()

	for _, limit := range []int{0, -1, -50} {
		results, total, err := m.Search(Query{Text: "ada", Limit: limit})
		if err != nil {
			t.Fatalf("search with limit %d failed: %v", limit, err)
		}
		if total != 1 || len(results) != 1 {
			t.Errorf("limit %d: total = %d, results = %d, want 1/1", limit, total, len(results))
		}
	}
}

func TestMemoryDeleteRequest(t *testing.T) {
	m := seedMemory()
	m.DeleteRequest("r1")

	results, _, err := m.Search(Query{Text: "acme"})
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("deleted request still indexed: %+v", results)
	}
}

func TestServiceFallsBackWithoutMeili(t *testing.T) {
	svc := NewService(nil, seedMemory())

	resp := svc.Search(Query{Text: "ada"})
	if resp.Total != 1 || resp.Results[0].ID != "c1" {
		t.Errorf("fallback search = %+v", resp)
	}
	if resp.Results == nil {
		t.Error("results must never be nil")
	}
}

func TestServiceIndexReachesMemory(t *testing.T) {
	svc := NewService(nil, NewMemory())
	svc.IndexRequest(RequestRecord{ID: "r9", Title: "Data Analyst", Client: "Beta"})

	resp := svc.Search(Query{Text: "analyst"})
	if resp.Total != 1 || resp.Results[0].ID != "r9" {
		t.Errorf("indexed request not searchable: %+v", resp)
	}
}
