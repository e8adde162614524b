package search

import (
	"testing"

	"accredo/api/internal/compliance"
)

type staticTree []compliance.Chapter

func (s staticTree) Chapters() []compliance.Chapter { return s }

func testTree() staticTree {
	return staticTree{
		{
			ID: "ch-aac", Code: "AAC", Name: "Access, Assessment and Continuity of Care",
			Elements: []compliance.ObjectiveElement{
				{
					ID: "oe-1", Code: "AAC.1.a",
					Description: "The services being provided are defined and displayed prominently.",
					Status:      compliance.StatusInProgress,
					Assignee:    "Kashish",
				},
				{
					ID: "oe-2", Code: "AAC.2.a",
					Description:   "A documented registration and admission process exists.",
					Status:        compliance.StatusCompleted,
					EvidencesList: "Registration register, admission SOP",
				},
			},
		},
		{
			ID: "ch-hic", Code: "HIC", Name: "Hospital Infection Control",
			Elements: []compliance.ObjectiveElement{
				{
					ID: "oe-3", Code: "HIC.1.a",
					Description: "Hand hygiene compliance is monitored and displayed on every ward.",
					Status:      compliance.StatusInProgress,
				},
			},
		},
	}
}

func TestFallbackScanMatchesAcrossFields(t *testing.T) {
	svc := NewService(nil, testTree())

	resp := svc.Search(Query{Text: "DISPLAYED"})
	if !resp.Fallback {
		t.Fatal("expected fallback response without meilisearch")
	}
	if resp.Total != 2 {
		t.Fatalf("total = %d, want 2", resp.Total)
	}

	// Assignee is searchable too.
	resp = svc.Search(Query{Text: "kashish"})
	if resp.Total != 1 || resp.Results[0].Code != "AAC.1.a" {
		t.Fatalf("assignee search: %+v", resp.Results)
	}

	// Evidences list is searchable.
	resp = svc.Search(Query{Text: "admission sop"})
	if resp.Total != 1 || resp.Results[0].Code != "AAC.2.a" {
		t.Fatalf("evidences search: %+v", resp.Results)
	}
}

func TestFallbackScanFilters(t *testing.T) {
	svc := NewService(nil, testTree())

	resp := svc.Search(Query{Text: "displayed", ChapterCode: "HIC"})
	if resp.Total != 1 || resp.Results[0].Code != "HIC.1.a" {
		t.Fatalf("chapter filter: %+v", resp.Results)
	}

	resp = svc.Search(Query{Status: string(compliance.StatusInProgress)})
	if resp.Total != 2 {
		t.Fatalf("status filter total = %d, want 2", resp.Total)
	}
}

func TestFallbackScanPagination(t *testing.T) {
	svc := NewService(nil, testTree())

	resp := svc.Search(Query{Limit: 2})
	if resp.Total != 3 || len(resp.Results) != 2 {
		t.Fatalf("page 1: total=%d len=%d", resp.Total, len(resp.Results))
	}
	resp = svc.Search(Query{Limit: 2, Offset: 2})
	if len(resp.Results) != 1 {
		t.Fatalf("page 2: len=%d", len(resp.Results))
	}
	resp = svc.Search(Query{Limit: 2, Offset: 10})
	if len(resp.Results) != 0 || resp.Results == nil {
		t.Fatalf("offset past end must yield empty non-nil slice")
	}
}

func TestRecordsFromChapters(t *testing.T) {
	records := RecordsFromChapters(testTree())
	if len(records) != 3 {
		t.Fatalf("records = %d, want 3", len(records))
	}
	if records[0].ChapterCode != "AAC" || records[0].Code != "AAC.1.a" {
		t.Fatalf("first record wrong: %+v", records[0])
	}
	if records[0].Title == "" {
		t.Fatal("title must be derived from description")
	}
}
