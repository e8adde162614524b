// Package search provides full-text search over objective elements,
// backed by Meilisearch with an in-memory fallback scan.
package search

import "accredo/api/internal/compliance"

// ElementRecord is the indexed projection of an objective element.
type ElementRecord struct {
	ID            string `json:"id"`
	Code          string `json:"code"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	ChapterCode   string `json:"chapterCode"`
	ChapterName   string `json:"chapterName"`
	Category      string `json:"category"`
	Priority      string `json:"priority"`
	Status        string `json:"status"`
	Assignee      string `json:"assignee"`
	EvidencesList string `json:"evidencesList"`
}

// Query describes one search request.
type Query struct {
	Text        string
	ChapterCode string
	Status      string
	Limit       int
	Offset      int
}

// Result is one search hit.
type Result struct {
	ElementRecord
	Snippet string `json:"snippet"`
}

// Response is the search envelope returned to handlers.
type Response struct {
	Results  []Result `json:"results"`
	Total    int      `json:"total"`
	Query    string   `json:"query"`
	Fallback bool     `json:"fallback"`
}

// RecordFromElement projects a chapter/element pair into the indexed shape.
func RecordFromElement(ch compliance.Chapter, el compliance.ObjectiveElement) ElementRecord {
	return ElementRecord{
		ID:            el.ID,
		Code:          el.Code,
		Title:         el.Title(),
		Description:   el.Description,
		ChapterCode:   ch.Code,
		ChapterName:   ch.Name,
		Category:      string(el.Category),
		Priority:      string(el.Priority),
		Status:        string(el.Status),
		Assignee:      el.Assignee,
		EvidencesList: el.EvidencesList,
	}
}

// RecordsFromChapters flattens a tree into indexable records.
func RecordsFromChapters(chapters []compliance.Chapter) []ElementRecord {
	records := make([]ElementRecord, 0)
	for _, ch := range chapters {
		for _, el := range ch.Elements {
			records = append(records, RecordFromElement(ch, el))
		}
	}
	return records
}
