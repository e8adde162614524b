package search

import (
	"log"
	"strings"

	"accredo/api/internal/compliance"
)

// TreeReader supplies the current merged tree for the fallback scan
// and for reindexing after a merge.
type TreeReader interface {
	Chapters() []compliance.Chapter
}

// Service is the facade that tries Meilisearch first and falls back to
// a linear scan of the in-memory tree. meili may be nil when search is
// not configured; the scan always works.
type Service struct {
	meili *Meili
	tree  TreeReader
}

// NewService creates a search service.
func NewService(meili *Meili, tree TreeReader) *Service {
	return &Service{meili: meili, tree: tree}
}

// Search tries Meilisearch if healthy, otherwise scans the tree.
func (s *Service) Search(q Query) Response {
	if s.meili != nil && s.meili.Healthy() {
		results, total, err := s.meili.Search(q)
		if err == nil {
			return Response{Results: nonNil(results), Total: total, Query: q.Text}
		}
		log.Printf("search: meilisearch error, falling back to scan: %v", err)
	}

	results, total := scanTree(s.tree.Chapters(), q)
	return Response{Results: results, Total: total, Query: q.Text, Fallback: true}
}

// Reindex pushes the whole current tree to Meilisearch. Called after
// every applied merge; a no-op while Meilisearch is down (the next
// recovery reconfigures the index but content waits for the next merge
// or an explicit refresh).
func (s *Service) Reindex() {
	if s.meili == nil || !s.meili.Healthy() {
		return
	}
	records := RecordsFromChapters(s.tree.Chapters())
	go func() {
		if err := s.meili.IndexElements(records); err != nil {
			log.Printf("search: reindex %d elements: %v", len(records), err)
		}
	}()
}

// IndexElement pushes a single updated element (fire-and-forget).
func (s *Service) IndexElement(ch compliance.Chapter, el compliance.ObjectiveElement) {
	if s.meili == nil || !s.meili.Healthy() {
		return
	}
	record := RecordFromElement(ch, el)
	go func() {
		if err := s.meili.IndexElements([]ElementRecord{record}); err != nil {
			log.Printf("search: index element %s: %v", record.Code, err)
		}
	}()
}

// scanTree is the dependency-free fallback: case-insensitive substring
// match over the same fields the index declares searchable.
func scanTree(chapters []compliance.Chapter, q Query) ([]Result, int) {
	needle := strings.ToLower(strings.TrimSpace(q.Text))

	matched := make([]Result, 0)
	for _, ch := range chapters {
		if q.ChapterCode != "" && ch.Code != q.ChapterCode {
			continue
		}
		for _, el := range ch.Elements {
			if q.Status != "" && string(el.Status) != q.Status {
				continue
			}
			if needle != "" && !elementMatches(el, needle) {
				continue
			}
			record := RecordFromElement(ch, el)
			matched = append(matched, Result{ElementRecord: record, Snippet: record.Title})
		}
	}

	total := len(matched)
	limit := q.Limit
	if limit == 0 {
		limit = 20
	}
	start := q.Offset
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}
	return matched[start:end], total
}

func elementMatches(el compliance.ObjectiveElement, needle string) bool {
	return strings.Contains(strings.ToLower(el.Code), needle) ||
		strings.Contains(strings.ToLower(el.Title()), needle) ||
		strings.Contains(strings.ToLower(el.Description), needle) ||
		strings.Contains(strings.ToLower(el.EvidencesList), needle) ||
		strings.Contains(strings.ToLower(el.Assignee), needle)
}

func nonNil(r []Result) []Result {
	if r == nil {
		return []Result{}
	}
	return r
}
