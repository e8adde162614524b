package tracker

import (
	"strings"

	"accredo/api/internal/compliance"
)

// FilterAll disables an equality predicate.
const FilterAll = "all"

// Filters are the optional predicates of the query layer, combined
// with logical AND. Empty string and "all" both disable a predicate.
type Filters struct {
	Query    string `json:"query"`
	Status   string `json:"status"`
	Priority string `json:"priority"`
	Category string `json:"category"`
	CoreOnly bool   `json:"coreOnly"`
}

// FilterElements selects the elements of one chapter matching every
// active predicate, preserving the chapter's stored element order. The
// result is always non-nil; an unknown chapter yields an empty slice.
// The function reads the tree without mutating it and is idempotent.
func FilterElements(chapters []compliance.Chapter, chapterID string, f Filters) []compliance.ObjectiveElement {
	out := []compliance.ObjectiveElement{}
	for _, ch := range chapters {
		if ch.ID != chapterID && ch.Code != chapterID {
			continue
		}
		for _, el := range ch.Elements {
			if matches(el, f) {
				out = append(out, compliance.CloneElement(el))
			}
		}
		break
	}
	return out
}

func matches(el compliance.ObjectiveElement, f Filters) bool {
	if q := strings.TrimSpace(f.Query); q != "" {
		needle := strings.ToLower(q)
		if !strings.Contains(strings.ToLower(el.Code), needle) &&
			!strings.Contains(strings.ToLower(el.Title()), needle) &&
			!strings.Contains(strings.ToLower(el.Description), needle) &&
			!strings.Contains(strings.ToLower(el.EvidencesList), needle) {
			return false
		}
	}
	if active(f.Status) && string(el.Status) != f.Status {
		return false
	}
	if active(f.Priority) && string(el.Priority) != f.Priority {
		return false
	}
	if active(f.Category) && string(el.Category) != f.Category {
		return false
	}
	if f.CoreOnly && !el.IsCore() {
		return false
	}
	return true
}

func active(value string) bool {
	return value != "" && !strings.EqualFold(value, FilterAll)
}
