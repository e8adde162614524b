// Package catalog builds the compiled-in baseline accreditation tree.
// It is a pure function of the static tables in data.go and
// resources.go: it cannot fail at runtime, and every call returns a
// fresh deep copy.
package catalog

import (
	"fmt"
	"strings"

	"accredo/api/internal/compliance"
)

// Load assembles the full baseline chapter tree, applies the static
// per-code override rows, and attaches a resource bundle to every
// element (the placeholder bundle when none is authored).
func Load() []compliance.Chapter {
	chapters := make([]compliance.Chapter, 0, len(chapterRows))
	for _, row := range chapterRows {
		chapter := compliance.Chapter{
			ID:      "ch-" + strings.ToLower(row.Code),
			Code:    row.Code,
			Name:    row.Name,
			Tag:     row.Tag,
			Ordinal: row.Ordinal,
		}
		for _, er := range elementRows {
			if er.Chapter != row.Code {
				continue
			}
			chapter.Elements = append(chapter.Elements, buildElement(er))
		}
		if chapter.Elements == nil {
			chapter.Elements = []compliance.ObjectiveElement{}
		}
		chapters = append(chapters, chapter)
	}
	return chapters
}

func buildElement(row elementRow) compliance.ObjectiveElement {
	code := fmt.Sprintf("%s.%d.%s", row.Chapter, row.Standard, row.Letter)
	el := compliance.ObjectiveElement{
		ID:          "oe-" + strings.ToLower(strings.ReplaceAll(code, ".", "-")),
		Code:        code,
		Description: row.Description,
		Category:    row.Category,
		Status:      compliance.StatusNotStarted,
	}

	// Core elements default to the CORE priority literal; a concrete
	// override row always wins over the category-derived default.
	if el.Category == compliance.CategoryCore {
		el.Priority = compliance.PriorityCore
	}
	if ov, ok := overrideRows[code]; ok {
		if ov.Priority != compliance.PriorityUnset {
			el.Priority = ov.Priority
		}
		if ov.Status != compliance.StatusUnset {
			el.Status = ov.Status
		}
		if ov.Assignee != "" {
			el.Assignee = ov.Assignee
		}
	}

	if bundle, ok := resourceBundles[code]; ok {
		el.Resources = compliance.ResourceBundle{
			Explanation: bundle.Explanation,
			Links:       append([]compliance.ResourceLink(nil), bundle.Links...),
		}
		el.Explanation = bundle.Explanation
	} else {
		el.Resources = compliance.PlaceholderBundle()
	}

	el.EvidenceFiles = []compliance.EvidenceFile{}
	el.Videos = []compliance.Video{}
	el.TrainingMaterials = []compliance.TrainingMaterial{}
	el.SOPDocuments = []compliance.SOPDocument{}
	return el
}
