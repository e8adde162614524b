package remote

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"accredo/api/internal/compliance"
)

// The normalized schema splits the dataset across three relational
// tables joined by generated identifiers. The element code does not
// exist remotely; it is reconstructed as
// <chapter short name>.<standard number>.<element number> and must land
// in the same code space as the baseline and the flat-edits table or
// merge-by-code silently fails to join.

type chapterRecord struct {
	ID            string  `json:"id"`
	ShortName     string  `json:"short_name"`
	Name          string  `json:"name"`
	Tag           *string `json:"tag"`
	ChapterNumber *int    `json:"chapter_number"`
}

type standardRecord struct {
	ID        string `json:"id"`
	ChapterID string `json:"chapter_id"`
	Number    int    `json:"number"`
}

type elementRecord struct {
	ID          string  `json:"id"`
	StandardID  string  `json:"standard_id"`
	Number      string  `json:"number"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Priority    *string `json:"priority"`
	Status      *string `json:"status"`
	Assignee    *string `json:"assignee"`
	Evidences   *string `json:"evidences_list"`
	Deliverable *string `json:"deliverable"`
	Notes       *string `json:"notes"`
	Explanation *string `json:"explanation"`
}

// FetchNormalized reads the three normalized tables and joins them
// client-side into a canonical chapter tree. Rows whose foreign keys
// resolve to nothing are dropped silently; the shape is allowed to be
// a complete, self-sufficient tree with no baseline counterpart.
func (c *Client) FetchNormalized(ctx context.Context) TreeResult {
	var chapters []chapterRecord
	if err := c.getJSON(ctx, "/rest/v1/chapters", &chapters); err != nil {
		return TreeResult{Err: err}
	}
	var standards []standardRecord
	if err := c.getJSON(ctx, "/rest/v1/standards", &standards); err != nil {
		return TreeResult{Err: err}
	}
	var elements []elementRecord
	if err := c.getJSON(ctx, "/rest/v1/elements", &elements); err != nil {
		return TreeResult{Err: err}
	}
	return TreeResult{Chapters: joinNormalized(chapters, standards, elements)}
}

func joinNormalized(chapters []chapterRecord, standards []standardRecord, elements []elementRecord) []compliance.Chapter {
	standardsByID := make(map[string]standardRecord, len(standards))
	standardsByChapter := make(map[string][]standardRecord)
	for _, st := range standards {
		standardsByID[st.ID] = st
		standardsByChapter[st.ChapterID] = append(standardsByChapter[st.ChapterID], st)
	}

	elementsByStandard := make(map[string][]elementRecord)
	for _, el := range elements {
		if _, ok := standardsByID[el.StandardID]; !ok {
			continue // unjoinable row, drop it
		}
		elementsByStandard[el.StandardID] = append(elementsByStandard[el.StandardID], el)
	}

	out := make([]compliance.Chapter, 0, len(chapters))
	for _, ch := range chapters {
		short := strings.TrimSpace(ch.ShortName)
		if short == "" {
			continue
		}
		chapter := compliance.Chapter{
			ID:       ch.ID,
			Code:     short,
			Name:     ch.Name,
			Tag:      chapterTag(ch.Tag),
			Ordinal:  compliance.OrdinalLast,
			Elements: []compliance.ObjectiveElement{},
		}
		if ch.ChapterNumber != nil {
			chapter.Ordinal = *ch.ChapterNumber
		}

		chapterStandards := standardsByChapter[ch.ID]
		sort.SliceStable(chapterStandards, func(i, j int) bool {
			return chapterStandards[i].Number < chapterStandards[j].Number
		})
		for _, st := range chapterStandards {
			for _, er := range elementsByStandard[st.ID] {
				chapter.Elements = append(chapter.Elements, adaptElement(short, st.Number, er))
			}
		}
		out = append(out, chapter)
	}

	// Ordinal ascending; chapters missing the ordering hint sort last.
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Ordinal < out[j].Ordinal
	})
	return out
}

func adaptElement(chapterShort string, standardNumber int, row elementRecord) compliance.ObjectiveElement {
	el := compliance.ObjectiveElement{
		ID:          row.ID,
		Code:        fmt.Sprintf("%s.%d.%s", chapterShort, standardNumber, strings.TrimSpace(row.Number)),
		Description: row.Description,
		Category:    compliance.Category(row.Category),
		Status:      compliance.StatusNotStarted,
		Resources:   compliance.PlaceholderBundle(),

		EvidenceFiles:     []compliance.EvidenceFile{},
		Videos:            []compliance.Video{},
		TrainingMaterials: []compliance.TrainingMaterial{},
		SOPDocuments:      []compliance.SOPDocument{},
	}
	if el.Category == compliance.CategoryCore {
		el.Priority = compliance.PriorityCore
	}
	if row.Priority != nil {
		el.Priority = compliance.Priority(*row.Priority)
	}
	if row.Status != nil {
		el.Status = compliance.Status(*row.Status)
	}
	if row.Assignee != nil {
		el.Assignee = *row.Assignee
	}
	if row.Evidences != nil {
		el.EvidencesList = *row.Evidences
	}
	if row.Deliverable != nil {
		el.Deliverable = *row.Deliverable
	}
	if row.Notes != nil {
		el.Notes = *row.Notes
	}
	if row.Explanation != nil {
		el.Explanation = *row.Explanation
	}
	return el
}

func chapterTag(tag *string) compliance.ChapterTag {
	if tag == nil {
		return compliance.TagPatientCentered
	}
	if strings.EqualFold(strings.TrimSpace(*tag), string(compliance.TagOrganizationCentered)) {
		return compliance.TagOrganizationCentered
	}
	return compliance.TagPatientCentered
}
