package remote

import (
	"context"
	"strings"

	"accredo/api/internal/compliance"
)

// flatEditRow mirrors one row of the legacy objective_edits table.
// Every override field is nullable; null means "no override here".
type flatEditRow struct {
	ObjectiveCode string  `json:"objective_code"`
	Priority      *string `json:"priority"`
	Status        *string `json:"status"`
	Assignee      *string `json:"assignee"`
	EvidencesList *string `json:"evidences_list"`
	EvidenceLinks *string `json:"evidence_links"`
	Deliverable   *string `json:"deliverable"`
	Notes         *string `json:"notes"`
	StartDate     *string `json:"start_date"`
	EndDate       *string `json:"end_date"`
	Explanation   *string `json:"explanation"`
}

// FetchFlatEdits retrieves the flat overlay table and adapts it to the
// canonical sparse-overlay shape, keyed by element code. Zero rows is
// a success with an empty map, not an error.
func (c *Client) FetchFlatEdits(ctx context.Context) FlatEditsResult {
	var rows []flatEditRow
	if err := c.getJSON(ctx, "/rest/v1/objective_edits", &rows); err != nil {
		return FlatEditsResult{Err: err}
	}
	return FlatEditsResult{Edits: adaptFlatRows(rows)}
}

func adaptFlatRows(rows []flatEditRow) map[string]compliance.Overlay {
	edits := make(map[string]compliance.Overlay, len(rows))
	for _, row := range rows {
		code := strings.TrimSpace(row.ObjectiveCode)
		if code == "" {
			continue
		}
		edits[code] = compliance.Overlay{
			Priority:      priorityPtr(row.Priority),
			Status:        statusPtr(row.Status),
			Assignee:      row.Assignee,
			EvidencesList: row.EvidencesList,
			EvidenceLinks: row.EvidenceLinks,
			Deliverable:   row.Deliverable,
			Notes:         row.Notes,
			StartDate:     row.StartDate,
			EndDate:       row.EndDate,
			Explanation:   row.Explanation,
		}
	}
	return edits
}

func priorityPtr(s *string) *compliance.Priority {
	if s == nil {
		return nil
	}
	p := compliance.Priority(*s)
	return &p
}

func statusPtr(s *string) *compliance.Status {
	if s == nil {
		return nil
	}
	st := compliance.Status(*s)
	return &st
}
