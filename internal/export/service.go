package export

import (
	"fmt"
	"time"

	"accredo/api/internal/compliance"
)

// TreeReader supplies the current merged tree and its source tier.
type TreeReader interface {
	Chapters() []compliance.Chapter
	Source() string
}

// Service renders chapter compliance reports.
type Service struct {
	tree TreeReader
}

// NewService creates a new export service
func NewService(tree TreeReader) *Service {
	return &Service{tree: tree}
}

// Export generates a chapter report in the requested format.
func (s *Service) Export(req Request) (*Result, error) {
	var chapter *compliance.Chapter
	for _, ch := range s.tree.Chapters() {
		if ch.ID == req.ChapterID || ch.Code == req.ChapterID {
			chapter = &ch
			break
		}
	}
	if chapter == nil {
		return nil, ErrChapterNotFound
	}

	data := BuildTemplateData(*chapter, s.tree.Source(), req.CoreOnly)

	html, err := RenderReportHTML(data)
	if err != nil {
		return nil, fmt.Errorf("render template: %w", err)
	}

	title := fmt.Sprintf("%s Compliance Report", chapter.Code)
	switch req.Format {
	case FormatPDF:
		return exportPDF(html, title)
	case FormatDOCX:
		return exportDOCX(html, title)
	default:
		return nil, fmt.Errorf("unsupported format: %s", req.Format)
	}
}

// BuildTemplateData projects a chapter into the report shape.
func BuildTemplateData(ch compliance.Chapter, source string, coreOnly bool) TemplateData {
	data := TemplateData{
		ChapterCode: ch.Code,
		ChapterName: ch.Name,
		Tag:         string(ch.Tag),
		GeneratedAt: time.Now(),
		Source:      source,
		Elements:    []TemplateElement{},
	}

	for _, el := range ch.Elements {
		if coreOnly && !el.IsCore() {
			continue
		}
		data.Elements = append(data.Elements, TemplateElement{
			Code:          el.Code,
			Title:         el.Title(),
			Category:      string(el.Category),
			Priority:      string(el.Priority),
			Status:        string(el.Status),
			Assignee:      el.Assignee,
			EvidencesList: el.EvidencesList,
			Notes:         el.Notes,
		})

		data.Summary.Total++
		switch el.Status {
		case compliance.StatusCompleted:
			data.Summary.Completed++
		case compliance.StatusInProgress:
			data.Summary.InProgress++
		case compliance.StatusBlocked:
			data.Summary.Blocked++
		default:
			data.Summary.NotStarted++
		}
	}
	return data
}
