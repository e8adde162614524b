// Package compliance defines the canonical in-memory model of the
// accreditation dataset: chapters, objective elements, and the enum
// vocabulary shared by every data source.
package compliance

import "strings"

// Category controls the assessment cadence of an objective element.
// The literal spellings are part of the wire contract with the hosted
// database and must not change.
type Category string

const (
	CategoryCore        Category = "Core"
	CategoryCommitment  Category = "Commitment"
	CategoryAchievement Category = "Achievement"
	CategoryExcellence  Category = "Excellence"
)

// Priority of an objective element. "CORE" is the derived default for
// Core-category elements; "Prev NC" marks previously observed
// non-conformities.
type Priority string

const (
	PriorityCore   Priority = "CORE"
	PriorityPrevNC Priority = "Prev NC"
	PriorityP0     Priority = "P0"
	PriorityP1     Priority = "P1"
	PriorityP2     Priority = "P2"
	PriorityP3     Priority = "P3"
	PriorityUnset  Priority = ""
)

// Status is a flat enum: any value may transition to any other.
type Status string

const (
	StatusNotStarted Status = "Not started"
	StatusInProgress Status = "In progress"
	StatusBlocked    Status = "Blocked"
	StatusCompleted  Status = "Completed"
	StatusUnset      Status = ""
)

var validCategories = map[Category]struct{}{
	CategoryCore:        {},
	CategoryCommitment:  {},
	CategoryAchievement: {},
	CategoryExcellence:  {},
}

var validPriorities = map[Priority]struct{}{
	PriorityCore:   {},
	PriorityPrevNC: {},
	PriorityP0:     {},
	PriorityP1:     {},
	PriorityP2:     {},
	PriorityP3:     {},
}

var validStatuses = map[Status]struct{}{
	StatusNotStarted: {},
	StatusInProgress: {},
	StatusBlocked:    {},
	StatusCompleted:  {},
}

// ValidCategory reports whether c is one of the four closed category values.
func ValidCategory(c Category) bool {
	_, ok := validCategories[c]
	return ok
}

// ValidPriority reports whether p is a known priority literal. The unset
// priority is not considered valid input.
func ValidPriority(p Priority) bool {
	_, ok := validPriorities[p]
	return ok
}

// ValidStatus reports whether s is a known status literal. The unset
// status is not considered valid input.
func ValidStatus(s Status) bool {
	_, ok := validStatuses[s]
	return ok
}

// ChapterTag classifies a chapter by whom the standards serve.
type ChapterTag string

const (
	TagPatientCentered      ChapterTag = "Patient Centered"
	TagOrganizationCentered ChapterTag = "Organization Centered"
)

// OrdinalLast is used for chapters that carry no ordering hint; they
// sort after every chapter with an explicit ordinal.
const OrdinalLast = int(^uint(0) >> 1)

// Chapter is a top-level grouping of objective elements. Chapters are
// built whole by a loader and replaced wholesale on reload; only their
// elements are mutated in place between reloads.
type Chapter struct {
	ID       string             `json:"id"`
	Code     string             `json:"code"`
	Name     string             `json:"name"`
	Tag      ChapterTag         `json:"tag"`
	Ordinal  int                `json:"ordinal"`
	Elements []ObjectiveElement `json:"elements"`
}

// ObjectiveElement is the atomic compliance requirement, uniquely keyed
// by Code across the whole dataset and across all data sources.
type ObjectiveElement struct {
	ID          string   `json:"id"`
	Code        string   `json:"code"`
	Description string   `json:"description"`
	Category    Category `json:"category"`
	Priority    Priority `json:"priority"`
	Status      Status   `json:"status"`
	Assignee    string   `json:"assignee"`

	EvidencesList string `json:"evidencesList"`
	EvidenceLinks string `json:"evidenceLinks"`
	Deliverable   string `json:"deliverable"`
	Notes         string `json:"notes"`
	StartDate     string `json:"startDate"`
	EndDate       string `json:"endDate"`
	Explanation   string `json:"explanation"`

	Resources ResourceBundle `json:"resources"`

	EvidenceFiles     []EvidenceFile     `json:"evidenceFiles"`
	Videos            []Video            `json:"videos"`
	TrainingMaterials []TrainingMaterial `json:"trainingMaterials"`
	SOPDocuments      []SOPDocument      `json:"sopDocuments"`
}

// Title is the display label: the description truncated to 100 runes
// with an ellipsis marker. It is always derived, never stored.
func (e ObjectiveElement) Title() string {
	return DeriveTitle(e.Description)
}

// IsCore reports whether the element belongs to the Core category.
func (e ObjectiveElement) IsCore() bool {
	return e.Category == CategoryCore
}

const titleRuneLimit = 100

// DeriveTitle truncates a description to the display-label length,
// appending "..." when anything was cut.
func DeriveTitle(description string) string {
	trimmed := strings.TrimSpace(description)
	runes := []rune(trimmed)
	if len(runes) <= titleRuneLimit {
		return trimmed
	}
	return string(runes[:titleRuneLimit]) + "..."
}

// ResourceBundle is the localized-explanation and linked-resource set
// attached to every element. Elements without an authored bundle get
// PlaceholderBundle, never a zero value.
type ResourceBundle struct {
	Explanation string         `json:"explanation"`
	Links       []ResourceLink `json:"links"`
}

type ResourceLink struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// PlaceholderBundle is substituted when no authored bundle exists for a code.
func PlaceholderBundle() ResourceBundle {
	return ResourceBundle{
		Explanation: "Detailed guidance for this objective element has not been authored yet.",
		Links:       []ResourceLink{},
	}
}

// EvidenceFile describes a binary attachment; the content itself lives
// in object storage under ObjectKey.
type EvidenceFile struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	MimeType  string `json:"mimeType"`
	SizeBytes int64  `json:"sizeBytes"`
	ObjectKey string `json:"objectKey"`
}

type Video struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	URL         string `json:"url"`
	Description string `json:"description"`
}

// TrainingMaterialType enumerates the allowed material kinds.
type TrainingMaterialType string

const (
	MaterialPhoto       TrainingMaterialType = "photo"
	MaterialVideo       TrainingMaterialType = "video"
	MaterialDocument    TrainingMaterialType = "document"
	MaterialCertificate TrainingMaterialType = "certificate"
)

var validMaterialTypes = map[TrainingMaterialType]struct{}{
	MaterialPhoto:       {},
	MaterialVideo:       {},
	MaterialDocument:    {},
	MaterialCertificate: {},
}

// ValidMaterialType reports whether t is an allowed training material kind.
func ValidMaterialType(t TrainingMaterialType) bool {
	_, ok := validMaterialTypes[t]
	return ok
}

type TrainingMaterial struct {
	ID    string               `json:"id"`
	Type  TrainingMaterialType `json:"type"`
	Title string               `json:"title"`
	URL   string               `json:"url"`
}

type SOPDocument struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Version       string `json:"version"`
	EffectiveDate string `json:"effectiveDate"`
	Content       string `json:"content"`
}

// CloneChapters deep-copies a chapter tree. Loaders hand out clones so
// that in-place element mutations never leak back into baseline data.
func CloneChapters(chapters []Chapter) []Chapter {
	out := make([]Chapter, len(chapters))
	for i, ch := range chapters {
		out[i] = ch
		out[i].Elements = make([]ObjectiveElement, len(ch.Elements))
		for j, el := range ch.Elements {
			out[i].Elements[j] = CloneElement(el)
		}
	}
	return out
}

// CloneElement deep-copies one element including its owned collections.
func CloneElement(el ObjectiveElement) ObjectiveElement {
	clone := el
	clone.Resources.Links = append([]ResourceLink(nil), el.Resources.Links...)
	clone.EvidenceFiles = append([]EvidenceFile(nil), el.EvidenceFiles...)
	clone.Videos = append([]Video(nil), el.Videos...)
	clone.TrainingMaterials = append([]TrainingMaterial(nil), el.TrainingMaterials...)
	clone.SOPDocuments = append([]SOPDocument(nil), el.SOPDocuments...)
	return clone
}
