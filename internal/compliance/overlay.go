package compliance

// Overlay is a sparse per-element override record. Every field is a
// pointer: nil means "no override, defer to the next source" and must
// never clear a present value. Empty string and absent are therefore
// distinguishable on purpose.
type Overlay struct {
	Priority      *Priority `json:"priority"`
	Status        *Status   `json:"status"`
	Assignee      *string   `json:"assignee"`
	EvidencesList *string   `json:"evidencesList"`
	EvidenceLinks *string   `json:"evidenceLinks"`
	Deliverable   *string   `json:"deliverable"`
	Notes         *string   `json:"notes"`
	StartDate     *string   `json:"startDate"`
	EndDate       *string   `json:"endDate"`
	Explanation   *string   `json:"explanation"`
}

// IsEmpty reports whether the overlay carries no overrides at all.
func (o Overlay) IsEmpty() bool {
	return o.Priority == nil && o.Status == nil && o.Assignee == nil &&
		o.EvidencesList == nil && o.EvidenceLinks == nil && o.Deliverable == nil &&
		o.Notes == nil && o.StartDate == nil && o.EndDate == nil && o.Explanation == nil
}

// Apply writes the overlay's present fields onto el, leaving absent
// fields untouched. It never relies on falsy coercion: only a non-nil
// pointer assigns.
func (o Overlay) Apply(el *ObjectiveElement) {
	if o.Priority != nil {
		el.Priority = *o.Priority
	}
	if o.Status != nil {
		el.Status = *o.Status
	}
	if o.Assignee != nil {
		el.Assignee = *o.Assignee
	}
	if o.EvidencesList != nil {
		el.EvidencesList = *o.EvidencesList
	}
	if o.EvidenceLinks != nil {
		el.EvidenceLinks = *o.EvidenceLinks
	}
	if o.Deliverable != nil {
		el.Deliverable = *o.Deliverable
	}
	if o.Notes != nil {
		el.Notes = *o.Notes
	}
	if o.StartDate != nil {
		el.StartDate = *o.StartDate
	}
	if o.EndDate != nil {
		el.EndDate = *o.EndDate
	}
	if o.Explanation != nil {
		el.Explanation = *o.Explanation
	}
}
