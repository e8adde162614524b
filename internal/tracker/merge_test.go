package tracker

import (
	"errors"
	"testing"

	"accredo/api/internal/compliance"
)

func strPtr(s string) *string { return &s }

func statusPtr(s compliance.Status) *compliance.Status { return &s }

func priorityPtr(p compliance.Priority) *compliance.Priority { return &p }

func baselineFixture() []compliance.Chapter {
	return []compliance.Chapter{
		{
			ID: "ch-aac", Code: "AAC", Name: "Access, Assessment and Continuity of Care",
			Tag: compliance.TagPatientCentered, Ordinal: 1,
			Elements: []compliance.ObjectiveElement{
				{
					ID: "oe-aac-1-a", Code: "AAC.1.a",
					Description: "The services being provided are defined and displayed prominently.",
					Category:    compliance.CategoryCore,
					Priority:    compliance.PriorityCore,
					Status:      compliance.StatusNotStarted,
					Assignee:    "Kashish",
				},
				{
					ID: "oe-aac-1-b", Code: "AAC.1.b",
					Description: "Services are displayed in the local language.",
					Category:    compliance.CategoryCommitment,
					Status:      compliance.StatusInProgress,
				},
			},
		},
		{
			ID: "ch-cqi", Code: "CQI", Name: "Continual Quality Improvement",
			Tag: compliance.TagOrganizationCentered, Ordinal: 6,
			Elements: []compliance.ObjectiveElement{
				{
					ID: "oe-cqi-1-a", Code: "CQI.1.a",
					Description: "A structured quality improvement programme exists.",
					Category:    compliance.CategoryCommitment,
					Status:      compliance.StatusNotStarted,
				},
			},
		},
	}
}

func TestMergeNormalizedWinsWhole(t *testing.T) {
	normalized := TreeSource{Chapters: []compliance.Chapter{
		{ID: "rc-1", Code: "COP", Name: "Care of Patients", Ordinal: 2,
			Elements: []compliance.ObjectiveElement{
				{ID: "re-1", Code: "COP.1.a", Description: "Uniform care.", Category: compliance.CategoryCore},
			}},
	}}
	flat := FlatSource{Edits: map[string]compliance.Overlay{
		"AAC.1.a": {Status: statusPtr(compliance.StatusCompleted)},
	}}

	merged, source := MergeSources(baselineFixture(), normalized, flat)
	if source != SourceNormalized {
		t.Fatalf("source = %q, want %q", source, SourceNormalized)
	}
	if len(merged) != 1 || merged[0].Code != "COP" {
		t.Fatalf("normalized tree must replace baseline whole, got %+v", merged)
	}
	// Flat edits never touch a normalized tree.
	if merged[0].Elements[0].Status == compliance.StatusCompleted {
		t.Fatal("flat edits leaked into normalized result")
	}
}

func TestMergeEmptyNormalizedFallsThrough(t *testing.T) {
	normalized := TreeSource{Chapters: []compliance.Chapter{}}
	flat := FlatSource{Edits: map[string]compliance.Overlay{
		"AAC.1.a": {Status: statusPtr(compliance.StatusCompleted)},
	}}

	merged, source := MergeSources(baselineFixture(), normalized, flat)
	if source != SourceFlatEdits {
		t.Fatalf("empty normalized tree must fall through, got source %q", source)
	}
	if merged[0].Elements[0].Status != compliance.StatusCompleted {
		t.Fatal("flat edit not applied after fallthrough")
	}
}

func TestMergeFlatEditsAreSparse(t *testing.T) {
	flat := FlatSource{Edits: map[string]compliance.Overlay{
		"AAC.1.a": {
			Status: statusPtr(compliance.StatusBlocked),
			Notes:  strPtr("held pending civil work"),
		},
		"ZZZ.9.z": {Status: statusPtr(compliance.StatusCompleted)}, // no baseline counterpart
	}}

	merged, source := MergeSources(baselineFixture(), TreeSource{Err: errors.New("down")}, flat)
	if source != SourceFlatEdits {
		t.Fatalf("source = %q", source)
	}

	edited := merged[0].Elements[0]
	if edited.Status != compliance.StatusBlocked || edited.Notes != "held pending civil work" {
		t.Fatalf("edit not applied: %+v", edited)
	}
	// Fields absent from the overlay survive untouched.
	if edited.Assignee != "Kashish" {
		t.Fatalf("sparse overlay clobbered assignee: %q", edited.Assignee)
	}
	if edited.Description == "" || edited.Category != compliance.CategoryCore {
		t.Fatal("baseline fields lost during overlay")
	}
	// Untouched elements are byte-for-byte baseline.
	if merged[0].Elements[1].Status != compliance.StatusInProgress {
		t.Fatal("unrelated element changed")
	}
}

func TestMergeTotalFailureYieldsBaseline(t *testing.T) {
	baseline := baselineFixture()
	merged, source := MergeSources(baseline,
		TreeSource{Err: errors.New("timeout")},
		FlatSource{Err: errors.New("refused")})
	if source != SourceBaseline {
		t.Fatalf("source = %q, want %q", source, SourceBaseline)
	}
	if len(merged) != len(baseline) {
		t.Fatalf("chapter count changed: %d vs %d", len(merged), len(baseline))
	}
	for i := range baseline {
		if merged[i].Code != baseline[i].Code || len(merged[i].Elements) != len(baseline[i].Elements) {
			t.Fatalf("chapter %d differs from baseline", i)
		}
		for j := range baseline[i].Elements {
			if merged[i].Elements[j].Code != baseline[i].Elements[j].Code ||
				merged[i].Elements[j].Status != baseline[i].Elements[j].Status {
				t.Fatalf("element %s differs from baseline", baseline[i].Elements[j].Code)
			}
		}
	}
}

func TestMergeEmptyFlatEditsIsBaseline(t *testing.T) {
	_, source := MergeSources(baselineFixture(),
		TreeSource{Err: errors.New("down")},
		FlatSource{Edits: map[string]compliance.Overlay{}})
	if source != SourceBaseline {
		t.Fatalf("empty edits table must yield baseline, got %q", source)
	}
}

func TestMergeDoesNotAliasInputs(t *testing.T) {
	baseline := baselineFixture()
	merged, _ := MergeSources(baseline, TreeSource{Err: errors.New("down")}, FlatSource{})

	merged[0].Elements[0].Status = compliance.StatusCompleted
	if baseline[0].Elements[0].Status == compliance.StatusCompleted {
		t.Fatal("merge result aliases baseline storage")
	}
}

func TestMergeSortsByOrdinalMissingLast(t *testing.T) {
	normalized := TreeSource{Chapters: []compliance.Chapter{
		{ID: "c3", Code: "XTR", Ordinal: compliance.OrdinalLast},
		{ID: "c2", Code: "COP", Ordinal: 2},
		{ID: "c1", Code: "AAC", Ordinal: 1},
	}}
	merged, _ := MergeSources(nil, normalized, FlatSource{})
	want := []string{"AAC", "COP", "XTR"}
	for i, code := range want {
		if merged[i].Code != code {
			t.Fatalf("order[%d] = %q, want %q", i, merged[i].Code, code)
		}
	}
}
