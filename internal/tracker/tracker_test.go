package tracker

import (
	"context"
	"encoding/json"
	"testing"

	"accredo/api/internal/compliance"
)

type memKV struct {
	values map[string]string
}

func newMemKV() *memKV { return &memKV{values: map[string]string{}} }

func (m *memKV) Get(ctx context.Context, key string) (string, bool, error) {
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *memKV) Set(ctx context.Context, key, value string) error {
	m.values[key] = value
	return nil
}

func seededStore(t *testing.T, kv KV) *Store {
	t.Helper()
	s := New(kv)
	gen := s.BeginReload()
	if _, ok := s.ApplyMerge(context.Background(), gen, baselineFixture(), SourceBaseline); !ok {
		t.Fatal("initial merge rejected")
	}
	return s
}

func TestStoreStaleGenerationDiscarded(t *testing.T) {
	s := New(nil)
	ctx := context.Background()

	older := s.BeginReload()
	newer := s.BeginReload()

	// The newer reload finishes first.
	if _, ok := s.ApplyMerge(ctx, newer, baselineFixture(), SourceNormalized); !ok {
		t.Fatal("newer merge rejected")
	}
	// The older reload's late result must be dropped.
	if _, ok := s.ApplyMerge(ctx, older, nil, SourceBaseline); ok {
		t.Fatal("stale merge was applied")
	}
	if s.Source() != SourceNormalized {
		t.Fatalf("source = %q after stale discard", s.Source())
	}
	if got := len(s.Chapters()); got != 2 {
		t.Fatalf("stale merge clobbered tree: %d chapters", got)
	}
}

func TestStoreUpdateElementSparseAndNoOp(t *testing.T) {
	s := seededStore(t, nil)
	ctx := context.Background()

	updated, ok := s.UpdateElement(ctx, "ch-aac", "oe-aac-1-a", compliance.Overlay{
		Status: statusPtr(compliance.StatusBlocked),
	})
	if !ok {
		t.Fatal("known element reported not found")
	}
	if updated.Status != compliance.StatusBlocked {
		t.Fatalf("status = %q", updated.Status)
	}
	if updated.Assignee != "Kashish" {
		t.Fatalf("sparse patch clobbered assignee: %q", updated.Assignee)
	}

	// Unknown chapter and unknown element are both quiet no-ops.
	if _, ok := s.UpdateElement(ctx, "ch-nope", "oe-aac-1-a", compliance.Overlay{Status: statusPtr(compliance.StatusCompleted)}); ok {
		t.Fatal("unknown chapter accepted")
	}
	if _, ok := s.UpdateElement(ctx, "ch-aac", "oe-nope", compliance.Overlay{Status: statusPtr(compliance.StatusCompleted)}); ok {
		t.Fatal("unknown element accepted")
	}
	el, _ := s.GetElement("ch-aac", "oe-aac-1-a")
	if el.Status != compliance.StatusBlocked {
		t.Fatalf("no-op update changed state: %q", el.Status)
	}
}

func TestStoreUpdateElementAcceptsCodeAsID(t *testing.T) {
	s := seededStore(t, nil)
	if _, ok := s.UpdateElement(context.Background(), "AAC", "AAC.1.b", compliance.Overlay{
		Assignee: strPtr("Dr. Mehta"),
	}); !ok {
		t.Fatal("lookup by chapter code and element code failed")
	}
	el, _ := s.FindByCode("AAC.1.b")
	if el.Assignee != "Dr. Mehta" {
		t.Fatalf("assignee = %q", el.Assignee)
	}
}

func TestStoreMergeReportsDiscardedEdits(t *testing.T) {
	s := seededStore(t, nil)
	ctx := context.Background()

	s.UpdateElement(ctx, "ch-aac", "oe-aac-1-a", compliance.Overlay{Status: statusPtr(compliance.StatusCompleted)})
	s.UpdateElement(ctx, "ch-aac", "oe-aac-1-b", compliance.Overlay{Notes: strPtr("x")})
	// Two edits on the same code count once.
	s.UpdateElement(ctx, "ch-aac", "oe-aac-1-b", compliance.Overlay{Notes: strPtr("y")})

	gen := s.BeginReload()
	report, ok := s.ApplyMerge(ctx, gen, baselineFixture(), SourceBaseline)
	if !ok {
		t.Fatal("merge rejected")
	}
	if report.DiscardedEdits != 2 {
		t.Fatalf("discarded edits = %d, want 2", report.DiscardedEdits)
	}

	// The replacement wins; the local edit is gone.
	el, _ := s.GetElement("ch-aac", "oe-aac-1-a")
	if el.Status == compliance.StatusCompleted {
		t.Fatal("local edit survived a merge")
	}

	// A second merge with no interleaved edits discards nothing.
	gen = s.BeginReload()
	report, _ = s.ApplyMerge(ctx, gen, baselineFixture(), SourceBaseline)
	if report.DiscardedEdits != 0 {
		t.Fatalf("discarded edits = %d, want 0", report.DiscardedEdits)
	}
}

func TestStoreSnapshotRoundTrip(t *testing.T) {
	kv := newMemKV()
	ctx := context.Background()

	s := seededStore(t, kv)
	s.UpdateElement(ctx, "ch-aac", "oe-aac-1-a", compliance.Overlay{Status: statusPtr(compliance.StatusBlocked)})
	s.SetFilterState(ctx, Filters{Status: string(compliance.StatusBlocked), CoreOnly: true})

	restored := New(kv)
	if !restored.Restore(ctx) {
		t.Fatal("restore found nothing")
	}
	el, ok := restored.FindByCode("AAC.1.a")
	if !ok || el.Status != compliance.StatusBlocked {
		t.Fatalf("restored element wrong: %+v ok=%v", el, ok)
	}
	f := restored.FilterState()
	if f.Status != string(compliance.StatusBlocked) || !f.CoreOnly {
		t.Fatalf("restored filters wrong: %+v", f)
	}
	if restored.Source() != SourceBaseline {
		t.Fatalf("restored source = %q", restored.Source())
	}
}

func TestStoreRestoreIgnoresCorruptSnapshot(t *testing.T) {
	kv := newMemKV()
	kv.values[SnapshotKey] = "{not json"
	s := New(kv)
	if s.Restore(context.Background()) {
		t.Fatal("corrupt snapshot reported as restored")
	}
	if s.Chapters() == nil {
		t.Fatal("chapters must stay non-nil after failed restore")
	}
}

func TestStoreRestoreMissingSnapshot(t *testing.T) {
	s := New(newMemKV())
	if s.Restore(context.Background()) {
		t.Fatal("missing snapshot reported as restored")
	}
}

func TestStoreCollectionsAppendAndRemove(t *testing.T) {
	s := seededStore(t, nil)
	ctx := context.Background()

	if !s.AppendEvidenceFile(ctx, "AAC.1.a", compliance.EvidenceFile{ID: "f1", Name: "signage.jpg"}) {
		t.Fatal("append on known code failed")
	}
	if s.AppendEvidenceFile(ctx, "NOPE.1.a", compliance.EvidenceFile{ID: "f2"}) {
		t.Fatal("append on unknown code succeeded")
	}
	s.AppendVideo(ctx, "AAC.1.a", compliance.Video{ID: "v1", Title: "Walkthrough"})
	s.AppendTrainingMaterial(ctx, "AAC.1.a", compliance.TrainingMaterial{ID: "m1", Type: compliance.MaterialPhoto})
	s.AppendSOPDocument(ctx, "AAC.1.a", compliance.SOPDocument{ID: "d1", Title: "Signage SOP", Version: "1.0"})

	el, _ := s.FindByCode("AAC.1.a")
	if len(el.EvidenceFiles) != 1 || len(el.Videos) != 1 || len(el.TrainingMaterials) != 1 || len(el.SOPDocuments) != 1 {
		t.Fatalf("collections wrong: %+v", el)
	}

	if !s.RemoveEvidenceFile(ctx, "AAC.1.a", "f1") {
		t.Fatal("remove failed")
	}
	// Removing an id that is not there is still a successful mutation of
	// a known code.
	if !s.RemoveVideo(ctx, "AAC.1.a", "v-missing") {
		t.Fatal("remove of absent id on known code must succeed")
	}
	el, _ = s.FindByCode("AAC.1.a")
	if len(el.EvidenceFiles) != 0 || len(el.Videos) != 1 {
		t.Fatalf("remove results wrong: files=%d videos=%d", len(el.EvidenceFiles), len(el.Videos))
	}
}

func TestStoreChaptersReturnsCopies(t *testing.T) {
	s := seededStore(t, nil)
	chapters := s.Chapters()
	chapters[0].Elements[0].Status = compliance.StatusCompleted

	el, _ := s.GetElement("ch-aac", "oe-aac-1-a")
	if el.Status == compliance.StatusCompleted {
		t.Fatal("Chapters() leaked internal storage")
	}
}

func TestStoreSnapshotIsValidJSON(t *testing.T) {
	kv := newMemKV()
	seededStore(t, kv)

	raw, ok := kv.values[SnapshotKey]
	if !ok {
		t.Fatal("merge did not persist a snapshot")
	}
	var snap map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		t.Fatalf("snapshot not valid JSON: %v", err)
	}
	for _, key := range []string{"generation", "source", "chapters", "filters"} {
		if _, ok := snap[key]; !ok {
			t.Fatalf("snapshot missing %q", key)
		}
	}
}
