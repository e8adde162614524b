// Package tracker owns the process-wide merged accreditation tree.
// The merge path is the only thing that replaces the tree; the
// mutation path only updates fields of elements already in it. No
// other component constructs or swaps the tree.
package tracker

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"

	"accredo/api/internal/compliance"
)

// SnapshotKey is the fixed namespace under which the store persists
// its state in the durable key-value backend.
const SnapshotKey = "accredo:v1:state"

// KV is the durable local store boundary: get returns found=false for
// a missing key rather than an error.
type KV interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key, value string) error
}

// Store holds the merged tree plus the current filter selections, and
// persists both as one snapshot after every local mutation and merge.
type Store struct {
	mu       sync.Mutex
	chapters []compliance.Chapter
	filters  Filters
	source   Source

	// generation guards against an older fetch's result clobbering a
	// newer one: reloads take a ticket from nextGeneration, and only a
	// ticket newer than lastApplied may publish its merge.
	nextGeneration uint64
	lastApplied    uint64

	// dirty tracks element codes edited locally since the last applied
	// merge; a merge discards those edits and reports how many.
	dirty map[string]struct{}

	kv KV
}

// MergeReport describes one applied (or rejected) merge cycle.
type MergeReport struct {
	Generation     uint64 `json:"generation"`
	Source         Source `json:"source"`
	Chapters       int    `json:"chapters"`
	Elements       int    `json:"elements"`
	DiscardedEdits int    `json:"discardedEdits"`
}

type snapshot struct {
	Generation uint64               `json:"generation"`
	Source     Source               `json:"source"`
	Chapters   []compliance.Chapter `json:"chapters"`
	Filters    Filters              `json:"filters"`
}

// New creates an empty store. kv may be nil, in which case snapshots
// are kept in memory only.
func New(kv KV) *Store {
	return &Store{
		chapters: []compliance.Chapter{},
		dirty:    map[string]struct{}{},
		kv:       kv,
	}
}

// Restore loads the last persisted snapshot so the application shows
// its last-known state before the first remote merge completes.
// A missing or unreadable snapshot is not an error.
func (s *Store) Restore(ctx context.Context) bool {
	if s.kv == nil {
		return false
	}
	raw, found, err := s.kv.Get(ctx, SnapshotKey)
	if err != nil {
		log.Printf("tracker: snapshot restore failed: %v", err)
		return false
	}
	if !found {
		return false
	}
	var snap snapshot
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		log.Printf("tracker: snapshot corrupt, ignoring: %v", err)
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.chapters = snap.Chapters
	if s.chapters == nil {
		s.chapters = []compliance.Chapter{}
	}
	s.filters = snap.Filters
	s.source = snap.Source
	return true
}

// BeginReload hands out a generation ticket for a reload cycle. The
// caller fetches both remote shapes under this ticket and applies the
// merge with it; tickets are strictly increasing.
func (s *Store) BeginReload() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextGeneration++
	return s.nextGeneration
}

// ApplyMerge publishes a merged tree for the given generation. A
// result from a generation at or below the last applied one is stale
// (a newer reload already completed) and is discarded. Local edits
// made since the previous merge are discarded by the replacement and
// counted in the report; that loss is deliberate and surfaced, never
// silent.
func (s *Store) ApplyMerge(ctx context.Context, generation uint64, chapters []compliance.Chapter, source Source) (MergeReport, bool) {
	s.mu.Lock()
	if generation <= s.lastApplied {
		s.mu.Unlock()
		log.Printf("tracker: discarding stale merge result (generation %d, last applied %d)", generation, s.lastApplied)
		return MergeReport{}, false
	}

	discarded := len(s.dirty)
	s.dirty = map[string]struct{}{}
	s.chapters = chapters
	if s.chapters == nil {
		s.chapters = []compliance.Chapter{}
	}
	s.source = source
	s.lastApplied = generation

	report := MergeReport{
		Generation:     generation,
		Source:         source,
		Chapters:       len(s.chapters),
		DiscardedEdits: discarded,
	}
	for _, ch := range s.chapters {
		report.Elements += len(ch.Elements)
	}
	s.mu.Unlock()

	if discarded > 0 {
		log.Printf("tracker: merge generation %d discarded %d unsynced local edits", generation, discarded)
	}
	log.Printf("tracker: merged %d chapters / %d elements from %s (generation %d)",
		report.Chapters, report.Elements, source, generation)
	s.persist(ctx)
	return report, true
}

// Generation returns the last applied merge generation. Callers can
// compare it against the one their edit was based on to detect "my
// edit predates the current tree".
func (s *Store) Generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastApplied
}

// Source reports which fallback tier the current tree came from.
func (s *Store) Source() Source {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.source
}

// Chapters returns a deep copy of the merged tree.
func (s *Store) Chapters() []compliance.Chapter {
	s.mu.Lock()
	defer s.mu.Unlock()
	return compliance.CloneChapters(s.chapters)
}

// Filter runs the query layer against the current tree.
func (s *Store) Filter(chapterID string, f Filters) []compliance.ObjectiveElement {
	s.mu.Lock()
	defer s.mu.Unlock()
	return FilterElements(s.chapters, chapterID, f)
}

// FilterState returns the persisted filter selections.
func (s *Store) FilterState() Filters {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filters
}

// SetFilterState records the current filter selections and persists
// them with the next snapshot.
func (s *Store) SetFilterState(ctx context.Context, f Filters) {
	s.mu.Lock()
	s.filters = f
	s.mu.Unlock()
	s.persist(ctx)
}

// UpdateElement shallow-merges the present fields of patch onto the
// element identified by chapter and element id (element code is also
// accepted; stale UI references after a reload are common). Unknown
// ids are a no-op, not an error. Returns the element after the patch
// and whether anything was found.
func (s *Store) UpdateElement(ctx context.Context, chapterID, elementID string, patch compliance.Overlay) (compliance.ObjectiveElement, bool) {
	s.mu.Lock()
	el := s.findElement(chapterID, elementID)
	if el == nil {
		s.mu.Unlock()
		return compliance.ObjectiveElement{}, false
	}
	patch.Apply(el)
	s.dirty[el.Code] = struct{}{}
	updated := compliance.CloneElement(*el)
	s.mu.Unlock()

	s.persist(ctx)
	return updated, true
}

// ApplyEditByCode shallow-merges a patch onto the element with the
// given code, wherever it lives. Unknown codes are a no-op.
func (s *Store) ApplyEditByCode(ctx context.Context, code string, patch compliance.Overlay) bool {
	return s.mutateByCode(ctx, code, func(el *compliance.ObjectiveElement) {
		patch.Apply(el)
	})
}

// GetElement looks an element up by chapter and element id or code.
func (s *Store) GetElement(chapterID, elementID string) (compliance.ObjectiveElement, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	el := s.findElement(chapterID, elementID)
	if el == nil {
		return compliance.ObjectiveElement{}, false
	}
	return compliance.CloneElement(*el), true
}

// FindByCode searches every chapter for an element code.
func (s *Store) FindByCode(code string) (compliance.ObjectiveElement, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for ci := range s.chapters {
		for ei := range s.chapters[ci].Elements {
			if s.chapters[ci].Elements[ei].Code == code {
				return compliance.CloneElement(s.chapters[ci].Elements[ei]), true
			}
		}
	}
	return compliance.ObjectiveElement{}, false
}

// mutateByCode applies fn to the element with the given code. Unknown
// codes are a no-op.
func (s *Store) mutateByCode(ctx context.Context, code string, fn func(*compliance.ObjectiveElement)) bool {
	s.mu.Lock()
	var target *compliance.ObjectiveElement
	for ci := range s.chapters {
		for ei := range s.chapters[ci].Elements {
			if s.chapters[ci].Elements[ei].Code == code {
				target = &s.chapters[ci].Elements[ei]
				break
			}
		}
		if target != nil {
			break
		}
	}
	if target == nil {
		s.mu.Unlock()
		return false
	}
	fn(target)
	s.dirty[code] = struct{}{}
	s.mu.Unlock()

	s.persist(ctx)
	return true
}

// AppendEvidenceFile attaches file metadata to an element.
func (s *Store) AppendEvidenceFile(ctx context.Context, code string, file compliance.EvidenceFile) bool {
	return s.mutateByCode(ctx, code, func(el *compliance.ObjectiveElement) {
		el.EvidenceFiles = append(el.EvidenceFiles, file)
	})
}

// RemoveEvidenceFile removes file metadata by id.
func (s *Store) RemoveEvidenceFile(ctx context.Context, code, fileID string) bool {
	return s.mutateByCode(ctx, code, func(el *compliance.ObjectiveElement) {
		el.EvidenceFiles = removeByID(el.EvidenceFiles, func(f compliance.EvidenceFile) string { return f.ID }, fileID)
	})
}

// AppendVideo links an external video to an element.
func (s *Store) AppendVideo(ctx context.Context, code string, video compliance.Video) bool {
	return s.mutateByCode(ctx, code, func(el *compliance.ObjectiveElement) {
		el.Videos = append(el.Videos, video)
	})
}

// RemoveVideo unlinks a video by id.
func (s *Store) RemoveVideo(ctx context.Context, code, videoID string) bool {
	return s.mutateByCode(ctx, code, func(el *compliance.ObjectiveElement) {
		el.Videos = removeByID(el.Videos, func(v compliance.Video) string { return v.ID }, videoID)
	})
}

// AppendTrainingMaterial records a training material on an element.
func (s *Store) AppendTrainingMaterial(ctx context.Context, code string, material compliance.TrainingMaterial) bool {
	return s.mutateByCode(ctx, code, func(el *compliance.ObjectiveElement) {
		el.TrainingMaterials = append(el.TrainingMaterials, material)
	})
}

// RemoveTrainingMaterial removes a training material by id.
func (s *Store) RemoveTrainingMaterial(ctx context.Context, code, materialID string) bool {
	return s.mutateByCode(ctx, code, func(el *compliance.ObjectiveElement) {
		el.TrainingMaterials = removeByID(el.TrainingMaterials, func(m compliance.TrainingMaterial) string { return m.ID }, materialID)
	})
}

// AppendSOPDocument records an SOP document on an element.
func (s *Store) AppendSOPDocument(ctx context.Context, code string, doc compliance.SOPDocument) bool {
	return s.mutateByCode(ctx, code, func(el *compliance.ObjectiveElement) {
		el.SOPDocuments = append(el.SOPDocuments, doc)
	})
}

// RemoveSOPDocument removes an SOP document by id.
func (s *Store) RemoveSOPDocument(ctx context.Context, code, docID string) bool {
	return s.mutateByCode(ctx, code, func(el *compliance.ObjectiveElement) {
		el.SOPDocuments = removeByID(el.SOPDocuments, func(d compliance.SOPDocument) string { return d.ID }, docID)
	})
}

func removeByID[T any](items []T, id func(T) string, target string) []T {
	out := items[:0]
	for _, item := range items {
		if id(item) != target {
			out = append(out, item)
		}
	}
	return out
}

func (s *Store) findElement(chapterID, elementID string) *compliance.ObjectiveElement {
	for ci := range s.chapters {
		ch := &s.chapters[ci]
		if ch.ID != chapterID && ch.Code != chapterID {
			continue
		}
		for ei := range ch.Elements {
			el := &ch.Elements[ei]
			if el.ID == elementID || el.Code == elementID {
				return el
			}
		}
		return nil
	}
	return nil
}

// persist writes the whole snapshot to the durable store. Persistence
// failures must never break a merge or a mutation; they are logged and
// the in-memory state remains the source of truth.
func (s *Store) persist(ctx context.Context) {
	if s.kv == nil {
		return
	}
	s.mu.Lock()
	snap := snapshot{
		Generation: s.lastApplied,
		Source:     s.source,
		Chapters:   compliance.CloneChapters(s.chapters),
		Filters:    s.filters,
	}
	s.mu.Unlock()

	raw, err := json.Marshal(snap)
	if err != nil {
		log.Printf("tracker: snapshot marshal failed: %v", err)
		return
	}
	if err := s.kv.Set(ctx, SnapshotKey, string(raw)); err != nil {
		log.Printf("tracker: snapshot save failed: %v", err)
	}
}

// Describe returns a one-line summary for diagnostics.
func (s *Store) Describe() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	elements := 0
	for _, ch := range s.chapters {
		elements += len(ch.Elements)
	}
	return fmt.Sprintf("%d chapters, %d elements, source=%s, generation=%d", len(s.chapters), elements, s.source, s.lastApplied)
}
