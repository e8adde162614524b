package tracker

import (
	"sort"

	"accredo/api/internal/compliance"
)

// Source names which tier of the fallback chain produced a merged tree.
type Source string

const (
	SourceNormalized Source = "normalized"
	SourceFlatEdits  Source = "flat-edits"
	SourceBaseline   Source = "baseline"
)

// TreeSource is the settled outcome of the normalized fetch, already
// adapted to the canonical shape. Err set means the fetch failed.
type TreeSource struct {
	Chapters []compliance.Chapter
	Err      error
}

// FlatSource is the settled outcome of the flat-edits fetch.
type FlatSource struct {
	Edits map[string]compliance.Overlay
	Err   error
}

// MergeSources resolves one merged tree from the three tiers, first
// success wins:
//
//  1. a successful normalized fetch with at least one chapter is
//     authoritative and used whole, ignoring baseline and flat edits;
//  2. else a successful flat-edits fetch with at least one record is
//     sparsely overlaid onto the baseline;
//  3. else the baseline is used unmodified.
//
// "At least one row" rather than "HTTP success" is deliberate: an
// empty-but-reachable table is indistinguishable from one not yet
// populated, and falling back to richer content beats showing an empty
// application.
//
// The function is pure; callers own publishing the result.
func MergeSources(baseline []compliance.Chapter, normalized TreeSource, flat FlatSource) ([]compliance.Chapter, Source) {
	if normalized.Err == nil && len(normalized.Chapters) > 0 {
		merged := compliance.CloneChapters(normalized.Chapters)
		sortChapters(merged)
		return merged, SourceNormalized
	}

	merged := compliance.CloneChapters(baseline)
	sortChapters(merged)

	if flat.Err == nil && len(flat.Edits) > 0 {
		for ci := range merged {
			for ei := range merged[ci].Elements {
				el := &merged[ci].Elements[ei]
				if overlay, ok := flat.Edits[el.Code]; ok {
					overlay.Apply(el)
				}
			}
		}
		// Overlay records with no matching baseline code are simply not
		// joinable and drop out of this pass.
		return merged, SourceFlatEdits
	}

	return merged, SourceBaseline
}

// sortChapters orders by the ordinal hint ascending; chapters without
// one (OrdinalLast) end up after every numbered chapter, stably.
func sortChapters(chapters []compliance.Chapter) {
	sort.SliceStable(chapters, func(i, j int) bool {
		return chapters[i].Ordinal < chapters[j].Ordinal
	})
}
