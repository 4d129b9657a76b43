package regions

import (
	"sort"

	"BLAST-Seed-Extension/seed_extender/common"
)

// FindUncoveredRegions returns the [start, end] inclusive query ranges no
// segment covers.
func FindUncoveredRegions(queryLen int, segments []common.Segment) [][2]int {
	if len(segments) == 0 {
		if queryLen > 0 {
			return [][2]int{{0, queryLen - 1}}
		}
		return [][2]int{}
	}

	sorted := make([]common.Segment, len(segments))
	copy(sorted, segments)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].QueryStart < sorted[j].QueryStart
	})

	uncovered := [][2]int{}
	next := 0 // end of the last covered region + 1
	for _, seg := range sorted {
		if seg.QueryStart > next {
			uncovered = append(uncovered, [2]int{next, seg.QueryStart - 1})
		}
		if seg.QueryEnd+1 > next {
			next = seg.QueryEnd + 1
		}
	}
	if next < queryLen {
		uncovered = append(uncovered, [2]int{next, queryLen - 1})
	}
	return uncovered
}

// Coverage is the fraction of a query of queryLen residues covered by at
// least one segment.
func Coverage(queryLen int, segments []common.Segment) float64 {
	if queryLen <= 0 {
		return 0
	}
	open := 0
	for _, r := range FindUncoveredRegions(queryLen, segments) {
		open += r[1] - r[0] + 1
	}
	return float64(queryLen-open) / float64(queryLen)
}
