// Package hitlist accumulates the ungapped hits found while scanning one
// subject.
package hitlist

import (
	"encoding/binary"
	"sort"

	"BLAST-Seed-Extension/seed_extender/common"

	"github.com/zeebo/wyhash"
)

// InitHitList holds hits in the order their seeds were processed. It is
// owned by one worker.
type InitHitList struct {
	hits []common.InitHit
	key  []byte
}

// New returns an empty list with room for capacity hits.
func New(capacity int) *InitHitList {
	if capacity < 0 {
		capacity = 0
	}
	return &InitHitList{hits: make([]common.InitHit, 0, capacity)}
}

// Append records a hit for the seed at (qOff, sOff).
func (l *InitHitList) Append(qOff, sOff int, u *common.Ungapped) {
	l.hits = append(l.hits, common.InitHit{QueryOffset: qOff, SubjectOffset: sOff, Ungapped: u})
}

func (l *InitHitList) Len() int { return len(l.hits) }

// Hits returns the backing slice; it is only valid until the next Reset.
func (l *InitHitList) Hits() []common.InitHit { return l.hits }

// Reset empties the list and keeps its storage.
func (l *InitHitList) Reset() {
	for i := range l.hits {
		l.hits[i] = common.InitHit{}
	}
	l.hits = l.hits[:0]
}

// Finalize sorts the hits by query then subject offset and drops hits whose
// extension extent repeats one already kept. It returns the remaining count.
func (l *InitHitList) Finalize() int {
	if len(l.hits) < 2 {
		return len(l.hits)
	}
	sort.SliceStable(l.hits, func(i, j int) bool {
		a, b := l.hits[i], l.hits[j]
		if a.QueryOffset != b.QueryOffset {
			return a.QueryOffset < b.QueryOffset
		}
		return a.SubjectOffset < b.SubjectOffset
	})

	seen := make(map[uint64]struct{}, len(l.hits))
	kept := l.hits[:0]
	for _, h := range l.hits {
		key := l.extentHash(h)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		kept = append(kept, h)
	}
	for i := len(kept); i < len(l.hits); i++ {
		l.hits[i] = common.InitHit{}
	}
	l.hits = kept
	return len(l.hits)
}

// Unextended hits are tagged so a seed key never equals an extent key.
func (l *InitHitList) extentHash(h common.InitHit) uint64 {
	b := l.key[:0]
	if h.Ungapped == nil {
		b = append(b, 's')
		b = binary.LittleEndian.AppendUint64(b, uint64(h.QueryOffset))
		b = binary.LittleEndian.AppendUint64(b, uint64(h.SubjectOffset))
	} else {
		u := h.Ungapped
		b = append(b, 'e')
		b = binary.LittleEndian.AppendUint64(b, uint64(u.QStart))
		b = binary.LittleEndian.AppendUint64(b, uint64(u.QEnd()))
		b = binary.LittleEndian.AppendUint64(b, uint64(u.SStart))
		b = binary.LittleEndian.AppendUint64(b, uint64(u.SEnd()))
	}
	l.key = b
	return wyhash.Hash(b, 0)
}

// MergeAdjacent joins extended hits on the same diagonal whose extents are
// at most maxGap residues apart. The merged extent spans both hits; disjoint
// hits add their scores, overlapping ones keep the larger. Unextended hits
// pass through. maxGap <= 0 disables merging. The input is not modified.
func MergeAdjacent(hits []common.InitHit, maxGap int) []common.InitHit {
	out := make([]common.InitHit, 0, len(hits))
	if maxGap <= 0 || len(hits) <= 1 {
		return append(out, hits...)
	}

	var extended []common.InitHit
	for _, h := range hits {
		if h.Ungapped == nil {
			out = append(out, h)
			continue
		}
		u := *h.Ungapped
		h.Ungapped = &u
		extended = append(extended, h)
	}
	sort.SliceStable(extended, func(i, j int) bool {
		a, b := extended[i].Ungapped, extended[j].Ungapped
		if a.Diagonal() != b.Diagonal() {
			return a.Diagonal() < b.Diagonal()
		}
		return a.QStart < b.QStart
	})

	var merged []common.InitHit
	for _, next := range extended {
		if len(merged) == 0 {
			merged = append(merged, next)
			continue
		}
		cur := merged[len(merged)-1].Ungapped
		nu := next.Ungapped
		gap := nu.QStart - cur.QEnd()
		if cur.Diagonal() != nu.Diagonal() || gap > maxGap {
			merged = append(merged, next)
			continue
		}
		if gap >= 0 {
			cur.Score += nu.Score
		} else if nu.Score > cur.Score {
			cur.Score = nu.Score
		}
		if nu.QEnd() > cur.QEnd() {
			cur.Length = nu.QEnd() - cur.QStart
		}
	}
	return append(out, merged...)
}
