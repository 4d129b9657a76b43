package matching

import (
	"BLAST-Seed-Extension/seed_extender/common"
	"BLAST-Seed-Extension/seed_extender/diagtable"
	"BLAST-Seed-Extension/seed_extender/hitlist"
	"BLAST-Seed-Extension/seed_extender/scoring"
)

// Extender turns word hits into ungapped alignments. Its fields are read
// only, so one Extender may serve several workers; the diagonal table and
// hit list passed to each call belong to the calling worker.
type Extender struct {
	Matrix *scoring.Matrix
	// XDrop stops an extension once the running score falls this far below
	// the best seen.
	XDrop int
	// Cutoff is the lowest score a hit is kept with.
	Cutoff int
	// WordSize is the exact-match length MegaBlastExtend verifies, and the
	// overlap distance for two-hit seeding.
	WordSize int
}

// ExtendRight extends each seed (qOffsets[i], sOffsets[i]) from its start
// rightward. Seeds lying inside a region already extended on their diagonal
// are skipped. It returns the number of seeds extended.
func (e *Extender) ExtendRight(qOffsets, sOffsets []int, query, subject []byte, t *diagtable.Table, hits *hitlist.InitHitList) int {
	return e.extendSeeds(qOffsets, sOffsets, query, subject, t, hits, false)
}

// ExtendRightAndLeft is ExtendRight that also extends leftward from each
// seed start.
func (e *Extender) ExtendRightAndLeft(qOffsets, sOffsets []int, query, subject []byte, t *diagtable.Table, hits *hitlist.InitHitList) int {
	return e.extendSeeds(qOffsets, sOffsets, query, subject, t, hits, true)
}

func (e *Extender) extendSeeds(qOffsets, sOffsets []int, query, subject []byte, t *diagtable.Table, hits *hitlist.InitHitList, left bool) int {
	n := len(qOffsets)
	if len(sOffsets) < n {
		n = len(sOffsets)
	}
	extended := 0
	for i := 0; i < n; i++ {
		q, s := qOffsets[i], sOffsets[i]
		if q < 0 || s < 0 || q >= len(query) || s >= len(subject) {
			continue
		}
		d := t.Diag(q, s)
		if !e.ready(t, d, s) {
			continue
		}
		e.extendOne(q, s, query, subject, t, d, hits, left)
		extended++
	}
	return extended
}

// ready applies the diagonal table's skip rule for a seed at subject offset
// s on diagonal d and, when the table was built for multiple hits, saves
// first hits. It reports whether the seed should be extended now.
func (e *Extender) ready(t *diagtable.Table, d, s int) bool {
	entry := t.Entry(d)
	last := t.LastHit(d)
	if !t.MultipleHits() {
		return s >= last
	}
	if !entry.Flag {
		if s < last {
			return false
		}
		t.Record(d, s, true)
		return false
	}
	dist := s - last
	switch {
	case dist < 0:
		return false
	case dist >= t.Window():
		// Too far from the saved hit: this one becomes the new first hit.
		t.Record(d, s, true)
		return false
	case dist < e.WordSize:
		// Overlaps the saved hit.
		return false
	}
	return true
}

// extendOne runs the ungapped extension, records how far the diagonal was
// extended and appends the hit when it reaches the cutoff.
func (e *Extender) extendOne(q, s int, query, subject []byte, t *diagtable.Table, d int, hits *hitlist.InitHitList, left bool) *common.Ungapped {
	rScore, rLen := e.extendRightFrom(query, subject, q, s)
	lScore, lLen := 0, 0
	if left {
		lScore, lLen = e.extendLeftFrom(query, subject, q, s)
	}
	u := common.Ungapped{
		QStart: q - lLen,
		SStart: s - lLen,
		Length: lLen + rLen,
		Score:  lScore + rScore,
	}
	end := s + rLen
	if end <= s {
		end = s + 1
	}
	t.Record(d, end, false)
	if u.Length == 0 || u.Score < e.Cutoff {
		return nil
	}
	hits.Append(q, s, &u)
	return &u
}

// extendRightFrom scores query[q:] against subject[s:] and returns the best
// score and the length reaching it.
func (e *Extender) extendRightFrom(query, subject []byte, q, s int) (best, length int) {
	sum := 0
	for i := 0; q+i < len(query) && s+i < len(subject); i++ {
		sum += e.Matrix.Score(query[q+i], subject[s+i])
		if sum > best {
			best = sum
			length = i + 1
		} else if best-sum > e.XDrop {
			break
		}
	}
	return best, length
}

// extendLeftFrom scores leftward from query[q-1] and subject[s-1].
func (e *Extender) extendLeftFrom(query, subject []byte, q, s int) (best, length int) {
	sum := 0
	for i := 1; q-i >= 0 && s-i >= 0; i++ {
		sum += e.Matrix.Score(query[q-i], subject[s-i])
		if sum > best {
			best = sum
			length = i
		} else if best-sum > e.XDrop {
			break
		}
	}
	return best, length
}

// MegaBlastExtend handles a single word hit the way MegaBLAST does: the
// exact match around the hit must reach WordSize before it is extended in
// both directions. It reports whether the hit was extended.
func (e *Extender) MegaBlastExtend(q, s int, query, subject []byte, t *diagtable.Table, hits *hitlist.InitHitList) bool {
	if q < 0 || s < 0 || q >= len(query) || s >= len(subject) {
		return false
	}
	d := t.Diag(q, s)
	if s < t.LastHit(d) {
		return false
	}
	if exactRun(query, subject, q, s) < e.WordSize {
		return false
	}
	e.extendOne(q, s, query, subject, t, d, hits, true)
	return true
}

// exactRun is the length of the exact match through (q, s).
func exactRun(query, subject []byte, q, s int) int {
	n := 0
	for i := 0; q+i < len(query) && s+i < len(subject) && query[q+i] == subject[s+i]; i++ {
		n++
	}
	if n == 0 {
		return 0
	}
	for i := 1; q-i >= 0 && s-i >= 0 && query[q-i] == subject[s-i]; i++ {
		n++
	}
	return n
}
