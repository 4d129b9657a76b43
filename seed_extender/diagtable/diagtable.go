// Package diagtable records, per diagonal, how far the last extension on
// that diagonal reached, so seeds inside an already extended region are
// skipped.
//
// Entries store subject offsets shifted by a running table offset. Moving to
// the next subject only advances the offset, which turns every stored entry
// stale at once; memory is re-zeroed only when the offset nears overflow.
package diagtable

import "BLAST-Seed-Extension/seed_extender/config"

// Entry is the state of one diagonal.
type Entry struct {
	// LastHit is the shifted subject offset one past the last extension, or
	// of the last saved hit in two-hit mode.
	LastHit int
	// Flag is set in two-hit mode when a hit was saved but not yet extended.
	Flag bool
}

// Table is owned by a single search worker.
type Table struct {
	entries      []Entry
	mask         int
	offset       int
	window       int
	multipleHits bool
	queryLen     int
	clears       int
}

// New sizes a table for a query of queryLength residues. The entry count is
// the smallest power of two not below queryLength+windowSize.
func New(queryLength int, multipleHits bool, windowSize int) *Table {
	if windowSize < 0 {
		windowSize = 0
	}
	n := 1
	for n < queryLength+windowSize {
		n <<= 1
	}
	return &Table{
		entries:      make([]Entry, n),
		mask:         n - 1,
		offset:       windowSize,
		window:       windowSize,
		multipleHits: multipleHits,
		queryLen:     queryLength,
	}
}

// Free releases the table and returns nil.
func Free(t *Table) *Table {
	if t != nil {
		t.entries = nil
	}
	return nil
}

// Len is the number of entries.
func (t *Table) Len() int { return len(t.entries) }

// Offset is the current base offset.
func (t *Table) Offset() int { return t.offset }

// Window is the two-hit window the table was sized with.
func (t *Table) Window() int { return t.window }

// MultipleHits reports whether the table was created for two-hit mode.
func (t *Table) MultipleHits() bool { return t.multipleHits }

// Clears counts how many times storage was physically re-zeroed.
func (t *Table) Clears() int { return t.clears }

// Diag maps a (query, subject) offset pair to its entry index.
func (t *Table) Diag(qOff, sOff int) int {
	return (sOff - qOff + t.queryLen) & t.mask
}

// Entry returns the entry for index d.
func (t *Table) Entry(d int) *Entry { return &t.entries[d] }

// LastHit returns the unshifted last-hit offset of diagonal d. A value not
// above zero means nothing was recorded for the current subject.
func (t *Table) LastHit(d int) int { return t.entries[d].LastHit - t.offset }

// Record stores an unshifted subject offset as diagonal d's last hit.
func (t *Table) Record(d, sOff int, flag bool) {
	e := &t.entries[d]
	e.LastHit = sOff + t.offset
	e.Flag = flag
}

// Update moves the table on to the next subject after one of subjectLength
// residues. Old entries become stale without being touched.
func (t *Table) Update(subjectLength int) {
	if subjectLength <= 0 {
		return
	}
	if t.offset >= config.DiagOffsetLimit-subjectLength-t.window {
		t.Clear()
		return
	}
	t.offset += subjectLength + t.window
}

// Clear zeroes every entry and resets the offset. This is the only O(n)
// operation.
func (t *Table) Clear() {
	for i := range t.entries {
		t.entries[i] = Entry{}
	}
	t.offset = t.window
	t.clears++
}
