package search

import (
	"BLAST-Seed-Extension/seed_extender/common"
	"BLAST-Seed-Extension/seed_extender/sequence"
)

// hit converts an ungapped extension found in query context c and subject
// frame sframe into a reported Hit.
func (p *plan) hit(c queryContext, sframe, qOff, sOff int, u common.Ungapped) Hit {
	h := Hit{
		QueryFrame:    c.frame,
		SubjectFrame:  sframe,
		QueryOffset:   qOff,
		SubjectOffset: sOff,
		QStart:        u.QStart,
		QEnd:          u.QEnd(),
		SStart:        u.SStart,
		SEnd:          u.SEnd(),
		Score:         u.Score,
	}
	h.QueryFrom, h.QueryTo = p.querySpan(c, u.QStart, u.QEnd())
	return h
}

// querySpan maps the half-open context range [from, to) back to an
// inclusive range on the query as given.
func (p *plan) querySpan(c queryContext, from, to int) (int, int) {
	n, frame := p.queryLen, c.frame
	switch {
	case !c.translated && frame < 0:
		return n - to, n - from - 1
	case !c.translated:
		return from, to - 1
	case frame > 0:
		return sequence.FrameToNucleotide(from, frame, n), sequence.FrameToNucleotide(to-1, frame, n) + 2
	}
	return sequence.FrameToNucleotide(to-1, frame, n), sequence.FrameToNucleotide(from, frame, n) + 2
}
