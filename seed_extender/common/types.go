package common

// Ungapped is the extent of an ungapped extension. QStart and SStart are
// 0-based; the alignment covers Length residues on both sequences.
type Ungapped struct {
	QStart int
	SStart int
	Length int
	Score  int
}

// QEnd is the exclusive query end.
func (u Ungapped) QEnd() int { return u.QStart + u.Length }

// SEnd is the exclusive subject end.
func (u Ungapped) SEnd() int { return u.SStart + u.Length }

// Diagonal is SStart - QStart.
func (u Ungapped) Diagonal() int { return u.SStart - u.QStart }

// InitHit is a seed that survived extension. QueryOffset and SubjectOffset
// are the seed's word start; Ungapped is nil only for hits saved without
// extension.
type InitHit struct {
	QueryOffset   int
	SubjectOffset int
	Ungapped      *Ungapped
}

// Segment represents a matched region between query and subject.
// QueryStart, QueryEnd, RefStart, RefEnd are 0-based inclusive.
type Segment struct {
	QueryStart int
	QueryEnd   int
	RefStart   int
	RefEnd     int
}
