// Package listsrc provides sequence sources over an explicit list of
// sequence ids or sequence locations, resolved through a seqsrc.Fetcher.
package listsrc

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"BLAST-Seed-Extension/seed_extender/seqsrc"
)

// Loc is a 0-based half-open interval [From, To) on sequence ID.
type Loc struct {
	ID       string
	From, To int
}

func (l Loc) String() string { return fmt.Sprintf("%s:%d-%d", l.ID, l.From+1, l.To) }

// ParseLoc reads the 1-based inclusive "id:from-to" form String writes.
func ParseLoc(s string) (Loc, error) {
	i := strings.LastIndexByte(s, ':')
	if i <= 0 {
		return Loc{}, fmt.Errorf("listsrc: location %q: want id:from-to", s)
	}
	from, to, ok := strings.Cut(s[i+1:], "-")
	if !ok {
		return Loc{}, fmt.Errorf("listsrc: location %q: want id:from-to", s)
	}
	f, err := strconv.Atoi(from)
	if err != nil {
		return Loc{}, fmt.Errorf("listsrc: location %q: %w", s, err)
	}
	t, err := strconv.Atoi(to)
	if err != nil {
		return Loc{}, fmt.Errorf("listsrc: location %q: %w", s, err)
	}
	if f < 1 || t < f {
		return Loc{}, fmt.Errorf("%w: %q", ErrBadRange, s)
	}
	return Loc{ID: s[:i], From: f - 1, To: t}, nil
}

// SeqIDListArgs configures NewSeqIDList.
type SeqIDListArgs struct {
	Name    string
	IDs     []string
	Fetcher seqsrc.Fetcher
	Protein bool
}

// SeqLocListArgs configures NewSeqLocList.
type SeqLocListArgs struct {
	Name    string
	Locs    []Loc
	Fetcher seqsrc.Fetcher
	Protein bool
}

var errBadArg = errors.New("listsrc: wrong constructor argument type")

// list is shared by both backends: every entry resolves to a Loc, and
// lengths are resolved once at construction.
type list struct {
	name    string
	locs    []Loc
	fetcher seqsrc.Fetcher
	protein bool
	maxLen  int
	totLen  int64
}

func (l *list) add(loc Loc) {
	n := loc.To - loc.From
	if n > l.maxLen {
		l.maxLen = n
	}
	l.totLen += int64(n)
	l.locs = append(l.locs, loc)
}

// NewSeqIDList is a seqsrc.NewFunc over whole sequences named by id. An id
// the fetcher does not know fails construction.
func NewSeqIDList(arg any) (seqsrc.Backend, error) {
	a, ok := arg.(*SeqIDListArgs)
	if !ok || a == nil {
		return nil, errBadArg
	}
	if a.Fetcher == nil {
		return nil, errors.New("listsrc: nil fetcher")
	}
	l := &list{name: a.Name, fetcher: a.Fetcher, protein: a.Protein}
	for _, id := range a.IDs {
		n, err := a.Fetcher.Length(id)
		if err != nil {
			return nil, err
		}
		l.add(Loc{ID: id, From: 0, To: n})
	}
	if l.name == "" {
		l.name = "seqid-list"
	}
	return &SeqIDList{l}, nil
}

// NewSeqLocList is a seqsrc.NewFunc over explicit sequence intervals.
func NewSeqLocList(arg any) (seqsrc.Backend, error) {
	a, ok := arg.(*SeqLocListArgs)
	if !ok || a == nil {
		return nil, errBadArg
	}
	if a.Fetcher == nil {
		return nil, errors.New("listsrc: nil fetcher")
	}
	l := &list{name: a.Name, fetcher: a.Fetcher, protein: a.Protein}
	for _, loc := range a.Locs {
		n, err := a.Fetcher.Length(loc.ID)
		if err != nil {
			return nil, err
		}
		if loc.From < 0 || loc.To > n || loc.From >= loc.To {
			return nil, fmt.Errorf("%w: %v of %d", ErrBadRange, loc, n)
		}
		l.add(loc)
	}
	if l.name == "" {
		l.name = "seqloc-list"
	}
	return &SeqLocList{l}, nil
}

// SeqIDList serves whole sequences in list order.
type SeqIDList struct{ *list }

func (s *SeqIDList) SeqIDStr(oid int) string {
	if oid < 0 || oid >= len(s.locs) {
		return ""
	}
	return s.locs[oid].ID
}

// SeqLocList serves sequence intervals in list order.
type SeqLocList struct{ *list }

func (s *SeqLocList) SeqIDStr(oid int) string {
	if oid < 0 || oid >= len(s.locs) {
		return ""
	}
	return s.locs[oid].String()
}

func (l *list) NumSeqs() int    { return len(l.locs) }
func (l *list) MaxSeqLen() int  { return l.maxLen }
func (l *list) TotLen() int64   { return l.totLen }
func (l *list) Name() string    { return l.name }
func (l *list) IsProtein() bool { return l.protein }

func (l *list) SeqLen(oid int) int {
	if oid < 0 || oid >= len(l.locs) {
		return -1
	}
	return l.locs[oid].To - l.locs[oid].From
}

func (l *list) GetSequence(arg *seqsrc.GetSeqArg) seqsrc.Status {
	if arg.OID >= len(l.locs) {
		return seqsrc.EOF
	}
	loc := l.locs[arg.OID]
	residues, err := l.fetcher.Fetch(loc.ID, loc.From, loc.To)
	if err != nil {
		arg.Err = err
		return seqsrc.Error
	}
	if err := arg.Seq.Fill(arg.OID, loc.ID, residues, arg.Encoding); err != nil {
		arg.Err = err
		return seqsrc.Error
	}
	return seqsrc.Success
}
