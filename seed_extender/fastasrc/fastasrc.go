// Package fastasrc serves subject sequences straight from a FASTA file. The
// file is indexed once and each GetSequence seeks to its record.
package fastasrc

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/biogo/hts/fai"

	"BLAST-Seed-Extension/seed_extender/seqsrc"
)

// Index is the read-only record table of one FASTA file. It is safe to share
// between sources opened on the same file.
type Index struct {
	path   string
	fai    fai.Index
	recs   []fai.Record
	byName map[string]int
	maxLen int
	totLen int64
}

// NewIndex scans path once and records where each sequence starts.
func NewIndex(path string) (*Index, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	idx, err := fai.NewIndex(f)
	if err != nil {
		return nil, fmt.Errorf("fastasrc: indexing %s: %w", path, err)
	}

	x := &Index{
		path:   path,
		fai:    idx,
		recs:   make([]fai.Record, 0, len(idx)),
		byName: make(map[string]int, len(idx)),
	}
	for _, r := range idx {
		x.recs = append(x.recs, r)
	}
	sort.Slice(x.recs, func(i, j int) bool { return x.recs[i].Start < x.recs[j].Start })
	for i, r := range x.recs {
		x.byName[r.Name] = i
		if r.Length > x.maxLen {
			x.maxLen = r.Length
		}
		x.totLen += int64(r.Length)
	}
	return x, nil
}

func (x *Index) Path() string { return x.path }

// Args configures New. A nil Index makes New index Path itself.
type Args struct {
	Path    string
	Protein bool
	Index   *Index
}

// File is a seqsrc.Backend and seqsrc.Fetcher over an indexed FASTA file.
// Oids follow the order records appear in the file.
type File struct {
	*Index
	f       *os.File
	fa      *fai.File
	protein bool
}

// New is a seqsrc.NewFunc taking *Args.
func New(arg any) (seqsrc.Backend, error) {
	a, ok := arg.(*Args)
	if !ok || a == nil {
		return nil, errors.New("fastasrc: want *fastasrc.Args")
	}
	idx := a.Index
	if idx == nil {
		var err error
		if idx, err = NewIndex(a.Path); err != nil {
			return nil, err
		}
	}
	f, err := OpenIndexed(idx, a.Protein)
	if err != nil {
		return nil, err
	}
	return f, nil
}

// Open indexes path and returns the backend. The caller owns the returned
// File and must Close it, directly or through seqsrc.Free.
func Open(path string, protein bool) (*File, error) {
	idx, err := NewIndex(path)
	if err != nil {
		return nil, err
	}
	return OpenIndexed(idx, protein)
}

// OpenIndexed opens a private handle on the indexed file.
func OpenIndexed(idx *Index, protein bool) (*File, error) {
	f, err := os.Open(idx.path)
	if err != nil {
		return nil, err
	}
	return &File{
		Index:   idx,
		f:       f,
		fa:      fai.NewFile(f, idx.fai),
		protein: protein,
	}, nil
}

func (s *File) Close() error { return s.f.Close() }

func (s *File) NumSeqs() int    { return len(s.recs) }
func (s *File) MaxSeqLen() int  { return s.maxLen }
func (s *File) TotLen() int64   { return s.totLen }
func (s *File) Name() string    { return s.path }
func (s *File) IsProtein() bool { return s.protein }

func (s *File) SeqLen(oid int) int {
	if oid < 0 || oid >= len(s.recs) {
		return -1
	}
	return s.recs[oid].Length
}

func (s *File) SeqIDStr(oid int) string {
	if oid < 0 || oid >= len(s.recs) {
		return ""
	}
	return s.recs[oid].Name
}

func (s *File) GetSequence(arg *seqsrc.GetSeqArg) seqsrc.Status {
	if arg.OID >= len(s.recs) {
		return seqsrc.EOF
	}
	rec := s.recs[arg.OID]
	residues, err := s.read(rec.Name, 0, rec.Length)
	if err != nil {
		arg.Err = err
		return seqsrc.Error
	}
	if err := arg.Seq.Fill(arg.OID, rec.Name, residues, arg.Encoding); err != nil {
		arg.Err = err
		return seqsrc.Error
	}
	return seqsrc.Success
}

func (s *File) Length(id string) (int, error) {
	i, ok := s.byName[id]
	if !ok {
		return 0, fmt.Errorf("fastasrc: unknown sequence %q", id)
	}
	return s.recs[i].Length, nil
}

// Fetch returns residues [from, to) of id, upper-cased.
func (s *File) Fetch(id string, from, to int) ([]byte, error) {
	n, err := s.Length(id)
	if err != nil {
		return nil, err
	}
	if from < 0 || to > n || from > to {
		return nil, fmt.Errorf("fastasrc: range [%d, %d) outside %s of length %d", from, to, id, n)
	}
	return s.read(id, from, to)
}

func (s *File) read(name string, from, to int) ([]byte, error) {
	r, err := s.fa.SeqRange(name, from, to)
	if err != nil {
		return nil, err
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("fastasrc: reading %s: %w", name, err)
	}
	return bytes.ToUpper(b), nil
}
