// Package seqsrc decouples the search engine from where subject sequences
// are stored. A SeqSrc wraps a Backend (a BLAST-style database, a FASTA
// file, an explicit id or location list) behind the same five queries.
package seqsrc

import (
	"errors"
	"fmt"
	"io"

	"BLAST-Seed-Extension/seed_extender/sequence"
)

// Status is the outcome of GetSequence. It is deliberately not an error:
// callers stop scanning on EOF but skip and continue on Error.
type Status int

const (
	Error   Status = -1
	EOF     Status = 0
	Success Status = 1
)

func (s Status) String() string {
	switch s {
	case Error:
		return "error"
	case EOF:
		return "eof"
	case Success:
		return "success"
	}
	return fmt.Sprintf("status(%d)", int(s))
}

// GetSeqArg is the per-call request for one sequence. A non-nil Seq is
// reused; a nil Seq is allocated by GetSequence. Err holds the backend's
// error when GetSequence returns Error.
type GetSeqArg struct {
	OID      int
	Encoding sequence.Encoding
	Seq      *sequence.SequenceBlk
	Err      error
}

// Backend is implemented by every concrete sequence store. Metadata queries
// must be O(1) or cached.
type Backend interface {
	NumSeqs() int
	MaxSeqLen() int
	TotLen() int64
	// GetSequence fills arg.Seq. An oid past the end yields EOF, never Error.
	GetSequence(arg *GetSeqArg) Status
	SeqIDStr(oid int) string

	Name() string
	IsProtein() bool
	// SeqLen returns the length of oid, or -1 when oid is out of range.
	SeqLen(oid int) int
}

// NewFunc builds a Backend from a constructor-specific argument.
type NewFunc func(arg any) (Backend, error)

var (
	ErrNoConstructor = errors.New("seqsrc: no constructor function")
	ErrNilBackend    = errors.New("seqsrc: constructor returned no backend")
)

// SeqSrc is an owned handle on a Backend. It is not safe for concurrent use;
// each search worker opens its own.
type SeqSrc struct {
	backend Backend
}

// New runs newFn with arg and returns the resulting source. On any failure
// the returned handle is nil.
func New(newFn NewFunc, arg any) (*SeqSrc, error) {
	if newFn == nil {
		return nil, ErrNoConstructor
	}
	b, err := newFn(arg)
	if err != nil {
		return nil, fmt.Errorf("seqsrc: constructor: %w", err)
	}
	if b == nil {
		return nil, ErrNilBackend
	}
	return &SeqSrc{backend: b}, nil
}

// Free releases src and always returns nil, so callers can write
// src = seqsrc.Free(src). A backend that is an io.Closer is closed once;
// backends without a Close own no external resources. Freeing nil is a no-op.
func Free(src *SeqSrc) *SeqSrc {
	if src == nil || src.backend == nil {
		return nil
	}
	if c, ok := src.backend.(io.Closer); ok {
		_ = c.Close()
	}
	src.backend = nil
	return nil
}

func (src *SeqSrc) NumSeqs() int {
	if src == nil || src.backend == nil {
		return 0
	}
	return src.backend.NumSeqs()
}

func (src *SeqSrc) MaxSeqLen() int {
	if src == nil || src.backend == nil {
		return 0
	}
	return src.backend.MaxSeqLen()
}

func (src *SeqSrc) TotLen() int64 {
	if src == nil || src.backend == nil {
		return 0
	}
	return src.backend.TotLen()
}

// AvgSeqLen is TotLen/NumSeqs, or 0 for an empty source.
func (src *SeqSrc) AvgSeqLen() int {
	n := src.NumSeqs()
	if n == 0 {
		return 0
	}
	return int(src.TotLen() / int64(n))
}

func (src *SeqSrc) Name() string {
	if src == nil || src.backend == nil {
		return ""
	}
	return src.backend.Name()
}

func (src *SeqSrc) IsProtein() bool {
	if src == nil || src.backend == nil {
		return false
	}
	return src.backend.IsProtein()
}

func (src *SeqSrc) SeqLen(oid int) int {
	if src == nil || src.backend == nil {
		return -1
	}
	return src.backend.SeqLen(oid)
}

// GetSequence fetches arg.OID. A freed or nil source reports Error.
func (src *SeqSrc) GetSequence(arg *GetSeqArg) Status {
	if arg == nil {
		return Error
	}
	arg.Err = nil
	if src == nil || src.backend == nil {
		arg.Err = errors.New("seqsrc: source freed")
		return Error
	}
	if arg.OID < 0 {
		arg.Err = fmt.Errorf("seqsrc: negative oid %d", arg.OID)
		return Error
	}
	if arg.OID >= src.backend.NumSeqs() {
		return EOF
	}
	if arg.Seq == nil {
		arg.Seq = &sequence.SequenceBlk{}
	}
	return src.backend.GetSequence(arg)
}

// SeqIDStr returns a printable identifier for oid.
func (src *SeqSrc) SeqIDStr(oid int) string {
	if src == nil || src.backend == nil {
		return ""
	}
	return src.backend.SeqIDStr(oid)
}

// Fetcher is the retrieval contract list-backed sources are built on: the
// residues of id in [from, to) as upper-case letters, and the full length.
type Fetcher interface {
	Fetch(id string, from, to int) ([]byte, error)
	Length(id string) (int, error)
}
