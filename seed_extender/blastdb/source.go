package blastdb

import (
	"errors"

	"BLAST-Seed-Extension/seed_extender/seqsrc"
)

// Source is one worker's view of a DB. It owns its decode buffer; closing it
// does not close the DB.
type Source struct {
	db  *DB
	buf []byte
}

// NewBackend is a seqsrc.NewFunc taking an open *DB.
func NewBackend(arg any) (seqsrc.Backend, error) {
	db, ok := arg.(*DB)
	if !ok || db == nil {
		return nil, errors.New("blastdb: want an open *blastdb.DB")
	}
	return &Source{db: db}, nil
}

func (s *Source) NumSeqs() int       { return s.db.NumSeqs() }
func (s *Source) MaxSeqLen() int     { return s.db.MaxSeqLen() }
func (s *Source) TotLen() int64      { return s.db.TotLen() }
func (s *Source) Name() string       { return s.db.Path() }
func (s *Source) IsProtein() bool    { return s.db.IsProtein() }
func (s *Source) SeqLen(oid int) int { return s.db.SeqLen(oid) }

func (s *Source) SeqIDStr(oid int) string {
	id, err := s.db.ID(oid)
	if err != nil {
		return ""
	}
	return id
}

func (s *Source) GetSequence(arg *seqsrc.GetSeqArg) seqsrc.Status {
	if arg.OID >= s.db.NumSeqs() {
		return seqsrc.EOF
	}
	id, err := s.db.ID(arg.OID)
	if err != nil {
		arg.Err = err
		return seqsrc.Error
	}
	s.buf, err = s.db.Residues(s.buf, arg.OID)
	if err != nil {
		arg.Err = err
		return seqsrc.Error
	}
	if err := arg.Seq.Fill(arg.OID, id, s.buf, arg.Encoding); err != nil {
		arg.Err = err
		return seqsrc.Error
	}
	return seqsrc.Success
}
