package listsrc

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/biogo/biogo/alphabet"
	"github.com/biogo/biogo/io/seqio"
	"github.com/biogo/biogo/io/seqio/fasta"
	"github.com/biogo/biogo/seq/linear"
)

var (
	ErrUnknownID   = errors.New("listsrc: unknown sequence id")
	ErrDuplicateID = errors.New("listsrc: duplicate sequence id")
	ErrBadRange    = errors.New("listsrc: range outside sequence")
)

// Store is an in-memory sequence collection. It satisfies seqsrc.Fetcher
// and backs the id and location list sources when no database is at hand.
type Store struct {
	alpha   alphabet.Alphabet
	protein bool
	ids     []string
	seqs    map[string]*linear.Seq
}

// NewStore returns an empty store for protein or nucleotide residues.
func NewStore(protein bool) *Store {
	alpha := alphabet.Alphabet(alphabet.DNAredundant)
	if protein {
		alpha = alphabet.Protein
	}
	return &Store{alpha: alpha, protein: protein, seqs: make(map[string]*linear.Seq)}
}

// LoadFasta reads every record of a FASTA stream into a new store.
func LoadFasta(r io.Reader, protein bool) (*Store, error) {
	s := NewStore(protein)
	sc := seqio.NewScanner(fasta.NewReader(r, linear.NewSeq("", nil, s.alpha)))
	for sc.Next() {
		rec := sc.Seq().(*linear.Seq)
		if err := s.Add(rec.ID, alphabet.LettersToBytes(rec.Seq)); err != nil {
			return nil, err
		}
	}
	if err := sc.Error(); err != nil {
		return nil, fmt.Errorf("listsrc: reading fasta: %w", err)
	}
	return s, nil
}

// Add stores residues under id, upper-cased.
func (s *Store) Add(id string, residues []byte) error {
	if _, ok := s.seqs[id]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateID, id)
	}
	letters := alphabet.BytesToLetters(bytes.ToUpper(residues))
	s.seqs[id] = linear.NewSeq(id, letters, s.alpha)
	s.ids = append(s.ids, id)
	return nil
}

// IDs returns the ids in insertion order.
func (s *Store) IDs() []string { return s.ids }

func (s *Store) IsProtein() bool { return s.protein }

func (s *Store) Length(id string) (int, error) {
	sq, ok := s.seqs[id]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownID, id)
	}
	return sq.Len(), nil
}

// Fetch returns residues [from, to) of id. The slice aliases the store.
func (s *Store) Fetch(id string, from, to int) ([]byte, error) {
	sq, ok := s.seqs[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownID, id)
	}
	if from < 0 || to > sq.Len() || from > to {
		return nil, fmt.Errorf("%w: %s [%d, %d) of %d", ErrBadRange, id, from, to, sq.Len())
	}
	return alphabet.LettersToBytes(sq.Seq[from:to]), nil
}
