package matching

import (
	"errors"
	"fmt"

	"BLAST-Seed-Extension/seed_extender/config"
	"BLAST-Seed-Extension/seed_extender/sequence"

	"github.com/shenwei356/kmers"
)

var ErrWordSize = errors.New("matching: word size out of range")

// Residues a protein word may hold; words with any other letter are not
// indexed.
const proteinAlphabet = "ARNDCQEGHILKMFPSTWYVBZX*"

var proteinCode [256]int

func init() {
	for i := range proteinCode {
		proteinCode[i] = -1
	}
	for i := 0; i < len(proteinAlphabet); i++ {
		proteinCode[proteinAlphabet[i]] = i
	}
}

// LookupTable maps every word of the query to the offsets it occurs at.
// It is built once per query context and only read afterwards, so workers
// share it.
type LookupTable struct {
	WordSize int
	protein  bool

	nt     map[uint64][]int
	direct [][]int          // protein words of up to 3 residues
	words  map[string][]int // longer protein words

	numWords int
	maxHits  int
}

// NewNucleotideLookup indexes query words of wordSize bases. Words holding
// an ambiguity code are skipped.
func NewNucleotideLookup(query []byte, wordSize int) (*LookupTable, error) {
	if wordSize < config.MinNucleotideWordSize || wordSize > config.MaxNucleotideWordSize {
		return nil, fmt.Errorf("%w: %d", ErrWordSize, wordSize)
	}
	lt := &LookupTable{WordSize: wordSize, nt: make(map[uint64][]int)}
	forEachNucleotideWord(query, wordSize, 0, func(pos int, code uint64) bool {
		lt.nt[code] = append(lt.nt[code], pos)
		return true
	})
	for _, offs := range lt.nt {
		lt.add(len(offs))
	}
	return lt, nil
}

// NewProteinLookup indexes query words of wordSize residues.
func NewProteinLookup(query []byte, wordSize int) (*LookupTable, error) {
	if wordSize < 1 || wordSize > config.MaxProteinWordSize {
		return nil, fmt.Errorf("%w: %d", ErrWordSize, wordSize)
	}
	lt := &LookupTable{WordSize: wordSize, protein: true}
	if wordSize <= 3 {
		n := 1
		for i := 0; i < wordSize; i++ {
			n *= len(proteinAlphabet)
		}
		lt.direct = make([][]int, n)
		for i := 0; i+wordSize <= len(query); i++ {
			if idx, ok := directIndex(query[i : i+wordSize]); ok {
				lt.direct[idx] = append(lt.direct[idx], i)
			}
		}
		for _, offs := range lt.direct {
			if len(offs) > 0 {
				lt.add(len(offs))
			}
		}
		return lt, nil
	}
	lt.words = make(map[string][]int)
	for i := 0; i+wordSize <= len(query); i++ {
		if _, ok := directIndex(query[i : i+wordSize]); ok {
			w := string(query[i : i+wordSize])
			lt.words[w] = append(lt.words[w], i)
		}
	}
	for _, offs := range lt.words {
		lt.add(len(offs))
	}
	return lt, nil
}

func (lt *LookupTable) add(n int) {
	lt.numWords++
	if n > lt.maxHits {
		lt.maxHits = n
	}
}

// NumWords is the count of distinct indexed words.
func (lt *LookupTable) NumWords() int { return lt.numWords }

// MaxHitsPerWord is the most query offsets any one word has. A Scan buffer
// must be at least this large.
func (lt *LookupTable) MaxHitsPerWord() int { return lt.maxHits }

// Scan finds word hits in subject starting at subject offset start, filling
// the parallel slices qOffsets and sOffsets in subject order. It stops
// before a subject position whose hits would not fit and returns the number
// of pairs written and the offset to resume from; resume == len(subject)
// means the subject is exhausted.
func (lt *LookupTable) Scan(subject []byte, qOffsets, sOffsets []int, start int) (n, resume int) {
	limit := len(qOffsets)
	if len(sOffsets) < limit {
		limit = len(sOffsets)
	}
	emit := func(pos int, offs []int) bool {
		if n+len(offs) > limit {
			resume = pos
			return false
		}
		for _, q := range offs {
			qOffsets[n] = q
			sOffsets[n] = pos
			n++
		}
		return true
	}
	resume = len(subject)

	if !lt.protein {
		forEachNucleotideWord(subject, lt.WordSize, start, func(pos int, code uint64) bool {
			if offs, ok := lt.nt[code]; ok {
				return emit(pos, offs)
			}
			return true
		})
		return n, resume
	}

	for pos := start; pos+lt.WordSize <= len(subject); pos++ {
		w := subject[pos : pos+lt.WordSize]
		var offs []int
		if lt.direct != nil {
			idx, ok := directIndex(w)
			if !ok {
				continue
			}
			offs = lt.direct[idx]
		} else {
			offs = lt.words[string(w)]
		}
		if len(offs) > 0 && !emit(pos, offs) {
			break
		}
	}
	return n, resume
}

// forEachNucleotideWord calls fn with the 2-bit code of every unambiguous
// word at or after start, stopping early when fn returns false.
func forEachNucleotideWord(s []byte, k, start int, fn func(pos int, code uint64) bool) {
	if start < 0 {
		start = 0
	}
	// lastAmbig is the most recent ambiguous position seen.
	lastAmbig := start - 1
	for i := start; i < start+k-1 && i < len(s); i++ {
		if !sequence.IsUnambiguous(s[i]) {
			lastAmbig = i
		}
	}
	for pos := start; pos+k <= len(s); pos++ {
		if end := pos + k - 1; !sequence.IsUnambiguous(s[end]) {
			lastAmbig = end
		}
		if lastAmbig >= pos {
			continue
		}
		code, err := kmers.Encode(s[pos : pos+k])
		if err != nil {
			continue
		}
		if !fn(pos, code) {
			return
		}
	}
}

func directIndex(w []byte) (int, bool) {
	idx := 0
	for _, c := range w {
		v := proteinCode[c]
		if v < 0 {
			return 0, false
		}
		idx = idx*len(proteinAlphabet) + v
	}
	return idx, true
}
