package program

import (
	"errors"
	"fmt"
	"strings"

	"BLAST-Seed-Extension/seed_extender/sequence"
)

// Capability bits. The layout is persisted in serialized search options and
// must not change.
const (
	ProteinQueryMask      uint32 = 1 << 0
	ProteinSubjectMask    uint32 = 1 << 1
	NucleotideQueryMask   uint32 = 1 << 2
	NucleotideSubjectMask uint32 = 1 << 3
	TranslatedQueryMask   uint32 = 1 << 4
	TranslatedSubjectMask uint32 = 1 << 5
	PSSMQueryMask         uint32 = 1 << 6
	PSSMSubjectMask       uint32 = 1 << 7
	PatternQueryMask      uint32 = 1 << 8
	MappingMask           uint32 = 1 << 9
)

// Type identifies a search program. The zero value is Undefined.
type Type uint32

const (
	Undefined  Type = 0
	Blastp     Type = Type(ProteinQueryMask | ProteinSubjectMask)
	Blastn     Type = Type(NucleotideQueryMask | NucleotideSubjectMask)
	Blastx     Type = Type(TranslatedQueryMask | ProteinSubjectMask)
	Tblastn    Type = Type(ProteinQueryMask | TranslatedSubjectMask)
	Tblastx    Type = Type(TranslatedQueryMask | TranslatedSubjectMask)
	PsiBlast   Type = Type(PSSMQueryMask) | Blastp
	PsiTblastn Type = Type(PSSMQueryMask) | Tblastn
	RpsBlast   Type = Type(PSSMSubjectMask) | Blastp
	RpsTblastn Type = Type(PSSMSubjectMask) | Blastx
	PhiBlastp  Type = Type(PatternQueryMask) | Blastp
	PhiBlastn  Type = Type(PatternQueryMask) | Blastn
	Mapping    Type = Type(MappingMask) | Blastn
)

// ErrUnknownProgram is returned when a name or bit pattern does not denote
// one of the named programs.
var ErrUnknownProgram = errors.New("unknown program type")

// All lists every defined program, Undefined excluded.
var All = []Type{
	Blastp, Blastn, Blastx, Tblastn, Tblastx,
	PsiBlast, PsiTblastn, RpsBlast, RpsTblastn,
	PhiBlastp, PhiBlastn, Mapping,
}

var names = map[Type]string{
	Undefined:  "undefined",
	Blastp:     "blastp",
	Blastn:     "blastn",
	Blastx:     "blastx",
	Tblastn:    "tblastn",
	Tblastx:    "tblastx",
	PsiBlast:   "psiblast",
	PsiTblastn: "psitblastn",
	RpsBlast:   "rpsblast",
	RpsTblastn: "rpstblastn",
	PhiBlastp:  "phiblastp",
	PhiBlastn:  "phiblastn",
	Mapping:    "mapping",
}

func (p Type) has(mask uint32) bool { return uint32(p)&mask != 0 }

func QueryIsProtein(p Type) bool { return p.has(ProteinQueryMask) }

// QueryIsNucleotide reports whether the raw query residues are nucleotides.
// Translated queries are nucleotide sequences.
func QueryIsNucleotide(p Type) bool {
	return p.has(NucleotideQueryMask) || p.has(TranslatedQueryMask)
}

func QueryIsTranslated(p Type) bool { return p.has(TranslatedQueryMask) }
func QueryIsPSSM(p Type) bool       { return p.has(PSSMQueryMask) }
func QueryIsPattern(p Type) bool    { return p.has(PatternQueryMask) }

func SubjectIsProtein(p Type) bool { return p.has(ProteinSubjectMask) }

func SubjectIsNucleotide(p Type) bool {
	return p.has(NucleotideSubjectMask) || p.has(TranslatedSubjectMask)
}

func SubjectIsTranslated(p Type) bool { return p.has(TranslatedSubjectMask) }
func SubjectIsPSSM(p Type) bool       { return p.has(PSSMSubjectMask) }

// ProgramIsPsiBlast is true only for a PSSM query searched against proteins.
func ProgramIsPsiBlast(p Type) bool { return p == PsiBlast }

func ProgramIsPhiBlast(p Type) bool { return p.has(PatternQueryMask) }
func ProgramIsRpsBlast(p Type) bool { return p.has(PSSMSubjectMask) }
func ProgramIsMapping(p Type) bool  { return p.has(MappingMask) }

// ProgramIsNucleotide is true when both sides are untranslated nucleotides.
func ProgramIsNucleotide(p Type) bool {
	return p.has(NucleotideQueryMask) && p.has(NucleotideSubjectMask)
}

// ProgramIsValid is false only for the Undefined sentinel.
func ProgramIsValid(p Type) bool { return p != Undefined }

// NumFrames returns the number of query contexts searched: one for protein,
// two strands for nucleotide and six frames for a translated query.
func NumFrames(p Type) int {
	switch {
	case QueryIsTranslated(p):
		return 6
	case QueryIsNucleotide(p):
		return 2
	case QueryIsProtein(p):
		return 1
	}
	return 0
}

// QueryEncoding is the residue encoding the query is held in.
func QueryEncoding(p Type) sequence.Encoding {
	if QueryIsNucleotide(p) {
		return sequence.EncodingNucleotide
	}
	return sequence.EncodingProtein
}

// SubjectEncoding is the residue encoding requested from a sequence source
// for each subject.
func SubjectEncoding(p Type) sequence.Encoding {
	if SubjectIsNucleotide(p) {
		return sequence.EncodingNucleotide
	}
	return sequence.EncodingProtein
}

func (p Type) String() string {
	if n, ok := names[p]; ok {
		return n
	}
	return fmt.Sprintf("program(%#x)", uint32(p))
}

// Parse maps a lower-case program name ("blastn", "rpstblastn", ...) to its Type.
func Parse(name string) (Type, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for p, s := range names {
		if s == n && p != Undefined {
			return p, nil
		}
	}
	return Undefined, fmt.Errorf("%w: %q", ErrUnknownProgram, name)
}

// Encode returns the wire representation of p.
func Encode(p Type) uint32 { return uint32(p) }

// Decode parses a wire value. Zero decodes to Undefined; any other value must
// be one of the named programs.
func Decode(v uint32) (Type, error) {
	p := Type(v)
	if _, ok := names[p]; !ok {
		return Undefined, fmt.Errorf("%w: bits %#x", ErrUnknownProgram, v)
	}
	return p, nil
}
