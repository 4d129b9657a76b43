package sequence

import (
	"errors"
	"fmt"
)

// Encoding is a residue encoding tag carried on a sequence request. Sequence
// sources convert to it; the extension engine never inspects it.
type Encoding int

const (
	// EncodingProtein holds one upper-case amino-acid letter per byte.
	EncodingProtein Encoding = iota
	// EncodingNucleotide holds one upper-case IUPAC nucleotide letter per byte.
	EncodingNucleotide
	// EncodingNcbi4na holds one 4-bit ambiguity mask per byte (A=1 C=2 G=4 T=8).
	EncodingNcbi4na
	// EncodingNcbi2na packs four bases per byte, first base in the high bits.
	// Ambiguous bases collapse to A.
	EncodingNcbi2na
)

var ErrUnknownEncoding = errors.New("unknown residue encoding")

func (e Encoding) String() string {
	switch e {
	case EncodingProtein:
		return "protein"
	case EncodingNucleotide:
		return "nucleotide"
	case EncodingNcbi4na:
		return "ncbi4na"
	case EncodingNcbi2na:
		return "ncbi2na"
	}
	return fmt.Sprintf("encoding(%d)", int(e))
}

// IUPAC letter -> ncbi4na mask.
var ncbi4na = [256]byte{
	'A': 1, 'C': 2, 'G': 4, 'T': 8, 'U': 8,
	'R': 5, 'Y': 10, 'M': 3, 'K': 12, 'W': 9, 'S': 6,
	'B': 14, 'D': 13, 'H': 11, 'V': 7, 'N': 15,
}

// ncbi4na mask -> IUPAC letter.
const ncbi4naLetters = "-ACMGRSVTWYHKDBN"

var ncbi2na = [256]byte{'A': 0, 'C': 1, 'G': 2, 'T': 3, 'U': 3}

const ncbi2naLetters = "ACGT"

// PackedLen is the number of bytes an ncbi2na sequence of n bases occupies.
func PackedLen(n int) int { return (n + 3) / 4 }

// Encode converts upper-case letters into enc, appending to dst[:0]. The
// residue count is always len(letters).
func Encode(dst, letters []byte, enc Encoding) ([]byte, error) {
	dst = dst[:0]
	switch enc {
	case EncodingProtein, EncodingNucleotide:
		return append(dst, letters...), nil
	case EncodingNcbi4na:
		for _, c := range letters {
			dst = append(dst, ncbi4na[c])
		}
		return dst, nil
	case EncodingNcbi2na:
		var b byte
		for i, c := range letters {
			b |= ncbi2na[c] << (6 - 2*uint(i&3))
			if i&3 == 3 {
				dst = append(dst, b)
				b = 0
			}
		}
		if len(letters)&3 != 0 {
			dst = append(dst, b)
		}
		return dst, nil
	}
	return dst, fmt.Errorf("%w: %d", ErrUnknownEncoding, int(enc))
}

// Decode converts n residues held in enc back to upper-case letters.
func Decode(dst, data []byte, n int, enc Encoding) ([]byte, error) {
	dst = dst[:0]
	switch enc {
	case EncodingProtein, EncodingNucleotide:
		return append(dst, data[:n]...), nil
	case EncodingNcbi4na:
		for _, c := range data[:n] {
			dst = append(dst, ncbi4naLetters[c&15])
		}
		return dst, nil
	case EncodingNcbi2na:
		for i := 0; i < n; i++ {
			dst = append(dst, ncbi2naLetters[Ncbi2naAt(data, i)])
		}
		return dst, nil
	}
	return dst, fmt.Errorf("%w: %d", ErrUnknownEncoding, int(enc))
}

// Ncbi2naAt returns the 2-bit code of base i of a packed sequence.
func Ncbi2naAt(packed []byte, i int) byte {
	return (packed[i>>2] >> (6 - 2*uint(i&3))) & 3
}

// IsUnambiguous reports whether c is one of A, C, G, T.
func IsUnambiguous(c byte) bool {
	switch c {
	case 'A', 'C', 'G', 'T':
		return true
	}
	return false
}
