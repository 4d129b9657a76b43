package sequence

var complement = [256]byte{
	'A': 'T', 'T': 'A', 'U': 'A',
	'C': 'G', 'G': 'C',
	'R': 'Y', 'Y': 'R', 'M': 'K', 'K': 'M',
	'W': 'W', 'S': 'S',
	'B': 'V', 'V': 'B', 'D': 'H', 'H': 'D',
	'N': 'N',
}

// ReverseComplement returns the reverse complement of a nucleotide sequence.
// Unknown letters become N.
func ReverseComplement(seq []byte) []byte {
	n := len(seq)
	out := make([]byte, n)
	for i := 0; i < n; i++ {
		c := complement[seq[n-1-i]]
		if c == 0 {
			c = 'N'
		}
		out[i] = c
	}
	return out
}

// CalculateGCContent calculates the GC content of a nucleotide sequence.
func CalculateGCContent(seq []byte) float64 {
	if len(seq) == 0 {
		return 0.0
	}
	gcCount := 0
	for _, base := range seq {
		if base == 'G' || base == 'C' || base == 'g' || base == 'c' {
			gcCount++
		}
	}
	return float64(gcCount) / float64(len(seq))
}

// Standard genetic code, codons ordered T,C,A,G at each position.
const standardCode = "FFLLSSSSYY**CC*WLLLLPPPPHHQQRRRRIIIMTTTTNNKKSSRRVVVVAAAADDEEGGGG"

var codonIndex = [256]int{'T': 0, 'U': 0, 'C': 1, 'A': 2, 'G': 3}

// Frames lists the six reading frames in the order contexts are searched.
var Frames = []int{1, 2, 3, -1, -2, -3}

// Translate translates nts in the given frame (1..3 forward, -1..-3 on the
// reverse complement). Codons holding an ambiguity code translate to X.
func Translate(nts []byte, frame int) []byte {
	src := nts
	if frame < 0 {
		src = ReverseComplement(nts)
		frame = -frame
	}
	start := frame - 1
	if start >= len(src) {
		return []byte{}
	}
	out := make([]byte, 0, (len(src)-start)/3)
	for i := start; i+3 <= len(src); i += 3 {
		if !isBase(src[i]) || !isBase(src[i+1]) || !isBase(src[i+2]) {
			out = append(out, 'X')
			continue
		}
		out = append(out, standardCode[codonIndex[src[i]]*16+codonIndex[src[i+1]]*4+codonIndex[src[i+2]]])
	}
	return out
}

func isBase(c byte) bool {
	switch c {
	case 'A', 'C', 'G', 'T', 'U':
		return true
	}
	return false
}

// FrameToNucleotide maps a residue offset in a translated frame back to the
// offset of the codon's first base on the forward strand of a sequence of
// length n.
func FrameToNucleotide(offset, frame, n int) int {
	if frame > 0 {
		return frame - 1 + 3*offset
	}
	return n - (-frame - 1) - 3*offset - 3
}
