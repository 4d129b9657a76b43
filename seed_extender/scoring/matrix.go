// Package scoring holds the substitution matrices the extender scores with.
package scoring

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/biogo/biogo/align/matrix"
	"github.com/biogo/biogo/alphabet"
)

// Matrix scores a pair of residue letters. Pairs involving a letter the
// matrix does not define score Min.
type Matrix struct {
	Name string
	Min  int
	Max  int
	s    [256][256]int8
}

// Score returns the substitution score of a against b.
func (m *Matrix) Score(a, b byte) int { return int(m.s[a][b]) }

func newMatrix(name string, fill int) *Matrix {
	m := &Matrix{Name: name, Min: fill, Max: fill}
	for i := range m.s {
		for j := range m.s[i] {
			m.s[i][j] = int8(fill)
		}
	}
	return m
}

func (m *Matrix) set(a, b byte, v int) {
	m.s[a][b] = int8(v)
	if v > m.Max {
		m.Max = v
	}
	if v < m.Min {
		m.Min = v
	}
}

// NewNucleotide builds a reward/penalty matrix over A, C, G, T (U scores as
// T). Ambiguity codes always score penalty.
func NewNucleotide(reward, penalty int) (*Matrix, error) {
	if reward <= 0 || penalty >= 0 {
		return nil, fmt.Errorf("scoring: need reward > 0 and penalty < 0, got %d/%d", reward, penalty)
	}
	if reward > math.MaxInt8 || penalty < math.MinInt8 {
		return nil, fmt.Errorf("scoring: reward/penalty %d/%d outside [%d, %d]", reward, penalty, math.MinInt8, math.MaxInt8)
	}
	m := newMatrix(fmt.Sprintf("reward%d/penalty%d", reward, penalty), penalty)
	bases := "ACGTU"
	for i := 0; i < len(bases); i++ {
		for j := 0; j < len(bases); j++ {
			a, b := bases[i], bases[j]
			if a == b || (a == 'U' && b == 'T') || (a == 'T' && b == 'U') {
				m.set(a, b, reward)
			}
		}
	}
	return m, nil
}

// protein lists the biogo protein matrices by upper-case name. They are
// indexed by alphabet.Protein.
var protein = map[string][][]int{
	"BLOSUM30": matrix.BLOSUM30, "BLOSUM35": matrix.BLOSUM35, "BLOSUM40": matrix.BLOSUM40,
	"BLOSUM45": matrix.BLOSUM45, "BLOSUM50": matrix.BLOSUM50, "BLOSUM55": matrix.BLOSUM55,
	"BLOSUM60": matrix.BLOSUM60, "BLOSUM62": matrix.BLOSUM62, "BLOSUM65": matrix.BLOSUM65,
	"BLOSUM70": matrix.BLOSUM70, "BLOSUM75": matrix.BLOSUM75, "BLOSUM80": matrix.BLOSUM80,
	"BLOSUM85": matrix.BLOSUM85, "BLOSUM90": matrix.BLOSUM90, "BLOSUM100": matrix.BLOSUM100,
	"BLOSUMN": matrix.BLOSUMN,
	"DAYHOFF": matrix.DAYHOFF, "GONNET": matrix.GONNET,

	"PAM10": matrix.PAM10, "PAM20": matrix.PAM20, "PAM30": matrix.PAM30, "PAM40": matrix.PAM40,
	"PAM50": matrix.PAM50, "PAM60": matrix.PAM60, "PAM70": matrix.PAM70, "PAM80": matrix.PAM80,
	"PAM90": matrix.PAM90, "PAM100": matrix.PAM100, "PAM110": matrix.PAM110, "PAM120": matrix.PAM120,
	"PAM130": matrix.PAM130, "PAM140": matrix.PAM140, "PAM150": matrix.PAM150, "PAM160": matrix.PAM160,
	"PAM170": matrix.PAM170, "PAM180": matrix.PAM180, "PAM190": matrix.PAM190, "PAM200": matrix.PAM200,
	"PAM210": matrix.PAM210, "PAM220": matrix.PAM220, "PAM230": matrix.PAM230, "PAM240": matrix.PAM240,
	"PAM250": matrix.PAM250, "PAM260": matrix.PAM260, "PAM270": matrix.PAM270, "PAM280": matrix.PAM280,
	"PAM290": matrix.PAM290, "PAM300": matrix.PAM300, "PAM310": matrix.PAM310, "PAM320": matrix.PAM320,
	"PAM330": matrix.PAM330, "PAM340": matrix.PAM340, "PAM350": matrix.PAM350, "PAM360": matrix.PAM360,
	"PAM370": matrix.PAM370, "PAM380": matrix.PAM380, "PAM390": matrix.PAM390, "PAM400": matrix.PAM400,
	"PAM410": matrix.PAM410, "PAM420": matrix.PAM420, "PAM430": matrix.PAM430, "PAM440": matrix.PAM440,
	"PAM450": matrix.PAM450, "PAM460": matrix.PAM460, "PAM470": matrix.PAM470, "PAM480": matrix.PAM480,
	"PAM490": matrix.PAM490, "PAM500": matrix.PAM500,
	"PAM40_CDI": matrix.PAM40_cdi, "PAM80_CDI": matrix.PAM80_cdi, "PAM120_CDI": matrix.PAM120_cdi,
	"PAM160_CDI": matrix.PAM160_cdi, "PAM200_CDI": matrix.PAM200_cdi, "PAM250_CDI": matrix.PAM250_cdi,
}

// Names returns the protein matrix names ByName accepts, sorted.
func Names() []string {
	names := make([]string, 0, len(protein))
	for n := range protein {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// ByName returns a protein matrix by name, case-insensitively. The empty
// name is BLOSUM62.
func ByName(name string) (*Matrix, error) {
	n := strings.ToUpper(strings.TrimSpace(name))
	if n == "" {
		n = "BLOSUM62"
	}
	table, ok := protein[n]
	if !ok {
		return nil, fmt.Errorf("scoring: unsupported matrix %q", name)
	}
	return fromTable(n, table), nil
}

// BLOSUM62 is the default protein matrix.
func BLOSUM62() *Matrix { return fromTable("BLOSUM62", matrix.BLOSUM62) }

// fromTable expands a biogo matrix into a letter-pair table. The gap column
// is ignored, and a letter whose row is all zero is treated as undefined.
// Undefined letters score the table minimum.
func fromTable(name string, table [][]int) *Matrix {
	var letters []byte
	for c := 0; c < 256; c++ {
		i := alphabet.Protein.IndexOf(alphabet.Letter(c))
		if i <= 0 || i >= len(table) || zeroRow(table[i]) {
			continue
		}
		letters = append(letters, byte(c))
	}

	min := 0
	for _, a := range letters {
		for _, b := range letters {
			if v := lookup(table, a, b); v < min {
				min = v
			}
		}
	}
	m := newMatrix(name, min)
	for _, a := range letters {
		for _, b := range letters {
			m.set(a, b, lookup(table, a, b))
		}
	}
	return m
}

func lookup(table [][]int, a, b byte) int {
	return table[alphabet.Protein.IndexOf(alphabet.Letter(a))][alphabet.Protein.IndexOf(alphabet.Letter(b))]
}

func zeroRow(row []int) bool {
	for _, v := range row {
		if v != 0 {
			return false
		}
	}
	return true
}
