package matching

import (
	"fmt"
	"strings"

	"BLAST-Seed-Extension/seed_extender/diagtable"
	"BLAST-Seed-Extension/seed_extender/hitlist"
)

// Mode selects the extension entry point used for word hits.
type Mode int

const (
	// RightAndLeft extends batches of word hits in both directions.
	RightAndLeft Mode = iota
	// Right extends batches of word hits rightward only.
	Right
	// MegaBlast extends word hits one at a time after verifying the exact
	// match reaches the word size.
	MegaBlast
)

func (m Mode) String() string {
	switch m {
	case RightAndLeft:
		return "both"
	case Right:
		return "right"
	case MegaBlast:
		return "megablast"
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

// ParseMode accepts the names String returns.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(s) {
	case "both", "":
		return RightAndLeft, nil
	case "right":
		return Right, nil
	case "megablast":
		return MegaBlast, nil
	}
	return 0, fmt.Errorf("matching: unknown extension mode %q", s)
}

// Stats counts the work done on subjects.
type Stats struct {
	Seeds      int
	Extensions int
	Hits       int
}

func (s *Stats) Add(o Stats) {
	s.Seeds += o.Seeds
	s.Extensions += o.Extensions
	s.Hits += o.Hits
}

// Scanner runs the seed stage and the extender over one subject at a time.
// It owns its seed buffers and must not be shared between workers.
type Scanner struct {
	Lookup *LookupTable
	Ext    *Extender
	Mode   Mode

	qOffs []int
	sOffs []int
}

// NewScanner sizes the seed buffers to batchSize pairs, or to the
// lookup table's largest word if that is bigger.
func NewScanner(lt *LookupTable, ext *Extender, mode Mode, batchSize int) *Scanner {
	if m := lt.MaxHitsPerWord(); batchSize < m {
		batchSize = m
	}
	if batchSize < 1 {
		batchSize = 1
	}
	return &Scanner{
		Lookup: lt,
		Ext:    ext,
		Mode:   mode,
		qOffs:  make([]int, batchSize),
		sOffs:  make([]int, batchSize),
	}
}

// ScanSubject finds and extends every word hit of subject against query,
// appending hits to hits in seed order. The caller advances t to the next
// subject afterwards.
func (sc *Scanner) ScanSubject(query, subject []byte, t *diagtable.Table, hits *hitlist.InitHitList) Stats {
	var st Stats
	before := hits.Len()
	for pos := 0; pos < len(subject); {
		n, next := sc.Lookup.Scan(subject, sc.qOffs, sc.sOffs, pos)
		st.Seeds += n
		q, s := sc.qOffs[:n], sc.sOffs[:n]
		switch sc.Mode {
		case Right:
			st.Extensions += sc.Ext.ExtendRight(q, s, query, subject, t, hits)
		case MegaBlast:
			for i := range q {
				if sc.Ext.MegaBlastExtend(q[i], s[i], query, subject, t, hits) {
					st.Extensions++
				}
			}
		default:
			st.Extensions += sc.Ext.ExtendRightAndLeft(q, s, query, subject, t, hits)
		}
		if next <= pos && n == 0 {
			break
		}
		pos = next
	}
	st.Hits = hits.Len() - before
	return st
}
