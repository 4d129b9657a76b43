// Package search drives a seed-and-extend search of one query against
// every subject of a sequence source.
//
// Subjects are split by oid into contiguous ranges, one per worker. Each
// worker opens its own SeqSrc and owns its diagonal tables, seed buffers
// and hit list; only the query contexts, lookup tables and the extender
// are shared, and those are read only.
package search

import (
	"context"
	"errors"
	"fmt"

	"BLAST-Seed-Extension/seed_extender/common"
	"BLAST-Seed-Extension/seed_extender/diagtable"
	"BLAST-Seed-Extension/seed_extender/hitlist"
	"BLAST-Seed-Extension/seed_extender/matching"
	"BLAST-Seed-Extension/seed_extender/program"
	"BLAST-Seed-Extension/seed_extender/regions"
	"BLAST-Seed-Extension/seed_extender/scoring"
	"BLAST-Seed-Extension/seed_extender/seqsrc"
	"BLAST-Seed-Extension/seed_extender/sequence"

	"golang.org/x/sync/errgroup"
)

var (
	ErrInvalidProgram     = errors.New("search: invalid program")
	ErrUnsupportedProgram = errors.New("search: program needs a PSSM or pattern")
	ErrEmptyQuery         = errors.New("search: empty query")
	ErrSubjectType        = errors.New("search: subject molecule type does not match program")
)

// OpenFunc opens a new SeqSrc over the subjects. It is called once per
// worker, and once more to read the subject count.
type OpenFunc func() (*seqsrc.SeqSrc, error)

// Hit is one ungapped alignment. QStart/QEnd and SStart/SEnd are 0-based
// half-open offsets in the frame they were found in; QueryFrom and QueryTo
// are the inclusive span on the query as given.
type Hit struct {
	QueryFrame    int
	SubjectFrame  int
	QueryOffset   int
	SubjectOffset int
	QStart, QEnd  int
	SStart, SEnd  int
	Score         int

	QueryFrom, QueryTo int
}

// Result collects the hits against one subject.
type Result struct {
	OID        int
	SubjectID  string
	SubjectLen int
	Hits       []Hit
}

// Summary counts what a search did.
type Summary struct {
	Subjects   int
	Skipped    int
	Seeds      int
	Extensions int
	Hits       int
	// DiagClears counts physical diagonal table resets.
	DiagClears int
	// Coverage is the fraction of query residues covered by any hit.
	Coverage float64
	// Uncovered lists the inclusive query ranges no hit touches.
	Uncovered [][2]int
}

// Report is the outcome of Run. Results are in oid order and only include
// subjects with hits.
type Report struct {
	QueryID string
	Results []Result
	Summary Summary
}

// queryContext is one strand or frame of the query with its lookup table.
type queryContext struct {
	frame      int
	translated bool
	seq        []byte
	lookup     *matching.LookupTable
}

// plan is everything workers share.
type plan struct {
	opts     Options
	mode     matching.Mode
	ext      *matching.Extender
	contexts []queryContext
	queryLen int
}

// Validate rejects programs no extension work can start for.
func Validate(p program.Type) error {
	if !program.ProgramIsValid(p) {
		return ErrInvalidProgram
	}
	if program.QueryIsPSSM(p) || program.SubjectIsPSSM(p) || program.QueryIsPattern(p) {
		return fmt.Errorf("%w: %s", ErrUnsupportedProgram, p)
	}
	return nil
}

func newPlan(opts Options, query *sequence.SequenceBlk) (*plan, error) {
	if err := Validate(opts.Program); err != nil {
		return nil, err
	}
	if query == nil || query.Length == 0 {
		return nil, ErrEmptyQuery
	}
	opts = opts.withDefaults()
	mode, err := matching.ParseMode(opts.Extension)
	if err != nil {
		return nil, err
	}

	var m *scoring.Matrix
	nucl := program.ProgramIsNucleotide(opts.Program)
	if nucl {
		m, err = scoring.NewNucleotide(opts.Reward, opts.Penalty)
	} else {
		m, err = scoring.ByName(opts.Matrix)
	}
	if err != nil {
		return nil, err
	}

	p := &plan{
		opts: opts,
		mode: mode,
		ext: &matching.Extender{
			Matrix:   m,
			XDrop:    opts.XDrop,
			Cutoff:   opts.Cutoff,
			WordSize: opts.WordSize,
		},
		queryLen: query.Length,
	}

	letters := query.Letters()
	for _, c := range contextsOf(opts.Program, letters) {
		if nucl {
			c.lookup, err = matching.NewNucleotideLookup(c.seq, opts.scanWordSize(mode))
		} else {
			c.lookup, err = matching.NewProteinLookup(c.seq, opts.WordSize)
		}
		if err != nil {
			return nil, err
		}
		p.contexts = append(p.contexts, c)
	}
	return p, nil
}

// contextsOf splits a query into the contexts searched: the protein itself,
// both strands of a nucleotide, or six frames of a translated query.
func contextsOf(p program.Type, letters []byte) []queryContext {
	switch {
	case program.QueryIsTranslated(p):
		ctxs := make([]queryContext, 0, program.NumFrames(p))
		for _, f := range sequence.Frames {
			ctxs = append(ctxs, queryContext{frame: f, translated: true, seq: sequence.Translate(letters, f)})
		}
		return ctxs
	case program.QueryIsNucleotide(p):
		return []queryContext{
			{frame: 1, seq: letters},
			{frame: -1, seq: sequence.ReverseComplement(letters)},
		}
	}
	return []queryContext{{frame: 0, seq: letters}}
}

// subjectFrames is the subject as compared: translated subjects are
// searched in six frames.
func subjectFrames(p program.Type, letters []byte) ([]int, [][]byte) {
	if !program.SubjectIsTranslated(p) {
		return []int{0}, [][]byte{letters}
	}
	seqs := make([][]byte, len(sequence.Frames))
	for i, f := range sequence.Frames {
		seqs[i] = sequence.Translate(letters, f)
	}
	return sequence.Frames, seqs
}

// Run searches query against every subject open yields. A GetSequence
// Error skips that subject; EOF ends a worker's range. Cancelling ctx stops
// workers between subjects.
func Run(ctx context.Context, opts Options, query *sequence.SequenceBlk, open OpenFunc) (*Report, error) {
	p, err := newPlan(opts, query)
	if err != nil {
		return nil, err
	}
	opts = p.opts

	probe, err := open()
	if err != nil {
		return nil, fmt.Errorf("search: open subjects: %w", err)
	}
	numSeqs := probe.NumSeqs()
	if probe.IsProtein() != program.SubjectIsProtein(opts.Program) {
		name := probe.Name()
		seqsrc.Free(probe)
		return nil, fmt.Errorf("%w: %s with %s", ErrSubjectType, name, opts.Program)
	}
	opts.Logger.Printf("searching %s: %d subjects, %d residues (avg %d), %d workers",
		probe.Name(), numSeqs, probe.TotLen(), probe.AvgSeqLen(), opts.Workers)
	seqsrc.Free(probe)

	ranges := seqsrc.Partition(numSeqs, opts.Workers)
	workers := make([]*worker, len(ranges))
	g, gctx := errgroup.WithContext(ctx)
	for i, r := range ranges {
		r := r // per-iteration copy; go directive is 1.21 (pre-loopvar semantics)
		w := newWorker(p)
		workers[i] = w
		g.Go(func() error { return w.run(gctx, r, open) })
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	rep := &Report{QueryID: query.ID}
	for _, w := range workers {
		rep.Results = append(rep.Results, w.results...)
		rep.Summary.Subjects += w.subjects
		rep.Summary.Skipped += w.skipped
		rep.Summary.Seeds += w.stats.Seeds
		rep.Summary.Extensions += w.stats.Extensions
		rep.Summary.Hits += w.reported
		rep.Summary.DiagClears += w.clears
	}
	segs := querySegments(rep.Results)
	rep.Summary.Coverage = regions.Coverage(p.queryLen, segs)
	rep.Summary.Uncovered = regions.FindUncoveredRegions(p.queryLen, segs)
	return rep, nil
}

// worker scans one oid range. Nothing in it is shared.
type worker struct {
	p        *plan
	scanners []*matching.Scanner
	hits     *hitlist.InitHitList

	results  []Result
	stats    matching.Stats
	reported int
	clears   int
	subjects int
	skipped  int
}

func newWorker(p *plan) *worker {
	w := &worker{p: p, hits: hitlist.New(p.opts.BatchSize)}
	for _, c := range p.contexts {
		w.scanners = append(w.scanners, matching.NewScanner(c.lookup, p.ext, p.mode, p.opts.BatchSize))
	}
	return w
}

func (w *worker) run(ctx context.Context, r seqsrc.Range, open OpenFunc) error {
	src, err := open()
	if err != nil {
		return fmt.Errorf("search: open subjects: %w", err)
	}
	defer seqsrc.Free(src)

	opts := w.p.opts
	tables := make([]*diagtable.Table, len(w.p.contexts))
	for i, c := range w.p.contexts {
		tables[i] = diagtable.New(len(c.seq), opts.twoHits(), opts.Window)
	}
	defer func() {
		for i := range tables {
			w.clears += tables[i].Clears()
			tables[i] = diagtable.Free(tables[i])
		}
	}()

	arg := &seqsrc.GetSeqArg{Encoding: program.SubjectEncoding(opts.Program)}
	it := seqsrc.NewIterator(r, opts.ChunkSize)
	for chunk, ok := it.NextChunk(); ok; chunk, ok = it.NextChunk() {
		for oid := chunk.Begin; oid < chunk.End; oid++ {
			if err := ctx.Err(); err != nil {
				return err
			}
			arg.OID = oid
			switch src.GetSequence(arg) {
			case seqsrc.EOF:
				return nil
			case seqsrc.Error:
				w.skipped++
				opts.Logger.Printf("skipping subject %d (%s): %v", oid, src.SeqIDStr(oid), arg.Err)
				w.progress(oid)
				continue
			}
			w.subjects++
			w.scan(oid, arg.Seq, tables)
			w.progress(oid)
		}
	}
	return nil
}

func (w *worker) progress(oid int) {
	if w.p.opts.Progress != nil {
		w.p.opts.Progress(oid)
	}
}

// scan runs every query context against every subject frame of blk.
func (w *worker) scan(oid int, blk *sequence.SequenceBlk, tables []*diagtable.Table) {
	opts := w.p.opts
	frames, seqs := subjectFrames(opts.Program, blk.Letters())
	res := Result{OID: oid, SubjectID: blk.ID, SubjectLen: blk.Length}
	for i, c := range w.p.contexts {
		for j, subj := range seqs {
			w.hits.Reset()
			st := w.scanners[i].ScanSubject(c.seq, subj, tables[i], w.hits)
			tables[i].Update(len(subj))
			w.stats.Add(st)
			if w.hits.Len() == 0 {
				continue
			}
			w.hits.Finalize()
			for _, h := range hitlist.MergeAdjacent(w.hits.Hits(), opts.MergeGap) {
				if h.Ungapped == nil {
					continue
				}
				res.Hits = append(res.Hits, w.p.hit(c, frames[j], h.QueryOffset, h.SubjectOffset, *h.Ungapped))
			}
		}
	}
	if len(res.Hits) > 0 {
		w.reported += len(res.Hits)
		w.results = append(w.results, res)
	}
}

// querySegments is every hit as a span on the query as given.
func querySegments(results []Result) []common.Segment {
	var segs []common.Segment
	for _, r := range results {
		for _, h := range r.Hits {
			segs = append(segs, common.Segment{QueryStart: h.QueryFrom, QueryEnd: h.QueryTo})
		}
	}
	return segs
}
