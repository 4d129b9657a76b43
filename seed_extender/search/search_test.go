package search

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"testing"

	"BLAST-Seed-Extension/seed_extender/listsrc"
	"BLAST-Seed-Extension/seed_extender/matching"
	"BLAST-Seed-Extension/seed_extender/program"
	"BLAST-Seed-Extension/seed_extender/seqsrc"
	"BLAST-Seed-Extension/seed_extender/sequence"
)

const (
	nuclQuery = "ATGGCGTACGCTTAGCCGATAGGCTTACCGGATCAGTCAA"
	nuclRC    = "TTGACTGATCCGGTAAGCCTATCGGCTAAGCGTACGCCAT"
	protQuery = "MKVLAAGIVGW"
	// protQuery back-translated
	protDNA = "ATGAAAGTTCTGGCTGCAGGTATTGTTGGCTGG"
)

// flaky fails Fetch for one id, the way a corrupt record would.
type flaky struct {
	*listsrc.Store
	bad string
}

func (f flaky) Fetch(id string, from, to int) ([]byte, error) {
	if id == f.bad {
		return nil, fmt.Errorf("corrupt record %s", id)
	}
	return f.Store.Fetch(id, from, to)
}

func opener(t *testing.T, protein bool, fetcher seqsrc.Fetcher, ids ...string) OpenFunc {
	t.Helper()
	return func() (*seqsrc.SeqSrc, error) {
		return seqsrc.New(listsrc.NewSeqIDList, &listsrc.SeqIDListArgs{IDs: ids, Fetcher: fetcher, Protein: protein})
	}
}

func store(t *testing.T, protein bool, kv ...string) *listsrc.Store {
	t.Helper()
	st := listsrc.NewStore(protein)
	for i := 0; i+1 < len(kv); i += 2 {
		if err := st.Add(kv[i], []byte(kv[i+1])); err != nil {
			t.Fatal(err)
		}
	}
	return st
}

func queryBlk(id, letters string, enc sequence.Encoding) *sequence.SequenceBlk {
	return sequence.NewSequenceBlk(id, []byte(letters), enc)
}

func TestBlastnBothStrands(t *testing.T) {
	st := store(t, false,
		"plus", "GGGGG"+nuclQuery+"CCCCC",
		"none", strings.Repeat("N", 50),
		"minus", "AAAA"+nuclRC+"AAAA",
	)
	opts := Options{Program: program.Blastn, Workers: 3}
	rep, err := Run(context.Background(), opts, queryBlk("q", nuclQuery, sequence.EncodingNucleotide), opener(t, false, st, "plus", "none", "minus"))
	if err != nil {
		t.Fatal(err)
	}
	if len(rep.Results) != 2 || rep.Results[0].OID != 0 || rep.Results[1].OID != 2 {
		t.Fatalf("results %+v", rep.Results)
	}

	plus := rep.Results[0]
	if len(plus.Hits) != 1 {
		t.Fatalf("plus hits %+v", plus.Hits)
	}
	h := plus.Hits[0]
	if h.QueryFrame != 1 || h.QStart != 0 || h.QEnd != 40 || h.SStart != 5 || h.Score != 80 {
		t.Fatalf("plus hit %+v", h)
	}

	minus := rep.Results[1]
	if len(minus.Hits) != 1 {
		t.Fatalf("minus hits %+v", minus.Hits)
	}
	h = minus.Hits[0]
	if h.QueryFrame != -1 || h.SStart != 4 || h.QueryFrom != 0 || h.QueryTo != 39 {
		t.Fatalf("minus hit %+v", h)
	}

	s := rep.Summary
	if s.Subjects != 3 || s.Skipped != 0 || s.Hits != 2 || s.Coverage != 1 || len(s.Uncovered) != 0 || s.DiagClears != 0 {
		t.Fatalf("summary %+v", s)
	}
	if s.Extensions >= s.Seeds {
		t.Fatalf("seeds on an extended diagonal were not skipped: %+v", s)
	}
}

func TestErrorSubjectIsSkipped(t *testing.T) {
	st := store(t, false,
		"a", "GGGGG"+nuclQuery,
		"bad", nuclQuery,
		"c", nuclQuery+"TTTT",
	)
	var logs bytes.Buffer
	var seen int
	opts := Options{
		Program:  program.Blastn,
		Workers:  1,
		Logger:   log.New(&logs, "", 0),
		Progress: func(int) { seen++ },
	}

	rep, err := Run(context.Background(), opts, queryBlk("q", nuclQuery, sequence.EncodingNucleotide),
		opener(t, false, flaky{st, "bad"}, "a", "bad", "c"))
	if err != nil {
		t.Fatal(err)
	}
	if rep.Summary.Skipped != 1 || rep.Summary.Subjects != 2 || seen != 3 {
		t.Fatalf("summary %+v, progress %d", rep.Summary, seen)
	}
	if len(rep.Results) != 2 || rep.Results[1].SubjectID != "c" {
		t.Fatalf("results %+v", rep.Results)
	}
	if !strings.Contains(logs.String(), "skipping subject 1 (bad)") {
		t.Fatalf("log %q", logs.String())
	}
}

func TestBlastpTwoHit(t *testing.T) {
	q := protQuery + "QRSTNDEHP"
	st := store(t, true, "p", "GGGG"+q+"GGGG")
	rep, err := Run(context.Background(), Options{Program: program.Blastp}, queryBlk("q", q, sequence.EncodingProtein), opener(t, true, st, "p"))
	if err != nil {
		t.Fatal(err)
	}
	if len(rep.Results) != 1 {
		t.Fatalf("results %+v", rep.Results)
	}
	found := false
	for _, h := range rep.Results[0].Hits {
		if h.QStart == 0 && h.QEnd == 20 && h.SStart == 4 && h.Score == 108 {
			found = true
		}
	}
	if !found {
		t.Fatalf("no full-length hit in %+v", rep.Results[0].Hits)
	}
}

func TestTranslatedPrograms(t *testing.T) {
	t.Run("tblastn", func(t *testing.T) {
		st := store(t, false, "n", "CC"+protDNA+"CC")
		rep, err := Run(context.Background(), Options{Program: program.Tblastn},
			queryBlk("q", protQuery, sequence.EncodingProtein), opener(t, false, st, "n"))
		if err != nil {
			t.Fatal(err)
		}
		if len(rep.Results) != 1 {
			t.Fatalf("results %+v", rep.Results)
		}
		found := false
		for _, h := range rep.Results[0].Hits {
			if h.SubjectFrame == 3 && h.QStart == 0 && h.QEnd == len(protQuery) && h.Score == 57 {
				found = true
			}
		}
		if !found {
			t.Fatalf("no frame 3 hit in %+v", rep.Results[0].Hits)
		}
	})
	t.Run("blastx", func(t *testing.T) {
		st := store(t, true, "p", protQuery)
		rep, err := Run(context.Background(), Options{Program: program.Blastx},
			queryBlk("q", protDNA, sequence.EncodingNucleotide), opener(t, true, st, "p"))
		if err != nil {
			t.Fatal(err)
		}
		if len(rep.Results) != 1 {
			t.Fatalf("results %+v", rep.Results)
		}
		found := false
		for _, h := range rep.Results[0].Hits {
			if h.QueryFrame == 1 && h.QueryFrom == 0 && h.QueryTo == len(protDNA)-1 {
				found = true
			}
		}
		if !found {
			t.Fatalf("no frame 1 hit in %+v", rep.Results[0].Hits)
		}
	})
}

func TestRejectsBeforeWork(t *testing.T) {
	opened := 0
	open := func() (*seqsrc.SeqSrc, error) {
		opened++
		return nil, errors.New("unreachable")
	}
	q := queryBlk("q", nuclQuery, sequence.EncodingNucleotide)
	cases := []struct {
		p    program.Type
		want error
	}{
		{program.Undefined, ErrInvalidProgram},
		{program.PsiBlast, ErrUnsupportedProgram},
		{program.RpsBlast, ErrUnsupportedProgram},
		{program.PhiBlastn, ErrUnsupportedProgram},
	}
	for _, c := range cases {
		if _, err := Run(context.Background(), Options{Program: c.p}, q, open); !errors.Is(err, c.want) {
			t.Fatalf("%v: got %v want %v", c.p, err, c.want)
		}
	}
	if _, err := Run(context.Background(), Options{Program: program.Blastn}, queryBlk("q", "", sequence.EncodingNucleotide), open); !errors.Is(err, ErrEmptyQuery) {
		t.Fatalf("empty query: %v", err)
	}
	if opened != 0 {
		t.Fatal("source opened for a rejected search")
	}
}

func TestSubjectTypeMismatch(t *testing.T) {
	st := store(t, false, "n", nuclQuery)
	_, err := Run(context.Background(), Options{Program: program.Blastp},
		queryBlk("q", protQuery, sequence.EncodingProtein), opener(t, false, st, "n"))
	if !errors.Is(err, ErrSubjectType) {
		t.Fatalf("want ErrSubjectType, got %v", err)
	}
}

func TestCancelledSearch(t *testing.T) {
	st := store(t, false, "a", nuclQuery)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Run(ctx, Options{Program: program.Blastn}, queryBlk("q", nuclQuery, sequence.EncodingNucleotide), opener(t, false, st, "a"))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("want context.Canceled, got %v", err)
	}
}

func TestMegablastDefaults(t *testing.T) {
	o := Options{Program: program.Blastn, WordSize: 28}.withDefaults()
	if o.Extension != "megablast" || o.Reward != 1 || o.Penalty != -2 || o.scanWordSize(matching.MegaBlast) != 12 {
		t.Fatalf("defaults %+v", o)
	}
	p := Options{Program: program.Blastp}.withDefaults()
	if !p.twoHits() || p.WordSize != 3 || p.Extension != "both" {
		t.Fatalf("protein defaults %+v", p)
	}
}
