package listsrc

import (
	"errors"
	"strings"
	"testing"

	"BLAST-Seed-Extension/seed_extender/seqsrc"
	"BLAST-Seed-Extension/seed_extender/sequence"
)

const toyFasta = ">chr1 first\nacgtACGT\nTT\n>chr2\nGGGCCCAAATTT\n>chr3\nN\n"

func loadToy(t *testing.T) *Store {
	t.Helper()
	st, err := LoadFasta(strings.NewReader(toyFasta), false)
	if err != nil {
		t.Fatal(err)
	}
	return st
}

func TestLoadFasta(t *testing.T) {
	st := loadToy(t)
	ids := st.IDs()
	if len(ids) != 3 || ids[0] != "chr1" || ids[2] != "chr3" {
		t.Fatalf("ids: %v", ids)
	}
	b, err := st.Fetch("chr1", 0, 10)
	if err != nil || string(b) != "ACGTACGTTT" {
		t.Fatalf("chr1: %q %v", b, err)
	}
	if _, err := st.Fetch("chr9", 0, 1); !errors.Is(err, ErrUnknownID) {
		t.Fatalf("want ErrUnknownID, got %v", err)
	}
	if _, err := st.Fetch("chr2", 5, 13); !errors.Is(err, ErrBadRange) {
		t.Fatalf("want ErrBadRange, got %v", err)
	}
	if err := st.Add("chr2", []byte("A")); !errors.Is(err, ErrDuplicateID) {
		t.Fatalf("want ErrDuplicateID, got %v", err)
	}
}

func TestSeqIDListRoundTrip(t *testing.T) {
	st := loadToy(t)
	src, err := seqsrc.New(NewSeqIDList, &SeqIDListArgs{IDs: st.IDs(), Fetcher: st})
	if err != nil {
		t.Fatal(err)
	}
	defer seqsrc.Free(src)

	n := src.NumSeqs()
	if n != 3 || src.MaxSeqLen() != 12 || src.TotLen() != 23 {
		t.Fatalf("metadata: n=%d max=%d tot=%d", n, src.MaxSeqLen(), src.TotLen())
	}
	arg := &seqsrc.GetSeqArg{Encoding: sequence.EncodingNucleotide}
	for oid := 0; oid < n; oid++ {
		arg.OID = oid
		if st := src.GetSequence(arg); st != seqsrc.Success {
			t.Fatalf("oid %d: %v (%v)", oid, st, arg.Err)
		}
		if arg.Seq.OID != oid || arg.Seq.Length != src.SeqLen(oid) {
			t.Fatalf("oid %d: block %+v", oid, arg.Seq)
		}
	}
	arg.OID = n
	if st := src.GetSequence(arg); st != seqsrc.EOF {
		t.Fatalf("oid %d: want EOF, got %v", n, st)
	}
	if src.SeqIDStr(1) != "chr2" {
		t.Fatalf("id str %q", src.SeqIDStr(1))
	}
}

func TestSeqIDListUnknownID(t *testing.T) {
	st := loadToy(t)
	src, err := seqsrc.New(NewSeqIDList, &SeqIDListArgs{IDs: []string{"chr1", "nope"}, Fetcher: st})
	if src != nil || !errors.Is(err, ErrUnknownID) {
		t.Fatalf("got %v, %v", src, err)
	}
	if _, err := seqsrc.New(NewSeqIDList, "not args"); err == nil {
		t.Fatal("want error for wrong arg type")
	}
}

func TestSeqLocList(t *testing.T) {
	st := loadToy(t)
	locs := []Loc{{ID: "chr2", From: 3, To: 9}, {ID: "chr1", From: 0, To: 4}}
	src, err := seqsrc.New(NewSeqLocList, &SeqLocListArgs{Locs: locs, Fetcher: st})
	if err != nil {
		t.Fatal(err)
	}
	defer seqsrc.Free(src)

	arg := &seqsrc.GetSeqArg{OID: 0, Encoding: sequence.EncodingNcbi2na}
	if st := src.GetSequence(arg); st != seqsrc.Success {
		t.Fatalf("status %v", st)
	}
	if string(arg.Seq.Letters()) != "CCCAAA" {
		t.Fatalf("loc 0: %s", arg.Seq.Letters())
	}
	if src.SeqIDStr(0) != "chr2:4-9" {
		t.Fatalf("id str %q", src.SeqIDStr(0))
	}
	arg.OID = 2
	if st := src.GetSequence(arg); st != seqsrc.EOF {
		t.Fatalf("want EOF, got %v", st)
	}

	_, err = seqsrc.New(NewSeqLocList, &SeqLocListArgs{Locs: []Loc{{ID: "chr3", From: 0, To: 2}}, Fetcher: st})
	if !errors.Is(err, ErrBadRange) {
		t.Fatalf("want ErrBadRange, got %v", err)
	}
}

func TestParseLoc(t *testing.T) {
	loc, err := ParseLoc("chr2:4-9")
	if err != nil {
		t.Fatal(err)
	}
	if loc != (Loc{ID: "chr2", From: 3, To: 9}) || loc.String() != "chr2:4-9" {
		t.Fatalf("got %+v", loc)
	}
	if loc, err := ParseLoc("lcl|x:y:1-2"); err != nil || loc.ID != "lcl|x:y" {
		t.Fatalf("colon in id: %+v %v", loc, err)
	}
	for _, bad := range []string{"chr2", "chr2:9-4", "chr2:0-3", ":1-2", "chr2:a-3"} {
		if _, err := ParseLoc(bad); err == nil {
			t.Fatalf("%q accepted", bad)
		}
	}
}
