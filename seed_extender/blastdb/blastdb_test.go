package blastdb

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"BLAST-Seed-Extension/seed_extender/listsrc"
	"BLAST-Seed-Extension/seed_extender/seqsrc"
	"BLAST-Seed-Extension/seed_extender/sequence"
)

var toy = []struct{ id, seq string }{
	{"s1", "ACGTACGTAC"},
	{"s2", "ttttcccc"},
	{"s3", "GATTACAGATTACAGATTACA"},
}

func build(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "toy.db")
	w, err := Create(path, false)
	if err != nil {
		t.Fatal(err)
	}
	for i, r := range toy {
		oid, err := w.Add(r.id, []byte(r.seq))
		if err != nil {
			t.Fatal(err)
		}
		if oid != i {
			t.Fatalf("oid %d want %d", oid, i)
		}
	}
	if _, err := w.Add("s2", []byte("A")); !errors.Is(err, ErrDuplicateID) {
		t.Fatalf("want ErrDuplicateID, got %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestBuildAndScan(t *testing.T) {
	db, err := Open(build(t))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	src, err := seqsrc.New(NewBackend, db)
	if err != nil {
		t.Fatal(err)
	}
	defer seqsrc.Free(src)

	if src.NumSeqs() != 3 || src.MaxSeqLen() != 21 || src.TotLen() != 39 || src.IsProtein() {
		t.Fatalf("metadata: %d %d %d", src.NumSeqs(), src.MaxSeqLen(), src.TotLen())
	}
	arg := &seqsrc.GetSeqArg{Encoding: sequence.EncodingNucleotide}
	for oid, r := range toy {
		arg.OID = oid
		if st := src.GetSequence(arg); st != seqsrc.Success {
			t.Fatalf("oid %d: %v %v", oid, st, arg.Err)
		}
		if string(arg.Seq.Letters()) != strings.ToUpper(r.seq) || arg.Seq.ID != r.id {
			t.Fatalf("oid %d: %s %s", oid, arg.Seq.ID, arg.Seq.Letters())
		}
	}
	arg.OID = 3
	if st := src.GetSequence(arg); st != seqsrc.EOF {
		t.Fatalf("want EOF, got %v", st)
	}
	if src.SeqIDStr(2) != "s3" || src.SeqLen(1) != 8 {
		t.Fatal("id/len lookup wrong")
	}
}

func TestFetcherDrivesIDList(t *testing.T) {
	db, err := Open(build(t))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	src, err := seqsrc.New(listsrc.NewSeqIDList, &listsrc.SeqIDListArgs{IDs: []string{"s3", "s1"}, Fetcher: db})
	if err != nil {
		t.Fatal(err)
	}
	defer seqsrc.Free(src)
	arg := &seqsrc.GetSeqArg{OID: 1, Encoding: sequence.EncodingNucleotide}
	if st := src.GetSequence(arg); st != seqsrc.Success || string(arg.Seq.Letters()) != "ACGTACGTAC" {
		t.Fatalf("got %v %s", st, arg.Seq.Letters())
	}
	if _, err := db.Fetch("missing", 0, 1); !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
	b, err := db.Fetch("s3", 1, 4)
	if err != nil || string(b) != "ATT" {
		t.Fatalf("fetch: %q %v", b, err)
	}
}

func TestDumpFasta(t *testing.T) {
	db, err := Open(build(t))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	var buf bytes.Buffer
	if err := db.DumpFasta(&buf); err != nil {
		t.Fatal(err)
	}
	st, err := listsrc.LoadFasta(&buf, false)
	if err != nil {
		t.Fatal(err)
	}
	if len(st.IDs()) != 3 {
		t.Fatalf("dumped %d records", len(st.IDs()))
	}
	b, _ := st.Fetch("s2", 0, 8)
	if string(b) != "TTTTCCCC" {
		t.Fatalf("s2: %s", b)
	}
}

func TestHeaderRejectsGarbage(t *testing.T) {
	if _, err := unmarshalHeader([]byte("nope")); !errors.Is(err, ErrBadHeader) {
		t.Fatalf("want ErrBadHeader, got %v", err)
	}
	h := header{protein: true, numSeqs: 7, maxLen: 300, totLen: 1 << 40}
	got, err := unmarshalHeader(h.marshal())
	if err != nil || got != h {
		t.Fatalf("header: %+v %v", got, err)
	}
}

func TestAbortRemovesDatabase(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "partial.db")
	w, err := Create(path, false)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := w.Add("s1", []byte("ACGT")); err != nil {
		t.Fatal(err)
	}
	if err := w.Abort(); err != nil {
		t.Fatal(err)
	}
	if left, _ := os.ReadDir(dir); len(left) != 0 {
		t.Fatalf("files left after Abort: %v", left)
	}
	if _, err := Open(path); err == nil {
		t.Fatal("aborted database opened")
	}

	w, err = Create(path, false)
	if err != nil {
		t.Fatalf("create after abort: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
}
