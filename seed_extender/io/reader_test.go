package io

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func write(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestReadQueriesFasta(t *testing.T) {
	p := write(t, "q.fa", ">q1 first\nacgt\nACGT\n>q2\nTTTT\n")
	qs, err := ReadQueries(p, false)
	if err != nil {
		t.Fatal(err)
	}
	if len(qs) != 2 {
		t.Fatalf("read %d queries", len(qs))
	}
	if qs[0].ID != "q1" || string(qs[0].Letters()) != "ACGTACGT" || qs[1].Length != 4 {
		t.Fatalf("got %s %s, %d", qs[0].ID, qs[0].Letters(), qs[1].Length)
	}
}

func TestReadQueriesBare(t *testing.T) {
	p := write(t, "query1.txt", "acgt\nacgt\n\n")
	qs, err := ReadQueries(p, false)
	if err != nil {
		t.Fatal(err)
	}
	if len(qs) != 1 || qs[0].ID != "query1" || string(qs[0].Letters()) != "ACGTACGT" {
		t.Fatalf("got %+v", qs)
	}
}

func TestReadQueriesBareLongLine(t *testing.T) {
	seq := strings.Repeat("ACGTTGCA", 10000)
	p := write(t, "chr.seq", "\n  "+seq+"\n")
	qs, err := ReadQueries(p, false)
	if err != nil {
		t.Fatal(err)
	}
	if len(qs) != 1 || qs[0].ID != "chr" || qs[0].Length != len(seq) {
		t.Fatalf("got %d queries", len(qs))
	}
}

func TestReadQueriesMissing(t *testing.T) {
	if _, err := ReadQueries(filepath.Join(t.TempDir(), "nope.fa"), false); err == nil {
		t.Fatal("missing file accepted")
	}
}
