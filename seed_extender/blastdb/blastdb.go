// Package blastdb is a compact on-disk sequence database used as the
// database-backed sequence source. Records live in a modernc.org/kv store:
//
//	"meta"          header (magic, molecule type, counts)
//	"lens"          uint32 length per oid
//	's' + oid       snappy-compressed residues
//	'i' + oid       sequence id
//	'n' + id        oid
//
// Oids are assigned in insertion order starting at 0.
package blastdb

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/biogo/biogo/alphabet"
	"github.com/biogo/biogo/io/seqio/fasta"
	"github.com/biogo/biogo/seq/linear"
	"github.com/golang/snappy"
	"modernc.org/kv"
)

const (
	magic   = "SXDB"
	version = 1

	metaLen = 4 + 1 + 1 + 4 + 4 + 8
)

var (
	ErrNotFound    = errors.New("blastdb: sequence not found")
	ErrBadHeader   = errors.New("blastdb: not a sequence database")
	ErrDuplicateID = errors.New("blastdb: duplicate sequence id")
)

var (
	metaKey = []byte("meta")
	lensKey = []byte("lens")
)

func oidKey(prefix byte, oid int) []byte {
	k := make([]byte, 5)
	k[0] = prefix
	binary.BigEndian.PutUint32(k[1:], uint32(oid))
	return k
}

func nameKey(id string) []byte {
	return append([]byte{'n'}, id...)
}

type header struct {
	protein bool
	numSeqs int
	maxLen  int
	totLen  int64
}

func (h header) marshal() []byte {
	b := make([]byte, metaLen)
	copy(b, magic)
	b[4] = version
	if h.protein {
		b[5] = 1
	}
	binary.BigEndian.PutUint32(b[6:], uint32(h.numSeqs))
	binary.BigEndian.PutUint32(b[10:], uint32(h.maxLen))
	binary.BigEndian.PutUint64(b[14:], uint64(h.totLen))
	return b
}

func unmarshalHeader(b []byte) (header, error) {
	if len(b) != metaLen || string(b[:4]) != magic {
		return header{}, ErrBadHeader
	}
	if b[4] != version {
		return header{}, fmt.Errorf("%w: version %d", ErrBadHeader, b[4])
	}
	return header{
		protein: b[5] == 1,
		numSeqs: int(binary.BigEndian.Uint32(b[6:])),
		maxLen:  int(binary.BigEndian.Uint32(b[10:])),
		totLen:  int64(binary.BigEndian.Uint64(b[14:])),
	}, nil
}

// Writer builds a new database. It is not safe for concurrent use.
type Writer struct {
	path string
	db   *kv.DB
	hdr  header
	lens []byte
	buf  []byte
}

// Create starts a new database at path, which must not exist.
func Create(path string, protein bool) (*Writer, error) {
	db, err := kv.Create(path, &kv.Options{})
	if err != nil {
		return nil, err
	}
	if err := db.BeginTransaction(); err != nil {
		db.Close()
		return nil, err
	}
	return &Writer{path: path, db: db, hdr: header{protein: protein}}, nil
}

// Add appends a sequence and returns its oid. Residues are stored upper-cased.
func (w *Writer) Add(id string, residues []byte) (int, error) {
	if v, err := w.db.Get(nil, nameKey(id)); err != nil {
		return 0, err
	} else if v != nil {
		return 0, fmt.Errorf("%w: %q", ErrDuplicateID, id)
	}
	oid := w.hdr.numSeqs
	w.buf = snappy.Encode(w.buf[:cap(w.buf)], bytes.ToUpper(residues))
	if err := w.db.Set(oidKey('s', oid), w.buf); err != nil {
		return 0, err
	}
	if err := w.db.Set(oidKey('i', oid), []byte(id)); err != nil {
		return 0, err
	}
	var o [4]byte
	binary.BigEndian.PutUint32(o[:], uint32(oid))
	if err := w.db.Set(nameKey(id), o[:]); err != nil {
		return 0, err
	}

	n := len(residues)
	w.lens = binary.BigEndian.AppendUint32(w.lens, uint32(n))
	if n > w.hdr.maxLen {
		w.hdr.maxLen = n
	}
	w.hdr.totLen += int64(n)
	w.hdr.numSeqs++
	return oid, nil
}

// Close writes the header, commits and closes the database.
func (w *Writer) Close() error {
	if err := w.db.Set(lensKey, w.lens); err != nil {
		w.db.Rollback()
		w.db.Close()
		return err
	}
	if err := w.db.Set(metaKey, w.hdr.marshal()); err != nil {
		w.db.Rollback()
		w.db.Close()
		return err
	}
	if err := w.db.Commit(); err != nil {
		w.db.Close()
		return err
	}
	return w.db.Close()
}

// Abort discards everything written, closes the store and removes the
// database and its write-ahead log, so Create can be called on path again.
func (w *Writer) Abort() error {
	wal := w.db.WALName()
	err := w.db.Rollback()
	if e := w.db.Close(); err == nil {
		err = e
	}
	for _, name := range []string{w.path, wal} {
		if name == "" {
			continue
		}
		if e := os.Remove(name); e != nil && !os.IsNotExist(e) && err == nil {
			err = e
		}
	}
	return err
}

// DB is an open database. Its methods are safe for concurrent use; per-worker
// sequence sources are obtained with NewBackend.
type DB struct {
	path string
	db   *kv.DB
	hdr  header
	lens []uint32
}

// Open opens an existing database read-only.
func Open(path string) (*DB, error) {
	db, err := kv.Open(path, &kv.Options{})
	if err != nil {
		return nil, err
	}
	meta, err := db.Get(nil, metaKey)
	if err != nil {
		db.Close()
		return nil, err
	}
	hdr, err := unmarshalHeader(meta)
	if err != nil {
		db.Close()
		return nil, err
	}
	raw, err := db.Get(nil, lensKey)
	if err != nil || len(raw) != 4*hdr.numSeqs {
		db.Close()
		return nil, fmt.Errorf("%w: bad length table", ErrBadHeader)
	}
	lens := make([]uint32, hdr.numSeqs)
	for i := range lens {
		lens[i] = binary.BigEndian.Uint32(raw[4*i:])
	}
	return &DB{path: path, db: db, hdr: hdr, lens: lens}, nil
}

func (d *DB) Close() error { return d.db.Close() }

func (d *DB) NumSeqs() int    { return d.hdr.numSeqs }
func (d *DB) MaxSeqLen() int  { return d.hdr.maxLen }
func (d *DB) TotLen() int64   { return d.hdr.totLen }
func (d *DB) IsProtein() bool { return d.hdr.protein }
func (d *DB) Path() string    { return d.path }

func (d *DB) SeqLen(oid int) int {
	if oid < 0 || oid >= len(d.lens) {
		return -1
	}
	return int(d.lens[oid])
}

// OID returns the oid stored for id.
func (d *DB) OID(id string) (int, error) {
	v, err := d.db.Get(nil, nameKey(id))
	if err != nil {
		return 0, err
	}
	if v == nil {
		return 0, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	return int(binary.BigEndian.Uint32(v)), nil
}

// ID returns the sequence id of oid.
func (d *DB) ID(oid int) (string, error) {
	v, err := d.db.Get(nil, oidKey('i', oid))
	if err != nil {
		return "", err
	}
	if v == nil {
		return "", fmt.Errorf("%w: oid %d", ErrNotFound, oid)
	}
	return string(v), nil
}

// Residues decompresses the residues of oid into buf.
func (d *DB) Residues(buf []byte, oid int) ([]byte, error) {
	v, err := d.db.Get(nil, oidKey('s', oid))
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, fmt.Errorf("%w: oid %d", ErrNotFound, oid)
	}
	out, err := snappy.Decode(buf[:cap(buf)], v)
	if err != nil {
		return nil, fmt.Errorf("blastdb: oid %d: %w", oid, err)
	}
	return out, nil
}

// Length implements seqsrc.Fetcher.
func (d *DB) Length(id string) (int, error) {
	oid, err := d.OID(id)
	if err != nil {
		return 0, err
	}
	return d.SeqLen(oid), nil
}

// Fetch implements seqsrc.Fetcher.
func (d *DB) Fetch(id string, from, to int) ([]byte, error) {
	oid, err := d.OID(id)
	if err != nil {
		return nil, err
	}
	res, err := d.Residues(nil, oid)
	if err != nil {
		return nil, err
	}
	if from < 0 || to > len(res) || from > to {
		return nil, fmt.Errorf("blastdb: range [%d, %d) outside %s of length %d", from, to, id, len(res))
	}
	return res[from:to], nil
}

// DumpFasta writes every sequence in oid order as FASTA.
func (d *DB) DumpFasta(w io.Writer) error {
	alpha := alphabet.Alphabet(alphabet.DNAredundant)
	if d.hdr.protein {
		alpha = alphabet.Protein
	}
	fw := fasta.NewWriter(w, 60)
	var buf []byte
	for oid := 0; oid < d.hdr.numSeqs; oid++ {
		id, err := d.ID(oid)
		if err != nil {
			return err
		}
		buf, err = d.Residues(buf, oid)
		if err != nil {
			return err
		}
		if _, err := fw.Write(linear.NewSeq(id, alphabet.BytesToLetters(buf), alpha)); err != nil {
			return err
		}
	}
	return nil
}
