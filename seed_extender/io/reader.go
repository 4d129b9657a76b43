package io

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"BLAST-Seed-Extension/seed_extender/sequence"

	"github.com/shenwei356/bio/seqio/fastx"
)

// ReadSequence reads a bare sequence from a file holding nothing else.
// Whitespace is dropped and letters are upper-cased.
func ReadSequence(filePath string) ([]byte, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}
	return bytes.ToUpper(bytes.Join(bytes.Fields(data), nil)), nil
}

// ReadQueries reads every record of a FASTA/FASTQ file (plain or gzipped)
// into query blocks. A file with no header line is read whole as a single
// query named after the file.
func ReadQueries(filePath string, protein bool) ([]*sequence.SequenceBlk, error) {
	enc := sequence.EncodingNucleotide
	if protein {
		enc = sequence.EncodingProtein
	}

	bare, err := isBare(filePath)
	if err != nil {
		return nil, err
	}
	if bare {
		letters, err := ReadSequence(filePath)
		if err != nil {
			return nil, err
		}
		id := strings.TrimSuffix(filepath.Base(filePath), filepath.Ext(filePath))
		return []*sequence.SequenceBlk{sequence.NewSequenceBlk(id, letters, enc)}, nil
	}

	r, err := fastx.NewReader(nil, filePath, "")
	if err != nil {
		return nil, fmt.Errorf("io: open %s: %w", filePath, err)
	}
	defer r.Close()

	var queries []*sequence.SequenceBlk
	for {
		record, err := r.Read()
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, fmt.Errorf("io: read %s: %w", filePath, err)
		}
		// the reader reuses record buffers
		letters := bytes.ToUpper(append([]byte(nil), record.Seq.Seq...))
		queries = append(queries, sequence.NewSequenceBlk(string(record.ID), letters, enc))
	}
	return queries, nil
}

// isBare reports whether the first non-space byte of a plain-text file is
// not a FASTA/FASTQ header marker. Gzipped files are never bare.
func isBare(filePath string) (bool, error) {
	if strings.HasSuffix(filePath, ".gz") {
		return false, nil
	}
	f, err := os.Open(filePath)
	if err != nil {
		return false, err
	}
	defer f.Close()
	br := bufio.NewReader(f)
	for {
		c, err := br.ReadByte()
		if err == io.EOF {
			return false, nil
		}
		if err != nil {
			return false, err
		}
		switch c {
		case ' ', '\t', '\r', '\n':
			continue
		}
		return c != '>' && c != '@', nil
	}
}
