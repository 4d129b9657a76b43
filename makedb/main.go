package main

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"BLAST-Seed-Extension/seed_extender/blastdb"

	"github.com/dustin/go-humanize"
	"github.com/shenwei356/bio/seqio/fastx"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "makedb",
		Short:        "build a subject database from FASTA/FASTQ files",
		SilenceUsage: true,
		RunE:         run,
	}
	f := cmd.Flags()
	f.StringSliceP("in", "i", nil, "input FASTA/FASTQ files (plain or gzipped)")
	f.StringP("out", "o", "", "database path")
	f.Bool("protein", false, "sequences are protein")
	f.String("dump", "", "write the database given by --out back out as FASTA to this file ('-' for stdout) instead of building")
	return cmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	f := cmd.Flags()
	dbPath, _ := f.GetString("out")
	if dbPath == "" {
		return fmt.Errorf("need --out")
	}
	if dump, _ := f.GetString("dump"); dump != "" {
		return dumpDB(dbPath, dump)
	}

	files, _ := f.GetStringSlice("in")
	files = append(files, args...)
	if len(files) == 0 {
		return fmt.Errorf("need at least one input file")
	}
	protein, _ := f.GetBool("protein")

	start := time.Now()
	w, err := blastdb.Create(dbPath, protein)
	if err != nil {
		return err
	}
	var n, residues int64
	for _, file := range files {
		if err := addFile(w, file, &n, &residues); err != nil {
			if e := w.Abort(); e != nil {
				log.Printf("removing partial database %s: %v", dbPath, e)
			}
			return err
		}
	}
	if err := w.Close(); err != nil {
		return err
	}
	log.Printf("%s: %s sequences, %s residues in %s", dbPath,
		humanize.Comma(n), humanize.Comma(residues), time.Since(start).Round(time.Millisecond))
	return nil
}

func addFile(w *blastdb.Writer, file string, n, residues *int64) error {
	r, err := fastx.NewReader(nil, file, "")
	if err != nil {
		return fmt.Errorf("open %s: %w", file, err)
	}
	defer r.Close()
	for {
		record, err := r.Read()
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return fmt.Errorf("read %s: %w", file, err)
		}
		if _, err := w.Add(string(record.ID), record.Seq.Seq); err != nil {
			return err
		}
		*n++
		*residues += int64(len(record.Seq.Seq))
	}
}

func dumpDB(dbPath, dest string) error {
	db, err := blastdb.Open(dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	out := os.Stdout
	if dest != "-" {
		if out, err = os.Create(dest); err != nil {
			return err
		}
		defer out.Close()
	}
	bw := bufio.NewWriter(out)
	if err := db.DumpFasta(bw); err != nil {
		return err
	}
	return bw.Flush()
}
