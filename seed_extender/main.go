package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"time"

	"BLAST-Seed-Extension/seed_extender/blastdb"
	"BLAST-Seed-Extension/seed_extender/fastasrc"
	"BLAST-Seed-Extension/seed_extender/io"
	"BLAST-Seed-Extension/seed_extender/listsrc"
	"BLAST-Seed-Extension/seed_extender/program"
	"BLAST-Seed-Extension/seed_extender/scoring"
	"BLAST-Seed-Extension/seed_extender/search"
	"BLAST-Seed-Extension/seed_extender/seqsrc"
	"BLAST-Seed-Extension/seed_extender/sequence"

	"github.com/dustin/go-humanize"
	"github.com/pkg/profile"
	"github.com/spf13/cobra"
	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
)

var rootCmd = &cobra.Command{
	Use:          "seed_extender",
	Short:        "seed-and-extend local alignment search",
	SilenceUsage: true,
}

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "find ungapped hits of queries against a database or FASTA file",
	RunE:  runSearch,
}

var programsCmd = &cobra.Command{
	Use:   "programs",
	Short: "list program names and their wire values",
	Run: func(cmd *cobra.Command, args []string) {
		w := bufio.NewWriter(os.Stdout)
		defer w.Flush()
		fmt.Fprintf(w, "#program\twire\tquery\tsubject\n")
		for _, p := range program.All {
			fmt.Fprintf(w, "%s\t0x%03x\t%s\t%s\n", p, program.Encode(p), program.QueryEncoding(p), program.SubjectEncoding(p))
		}
	},
}

var matricesCmd = &cobra.Command{
	Use:   "matrices",
	Short: "list the protein substitution matrices --matrix accepts",
	Run: func(cmd *cobra.Command, args []string) {
		for _, name := range scoring.Names() {
			fmt.Println(name)
		}
	},
}

func init() {
	rootCmd.AddCommand(searchCmd, programsCmd, matricesCmd)

	f := searchCmd.Flags()
	f.StringP("query", "q", "", "query FASTA/FASTQ file, or a file holding one bare sequence")
	f.StringP("db", "d", "", "subject database built by makedb")
	f.StringP("fasta", "f", "", "subject FASTA file")
	f.StringSlice("ids", nil, "search only these subject ids")
	f.StringSlice("locs", nil, "search only these subject locations (id:from-to, 1-based)")
	f.StringP("program", "p", "blastn", "blastn, blastp, blastx, tblastn, tblastx or mapping")
	f.IntP("word-size", "w", 0, "word size (0: program default)")
	f.Int("xdrop", 0, "ungapped X-drop in raw score (0: default)")
	f.Int("cutoff", 0, "minimum hit score (0: default)")
	f.Int("window", 0, "two-hit window (0: default)")
	f.Bool("single-hit", false, "extend every protein word hit instead of waiting for a second")
	f.String("extension", "", "both, right or megablast (default: by word size)")
	f.Int("reward", 0, "nucleotide match reward (0: default)")
	f.Int("penalty", 0, "nucleotide mismatch penalty (0: default)")
	f.String("matrix", "BLOSUM62", "protein substitution matrix (see matrices)")
	f.IntP("threads", "j", 0, "workers (0: all CPUs)")
	f.Int("batch-size", 0, "word hits extended per batch (0: default)")
	f.Int("merge-gap", 0, "merge hits on one diagonal at most this far apart (0: off)")
	f.StringP("out", "o", "-", "output file")
	f.Bool("progress", false, "show a progress bar")
	f.Bool("cpuprofile", false, "write a CPU profile to the working directory")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runSearch(cmd *cobra.Command, args []string) error {
	f := cmd.Flags()
	if prof, _ := f.GetBool("cpuprofile"); prof {
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(".")).Stop()
	}

	queryFile, _ := f.GetString("query")
	dbPath, _ := f.GetString("db")
	fastaPath, _ := f.GetString("fasta")
	if queryFile == "" || (dbPath == "") == (fastaPath == "") {
		return fmt.Errorf("need --query and exactly one of --db and --fasta")
	}
	name, _ := f.GetString("program")
	p, err := program.Parse(name)
	if err != nil {
		return err
	}
	if err := search.Validate(p); err != nil {
		return err
	}

	opts := search.Options{Program: p, Logger: log.New(os.Stderr, "", log.LstdFlags)}
	opts.WordSize, _ = f.GetInt("word-size")
	opts.XDrop, _ = f.GetInt("xdrop")
	opts.Cutoff, _ = f.GetInt("cutoff")
	opts.Window, _ = f.GetInt("window")
	opts.SingleHit, _ = f.GetBool("single-hit")
	opts.Extension, _ = f.GetString("extension")
	opts.Reward, _ = f.GetInt("reward")
	opts.Penalty, _ = f.GetInt("penalty")
	opts.Matrix, _ = f.GetString("matrix")
	opts.Workers, _ = f.GetInt("threads")
	opts.BatchSize, _ = f.GetInt("batch-size")
	opts.MergeGap, _ = f.GetInt("merge-gap")

	ids, _ := f.GetStringSlice("ids")
	locStrs, _ := f.GetStringSlice("locs")
	var locs []listsrc.Loc
	for _, s := range locStrs {
		loc, err := listsrc.ParseLoc(s)
		if err != nil {
			return err
		}
		locs = append(locs, loc)
	}

	open, closeSubjects, err := subjects(dbPath, fastaPath, program.SubjectIsProtein(p), ids, locs)
	if err != nil {
		return err
	}
	defer closeSubjects()

	queries, err := io.ReadQueries(queryFile, !program.QueryIsNucleotide(p))
	if err != nil {
		return err
	}

	outFile, _ := f.GetString("out")
	out := os.Stdout
	if outFile != "-" {
		if out, err = os.Create(outFile); err != nil {
			return err
		}
		defer out.Close()
	}
	w := bufio.NewWriter(out)
	defer w.Flush()
	fmt.Fprintln(w, "#query\tsubject\tqframe\tsframe\tqstart\tqend\tsstart\tsend\tscore\tqseed\tsseed")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	showProgress, _ := f.GetBool("progress")
	for _, q := range queries {
		start := time.Now()
		var pbs *mpb.Progress
		var bar *mpb.Bar
		if showProgress {
			pbs, bar, err = progressBar(q.ID, open)
			if err != nil {
				return err
			}
			opts.Progress = func(int) { bar.Increment() }
		}
		rep, err := search.Run(ctx, opts, q, open)
		if pbs != nil {
			// complete at the current count so Wait returns after errors too
			bar.SetTotal(-1, true)
			pbs.Wait()
		}
		if err != nil {
			return fmt.Errorf("query %s: %w", q.ID, err)
		}
		writeReport(w, rep)

		s := rep.Summary
		residues := humanize.Comma(int64(q.Length))
		if program.QueryIsNucleotide(p) {
			residues += fmt.Sprintf(", GC %.1f%%", sequence.CalculateGCContent(q.Letters())*100)
		}
		opts.Logger.Printf("%s (%s residues): %s subjects, %d skipped, %s seeds, %s extensions, %s hits, %.1f%% covered (%d gaps), %d table clears, %s",
			q.ID, residues, humanize.Comma(int64(s.Subjects)), s.Skipped,
			humanize.Comma(int64(s.Seeds)), humanize.Comma(int64(s.Extensions)), humanize.Comma(int64(s.Hits)),
			s.Coverage*100, len(s.Uncovered), s.DiagClears, time.Since(start).Round(time.Millisecond))
	}
	return nil
}

// subjects picks the sequence source backing the search. Restricting by ids
// or locations puts a list source over the database or over the FASTA file
// loaded into memory.
func subjects(dbPath, fastaPath string, protein bool, ids []string, locs []listsrc.Loc) (search.OpenFunc, func(), error) {
	if len(ids) > 0 && len(locs) > 0 {
		return nil, nil, fmt.Errorf("--ids and --locs are exclusive")
	}

	var fetcher seqsrc.Fetcher
	closer := func() {}
	switch {
	case dbPath != "":
		db, err := blastdb.Open(dbPath)
		if err != nil {
			return nil, nil, err
		}
		closer = func() { db.Close() }
		if len(ids) == 0 && len(locs) == 0 {
			return func() (*seqsrc.SeqSrc, error) { return seqsrc.New(blastdb.NewBackend, db) }, closer, nil
		}
		fetcher = db
	case len(ids) == 0 && len(locs) == 0:
		idx, err := fastasrc.NewIndex(fastaPath)
		if err != nil {
			return nil, nil, err
		}
		log.Printf("indexed %s", idx.Path())
		args := &fastasrc.Args{Path: fastaPath, Protein: protein, Index: idx}
		return func() (*seqsrc.SeqSrc, error) { return seqsrc.New(fastasrc.New, args) }, closer, nil
	default:
		fh, err := os.Open(fastaPath)
		if err != nil {
			return nil, nil, err
		}
		st, err := listsrc.LoadFasta(fh, protein)
		fh.Close()
		if err != nil {
			return nil, nil, err
		}
		log.Printf("loaded %s subjects from %s", humanize.Comma(int64(len(st.IDs()))), fastaPath)
		fetcher = st
	}

	if len(ids) > 0 {
		args := &listsrc.SeqIDListArgs{Name: strings.Join(ids, ","), IDs: ids, Fetcher: fetcher, Protein: protein}
		return func() (*seqsrc.SeqSrc, error) { return seqsrc.New(listsrc.NewSeqIDList, args) }, closer, nil
	}
	args := &listsrc.SeqLocListArgs{Name: "locations", Locs: locs, Fetcher: fetcher, Protein: protein}
	return func() (*seqsrc.SeqSrc, error) { return seqsrc.New(listsrc.NewSeqLocList, args) }, closer, nil
}

func progressBar(queryID string, open search.OpenFunc) (*mpb.Progress, *mpb.Bar, error) {
	src, err := open()
	if err != nil {
		return nil, nil, err
	}
	total := int64(src.NumSeqs())
	seqsrc.Free(src)

	label := queryID + ": "
	pbs := mpb.New(mpb.WithWidth(40), mpb.WithOutput(os.Stderr))
	bar := pbs.AddBar(total,
		mpb.PrependDecorators(
			decor.Name(label, decor.WC{W: len(label), C: decor.DindentRight}),
			decor.CountersNoUnit("%d / %d", decor.WCSyncWidth),
		),
		mpb.AppendDecorators(
			decor.Name("ETA: ", decor.WC{W: len("ETA: ")}),
			decor.AverageETA(decor.ET_STYLE_GO),
			decor.OnComplete(decor.Name(""), ". done"),
		),
	)
	return pbs, bar, nil
}

func writeReport(w *bufio.Writer, rep *search.Report) {
	for _, r := range rep.Results {
		for _, h := range r.Hits {
			fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%d\t%d\t%d\t%d\t%d\t%d\n",
				rep.QueryID, r.SubjectID, h.QueryFrame, h.SubjectFrame,
				h.QStart+1, h.QEnd, h.SStart+1, h.SEnd, h.Score, h.QueryOffset, h.SubjectOffset)
		}
	}
}
