package search

import (
	"io"
	"log"
	"runtime"

	"BLAST-Seed-Extension/seed_extender/config"
	"BLAST-Seed-Extension/seed_extender/matching"
	"BLAST-Seed-Extension/seed_extender/program"
)

// Options configures a search. Zero values mean "use the default".
type Options struct {
	Program program.Type

	WordSize int
	XDrop    int
	Cutoff   int
	Window   int
	// SingleHit turns off two-hit seeding for searches compared in protein
	// space. Nucleotide searches always seed on single hits.
	SingleHit bool
	// Extension is "both", "right" or "megablast". Empty picks megablast for
	// nucleotide word sizes of at least config.MegablastWordSize and both
	// otherwise.
	Extension string

	Reward  int
	Penalty int
	Matrix  string

	Workers   int
	BatchSize int
	ChunkSize int
	MergeGap  int

	Logger *log.Logger
	// Progress, when set, is called once per subject scanned or skipped. It
	// is called from several workers at once.
	Progress func(oid int)
}

// withDefaults returns a copy of o with zero fields filled in.
func (o Options) withDefaults() Options {
	nucl := program.ProgramIsNucleotide(o.Program)
	if o.WordSize == 0 {
		if nucl {
			o.WordSize = config.DefaultNucleotideWordSize
		} else {
			o.WordSize = config.DefaultProteinWordSize
		}
	}
	megablast := nucl && o.WordSize >= config.MegablastWordSize
	if o.XDrop == 0 {
		if nucl {
			o.XDrop = config.NucleotideXDrop
		} else {
			o.XDrop = config.ProteinXDrop
		}
	}
	if o.Cutoff == 0 {
		if nucl {
			o.Cutoff = config.NucleotideCutoff
		} else {
			o.Cutoff = config.ProteinCutoff
		}
	}
	if o.Window == 0 {
		o.Window = config.DefaultWindowSize
	}
	if o.Reward == 0 && o.Penalty == 0 {
		if megablast {
			o.Reward, o.Penalty = config.MegablastReward, config.MegablastPenalty
		} else {
			o.Reward, o.Penalty = config.DefaultReward, config.DefaultPenalty
		}
	}
	if o.Extension == "" {
		if megablast {
			o.Extension = matching.MegaBlast.String()
		} else {
			o.Extension = matching.RightAndLeft.String()
		}
	}
	if o.Workers <= 0 {
		o.Workers = runtime.NumCPU()
	}
	if o.BatchSize <= 0 {
		o.BatchSize = config.DefaultBatchSize
	}
	if o.ChunkSize <= 0 {
		o.ChunkSize = config.DefaultChunkSize
	}
	if o.MergeGap < 0 {
		o.MergeGap = config.DefaultMergeGap
	}
	if o.Logger == nil {
		o.Logger = log.New(io.Discard, "", 0)
	}
	return o
}

// twoHits reports whether seeding waits for a second hit on a diagonal.
func (o Options) twoHits() bool {
	return !o.SingleHit && !program.ProgramIsNucleotide(o.Program)
}

// scanWordSize is the lookup word; megablast verifies the full word size
// after the lookup.
func (o Options) scanWordSize(mode matching.Mode) int {
	if mode == matching.MegaBlast && o.WordSize > config.MegablastScanWordSize {
		return config.MegablastScanWordSize
	}
	return o.WordSize
}
