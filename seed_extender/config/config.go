package config

// Word (seed) sizes
const (
	DefaultNucleotideWordSize = 11
	MegablastWordSize         = 28
	DefaultProteinWordSize    = 3
	MinNucleotideWordSize     = 4
	MaxNucleotideWordSize     = 32 // k-mers are encoded into a uint64
	MaxProteinWordSize        = 5
	// MegablastScanWordSize is the lookup word used when the word size is at
	// least MegablastWordSize; each hit is verified to WordSize before
	// extension.
	MegablastScanWordSize = 12
)

// Nucleotide scoring
const (
	DefaultReward  = 2
	DefaultPenalty = -3
	// MegablastReward and MegablastPenalty are used when the word size is at
	// least MegablastWordSize.
	MegablastReward  = 1
	MegablastPenalty = -2
)

// Ungapped extension parameters, in raw score units
const (
	NucleotideXDrop = 20
	ProteinXDrop    = 16
	// Minimum ungapped score for a hit to be kept.
	NucleotideCutoff = 20
	ProteinCutoff    = 30
)

// Two-hit mode
const (
	DefaultWindowSize = 40
)

// Diagonal table
const (
	// DiagOffsetLimit bounds the table's running offset; when an update would
	// pass it, the table is physically cleared.
	DiagOffsetLimit = 1 << 30
)

// Scanning and workers
const (
	DefaultBatchSize = 4096 // seed pairs handed to the extender per batch
	DefaultChunkSize = 64   // oids a worker claims at a time
	DefaultMergeGap  = 0    // 0 disables merging of adjacent hits
)
