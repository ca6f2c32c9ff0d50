package pipeline

// Opts configures one pipeline run. Tool fields name the external
// collaborator executables; they are resolved through PATH by the default
// runner.
type Opts struct {
	// OutDir is the working directory for all stage outputs. Intermediate
	// files are kept so that a failed run can be diagnosed from disk.
	OutDir string
	// Reference is the reference sequence FASTA given to the aligner.
	Reference string
	// R1 is the forward-read FASTQ. R2 is the mate FASTQ; empty for
	// single-end data.
	R1, R2 string

	// MergeReads enables the mate-pair merge stage for paired input. When
	// false (or for single-end input) the align stage consumes the
	// deduplicated reads directly.
	MergeReads bool
	// MinPrevalence is the exclusive prevalence cutoff applied to
	// reconstructed haplotypes.
	MinPrevalence float64
	// ExpectedCysteines is the plausible cysteine count for the target
	// protein family.
	ExpectedCysteines int

	// MergeTool merges overlapping mate pairs (PEAR-compatible CLI).
	MergeTool string
	// AlignerIndexer builds the aligner's reference index.
	AlignerIndexer string
	// Aligner maps reads against the reference (bowtie2-compatible CLI).
	Aligner string
	// Samtools performs BAM sort/index/flagstat post-processing.
	Samtools string
	// Reconstructor infers haplotypes from the sorted alignment
	// (QuasiRecomb-compatible CLI). Invoked twice: draft, then refinement.
	Reconstructor string

	// Verbose logs every external command line before it runs.
	Verbose bool

	// Run executes an external collaborator. Nil selects ExecRunner.
	// Tests substitute a recording fake.
	Run RunFunc
}

// DefaultOpts sets the default values to Opts.
var DefaultOpts = Opts{
	MergeReads:        true,
	MinPrevalence:     0.01,
	ExpectedCysteines: 2,
	MergeTool:         "pear",
	AlignerIndexer:    "bowtie2-build",
	Aligner:           "bowtie2",
	Samtools:          "samtools",
	Reconstructor:     "quasirecomb",
}
