package main

/*
quasipipe reconstructs viral quasispecies haplotypes from deep-sequencing
reads. It deduplicates raw FASTQ input, optionally merges mate pairs,
delegates alignment and haplotype inference to external tools (pear,
bowtie2, samtools, quasirecomb by default), and filters the reconstructed
haplotypes by prevalence and biological plausibility.
*/

import (
	"flag"
	"fmt"
	"os"

	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/vcontext"
	"github.com/virseq/quasipipe/pipeline"
)

var (
	r1        = flag.String("r1", "", "Forward-read FASTQ path (required); transparently decompressed by extension")
	r2        = flag.String("r2", "", "Mate FASTQ path; omit for single-end data")
	reference = flag.String("ref", "", "Reference sequence FASTA path (required)")
	outDir    = flag.String("out", "quasipipe-out", "Working directory for all stage outputs")

	noMerge       = flag.Bool("no-merge", false, "Skip the mate-pair merge stage; the aligner consumes deduplicated reads directly")
	minPrevalence = flag.Float64("min-prevalence", pipeline.DefaultOpts.MinPrevalence,
		"Exclusive prevalence cutoff for reconstructed haplotypes; entries must be strictly above it to survive")
	expectedCys = flag.Int("expected-cysteines", pipeline.DefaultOpts.ExpectedCysteines,
		"Cysteine count a plausible translated haplotype carries; mismatches are annotated, not dropped")

	mergeTool      = flag.String("merge-tool", pipeline.DefaultOpts.MergeTool, "Mate-pair merge executable")
	alignerIndexer = flag.String("aligner-indexer", pipeline.DefaultOpts.AlignerIndexer, "Reference indexer executable")
	aligner        = flag.String("aligner", pipeline.DefaultOpts.Aligner, "Read aligner executable")
	samtools       = flag.String("samtools", pipeline.DefaultOpts.Samtools, "BAM sort/index/flagstat executable")
	reconstructor  = flag.String("reconstructor", pipeline.DefaultOpts.Reconstructor, "Haplotype reconstruction executable")

	verbose = flag.Bool("v", false, "Log every external command line before it runs")
)

func quasipipeUsage() {
	fmt.Fprintf(os.Stderr, "Usage: %s -r1 reads_1.fastq [-r2 reads_2.fastq] -ref reference.fasta [OPTIONS]\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "Options:\n")
	flag.PrintDefaults()
}

func main() {
	flag.Usage = quasipipeUsage
	shutdown := grail.Init()
	defer shutdown()

	if *r1 == "" || *reference == "" {
		flag.Usage()
		log.Fatalf("-r1 and -ref are required")
	}

	opts := pipeline.DefaultOpts
	opts.OutDir = *outDir
	opts.Reference = *reference
	opts.R1 = *r1
	opts.R2 = *r2
	opts.MergeReads = !*noMerge
	opts.MinPrevalence = *minPrevalence
	opts.ExpectedCysteines = *expectedCys
	opts.MergeTool = *mergeTool
	opts.AlignerIndexer = *alignerIndexer
	opts.Aligner = *aligner
	opts.Samtools = *samtools
	opts.Reconstructor = *reconstructor
	opts.Verbose = *verbose

	ctx := vcontext.Background()
	if err := pipeline.Run(ctx, opts); err != nil {
		log.Fatalf("quasipipe: %v", err)
	}
}
