// Package pipeline sequences the quasispecies-reconstruction stages:
//
//	Init → Dedup → (Merge | SkipMerge) → Align → Recombine → Filter → Done
//
// Deduplication and haplotype filtering are in-process (packages dedup and
// haplotype); read merging, alignment, BAM post-processing, and haplotype
// inference are external executables. Execution is strictly sequential:
// each stage must succeed before the next starts, and any collaborator
// failure — non-zero exit or missing expected output — halts the run at
// that stage. There is no retry and no resume; stage outputs stay on disk
// for post-mortem inspection.
package pipeline

import (
	"context"
	"os"
	"path/filepath"

	"github.com/grailbio/base/file"
	"github.com/grailbio/base/log"
	"github.com/pkg/errors"
	"github.com/virseq/quasipipe/dedup"
	"github.com/virseq/quasipipe/haplotype"
)

// reconstructedFASTA is the file the reconstruction engine writes into its
// output directory.
const reconstructedFASTA = "quasispecies.fasta"

// Run executes the full pipeline. The returned error names the stage that
// failed.
func Run(ctx context.Context, opts Opts) error {
	run := opts.Run
	if run == nil {
		run = ExecRunner
	}
	if opts.R1 == "" {
		return errors.New("pipeline: no input reads")
	}
	if opts.Reference == "" {
		return errors.New("pipeline: no reference sequence")
	}
	paired := opts.R2 != ""

	log.Printf("pipeline: stage dedup")
	dedupDir := filepath.Join(opts.OutDir, "dedup")
	if err := os.MkdirAll(dedupDir, 0755); err != nil {
		return errors.Wrap(err, "dedup stage")
	}
	if _, err := dedup.Deduplicate(ctx, dedup.Opts{R1: opts.R1, R2: opts.R2, OutDir: dedupDir}); err != nil {
		return errors.Wrap(err, "dedup stage")
	}
	reads := []string{dedup.OutputPath(dedupDir, opts.R1)}
	if paired {
		reads = append(reads, dedup.OutputPath(dedupDir, opts.R2))
	}

	if paired && opts.MergeReads {
		log.Printf("pipeline: stage merge")
		combined, err := mergeReads(ctx, opts, run, reads[0], reads[1])
		if err != nil {
			return errors.Wrap(err, "merge stage")
		}
		reads = []string{combined}
	} else {
		log.Printf("pipeline: stage merge skipped")
	}

	log.Printf("pipeline: stage align")
	bam, err := alignReads(ctx, opts, run, reads)
	if err != nil {
		return errors.Wrap(err, "align stage")
	}

	log.Printf("pipeline: stage recombine")
	reconstructed, err := reconstruct(ctx, opts, run, bam)
	if err != nil {
		return errors.Wrap(err, "recombine stage")
	}

	log.Printf("pipeline: stage filter")
	outPath := filepath.Join(opts.OutDir, "haplotypes_filtered.fasta")
	stats, err := haplotype.Filter(ctx, reconstructed, outPath, haplotype.Opts{
		MinPrevalence:     opts.MinPrevalence,
		ExpectedCysteines: opts.ExpectedCysteines,
	})
	if err != nil {
		return errors.Wrap(err, "filter stage")
	}
	log.Printf("pipeline: done: %d haplotypes written to %s", stats.Kept, outPath)
	return nil
}

// mergeReads merges overlapping mate pairs and concatenates the merge
// tool's assembled and both unassembled outputs into one combined read
// file. The discarded output is left on disk but never consumed.
func mergeReads(ctx context.Context, opts Opts, run RunFunc, r1, r2 string) (string, error) {
	mergeDir := filepath.Join(opts.OutDir, "merge")
	if err := os.MkdirAll(mergeDir, 0755); err != nil {
		return "", err
	}
	prefix := filepath.Join(mergeDir, "merged")
	if err := invoke(ctx, opts, run, nil, opts.MergeTool, "-f", r1, "-r", r2, "-o", prefix); err != nil {
		return "", err
	}
	assembled := prefix + ".assembled.fastq"
	forward := prefix + ".unassembled.forward.fastq"
	reverse := prefix + ".unassembled.reverse.fastq"
	if err := expectOutputs(ctx, opts.MergeTool, assembled, forward, reverse); err != nil {
		return "", err
	}
	combined := filepath.Join(mergeDir, "combined.fastq")
	if err := concatFiles(ctx, combined, assembled, forward, reverse); err != nil {
		return "", err
	}
	return combined, nil
}

// alignReads indexes the reference, aligns the read file(s), and
// sort/index/flagstats the result, returning the sorted BAM path. The BAM
// is opaque to this pipeline; only its existence matters.
func alignReads(ctx context.Context, opts Opts, run RunFunc, reads []string) (string, error) {
	alignDir := filepath.Join(opts.OutDir, "align")
	if err := os.MkdirAll(alignDir, 0755); err != nil {
		return "", err
	}
	index := filepath.Join(alignDir, "reference")
	if err := invoke(ctx, opts, run, nil, opts.AlignerIndexer, opts.Reference, index); err != nil {
		return "", err
	}

	sam := filepath.Join(alignDir, "aligned.sam")
	args := []string{"-x", index, "-S", sam}
	if len(reads) == 2 {
		args = append(args, "-1", reads[0], "-2", reads[1])
	} else {
		args = append(args, "-U", reads[0])
	}
	if err := invoke(ctx, opts, run, nil, opts.Aligner, args...); err != nil {
		return "", err
	}
	if err := expectOutputs(ctx, opts.Aligner, sam); err != nil {
		return "", err
	}

	bam := filepath.Join(alignDir, "aligned.sorted.bam")
	if err := invoke(ctx, opts, run, nil, opts.Samtools, "sort", "-o", bam, sam); err != nil {
		return "", err
	}
	if err := expectOutputs(ctx, opts.Samtools, bam); err != nil {
		return "", err
	}
	if err := invoke(ctx, opts, run, nil, opts.Samtools, "index", bam); err != nil {
		return "", err
	}
	if err := expectOutputs(ctx, opts.Samtools, bam+".bai"); err != nil {
		return "", err
	}
	if err := flagstat(ctx, opts, run, bam, filepath.Join(alignDir, "flagstat.txt")); err != nil {
		return "", err
	}
	return bam, nil
}

// flagstat keeps an alignment summary next to the BAM for operator
// diagnosis of a failed or suspicious run.
func flagstat(ctx context.Context, opts Opts, run RunFunc, bam, outPath string) error {
	out, err := file.Create(ctx, outPath)
	if err != nil {
		return err
	}
	runErr := invoke(ctx, opts, run, out.Writer(ctx), opts.Samtools, "flagstat", bam)
	if err := out.Close(ctx); err != nil && runErr == nil {
		runErr = err
	}
	return runErr
}

// reconstruct runs the reconstruction engine twice — a draft pass, then a
// refinement pass with stricter settings — and returns the refined FASTA
// path. Only the refined output is consumed downstream.
func reconstruct(ctx context.Context, opts Opts, run RunFunc, bam string) (string, error) {
	draftDir := filepath.Join(opts.OutDir, "recombine", "draft")
	refinedDir := filepath.Join(opts.OutDir, "recombine", "refined")
	for _, dir := range []string{draftDir, refinedDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", err
		}
	}
	if err := invoke(ctx, opts, run, nil, opts.Reconstructor, "-i", bam, "-o", draftDir); err != nil {
		return "", err
	}
	if err := expectOutputs(ctx, opts.Reconstructor, filepath.Join(draftDir, reconstructedFASTA)); err != nil {
		return "", err
	}
	if err := invoke(ctx, opts, run, nil, opts.Reconstructor, "-i", bam, "-o", refinedDir, "-refine", "-conservative"); err != nil {
		return "", err
	}
	refined := filepath.Join(refinedDir, reconstructedFASTA)
	if err := expectOutputs(ctx, opts.Reconstructor, refined); err != nil {
		return "", err
	}
	return refined, nil
}
