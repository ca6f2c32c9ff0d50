// Package dedup removes PCR duplicates from raw FASTQ reads by content
// fingerprint. Two read pairs are duplicates when the concatenation of
// their R1 and R2 sequences is identical; only the first-seen pair
// survives, in original encounter order.
package dedup

import (
	"bufio"
	"context"
	"crypto/sha256"
	"fmt"
	"io"
	"path/filepath"

	"github.com/grailbio/base/compress"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/log"
	"github.com/virseq/quasipipe/encoding/fastq"
)

// Opts configures one deduplication run.
type Opts struct {
	// R1 is the forward-read FASTQ path. R2 is the mate path; empty for
	// single-end data. Transparently decompressed by extension.
	R1, R2 string
	// OutDir receives one output file per input, named after the input's
	// base name, holding the surviving records.
	OutDir string
}

// Stats reports the outcome of a deduplication run. The invariant
// Total == Duplicates + survivors holds for all inputs, including empty
// ones.
type Stats struct {
	// Total is the number of read units (pairs, or single reads) seen.
	Total int
	// Duplicates is the number of units dropped as PCR duplicates.
	Duplicates int
}

// Survivors returns the number of units written to the output.
func (s Stats) Survivors() int { return s.Total - s.Duplicates }

// String renders the stats with a duplicate-rate percentage. A zero-unit
// run renders a 0.00% rate rather than dividing by zero.
func (s Stats) String() string {
	rate := 0.0
	if s.Total > 0 {
		rate = 100 * float64(s.Duplicates) / float64(s.Total)
	}
	return fmt.Sprintf("%d total, %d duplicates removed (%.2f%%)", s.Total, s.Duplicates, rate)
}

// key is the content fingerprint of one read unit. SHA-256 keeps
// accidental collisions negligible relative to real PCR duplicate rates;
// a fast checksum would not.
type key = [sha256.Size]byte

func fingerprint(r1, r2 *fastq.Read) key {
	if r2 == nil {
		return sha256.Sum256([]byte(r1.Seq))
	}
	return sha256.Sum256(append([]byte(r1.Seq), r2.Seq...))
}

// Deduplicate streams the input file(s), drops every unit whose
// fingerprint has been seen before, and writes survivors to per-input
// files under opts.OutDir. The seen-set lives for exactly one call.
func Deduplicate(ctx context.Context, opts Opts) (Stats, error) {
	var stats Stats

	in1, r1, err := openInput(ctx, opts.R1)
	if err != nil {
		return stats, err
	}
	defer in1.Close(ctx) // nolint: errcheck
	out1, w1, flush1, err := createOutput(ctx, opts.OutDir, opts.R1)
	if err != nil {
		return stats, err
	}

	closer := errors.Once{}
	seen := make(map[key]struct{})

	if opts.R2 == "" {
		sc := fastq.NewScanner(r1)
		var rec fastq.Read
		for sc.Scan(&rec) {
			stats.Total++
			k := fingerprint(&rec, nil)
			if _, dup := seen[k]; dup {
				stats.Duplicates++
				continue
			}
			seen[k] = struct{}{}
			if err := w1.Write(&rec); err != nil {
				return stats, errors.E(err, "writing deduplicated reads")
			}
		}
		closer.Set(sc.Err())
	} else {
		in2, r2, err := openInput(ctx, opts.R2)
		if err != nil {
			return stats, err
		}
		defer in2.Close(ctx) // nolint: errcheck
		out2, w2, flush2, err := createOutput(ctx, opts.OutDir, opts.R2)
		if err != nil {
			return stats, err
		}

		sc := fastq.NewPairScanner(r1, r2)
		var rec1, rec2 fastq.Read
		for sc.Scan(&rec1, &rec2) {
			stats.Total++
			k := fingerprint(&rec1, &rec2)
			if _, dup := seen[k]; dup {
				stats.Duplicates++
				continue
			}
			seen[k] = struct{}{}
			if err := w1.Write(&rec1); err != nil {
				return stats, errors.E(err, "writing deduplicated reads")
			}
			if err := w2.Write(&rec2); err != nil {
				return stats, errors.E(err, "writing deduplicated reads")
			}
		}
		closer.Set(sc.Err())
		closer.Set(flush2())
		closer.Set(out2.Close(ctx))
	}

	closer.Set(flush1())
	closer.Set(out1.Close(ctx))
	if err := closer.Err(); err != nil {
		return stats, err
	}
	log.Printf("dedup: %s: %s", opts.R1, stats)
	return stats, nil
}

// OutputPath returns the path Deduplicate writes for the given input path.
func OutputPath(outDir, inPath string) string {
	return filepath.Join(outDir, filepath.Base(inPath))
}

func openInput(ctx context.Context, path string) (file.File, io.Reader, error) {
	in, err := file.Open(ctx, path)
	if err != nil {
		return nil, nil, errors.E(err, "opening reads "+path)
	}
	var r io.Reader = in.Reader(ctx)
	if u := compress.NewReaderPath(r, in.Name()); u != nil {
		r = u
	}
	return in, r, nil
}

func createOutput(ctx context.Context, outDir, inPath string) (file.File, *fastq.Writer, func() error, error) {
	path := OutputPath(outDir, inPath)
	out, err := file.Create(ctx, path)
	if err != nil {
		return nil, nil, nil, errors.E(err, "creating deduplicated output "+path)
	}
	bw := bufio.NewWriter(out.Writer(ctx))
	return out, fastq.NewWriter(bw), bw.Flush, nil
}
