// Package haplotype filters reconstructed quasispecies haplotypes by
// prevalence and annotates biologically implausible survivors.
//
// Reconstruction engines emit FASTA entries whose labels end in an
// estimated relative prevalence ("hap3_0.0251"). Low-prevalence entries
// are reconstruction noise and are dropped. Survivors are translated and
// checked against cheap plausibility heuristics; violations are surfaced
// as label annotations rather than rejections, because reconstruction
// false positives are common and should stay visible to the analyst.
package haplotype

import (
	"bufio"
	"context"
	"strconv"
	"strings"

	"github.com/grailbio/base/file"
	"github.com/grailbio/base/log"
	"github.com/pkg/errors"
	"github.com/virseq/quasipipe/encoding/fasta"
)

// LabelDelimiter separates a haplotype's name from its prevalence suffix.
// The split happens at the last occurrence, so names may themselves
// contain the delimiter.
const LabelDelimiter = "_"

// Label annotations appended to implausible survivors.
const (
	// CysteineWarning flags a survivor whose translation does not carry
	// the expected cysteine count for the target protein family.
	CysteineWarning = "_cys_warning"
	// StopWarning flags a survivor whose translation contains a premature
	// stop.
	StopWarning = "_stop_warning"
)

// Opts configures one filtering run.
type Opts struct {
	// MinPrevalence is the exclusive cutoff: an entry survives only if its
	// parsed prevalence is strictly greater.
	MinPrevalence float64
	// ExpectedCysteines is the cysteine count a plausible translation
	// carries. The default of 2 matches disulfide-bridged target proteins
	// such as the HIV-1 V3 loop.
	ExpectedCysteines int
}

// DefaultOpts sets the default values to Opts.
var DefaultOpts = Opts{
	MinPrevalence:     0.01,
	ExpectedCysteines: 2,
}

// Stats reports the outcome of a filtering run.
type Stats struct {
	// Total is the number of haplotype entries read.
	Total int
	// Kept is the number of entries above the prevalence cutoff.
	Kept int
	// CysteineWarnings counts survivors annotated with CysteineWarning.
	CysteineWarnings int
	// StopWarnings counts survivors annotated with StopWarning.
	StopWarnings int
}

// ParseLabel splits a haplotype label at the last LabelDelimiter into a
// name and a prevalence. A missing delimiter or non-numeric suffix is an
// error: silent coercion here could mis-filter data.
func ParseLabel(label string) (name string, prevalence float64, err error) {
	i := strings.LastIndex(label, LabelDelimiter)
	if i < 0 {
		return "", 0, errors.Errorf("haplotype label %q has no %q prevalence delimiter", label, LabelDelimiter)
	}
	prevalence, err = strconv.ParseFloat(label[i+1:], 64)
	if err != nil {
		return "", 0, errors.Wrapf(err, "haplotype label %q has a non-numeric prevalence suffix", label)
	}
	return label[:i], prevalence, nil
}

// Annotate translates the gap-stripped sequence seq and returns the label
// with any plausibility warnings appended, plus the cysteine and stop
// counts of the translation.
func Annotate(label, seq string, opts Opts) (annotated string, cysteines, stops int) {
	protein := Translate(seq)
	cysteines = strings.Count(protein, string(Cysteine))
	stops = strings.Count(protein, string(Stop))
	if cysteines != opts.ExpectedCysteines {
		label += CysteineWarning
	}
	if stops != 0 {
		label += StopWarning
	}
	return label, cysteines, stops
}

// Filter reads reconstructed haplotypes from inPath and writes surviving,
// possibly annotated entries to outPath in encounter order. Sequences are
// written gap-stripped.
func Filter(ctx context.Context, inPath, outPath string, opts Opts) (Stats, error) {
	var stats Stats

	in, err := file.Open(ctx, inPath)
	if err != nil {
		return stats, errors.Wrap(err, "opening reconstructed haplotypes")
	}
	defer in.Close(ctx) // nolint: errcheck
	out, err := file.Create(ctx, outPath)
	if err != nil {
		return stats, errors.Wrap(err, "creating filtered haplotypes")
	}

	bw := bufio.NewWriter(out.Writer(ctx))
	w := fasta.NewWriter(bw)
	sc := fasta.NewScanner(in.Reader(ctx))
	var e fasta.Entry
	for sc.Scan(&e) {
		stats.Total++
		name, prevalence, err := ParseLabel(e.Label)
		if err != nil {
			return stats, err
		}
		if prevalence <= opts.MinPrevalence {
			log.Debug.Printf("haplotype: dropping %s: prevalence %g <= %g", name, prevalence, opts.MinPrevalence)
			continue
		}
		seq := strings.ReplaceAll(e.Seq, "-", "")
		label, cysteines, stops := Annotate(e.Label, seq, opts)
		if cysteines != opts.ExpectedCysteines {
			stats.CysteineWarnings++
		}
		if stops != 0 {
			stats.StopWarnings++
		}
		if err := w.Write(&fasta.Entry{Label: label, Seq: seq}); err != nil {
			return stats, errors.Wrap(err, "writing filtered haplotypes")
		}
		stats.Kept++
	}
	if err := sc.Err(); err != nil {
		return stats, err
	}
	if err := bw.Flush(); err != nil {
		return stats, errors.Wrap(err, "writing filtered haplotypes")
	}
	if err := out.Close(ctx); err != nil {
		return stats, err
	}
	log.Printf("haplotype: %s: kept %d of %d (%d cysteine warnings, %d stop warnings)",
		inPath, stats.Kept, stats.Total, stats.CysteineWarnings, stats.StopWarnings)
	return stats, nil
}
