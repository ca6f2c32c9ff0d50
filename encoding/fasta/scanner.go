// Package fasta reads and writes FASTA-format sequence records. Records
// consist of a ">"-marked header line followed by one or more sequence
// lines; multi-line sequences are joined with no inserted separators.
//
// Unlike typical reference-genome readers, the label is everything after
// the ">" marker (trailing whitespace stripped), not just the first
// space-delimited token: haplotype-reconstruction tools embed structured
// metadata in the full header line, and callers parse it themselves.
package fasta

import (
	"bufio"
	"io"
	"strings"

	"github.com/pkg/errors"
)

// An Entry is one FASTA record.
type Entry struct {
	Label, Seq string
}

// Scanner reads FASTA entries one at a time. Scanners are lazy,
// non-restartable, and not threadsafe. The final pending entry is emitted
// once end of input is reached.
type Scanner struct {
	b       *bufio.Scanner
	err     error
	label   string
	pending bool
	done    bool
}

// NewScanner constructs a new Scanner reading FASTA data from r.
func NewScanner(r io.Reader) *Scanner {
	return &Scanner{b: bufio.NewScanner(r)}
}

// Scan the next entry into the provided entry, returning a boolean
// indicating whether the scan succeeded. Once Scan returns false, it never
// returns true again; check Err to distinguish end of input from a read
// error.
func (s *Scanner) Scan(e *Entry) bool {
	if s.err != nil || s.done {
		return false
	}
	var seq strings.Builder
	for {
		if !s.b.Scan() {
			s.done = true
			if s.err = s.b.Err(); s.err != nil {
				return false
			}
			if !s.pending {
				return false
			}
			s.pending = false
			e.Label, e.Seq = s.label, seq.String()
			return true
		}
		line := strings.TrimRight(s.b.Text(), " \t\r")
		if len(line) == 0 {
			continue
		}
		if line[0] == '>' {
			if s.pending {
				e.Label, e.Seq = s.label, seq.String()
				s.label = line[1:]
				return true
			}
			s.pending = true
			s.label = line[1:]
			continue
		}
		if !s.pending {
			s.err = errors.Errorf("fasta: sequence data before first header: %q", line)
			return false
		}
		seq.WriteString(line)
	}
}

// Err returns the scanning error, if any.
func (s *Scanner) Err() error {
	return s.err
}
