// Package fastq reads and writes 4-line FASTQ read records, either from a
// single file (unpaired reads) or from two synchronized R1/R2 files.
//
// The scanners here deliberately perform no schema validation: identifier
// markers, separator-line content, and seq/qual length agreement are the
// producer's problem, and malformed records pass through unchanged so that
// downstream tools see exactly what the sequencer emitted.
package fastq

import (
	"bufio"
	"io"
	"strings"

	"github.com/pkg/errors"
)

var (
	// ErrTruncated is returned when a file ends in the middle of a 4-line
	// record.
	ErrTruncated = errors.New("truncated FASTQ record")
	// ErrDiscordant is returned when two underlying FASTQ files contain a
	// different number of records. Scanning stops at the shorter file; the
	// caller decides whether the imbalance is fatal.
	ErrDiscordant = errors.New("discordant FASTQ pair files")
)

// A Read is one FASTQ record: identifier line, base sequence, separator
// line (content ignored but preserved for byte-exact round trips), and
// per-base quality string.
type Read struct {
	ID, Seq, Sep, Qual string
}

var errEOF = errors.New("eof")

// Scanner provides a convenient interface for reading FASTQ read data. The
// Scan method fills in the next read, returning a boolean indicating
// whether the read succeeded. Scanners are not threadsafe.
//
// Trailing whitespace is stripped from every line. Lines are otherwise
// taken verbatim.
type Scanner struct {
	b   *bufio.Scanner
	err error
}

// NewScanner constructs a new Scanner that reads raw FASTQ data from the
// provided reader.
func NewScanner(r io.Reader) *Scanner {
	return &Scanner{b: bufio.NewScanner(r)}
}

// Scan the next read into the provided read. Scan returns a boolean
// indicating whether the scan succeeded. Once Scan returns false, it never
// returns true again. Upon completion, the user should check the Err
// method to determine whether scanning stopped because of an error or
// because the end of the stream was reached.
func (f *Scanner) Scan(read *Read) bool {
	if f.err != nil {
		return false
	}
	if !f.b.Scan() {
		if f.err = f.b.Err(); f.err == nil {
			f.err = errEOF
		}
		return false
	}
	read.ID = trim(f.b.Text())
	if !f.scan() {
		return false
	}
	read.Seq = trim(f.b.Text())
	if !f.scan() {
		return false
	}
	read.Sep = trim(f.b.Text())
	if !f.scan() {
		return false
	}
	read.Qual = trim(f.b.Text())
	return true
}

func (f *Scanner) scan() bool {
	ok := f.b.Scan()
	if !ok {
		if f.err = f.b.Err(); f.err == nil {
			f.err = ErrTruncated
		}
	}
	return ok
}

// Err returns the scanning error, if any.
func (f *Scanner) Err() error {
	if f.err == errEOF {
		return nil
	}
	return f.err
}

func trim(line string) string {
	return strings.TrimRight(line, " \t\r")
}

// PairScanner composes a pair of scanners to scan a pair of FASTQ
// streams in lockstep.
type PairScanner struct {
	r1, r2 *Scanner
	err    error
}

// NewPairScanner creates a new FASTQ pair scanner from the provided
// R1 and R2 readers.
func NewPairScanner(r1, r2 io.Reader) *PairScanner {
	return &PairScanner{
		r1: NewScanner(r1),
		r2: NewScanner(r2),
	}
}

// Scan scans the next read pair into r1, r2. Scan returns a boolean
// indicating whether the scan succeeded. Scanning stops at the end of the
// shorter stream; if the two streams held a different number of records,
// Err reports ErrDiscordant.
func (p *PairScanner) Scan(r1, r2 *Read) bool {
	ok1 := p.r1.Scan(r1)
	ok2 := p.r2.Scan(r2)
	if ok1 != ok2 {
		p.err = ErrDiscordant
	}
	return ok1 && ok2
}

// Err returns the scanning error, if any. It should be checked
// after Scan returns false.
func (p *PairScanner) Err() error {
	if err := p.r1.Err(); err != nil {
		return err
	}
	if err := p.r2.Err(); err != nil {
		return err
	}
	return p.err
}
