package fastq

import (
	"bytes"
	"strings"
	"testing"
)

const fq = `@M01234:55:000000000-A1B2C:1:1101:15589:1332 1:N:0:1
TTTGCTACATTATGCACAGTACAATGTACACATGGAATTAGGCCAGTAGTATCAACT
+
AAAAAEEEEEEEEEEEEEEEEEEEEEEEEEEEEEEEEEEEEEEEEEEEEEEEEEEEE
@M01234:55:000000000-A1B2C:1:1101:16732:1340 1:N:0:1
ACAATGTACACATGGAATTAGGCCAGTAGTATCAACTCAACTGCTGTTAAATGGCAG
+
AAAAAEEEEEEEEEEEEEE/EEEEEEEEEEEEEEEEEEEEEEEEEEEEEEEEEEEEE
@M01234:55:000000000-A1B2C:1:1101:12054:1356 1:N:0:1
GGCCAGTAGTATCAACTCAACTGCTGTTAAATGGCAGTCTAGCAGAAGAAGAGGTAG
+
AAAAAEEEEEEEEEEEEEEEEEEEEEEEEEEEEEEEE<EEEEEEEEEEEEEEEEEEE
`

func stringScanner(s string) *Scanner {
	return NewScanner(strings.NewReader(s))
}

func TestScanner(t *testing.T) {
	s := stringScanner(fq)
	var r Read
	if !s.Scan(&r) {
		t.Fatal(s.Err())
	}
	expect := Read{
		ID:   "@M01234:55:000000000-A1B2C:1:1101:15589:1332 1:N:0:1",
		Seq:  "TTTGCTACATTATGCACAGTACAATGTACACATGGAATTAGGCCAGTAGTATCAACT",
		Sep:  "+",
		Qual: "AAAAAEEEEEEEEEEEEEEEEEEEEEEEEEEEEEEEEEEEEEEEEEEEEEEEEEEEE",
	}
	if got, want := r, expect; got != want {
		t.Errorf("got %v, want %v", got, want)
	}
	var n int
	for s.Scan(&r) {
		n++
	}
	if got, want := n, 2; got != want {
		t.Errorf("got %v, want %v", got, want)
	}
	if err := s.Err(); err != nil {
		t.Errorf("unexpected error %v", err)
	}
}

func TestScannerNoValidation(t *testing.T) {
	// Missing "@" and "+" markers are passed through, not rejected.
	s := stringScanner("read1\nACGT\nsep\n!!!!\n")
	var r Read
	if !s.Scan(&r) {
		t.Fatal(s.Err())
	}
	if got, want := r, (Read{"read1", "ACGT", "sep", "!!!!"}); got != want {
		t.Errorf("got %v, want %v", got, want)
	}
	if err := s.Err(); err != nil {
		t.Errorf("unexpected error %v", err)
	}
}

func TestScannerTrimsTrailingWhitespace(t *testing.T) {
	s := stringScanner("@r1 \t\nACGT\r\n+\nIIII  \n")
	var r Read
	if !s.Scan(&r) {
		t.Fatal(s.Err())
	}
	if got, want := r, (Read{"@r1", "ACGT", "+", "IIII"}); got != want {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestTruncatedRecord(t *testing.T) {
	s := stringScanner("@r1\nACGT\n+\n")
	var r Read
	if s.Scan(&r) {
		t.Error("scan of truncated record succeeded")
	}
	if got, want := s.Err(), ErrTruncated; got != want {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestPairScanner(t *testing.T) {
	r1 := "@a/1\nAAAA\n+\nIIII\n@b/1\nCCCC\n+\nIIII\n"
	r2 := "@a/2\nGGGG\n+\nIIII\n@b/2\nTTTT\n+\nIIII\n"
	s := NewPairScanner(strings.NewReader(r1), strings.NewReader(r2))
	var a, b Read
	var n int
	for s.Scan(&a, &b) {
		n++
	}
	if err := s.Err(); err != nil {
		t.Fatal(err)
	}
	if got, want := n, 2; got != want {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestPairScannerDiscordant(t *testing.T) {
	r1 := "@a/1\nAAAA\n+\nIIII\n@b/1\nCCCC\n+\nIIII\n"
	r2 := "@a/2\nGGGG\n+\nIIII\n"
	s := NewPairScanner(strings.NewReader(r1), strings.NewReader(r2))
	var a, b Read
	var n int
	for s.Scan(&a, &b) {
		n++
	}
	// Only the complete pair is scanned; the imbalance is surfaced.
	if got, want := n, 1; got != want {
		t.Errorf("got %v, want %v", got, want)
	}
	if got, want := s.Err(), ErrDiscordant; got != want {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestRoundTrip(t *testing.T) {
	var (
		s = stringScanner(fq)
		b = new(bytes.Buffer)
		w = NewWriter(b)
		r Read
	)
	for s.Scan(&r) {
		if err := w.Write(&r); err != nil {
			t.Fatal(err)
		}
	}
	if err := s.Err(); err != nil {
		t.Fatal(err)
	}
	if got, want := b.String(), fq; got != want {
		t.Errorf("got %v, want %v", got, want)
	}
}
