package fasta

import "io"

var newline = []byte{'\n'}

// Writer is a FASTA file writer. Sequences are written on a single line.
type Writer struct {
	w   io.Writer
	err error
}

// NewWriter constructs a new FASTA writer that writes entries to the
// underlying writer w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Write writes the entry e in FASTA format.
// An error is returned if the write failed.
func (w *Writer) Write(e *Entry) error {
	w.writeln(">" + e.Label)
	w.writeln(e.Seq)
	return w.err
}

func (w *Writer) writeln(line string) {
	if w.err != nil {
		return
	}
	_, w.err = io.WriteString(w.w, line)
	if w.err == nil {
		_, w.err = w.w.Write(newline)
	}
}
