package pipeline

import (
	"context"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/grailbio/base/file"
	"github.com/grailbio/base/log"
	"github.com/pkg/errors"
)

// RunFunc executes one external collaborator synchronously. Commands are
// always argv slices, never shell strings, so filenames cannot be
// reinterpreted by a shell. A non-nil stdout receives the command's
// standard output; stderr always passes through to the operator.
type RunFunc func(ctx context.Context, stdout io.Writer, name string, args ...string) error

// ExecRunner is the default RunFunc, backed by os/exec. A hung
// collaborator blocks until the context is canceled.
func ExecRunner(ctx context.Context, stdout io.Writer, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return errors.Wrapf(err, "%s %s", name, strings.Join(args, " "))
	}
	return nil
}

// invoke runs one collaborator through the configured runner, logging the
// command line when verbose.
func invoke(ctx context.Context, opts Opts, run RunFunc, stdout io.Writer, name string, args ...string) error {
	if opts.Verbose {
		log.Printf("pipeline: exec: %s %s", name, strings.Join(args, " "))
	}
	return run(ctx, stdout, name, args...)
}

// expectOutputs fails when a collaborator exited successfully but did not
// leave the files it is contracted to produce.
func expectOutputs(ctx context.Context, name string, paths ...string) error {
	for _, p := range paths {
		if _, err := file.Stat(ctx, p); err != nil {
			return errors.Wrapf(err, "%s did not produce expected output %s", name, p)
		}
	}
	return nil
}

// concatFiles appends each src to dst in order.
func concatFiles(ctx context.Context, dst string, srcs ...string) error {
	out, err := file.Create(ctx, dst)
	if err != nil {
		return errors.Wrapf(err, "creating %s", dst)
	}
	w := out.Writer(ctx)
	for _, src := range srcs {
		in, err := file.Open(ctx, src)
		if err != nil {
			return errors.Wrapf(err, "opening %s", src)
		}
		_, cpErr := io.Copy(w, in.Reader(ctx))
		if err := in.Close(ctx); err != nil && cpErr == nil {
			cpErr = err
		}
		if cpErr != nil {
			return errors.Wrapf(cpErr, "concatenating %s into %s", src, dst)
		}
	}
	return out.Close(ctx)
}
