// Package cmd is the command-line front end: it reads a source file (or
// stdin), runs it through the compiler package, prints diagnostics to
// stderr, and writes either canonical source or generated C to stdout or
// a chosen output file.
package cmd

import (
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/ud2/stackc/compiler"
	"github.com/ud2/stackc/diagnostic"
)

// version is overwritten at build time via -ldflags; it mirrors the
// PACKAGE_VERSION macro the reference command line prints for -V/--version.
var version = "dev"

// Exit codes, matching the reference command line's contract: 0 on a clean
// compile, 1 when diagnostics were reported or an I/O failure occurred, 2 on
// a usage error.
const (
	exitOK        = 0
	exitDiagnosed = 1
	exitIOFailure = 1
	exitUsage     = 2
)

// Execute builds and runs the root command, returning the process exit code
// rather than calling os.Exit itself so main can stay a one-liner.
func Execute(args []string) int {
	var (
		format     bool
		outputPath string
		showVer    bool
	)

	root := &cobra.Command{
		Use:           "stackc [flags] <file>",
		Short:         "Compile a stack-machine program to C, or reformat it.",
		Long:          "stackc compiles a stack-machine program to a self-contained C99 program.\nPass - as the filename to read from stdin.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.MaximumNArgs(1),
		RunE: func(c *cobra.Command, posArgs []string) error {
			if showVer {
				c.Println(version)
				return nil
			}
			if len(posArgs) != 1 {
				return usageError{errors.New("expected exactly one <file> argument")}
			}
			code, err := run(c, posArgs[0], format, outputPath)
			if err != nil {
				return ioError{err}
			}
			if code != exitOK {
				return exitCode(code)
			}
			return nil
		},
	}

	root.Flags().BoolVarP(&format, "format", "f", false, "reformat the source instead of compiling it")
	root.Flags().StringVarP(&outputPath, "output", "o", "", "write output to this path instead of stdout")
	root.Flags().BoolVarP(&showVer, "version", "V", false, "print the version and exit")
	root.SetArgs(args)

	if err := root.Execute(); err != nil {
		var ec exitCode
		if errors.As(err, &ec) {
			return int(ec)
		}
		var ue usageError
		if errors.As(err, &ue) {
			root.PrintErrln(ue.err)
			root.PrintErrln(root.UsageString())
			return exitUsage
		}
		var ie ioError
		if errors.As(err, &ie) {
			root.PrintErrln(ie.err)
			return exitIOFailure
		}
		root.PrintErrln(err)
		return exitUsage
	}
	return exitOK
}

// exitCode is a sentinel error carrying a concrete process exit code
// through cobra's RunE plumbing without printing anything extra.
type exitCode int

func (e exitCode) Error() string { return "exit" }

// usageError marks an error that should be reported like an argument
// mistake (exit code 2) rather than a compile diagnostic.
type usageError struct{ err error }

func (e usageError) Error() string { return e.err.Error() }

// ioError marks a failure reading the source or writing the output (exit
// code 1, the same code a compile that produced diagnostics exits with),
// distinguishing it from a usageError's exit code 2.
type ioError struct{ err error }

func (e ioError) Error() string { return e.err.Error() }

// run reads path, compiles or formats it, renders any diagnostics to
// stderr, and writes the result to outputPath (or stdout). It returns the
// process exit code: exitOK if there were no diagnostics, exitDiagnosed
// otherwise.
func run(c *cobra.Command, path string, format bool, outputPath string) (int, error) {
	name, source, err := readSource(path)
	if err != nil {
		return 0, errors.Wrapf(err, "reading %s", path)
	}

	result := compiler.Compile(source)

	hadDiagnostics := diagnostic.Render(c.ErrOrStderr(), result.Diagnostics, name, source)

	out := c.OutOrStdout()
	if outputPath != "" {
		f, err := os.Create(outputPath)
		if err != nil {
			return 0, errors.Wrapf(err, "creating %s", outputPath)
		}
		defer f.Close()
		out = f
	}

	if format {
		err = compiler.FormatTo(out, result.Program)
	} else {
		err = compiler.EmitCTo(out, result.Program)
	}
	if err != nil {
		return 0, errors.Wrap(err, "writing output")
	}

	if hadDiagnostics {
		return exitDiagnosed, nil
	}
	return exitOK, nil
}

// readSource reads the named file, treating "-" as stdin. It returns the
// display name used in diagnostics alongside the source text.
func readSource(path string) (name string, source string, err error) {
	if path == "-" {
		b, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", "", err
		}
		return "<stdin>", string(b), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return "", "", err
	}
	return path, string(b), nil
}
