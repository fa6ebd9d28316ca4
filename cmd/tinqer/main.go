package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/tailscale/hujson"
	"golang.org/x/term"
	"zombiezen.com/go/bass/sigterm"

	"github.com/tinqer-go/tinqer/dialect"
	"github.com/tinqer-go/tinqer/internal/syntax"
	"github.com/tinqer-go/tinqer/tinqer"
)

func main() {
	rootCommand := &cobra.Command{
		Use:   "tinqer [options] [FILE [...]]",
		Short: "Compile Tinqer lambda queries into SQL",

		DisableFlagsInUseLine: true,
		SilenceErrors:         true,
		SilenceUsage:          true,
	}
	outputPath := rootCommand.Flags().StringP("output", "o", "", "file to write SQL to (defaults to stdout)")
	dialectName := rootCommand.Flags().String("dialect", "postgres", "target SQL dialect (postgres, sqlite, mysql)")
	schemaPath := rootCommand.Flags().String("schema", "", "path to a hujson schema catalog ({\"table\": [\"col\", ...]})")
	verbose := rootCommand.Flags().BoolP("verbose", "v", false, "log each compiled statement's SQL and bind parameters")
	dumpAST := rootCommand.Flags().Bool("dump-ast", false, "print the parsed operation tree for each statement to stderr")

	rootCommand.RunE = func(cmd *cobra.Command, args []string) (err error) {
		d, ok := dialect.ByName(*dialectName)
		if !ok {
			return fmt.Errorf("unknown dialect %q", *dialectName)
		}
		schema, err := loadSchema(*schemaPath)
		if err != nil {
			return err
		}

		logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
		if !*verbose {
			logger = logger.Level(zerolog.Disabled)
		}

		input, err := makeInput(args)
		if err != nil {
			return err
		}
		output, err := makeOutput(*outputPath)
		if err != nil {
			input.Close()
			return err
		}

		opts := runOptions{schema: schema, dialect: d, log: logger, dumpAST: *dumpAST}
		err = run(cmd.Context(), output, input, opts, func(err error) {
			fmt.Fprintf(os.Stderr, "tinqer: %v\n", err)
		})
		if err2 := output.Close(); err == nil {
			err = err2
		}
		input.Close()
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), sigterm.Signals()...)
	err := rootCommand.ExecuteContext(ctx)
	cancel()
	if err != nil {
		fmt.Fprintf(os.Stderr, "tinqer: %v\n", err)
		os.Exit(1)
	}
}

type runOptions struct {
	schema  *tinqer.Schema
	dialect dialect.Dialect
	log     zerolog.Logger
	dumpAST bool
}

// run reads one lambda query per non-blank, non-comment line from input
// and writes its compiled SQL to output, mirroring the teacher CLI's
// line-oriented batch-compile loop but one statement per line rather
// than semicolon-split (Tinqer lambda bodies never contain a bare ";").
func run(ctx context.Context, output io.Writer, input io.Reader, opts runOptions, logError func(error)) error {
	scanner := bufio.NewScanner(input)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	if isTerminal(input) {
		fmt.Fprintln(os.Stderr, "Reading from terminal (one query per line)...")
	}

	var finalError error
	for scanner.Scan() {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "//") || strings.HasPrefix(line, "#") {
			continue
		}

		sql, err := compileLine(opts, line)
		if err != nil {
			logError(err)
			finalError = errors.New("one or more statements could not be compiled")
			continue
		}
		fmt.Fprintf(output, "%s\n\n", sql)
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	return finalError
}

func compileLine(opts runOptions, source string) (string, error) {
	plan, err := tinqer.DefineSelect(opts.schema, source)
	if err != nil {
		return "", err
	}
	if opts.dumpAST {
		if fn, err := syntax.ParseLambda(source); err == nil {
			fmt.Fprintln(os.Stderr, syntax.Dump(fn))
		}
		fmt.Fprintln(os.Stderr, spew.Sdump(tinqer.PlanOperation(plan)))
	}
	res, err := tinqer.ToSql(plan, opts.dialect, nil)
	if err != nil {
		return "", err
	}
	opts.log.Info().Str("sql", res.SQL).Interface("params", res.Params).Msg("compiled statement")
	return res.SQL, nil
}

func loadSchema(path string) (*tinqer.Schema, error) {
	if path == "" {
		return tinqer.NewSchema(nil), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	std, err := hujson.Standardize(raw)
	if err != nil {
		return nil, fmt.Errorf("parse schema %s: %w", path, err)
	}
	var tables map[string][]string
	if err := json.Unmarshal(std, &tables); err != nil {
		return nil, fmt.Errorf("parse schema %s: %w", path, err)
	}
	return tinqer.NewSchema(tables), nil
}

func makeInput(args []string) (io.ReadCloser, error) {
	if len(args) == 0 || len(args) == 1 && args[0] == "-" {
		return nopReadCloser{os.Stdin}, nil
	}
	if len(args) == 1 {
		return os.Open(args[0])
	}

	readers := make([]io.ReadCloser, 0, len(args))
	for _, path := range args {
		if path == "-" {
			readers = append(readers, nopReadCloser{os.Stdin})
			continue
		}
		f, err := os.Open(path)
		if err != nil {
			for _, c := range readers {
				c.Close()
			}
			return nil, err
		}
		readers = append(readers, f)
	}
	return &multiReadCloser{readers}, nil
}

func makeOutput(arg string) (io.WriteCloser, error) {
	if arg == "" || arg == "-" {
		return nopWriteCloser{os.Stdout}, nil
	}
	return os.Create(arg)
}

func isTerminal(r io.Reader) bool {
	for {
		switch rt := r.(type) {
		case *os.File:
			return term.IsTerminal(int(rt.Fd()))
		case nopReadCloser:
			r = rt.Reader
		default:
			return false
		}
	}
}

// multiReadCloser is a logical concatenation of its input readers that
// also closes each as it is exhausted.
type multiReadCloser struct {
	readers []io.ReadCloser
}

func (mrc *multiReadCloser) Read(p []byte) (n int, err error) {
	for len(mrc.readers) > 0 {
		n, err = mrc.readers[0].Read(p)
		if err == io.EOF {
			mrc.readers[0].Close()
			mrc.readers[0] = nil
			mrc.readers = mrc.readers[1:]
		}
		if n > 0 || err != io.EOF {
			if err == io.EOF && len(mrc.readers) > 0 {
				err = nil
			}
			return
		}
	}
	return 0, io.EOF
}

func (mrc *multiReadCloser) Close() error {
	var firstError error
	for _, rc := range mrc.readers {
		if err := rc.Close(); firstError == nil {
			firstError = err
		}
	}
	mrc.readers = nil
	return firstError
}

type nopReadCloser struct {
	io.Reader
}

func (nopReadCloser) Close() error { return nil }

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }
