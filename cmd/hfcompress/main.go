package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/op/go-logging"
)

const progName = "hfcompress"
const usageMessageRaw = `
Usage:
  hfcompress OPTIONS <input_file>... [-o <output_file>]
  hfcompress --decode OPTIONS <input_bin_file>... [-o <output_file>]

Compress each input to <input_file>.huff, or with --decode restore each input
to its name without the .huff suffix (or with .out appended if it has none).
-o names the output and is only allowed with a single input.

Options:
  -d, --decode   decompress instead of compress
  -o FILE        output file
  --stats        print a JSON report per file on standard output
  --cache N      decoded trees to keep across inputs (default 16, 0 disables)
  --debug        verbose logging

Example:
  hfcompress input.txt -o compressed.bin
  hfcompress --decode input.huff -o test.txt
`

const (
	exitUsage = 64
	exitError = 1

	defaultCacheSize = 16
)

var log = logging.MustGetLogger("hfcompress/cli")

// errUsage marks argument errors; they are reported with the usage text.
var errUsage = errors.New("usage error")

type nullWriter struct{}

func (n *nullWriter) Write(p []byte) (int, error) {
	return len(p), nil
}

func usageMessage() string {
	return strings.TrimLeft(usageMessageRaw, "\n")
}

type options struct {
	decode    bool
	output    string
	stats     bool
	debug     bool
	cacheSize int
	inputs    []string
}

// parseArgs accepts flags before, between and after the input names.
func parseArgs(args []string) (*options, error) {
	opts := &options{}
	fs := flag.NewFlagSet(progName, flag.ContinueOnError)
	fs.Usage = func() {}
	fs.SetOutput(&nullWriter{})

	fs.BoolVar(&opts.decode, "decode", false, "")
	fs.BoolVar(&opts.decode, "d", false, "")
	fs.StringVar(&opts.output, "o", "", "")
	fs.BoolVar(&opts.stats, "stats", false, "")
	fs.BoolVar(&opts.debug, "debug", false, "")
	fs.IntVar(&opts.cacheSize, "cache", defaultCacheSize, "")

	for {
		if err := fs.Parse(args); err != nil {
			if err == flag.ErrHelp {
				return nil, err
			}
			return nil, fmt.Errorf("%w: %v", errUsage, err)
		}
		rest := fs.Args()
		if endOfFlags(args[:len(args)-len(rest)]) {
			opts.inputs = append(opts.inputs, rest...)
			break
		}
		if len(rest) == 0 {
			break
		}
		opts.inputs = append(opts.inputs, rest[0])
		args = rest[1:]
	}

	switch {
	case len(opts.inputs) == 0:
		return nil, fmt.Errorf("%w: no input file", errUsage)
	case opts.output != "" && len(opts.inputs) > 1:
		return nil, fmt.Errorf("%w: -o needs exactly one input, got %d", errUsage, len(opts.inputs))
	case opts.cacheSize < 0:
		return nil, fmt.Errorf("%w: negative cache size %d", errUsage, opts.cacheSize)
	}
	return opts, nil
}

// endOfFlags reports whether a parse that consumed these arguments stopped
// at a "--" terminator rather than taking "--" as the value of -o.
func endOfFlags(consumed []string) bool {
	n := len(consumed)
	if n == 0 || consumed[n-1] != "--" {
		return false
	}
	return n == 1 || (consumed[n-2] != "-o" && consumed[n-2] != "--o")
}

var leveledLogBackend logging.LeveledBackend

func startLogging() {
	backend := logging.NewLogBackend(os.Stderr, progName+": ", 0)
	formatSpec := "%{level:8s} %{module:-20s} | %{message}"
	formatter := logging.MustStringFormatter(formatSpec)
	formatted := logging.NewBackendFormatter(backend, formatter)
	leveled := logging.AddModuleLevel(formatted)
	leveled.SetLevel(logging.INFO, "")
	logging.SetBackend(leveled)
	leveledLogBackend = leveled
}

func usageErrorf(detailFmt string, detailArgs ...interface{}) {
	detail := fmt.Sprintf(detailFmt, detailArgs...)
	fmt.Fprintf(os.Stderr, "%s: %s\n%s", progName, detail, usageMessage())
	os.Exit(exitUsage)
}

func exitWith(err error) {
	fmt.Fprintf(os.Stderr, "%s: %s\n", progName, err.Error())
	os.Exit(exitError)
}

func main() {
	startLogging()

	opts, err := parseArgs(os.Args[1:])
	if err == flag.ErrHelp {
		io.WriteString(os.Stdout, usageMessage())
		os.Exit(0)
	} else if err != nil {
		usageErrorf("%s", err.Error())
	}

	if opts.debug {
		leveledLogBackend.SetLevel(logging.DEBUG, "")
	}

	if err := run(opts, os.Stdout); err != nil {
		exitWith(err)
	}
}
