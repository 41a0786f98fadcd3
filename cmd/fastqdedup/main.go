// Command fastqdedup deduplicates FASTQ reads whose identity is
// carried by a UMI prefix, tolerating sequencing errors in the
// identifier. It streams the inputs twice: once to cluster the
// identifiers, once to write one representative record per cluster.
package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"
	"golang.org/x/term"
)

func main() {
	cfg, err := parseArgs(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if err := dedup(cfg); err != nil {
		log.Fatal().Err(err).Msg("fastqdedup failed")
	}
}

func parseArgs(args []string) (*config, error) {
	flags := pflag.NewFlagSet("fastqdedup", pflag.ContinueOnError)
	flags.Usage = func() {
		fmt.Fprintln(os.Stderr, "usage: fastqdedup [options] input.fastq[.gz]...")
		flags.PrintDefaults()
	}
	cfg := &config{}
	var (
		checkLengths string
		verbose      int
		quiet        int
	)
	flags.StringArrayVarP(&cfg.outputs, "output", "o", nil,
		"output file, repeat once per input (default stdout)")
	flags.IntVar(&cfg.prefixLength, "prefix", 0,
		"length of the identifying prefix, 0 for the whole read")
	flags.IntVar(&cfg.maxDistance, "max-distance", 1,
		"maximum distance between identifiers of one molecule")
	flags.Float64Var(&cfg.maxErrorRate, "max-average-error-rate", 0.001,
		"reject records whose average per-base error rate is higher")
	flags.BoolVar(&cfg.filterOff, "no-average-error-rate-filter", false,
		"keep records regardless of their error rate")
	flags.BoolVar(&cfg.useEdit, "edit", false,
		"use edit distance instead of Hamming distance")
	flags.StringVar(&cfg.method, "cluster-dissection-method", methodHighestCount,
		"one of highest_count, adjacency, directional")
	flags.StringVar(&checkLengths, "check-lengths", "",
		"per-file index or start:stop slice of the identifying bases, comma separated")
	flags.CountVarP(&verbose, "verbose", "v", "more logging")
	flags.CountVarP(&quiet, "quiet", "q", "less logging")
	if err := flags.Parse(args); err != nil {
		return nil, err
	}
	setupLogging(verbose, quiet)

	cfg.inputs = flags.Args()
	if len(cfg.inputs) == 0 {
		return nil, fmt.Errorf("at least one input file is required")
	}
	if cfg.maxDistance < 0 {
		return nil, fmt.Errorf("--max-distance must not be negative")
	}
	if _, err := dissectorFor(cfg.method); err != nil {
		return nil, err
	}
	regions, err := parseCheckLengths(checkLengths)
	if err != nil {
		return nil, err
	}
	if len(regions) > len(cfg.inputs) {
		return nil, fmt.Errorf("%d check-lengths entries for %d inputs", len(regions), len(cfg.inputs))
	}
	cfg.checkLengths = regions
	return cfg, nil
}

func setupLogging(verbose, quiet int) {
	level := zerolog.InfoLevel + zerolog.Level(quiet-verbose)
	if level < zerolog.DebugLevel {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)
	if term.IsTerminal(int(os.Stderr.Fd())) {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}
