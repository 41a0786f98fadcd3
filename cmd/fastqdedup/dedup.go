package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/bits-and-blooms/bitset"
	"github.com/rs/zerolog/log"

	"github.com/rhpvorderman/fastqdedup/fastq"
	"github.com/rhpvorderman/fastqdedup/sequence"
	"github.com/rhpvorderman/fastqdedup/trie"
)

type config struct {
	inputs       []string
	outputs      []string
	prefixLength int
	maxDistance  int
	useEdit      bool
	maxErrorRate float64
	filterOff    bool
	method       string
	checkLengths []region
}

// key concatenates the identity-carrying bases of one record tuple.
// A check-lengths region wins over the prefix length for the files it
// covers; without either the whole sequence counts.
func (c *config) key(records []*fastq.Record) []byte {
	var key []byte
	for i, record := range records {
		s := record.Sequence
		switch {
		case i < len(c.checkLengths):
			s = c.checkLengths[i].apply(s)
		case c.prefixLength > 0:
			s = region{stop: c.prefixLength, hasStop: true}.apply(s)
		}
		key = append(key, s...)
	}
	return key
}

// tupleErrorRate is the mean per-base error rate over all reads of a
// tuple, each read weighted by its length.
func tupleErrorRate(records []*fastq.Record) (float64, error) {
	var sum float64
	var bases int
	for _, record := range records {
		rate, err := sequence.AverageErrorRate(record.Qualities)
		if err != nil {
			return 0, fmt.Errorf("record %s: %w", record.ID(), err)
		}
		sum += rate * float64(len(record.Qualities))
		bases += len(record.Qualities)
	}
	return sum / float64(bases), nil
}

// tupleScanner streams records from paired input files in lockstep.
type tupleScanner struct {
	files   []*os.File
	readers []*fastq.Reader
}

func openInputs(paths []string) (*tupleScanner, error) {
	s := &tupleScanner{}
	for _, path := range paths {
		f, err := os.Open(path)
		if err != nil {
			s.Close()
			return nil, err
		}
		s.files = append(s.files, f)
		r, err := fastq.NewReader(f)
		if err != nil {
			s.Close()
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		s.readers = append(s.readers, r)
	}
	return s, nil
}

// Next returns one record per input file, or io.EOF when all inputs
// end together. Files ending at different records are an error.
func (s *tupleScanner) Next() ([]*fastq.Record, error) {
	records := make([]*fastq.Record, len(s.readers))
	ended := 0
	for i, r := range s.readers {
		record, err := r.Read()
		if err == io.EOF {
			ended++
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", s.files[i].Name(), err)
		}
		records[i] = record
	}
	switch ended {
	case 0:
		return records, nil
	case len(s.readers):
		return nil, io.EOF
	default:
		return nil, errors.New("input files hold unequal numbers of records")
	}
}

func (s *tupleScanner) Close() {
	for _, f := range s.files {
		f.Close()
	}
}

// dedup runs the two passes: build the trie from every quality-passing
// key, dissect the clusters into surviving keys, then re-stream the
// inputs and write the first record tuple per surviving key.
func dedup(cfg *config) error {
	dissect, err := dissectorFor(cfg.method)
	if err != nil {
		return err
	}
	tr, err := trie.New("")
	if err != nil {
		return err
	}

	rejected := bitset.New(1024)
	total, filtered := 0, 0
	scanner, err := openInputs(cfg.inputs)
	if err != nil {
		return err
	}
	for {
		records, err := scanner.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			scanner.Close()
			return err
		}
		if !cfg.filterOff {
			rate, err := tupleErrorRate(records)
			if err != nil {
				scanner.Close()
				return err
			}
			if rate > cfg.maxErrorRate {
				rejected.Set(uint(total))
				total++
				filtered++
				continue
			}
		}
		if err := tr.Add(cfg.key(records)); err != nil {
			scanner.Close()
			return err
		}
		total++
	}
	scanner.Close()
	log.Info().
		Int("records", total).
		Int("filtered", filtered).
		Int("sequences", tr.Len()).
		Str("alphabet", tr.Alphabet()).
		Msg("first pass done")
	log.Debug().Int("bytes", tr.MemorySize()).Msg("trie built")

	survivors := make(map[string]bool)
	clusters := 0
	for tr.Len() > 0 {
		cluster, err := tr.PopCluster(cfg.maxDistance, cfg.useEdit)
		if err != nil {
			return err
		}
		clusters++
		for _, s := range dissect(cluster, cfg.maxDistance, cfg.useEdit) {
			survivors[string(s)] = true
		}
	}
	log.Info().
		Int("clusters", clusters).
		Int("survivors", len(survivors)).
		Msg("clustering done")

	return writePass(cfg, rejected, survivors)
}

func writePass(cfg *config, rejected *bitset.BitSet, survivors map[string]bool) error {
	writers, closeWriters, err := openOutputs(cfg)
	if err != nil {
		return err
	}
	scanner, err := openInputs(cfg.inputs)
	if err != nil {
		closeWriters()
		return err
	}
	defer scanner.Close()

	index, written := 0, 0
	for {
		records, err := scanner.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			closeWriters()
			return err
		}
		i := index
		index++
		if rejected.Test(uint(i)) {
			continue
		}
		key := string(cfg.key(records))
		if !survivors[key] {
			continue
		}
		delete(survivors, key) // first record per key wins
		for j, record := range records {
			if err := writers[j].Write(record); err != nil {
				closeWriters()
				return err
			}
		}
		written++
	}
	if err := flushOutputs(writers); err != nil {
		closeWriters()
		return err
	}
	closeWriters()
	log.Info().Int("written", written).Msg("second pass done")
	return nil
}

func openOutputs(cfg *config) ([]*fastq.Writer, func(), error) {
	if len(cfg.outputs) == 0 {
		if len(cfg.inputs) != 1 {
			return nil, nil, errors.New("--output is required for paired inputs")
		}
		return []*fastq.Writer{fastq.NewWriter(os.Stdout, false)}, func() {}, nil
	}
	if len(cfg.outputs) != len(cfg.inputs) {
		return nil, nil, fmt.Errorf("%d outputs for %d inputs", len(cfg.outputs), len(cfg.inputs))
	}
	var files []*os.File
	var writers []*fastq.Writer
	closeAll := func() {
		for _, f := range files {
			f.Close()
		}
	}
	for _, path := range cfg.outputs {
		f, err := os.Create(path)
		if err != nil {
			closeAll()
			return nil, nil, err
		}
		files = append(files, f)
		writers = append(writers, fastq.NewWriter(f, isGzipPath(path)))
	}
	return writers, closeAll, nil
}

func flushOutputs(writers []*fastq.Writer) error {
	for _, w := range writers {
		if err := w.Close(); err != nil {
			return err
		}
	}
	return nil
}

func isGzipPath(path string) bool {
	return len(path) > 3 && path[len(path)-3:] == ".gz"
}
