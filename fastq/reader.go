package fastq

import (
	"bufio"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
)

// Reader streams FASTQ records. Gzip input is detected from the
// magic bytes, so plain and compressed files can be mixed freely.
type Reader struct {
	br     *bufio.Reader
	record int
}

// NewReader wraps r, sniffing for a gzip stream.
func NewReader(r io.Reader) (*Reader, error) {
	br := bufio.NewReaderSize(r, 128*1024)
	magic, err := br.Peek(2)
	if err == nil && magic[0] == 0x1f && magic[1] == 0x8b {
		gz, err := gzip.NewReader(br)
		if err != nil {
			return nil, err
		}
		return &Reader{br: bufio.NewReaderSize(gz, 128*1024)}, nil
	}
	return &Reader{br: br}, nil
}

// Read returns the next record, or io.EOF at a clean end of input.
func (r *Reader) Read() (*Record, error) {
	header, err := r.readLine()
	if err != nil {
		if err == io.EOF && len(header) == 0 {
			return nil, io.EOF
		}
		return nil, r.corrupt("truncated record", err)
	}
	if len(header) == 0 || header[0] != '@' {
		return nil, r.corrupt(fmt.Sprintf("header %q does not start with '@'", header), nil)
	}
	sequence, err := r.readLine()
	if err != nil {
		return nil, r.corrupt("truncated record", err)
	}
	separator, err := r.readLine()
	if err != nil {
		return nil, r.corrupt("truncated record", err)
	}
	if len(separator) == 0 || separator[0] != '+' {
		return nil, r.corrupt(fmt.Sprintf("separator %q does not start with '+'", separator), nil)
	}
	qualities, err := r.readLine()
	if err != nil && err != io.EOF {
		return nil, r.corrupt("truncated record", err)
	}
	r.record++
	record := &Record{Name: header[1:], Sequence: sequence, Qualities: qualities}
	if err := record.validate(); err != nil {
		return nil, r.corrupt(err.Error(), nil)
	}
	return record, nil
}

// readLine returns one line without its terminator, in freshly owned
// memory: records outlive the reader's buffer.
func (r *Reader) readLine() ([]byte, error) {
	line, err := r.br.ReadBytes('\n')
	if len(line) > 0 && line[len(line)-1] == '\n' {
		line = line[:len(line)-1]
		err = nil
	}
	if len(line) > 0 && line[len(line)-1] == '\r' {
		line = line[:len(line)-1]
	}
	if err != nil && !(err == io.EOF && len(line) > 0) {
		return line, err
	}
	return append([]byte(nil), line...), nil
}

func (r *Reader) corrupt(msg string, err error) error {
	if err != nil {
		return fmt.Errorf("fastq record %d: %s: %w", r.record+1, msg, err)
	}
	return fmt.Errorf("fastq record %d: %s", r.record+1, msg)
}
