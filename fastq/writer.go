package fastq

import (
	"bufio"
	"io"

	"github.com/klauspost/compress/gzip"
)

// Writer emits FASTQ records. Close must be called to flush; when
// compressing it also finishes the gzip stream.
type Writer struct {
	bw *bufio.Writer
	gz *gzip.Writer
}

// NewWriter wraps w. With compress set the output is gzipped.
func NewWriter(w io.Writer, compress bool) *Writer {
	if compress {
		gz := gzip.NewWriter(w)
		return &Writer{bw: bufio.NewWriterSize(gz, 128*1024), gz: gz}
	}
	return &Writer{bw: bufio.NewWriterSize(w, 128*1024)}
}

// Write emits one record.
func (w *Writer) Write(record *Record) error {
	if err := record.validate(); err != nil {
		return err
	}
	w.bw.WriteByte('@')
	w.bw.Write(record.Name)
	w.bw.WriteByte('\n')
	w.bw.Write(record.Sequence)
	w.bw.WriteString("\n+\n")
	w.bw.Write(record.Qualities)
	return w.bw.WriteByte('\n')
}

// Close flushes buffered records and finishes the gzip stream. It
// does not close the underlying writer.
func (w *Writer) Close() error {
	if err := w.bw.Flush(); err != nil {
		return err
	}
	if w.gz != nil {
		return w.gz.Close()
	}
	return nil
}
