package lsp

import (
	"io"
	"os"
	"sync/atomic"

	"github.com/gokulp01/pathy/internal/lsp/jsonrpc"
)

type stdioReaderWriter struct {
	reader   io.Reader
	writer   io.Writer
	isClosed atomic.Bool
}

// NewStdio returns a connection reading from input and writing to output, os.Stdin and os.Stdout
// are used when they are nil. Closing the connection does not close the underlying streams.
func NewStdio(input io.Reader, output io.Writer) jsonrpc.ReaderWriter {
	if input == nil {
		input = os.Stdin
	}
	if output == nil {
		output = os.Stdout
	}
	return &stdioReaderWriter{
		reader: input,
		writer: output,
	}
}

func (s *stdioReaderWriter) Read(p []byte) (n int, err error) {
	if s.isClosed.Load() {
		return 0, io.EOF
	}
	return s.reader.Read(p)
}

func (s *stdioReaderWriter) Write(p []byte) (n int, err error) {
	if s.isClosed.Load() {
		return 0, io.EOF
	}
	return s.writer.Write(p)
}

func (s *stdioReaderWriter) Close() error {
	s.isClosed.Store(true)
	return nil
}
