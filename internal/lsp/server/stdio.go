package server

import (
	"io"
	"os"
)

// Stdio is the jsonrpc2 transport the language server speaks over: requests
// arrive on stdin, responses and notifications leave on stdout.
type Stdio struct {
	in  io.ReadCloser
	out io.WriteCloser
}

// NewStdio returns the transport over the process's own stdin/stdout.
func NewStdio() *Stdio {
	return &Stdio{in: os.Stdin, out: os.Stdout}
}

func (s *Stdio) Read(p []byte) (int, error)  { return s.in.Read(p) }
func (s *Stdio) Write(p []byte) (int, error) { return s.out.Write(p) }

// Close releases both ends. The write end is closed even when closing the
// read end fails, so the client's pending reads never hang.
func (s *Stdio) Close() error {
	rerr := s.in.Close()
	werr := s.out.Close()
	if rerr != nil {
		return rerr
	}
	return werr
}
