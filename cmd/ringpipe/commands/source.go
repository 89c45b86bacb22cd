package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"

	"github.com/spf13/cobra"
)

// streamFlags select where bytes come from and go to.
type streamFlags struct {
	in      string
	out     string
	connect string
	listen  string
}

func (s *streamFlags) register(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&s.in, "in", "", "read from file instead of stdin")
	f.StringVar(&s.out, "out", "", "write to file instead of stdout")
	f.StringVar(&s.connect, "connect", "", "read from a TCP connection to this address")
	f.StringVar(&s.listen, "listen", "", "accept one TCP connection on this address and read from it")
	cmd.MarkFlagsMutuallyExclusive("in", "connect", "listen")
}

// openInput returns the selected source. --listen blocks until one peer
// connects or ctx is cancelled.
func (s *streamFlags) openInput(ctx context.Context, stdin io.Reader) (io.ReadCloser, error) {
	switch {
	case s.in != "":
		f, err := os.Open(s.in)
		if err != nil {
			return nil, fmt.Errorf("open input: %w", err)
		}
		return f, nil
	case s.connect != "":
		var d net.Dialer
		conn, err := d.DialContext(ctx, "tcp", s.connect)
		if err != nil {
			return nil, fmt.Errorf("connect: %w", err)
		}
		slog.Info("connected", "remote", conn.RemoteAddr().String())
		return conn, nil
	case s.listen != "":
		var lc net.ListenConfig
		ln, err := lc.Listen(ctx, "tcp", s.listen)
		if err != nil {
			return nil, fmt.Errorf("listen: %w", err)
		}
		defer ln.Close()
		slog.Info("waiting for peer", "addr", ln.Addr().String())

		stop := context.AfterFunc(ctx, func() { ln.Close() })
		defer stop()
		conn, err := ln.Accept()
		if err != nil {
			return nil, fmt.Errorf("accept: %w", err)
		}
		slog.Info("peer connected", "remote", conn.RemoteAddr().String())
		return conn, nil
	default:
		return io.NopCloser(stdin), nil
	}
}

func (s *streamFlags) openOutput(stdout io.Writer) (io.WriteCloser, error) {
	if s.out == "" {
		return nopWriteCloser{stdout}, nil
	}
	f, err := os.Create(s.out)
	if err != nil {
		return nil, fmt.Errorf("create output: %w", err)
	}
	return f, nil
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }
