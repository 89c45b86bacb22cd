package commands

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/momentics/hioload-ring/api"
	"github.com/momentics/hioload-ring/facade"
)

func newLinesCommand(g *globalFlags) *cobra.Command {
	s := &streamFlags{}
	var number bool
	cmd := &cobra.Command{
		Use:   "lines",
		Short: "Split a byte stream into newline-terminated records",
		Long: `Read the input into a ring and emit one record per line.

Records are located in place in the ring without copying. A record longer
than the ring capacity is an error; raise --order for longer records.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLines(cmd, g, s, number)
		},
	}
	s.register(cmd)
	cmd.Flags().BoolVarP(&number, "number", "n", false, "prefix each record with its index")
	return cmd
}

func runLines(cmd *cobra.Command, g *globalFlags, s *streamFlags, number bool) (err error) {
	h, err := g.newFacade(cmd)
	if err != nil {
		return err
	}
	defer h.Shutdown()

	r, err := h.NewRing()
	if err != nil {
		return err
	}
	defer r.Close()

	in, err := s.openInput(cmd.Context(), cmd.InOrStdin())
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := s.openOutput(cmd.OutOrStdout())
	if err != nil {
		return err
	}
	defer func() {
		if cerr := out.Close(); err == nil {
			err = cerr
		}
	}()

	bw := bufio.NewWriter(out)
	var records int
	emit := func(rec []byte) error {
		records++
		if number {
			if _, err := fmt.Fprintf(bw, "%d\t", records); err != nil {
				return err
			}
		}
		if _, err := bw.Write(rec); err != nil {
			return err
		}
		return bw.WriteByte('\n')
	}

	for !r.EOF() {
		_, ferr := r.Fill(in)
		switch {
		case errors.Is(ferr, io.EOF):
			r.CloseWrite()
		case ferr != nil:
			return ferr
		}

		for {
			data := unread(r)
			i := bytes.IndexByte(data, '\n')
			if i < 0 {
				break
			}
			if err := emit(data[:i]); err != nil {
				return err
			}
			if err := r.Discard(i + 1); err != nil {
				return err
			}
		}

		if r.Closed() && r.Len() > 0 {
			tail, err := r.ReadPiece()
			if err != nil {
				return err
			}
			if err := emit(tail); err != nil {
				return err
			}
		}
		if r.Free() == 0 {
			return api.NewError(api.ErrCodeFull, "record exceeds ring capacity").
				WithContext("capacity", r.Cap()).
				WithContext("record", records+1)
		}
	}

	if err := bw.Flush(); err != nil {
		return err
	}
	slog.Info("lines done", "records", records, "bytes", r.Stats().Written)
	return nil
}

// unread returns every buffered byte as one slice: a view on mirrored
// rings, a copy otherwise.
func unread(r *facade.Ring) []byte {
	if r.Mirrored() {
		return r.DataSpan()
	}
	p, _ := r.PeekN(r.Len())
	return p
}
