package commands

import (
	"errors"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
)

func newPipeCommand(g *globalFlags) *cobra.Command {
	s := &streamFlags{}
	cmd := &cobra.Command{
		Use:   "pipe",
		Short: "Copy a byte stream through a ring",
		Long: `Copy the input to the output through a ring.

Each cycle reads once from the input straight into the ring's free
window and hands every buffered byte to the output in one write.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPipe(cmd, g, s)
		},
	}
	s.register(cmd)
	return cmd
}

func runPipe(cmd *cobra.Command, g *globalFlags, s *streamFlags) (err error) {
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

	for !r.EOF() {
		_, ferr := r.Fill(in)
		if _, werr := r.WriteTo(out); werr != nil {
			return werr
		}
		switch {
		case errors.Is(ferr, io.EOF):
			r.CloseWrite()
		case ferr != nil:
			return ferr
		}
	}

	st := r.Stats()
	slog.Info("pipe done",
		"bytes", st.Written,
		"capacity", st.Capacity,
		"mirrored", st.Mirrored)
	return nil
}
