package commands

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/momentics/hioload-ring/control"
	"github.com/momentics/hioload-ring/facade"
	"github.com/momentics/hioload-ring/ring"
)

// globalFlags are shared by every subcommand.
type globalFlags struct {
	verbose       bool
	configPath    string
	order         int
	size          int
	requireMirror bool
	splitCopy     bool
}

// NewRootCommand builds the command tree.
func NewRootCommand() *cobra.Command {
	g := &globalFlags{}
	root := &cobra.Command{
		Use:   "ringpipe",
		Short: "Stream bytes through a mirrored ring buffer",
		Long: `ringpipe - move byte streams through a fixed-capacity ring buffer.

The ring is 2^order bytes. On Linux its memory is mapped twice back to
back, so data that wraps around the end is still one contiguous slice
and reads and writes never split.

Input is stdin unless --in, --connect or --listen is given.

Examples:
  # Copy a file through a 64 KiB ring
  ringpipe pipe --order 16 --in access.log --out copy.log

  # Parse newline records from a TCP peer
  ringpipe lines --connect 127.0.0.1:9000

  # Show page size and supported orders
  ringpipe info --format json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelInfo
			if g.verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})))
		},
	}

	pf := root.PersistentFlags()
	pf.BoolVarP(&g.verbose, "verbose", "v", false, "verbose output")
	pf.StringVarP(&g.configPath, "config", "c", "", "YAML config file")
	pf.IntVar(&g.order, "order", 0, "ring capacity as log2 bytes (default from config, else 12)")
	pf.IntVar(&g.size, "size", 0, "ring capacity in bytes, rounded up to a valid power of two")
	pf.BoolVar(&g.requireMirror, "require-mirror", false, "fail instead of falling back to split copies")
	pf.BoolVar(&g.splitCopy, "split-copy", false, "never double-map; copy across the wrap boundary in two steps")
	root.MarkFlagsMutuallyExclusive("order", "size")
	root.MarkFlagsMutuallyExclusive("require-mirror", "split-copy")

	root.AddCommand(
		newPipeCommand(g),
		newLinesCommand(g),
		newInfoCommand(g),
		newVersionCommand(),
	)
	return root
}

// Execute runs the root command.
func Execute() error {
	return NewRootCommand().Execute()
}

// facadeConfig merges the config file with flags; flags win.
func (g *globalFlags) facadeConfig(cmd *cobra.Command) (*facade.Config, error) {
	var fc *control.FileConfig
	if g.configPath != "" {
		var err error
		if fc, err = control.LoadFile(g.configPath); err != nil {
			return nil, err
		}
	}
	cfg := facade.ConfigFromFile(fc)

	flags := cmd.Flags()
	switch {
	case flags.Changed("order"):
		cfg.Order = g.order
	case flags.Changed("size"):
		order, err := ring.OrderForSize(g.size)
		if err != nil {
			return nil, err
		}
		cfg.Order = order
	}
	if g.requireMirror {
		cfg.RequireMirror = true
		cfg.Fallback = false
	}
	if g.splitCopy {
		cfg.SplitCopy = true
	}
	cfg.Logger = slog.Default()
	return cfg, nil
}

func (g *globalFlags) newFacade(cmd *cobra.Command) (*facade.HioloadRing, error) {
	cfg, err := g.facadeConfig(cmd)
	if err != nil {
		return nil, err
	}
	return facade.New(cfg)
}
