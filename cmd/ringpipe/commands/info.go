package commands

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"

	"github.com/momentics/hioload-ring/mirror"
	"github.com/momentics/hioload-ring/ring"
)

// Info describes the capacity model on this platform.
type Info struct {
	PageSize        int            `json:"page_size" yaml:"page_size"`
	MinOrder        int            `json:"min_order" yaml:"min_order"`
	MaxOrder        int            `json:"max_order" yaml:"max_order"`
	DefaultOrder    int            `json:"default_order" yaml:"default_order"`
	Order           int            `json:"order" yaml:"order"`
	Capacity        int            `json:"capacity" yaml:"capacity"`
	MirrorSupported bool           `json:"mirror_supported" yaml:"mirror_supported"`
	RequireMirror   bool           `json:"require_mirror" yaml:"require_mirror"`
	Fallback        bool           `json:"fallback" yaml:"fallback"`
	SplitCopy       bool           `json:"split_copy" yaml:"split_copy"`
	PoolMaxIdle     int            `json:"pool_max_idle" yaml:"pool_max_idle"`
	Platform        map[string]any `json:"platform,omitempty" yaml:"platform,omitempty"`
}

func newInfoCommand(g *globalFlags) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "info",
		Short: "Show capacity model and platform support",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := g.newFacade(cmd)
			if err != nil {
				return err
			}
			defer h.Shutdown()

			cfg := h.Config()
			capacity, err := ring.CapacityForOrder(h.Order())
			if err != nil {
				return err
			}
			info := Info{
				PageSize:        mirror.PageSize(),
				MinOrder:        ring.MinOrder(),
				MaxOrder:        ring.MaxOrder,
				DefaultOrder:    ring.DefaultOrder,
				Order:           h.Order(),
				Capacity:        capacity,
				MirrorSupported: mirror.Supported(),
				RequireMirror:   cfg.RequireMirror,
				Fallback:        cfg.Fallback,
				SplitCopy:       cfg.SplitCopy,
				PoolMaxIdle:     cfg.PoolMaxIdle,
			}
			if g.verbose {
				info.Platform = make(map[string]any)
				for k, v := range h.Stats() {
					info.Platform[k] = v
				}
			}
			return writeInfo(cmd.OutOrStdout(), info, format)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "o", "yaml", "output format: yaml or json")
	return cmd
}

func writeInfo(w io.Writer, info Info, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(info)
	case "yaml", "":
		data, err := yaml.Marshal(info)
		if err != nil {
			return fmt.Errorf("failed to marshal YAML: %w", err)
		}
		_, err = w.Write(data)
		return err
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}
