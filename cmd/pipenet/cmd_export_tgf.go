package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dd0wney/cluso-pipenet/pkg/netfile"
	"github.com/dd0wney/cluso-pipenet/pkg/partition"
)

func newExportTGFCmd(root *rootOptions) *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "export-tgf <network-file>",
		Short: "Write the topology of every subnet as a Trivial Graph Format file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.loadConfig()
			if err != nil {
				return err
			}
			net, err := netfile.Load(args[0], newLogger(cmd, cfg))
			if err != nil {
				return err
			}
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("create output dir: %w", err)
			}

			n := 0
			for edges := range partition.New(net.Network).Subnets() {
				path := filepath.Join(dir, fmt.Sprintf("subnet-%04d.tgf", n))
				if err := writeTGFFile(path, net, edges); err != nil {
					return err
				}
				n++
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d subnets to %s\n", n, dir)
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "", "Output directory (required)")
	_ = cmd.MarkFlagRequired("dir")
	return cmd
}

func writeTGFFile(path string, net *netfile.Network, edges []int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := partition.WriteTGF(f, net.Network, edges, partition.Annotator{}); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
