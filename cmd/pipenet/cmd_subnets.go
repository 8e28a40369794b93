package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/dd0wney/cluso-pipenet/pkg/netfile"
	"github.com/dd0wney/cluso-pipenet/pkg/partition"
)

func newSubnetsCmd(root *rootOptions) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "subnets <network-file>",
		Short: "List the independent subnets of a network",
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

			pm := partition.ComputePartitionMetrics(net.Network, partition.New(net.Network).All())
			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(pm)
			}

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "SUBNET\tCOMMODITY\tPIPES\tNODES\tWELLS")
			for _, s := range pm.Subnets {
				fmt.Fprintf(tw, "%d\t%d\t%d\t%d\t%d\n", s.ID, s.Commodity, s.Edges, s.Nodes, s.Wells)
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(out, "skipped pipes: %d, largest subnet: %.1f%%\n", pm.SkippedEdges, pm.LargestShare*100)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the partition as JSON")
	return cmd
}
