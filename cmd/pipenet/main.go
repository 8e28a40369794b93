// pipenet solves pressures and flows of pipeline gathering networks.
//
// Usage:
//
//	pipenet solve <network.yaml> [-o results.json] [--metrics-out metrics.prom] [--workers N] [--serial] [--tgf-dir DIR]
//	pipenet subnets <network.yaml> [--json]
//	pipenet export-tgf <network.yaml> --dir DIR
//
// Global flags: --config <pipenet.yaml>, --log-level <debug|info|warn|error>.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
