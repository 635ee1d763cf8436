// Solana validator latency report.
package main

import (
	"os"
	"sort"

	"github.com/urfave/cli"

	"github.com/gagliardetto/solana-latency/internal/log"
)

func main() {
	app := &cli.App{
		Name:        "solana-latency",
		Version:     "v0.0.1",
		Usage:       "Measure latency of the top Solana validators",
		Description: "Ranks validators by stake, locates them, pings them and scans their UDP port.",
		Flags:       newLatencyFlags(),
		Action:      runLatency,
	}

	sort.Sort(cli.FlagsByName(app.Flags))

	err := app.Run(os.Args)
	if err != nil {
		log.Logger.Main.Fatal(err)
	}
}
