package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	. "github.com/gagliardetto/utilz"
	"github.com/hako/durafmt"
	"github.com/urfave/cli"

	"github.com/gagliardetto/solana-latency/internal/config"
	"github.com/gagliardetto/solana-latency/internal/directory"
	"github.com/gagliardetto/solana-latency/internal/geo"
	"github.com/gagliardetto/solana-latency/internal/latency"
	"github.com/gagliardetto/solana-latency/internal/log"
	"github.com/gagliardetto/solana-latency/internal/models"
	"github.com/gagliardetto/solana-latency/internal/probe"
	"github.com/gagliardetto/solana-latency/internal/report"
)

func newLatencyFlags() []cli.Flag {
	defaults := config.Default()
	return []cli.Flag{
		&cli.IntFlag{
			Name:  "limit",
			Usage: "Number of validators to test.",
			Value: defaults.Limit,
		},
		&cli.StringFlag{
			Name:  "csv",
			Usage: "Export results to a CSV file (e.g. --csv output.csv).",
		},
		&cli.StringFlag{
			Name:  "json",
			Usage: "Export results as JSON lines to this file.",
		},
		&cli.StringFlag{
			Name:  "rpc",
			Usage: "RPC endpoint node to use.",
			Value: defaults.RPC.Endpoint,
		},
		&cli.StringFlag{
			Name:  "config",
			Usage: "Optional YAML config file; flags override it.",
		},
		&cli.StringFlag{
			Name:  "log",
			Usage: "Log level [debug|info|warn|error].",
			Value: defaults.LogLevel,
		},
		&cli.BoolFlag{
			Name:  "names",
			Usage: "Resolve validator names from vote account data (JSON export only).",
		},
		&cli.StringFlag{
			Name:  "geo",
			Usage: "Geolocation provider [ip-api|cymru].",
			Value: defaults.Geo.Provider,
		},
		&cli.DurationFlag{
			Name:  "geo-cache-ttl",
			Usage: "Look each distinct IP up once per this TTL (0 disables).",
			Value: defaults.Geo.CacheTTL,
		},
		&cli.StringFlag{
			Name:  "icmp",
			Usage: "ICMP prober [exec|native].",
			Value: defaults.Probe.ICMP,
		},
		&cli.StringFlag{
			Name:  "udp",
			Usage: "UDP prober [exec|nmap].",
			Value: defaults.Probe.UDP,
		},
	}
}

// loadConfig layers defaults, the optional config file and explicitly set flags.
func loadConfig(c *cli.Context) (config.Config, error) {
	cfg := config.Default()
	if path := c.String("config"); path != "" {
		var err error
		cfg, err = config.LoadFile(path)
		if err != nil {
			return cfg, err
		}
	}
	if c.IsSet("log") || cfg.LogLevel == "" {
		cfg.LogLevel = c.String("log")
	}
	if c.IsSet("limit") {
		cfg.Limit = c.Int("limit")
	}
	if c.IsSet("rpc") {
		cfg.RPC.Endpoint = c.String("rpc")
	}
	if c.IsSet("names") {
		cfg.RPC.ResolveNames = c.Bool("names")
	}
	if c.IsSet("geo") {
		cfg.Geo.Provider = c.String("geo")
	}
	if c.IsSet("geo-cache-ttl") {
		cfg.Geo.CacheTTL = c.Duration("geo-cache-ttl")
	}
	if c.IsSet("icmp") {
		cfg.Probe.ICMP = c.String("icmp")
	}
	if c.IsSet("udp") {
		cfg.Probe.UDP = c.String("udp")
	}
	if c.IsSet("csv") {
		cfg.Report.CSVPath = c.String("csv")
	}
	if c.IsSet("json") {
		cfg.Report.JSONPath = c.String("json")
	}
	if !cfg.Probe.Privileged {
		cfg.Probe.Privileged = isLikelyRoot()
	}

	return cfg, cfg.Validate()
}

func runLatency(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	if err := log.Setup(cfg.LogLevel); err != nil {
		return err
	}
	if cfg.Probe.ICMP == config.ProbeNative && !cfg.Probe.Privileged {
		Ln("You're (most likely) not running this program as a privileged user;")
		Ln("native ICMP falls back to unprivileged UDP ping, which your OS may not allow.")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	resolver, err := geo.New(cfg.Geo)
	if err != nil {
		return err
	}
	pipeline := latency.New(
		cfg,
		directory.New(cfg.RPC),
		resolver,
		probe.NewICMP(cfg.Probe),
		probe.NewUDP(cfg.Probe),
	)
	pipeline.OnValidator = func(index, total int, v *models.Validator) {
		Sfln("Processing validator %v/%v (%s)", index+1, total, v.VotePubkey)
	}

	took := NewTimerRaw()
	Sfln("Testing latency for the top %v Solana validators...", cfg.Limit)
	Ln()

	validators := pipeline.Run(ctx)
	if len(validators) == 0 {
		Ln("No validators found.")
		return nil
	}

	rows := report.BuildRows(validators, cfg.Report.TokenSymbol)
	report.RenderTable(os.Stdout, rows)

	if cfg.Report.CSVPath != "" {
		if err := report.WriteCSV(cfg.Report.CSVPath, rows); err != nil {
			return err
		}
		Successf("Results saved to %s", MustAbs(cfg.Report.CSVPath))
	}
	if cfg.Report.JSONPath != "" {
		if err := report.WriteJSONLines(cfg.Report.JSONPath, validators); err != nil {
			return err
		}
		Successf("Results saved to %s", MustAbs(cfg.Report.JSONPath))
	}

	printSummary(validators)
	Sfln("Done. Took %s", durafmt.Parse(took()))
	return nil
}

func isLikelyRoot() bool {
	if os.Geteuid() == 0 {
		return true
	}
	if os.Getenv("SUDO_UID") != "" {
		return true
	}
	if os.Getenv("SUDO_GID") != "" {
		return true
	}
	if os.Getenv("SUDO_USER") != "" {
		return true
	}
	return false
}
