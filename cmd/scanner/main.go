package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/dexroute/arb-engine-go/arbitrage"
	"github.com/dexroute/arb-engine-go/cmd/scanner/config"
	"github.com/dexroute/arb-engine-go/poolgraph"
	"github.com/dexroute/arb-engine-go/streams/snapshot"
	"github.com/dexroute/arb-engine-go/tokenregistry"
)

const DefaultSnapshotBufferSize = 16

func main() {
	rootLogHandler := slog.NewJSONHandler(os.Stdout, nil)
	rootLogger := slog.New(rootLogHandler)
	closeApp := func() {
		os.Exit(1)
	}

	prometheusRegistry := prometheus.DefaultRegisterer
	cfg, err := loadConfig()
	if err != nil {
		rootLogger.Error("Failed to load configuration", "error", err)
		closeApp()
	}

	// Cancel on interrupt or termination so the subscription shuts down cleanly.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var tokens arbitrage.TokenLabeler
	if cfg.TokensFile != "" {
		tokens, err = loadTokens(cfg.TokensFile)
		if err != nil {
			rootLogger.Error("Failed to load token registry", "path", cfg.TokensFile, "error", err)
			closeApp()
		}
	}

	scanner, err := arbitrage.NewScanner(&arbitrage.Config{
		BaseToken:    cfg.BaseToken,
		MaxHops:      cfg.MaxHops,
		MinNetProfit: cfg.Amount(cfg.MinNetProfit),
		PerHopFee:    cfg.Amount(cfg.PerHopFee),
		MaxInput:     cfg.Amount(cfg.MaxInput),
		Workers:      cfg.Workers,
		Tokens:       tokens,
		Logger:       rootLogger.With("component", "scanner"),
		Registry:     prometheusRegistry,
	})
	if err != nil {
		rootLogger.Error("Failed to initialize scanner", "error", err)
		closeApp()
	}

	client, err := snapshot.NewClient(ctx, snapshot.Config{
		URL:        cfg.StreamURL,
		Logger:     rootLogger.With("component", "snapshot-client"),
		BufferSize: DefaultSnapshotBufferSize,
	})
	if err != nil {
		rootLogger.Error("Failed to initialize snapshot client", "error", err)
		closeApp()
	}

	minLiquidity := cfg.MinLiquidityAmount()

	for {
		select {
		case snap := <-client.Snapshots():
			graph := poolgraph.Build(snap.Pools, minLiquidity)
			result := scanner.Scan(graph)
			rootLogger.Info("Scan finished",
				"sequence", snap.Sequence,
				"pools", graph.PoolCount(),
				"tokens", graph.TokenCount(),
				"arbs", len(result.Results),
				"total_net_profit", result.TotalNetProfit.String(),
				"duration_ms", result.Duration.Milliseconds(),
			)
			printSnapshot(result)
		case err := <-client.Err():
			rootLogger.Error("Fatal client error", "error", err)
			return
		case <-ctx.Done():
			return
		}
	}
}

// printSnapshot renders the ranked results for an operator watching stdout.
func printSnapshot(result *arbitrage.Snapshot) {
	if len(result.Results) == 0 {
		return
	}
	w := tabwriter.NewWriter(os.Stderr, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "PATH\tHOPS\tIN\tOUT\tNET\tNET%")
	for _, arb := range result.Results {
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%s\t%.4f\n",
			arb.PathLabel, arb.Hops, arb.AmountIn, arb.AmountOut, arb.NetProfit, arb.NetProfitPct)
	}
	w.Flush()
}

func loadTokens(path string) (*tokenregistry.IndexableTokenSystem, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var tokens []tokenregistry.Token
	if err := json.Unmarshal(data, &tokens); err != nil {
		return nil, err
	}
	return tokenregistry.NewIndexableTokenSystem(tokens), nil
}

func loadConfig() (*config.ScannerConfig, error) {
	configPath := flag.String("config", "config.yaml", "Path to the configuration file.")
	flag.Parse()
	log.Printf("Loading configuration from: %s", *configPath)
	return config.LoadConfig(*configPath)
}
