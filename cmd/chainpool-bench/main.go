// Command chainpool-bench exercises chainpool pools from the command line:
// it builds linked lists of a given length (or decoded from a JSON file),
// reports throughput and pool shape, and optionally walks the detached-list
// destruction path.
package main

import (
	"fmt"
	"os"
	"runtime"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ajitpratap0/chainpool/pkg/config"
	"github.com/ajitpratap0/chainpool/pkg/decode"
	"github.com/ajitpratap0/chainpool/pkg/logger"
	"github.com/ajitpratap0/chainpool/pkg/metrics"
	"github.com/ajitpratap0/chainpool/pkg/pool"
)

var version = "0.1.0"

func main() {
	// Load .env file if it exists
	_ = godotenv.Load() // Ignore error if .env doesn't exist

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// applyEnvDefaults overrides the built-in defaults from CHAINPOOL_*
// environment variables (typically loaded from .env), so flags default to
// the environment but still win when set explicitly.
func applyEnvDefaults(cfg *config.PoolConfig) {
	if v := os.Getenv("CHAINPOOL_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("CHAINPOOL_INITIAL_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.InitialSize = n
		}
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "chainpool-bench",
		Short: "chainpool-bench - exercise and measure chainpool node pools",
		Long: `chainpool-bench builds linked lists out of pooled node blocks and reports
allocation throughput, block growth, and memory shape. Lists can be generated
synthetically or decoded from a JSON array file.`,
	}

	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("chainpool-bench v%s\n", version)
			fmt.Printf("Go version: %s\n", runtime.Version())
			fmt.Printf("OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	})

	cfg := config.DefaultPoolConfig("bench")
	applyEnvDefaults(cfg)
	var (
		count    int
		input    string
		keepList bool
	)

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "Build a pooled list and report pool statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.Validate(); err != nil {
				return err
			}
			if err := logger.Init(logger.Config{
				Level:    cfg.LogLevel,
				Encoding: "console",
			}); err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			return run(cfg, count, input, keepList)
		},
	}
	benchCmd.Flags().StringVar(&cfg.Name, "name", cfg.Name, "Pool name used in logs and metrics")
	benchCmd.Flags().IntVar(&cfg.InitialSize, "initial-size", cfg.InitialSize, "Node capacity of the first block")
	benchCmd.Flags().BoolVar(&cfg.EnableMetrics, "metrics", cfg.EnableMetrics, "Record Prometheus metrics")
	benchCmd.Flags().StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	benchCmd.Flags().IntVar(&count, "count", 1_000_000, "Number of nodes to allocate")
	benchCmd.Flags().StringVar(&input, "input", "", "JSON array file to decode into the list instead of synthetic values")
	benchCmd.Flags().BoolVar(&keepList, "keep-list", false, "Detach the list from the pool and release it with DestroyList")
	root.AddCommand(benchCmd)

	return root
}

func run(cfg *config.PoolConfig, count int, input string, keepList bool) error {
	log := logger.With(zap.String("pool", cfg.Name))

	opts := []pool.Option{pool.WithLogger(log)}
	if cfg.EnableMetrics {
		opts = append(opts, pool.WithTracker(metrics.NewCollector(cfg.Name)))
	}

	p, err := pool.New(cfg.InitialSize, opts...)
	if err != nil {
		return err
	}

	start := time.Now()
	var head *pool.Node

	if input != "" {
		f, err := os.Open(input)
		if err != nil {
			p.Destroy(false)
			return err
		}
		defer f.Close()

		head, count, err = decode.List(f, p)
		if err != nil {
			p.Destroy(false)
			return err
		}
	} else {
		for i := 0; i < count; i++ {
			n, err := p.Allocate()
			if err != nil {
				p.Destroy(false)
				return err
			}
			n.Value = i
			if head == nil {
				head = n
			}
		}
	}

	elapsed := time.Since(start)
	stats := p.Stats()

	rate := float64(count) / elapsed.Seconds()
	log.Info("list built",
		zap.Int("nodes", count),
		zap.Duration("elapsed", elapsed),
		zap.Float64("nodes_per_sec", rate),
		zap.Int("blocks", stats.Blocks),
		zap.Int("final_block_capacity", stats.BlockCapacity),
		zap.Uint64("total_bytes", stats.TotalBytes))

	if keepList {
		p.Destroy(true)

		destroyStart := time.Now()
		if !pool.DestroyList(head) {
			log.Error("detached list destruction failed: head invariant violated")
			return fmt.Errorf("destroy list: head invariant violated")
		}
		log.Info("detached list destroyed",
			zap.Duration("elapsed", time.Since(destroyStart)))
		return nil
	}

	p.Destroy(false)
	return nil
}
