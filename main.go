// Command hindsight collects episodes in a goal-conditioned gridworld
// with a random policy and replays them through a hindsight experience
// replay buffer, logging statistics of the relabeled batches.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gonum.org/v1/gonum/stat"

	"github.com/samuelfneumann/hindsight/agent"
	"github.com/samuelfneumann/hindsight/environment"
	"github.com/samuelfneumann/hindsight/environment/goalgrid"
	"github.com/samuelfneumann/hindsight/experiment"
	"github.com/samuelfneumann/hindsight/experiment/tracker"
	"github.com/samuelfneumann/hindsight/expreplay"
	"github.com/samuelfneumann/hindsight/hindsight"
	"github.com/samuelfneumann/hindsight/timestep"
)

var (
	cfg        = defaultRunConfig()
	configFile string
)

var rootCmd = &cobra.Command{
	Use:   "hindsight",
	Short: "Hindsight experience replay on a goal-conditioned gridworld",
	Long: `Collects episodes in a goal-conditioned gridworld using a uniform
random policy, stores them in an episodic replay buffer, and samples
batches relabeled with the final or future hindsight strategy.`,
	SilenceUsage: true,
	RunE:         run,
}

// flagKeys maps flag names to their configuration keys
var flagKeys = map[string]string{
	"strategy":          "buffer.strategy",
	"capacity":          "buffer.capacity",
	"future-k":          "buffer.future_k",
	"ignore-null-goals": "buffer.ignore_null_goals",
	"seed":              "buffer.seed",
	"rows":              "rows",
	"cols":              "cols",
	"pits":              "pits",
	"episode-steps":     "episode_steps",
	"discount":          "discount",
	"episodes":          "episodes",
	"batches":           "batches",
	"batch-size":        "batch_size",
	"max-len":           "max_len",
	"log-level":         "log_level",
	"metrics-addr":      "metrics_addr",
}

func init() {
	flags := rootCmd.Flags()
	flags.StringVar(&configFile, "config", "", "Config file (yaml, json, or toml)")

	// Buffer settings
	flags.String("strategy", string(cfg.Buffer.Strategy), "Relabeling strategy (none, final, future)")
	flags.Int("capacity", cfg.Buffer.Capacity, "Maximum stored transitions (0 for unbounded)")
	flags.Int("future-k", cfg.Buffer.FutureK, "Relabeled transitions per original for the future strategy")
	flags.Bool("ignore-null-goals", cfg.Buffer.IgnoreNullGoals, "Never relabel with null goals")
	flags.Uint64("seed", cfg.Buffer.Seed, "Random seed")

	// Environment settings
	flags.Int("rows", cfg.Rows, "Gridworld rows")
	flags.Int("cols", cfg.Cols, "Gridworld columns")
	flags.StringSlice("pits", cfg.Pits, "Pit cells as x:y")
	flags.Int("episode-steps", cfg.EpisodeSteps, "Step limit per episode")
	flags.Float64("discount", cfg.Discount, "Discount factor")

	// Run settings
	flags.Int("episodes", cfg.Episodes, "Episodes to collect")
	flags.Int("batches", cfg.Batches, "Batches to sample")
	flags.Int("batch-size", cfg.BatchSize, "Episodes sampled per batch")
	flags.Int("max-len", cfg.MaxLen, "Maximum length of sampled subsequences (0 for whole episodes)")

	flags.String("log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	flags.String("metrics-addr", cfg.MetricsAddr, "Serve prometheus metrics on this address after sampling")

	for flag, key := range flagKeys {
		viper.BindPFlag(key, flags.Lookup(flag))
	}
	viper.SetEnvPrefix("HER")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
}

func loadConfig() error {
	if configFile != "" {
		viper.SetConfigFile(configFile)
		if err := viper.ReadInConfig(); err != nil {
			return fmt.Errorf("could not read config: %w", err)
		}
	}
	if err := viper.Unmarshal(&cfg); err != nil {
		return fmt.Errorf("could not decode config: %w", err)
	}
	return cfg.validate()
}

func run(cmd *cobra.Command, args []string) error {
	if err := loadConfig(); err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr,
		&slog.HandlerOptions{Level: cfg.level()}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt,
		syscall.SIGTERM)
	defer stop()

	seed := cfg.Buffer.Seed
	store, err := expreplay.NewEpisodic(cfg.Buffer.Capacity, seed,
		expreplay.WithLogger(logger))
	if err != nil {
		return err
	}

	pits, _ := cfg.pits()
	grid, _, err := goalgrid.New(cfg.Rows, cfg.Cols,
		environment.NewCategoricalStarter([]int{cfg.Cols, cfg.Rows}, seed+1),
		environment.NewCategoricalStarter([]int{cfg.Cols, cfg.Rows}, seed+2),
		environment.NewStepLimit(cfg.EpisodeSteps), cfg.Discount, pits...)
	if err != nil {
		return err
	}

	policy, err := agent.NewRandom(grid.ActionSpec(), seed+3)
	if err != nil {
		return err
	}

	// Collect episodes
	returns, lengths := tracker.NewReturn(), tracker.NewEpisodeLength()
	maxSteps := uint(cfg.Episodes * cfg.EpisodeSteps)
	collector := experiment.NewCollector(grid, policy, store, maxSteps,
		logger, returns, lengths)
	if err := collector.CollectEpisodes(cfg.Episodes); err != nil {
		return err
	}
	logger.Info("collected episodes",
		"episodes", collector.Episodes(),
		"steps", collector.Steps(),
		"stored_episodes", store.NumEpisodes(),
		"stored_transitions", store.Len(),
		"mean_return", stat.Mean(returns.Data(), nil),
		"mean_length", stat.Mean(lengths.Data(), nil))

	reg := prometheus.NewRegistry()
	metrics, err := hindsight.NewMetrics(reg)
	if err != nil {
		return err
	}

	buffer, err := cfg.Buffer.Create(goalgrid.SparseReward,
		goalgrid.IsNullGoal, hindsight.WithStore(store),
		hindsight.WithLogger(logger), hindsight.WithMetrics(metrics))
	if err != nil {
		return err
	}

	for i := 0; i < cfg.Batches; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := sampleBatch(logger, buffer, i); err != nil {
			return err
		}
	}

	logMetrics(logger, reg)

	if cfg.MetricsAddr != "" {
		return serveMetrics(ctx, logger, reg, cfg.MetricsAddr)
	}
	return nil
}

// sampleBatch samples one batch and logs the fraction of transitions
// that reach their (possibly relabeled) desired goal
func sampleBatch(logger *slog.Logger, buffer *hindsight.Buffer, i int) error {
	var transitions []timestep.Transition
	if cfg.MaxLen > 0 && cfg.Buffer.Strategy == hindsight.None {
		episodes, err := buffer.SampleEpisodes(cfg.BatchSize, cfg.MaxLen)
		if err != nil {
			return err
		}
		for _, ep := range episodes {
			transitions = append(transitions, ep...)
		}
	} else {
		batch, err := buffer.Sample(cfg.BatchSize)
		if err != nil {
			return err
		}
		for _, element := range batch {
			transitions = append(transitions, element...)
		}
	}

	rewards := make([]float64, len(transitions))
	successes := 0.0
	for j, t := range transitions {
		rewards[j] = t.Reward
		if t.Reward == 0 {
			successes++
		}
	}

	logger.Info("sampled batch",
		"batch", i,
		"transitions", len(transitions),
		"mean_reward", stat.Mean(rewards, nil),
		"success_rate", successes/float64(len(transitions)))
	return nil
}

// logMetrics logs every sample of every gathered metric family
func logMetrics(logger *slog.Logger, reg *prometheus.Registry) {
	families, err := reg.Gather()
	if err != nil {
		logger.Warn("could not gather metrics", "error", err)
		return
	}
	for _, family := range families {
		for _, m := range family.GetMetric() {
			attrs := []any{"metric", family.GetName()}
			for _, label := range m.GetLabel() {
				attrs = append(attrs, label.GetName(), label.GetValue())
			}
			value := m.GetCounter().GetValue() + m.GetGauge().GetValue()
			attrs = append(attrs, "value", value)
			logger.Info("metric", attrs...)
		}
	}
}

func serveMetrics(ctx context.Context, logger *slog.Logger,
	reg *prometheus.Registry, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	server := &http.Server{Addr: addr, Handler: mux,
		ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(),
			5*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	logger.Info("serving metrics", "addr", addr)
	if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
