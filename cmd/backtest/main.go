// Package main is the offline backtest tool. It replays the draw history
// through the scoring and card generation pipeline and reports hit
// distributions against a random baseline.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/aristath/megafacil/internal/config"
	"github.com/aristath/megafacil/internal/modules/backtest"
	"github.com/aristath/megafacil/internal/modules/history"
	"github.com/aristath/megafacil/internal/services"
	"github.com/aristath/megafacil/pkg/logger"
)

const (
	formatJSON    = "json"
	formatMsgpack = "msgpack"
)

type runOptions struct {
	csvPath       string
	windowSize    int
	cardsPerDraw  int
	combosPerCard int
	draws         int
	seed          int64
	format        string
	output        string
	logLevel      string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "megafacil-backtest",
		Short:         "Replay draw history through the card generator",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.AddCommand(newRunCmd())
	return root
}

func newRunCmd() *cobra.Command {
	opts := runOptions{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a backtest and print the statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.csvPath == "" {
				cfg, err := config.Load()
				if err != nil {
					return err
				}
				opts.csvPath = cfg.CSVPath
			}
			return runBacktest(opts, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.csvPath, "csv", "", "history CSV (defaults to MEGA_FACIL_CSV_PATH)")
	flags.IntVar(&opts.windowSize, "window", 50, "recent-frequency window in draws")
	flags.IntVar(&opts.cardsPerDraw, "cards", 1, "cards generated per replayed draw")
	flags.IntVar(&opts.combosPerCard, "combos", 3, "combinations per card")
	flags.IntVar(&opts.draws, "draws", 0, "replay only the most recent N draws (0 = all)")
	flags.Int64Var(&opts.seed, "seed", 42, "random seed")
	flags.StringVar(&opts.format, "format", formatJSON, "output format: json or msgpack")
	flags.StringVarP(&opts.output, "output", "o", "", "write the report to a file instead of stdout")
	flags.StringVar(&opts.logLevel, "log-level", "info", "log level for progress output")

	return cmd
}

func runBacktest(opts runOptions, stdout, stderr io.Writer) error {
	if opts.format != formatJSON && opts.format != formatMsgpack {
		return fmt.Errorf("unsupported format %q", opts.format)
	}

	log := logger.New(logger.Config{
		Level:  opts.logLevel,
		Pretty: true,
		Output: stderr,
	})

	svc := services.NewGenerationService(history.NewStore(opts.csvPath, log), services.Options{
		WindowSize:          opts.windowSize,
		MaxWindowSize:       math.MaxInt32,
		CombinationsPerCard: opts.combosPerCard,
		MaxCards:            math.MaxInt32,
	}, log)

	seed := opts.seed
	result, err := svc.Backtest(services.BacktestRequest{
		WindowSize:    opts.windowSize,
		CardsPerDraw:  opts.cardsPerDraw,
		CombosPerCard: opts.combosPerCard,
		Draws:         opts.draws,
		Seed:          &seed,
	}, progressLogger(log))
	if err != nil {
		return err
	}

	if opts.output == "" {
		return encodeReport(stdout, opts.format, result)
	}

	f, err := os.Create(opts.output)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	return writeReport(f, opts.format, result)
}

// writeReport encodes result into wc and closes it. A close failure is
// reported since the report may not have been flushed.
func writeReport(wc io.WriteCloser, format string, result *services.BacktestResult) error {
	if err := encodeReport(wc, format, result); err != nil {
		_ = wc.Close()
		return err
	}
	if err := wc.Close(); err != nil {
		return fmt.Errorf("failed to close report file: %w", err)
	}
	return nil
}

// progressLogger logs roughly every tenth of the run
func progressLogger(log zerolog.Logger) func(backtest.Progress) {
	return func(p backtest.Progress) {
		step := p.Total / 10
		if step == 0 {
			step = 1
		}
		if p.Processed%step == 0 || p.Processed == p.Total {
			log.Info().
				Int("processed", p.Processed).
				Int("total", p.Total).
				Int("draw_id", p.DrawID).
				Msg("Backtest progress")
		}
	}
}

func encodeReport(w io.Writer, format string, result *services.BacktestResult) error {
	switch format {
	case formatMsgpack:
		enc := msgpack.NewEncoder(w)
		enc.SetCustomStructTag("json")
		return enc.Encode(result)
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}
}
