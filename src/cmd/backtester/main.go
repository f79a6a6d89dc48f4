package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/jiaming2012/mean-reversion-trader/src/cmd/backtester/run"
	"github.com/jiaming2012/mean-reversion-trader/src/config"
	"github.com/jiaming2012/mean-reversion-trader/src/data"
	"github.com/jiaming2012/mean-reversion-trader/src/logger"
	"github.com/jiaming2012/mean-reversion-trader/src/models"
	"github.com/jiaming2012/mean-reversion-trader/src/utils"
)

var rootCmd = &cobra.Command{
	Use:   "backtester",
	Short: "Mean reversion backtester and live trader",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		envDir, _ := cmd.Flags().GetString("envDir")
		goEnv := utils.GetEnv("GO_ENV", "development")

		if err := utils.InitEnvironmentVariables(envDir, goEnv); err != nil {
			return fmt.Errorf("failed to init environment variables: %w", err)
		}

		level, _ := cmd.Flags().GetString("logLevel")
		jsonLogs, _ := cmd.Flags().GetBool("jsonLogs")

		return logger.Setup(utils.GetEnv("LOG_LEVEL", level), jsonLogs)
	},
}

var runCmd = &cobra.Command{
	Use:   "run --config config.yaml --outDir results",
	Short: "Backtest the mean reversion strategy over historical bars",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := mustLoadConfig(cmd)

		outDir, err := cmd.Flags().GetString("outDir")
		if err != nil {
			log.Fatalf("error getting outDir: %v", err)
		}

		symbols, err := cmd.Flags().GetStringSlice("symbols")
		if err != nil {
			log.Fatalf("error getting symbols: %v", err)
		}

		workers, err := cmd.Flags().GetInt("workers")
		if err != nil {
			log.Fatalf("error getting workers: %v", err)
		}

		outputs, err := run.Backtest(cmd.Context(), run.BacktestArgs{
			Config:        cfg,
			Symbols:       symbols,
			OutDir:        outDir,
			PolygonAPIKey: os.Getenv("POLYGON_API_KEY"),
			MaxWorkers:    workers,
		})

		if err != nil {
			log.Fatalf("Error: %v", err)
		}

		for _, out := range outputs {
			fmt.Println(out.Summary.String())
			log.Infof("%s: rows written to %s, trades written to %s", out.Symbol, out.RowsFile, out.TradesFile)
		}

		log.Info("Done")
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve --port 8080 [--config config.yaml]",
	Short: "Serve backtests over HTTP",
	Run: func(cmd *cobra.Command, args []string) {
		port, err := cmd.Flags().GetInt("port")
		if err != nil {
			log.Fatalf("error getting port: %v", err)
		}

		var provider data.IHistoricalDataProvider
		if path, _ := cmd.Flags().GetString("config"); path != "" {
			cfg := mustLoadConfig(cmd)
			if provider, err = data.NewProvider(cfg.Data, os.Getenv("POLYGON_API_KEY")); err != nil {
				log.Fatalf("failed to create data provider: %v", err)
			}
		} else if apiKey := os.Getenv("POLYGON_API_KEY"); apiKey != "" {
			provider = data.NewCachedProvider(data.NewPolygonProvider(apiKey))
		} else {
			log.Warn("no data provider configured: only requests with inline candles will succeed")
		}

		if err := run.Serve(cmd.Context(), port, provider); err != nil {
			log.Fatalf("Error: %v", err)
		}
	},
}

var tradeCmd = &cobra.Command{
	Use:   "trade --config config.yaml",
	Short: "Poll live bars and trade mean reversion signals",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := mustLoadConfig(cmd)

		if err := run.Trade(cmd.Context(), cfg, os.Getenv("POLYGON_API_KEY")); err != nil {
			log.Fatalf("Error: %v", err)
		}
	},
}

func mustLoadConfig(cmd *cobra.Command) *models.BacktestConfigYAML {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		log.Fatalf("error getting config: %v", err)
	}

	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	return cfg
}

func main() {
	rootCmd.PersistentFlags().String("envDir", ".", "The directory holding the .env files.")
	rootCmd.PersistentFlags().String("logLevel", "info", "The log level.")
	rootCmd.PersistentFlags().Bool("jsonLogs", false, "Log as json.")

	runCmd.PersistentFlags().String("config", "config.yaml", "The backtest config file.")
	runCmd.PersistentFlags().String("outDir", "", "The directory to write the output to. Defaults to output.dir of the config.")
	runCmd.PersistentFlags().StringSlice("symbols", nil, "Symbols to backtest. Defaults to the symbol of the config.")
	runCmd.PersistentFlags().Int("workers", 4, "The number of backtests to run in parallel.")

	serveCmd.PersistentFlags().Int("port", 8080, "The port to listen on.")
	serveCmd.PersistentFlags().String("config", "", "Optional config file whose data section selects the provider.")

	tradeCmd.PersistentFlags().String("config", "config.yaml", "The trading config file.")

	rootCmd.AddCommand(runCmd, serveCmd, tradeCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		log.Fatalf("Error: %v", err)
	}
}
