package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/fujiwaratoshiki1106-tech/smoking-area-v2/internal/api"
	"github.com/fujiwaratoshiki1106-tech/smoking-area-v2/internal/catalog"
	"github.com/fujiwaratoshiki1106-tech/smoking-area-v2/internal/conf"
	"github.com/fujiwaratoshiki1106-tech/smoking-area-v2/internal/gateway"
	"github.com/fujiwaratoshiki1106-tech/smoking-area-v2/internal/logger"
	"github.com/fujiwaratoshiki1106-tech/smoking-area-v2/internal/notification"
	"github.com/fujiwaratoshiki1106-tech/smoking-area-v2/internal/observability"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "smoking-area",
	Short: "Offline-capable catalog server for smoking-friendly cafes",
	Long: `smoking-area serves a store catalog loaded from upstream CSV files,
with filtering, open-now evaluation and an asset gateway that keeps the
map app usable when the origin is unreachable.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := conf.Load(cfgFile)
		if err != nil {
			return err
		}
		return run(settings)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")

	rootCmd.Flags().String("listen", conf.DefaultListen, "Address to listen on")
	rootCmd.Flags().String("upstream", "", "Origin URL the catalog and assets are fetched from")
	rootCmd.Flags().String("log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.Flags().StringSlice("catalog.candidates", nil, "Catalog CSV candidate paths, tried in order")
	rootCmd.Flags().Duration("catalog.fetch-timeout", 10*time.Second, "Timeout per catalog fetch")
	rootCmd.Flags().Duration("catalog.refresh-interval", 0, "Background catalog reload interval (0 disables)")
	rootCmd.Flags().String("gateway.generation", conf.DefaultGeneration, "Asset cache generation name")
	rootCmd.Flags().String("gateway.dir", conf.DefaultCacheDir, "Directory for persisted cache generations")

	viper.BindPFlag("listen", rootCmd.Flags().Lookup("listen"))
	viper.BindPFlag("upstream", rootCmd.Flags().Lookup("upstream"))
	viper.BindPFlag("log_level", rootCmd.Flags().Lookup("log-level"))
	viper.BindPFlag("catalog.candidates", rootCmd.Flags().Lookup("catalog.candidates"))
	viper.BindPFlag("catalog.fetch_timeout", rootCmd.Flags().Lookup("catalog.fetch-timeout"))
	viper.BindPFlag("catalog.refresh_interval", rootCmd.Flags().Lookup("catalog.refresh-interval"))
	viper.BindPFlag("gateway.generation", rootCmd.Flags().Lookup("gateway.generation"))
	viper.BindPFlag("gateway.dir", rootCmd.Flags().Lookup("gateway.dir"))
}

func run(settings *conf.Settings) error {
	log := logger.NewSlogLogger(os.Stderr, logger.LogLevel(settings.LogLevel), nil)

	metrics := observability.NewMetrics()
	notification.Initialize()
	notices := notification.GetService()

	store := gateway.NewStore(settings.Gateway.Generation, settings.Gateway.Dir, log)
	gw, err := gateway.New(settings.Upstream, settings.Catalog.Candidates, store, metrics, log)
	if err != nil {
		return err
	}

	loader := catalog.NewLoader(settings.Upstream, settings.Catalog.Candidates,
		settings.Catalog.FetchTimeout.Std(), log)

	srv := api.NewServer(settings, loader, gw, notices, metrics, log)

	// Pre-cache the app shell and drop stale generations. Failures here are
	// logged inside the gateway; the server still starts.
	installCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	gw.Install(installCtx, settings.Gateway.ShellAssets)
	cancel()
	gw.Activate()

	refreshCtx, cancel := context.WithTimeout(context.Background(), settings.Catalog.FetchTimeout.Std()+time.Second)
	srv.Refresh(refreshCtx)
	cancel()
	srv.StartAutoRefresh(settings.Catalog.RefreshInterval.Std())

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()
	log.Info("server started",
		logger.String("listen", settings.Listen),
		logger.String("upstream", settings.Upstream))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		gw.Close()
		return err
	case sig := <-sigCh:
		log.Info("shutting down", logger.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown failed", logger.Error(err))
	}
	gw.Close()
	return nil
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
