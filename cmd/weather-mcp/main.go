package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	httpapi "github.com/i474232898/weather-mcp/internal/api/http"
	"github.com/i474232898/weather-mcp/internal/api/tools"
	"github.com/i474232898/weather-mcp/internal/common"
	"github.com/i474232898/weather-mcp/internal/config"
	"github.com/i474232898/weather-mcp/internal/logging"
	"github.com/i474232898/weather-mcp/internal/mcp"
	"github.com/i474232898/weather-mcp/internal/scheduler"
	"github.com/i474232898/weather-mcp/internal/weather"
	"github.com/i474232898/weather-mcp/internal/weather/providers"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

var (
	cfg    *config.AppConfig
	logger *zap.Logger
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "weather-mcp",
		Short:         "MCP server for hourly weather forecasts",
		Long:          "Serves current conditions and a 12-hour forecast from weather.gov or AccuWeather over MCP (stdio or HTTP).",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
	}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP server (stdio by default)",
		RunE: func(cmd *cobra.Command, args []string) error {
			useHTTP, _ := cmd.Flags().GetBool("http")
			if cmd.Flags().Changed("host") {
				cfg.Host, _ = cmd.Flags().GetString("host")
			}
			if cmd.Flags().Changed("port") {
				cfg.Port, _ = cmd.Flags().GetString("port")
			}
			return serve(useHTTP || cfg.Transport == "http")
		},
	}
	serveCmd.Flags().Bool("http", false, "Serve MCP over HTTP instead of stdio")
	serveCmd.Flags().String("host", "0.0.0.0", "HTTP listen host")
	serveCmd.Flags().String("port", "8080", "HTTP listen port")

	getCmd := &cobra.Command{
		Use:   "get <location>",
		Short: "Print current conditions and the hourly forecast for a location",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			units, _ := cmd.Flags().GetString("units")
			output, _ := cmd.Flags().GetString("output")
			return getWeather(cmd.Context(), args[0], weather.Units(units), output)
		},
	}
	getCmd.Flags().StringP("units", "u", string(weather.Imperial), "Units (imperial, metric)")
	getCmd.Flags().StringP("output", "o", "text", "Output format (text, json)")

	clearCacheCmd := &cobra.Command{
		Use:   "clear-cache",
		Short: "Clear the location key cache",
		RunE: func(cmd *cobra.Command, args []string) error {
			source, _ := cmd.Flags().GetString("source")
			svc, err := newService()
			if err != nil {
				return err
			}
			fmt.Println(svc.ClearCache(source))
			return nil
		},
	}
	clearCacheCmd.Flags().StringP("source", "s", string(weather.SourceAccuWeather), "Weather source whose cache is cleared")

	rootCmd.AddCommand(serveCmd, getCmd, clearCacheCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func setup() error {
	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to load .env: %v\n", err)
	}

	var err error
	cfg, err = config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, err = logging.New(cfg.LogLevel)
	if err != nil {
		return err
	}
	return nil
}

// newService builds the configured client. When an AccuWeather key is set its
// location cache can be cleared even while weather.gov is selected.
func newService() (*weather.Service, error) {
	settings := providers.Settings{
		Source:                cfg.Source,
		AccuWeatherAPIKey:     cfg.AccuWeatherAPIKey,
		GoogleGeocodingAPIKey: cfg.GoogleGeocodingAPIKey,
		CacheDir:              cfg.CacheDir,
		HTTPClient:            &http.Client{Timeout: cfg.HTTPTimeout},
		Logger:                logger,
	}

	client, err := providers.NewClient(settings)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s client: %w", cfg.Source, err)
	}

	opts := []weather.ServiceOption{weather.WithLogger(logger)}
	if cfg.AccuWeatherAPIKey != "" {
		accu, ok := client.(*providers.AccuWeatherClient)
		if !ok {
			accu, err = providers.NewAccuWeather(settings)
			if err != nil {
				return nil, fmt.Errorf("failed to create AccuWeather client: %w", err)
			}
		}
		opts = append(opts, weather.WithCacheClearer(weather.SourceAccuWeather, accu))
	}

	logger.Info("weather client configured", zap.String("source", string(cfg.Source)))
	return weather.NewService(client, cfg.Source, opts...), nil
}

func serve(useHTTP bool) error {
	svc, err := newService()
	if err != nil {
		return err
	}

	server := mcp.NewServer("mcp-weather", version, logger)
	tools.RegisterTools(server, svc)

	// Periodic lookups that keep the AccuWeather location cache warm.
	sched := scheduler.New(cfg.WarmLocations, cfg.WarmInterval, svc, logger)
	if err := sched.Start(); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}
	defer sched.Stop()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if !useHTTP {
		err := server.ServeStdio(ctx, os.Stdin, os.Stdout)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	}

	app := httpapi.NewApp(svc, server, logger)
	addr := net.JoinHostPort(cfg.Host, cfg.Port)

	listenErr := make(chan error, 1)
	go func() {
		logger.Info("starting MCP HTTP server", zap.String("addr", addr))
		listenErr <- app.Listen(addr)
	}()

	select {
	case err := <-listenErr:
		return fmt.Errorf("fiber server stopped: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Error("error during shutdown", zap.Error(err))
		return err
	}
	logger.Info("server stopped")
	return nil
}

func getWeather(ctx context.Context, location string, units weather.Units, output string) error {
	if output != "text" && output != "json" {
		return fmt.Errorf("invalid output format %q (text, json)", output)
	}

	svc, err := newService()
	if err != nil {
		return err
	}

	if ctx == nil {
		ctx = context.Background()
	}
	resp, err := svc.GetHourlyWeather(ctx, location, units)
	if err != nil {
		return err
	}

	if output == "json" {
		out, err := json.MarshalIndent(resp, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	}
	return common.WriteReport(os.Stdout, resp)
}
