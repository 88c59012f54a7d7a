package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rxtech-lab/argo-chart/internal/chartsync"
	"github.com/rxtech-lab/argo-chart/internal/indicator"
	"github.com/rxtech-lab/argo-chart/internal/logger"
	"github.com/rxtech-lab/argo-chart/internal/stream"
	"github.com/rxtech-lab/argo-chart/internal/types"
	"github.com/rxtech-lab/argo-chart/pkg/chart"
	"github.com/rxtech-lab/argo-chart/pkg/history"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// appConfig is the YAML configuration file shape. Flags override file values.
type appConfig struct {
	Symbol      string `yaml:"symbol"`
	Timeframe   string `yaml:"timeframe"`
	Bars        int    `yaml:"bars"`
	Provider    string `yaml:"provider"`
	EndpointURL string `yaml:"endpointUrl"`
	StreamURL   string `yaml:"streamUrl"`
	Transport   string `yaml:"transport"`
}

const (
	transportWebsocket = "websocket"
	transportSSE       = "sse"
)

// loadAppConfig reads the optional YAML config file and applies flag overrides.
func loadAppConfig(cmd *cli.Command) (appConfig, error) {
	config := appConfig{
		Symbol:      "BTCUSDT",
		Timeframe:   string(history.Timeframe1m),
		Bars:        500,
		Provider:    string(history.ProviderBinance),
		EndpointURL: "",
		StreamURL:   "",
		Transport:   transportWebsocket,
	}

	if path := cmd.String("config"); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return config, fmt.Errorf("failed to read config file: %w", err)
		}

		if err := yaml.Unmarshal(raw, &config); err != nil {
			return config, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if cmd.IsSet("symbol") {
		config.Symbol = cmd.String("symbol")
	}

	if cmd.IsSet("timeframe") {
		config.Timeframe = cmd.String("timeframe")
	}

	if cmd.IsSet("bars") {
		config.Bars = int(cmd.Int("bars"))
	}

	if cmd.IsSet("provider") {
		config.Provider = cmd.String("provider")
	}

	if cmd.IsSet("endpoint") {
		config.EndpointURL = cmd.String("endpoint")
	}

	if cmd.IsSet("stream-url") {
		config.StreamURL = cmd.String("stream-url")
	}

	if cmd.IsSet("transport") {
		config.Transport = cmd.String("transport")
	}

	return config, nil
}

// overlaySpecs is the fixed overlay set drawn on the price pane.
func overlaySpecs() []chartsync.OverlaySpec {
	return []chartsync.OverlaySpec{
		{Name: "EMA_20", Title: "EMA 20", Color: chart.ColorOrange},
		{Name: "EMA_50", Title: "EMA 50", Color: chart.ColorBlue},
		{Name: "SMA_20", Title: "SMA 20", Color: chart.ColorGray},
	}
}

// feedAction wires the whole pipeline: historical fetch, indicator
// enrichment, chart load, then the live feed until interrupted.
func feedAction(ctx context.Context, cmd *cli.Command) error {
	appLogger, err := logger.NewLogger()
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer appLogger.Sync()

	config, err := loadAppConfig(cmd)
	if err != nil {
		return err
	}

	provider, err := history.NewProvider(history.ProviderType(config.Provider), os.Getenv("POLYGON_API_KEY"))
	if err != nil {
		return fmt.Errorf("failed to create history provider: %w", err)
	}

	candles, err := provider.Fetch(ctx, config.Symbol, history.Timeframe(config.Timeframe), config.Bars)
	if err != nil {
		return fmt.Errorf("failed to fetch history: %w", err)
	}

	candles = indicator.Enrich(candles, indicator.FullSet())

	surface := chart.NewMemorySurface()
	controller := chartsync.NewController(surface, overlaySpecs(), "RSI_14", config.Symbol, appLogger)

	if err := controller.Load(candles); err != nil {
		return fmt.Errorf("failed to load chart: %w", err)
	}

	appLogger.Info("chart loaded",
		zap.String("symbol", config.Symbol),
		zap.String("timeframe", config.Timeframe),
		zap.Int("bars", len(candles)),
	)

	router := stream.NewRouter(controller.Handlers(), appLogger)

	streamConfig := stream.Config{ //nolint:exhaustruct // grace timeout defaults
		EndpointURL: config.EndpointURL,
		StreamURL:   config.StreamURL,
		APIKey:      os.Getenv("FEED_API_KEY"),
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	switch config.Transport {
	case transportSSE:
		if err := runSSE(ctx, streamConfig, router, appLogger); err != nil {
			return err
		}
	case transportWebsocket:
		if err := runWebsocket(ctx, streamConfig, config, router, appLogger); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unsupported transport: %s", config.Transport)
	}

	appLogger.Info("shutting down")

	return nil
}

// runWebsocket drives the websocket session, switching to the server-push
// stream when the session fails and a stream URL is configured.
func runWebsocket(ctx context.Context, streamConfig stream.Config, config appConfig, router *stream.Router, appLogger *logger.Logger) error {
	var fallbackOnce sync.Once

	onState := func(state types.ConnectionState, message string) {
		appLogger.Info("connection state changed",
			zap.String("state", string(state)),
			zap.String("message", message),
		)

		if state != types.ConnectionStateError || streamConfig.StreamURL == "" {
			return
		}

		fallbackOnce.Do(func() {
			appLogger.Info("switching to server-push stream")

			sseClient, err := stream.NewSSEClient(streamConfig, router, appLogger)
			if err != nil {
				appLogger.Error("failed to create fallback stream", zap.Error(err))

				return
			}

			if err := sseClient.Start(ctx); err != nil {
				appLogger.Error("failed to start fallback stream", zap.Error(err))
			}
		})
	}

	client, err := stream.NewClient(streamConfig, router.Route, onState, appLogger)
	if err != nil {
		return fmt.Errorf("failed to create stream client: %w", err)
	}

	if err := client.Connect(config.Symbol, config.Timeframe); err != nil {
		appLogger.Warn("live connection failed", zap.Error(err))
	}

	<-ctx.Done()
	client.Disconnect()

	return nil
}

// runSSE drives the server-push stream directly.
func runSSE(ctx context.Context, streamConfig stream.Config, router *stream.Router, appLogger *logger.Logger) error {
	client, err := stream.NewSSEClient(streamConfig, router, appLogger)
	if err != nil {
		return fmt.Errorf("failed to create stream client: %w", err)
	}

	if err := client.Start(ctx); err != nil {
		return fmt.Errorf("failed to start stream: %w", err)
	}

	<-ctx.Done()
	client.Stop()

	return nil
}

func main() {
	// Missing .env is fine; the environment may already carry the keys.
	_ = godotenv.Load()

	cmd := &cli.Command{ //nolint:exhaustruct // only the fields this command uses
		Name:  "chartfeed",
		Usage: "Load historical candles and keep a chart in sync with the live feed",
		Flags: []cli.Flag{
			&cli.StringFlag{ //nolint:exhaustruct
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to a YAML config file",
			},
			&cli.StringFlag{ //nolint:exhaustruct
				Name:    "symbol",
				Aliases: []string{"s"},
				Usage:   "Instrument symbol to chart",
			},
			&cli.StringFlag{ //nolint:exhaustruct
				Name:    "timeframe",
				Aliases: []string{"t"},
				Usage:   "Bar timeframe (1m, 5m, 15m, 30m, 1h, 4h, 1d, 1w)",
			},
			&cli.IntFlag{ //nolint:exhaustruct
				Name:    "bars",
				Aliases: []string{"n"},
				Usage:   "Number of historical bars to load",
			},
			&cli.StringFlag{ //nolint:exhaustruct
				Name:    "provider",
				Aliases: []string{"p"},
				Usage:   fmt.Sprintf("History provider (%s, %s)", history.ProviderBinance, history.ProviderPolygon),
			},
			&cli.StringFlag{ //nolint:exhaustruct
				Name:    "endpoint",
				Aliases: []string{"e"},
				Usage:   "Websocket endpoint URL of the live feed",
			},
			&cli.StringFlag{ //nolint:exhaustruct
				Name:  "stream-url",
				Usage: "Server-push stream URL used as fallback or primary transport",
			},
			&cli.StringFlag{ //nolint:exhaustruct
				Name:  "transport",
				Usage: fmt.Sprintf("Live transport (%s, %s)", transportWebsocket, transportSSE),
			},
		},
		Action: feedAction,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
