package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"phone-analytics/config"
	"phone-analytics/gateway"
	"phone-analytics/models"
	"phone-analytics/services"
	"phone-analytics/storage"
	"phone-analytics/utils"
)

// application wires config, logging and services for one command run.
type application struct {
	cfg     *config.Config
	logger  *utils.Logger
	gateway *gateway.Client
	store   *storage.CatalogStore
	offline bool
}

func newApplication(c *cli.Context) *application {
	cfg := config.Load()
	if v := c.String("log-level"); v != "" {
		cfg.LogLevel = v
	}
	if v := c.String("gateway-url"); v != "" {
		cfg.GatewayURL = v
	}

	// Command output goes to stdout, so logs go to stderr.
	logger := utils.NewLoggerTo(os.Stderr, os.Stderr, utils.ParseLevel(cfg.LogLevel))

	app := &application{
		cfg:     cfg,
		logger:  logger,
		gateway: gateway.New(cfg, logger),
		offline: c.Bool("offline"),
	}
	logger.Debug("[app] Gateway %s | timeout %v | attempts %d | concurrency %d",
		cfg.GatewayURL, cfg.GatewayTimeout(), cfg.MaxAttempts, cfg.MaxConcurrency)

	if cfg.CatalogCache && !app.offline {
		store, err := storage.NewCatalogStore(c.Context, cfg.DSN())
		if err != nil {
			logger.Warn("[app] Catalog cache disabled: %v", err)
		} else {
			app.store = store
		}
	}
	return app
}

func (a *application) Close() {
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.logger.Warn("[app] Closing catalog cache: %v", err)
		}
	}
}

func (a *application) predictor() *services.Predictor {
	if a.offline {
		return services.NewPredictor(nil, a.logger, a.cfg.MaxConcurrency, a.cfg.RateLimitMs)
	}
	return services.NewPredictor(a.gateway, a.logger, a.cfg.MaxConcurrency, a.cfg.RateLimitMs)
}

func (a *application) recommender() *services.Recommender {
	var source services.ProductSource = a.gateway
	if a.offline {
		source = offlineSource{}
	}
	var cache services.CatalogCache
	if a.store != nil {
		cache = a.store
	}
	return services.NewRecommender(source, cache, a.logger, a.cfg.ProductLimit, a.cfg.ReferenceYear)
}

var errOffline = errors.New("offline mode: gateway disabled")

type offlineSource struct{}

func (offlineSource) ListProducts(ctx context.Context, limit int) ([]models.RawProduct, error) {
	return nil, errOffline
}

// specFromFlags builds a SpecInput from an optional --input file overlaid
// with any explicitly set flags.
func specFromFlags(c *cli.Context) (models.SpecInput, error) {
	var in models.SpecInput
	if path := c.String("input"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return in, fmt.Errorf("read spec file: %w", err)
		}
		// yaml.v3 also accepts JSON documents.
		if err := yaml.Unmarshal(data, &in); err != nil {
			return in, fmt.Errorf("parse spec file %q: %w", path, err)
		}
	}

	floats := []struct {
		flag string
		dst  **float64
	}{
		{"ram", &in.RAM},
		{"battery", &in.Battery},
		{"screen", &in.ScreenSize},
		{"weight", &in.Weight},
		{"camera", &in.MainCameraMp},
		{"front-camera", &in.FrontCameraMp},
		{"storage", &in.StorageGb},
	}
	for _, f := range floats {
		if c.IsSet(f.flag) {
			*f.dst = models.Float(c.Float64(f.flag))
		}
	}
	if c.IsSet("year") {
		in.LaunchYear = models.Int(c.Int("year"))
	}
	if c.IsSet("brand") {
		in.Brand = c.String("brand")
	}
	if c.IsSet("processor") {
		in.ProcessorID = c.String("processor")
	}
	return in, nil
}

func specFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "input", Aliases: []string{"i"}, Usage: "YAML or JSON spec file"},
		&cli.StringFlag{Name: "brand", Aliases: []string{"b"}, Usage: "Manufacturer (required unless set in --input)"},
		&cli.Float64Flag{Name: "ram", Usage: "RAM in GB (default 8)"},
		&cli.Float64Flag{Name: "battery", Usage: "Battery in mAh (default 4000)"},
		&cli.Float64Flag{Name: "screen", Usage: "Screen size in inches (default 6.1)"},
		&cli.Float64Flag{Name: "weight", Usage: "Weight in grams (default 180)"},
		&cli.IntFlag{Name: "year", Usage: "Launch year (default current year)"},
		&cli.Float64Flag{Name: "camera", Usage: "Main camera in MP"},
		&cli.Float64Flag{Name: "front-camera", Usage: "Front camera in MP"},
		&cli.Float64Flag{Name: "storage", Usage: "Storage in GB"},
		&cli.StringFlag{Name: "processor", Aliases: []string{"p"}, Usage: "Processor id, e.g. a17pro or \"snapdragon 8 gen 3\""},
	}
}
