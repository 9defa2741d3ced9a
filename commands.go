package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"phone-analytics/models"
	"phone-analytics/server"
	"phone-analytics/services"
	"phone-analytics/storage"
)

func estimateCommand() *cli.Command {
	return &cli.Command{
		Name:   "estimate",
		Usage:  "Estimate price, performance and market tier for a phone spec",
		Flags:  specFlags(),
		Action: runEstimate,
	}
}

func runEstimate(c *cli.Context) error {
	in, err := specFromFlags(c)
	if err != nil {
		return err
	}
	app := newApplication(c)
	defer app.Close()

	session := services.NewSession(app.predictor(), app.cfg.ReferenceYear, app.logger)
	result, _, err := session.Submit(c.Context, in)
	if err != nil {
		return err
	}
	return render(os.Stdout, c.String("format"), result, func() { printEstimate(os.Stdout, result) })
}

func advancedCommand() *cli.Command {
	return &cli.Command{
		Name:  "advanced",
		Usage: "Currency-aware price estimate from a selected model",
		Flags: append(specFlags(),
			&cli.StringFlag{Name: "model-type", Aliases: []string{"m"}, Usage: "Model type (default DEFAULT_MODEL_TYPE)"},
			&cli.StringFlag{Name: "currency", Aliases: []string{"c"}, Usage: "Currency code (default DEFAULT_CURRENCY)"},
		),
		Action: runAdvanced,
	}
}

func runAdvanced(c *cli.Context) error {
	in, err := specFromFlags(c)
	if err != nil {
		return err
	}
	if err := in.Validate(); err != nil {
		return fmt.Errorf("%w: %w", services.ErrInvalidSpec, err)
	}
	app := newApplication(c)
	defer app.Close()

	modelType := c.String("model-type")
	if modelType == "" {
		modelType = app.cfg.DefaultModelType
	}
	currency := c.String("currency")
	if currency == "" {
		currency = app.cfg.DefaultCurrency
	}

	estimate := app.predictor().PredictAdvanced(c.Context, in.Resolve(app.cfg.ReferenceYear), modelType, currency)
	return render(os.Stdout, c.String("format"), estimate, func() { printAdvanced(os.Stdout, estimate) })
}

func recommendCommand() *cli.Command {
	return &cli.Command{
		Name:  "recommend",
		Usage: "Rank catalog phones by value for money",
		Flags: []cli.Flag{
			&cli.Float64Flag{Name: "max-budget", Usage: "Maximum price in USD"},
			&cli.Float64Flag{Name: "min-ram", Usage: "Minimum RAM in GB"},
			&cli.Float64Flag{Name: "min-battery", Usage: "Minimum battery in mAh"},
			&cli.StringSliceFlag{Name: "brand", Aliases: []string{"b"}, Usage: "Restrict to brands (repeatable)"},
			&cli.IntFlag{Name: "limit", Aliases: []string{"n"}, Value: 10, Usage: "Number of recommendations"},
			&cli.BoolFlag{Name: "export", Usage: "Also write the ranking to CSV_OUTPUT_PATH"},
			&cli.StringFlag{Name: "csv", Usage: "CSV path (overrides CSV_OUTPUT_PATH, implies --export)"},
		},
		Action: runRecommend,
	}
}

func runRecommend(c *cli.Context) error {
	app := newApplication(c)
	defer app.Close()

	report := app.recommender().Recommend(c.Context, services.Criteria{
		MaxBudget:  c.Float64("max-budget"),
		MinRAM:     c.Float64("min-ram"),
		MinBattery: c.Float64("min-battery"),
		Brands:     c.StringSlice("brand"),
		Limit:      c.Int("limit"),
	})

	if c.Bool("export") || c.IsSet("csv") {
		path := app.cfg.CSVOutputPath
		if c.IsSet("csv") {
			path = c.String("csv")
		}
		if err := exportCSV(path, report); err != nil {
			app.logger.Error("[recommend] CSV export failed: %v", err)
		} else {
			app.logger.Info("[recommend] Ranking saved to %s", path)
		}
	}
	return render(os.Stdout, c.String("format"), report, func() { printRecommendations(os.Stdout, report) })
}

func exportCSV(path string, report models.RecommendationReport) error {
	w, err := storage.NewCSVWriter(path)
	if err != nil {
		return err
	}
	if err := w.WriteRecommendations(report); err != nil {
		_ = w.Close()
		return err
	}
	return w.Close()
}

func catalogCommand() *cli.Command {
	return &cli.Command{
		Name:   "catalog",
		Usage:  "Show catalog statistics",
		Action: runCatalog,
	}
}

func runCatalog(c *cli.Context) error {
	app := newApplication(c)
	defer app.Close()

	products, source, err := app.recommender().LoadCatalog(c.Context)
	if err != nil {
		return fmt.Errorf("catalog %s: %w", source, err)
	}
	app.logger.Info("[catalog] %d products from %s", len(products), source)

	insights := services.NewCatalogInsightService(app.logger, app.cfg.ReferenceYear)
	report := insights.Generate(products)
	return render(os.Stdout, c.String("format"), report, func() { insights.Print(os.Stdout, report) })
}

func compareCommand() *cli.Command {
	return &cli.Command{
		Name:      "compare",
		Usage:     "Compare dataset models by name",
		ArgsUsage: "MODEL MODEL [MODEL...]",
		Action:    runCompare,
	}
}

func runCompare(c *cli.Context) error {
	names := c.Args().Slice()
	if len(names) < 2 {
		return fmt.Errorf("compare needs at least two model names, got %d", len(names))
	}
	app := newApplication(c)
	defer app.Close()
	if app.offline {
		return errOffline
	}

	result, err := app.gateway.CompareModels(c.Context, names)
	if err != nil {
		return fmt.Errorf("compare: %w", err)
	}
	format := c.String("format")
	if format == "text" {
		format = "yaml"
	}
	return render(os.Stdout, format, result, nil)
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the estimator and catalog over HTTP",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "addr", Usage: "Listen address (overrides LISTEN_ADDR)"},
		},
		Action: runServe,
	}
}

func runServe(c *cli.Context) error {
	app := newApplication(c)
	defer app.Close()

	addr := app.cfg.ListenAddr
	if c.IsSet("addr") {
		addr = c.String("addr")
	}

	srv := server.New(
		app.predictor(),
		app.recommender(),
		services.NewCatalogInsightService(app.logger, app.cfg.ReferenceYear),
		app.gateway,
		app.logger,
		server.Options{
			ReferenceYear:    app.cfg.ReferenceYear,
			DefaultModelType: app.cfg.DefaultModelType,
			DefaultCurrency:  app.cfg.DefaultCurrency,
		},
	)
	return srv.ListenAndServe(c.Context, addr)
}
