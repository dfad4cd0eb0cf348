package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/cohesivestack/valgo"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/urfave/cli/v2"

	"github.com/mmynk/lobbygen/internal/config"
	"github.com/mmynk/lobbygen/internal/generator"
	"github.com/mmynk/lobbygen/internal/service"
	"github.com/mmynk/lobbygen/pkg/logging"
)

const envPrefix = "LOBBYGEN_"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := newApp().RunContext(ctx, os.Args); err != nil {
		slog.Error("lobbygen failed", "error", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	cliApp := cli.NewApp()
	cliApp.Name = "lobbygen"
	cliApp.Usage = "Generate mock matchmaking lobbies"
	cliApp.UsageText = "lobbygen [global options] [generate | verify <file>]"

	cliApp.Flags = []cli.Flag{
		&cli.IntFlag{
			Name:    "count",
			Aliases: []string{"n"},
			Value:   config.DefaultCount,
			Usage:   "number of groups to generate",
			EnvVars: envVars("COUNT"),
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Value:   config.DefaultOutput,
			Usage:   "output file, or database file for the sqlite format (append .lz4 to compress)",
			EnvVars: envVars("OUTPUT"),
		},
		&cli.StringFlag{
			Name:    "format",
			Aliases: []string{"f"},
			Usage:   fmt.Sprintf("output format (%s), inferred from the output extension when empty", strings.Join(config.Formats(), ", ")),
			EnvVars: envVars("FORMAT"),
		},
		&cli.Int64Flag{
			Name:    "seed",
			Usage:   "random seed, 0 for a time based seed",
			EnvVars: envVars("SEED"),
		},
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "path to yaml config file",
			EnvVars: envVars("CONFIG"),
		},
		&cli.StringFlag{
			Name:    "database-url",
			Usage:   "postgres connection string for the postgres format",
			EnvVars: envVars("DATABASE_URL"),
		},
		&cli.BoolFlag{
			Name:    "reset",
			Usage:   "empty the postgres tables before loading",
			EnvVars: envVars("RESET"),
		},
		&cli.StringFlag{
			Name:    "metrics-file",
			Usage:   "write generator metrics in Prometheus text format to this file",
			EnvVars: envVars("METRICS_FILE"),
		},
		&cli.StringFlag{
			Name:    "log-level",
			Value:   "info",
			Usage:   fmt.Sprintf("log level (%s)", strings.Join(logging.Levels, ", ")),
			EnvVars: envVars("LOG_LEVEL"),
		},
		&cli.BoolFlag{
			Name:    "log-structured",
			Usage:   "log JSON lines instead of colored text",
			EnvVars: envVars("LOG_STRUCTURED"),
		},
	}

	cliApp.Commands = []*cli.Command{
		{
			Name:   "generate",
			Usage:  "[default] generates groups and writes them to the output",
			Action: generateAction,
		},
		{
			Name:      "verify",
			Usage:     "checks a JSON export or SQLite database for consistency",
			ArgsUsage: "<file>",
			Action:    verifyAction,
		},
	}

	cliApp.DefaultCommand = "generate"
	return cliApp
}

func envVars(name string) []string {
	return []string{envPrefix + name}
}

func generateAction(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	svc := service.NewGenerateService(service.WithMetrics(generator.NewMetrics(reg)))

	res, err := svc.Run(c.Context, cfg)
	if err != nil {
		return err
	}

	if cfg.MetricsFile != "" {
		if err := prometheus.WriteToTextfile(cfg.MetricsFile, reg); err != nil {
			return fmt.Errorf("failed to write metrics file: %w", err)
		}
		slog.Debug("Metrics written", "path", cfg.MetricsFile)
	}

	fmt.Fprintf(c.App.Writer, "Generated %d groups (%d players) to %s\n", res.Groups, res.Players, res.Destination)
	return nil
}

func verifyAction(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	path := c.Args().First()
	exitOnInvalidFlags(c, valgo.Is(valgo.String(path, "file").Not().Blank("Must name the file to verify")))

	res, err := service.Verify(c.Context, path, cfg.Rules())
	if err != nil {
		return err
	}

	fmt.Fprintf(c.App.Writer, "%s: %d groups in %d runs are consistent\n", path, res.Groups, res.Runs)
	return nil
}

// loadConfig reads the config file and applies flags that were set on the
// command line or through the environment, then sets up logging.
func loadConfig(c *cli.Context) (config.Config, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return config.Config{}, err
	}

	if c.IsSet("count") {
		cfg.Count = c.Int("count")
	}
	if c.IsSet("output") {
		cfg.Output.Path = c.String("output")
	}
	if c.IsSet("format") {
		cfg.Output.Format = c.String("format")
	}
	if c.IsSet("seed") {
		cfg.Seed = c.Int64("seed")
	}
	if c.IsSet("database-url") {
		cfg.Output.DatabaseURL = c.String("database-url")
	}
	if c.IsSet("reset") {
		cfg.Output.Reset = c.Bool("reset")
	}
	if c.IsSet("metrics-file") {
		cfg.MetricsFile = c.String("metrics-file")
	}
	if c.IsSet("log-level") {
		cfg.Logger.Level = c.String("log-level")
	}
	if c.IsSet("log-structured") {
		cfg.Logger.Structured = c.Bool("log-structured")
	}

	exitOnInvalidFlags(c, cfg.Validation())
	logging.Setup(cfg.Logger.Level, cfg.Logger.Structured)
	return cfg, nil
}

func exitOnInvalidFlags(c *cli.Context, v *valgo.Validation) {
	if v.ToError() == nil {
		return
	}
	fmt.Fprintln(os.Stderr, "Configuration errors:")

	for _, verr := range v.ToError().(*valgo.Error).Errors() {
		fmt.Fprintf(os.Stderr, "  %s: %s\n", verr.Name(), strings.Join(verr.Messages(), ","))
	}

	fmt.Fprintln(os.Stdout) //nolint:errcheck
	cli.ShowAppHelpAndExit(c, 1)
}
