// Package main implements dbping, a connectivity checker for configured
// data sources. It resolves a source from a YAML config file or the
// environment, builds the dialect's connection descriptor, runs the
// probe and reports the classified outcome.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/exceedzhang/metabase/dialect"
	"github.com/exceedzhang/metabase/dialect/config"

	_ "github.com/exceedzhang/metabase/dialect/mysql"
	_ "github.com/exceedzhang/metabase/dialect/postgres"
	_ "github.com/exceedzhang/metabase/dialect/sqlite"
)

var (
	okMark   = color.New(color.FgGreen, color.Bold)
	failMark = color.New(color.FgRed, color.Bold)
	faint    = color.New(color.Faint)
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", failMark.Sprint("✗"), err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var (
		configPath string
		envFile    string
		envPrefix  string
		timeout    time.Duration
		verbose    bool
	)
	cmd := &cobra.Command{
		Use:   "dbping [source]",
		Short: "Check connectivity to a configured data source",
		Long: `dbping checks that a database is reachable and answers queries.

With a source argument it reads the source's connection settings from the
config file; without one it reads them from the environment using the
variable prefix (MB_DB_DRIVER, MB_DB_HOST and so on). The exit status is
zero only when the probe succeeds.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if verbose {
				slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
					Level: slog.LevelDebug,
				})))
			}
			if envFile != "" {
				if err := config.LoadDotenv(envFile); err != nil {
					return err
				}
			}
			name, src, err := resolveSource(configPath, envPrefix, args)
			if err != nil {
				return err
			}
			return ping(cmd.Context(), name, src, timeout)
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "sources.yaml", "path to the sources config file")
	cmd.Flags().StringVar(&envFile, "env-file", "", "dotenv file to load before reading the environment")
	cmd.Flags().StringVar(&envPrefix, "env-prefix", config.DefaultEnvPrefix, "environment variable prefix for the environment source")
	cmd.Flags().DurationVarP(&timeout, "timeout", "t", 10*time.Second, "probe timeout")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log probe details")

	cmd.AddCommand(newDriversCommand())
	return cmd
}

func newDriversCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "drivers",
		Short: "List registered database dialects",
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range dialect.Drivers() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
		},
	}
}

func resolveSource(configPath, envPrefix string, args []string) (string, config.Source, error) {
	if len(args) == 0 {
		src, err := config.FromEnv(envPrefix)
		if err != nil {
			return "", config.Source{}, err
		}
		if src.Driver == "" {
			return "", config.Source{}, fmt.Errorf("no source named and %s_DRIVER is not set", envPrefix)
		}
		return "environment", src, nil
	}
	cfg, err := config.LoadFile(configPath)
	if err != nil {
		return "", config.Source{}, err
	}
	src, err := cfg.Source(args[0])
	if err != nil {
		return "", config.Source{}, err
	}
	return args[0], src, nil
}

func ping(ctx context.Context, name string, src config.Source, timeout time.Duration) error {
	d, err := src.Dialect()
	if err != nil {
		return err
	}

	spec := d.ConnectionSpec(src.Params())
	spec.Scrub()
	slog.Debug("resolved source",
		"source", name, "driver", d.Name(), "protocol", spec.Protocol, "address", spec.Address)
	for _, p := range spec.Properties {
		slog.Debug("connection property", "key", p.Key, "value", p.Value)
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	ok, err := dialect.CanConnect(ctx, d, src.Params())
	elapsed := time.Since(start).Round(time.Millisecond)
	if err != nil {
		if cat, found := dialect.CategoryOf(err); found {
			return fmt.Errorf("%s: %s %s", name, humanize(cat), faint.Sprintf("(%s)", cat.Kind))
		}
		return fmt.Errorf("%s: %w", name, err)
	}
	if !ok {
		return fmt.Errorf("%s: probe returned an unexpected result", name)
	}
	fmt.Printf("%s %s: connected to %s %s\n",
		okMark.Sprint("✓"), name, spec.Address, faint.Sprintf("(%s, %s)", d.Name(), elapsed))
	return nil
}

// humanize turns an error category into the operator-facing sentence. An
// unclassified category keeps the backend's own words.
func humanize(cat dialect.ErrorCategory) string {
	switch cat.Kind {
	case dialect.KindCannotConnectHostPort:
		return "cannot connect: check the host and port"
	case dialect.KindDatabaseNameIncorrect:
		return "the database name is incorrect"
	case dialect.KindUsernameOrPasswordIncorrect:
		return "the username or password is incorrect"
	case dialect.KindInvalidHostname:
		return "the hostname is invalid"
	}
	return cat.Raw
}
