package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"SalesCast/internal/di"
	domrepo "SalesCast/internal/domain/repository"
	"SalesCast/internal/repository"
	"SalesCast/internal/services/features"
	"SalesCast/internal/usecase"
	"SalesCast/pkg/config"
	xhttp "SalesCast/pkg/http"
	applogger "SalesCast/pkg/logger"

	"github.com/goccy/go-json"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

type fitOptions struct {
	configPath  string
	envFile     string
	source      string
	input       string
	sheet       string
	table       string
	name        string
	artifactDir string
	groupCols   []string
	dropCols    []string
}

type healthOptions struct {
	url     string
	timeout time.Duration
}

type predictOptions struct {
	url     string
	record  string
	timeout time.Duration
}

func newRootCmd() *cobra.Command {
	opts := &fitOptions{}
	root := &cobra.Command{
		Use:   "fit",
		Short: "Fit the AOV preprocessor from historical sales and store it as an artifact",
		Long: `fit reads historical store/date rows from a CSV file, an XLSX workbook or a
ClickHouse table, normalizes them the same way the server does, computes the
grouped Sales/Order means and writes the preprocessor artifact to the
configured artifact store.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runFit(cmd, opts)
		},
	}

	f := root.Flags()
	f.StringVar(&opts.configPath, "config", "config/config.yaml", "config file path")
	f.StringVar(&opts.envFile, "env-file", ".env", "optional dotenv file")
	f.StringVar(&opts.source, "source", "csv", "training source: csv, xlsx or clickhouse")
	f.StringVar(&opts.input, "input", "", "input file for csv/xlsx sources")
	f.StringVar(&opts.sheet, "sheet", "", "xlsx sheet name (default: first sheet)")
	f.StringVar(&opts.table, "table", "", "clickhouse table (default: clickhouse.table from config)")
	f.StringVar(&opts.name, "name", "", "artifact name (default: artifacts.preprocessor from config)")
	f.StringVar(&opts.artifactDir, "artifact-dir", "", "override artifacts.dir")
	f.StringSliceVar(&opts.groupCols, "group-cols", features.DefaultGroupFields, "AOV grouping columns")
	f.StringSliceVar(&opts.dropCols, "drop-cols", features.DefaultDropFields, "columns removed before prediction")

	root.AddCommand(newPredictCmd(), newHealthCmd())
	return root
}

func newPredictCmd() *cobra.Command {
	opts := &predictOptions{}
	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Send one JSON record to a running server and print the answer",
		Example: `  fit predict --record '{"Date": "01-05-2019", "Holiday": 1}'
  fit predict --url http://localhost:5000 --record @record.json`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPredict(cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.url, "url", "http://localhost:5000", "server base URL")
	cmd.Flags().StringVar(&opts.record, "record", "", "JSON object, or @file to read it from a file")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 10*time.Second, "request timeout")
	_ = cmd.MarkFlagRequired("record")
	return cmd
}

func newHealthCmd() *cobra.Command {
	opts := &healthOptions{}
	cmd := &cobra.Command{
		Use:          "health",
		Short:        "Check that a running server has its models loaded",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			client := xhttp.NewClient(opts.url, xhttp.WithTimeout(opts.timeout))
			h, err := client.Health(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "status=%s models_loaded=%t\n", h.Status, h.ModelsLoaded)
			return nil
		},
	}
	cmd.Flags().StringVar(&opts.url, "url", "http://localhost:5000", "server base URL")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 5*time.Second, "request timeout")
	return cmd
}

func runFit(cmd *cobra.Command, opts *fitOptions) error {
	if err := godotenv.Load(opts.envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("env file: %w", err)
	}
	cfg, err := config.LoadWithEnv(opts.configPath)
	if err != nil {
		return err
	}
	if opts.artifactDir != "" {
		cfg.Artifacts.Dir = opts.artifactDir
	}
	name := opts.name
	if name == "" {
		name = cfg.Artifacts.Preprocessor
	}

	l, err := di.ProvideLogger(cfg)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	src, closeSrc, err := openSource(ctx, cfg, opts, l)
	if err != nil {
		return err
	}
	defer closeSrc()

	store, err := di.ProvideArtifactStore(cfg, l)
	if err != nil {
		return err
	}
	defer store.Close()

	start := time.Now()
	res, err := usecase.NewAOVFitter(src, store).Fit(ctx, name, opts.groupCols, opts.dropCols)
	if err != nil {
		l.Error("fit failed", applogger.String("source", opts.source), applogger.Error(err))
		return err
	}
	l.Info("preprocessor fitted",
		applogger.String("artifact", name),
		applogger.Int("rows", res.Rows),
		applogger.Strings("group_cols", res.Table.GroupFields),
		applogger.Float64("global_aov", res.Table.Global),
		applogger.Duration("duration_ms", time.Since(start)),
	)
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s: %d rows, global AOV %.4f\n", name, res.Rows, res.Table.Global)
	return nil
}

func openSource(ctx context.Context, cfg *config.Config, opts *fitOptions, l *applogger.Logger) (domrepo.TrainingSource, func(), error) {
	noop := func() {}
	switch opts.source {
	case "csv":
		if opts.input == "" {
			return nil, noop, errors.New("--input is required for csv")
		}
		return repository.NewCSVTrainingSource(opts.input), noop, nil
	case "xlsx":
		if opts.input == "" {
			return nil, noop, errors.New("--input is required for xlsx")
		}
		return repository.NewXLSXTrainingSource(opts.input, opts.sheet), noop, nil
	case "clickhouse":
		ch, err := di.ProvideClickHouseClient(ctx, cfg)
		if err != nil {
			return nil, noop, err
		}
		table := opts.table
		if table == "" {
			table = cfg.ClickHouse.Table
		}
		src, err := repository.NewCHTrainingSource(ch, table)
		if err != nil {
			_ = ch.Close()
			return nil, noop, err
		}
		src.SetLogger(l)
		return src, func() { _ = ch.Close() }, nil
	default:
		return nil, noop, fmt.Errorf("unknown source %q (want csv, xlsx or clickhouse)", opts.source)
	}
}

func runPredict(cmd *cobra.Command, opts *predictOptions) error {
	raw := opts.record
	if strings.HasPrefix(raw, "@") {
		b, err := os.ReadFile(strings.TrimPrefix(raw, "@"))
		if err != nil {
			return fmt.Errorf("read record: %w", err)
		}
		raw = string(b)
	}
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()
	var record map[string]interface{}
	if err := dec.Decode(&record); err != nil {
		return fmt.Errorf("record must be a JSON object: %w", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	client := xhttp.NewClient(opts.url, xhttp.WithTimeout(opts.timeout))
	out, err := client.Predict(ctx, record)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}
