// Package main provides the CLI entrypoint for wattdash.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/geethikavulli/Electricity-Consumption-Calculation-Dashboard/internal/config"
	"github.com/geethikavulli/Electricity-Consumption-Calculation-Dashboard/internal/dashui"
	"github.com/geethikavulli/Electricity-Consumption-Calculation-Dashboard/internal/dataset"
	"github.com/geethikavulli/Electricity-Consumption-Calculation-Dashboard/internal/logging"
	"github.com/geethikavulli/Electricity-Consumption-Calculation-Dashboard/internal/model"
	"github.com/geethikavulli/Electricity-Consumption-Calculation-Dashboard/internal/source"
)

const (
	defaultDriver    = source.DriverCSV
	defaultDelimiter = ","
	defaultAmbiguity = "error"
	defaultLogLevel  = "info"
	defaultLogFormat = "json"
)

// Exit codes.
const (
	exitGeneric        = 1
	exitSourceNotFound = 2
	exitSchema         = 3
	exitInvalidMetric  = 4
)

var (
	configPath    string
	dataSource    string
	dataDriver    string
	dataTable     string
	dataDelimiter string
	costPerKWh    float64
	deviceName    string
	ambiguityMode string
	logLevel      string
	logFile       string
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	rootCmd := newRootCmd()
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(exitCode(err))
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "wattdash",
		Short:         "Electricity usage dashboard",
		SilenceUsage:  true,
		SilenceErrors: false,
		Args:          cobra.NoArgs,
		RunE:          runDashboardCmd,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configPath, "config", config.DefaultConfigPath(), "config file (.toml or .yaml)")
	flags.StringVar(&dataSource, "source", config.DefaultSourcePath, "csv/sqlite file path or postgres DSN")
	flags.StringVar(&dataDriver, "driver", defaultDriver, "source driver: csv, sqlite or postgres")
	flags.StringVar(&dataTable, "table", "", "table to read for sql drivers")
	flags.StringVar(&dataDelimiter, "delimiter", defaultDelimiter, "csv field delimiter")
	flags.Float64Var(&costPerKWh, "rate", model.DefaultCostPerKWh, "cost per kWh")
	flags.StringVar(&deviceName, "device", model.AllDevices, "device to show, or All")
	flags.StringVar(&ambiguityMode, "ambiguity", defaultAmbiguity, "when several columns match one field: error or last")
	flags.StringVar(&logLevel, "log-level", defaultLogLevel, "log level: debug, info, warn or error")
	flags.StringVar(&logFile, "log-file", config.DefaultLogPath(), "log file (empty disables logging)")

	rootCmd.AddCommand(newSummaryCmd())
	rootCmd.AddCommand(newDevicesCmd())
	rootCmd.AddCommand(newColumnsCmd())
	rootCmd.AddCommand(newExportCmd())
	rootCmd.AddCommand(newPublishCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

func runDashboardCmd(cmd *cobra.Command, _ []string) error {
	sess, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer sess.close()

	m := dashui.NewModel(sess.ds, sess.device)
	program := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run dashboard: %w", err)
	}
	return nil
}

// session is a loaded dataset plus what was resolved to load it.
type session struct {
	fileCfg config.FileConfig
	ds      *dataset.Dataset
	device  string
	logger  *zap.Logger
	flush   func()
}

func (s *session) close() {
	if s.flush != nil {
		s.flush()
	}
}

// openSession layers flags over env over the config file, then loads and
// derives the dataset.
func openSession(cmd *cobra.Command) (*session, error) {
	fileCfg, err := loadFileConfig()
	if err != nil {
		return nil, err
	}
	applySettings(cmd, fileCfg)

	logFormat := defaultLogFormat
	if fileCfg.Log.Format != nil {
		logFormat = *fileCfg.Log.Format
	}
	logger, flush, err := logging.New(logging.Options{Level: logLevel, Format: logFormat, Path: logFile})
	if err != nil {
		return nil, err
	}
	sess := &session{fileCfg: fileCfg, logger: logger, flush: flush}

	delimiter, err := parseDelimiter(dataDelimiter)
	if err != nil {
		sess.close()
		return nil, err
	}
	ambiguity, err := dataset.ParseAmbiguity(ambiguityMode)
	if err != nil {
		sess.close()
		return nil, err
	}

	table, err := source.Load(cmd.Context(), source.Options{
		Driver:    dataDriver,
		Location:  dataSource,
		Table:     dataTable,
		Delimiter: delimiter,
	}, logger)
	if err != nil {
		logger.Error("load failed", zap.Error(err))
		sess.close()
		return nil, err
	}
	ds, err := dataset.Build(table, dataset.Options{
		Resolve: dataset.ResolveOptions{
			Overrides: fileCfg.Columns.Overrides(),
			Ambiguity: ambiguity,
		},
		Rate:   &costPerKWh,
		Logger: logger,
	})
	if err != nil {
		logger.Error("dataset build failed", zap.Error(err))
		sess.close()
		return nil, err
	}
	sess.ds = ds

	device, err := checkDevice(ds, deviceName)
	if err != nil {
		sess.close()
		return nil, err
	}
	sess.device = device
	return sess, nil
}

func loadFileConfig() (config.FileConfig, error) {
	if err := config.LoadDotEnv(".env"); err != nil {
		return config.FileConfig{}, err
	}
	fileCfg, err := config.LoadConfig(configPath)
	if err != nil {
		return config.FileConfig{}, fmt.Errorf("failed to load config: %w", err)
	}
	if err := config.ApplyEnv(&fileCfg, os.LookupEnv); err != nil {
		return config.FileConfig{}, err
	}
	return fileCfg, nil
}

func applySettings(cmd *cobra.Command, fileCfg config.FileConfig) {
	applyStringConfig(cmd, "source", &dataSource, fileCfg.Data.Source)
	applyStringConfig(cmd, "driver", &dataDriver, fileCfg.Data.Driver)
	applyStringConfig(cmd, "table", &dataTable, fileCfg.Data.Table)
	applyStringConfig(cmd, "delimiter", &dataDelimiter, fileCfg.Data.Delimiter)
	applyFloatConfig(cmd, "rate", &costPerKWh, fileCfg.Data.CostPerKWh)
	applyStringConfig(cmd, "ambiguity", &ambiguityMode, fileCfg.Columns.Ambiguity)
	applyStringConfig(cmd, "log-level", &logLevel, fileCfg.Log.Level)
	applyStringConfig(cmd, "log-file", &logFile, fileCfg.Log.File)
}

func parseDelimiter(value string) (rune, error) {
	switch value {
	case "":
		return ',', nil
	case `\t`, "tab":
		return '\t', nil
	}
	if utf8.RuneCountInString(value) != 1 {
		return 0, fmt.Errorf("--delimiter must be a single character, got %q", value)
	}
	r, _ := utf8.DecodeRuneInString(value)
	return r, nil
}

func checkDevice(ds *dataset.Dataset, device string) (string, error) {
	if strings.TrimSpace(device) == "" {
		return model.AllDevices, nil
	}
	for _, s := range ds.Selections() {
		if s == device {
			return device, nil
		}
	}
	return "", fmt.Errorf("unknown device %q (available: %s)", device, strings.Join(ds.Selections(), ", "))
}

func exitCode(err error) int {
	var notFound *source.DataSourceNotFoundError
	var schema *dataset.SchemaDetectionError
	var ambiguous *dataset.AmbiguousColumnError
	var metric *dataset.InvalidMetricInputError
	switch {
	case errors.As(err, &notFound):
		return exitSourceNotFound
	case errors.As(err, &schema), errors.As(err, &ambiguous):
		return exitSchema
	case errors.As(err, &metric):
		return exitInvalidMetric
	default:
		return exitGeneric
	}
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyFloatConfig(cmd *cobra.Command, name string, target, value *float64) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
