package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/geethikavulli/Electricity-Consumption-Calculation-Dashboard/internal/config"
	"github.com/geethikavulli/Electricity-Consumption-Calculation-Dashboard/internal/console"
	"github.com/geethikavulli/Electricity-Consumption-Calculation-Dashboard/internal/export"
	"github.com/geethikavulli/Electricity-Consumption-Calculation-Dashboard/internal/model"
	"github.com/geethikavulli/Electricity-Consumption-Calculation-Dashboard/internal/publisher"
	"github.com/geethikavulli/Electricity-Consumption-Calculation-Dashboard/internal/report"
)

var (
	summaryPlot  bool
	summaryColor bool

	exportFormats []string
	exportDir     string
	exportName    string

	mqttBroker      string
	mqttTopicPrefix string
	mqttQoS         int
	mqttTimeout     time.Duration
)

func newSummaryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print daily series, device totals and the summary line",
		Args:  cobra.NoArgs,
		RunE:  runSummaryCmd,
	}
	cmd.Flags().BoolVar(&summaryPlot, "plot", false, "draw charts under each table")
	cmd.Flags().BoolVar(&summaryColor, "color", false, "force colored charts")
	return cmd
}

func runSummaryCmd(cmd *cobra.Command, _ []string) error {
	sess, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer sess.close()

	rep := report.Build(sess.ds, sess.device)
	opts := report.RenderOptions{Plot: summaryPlot, Color: summaryColor}
	if err := report.Render(cmd.OutOrStdout(), rep, opts); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newDevicesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "devices",
		Short: "List devices with their energy and cost totals",
		Args:  cobra.NoArgs,
		RunE:  runDevicesCmd,
	}
}

func runDevicesCmd(cmd *cobra.Command, _ []string) error {
	sess, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer sess.close()

	out := console.New(cmd.OutOrStdout())
	totals := report.DeviceEnergy(sess.ds)
	if len(totals) == 0 {
		out.Warning("No records in %s", dataSource)
		return nil
	}
	rows := make([][]string, 0, len(totals))
	for _, t := range totals {
		rows = append(rows, []string{report.DeviceLabel(t.Device), report.Fixed2(t.EnergyKWh), report.Money(t.Cost)})
	}
	if err := out.Table([]string{"Device", "Energy (kWh)", "Cost"}, rows); err != nil {
		return err
	}
	all := report.Summarize(sess.ds.Select(model.AllDevices))
	out.Println(fmt.Sprintf("%s devices, %s records, %s kWh, %s",
		humanize.Comma(int64(len(totals))),
		humanize.Comma(int64(all.Records)),
		console.Energy(report.Fixed2(all.EnergyKWh)),
		console.Money(report.Money(all.Cost))))
	return nil
}

func newColumnsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "columns",
		Short: "Show which source columns were mapped to each field",
		Args:  cobra.NoArgs,
		RunE:  runColumnsCmd,
	}
}

func runColumnsCmd(cmd *cobra.Command, _ []string) error {
	sess, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer sess.close()

	out := console.New(cmd.OutOrStdout())
	cols := sess.ds.Columns()
	overrides := sess.fileCfg.Columns.Overrides()
	rows := make([][]string, 0, len(model.Roles))
	for _, role := range model.Roles {
		how := "detected"
		if _, ok := overrides[role]; ok {
			how = "configured"
		}
		rows = append(rows, []string{string(role), cols[role], how})
	}
	if err := out.Table([]string{"Field", "Column", "Source"}, rows); err != nil {
		return err
	}
	if n := sess.ds.InvalidDates(); n > 0 {
		out.Warning("%d record(s) have unparseable dates", n)
	}
	return nil
}

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the report to csv, json, pdf or png files",
		Args:  cobra.NoArgs,
		RunE:  runExportCmd,
	}
	cmd.Flags().StringSliceVar(&exportFormats, "format", []string{string(export.FormatCSV)}, "formats: csv, json, pdf, png or all")
	cmd.Flags().StringVar(&exportDir, "dir", ".", "output directory")
	cmd.Flags().StringVar(&exportName, "name", export.DefaultName, "file name prefix")
	return cmd
}

func runExportCmd(cmd *cobra.Command, _ []string) error {
	sess, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer sess.close()

	applyStringConfig(cmd, "dir", &exportDir, sess.fileCfg.Export.Dir)
	applyStringConfig(cmd, "name", &exportName, sess.fileCfg.Export.Name)
	if !cmd.Flags().Changed("format") && len(sess.fileCfg.Export.Formats) > 0 {
		exportFormats = sess.fileCfg.Export.Formats
	}
	formats, err := export.ParseFormats(exportFormats)
	if err != nil {
		return err
	}

	rep := report.Build(sess.ds, sess.device)
	files, err := export.Export(rep, export.Options{
		Dir:     exportDir,
		Name:    exportName,
		Formats: formats,
		Logger:  sess.logger,
	})
	out := console.New(cmd.OutOrStdout())
	for _, f := range files {
		out.Success("Wrote %s", f)
	}
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}
	return nil
}

func newPublishCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Publish the summary and device totals to an MQTT broker",
		Args:  cobra.NoArgs,
		RunE:  runPublishCmd,
	}
	cmd.Flags().StringVar(&mqttBroker, "broker", "", "broker address, e.g. tcp://localhost:1883")
	cmd.Flags().StringVar(&mqttTopicPrefix, "topic-prefix", publisher.DefaultTopicPrefix, "topic prefix")
	cmd.Flags().IntVar(&mqttQoS, "qos", 0, "MQTT quality of service (0-2)")
	cmd.Flags().DurationVar(&mqttTimeout, "timeout", 10*time.Second, "connect and publish timeout")
	return cmd
}

func runPublishCmd(cmd *cobra.Command, _ []string) error {
	sess, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer sess.close()

	mqttCfg := sess.fileCfg.MQTT
	applyStringConfig(cmd, "broker", &mqttBroker, mqttCfg.Broker)
	applyStringConfig(cmd, "topic-prefix", &mqttTopicPrefix, mqttCfg.TopicPrefix)
	applyIntConfig(cmd, "qos", &mqttQoS, mqttCfg.QoS)
	cfg := publisher.Config{
		Broker:      mqttBroker,
		TopicPrefix: mqttTopicPrefix,
		QoS:         mqttQoS,
		Timeout:     mqttTimeout,
	}
	if mqttCfg.Username != nil {
		cfg.Username = *mqttCfg.Username
	}
	if mqttCfg.Password != nil {
		cfg.Password = *mqttCfg.Password
	}

	pub, err := publisher.New(cfg, sess.logger)
	if err != nil {
		return err
	}
	defer pub.Close()

	rep := report.Build(sess.ds, sess.device)
	n, err := pub.PublishReport(cmd.Context(), rep)
	if err != nil {
		sess.logger.Error("publish failed", zap.Int("published", n), zap.Error(err))
		return fmt.Errorf("publish failed after %d message(s): %w", n, err)
	}
	console.New(cmd.OutOrStdout()).Success("Published %d message(s) to %s", n, cfg.Broker)
	return nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := configPath
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
		logErrf("Created %s\n", path)
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# wattdash configuration
# Uncomment a value to enable it. CLI flags and WATTDASH_* variables override config values.

[data]
# source = %q    # csv/sqlite file path or postgres DSN
# driver = %q                     # csv, sqlite or postgres
# table = "usage"                  # table to read for sql drivers
# delimiter = %q                  # csv field delimiter
# cost-per-kwh = %.2f              # energy rate

[columns]
# Pin a field to a column when detection picks the wrong one.
# date = "Date"
# device = "Device"
# power = "Power_Watts"
# hours = "Hours_Used"
# ambiguity = %q                # error or last

[export]
# dir = "."
# name = %q
# formats = ["csv", "png"]

[mqtt]
# broker = "tcp://localhost:1883"
# topic-prefix = %q
# username = ""
# password = ""
# qos = 0

[log]
# level = %q
# format = %q
# file = %q
`,
		config.DefaultSourcePath,
		defaultDriver,
		defaultDelimiter,
		model.DefaultCostPerKWh,
		defaultAmbiguity,
		export.DefaultName,
		publisher.DefaultTopicPrefix,
		defaultLogLevel,
		defaultLogFormat,
		config.DefaultLogPath(),
	)
}
