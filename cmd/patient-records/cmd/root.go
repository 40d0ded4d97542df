package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"patient-records/internal/app"
	"patient-records/internal/config"
	"patient-records/internal/logger"
)

// env holds what PersistentPreRunE resolved for the running command.
type env struct {
	cfg    config.Config
	logger *logger.ZerologAdapter
	closer io.Closer
}

func NewRoot(ctx context.Context, version string) *cobra.Command {
	e := &env{}

	cmd := &cobra.Command{
		Use:           "patient-records",
		Short:         "patient and medication records desktop application",
		Long:          "Runs the patient records GUI. Subcommands read the same store without a window.",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return e.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			e.close()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			application, err := app.NewApplication(e.cfg, e.logger)
			if err != nil {
				e.logger.Fatal("Main", err, map[string]interface{}{"data_dir": e.cfg.DataDir})
				return err
			}
			e.logger.Info("Main", "starting application", map[string]interface{}{
				"version": version,
			})
			return application.Run()
		},
	}
	cmd.AddCommand(
		NewVersionCmd(ctx, version),
		NewPatientsCmd(ctx, e),
		NewPatientCmd(ctx, e),
		NewMedicationsCmd(ctx, e),
		NewStatsCmd(ctx, e),
	)

	pf := cmd.PersistentFlags()
	pf.String("env-file", config.DefaultEnvFile, "dotenv file read before the environment (missing file is ignored)")
	pf.String("data-dir", config.DefaultDataDir, "directory holding the record store")
	pf.String("log-level", "info", "log level (debug, info, warn, error)")
	pf.String("log-file", "", "also write JSON logs to this rotated file")
	pf.Bool("json-logs", false, "write JSON log lines instead of console output")
	pf.String("decode-policy", "log", "handling of undecodable records (log, skip, fail)")
	pf.String("font", "", "TTF font used for the interface")
	pf.Bool("fullscreen", true, "start the window in full screen")
	return cmd
}

// setup resolves the configuration (defaults, .env, environment, then flags
// that were set explicitly) and builds the logger on stderr.
func (e *env) setup(cmd *cobra.Command) error {
	fs := cmd.Flags()

	envFile, _ := fs.GetString("env-file")
	cfg, err := config.Load(envFile)
	if err != nil {
		return err
	}

	if fs.Changed("data-dir") {
		cfg.DataDir, _ = fs.GetString("data-dir")
	}
	if fs.Changed("log-level") {
		cfg.LogLevel, _ = fs.GetString("log-level")
	}
	if fs.Changed("log-file") {
		cfg.LogFile, _ = fs.GetString("log-file")
	}
	if fs.Changed("json-logs") {
		cfg.JSONLogs, _ = fs.GetBool("json-logs")
	}
	if fs.Changed("decode-policy") {
		cfg.DecodePolicy, _ = fs.GetString("decode-policy")
	}
	if fs.Changed("font") {
		cfg.FontPath, _ = fs.GetString("font")
	}
	if fs.Changed("fullscreen") {
		cfg.Fullscreen, _ = fs.GetBool("fullscreen")
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	opts, err := cfg.LoggerOptions()
	if err != nil {
		return err
	}
	opts.Writer = cmd.ErrOrStderr()

	e.cfg = cfg
	e.logger, e.closer = logger.New(opts)
	e.logger.Debug("Main", "configuration resolved", map[string]interface{}{
		"data_dir":      cfg.DataDir,
		"log_level":     cfg.LogLevel,
		"decode_policy": cfg.DecodePolicy,
	})
	return nil
}

func (e *env) close() {
	if e.closer != nil {
		e.closer.Close()
	}
}

func NewVersionCmd(ctx context.Context, version string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "version of this build",
		Long:  "version of this build",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version)
		},
	}
	return cmd
}
