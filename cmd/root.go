package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/mj1618/owl-recorder/internal/config"
	"github.com/mj1618/owl-recorder/internal/observability"
	"github.com/mj1618/owl-recorder/internal/output"
	"github.com/mj1618/owl-recorder/internal/version"
)

var (
	cfgFile string
	cfg     *config.Config
	format  output.Format
)

var rootCmd = &cobra.Command{
	Use:   "owl-recorder",
	Short: "Convert Chrome DevTools recordings into Owloops tests",
	Long: `owl-recorder converts user flows exported from the Chrome DevTools Recorder
into Owloops JSON action lists, from the command line or as MCP tools.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and exits 1 on failure.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if observability.Initialized() {
			observability.GetLogger().Error("Command execution failed", zap.Error(err))
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		observability.Sync()
		stop()
		os.Exit(1)
	}
	observability.Sync()
}

func init() {
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", version.Version, version.Commit, version.BuildDate)
	rootCmd.PersistentPreRunE = initialize
	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&cfgFile, "config", "c", "", "config file (default is ./owl-recorder.yaml)")
	flags.String("format", "yaml", "Summary format: yaml, json, table")
	flags.String("log-level", "", "Log level: debug, info, warn, error")
}

// initialize loads configuration and sets up logging before any command.
func initialize(cmd *cobra.Command, _ []string) error {
	f, err := output.ParseFormat(rootCmd.PersistentFlags().Lookup("format").Value.String())
	if err != nil {
		return err
	}
	format = f

	v := viper.New()
	if err := bindFlags(v); err != nil {
		return err
	}
	loaded, err := config.Load(v, cfgFile)
	if err != nil {
		observability.InitializeLogger(config.Default().Logger)
		return err
	}
	cfg = loaded

	observability.InitializeLogger(cfg.Logger)
	observability.GetLogger().Debug("configuration loaded",
		zap.String("command", cmd.Name()),
		zap.String("version", version.Version),
		zap.String("config_file", v.ConfigFileUsed()),
	)
	return nil
}

// flagKeys maps configuration keys to the flags that override them.
var flagKeys = []struct {
	key  string
	cmd  *cobra.Command
	name string
}{
	{"logger.level", rootCmd, "log-level"},
	{"convert.output_dir", convertCmd, "output"},
	{"convert.fallback_output_dir", convertCmd, "fallback-output"},
	{"convert.selector_attribute", convertCmd, "selector-attribute"},
	{"convert.concurrency", convertCmd, "concurrency"},
	{"server.transport", serveCmd, "transport"},
	{"server.port", serveCmd, "port"},
	{"server.cache_ttl", serveCmd, "cache-ttl"},
}

// bindFlags binds command-line flags onto a fresh viper so each run starts
// from defaults.
func bindFlags(v *viper.Viper) error {
	for _, fk := range flagKeys {
		flag := fk.cmd.PersistentFlags().Lookup(fk.name)
		if flag == nil {
			flag = fk.cmd.Flags().Lookup(fk.name)
		}
		if err := v.BindPFlag(fk.key, flag); err != nil {
			return fmt.Errorf("bind --%s: %w", fk.name, err)
		}
	}
	return nil
}
