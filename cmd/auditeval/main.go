// Package main is the entry point for the auditeval CLI
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/su1ph3r/auditeval/pkg/types"
)

var (
	version = "0.1.0"
	cfgFile string
	config  *types.Config
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "auditeval",
	Short: "auditeval - score security audit findings against known vulnerabilities",
	Long: `auditeval compares the findings a security audit produced for each benchmark
against the benchmark's known vulnerabilities, and reports recall, extra
findings, false positives and a letter grade.

Each benchmark is a directory holding expected.json (the known
vulnerabilities) and results.json (the audit findings). Runs can be appended
to a history file to track progress over time.`,
	Version:           version,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long:  `View and modify auditeval configuration settings`,
	// config subcommands must work even when the stored config is invalid
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
}

var configSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		viper.Set(args[0], args[1])
		if err := viper.WriteConfig(); err != nil {
			// No config file yet
			return viper.SafeWriteConfig()
		}
		return nil
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get [key]",
	Short: "Get a configuration value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintln(cmd.OutOrStdout(), viper.Get(args[0]))
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show all configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, k := range viper.AllKeys() {
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %v\n", k, viper.Get(k))
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.auditeval.yaml)")
	rootCmd.PersistentFlags().String("benchmarks", "", "Directory containing one subdirectory per benchmark")
	rootCmd.PersistentFlags().String("history-file", "", "Run history file")
	rootCmd.PersistentFlags().String("version-tag", "", "Version tag recorded with saved runs")
	rootCmd.PersistentFlags().Bool("no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().String("log-level", "", "Diagnostic log level (trace, debug, info, warn, error, disabled)")

	// Add commands
	rootCmd.AddCommand(scoreCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configShowCmd)
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
		viper.SetConfigName(".auditeval")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("AUDITEVAL")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	// A missing config file is fine; defaults apply
	_ = viper.ReadInConfig()
}

// setup loads the configuration, applies global flags and attaches a logger
// to the command context.
func setup(cmd *cobra.Command, args []string) error {
	config = types.DefaultConfig()
	if err := viper.Unmarshal(config); err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	updateConfigFromGlobalFlags(cmd)

	if !config.Output.Color {
		color.NoColor = true
	}

	if err := types.ValidateConfig(config); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger := newLogger(config.Log.Level, color.NoColor)
	if f := viper.ConfigFileUsed(); f != "" {
		logger.Debug().Str("file", f).Msg("using config file")
	}
	cmd.SetContext(logger.WithContext(cmd.Context()))
	return nil
}

func updateConfigFromGlobalFlags(cmd *cobra.Command) {
	if v, _ := cmd.Flags().GetString("benchmarks"); v != "" {
		config.BenchmarksDir = v
	}
	if v, _ := cmd.Flags().GetString("history-file"); v != "" {
		config.HistoryFile = v
	}
	if v, _ := cmd.Flags().GetString("version-tag"); v != "" {
		config.VersionTag = v
	}
	if v, _ := cmd.Flags().GetBool("no-color"); v {
		config.Output.Color = false
	}
	if v, _ := cmd.Flags().GetString("log-level"); v != "" {
		config.Log.Level = v
	}
}

// newLogger builds the diagnostic logger. Diagnostics go to stderr so report
// output on stdout stays clean.
func newLogger(level string, noColor bool) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.WarnLevel
	}

	out := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		NoColor:    noColor,
		TimeFormat: time.Kitchen,
	}
	return zerolog.New(out).Level(lvl).With().Timestamp().Logger()
}

// Printing functions

func printInfo(format string, args ...interface{}) {
	color.Cyan("[*] "+format, args...)
}

func printSuccess(format string, args ...interface{}) {
	color.Green("[+] "+format, args...)
}

func printWarning(format string, args ...interface{}) {
	color.Yellow("[!] "+format, args...)
}

func printError(format string, args ...interface{}) {
	color.Red("[-] "+format, args...)
}
