package main

import (
	"fmt"
	"os"

	"github.com/jamesainslie/drill/pkg/drill/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	rootCmd = &cobra.Command{
		Use:   "drill [path...]",
		Short: "Find out where disk space goes, interactively",
		Long: `Drill scans one or more directories incrementally and shows them sorted
by size while the scan is still running.

In the interactive view, split a directory to replace it with its children,
or ignore an entry to drop it from the list. Sizes keep growing until every
directory has been enumerated.

Examples:
  drill                      # Explore the configured roots (default: .)
  drill ~/src /var           # Explore several roots at once
  drill -n ~/Downloads       # Scan to completion and print a report
  drill -n -j -t 30s /       # JSON report, stop after 30 seconds
  drill -n --verify .        # Cross-check sizes with a full walk
  drill config show          # Show configuration`,
		RunE:          runScan,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ~/.config/drill/config.yaml)")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "minimal output")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "debug output")

	rootCmd.Flags().BoolP("no-interactive", "n", false, "disable TUI, print a report when the scan completes")
	rootCmd.Flags().BoolP("json", "j", false, "output JSON format (implies --no-interactive)")
	rootCmd.Flags().StringP("output", "o", "pretty", "report format: pretty, plain, json, yaml")
	rootCmd.Flags().DurationP("timeout", "t", 0, "stop the report scan after this long (0 = no limit)")
	rootCmd.Flags().Bool("verify", false, "cross-check each completed root with a full filesystem walk")

	_ = viper.BindPFlag("quiet", rootCmd.PersistentFlags().Lookup("quiet"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("no_interactive", rootCmd.Flags().Lookup("no-interactive"))
	_ = viper.BindPFlag("json", rootCmd.Flags().Lookup("json"))
	_ = viper.BindPFlag("output", rootCmd.Flags().Lookup("output"))
	_ = viper.BindPFlag("timeout", rootCmd.Flags().Lookup("timeout"))
	_ = viper.BindPFlag("verify", rootCmd.Flags().Lookup("verify"))
}

// initConfig reads in config file and environment variables.
func initConfig() {
	v := viper.GetViper()
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		config.AddConfigPaths(v)
	}
	config.BindEnv(v)
	config.SetDefaults(v)

	// Read config file (ignore if not found)
	if err := v.ReadInConfig(); err == nil {
		printVerbose("Using config file: %s", v.ConfigFileUsed())
	}
}

// loadConfig decodes the merged flag, env and file configuration.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Decode(viper.GetViper())
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Execute runs the root command.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		printError("%v", err)
	}
	return err
}

// getVerbose returns true if verbose mode is enabled.
func getVerbose() bool {
	return viper.GetBool("verbose")
}

// getQuiet returns true if quiet mode is enabled.
func getQuiet() bool {
	return viper.GetBool("quiet")
}

// printVerbose prints a message if verbose mode is enabled.
func printVerbose(format string, args ...interface{}) {
	if getVerbose() && !getQuiet() {
		fmt.Fprintf(os.Stderr, "[DEBUG] "+format+"\n", args...)
	}
}

// printInfo prints a message to stderr if quiet mode is not enabled.
// Stdout is reserved for the report.
func printInfo(format string, args ...interface{}) {
	if !getQuiet() {
		fmt.Fprintf(os.Stderr, format+"\n", args...)
	}
}

// printError prints an error message to stderr.
func printError(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
}
