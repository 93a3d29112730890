package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jamesainslie/drill/cmd/drill/tui"
	"github.com/jamesainslie/drill/pkg/drill/config"
	"github.com/jamesainslie/drill/pkg/drill/coordinator"
	"github.com/jamesainslie/drill/pkg/drill/logging"
	"github.com/jamesainslie/drill/pkg/drill/output"
	"github.com/jamesainslie/drill/pkg/drill/rootset"
	"github.com/jamesainslie/drill/pkg/drill/scanner"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// runScan is the main scan command handler.
func runScan(_ *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	paths, err := resolveRoots(args, cfg.Roots)
	if err != nil {
		return err
	}

	// Determine output mode
	noInteractive := viper.GetBool("no_interactive")
	outFormat := viper.GetString("output")
	if viper.GetBool("json") {
		outFormat = "json"
	}
	if outFormat == "" {
		outFormat = "pretty"
	}

	// If output format is explicitly set (not default), force non-interactive mode
	if outFormat != "pretty" {
		noInteractive = true
	}

	closeLog, err := initLogging(cfg, !noInteractive)
	if err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	defer closeLog()

	initial, err := rootset.New(paths)
	if err != nil {
		return err
	}
	printVerbose("Scanning %d root(s): %v", initial.Len(), paths)

	scan, err := scanner.New(scanner.DefaultOptions())
	if err != nil {
		return err
	}
	coord, err := coordinator.New(initial, coordinator.Options{
		Advancer:      scan,
		CommandBuffer: cfg.CommandBuffer,
		RetryInitial:  cfg.Retry.Initial,
		RetryMax:      cfg.Retry.Max,
	})
	if err != nil {
		return err
	}

	if noInteractive {
		formatter, err := output.Get(outFormat)
		if err != nil {
			return fmt.Errorf("unknown output format %q: available formats are %v", outFormat, output.Available())
		}
		return runReport(context.Background(), os.Stdout, coord, scan.Listed, reportOptions{
			Formatter: formatter,
			Timeout:   viper.GetDuration("timeout"),
			Verify:    viper.GetBool("verify"),
		})
	}

	return runInteractive(coord, scan.Listed, cfg.Refresh)
}

// runInteractive runs the coordinator in the background and the TUI in the
// foreground until the user quits.
func runInteractive(coord *coordinator.Coordinator, listed func() int64, refresh time.Duration) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		_ = coord.Run(ctx)
	}()

	err := tui.Run(ctx, coord, tui.Options{
		Refresh: refresh,
		Listed:  listed,
	})
	cancel()
	<-coord.Done()

	if errors.Is(err, tea.ErrProgramKilled) {
		return nil
	}
	return err
}

// resolveRoots picks the command line paths over the configured ones and
// expands ~ in each. Canonicalization happens when the root set is built.
func resolveRoots(args, configured []string) ([]string, error) {
	paths := args
	if len(paths) == 0 {
		paths = configured
	}
	if len(paths) == 0 {
		paths = []string{config.DefaultRoot}
	}

	resolved := make([]string, 0, len(paths))
	for _, p := range paths {
		expanded, err := config.ExpandPath(p)
		if err != nil {
			return nil, fmt.Errorf("failed to expand path %s: %w", p, err)
		}
		if _, err := os.Stat(expanded); err != nil {
			if os.IsNotExist(err) {
				return nil, fmt.Errorf("path does not exist: %s", expanded)
			}
			return nil, fmt.Errorf("cannot access path: %w", err)
		}
		resolved = append(resolved, expanded)
	}
	return resolved, nil
}

// initLogging starts file logging from cfg. In TUI mode stderr stays quiet
// and warnings are kept for the status line instead.
func initLogging(cfg *config.Config, tuiMode bool) (func(), error) {
	logCfg, err := cfg.Logging.LogConfig()
	if err != nil {
		return nil, err
	}
	logCfg.TUIMode = tuiMode

	switch {
	case getVerbose():
		logCfg.ConsoleLevel = "debug"
	case !getQuiet():
		logCfg.ConsoleLevel = "warn"
	}

	if err := logging.Init(logCfg); err != nil {
		return nil, err
	}
	return func() { _ = logging.Close() }, nil
}

// signalContext returns a context cancelled on SIGINT, SIGTERM or, when
// timeout is positive, after timeout.
func signalContext(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	if timeout <= 0 {
		return ctx, stop
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	return ctx, func() {
		cancel()
		stop()
	}
}
