package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/vibhansa-msft/mmapalloc"
)

var (
	verbose bool
	quiet   bool
	jsonOut bool

	// backendCfg is read from the environment once per invocation, before
	// any subcommand runs.
	backendCfg mmapalloc.Config

	// loadConfig is swapped in tests.
	loadConfig = mmapalloc.LoadConfig
)

var rootCmd = &cobra.Command{
	Use:   "mmapprobe",
	Short: "Probe the mmap-backed allocator on this machine",
	Long: `mmapprobe maps anonymous memory through the mmapalloc backend and reports
what the OS did with it: page size, alignment, resident memory before and after
touching the pages, whether resize moved the mapping and whether release gave
the memory back.

Backend settings are read from MMAPALLOC_* environment variables.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setupBackend()
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.BoolVarP(&verbose, "verbose", "v", false, "Print mapping details and enable debug logging")
	flags.BoolVarP(&quiet, "quiet", "q", false, "Print errors only")
	flags.BoolVar(&jsonOut, "json", false, "Print the report as JSON")
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		printError("%v\n", err)
		os.Exit(1)
	}
}

// setupBackend loads MMAPALLOC_* into backendCfg and applies its log level.
// --verbose raises the level to debug.
func setupBackend() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := mmapalloc.Configure(cfg); err != nil {
		return err
	}
	backendCfg = cfg
	if verbose {
		mmapalloc.Logger().SetLevel(logrus.DebugLevel)
	}
	return nil
}

// printInfo writes normal command output; --quiet drops it.
func printInfo(format string, args ...interface{}) {
	if quiet {
		return
	}
	fmt.Fprintf(os.Stdout, format, args...)
}

func printError(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "mmapprobe: "+format, args...)
}

// printVerbose writes detail lines, shown only with --verbose.
func printVerbose(format string, args ...interface{}) {
	if !verbose {
		return
	}
	printInfo(format, args...)
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
