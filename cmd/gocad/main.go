package main

import (
	"fmt"
	"os"

	"github.com/philipparndt/gocad/internal/config"
	"github.com/philipparndt/gocad/internal/logging"
	"github.com/philipparndt/gocad/version"
	"github.com/spf13/cobra"
)

var (
	configPath string
	workbench  string
	scriptPath string
	debug      bool

	cfg    config.Config
	logger = logging.Nop()
)

var rootCmd = &cobra.Command{
	Use:   "gocad",
	Short: "Inspect and script parametric CAD workbenches",
	Long: `gocad evaluates the feature history of a workbench: construction planes,
sketches and extrusions. Event scripts drive the same interaction layer as
the desktop editor, so edits can be replayed and exported from the command line.`,
	Version: version.GetFullVersion(),
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.config/gocad/config.toml)")
	rootCmd.PersistentFlags().StringVarP(&workbench, "workbench", "w", "", "workbench to open")
	rootCmd.PersistentFlags().StringVarP(&scriptPath, "script", "s", "", "event script to replay before running the command")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "log debug output to stderr")
}

func initConfig() {
	c, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	cfg = c
	if workbench != "" {
		cfg.Project.Workbench = workbench
	}
	logger = logging.New(os.Stderr, debug || cfg.Log.Debug)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
