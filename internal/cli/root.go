// Package cli implements the hatchctl command: a small host binary that
// exercises the hatchery spawning library end to end and inspects its spawn
// bookkeeping.
package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/strutlabs/hatchery"
	"github.com/strutlabs/hatchery/internal/config"
)

var (
	cfgDir  string
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "hatchctl",
	Short: "Hatchctl - spawn and inspect hatchery worker processes",
	Long: `Hatchctl is the demo host for the hatchery library. It registers a few
worker entry points, spawns them as separate OS processes, and records every
spawn in a local bookkeeping database.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(), after hatchery.CheckEntryPoint.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgDir, "config-dir", "", "config directory (default is $HOME/.hatchery)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	viper.BindPFlag("config-dir", rootCmd.PersistentFlags().Lookup("config-dir"))
	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

// loadConfig resolves the effective configuration and, when verbose, turns on
// console logging for the library.
func loadConfig() (*config.Config, error) {
	cfg, err := config.NewLoader(cfgDir).Load()
	if err != nil {
		return nil, err
	}
	if verbose {
		out := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
		hatchery.SetLogger(zerolog.New(out).With().Timestamp().Str("app", "hatchctl").Logger())
	}
	return cfg, nil
}
