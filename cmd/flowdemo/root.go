package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/phanxgames/flowstack"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "flowdemo",
	Short: "flowdemo runs the flowstack card demo",
	Long:  `flowdemo opens a window with a grid of cards that zoom into detail pages, driven by a TOML config and an optional JSON test script.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		verbose, _ := cmd.Flags().GetBool("verbose")
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		flowstack.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "TOML config file (defaults apply when empty)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Log at debug level")
}

// loadConfig reads the --config flag.
func loadConfig(cmd *cobra.Command) (flowstack.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		return flowstack.DefaultConfig(), nil
	}
	return flowstack.LoadConfigFile(path)
}
