package main

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/phanxgames/flowstack"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective config as TOML",
	Long:  `Prints the config loaded from --config, or the defaults, in TOML. Redirect it to a file to start a custom config.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if err := toml.NewEncoder(os.Stdout).Encode(cfg); err != nil {
			return fmt.Errorf("encode config: %w", err)
		}
		return nil
	},
}

var easingsCmd = &cobra.Command{
	Use:   "easings",
	Short: "List the easing names accepted by animation.easing",
	Run: func(cmd *cobra.Command, args []string) {
		for _, name := range flowstack.EasingNames() {
			fmt.Println(name)
		}
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(easingsCmd)
}
