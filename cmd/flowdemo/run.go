package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/phanxgames/flowstack"
	"github.com/phanxgames/flowstack/internal/demo"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Open the card demo",
	Long:  `Opens the card demo. With --script, the JSON test script drives clicks, drags and screenshots, and the program exits when it finishes.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDemo(cmd)
	},
}

func init() {
	runCmd.Flags().String("script", "", "JSON test script to play")
	runCmd.Flags().String("screenshots", "screenshots", "Directory for screenshot PNGs")
	runCmd.Flags().String("size-class", "", "Override the size class: auto, compact or regular")
	runCmd.Flags().Int("width", 390, "Window width")
	runCmd.Flags().Int("height", 844, "Window height")
	runCmd.Flags().Bool("debug", false, "Panic on programmer errors")
	runCmd.Flags().Bool("fps", false, "Show FPS")
	runCmd.Flags().Bool("async-snapshot", false, "Capture link snapshots on the next frame")
	rootCmd.AddCommand(runCmd)
}

func runDemo(cmd *cobra.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if sc, _ := flags.GetString("size-class"); sc != "" {
		cfg.SizeClass = strings.ToLower(sc)
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	stack := flowstack.NewStack(cfg)
	debug, _ := flags.GetBool("debug")
	stack.SetDebugMode(debug)
	stack.ScreenshotDir, _ = flags.GetString("screenshots")

	link := flowstack.DefaultLinkConfig()
	link.CornerRadius = 12
	link.ShadowRadius = 8
	link.ShadowColor = &flowstack.Color{A: 0.3}
	link.ShadowOffset = flowstack.Vec2{Y: 4}
	link.AsyncSnapshot, _ = flags.GetBool("async-snapshot")
	demo.Install(stack, demo.DefaultCards(), link)

	var runner *flowstack.TestRunner
	if path, _ := flags.GetString("script"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read script: %w", err)
		}
		runner, err = flowstack.LoadTestScript(data)
		if err != nil {
			return err
		}
		stack.SetTestRunner(runner)
	}

	w, _ := flags.GetInt("width")
	h, _ := flags.GetInt("height")
	fps, _ := flags.GetBool("fps")
	game := &scriptedGame{stack: stack, runner: runner}
	return game.run(flowstack.RunConfig{
		Title:     "flowdemo",
		Width:     w,
		Height:    h,
		Resizable: true,
		ShowFPS:   fps,
	})
}
