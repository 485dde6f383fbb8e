package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"venueops-sim/internal/logging"
	"venueops-sim/internal/scene"
)

var (
	sceneConfigPath string
	sceneName       string
	sceneState      string
	sceneAction     string
	sceneStyle      string
	sceneSeed       int
	sceneLogLevel   string
)

var sceneCmd = &cobra.Command{
	Use:   "scene",
	Short: "Generate a single scene",
	Long:  "scene sends one scene request to the configured model and prints the narration, image prompt and image URL.",
	RunE: func(cmd *cobra.Command, args []string) error {
		level, err := logging.ParseLevel(sceneLogLevel)
		if err != nil {
			return err
		}
		logger := logging.New(level)
		cfg, err := loadConfig(sceneConfigPath, "")
		if err != nil {
			return err
		}
		style := sceneStyle
		if style == "" {
			style = cfg.Venue.StyleGuide
		}

		client := scene.NewClient(cfg.Client)
		out := client.Generate(logging.NewContext(context.Background(), logger), scene.Request{
			SceneName:     sceneName,
			StateSummary:  sceneState,
			ActionSummary: sceneAction,
			StyleGuide:    style,
			Seed:          sceneSeed,
		})
		fmt.Fprintf(os.Stdout, "Model: %s\nText: %s\nImage Prompt: %s\nImage URL: %s\n",
			out.ModelUsed, out.SceneText, out.ImagePrompt, out.ImageURL)
		return nil
	},
}

func init() {
	sceneCmd.Flags().StringVar(&sceneConfigPath, "config", "", "Path to venue configuration YAML")
	sceneCmd.Flags().StringVar(&sceneName, "name", "End of Day Summary", "Scene type")
	sceneCmd.Flags().StringVar(&sceneState, "state", "day=1, cash=18000, reputation=58", "Current state summary")
	sceneCmd.Flags().StringVar(&sceneAction, "action", "Manager walked the floor", "Player action summary")
	sceneCmd.Flags().StringVar(&sceneStyle, "style", "", "Style guide (venue default when empty)")
	sceneCmd.Flags().IntVar(&sceneSeed, "seed", 0, "Image seed (unseeded when 0)")
	sceneCmd.Flags().StringVar(&sceneLogLevel, "log-level", "info", "Log level: debug, info, warn, error")
}
