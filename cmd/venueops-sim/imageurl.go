package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"venueops-sim/internal/scene"
)

var (
	imageConfigPath string
	imageSeed       int
)

var imageURLCmd = &cobra.Command{
	Use:   "image-url <prompt>",
	Short: "Print the image URL for a prompt",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(imageConfigPath, "")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), scene.BuildImageURL(cfg.Client, strings.Join(args, " "), imageSeed))
		return nil
	},
}

func init() {
	imageURLCmd.Flags().StringVar(&imageConfigPath, "config", "", "Path to venue configuration YAML")
	imageURLCmd.Flags().IntVar(&imageSeed, "seed", scene.Unseeded, "Image seed")
}
