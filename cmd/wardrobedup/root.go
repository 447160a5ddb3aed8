package main

import (
	"os"
	"strings"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "wardrobedup",
	Short: "Detect duplicate garment photos",
	Long: strings.TrimSpace(`
Check image files against a wardrobe backend before uploading them, or scan a
local folder for visually near-duplicate photos.
	`),
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
