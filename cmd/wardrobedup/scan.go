package main

import (
	"bytes"
	"fmt"
	"image"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	wardrobedup "github.com/anatolykoptev/go-wardrobedup"
	"github.com/spf13/cobra"
)

var scanThreshold int

// imageExts are the file extensions considered during a scan. Decoder
// support for these formats comes with the wardrobedup import.
var imageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

var scanCmd = &cobra.Command{
	Use:   "scan [folder]",
	Short: "Find visually near-duplicate images in a folder",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		filter := wardrobedup.NewVisualFilter(scanThreshold)
		duplicates := 0

		err := filepath.WalkDir(args[0], func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() || !imageExts[strings.ToLower(filepath.Ext(path))] {
				return nil
			}

			data, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			img, _, err := image.Decode(bytes.NewReader(data))
			if err != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: undecodable, skipped\n", path)
				return nil
			}
			if filter.Seen(img) {
				duplicates++
				fmt.Fprintf(cmd.OutOrStdout(), "%s: near-duplicate\n", path)
			}
			return nil
		})
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%d near-duplicate(s) found\n", duplicates)
		return nil
	},
}

func init() {
	scanCmd.Flags().IntVar(&scanThreshold, "threshold", 0, "max dHash distance (0 = default)")
	rootCmd.AddCommand(scanCmd)
}
