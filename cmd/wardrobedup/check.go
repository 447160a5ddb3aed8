package main

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"

	wardrobedup "github.com/anatolykoptev/go-wardrobedup"
	"github.com/spf13/cobra"
)

var (
	checkUploadURL    string
	checkSignatureURL string
	checkItemsURL     string
	checkToken        string
	checkLocal        bool
)

var checkCmd = &cobra.Command{
	Use:   "check [files...]",
	Short: "Check image files against the wardrobe for duplicates",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		token := checkToken
		if token == "" {
			token = os.Getenv("WARDROBE_TOKEN")
		}

		cfg := &wardrobedup.Config{
			UploadURL:     checkUploadURL,
			SignatureURL:  checkSignatureURL,
			ItemsURL:      checkItemsURL,
			Token:         token,
			LocalBackfill: checkLocal,
		}

		ctx := cmd.Context()
		items := cfg.ListItems(ctx)
		fmt.Fprintf(cmd.OutOrStdout(), "wardrobe: %d item(s)\n", len(items))

		batch := cfg.NewBatch(items)
		for _, path := range args {
			data, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			file := wardrobedup.CandidateFile{
				Name: filepath.Base(path),
				Size: int64(len(data)),
				Type: mime.TypeByExtension(filepath.Ext(path)),
				Data: data,
			}
			v := batch.Check(ctx, file)
			switch {
			case v.Duplicate:
				fmt.Fprintf(cmd.OutOrStdout(), "%s: duplicate of %s (%s)\n", path, v.MatchedID, v.Method)
			case v.Degraded:
				fmt.Fprintf(cmd.OutOrStdout(), "%s: unique (filename-only check)\n", path)
			default:
				fmt.Fprintf(cmd.OutOrStdout(), "%s: unique\n", path)
			}
		}

		if updates := batch.Updates(); len(updates) > 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "backfilled %d item signature(s)\n", len(updates))
		}
		return nil
	},
}

func init() {
	checkCmd.Flags().StringVar(&checkUploadURL, "upload-url", "", "upload endpoint")
	checkCmd.Flags().StringVar(&checkSignatureURL, "signature-url", "", "hash/metadata endpoint")
	checkCmd.Flags().StringVar(&checkItemsURL, "items-url", "", "wardrobe listing endpoint")
	checkCmd.Flags().StringVar(&checkToken, "token", "", "bearer token (or WARDROBE_TOKEN)")
	checkCmd.Flags().BoolVar(&checkLocal, "local-backfill", false, "hash reference images locally when the backend cannot")
	rootCmd.AddCommand(checkCmd)
}
