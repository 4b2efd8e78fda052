package cmd

import (
	"fmt"

	"github.com/kerbaras/mangagrab/pkg/integrations"
	"github.com/kerbaras/mangagrab/pkg/utils"
	"github.com/spf13/cobra"
)

var packCmd = &cobra.Command{
	Use:   "pack",
	Short: "Bundle downloaded chapters into an EPUB",
	Long: `Bundle the images in the save directory into one EPUB with a section per
chapter, in chapter order. --cover-url points at the series page whose
summary image becomes the cover.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		title, _ := cmd.Flags().GetString("title")
		output, _ := cmd.Flags().GetString("output")
		author, _ := cmd.Flags().GetString("author")
		coverURL, _ := cmd.Flags().GetString("cover-url")

		builder := integrations.NewEPubBuilder(output)
		builder.SetAuthor(author)

		if coverURL != "" {
			cover, err := integrations.FetchCover(cmd.Context(), utils.NewHTTPFetcher(), coverURL)
			if err != nil {
				logger.WithError(err).WithField("url", coverURL).Warn("Failed to fetch cover")
				fmt.Println("⚠️  Cover not available, continuing without it")
			} else {
				builder.SetCover(cover)
			}
		}

		fmt.Printf("📚 Packing %s\n", cfg.SaveDir)
		path, err := builder.CreateEPub(title, cfg.SaveDir)
		if err != nil {
			cobra.CheckErr(fmt.Errorf("EPUB generation failed: %w", err))
		}

		fmt.Printf("📖 EPUB created: %s\n", path)
	},
}

func init() {
	packCmd.Flags().StringP("title", "t", "", "Book title")
	packCmd.Flags().StringP("output", "o", ".", "Directory the EPUB is written to")
	packCmd.Flags().StringP("author", "a", "", "Book author")
	packCmd.Flags().String("cover-url", "", "Series page to take the cover image from")
	packCmd.MarkFlagRequired("title")
}
