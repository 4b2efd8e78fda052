package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/kerbaras/mangagrab/pkg/app"
	"github.com/kerbaras/mangagrab/pkg/config"
	"github.com/kerbaras/mangagrab/pkg/services"
	"github.com/kerbaras/mangagrab/pkg/utils"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	cfg    *config.Config
	logger *logrus.Logger
)

var rootCmd = &cobra.Command{
	Use:   "mangagrab",
	Short: "Download manga chapter images from a comic site",
	Long: `Download every image of a range of chapters, including the sub-chapter
pages linked from each chapter, into a local directory.

Run without a subcommand for the interactive form.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cmd.Flags())
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		logger, err = utils.NewLogger(cfg.Log.Level, cfg.Log.Format, os.Stderr)
		return err
	},
	Run: func(cmd *cobra.Command, args []string) {
		// The TUI owns the terminal
		logger.SetOutput(io.Discard)

		controller := newController()
		err := app.NewApp(controller).Run()
		controller.Close()
		cobra.CheckErr(err)
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("save-dir", "manga_images", "Directory downloaded images are written to")
	flags.IntP("workers", "w", 1, "Concurrent image downloads (1 downloads sequentially)")
	flags.String("log-level", "warn", "Log level (debug, info, warn, error)")
	flags.String("log-format", "text", "Log format (text, json)")

	rootCmd.AddCommand(downloadCmd)
	rootCmd.AddCommand(packCmd)
}

func newController() *services.MangaController {
	return services.NewMangaControllerWithConfig(services.ControllerConfig{
		SaveDir: cfg.SaveDir,
		Workers: cfg.Workers,
		Logger:  logger,
	})
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
