package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"mangascout/internal/app"
	"mangascout/pkg/logging"
	"mangascout/pkg/utils"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type globalFlags struct {
	config   string
	logLevel string
}

func newRootCmd() *cobra.Command {
	g := &globalFlags{}
	root := &cobra.Command{
		Use:           "mangascout",
		Short:         "Search MangaDex with MyAnimeList filters from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&g.config, "config", "", "optional yaml config file")
	root.PersistentFlags().StringVar(&g.logLevel, "log-level", "", "override log level")

	root.AddCommand(newTagsCmd(g), newSearchCmd(g), newCoversCmd(g))
	return root
}

// load builds the application from config. Logs go to stderr so stdout
// stays parseable.
func (g *globalFlags) load(ctx context.Context) (*app.App, error) {
	cfg, err := utils.LoadConfig(g.config)
	if err != nil {
		return nil, err
	}
	level := cfg.Log.Level
	if g.logLevel != "" {
		level = g.logLevel
	}
	log := logging.New(logging.Config{Level: level, Format: "console", Output: os.Stderr})
	return app.New(ctx, cfg, log)
}

func newTagsCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "tags",
		Short: "List every tag name",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := g.load(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			for _, name := range a.Tags.Names() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}
