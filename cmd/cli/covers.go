package main

import (
	"fmt"
	"net/url"

	"github.com/spf13/cobra"

	"mangascout/internal/search"
)

func newCoversCmd(g *globalFlags) *cobra.Command {
	var legacy bool
	cmd := &cobra.Command{
		Use:   "covers <manga-id>...",
		Short: "Resolve cover file names for manga ids",
		Long: "Resolve cover file names for manga ids. With --legacy the covers are\n" +
			"looked up through GET /cover instead of inline relationships, which is\n" +
			"how older deployments resolved them.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := g.load(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			q := url.Values{}
			for _, id := range args {
				q.Add("ids[]", id)
			}
			q.Set("limit", fmt.Sprint(len(args)))
			if !legacy {
				q.Set("includes[]", "cover_art")
			}

			resp, err := a.Catalog.Search(cmd.Context(), q)
			if err != nil {
				return err
			}

			covers := search.InlineCovers(resp.Data)
			if legacy {
				covers, err = search.LegacyCovers(cmd.Context(), a.Catalog, resp.Data)
				if err != nil {
					return err
				}
			}

			for _, id := range args {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", id, covers[id])
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&legacy, "legacy", false, "use the two-call cover lookup")
	return cmd
}
