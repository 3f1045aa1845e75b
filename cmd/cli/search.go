package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"mangascout/internal/search"
)

type searchFlags struct {
	includes    []string
	excludes    []string
	page        int
	lang        string
	noMAL       bool
	malUser     string
	malMinScore float64
	displayEn   bool
	asJSON      bool
}

func newSearchCmd(g *globalFlags) *cobra.Command {
	f := &searchFlags{}
	cmd := &cobra.Command{
		Use:   "search",
		Short: "Run a gallery search and print the results",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := g.load(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			page, err := a.Search.Run(cmd.Context(), f.criteria(cmd))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if f.asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(page.Cards)
			}

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tMAL\tTITLE\tCOVER")
			for _, c := range page.Cards {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", c.ID, c.MALID, c.Title, c.CoverFile)
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(out, "\n%d results on page %d\n", len(page.Cards), page.Page)
			return nil
		},
	}

	bindSearchFlags(cmd, f)
	return cmd
}

func bindSearchFlags(cmd *cobra.Command, f *searchFlags) {
	fl := cmd.Flags()
	fl.StringArrayVar(&f.includes, "include", nil, "tag name to include (repeatable)")
	fl.StringArrayVar(&f.excludes, "exclude", nil, "tag name to exclude (repeatable)")
	fl.IntVarP(&f.page, "page", "p", 0, "zero-based page index")
	fl.StringVar(&f.lang, "lang", "", "original language code, e.g. ja")
	fl.BoolVar(&f.noMAL, "no-mal", false, "do not require a MyAnimeList link")
	fl.StringVar(&f.malUser, "mal-user", "", "exclude titles on this MAL user's list")
	fl.Float64Var(&f.malMinScore, "mal-min-score", 0, "minimum MAL mean score")
	fl.BoolVar(&f.displayEn, "display-en", false, "prefer English titles")
	fl.BoolVar(&f.asJSON, "json", false, "print JSON")
}

func (f *searchFlags) criteria(cmd *cobra.Command) search.Criteria {
	c := search.Criteria{
		IncludeTags:      f.includes,
		ExcludeTags:      f.excludes,
		Offset:           search.OffsetForPage(f.page),
		OriginalLanguage: f.lang,
		RequireMALLink:   !f.noMAL,
		MALUser:          f.malUser,
		DisplayEn:        f.displayEn,
	}
	if cmd.Flags().Changed("mal-min-score") {
		score := f.malMinScore
		c.MinMALScore = &score
	}
	return c
}
