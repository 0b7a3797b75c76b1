package main

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aurorax-space/go-aurorax/internal/queryfile"
	"github.com/aurorax-space/go-aurorax/internal/render"
	"github.com/aurorax-space/go-aurorax/pkg/aurorax/sources"
)

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "Browse the data source catalogue",
	Long: `Sources lists the instrument arrays, spacecraft, and event lists known
to AuroraX. Catalogue values are what search criteria blocks filter on:
use this command to find valid programs, platforms, and instrument
types for a query.`,
}

var sourcesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List catalogue entries matching the given filters",
	RunE:  runSourcesList,
}

func runSourcesList(cmd *cobra.Command, args []string) error {
	filters := sources.Filters{}
	filters.Program, _ = cmd.Flags().GetString("program")
	filters.Platform, _ = cmd.Flags().GetString("platform")
	filters.InstrumentType, _ = cmd.Flags().GetString("instrument-type")
	filters.SourceType, _ = cmd.Flags().GetString("source-type")
	filters.Owner, _ = cmd.Flags().GetString("owner")

	c := newClient(cmd)
	list, err := sources.List(context.Background(), c, filters)
	if err != nil {
		return err
	}

	order, _ := cmd.Flags().GetString("order")
	if err := sortSources(list, order); err != nil {
		return err
	}
	if reversed, _ := cmd.Flags().GetBool("reversed"); reversed {
		for i, j := 0, len(list)-1; i < j; i, j = i+1, j-1 {
			list[i], list[j] = list[j], list[i]
		}
	}

	if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
		indent, minify := jsonFlags(cmd)
		return queryfile.WriteJSON(os.Stdout, list, indent, minify)
	}
	render.Sources(os.Stdout, list)
	return nil
}

// sortSources orders the listing by one of its columns. The API returns
// entries in identifier order, which is the default.
func sortSources(list []sources.DataSource, order string) error {
	var less func(a, b sources.DataSource) bool
	switch strings.ToLower(order) {
	case "", "identifier":
		less = func(a, b sources.DataSource) bool { return a.Identifier < b.Identifier }
	case "program":
		less = func(a, b sources.DataSource) bool { return a.Program < b.Program }
	case "platform":
		less = func(a, b sources.DataSource) bool { return a.Platform < b.Platform }
	case "instrument-type", "instrument_type":
		less = func(a, b sources.DataSource) bool { return a.InstrumentType < b.InstrumentType }
	case "source-type", "source_type":
		less = func(a, b sources.DataSource) bool { return a.SourceType < b.SourceType }
	case "display-name", "display_name":
		less = func(a, b sources.DataSource) bool { return a.DisplayName < b.DisplayName }
	default:
		return fmt.Errorf("unknown order column %q", order)
	}
	sort.SliceStable(list, func(i, j int) bool { return less(list[i], list[j]) })
	return nil
}

func init() {
	sourcesListCmd.Flags().String("program", "", "filter by program")
	sourcesListCmd.Flags().String("platform", "", "filter by platform")
	sourcesListCmd.Flags().String("instrument-type", "", "filter by instrument type")
	sourcesListCmd.Flags().String("source-type", "", "filter by source type")
	sourcesListCmd.Flags().String("owner", "", "filter by owner")
	sourcesListCmd.Flags().String("order", "identifier", "order by column: identifier, program, platform, instrument-type, source-type, display-name")
	sourcesListCmd.Flags().Bool("reversed", false, "reverse the ordering")
	sourcesListCmd.Flags().Bool("json", false, "output catalogue entries as JSON")
	sourcesListCmd.Flags().Int("indent", 2, "JSON indentation width")
	sourcesListCmd.Flags().Bool("minify", false, "output minified JSON")

	sourcesCmd.AddCommand(sourcesListCmd)
	rootCmd.AddCommand(sourcesCmd)
}
