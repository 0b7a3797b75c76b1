package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aurorax-space/go-aurorax/internal/queryfile"
	"github.com/aurorax-space/go-aurorax/pkg/aurorax"
	"github.com/aurorax-space/go-aurorax/pkg/aurorax/requests"
	"github.com/aurorax-space/go-aurorax/pkg/aurorax/search"
)

var dataProductsCmd = &cobra.Command{
	Use:   "data-products",
	Short: "Search for data product records",
	Long: `Data-products finds derived files such as keograms and movies produced
by the data sources matching a set of criteria over a time window.
Searches run asynchronously on the AuroraX engine: submit a query, poll
its status, then retrieve the result records.`,
}

// --- search ---

var dataProductsSearchCmd = &cobra.Command{
	Use:   "search [infile]",
	Short: "Submit a data product search from a query file",
	Long: `Search submits the data product query in infile (JSON, or YAML by
extension), waits for the engine to finish, and writes the result
records. Use --no-wait to submit and exit immediately; the request ID is
recorded in the search history either way.`,
	Args: cobra.ExactArgs(1),
	RunE: runDataProductsSearch,
}

func runDataProductsSearch(cmd *cobra.Command, args []string) error {
	var q search.FilterQuery
	if err := queryfile.Load(args[0], &q); err != nil {
		return err
	}

	c := newClient(cmd)
	s := search.NewDataProductsFromQuery(c, q)
	if err := s.Execute(context.Background()); err != nil {
		return err
	}

	built := s.BuildQuery()
	return finishSearch(cmd, c, &s.Request, built,
		built.Start.Format(search.TimeLayout), built.End.Format(search.TimeLayout))
}

// --- resubmit ---

var dataProductsResubmitCmd = &cobra.Command{
	Use:   "resubmit [request_id]",
	Short: "Run a past data product search again",
	Long: `Resubmit fetches the query echoed in the request's status snapshot and
submits it as a fresh search. The request ID may be an unexpired handle
from any client, not only ones in the local history.`,
	Args: cobra.ExactArgs(1),
	RunE: runDataProductsResubmit,
}

func runDataProductsResubmit(cmd *cobra.Command, args []string) error {
	c := newClient(cmd)
	st, err := requests.GetStatus(context.Background(), c,
		c.RequestURL(aurorax.KindDataProducts, args[0]))
	if err != nil {
		return err
	}
	if len(st.SearchRequest.Query) == 0 {
		return fmt.Errorf("request %s has no echoed query to resubmit", args[0])
	}
	q, err := search.ParseFilterQuery(st.SearchRequest.Query)
	if err != nil {
		return err
	}

	s := search.NewDataProductsFromQuery(c, q)
	if err := s.Execute(context.Background()); err != nil {
		return err
	}

	built := s.BuildQuery()
	return finishSearch(cmd, c, &s.Request, built,
		built.Start.Format(search.TimeLayout), built.End.Format(search.TimeLayout))
}

// --- request handle commands ---

var dataProductsStatusCmd = &cobra.Command{
	Use:   "status [request_id]",
	Short: "Show the status of a data product search request",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runStatus(cmd, aurorax.KindDataProducts, args[0])
	},
}

var dataProductsLogsCmd = &cobra.Command{
	Use:   "logs [request_id]",
	Short: "Show the engine's log lines for a data product search request",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runLogs(cmd, aurorax.KindDataProducts, args[0])
	},
}

var dataProductsDataCmd = &cobra.Command{
	Use:   "data [request_id]",
	Short: "Retrieve the result records of a completed data product search",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runData(cmd, aurorax.KindDataProducts, args[0])
	},
}

var dataProductsCancelCmd = &cobra.Command{
	Use:   "cancel [request_id]",
	Short: "Ask the engine to stop a data product search request",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCancel(cmd, aurorax.KindDataProducts, args[0])
	},
}

var dataProductsQueryCmd = &cobra.Command{
	Use:   "query [request_id]",
	Short: "Show the query a data product search request was submitted with",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runShowQuery(cmd, aurorax.KindDataProducts, args[0])
	},
}

var dataProductsTemplateCmd = &cobra.Command{
	Use:   "template",
	Short: "Write an example data product query to edit and submit",
	RunE: func(cmd *cobra.Command, args []string) error {
		return writeTemplate(cmd, dataProductsTemplate())
	},
}

func init() {
	addSearchFlags(dataProductsSearchCmd)
	addSearchFlags(dataProductsResubmitCmd)
	addOutputFlags(dataProductsDataCmd)

	dataProductsStatusCmd.Flags().Bool("json", false, "output the status snapshot as JSON")
	dataProductsStatusCmd.Flags().Int("indent", 2, "JSON indentation width")
	dataProductsStatusCmd.Flags().Bool("minify", false, "output minified JSON")
	dataProductsLogsCmd.Flags().String("level", "", "only show log lines of this level")
	dataProductsLogsCmd.Flags().Bool("json", false, "output log lines as JSON")
	dataProductsLogsCmd.Flags().Int("indent", 2, "JSON indentation width")
	dataProductsLogsCmd.Flags().Bool("minify", false, "output minified JSON")
	dataProductsCancelCmd.Flags().Bool("wait", false, "wait until the engine confirms a terminal state")
	dataProductsCancelCmd.Flags().Duration("poll-interval", requests.StandardPollInterval, "delay between status polls")
	dataProductsQueryCmd.Flags().Int("indent", 2, "JSON indentation width")
	dataProductsQueryCmd.Flags().Bool("minify", false, "output minified JSON")
	dataProductsTemplateCmd.Flags().String("outfile", "", "write the template to this file instead of stdout")
	dataProductsTemplateCmd.Flags().Int("indent", 2, "JSON indentation width")
	dataProductsTemplateCmd.Flags().Bool("minify", false, "output minified JSON")

	dataProductsCmd.AddCommand(dataProductsSearchCmd)
	dataProductsCmd.AddCommand(dataProductsResubmitCmd)
	dataProductsCmd.AddCommand(dataProductsStatusCmd)
	dataProductsCmd.AddCommand(dataProductsLogsCmd)
	dataProductsCmd.AddCommand(dataProductsDataCmd)
	dataProductsCmd.AddCommand(dataProductsCancelCmd)
	dataProductsCmd.AddCommand(dataProductsQueryCmd)
	dataProductsCmd.AddCommand(dataProductsTemplateCmd)
	rootCmd.AddCommand(dataProductsCmd)
}
