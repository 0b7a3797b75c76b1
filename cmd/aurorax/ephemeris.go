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

var ephemerisCmd = &cobra.Command{
	Use:   "ephemeris",
	Short: "Search for ephemeris location records",
	Long: `Ephemeris retrieves one-minute location records for the data sources
matching a set of criteria over a time window. Searches run
asynchronously on the AuroraX engine: submit a query, poll its status,
then retrieve the result records.`,
}

// --- search ---

var ephemerisSearchCmd = &cobra.Command{
	Use:   "search [infile]",
	Short: "Submit an ephemeris search from a query file",
	Long: `Search submits the ephemeris query in infile (JSON, or YAML by
extension), waits for the engine to finish, and writes the result
records. Use --no-wait to submit and exit immediately; the request ID is
recorded in the search history either way.`,
	Args: cobra.ExactArgs(1),
	RunE: runEphemerisSearch,
}

func runEphemerisSearch(cmd *cobra.Command, args []string) error {
	var q search.FilterQuery
	if err := queryfile.Load(args[0], &q); err != nil {
		return err
	}

	c := newClient(cmd)
	s := search.NewEphemerisFromQuery(c, q)
	if err := s.Execute(context.Background()); err != nil {
		return err
	}

	built := s.BuildQuery()
	return finishSearch(cmd, c, &s.Request, built,
		built.Start.Format(search.TimeLayout), built.End.Format(search.TimeLayout))
}

// --- resubmit ---

var ephemerisResubmitCmd = &cobra.Command{
	Use:   "resubmit [request_id]",
	Short: "Run a past ephemeris search again",
	Long: `Resubmit fetches the query echoed in the request's status snapshot and
submits it as a fresh search. The request ID may be an unexpired handle
from any client, not only ones in the local history.`,
	Args: cobra.ExactArgs(1),
	RunE: runEphemerisResubmit,
}

func runEphemerisResubmit(cmd *cobra.Command, args []string) error {
	c := newClient(cmd)
	st, err := requests.GetStatus(context.Background(), c,
		c.RequestURL(aurorax.KindEphemeris, args[0]))
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

	s := search.NewEphemerisFromQuery(c, q)
	if err := s.Execute(context.Background()); err != nil {
		return err
	}

	built := s.BuildQuery()
	return finishSearch(cmd, c, &s.Request, built,
		built.Start.Format(search.TimeLayout), built.End.Format(search.TimeLayout))
}

// --- request handle commands ---

var ephemerisStatusCmd = &cobra.Command{
	Use:   "status [request_id]",
	Short: "Show the status of an ephemeris search request",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runStatus(cmd, aurorax.KindEphemeris, args[0])
	},
}

var ephemerisLogsCmd = &cobra.Command{
	Use:   "logs [request_id]",
	Short: "Show the engine's log lines for an ephemeris search request",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runLogs(cmd, aurorax.KindEphemeris, args[0])
	},
}

var ephemerisDataCmd = &cobra.Command{
	Use:   "data [request_id]",
	Short: "Retrieve the result records of a completed ephemeris search",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runData(cmd, aurorax.KindEphemeris, args[0])
	},
}

var ephemerisCancelCmd = &cobra.Command{
	Use:   "cancel [request_id]",
	Short: "Ask the engine to stop an ephemeris search request",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCancel(cmd, aurorax.KindEphemeris, args[0])
	},
}

var ephemerisQueryCmd = &cobra.Command{
	Use:   "query [request_id]",
	Short: "Show the query an ephemeris search request was submitted with",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runShowQuery(cmd, aurorax.KindEphemeris, args[0])
	},
}

var ephemerisTemplateCmd = &cobra.Command{
	Use:   "template",
	Short: "Write an example ephemeris query to edit and submit",
	RunE: func(cmd *cobra.Command, args []string) error {
		return writeTemplate(cmd, ephemerisTemplate())
	},
}

func init() {
	addSearchFlags(ephemerisSearchCmd)
	addSearchFlags(ephemerisResubmitCmd)
	addOutputFlags(ephemerisDataCmd)

	ephemerisStatusCmd.Flags().Bool("json", false, "output the status snapshot as JSON")
	ephemerisStatusCmd.Flags().Int("indent", 2, "JSON indentation width")
	ephemerisStatusCmd.Flags().Bool("minify", false, "output minified JSON")
	ephemerisLogsCmd.Flags().String("level", "", "only show log lines of this level")
	ephemerisLogsCmd.Flags().Bool("json", false, "output log lines as JSON")
	ephemerisLogsCmd.Flags().Int("indent", 2, "JSON indentation width")
	ephemerisLogsCmd.Flags().Bool("minify", false, "output minified JSON")
	ephemerisCancelCmd.Flags().Bool("wait", false, "wait until the engine confirms a terminal state")
	ephemerisCancelCmd.Flags().Duration("poll-interval", requests.StandardPollInterval, "delay between status polls")
	ephemerisQueryCmd.Flags().Int("indent", 2, "JSON indentation width")
	ephemerisQueryCmd.Flags().Bool("minify", false, "output minified JSON")
	ephemerisTemplateCmd.Flags().String("outfile", "", "write the template to this file instead of stdout")
	ephemerisTemplateCmd.Flags().Int("indent", 2, "JSON indentation width")
	ephemerisTemplateCmd.Flags().Bool("minify", false, "output minified JSON")

	ephemerisCmd.AddCommand(ephemerisSearchCmd)
	ephemerisCmd.AddCommand(ephemerisResubmitCmd)
	ephemerisCmd.AddCommand(ephemerisStatusCmd)
	ephemerisCmd.AddCommand(ephemerisLogsCmd)
	ephemerisCmd.AddCommand(ephemerisDataCmd)
	ephemerisCmd.AddCommand(ephemerisCancelCmd)
	ephemerisCmd.AddCommand(ephemerisQueryCmd)
	ephemerisCmd.AddCommand(ephemerisTemplateCmd)
	rootCmd.AddCommand(ephemerisCmd)
}
