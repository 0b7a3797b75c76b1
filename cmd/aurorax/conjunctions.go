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

var conjunctionsCmd = &cobra.Command{
	Use:   "conjunctions",
	Short: "Search for conjunctions between data sources",
	Long: `Conjunctions finds moments where ground instruments, spacecraft, and
event lists were within a maximum distance of one another. Searches run
asynchronously on the AuroraX engine: submit a query, poll its status,
then retrieve the result records.`,
}

// --- search ---

var conjunctionsSearchCmd = &cobra.Command{
	Use:   "search [infile]",
	Short: "Submit a conjunction search from a query file",
	Long: `Search submits the conjunction query in infile (JSON, or YAML by
extension), waits for the engine to finish, and writes the result
records. Use --no-wait to submit and exit immediately; the request ID is
recorded in the search history either way.`,
	Args: cobra.ExactArgs(1),
	RunE: runConjunctionsSearch,
}

func runConjunctionsSearch(cmd *cobra.Command, args []string) error {
	var q search.ConjunctionQuery
	if err := queryfile.Load(args[0], &q); err != nil {
		return err
	}

	c := newClient(cmd)
	s := search.NewConjunctionFromQuery(c, q)
	if err := s.Execute(context.Background()); err != nil {
		return err
	}

	built := s.BuildQuery()
	return finishSearch(cmd, c, &s.Request, built,
		built.Start.Format(search.TimeLayout), built.End.Format(search.TimeLayout))
}

// --- resubmit ---

var conjunctionsResubmitCmd = &cobra.Command{
	Use:   "resubmit [request_id]",
	Short: "Run a past conjunction search again",
	Long: `Resubmit fetches the query echoed in the request's status snapshot and
submits it as a fresh search. The request ID may be an unexpired handle
from any client, not only ones in the local history.`,
	Args: cobra.ExactArgs(1),
	RunE: runConjunctionsResubmit,
}

func runConjunctionsResubmit(cmd *cobra.Command, args []string) error {
	c := newClient(cmd)
	st, err := requests.GetStatus(context.Background(), c,
		c.RequestURL(aurorax.KindConjunction, args[0]))
	if err != nil {
		return err
	}
	if len(st.SearchRequest.Query) == 0 {
		return fmt.Errorf("request %s has no echoed query to resubmit", args[0])
	}
	q, err := search.ParseConjunctionQuery(st.SearchRequest.Query)
	if err != nil {
		return err
	}

	s := search.NewConjunctionFromQuery(c, q)
	if err := s.Execute(context.Background()); err != nil {
		return err
	}

	built := s.BuildQuery()
	return finishSearch(cmd, c, &s.Request, built,
		built.Start.Format(search.TimeLayout), built.End.Format(search.TimeLayout))
}

// --- describe ---

var conjunctionsDescribeCmd = &cobra.Command{
	Use:   "describe [infile]",
	Short: "Translate a conjunction query into the engine's readable form",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var q search.ConjunctionQuery
		if err := queryfile.Load(args[0], &q); err != nil {
			return err
		}
		c := newClient(cmd)
		out, err := search.NewConjunctionFromQuery(c, q).Describe(context.Background())
		if err != nil {
			return err
		}
		fmt.Println(out)
		return nil
	},
}

// --- request handle commands ---

var conjunctionsStatusCmd = &cobra.Command{
	Use:   "status [request_id]",
	Short: "Show the status of a conjunction search request",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runStatus(cmd, aurorax.KindConjunction, args[0])
	},
}

var conjunctionsLogsCmd = &cobra.Command{
	Use:   "logs [request_id]",
	Short: "Show the engine's log lines for a conjunction search request",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runLogs(cmd, aurorax.KindConjunction, args[0])
	},
}

var conjunctionsDataCmd = &cobra.Command{
	Use:   "data [request_id]",
	Short: "Retrieve the result records of a completed conjunction search",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runData(cmd, aurorax.KindConjunction, args[0])
	},
}

var conjunctionsCancelCmd = &cobra.Command{
	Use:   "cancel [request_id]",
	Short: "Ask the engine to stop a conjunction search request",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCancel(cmd, aurorax.KindConjunction, args[0])
	},
}

var conjunctionsQueryCmd = &cobra.Command{
	Use:   "query [request_id]",
	Short: "Show the query a conjunction search request was submitted with",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runShowQuery(cmd, aurorax.KindConjunction, args[0])
	},
}

var conjunctionsTemplateCmd = &cobra.Command{
	Use:   "template",
	Short: "Write an example conjunction query to edit and submit",
	RunE: func(cmd *cobra.Command, args []string) error {
		return writeTemplate(cmd, conjunctionTemplate())
	},
}

func init() {
	addSearchFlags(conjunctionsSearchCmd)
	addSearchFlags(conjunctionsResubmitCmd)
	addOutputFlags(conjunctionsDataCmd)

	conjunctionsStatusCmd.Flags().Bool("json", false, "output the status snapshot as JSON")
	conjunctionsStatusCmd.Flags().Int("indent", 2, "JSON indentation width")
	conjunctionsStatusCmd.Flags().Bool("minify", false, "output minified JSON")
	conjunctionsLogsCmd.Flags().String("level", "", "only show log lines of this level")
	conjunctionsLogsCmd.Flags().Bool("json", false, "output log lines as JSON")
	conjunctionsLogsCmd.Flags().Int("indent", 2, "JSON indentation width")
	conjunctionsLogsCmd.Flags().Bool("minify", false, "output minified JSON")
	conjunctionsCancelCmd.Flags().Bool("wait", false, "wait until the engine confirms a terminal state")
	conjunctionsCancelCmd.Flags().Duration("poll-interval", requests.StandardPollInterval, "delay between status polls")
	conjunctionsQueryCmd.Flags().Int("indent", 2, "JSON indentation width")
	conjunctionsQueryCmd.Flags().Bool("minify", false, "output minified JSON")
	conjunctionsTemplateCmd.Flags().String("outfile", "", "write the template to this file instead of stdout")
	conjunctionsTemplateCmd.Flags().Int("indent", 2, "JSON indentation width")
	conjunctionsTemplateCmd.Flags().Bool("minify", false, "output minified JSON")

	conjunctionsCmd.AddCommand(conjunctionsSearchCmd)
	conjunctionsCmd.AddCommand(conjunctionsResubmitCmd)
	conjunctionsCmd.AddCommand(conjunctionsDescribeCmd)
	conjunctionsCmd.AddCommand(conjunctionsStatusCmd)
	conjunctionsCmd.AddCommand(conjunctionsLogsCmd)
	conjunctionsCmd.AddCommand(conjunctionsDataCmd)
	conjunctionsCmd.AddCommand(conjunctionsCancelCmd)
	conjunctionsCmd.AddCommand(conjunctionsQueryCmd)
	conjunctionsCmd.AddCommand(conjunctionsTemplateCmd)
	rootCmd.AddCommand(conjunctionsCmd)
}
