package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/aurorax-space/go-aurorax/internal/history"
	"github.com/aurorax-space/go-aurorax/internal/queryfile"
	"github.com/aurorax-space/go-aurorax/internal/render"
	"github.com/aurorax-space/go-aurorax/pkg/aurorax"
	"github.com/aurorax-space/go-aurorax/pkg/aurorax/requests"
	"github.com/aurorax-space/go-aurorax/pkg/aurorax/search"
)

// Configuration keys read through viper. Each maps to an AURORAX_*
// environment variable and to the same key in the config file.
const (
	cfgBaseURL         = "base_url"
	cfgAPIKey          = "api_key"
	cfgTimeout         = "timeout"
	cfgRate            = "requests_per_second"
	cfgHistoryPath     = "history_path"
	cfgHistoryDisabled = "history_disabled"
	cfgSecretsDir      = "secrets_dir"
)

const progressStamp = "2006-01-02 15:04:05"

// newClient builds the API client from viper configuration, loaded
// secrets, and the --debug flag.
func newClient(cmd *cobra.Command) *aurorax.Client {
	apiKey := viper.GetString(cfgAPIKey)
	if apiKey == "" {
		apiKey = secretsAPIKey
	}

	cfg := aurorax.Config{
		BaseURL:           viper.GetString(cfgBaseURL),
		APIKey:            apiKey,
		Timeout:           viper.GetDuration(cfgTimeout),
		RequestsPerSecond: viper.GetFloat64(cfgRate),
	}

	if debug, _ := cmd.Root().PersistentFlags().GetBool("debug"); debug {
		logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
			With().Timestamp().Logger().Level(zerolog.DebugLevel)
		cfg.Logger = &logger
	}
	return aurorax.New(cfg)
}

// addOutputFlags registers the flags shared by every command that
// writes result records.
func addOutputFlags(cmd *cobra.Command) {
	cmd.Flags().String("outfile", "", "write output to this file instead of stdout")
	cmd.Flags().Int("indent", 2, "JSON indentation width")
	cmd.Flags().Bool("minify", false, "output minified JSON")
	cmd.Flags().String("response-format", "", "file with a response format shaping the returned records")
}

// addSearchFlags registers the flags shared by search and resubmit.
func addSearchFlags(cmd *cobra.Command) {
	addOutputFlags(cmd)
	cmd.Flags().Bool("no-wait", false, "submit the search and exit without waiting for data")
	cmd.Flags().Duration("poll-interval", requests.StandardPollInterval, "delay between status polls")
}

// finishSearch drives an already-submitted search to its end: records
// it in the history, waits for data unless --no-wait, then retrieves
// and writes the result records.
func finishSearch(cmd *cobra.Command, c *aurorax.Client, req *search.Request, query any, windowStart, windowEnd string) error {
	queryJSON, err := json.Marshal(query)
	if err != nil {
		return fmt.Errorf("encoding query: %w", err)
	}

	entry := history.Entry{
		RequestID:   req.RequestID,
		Kind:        string(req.Kind()),
		SubmittedAt: time.Now().UTC(),
		WindowStart: windowStart,
		WindowEnd:   windowEnd,
		Query:       queryJSON,
	}
	recordHistory(entry)
	fmt.Fprintf(os.Stderr, "[%s] Search request %s submitted\n",
		time.Now().Format(progressStamp), req.RequestID)

	if noWait, _ := cmd.Flags().GetBool("no-wait"); noWait {
		fmt.Fprintf(os.Stderr, "Check on it with: aurorax %s status %s\n", req.Kind(), req.RequestID)
		return nil
	}

	interval, _ := cmd.Flags().GetDuration("poll-interval")
	if err := req.Wait(context.Background(), interval, os.Stderr); err != nil {
		return err
	}

	entry.Completed = true
	if req.Status != nil {
		entry.ResultCount = req.Status.SearchResult.ResultCount
		entry.FileSize = req.Status.SearchResult.FileSize
		if req.Status.SearchResult.DataURI != nil {
			entry.DataURI = *req.Status.SearchResult.DataURI
		}
	}
	recordHistory(entry)

	format, err := loadResponseFormat(cmd)
	if err != nil {
		return err
	}
	records, err := requests.GetData(context.Background(), c, req.DataURL, format)
	if err != nil {
		return err
	}
	summarizeRetrieval(req.Status, len(records))
	return outputRecords(cmd, records)
}

// loadResponseFormat reads the --response-format file when given. The
// nil return means no shaping.
func loadResponseFormat(cmd *cobra.Command) (any, error) {
	path, _ := cmd.Flags().GetString("response-format")
	if path == "" {
		return nil, nil
	}
	var format map[string]any
	if err := queryfile.Load(path, &format); err != nil {
		return nil, err
	}
	return format, nil
}

// jsonFlags reads the shared output formatting flags. Commands without
// an --indent flag fall back to the default indentation.
func jsonFlags(cmd *cobra.Command) (indent int, minify bool) {
	indent, _ = cmd.Flags().GetInt("indent")
	minify, _ = cmd.Flags().GetBool("minify")
	return indent, minify
}

// outputRecords writes result records to --outfile or stdout.
func outputRecords(cmd *cobra.Command, records []json.RawMessage) error {
	outfile, _ := cmd.Flags().GetString("outfile")
	indent, minify := jsonFlags(cmd)

	if outfile == "" {
		return queryfile.WriteJSON(os.Stdout, records, indent, minify)
	}

	// YAML outfiles need plain values, raw JSON would serialize as
	// binary.
	var out any = records
	switch strings.ToLower(filepath.Ext(outfile)) {
	case ".yaml", ".yml":
		encoded, err := json.Marshal(records)
		if err != nil {
			return fmt.Errorf("encoding records: %w", err)
		}
		var plain []any
		if err := json.Unmarshal(encoded, &plain); err != nil {
			return fmt.Errorf("encoding records: %w", err)
		}
		out = plain
	}
	if err := queryfile.Save(outfile, out, indent, minify); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Saved %d records to %s\n", len(records), outfile)
	return nil
}

func summarizeRetrieval(st *requests.Status, records int) {
	size := "an unknown amount"
	count := int64(records)
	if st != nil {
		if st.SearchResult.FileSize != nil && *st.SearchResult.FileSize >= 0 {
			size = humanize.Bytes(uint64(*st.SearchResult.FileSize))
		}
		if st.SearchResult.ResultCount != nil {
			count = *st.SearchResult.ResultCount
		}
	}
	fmt.Fprintf(os.Stderr, "[%s] Retrieved %s of data containing %s records\n",
		time.Now().Format(progressStamp), size, humanize.Comma(count))
}

// --- history plumbing ---

func historyPath() string {
	if path := viper.GetString(cfgHistoryPath); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "aurorax-history.db"
	}
	return filepath.Join(home, ".config", "aurorax", "history.db")
}

func openHistory() (*history.Store, error) {
	return history.Open(historyPath())
}

// recordHistory stores e best-effort. History is a convenience; a
// broken store never fails the search itself.
func recordHistory(e history.Entry) {
	if viper.GetBool(cfgHistoryDisabled) {
		return
	}
	store, err := openHistory()
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: search history unavailable: %v\n", err)
		return
	}
	defer store.Close()
	if err := store.Record(context.Background(), e); err != nil {
		fmt.Fprintf(os.Stderr, "warning: recording search: %v\n", err)
	}
}

// historyView shapes a stored entry for JSON output. The query embeds
// as-is rather than re-encoded as a string.
func historyView(e history.Entry) any {
	return struct {
		RequestID   string          `json:"request_id"`
		Kind        string          `json:"kind"`
		SubmittedAt time.Time       `json:"submitted_at"`
		WindowStart string          `json:"window_start"`
		WindowEnd   string          `json:"window_end"`
		Completed   bool            `json:"completed"`
		ResultCount *int64          `json:"result_count"`
		FileSize    *int64          `json:"file_size"`
		DataURI     string          `json:"data_uri,omitempty"`
		Query       json.RawMessage `json:"query"`
	}{
		RequestID:   e.RequestID,
		Kind:        e.Kind,
		SubmittedAt: e.SubmittedAt,
		WindowStart: e.WindowStart,
		WindowEnd:   e.WindowEnd,
		Completed:   e.Completed,
		ResultCount: e.ResultCount,
		FileSize:    e.FileSize,
		DataURI:     e.DataURI,
		Query:       e.Query,
	}
}

// syncHistory refreshes a recorded entry from a fresh status snapshot,
// if the request is known to the history.
func syncHistory(id string, st *requests.Status) {
	if viper.GetBool(cfgHistoryDisabled) {
		return
	}
	store, err := openHistory()
	if err != nil {
		return
	}
	defer store.Close()

	ctx := context.Background()
	entry, err := store.Get(ctx, id)
	if err != nil {
		return
	}
	entry.Completed = st.SearchResult.Completed()
	entry.ResultCount = st.SearchResult.ResultCount
	entry.FileSize = st.SearchResult.FileSize
	if st.SearchResult.DataURI != nil {
		entry.DataURI = *st.SearchResult.DataURI
	}
	if err := store.Record(ctx, entry); err != nil {
		fmt.Fprintf(os.Stderr, "warning: recording search: %v\n", err)
	}
}

// --- kind-generic request commands ---

func runStatus(cmd *cobra.Command, kind aurorax.Kind, id string) error {
	c := newClient(cmd)
	st, err := requests.GetStatus(context.Background(), c, c.RequestURL(kind, id))
	if err != nil {
		return err
	}
	syncHistory(id, st)

	if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
		indent, minify := jsonFlags(cmd)
		return queryfile.WriteJSON(os.Stdout, st, indent, minify)
	}
	render.Status(os.Stdout, st)
	return nil
}

func runLogs(cmd *cobra.Command, kind aurorax.Kind, id string) error {
	c := newClient(cmd)
	logs, err := requests.GetLogs(context.Background(), c, c.RequestURL(kind, id))
	if err != nil {
		return err
	}

	level, _ := cmd.Flags().GetString("level")
	if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
		indent, minify := jsonFlags(cmd)
		return queryfile.WriteJSON(os.Stdout, filterLogs(logs, level), indent, minify)
	}
	render.Logs(os.Stdout, logs, level)
	return nil
}

func filterLogs(logs []requests.LogEntry, level string) []requests.LogEntry {
	if level == "" {
		return logs
	}
	out := []requests.LogEntry{}
	for _, entry := range logs {
		if strings.EqualFold(entry.Level, level) {
			out = append(out, entry)
		}
	}
	return out
}

func runData(cmd *cobra.Command, kind aurorax.Kind, id string) error {
	c := newClient(cmd)
	ctx := context.Background()

	st, err := requests.GetStatus(ctx, c, c.RequestURL(kind, id))
	if err != nil {
		return err
	}
	syncHistory(id, st)
	if !st.SearchResult.Completed() {
		return fmt.Errorf("request %s has no data yet, check its status or logs", id)
	}

	format, err := loadResponseFormat(cmd)
	if err != nil {
		return err
	}
	records, err := requests.GetData(ctx, c, c.DataURL(*st.SearchResult.DataURI), format)
	if err != nil {
		return err
	}
	summarizeRetrieval(st, len(records))
	return outputRecords(cmd, records)
}

func runCancel(cmd *cobra.Command, kind aurorax.Kind, id string) error {
	c := newClient(cmd)
	ctx := context.Background()
	url := c.RequestURL(kind, id)

	if wait, _ := cmd.Flags().GetBool("wait"); wait {
		interval, _ := cmd.Flags().GetDuration("poll-interval")
		st, err := requests.CancelAndWait(ctx, c, url, interval, os.Stderr)
		if err != nil {
			return err
		}
		syncHistory(id, st)
		fmt.Fprintf(os.Stderr, "Request %s reached a terminal state\n", id)
		return nil
	}

	if err := requests.Cancel(ctx, c, url); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Cancellation requested for %s, the engine stops at its next checkpoint\n", id)
	return nil
}

func runShowQuery(cmd *cobra.Command, kind aurorax.Kind, id string) error {
	c := newClient(cmd)
	st, err := requests.GetStatus(context.Background(), c, c.RequestURL(kind, id))
	if err != nil {
		return err
	}
	if len(st.SearchRequest.Query) == 0 {
		return fmt.Errorf("request %s has no echoed query", id)
	}
	indent, minify := jsonFlags(cmd)
	return queryfile.WriteJSON(os.Stdout, st.SearchRequest.Query, indent, minify)
}

// writeTemplate renders a query template to --outfile or stdout.
func writeTemplate(cmd *cobra.Command, template any) error {
	outfile, _ := cmd.Flags().GetString("outfile")
	indent, minify := jsonFlags(cmd)
	if outfile == "" {
		return queryfile.WriteJSON(os.Stdout, template, indent, minify)
	}
	if err := queryfile.Save(outfile, template, indent, minify); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Saved query template to %s\n", outfile)
	return nil
}
