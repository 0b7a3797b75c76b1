// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package render writes status snapshots, request logs, data source
// catalogues, and search history as fixed-width tables. Machine-readable
// output goes through queryfile instead; this package only serves the
// human-facing side of the CLI.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"

	"github.com/aurorax-space/go-aurorax/internal/history"
	"github.com/aurorax-space/go-aurorax/pkg/aurorax/requests"
	"github.com/aurorax-space/go-aurorax/pkg/aurorax/sources"
)

func newTable(w io.Writer) *tablewriter.Table {
	tw := tablewriter.NewWriter(w)
	tw.SetBorder(true)
	tw.SetRowLine(false)
	tw.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	tw.SetAlignment(tablewriter.ALIGN_LEFT)
	tw.SetAutoWrapText(false)
	return tw
}

// Status renders one status snapshot as a field/value table.
func Status(w io.Writer, st *requests.Status) {
	tw := newTable(w)
	tw.SetHeader([]string{"FIELD", "VALUE"})

	completed := "no"
	if st.SearchResult.Completed() {
		completed = "yes"
	}
	errCond := "no"
	if st.SearchResult.ErrorCondition {
		errCond = "yes"
	}

	rows := [][]string{
		{"Request ID", st.SearchRequest.RequestID},
		{"Completed", completed},
		{"Error condition", errCond},
		{"Result count", optionalCount(st.SearchResult.ResultCount)},
		{"File size", optionalSize(st.SearchResult.FileSize)},
		{"Data URI", orDash(stringOrEmpty(st.SearchResult.DataURI))},
		{"Log entries", fmt.Sprintf("%d", len(st.Logs))},
	}
	for _, r := range rows {
		tw.Append(r)
	}
	tw.Render()
}

// Logs renders request log lines, filtered to one level when level is
// non-empty. Level matching is case-insensitive.
func Logs(w io.Writer, logs []requests.LogEntry, level string) {
	tw := newTable(w)
	tw.SetHeader([]string{"LEVEL", "TIMESTAMP", "MESSAGE"})
	tw.SetColWidth(80)
	tw.SetAutoWrapText(true)

	shown := 0
	for _, entry := range logs {
		if level != "" && !strings.EqualFold(entry.Level, level) {
			continue
		}
		tw.Append([]string{entry.Level, entry.Timestamp, entry.Message})
		shown++
	}
	tw.Render()
	if shown == 0 && level != "" {
		fmt.Fprintf(w, "no %s log entries\n", strings.ToLower(level))
	}
}

// Sources renders a data source catalogue listing.
func Sources(w io.Writer, list []sources.DataSource) {
	tw := newTable(w)
	tw.SetHeader([]string{"ID", "PROGRAM", "PLATFORM", "INSTRUMENT TYPE", "SOURCE TYPE", "DISPLAY NAME"})

	for _, src := range list {
		tw.Append([]string{
			fmt.Sprintf("%d", src.Identifier),
			src.Program,
			src.Platform,
			src.InstrumentType,
			src.SourceType,
			truncate(src.DisplayName, 40),
		})
	}
	tw.Render()
	fmt.Fprintf(w, "%d data sources\n", len(list))
}

// History renders recorded searches, newest first as stored.
func History(w io.Writer, entries []history.Entry) {
	tw := newTable(w)
	tw.SetHeader([]string{"REQUEST ID", "KIND", "SUBMITTED", "START", "END", "STATUS", "RECORDS", "SIZE"})

	for _, e := range entries {
		status := "pending"
		if e.Completed {
			status = "completed"
		}
		tw.Append([]string{
			e.RequestID,
			e.Kind,
			humanize.Time(e.SubmittedAt),
			e.WindowStart,
			e.WindowEnd,
			status,
			optionalCount(e.ResultCount),
			optionalSize(e.FileSize),
		})
	}
	tw.Render()
}

func optionalCount(n *int64) string {
	if n == nil {
		return "-"
	}
	return humanize.Comma(*n)
}

func optionalSize(n *int64) string {
	if n == nil || *n < 0 {
		return "-"
	}
	return humanize.Bytes(uint64(*n))
}

func stringOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
