// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package requests polls and retrieves asynchronous search requests by
// URL. The search package drives these helpers through its lifecycle
// objects; they also work standalone with a request handle obtained
// elsewhere, which is how the CLI serves status and data for stored
// request IDs.
package requests

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aurorax-space/go-aurorax/pkg/aurorax"
)

// StandardPollInterval is the default delay between status polls.
const StandardPollInterval = 1 * time.Second

// Status is one status snapshot of a search request. Pollers replace the
// snapshot wholesale on every fetch; fields the engine adds later are
// ignored, recognized ones are kept verbatim.
type Status struct {
	SearchRequest SearchRequest `json:"search_request"`
	SearchResult  SearchResult  `json:"search_result"`
	Logs          []LogEntry    `json:"logs"`
}

// SearchRequest identifies the submitted request and echoes its query.
// The echoed query is what resubmission parses.
type SearchRequest struct {
	RequestID string          `json:"request_id"`
	Query     json.RawMessage `json:"query,omitempty"`
}

// SearchResult is the outcome portion of a snapshot. DataURI stays null
// until the search completes; ResultCount and FileSize stay null until
// the engine reports them.
type SearchResult struct {
	DataURI        *string `json:"data_uri"`
	ErrorCondition bool    `json:"error_condition"`
	ResultCount    *int64  `json:"result_count"`
	FileSize       *int64  `json:"file_size"`
}

// Completed reports whether the engine has produced a data URI.
func (r SearchResult) Completed() bool { return r.DataURI != nil }

// LogEntry is one line of the server-side execution log.
type LogEntry struct {
	Level     string `json:"level"`
	Timestamp string `json:"timestamp"`
	Message   string `json:"message"`
}

// GetStatus fetches the current status snapshot for requestURL.
func GetStatus(ctx context.Context, c *aurorax.Client, requestURL string) (*Status, error) {
	res, err := c.Get(ctx, requestURL)
	if err != nil {
		return nil, err
	}
	var st Status
	if err := res.Decode(&st); err != nil {
		return nil, err
	}
	return &st, nil
}

// GetLogs returns the log lines recorded for the request so far. A
// snapshot without logs yields an empty slice.
func GetLogs(ctx context.Context, c *aurorax.Client, requestURL string) ([]LogEntry, error) {
	st, err := GetStatus(ctx, c, requestURL)
	if err != nil {
		return nil, err
	}
	if st.Logs == nil {
		return []LogEntry{}, nil
	}
	return st.Logs, nil
}

// GetData retrieves the result records from dataURL. A nil format is a
// plain GET; a non-nil format is POSTed as the request body and the
// records come back shaped accordingly. Records are returned verbatim,
// typed decoding is the search package's concern.
func GetData(ctx context.Context, c *aurorax.Client, dataURL string, format any) ([]json.RawMessage, error) {
	var (
		res *aurorax.Response
		err error
	)
	if format != nil {
		res, err = c.Post(ctx, dataURL, format)
	} else {
		res, err = c.Get(ctx, dataURL)
	}
	if err != nil {
		return nil, err
	}

	var envelope struct {
		Result []json.RawMessage `json:"result"`
	}
	if err := res.Decode(&envelope); err != nil {
		return nil, err
	}
	if envelope.Result == nil {
		return []json.RawMessage{}, nil
	}
	return envelope.Result, nil
}

// WaitForData polls the request status at a fixed interval until the
// engine reports a data URI, then returns the final snapshot. The loop
// stops early when ctx is cancelled (bound it with context.WithTimeout
// for a deadline) or when the engine raises its error condition, which
// surfaces as ErrSearchFailed carrying the latest error log line.
// Progress, when non-nil, receives one timestamped line per poll.
func WaitForData(ctx context.Context, c *aurorax.Client, requestURL string,
	interval time.Duration, progress io.Writer) (*Status, error) {

	if interval <= 0 {
		interval = StandardPollInterval
	}
	if progress == nil {
		progress = io.Discard
	}

	for {
		st, err := GetStatus(ctx, c, requestURL)
		if err != nil {
			return nil, err
		}
		if st.SearchResult.Completed() {
			fmt.Fprintf(progress, "[%s] Data is now available\n", progressStamp())
			return st, nil
		}
		if st.SearchResult.ErrorCondition {
			return st, searchFailure(st)
		}

		fmt.Fprintf(progress, "[%s] Checking for data ...\n", progressStamp())
		select {
		case <-ctx.Done():
			return st, ctx.Err()
		case <-time.After(interval):
		}
	}
}

// Cancel asks the engine to stop the request. The DELETE is
// fire-and-forget: the engine cancels cooperatively at its next
// checkpoint, so the request may keep running for a short while.
func Cancel(ctx context.Context, c *aurorax.Client, requestURL string) error {
	_, err := c.Delete(ctx, requestURL)
	return err
}

// CancelAndWait cancels and then polls until the request reaches a
// terminal state: data URI present, or error condition raised (the
// normal outcome of a cancellation). The terminal snapshot is returned.
func CancelAndWait(ctx context.Context, c *aurorax.Client, requestURL string,
	interval time.Duration, progress io.Writer) (*Status, error) {

	if err := Cancel(ctx, c, requestURL); err != nil {
		return nil, err
	}

	if interval <= 0 {
		interval = StandardPollInterval
	}
	if progress == nil {
		progress = io.Discard
	}

	for {
		st, err := GetStatus(ctx, c, requestURL)
		if err != nil {
			return nil, err
		}
		if st.SearchResult.Completed() || st.SearchResult.ErrorCondition {
			return st, nil
		}

		fmt.Fprintf(progress, "[%s] Waiting for cancellation ...\n", progressStamp())
		select {
		case <-ctx.Done():
			return st, ctx.Err()
		case <-time.After(interval):
		}
	}
}

// searchFailure summarizes a failed search using its latest error log line.
func searchFailure(st *Status) error {
	for i := len(st.Logs) - 1; i >= 0; i-- {
		if strings.EqualFold(st.Logs[i].Level, "error") {
			return fmt.Errorf("%w: %s", aurorax.ErrSearchFailed, st.Logs[i].Message)
		}
	}
	return fmt.Errorf("%w: error condition reported", aurorax.ErrSearchFailed)
}

func progressStamp() string {
	return time.Now().Format("2006-01-02 15:04:05")
}
