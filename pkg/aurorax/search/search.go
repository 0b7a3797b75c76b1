// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package search runs asynchronous searches against the AuroraX API.
// Three kinds share one lifecycle: ConjunctionSearch, EphemerisSearch,
// and DataProductsSearch each validate their criteria, submit a query,
// poll for completion, and decode their result records. The kinds differ
// only in query payload and record type; everything else lives on the
// embedded Request engine.
//
// A search walks through three states: unexecuted, executed but pending,
// and completed. Cancellation is orthogonal and cooperative: the engine
// stops at its next checkpoint after the DELETE.
package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/aurorax-space/go-aurorax/pkg/aurorax"
	"github.com/aurorax-space/go-aurorax/pkg/aurorax/requests"
)

// Request carries the lifecycle state shared by all search kinds: the
// submission handle, completion flags, and the latest status snapshot.
// It is embedded in the kind-specific search types and not constructed
// directly.
type Request struct {
	client *aurorax.Client
	kind   aurorax.Kind

	// Executed flips when the API accepts a submission, and stays set.
	Executed bool
	// Completed reports that a status poll saw a data URI.
	Completed bool
	// RequestID is the handle extracted from the submission response.
	RequestID string
	// RequestURL addresses the status endpoint for this request.
	RequestURL string
	// DataURL addresses the result records once completed.
	DataURL string

	// Response is the raw submission exchange, kept for inspection.
	Response *aurorax.Response
	// Status is the latest snapshot, replaced wholesale by every poll.
	Status *requests.Status
	// Logs mirrors the latest snapshot's log lines.
	Logs []requests.LogEntry
}

func newRequest(c *aurorax.Client, kind aurorax.Kind) Request {
	return Request{client: c, kind: kind}
}

// Kind reports which search family this request belongs to.
func (r *Request) Kind() aurorax.Kind { return r.kind }

// submit POSTs the query body and extracts the request handle from the
// response's location header (last path segment). Executed flips as soon
// as the API accepts the submission; a missing or unusable handle is
// then reported as ErrMissingRequestID. Resubmitting overwrites all
// handle state.
func (r *Request) submit(ctx context.Context, query any) error {
	res, err := r.client.Post(ctx, r.client.SearchURL(r.kind), query)
	if err != nil {
		return err
	}

	r.Executed = true
	r.Completed = false
	r.RequestID = ""
	r.RequestURL = ""
	r.DataURL = ""
	r.Response = res
	r.Status = nil
	r.Logs = nil

	if res.StatusCode != http.StatusAccepted {
		return fmt.Errorf("%w: expected HTTP 202, got %d", aurorax.ErrMissingRequestID, res.StatusCode)
	}
	id := lastPathSegment(res.Header.Get("location"))
	if id == "" {
		return fmt.Errorf("%w: no location header on accepted search", aurorax.ErrMissingRequestID)
	}
	r.RequestID = id
	r.RequestURL = r.client.RequestURL(r.kind, id)
	return nil
}

// UpdateStatus fetches a fresh status snapshot and derives completion
// state from it.
func (r *Request) UpdateStatus(ctx context.Context) error {
	if r.RequestURL == "" {
		return fmt.Errorf("%w: no request URL", aurorax.ErrNotExecuted)
	}
	st, err := requests.GetStatus(ctx, r.client, r.RequestURL)
	if err != nil {
		return err
	}
	r.ApplyStatus(st)
	return nil
}

// ApplyStatus ingests an already-fetched snapshot, for callers that
// polled through the requests package themselves. Completion latches:
// once a snapshot carried a data URI the request stays completed.
func (r *Request) ApplyStatus(st *requests.Status) {
	r.Status = st
	r.Logs = st.Logs
	if st.SearchResult.DataURI != nil {
		r.Completed = true
		r.DataURL = r.client.DataURL(*st.SearchResult.DataURI)
	}
}

// CheckForData polls once and reports whether results are ready.
func (r *Request) CheckForData(ctx context.Context) (bool, error) {
	if err := r.UpdateStatus(ctx); err != nil {
		return false, err
	}
	return r.Completed, nil
}

// Wait polls at interval (zero means requests.StandardPollInterval)
// until the engine reports data. Progress, when non-nil, receives one
// timestamped line per poll. Cancel the wait through ctx; a remote
// failure surfaces as ErrSearchFailed.
func (r *Request) Wait(ctx context.Context, interval time.Duration, progress io.Writer) error {
	if r.RequestURL == "" {
		return fmt.Errorf("%w: no request URL", aurorax.ErrNotExecuted)
	}
	st, err := requests.WaitForData(ctx, r.client, r.RequestURL, interval, progress)
	if st != nil {
		r.ApplyStatus(st)
	}
	return err
}

// Cancel asks the engine to stop this request. With wait true it blocks
// until the engine confirms a terminal state.
func (r *Request) Cancel(ctx context.Context, wait bool, interval time.Duration, progress io.Writer) error {
	if r.RequestURL == "" {
		return fmt.Errorf("%w: no request URL", aurorax.ErrNotExecuted)
	}
	if !wait {
		return requests.Cancel(ctx, r.client, r.RequestURL)
	}
	st, err := requests.CancelAndWait(ctx, r.client, r.RequestURL, interval, progress)
	if st != nil {
		r.ApplyStatus(st)
	}
	return err
}

// fetchData retrieves raw records once completed. The boolean reports
// whether a fetch happened: before completion this is a no-op that only
// warns through the client's logger, so callers check completion first.
func (r *Request) fetchData(ctx context.Context, format any) ([]json.RawMessage, bool, error) {
	if !r.Completed {
		log := r.client.Logger()
		log.Warn().Str("request_id", r.RequestID).
			Msg("no data available, update status first")
		return nil, false, nil
	}
	raw, err := requests.GetData(ctx, r.client, r.DataURL, format)
	if err != nil {
		return nil, false, err
	}
	return raw, true, nil
}

// lastPathSegment pulls the request handle out of a location header
// value.
func lastPathSegment(s string) string {
	s = strings.TrimRight(strings.TrimSpace(s), "/")
	if i := strings.LastIndex(s, "/"); i >= 0 {
		return s[i+1:]
	}
	return s
}
