// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/aurorax-space/go-aurorax/internal/history"
	"github.com/aurorax-space/go-aurorax/pkg/aurorax/requests"
	"github.com/aurorax-space/go-aurorax/pkg/aurorax/sources"
)

func i64(v int64) *int64 { return &v }

func TestStatus(t *testing.T) {
	uri := "/data/out"
	st := &requests.Status{
		SearchRequest: requests.SearchRequest{RequestID: "abc-123"},
		SearchResult: requests.SearchResult{
			DataURI:     &uri,
			ResultCount: i64(1234567),
			FileSize:    i64(2048),
		},
		Logs: []requests.LogEntry{{Level: "info", Message: "search started"}},
	}

	var buf bytes.Buffer
	Status(&buf, st)
	out := buf.String()

	for _, part := range []string{"abc-123", "yes", "/data/out", "1,234,567", "kB"} {
		if !strings.Contains(out, part) {
			t.Errorf("output missing %q:\n%s", part, out)
		}
	}
}

func TestStatusPending(t *testing.T) {
	st := &requests.Status{
		SearchRequest: requests.SearchRequest{RequestID: "abc-123"},
	}

	var buf bytes.Buffer
	Status(&buf, st)
	out := buf.String()

	if strings.Contains(out, "yes") {
		t.Errorf("pending status rendered as completed:\n%s", out)
	}
	if !strings.Contains(out, "abc-123") {
		t.Errorf("output missing request ID:\n%s", out)
	}
}

func TestLogsLevelFilter(t *testing.T) {
	logs := []requests.LogEntry{
		{Level: "debug", Timestamp: "2019-02-11T00:00:01", Message: "queued"},
		{Level: "info", Timestamp: "2019-02-11T00:00:02", Message: "search started"},
		{Level: "ERROR", Timestamp: "2019-02-11T00:00:03", Message: "criteria block rejected"},
	}

	var all bytes.Buffer
	Logs(&all, logs, "")
	if out := all.String(); !strings.Contains(out, "queued") || !strings.Contains(out, "criteria block rejected") {
		t.Errorf("unfiltered output missing lines:\n%s", out)
	}

	var errOnly bytes.Buffer
	Logs(&errOnly, logs, "error")
	out := errOnly.String()
	if !strings.Contains(out, "criteria block rejected") {
		t.Errorf("filter dropped the matching line:\n%s", out)
	}
	if strings.Contains(out, "search started") {
		t.Errorf("filter kept a non-matching line:\n%s", out)
	}

	var none bytes.Buffer
	Logs(&none, logs, "warn")
	if !strings.Contains(none.String(), "no warn log entries") {
		t.Errorf("empty filter output:\n%s", none.String())
	}
}

func TestSources(t *testing.T) {
	list := []sources.DataSource{
		{Identifier: 3, Program: "swarm", Platform: "swarma", InstrumentType: "footprint",
			SourceType: "leo", DisplayName: "Swarm A"},
		{Identifier: 44, Program: "themis-asi", Platform: "gillam", InstrumentType: "panchromatic ASI",
			SourceType: "ground", DisplayName: strings.Repeat("x", 60)},
	}

	var buf bytes.Buffer
	Sources(&buf, list)
	out := buf.String()

	for _, part := range []string{"PROGRAM", "swarm", "themis-asi", "44", "2 data sources"} {
		if !strings.Contains(out, part) {
			t.Errorf("output missing %q:\n%s", part, out)
		}
	}
	if strings.Contains(out, strings.Repeat("x", 60)) {
		t.Error("long display name not truncated")
	}
	if !strings.Contains(out, "...") {
		t.Errorf("truncation marker missing:\n%s", out)
	}
}

func TestHistory(t *testing.T) {
	entries := []history.Entry{
		{
			RequestID:   "abc-123",
			Kind:        "conjunctions",
			SubmittedAt: time.Now().Add(-2 * time.Hour),
			WindowStart: "2019-02-01T00:00:00",
			WindowEnd:   "2019-02-10T23:59:59",
			Completed:   true,
			ResultCount: i64(42),
			FileSize:    i64(4096),
		},
		{
			RequestID:   "def-456",
			Kind:        "ephemeris",
			SubmittedAt: time.Now().Add(-time.Minute),
		},
	}

	var buf bytes.Buffer
	History(&buf, entries)
	out := buf.String()

	for _, part := range []string{"abc-123", "conjunctions", "completed", "pending", "ago", "42", "kB"} {
		if !strings.Contains(out, part) {
			t.Errorf("output missing %q:\n%s", part, out)
		}
	}
}
