// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aurorax-space/go-aurorax/pkg/aurorax"
)

// maxCriteriaBlocks is the engine's limit on ground + space + events
// blocks in one conjunction search.
const maxCriteriaBlocks = 10

// ConjunctionParams are the criteria of a conjunction search.
type ConjunctionParams struct {
	Start  time.Time
	End    time.Time
	Ground []CriteriaBlock
	Space  []CriteriaBlock
	Events []CriteriaBlock

	// ConjunctionTypes defaults to nbtrace when empty.
	ConjunctionTypes []string

	// Distance applies one maximum distance (km) to every block pair.
	Distance *float64
	// Distances sets per-pair maximum distances by "a-b" label key and
	// takes precedence over Distance. Pairs left out stay null, meaning
	// no constraint on that pair.
	Distances map[string]*float64

	// EpochSearchPrecision is the engine's epoch granularity in
	// seconds, 30 or 60. Other values fall back to 60.
	EpochSearchPrecision int

	// ResponseFormat, when set, is POSTed at data retrieval to shape
	// the returned records, which then stay raw.
	ResponseFormat map[string]any
}

// ConjunctionSearch finds moments where the criteria blocks' data
// sources were within a maximum distance of one another.
type ConjunctionSearch struct {
	Request
	ConjunctionParams

	// Data holds typed results after GetData on a completed search.
	Data []Conjunction
	// Raw holds verbatim records when ResponseFormat shaped them.
	Raw []json.RawMessage
}

// NewConjunction builds a conjunction search bound to c. Parameters stay
// mutable until Execute; the wire query is rebuilt from them each time.
func NewConjunction(c *aurorax.Client, p ConjunctionParams) *ConjunctionSearch {
	return &ConjunctionSearch{Request: newRequest(c, aurorax.KindConjunction), ConjunctionParams: p}
}

// NewConjunctionFromQuery rebuilds a runnable search from a wire query,
// typically one echoed by a status snapshot.
func NewConjunctionFromQuery(c *aurorax.Client, q ConjunctionQuery) *ConjunctionSearch {
	return NewConjunction(c, ConjunctionParams{
		Start:                q.Start.Time,
		End:                  q.End.Time,
		Ground:               q.Ground,
		Space:                q.Space,
		Events:               q.Events,
		ConjunctionTypes:     q.ConjunctionTypes,
		Distances:            q.MaxDistances,
		EpochSearchPrecision: q.EpochSearchPrecision,
	})
}

// Validate checks the criteria without touching the network.
func (s *ConjunctionSearch) Validate() error {
	blocks := len(s.Ground) + len(s.Space) + len(s.Events)
	if blocks > maxCriteriaBlocks {
		return fmt.Errorf("%w: criteria block count %d exceeds maximum of %d",
			aurorax.ErrBadParameters, blocks, maxCriteriaBlocks)
	}
	return nil
}

// BuildQuery assembles the wire query from the current parameters. It is
// recomputed on every call, so parameter edits between submissions are
// always reflected.
func (s *ConjunctionSearch) BuildQuery() ConjunctionQuery {
	types := s.ConjunctionTypes
	if len(types) == 0 {
		types = []string{ConjunctionTypeNBTrace}
	}
	return ConjunctionQuery{
		Start:            Timestamp{s.Start},
		End:              Timestamp{s.End},
		Ground:           emptyIfNil(s.Ground),
		Space:            emptyIfNil(s.Space),
		Events:           emptyIfNil(s.Events),
		ConjunctionTypes: types,
		MaxDistances: normalizeDistances(len(s.Ground), len(s.Space), len(s.Events),
			s.Distance, s.Distances),
		EpochSearchPrecision: normalizeEpochPrecision(s.EpochSearchPrecision),
	}
}

// Execute validates the criteria and submits the search.
func (s *ConjunctionSearch) Execute(ctx context.Context) error {
	if err := s.Validate(); err != nil {
		return err
	}
	return s.submit(ctx, s.BuildQuery())
}

// GetData retrieves and decodes the result records of a completed
// search. Before completion it is a no-op. With a ResponseFormat the
// records stay verbatim in Raw; otherwise they decode into Data.
func (s *ConjunctionSearch) GetData(ctx context.Context) error {
	var format any
	if s.ResponseFormat != nil {
		format = s.ResponseFormat
	}
	raw, ok, err := s.fetchData(ctx, format)
	if err != nil || !ok {
		return err
	}
	if s.ResponseFormat != nil {
		s.Raw = raw
		return nil
	}
	data, err := decodeRecords[Conjunction](raw)
	if err != nil {
		return err
	}
	s.Data = data
	return nil
}

// Describe translates the current query into the engine's SQL-like
// human-readable form without running it.
func (s *ConjunctionSearch) Describe(ctx context.Context) (string, error) {
	res, err := s.client.Post(ctx, s.client.DescribeConjunctionURL(), s.BuildQuery())
	if err != nil {
		return "", err
	}
	var out string
	if err := res.Decode(&out); err != nil {
		return "", err
	}
	return out, nil
}
