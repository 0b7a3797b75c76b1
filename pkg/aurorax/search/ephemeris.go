// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aurorax-space/go-aurorax/pkg/aurorax"
)

// FilterParams are the criteria shared by ephemeris and data product
// searches: one set of data source filters over a time window.
type FilterParams struct {
	Start           time.Time
	End             time.Time
	Programs        []string
	Platforms       []string
	InstrumentTypes []string

	// MetadataFilters are passed through to the engine unevaluated.
	MetadataFilters []FilterExpression
	// MetadataFiltersOperator combines the expressions, "AND" or "OR".
	// Defaults to AND when expressions are present.
	MetadataFiltersOperator string

	// ResponseFormat, when set, shapes retrieved records, which then
	// stay raw.
	ResponseFormat map[string]any
}

// Validate checks that at least one criterion narrows the search. The
// engine rejects unconstrained searches, so this fails fast before any
// network traffic. A metadata filter alone is a valid constraint.
func (p FilterParams) Validate() error {
	if len(p.Programs) == 0 && len(p.Platforms) == 0 && len(p.InstrumentTypes) == 0 &&
		len(p.MetadataFilters) == 0 {
		return fmt.Errorf("%w: at least one of programs, platforms, instrument_types, or metadata_filters is required",
			aurorax.ErrBadParameters)
	}
	return nil
}

// buildQuery assembles the shared wire query from the parameters.
func (p FilterParams) buildQuery() FilterQuery {
	var set MetadataFilterSet
	if len(p.MetadataFilters) > 0 {
		op := p.MetadataFiltersOperator
		if op == "" {
			op = "AND"
		}
		set = MetadataFilterSet{LogicalOperator: op, Expressions: p.MetadataFilters}
	}
	return FilterQuery{
		DataSources: SourceFilters{
			Programs:        emptyIfNil(p.Programs),
			Platforms:       emptyIfNil(p.Platforms),
			InstrumentTypes: emptyIfNil(p.InstrumentTypes),
			MetadataFilters: set,
		},
		Start: Timestamp{p.Start},
		End:   Timestamp{p.End},
	}
}

// filterParamsFromQuery reverses buildQuery for resubmission.
func filterParamsFromQuery(q FilterQuery) FilterParams {
	return FilterParams{
		Start:                   q.Start.Time,
		End:                     q.End.Time,
		Programs:                q.DataSources.Programs,
		Platforms:               q.DataSources.Platforms,
		InstrumentTypes:         q.DataSources.InstrumentTypes,
		MetadataFilters:         q.DataSources.MetadataFilters.Expressions,
		MetadataFiltersOperator: q.DataSources.MetadataFilters.LogicalOperator,
	}
}

// EphemerisSearch retrieves location records for the matching data
// sources over the search window.
type EphemerisSearch struct {
	Request
	FilterParams

	// Data holds typed results after GetData on a completed search.
	Data []Ephemeris
	// Raw holds verbatim records when ResponseFormat shaped them.
	Raw []json.RawMessage
}

// NewEphemeris builds an ephemeris search bound to c.
func NewEphemeris(c *aurorax.Client, p FilterParams) *EphemerisSearch {
	return &EphemerisSearch{Request: newRequest(c, aurorax.KindEphemeris), FilterParams: p}
}

// NewEphemerisFromQuery rebuilds a runnable search from a wire query.
func NewEphemerisFromQuery(c *aurorax.Client, q FilterQuery) *EphemerisSearch {
	return NewEphemeris(c, filterParamsFromQuery(q))
}

// BuildQuery assembles the wire query from the current parameters.
func (s *EphemerisSearch) BuildQuery() FilterQuery {
	return s.buildQuery()
}

// Execute validates the criteria and submits the search.
func (s *EphemerisSearch) Execute(ctx context.Context) error {
	if err := s.Validate(); err != nil {
		return err
	}
	return s.submit(ctx, s.BuildQuery())
}

// GetData retrieves and decodes the result records of a completed
// search. Before completion it is a no-op. With a ResponseFormat the
// records stay verbatim in Raw; otherwise they decode into Data.
func (s *EphemerisSearch) GetData(ctx context.Context) error {
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
	data, err := decodeRecords[Ephemeris](raw)
	if err != nil {
		return err
	}
	s.Data = data
	return nil
}
