// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/aurorax-space/go-aurorax/pkg/aurorax"
)

// TimeLayout is the wire format for all query and record timestamps:
// second precision, no zone designator. The API treats every timestamp
// as UTC.
const TimeLayout = "2006-01-02T15:04:05"

// Timestamp wraps time.Time with the API's wire format. JSON and YAML
// codecs both use TimeLayout; parse failures surface as malformed data.
type Timestamp struct {
	time.Time
}

// MarshalJSON renders the timestamp in the wire format.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Format(TimeLayout))
}

// UnmarshalJSON parses a wire-format timestamp string.
func (t *Timestamp) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("%w: timestamp: %v", aurorax.ErrMalformedData, err)
	}
	parsed, err := time.Parse(TimeLayout, s)
	if err != nil {
		return fmt.Errorf("%w: timestamp %q: expected YYYY-MM-DDTHH:MM:SS", aurorax.ErrMalformedData, s)
	}
	t.Time = parsed
	return nil
}

// MarshalYAML renders the timestamp in the wire format.
func (t Timestamp) MarshalYAML() (any, error) {
	return t.Format(TimeLayout), nil
}

// UnmarshalYAML parses a wire-format timestamp. YAML resolvers may hand
// the scalar over as a native timestamp, which is accepted too.
func (t *Timestamp) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err == nil {
		parsed, perr := time.Parse(TimeLayout, s)
		if perr != nil {
			return fmt.Errorf("%w: timestamp %q: expected YYYY-MM-DDTHH:MM:SS", aurorax.ErrMalformedData, s)
		}
		t.Time = parsed
		return nil
	}
	var native time.Time
	if err := value.Decode(&native); err != nil {
		return fmt.Errorf("%w: timestamp: %v", aurorax.ErrMalformedData, err)
	}
	t.Time = native
	return nil
}

// CriteriaBlock narrows one group of data sources. Values within a list
// are ORed, fields are ANDed.
type CriteriaBlock struct {
	Programs        []string           `json:"programs,omitempty" yaml:"programs,omitempty"`
	Platforms       []string           `json:"platforms,omitempty" yaml:"platforms,omitempty"`
	InstrumentTypes []string           `json:"instrument_types,omitempty" yaml:"instrument_types,omitempty"`
	Hemisphere      []string           `json:"hemisphere,omitempty" yaml:"hemisphere,omitempty"`
	MetadataFilters *MetadataFilterSet `json:"ephemeris_metadata_filters,omitempty" yaml:"ephemeris_metadata_filters,omitempty"`
}

// MetadataFilterSet combines filter expressions under one logical
// operator, "AND" or "OR". Expressions are opaque to the client and
// evaluated by the search engine. An empty set serializes as {}.
type MetadataFilterSet struct {
	LogicalOperator string             `json:"logical_operator,omitempty" yaml:"logical_operator,omitempty"`
	Expressions     []FilterExpression `json:"expressions,omitempty" yaml:"expressions,omitempty"`
}

// MarshalJSON emits {} for an empty set, which is what the engine
// expects when no filters are given.
func (m MetadataFilterSet) MarshalJSON() ([]byte, error) {
	if m.LogicalOperator == "" && len(m.Expressions) == 0 {
		return []byte("{}"), nil
	}
	type plain MetadataFilterSet
	return json.Marshal(plain(m))
}

// FilterExpression is one metadata predicate passed through to the
// engine unevaluated.
type FilterExpression struct {
	Key      string `json:"key" yaml:"key"`
	Operator string `json:"operator" yaml:"operator"`
	Values   []any  `json:"values" yaml:"values"`
}

// Conjunction types understood by the engine.
const (
	ConjunctionTypeNBTrace    = "nbtrace"
	ConjunctionTypeSBTrace    = "sbtrace"
	ConjunctionTypeGeographic = "geographic"
)

// ConjunctionQuery is the wire form of a conjunction search, as POSTed
// to the API and echoed back in status snapshots. BuildQuery assembles
// it; ParseConjunctionQuery reverses the echo for resubmission.
type ConjunctionQuery struct {
	Start                Timestamp           `json:"start" yaml:"start"`
	End                  Timestamp           `json:"end" yaml:"end"`
	Ground               []CriteriaBlock     `json:"ground" yaml:"ground"`
	Space                []CriteriaBlock     `json:"space" yaml:"space"`
	Events               []CriteriaBlock     `json:"events" yaml:"events"`
	ConjunctionTypes     []string            `json:"conjunction_types" yaml:"conjunction_types"`
	MaxDistances         map[string]*float64 `json:"max_distances" yaml:"max_distances"`
	EpochSearchPrecision int                 `json:"epoch_search_precision" yaml:"epoch_search_precision"`
}

// SourceFilters is the data_sources object of a FilterQuery.
type SourceFilters struct {
	Programs        []string          `json:"programs" yaml:"programs"`
	Platforms       []string          `json:"platforms" yaml:"platforms"`
	InstrumentTypes []string          `json:"instrument_types" yaml:"instrument_types"`
	MetadataFilters MetadataFilterSet `json:"ephemeris_metadata_filters" yaml:"ephemeris_metadata_filters"`
}

// FilterQuery is the wire form shared by ephemeris and data product
// searches.
type FilterQuery struct {
	DataSources SourceFilters `json:"data_sources" yaml:"data_sources"`
	Start       Timestamp     `json:"start" yaml:"start"`
	End         Timestamp     `json:"end" yaml:"end"`
}

// ParseConjunctionQuery decodes a wire conjunction query, as echoed by a
// status snapshot or stored in a query file.
func ParseConjunctionQuery(raw []byte) (ConjunctionQuery, error) {
	var q ConjunctionQuery
	if err := json.Unmarshal(raw, &q); err != nil {
		if errors.Is(err, aurorax.ErrMalformedData) {
			return q, err
		}
		return q, fmt.Errorf("%w: conjunction query: %v", aurorax.ErrMalformedData, err)
	}
	return q, nil
}

// ParseFilterQuery decodes a wire ephemeris or data product query.
func ParseFilterQuery(raw []byte) (FilterQuery, error) {
	var q FilterQuery
	if err := json.Unmarshal(raw, &q); err != nil {
		if errors.Is(err, aurorax.ErrMalformedData) {
			return q, err
		}
		return q, fmt.Errorf("%w: search query: %v", aurorax.ErrMalformedData, err)
	}
	return q, nil
}

// normalizeEpochPrecision clamps the epoch precision to the values the
// engine accepts.
func normalizeEpochPrecision(p int) int {
	if p == 30 || p == 60 {
		return p
	}
	return 60
}

func emptyIfNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
