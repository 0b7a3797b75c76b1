// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/aurorax-space/go-aurorax/pkg/aurorax"
)

// --- timestamps ---

func TestTimestampJSON(t *testing.T) {
	ts := Timestamp{time.Date(2020, 1, 1, 6, 0, 0, 0, time.UTC)}
	b, err := json.Marshal(ts)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `"2020-01-01T06:00:00"` {
		t.Errorf("marshal = %s", b)
	}

	var back Timestamp
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !back.Equal(ts.Time) {
		t.Errorf("round trip = %v, want %v", back.Time, ts.Time)
	}
}

func TestTimestampJSONMalformed(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"zone designator", `"2020-01-01T06:00:00Z"`},
		{"date only", `"2020-01-01"`},
		{"not a string", `1577858400`},
		{"garbage", `"yesterday"`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var ts Timestamp
			err := json.Unmarshal([]byte(tc.in), &ts)
			if !errors.Is(err, aurorax.ErrMalformedData) {
				t.Errorf("err = %v, want ErrMalformedData", err)
			}
		})
	}
}

func TestTimestampYAML(t *testing.T) {
	want := time.Date(2020, 1, 1, 6, 0, 0, 0, time.UTC)
	tests := []struct {
		name string
		in   string
	}{
		{"quoted", `ts: "2020-01-01T06:00:00"`},
		{"unquoted", `ts: 2020-01-01T06:00:00`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var doc struct {
				TS Timestamp `yaml:"ts"`
			}
			if err := yaml.Unmarshal([]byte(tc.in), &doc); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if !doc.TS.Equal(want) {
				t.Errorf("ts = %v, want %v", doc.TS.Time, want)
			}
		})
	}
}

// --- metadata filters ---

func TestMetadataFilterSetEmptyMarshalsAsBraces(t *testing.T) {
	b, err := json.Marshal(MetadataFilterSet{})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != "{}" {
		t.Errorf("marshal = %s, want {}", b)
	}
}

func TestMetadataFilterSetMarshal(t *testing.T) {
	set := MetadataFilterSet{
		LogicalOperator: "AND",
		Expressions: []FilterExpression{
			{Key: "nbtrace_region", Operator: "=", Values: []any{"north polar cap"}},
		},
	}
	b, err := json.Marshal(set)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	for _, part := range []string{`"logical_operator":"AND"`, `"nbtrace_region"`, `"north polar cap"`} {
		if !strings.Contains(string(b), part) {
			t.Errorf("marshal = %s, missing %s", b, part)
		}
	}
}

// --- epoch precision ---

func TestNormalizeEpochPrecision(t *testing.T) {
	tests := []struct {
		in, want int
	}{
		{30, 30},
		{60, 60},
		{0, 60},
		{45, 60},
		{-1, 60},
	}
	for _, tc := range tests {
		if got := normalizeEpochPrecision(tc.in); got != tc.want {
			t.Errorf("normalizeEpochPrecision(%d) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

// --- wire shape ---

func TestFilterQueryEmptyFiltersSerializeAsBraces(t *testing.T) {
	c := aurorax.New(aurorax.Config{})
	s := NewEphemeris(c, FilterParams{
		Start:    time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC),
		End:      time.Date(2019, 1, 1, 23, 59, 59, 0, time.UTC),
		Programs: []string{"swarm"},
	})
	b, err := json.Marshal(s.BuildQuery())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	for _, part := range []string{
		`"ephemeris_metadata_filters":{}`,
		`"programs":["swarm"]`,
		`"platforms":[]`,
		`"start":"2019-01-01T00:00:00"`,
	} {
		if !strings.Contains(string(b), part) {
			t.Errorf("query = %s, missing %s", b, part)
		}
	}
}

func TestConjunctionQueryDefaults(t *testing.T) {
	c := aurorax.New(aurorax.Config{})
	s := NewConjunction(c, ConjunctionParams{
		Start:  time.Date(2019, 2, 1, 0, 0, 0, 0, time.UTC),
		End:    time.Date(2019, 2, 10, 23, 59, 59, 0, time.UTC),
		Ground: []CriteriaBlock{{Programs: []string{"themis-asi"}}},
		Space:  []CriteriaBlock{{Programs: []string{"swarm"}}},
	})
	q := s.BuildQuery()

	if len(q.ConjunctionTypes) != 1 || q.ConjunctionTypes[0] != ConjunctionTypeNBTrace {
		t.Errorf("conjunction_types = %v, want default nbtrace", q.ConjunctionTypes)
	}
	if q.EpochSearchPrecision != 60 {
		t.Errorf("epoch_search_precision = %d, want 60", q.EpochSearchPrecision)
	}
	if len(q.MaxDistances) != 1 {
		t.Errorf("max_distances = %v, want one pair", q.MaxDistances)
	}
	if q.Events == nil {
		t.Error("events must serialize as an empty list, not null")
	}
}

// --- round trips ---

func TestConjunctionQueryRoundTrip(t *testing.T) {
	c := aurorax.New(aurorax.Config{})
	s := NewConjunction(c, ConjunctionParams{
		Start:  time.Date(2019, 2, 1, 0, 0, 0, 0, time.UTC),
		End:    time.Date(2019, 2, 10, 23, 59, 59, 0, time.UTC),
		Ground: []CriteriaBlock{{Programs: []string{"themis-asi"}}},
		Space: []CriteriaBlock{
			{Programs: []string{"swarm"}, Hemisphere: []string{"northern"}},
			{Programs: []string{"themis"}},
		},
		ConjunctionTypes:     []string{ConjunctionTypeSBTrace},
		Distances:            map[string]*float64{"space1-ground1": f64(500)},
		EpochSearchPrecision: 45,
	})

	first, err := json.Marshal(s.BuildQuery())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	parsed, err := ParseConjunctionQuery(first)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	second, err := json.Marshal(NewConjunctionFromQuery(c, parsed).BuildQuery())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Errorf("round trip changed the query:\n first = %s\nsecond = %s", first, second)
	}
	if !strings.Contains(string(first), `"ground1-space1":500`) {
		t.Errorf("query = %s, missing canonical distance pair", first)
	}
}

func TestFilterQueryRoundTrip(t *testing.T) {
	c := aurorax.New(aurorax.Config{})
	s := NewDataProducts(c, FilterParams{
		Start:           time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
		End:             time.Date(2020, 1, 2, 0, 0, 0, 0, time.UTC),
		Programs:        []string{"auroramax"},
		InstrumentTypes: []string{"DSLR"},
		MetadataFilters: []FilterExpression{
			{Key: "keogram_type", Operator: "=", Values: []any{"daily"}},
		},
	})

	first, err := json.Marshal(s.BuildQuery())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	parsed, err := ParseFilterQuery(first)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	second, err := json.Marshal(NewDataProductsFromQuery(c, parsed).BuildQuery())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Errorf("round trip changed the query:\n first = %s\nsecond = %s", first, second)
	}
}

func TestParseConjunctionQueryMalformed(t *testing.T) {
	if _, err := ParseConjunctionQuery([]byte("{not json")); !errors.Is(err, aurorax.ErrMalformedData) {
		t.Errorf("err = %v, want ErrMalformedData", err)
	}
	if _, err := ParseFilterQuery([]byte(`{"start": 42}`)); !errors.Is(err, aurorax.ErrMalformedData) {
		t.Errorf("err = %v, want ErrMalformedData", err)
	}
}
