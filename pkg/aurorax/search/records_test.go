// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/aurorax-space/go-aurorax/pkg/aurorax"
)

// --- locations ---

func TestLocationUnmarshal(t *testing.T) {
	var loc Location
	if err := json.Unmarshal([]byte(`{"lat": 51.0, "lon": -114.0}`), &loc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if loc.Lat == nil || *loc.Lat != 51.0 {
		t.Errorf("lat = %v, want 51.0", loc.Lat)
	}
	if loc.Lon == nil || *loc.Lon != -114.0 {
		t.Errorf("lon = %v, want -114.0", loc.Lon)
	}
}

func TestLocationUnmarshalNullPair(t *testing.T) {
	var loc Location
	if err := json.Unmarshal([]byte(`{"lat": null, "lon": null}`), &loc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if loc.Lat != nil || loc.Lon != nil {
		t.Errorf("loc = %+v, want both coordinates null", loc)
	}
}

func TestLocationUnmarshalMalformed(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"missing lon", `{"lat": 51.0}`},
		{"missing lat", `{"lon": -114.0}`},
		{"empty object", `{}`},
		{"wrong type", `{"lat": "51", "lon": -114.0}`},
		{"not an object", `[51.0, -114.0]`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var loc Location
			err := json.Unmarshal([]byte(tc.in), &loc)
			if !errors.Is(err, aurorax.ErrMalformedData) {
				t.Errorf("err = %v, want ErrMalformedData", err)
			}
		})
	}
}

// --- typed records ---

const ephemerisRecordJSON = `{
	"data_source": {
		"identifier": 3,
		"program": "swarm",
		"platform": "swarma",
		"instrument_type": "footprint",
		"source_type": "leo",
		"display_name": "Swarm A"
	},
	"epoch": "2019-01-01T06:00:00",
	"location_geo": {"lat": 51.0, "lon": -114.0},
	"location_gsm": {"lat": null, "lon": null},
	"nbtrace": {"lat": 58.24, "lon": -110.5},
	"sbtrace": null,
	"metadata": {"nbtrace_region": "north polar cap"}
}`

func TestDecodeEphemerisRecord(t *testing.T) {
	recs, err := decodeRecords[Ephemeris]([]json.RawMessage{[]byte(ephemerisRecordJSON)})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("len = %d", len(recs))
	}

	rec := recs[0]
	if rec.DataSource.Program != "swarm" || rec.DataSource.Identifier != 3 {
		t.Errorf("data_source = %+v", rec.DataSource)
	}
	if want := time.Date(2019, 1, 1, 6, 0, 0, 0, time.UTC); !rec.Epoch.Equal(want) {
		t.Errorf("epoch = %v, want %v", rec.Epoch.Time, want)
	}
	if rec.LocationGeo == nil || *rec.LocationGeo.Lat != 51.0 || *rec.LocationGeo.Lon != -114.0 {
		t.Errorf("location_geo = %+v, want 51.0/-114.0", rec.LocationGeo)
	}
	if rec.LocationGSM == nil || rec.LocationGSM.Lat != nil {
		t.Errorf("location_gsm = %+v, want present with null coordinates", rec.LocationGSM)
	}
	if rec.SBTrace != nil {
		t.Errorf("sbtrace = %+v, want nil", rec.SBTrace)
	}
	if rec.Metadata["nbtrace_region"] != "north polar cap" {
		t.Errorf("metadata = %v", rec.Metadata)
	}
}

func TestDecodeDataProductRecord(t *testing.T) {
	raw := json.RawMessage(`{
		"data_source": {"identifier": 44, "program": "themis-asi"},
		"data_product_type": "keogram",
		"start": "2020-01-01T00:00:00",
		"end": "2020-01-01T23:59:00",
		"url": "https://data.aurorax.space/keogram.jpg"
	}`)
	recs, err := decodeRecords[DataProduct]([]json.RawMessage{raw})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	rec := recs[0]
	if rec.DataProductType != "keogram" || rec.URL != "https://data.aurorax.space/keogram.jpg" {
		t.Errorf("rec = %+v", rec)
	}
	if rec.DataSource.Identifier != 44 {
		t.Errorf("data_source = %+v", rec.DataSource)
	}
}

func TestDecodeConjunctionRecord(t *testing.T) {
	raw := json.RawMessage(`{
		"conjunction_type": "nbtrace",
		"start": "2019-02-01T06:00:00",
		"end": "2019-02-01T06:02:00",
		"data_sources": [
			{"identifier": 44, "program": "themis-asi"},
			{"identifier": 3, "program": "swarm"}
		],
		"min_distance": 281.3,
		"max_distance": 486.2,
		"closest_epoch": "2019-02-01T06:01:00",
		"farthest_epoch": "2019-02-01T06:02:00",
		"events": [{"e1": "themis-asi", "e2": "swarm"}]
	}`)
	recs, err := decodeRecords[Conjunction]([]json.RawMessage{raw})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	rec := recs[0]
	if rec.ConjunctionType != "nbtrace" {
		t.Errorf("conjunction_type = %q", rec.ConjunctionType)
	}
	if rec.MinDistance != 281.3 || rec.MaxDistance != 486.2 {
		t.Errorf("distances = %v/%v", rec.MinDistance, rec.MaxDistance)
	}
	if len(rec.DataSources) != 2 || rec.DataSources[1].Program != "swarm" {
		t.Errorf("data_sources = %+v", rec.DataSources)
	}
	if len(rec.Events) != 1 || rec.Events[0]["e1"] != "themis-asi" {
		t.Errorf("events = %+v", rec.Events)
	}
}

// --- malformed records ---

func TestDecodeRecordsNamesFailingIndex(t *testing.T) {
	good := json.RawMessage(`{"epoch": "2019-01-01T06:00:00"}`)
	bad := json.RawMessage(`{"epoch": "not-a-time"}`)

	_, err := decodeRecords[Ephemeris]([]json.RawMessage{good, bad})
	if !errors.Is(err, aurorax.ErrMalformedData) {
		t.Fatalf("err = %v, want ErrMalformedData", err)
	}
	if !strings.Contains(err.Error(), "record 1") {
		t.Errorf("err = %v, want the failing record index named", err)
	}
}

func TestDecodeRecordsBadLocation(t *testing.T) {
	raw := json.RawMessage(`{"epoch": "2019-01-01T06:00:00", "location_geo": {"lat": 51.0}}`)
	_, err := decodeRecords[Ephemeris]([]json.RawMessage{raw})
	if !errors.Is(err, aurorax.ErrMalformedData) {
		t.Errorf("err = %v, want ErrMalformedData", err)
	}
}
