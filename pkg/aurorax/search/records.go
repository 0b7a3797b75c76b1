// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aurorax-space/go-aurorax/pkg/aurorax"
	"github.com/aurorax-space/go-aurorax/pkg/aurorax/sources"
)

// Location is a latitude/longitude pair. Both coordinates null means the
// position is unknown for that record. A coordinate object present in a
// record must carry both keys; anything else is malformed.
type Location struct {
	Lat *float64 `json:"lat"`
	Lon *float64 `json:"lon"`
}

// UnmarshalJSON enforces the pair layout.
func (l *Location) UnmarshalJSON(b []byte) error {
	var m map[string]json.RawMessage
	if err := json.Unmarshal(b, &m); err != nil {
		return fmt.Errorf("%w: location: %v", aurorax.ErrMalformedData, err)
	}
	latRaw, latOK := m["lat"]
	lonRaw, lonOK := m["lon"]
	if !latOK || !lonOK {
		return fmt.Errorf("%w: location object missing lat or lon", aurorax.ErrMalformedData)
	}
	if err := json.Unmarshal(latRaw, &l.Lat); err != nil {
		return fmt.Errorf("%w: location lat: %v", aurorax.ErrMalformedData, err)
	}
	if err := json.Unmarshal(lonRaw, &l.Lon); err != nil {
		return fmt.Errorf("%w: location lon: %v", aurorax.ErrMalformedData, err)
	}
	return nil
}

// Ephemeris is one location record for a data source at one epoch. The
// coordinate fields are optional: sources without a given coordinate
// system leave them null.
type Ephemeris struct {
	DataSource  sources.DataSource `json:"data_source"`
	Epoch       Timestamp          `json:"epoch"`
	LocationGeo *Location          `json:"location_geo,omitempty"`
	LocationGSM *Location          `json:"location_gsm,omitempty"`
	NBTrace     *Location          `json:"nbtrace,omitempty"`
	SBTrace     *Location          `json:"sbtrace,omitempty"`
	Metadata    map[string]any     `json:"metadata,omitempty"`
}

// DataProduct is one data product reference, such as a keogram or
// summary plot, covering a time range.
type DataProduct struct {
	DataSource      sources.DataSource `json:"data_source"`
	DataProductType string             `json:"data_product_type"`
	Start           Timestamp          `json:"start"`
	End             Timestamp          `json:"end"`
	URL             string             `json:"url"`
	Metadata        map[string]any     `json:"metadata,omitempty"`
}

// Conjunction is one detected conjunction between data sources. Events
// carry the engine's per-pair detail objects verbatim.
type Conjunction struct {
	ConjunctionType string               `json:"conjunction_type"`
	Start           Timestamp            `json:"start"`
	End             Timestamp            `json:"end"`
	DataSources     []sources.DataSource `json:"data_sources"`
	MinDistance     float64              `json:"min_distance"`
	MaxDistance     float64              `json:"max_distance"`
	ClosestEpoch    Timestamp            `json:"closest_epoch"`
	FarthestEpoch   Timestamp            `json:"farthest_epoch"`
	Events          []map[string]any     `json:"events,omitempty"`
}

// decodeRecords converts raw result records into typed records. The
// failing record index is named so one bad record in a large result set
// can be located.
func decodeRecords[T any](raw []json.RawMessage) ([]T, error) {
	out := make([]T, 0, len(raw))
	for i, r := range raw {
		var rec T
		if err := json.Unmarshal(r, &rec); err != nil {
			if errors.Is(err, aurorax.ErrMalformedData) {
				return nil, fmt.Errorf("record %d: %w", i, err)
			}
			return nil, fmt.Errorf("record %d: %w: %v", i, aurorax.ErrMalformedData, err)
		}
		out = append(out, rec)
	}
	return out, nil
}
