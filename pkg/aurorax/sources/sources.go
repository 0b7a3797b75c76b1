// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package sources reads the AuroraX data source catalogue. Search result
// records embed catalogue entries as summaries; the CLI lists the
// catalogue for criteria discovery.
package sources

import (
	"context"
	"net/url"

	"github.com/aurorax-space/go-aurorax/pkg/aurorax"
)

// Catalogue record formats.
const (
	FormatBasicInfo      = "basic_info"
	FormatIdentifierOnly = "identifier_only"
	FormatFullRecord     = "full_record"
)

// DataSource describes one instrument array or spacecraft in the
// catalogue. The identifier is assigned by the API and referenced by
// ephemeris and data product records.
type DataSource struct {
	Identifier     int64  `json:"identifier"`
	Program        string `json:"program"`
	Platform       string `json:"platform"`
	InstrumentType string `json:"instrument_type"`
	SourceType     string `json:"source_type,omitempty"`
	DisplayName    string `json:"display_name,omitempty"`
	Owner          string `json:"owner,omitempty"`
}

// Filters narrows a catalogue listing. Zero-value fields are not applied.
type Filters struct {
	Program        string
	Platform       string
	InstrumentType string
	SourceType     string
	Owner          string
	// Format selects the record shape, default FormatBasicInfo.
	Format string
}

// List fetches the catalogue entries matching f.
func List(ctx context.Context, c *aurorax.Client, f Filters) ([]DataSource, error) {
	params := url.Values{}
	if f.Program != "" {
		params.Set("program", f.Program)
	}
	if f.Platform != "" {
		params.Set("platform", f.Platform)
	}
	if f.InstrumentType != "" {
		params.Set("instrument_type", f.InstrumentType)
	}
	if f.SourceType != "" {
		params.Set("source_type", f.SourceType)
	}
	if f.Owner != "" {
		params.Set("owner", f.Owner)
	}
	format := f.Format
	if format == "" {
		format = FormatBasicInfo
	}
	params.Set("format", format)

	res, err := c.Get(ctx, c.DataSourcesURL()+"?"+params.Encode())
	if err != nil {
		return nil, err
	}

	var out []DataSource
	if err := res.Decode(&out); err != nil {
		return nil, err
	}
	return out, nil
}
