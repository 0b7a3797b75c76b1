// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"encoding/json"

	"github.com/aurorax-space/go-aurorax/pkg/aurorax"
)

// DataProductsSearch retrieves data product references for the matching
// data sources over the search window. It shares its criteria shape
// with EphemerisSearch.
type DataProductsSearch struct {
	Request
	FilterParams

	// Data holds typed results after GetData on a completed search.
	Data []DataProduct
	// Raw holds verbatim records when ResponseFormat shaped them.
	Raw []json.RawMessage
}

// NewDataProducts builds a data product search bound to c.
func NewDataProducts(c *aurorax.Client, p FilterParams) *DataProductsSearch {
	return &DataProductsSearch{Request: newRequest(c, aurorax.KindDataProducts), FilterParams: p}
}

// NewDataProductsFromQuery rebuilds a runnable search from a wire query.
func NewDataProductsFromQuery(c *aurorax.Client, q FilterQuery) *DataProductsSearch {
	return NewDataProducts(c, filterParamsFromQuery(q))
}

// BuildQuery assembles the wire query from the current parameters.
func (s *DataProductsSearch) BuildQuery() FilterQuery {
	return s.buildQuery()
}

// Execute validates the criteria and submits the search.
func (s *DataProductsSearch) Execute(ctx context.Context) error {
	if err := s.Validate(); err != nil {
		return err
	}
	return s.submit(ctx, s.BuildQuery())
}

// GetData retrieves and decodes the result records of a completed
// search. Before completion it is a no-op. With a ResponseFormat the
// records stay verbatim in Raw; otherwise they decode into Data.
func (s *DataProductsSearch) GetData(ctx context.Context) error {
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
	data, err := decodeRecords[DataProduct](raw)
	if err != nil {
		return err
	}
	s.Data = data
	return nil
}
