package main

import (
	"time"

	"github.com/aurorax-space/go-aurorax/pkg/aurorax/search"
)

// Query templates written by the template subcommands. Values are real
// catalogue entries so an unedited template still runs.

func templateWindow() (search.Timestamp, search.Timestamp) {
	start := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	return search.Timestamp{Time: start}, search.Timestamp{Time: start.Add(24*time.Hour - time.Second)}
}

func conjunctionTemplate() search.ConjunctionQuery {
	start, end := templateWindow()
	distance := 500.0
	return search.ConjunctionQuery{
		Start: start,
		End:   end,
		Ground: []search.CriteriaBlock{{
			Programs: []string{"themis-asi"},
			MetadataFilters: &search.MetadataFilterSet{
				LogicalOperator: "AND",
				Expressions: []search.FilterExpression{{
					Key:      "calgary_apa_ml_v1",
					Operator: "in",
					Values:   []any{"classified as APA"},
				}},
			},
		}},
		Space: []search.CriteriaBlock{{
			Programs:   []string{"swarm"},
			Hemisphere: []string{"northern"},
		}},
		Events:           []search.CriteriaBlock{},
		ConjunctionTypes: []string{search.ConjunctionTypeNBTrace},
		MaxDistances: map[string]*float64{
			"ground1-space1": &distance,
		},
		EpochSearchPrecision: 60,
	}
}

func filterTemplate(instrumentTypes []string) search.FilterQuery {
	start, end := templateWindow()
	return search.FilterQuery{
		DataSources: search.SourceFilters{
			Programs:        []string{"swarm"},
			Platforms:       []string{"swarma"},
			InstrumentTypes: instrumentTypes,
		},
		Start: start,
		End:   end,
	}
}

func ephemerisTemplate() search.FilterQuery {
	return filterTemplate([]string{"footprint"})
}

func dataProductsTemplate() search.FilterQuery {
	q := filterTemplate([]string{"panchromatic ASI"})
	q.DataSources.Programs = []string{"themis-asi"}
	q.DataSources.Platforms = []string{"gillam"}
	return q
}
