// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package aurorax

const apiPrefix = "/api/v1"

// Kind identifies one of the asynchronous search families. The value is
// the API path segment for that family.
type Kind string

const (
	KindConjunction  Kind = "conjunctions"
	KindEphemeris    Kind = "ephemeris"
	KindDataProducts Kind = "data_products"
)

// SearchURL returns the submission endpoint for a search kind.
func (c *Client) SearchURL(kind Kind) string {
	return c.baseURL + apiPrefix + "/" + string(kind) + "/search"
}

// RequestURL returns the status endpoint for a submitted search request.
func (c *Client) RequestURL(kind Kind, requestID string) string {
	return c.baseURL + apiPrefix + "/" + string(kind) + "/requests/" + requestID
}

// DataURL joins the relative data URI reported by a completed search onto
// the API base.
func (c *Client) DataURL(dataURI string) string {
	return c.baseURL + dataURI
}

// DataSourcesURL returns the data source catalogue endpoint.
func (c *Client) DataSourcesURL() string {
	return c.baseURL + apiPrefix + "/data_sources"
}

// DescribeConjunctionURL returns the endpoint translating a conjunction
// query into its human-readable description.
func (c *Client) DescribeConjunctionURL() string {
	return c.baseURL + apiPrefix + "/utils/describe/query/conjunction"
}
