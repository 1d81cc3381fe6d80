// Package pagination implements page-number pagination for listing
// endpoints. Each resource fixes its own page size; callers select the
// page with the `page` query parameter.
package pagination

import (
	"net/url"
	"strconv"
)

const (
	DefaultEventPageSize    = 15
	DefaultAttendeePageSize = 5
)

type Params struct {
	Page    int
	PerPage int
}

// Parse reads the `page` parameter. Missing, malformed, or non-positive
// values fall back to page 1.
func Parse(values url.Values, perPage int) Params {
	page := 1
	if raw := values.Get("page"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			page = parsed
		}
	}
	return Params{Page: page, PerPage: perPage}
}

// Offset returns the row offset for the page.
func (p Params) Offset() int {
	return (p.Page - 1) * p.PerPage
}

type Meta struct {
	CurrentPage int `json:"current_page"`
	PerPage     int `json:"per_page"`
	LastPage    int `json:"last_page"`
	Total       int `json:"total"`
}

// MetaFor builds response metadata from the params and the total row
// count. LastPage is never below 1, even for an empty result.
func MetaFor(p Params, total int) Meta {
	lastPage := 1
	if total > 0 && p.PerPage > 0 {
		lastPage = (total + p.PerPage - 1) / p.PerPage
	}
	return Meta{
		CurrentPage: p.Page,
		PerPage:     p.PerPage,
		LastPage:    lastPage,
		Total:       total,
	}
}
